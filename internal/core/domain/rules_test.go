package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ifm_report_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountCodeFor(t *testing.T) {
	tests := []struct {
		name       string
		entityType string
		want       string
	}{
		{name: "intra-firm vendor", entityType: "IFM", want: domain.AccountIntraFirm},
		{name: "external vendor", entityType: "External", want: domain.AccountExternal},
		{name: "unmatched vendor", entityType: "", want: domain.AccountExternal},
		{name: "marker is case sensitive", entityType: "ifm", want: domain.AccountExternal},
		{name: "marker is not trimmed", entityType: " IFM", want: domain.AccountExternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.AccountCodeFor(tt.entityType)
			assert.Equal(t, tt.want, got)
			assert.True(t, domain.IsValidAccountCode(got))
		})
	}
}

func TestIsValidAccountCode(t *testing.T) {
	assert.True(t, domain.IsValidAccountCode("38200015"))
	assert.True(t, domain.IsValidAccountCode("38000000"))
	assert.False(t, domain.IsValidAccountCode(""))
	assert.False(t, domain.IsValidAccountCode("38200016"))
}

func TestSubAreaFor(t *testing.T) {
	tests := []struct {
		country string
		want    string
	}{
		{country: "China", want: "Great China"},
		{country: "China-HK", want: "Great China"},
		{country: "China-TW", want: "Great China"},
		{country: "CHINA", want: ""},
		{country: "China ", want: ""},
		{country: "Hong Kong", want: ""},
		{country: "Japan", want: ""},
		{country: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.SubAreaFor(tt.country))
		})
	}
}

func TestParseJoinPolicy(t *testing.T) {
	p, err := domain.ParseJoinPolicy("")
	require.NoError(t, err)
	assert.Equal(t, domain.JoinAllMatches, p)

	p, err = domain.ParseJoinPolicy(" First ")
	require.NoError(t, err)
	assert.Equal(t, domain.JoinFirstMatch, p)

	_, err = domain.ParseJoinPolicy("last")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown join policy")
}

func TestParseExportFormat(t *testing.T) {
	f, err := domain.ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, domain.FormatCSV, f)

	f, err = domain.ParseExportFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, domain.FormatXLSX, f)

	_, err = domain.ParseExportFormat("pdf")
	assert.Error(t, err)
}

func TestGroupKey(t *testing.T) {
	a := domain.GroupKey{InvoiceNo: "INV1", VendorID: "V2"}
	b := domain.GroupKey{InvoiceNo: "INV1", VendorID: "V3"}
	c := domain.GroupKey{InvoiceNo: "INV2", VendorID: "V1"}

	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(a))
	assert.False(t, a.Less(a))

	assert.True(t, a.Complete())
	assert.False(t, domain.GroupKey{InvoiceNo: "INV1"}.Complete())
	assert.False(t, domain.GroupKey{VendorID: "V1"}.Complete())
}

func TestGroupKey_LessComparesNumbersByValue(t *testing.T) {
	testCases := []struct {
		name string
		a, b domain.GroupKey
		want bool
	}{
		{name: "shorter number first", a: domain.GroupKey{InvoiceNo: "99", VendorID: "V1"}, b: domain.GroupKey{InvoiceNo: "100", VendorID: "V1"}, want: true},
		{name: "longer number after", a: domain.GroupKey{InvoiceNo: "100", VendorID: "V1"}, b: domain.GroupKey{InvoiceNo: "99", VendorID: "V1"}, want: false},
		{name: "numeric vendor ids", a: domain.GroupKey{InvoiceNo: "INV1", VendorID: "9"}, b: domain.GroupKey{InvoiceNo: "INV1", VendorID: "10"}, want: true},
		{name: "numbers before text", a: domain.GroupKey{InvoiceNo: "500", VendorID: "V1"}, b: domain.GroupKey{InvoiceNo: "1a", VendorID: "V1"}, want: true},
		{name: "text after numbers", a: domain.GroupKey{InvoiceNo: "1a", VendorID: "V1"}, b: domain.GroupKey{InvoiceNo: "2", VendorID: "V1"}, want: false},
		{name: "equal values fall back to text", a: domain.GroupKey{InvoiceNo: "1", VendorID: "V1"}, b: domain.GroupKey{InvoiceNo: "1.0", VendorID: "V1"}, want: true},
		{name: "text stays byte-wise", a: domain.GroupKey{InvoiceNo: "INV10", VendorID: "V1"}, b: domain.GroupKey{InvoiceNo: "INV9", VendorID: "V1"}, want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Less(tc.b))
		})
	}
}

func TestAggregatedRecord_Historical(t *testing.T) {
	rec := domain.AggregatedRecord{
		EnrichedRecord: domain.EnrichedRecord{
			InvoiceNo:  "INV1",
			VendorID:   "V1",
			BaseAmount: decimal.NewFromInt(100),
			Account:    domain.AccountExternal,
		},
		ExRateToUSD: decimal.NewFromInt(1),
		Function:    domain.FunctionAP,
		AmountInUSD: decimal.NewFromInt(100),
		SubArea:     domain.SubAreaGreatChina,
	}

	hist := rec.Historical()
	assert.Equal(t, "INV1", hist.InvoiceNo)
	assert.Equal(t, "V1", hist.VendorID)
	assert.True(t, decimal.NewFromInt(100).Equal(hist.BaseAmount))
	assert.Equal(t, domain.AccountExternal, hist.Account)
}

func TestReport_FileName(t *testing.T) {
	r := &domain.Report{GeneratedAt: time.Date(2024, 1, 31, 9, 30, 5, 0, time.UTC)}
	assert.Equal(t, "IFM report 20240131_093005.csv", r.FileName(domain.FormatCSV))
	assert.Equal(t, "IFM report 20240131_093005.xlsx", r.FileName(domain.FormatXLSX))
}

func TestAggregatedColumns(t *testing.T) {
	assert.Len(t, domain.EnrichedColumns, 15)
	assert.Len(t, domain.AggregatedColumns, 19)
	assert.Equal(t, domain.EnrichedColumns, domain.AggregatedColumns[:15])
	assert.Equal(t, []string{"Ex. Rate to USD", "Function", "Amount in USD", "Bill To/Fm SubArea"}, domain.AggregatedColumns[15:])
}
