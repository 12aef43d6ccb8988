package dto

import (
	"mime/multipart"
	"time"

	"github.com/SscSPs/ifm_report_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GenerateReportRequest is the multipart form of POST /reports/ifm.
type GenerateReportRequest struct {
	BOFile        *multipart.FileHeader `form:"bo_file" binding:"required" swaggerignore:"true"`
	MappingFile   *multipart.FileHeader `form:"mapping_file" binding:"required" swaggerignore:"true"`
	LastMonthFile *multipart.FileHeader `form:"last_month_file" swaggerignore:"true"`
	ExchangeRate  string                `form:"exchange_rate" binding:"omitempty,numeric" example:"7.2"`
	Format        string                `form:"format" binding:"omitempty,oneof=csv xlsx json" example:"csv"`
}

// ReportRowResponse is one row of the IFM report.
type ReportRowResponse struct {
	EntityType        string          `json:"entityType"`
	GCCountry         string          `json:"gcCountry"`
	GCLegalEntity     string          `json:"gcLegalEntity"`
	BillToArea        string          `json:"billToArea"`
	BillToCountry     string          `json:"billToCountry"`
	BillToLegalEntity string          `json:"billToLegalEntity"`
	InvoiceNo         string          `json:"invoiceNo"`
	InvoiceDate       string          `json:"invoiceDate"`
	BaseCurrency      string          `json:"baseCurrency"`
	BaseAmount        decimal.Decimal `json:"baseAmount"`
	OriginalCurrency  string          `json:"originalCurrency"`
	OriginalAmount    decimal.Decimal `json:"originalAmount"`
	BusinessUnit      string          `json:"businessUnit"`
	Account           string          `json:"account"`
	VendorID          string          `json:"vendorID"`
	ExRateToUSD       decimal.Decimal `json:"exRateToUSD"`
	Function          string          `json:"function"`
	AmountInUSD       decimal.Decimal `json:"amountInUSD"`
	SubArea           string          `json:"subArea"`
}

// ReportStatsResponse summarises the run.
type ReportStatsResponse struct {
	InputRows          int `json:"inputRows"`
	EnrichedRows       int `json:"enrichedRows"`
	HistoricalRows     int `json:"historicalRows"`
	UnmatchedVendors   int `json:"unmatchedVendors"`
	UnmatchedReceiving int `json:"unmatchedReceiving"`
	UnmatchedAreas     int `json:"unmatchedAreas"`
	SkippedMissingKey  int `json:"skippedMissingKey"`
	ZeroNetGroups      int `json:"zeroNetGroups"`
	ReportedRows       int `json:"reportedRows"`
}

// ReportResponse is the JSON rendering of a generated report.
type ReportResponse struct {
	ReportID     string              `json:"reportID"`
	FileName     string              `json:"fileName"`
	GeneratedAt  time.Time           `json:"generatedAt"`
	ExchangeRate decimal.Decimal     `json:"exchangeRate"`
	Columns      []string            `json:"columns"`
	Rows         []ReportRowResponse `json:"rows"`
	Stats        ReportStatsResponse `json:"stats"`
}

// ToReportResponse converts a domain report to its JSON response.
func ToReportResponse(r *domain.Report) ReportResponse {
	rows := make([]ReportRowResponse, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = ToReportRowResponse(row)
	}
	return ReportResponse{
		ReportID:     r.ReportID,
		FileName:     r.FileName(domain.FormatCSV),
		GeneratedAt:  r.GeneratedAt,
		ExchangeRate: r.ExchangeRate,
		Columns:      domain.AggregatedColumns,
		Rows:         rows,
		Stats: ReportStatsResponse{
			InputRows:          r.Enrichment.InputRows,
			EnrichedRows:       r.Enrichment.OutputRows,
			HistoricalRows:     r.Aggregation.HistoricalRows,
			UnmatchedVendors:   r.Enrichment.UnmatchedVendors,
			UnmatchedReceiving: r.Enrichment.UnmatchedReceiving,
			UnmatchedAreas:     r.Enrichment.UnmatchedAreas,
			SkippedMissingKey:  r.Aggregation.SkippedMissingKey,
			ZeroNetGroups:      r.Aggregation.ZeroNetGroups,
			ReportedRows:       len(r.Rows),
		},
	}
}

// ToReportRowResponse converts one aggregated record.
func ToReportRowResponse(r domain.AggregatedRecord) ReportRowResponse {
	return ReportRowResponse{
		EntityType:        r.EntityType,
		GCCountry:         r.GCCountry,
		GCLegalEntity:     r.GCLegalEntity,
		BillToArea:        r.BillToArea,
		BillToCountry:     r.BillToCountry,
		BillToLegalEntity: r.BillToLegalEntity,
		InvoiceNo:         r.InvoiceNo,
		InvoiceDate:       r.InvoiceDate,
		BaseCurrency:      r.BaseCurrency,
		BaseAmount:        r.BaseAmount,
		OriginalCurrency:  r.OriginalCurrency,
		OriginalAmount:    r.OriginalAmount,
		BusinessUnit:      r.BusinessUnit,
		Account:           r.Account,
		VendorID:          r.VendorID,
		ExRateToUSD:       r.ExRateToUSD,
		Function:          r.Function,
		AmountInUSD:       r.AmountInUSD,
		SubArea:           r.SubArea,
	}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid exchange rate"`
}
