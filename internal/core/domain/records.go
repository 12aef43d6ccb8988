package domain

import "github.com/shopspring/decimal"

// RawRecord is one row of the business-object (BO) extract.
// Empty strings stand in for blank cells.
type RawRecord struct {
	VendorID        string          `json:"vendorID"`        // Vendor Id - AP
	BusinessUnit    string          `json:"businessUnit"`    // Business Unit - AP
	InvoiceID       string          `json:"invoiceID"`       // Invoice Id - AP
	InvoiceDate     string          `json:"invoiceDate"`     // Invoice Date - AP, passed through as displayed
	BaseCurrency    string          `json:"baseCurrency"`    // Currency Cd - AP
	BaseAmount      decimal.Decimal `json:"baseAmount"`      // Monetary Amount Detail - AP
	ForeignCurrency string          `json:"foreignCurrency"` // Foreign Currency - AP
	ForeignAmount   decimal.Decimal `json:"foreignAmount"`   // Foreign Amount Detail - AP
}

// EnrichedRecord is a RawRecord renamed into the report vocabulary and joined
// with the reference tables. Field order follows EnrichedColumns.
type EnrichedRecord struct {
	EntityType        string          `json:"entityType"`        // External/INTERFIRM, from the vendor type
	GCCountry         string          `json:"gcCountry"`         // receiving country
	GCLegalEntity     string          `json:"gcLegalEntity"`     // receiving legal entity
	BillToArea        string          `json:"billToArea"`        // area of the vendor country
	BillToCountry     string          `json:"billToCountry"`     // vendor country
	BillToLegalEntity string          `json:"billToLegalEntity"` // vendor legal name
	InvoiceNo         string          `json:"invoiceNo"`
	InvoiceDate       string          `json:"invoiceDate"`
	BaseCurrency      string          `json:"baseCurrency"`
	BaseAmount        decimal.Decimal `json:"baseAmount"`
	OriginalCurrency  string          `json:"originalCurrency"`
	OriginalAmount    decimal.Decimal `json:"originalAmount"`
	BusinessUnit      string          `json:"businessUnit"`
	Account           string          `json:"account"`
	VendorID          string          `json:"vendorID"`
}

// HistoricalRecord is a prior-period row. It has the enriched shape; any
// aggregation-stage columns present in the prior file are recomputed.
type HistoricalRecord EnrichedRecord

// AggregatedRecord is one (invoice number, vendor id) group of the final report.
type AggregatedRecord struct {
	EnrichedRecord
	ExRateToUSD decimal.Decimal `json:"exRateToUSD"`
	Function    string          `json:"function"`
	AmountInUSD decimal.Decimal `json:"amountInUSD"`
	SubArea     string          `json:"subArea"`
}

// Historical converts a report row back into a prior-period row so a report
// can be fed into the next period's run.
func (r AggregatedRecord) Historical() HistoricalRecord {
	return HistoricalRecord(r.EnrichedRecord)
}

// GroupKey identifies an aggregation group.
type GroupKey struct {
	InvoiceNo string
	VendorID  string
}

// Key returns the group key of the record.
func (r EnrichedRecord) Key() GroupKey {
	return GroupKey{InvoiceNo: r.InvoiceNo, VendorID: r.VendorID}
}

// Complete reports whether both parts of the key are present.
func (k GroupKey) Complete() bool {
	return k.InvoiceNo != "" && k.VendorID != ""
}

// Less orders keys by invoice number, then vendor id.
func (k GroupKey) Less(other GroupKey) bool {
	if k.InvoiceNo != other.InvoiceNo {
		return lessKeyPart(k.InvoiceNo, other.InvoiceNo)
	}
	return lessKeyPart(k.VendorID, other.VendorID)
}

// lessKeyPart compares numbers by value, so "99" sorts before "100". Numbers
// sort before text; text compares byte-wise.
func lessKeyPart(a, b string) bool {
	da, errA := decimal.NewFromString(a)
	db, errB := decimal.NewFromString(b)
	switch {
	case errA == nil && errB == nil:
		if c := da.Cmp(db); c != 0 {
			return c < 0
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}
