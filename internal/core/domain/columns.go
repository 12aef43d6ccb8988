package domain

// Canonical output header vocabulary. These strings are what downstream
// spreadsheet consumers key on, so they must not change.
const (
	ColEntityType        = "External/INTERFIRM"
	ColGCCountry         = "GC Country"
	ColGCLegalEntity     = "GC Legal Entity"
	ColBillToArea        = "Bill To/Fm Area"
	ColBillToCountry     = "Bill To/FmCountry"
	ColBillToLegalEntity = "Bill To/Fm Legal Entity"
	ColInvoiceNo         = "Invoice No."
	ColInvoiceDate       = "Invoice Date"
	ColBaseCurrency      = "Base currency of Country"
	ColBaseAmount        = "Base amount of Country"
	ColOriginalCurrency  = "Original Currency"
	ColOriginalAmount    = "Original billing amount"
	ColBusinessUnit      = "Business Unit - AP/AR"
	ColAccount           = "Account"
	ColVendorID          = "Vendor ID (AP)"

	ColExRateToUSD = "Ex. Rate to USD"
	ColFunction    = "Function"
	ColAmountInUSD = "Amount in USD"
	ColSubArea     = "Bill To/Fm SubArea"
)

// EnrichedColumns is the fixed 15-column projection produced by the enricher.
var EnrichedColumns = []string{
	ColEntityType,
	ColGCCountry,
	ColGCLegalEntity,
	ColBillToArea,
	ColBillToCountry,
	ColBillToLegalEntity,
	ColInvoiceNo,
	ColInvoiceDate,
	ColBaseCurrency,
	ColBaseAmount,
	ColOriginalCurrency,
	ColOriginalAmount,
	ColBusinessUnit,
	ColAccount,
	ColVendorID,
}

// AggregatedColumns is the report layout: the enriched columns followed by the
// four aggregation-stage columns.
var AggregatedColumns = append(append([]string{}, EnrichedColumns...),
	ColExRateToUSD,
	ColFunction,
	ColAmountInUSD,
	ColSubArea,
)
