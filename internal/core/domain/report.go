package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EnrichmentStats summarises one enrichment pass.
type EnrichmentStats struct {
	InputRows          int `json:"inputRows"`
	OutputRows         int `json:"outputRows"`
	UnmatchedVendors   int `json:"unmatchedVendors"`
	UnmatchedReceiving int `json:"unmatchedReceiving"`
	UnmatchedAreas     int `json:"unmatchedAreas"`
}

// EnrichmentResult is the output of the enricher.
type EnrichmentResult struct {
	Records []EnrichedRecord
	Stats   EnrichmentStats
}

// AggregationStats summarises one aggregation pass.
type AggregationStats struct {
	HistoricalRows    int `json:"historicalRows"`
	CurrentRows       int `json:"currentRows"`
	SkippedMissingKey int `json:"skippedMissingKey"`
	Groups            int `json:"groups"`
	ZeroNetGroups     int `json:"zeroNetGroups"`
	ReportedGroups    int `json:"reportedGroups"`
}

// AggregationResult is the output of the aggregator.
type AggregationResult struct {
	Records []AggregatedRecord
	Stats   AggregationStats
}

// SourceFile is an uploaded or local input file. Name is used to detect the format.
type SourceFile struct {
	Name string
	Data []byte
}

// Empty reports whether no file was supplied.
func (f SourceFile) Empty() bool {
	return f.Name == "" && len(f.Data) == 0
}

// ReportRequest carries the inputs of one report run.
type ReportRequest struct {
	Extract      SourceFile
	Mapping      SourceFile
	Historical   SourceFile // optional
	ExchangeRate decimal.NullDecimal // invalid means use the configured default
	RequestedBy  string              // optional, used for analytics only
}

// Report is the result of one pipeline run.
type Report struct {
	ReportID     string             `json:"reportID"`
	GeneratedAt  time.Time          `json:"generatedAt"`
	ExchangeRate decimal.Decimal    `json:"exchangeRate"`
	Rows         []AggregatedRecord `json:"rows"`
	Enrichment   EnrichmentStats    `json:"enrichment"`
	Aggregation  AggregationStats   `json:"aggregation"`
}

// ExportFormat selects the report encoding.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
	FormatJSON ExportFormat = "json"
)

// FileName returns the timestamped download name, e.g. "IFM report 20240131_093000.csv".
func (r *Report) FileName(format ExportFormat) string {
	return "IFM report " + r.GeneratedAt.Format("20060102_150405") + "." + string(format)
}

// ParseExportFormat parses a format name; the empty string selects FormatCSV.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported report format %q", s)
	}
}
