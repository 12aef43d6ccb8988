package services

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/ifm_report_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EnrichmentSvc joins raw extract rows with the reference tables.
type EnrichmentSvc interface {
	// Enrich left-joins raw rows to the vendor, receiving-entity and area tables
	// and projects them to the canonical enriched layout.
	Enrich(ctx context.Context, raw []domain.RawRecord, refs domain.ReferenceTables) (*domain.EnrichmentResult, error)
}

// AggregationSvc merges current and historical rows into report groups.
type AggregationSvc interface {
	// Aggregate converts to USD, groups by (invoice number, vendor id) and drops
	// groups whose base amount nets to zero. exchangeRate must be positive.
	Aggregate(ctx context.Context, enriched []domain.EnrichedRecord, historical []domain.HistoricalRecord, exchangeRate decimal.Decimal) (*domain.AggregationResult, error)
}

// ReportGeneratorSvc runs the full pipeline from uploaded files to a report.
type ReportGeneratorSvc interface {
	// GenerateReport reads the inputs, enriches, aggregates and returns the report.
	GenerateReport(ctx context.Context, req domain.ReportRequest) (*domain.Report, error)
}

// ReportExporterSvc encodes a generated report.
type ReportExporterSvc interface {
	// ExportReport writes the report to w in the requested format.
	ExportReport(ctx context.Context, w io.Writer, report *domain.Report, format domain.ExportFormat) error

	// ContentType returns the MIME type used when serving format.
	ContentType(format domain.ExportFormat) string
}

// ReportSvcFacade combines report generation with encoding for transport.
type ReportSvcFacade interface {
	ReportGeneratorSvc
	ReportExporterSvc
}

// ReportObserver receives pipeline outcomes for monitoring.
type ReportObserver interface {
	// ObserveReport records a successful run.
	ObserveReport(report *domain.Report, elapsed time.Duration)

	// ObserveFailure records a failed run at the given stage (read, enrich, aggregate).
	ObserveFailure(stage string)
}

// AnalyticsSink accepts product analytics events. Delivery is best effort.
type AnalyticsSink interface {
	Enqueue(distinctID string, event string, properties map[string]any)
}
