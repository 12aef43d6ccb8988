package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/SscSPs/ifm_report_app/internal/apperrors"
	"github.com/SscSPs/ifm_report_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ifm_report_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ifm_report_app/internal/core/ports/services"
	"github.com/SscSPs/ifm_report_app/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pipeline stages reported to the observer on failure.
const (
	StageValidate  = "validate"
	StageRead      = "read"
	StageEnrich    = "enrich"
	StageAggregate = "aggregate"
)

// reportGeneratedEvent is the analytics event emitted after a successful run.
const reportGeneratedEvent = "ifm_report_generated"

// reportService implements the ReportSvcFacade interface
type reportService struct {
	BaseService
	reader      portsrepo.WorkbookReaderFacade
	exporter    portsrepo.ReportExporter
	enrichment  portssvc.EnrichmentSvc
	aggregation portssvc.AggregationSvc
	observer    portssvc.ReportObserver
	analytics   portssvc.AnalyticsSink
	defaultRate decimal.Decimal
	now         func() time.Time
	newReportID func() string
}

// ReportServiceOption is a functional option for configuring the report service
type ReportServiceOption func(*reportService)

// WithReportObserver records run outcomes, typically into prometheus.
func WithReportObserver(observer portssvc.ReportObserver) ReportServiceOption {
	return func(s *reportService) {
		s.observer = observer
	}
}

// WithAnalytics emits a product analytics event per generated report.
func WithAnalytics(sink portssvc.AnalyticsSink) ReportServiceOption {
	return func(s *reportService) {
		s.analytics = sink
	}
}

// WithDefaultExchangeRate sets the rate used when a request does not carry one.
func WithDefaultExchangeRate(rate decimal.Decimal) ReportServiceOption {
	return func(s *reportService) {
		s.defaultRate = rate
	}
}

// WithClock overrides the generation timestamp source.
func WithClock(now func() time.Time) ReportServiceOption {
	return func(s *reportService) {
		s.now = now
	}
}

// WithReportIDGenerator overrides how report ids are minted.
func WithReportIDGenerator(gen func() string) ReportServiceOption {
	return func(s *reportService) {
		s.newReportID = gen
	}
}

// NewReportService creates a new report service with the provided options
func NewReportService(
	reader portsrepo.WorkbookReaderFacade,
	exporter portsrepo.ReportExporter,
	enrichment portssvc.EnrichmentSvc,
	aggregation portssvc.AggregationSvc,
	options ...ReportServiceOption,
) portssvc.ReportSvcFacade {
	svc := &reportService{
		reader:      reader,
		exporter:    exporter,
		enrichment:  enrichment,
		aggregation: aggregation,
		defaultRate: decimal.NewFromInt(1),
		now:         time.Now,
		newReportID: uuid.NewString,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportService implements the ReportSvcFacade interface
var _ portssvc.ReportSvcFacade = (*reportService)(nil)

// GenerateReport reads the three inputs, runs enrichment then aggregation, and
// stamps the result. An empty report is not an error.
func (s *reportService) GenerateReport(ctx context.Context, req domain.ReportRequest) (*domain.Report, error) {
	start := s.now()

	rate := s.defaultRate
	if req.ExchangeRate.Valid {
		rate = req.ExchangeRate.Decimal
	}
	if err := accounting.ValidateExchangeRate(rate); err != nil {
		s.fail(ctx, StageValidate, err, "Invalid exchange rate", slog.String("exchange_rate", rate.String()))
		return nil, err
	}
	if req.Extract.Empty() || req.Mapping.Empty() {
		err := fmt.Errorf("%w: BO extract and mapping workbook are required", apperrors.ErrValidation)
		s.fail(ctx, StageValidate, err, "Missing required input file")
		return nil, err
	}

	raw, err := s.reader.ReadExtract(ctx, req.Extract)
	if err != nil {
		s.fail(ctx, StageRead, err, "Failed to read BO extract", slog.String("file", req.Extract.Name))
		return nil, fmt.Errorf("failed to read BO extract: %w", err)
	}

	refs, err := s.reader.ReadReferences(ctx, req.Mapping)
	if err != nil {
		s.fail(ctx, StageRead, err, "Failed to read mapping workbook", slog.String("file", req.Mapping.Name))
		return nil, fmt.Errorf("failed to read mapping workbook: %w", err)
	}

	var historical []domain.HistoricalRecord
	if !req.Historical.Empty() {
		historical, err = s.reader.ReadHistorical(ctx, req.Historical)
		if err != nil {
			s.fail(ctx, StageRead, err, "Failed to read last month report", slog.String("file", req.Historical.Name))
			return nil, fmt.Errorf("failed to read last month report: %w", err)
		}
	}

	enriched, err := s.enrichment.Enrich(ctx, raw, *refs)
	if err != nil {
		s.fail(ctx, StageEnrich, err, "Enrichment failed")
		return nil, fmt.Errorf("enrichment failed: %w", err)
	}

	aggregated, err := s.aggregation.Aggregate(ctx, enriched.Records, historical, rate)
	if err != nil {
		s.fail(ctx, StageAggregate, err, "Aggregation failed")
		return nil, fmt.Errorf("aggregation failed: %w", err)
	}

	report := &domain.Report{
		ReportID:     s.newReportID(),
		GeneratedAt:  s.now(),
		ExchangeRate: rate,
		Rows:         aggregated.Records,
		Enrichment:   enriched.Stats,
		Aggregation:  aggregated.Stats,
	}

	if len(report.Rows) == 0 {
		s.LogWarn(ctx, "Report is empty after aggregation",
			slog.String("report_id", report.ReportID),
			slog.Int("groups", aggregated.Stats.Groups),
			slog.Int("zero_net_groups", aggregated.Stats.ZeroNetGroups))
	}

	elapsed := s.now().Sub(start)
	if s.observer != nil {
		s.observer.ObserveReport(report, elapsed)
	}
	if s.analytics != nil {
		s.analytics.Enqueue(req.RequestedBy, reportGeneratedEvent, map[string]any{
			"report_id":       report.ReportID,
			"rows":            len(report.Rows),
			"input_rows":      report.Enrichment.InputRows,
			"historical_rows": report.Aggregation.HistoricalRows,
		})
	}

	s.LogInfo(ctx, "IFM report generated",
		slog.String("report_id", report.ReportID),
		slog.String("exchange_rate", rate.String()),
		slog.Int("input_rows", report.Enrichment.InputRows),
		slog.Int("historical_rows", report.Aggregation.HistoricalRows),
		slog.Int("report_rows", len(report.Rows)),
		slog.Duration("elapsed", elapsed))

	return report, nil
}

// ExportReport writes the report to w in the requested format.
func (s *reportService) ExportReport(ctx context.Context, w io.Writer, report *domain.Report, format domain.ExportFormat) error {
	if err := s.exporter.Export(ctx, w, report, format); err != nil {
		s.LogError(ctx, err, "Failed to export report",
			slog.String("report_id", report.ReportID),
			slog.String("format", string(format)))
		return fmt.Errorf("failed to export report: %w", err)
	}
	return nil
}

// ContentType returns the MIME type used when serving format.
func (s *reportService) ContentType(format domain.ExportFormat) string {
	return s.exporter.ContentType(format)
}

func (s *reportService) fail(ctx context.Context, stage string, err error, msg string, keyvals ...any) {
	if s.observer != nil {
		s.observer.ObserveFailure(stage)
	}
	s.LogError(ctx, err, msg, append([]any{slog.String("stage", stage)}, keyvals...)...)
}
