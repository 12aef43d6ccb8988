package services

import (
	portsrepo "github.com/SscSPs/ifm_report_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ifm_report_app/internal/core/ports/services"
	"github.com/SscSPs/ifm_report_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// Extra options are applied to the report service after the config-derived ones.
func NewServiceContainer(
	cfg *config.Config,
	reader portsrepo.WorkbookReaderFacade,
	exporter portsrepo.ReportExporter,
	options ...ReportServiceOption,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Enrichment = NewEnrichmentService(WithJoinPolicy(cfg.JoinPolicy))
	container.Aggregation = NewAggregationService()

	reportOptions := append([]ReportServiceOption{WithDefaultExchangeRate(cfg.DefaultExchangeRate)}, options...)
	container.Report = NewReportService(reader, exporter, container.Enrichment, container.Aggregation, reportOptions...)

	return container
}
