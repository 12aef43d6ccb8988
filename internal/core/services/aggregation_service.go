package services

import (
	"context"
	"log/slog"
	"sort"

	"github.com/SscSPs/ifm_report_app/internal/core/domain"
	portssvc "github.com/SscSPs/ifm_report_app/internal/core/ports/services"
	"github.com/SscSPs/ifm_report_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// aggregationService implements the AggregationSvc interface
type aggregationService struct {
	BaseService
}

// NewAggregationService creates a new aggregation service
func NewAggregationService() portssvc.AggregationSvc {
	return &aggregationService{}
}

// Ensure aggregationService implements the AggregationSvc interface
var _ portssvc.AggregationSvc = (*aggregationService)(nil)

// Aggregate concatenates historical rows ahead of current rows, converts each
// row to USD, and folds rows sharing (invoice number, vendor id) into one
// group. Descriptive fields keep the first non-empty value in that order;
// amounts are summed. Groups whose base amount nets to zero are dropped.
func (s *aggregationService) Aggregate(ctx context.Context, enriched []domain.EnrichedRecord, historical []domain.HistoricalRecord, exchangeRate decimal.Decimal) (*domain.AggregationResult, error) {
	if err := accounting.ValidateExchangeRate(exchangeRate); err != nil {
		s.LogError(ctx, err, "Refusing to aggregate with invalid exchange rate")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := domain.AggregationStats{
		HistoricalRows: len(historical),
		CurrentRows:    len(enriched),
	}

	combined := make([]domain.EnrichedRecord, 0, len(historical)+len(enriched))
	for _, h := range historical {
		combined = append(combined, domain.EnrichedRecord(h))
	}
	combined = append(combined, enriched...)

	groups := make(map[domain.GroupKey]*domain.AggregatedRecord)
	var order []domain.GroupKey

	for _, row := range combined {
		key := row.Key()
		if !key.Complete() {
			stats.SkippedMissingKey++
			continue
		}

		converted := convert(row, exchangeRate)
		g, ok := groups[key]
		if !ok {
			groups[key] = &converted
			order = append(order, key)
			continue
		}
		fold(g, converted)
	}
	stats.Groups = len(order)

	sort.SliceStable(order, func(i, j int) bool { return order[i].Less(order[j]) })

	records := make([]domain.AggregatedRecord, 0, len(order))
	for _, key := range order {
		g := groups[key]
		if g.BaseAmount.IsZero() {
			stats.ZeroNetGroups++
			continue
		}
		records = append(records, *g)
	}
	stats.ReportedGroups = len(records)

	if stats.SkippedMissingKey > 0 {
		s.LogWarn(ctx, "Rows without invoice number or vendor id were skipped",
			slog.Int("rows", stats.SkippedMissingKey))
	}

	s.LogDebug(ctx, "Rows aggregated",
		slog.Int("historical_rows", stats.HistoricalRows),
		slog.Int("current_rows", stats.CurrentRows),
		slog.Int("groups", stats.Groups),
		slog.Int("zero_net_groups", stats.ZeroNetGroups))

	return &domain.AggregationResult{Records: records, Stats: stats}, nil
}

// convert derives the per-row aggregation columns.
func convert(row domain.EnrichedRecord, exchangeRate decimal.Decimal) domain.AggregatedRecord {
	rate := accounting.RateToUSD(row.OriginalCurrency, exchangeRate)
	return domain.AggregatedRecord{
		EnrichedRecord: row,
		ExRateToUSD:    rate,
		Function:       domain.FunctionAP,
		AmountInUSD:    accounting.ConvertToUSD(row.OriginalAmount, rate),
		SubArea:        domain.SubAreaFor(row.BillToCountry),
	}
}

// fold merges next into the group g.
func fold(g *domain.AggregatedRecord, next domain.AggregatedRecord) {
	firstNonEmpty(&g.EntityType, next.EntityType)
	firstNonEmpty(&g.GCCountry, next.GCCountry)
	firstNonEmpty(&g.GCLegalEntity, next.GCLegalEntity)
	firstNonEmpty(&g.BillToArea, next.BillToArea)
	firstNonEmpty(&g.BillToCountry, next.BillToCountry)
	firstNonEmpty(&g.BillToLegalEntity, next.BillToLegalEntity)
	firstNonEmpty(&g.InvoiceDate, next.InvoiceDate)
	firstNonEmpty(&g.BaseCurrency, next.BaseCurrency)
	firstNonEmpty(&g.OriginalCurrency, next.OriginalCurrency)
	firstNonEmpty(&g.BusinessUnit, next.BusinessUnit)
	firstNonEmpty(&g.Account, next.Account)
	firstNonEmpty(&g.SubArea, next.SubArea)

	g.BaseAmount = g.BaseAmount.Add(next.BaseAmount)
	g.OriginalAmount = g.OriginalAmount.Add(next.OriginalAmount)
	g.AmountInUSD = g.AmountInUSD.Add(next.AmountInUSD)
}

func firstNonEmpty(dst *string, candidate string) {
	if *dst == "" {
		*dst = candidate
	}
}
