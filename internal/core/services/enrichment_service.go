package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/ifm_report_app/internal/core/domain"
	portssvc "github.com/SscSPs/ifm_report_app/internal/core/ports/services"
)

// maxUnmatchedSamples caps how many distinct unmatched keys are logged per join.
const maxUnmatchedSamples = 10

// enrichmentService implements the EnrichmentSvc interface
type enrichmentService struct {
	BaseService
	joinPolicy domain.JoinPolicy
}

// EnrichmentServiceOption is a functional option for configuring the enrichment service
type EnrichmentServiceOption func(*enrichmentService)

// WithJoinPolicy sets how duplicate reference keys are joined.
func WithJoinPolicy(policy domain.JoinPolicy) EnrichmentServiceOption {
	return func(s *enrichmentService) {
		s.joinPolicy = policy
	}
}

// NewEnrichmentService creates a new enrichment service with the provided options
func NewEnrichmentService(options ...EnrichmentServiceOption) portssvc.EnrichmentSvc {
	svc := &enrichmentService{
		joinPolicy: domain.JoinAllMatches,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure enrichmentService implements the EnrichmentSvc interface
var _ portssvc.EnrichmentSvc = (*enrichmentService)(nil)

// Enrich left-joins every raw row to the vendor table on vendor id, the
// receiving-entity table on business unit and the area table on the vendor
// country, then projects the result to the enriched layout. Rows are never
// dropped; with JoinAllMatches a row is repeated once per matching reference row.
func (s *enrichmentService) Enrich(ctx context.Context, raw []domain.RawRecord, refs domain.ReferenceTables) (*domain.EnrichmentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vendors := indexBy(refs.Vendors, func(v domain.VendorMapping) string { return v.VendorID }, s.joinPolicy)
	receiving := indexBy(refs.ReceivingEntities, func(r domain.ReceivingEntity) string { return r.BusinessUnit }, s.joinPolicy)
	areas := indexBy(refs.Areas, func(a domain.CountryArea) string { return a.Country }, s.joinPolicy)

	var missedVendors, missedReceiving, missedAreas missTracker
	records := make([]domain.EnrichedRecord, 0, len(raw))

	for _, row := range raw {
		vendorMatches, vendorOK := lookup(vendors, row.VendorID)
		receivingMatches, receivingOK := lookup(receiving, row.BusinessUnit)

		for _, vendor := range vendorMatches {
			for _, recv := range receivingMatches {
				areaMatches, areaOK := lookup(areas, vendor.Country)
				for _, area := range areaMatches {
					if !vendorOK {
						missedVendors.add(row.VendorID)
					}
					if !receivingOK {
						missedReceiving.add(row.BusinessUnit)
					}
					if !areaOK {
						missedAreas.add(vendor.Country)
					}
					records = append(records, enrich(row, vendor, recv, area))
				}
			}
		}
	}

	stats := domain.EnrichmentStats{
		InputRows:          len(raw),
		OutputRows:         len(records),
		UnmatchedVendors:   missedVendors.count,
		UnmatchedReceiving: missedReceiving.count,
		UnmatchedAreas:     missedAreas.count,
	}

	s.warnUnmatched(ctx, "vendor", "vendor_id", missedVendors)
	s.warnUnmatched(ctx, "receiving entity", "business_unit", missedReceiving)
	s.warnUnmatched(ctx, "country area", "country", missedAreas)

	s.LogDebug(ctx, "Extract enriched",
		slog.Int("input_rows", stats.InputRows),
		slog.Int("output_rows", stats.OutputRows),
		slog.String("join_policy", string(s.joinPolicy)))

	return &domain.EnrichmentResult{Records: records, Stats: stats}, nil
}

func (s *enrichmentService) warnUnmatched(ctx context.Context, table, keyName string, m missTracker) {
	if m.count == 0 {
		return
	}
	s.LogWarn(ctx, "Unmatched reference keys, columns left empty",
		slog.String("table", table),
		slog.String("key", keyName),
		slog.Int("rows", m.count),
		slog.Any("sample_keys", m.samples))
}

// enrich renames a joined row into the enriched layout and derives the account.
func enrich(row domain.RawRecord, vendor domain.VendorMapping, recv domain.ReceivingEntity, area domain.CountryArea) domain.EnrichedRecord {
	return domain.EnrichedRecord{
		EntityType:        vendor.VendorType,
		GCCountry:         recv.ReceivingCountry,
		GCLegalEntity:     recv.LegalEntityName,
		BillToArea:        area.Area,
		BillToCountry:     vendor.Country,
		BillToLegalEntity: vendor.LegalEntityName,
		InvoiceNo:         row.InvoiceID,
		InvoiceDate:       row.InvoiceDate,
		BaseCurrency:      row.BaseCurrency,
		BaseAmount:        row.BaseAmount,
		OriginalCurrency:  row.ForeignCurrency,
		OriginalAmount:    row.ForeignAmount,
		BusinessUnit:      row.BusinessUnit,
		Account:           domain.AccountCodeFor(vendor.VendorType),
		VendorID:          row.VendorID,
	}
}

// indexBy groups reference rows by key, keeping file order. Empty keys never
// match anything and are not indexed.
func indexBy[T any](rows []T, key func(T) string, policy domain.JoinPolicy) map[string][]T {
	idx := make(map[string][]T, len(rows))
	for _, r := range rows {
		k := key(r)
		if k == "" {
			continue
		}
		if policy == domain.JoinFirstMatch && len(idx[k]) > 0 {
			continue
		}
		idx[k] = append(idx[k], r)
	}
	return idx
}

// lookup returns the matches for key. On a miss it returns a single zero value
// so the caller's left join still emits the row with empty columns.
func lookup[T any](idx map[string][]T, key string) ([]T, bool) {
	if matches, ok := idx[key]; ok && key != "" {
		return matches, true
	}
	var zero T
	return []T{zero}, false
}

// missTracker counts output rows left unfilled by one join and keeps a few
// distinct keys for the log.
type missTracker struct {
	count   int
	samples []string
	seen    map[string]struct{}
}

func (m *missTracker) add(key string) {
	m.count++
	if len(m.samples) >= maxUnmatchedSamples {
		return
	}
	if m.seen == nil {
		m.seen = make(map[string]struct{})
	}
	if _, ok := m.seen[key]; ok {
		return
	}
	m.seen[key] = struct{}{}
	m.samples = append(m.samples, key)
}
