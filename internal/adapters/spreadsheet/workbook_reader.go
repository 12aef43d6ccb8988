package spreadsheet

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/ifm_report_app/internal/apperrors"
	"github.com/SscSPs/ifm_report_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ifm_report_app/internal/core/ports/repositories"
	"github.com/SscSPs/ifm_report_app/internal/middleware"
)

// Table names used in error messages.
const (
	TableExtract    = "BO extract"
	TableHistorical = "last month report"
)

// historicalRequired are the prior-report columns the aggregator cannot do without.
var historicalRequired = []string{
	domain.ColInvoiceNo,
	domain.ColVendorID,
	domain.ColBaseAmount,
	domain.ColOriginalAmount,
	domain.ColOriginalCurrency,
}

// WorkbookReader reads pipeline inputs from xlsx, xls and csv files.
type WorkbookReader struct {
	layout Layout
}

// NewWorkbookReader creates a reader for the given layout.
func NewWorkbookReader(layout Layout) *WorkbookReader {
	return &WorkbookReader{layout: layout}
}

// Ensure implementation matches interface
var _ portsrepo.WorkbookReaderFacade = (*WorkbookReader)(nil)

// ReadExtract reads the first sheet of the BO extract.
func (r *WorkbookReader) ReadExtract(ctx context.Context, file domain.SourceFile) ([]domain.RawRecord, error) {
	t, err := r.loadTable(ctx, file, FirstSheet, TableExtract)
	if err != nil {
		return nil, err
	}

	l := r.layout.Extract
	if err := t.require(l.VendorID, l.BusinessUnit, l.InvoiceID, l.InvoiceDate,
		l.BaseCurrency, l.BaseAmount, l.ForeignCurrency, l.ForeignAmount); err != nil {
		return nil, err
	}

	records := make([]domain.RawRecord, 0, len(t.rows))
	for i, row := range t.rows {
		base, err := t.amount(i, l.BaseAmount)
		if err != nil {
			return nil, err
		}
		foreign, err := t.amount(i, l.ForeignAmount)
		if err != nil {
			return nil, err
		}
		records = append(records, domain.RawRecord{
			VendorID:        t.text(row, l.VendorID),
			BusinessUnit:    t.text(row, l.BusinessUnit),
			InvoiceID:       t.text(row, l.InvoiceID),
			InvoiceDate:     t.text(row, l.InvoiceDate),
			BaseCurrency:    t.text(row, l.BaseCurrency),
			BaseAmount:      base,
			ForeignCurrency: t.text(row, l.ForeignCurrency),
			ForeignAmount:   foreign,
		})
	}
	return records, nil
}

// ReadReferences reads the vendor, receiving-entity and country-area sheets.
func (r *WorkbookReader) ReadReferences(ctx context.Context, file domain.SourceFile) (*domain.ReferenceTables, error) {
	wb, err := openWorkbook(file)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	refs := &domain.ReferenceTables{}

	vl := r.layout.Vendors
	vendors, err := sheetTable(ctx, wb, file, vl.Sheet, vl.Sheet)
	if err != nil {
		return nil, err
	}
	if err := vendors.require(vl.VendorID, vl.LegalEntityName, vl.VendorType, vl.Country); err != nil {
		return nil, err
	}
	for _, row := range vendors.rows {
		refs.Vendors = append(refs.Vendors, domain.VendorMapping{
			VendorID:        vendors.text(row, vl.VendorID),
			LegalEntityName: vendors.text(row, vl.LegalEntityName),
			VendorType:      vendors.text(row, vl.VendorType),
			Country:         vendors.text(row, vl.Country),
		})
	}

	rl := r.layout.Receiving
	receiving, err := sheetTable(ctx, wb, file, rl.Sheet, rl.Sheet)
	if err != nil {
		return nil, err
	}
	if err := receiving.require(rl.BusinessUnit, rl.ReceivingCountry, rl.LegalEntityName); err != nil {
		return nil, err
	}
	for _, row := range receiving.rows {
		refs.ReceivingEntities = append(refs.ReceivingEntities, domain.ReceivingEntity{
			BusinessUnit:     receiving.text(row, rl.BusinessUnit),
			ReceivingCountry: receiving.text(row, rl.ReceivingCountry),
			LegalEntityName:  receiving.text(row, rl.LegalEntityName),
		})
	}

	al := r.layout.Areas
	areas, err := sheetTable(ctx, wb, file, al.Sheet, al.Sheet)
	if err != nil {
		return nil, err
	}
	if err := areas.require(al.Country, al.Area); err != nil {
		return nil, err
	}
	for _, row := range areas.rows {
		refs.Areas = append(refs.Areas, domain.CountryArea{
			Country: areas.text(row, al.Country),
			Area:    areas.text(row, al.Area),
		})
	}

	return refs, nil
}

// ReadHistorical reads the first sheet of last month's report. A file with no
// header row holds no history. Aggregation columns in the file are ignored.
// A non-blank Account must be one of the two GL accounts.
func (r *WorkbookReader) ReadHistorical(ctx context.Context, file domain.SourceFile) ([]domain.HistoricalRecord, error) {
	if len(file.Data) == 0 {
		return nil, nil
	}
	t, err := r.loadTable(ctx, file, FirstSheet, TableHistorical)
	if err != nil {
		return nil, err
	}
	if !t.hasHeader() {
		return nil, nil
	}
	if err := t.require(historicalRequired...); err != nil {
		return nil, err
	}

	records := make([]domain.HistoricalRecord, 0, len(t.rows))
	for i, row := range t.rows {
		base, err := t.amount(i, domain.ColBaseAmount)
		if err != nil {
			return nil, err
		}
		original, err := t.amount(i, domain.ColOriginalAmount)
		if err != nil {
			return nil, err
		}
		account := strings.TrimSpace(t.stored(i, domain.ColAccount))
		if account != "" && !domain.IsValidAccountCode(account) {
			return nil, &apperrors.CellError{
				Table:  t.name,
				Row:    i + 2,
				Column: domain.ColAccount,
				Value:  account,
				Err:    apperrors.ErrUnknownAccount,
			}
		}
		records = append(records, domain.HistoricalRecord{
			EntityType:        t.text(row, domain.ColEntityType),
			GCCountry:         t.text(row, domain.ColGCCountry),
			GCLegalEntity:     t.text(row, domain.ColGCLegalEntity),
			BillToArea:        t.text(row, domain.ColBillToArea),
			BillToCountry:     t.text(row, domain.ColBillToCountry),
			BillToLegalEntity: t.text(row, domain.ColBillToLegalEntity),
			InvoiceNo:         t.text(row, domain.ColInvoiceNo),
			InvoiceDate:       t.text(row, domain.ColInvoiceDate),
			BaseCurrency:      t.text(row, domain.ColBaseCurrency),
			BaseAmount:        base,
			OriginalCurrency:  t.text(row, domain.ColOriginalCurrency),
			OriginalAmount:    original,
			BusinessUnit:      t.text(row, domain.ColBusinessUnit),
			Account:           account,
			VendorID:          t.text(row, domain.ColVendorID),
		})
	}
	return records, nil
}

func (r *WorkbookReader) loadTable(ctx context.Context, file domain.SourceFile, sheet, name string) (*table, error) {
	wb, err := openWorkbook(file)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	return sheetTable(ctx, wb, file, sheet, name)
}

func sheetTable(ctx context.Context, wb workbook, file domain.SourceFile, sheet, name string) (*table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	grid, err := wb.rows(sheet)
	if err != nil {
		return nil, err
	}
	t := newTable(name, grid)
	middleware.GetLoggerFromCtx(ctx).Debug("Sheet loaded",
		slog.String("file", file.Name),
		slog.String("table", name),
		slog.Int("rows", len(t.rows)))
	return t, nil
}
