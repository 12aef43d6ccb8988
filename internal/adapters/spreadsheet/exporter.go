package spreadsheet

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/SscSPs/ifm_report_app/internal/apperrors"
	"github.com/SscSPs/ifm_report_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ifm_report_app/internal/core/ports/repositories"
	"github.com/SscSPs/ifm_report_app/internal/utils"
	"github.com/xuri/excelize/v2"
)

// ReportSheetName is the single sheet of an xlsx report.
const ReportSheetName = "IFM Report"

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeJSON = "application/json; charset=utf-8"
)

// Exporter encodes reports as CSV, XLSX or JSON.
type Exporter struct{}

// NewExporter creates a report exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Ensure implementation matches interface
var _ portsrepo.ReportExporter = (*Exporter)(nil)

// Export writes report to w. CSV output starts with a UTF-8 byte order mark so
// spreadsheet tools detect the encoding.
func (e *Exporter) Export(ctx context.Context, w io.Writer, report *domain.Report, format domain.ExportFormat) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch format {
	case domain.FormatCSV:
		return writeCSV(w, report)
	case domain.FormatXLSX:
		return writeXLSX(w, report)
	case domain.FormatJSON:
		return json.NewEncoder(w).Encode(report)
	default:
		return fmt.Errorf("%w: unsupported report format %q", apperrors.ErrValidation, format)
	}
}

// ContentType returns the MIME type for format.
func (e *Exporter) ContentType(format domain.ExportFormat) string {
	switch format {
	case domain.FormatXLSX:
		return contentTypeXLSX
	case domain.FormatJSON:
		return contentTypeJSON
	default:
		return contentTypeCSV
	}
}

func writeCSV(w io.Writer, report *domain.Report) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.AggregatedColumns); err != nil {
		return err
	}
	for _, row := range report.Rows {
		if err := cw.Write(rowValues(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, report *domain.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ReportSheetName); err != nil {
		return err
	}

	header := make([]interface{}, len(domain.AggregatedColumns))
	for i, c := range domain.AggregatedColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(ReportSheetName, "A1", &header); err != nil {
		return err
	}

	for i, row := range report.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := xlsxValues(row)
		if err := f.SetSheetRow(ReportSheetName, cell, &values); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

// rowValues renders a report row in AggregatedColumns order.
func rowValues(r domain.AggregatedRecord) []string {
	return []string{
		r.EntityType,
		r.GCCountry,
		r.GCLegalEntity,
		r.BillToArea,
		r.BillToCountry,
		r.BillToLegalEntity,
		r.InvoiceNo,
		r.InvoiceDate,
		r.BaseCurrency,
		utils.FormatAmount(r.BaseAmount),
		r.OriginalCurrency,
		utils.FormatAmount(r.OriginalAmount),
		r.BusinessUnit,
		r.Account,
		r.VendorID,
		utils.FormatAmount(r.ExRateToUSD),
		r.Function,
		utils.FormatAmount(r.AmountInUSD),
		r.SubArea,
	}
}

// xlsxValues keeps amounts numeric so the sheet can sum them.
func xlsxValues(r domain.AggregatedRecord) []interface{} {
	text := rowValues(r)
	values := make([]interface{}, len(text))
	for i, v := range text {
		values[i] = v
	}
	values[9] = r.BaseAmount.InexactFloat64()
	values[11] = r.OriginalAmount.InexactFloat64()
	values[15] = r.ExRateToUSD.InexactFloat64()
	values[17] = r.AmountInUSD.InexactFloat64()
	return values
}
