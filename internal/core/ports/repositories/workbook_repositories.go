package repositories

import (
	"context"
	"io"

	"github.com/SscSPs/ifm_report_app/internal/core/domain"
)

// ExtractReader reads the business-object extract (first sheet of the file).
type ExtractReader interface {
	// ReadExtract parses the extract into raw records, failing on missing required columns.
	ReadExtract(ctx context.Context, file domain.SourceFile) ([]domain.RawRecord, error)
}

// ReferenceReader reads the three lookup tables of the mapping workbook.
type ReferenceReader interface {
	// ReadReferences parses the vendor, receiving-entity and country-area sheets.
	ReadReferences(ctx context.Context, file domain.SourceFile) (*domain.ReferenceTables, error)
}

// HistoricalReader reads the prior period's report.
type HistoricalReader interface {
	// ReadHistorical parses the prior report; an empty file yields no rows.
	ReadHistorical(ctx context.Context, file domain.SourceFile) ([]domain.HistoricalRecord, error)
}

// WorkbookReaderFacade combines all input readers.
type WorkbookReaderFacade interface {
	ExtractReader
	ReferenceReader
	HistoricalReader
}

// ReportExporter encodes a finished report.
type ReportExporter interface {
	// Export writes the report to w in the given format.
	Export(ctx context.Context, w io.Writer, report *domain.Report, format domain.ExportFormat) error

	// ContentType returns the MIME type for format.
	ContentType(format domain.ExportFormat) string
}
