package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/SscSPs/ifm_report_app/internal/apperrors"
	"github.com/SscSPs/ifm_report_app/internal/core/domain"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// FirstSheet selects the first sheet of a workbook.
const FirstSheet = ""

// xlsScanWidth bounds the header scan of legacy workbooks; BIFF8 has 256 columns.
const xlsScanWidth = 256

const utf8BOM = "\ufeff"

// workbook is an opened input file from which sheets are loaded as string grids.
type workbook interface {
	rows(sheet string) (*sheetGrid, error)
	Close() error
}

// sheetGrid holds a sheet twice: as Excel displays it and as the cells store it.
// Amounts come from values so a number format cannot round them.
type sheetGrid struct {
	text   [][]string
	values [][]string
}

// plainGrid is a grid whose cells have no number formats.
func plainGrid(rows [][]string) *sheetGrid {
	return &sheetGrid{text: rows, values: rows}
}

// openWorkbook picks a decoder from the file extension.
func openWorkbook(file domain.SourceFile) (workbook, error) {
	ext := strings.ToLower(filepath.Ext(file.Name))
	switch ext {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenReader(bytes.NewReader(file.Data))
		if err != nil {
			return nil, fmt.Errorf("%w: cannot open %q as xlsx: %v", apperrors.ErrMalformedInput, file.Name, err)
		}
		return &xlsxWorkbook{name: file.Name, file: f}, nil
	case ".xls":
		wb, err := xls.OpenReader(bytes.NewReader(file.Data), "utf-8")
		if err != nil {
			return nil, fmt.Errorf("%w: cannot open %q as xls: %v", apperrors.ErrMalformedInput, file.Name, err)
		}
		return &xlsWorkbook{name: file.Name, book: wb}, nil
	case ".csv":
		return &csvWorkbook{name: file.Name, data: file.Data}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q for %q (want .xlsx, .xls or .csv)", apperrors.ErrMalformedInput, ext, file.Name)
	}
}

type xlsxWorkbook struct {
	name string
	file *excelize.File
}

func (w *xlsxWorkbook) rows(sheet string) (*sheetGrid, error) {
	sheets := w.file.GetSheetList()
	if len(sheets) == 0 {
		return plainGrid(nil), nil
	}
	target := sheets[0]
	if sheet != FirstSheet {
		target = ""
		for _, s := range sheets {
			if s == sheet {
				target = s
				break
			}
		}
		if target == "" {
			return nil, &apperrors.MissingSheetError{File: w.name, Sheet: sheet}
		}
	}

	text, err := w.file.GetRows(target)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read sheet %q of %q: %v", apperrors.ErrMalformedInput, target, w.name, err)
	}
	values, err := w.file.GetRows(target, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read sheet %q of %q: %v", apperrors.ErrMalformedInput, target, w.name, err)
	}
	return &sheetGrid{text: text, values: values}, nil
}

func (w *xlsxWorkbook) Close() error {
	return w.file.Close()
}

type xlsWorkbook struct {
	name string
	book *xls.WorkBook
}

func (w *xlsWorkbook) rows(sheet string) (*sheetGrid, error) {
	var ws *xls.WorkSheet
	for i := 0; i < w.book.NumSheets(); i++ {
		candidate := w.book.GetSheet(i)
		if candidate == nil {
			continue
		}
		if sheet == FirstSheet || candidate.Name == sheet {
			ws = candidate
			break
		}
	}
	if ws == nil {
		if sheet == FirstSheet {
			return plainGrid(nil), nil
		}
		return nil, &apperrors.MissingSheetError{File: w.name, Sheet: sheet}
	}

	g := &sheetGrid{text: scanXLS(ws)}

	// Cells render lazily; without the custom formats the library prints RK
	// numbers as stored instead of turning them into dates.
	formats := w.book.Formats
	w.book.Formats = make(map[uint16]*xls.Format)
	g.values = scanXLS(ws)
	w.book.Formats = formats
	return g, nil
}

func scanXLS(ws *xls.WorkSheet) [][]string {
	var out [][]string
	width := xlsScanWidth
	for r := 0; r <= int(ws.MaxRow); r++ {
		row := xlsRow(ws, r)
		if row == nil {
			out = append(out, nil)
			continue
		}
		n := row.LastCol()
		if n < width {
			n = width
		}
		cells := make([]string, n)
		for c := range cells {
			cells[c] = row.Col(c)
		}
		cells = trimTrailingEmpty(cells)
		if r == 0 {
			width = len(cells)
		}
		out = append(out, cells)
	}
	return out
}

// xlsRow returns nil for rows absent from the sheet; the library panics on them.
func xlsRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}

func (w *xlsWorkbook) Close() error { return nil }

// csvWorkbook holds a single table; it has no named sheets.
type csvWorkbook struct {
	name string
	data []byte
}

func (w *csvWorkbook) rows(sheet string) (*sheetGrid, error) {
	if sheet != FirstSheet {
		return nil, &apperrors.MissingSheetError{File: w.name, Sheet: sheet}
	}
	data := bytes.TrimPrefix(w.data, []byte(utf8BOM))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var out [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return plainGrid(out), nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: cannot parse %q as csv: %v", apperrors.ErrMalformedInput, w.name, err)
		}
		out = append(out, rec)
	}
}

func (w *csvWorkbook) Close() error { return nil }

func trimTrailingEmpty(cells []string) []string {
	n := len(cells)
	for n > 0 && cells[n-1] == "" {
		n--
	}
	return cells[:n]
}
