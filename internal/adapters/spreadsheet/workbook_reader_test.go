package spreadsheet_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/SscSPs/ifm_report_app/internal/adapters/spreadsheet"
	"github.com/SscSPs/ifm_report_app/internal/apperrors"
	"github.com/SscSPs/ifm_report_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
)

type sheet struct {
	name string
	rows [][]string
}

// buildXLSX writes the sheets, in order, into an in-memory workbook.
func buildXLSX(t *testing.T, sheets ...sheet) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := make([]interface{}, len(row))
			for c, v := range row {
				values[c] = v
			}
			require.NoError(t, f.SetSheetRow(s.name, cell, &values))
		}
	}

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

var extractHeader = []string{
	"Vendor Id - AP", "Business Unit - AP", "Invoice Id - AP", "Invoice Date - AP",
	"Currency Cd - AP", "Monetary Amount Detail - AP", "Foreign Currency - AP", "Foreign Amount Detail - AP",
}

func mappingSheets() []sheet {
	return []sheet{
		{name: "Sending Entity_Vendor Mapping", rows: [][]string{
			{"Vendor Id - Ven", "Vendor Name1 - Ven", "Vendor Tyep", "Country", "Comment"},
			{"V1", "Acme HK Ltd", "IFM", "China-HK", "ignored"},
			{"V2", "Widget GmbH", "External", "Germany"},
		}},
		{name: "Receiving Entity", rows: [][]string{
			{"AP Business Unit", "Receiving Country", "LE Name"},
			{"BU01", "China", "Acme Shanghai"},
		}},
		{name: "Country Area Mapping", rows: [][]string{
			{"Country", "Area"},
			{"China-HK", "APAC"},
			{"Germany", "EMEA"},
		}},
	}
}

type WorkbookReaderTestSuite struct {
	suite.Suite
	ctx    context.Context
	reader *spreadsheet.WorkbookReader
}

func (suite *WorkbookReaderTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.reader = spreadsheet.NewWorkbookReader(spreadsheet.DefaultLayout())
}

func (suite *WorkbookReaderTestSuite) TestReadExtract_XLSX() {
	header := append([]string{}, extractHeader...)
	header[0] = "  Vendor Id - AP "
	data := buildXLSX(suite.T(), sheet{name: "BO", rows: [][]string{
		header,
		{"V1", "BU01", "INV1", "2024-01-31", "CNY", "1,234.50", "EUR", "(72)"},
		{},
		{"V2", "BU01", "INV2", "2024-01-31", "CNY", "", "USD", "50"},
	}})

	records, err := suite.reader.ReadExtract(suite.ctx, domain.SourceFile{Name: "bo.xlsx", Data: data})

	suite.Require().NoError(err)
	suite.Require().Len(records, 2, "blank rows are skipped")
	suite.Equal("V1", records[0].VendorID)
	suite.Equal("INV1", records[0].InvoiceID)
	suite.True(records[0].BaseAmount.Equal(decimal.RequireFromString("1234.5")))
	suite.True(records[0].ForeignAmount.Equal(decimal.NewFromInt(-72)))
	suite.True(records[1].BaseAmount.IsZero(), "blank amount is zero")
	suite.Equal("USD", records[1].ForeignCurrency)
}

func (suite *WorkbookReaderTestSuite) TestReadExtract_XLSXNumberFormatsDoNotRound() {
	f := excelize.NewFile()
	defer f.Close()
	name := f.GetSheetName(0)

	header := make([]interface{}, len(extractHeader))
	for i, h := range extractHeader {
		header[i] = h
	}
	suite.Require().NoError(f.SetSheetRow(name, "A1", &header))
	suite.Require().NoError(f.SetSheetRow(name, "A2", &[]interface{}{"V1", "BU01", "123456789012", "2024-01-31", "CNY", 1234.567, "EUR", 0.004}))
	suite.Require().NoError(f.SetSheetRow(name, "A3", &[]interface{}{"V1", "BU01", "INV2", "2024-01-31", "CNY", -0.125, "EUR", 0.5}))

	thousands, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	suite.Require().NoError(err)
	accounting := "#,##0.00;(#,##0.00)"
	negatives, err := f.NewStyle(&excelize.Style{CustomNumFmt: &accounting})
	suite.Require().NoError(err)
	percent, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	suite.Require().NoError(err)
	suite.Require().NoError(f.SetCellStyle(name, "F2", "F2", thousands))
	suite.Require().NoError(f.SetCellStyle(name, "H2", "H2", thousands))
	suite.Require().NoError(f.SetCellStyle(name, "F3", "F3", negatives))
	suite.Require().NoError(f.SetCellStyle(name, "H3", "H3", percent))

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	suite.Require().NoError(err)

	records, err := suite.reader.ReadExtract(suite.ctx, domain.SourceFile{Name: "bo.xlsx", Data: buf.Bytes()})

	suite.Require().NoError(err)
	suite.Require().Len(records, 2)
	suite.Equal("123456789012", records[0].InvoiceID)
	suite.True(records[0].BaseAmount.Equal(decimal.RequireFromString("1234.567")), records[0].BaseAmount.String())
	suite.True(records[0].ForeignAmount.Equal(decimal.RequireFromString("0.004")), records[0].ForeignAmount.String())
	suite.True(records[1].BaseAmount.Equal(decimal.RequireFromString("-0.125")), records[1].BaseAmount.String())
	suite.True(records[1].ForeignAmount.Equal(decimal.RequireFromString("0.5")), "percent format reads the stored fraction")
}

func (suite *WorkbookReaderTestSuite) TestReadExtract_XLS() {
	data, err := os.ReadFile(filepath.Join("testdata", "ifm_inputs.xls"))
	suite.Require().NoError(err)

	records, err := suite.reader.ReadExtract(suite.ctx, domain.SourceFile{Name: "bo.xls", Data: data})

	suite.Require().NoError(err)
	suite.Require().Len(records, 2, "the row missing from the sheet is skipped")
	suite.Equal(domain.RawRecord{
		VendorID:        "V1",
		BusinessUnit:    "BU01",
		InvoiceID:       "INV1",
		InvoiceDate:     "2024-01-31",
		BaseCurrency:    "CNY",
		BaseAmount:      records[0].BaseAmount,
		ForeignCurrency: "EUR",
		ForeignAmount:   records[0].ForeignAmount,
	}, records[0])
	suite.True(records[0].BaseAmount.Equal(decimal.RequireFromString("1234.567")), records[0].BaseAmount.String())
	suite.True(records[0].ForeignAmount.Equal(decimal.RequireFromString("72.5")), "custom number format is read as a number")
	suite.Equal("INV2", records[1].InvoiceID)
	suite.True(records[1].BaseAmount.IsZero(), "blank cell is zero")
	suite.True(records[1].ForeignAmount.Equal(decimal.NewFromInt(50)))
}

func (suite *WorkbookReaderTestSuite) TestReadReferences_XLS() {
	data, err := os.ReadFile(filepath.Join("testdata", "ifm_inputs.xls"))
	suite.Require().NoError(err)

	refs, err := suite.reader.ReadReferences(suite.ctx, domain.SourceFile{Name: "map.xls", Data: data})

	suite.Require().NoError(err)
	suite.Equal([]domain.VendorMapping{
		{VendorID: "V1", LegalEntityName: "Acme HK Ltd", VendorType: "IFM", Country: "China-HK"},
		{VendorID: "V2", LegalEntityName: "Widget GmbH", VendorType: "External", Country: "Germany"},
	}, refs.Vendors)
	suite.Equal([]domain.ReceivingEntity{
		{BusinessUnit: "BU01", ReceivingCountry: "China", LegalEntityName: "Acme Shanghai"},
	}, refs.ReceivingEntities)
	suite.Equal([]domain.CountryArea{
		{Country: "China-HK", Area: "APAC"},
		{Country: "Germany", Area: "EMEA"},
	}, refs.Areas)
}

func (suite *WorkbookReaderTestSuite) TestReadReferences_XLSMissingSheet() {
	data, err := os.ReadFile(filepath.Join("testdata", "ifm_inputs.xls"))
	suite.Require().NoError(err)
	layout := spreadsheet.DefaultLayout()
	layout.Areas.Sheet = "Areas"

	_, err = spreadsheet.NewWorkbookReader(layout).ReadReferences(suite.ctx, domain.SourceFile{Name: "map.xls", Data: data})

	var sheetErr *apperrors.MissingSheetError
	suite.Require().ErrorAs(err, &sheetErr)
	suite.Equal("Areas", sheetErr.Sheet)
}

func (suite *WorkbookReaderTestSuite) TestReadExtract_CSVWithBOM() {
	csvData := "\ufeffVendor Id - AP,Business Unit - AP,Invoice Id - AP,Invoice Date - AP,Currency Cd - AP,Monetary Amount Detail - AP,Foreign Currency - AP,Foreign Amount Detail - AP\n" +
		"V1,BU01,INV1,2024-01-31,CNY,\"1,000\",EUR,72\n"

	records, err := suite.reader.ReadExtract(suite.ctx, domain.SourceFile{Name: "bo.CSV", Data: []byte(csvData)})

	suite.Require().NoError(err)
	suite.Require().Len(records, 1)
	suite.Equal("V1", records[0].VendorID)
	suite.True(records[0].BaseAmount.Equal(decimal.NewFromInt(1000)))
}

func (suite *WorkbookReaderTestSuite) TestReadExtract_MissingColumn() {
	data := buildXLSX(suite.T(), sheet{name: "BO", rows: [][]string{extractHeader[:7]}})

	records, err := suite.reader.ReadExtract(suite.ctx, domain.SourceFile{Name: "bo.xlsx", Data: data})

	suite.Nil(records)
	suite.ErrorIs(err, apperrors.ErrMalformedInput)
	var colErr *apperrors.MissingColumnError
	suite.Require().ErrorAs(err, &colErr)
	suite.Equal(spreadsheet.TableExtract, colErr.Table)
	suite.Equal("Foreign Amount Detail - AP", colErr.Column)
}

func (suite *WorkbookReaderTestSuite) TestReadExtract_UnparsableAmount() {
	data := buildXLSX(suite.T(), sheet{name: "BO", rows: [][]string{
		extractHeader,
		{"V1", "BU01", "INV1", "2024-01-31", "CNY", "12", "EUR", "12"},
		{"V1", "BU01", "INV2", "2024-01-31", "CNY", "n/a", "EUR", "12"},
	}})

	_, err := suite.reader.ReadExtract(suite.ctx, domain.SourceFile{Name: "bo.xlsx", Data: data})

	suite.ErrorIs(err, apperrors.ErrMalformedInput)
	var cellErr *apperrors.CellError
	suite.Require().ErrorAs(err, &cellErr)
	suite.Equal(3, cellErr.Row)
	suite.Equal("Monetary Amount Detail - AP", cellErr.Column)
	suite.Equal("n/a", cellErr.Value)
}

func (suite *WorkbookReaderTestSuite) TestReadExtract_UnsupportedType() {
	_, err := suite.reader.ReadExtract(suite.ctx, domain.SourceFile{Name: "bo.pdf", Data: []byte("%PDF")})

	suite.ErrorIs(err, apperrors.ErrMalformedInput)
}

func (suite *WorkbookReaderTestSuite) TestReadExtract_CorruptWorkbook() {
	_, err := suite.reader.ReadExtract(suite.ctx, domain.SourceFile{Name: "bo.xlsx", Data: []byte("not a zip")})

	suite.ErrorIs(err, apperrors.ErrMalformedInput)
}

func (suite *WorkbookReaderTestSuite) TestReadReferences() {
	data := buildXLSX(suite.T(), mappingSheets()...)

	refs, err := suite.reader.ReadReferences(suite.ctx, domain.SourceFile{Name: "map.xlsx", Data: data})

	suite.Require().NoError(err)
	suite.Equal([]domain.VendorMapping{
		{VendorID: "V1", LegalEntityName: "Acme HK Ltd", VendorType: "IFM", Country: "China-HK"},
		{VendorID: "V2", LegalEntityName: "Widget GmbH", VendorType: "External", Country: "Germany"},
	}, refs.Vendors)
	suite.Equal([]domain.ReceivingEntity{
		{BusinessUnit: "BU01", ReceivingCountry: "China", LegalEntityName: "Acme Shanghai"},
	}, refs.ReceivingEntities)
	suite.Len(refs.Areas, 2)
}

func (suite *WorkbookReaderTestSuite) TestReadReferences_MissingSheet() {
	sheets := mappingSheets()
	data := buildXLSX(suite.T(), sheets[0], sheets[2])

	_, err := suite.reader.ReadReferences(suite.ctx, domain.SourceFile{Name: "map.xlsx", Data: data})

	suite.ErrorIs(err, apperrors.ErrMalformedInput)
	var sheetErr *apperrors.MissingSheetError
	suite.Require().ErrorAs(err, &sheetErr)
	suite.Equal("Receiving Entity", sheetErr.Sheet)
	suite.Equal("map.xlsx", sheetErr.File)
}

func (suite *WorkbookReaderTestSuite) TestReadReferences_MissingColumnNamesSheet() {
	sheets := mappingSheets()
	sheets[2].rows[0] = []string{"Country", "Region"}
	data := buildXLSX(suite.T(), sheets...)

	_, err := suite.reader.ReadReferences(suite.ctx, domain.SourceFile{Name: "map.xlsx", Data: data})

	var colErr *apperrors.MissingColumnError
	suite.Require().ErrorAs(err, &colErr)
	suite.Equal("Country Area Mapping", colErr.Table)
	suite.Equal("Area", colErr.Column)
}

func (suite *WorkbookReaderTestSuite) TestReadReferences_CSVHasNoSheets() {
	_, err := suite.reader.ReadReferences(suite.ctx, domain.SourceFile{Name: "map.csv", Data: []byte("a,b\n")})

	var sheetErr *apperrors.MissingSheetError
	suite.ErrorAs(err, &sheetErr)
}

func (suite *WorkbookReaderTestSuite) TestReadHistorical() {
	header := append([]string{}, domain.AggregatedColumns...)
	data := buildXLSX(suite.T(), sheet{name: "IFM Report", rows: [][]string{
		header,
		{"IFM", "China", "Acme Shanghai", "APAC", "China-HK", "Acme HK Ltd", "INV0", "2023-12-31", "CNY", "720", "EUR", "72", "BU01", "38200015", "V1", "7.2", "AP", "10", "Great China"},
	}})

	records, err := suite.reader.ReadHistorical(suite.ctx, domain.SourceFile{Name: "last.xlsx", Data: data})

	suite.Require().NoError(err)
	suite.Require().Len(records, 1)
	suite.Equal("INV0", records[0].InvoiceNo)
	suite.Equal("V1", records[0].VendorID)
	suite.Equal("Acme HK Ltd", records[0].BillToLegalEntity)
	suite.True(records[0].OriginalAmount.Equal(decimal.NewFromInt(72)))
}

func (suite *WorkbookReaderTestSuite) TestReadHistorical_AccountReadAsStored() {
	f := excelize.NewFile()
	defer f.Close()
	name := f.GetSheetName(0)
	suite.Require().NoError(f.SetSheetRow(name, "A1", &[]interface{}{"Invoice No.", "Vendor ID (AP)", "Base amount of Country", "Original billing amount", "Original Currency", "Account"}))
	suite.Require().NoError(f.SetSheetRow(name, "A2", &[]interface{}{"INV0", "V1", 10, 10, "USD", 38200015}))
	grouped, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	suite.Require().NoError(err)
	suite.Require().NoError(f.SetCellStyle(name, "F2", "F2", grouped))
	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	suite.Require().NoError(err)

	records, err := suite.reader.ReadHistorical(suite.ctx, domain.SourceFile{Name: "last.xlsx", Data: buf.Bytes()})

	suite.Require().NoError(err)
	suite.Require().Len(records, 1)
	suite.Equal(domain.AccountIntraFirm, records[0].Account)
}

func (suite *WorkbookReaderTestSuite) TestReadHistorical_UnknownAccount() {
	data := buildXLSX(suite.T(), sheet{name: "Sheet1", rows: [][]string{
		{"Invoice No.", "Vendor ID (AP)", "Base amount of Country", "Original billing amount", "Original Currency", "Account"},
		{"INV0", "V1", "10", "10", "USD", "38000000"},
		{"INV1", "V1", "10", "10", "USD", ""},
		{"INV2", "V1", "10", "10", "USD", "40000000"},
	}})

	records, err := suite.reader.ReadHistorical(suite.ctx, domain.SourceFile{Name: "last.xlsx", Data: data})

	suite.Nil(records)
	suite.ErrorIs(err, apperrors.ErrMalformedInput)
	suite.ErrorIs(err, apperrors.ErrUnknownAccount)
	var cellErr *apperrors.CellError
	suite.Require().ErrorAs(err, &cellErr)
	suite.Equal(4, cellErr.Row)
	suite.Equal(domain.ColAccount, cellErr.Column)
	suite.Equal("40000000", cellErr.Value)
}

func (suite *WorkbookReaderTestSuite) TestReadHistorical_OptionalColumnsMayBeAbsent() {
	data := buildXLSX(suite.T(), sheet{name: "Sheet1", rows: [][]string{
		{"Invoice No.", "Vendor ID (AP)", "Base amount of Country", "Original billing amount", "Original Currency"},
		{"INV0", "V1", "10", "10", "USD"},
	}})

	records, err := suite.reader.ReadHistorical(suite.ctx, domain.SourceFile{Name: "last.xlsx", Data: data})

	suite.Require().NoError(err)
	suite.Require().Len(records, 1)
	suite.Empty(records[0].GCCountry)
}

func (suite *WorkbookReaderTestSuite) TestReadHistorical_EmptyFile() {
	empty := buildXLSX(suite.T(), sheet{name: "Sheet1"})

	for _, file := range []domain.SourceFile{
		{Name: "last.xlsx", Data: empty},
		{Name: "last.xlsx"},
		{Name: "last.csv", Data: []byte("\ufeff")},
	} {
		records, err := suite.reader.ReadHistorical(suite.ctx, file)

		suite.NoError(err)
		suite.Empty(records)
	}
}

func (suite *WorkbookReaderTestSuite) TestReadHistorical_MissingRequiredColumn() {
	data := buildXLSX(suite.T(), sheet{name: "Sheet1", rows: [][]string{{"Invoice No.", "Vendor ID (AP)"}}})

	_, err := suite.reader.ReadHistorical(suite.ctx, domain.SourceFile{Name: "last.xlsx", Data: data})

	var colErr *apperrors.MissingColumnError
	suite.Require().ErrorAs(err, &colErr)
	suite.Equal(spreadsheet.TableHistorical, colErr.Table)
	suite.Equal("Base amount of Country", colErr.Column)
}

func (suite *WorkbookReaderTestSuite) TestCustomLayout() {
	dir := suite.T().TempDir()
	path := filepath.Join(dir, "layout.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte("vendors:\n  vendor_type: Vendor Type\n"), 0o600))

	layout, err := spreadsheet.LoadLayout(path)
	suite.Require().NoError(err)
	suite.Equal("Vendor Type", layout.Vendors.VendorType)
	suite.Equal("Vendor Id - Ven", layout.Vendors.VendorID, "unset keys keep defaults")

	sheets := mappingSheets()
	sheets[0].rows[0][2] = "Vendor Type"
	data := buildXLSX(suite.T(), sheets...)

	refs, err := spreadsheet.NewWorkbookReader(layout).ReadReferences(suite.ctx, domain.SourceFile{Name: "map.xlsx", Data: data})
	suite.Require().NoError(err)
	suite.Equal("IFM", refs.Vendors[0].VendorType)
}

func TestWorkbookReaderTestSuite(t *testing.T) {
	suite.Run(t, new(WorkbookReaderTestSuite))
}

func TestLoadLayout_Errors(t *testing.T) {
	dir := t.TempDir()

	blank := filepath.Join(dir, "blank.yaml")
	require.NoError(t, os.WriteFile(blank, []byte("areas:\n  area: \"\"\n"), 0o600))
	_, err := spreadsheet.LoadLayout(blank)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("areas: [\n"), 0o600))
	_, err = spreadsheet.LoadLayout(broken)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = spreadsheet.LoadLayout(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	layout, err := spreadsheet.LoadLayout("")
	require.NoError(t, err)
	assert.Equal(t, spreadsheet.DefaultLayout(), layout)
}
