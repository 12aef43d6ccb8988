package spreadsheet

import (
	"fmt"
	"os"

	"github.com/SscSPs/ifm_report_app/internal/apperrors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Layout names the sheets and headers the readers look for. Deployments whose
// source systems label columns differently override it with a YAML file.
type Layout struct {
	Extract   ExtractLayout   `yaml:"extract"`
	Vendors   VendorLayout    `yaml:"vendors"`
	Receiving ReceivingLayout `yaml:"receiving"`
	Areas     AreaLayout      `yaml:"areas"`
}

// ExtractLayout describes the BO extract, always read from its first sheet.
type ExtractLayout struct {
	VendorID        string `yaml:"vendor_id" validate:"required"`
	BusinessUnit    string `yaml:"business_unit" validate:"required"`
	InvoiceID       string `yaml:"invoice_id" validate:"required"`
	InvoiceDate     string `yaml:"invoice_date" validate:"required"`
	BaseCurrency    string `yaml:"base_currency" validate:"required"`
	BaseAmount      string `yaml:"base_amount" validate:"required"`
	ForeignCurrency string `yaml:"foreign_currency" validate:"required"`
	ForeignAmount   string `yaml:"foreign_amount" validate:"required"`
}

type VendorLayout struct {
	Sheet           string `yaml:"sheet" validate:"required"`
	VendorID        string `yaml:"vendor_id" validate:"required"`
	LegalEntityName string `yaml:"legal_entity_name" validate:"required"`
	VendorType      string `yaml:"vendor_type" validate:"required"`
	Country         string `yaml:"country" validate:"required"`
}

type ReceivingLayout struct {
	Sheet            string `yaml:"sheet" validate:"required"`
	BusinessUnit     string `yaml:"business_unit" validate:"required"`
	ReceivingCountry string `yaml:"receiving_country" validate:"required"`
	LegalEntityName  string `yaml:"legal_entity_name" validate:"required"`
}

type AreaLayout struct {
	Sheet   string `yaml:"sheet" validate:"required"`
	Country string `yaml:"country" validate:"required"`
	Area    string `yaml:"area" validate:"required"`
}

// DefaultLayout returns the layout of the standard BO extract and mapping workbook.
func DefaultLayout() Layout {
	return Layout{
		Extract: ExtractLayout{
			VendorID:        "Vendor Id - AP",
			BusinessUnit:    "Business Unit - AP",
			InvoiceID:       "Invoice Id - AP",
			InvoiceDate:     "Invoice Date - AP",
			BaseCurrency:    "Currency Cd - AP",
			BaseAmount:      "Monetary Amount Detail - AP",
			ForeignCurrency: "Foreign Currency - AP",
			ForeignAmount:   "Foreign Amount Detail - AP",
		},
		Vendors: VendorLayout{
			Sheet:           "Sending Entity_Vendor Mapping",
			VendorID:        "Vendor Id - Ven",
			LegalEntityName: "Vendor Name1 - Ven",
			VendorType:      "Vendor Tyep",
			Country:         "Country",
		},
		Receiving: ReceivingLayout{
			Sheet:            "Receiving Entity",
			BusinessUnit:     "AP Business Unit",
			ReceivingCountry: "Receiving Country",
			LegalEntityName:  "LE Name",
		},
		Areas: AreaLayout{
			Sheet:   "Country Area Mapping",
			Country: "Country",
			Area:    "Area",
		},
	}
}

// LoadLayout reads a YAML override on top of DefaultLayout. Keys absent from
// the file keep their default. An empty path returns the default layout.
func LoadLayout(path string) (Layout, error) {
	layout := DefaultLayout()
	if path == "" {
		return layout, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to read layout file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return Layout{}, fmt.Errorf("%w: layout file %q: %v", apperrors.ErrValidation, path, err)
	}
	if err := layout.Validate(); err != nil {
		return Layout{}, fmt.Errorf("layout file %q: %w", path, err)
	}
	return layout, nil
}

// Validate checks that every sheet and header name is set.
func (l Layout) Validate() error {
	if err := validator.New().Struct(l); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}
