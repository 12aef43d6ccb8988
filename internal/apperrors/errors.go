package apperrors

import (
	"errors"
	"fmt"
)

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrMalformedInput indicates that an input table cannot be read as the expected
// shape (missing column or sheet, unreadable cell, unsupported file type).
var ErrMalformedInput = errors.New("malformed input")

// ErrInvalidExchangeRate indicates a zero or negative exchange rate.
// It also matches ErrValidation.
var ErrInvalidExchangeRate = fmt.Errorf("%w: exchange rate must be greater than zero", ErrValidation)

// ErrUnknownAccount indicates an account code other than the intra-firm and
// external GL accounts.
var ErrUnknownAccount = errors.New("unknown account code")

// ErrPayloadTooLarge indicates an upload over the configured size limit.
var ErrPayloadTooLarge = errors.New("payload too large")

// MissingColumnError reports a required header absent from an input table.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: table %q is missing required column %q", ErrMalformedInput, e.Table, e.Column)
}

func (e *MissingColumnError) Unwrap() error { return ErrMalformedInput }

// MissingSheetError reports a named sheet absent from a workbook.
type MissingSheetError struct {
	File  string
	Sheet string
}

func (e *MissingSheetError) Error() string {
	return fmt.Sprintf("%s: workbook %q has no sheet named %q", ErrMalformedInput, e.File, e.Sheet)
}

func (e *MissingSheetError) Unwrap() error { return ErrMalformedInput }

// CellError reports a cell whose value cannot be interpreted. Row is 1-based,
// counting the header row, so it matches what a spreadsheet shows.
type CellError struct {
	Table  string
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("%s: table %q row %d column %q: cannot parse %q: %v", ErrMalformedInput, e.Table, e.Row, e.Column, e.Value, e.Err)
}

// Unwrap lets errors.Is match both ErrMalformedInput and the parse cause.
func (e *CellError) Unwrap() []error { return []error{ErrMalformedInput, e.Err} }
