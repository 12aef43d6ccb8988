package domain

import (
	"fmt"
	"strings"
)

// VendorMapping is one row of the "Sending Entity_Vendor Mapping" sheet.
// Vendor ids are not guaranteed unique.
type VendorMapping struct {
	VendorID        string `json:"vendorID"`
	LegalEntityName string `json:"legalEntityName"`
	VendorType      string `json:"vendorType"` // e.g. IFM or External
	Country         string `json:"country"`
}

// ReceivingEntity is one row of the "Receiving Entity" sheet, keyed by AP business unit.
type ReceivingEntity struct {
	BusinessUnit     string `json:"businessUnit"`
	ReceivingCountry string `json:"receivingCountry"`
	LegalEntityName  string `json:"legalEntityName"`
}

// CountryArea is one row of the "Country Area Mapping" sheet.
type CountryArea struct {
	Country string `json:"country"`
	Area    string `json:"area"`
}

// ReferenceTables bundles the three lookup tables of the mapping workbook.
type ReferenceTables struct {
	Vendors           []VendorMapping
	ReceivingEntities []ReceivingEntity
	Areas             []CountryArea
}

// JoinPolicy controls how a left join treats several reference rows sharing a key.
type JoinPolicy string

const (
	// JoinAllMatches emits one output row per matching reference row.
	JoinAllMatches JoinPolicy = "all"
	// JoinFirstMatch keeps only the first matching reference row.
	JoinFirstMatch JoinPolicy = "first"
)

// ParseJoinPolicy parses a policy name; the empty string selects JoinAllMatches.
func ParseJoinPolicy(s string) (JoinPolicy, error) {
	switch JoinPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", JoinAllMatches:
		return JoinAllMatches, nil
	case JoinFirstMatch:
		return JoinFirstMatch, nil
	default:
		return "", fmt.Errorf("unknown join policy %q (want %q or %q)", s, JoinAllMatches, JoinFirstMatch)
	}
}
