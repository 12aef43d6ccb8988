package domain

const (
	// IntraFirmMarker is the vendor type that flags intra-firm (IFM) vendors.
	IntraFirmMarker = "IFM"

	AccountIntraFirm = "38200015"
	AccountExternal  = "38000000"

	// FunctionAP marks every report row as accounts-payable sourced.
	FunctionAP = "AP"

	// CurrencyUSD rows are never converted.
	CurrencyUSD = "USD"

	SubAreaGreatChina = "Great China"
)

// greatChinaCountries are matched exactly, without case or whitespace folding.
var greatChinaCountries = map[string]struct{}{
	"China":    {},
	"China-HK": {},
	"China-TW": {},
}

// AccountCodeFor derives the GL account from the entity-type flag alone.
func AccountCodeFor(entityType string) string {
	if entityType == IntraFirmMarker {
		return AccountIntraFirm
	}
	return AccountExternal
}

// IsValidAccountCode reports whether code is one of the two derivable accounts.
func IsValidAccountCode(code string) bool {
	return code == AccountIntraFirm || code == AccountExternal
}

// SubAreaFor returns "Great China" for the China cluster and "" otherwise.
func SubAreaFor(billToCountry string) string {
	if _, ok := greatChinaCountries[billToCountry]; ok {
		return SubAreaGreatChina
	}
	return ""
}
