package services

import (
	"sort"
	"strings"
)

// jurisdictionLocales maps a jurisdiction (ISO country code) to the UI
// locale the presentation layer should apply. The mapping is consumed
// explicitly by callers; selecting a jurisdiction never switches locale
// as a hidden side effect.
var jurisdictionLocales = map[string]string{
	"UA": "uk",
	"PL": "en",
	"DE": "en",
	"CZ": "en",
	"GB": "en",
	"US": "en",
}

// SupportedJurisdictions returns the jurisdiction codes a lawyer may register under
func SupportedJurisdictions() []string {
	codes := make([]string, 0, len(jurisdictionLocales))
	for code := range jurisdictionLocales {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// IsSupportedJurisdiction checks if a jurisdiction code is known
func IsSupportedJurisdiction(code string) bool {
	_, ok := jurisdictionLocales[strings.ToUpper(code)]
	return ok
}

// LocaleForJurisdiction returns the locale suggested for a jurisdiction,
// falling back to "en" for unknown codes.
func LocaleForJurisdiction(code string) string {
	if locale, ok := jurisdictionLocales[strings.ToUpper(code)]; ok {
		return locale
	}
	return "en"
}
