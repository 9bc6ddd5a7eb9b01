package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocaleForJurisdiction(t *testing.T) {
	assert.Equal(t, "uk", LocaleForJurisdiction("UA"))
	assert.Equal(t, "uk", LocaleForJurisdiction("ua"))
	assert.Equal(t, "en", LocaleForJurisdiction("PL"))
	assert.Equal(t, "en", LocaleForJurisdiction("DE"))

	// Unknown codes fall back to English
	assert.Equal(t, "en", LocaleForJurisdiction("XX"))
	assert.Equal(t, "en", LocaleForJurisdiction(""))
}

func TestIsSupportedJurisdiction(t *testing.T) {
	assert.True(t, IsSupportedJurisdiction("UA"))
	assert.True(t, IsSupportedJurisdiction("gb"))
	assert.False(t, IsSupportedJurisdiction("XX"))
	assert.False(t, IsSupportedJurisdiction(""))
}

func TestSupportedJurisdictions_SortedAndComplete(t *testing.T) {
	codes := SupportedJurisdictions()
	assert.Equal(t, []string{"CZ", "DE", "GB", "PL", "UA", "US"}, codes)
}
