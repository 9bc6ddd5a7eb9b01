package i18n

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadAndTranslate(t *testing.T) {
	assert.NoError(t, Load())

	assert.True(t, IsSupported("en"))
	assert.True(t, IsSupported("uk"))
	assert.False(t, IsSupported("de"))

	assert.Equal(t, "Hearing scheduled", TLang("en", "case.status.hearing_scheduled", nil))
	assert.Equal(t, "Призначено слухання", TLang("uk", "case.status.hearing_scheduled", nil))
	assert.Equal(t, "Скасовано", TLang("uk", "case.status.cancelled", nil))
}

func TestTLang_Placeholders(t *testing.T) {
	assert.NoError(t, Load())

	body := TLang("en", "email.lawyer_rejected.body", map[string]interface{}{
		"name":   "Olena",
		"reason": "License could not be confirmed",
	})
	assert.Equal(t, "Hello Olena, your lawyer profile was not approved. Reason: License could not be confirmed", body)
}

func TestTLang_Fallbacks(t *testing.T) {
	assert.NoError(t, Load())

	// Unknown language falls back to English
	assert.Equal(t, "Draft", TLang("de", "case.status.draft", nil))

	// Unknown key falls back to the key itself
	assert.Equal(t, "case.status.archived", TLang("en", "case.status.archived", nil))
}

func TestT_UsesContextLocale(t *testing.T) {
	assert.NoError(t, Load())

	ctx := context.WithValue(context.Background(), LocaleContextKey, "uk")
	assert.Equal(t, "На розгляді", T(ctx, "case.status.under_review"))

	// No locale in context means the default language
	assert.Equal(t, "Under review", T(context.Background(), "case.status.under_review"))
}
