package middleware

import (
	"context"
	"strings"

	"legal_connect_go/services/i18n"

	"github.com/labstack/echo/v4"
)

// Locale middleware handles language detection for API responses.
// Priority:
// 1. Query param "lang"
// 2. Accept-Language header
// 3. Default ("en")
func Locale() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := c.QueryParam("lang")
			if lang != "" && !i18n.IsSupported(lang) {
				lang = ""
			}

			if lang == "" {
				lang = matchAcceptLanguage(c.Request().Header.Get("Accept-Language"))
			}

			if lang == "" {
				lang = "en"
			}

			c.Set("locale", lang)

			// Propagate into the request context for services
			ctx := context.WithValue(c.Request().Context(), i18n.LocaleContextKey, lang)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// matchAcceptLanguage picks the first supported language in the header
func matchAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		// Reduce "uk-UA" to "uk"
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if i18n.IsSupported(base) {
			return base
		}
	}
	return ""
}

// GetLocale returns the current locale from context
func GetLocale(c echo.Context) string {
	if val, ok := c.Get("locale").(string); ok && val != "" {
		return val
	}
	return "en"
}
