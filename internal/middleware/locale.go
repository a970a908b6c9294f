package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// DefaultLocale is used when the client sends no usable Accept-Language header.
const DefaultLocale = "en"

var supportedLocales = map[string]struct{}{
	"en": {},
	"ar": {},
}

// ResolveLocale derives the request locale from the Accept-Language header
// once at the boundary and stores it in locals and the request context.
// Handlers must read it from there; process-wide locale state is never
// mutated.
func ResolveLocale() fiber.Handler {
	return func(c *fiber.Ctx) error {
		locale := parseAcceptLanguage(c.Get("Accept-Language"))
		c.Locals("locale", locale)
		c.SetUserContext(context.WithValue(c.UserContext(), LocaleKey, locale))
		return c.Next()
	}
}

// parseAcceptLanguage returns the first supported language tag from an
// Accept-Language header value, ignoring quality weights and region
// subtags ("ar-SA;q=0.8" matches "ar").
func parseAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(part)
		if i := strings.IndexByte(tag, ';'); i >= 0 {
			tag = tag[:i]
		}
		if i := strings.IndexByte(tag, '-'); i >= 0 {
			tag = tag[:i]
		}
		tag = strings.ToLower(strings.TrimSpace(tag))
		if _, ok := supportedLocales[tag]; ok {
			return tag
		}
	}
	return DefaultLocale
}

// LocaleFromContext returns the locale resolved at the request boundary,
// or DefaultLocale when called outside a request scope.
func LocaleFromContext(ctx context.Context) string {
	if loc, ok := ctx.Value(LocaleKey).(string); ok {
		return loc
	}
	return DefaultLocale
}
