package middleware

import (
	"context"
	"net/http"

	"github.com/soaringjerry/fairway/internal/utils"
)

type ctxKey int

const localeKey ctxKey = 1

// SupportedLocales are the languages with message tables and quiz copy.
var SupportedLocales = []string{"ko", "en"}

// LocaleMiddleware resolves ?lang or Accept-Language to a supported locale, stores it in the
// request context and echoes it as Content-Language.
func LocaleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := utils.DetermineLocale(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"), SupportedLocales, utils.DefaultLocale)
		w.Header().Set("Content-Language", locale)
		w.Header().Add("Vary", "Accept-Language")
		next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), locale)))
	})
}

func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey, locale)
}

// LocaleFromContext returns the stored locale, or the default outside LocaleMiddleware.
func LocaleFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(localeKey).(string); ok && s != "" {
		return s
	}
	return utils.DefaultLocale
}
