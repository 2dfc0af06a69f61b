package middleware

import (
	"net/http"

	"github.com/kota-mizu/skill-builder/i18n"
)

const langCookieMaxAge = 86400 * 30

// Prefs extracts the language preference (query > cookie > Accept-Language)
// and stores it in the request context. A language passed in the query is
// persisted in a cookie for ~30 days.
func Prefs(defaultLang string) func(http.Handler) http.Handler {
	if !i18n.Supported(defaultLang) {
		defaultLang = i18n.DefaultLang
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := ""
			if c, err := r.Cookie("lang"); err == nil && i18n.Supported(c.Value) {
				lang = c.Value
			}
			if q := r.URL.Query().Get("lang"); i18n.Supported(q) {
				lang = q
				http.SetCookie(w, &http.Cookie{
					Name:     "lang",
					Value:    lang,
					Path:     "/",
					MaxAge:   langCookieMaxAge,
					HttpOnly: true,
				})
			}
			if lang == "" && r.Header.Get("Accept-Language") != "" {
				lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
			}
			if lang == "" {
				lang = defaultLang
			}
			next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
		})
	}
}
