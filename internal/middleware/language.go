package middleware

import (
	"context"
	"net/http"
	"strings"

	"plant-disease-history/internal/platform/i18n"
)

const (
	HeaderLang = "X-Lang"
	CookieLang = "lang"
)

// Language guarda en el context el idioma elegido por el cliente (header X-Lang o cookie lang).
// Si no eligió ninguno, no setea nada: la vista decide el fallback.
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := strings.TrimSpace(r.Header.Get(HeaderLang))
		if lang == "" {
			if c, err := r.Cookie(CookieLang); err == nil {
				lang = strings.TrimSpace(c.Value)
			}
		}
		if lang != "" {
			r = r.WithContext(context.WithValue(r.Context(), langKey, i18n.Normalize(lang)))
		}
		next.ServeHTTP(w, r)
	})
}

// GetLanguage devuelve "" si el request no trae idioma.
func GetLanguage(ctx context.Context) string {
	v, _ := ctx.Value(langKey).(string)
	return v
}
