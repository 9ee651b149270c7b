package language

import (
	"encoding/json"
	"net/http"
	"time"

	"plant-disease-history/internal/middleware"
	"plant-disease-history/internal/platform/i18n"

	"github.com/go-chi/chi/v5"
)

const cookieMaxAge = 365 * 24 * time.Hour

func RegisterRoutes(r chi.Router, catalog *i18n.Catalog) {
	r.Get("/set_language/{lang}", setLanguageHandler())
	r.Get("/ui_translations", uiTranslationsHandler(catalog))
}

type setLanguageResponse struct {
	OK   bool   `json:"ok"`
	Lang string `json:"lang"`
}

type translationsResponse struct {
	Map map[string]string `json:"map"`
}

// setLanguageHandler godoc
// @Summary Elegir idioma
// @Description Normaliza el código (en, hi, mr; cualquier otro cae a en) y lo guarda en la cookie `lang`.
// @Tags language
// @Produce json
// @Param lang path string true "Código de idioma"
// @Success 200 {object} setLanguageResponse
// @Router /set_language/{lang} [get]
func setLanguageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.Normalize(chi.URLParam(r, "lang"))

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.CookieLang,
			Value:    lang,
			Path:     "/",
			MaxAge:   int(cookieMaxAge.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		writeJSON(w, http.StatusOK, setLanguageResponse{OK: true, Lang: lang})
	}
}

// uiTranslationsHandler godoc
// @Summary Textos de UI
// @Description Devuelve el mapa de textos del idioma pedido (query `lang`), o el del request si no viene.
// @Tags language
// @Produce json
// @Param lang query string false "Código de idioma"
// @Success 200 {object} translationsResponse
// @Router /ui_translations [get]
func uiTranslationsHandler(catalog *i18n.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := r.URL.Query().Get("lang")
		if lang == "" {
			lang = middleware.GetLanguage(r.Context())
		}
		writeJSON(w, http.StatusOK, translationsResponse{Map: catalog.Map(lang)})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
