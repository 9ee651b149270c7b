package predictions

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"plant-disease-history/internal/middleware"
	"plant-disease-history/internal/ports/classifier"
	"plant-disease-history/internal/ports/images"

	"github.com/go-chi/chi/v5"
)

// timestampLayout es el formato persistido y expuesto: ISO-8601 UTC con microsegundos.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// DefaultMaxUploadBytes aplica si el router no configura un límite.
const DefaultMaxUploadBytes int64 = 16 << 20

func RegisterRoutes(r chi.Router, svc *Service, maxUploadBytes int64) {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}

	r.Route("/predictions", func(pr chi.Router) {
		pr.Post("/", uploadHandler(svc, maxUploadBytes))
		pr.Get("/{recordID}", getPredictionHandler(svc))
		pr.Post("/{recordID}/feedback", submitFeedbackHandler(svc))
	})

	r.Get("/me/dashboard", dashboardHandler(svc))
	r.Get("/me/history", historyHandler(svc))
	r.Get("/admin/feedback", feedbackDigestHandler(svc))
	r.Get("/uploads/{name}", uploadedImageHandler(svc))
}

type feedbackResponse struct {
	User string `json:"user"`
	Text string `json:"text"`
	Time string `json:"time"`
}

type recordResponse struct {
	ID           string            `json:"id"`
	Username     string            `json:"username"`
	Timestamp    string            `json:"timestamp"`
	Image        string            `json:"image"`
	Label        string            `json:"label"`
	Confidence   float64           `json:"confidence"`
	Advice       string            `json:"advice"`
	HealthStatus string            `json:"health_status"`
	Feedback     *feedbackResponse `json:"feedback"`
	Lang         string            `json:"lang"`
}

type resultResponse struct {
	Record recordResponse `json:"record"`
	Lang   string         `json:"lang"`
}

type submitFeedbackRequest struct {
	// Puntero para distinguir "no enviado" de "".
	Feedback *string `json:"feedback"`
}

type dashboardResponse struct {
	Username string           `json:"username"`
	Recent   []recordResponse `json:"recent"`
	Lang     string           `json:"lang"`
}

type digestEntryResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Label        string `json:"label"`
	Timestamp    string `json:"timestamp"`
	FeedbackUser string `json:"feedback_user"`
	FeedbackText string `json:"feedback_text"`
	FeedbackTime string `json:"feedback_time"`
}

// uploadHandler godoc
// @Summary Subir foto de hoja y predecir
// @Description Guarda la imagen, llama al modelo y registra la predicción en el historial del usuario. Extensiones aceptadas: png, jpg, jpeg, bmp. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags predictions
// @Accept multipart/form-data
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param X-Lang header string false "Idioma (en, hi, mr)"
// @Param file formData file true "Foto de la hoja"
// @Success 201 {object} recordResponse
// @Failure 400 {string} string "no file selected / invalid file type"
// @Failure 401 {string} string "unauthorized"
// @Failure 502 {string} string "prediction failed"
// @Failure 503 {string} string "model not available on server"
// @Router /predictions [post]
func uploadHandler(svc *Service, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "no file part", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "no file part", http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, "could not read file", http.StatusBadRequest)
			return
		}

		rec, err := svc.Upload(r.Context(), caller, UploadInput{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toRecordResponse(rec))
	}
}

// getPredictionHandler godoc
// @Summary Ver resultado de una predicción
// @Description Devuelve el registro si el caller es el dueño o es admin. El idioma de presentación es el del caller, si no el del registro, si no en.
// @Tags predictions
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, usuario para depuración"
// @Param X-Debug-Role header string false "Solo en modo dev, rol (user/admin)"
// @Param Authorization header string false "Bearer token en producción"
// @Param recordID path string true "ID de la predicción"
// @Success 200 {object} resultResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "prediction not found"
// @Router /predictions/{recordID} [get]
func getPredictionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rec, err := svc.View(r.Context(), caller, chi.URLParam(r, "recordID"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, resultResponse{
			Record: toRecordResponse(rec),
			Lang:   DisplayLanguage(caller, rec),
		})
	}
}

// submitFeedbackHandler godoc
// @Summary Dejar feedback sobre una predicción
// @Description Adjunta (o reemplaza) el feedback del registro. Solo el dueño o un admin.
// @Tags predictions
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, usuario para depuración"
// @Param X-Debug-Role header string false "Solo en modo dev, rol (user/admin)"
// @Param Authorization header string false "Bearer token en producción"
// @Param recordID path string true "ID de la predicción"
// @Param payload body submitFeedbackRequest true "Texto del feedback"
// @Success 200 {object} recordResponse
// @Failure 400 {string} string "invalid json / feedback missing"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "prediction not found"
// @Router /predictions/{recordID}/feedback [post]
func submitFeedbackHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req submitFeedbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Feedback == nil {
			http.Error(w, "feedback missing", http.StatusBadRequest)
			return
		}

		rec, err := svc.SubmitFeedback(r.Context(), caller, chi.URLParam(r, "recordID"), *req.Feedback)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

// dashboardHandler godoc
// @Summary Dashboard del usuario
// @Description Últimas predicciones del caller (las más nuevas primero).
// @Tags me
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} dashboardResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/dashboard [get]
func dashboardHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		d, err := svc.Dashboard(r.Context(), caller)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, dashboardResponse{
			Username: d.Username,
			Recent:   toRecordResponses(d.Recent),
			Lang:     d.Language,
		})
	}
}

// historyHandler godoc
// @Summary Historial completo del usuario
// @Description Todas las predicciones del caller ordenadas por fecha de creación descendente.
// @Tags me
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} recordResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/history [get]
func historyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.FullHistory(r.Context(), caller)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toRecordResponses(items))
	}
}

// feedbackDigestHandler godoc
// @Summary Feedback de todos los usuarios (admin)
// @Description Registros con feedback, el más reciente primero.
// @Tags admin
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, usuario para depuración"
// @Param X-Debug-Role header string false "Solo en modo dev, rol (user/admin)"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} digestEntryResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /admin/feedback [get]
func feedbackDigestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		entries, err := svc.FeedbackDigest(r.Context(), caller)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]digestEntryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, digestEntryResponse{
				ID:           e.ID,
				Username:     e.Owner,
				Label:        e.Label,
				Timestamp:    formatTime(e.CreatedAt),
				FeedbackUser: e.FeedbackAuthor,
				FeedbackText: e.FeedbackText,
				FeedbackTime: formatTime(e.FeedbackTime),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// uploadedImageHandler godoc
// @Summary Servir imagen subida
// @Tags predictions
// @Produce octet-stream
// @Param name path string true "Nombre del archivo"
// @Success 200 {file} file
// @Failure 404 {string} string "image not found"
// @Router /uploads/{name} [get]
func uploadedImageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, contentType, err := svc.OpenImage(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			if errors.Is(err, images.ErrNotFound) {
				http.Error(w, "image not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		defer rc.Close()

		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = io.Copy(w, rc)
	}
}

func callerFromRequest(r *http.Request) (Caller, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.Username) == "" {
		return Caller{}, false
	}
	return Caller{
		Username: claims.Username,
		Role:     claims.Role,
		Language: middleware.GetLanguage(r.Context()),
	}, true
}

// writeError: ErrUnavailable se chequea antes que ErrPredictionFailed (viene envuelto en ambos).
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "prediction not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, classifier.ErrUnavailable):
		http.Error(w, classifier.ErrUnavailable.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, ErrPredictionFailed):
		http.Error(w, "prediction failed", http.StatusBadGateway)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toRecordResponse(r Record) recordResponse {
	out := recordResponse{
		ID:           r.ID,
		Username:     r.Owner,
		Timestamp:    formatTime(r.CreatedAt),
		Image:        r.ImagePath,
		Label:        r.Label,
		Confidence:   r.Confidence,
		Advice:       r.Advice,
		HealthStatus: r.HealthStatus,
		Lang:         r.Language,
	}
	if r.Feedback != nil {
		out.Feedback = &feedbackResponse{
			User: r.Feedback.Author,
			Text: r.Feedback.Text,
			Time: formatTime(r.Feedback.SubmittedAt),
		}
	}
	return out
}

func toRecordResponses(items []Record) []recordResponse {
	out := make([]recordResponse, 0, len(items))
	for _, r := range items {
		out = append(out, toRecordResponse(r))
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
