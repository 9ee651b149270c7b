package router

import (
	"context"
	"net/http"

	_ "plant-disease-history/docs"
	mem "plant-disease-history/internal/adapters/storage/memory"
	"plant-disease-history/internal/domain/language"
	"plant-disease-history/internal/domain/predictions"
	"plant-disease-history/internal/domain/users"
	"plant-disease-history/internal/middleware"
	"plant-disease-history/internal/platform/i18n"
	"plant-disease-history/internal/platform/logger"
	"plant-disease-history/internal/ports/auth"
	"plant-disease-history/internal/ports/classifier"
	"plant-disease-history/internal/ports/images"
	"plant-disease-history/internal/ports/notify"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	DevMode      bool              // acepta X-Debug-User-ID / X-Debug-Role

	Logger logger.Logger

	// Repos: si vienen nil, in-memory.
	Predictions predictions.Repository
	Users       users.Repository
	Images      images.Store

	Predictor classifier.Predictor // nil => modelo no disponible (503)
	Notifier  notify.Publisher     // nil => noop
	Tokens    users.TokenIssuer

	Catalog *i18n.Catalog

	RecentLimit    int
	MaxUploadBytes int64

	// Admin de bootstrap (se crea si el email no existe).
	Admin users.RegisterInput
}

func NewRouter(opts Options) (http.Handler, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	predRepo := opts.Predictions
	if predRepo == nil {
		predRepo = mem.NewPredictionRepo()
	}
	userRepo := opts.Users
	if userRepo == nil {
		userRepo = mem.NewUserRepo()
	}
	imageStore := opts.Images
	if imageStore == nil {
		imageStore = mem.NewImageStore()
	}
	catalog := opts.Catalog
	if catalog == nil {
		c, err := i18n.Load()
		if err != nil {
			return nil, err
		}
		catalog = c
	}

	// Services por módulo
	store := predictions.NewStore(predRepo, log)
	predSvc := predictions.NewService(predictions.Deps{
		Store:       store,
		Predictor:   opts.Predictor,
		Images:      imageStore,
		Notifier:    opts.Notifier,
		Logger:      log,
		RecentLimit: opts.RecentLimit,
	})
	usersSvc := users.NewService(userRepo, opts.Tokens, log)

	if err := usersSvc.EnsureAdmin(context.Background(), opts.Admin); err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier, opts.DevMode))
	r.Use(middleware.Language)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc)
	predictions.RegisterRoutes(r, predSvc, opts.MaxUploadBytes)
	language.RegisterRoutes(r, catalog)

	return r, nil
}
