package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"plant-disease-history/internal/config"
	"plant-disease-history/internal/platform/logger"
	"plant-disease-history/internal/router"
)

// @title           Plant Disease History API
// @version         1.0
// @description     Diagnóstico de enfermedades en hojas con historial por usuario y feedback.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewFromConfig(cfg.Log.Level, cfg.Log.Format, cfg.App.Name)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := buildDeps(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.close()

	h, err := router.NewRouter(router.Options{
		AuthVerifier:   deps.verifier,
		DevMode:        cfg.Auth.DevMode,
		Logger:         log,
		Predictions:    deps.predictions,
		Users:          deps.users,
		Images:         deps.images,
		Predictor:      deps.predictor,
		Notifier:       deps.notifier,
		Tokens:         deps.tokens,
		RecentLimit:    cfg.Dashboard.RecentLimit,
		MaxUploadBytes: cfg.Images.MaxUploadBytes,
		Admin:          deps.admin,
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":     srv.Addr,
			"storage":  cfg.Storage.Backend,
			"images":   cfg.Images.Backend,
			"dev_mode": cfg.Auth.DevMode,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
