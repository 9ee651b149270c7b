package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"plant-disease-history/internal/adapters/auth/jwtauth"
	"plant-disease-history/internal/adapters/classifier/httpmodel"
	"plant-disease-history/internal/adapters/images/local"
	"plant-disease-history/internal/adapters/images/miniostore"
	"plant-disease-history/internal/adapters/notify/natsbus"
	"plant-disease-history/internal/adapters/storage/jsonfile"
	mem "plant-disease-history/internal/adapters/storage/memory"
	"plant-disease-history/internal/adapters/storage/postgres"
	"plant-disease-history/internal/config"
	"plant-disease-history/internal/domain/predictions"
	"plant-disease-history/internal/domain/users"
	"plant-disease-history/internal/platform/logger"
	"plant-disease-history/internal/ports/auth"
	"plant-disease-history/internal/ports/classifier"
	"plant-disease-history/internal/ports/images"
	"plant-disease-history/internal/ports/notify"
)

// deps agrupa los adapters elegidos por config.
type deps struct {
	predictions predictions.Repository
	users       users.Repository
	images      images.Store
	predictor   classifier.Predictor
	notifier    notify.Publisher
	verifier    auth.AuthVerifier
	tokens      users.TokenIssuer
	admin       users.RegisterInput

	closers []func()
}

func (d *deps) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func buildDeps(ctx context.Context, cfg *config.Config, log logger.Logger) (*deps, error) {
	d := &deps{
		admin: users.RegisterInput{
			Username: cfg.Auth.AdminUsername,
			Email:    cfg.Auth.AdminEmail,
			Password: cfg.Auth.AdminPassword,
		},
	}

	if err := d.buildStorage(ctx, cfg, log); err != nil {
		d.close()
		return nil, err
	}
	if err := d.buildImages(ctx, cfg); err != nil {
		d.close()
		return nil, err
	}

	predictor, err := httpmodel.NewClient(httpmodel.Config{
		BaseURL:      cfg.Classifier.BaseURL,
		APIKey:       cfg.Classifier.APIKey,
		APIKeyHeader: cfg.Classifier.APIKeyHeader,
		Timeout:      cfg.Classifier.Timeout,
	})
	if err != nil {
		d.close()
		return nil, fmt.Errorf("classifier client: %w", err)
	}
	// Sin base_url queda nil: el servicio responde 503 en los uploads.
	if predictor != nil {
		d.predictor = predictor
	} else {
		log.Warn("classifier not configured, uploads will be rejected", nil)
	}

	if cfg.NATS.URL != "" {
		pub, err := natsbus.Connect(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			d.close()
			return nil, err
		}
		d.notifier = pub
		d.closers = append(d.closers, func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			pub.Close(flushCtx)
		})
	}

	if cfg.Auth.JWTSecret != "" {
		m := jwtauth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
		d.verifier = m
		d.tokens = m
	}

	return d, nil
}

func (d *deps) buildStorage(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		d.predictions = mem.NewPredictionRepo()
		d.users = mem.NewUserRepo()

	case config.StoragePostgres:
		db, err := postgres.Open(cfg.Database.DSN, postgres.Options{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		d.closers = append(d.closers, func() { _ = db.Close() })

		if err := pingDB(ctx, db); err != nil {
			return err
		}
		if cfg.Database.MigrateOnStart {
			results, err := postgres.Migrate(ctx, db)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info("migrations applied", map[string]any{"count": len(results)})
		}
		d.predictions = postgres.NewPredictionsRepo(db)
		d.users = postgres.NewUsersRepo(db)

	default:
		repo, err := jsonfile.NewPredictionRepo(cfg.Storage.HistoryPath)
		if err != nil {
			return fmt.Errorf("history file: %w", err)
		}
		log.Info("prediction history on disk", map[string]any{"path": repo.Path()})
		d.predictions = repo
		// Las cuentas no tienen archivo propio en este backend.
		d.users = mem.NewUserRepo()
	}
	return nil
}

func (d *deps) buildImages(ctx context.Context, cfg *config.Config) error {
	if cfg.Images.Backend == config.ImagesMinIO {
		s, err := miniostore.New(miniostore.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
		if err != nil {
			return err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("minio bucket: %w", err)
		}
		d.images = s
		return nil
	}

	s, err := local.New(cfg.Images.Dir)
	if err != nil {
		return fmt.Errorf("images dir: %w", err)
	}
	d.images = s
	return nil
}

func pingDB(ctx context.Context, db *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}
