package config

import (
	"errors"
	"fmt"
	"strings"
)

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}

	switch c.Storage.Backend {
	case StorageJSONFile:
		if strings.TrimSpace(c.Storage.HistoryPath) == "" {
			errs = append(errs, errors.New("storage.history_path is required for jsonfile backend"))
		}
	case StorageMemory:
	case StoragePostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			errs = append(errs, errors.New("database.dsn is required for postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend must be jsonfile|memory|postgres, got %q", c.Storage.Backend))
	}

	if !c.Auth.DevMode && len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, errors.New("auth.jwt_secret must be at least 32 characters"))
	}
	if (c.Auth.AdminEmail == "") != (c.Auth.AdminPassword == "") {
		errs = append(errs, errors.New("auth.admin_email and auth.admin_password must be set together"))
	}

	switch c.Images.Backend {
	case ImagesLocal:
		if strings.TrimSpace(c.Images.Dir) == "" {
			errs = append(errs, errors.New("images.dir is required for local backend"))
		}
	case ImagesMinIO:
		if c.MinIO.Endpoint == "" || c.MinIO.Bucket == "" {
			errs = append(errs, errors.New("minio.endpoint and minio.bucket are required for minio backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("images.backend must be local|minio, got %q", c.Images.Backend))
	}
	if c.Images.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("images.max_upload_bytes must be positive"))
	}

	if c.Dashboard.RecentLimit <= 0 {
		errs = append(errs, errors.New("dashboard.recent_limit must be positive"))
	}

	return errors.Join(errs...)
}

// Addr arma host:port para http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
