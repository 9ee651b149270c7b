package config

import "time"

// Config es la configuración raíz. Prioridad: ENV > YAML > env-default.
type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Storage    StorageConfig    `yaml:"storage"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Images     ImagesConfig     `yaml:"images"`
	MinIO      MinIOConfig      `yaml:"minio"`
	NATS       NATSConfig       `yaml:"nats"`
	Dashboard  DashboardConfig  `yaml:"dashboard"`
}

type AppConfig struct {
	Name string `yaml:"name" env:"APP_NAME" env-default:"plant-disease-history"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// Storage backends del historial de predicciones.
const (
	StorageJSONFile = "jsonfile"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type StorageConfig struct {
	Backend     string `yaml:"backend"      env:"STORAGE_BACKEND" env-default:"jsonfile"`
	HistoryPath string `yaml:"history_path" env:"HISTORY_PATH"    env-default:"predictions_history.json"`
}

type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DB_DSN"`
	MaxOpenConns    int           `yaml:"max_open_conns"     env:"DB_MAX_OPEN_CONNS"     env-default:"10"`
	MaxIdleConns    int           `yaml:"max_idle_conns"     env:"DB_MAX_IDLE_CONNS"     env-default:"5"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" env:"DB_CONN_MAX_IDLE_TIME" env-default:"5m"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"  env:"DB_CONN_MAX_LIFETIME"  env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DB_MIGRATE_ON_START"   env-default:"false"`
}

type AuthConfig struct {
	// DevMode acepta X-Debug-User-ID / X-Debug-Role sin token.
	DevMode       bool          `yaml:"dev_mode"       env:"AUTH_DEV_MODE"       env-default:"false"`
	JWTSecret     string        `yaml:"jwt_secret"     env:"AUTH_JWT_SECRET"`
	JWTIssuer     string        `yaml:"jwt_issuer"     env:"AUTH_JWT_ISSUER"     env-default:"plant-disease-history"`
	TokenTTL      time.Duration `yaml:"token_ttl"      env:"AUTH_TOKEN_TTL"      env-default:"12h"`
	AdminUsername string        `yaml:"admin_username" env:"AUTH_ADMIN_USERNAME" env-default:"admin"`
	AdminEmail    string        `yaml:"admin_email"    env:"AUTH_ADMIN_EMAIL"`
	AdminPassword string        `yaml:"admin_password" env:"AUTH_ADMIN_PASSWORD"`
}

type ClassifierConfig struct {
	BaseURL      string        `yaml:"base_url"       env:"CLASSIFIER_BASE_URL"`
	APIKey       string        `yaml:"api_key"        env:"CLASSIFIER_API_KEY"`
	APIKeyHeader string        `yaml:"api_key_header" env:"CLASSIFIER_API_KEY_HEADER" env-default:"X-Api-Key"`
	Timeout      time.Duration `yaml:"timeout"        env:"CLASSIFIER_TIMEOUT"        env-default:"30s"`
}

const (
	ImagesLocal = "local"
	ImagesMinIO = "minio"
)

type ImagesConfig struct {
	Backend        string `yaml:"backend"          env:"IMAGES_BACKEND"          env-default:"local"`
	Dir            string `yaml:"dir"              env:"IMAGES_DIR"              env-default:"models/uploads"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" env:"IMAGES_MAX_UPLOAD_BYTES" env-default:"10485760"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"   env:"MINIO_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	Bucket    string `yaml:"bucket"     env:"MINIO_BUCKET" env-default:"leaf-uploads"`
	UseSSL    bool   `yaml:"use_ssl"    env:"MINIO_USE_SSL"`
}

// NATSConfig: URL vacía => eventos deshabilitados (noop).
type NATSConfig struct {
	URL           string `yaml:"url"            env:"NATS_URL"`
	SubjectPrefix string `yaml:"subject_prefix" env:"NATS_SUBJECT_PREFIX" env-default:"plants"`
}

type DashboardConfig struct {
	RecentLimit int `yaml:"recent_limit" env:"DASHBOARD_RECENT_LIMIT" env-default:"5"`
}
