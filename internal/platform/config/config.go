package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	cryptoutil "hrms/internal/platform/crypto"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverS3       = "s3"
)

type Config struct {
	Addr                 string        `yaml:"addr"`
	Environment          string        `yaml:"environment"`
	LogLevel             string        `yaml:"log_level"`
	FrontendDir          string        `yaml:"frontend_dir"`
	StorageDriver        string        `yaml:"storage_driver"`
	StorageKey           string        `yaml:"storage_key"`
	StorageDir           string        `yaml:"storage_dir"`
	DatabaseURL          string        `yaml:"database_url"`
	SQLitePath           string        `yaml:"sqlite_path"`
	S3                   S3Config      `yaml:"s3"`
	DataEncryptionKey    string        `yaml:"data_encryption_key"`
	StoreStrict          bool          `yaml:"store_strict"`
	JWTSecret            string        `yaml:"jwt_secret"`
	OperatorEmail        string        `yaml:"operator_email"`
	OperatorPasswordHash string        `yaml:"operator_password_hash"`
	TokenTTL             time.Duration `yaml:"token_ttl"`
	LoginRateLimit       int           `yaml:"login_rate_limit"`
	LoginRateWindow      time.Duration `yaml:"login_rate_window"`
	MaxBodyBytes         int64         `yaml:"max_body_bytes"`
	MetricsEnabled       bool          `yaml:"metrics_enabled"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
	Prefix    string `yaml:"prefix"`
}

func Load() Config {
	return Config{
		Addr:              getEnv("APP_ADDR", ":8080"),
		Environment:       getEnv("APP_ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		FrontendDir:       getEnv("FRONTEND_DIR", "frontend/dist"),
		StorageDriver:     getEnv("STORAGE_DRIVER", DriverFile),
		StorageKey:        getEnv("STORAGE_KEY", "hrms_employees"),
		StorageDir:        getEnv("STORAGE_DIR", "storage"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		SQLitePath:        getEnv("SQLITE_PATH", "hrms.db"),
		DataEncryptionKey: getEnv("DATA_ENCRYPTION_KEY", ""),
		StoreStrict:       getEnvBool("STORE_STRICT", false),
		S3: S3Config{
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", "us-east-1"),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			PathStyle: getEnvBool("S3_PATH_STYLE", false),
			Prefix:    getEnv("S3_PREFIX", ""),
		},
		JWTSecret:            getEnv("JWT_SECRET", ""),
		OperatorEmail:        getEnv("OPERATOR_EMAIL", ""),
		OperatorPasswordHash: getEnv("OPERATOR_PASSWORD_HASH", ""),
		TokenTTL:             getEnvDuration("TOKEN_TTL", 8*time.Hour),
		LoginRateLimit:       getEnvInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow:      getEnvDuration("LOGIN_RATE_WINDOW", time.Minute),
		MaxBodyBytes:         int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		MetricsEnabled:       getEnvBool("METRICS_ENABLED", true),
	}
}

// LoadFile starts from the environment and overlays the YAML file at path.
// Keys missing from the file keep their environment value.
func LoadFile(path string) (Config, error) {
	cfg := Load()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) AuthEnabled() bool {
	return strings.TrimSpace(c.JWTSecret) != ""
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.StorageKey) == "" {
		return fmt.Errorf("STORAGE_KEY is required")
	}
	switch c.StorageDriver {
	case DriverMemory:
	case DriverFile:
		if strings.TrimSpace(c.StorageDir) == "" {
			return fmt.Errorf("STORAGE_DIR is required for the file driver")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverS3:
		if strings.TrimSpace(c.S3.Bucket) == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if _, err := cryptoutil.New(c.DataEncryptionKey); err != nil {
		return err
	}
	if c.AuthEnabled() {
		if strings.TrimSpace(c.OperatorEmail) == "" || strings.TrimSpace(c.OperatorPasswordHash) == "" {
			return fmt.Errorf("OPERATOR_EMAIL and OPERATOR_PASSWORD_HASH must be set when JWT_SECRET is set")
		}
		if c.TokenTTL <= 0 {
			return fmt.Errorf("TOKEN_TTL must be positive")
		}
		if c.LoginRateLimit > 0 && c.LoginRateWindow <= 0 {
			return fmt.Errorf("LOGIN_RATE_WINDOW must be positive when LOGIN_RATE_LIMIT is set")
		}
	}
	if c.Environment == "production" && !c.AuthEnabled() {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	return nil
}
