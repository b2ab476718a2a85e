package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	defaultAppName         = "PlaceFinder"
	defaultAppEnv          = "development"
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultJWTAlgorithm    = "HS256"
	defaultShutdownDelay   = 10 * time.Second
	defaultRequestTimeout  = 5 * time.Second
	defaultIdempotencyTTL  = 24 * time.Hour
	defaultLoginRate       = 5
	defaultNearbyRadiusKM  = 2.0
	defaultTLSCertFile     = "certs/server.crt"
	defaultTLSKeyFile      = "certs/server.key"
	defaultDBMinConns      = 1
	defaultDBMaxConns      = 10
	defaultDBConnectTries  = 5
	configFileEnvVar       = "CONFIG_FILE"
	configFileFlag         = "config"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
)

// Config captures application runtime configuration. Values are layered from
// defaults, an optional YAML file, the environment, then explicit flags.
type Config struct {
	AppName            string        `koanf:"app_name"`
	AppEnv             string        `koanf:"app_env"`
	Port               string        `koanf:"port"`
	LogLevel           string        `koanf:"log_level"`
	DatabaseURL        string        `koanf:"database_url"`
	CatalogDatabaseURL string        `koanf:"catalog_database_url"`
	DBMinConns         int32         `koanf:"db_min_conns"`
	DBMaxConns         int32         `koanf:"db_max_conns"`
	DBConnectTries     uint64        `koanf:"db_connect_tries"`
	RedisURL           string        `koanf:"redis_url"`
	JWTSecret          string        `koanf:"jwt_secret"`
	JWTAlgorithm       string        `koanf:"jwt_algorithm"`
	TokenTTL           time.Duration `koanf:"token_ttl"`
	ShutdownPeriod     time.Duration `koanf:"shutdown_timeout"`
	RequestTimeout     time.Duration `koanf:"request_timeout"`
	IdempotencyTTL     time.Duration `koanf:"idempotency_ttl"`
	LoginRatePerMinute int           `koanf:"login_rate_per_minute"`
	HashConcurrency    int           `koanf:"hash_concurrency"`
	SyncSchedule       string        `koanf:"sync_schedule"`
	NearbyRadiusKM     float64       `koanf:"nearby_radius_km"`
	TLSEnabled         bool          `koanf:"tls_enabled"`
	TLSCertFile        string        `koanf:"tls_cert_file"`
	TLSKeyFile         string        `koanf:"tls_key_file"`
	S3Bucket           string        `koanf:"s3_bucket"`
	S3Region           string        `koanf:"s3_region"`
	S3Endpoint         string        `koanf:"s3_endpoint"`
	S3AccessKey        string        `koanf:"s3_access_key"`
	S3SecretKey        string        `koanf:"s3_secret_key"`
}

var defaults = map[string]any{
	"app_name":              defaultAppName,
	"app_env":               defaultAppEnv,
	"port":                  defaultPort,
	"log_level":             defaultLogLevel,
	"jwt_algorithm":         defaultJWTAlgorithm,
	"token_ttl":             "0s",
	"shutdown_timeout":      defaultShutdownDelay.String(),
	"request_timeout":       defaultRequestTimeout.String(),
	"idempotency_ttl":       defaultIdempotencyTTL.String(),
	"login_rate_per_minute": defaultLoginRate,
	"nearby_radius_km":      defaultNearbyRadiusKM,
	"tls_cert_file":         defaultTLSCertFile,
	"tls_key_file":          defaultTLSKeyFile,
	"db_min_conns":          defaultDBMinConns,
	"db_max_conns":          defaultDBMaxConns,
	"db_connect_tries":      defaultDBConnectTries,
	"s3_region":             "us-east-1",
}

// envKeys lists the environment variable consulted for each key.
var envKeys = map[string]string{
	"app_name":              "APP_NAME",
	"app_env":               "APP_ENV",
	"port":                  "PORT",
	"log_level":             "LOG_LEVEL",
	"database_url":          "DATABASE_URL",
	"catalog_database_url":  "CATALOG_DATABASE_URL",
	"db_min_conns":          "DB_MIN_CONNS",
	"db_max_conns":          "DB_MAX_CONNS",
	"db_connect_tries":      "DB_CONNECT_TRIES",
	"redis_url":             "REDIS_URL",
	"jwt_secret":            "JWT_SECRET_KEY",
	"jwt_algorithm":         "ALGORITHM",
	"token_ttl":             "TOKEN_TTL",
	"request_timeout":       "REQUEST_TIMEOUT",
	"idempotency_ttl":       "IDEMPOTENCY_TTL",
	"login_rate_per_minute": "LOGIN_RATE_PER_MINUTE",
	"hash_concurrency":      "HASH_CONCURRENCY",
	"sync_schedule":         "SYNC_SCHEDULE",
	"nearby_radius_km":      "NEARBY_RADIUS_KM",
	"tls_enabled":           "TLS_ENABLED",
	"tls_cert_file":         "TLS_CERT_FILE",
	"tls_key_file":          "TLS_KEY_FILE",
	"s3_bucket":             "S3_BUCKET",
	"s3_region":             "S3_REGION",
	"s3_endpoint":           "S3_ENDPOINT",
	"s3_access_key":         "S3_ACCESS_KEY",
	"s3_secret_key":         "S3_SECRET_KEY",
}

// RegisterFlags declares the command-line overrides. Flag names use dashes;
// they map onto the underscore keys above.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(configFileFlag, "", "path to a YAML config file")
	fs.String("port", defaultPort, "HTTP listen port")
	fs.String("log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	fs.String("app-env", defaultAppEnv, "application environment")
	fs.String("database-url", "", "PostgreSQL connection string")
	fs.String("redis-url", "", "Redis connection string")
	fs.String("sync-schedule", "", "cron expression for catalog sync (empty disables)")
	fs.Bool("tls-enabled", false, "serve HTTPS with the configured certificate")
}

// Load reads configuration from all layers. fs may be nil.
func Load(fs *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")
	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return Config{}, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	path := os.Getenv(configFileEnvVar)
	if fs != nil {
		if v, err := fs.GetString(configFileFlag); err == nil && v != "" {
			path = v
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	for key, env := range envKeys {
		if value := os.Getenv(env); value != "" {
			if err := k.Set(key, value); err != nil {
				return Config{}, fmt.Errorf("set %s: %w", env, err)
			}
		}
	}
	if v := getEnv(shutdownSecondsEnvVar, ""); v != "" {
		if err := k.Set("shutdown_timeout", v+"s"); err != nil {
			return Config{}, fmt.Errorf("set %s: %w", shutdownSecondsEnvVar, err)
		}
	} else if v := getEnv(shutdownDurationEnvVar, ""); v != "" {
		if err := k.Set("shutdown_timeout", v); err != nil {
			return Config{}, fmt.Errorf("set %s: %w", shutdownDurationEnvVar, err)
		}
	}

	if fs != nil {
		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if f.Name == configFileFlag {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(fs, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces the settings the process cannot start without.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY must be set")
	}
	if c.JWTAlgorithm != defaultJWTAlgorithm {
		return fmt.Errorf("unsupported token algorithm %q", c.JWTAlgorithm)
	}
	if c.TokenTTL < 0 {
		return fmt.Errorf("token ttl must not be negative")
	}
	if !c.IsDev() && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", c.AppEnv)
	}
	if c.NearbyRadiusKM <= 0 {
		return fmt.Errorf("nearby radius must be positive")
	}
	return nil
}

// IsDev reports whether in-memory fallbacks are allowed.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
