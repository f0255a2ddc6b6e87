package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Gemini   GeminiConfig
	Mail     MailConfig
	Storage  StorageConfig
	Internal InternalConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	PublicURL   string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type GeminiConfig struct {
	APIKey            string
	Model             string
	EmbeddingModel    string
	RequestsPerMinute float64
	RequestsPerDay    float64
}

type MailConfig struct {
	ResendAPIKey  string
	FromAddress   string
	FromName      string
	OperatorEmail string
	BatchSize     int
	BatchDelay    time.Duration
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type InternalConfig struct {
	SharedSecret string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		PublicURL:   opt("PUBLIC_URL"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", 0),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      optDuration("REDIS_TTL", 600*time.Second),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  optDuration("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshExpiresIn: optDuration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
	}

	cfg.Gemini = GeminiConfig{
		APIKey:            req("GEMINI_API_KEY"),
		Model:             optDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		EmbeddingModel:    optDefault("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
		RequestsPerMinute: optFloat("GEMINI_RPM", 15),
		RequestsPerDay:    optFloat("GEMINI_RPD", 1500),
	}

	cfg.Mail = MailConfig{
		ResendAPIKey:  opt("RESEND_API_KEY"),
		FromAddress:   optDefault("MAIL_FROM_ADDRESS", "no-reply@gethired.app"),
		FromName:      optDefault("MAIL_FROM_NAME", "GetHired"),
		OperatorEmail: opt("MAIL_OPERATOR_EMAIL"),
		BatchSize:     optInt("MAIL_BATCH_SIZE", 5),
		BatchDelay:    optDuration("MAIL_BATCH_DELAY", 1*time.Second),
	}

	cfg.Storage = StorageConfig{
		Endpoint:  opt("STORAGE_ENDPOINT"),
		AccessKey: opt("STORAGE_ACCESS_KEY"),
		SecretKey: opt("STORAGE_SECRET_KEY"),
		Bucket:    optDefault("STORAGE_BUCKET", "resumes"),
		UseSSL:    optBool("STORAGE_USE_SSL", true),
	}

	cfg.Internal = InternalConfig{
		SharedSecret: opt("INTERNAL_SHARED_SECRET"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func optDefault(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func optInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func optFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func optBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

// optDuration accepts either a Go duration string ("90s") or a bare number
// of seconds, matching how deployments tend to set these values.
func optDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}
