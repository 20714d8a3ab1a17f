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
	Auth     AuthConfig
	Sync     SyncConfig
	Webhook  WebhookConfig
	Redis    RedisConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost        string
	DBPort        string
	DBName        string
	DBUser        string
	DBPassword    string
	DBSSLMode     string
	MigrationsDir string
}

type AuthConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type SyncConfig struct {
	Interval     time.Duration
	FetchTimeout time.Duration
	GithubAPIURL string
	GithubToken  string
}

type WebhookConfig struct {
	// Secrets keyed by lowercase platform name, loaded from
	// <PLATFORM>_WEBHOOK_SECRET.
	Secrets map[string]string
	// AllowUnsigned accepts deliveries for platforms with no configured
	// secret. Off by default: unsigned deliveries are rejected.
	AllowUnsigned bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

var webhookPlatforms = []string{
	"internshala", "angellist", "linkedin",
	"devfolio", "devpost", "mlh",
	"coursera", "udemy",
}

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
	}

	cfg.Database = DatabaseConfig{
		DBHost:        opt("DB_HOST"),
		DBPort:        opt("DB_PORT"),
		DBName:        opt("DB_NAME"),
		DBUser:        opt("DB_USER"),
		DBPassword:    opt("DB_PASSWORD"),
		DBSSLMode:     opt("DB_SSL_MODE"),
		MigrationsDir: opt("DB_MIGRATIONS_DIR"),
	}

	cfg.Auth = AuthConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  durationOr(opt("JWT_ACCESS_EXPIRES_IN"), 15*time.Minute),
		RefreshExpiresIn: durationOr(opt("JWT_REFRESH_EXPIRES_IN"), 7*24*time.Hour),
	}

	cfg.Sync = SyncConfig{
		Interval:     durationOr(opt("SYNC_INTERVAL"), 5*time.Minute),
		FetchTimeout: durationOr(opt("SYNC_FETCH_TIMEOUT"), 25*time.Second),
		GithubAPIURL: stringOr(opt("GITHUB_API_URL"), "https://api.github.com"),
		GithubToken:  opt("GITHUB_TOKEN"),
	}

	secrets := make(map[string]string, len(webhookPlatforms))
	for _, p := range webhookPlatforms {
		if s := opt(strings.ToUpper(p) + "_WEBHOOK_SECRET"); s != "" {
			secrets[p] = s
		}
	}
	cfg.Webhook = WebhookConfig{
		Secrets:       secrets,
		AllowUnsigned: boolOr(opt("WEBHOOK_ALLOW_UNSIGNED"), false),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func durationOr(v string, def time.Duration) time.Duration {
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func boolOr(v string, def bool) bool {
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
