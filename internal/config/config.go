package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	StoreDriver   string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL   string `env:"DATABASE_URL"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"data/outlook.db"`
	DBAutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"false"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	BundleCacheSize     int `env:"BUNDLE_CACHE_SIZE" envDefault:"4096"`
	BundleCacheTTLHours int `env:"BUNDLE_CACHE_TTL_HOURS" envDefault:"36"`
	LocalCacheTTLSecs   int `env:"BUNDLE_CACHE_LOCAL_TTL_SECONDS" envDefault:"300"`

	TemplateCatalogPath string `env:"TEMPLATE_CATALOG_PATH"`
	OutlookTimezone     string `env:"OUTLOOK_TIMEZONE" envDefault:"UTC"`

	BatchWorkers          int `env:"BATCH_WORKERS" envDefault:"8"`
	BatchActiveWithinDays int `env:"BATCH_ACTIVE_WITHIN_DAYS" envDefault:"14"`
	RegenerateLimitPerDay int `env:"REGENERATE_LIMIT_PER_DAY" envDefault:"3"`

	JWTSecret string `env:"JWT_SECRET"`

	EmailProvider   string `env:"EMAIL_PROVIDER" envDefault:"disabled"`
	EmailFrom       string `env:"EMAIL_FROM"`
	EmailFromName   string `env:"EMAIL_FROM_NAME" envDefault:"Mingus"`
	SMTPHost        string `env:"SMTP_HOST"`
	SMTPPort        int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser        string `env:"SMTP_USER"`
	SMTPPass        string `env:"SMTP_PASS"`
	SMTPUseTLS      bool   `env:"SMTP_USE_TLS" envDefault:"false"`
	SendGridAPIKey  string `env:"SENDGRID_API_KEY"`
	SendGridBaseURL string `env:"SENDGRID_BASE_URL" envDefault:"https://api.sendgrid.com"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa combinaciones que env no puede expresar con tags.
func (c *Config) Validate() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case "postgres":
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres store")
		}
	case "sqlite":
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required for sqlite store")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}

	c.EmailProvider = strings.ToLower(strings.TrimSpace(c.EmailProvider))
	switch c.EmailProvider {
	case "", "disabled", "smtp", "sendgrid":
	default:
		return fmt.Errorf("unsupported EMAIL_PROVIDER: %s", c.EmailProvider)
	}

	if _, err := time.LoadLocation(c.OutlookTimezone); err != nil {
		return fmt.Errorf("invalid OUTLOOK_TIMEZONE: %w", err)
	}
	return nil
}

// Location devuelve la zona horaria usada para decidir el "hoy" de cada outlook.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.OutlookTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BundleCacheTTL expresa BUNDLE_CACHE_TTL_HOURS como duración.
func (c *Config) BundleCacheTTL() time.Duration {
	if c.BundleCacheTTLHours <= 0 {
		return 36 * time.Hour
	}
	return time.Duration(c.BundleCacheTTLHours) * time.Hour
}

// LocalCacheTTL es la vida de un bundle en la cache LRU de cada replica.
func (c *Config) LocalCacheTTL() time.Duration {
	if c.LocalCacheTTLSecs <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.LocalCacheTTLSecs) * time.Second
}
