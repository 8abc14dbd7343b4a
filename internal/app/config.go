package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (STOREFRONT_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"HTTP listen address"`
	Environment string `default:"development" usage:"Runtime environment; \"production\" enables the remote catalog" flag:"environment"`
	Catalog     CatalogConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// Production reports whether the remote catalog endpoint is used.
func (c *Config) Production() bool {
	return c.Environment == "production"
}

// CatalogConfig tunes the upstream catalog client.
type CatalogConfig struct {
	URL           string        `usage:"Upstream catalog endpoint (STOREFRONT_CATALOG_URL)" flag:"catalog-url"`
	Timeout       time.Duration `default:"10s" usage:"Catalog request timeout"`
	HealthTimeout time.Duration `default:"5s"  usage:"Health probe timeout" flag:"health-timeout"`
	MaxRetries    int           `default:"3"   usage:"Retry budget for transient catalog failures" flag:"max-retries"`
	BaseDelay     time.Duration `default:"1s"  usage:"Initial retry backoff" flag:"base-delay"`
	MaxDelay      time.Duration `default:"8s"  usage:"Retry backoff cap" flag:"max-delay"`
	Multiplier    float64       `default:"2"   usage:"Retry backoff multiplier"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables and YAML
// config files and applies platform defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STOREFRONT",
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.Production() && cfg.Catalog.URL == "" {
		return nil, errors.New("catalog URL is required in production: set STOREFRONT_CATALOG_URL")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) onto the STOREFRONT_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
