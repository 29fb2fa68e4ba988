package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"github.com/xenking/optika-storefront/internal/catalogapi"
)

// Config holds the complete application configuration, loadable from
// environment variables (OPTIKA_ prefix), flags, or YAML config files.
type Config struct {
	Addr         string `default:"0.0.0.0:8080" usage:"Storefront listen address"`
	ImageBaseURL string `default:"" usage:"Base URL prepended to relative image paths" flag:"image-base-url"`

	Catalog   CatalogConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// CatalogConfig points the service at the remote Catalog API.
type CatalogConfig struct {
	URL     string        `usage:"Catalog API base URL (OPTIKA_CATALOG_URL or CATALOG_API_URL)" flag:"catalog-url"`
	Token   string        `usage:"Optional bearer token for the Catalog API" flag:"catalog-token"`
	Timeout time.Duration `default:"10s" usage:"Per-request Catalog API timeout" flag:"catalog-timeout"`
	Limit   int           `default:"10"  usage:"Products fetched per cached collection" flag:"catalog-limit"`

	// RefreshInterval re-warms the cache periodically; zero disables the
	// background refresher and leaves updates to POST /api/refresh.
	RefreshInterval time.Duration `default:"0s" usage:"Periodic cache refresh interval (0 disables)" flag:"refresh-interval"`
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

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "OPTIKA",
		Files:     []string{"config.yaml", "/etc/optika/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.Catalog.URL == "" {
		return nil, errors.New("catalog API URL is required: set OPTIKA_CATALOG_URL or CATALOG_API_URL")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) and legacy deployment names to the OPTIKA_-prefixed
// configuration.
func (c *Config) applyPlatformDefaults() {
	if c.Catalog.URL == "" {
		if v := os.Getenv("CATALOG_API_URL"); v != "" {
			c.Catalog.URL = v
		}
	}
	if c.Catalog.Token == "" {
		// Older deployments provided the token under several key names.
		c.Catalog.Token = catalogapi.EnvToken()
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
