package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (SHOP_ prefix), flags, or YAML config files.
type Config struct {
	Addr          string `default:"0.0.0.0:8080" usage:"HTTP listen address"`
	SecureCookies bool   `default:"true" usage:"Mark session cookies Secure" flag:"secure-cookies"`
	Commerce      CommerceConfig
	Sessions      SessionConfig
	RateLimit     RateLimitConfig
	CORS          CORSConfig
	Graceful      GracefulConfig
}

// CommerceConfig points at the commerce backend. With an empty domain or
// token the server runs in local-only mode: catalog, local cart, and
// configurator all work, remote cart operations are no-ops.
type CommerceConfig struct {
	StoreDomain string        `usage:"Commerce backend domain (e.g. shop.example.com)" flag:"store-domain"`
	Token       string        `usage:"Storefront API access token" flag:"storefront-token"`
	APIVersion  string        `default:"" usage:"Storefront API version override" flag:"api-version"`
	Timeout     time.Duration `default:"10s" usage:"Backend request timeout"`
}

// SessionConfig controls the visitor session layer and its cart store.
type SessionConfig struct {
	// Store picks the cart persistence backend: "file" or "postgres".
	Store       string        `default:"file" usage:"Cart store backend (file|postgres)"`
	DataDir     string        `default:"./data/carts" usage:"Cart directory for the file store" flag:"data-dir"`
	DatabaseURL string        `usage:"PostgreSQL URL for the postgres store (SHOP_SESSIONS_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	TTL         time.Duration `default:"168h" usage:"Idle session and persisted cart lifetime"`
	Cleanup     time.Duration `default:"10m" usage:"Idle session sweep interval"`
}

// RateLimitConfig controls the per-client token bucket rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"true" usage:"Allow credentials (cookies)" flag:"cors-credentials"`
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
		EnvPrefix: "SHOP",
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	switch cfg.Sessions.Store {
	case "file", "postgres":
	default:
		return nil, errors.Errorf("unknown session store %q", cfg.Sessions.Store)
	}
	if cfg.Sessions.Store == "postgres" && cfg.Sessions.DatabaseURL == "" {
		return nil, errors.New("postgres store requires SHOP_SESSIONS_DATABASE_URL or DATABASE_URL")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like DATABASE_URL and
// PORT to the SHOP_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.Sessions.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.Sessions.DatabaseURL = v
			c.Sessions.Store = "postgres"
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
