package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	Tika      TikaConfig
	Log       LogConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
}

// AuthConfig holds the shared-secret credential protected endpoints require.
type AuthConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// TikaConfig holds the document engine's address, probe budget, and the
// per-operation call timeouts.
type TikaConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ProbeInterval   time.Duration `mapstructure:"probe_interval"`
	ProbeTimeout    time.Duration `mapstructure:"probe_timeout"`
	ProbeAttempts   int           `mapstructure:"probe_attempts"`
	ParseTimeout    time.Duration `mapstructure:"parse_timeout"`
	DetectTimeout   time.Duration `mapstructure:"detect_timeout"`
	LanguageTimeout time.Duration `mapstructure:"language_timeout"`
	MaxPayloadMB    int64         `mapstructure:"max_payload_mb"`
}

// BaseURL returns the engine's HTTP base URL.
func (t *TikaConfig) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", t.Host, t.Port)
}

// MaxPayloadBytes returns the payload size cap in bytes. Zero means the cap
// is not enforced.
func (t *TikaConfig) MaxPayloadBytes() int64 {
	return t.MaxPayloadMB * 1024 * 1024
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CacheConfig holds response cache settings. Backend selects the store
// (memory or redis); Results additionally enables caching of parse and
// detect responses keyed by payload hash.
type CacheConfig struct {
	Backend       string        `mapstructure:"backend"`
	TTL           time.Duration `mapstructure:"ttl"`
	Results       bool          `mapstructure:"results"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
}

// RateLimitConfig holds the optional global request rate limit.
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the TIKAGATE_
// prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TIKAGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "5m")
	v.SetDefault("server.write_timeout", "5m")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.environment", "development")

	// Auth defaults
	v.SetDefault("auth.api_key", "please-change-this-secret")

	// Tika defaults
	v.SetDefault("tika.host", "localhost")
	v.SetDefault("tika.port", 9998)
	v.SetDefault("tika.probe_interval", "2s")
	v.SetDefault("tika.probe_timeout", "2s")
	v.SetDefault("tika.probe_attempts", 30)
	v.SetDefault("tika.parse_timeout", "60s")
	v.SetDefault("tika.detect_timeout", "30s")
	v.SetDefault("tika.language_timeout", "30s")
	v.SetDefault("tika.max_payload_mb", 100)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Cache defaults
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("cache.results", false)
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)

	// Rate limit defaults
	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.rps", 10)
	v.SetDefault("ratelimit.burst", 20)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)

	// CORS defaults
	v.SetDefault("cors.allowed_origins", "*")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "TIKAGATE_SERVER_PORT",
		"server.read_timeout":     "TIKAGATE_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "TIKAGATE_SERVER_WRITE_TIMEOUT",
		"server.shutdown_timeout": "TIKAGATE_SERVER_SHUTDOWN_TIMEOUT",
		"server.environment":      "TIKAGATE_SERVER_ENVIRONMENT",
		"auth.api_key":            "TIKAGATE_AUTH_API_KEY",
		"tika.host":               "TIKAGATE_TIKA_HOST",
		"tika.port":               "TIKAGATE_TIKA_PORT",
		"tika.probe_interval":     "TIKAGATE_TIKA_PROBE_INTERVAL",
		"tika.probe_timeout":      "TIKAGATE_TIKA_PROBE_TIMEOUT",
		"tika.probe_attempts":     "TIKAGATE_TIKA_PROBE_ATTEMPTS",
		"tika.parse_timeout":      "TIKAGATE_TIKA_PARSE_TIMEOUT",
		"tika.detect_timeout":     "TIKAGATE_TIKA_DETECT_TIMEOUT",
		"tika.language_timeout":   "TIKAGATE_TIKA_LANGUAGE_TIMEOUT",
		"tika.max_payload_mb":     "TIKAGATE_TIKA_MAX_PAYLOAD_MB",
		"log.level":               "TIKAGATE_LOG_LEVEL",
		"log.format":              "TIKAGATE_LOG_FORMAT",
		"cache.backend":           "TIKAGATE_CACHE_BACKEND",
		"cache.ttl":               "TIKAGATE_CACHE_TTL",
		"cache.results":           "TIKAGATE_CACHE_RESULTS",
		"cache.redis_addr":        "TIKAGATE_CACHE_REDIS_ADDR",
		"cache.redis_password":    "TIKAGATE_CACHE_REDIS_PASSWORD",
		"cache.redis_db":          "TIKAGATE_CACHE_REDIS_DB",
		"ratelimit.enabled":       "TIKAGATE_RATELIMIT_ENABLED",
		"ratelimit.rps":           "TIKAGATE_RATELIMIT_RPS",
		"ratelimit.burst":         "TIKAGATE_RATELIMIT_BURST",
		"metrics.enabled":         "TIKAGATE_METRICS_ENABLED",
		"cors.allowed_origins":    "TIKAGATE_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if TIKAGATE_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TIKAGATE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	// Legacy deployments configured the secret as TIKA_SECRET. Honor it when
	// the prefixed variable is not set.
	apiKey := v.GetString("auth.api_key")
	if secret := os.Getenv("TIKA_SECRET"); secret != "" && os.Getenv("TIKAGATE_AUTH_API_KEY") == "" {
		apiKey = secret
	}

	cfg.Server = ServerConfig{
		Port:            serverPort,
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		Environment:     v.GetString("server.environment"),
	}
	cfg.Auth = AuthConfig{
		APIKey: apiKey,
	}
	cfg.Tika = TikaConfig{
		Host:            v.GetString("tika.host"),
		Port:            v.GetInt("tika.port"),
		ProbeInterval:   v.GetDuration("tika.probe_interval"),
		ProbeTimeout:    v.GetDuration("tika.probe_timeout"),
		ProbeAttempts:   v.GetInt("tika.probe_attempts"),
		ParseTimeout:    v.GetDuration("tika.parse_timeout"),
		DetectTimeout:   v.GetDuration("tika.detect_timeout"),
		LanguageTimeout: v.GetDuration("tika.language_timeout"),
		MaxPayloadMB:    v.GetInt64("tika.max_payload_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Cache = CacheConfig{
		Backend:       v.GetString("cache.backend"),
		TTL:           v.GetDuration("cache.ttl"),
		Results:       v.GetBool("cache.results"),
		RedisAddr:     v.GetString("cache.redis_addr"),
		RedisPassword: v.GetString("cache.redis_password"),
		RedisDB:       v.GetInt("cache.redis_db"),
	}
	cfg.RateLimit = RateLimitConfig{
		Enabled: v.GetBool("ratelimit.enabled"),
		RPS:     v.GetFloat64("ratelimit.rps"),
		Burst:   v.GetInt("ratelimit.burst"),
	}
	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("metrics.enabled"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}
