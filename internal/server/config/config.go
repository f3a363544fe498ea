package config

import (
	"fmt"
	"time"

	"wkmetrics/internal/logger"

	"github.com/spf13/viper"
)

// Config represents the complete server configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	API       APIConfig       `mapstructure:"api"`
	Log       logger.Config   `mapstructure:"log"`
}

// ServerConfig represents the server configuration
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	TLS          TLSConfig     `mapstructure:"tls"`
}

// TLSConfig represents the TLS configuration
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// DashboardConfig represents the dashboard persistence configuration.
// FunctionEndpoint is the HTTP fallback used when the stored procedures
// are unavailable.
type DashboardConfig struct {
	FunctionEndpoint string        `mapstructure:"function_endpoint"`
	FunctionToken    string        `mapstructure:"function_token"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

// APIConfig represents the API configuration
type APIConfig struct {
	// Authentication
	Auth AuthConfig `mapstructure:"auth"`

	// CORS settings
	CORS CORSConfig `mapstructure:"cors"`

	// Rate limiting
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Metrics
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// AuthConfig represents the authentication configuration
type AuthConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// Role cache backend, memory or redis
	Cache         string `mapstructure:"cache"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisPassword string `mapstructure:"redis_password"`
}

// CORSConfig represents the CORS configuration
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	MaxAge           int      `mapstructure:"max_age"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

// RateLimitConfig represents the rate limiting configuration
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// MetricsConfig represents the metrics configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// NotifyConfig represents the notification configuration
type NotifyConfig struct {
	Cooldown time.Duration `mapstructure:"cooldown"`
	Email    EmailConfig   `mapstructure:"email"`
	Webhook  WebhookConfig `mapstructure:"webhook"`
	Slack    SlackConfig   `mapstructure:"slack"`
}

// EmailConfig represents the email notification configuration
type EmailConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	SMTPServer string   `mapstructure:"smtp_server"`
	SMTPPort   int      `mapstructure:"smtp_port"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	From       string   `mapstructure:"from"`
	To         []string `mapstructure:"to"`
	UseTLS     bool     `mapstructure:"use_tls"`
}

// WebhookConfig represents the webhook notification configuration
type WebhookConfig struct {
	Enabled bool              `mapstructure:"enabled"`
	URL     string            `mapstructure:"url"`
	Method  string            `mapstructure:"method"`
	Timeout time.Duration     `mapstructure:"timeout"`
	Headers map[string]string `mapstructure:"headers"`
}

// SlackConfig represents the slack notification configuration
type SlackConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	WebhookURL string `mapstructure:"webhook_url"`
	Channel    string `mapstructure:"channel"`
	Username   string `mapstructure:"username"`
	IconEmoji  string `mapstructure:"icon_emoji"`
}

// LoadConfig loads server configuration from file
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set defaults
	setDefaults(&config)

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults(config *Config) {
	if config.Server.Address == "" {
		config.Server.Address = ":8080"
	}

	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 30 * time.Second
	}

	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 30 * time.Second
	}

	if config.API.RateLimit.Window == 0 {
		config.API.RateLimit.Window = time.Minute
	}

	if config.API.RateLimit.Requests == 0 {
		config.API.RateLimit.Requests = 60
	}

	if config.API.Metrics.Path == "" {
		config.API.Metrics.Path = "/metrics"
	}

	if config.API.Auth.CacheTTL == 0 {
		config.API.Auth.CacheTTL = 5 * time.Minute
	}

	if config.API.Auth.Cache == "" {
		config.API.Auth.Cache = "memory"
	}

	if config.API.CORS.MaxAge == 0 {
		config.API.CORS.MaxAge = 86400
	}

	if config.Dashboard.Timeout == 0 {
		config.Dashboard.Timeout = 10 * time.Second
	}

	if config.Notify.Cooldown == 0 {
		config.Notify.Cooldown = 30 * time.Minute
	}

	config.Log.SetDefaults()

	// Set default allowed methods for CORS
	if len(config.API.CORS.AllowedMethods) == 0 {
		config.API.CORS.AllowedMethods = []string{
			"GET", "POST", "PUT", "DELETE", "OPTIONS",
		}
	}

	// Set default allowed headers for CORS
	if len(config.API.CORS.AllowedHeaders) == 0 {
		config.API.CORS.AllowedHeaders = []string{
			"Content-Type", "Authorization", "X-Request-ID",
		}
	}
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	// Validate database configuration
	if err := config.Database.Validate(); err != nil {
		return fmt.Errorf("invalid database config: %w", err)
	}

	// Validate TLS configuration
	if config.Server.TLS.Enabled {
		if config.Server.TLS.CertFile == "" || config.Server.TLS.KeyFile == "" {
			return fmt.Errorf("TLS cert and key files are required")
		}
	}

	// Validate notification configuration
	if err := validateNotifyConfig(&config.Notify); err != nil {
		return fmt.Errorf("invalid notification config: %w", err)
	}

	// Validate auth configuration
	if err := validateAuthConfig(&config.API.Auth); err != nil {
		return fmt.Errorf("invalid auth config: %w", err)
	}

	// Validate logging configuration
	if err := config.Log.Validate(); err != nil {
		return fmt.Errorf("invalid log config: %w", err)
	}

	return nil
}

// validateNotifyConfig validates notification configuration
func validateNotifyConfig(config *NotifyConfig) error {
	if config.Email.Enabled {
		if config.Email.SMTPServer == "" {
			return fmt.Errorf("SMTP server is required")
		}
		if config.Email.From == "" {
			return fmt.Errorf("sender email is required")
		}
		if len(config.Email.To) == 0 {
			return fmt.Errorf("at least one recipient is required")
		}
	}
	if config.Slack.Enabled && config.Slack.WebhookURL == "" {
		return fmt.Errorf("slack webhook URL is required")
	}
	if config.Webhook.Enabled && config.Webhook.URL == "" {
		return fmt.Errorf("webhook URL is required")
	}
	return nil
}

// validateAuthConfig validates auth configuration
func validateAuthConfig(config *AuthConfig) error {
	if !config.Enabled {
		return nil
	}
	switch config.Cache {
	case "memory":
	case "redis":
		if config.RedisAddr == "" {
			return fmt.Errorf("redis address is required for redis role cache")
		}
	default:
		return fmt.Errorf("unsupported role cache backend: %s", config.Cache)
	}
	return nil
}
