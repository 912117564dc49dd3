// Package config loads application settings from environment variables and
// optional .env style files via Viper. The two backend secrets are required;
// startup aborts without them.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config groups the application configuration.
type Config struct {
	App      AppConfig
	Supabase SupabaseConfig
	HTTP     HTTPConfig
	Panel    PanelConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
}

// SupabaseConfig holds the hosted backend credentials. Both fields are
// required.
type SupabaseConfig struct {
	URL    string
	APIKey string
}

// HTTPConfig holds the listen address.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// PanelConfig holds dashboard behavior knobs.
type PanelConfig struct {
	BasePath     string
	CacheTTL     time.Duration
	ManifestPath string // optional services manifest for the status section
}

// Load reads configuration from environment variables (and optionally from a
// .env file). Env vars take priority. It fails when either backend secret is
// absent.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "bizboard"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Supabase: SupabaseConfig{
			URL:    getString(v, "SUPABASE_URL", ""),
			APIKey: getString(v, "SUPABASE_KEY", ""),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Panel: PanelConfig{
			BasePath:     getString(v, "PANEL_BASE_PATH", "/panel"),
			CacheTTL:     getDuration(v, "PANEL_CACHE_TTL", 20*time.Second),
			ManifestPath: getString(v, "PANEL_SERVICES_MANIFEST", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Supabase.URL == "" || c.Supabase.APIKey == "" {
		return fmt.Errorf("config: SUPABASE_URL and SUPABASE_KEY are required")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: invalid HTTP_PORT %d", c.HTTP.Port)
	}
	if c.Panel.CacheTTL <= 0 {
		return fmt.Errorf("config: PANEL_CACHE_TTL must be positive")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if v.IsSet(key) {
		if d, err := time.ParseDuration(v.GetString(key)); err == nil {
			return d
		}
	}
	return def
}
