package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env           string
	Domain        string
	Port          string
	DBDriver      string
	DBDSN         string
	SessionSecret string
	SecureCookies bool
	CoverWidth    int
	CoverHeight   int
}

var ErrMissingSessionSecret = errors.New("SESSION_SECRET is not set")

// LoadDotEnv loads .env files with priority .env.local > .env. godotenv does
// not overwrite variables that are already set, so the process environment
// always wins. Returns the files actually loaded.
func LoadDotEnv() []string {
	candidates := []string{".env.local", ".env"}
	var loaded []string
	for _, f := range candidates {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}

// Load reads configuration from the environment and, when configFile is not
// empty, from that file. Environment variables override file values.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("app_env", "production")
	v.SetDefault("port", "8080")
	v.SetDefault("domain", "http://localhost:8080")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "blog.db")
	v.SetDefault("secure_cookies", false)
	v.SetDefault("cover_image_width", 1365)
	v.SetDefault("cover_image_height", 768)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		Env:           v.GetString("app_env"),
		Domain:        v.GetString("domain"),
		Port:          v.GetString("port"),
		DBDriver:      strings.ToLower(v.GetString("db_driver")),
		DBDSN:         v.GetString("db_dsn"),
		SessionSecret: v.GetString("session_secret"),
		SecureCookies: v.GetBool("secure_cookies"),
		CoverWidth:    v.GetInt("cover_image_width"),
		CoverHeight:   v.GetInt("cover_image_height"),
	}

	switch cfg.DBDriver {
	case "sqlite", "mysql":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.CoverWidth < 0 || cfg.CoverHeight < 0 {
		return nil, errors.New("cover image dimensions must not be negative")
	}

	return cfg, nil
}

// RequireSessionSecret is checked by commands that serve HTTP.
func (c *Config) RequireSessionSecret() error {
	if c.SessionSecret == "" {
		return ErrMissingSessionSecret
	}
	return nil
}
