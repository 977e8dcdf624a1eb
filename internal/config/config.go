// Package config handles loading and validating the application
// configuration.
//
// Values are layered, lowest precedence first: built-in defaults, an
// optional YAML file named by FOLIO_CONFIG, then FOLIO_* environment
// variables. Nested keys use a double underscore in the environment,
// e.g. FOLIO_DB__PASS sets db.pass.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for every environment variable read by Load.
const EnvPrefix = "FOLIO_"

// FileEnvVar names the environment variable holding an optional YAML
// config file path.
const FileEnvVar = EnvPrefix + "CONFIG"

// Config holds all application configuration. It is read once at
// startup; changes require a restart.
type Config struct {
	// ListenAddr is the HTTP listen address (default ":5000").
	ListenAddr string `koanf:"listen_addr"`

	// APIPrefix is the path prefix every content route is mounted under.
	APIPrefix string `koanf:"api_prefix"`

	// AllowedOrigin is the single cross-origin caller allowed by CORS,
	// normally the portfolio frontend.
	AllowedOrigin string `koanf:"allowed_origin"`

	// Storage selects the content backend: "postgres" (default) or
	// "memory", which seeds the default portfolio in process and loses
	// every change on restart.
	Storage string `koanf:"storage"`

	DB   DBConfig   `koanf:"db"`
	Auth AuthConfig `koanf:"auth"`
	Log  LogConfig  `koanf:"log"`
	Mail MailConfig `koanf:"mail"`
}

// DBConfig holds the PostgreSQL connection details.
type DBConfig struct {
	// Conn is the PostgreSQL host:port (e.g., "infra-postgres:5432").
	Conn string `koanf:"conn"`
	Name string `koanf:"name"`
	User string `koanf:"user"`
	Pass string `koanf:"pass"`

	// MaxConns caps the pool size.
	MaxConns int32 `koanf:"max_conns"`
}

// AuthConfig controls admin sessions.
type AuthConfig struct {
	// JWTSecret signs admin session tokens.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenTTL is how long a session token stays valid after login.
	TokenTTL time.Duration `koanf:"token_ttl"`

	// AdminKey is an optional static bearer secret accepted in place of a
	// session token. Intended for automation; leave empty to disable.
	AdminKey string `koanf:"admin_key"`

	// LoginRatePerMinute bounds login attempts per client IP.
	LoginRatePerMinute int `koanf:"login_rate_per_minute"`

	// InitialPassword seeds the admin credential in memory storage mode
	// and is the default for folio-admin seed.
	InitialPassword string `koanf:"initial_password"`
}

// LogConfig selects log verbosity and output format.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// MailConfig holds outbound SMTP settings for the contact form. An empty
// Host disables mail delivery.
type MailConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	User string `koanf:"user"`
	Pass string `koanf:"pass"`
	From string `koanf:"from"`
	To   string `koanf:"to"`
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.User != "" && m.Pass != ""
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		ListenAddr:    ":5000",
		APIPrefix:     "/api",
		AllowedOrigin: "http://localhost:5173",
		Storage:       StoragePostgres,
		DB: DBConfig{
			MaxConns: 10,
		},
		Auth: AuthConfig{
			TokenTTL:           12 * time.Hour,
			LoginRatePerMinute: 10,
			InitialPassword:    "admin123",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Mail: MailConfig{
			Port: 587,
		},
	}
}

// Load builds a Config from defaults, the optional YAML file and the
// environment. It returns an error if any layer fails to parse or the
// result is missing required fields.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path := os.Getenv(FileEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps FOLIO_DB__PASS to db.pass and FOLIO_LISTEN_ADDR to listen_addr.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// validate checks that all required fields are present.
func (c *Config) validate() error {
	switch c.Storage {
	case StoragePostgres:
		if err := c.validateDB(); err != nil {
			return err
		}
	case StorageMemory:
	default:
		return fmt.Errorf("config: storage must be %q or %q", StoragePostgres, StorageMemory)
	}

	switch {
	case c.ListenAddr == "":
		return fmt.Errorf("config: listen_addr is required")
	case c.Auth.JWTSecret == "":
		return fmt.Errorf("config: auth.jwt_secret is required")
	case c.Auth.TokenTTL <= 0:
		return fmt.Errorf("config: auth.token_ttl must be positive")
	}
	if c.APIPrefix != "" && !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("config: api_prefix must start with '/'")
	}
	return nil
}

// validateDB checks the PostgreSQL connection fields.
func (c *Config) validateDB() error {
	switch {
	case c.DB.Conn == "":
		return fmt.Errorf("config: db.conn is required")
	case c.DB.Name == "":
		return fmt.Errorf("config: db.name is required")
	case c.DB.User == "":
		return fmt.Errorf("config: db.user is required")
	case c.DB.Pass == "":
		return fmt.Errorf("config: db.pass is required")
	}
	return nil
}

// ConnString builds a PostgreSQL connection URI from the config fields.
// The password is URL-encoded to handle special characters safely.
func (c *Config) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		url.QueryEscape(c.DB.User),
		url.QueryEscape(c.DB.Pass),
		c.DB.Conn,
		url.QueryEscape(c.DB.Name),
	)
}
