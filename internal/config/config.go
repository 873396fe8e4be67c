// Package config provides configuration loading and defaults for the
// marketplace-mcp server and CLI.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ErrBackendURLMissing is returned by Validate when no backend URL is set.
var ErrBackendURLMissing = errors.New("BACKEND_URL no está definida. Asegúrate de crear un archivo .env con esta variable")

// ToolFilter holds allowlist and denylist glob patterns for MCP tool names.
type ToolFilter struct {
	Allowlist []string `yaml:"allowlist"`
	Denylist  []string `yaml:"denylist"`
}

// SafetyConfig groups the tool filter applied at registration time.
type SafetyConfig struct {
	Tools ToolFilter `yaml:"tools"`
}

// AuditConfig controls audit logging behaviour.
type AuditConfig struct {
	Enabled    bool   `yaml:"enabled"`
	LogPath    string `yaml:"log_path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// ServerConfig holds network and authentication settings for the MCP server.
type ServerConfig struct {
	Port      int    `yaml:"port"`
	AuthToken string `yaml:"auth_token"`
}

// BackendConfig holds connection details for the marketplace backend. URL is
// the base URL; the GraphQL endpoint and the REST upload endpoints are derived
// from it.
type BackendConfig struct {
	URL string `yaml:"url"`
	// Token is an optional default bearer token used when a call does not
	// carry its own JWT.
	Token string `yaml:"token"`
	// Timeout is the HTTP request timeout in seconds.
	Timeout int `yaml:"timeout"`
	// UploadTimeout is the timeout in seconds for multipart uploads.
	UploadTimeout int `yaml:"upload_timeout"`
}

// LogConfig selects the logrus level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// HTTPConfig holds settings for the HTTP API surface.
type HTTPConfig struct {
	CORSOrigins []string `yaml:"cors_origins"`
}

// UploadConfig limits which server files the upload tools may read.
type UploadConfig struct {
	// Root is the only directory a tool's path argument may name files in.
	// Empty disables path arguments; inline base64 content still works.
	Root string `yaml:"root"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	Safety  SafetyConfig  `yaml:"safety"`
	Audit   AuditConfig   `yaml:"audit"`
	Log     LogConfig     `yaml:"log"`
	HTTP    HTTPConfig    `yaml:"http"`
	Upload  UploadConfig  `yaml:"upload"`
}

// LoadConfig reads and parses a YAML configuration file from the given path.
// Fields absent from the file keep their DefaultConfig values. On error, nil
// is returned for the config pointer.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a new Config populated with sensible default values.
// Each call returns a distinct instance.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Backend: BackendConfig{
			Timeout:       30,
			UploadTimeout: 300,
		},
		Audit: AuditConfig{
			Enabled:    true,
			LogPath:    "/config/audit.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		HTTP: HTTPConfig{
			CORSOrigins: []string{"http://localhost:4321"},
		},
	}
}

// LoadDotEnv loads variables from the given .env files (".env" when none are
// given) into the process environment. Variables already set are not
// overwritten. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// envOverrides is the set of environment variables recognised by
// ApplyEnvOverrides. Empty values never override.
type envOverrides struct {
	BackendURL   string `envconfig:"BACKEND_URL"`
	BackendToken string `envconfig:"BACKEND_TOKEN"`
	AuthToken    string `envconfig:"MARKETPLACE_MCP_AUTH_TOKEN"`
	LogLevel     string `envconfig:"MARKETPLACE_LOG_LEVEL"`
	CORSOrigins  string `envconfig:"MARKETPLACE_CORS_ORIGINS"`
	UploadRoot   string `envconfig:"MARKETPLACE_UPLOAD_ROOT"`
}

// ApplyEnvOverrides updates cfg in place with values from environment variables.
// Recognized variables:
//   - BACKEND_URL overrides cfg.Backend.URL
//   - BACKEND_TOKEN overrides cfg.Backend.Token
//   - MARKETPLACE_MCP_AUTH_TOKEN overrides cfg.Server.AuthToken
//   - MARKETPLACE_LOG_LEVEL overrides cfg.Log.Level
//   - MARKETPLACE_CORS_ORIGINS (comma separated) overrides cfg.HTTP.CORSOrigins
//   - MARKETPLACE_UPLOAD_ROOT overrides cfg.Upload.Root
func ApplyEnvOverrides(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("process env overrides: %w", err)
	}

	if env.BackendURL != "" {
		cfg.Backend.URL = env.BackendURL
	}
	if env.BackendToken != "" {
		cfg.Backend.Token = env.BackendToken
	}
	if env.AuthToken != "" {
		cfg.Server.AuthToken = env.AuthToken
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.UploadRoot != "" {
		cfg.Upload.Root = env.UploadRoot
	}
	if env.CORSOrigins != "" {
		var origins []string
		for _, o := range strings.Split(env.CORSOrigins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.HTTP.CORSOrigins = origins
	}
	return nil
}

// Validate reports configuration that would make every backend call fail.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Backend.URL) == "" {
		return ErrBackendURLMissing
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// EnsureAuthToken generates a random auth token and sets it on cfg if
// cfg.Server.AuthToken is empty. It returns the token (existing or generated)
// and any error encountered during generation.
func EnsureAuthToken(cfg *Config) (string, error) {
	if cfg.Server.AuthToken != "" {
		return cfg.Server.AuthToken, nil
	}
	token, err := GenerateRandomToken()
	if err != nil {
		return "", fmt.Errorf("generate auth token: %w", err)
	}
	cfg.Server.AuthToken = token
	return token, nil
}

// GenerateRandomToken returns a 32-character hex-encoded cryptographically
// random token string.
func GenerateRandomToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand.Read: %w", err)
	}
	return hex.EncodeToString(b), nil
}
