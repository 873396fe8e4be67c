package config

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// ApplyEnvOverrides
// ---------------------------------------------------------------------------

func Test_ApplyEnvOverrides_Cases(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		initial     Config
		wantURL     string
		wantBackend string
		wantAuth    string
		wantLevel   string
		wantOrigins []string
		wantRoot    string
	}{
		{
			name:        "backend url set on empty config",
			env:         map[string]string{"BACKEND_URL": "https://api.example.com"},
			wantURL:     "https://api.example.com",
			wantOrigins: nil,
		},
		{
			name:    "backend url env overrides file value",
			env:     map[string]string{"BACKEND_URL": "https://new.example.com"},
			initial: Config{Backend: BackendConfig{URL: "https://old.example.com"}},
			wantURL: "https://new.example.com",
		},
		{
			name:     "empty env does not override existing values",
			env:      map[string]string{"BACKEND_URL": "", "MARKETPLACE_MCP_AUTH_TOKEN": ""},
			initial:  Config{Backend: BackendConfig{URL: "https://keep.example.com"}, Server: ServerConfig{AuthToken: "keep"}},
			wantURL:  "https://keep.example.com",
			wantAuth: "keep",
		},
		{
			name: "tokens and log level",
			env: map[string]string{
				"BACKEND_TOKEN":              "backend-jwt",
				"MARKETPLACE_MCP_AUTH_TOKEN": "mcp-secret",
				"MARKETPLACE_LOG_LEVEL":      "debug",
			},
			wantBackend: "backend-jwt",
			wantAuth:    "mcp-secret",
			wantLevel:   "debug",
		},
		{
			name:        "cors origins are split and trimmed",
			env:         map[string]string{"MARKETPLACE_CORS_ORIGINS": "https://a.example, https://b.example ,,"},
			wantOrigins: []string{"https://a.example", "https://b.example"},
		},
		{
			name:     "upload root",
			env:      map[string]string{"MARKETPLACE_UPLOAD_ROOT": "/srv/uploads"},
			wantRoot: "/srv/uploads",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"BACKEND_URL", "BACKEND_TOKEN", "MARKETPLACE_MCP_AUTH_TOKEN", "MARKETPLACE_LOG_LEVEL", "MARKETPLACE_CORS_ORIGINS", "MARKETPLACE_UPLOAD_ROOT"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			if err := ApplyEnvOverrides(&cfg); err != nil {
				t.Fatalf("ApplyEnvOverrides() error: %v", err)
			}

			if cfg.Backend.URL != tt.wantURL {
				t.Errorf("Backend.URL = %q, want %q", cfg.Backend.URL, tt.wantURL)
			}
			if cfg.Backend.Token != tt.wantBackend {
				t.Errorf("Backend.Token = %q, want %q", cfg.Backend.Token, tt.wantBackend)
			}
			if cfg.Server.AuthToken != tt.wantAuth {
				t.Errorf("Server.AuthToken = %q, want %q", cfg.Server.AuthToken, tt.wantAuth)
			}
			if cfg.Log.Level != tt.wantLevel {
				t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, tt.wantLevel)
			}
			if !reflect.DeepEqual(cfg.HTTP.CORSOrigins, tt.wantOrigins) {
				t.Errorf("HTTP.CORSOrigins = %v, want %v", cfg.HTTP.CORSOrigins, tt.wantOrigins)
			}
			if cfg.Upload.Root != tt.wantRoot {
				t.Errorf("Upload.Root = %q, want %q", cfg.Upload.Root, tt.wantRoot)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// LoadDotEnv
// ---------------------------------------------------------------------------

func Test_LoadDotEnv_Cases(t *testing.T) {
	t.Run("missing file is not an error", func(t *testing.T) {
		if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("file values populate unset variables", func(t *testing.T) {
		t.Setenv("BACKEND_URL", "")
		os.Unsetenv("BACKEND_URL")

		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte("BACKEND_URL=https://from-dotenv.example\n"), 0o600); err != nil {
			t.Fatalf("write .env: %v", err)
		}

		if err := LoadDotEnv(path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := os.Getenv("BACKEND_URL"); got != "https://from-dotenv.example" {
			t.Errorf("BACKEND_URL = %q, want %q", got, "https://from-dotenv.example")
		}
	})

	t.Run("existing variables are not overwritten", func(t *testing.T) {
		t.Setenv("BACKEND_URL", "https://from-env.example")

		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte("BACKEND_URL=https://from-dotenv.example\n"), 0o600); err != nil {
			t.Fatalf("write .env: %v", err)
		}

		if err := LoadDotEnv(path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := os.Getenv("BACKEND_URL"); got != "https://from-env.example" {
			t.Errorf("BACKEND_URL = %q, want %q", got, "https://from-env.example")
		}
	})
}

// ---------------------------------------------------------------------------
// EnsureAuthToken
// ---------------------------------------------------------------------------

func Test_EnsureAuthToken_Cases(t *testing.T) {
	t.Run("token already set returns existing token unchanged", func(t *testing.T) {
		cfg := &Config{
			Server: ServerConfig{
				AuthToken: "pre-set",
			},
		}

		token, err := EnsureAuthToken(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "pre-set" {
			t.Errorf("returned token = %q, want %q", token, "pre-set")
		}
		if cfg.Server.AuthToken != "pre-set" {
			t.Errorf("cfg.Server.AuthToken = %q, want %q", cfg.Server.AuthToken, "pre-set")
		}
	})

	t.Run("empty token generates and sets new token", func(t *testing.T) {
		cfg := &Config{
			Server: ServerConfig{
				AuthToken: "",
			},
		}

		token, err := EnsureAuthToken(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token == "" {
			t.Fatal("returned token is empty, expected a generated value")
		}
		if cfg.Server.AuthToken != token {
			t.Errorf("cfg.Server.AuthToken = %q, want %q (returned token)", cfg.Server.AuthToken, token)
		}
	})

	t.Run("generated token is 32 characters", func(t *testing.T) {
		cfg := &Config{
			Server: ServerConfig{
				AuthToken: "",
			},
		}

		token, err := EnsureAuthToken(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(token) != 32 {
			t.Errorf("len(token) = %d, want 32", len(token))
		}
	})

	t.Run("generated token is valid hex", func(t *testing.T) {
		cfg := &Config{
			Server: ServerConfig{
				AuthToken: "",
			},
		}

		token, err := EnsureAuthToken(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		decoded, err := hex.DecodeString(token)
		if err != nil {
			t.Fatalf("token %q is not valid hex: %v", token, err)
		}
		if len(decoded) != 16 {
			t.Errorf("decoded length = %d, want 16 bytes", len(decoded))
		}
	})

	t.Run("two calls produce different tokens", func(t *testing.T) {
		cfg1 := &Config{Server: ServerConfig{AuthToken: ""}}
		cfg2 := &Config{Server: ServerConfig{AuthToken: ""}}

		token1, err := EnsureAuthToken(cfg1)
		if err != nil {
			t.Fatalf("first call error: %v", err)
		}

		token2, err := EnsureAuthToken(cfg2)
		if err != nil {
			t.Fatalf("second call error: %v", err)
		}

		if token1 == token2 {
			t.Errorf("two generated tokens are identical: %q", token1)
		}
	})
}

// ---------------------------------------------------------------------------
// GenerateRandomToken
// ---------------------------------------------------------------------------

func Test_GenerateRandomToken_Cases(t *testing.T) {
	t.Run("returns 32 character string", func(t *testing.T) {
		token, err := GenerateRandomToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(token) != 32 {
			t.Errorf("len(token) = %d, want 32", len(token))
		}
	})

	t.Run("output is valid hex encoding 16 bytes", func(t *testing.T) {
		token, err := GenerateRandomToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		decoded, err := hex.DecodeString(token)
		if err != nil {
			t.Fatalf("token %q is not valid hex: %v", token, err)
		}
		if len(decoded) != 16 {
			t.Errorf("decoded byte length = %d, want 16", len(decoded))
		}
	})

	t.Run("two calls return different values", func(t *testing.T) {
		token1, err := GenerateRandomToken()
		if err != nil {
			t.Fatalf("first call error: %v", err)
		}

		token2, err := GenerateRandomToken()
		if err != nil {
			t.Fatalf("second call error: %v", err)
		}

		if token1 == token2 {
			t.Errorf("two generated tokens are identical: %q", token1)
		}
	})

	t.Run("concurrent calls all succeed with unique tokens", func(t *testing.T) {
		const goroutines = 100

		var (
			wg     sync.WaitGroup
			mu     sync.Mutex
			tokens = make(map[string]struct{}, goroutines)
			errs   []error
		)

		wg.Add(goroutines)
		for i := 0; i < goroutines; i++ {
			go func() {
				defer wg.Done()
				token, err := GenerateRandomToken()
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errs = append(errs, err)
					return
				}
				tokens[token] = struct{}{}
			}()
		}
		wg.Wait()

		if len(errs) > 0 {
			t.Fatalf("got %d errors in concurrent calls; first: %v", len(errs), errs[0])
		}

		if len(tokens) != goroutines {
			t.Errorf("expected %d unique tokens, got %d (collisions detected)", goroutines, len(tokens))
		}
	})
}
