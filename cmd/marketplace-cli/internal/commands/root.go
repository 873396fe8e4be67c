// Package commands builds the cobra command tree of marketplace-cli.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jamesprial/marketplace-mcp/internal/app"
	"github.com/jamesprial/marketplace-mcp/internal/config"
	"github.com/jamesprial/marketplace-mcp/internal/logging"
	"github.com/spf13/cobra"
)

// jwtEnv is read when --jwt is not given.
const jwtEnv = "MARKETPLACE_JWT"

// Factory builds the backend clients from a config file path. An empty path
// means defaults plus environment overrides.
type Factory func(configPath string) (*app.App, error)

// DefaultFactory loads the config, applies environment overrides and builds
// an App logging to stderr.
func DefaultFactory(configPath string) (*app.App, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := config.ApplyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return app.New(cfg, logging.New(cfg.Log))
}

// state is shared by every command. app is set by the root pre-run hook.
type state struct {
	factory    Factory
	out        io.Writer
	configPath string
	jwt        string
	app        *app.App
}

// token returns the --jwt flag or the MARKETPLACE_JWT variable.
func (s *state) token() string {
	if s.jwt != "" {
		return s.jwt
	}
	return os.Getenv(jwtEnv)
}

func (s *state) print(v any) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// NewRootCommand returns the marketplace-cli command tree writing results to
// out as indented JSON.
func NewRootCommand(factory Factory, out io.Writer) *cobra.Command {
	st := &state{factory: factory, out: out}

	rootCmd := &cobra.Command{
		Use:   "marketplace-cli",
		Short: "Command-line client for the marketplace backend",
		Long: `marketplace-cli calls the marketplace GraphQL backend and its upload
endpoints. The backend URL comes from BACKEND_URL (or a .env file) unless
--config points at a YAML config.

Authenticated commands read the session token from --jwt or MARKETPLACE_JWT.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if offline(cmd) {
				return nil
			}
			a, err := st.factory(st.configPath)
			if err != nil {
				return fmt.Errorf("init backend: %w", err)
			}
			st.app = a
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&st.configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&st.jwt, "jwt", "", "Session token (defaults to $"+jwtEnv+")")

	rootCmd.AddCommand(
		businessCommand(st),
		branchCommand(st),
		productCommand(st),
		tutorialCommand(st),
		businessTypeCommand(st),
		uploadCommand(st),
		loginCommand(st),
	)
	return rootCmd
}

// offline reports whether cmd runs without a backend (help and completion).
func offline(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "help" || c.Name() == "completion" {
			return true
		}
	}
	return false
}

// addInputFlag registers --input, a JSON object given inline or as @file.
func addInputFlag(cmd *cobra.Command) {
	cmd.Flags().String("input", "", "JSON object, or @path to a JSON file")
	_ = cmd.MarkFlagRequired("input")
}

// bindInput decodes the --input flag into dst, rejecting unknown fields.
func bindInput(cmd *cobra.Command, dst any) error {
	raw, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}
	if path, ok := strings.CutPrefix(raw, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		raw = string(data)
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid --input: %w", err)
	}
	return nil
}
