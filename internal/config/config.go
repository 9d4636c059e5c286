// Package config loads command configuration from the environment and
// builds the form a command serves.
package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"

	"github.com/johnsonav1992/formularity/form"
	"github.com/johnsonav1992/formularity/formdef"
	"github.com/johnsonav1992/formularity/mcp"
	"github.com/johnsonav1992/formularity/retry"
	"github.com/johnsonav1992/formularity/schema"
	"github.com/johnsonav1992/formularity/store"
)

// Config holds the command configuration loaded from environment variables.
type Config struct {
	// Form
	Definition    string // path to a YAML or HCL form definition
	SubmitTimeout time.Duration

	// Remote validation over MCP stdio, optional
	ValidatorCommand string
	ValidatorArgs    []string
	ValidatorTool    string

	// Server
	Port string

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // text, json
}

// Load loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Definition:       os.Getenv("FORM_DEFINITION"),
		SubmitTimeout:    getEnvDurationOrDefault("FORM_SUBMIT_TIMEOUT", 30*time.Second),
		ValidatorCommand: os.Getenv("FORM_VALIDATOR_COMMAND"),
		ValidatorArgs:    strings.Fields(os.Getenv("FORM_VALIDATOR_ARGS")),
		ValidatorTool:    getEnvOrDefault("FORM_VALIDATOR_TOOL", "validate_form"),
		Port:             getEnvOrDefault("FORM_PORT", "8080"),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        getEnvOrDefault("LOG_FORMAT", "text"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown LOG_FORMAT: %s (must be text or json)", c.LogFormat)
	}

	if c.SubmitTimeout <= 0 {
		return fmt.Errorf("FORM_SUBMIT_TIMEOUT must be positive")
	}

	return nil
}

// Logger builds a structured logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.LogLevel)
	opts := &slog.HandlerOptions{Level: level}

	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown LOG_LEVEL: %s (must be debug, info, warn, or error)", s)
	}
	return level, nil
}

// Form is a controller ready to serve, with the resources backing it.
type Form struct {
	Definition *formdef.Definition
	Controller *form.Controller
	Schema     *schema.ObjectBuilder
	remote     *mcp.RemoteValidator
}

// Close releases the remote validator connection, if any.
func (f *Form) Close() error {
	if f.remote == nil {
		return nil
	}
	return f.remote.Close()
}

// BuildForm builds the controller for def. When a validator command is
// configured, the form is also validated by that MCP tool, retried on
// transient failures.
func (c *Config) BuildForm(ctx context.Context, def *formdef.Definition, opts ...form.Option) (*Form, error) {
	sch, err := def.Schema()
	if err != nil {
		return nil, err
	}
	f := &Form{Definition: def, Schema: sch}

	var sopts []store.Option
	if c.ValidatorCommand != "" {
		remote, err := mcp.NewRemoteValidator(ctx, c.ValidatorTool, c.ValidatorCommand, os.Environ(), c.ValidatorArgs...)
		if err != nil {
			return nil, fmt.Errorf("connect remote validator: %w", err)
		}
		f.remote = remote
		sopts = append(sopts, store.WithSchema(remote), store.WithRetry(retry.DefaultConfig()))
	}

	ctrl, err := def.Controller(sopts, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	f.Controller = ctrl
	return f, nil
}

// LoadForm loads the configured definition, or parses fallback as YAML
// when none is configured, and builds its form.
func (c *Config) LoadForm(ctx context.Context, fallback []byte, opts ...form.Option) (*Form, error) {
	var (
		def *formdef.Definition
		err error
	)
	if c.Definition != "" {
		def, err = formdef.Load(c.Definition)
	} else {
		def, err = formdef.ParseYAML(fallback)
	}
	if err != nil {
		return nil, err
	}
	return c.BuildForm(ctx, def, opts...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := cast.ToDurationE(value); err == nil {
			return d
		}
	}
	return defaultValue
}
