package config

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signup = `
id: signup
fields:
  - path: email
    rules:
      - rule: required
`

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"FORM_DEFINITION", "FORM_SUBMIT_TIMEOUT", "FORM_VALIDATOR_COMMAND", "FORM_VALIDATOR_TOOL", "FORM_PORT", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.SubmitTimeout)
	assert.Equal(t, "validate_form", cfg.ValidatorTool)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FORM_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("FORM_SUBMIT_TIMEOUT", "5s")
	t.Setenv("FORM_VALIDATOR_ARGS", "--strict  --fast")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.SubmitTimeout)
	assert.Equal(t, []string{"--strict", "--fast"}, cfg.ValidatorArgs)
}

func TestValidate(t *testing.T) {
	valid := Config{LogLevel: "warn", LogFormat: "text", SubmitTimeout: time.Second}
	assert.NoError(t, valid.Validate())

	badLevel := valid
	badLevel.LogLevel = "loud"
	assert.Error(t, badLevel.Validate())

	badFormat := valid
	badFormat.LogFormat = "xml"
	assert.Error(t, badFormat.Validate())

	badTimeout := valid
	badTimeout.SubmitTimeout = 0
	assert.Error(t, badTimeout.Validate())
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{LogLevel: "warn", LogFormat: "json"}
	log := cfg.Logger(&buf)

	log.Info("hidden")
	log.Warn("shown", "field", "email")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"field":"email"`)
}

func TestLoadForm_Fallback(t *testing.T) {
	cfg := Config{LogLevel: "info", LogFormat: "text", SubmitTimeout: time.Second}

	f, err := cfg.LoadForm(context.Background(), []byte(signup))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "signup", f.Controller.ID())
	assert.Equal(t, "required", f.Controller.ValidateForm(context.Background())["email"])
	require.NotNil(t, f.Schema)
	assert.True(t, f.Schema.Has("email"))
}

func TestLoadForm_MissingDefinition(t *testing.T) {
	cfg := Config{Definition: "does-not-exist.yaml"}

	_, err := cfg.LoadForm(context.Background(), []byte(signup))
	assert.Error(t, err)
}
