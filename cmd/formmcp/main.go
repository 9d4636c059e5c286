// Command formmcp serves a form over MCP stdio, so an MCP client such as an
// AI assistant can read, fill, validate and submit it.
//
// Configuration is via environment variables (a .env file is loaded if
// present):
//
//	FORM_DEFINITION        - YAML or HCL form definition (required)
//	FORM_VALIDATOR_COMMAND - MCP server used for remote validation (optional)
//	FORM_VALIDATOR_ARGS    - arguments for the validator command
//	FORM_VALIDATOR_TOOL    - validator tool name (default: validate_form)
//	LOG_LEVEL              - debug, info, warn, error (default: info)
//	LOG_FORMAT             - text or json (default: text)
//
// Logs go to stderr; stdout carries the protocol.
//
// Configuration for an MCP client:
//
//	{
//	    "mcpServers": {
//	        "signup-form": {
//	            "command": "go",
//	            "args": ["run", "./cmd/formmcp"],
//	            "env": {"FORM_DEFINITION": "./cmd/formdemo/signup.yaml"}
//	        }
//	    }
//	}
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/form"
	"github.com/johnsonav1992/formularity/internal/config"
	"github.com/johnsonav1992/formularity/mcp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Definition == "" {
		fmt.Fprintln(os.Stderr, "Configuration error: FORM_DEFINITION is required")
		os.Exit(1)
	}
	log := cfg.Logger(os.Stderr)
	ctx := context.Background()

	f, err := cfg.LoadForm(ctx, nil, form.WithLogger(log))
	if err != nil {
		log.Error("failed to build form", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	submit := func(_ context.Context, values formularity.Values) error {
		data, err := json.Marshal(values)
		if err != nil {
			return err
		}
		log.Info("form submitted", "values", string(data))
		return nil
	}

	name := f.Controller.ID()
	log.Info("serving form over MCP stdio", "fields", len(f.Definition.Fields))

	if err := mcp.ServeStdio(f.Controller,
		mcp.WithName(name),
		mcp.WithVersion("1.0.0"),
		mcp.WithSubmit(submit),
		mcp.WithSchema(f.Schema),
	); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
