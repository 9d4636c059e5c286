package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/johnsonav1992/formularity/form"
	"github.com/johnsonav1992/formularity/schema"
)

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
	submit  form.SubmitFunc
	schema  schema.Builder
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// WithSubmit sets the callback run by submit_form once the form is valid.
// Without it, submit_form validates and counts the attempt only.
func WithSubmit(fn form.SubmitFunc) ServerOption {
	return func(c *serverConfig) {
		c.submit = fn
	}
}

// WithSchema publishes the form's JSON Schema through get_form_schema.
func WithSchema(b schema.Builder) ServerOption {
	return func(c *serverConfig) {
		c.schema = b
	}
}

func newConfig(opts []ServerOption) *serverConfig {
	cfg := &serverConfig{
		name:    "formularity",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// NewServer creates an MCP server exposing ctrl through the form tools.
//
// Example:
//
//	srv := mcp.NewServer(ctrl,
//	    mcp.WithName("signup-form"),
//	    mcp.WithSubmit(save),
//	)
//
//	server.ServeStdio(srv)
func NewServer(ctrl *form.Controller, opts ...ServerOption) *server.MCPServer {
	cfg := newConfig(opts)

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)
	s.AddTools(tools(ctrl, cfg)...)

	return s
}

// ServeStdio starts an MCP server for ctrl that communicates over
// stdin/stdout.
func ServeStdio(ctrl *form.Controller, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(ctrl, opts...))
}
