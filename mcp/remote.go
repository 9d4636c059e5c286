package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/validate"
)

// ErrToolNotFound is returned when the remote server does not list the
// validation tool.
var ErrToolNotFound = errors.New("mcp: tool not found")

var _ validate.Validator = (*RemoteValidator)(nil)

// RemoteValidator validates form values by calling a tool on an MCP server.
//
// RemoteValidator is safe for concurrent use to the extent the underlying
// client is.
type RemoteValidator struct {
	client *client.Client
	tool   string
}

// NewRemoteValidator creates a RemoteValidator connected to an MCP server
// via stdio. The command is the path to the MCP server executable, and args
// are passed to it.
func NewRemoteValidator(ctx context.Context, tool, command string, env []string, args ...string) (*RemoteValidator, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP client: %w", err)
	}
	return NewRemoteValidatorFromClient(ctx, c, tool)
}

// NewRemoteValidatorSSE creates a RemoteValidator connected to an MCP server
// via SSE.
func NewRemoteValidatorSSE(ctx context.Context, tool, baseURL string) (*RemoteValidator, error) {
	c, err := client.NewSSEMCPClient(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSE MCP client: %w", err)
	}
	return NewRemoteValidatorFromClient(ctx, c, tool)
}

// NewRemoteValidatorFromClient creates a RemoteValidator from an MCP client
// that has not been started. It starts and initializes the client, then
// checks that the server lists tool. The client is closed on failure.
func NewRemoteValidatorFromClient(ctx context.Context, c *client.Client, tool string) (*RemoteValidator, error) {
	if err := c.Start(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to start MCP client: %w", err)
	}

	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "formularity-validator",
				Version: "1.0.0",
			},
		},
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize MCP session: %w", err)
	}

	list, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	found := false
	for _, t := range list.Tools {
		if t.Name == tool {
			found = true
			break
		}
	}
	if !found {
		c.Close()
		return nil, formularity.NewConfigError(fmt.Sprintf("remote validator tool %q", tool), "", ErrToolNotFound)
	}

	return &RemoteValidator{client: c, tool: tool}, nil
}

// Tool returns the name of the remote validation tool.
func (r *RemoteValidator) Tool() string {
	return r.tool
}

// Close closes the connection to the MCP server.
func (r *RemoteValidator) Close() error {
	return r.client.Close()
}

// Validate sends {"values": values} to the remote tool and decodes the
// returned path-to-message object. A failed call is a transient error; a
// tool error result or an undecodable answer is not.
func (r *RemoteValidator) Validate(ctx context.Context, values formularity.Values) (formularity.Errors, error) {
	result, err := r.client.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      r.tool,
			Arguments: map[string]any{"values": map[string]any(values)},
		},
	})
	if err != nil {
		return nil, formularity.NewTransientError("remote validation call failed", err)
	}

	if result.IsError {
		return nil, fmt.Errorf("remote validator %s: %s", r.tool, resultText(result))
	}

	errs, err := decodeErrors(result)
	if err != nil {
		return nil, fmt.Errorf("remote validator %s: %w", r.tool, err)
	}
	return errs, nil
}

func resultText(result *mcp.CallToolResult) string {
	var parts []string
	for _, content := range result.Content {
		if text, ok := mcp.AsTextContent(content); ok {
			parts = append(parts, text.Text)
		}
	}
	if len(parts) == 0 {
		return "tool error"
	}
	return strings.Join(parts, "\n")
}

// decodeErrors reads the first text content as JSON, falling back to the
// structured content.
func decodeErrors(result *mcp.CallToolResult) (formularity.Errors, error) {
	var errs formularity.Errors
	for _, content := range result.Content {
		text, ok := mcp.AsTextContent(content)
		if !ok || strings.TrimSpace(text.Text) == "" {
			continue
		}
		if err := json.Unmarshal([]byte(text.Text), &errs); err != nil {
			return nil, fmt.Errorf("decode errors: %w", err)
		}
		return errs, nil
	}

	if result.StructuredContent == nil {
		return formularity.Errors{}, nil
	}
	data, err := json.Marshal(result.StructuredContent)
	if err != nil {
		return nil, fmt.Errorf("encode structured content: %w", err)
	}
	if err := json.Unmarshal(data, &errs); err != nil {
		return nil, fmt.Errorf("decode errors: %w", err)
	}
	return errs, nil
}
