package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/form"
	"github.com/johnsonav1992/formularity/schema"
	"github.com/johnsonav1992/formularity/store"
)

func signupController(t *testing.T) *form.Controller {
	t.Helper()
	s, err := store.New(
		formularity.Values{"email": "", "name": "Jane"},
		store.WithManualValidation(func(v formularity.Values) formularity.Errors {
			errs := formularity.Errors{}
			if v["email"] == "" {
				errs["email"] = "required"
			}
			return errs
		}),
	)
	require.NoError(t, err)
	c, err := form.New(s)
	require.NoError(t, err)
	return c
}

func connect(t *testing.T, srv *server.MCPServer) *client.Client {
	t.Helper()
	ctx := context.Background()

	c, err := client.NewInProcessClient(srv)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	require.NoError(t, c.Start(ctx))
	_, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "test-client",
				Version: "1.0.0",
			},
		},
	})
	require.NoError(t, err)
	return c
}

func call(t *testing.T, c *client.Client, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := c.CallTool(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err)
	return result
}

func decodeText(t *testing.T, result *mcp.CallToolResult, v any) {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(text.Text), v))
}

func TestNewServer_ListsTools(t *testing.T) {
	c := connect(t, NewServer(signupController(t), WithName("signup"), WithVersion("2.0.0")))

	list, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)

	var names []string
	for _, tool := range list.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		ToolGetState, ToolSetValue, ToolTouch, ToolValidate, ToolSubmit, ToolReset,
	}, names)
}

func TestTools_SetValueAndGetState(t *testing.T) {
	ctrl := signupController(t)
	c := connect(t, NewServer(ctrl))

	result := call(t, c, ToolSetValue, map[string]any{"path": "name", "value": "John"})
	assert.False(t, result.IsError)
	assert.Equal(t, "John", ctrl.GetFieldValue("name"))

	var doc map[string]any
	decodeText(t, call(t, c, ToolGetState, nil), &doc)
	assert.Equal(t, "John", doc["values"].(map[string]any)["name"])
	assert.Equal(t, true, doc["isDirty"])
	assert.Equal(t, []any{"name"}, doc["dirtyFields"])
}

func TestTools_SetValueMissingArguments(t *testing.T) {
	c := connect(t, NewServer(signupController(t)))

	assert.True(t, call(t, c, ToolSetValue, map[string]any{"value": "x"}).IsError)
	assert.True(t, call(t, c, ToolSetValue, map[string]any{"path": "name"}).IsError)
}

func TestTools_Touch(t *testing.T) {
	ctrl := signupController(t)
	c := connect(t, NewServer(ctrl))

	call(t, c, ToolTouch, map[string]any{"path": "email"})
	assert.True(t, ctrl.IsFieldTouched("email"))

	call(t, c, ToolTouch, map[string]any{"path": "email", "touched": false})
	assert.False(t, ctrl.IsFieldTouched("email"))
}

func TestTools_Validate(t *testing.T) {
	ctrl := signupController(t)
	c := connect(t, NewServer(ctrl))

	var errs formularity.Errors
	decodeText(t, call(t, c, ToolValidate, nil), &errs)
	assert.Equal(t, formularity.Errors{"email": "required"}, errs)
	assert.Equal(t, "required", ctrl.GetFieldError("email"))
}

func TestTools_Submit(t *testing.T) {
	t.Run("blocked by errors", func(t *testing.T) {
		ctrl := signupController(t)
		submitted := false
		c := connect(t, NewServer(ctrl, WithSubmit(func(context.Context, formularity.Values) error {
			submitted = true
			return nil
		})))

		var res SubmitResult
		decodeText(t, call(t, c, ToolSubmit, nil), &res)

		assert.False(t, res.Submitted)
		assert.Equal(t, formularity.Errors{"email": "required"}, res.Errors)
		assert.Equal(t, 1, res.SubmitCount)
		assert.False(t, submitted)
	})

	t.Run("valid form", func(t *testing.T) {
		ctrl := signupController(t)
		var got formularity.Values
		c := connect(t, NewServer(ctrl, WithSubmit(func(_ context.Context, v formularity.Values) error {
			got = v
			return nil
		})))

		call(t, c, ToolSetValue, map[string]any{"path": "email", "value": "jane@example.com"})

		var res SubmitResult
		decodeText(t, call(t, c, ToolSubmit, nil), &res)

		assert.True(t, res.Submitted)
		assert.Empty(t, res.Errors)
		assert.Equal(t, "jane@example.com", got["email"])
	})

	t.Run("callback error", func(t *testing.T) {
		ctrl := signupController(t)
		ctrl.SetFieldValue("email", "jane@example.com")
		c := connect(t, NewServer(ctrl, WithSubmit(func(context.Context, formularity.Values) error {
			return errors.New("backend down")
		})))

		var res SubmitResult
		decodeText(t, call(t, c, ToolSubmit, nil), &res)

		assert.False(t, res.Submitted)
		assert.Equal(t, "backend down", res.Error)
	})

	t.Run("callback panic", func(t *testing.T) {
		ctrl := signupController(t)
		ctrl.SetFieldValue("email", "jane@example.com")
		c := connect(t, NewServer(ctrl, WithSubmit(func(context.Context, formularity.Values) error {
			panic("boom")
		})))

		var res SubmitResult
		decodeText(t, call(t, c, ToolSubmit, nil), &res)

		assert.False(t, res.Submitted)
		assert.Contains(t, res.Error, "panicked")
		assert.False(t, ctrl.State().IsSubmitting)
	})
}

func TestTools_Reset(t *testing.T) {
	ctrl := signupController(t)
	c := connect(t, NewServer(ctrl))

	call(t, c, ToolSetValue, map[string]any{"path": "name", "value": "John"})
	call(t, c, ToolReset, nil)

	assert.Equal(t, "Jane", ctrl.GetFieldValue("name"))
	assert.False(t, ctrl.View().IsDirty)
}

func TestTools_Standalone(t *testing.T) {
	srv := server.NewMCPServer("combined", "1.0.0", server.WithToolCapabilities(true))
	srv.AddTools(Tools(signupController(t))...)
	srv.AddTool(mcp.NewTool("ping"), func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("pong"), nil
	})

	c := connect(t, srv)
	list, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Tools, 7)
}

func TestTools_Schema(t *testing.T) {
	t.Run("listed only when configured", func(t *testing.T) {
		assert.Len(t, Tools(signupController(t)), 6)
		assert.Len(t, Tools(signupController(t), WithSchema(schema.Object())), 7)
	})

	t.Run("returns the rendered schema", func(t *testing.T) {
		signup := schema.Object().
			Field("email", schema.String().Label("Email").Email().Required())
		c := connect(t, NewServer(signupController(t), WithSchema(signup)))

		result := call(t, c, ToolSchema, nil)
		require.False(t, result.IsError)

		var got map[string]any
		decodeText(t, result, &got)
		assert.Equal(t, map[string]any{
			"type": "object",
			"properties": map[string]any{
				"email": map[string]any{"type": "string", "title": "Email", "format": "email"},
			},
			"required": []any{"email"},
		}, got)
	})

	t.Run("inconsistent schema is a tool error", func(t *testing.T) {
		broken := schema.Object().Field("age", schema.Int().Min(10).Max(1))
		c := connect(t, NewServer(signupController(t), WithSchema(broken)))

		assert.True(t, call(t, c, ToolSchema, nil).IsError)
	})
}
