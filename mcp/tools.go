package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/form"
)

// Tool names.
const (
	ToolGetState = "get_form_state"
	ToolSetValue = "set_field_value"
	ToolTouch    = "touch_field"
	ToolValidate = "validate_form"
	ToolSubmit   = "submit_form"
	ToolReset    = "reset_form"
	ToolSchema   = "get_form_schema"
)

const (
	pathParam     = "path"
	valueParam    = "value"
	touchedParam  = "touched"
	pathParamDesc = `Field path, e.g. "email" or "friends[0].name"`
)

// SubmitResult is the submit_form result.
type SubmitResult struct {
	Submitted   bool               `json:"submitted"`
	Errors      formularity.Errors `json:"errors"`
	SubmitCount int                `json:"submitCount"`
	Error       string             `json:"error,omitempty"`
}

// Tools returns the form tools for ctrl without creating a server, for
// registering alongside other tools.
func Tools(ctrl *form.Controller, opts ...ServerOption) []server.ServerTool {
	return tools(ctrl, newConfig(opts))
}

func tools(ctrl *form.Controller, cfg *serverConfig) []server.ServerTool {
	out := []server.ServerTool{
		{
			Tool: mcp.NewTool(ToolGetState,
				mcp.WithDescription("Get the form's values, errors, touched fields and derived flags"),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultJSON(ctrl.View().Document())
			},
		},
		{
			Tool: mcp.NewTool(ToolSetValue,
				mcp.WithDescription("Set the value of one form field"),
				mcp.WithString(pathParam, mcp.Required(), mcp.Description(pathParamDesc)),
				mcp.WithAny(valueParam, mcp.Required(), mcp.Description("New field value")),
			),
			Handler: func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				path, err := req.RequireString(pathParam)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				value, ok := req.GetArguments()[valueParam]
				if !ok {
					return mcp.NewToolResultErrorf("required argument %q not found", valueParam), nil
				}
				ctrl.SetFieldValue(path, value)
				return mcp.NewToolResultJSON(ctrl.View().Document())
			},
		},
		{
			Tool: mcp.NewTool(ToolTouch,
				mcp.WithDescription("Mark one form field as touched or untouched"),
				mcp.WithString(pathParam, mcp.Required(), mcp.Description(pathParamDesc)),
				mcp.WithBoolean(touchedParam, mcp.DefaultBool(true), mcp.Description("Touched flag, true when omitted")),
			),
			Handler: func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				path, err := req.RequireString(pathParam)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				ctrl.SetFieldTouched(path, req.GetBool(touchedParam, true))
				return mcp.NewToolResultJSON(ctrl.View().Document())
			},
		},
		{
			Tool: mcp.NewTool(ToolValidate,
				mcp.WithDescription("Validate the whole form and return errors keyed by field path"),
			),
			Handler: func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				errs := ctrl.ValidateForm(ctx)
				if msg := ctrl.State().ValidationError; msg != "" {
					return mcp.NewToolResultErrorf("validation failed: %s", msg), nil
				}
				if errs == nil {
					errs = formularity.Errors{}
				}
				return mcp.NewToolResultJSON(errs)
			},
		},
		{
			Tool: mcp.NewTool(ToolSubmit,
				mcp.WithDescription("Submit the form. Every field is touched and validated first"),
				mcp.WithDestructiveHintAnnotation(false),
			),
			Handler: func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return submit(ctx, ctrl, cfg.submit)
			},
		},
		{
			Tool: mcp.NewTool(ToolReset,
				mcp.WithDescription("Reset the form to its initial values"),
				mcp.WithIdempotentHintAnnotation(true),
			),
			Handler: func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				ctrl.HandleReset(nil)
				return mcp.NewToolResultJSON(ctrl.View().Document())
			},
		},
	}

	if cfg.schema != nil {
		out = append(out, server.ServerTool{
			Tool: mcp.NewTool(ToolSchema,
				mcp.WithDescription("Get the JSON Schema describing the form's fields and constraints"),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				raw, err := cfg.schema.Build()
				if err != nil {
					return mcp.NewToolResultErrorFromErr("invalid form schema", err), nil
				}
				return mcp.NewToolResultText(string(raw)), nil
			},
		})
	}
	return out
}

func submit(ctx context.Context, ctrl *form.Controller, fn form.SubmitFunc) (*mcp.CallToolResult, error) {
	var (
		called    bool
		submitErr error
	)
	wrapped := func(ctx context.Context, values formularity.Values) error {
		called = true
		if fn == nil {
			return nil
		}
		defer func() {
			if r := recover(); r != nil {
				submitErr = fmt.Errorf("submit callback panicked: %v", r)
				panic(r)
			}
		}()
		submitErr = fn(ctx, values)
		return submitErr
	}

	if err := ctrl.HandleSubmit(ctx, nil, wrapped); err != nil {
		if errors.Is(err, formularity.ErrSubmitInFlight) {
			return mcp.NewToolResultError("a submission is already in progress"), nil
		}
		return mcp.NewToolResultErrorFromErr("submit failed", err), nil
	}

	st := ctrl.State()
	res := SubmitResult{
		Submitted:   called && submitErr == nil,
		Errors:      st.Errors,
		SubmitCount: st.SubmitCount,
	}
	if res.Errors == nil {
		res.Errors = formularity.Errors{}
	}
	switch {
	case submitErr != nil:
		res.Error = submitErr.Error()
	case st.ValidationError != "":
		res.Error = "validation failed: " + st.ValidationError
	}
	return mcp.NewToolResultJSON(res)
}
