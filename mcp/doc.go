// Package mcp exposes forms over MCP (Model Context Protocol) and consumes
// MCP tools as form validators.
//
// # Serving a Form
//
// [NewServer] registers tools that let an agent read and drive a form
// controller:
//
//	get_form_state   read values, errors, touched and derived flags
//	set_field_value  write one field
//	touch_field      mark one field touched or untouched
//	validate_form    run every validator and return the errors
//	submit_form      run the submit flow
//	reset_form       return to the initial values
//
// Serve over stdio for subprocess-based clients:
//
//	if err := mcp.ServeStdio(ctrl, mcp.WithSubmit(save)); err != nil {
//	    log.Fatal(err)
//	}
//
// # Remote Validation
//
// [RemoteValidator] delegates whole-form validation to a tool on another
// MCP server. The tool receives {"values": {...}} and answers with a JSON
// object mapping field paths to messages:
//
//	v, err := mcp.NewRemoteValidator(ctx, "check_signup", "./validator-server", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer v.Close()
//
//	s, err := store.New(initial, store.WithSchema(v), store.WithRetry(retry.DefaultConfig()))
//
// Transport failures are transient errors, so a store configured with a
// retry policy retries them.
package mcp
