// Package formularity provides form-state management: a single mutable form
// store holding values, validation errors and touch/submission metadata, and
// a controller that derives rendering-ready state from it after every change.
//
// The root package holds the shared data model ([State], [Values], [Errors],
// [Touched]) and the categorized error type. The work is done in subpackages:
//
//   - [github.com/johnsonav1992/formularity/fieldpath]: dot/bracket path addressing
//   - [github.com/johnsonav1992/formularity/deep]: clone, equality, merge, key enumeration
//   - [github.com/johnsonav1992/formularity/store]: the observable form store
//   - [github.com/johnsonav1992/formularity/validate]: validators and the orchestrator
//   - [github.com/johnsonav1992/formularity/schema]: fluent schema builder usable as a validator
//   - [github.com/johnsonav1992/formularity/form]: the controller and field-list helpers
//   - [github.com/johnsonav1992/formularity/event]: lifecycle events and JSON Patch operations
//   - [github.com/johnsonav1992/formularity/retry]: backoff for transient validator failures
//   - [github.com/johnsonav1992/formularity/formdef]: YAML and HCL form definitions
//   - [github.com/johnsonav1992/formularity/agui]: AG-UI state snapshots and deltas
//   - [github.com/johnsonav1992/formularity/mcp]: forms as MCP tools, MCP tools as validators
//
// # Basic Usage
//
//	s, err := store.New(formularity.Values{
//	    "firstName": "",
//	    "hobbies":   []any{},
//	}, store.WithManualValidation(func(v formularity.Values) formularity.Errors {
//	    if v["firstName"] == "" {
//	        return formularity.Errors{"firstName": "First name is required"}
//	    }
//	    return nil
//	}))
//	if err != nil {
//	    log.Fatal(err) // configuration error
//	}
//
//	f, err := form.New(s, form.WithFieldKind("hobbies", form.KindGroup))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	f.HandleChange(form.ChangeEvent{Target: form.Target{Name: "firstName", Value: "John"}})
//	f.HandleBlur(form.BlurEvent{Target: form.Target{Name: "firstName"}})
//
//	err = f.HandleSubmit(ctx, nil, func(ctx context.Context, v formularity.Values) error {
//	    return save(ctx, v)
//	})
//
//	view := f.View()
//	fmt.Println(view.IsDirty, view.IsValid, view.DirtyFields)
//
// # Errors
//
// Configuration mistakes are returned as [*Error] values with category
// [ErrorConfiguration]. Validation failures are never errors: they are data
// in [State.Errors].
package formularity
