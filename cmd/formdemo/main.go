// Command formdemo walks a form through a scripted session and prints every
// lifecycle event and the final form state.
//
// Configuration is via environment variables (a .env file is loaded if
// present):
//
//	FORM_DEFINITION  - YAML or HCL form definition (default: built-in signup form)
//	LOG_LEVEL        - debug, info, warn, error (default: info)
//	LOG_FORMAT       - text or json (default: text)
//
// Usage:
//
//	go run ./cmd/formdemo
package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/event"
	"github.com/johnsonav1992/formularity/form"
	"github.com/johnsonav1992/formularity/internal/config"
)

//go:embed signup.yaml
var signupDefinition []byte

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	log := cfg.Logger(os.Stderr)
	ctx := context.Background()

	events := event.NewChannel()
	f, err := cfg.LoadForm(ctx, signupDefinition, form.WithLogger(log), form.WithEvents(events))
	if err != nil {
		log.Error("failed to build form", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range events {
			printEvent(ev)
		}
	}()

	run(ctx, f.Controller, cfg)

	close(events)
	wg.Wait()

	printState(f.Controller)
}

// run plays a user filling the form: an invalid first attempt, fixes, then
// a successful submission.
func run(ctx context.Context, ctrl *form.Controller, cfg *config.Config) {
	submit := func(ctx context.Context, values formularity.Values) error {
		data, _ := json.Marshal(values)
		fmt.Printf("submitted: %s\n", data)
		return nil
	}

	fmt.Println("=== First attempt ===")
	ctrl.HandleChange(form.ChangeEvent{Target: form.Target{Name: "email", Value: "jane"}})
	ctrl.HandleBlur(form.BlurEvent{Target: form.Target{Name: "email"}})
	ctrl.HandleChange(form.ChangeEvent{Target: form.Target{Name: "age", Value: "16"}})
	attempt(ctx, ctrl, cfg, submit)

	fmt.Println("\n=== Fixing errors ===")
	for path, msg := range ctrl.State().Errors {
		fmt.Printf("  %s: %s\n", path, msg)
	}
	ctrl.HandleChange(form.ChangeEvent{Target: form.Target{Name: "email", Value: "jane@example.com"}})
	ctrl.HandleChange(form.ChangeEvent{Target: form.Target{Name: "age", Value: "34"}})
	ctrl.HandleChange(form.ChangeEvent{Target: form.Target{Name: "hobbies", Value: "climbing", Checked: true}})
	ctrl.SetFieldValue("address.country", "FR")

	if list, err := ctrl.FieldList("hobbies"); err == nil {
		list.Move(1, 0)
	}

	fmt.Println("\n=== Second attempt ===")
	attempt(ctx, ctrl, cfg, submit)
}

func attempt(ctx context.Context, ctrl *form.Controller, cfg *config.Config, submit form.SubmitFunc) {
	ctx, cancel := context.WithTimeout(ctx, cfg.SubmitTimeout)
	defer cancel()

	if err := ctrl.HandleSubmit(ctx, nil, submit); err != nil {
		fmt.Fprintf(os.Stderr, "Submit error: %v\n", err)
	}
}

func printEvent(ev event.Event) {
	switch ev.Type {
	case event.ValueChanged:
		fmt.Printf("  [%s] %s = %v\n", ev.Type, ev.Path, ev.Value)
	case event.FieldTouched:
		fmt.Printf("  [%s] %s\n", ev.Type, ev.Path)
	case event.ValidationEnd, event.SubmitBlocked:
		fmt.Printf("  [%s] %d error(s)\n", ev.Type, len(ev.Errors))
	case event.ValidationFailed, event.SubmitError:
		fmt.Printf("  [%s] %v\n", ev.Type, ev.Error)
	default:
		fmt.Printf("  [%s]\n", ev.Type)
	}
}

func printState(ctrl *form.Controller) {
	data, err := json.MarshalIndent(ctrl.View().Document(), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Printf("\n=== Final state ===\n%s\n", data)
}
