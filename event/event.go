// Package event describes observable occurrences in a form's lifecycle.
// Events are informational: the store remains the source of truth, and a
// slow or missing consumer never blocks a form operation.
package event

import (
	"time"

	"github.com/johnsonav1992/formularity"
)

// Type identifies the kind of event.
type Type string

// Field events
const (
	// ValueChanged fires after a field value is written.
	ValueChanged Type = "value_changed"

	// FieldTouched fires after a field's touched flag is set.
	FieldTouched Type = "field_touched"

	// ErrorsChanged fires after errors are overwritten directly.
	ErrorsChanged Type = "errors_changed"
)

// Validation events
const (
	// ValidationStart fires before whole-form validation runs.
	ValidationStart Type = "validation_start"

	// ValidationEnd fires when validation settles with a result.
	ValidationEnd Type = "validation_end"

	// ValidationFailed fires when a validator errors or panics.
	ValidationFailed Type = "validation_failed"
)

// Submission events
const (
	// SubmitStart fires when a submission is accepted.
	SubmitStart Type = "submit_start"

	// SubmitBlocked fires when validation errors stop a submission.
	SubmitBlocked Type = "submit_blocked"

	// SubmitError fires when the submit callback fails.
	SubmitError Type = "submit_error"

	// SubmitEnd fires when a submission finishes, whatever the outcome.
	SubmitEnd Type = "submit_end"
)

// Reset fires after the form returns to its initial values.
const Reset Type = "reset"

// Event is an observable occurrence on one form instance.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// FormID identifies the form instance.
	FormID string

	// Path is the field path for field events.
	Path string

	// Value is the written value for ValueChanged.
	Value any

	// Errors holds the validation result for ValidationEnd and SubmitBlocked.
	Errors formularity.Errors

	// SubmitCount is the count after the event's update.
	SubmitCount int

	// Error contains the failure for ValidationFailed and SubmitError.
	Error error

	// Message contains additional context.
	Message string

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Emit stamps the event and sends it without blocking. A nil channel or a
// full buffer drops the event.
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
	}
}

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 100)
}
