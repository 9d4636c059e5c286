package agui

import (
	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/johnsonav1992/formularity/event"
)

// StepValidation is the AG-UI step name used for form validation.
const StepValidation = "validation"

// Mapper converts form events to AG-UI events.
//
// Create a Mapper per form session using NewMapper. The Mapper is not safe
// for concurrent use.
type Mapper struct {
	threadID string
	runID    string
}

// NewMapper creates a Mapper. Empty IDs are generated.
func NewMapper(threadID, runID string) *Mapper {
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	if runID == "" {
		runID = events.GenerateRunID()
	}
	return &Mapper{
		threadID: threadID,
		runID:    runID,
	}
}

// ThreadID returns the thread ID for this mapper.
func (m *Mapper) ThreadID() string {
	return m.threadID
}

// RunID returns the run ID for this mapper.
func (m *Mapper) RunID() string {
	return m.runID
}

// RunStarted returns a RUN_STARTED event.
func (m *Mapper) RunStarted() events.Event {
	return events.NewRunStartedEvent(m.threadID, m.runID)
}

// RunFinished returns a RUN_FINISHED event.
func (m *Mapper) RunFinished() events.Event {
	return events.NewRunFinishedEvent(m.threadID, m.runID)
}

// RunError returns a RUN_ERROR event.
func (m *Mapper) RunError(err error) events.Event {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return events.NewRunErrorEvent(msg)
}

// MapEvent converts a form event to an AG-UI event. It returns nil for
// events without an AG-UI equivalent.
func (m *Mapper) MapEvent(e event.Event) events.Event {
	switch e.Type {
	case event.SubmitStart:
		return m.RunStarted()
	case event.SubmitEnd:
		return m.RunFinished()
	case event.SubmitError:
		return m.RunError(e.Error)

	case event.ValidationStart:
		return events.NewStepStartedEvent(StepValidation)
	case event.ValidationEnd, event.ValidationFailed:
		return events.NewStepFinishedEvent(StepValidation)

	default:
		return nil
	}
}
