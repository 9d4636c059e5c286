package agui

import (
	"errors"
	"testing"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnsonav1992/formularity/event"
)

func TestNewMapper_GeneratesIDs(t *testing.T) {
	m := NewMapper("", "")
	assert.NotEmpty(t, m.ThreadID())
	assert.NotEmpty(t, m.RunID())

	m = NewMapper("thread-1", "run-1")
	assert.Equal(t, "thread-1", m.ThreadID())
	assert.Equal(t, "run-1", m.RunID())
}

func TestMapper_MapEvent(t *testing.T) {
	m := NewMapper("thread-1", "run-1")

	tests := []struct {
		in   event.Type
		want events.EventType
	}{
		{event.SubmitStart, events.EventTypeRunStarted},
		{event.SubmitEnd, events.EventTypeRunFinished},
		{event.SubmitError, events.EventTypeRunError},
		{event.ValidationStart, events.EventTypeStepStarted},
		{event.ValidationEnd, events.EventTypeStepFinished},
		{event.ValidationFailed, events.EventTypeStepFinished},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			ev := m.MapEvent(event.Event{Type: tt.in, Error: errors.New("boom")})
			require.NotNil(t, ev)
			assert.Equal(t, tt.want, ev.Type())
		})
	}
}

func TestMapper_UnmappedEvents(t *testing.T) {
	m := NewMapper("", "")

	for _, typ := range []event.Type{event.ValueChanged, event.FieldTouched, event.ErrorsChanged, event.SubmitBlocked, event.Reset} {
		assert.Nil(t, m.MapEvent(event.Event{Type: typ}), typ)
	}
}

func TestMapper_RunErrorNil(t *testing.T) {
	ev := NewMapper("", "").RunError(nil)
	assert.Equal(t, events.EventTypeRunError, ev.Type())
}
