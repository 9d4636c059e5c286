package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/event"
	"github.com/johnsonav1992/formularity/form"
	"github.com/johnsonav1992/formularity/store"
)

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}

func TestCollector_Observe(t *testing.T) {
	c, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	start := time.Now()
	c.Observe(event.Event{Type: event.SubmitStart, FormID: "signup", Timestamp: start})
	assert.Equal(t, 1.0, testutil.ToFloat64(c.SubmitsInFlight.WithLabelValues("signup")))

	c.Observe(event.Event{Type: event.ValidationStart, FormID: "signup", Timestamp: start})
	c.Observe(event.Event{Type: event.ValidationEnd, FormID: "signup", Timestamp: start.Add(50 * time.Millisecond)})
	c.Observe(event.Event{Type: event.SubmitEnd, FormID: "signup", Timestamp: start.Add(60 * time.Millisecond)})

	assert.Equal(t, 0.0, testutil.ToFloat64(c.SubmitsInFlight.WithLabelValues("signup")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Events.WithLabelValues("signup", string(event.ValidationEnd))))
	assert.Equal(t, 1, testutil.CollectAndCount(c.ValidationDuration))
}

func TestCollector_ValidationEndWithoutStart(t *testing.T) {
	c, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	c.Observe(event.Event{Type: event.ValidationFailed, FormID: "signup", Timestamp: time.Now()})

	assert.Equal(t, 0, testutil.CollectAndCount(c.ValidationDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Events.WithLabelValues("signup", string(event.ValidationFailed))))
}

func TestCollector_Run(t *testing.T) {
	c, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	s, err := store.New(formularity.Values{"email": ""}, store.WithID("signup"))
	require.NoError(t, err)
	events := event.NewChannel()
	ctrl, err := form.New(s, form.WithEvents(events))
	require.NoError(t, err)

	require.NoError(t, ctrl.HandleSubmit(context.Background(), nil, nil))
	close(events)

	c.Run(context.Background(), events)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Events.WithLabelValues("signup", string(event.SubmitStart))))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Events.WithLabelValues("signup", string(event.SubmitEnd))))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.SubmitsInFlight.WithLabelValues("signup")))
}

func TestCollector_RunStopsOnContext(t *testing.T) {
	c, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		c.Run(ctx, make(chan event.Event))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}
