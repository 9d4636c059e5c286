package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/event"
	"github.com/johnsonav1992/formularity/store"
	"github.com/johnsonav1992/formularity/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type preventer struct{ called int }

func (p *preventer) PreventDefault() { p.called++ }

func requireFirstName(values formularity.Values) formularity.Errors {
	if s, _ := values["firstName"].(string); s == "" {
		return formularity.Errors{"firstName": "First name is required"}
	}
	return nil
}

func signupForm(t *testing.T, opts ...Option) *Controller {
	return newController(t, formularity.Values{
		"firstName": "",
		"lastName":  "",
		"email":     "",
	}, []store.Option{store.WithManualValidation(requireFirstName)}, opts...)
}

func drain(ch chan event.Event) []event.Type {
	var out []event.Type
	for {
		select {
		case e := <-ch:
			out = append(out, e.Type)
		default:
			return out
		}
	}
}

func TestHandleSubmit_Invalid(t *testing.T) {
	ch := event.NewChannel()
	c := signupForm(t, WithEvents(ch))
	p := &preventer{}

	called := false
	err := c.HandleSubmit(context.Background(), p, func(context.Context, formularity.Values) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, 1, p.called)

	st := c.State()
	assert.Equal(t, 1, st.SubmitCount)
	assert.Equal(t, "First name is required", st.Errors["firstName"])
	assert.Equal(t, formularity.Touched{"firstName": true, "lastName": true, "email": true}, st.Touched)
	assert.False(t, st.IsSubmitting)
	assert.False(t, st.IsValidating)
	assert.True(t, c.View().AreAllFieldsTouched)

	assert.Equal(t, []event.Type{
		event.SubmitStart,
		event.ValidationStart,
		event.ValidationEnd,
		event.SubmitBlocked,
		event.SubmitEnd,
	}, drain(ch))
}

func TestHandleSubmit_Valid(t *testing.T) {
	c := signupForm(t)
	c.SetValues(formularity.Values{"firstName": "John", "lastName": "Doe", "email": "j@d.com"})

	var got []formularity.Values
	err := c.HandleSubmit(context.Background(), nil, func(_ context.Context, values formularity.Values) error {
		assert.True(t, c.State().IsSubmitting)
		got = append(got, values)
		return nil
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, formularity.Values{"firstName": "John", "lastName": "Doe", "email": "j@d.com"}, got[0])
	assert.False(t, c.State().IsSubmitting)
	assert.Equal(t, 1, c.State().SubmitCount)
	assert.True(t, c.View().IsValid)
}

func TestHandleSubmit_CallbackGetsCopy(t *testing.T) {
	c := newController(t, formularity.Values{"tags": []any{"a"}}, nil)

	_ = c.HandleSubmit(context.Background(), nil, func(_ context.Context, values formularity.Values) error {
		values["tags"].([]any)[0] = "mutated"
		return nil
	})

	assert.Equal(t, "a", c.GetFieldValue("tags[0]"))
}

func TestHandleSubmit_CallbackFailure(t *testing.T) {
	boom := errors.New("network down")

	t.Run("error", func(t *testing.T) {
		ch := event.NewChannel()
		c := newController(t, formularity.Values{}, nil, WithEvents(ch))

		err := c.HandleSubmit(context.Background(), nil, func(context.Context, formularity.Values) error {
			return boom
		})

		assert.NoError(t, err)
		assert.False(t, c.State().IsSubmitting)

		var failure error
		for e := range ch {
			if e.Type == event.SubmitError {
				failure = e.Error
			}
			if e.Type == event.SubmitEnd {
				break
			}
		}
		assert.ErrorIs(t, failure, boom)
		assert.True(t, formularity.IsSubmission(failure))
	})

	t.Run("panic", func(t *testing.T) {
		c := newController(t, formularity.Values{}, nil)

		assert.NotPanics(t, func() {
			_ = c.HandleSubmit(context.Background(), nil, func(context.Context, formularity.Values) error {
				panic("callback bug")
			})
		})
		assert.False(t, c.State().IsSubmitting)
	})
}

func TestHandleSubmit_SingleFlight(t *testing.T) {
	c := newController(t, formularity.Values{}, nil)

	var inner error
	err := c.HandleSubmit(context.Background(), nil, func(ctx context.Context, _ formularity.Values) error {
		inner = c.HandleSubmit(ctx, nil, func(context.Context, formularity.Values) error { return nil })
		return nil
	})

	require.NoError(t, err)
	assert.ErrorIs(t, inner, formularity.ErrSubmitInFlight)
	assert.Equal(t, 1, c.State().SubmitCount, "rejected attempt is not counted")
	assert.False(t, c.State().IsSubmitting)
}

func TestHandleSubmit_ValidatorFailureBlocks(t *testing.T) {
	boom := errors.New("schema service down")
	c := newController(t, formularity.Values{"a": ""}, []store.Option{
		store.WithSchema(validate.Func(func(context.Context, formularity.Values) (formularity.Errors, error) {
			return nil, boom
		})),
	})
	c.SetFieldError("a", "previous")

	called := false
	err := c.HandleSubmit(context.Background(), nil, func(context.Context, formularity.Values) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.False(t, called)
	st := c.State()
	assert.Equal(t, formularity.Errors{"a": "previous"}, st.Errors, "last known errors kept")
	assert.Equal(t, boom.Error(), st.ValidationError)
	assert.False(t, st.IsValidating)
	assert.False(t, st.IsSubmitting)
}

func TestHandleSubmit_NilCallback(t *testing.T) {
	c := newController(t, formularity.Values{}, nil)
	assert.NoError(t, c.HandleSubmit(context.Background(), nil, nil))
	assert.Equal(t, 1, c.State().SubmitCount)
}

func TestHandleReset(t *testing.T) {
	c := signupForm(t)
	p := &preventer{}

	c.SetFieldValue("firstName", "John")
	_ = c.HandleSubmit(context.Background(), nil, nil)
	c.SetErrors(formularity.Errors{"email": "bad"})
	c.SetEditing(true)

	c.HandleReset(p)
	once := c.State()

	assert.Equal(t, 1, p.called)
	assert.Equal(t, once.InitialValues, once.Values)
	assert.Empty(t, once.Errors)
	assert.Empty(t, once.Touched)
	assert.Zero(t, once.SubmitCount)
	assert.True(t, once.IsEditing, "editing flag survives reset")
	assert.False(t, c.View().IsDirty)

	c.HandleReset(nil)
	assert.Equal(t, once, c.State(), "reset is idempotent")
}

func TestHandleReset_ValuesAreACopy(t *testing.T) {
	c := newController(t, formularity.Values{"tags": []any{"a"}}, nil)

	c.HandleReset(nil)
	c.State().Values["tags"].([]any)[0] = "mutated"

	assert.Equal(t, "a", c.State().InitialValues["tags"].([]any)[0])
}

func TestValidateForm(t *testing.T) {
	c := signupForm(t)

	errs := c.ValidateForm(context.Background())

	assert.Equal(t, formularity.Errors{"firstName": "First name is required"}, errs)
	st := c.State()
	assert.Equal(t, errs, st.Errors)
	assert.True(t, st.Touched["email"])
	assert.False(t, st.IsValidating)
	assert.Zero(t, st.SubmitCount)

	c.SetFieldValue("firstName", "John")
	assert.Empty(t, c.ValidateForm(context.Background()))
	assert.True(t, c.View().IsValid)
}

func TestValidateForm_ClearsValidationError(t *testing.T) {
	fail := true
	c := newController(t, formularity.Values{}, []store.Option{
		store.WithSchema(validate.Func(func(context.Context, formularity.Values) (formularity.Errors, error) {
			if fail {
				return nil, errors.New("down")
			}
			return nil, nil
		})),
	})

	c.ValidateForm(context.Background())
	assert.Equal(t, "down", c.State().ValidationError)

	fail = false
	c.ValidateForm(context.Background())
	assert.Empty(t, c.State().ValidationError)
}

func TestValidateForm_IsValidatingDuringRun(t *testing.T) {
	var c *Controller
	seen := false
	c = newController(t, formularity.Values{}, []store.Option{
		store.WithSchema(validate.Func(func(context.Context, formularity.Values) (formularity.Errors, error) {
			seen = c.State().IsValidating
			return nil, nil
		})),
	})

	c.ValidateForm(context.Background())

	assert.True(t, seen)
	assert.False(t, c.State().IsValidating)
}

func TestValidateForm_ResultAfterResetIsDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	c := newController(t, formularity.Values{"name": ""}, []store.Option{
		store.WithSchema(validate.Func(func(context.Context, formularity.Values) (formularity.Errors, error) {
			close(started)
			<-release
			return formularity.Errors{"name": "required"}, nil
		})),
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.ValidateForm(context.Background())
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("validator did not start")
	}
	c.HandleReset(nil)
	close(release)
	wg.Wait()

	st := c.State()
	assert.Empty(t, st.Errors, "stale result dropped")
	assert.Empty(t, st.Touched)
	assert.False(t, st.IsValidating)
	assert.Equal(t, uint64(1), st.Epoch)
}

func TestSetValues_Validate(t *testing.T) {
	c := signupForm(t)

	c.SetValues(formularity.Values{"lastName": "Doe"}, Validate(context.Background()))

	assert.Equal(t, "First name is required", c.GetFieldError("firstName"))
	assert.Equal(t, "Doe", c.GetFieldValue("lastName"))
}
