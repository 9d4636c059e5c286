package form

import (
	"testing"

	"github.com/johnsonav1992/formularity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    FieldKind
		wantErr bool
	}{
		{"", KindText, false},
		{"text", KindText, false},
		{"Number", KindNumber, false},
		{" boolean ", KindBoolean, false},
		{"group", KindGroup, false},
		{"radio", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.True(t, formularity.IsConfiguration(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleChange_Text(t *testing.T) {
	c := newController(t, formularity.Values{"firstName": ""}, nil)

	c.HandleChange(ChangeEvent{Target: Target{Name: "firstName", Value: "John"}})

	assert.Equal(t, "John", c.GetFieldValue("firstName"))
}

func TestHandleChange_CheckboxGroup(t *testing.T) {
	c := newController(t, formularity.Values{"hobbies": []any{}}, nil, WithFieldKind("hobbies", KindGroup))

	c.HandleChange(ChangeEvent{Target: Target{Name: "hobbies", Value: "soccer", Checked: true}})
	assert.Equal(t, []any{"soccer"}, c.GetFieldValue("hobbies"))

	c.HandleChange(ChangeEvent{Target: Target{Name: "hobbies", Value: "soccer", Checked: false}})
	assert.Equal(t, []any{}, c.GetFieldValue("hobbies"))
}

func TestHandleChange_GroupKeepsOrder(t *testing.T) {
	c := newController(t, formularity.Values{"hobbies": []any{"chess", "soccer", "go"}}, nil)
	change := func(value string, checked bool) {
		c.HandleChange(ChangeEvent{Target: Target{Name: "hobbies", Value: value, Checked: checked, Kind: KindGroup}})
	}

	change("soccer", false)
	assert.Equal(t, []any{"chess", "go"}, c.GetFieldValue("hobbies"))

	change("chess", true)
	assert.Equal(t, []any{"chess", "go"}, c.GetFieldValue("hobbies"), "already selected")

	change("tennis", false)
	assert.Equal(t, []any{"chess", "go"}, c.GetFieldValue("hobbies"), "not selected")

	change("tennis", true)
	assert.Equal(t, []any{"chess", "go", "tennis"}, c.GetFieldValue("hobbies"))
}

func TestHandleChange_GroupFromUnsetValue(t *testing.T) {
	c := newController(t, formularity.Values{}, nil, WithFieldKind("tags", KindGroup))

	c.HandleChange(ChangeEvent{Target: Target{Name: "tags", Value: "a", Checked: true}})

	assert.Equal(t, []any{"a"}, c.GetFieldValue("tags"))
}

func TestHandleChange_GroupWithoutValue(t *testing.T) {
	c := newController(t, formularity.Values{"agree": false}, nil, WithFieldKind("agree", KindGroup))

	c.HandleChange(ChangeEvent{Target: Target{Name: "agree", Checked: true}})
	assert.Equal(t, true, c.GetFieldValue("agree"))

	c.HandleChange(ChangeEvent{Target: Target{Name: "agree", Value: "", Checked: false}})
	assert.Equal(t, false, c.GetFieldValue("agree"))
}

func TestHandleChange_Boolean(t *testing.T) {
	c := newController(t, formularity.Values{"terms": false}, nil, WithFieldKind("terms", KindBoolean))

	c.HandleChange(ChangeEvent{Target: Target{Name: "terms", Value: "on", Checked: true}})
	assert.Equal(t, true, c.GetFieldValue("terms"))

	c.HandleChange(ChangeEvent{Target: Target{Name: "terms", Checked: false}})
	assert.Equal(t, false, c.GetFieldValue("terms"))
}

func TestHandleChange_Number(t *testing.T) {
	c := newController(t, formularity.Values{}, nil, WithFieldKind("age", KindNumber))

	tests := []struct {
		in   any
		want any
	}{
		{"42", 42.0},
		{" 4.5 ", 4.5},
		{7, 7.0},
		{"", ""},
		{"abc", "abc"},
		{nil, nil},
	}

	for _, tt := range tests {
		c.HandleChange(ChangeEvent{Target: Target{Name: "age", Value: tt.in}})
		assert.Equal(t, tt.want, c.GetFieldValue("age"), "input %v", tt.in)
	}
}

func TestHandleChange_ConfiguredKindWins(t *testing.T) {
	c := newController(t, formularity.Values{}, nil, WithFieldKind("agree", KindBoolean))

	c.HandleChange(ChangeEvent{Target: Target{Name: "agree", Value: "yes", Checked: true, Kind: KindText}})

	assert.Equal(t, true, c.GetFieldValue("agree"))
}

func TestHandleChange_NoName(t *testing.T) {
	c := newController(t, formularity.Values{"a": 1}, nil)

	notified := 0
	c.Store().Subscribe(func() { notified++ })

	assert.NotPanics(t, func() { c.HandleChange(ChangeEvent{}) })
	assert.Zero(t, notified)
}

func TestHandleBlur(t *testing.T) {
	c := newController(t, formularity.Values{"email": ""}, nil)

	c.HandleBlur(BlurEvent{Target: Target{Name: "email"}})
	c.HandleBlur(BlurEvent{})

	assert.Equal(t, formularity.Touched{"email": true}, c.State().Touched)
}
