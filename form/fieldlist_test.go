package form

import (
	"testing"

	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/store"
	"github.com/johnsonav1992/formularity/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listOf(t *testing.T, items ...any) (*Controller, *FieldList) {
	t.Helper()
	c := newController(t, formularity.Values{"letters": items}, nil)
	l, err := c.FieldList("letters")
	require.NoError(t, err)
	return c, l
}

func TestFieldList_RequiresArray(t *testing.T) {
	c := newController(t, formularity.Values{"name": "x", "nested": map[string]any{"list": []any{}}}, nil)

	for _, path := range []string{"name", "missing", "nested"} {
		_, err := c.FieldList(path)
		assert.ErrorIs(t, err, formularity.ErrNotArray, path)
		assert.True(t, formularity.IsConfiguration(err), path)
	}

	l, err := c.FieldList("nested.list")
	require.NoError(t, err)
	assert.Equal(t, "nested.list", l.Path())
	assert.Zero(t, l.Len())
}

func TestFieldList_Operations(t *testing.T) {
	tests := []struct {
		name string
		op   func(l *FieldList) error
		want []any
	}{
		{"add", func(l *FieldList) error { return l.Add("d") }, []any{"a", "b", "c", "d"}},
		{"add to beginning", func(l *FieldList) error { return l.AddToBeginning("z") }, []any{"z", "a", "b", "c"}},
		{"remove", func(l *FieldList) error { return l.Remove(1) }, []any{"a", "c"}},
		{"remove last", func(l *FieldList) error { return l.RemoveLast() }, []any{"a", "b"}},
		{"insert", func(l *FieldList) error { return l.Insert(1, "x") }, []any{"a", "x", "b", "c"}},
		{"insert at end", func(l *FieldList) error { return l.Insert(3, "x") }, []any{"a", "b", "c", "x"}},
		{"replace", func(l *FieldList) error { return l.Replace(2, "x") }, []any{"a", "b", "x"}},
		{"move forward", func(l *FieldList) error { return l.Move(0, 2) }, []any{"b", "c", "a"}},
		{"move backward", func(l *FieldList) error { return l.Move(2, 0) }, []any{"c", "a", "b"}},
		{"move in place", func(l *FieldList) error { return l.Move(1, 1) }, []any{"a", "b", "c"}},
		{"swap", func(l *FieldList) error { return l.Swap(0, 2) }, []any{"c", "b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, l := listOf(t, "a", "b", "c")
			before := c.State().Values["letters"].([]any)

			notified := 0
			c.Store().Subscribe(func() { notified++ })

			require.NoError(t, tt.op(l))

			assert.Equal(t, tt.want, l.Items())
			assert.Equal(t, 1, notified, "exactly one notification")
			assert.Equal(t, []any{"a", "b", "c"}, before, "old slice untouched")
		})
	}
}

func TestFieldList_OutOfRange(t *testing.T) {
	tests := []struct {
		name string
		op   func(l *FieldList) error
	}{
		{"remove negative", func(l *FieldList) error { return l.Remove(-1) }},
		{"remove past end", func(l *FieldList) error { return l.Remove(3) }},
		{"insert past end", func(l *FieldList) error { return l.Insert(4, "x") }},
		{"replace past end", func(l *FieldList) error { return l.Replace(3, "x") }},
		{"move from", func(l *FieldList) error { return l.Move(5, 0) }},
		{"move to", func(l *FieldList) error { return l.Move(0, 3) }},
		{"swap", func(l *FieldList) error { return l.Swap(0, 9) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, l := listOf(t, "a", "b", "c")

			notified := 0
			c.Store().Subscribe(func() { notified++ })

			err := tt.op(l)
			assert.ErrorIs(t, err, formularity.ErrIndexOutOfRange)
			assert.Zero(t, notified)
			assert.Equal(t, []any{"a", "b", "c"}, l.Items())
		})
	}
}

func TestFieldList_RemoveLastEmpty(t *testing.T) {
	_, l := listOf(t)
	assert.ErrorIs(t, l.RemoveLast(), formularity.ErrIndexOutOfRange)
}

func TestFieldList_PathNoLongerArray(t *testing.T) {
	c, l := listOf(t, "a")
	c.SetFieldValue("letters", "oops")

	assert.ErrorIs(t, l.Add("b"), formularity.ErrNotArray)
}

func TestFieldList_ObjectItemsAndValidation(t *testing.T) {
	c := newController(t, formularity.Values{"friends": []any{}}, []store.Option{
		store.WithFieldValidators("friends", validate.MaxLength(2, "at most two friends")),
	})
	l, err := c.FieldList("friends")
	require.NoError(t, err)

	require.NoError(t, l.Add(map[string]string{"name": "Ann"}))
	require.NoError(t, l.Add(map[string]string{"name": "Bo"}))
	assert.Equal(t, "Ann", c.GetFieldValue("friends[0].name"))
	assert.Empty(t, c.GetFieldError("friends"))

	require.NoError(t, l.Add(map[string]string{"name": "Cy"}))
	assert.Equal(t, "at most two friends", c.GetFieldError("friends"))

	require.NoError(t, l.RemoveLast())
	assert.Empty(t, c.GetFieldError("friends"))
}
