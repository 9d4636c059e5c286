package form

import (
	"sort"

	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/deep"
	"github.com/johnsonav1992/formularity/fieldpath"
)

// View is a store snapshot plus the state derived from it. It is computed
// on demand and never stored.
type View struct {
	formularity.State

	// IsDirty reports whether the values differ from the initial values.
	IsDirty bool
	// IsPristine is the negation of IsDirty.
	IsPristine bool
	// DirtyFields lists the leaf paths whose value differs from the initial
	// value at the same path. The enumeration order is lexicographic by
	// canonical path, not field declaration order, so changing firstName
	// then email yields ["email", "firstName"].
	DirtyFields []string
	// IsValid reports whether no error carries a message.
	IsValid bool
	// IsFormTouched reports whether any field is touched.
	IsFormTouched bool
	// AreAllFieldsTouched reports whether every leaf path of the values is
	// touched. A form without fields is not considered touched.
	AreAllFieldsTouched bool
}

// Derive computes the View of a snapshot.
func Derive(s formularity.State) View {
	dirty := dirtyFields(s.Values, s.InitialValues)
	return View{
		State:               s,
		IsDirty:             !deep.Equal(s.Values, s.InitialValues),
		IsPristine:          deep.Equal(s.Values, s.InitialValues),
		DirtyFields:         dirty,
		IsValid:             !s.Errors.HasErrors(),
		IsFormTouched:       s.Touched.Any(),
		AreAllFieldsTouched: allTouched(s.Values, s.Touched),
	}
}

func dirtyFields(values, initial formularity.Values) []string {
	seen := make(map[string]bool)
	out := []string{}
	check := func(paths []string) {
		for _, p := range paths {
			if seen[p] {
				continue
			}
			seen[p] = true
			cur, curOK := fieldpath.Get(values, p)
			was, wasOK := fieldpath.Get(initial, p)
			if curOK != wasOK || !deep.Equal(cur, was) {
				out = append(out, p)
			}
		}
	}
	check(deep.Leaves(values))
	check(deep.Leaves(initial))
	sort.Strings(out)
	return out
}

func allTouched(values formularity.Values, touched formularity.Touched) bool {
	leaves := deep.Leaves(values)
	if len(leaves) == 0 {
		return false
	}
	for _, p := range leaves {
		if !touched[p] {
			return false
		}
	}
	return true
}

// Document renders the view as a JSON-ready object with camelCase keys, the
// shape shared with frontends and agents. Values are deep-copied.
func (v View) Document() map[string]any {
	errs := make(map[string]any, len(v.Errors))
	for k, msg := range v.Errors {
		errs[k] = msg
	}
	touched := make(map[string]any, len(v.Touched))
	for k, t := range v.Touched {
		touched[k] = t
	}
	dirty := make([]any, len(v.DirtyFields))
	for i, p := range v.DirtyFields {
		dirty[i] = p
	}
	values := deep.CloneValues(v.Values)
	if values == nil {
		values = map[string]any{}
	}

	return map[string]any{
		"values":              values,
		"errors":              errs,
		"touched":             touched,
		"isSubmitting":        v.IsSubmitting,
		"isValidating":        v.IsValidating,
		"submitCount":         v.SubmitCount,
		"isEditing":           v.IsEditing,
		"validationError":     v.ValidationError,
		"isDirty":             v.IsDirty,
		"dirtyFields":         dirty,
		"isValid":             v.IsValid,
		"isFormTouched":       v.IsFormTouched,
		"areAllFieldsTouched": v.AreAllFieldsTouched,
	}
}
