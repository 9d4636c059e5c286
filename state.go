package formularity

// Values holds the form values: an arbitrarily nested tree of
// map[string]any objects, []any arrays and scalar leaves.
type Values = map[string]any

// Errors maps a field path to its validation message. An absent key or an
// empty message means the field has no error.
type Errors map[string]string

// Touched maps a field path to whether the user has interacted with it.
type Touched map[string]bool

// State is the authoritative snapshot held by a form store.
//
// InitialValues is set once at creation and is the baseline for dirty
// comparisons. Values, Errors and Touched are always replaced by freshly
// built maps; consumers must never mutate them in place.
type State struct {
	InitialValues Values
	Values        Values
	Errors        Errors
	Touched       Touched

	IsSubmitting bool
	IsValidating bool
	SubmitCount  int
	IsEditing    bool

	// ValidationError is the message of the last form validator failure.
	// It is cleared by the next successful validation or a reset.
	ValidationError string

	// Epoch increments when a reset interrupts validation or submission.
	// Results computed under an older epoch are discarded.
	Epoch uint64
}

// HasErrors reports whether any entry carries a non-empty message.
func (e Errors) HasErrors() bool {
	for _, msg := range e {
		if msg != "" {
			return true
		}
	}
	return false
}

// Clone returns a copy of the map. A nil map clones to an empty map.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// With returns a copy with path set to msg, or removed when msg is empty.
func (e Errors) With(path, msg string) Errors {
	out := e.Clone()
	if msg == "" {
		delete(out, path)
	} else {
		out[path] = msg
	}
	return out
}

// Any reports whether at least one entry is true.
func (t Touched) Any() bool {
	for _, v := range t {
		if v {
			return true
		}
	}
	return false
}

// Clone returns a copy of the map. A nil map clones to an empty map.
func (t Touched) Clone() Touched {
	out := make(Touched, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// With returns a copy with path set to touched.
func (t Touched) With(path string, touched bool) Touched {
	out := t.Clone()
	out[path] = touched
	return out
}
