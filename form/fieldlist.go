package form

import (
	"fmt"

	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/deep"
	"github.com/johnsonav1992/formularity/fieldpath"
)

// FieldList edits the array at one path. Every operation builds a new
// slice from the current one and writes it with a single store update, so
// each produces exactly one notification. The store's slice is never
// modified in place.
type FieldList struct {
	c    *Controller
	path string
}

// FieldList returns the list helpers for path. It fails with
// formularity.ErrNotArray when path does not currently hold an array.
func (c *Controller) FieldList(path string) (*FieldList, error) {
	v, ok := fieldpath.Get(c.store.Get().Values, path)
	if _, isArr := v.([]any); !ok || !isArr {
		return nil, formularity.NewConfigError("field list requires an array", path, formularity.ErrNotArray)
	}
	return &FieldList{c: c, path: path}, nil
}

// Path returns the list's field path.
func (l *FieldList) Path() string {
	return l.path
}

// Items returns the current items. Callers must not mutate them.
func (l *FieldList) Items() []any {
	items, _ := fieldpath.Value(l.c.store.Get().Values, l.path).([]any)
	return items
}

// Len returns the current number of items.
func (l *FieldList) Len() int {
	return len(l.Items())
}

// Add appends item.
func (l *FieldList) Add(item any) error {
	item = deep.Normalize(item)
	return l.apply(func(items []any) ([]any, error) {
		return append(copyItems(items, 1), item), nil
	})
}

// AddToBeginning prepends item.
func (l *FieldList) AddToBeginning(item any) error {
	item = deep.Normalize(item)
	return l.apply(func(items []any) ([]any, error) {
		out := make([]any, 0, len(items)+1)
		return append(append(out, item), items...), nil
	})
}

// Remove deletes the item at index.
func (l *FieldList) Remove(index int) error {
	return l.apply(func(items []any) ([]any, error) {
		if err := l.checkIndex(index, len(items)); err != nil {
			return nil, err
		}
		return removeAt(items, index), nil
	})
}

// RemoveLast deletes the last item.
func (l *FieldList) RemoveLast() error {
	return l.apply(func(items []any) ([]any, error) {
		if len(items) == 0 {
			return nil, l.rangeError(-1, 0)
		}
		return removeAt(items, len(items)-1), nil
	})
}

// Insert places item at index, shifting later items. index may equal the
// length to append.
func (l *FieldList) Insert(index int, item any) error {
	item = deep.Normalize(item)
	return l.apply(func(items []any) ([]any, error) {
		if index < 0 || index > len(items) {
			return nil, l.rangeError(index, len(items))
		}
		return insertAt(items, index, item), nil
	})
}

// Replace overwrites the item at index.
func (l *FieldList) Replace(index int, item any) error {
	item = deep.Normalize(item)
	return l.apply(func(items []any) ([]any, error) {
		if err := l.checkIndex(index, len(items)); err != nil {
			return nil, err
		}
		out := copyItems(items, 0)
		out[index] = item
		return out, nil
	})
}

// Move removes the item at from and reinserts it at to. The relative order
// of the other items is kept.
func (l *FieldList) Move(from, to int) error {
	return l.apply(func(items []any) ([]any, error) {
		if err := l.checkIndex(from, len(items)); err != nil {
			return nil, err
		}
		if err := l.checkIndex(to, len(items)); err != nil {
			return nil, err
		}
		item := items[from]
		return insertAt(removeAt(items, from), to, item), nil
	})
}

// Swap exchanges the items at a and b.
func (l *FieldList) Swap(a, b int) error {
	return l.apply(func(items []any) ([]any, error) {
		if err := l.checkIndex(a, len(items)); err != nil {
			return nil, err
		}
		if err := l.checkIndex(b, len(items)); err != nil {
			return nil, err
		}
		out := copyItems(items, 0)
		out[a], out[b] = out[b], out[a]
		return out, nil
	})
}

func (l *FieldList) apply(fn func(items []any) ([]any, error)) error {
	return l.c.writeField(l.path, func(current any) (any, error) {
		items, ok := current.([]any)
		if !ok {
			return nil, formularity.NewConfigError("field list requires an array", l.path, formularity.ErrNotArray)
		}
		return fn(items)
	})
}

func (l *FieldList) checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return l.rangeError(i, n)
	}
	return nil
}

func (l *FieldList) rangeError(i, n int) error {
	return formularity.NewConfigError(fmt.Sprintf("index %d out of range for length %d", i, n), l.path, formularity.ErrIndexOutOfRange)
}

func copyItems(items []any, extra int) []any {
	out := make([]any, len(items), len(items)+extra)
	copy(out, items)
	return out
}

func removeAt(items []any, i int) []any {
	out := make([]any, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

func insertAt(items []any, i int, item any) []any {
	out := make([]any, 0, len(items)+1)
	out = append(out, items[:i]...)
	out = append(out, item)
	return append(out, items[i:]...)
}
