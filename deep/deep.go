// Package deep provides structural operations on nested form data: cloning,
// equality, merging and path enumeration.
//
// Form data is a tree of map[string]any objects, []any arrays and scalar
// leaves. [Normalize] converts typed Go maps and slices into that shape.
package deep

import (
	"reflect"
	"sort"
	"strconv"

	"github.com/google/go-cmp/cmp"
)

// sliceID identifies a slice by its backing array and length. Two slices
// sharing storage but with different lengths are distinct values.
type sliceID struct {
	ptr uintptr
	len int
}

// cloner carries the visited map for one Clone call. A source container
// seen twice maps to the same cloned target, so cycles terminate and shared
// references keep their topology.
type cloner struct {
	maps   map[uintptr]map[string]any
	slices map[sliceID][]any
}

// Clone returns a structural copy of v. Maps and slices are copied
// recursively; scalars and other values are returned as-is.
func Clone(v any) any {
	c := &cloner{
		maps:   make(map[uintptr]map[string]any),
		slices: make(map[sliceID][]any),
	}
	return c.clone(v)
}

// CloneValues is Clone for a top-level values map.
func CloneValues(v map[string]any) map[string]any {
	if v == nil {
		return nil
	}
	return Clone(v).(map[string]any)
}

func (c *cloner) clone(v any) any {
	switch src := v.(type) {
	case map[string]any:
		if src == nil {
			return src
		}
		id := reflect.ValueOf(src).Pointer()
		if done, ok := c.maps[id]; ok {
			return done
		}
		out := make(map[string]any, len(src))
		c.maps[id] = out
		for k, item := range src {
			out[k] = c.clone(item)
		}
		return out

	case []any:
		if src == nil {
			return src
		}
		out := make([]any, len(src))
		if len(src) > 0 {
			id := sliceID{ptr: reflect.ValueOf(src).Pointer(), len: len(src)}
			if done, ok := c.slices[id]; ok {
				return done
			}
			c.slices[id] = out
		}
		for i, item := range src {
			out[i] = c.clone(item)
		}
		return out

	default:
		return v
	}
}

// Equal reports whether a and b are structurally equal: same dynamic type,
// same key set and deeply equal members.
//
// Structs with unexported fields cannot be compared by cmp; for those the
// comparison falls back to reflect.DeepEqual.
func Equal(a, b any) (equal bool) {
	defer func() {
		if recover() != nil {
			equal = reflect.DeepEqual(a, b)
		}
	}()
	return cmp.Equal(a, b)
}

// Merge returns a new map holding target with source merged in. Only keys
// present in source are touched: nested maps on both sides merge
// recursively, any other source value overwrites. Neither input is
// modified.
func Merge(target, source map[string]any) map[string]any {
	out := CloneValues(target)
	if out == nil {
		out = make(map[string]any, len(source))
	}
	for k, sv := range source {
		srcMap, srcIsMap := sv.(map[string]any)
		dstMap, dstIsMap := out[k].(map[string]any)
		if srcIsMap && dstIsMap {
			out[k] = Merge(dstMap, srcMap)
			continue
		}
		out[k] = Clone(sv)
	}
	return out
}

// Keys returns every reachable path in v, intermediate and leaf, with
// per-index paths for arrays ("items", "items[0]", "items[0].name").
// Parents precede children and object keys are visited in sorted order.
func Keys(v any) []string {
	var out []string
	walk(v, "", make(map[uintptr]bool), func(path string, _ any, _ bool) {
		out = append(out, path)
	})
	return out
}

// Leaves returns the paths of Keys that hold a scalar or an empty
// container.
func Leaves(v any) []string {
	var out []string
	walk(v, "", make(map[uintptr]bool), func(path string, _ any, leaf bool) {
		if leaf {
			out = append(out, path)
		}
	})
	return out
}

// walk visits every path below v. The seen set stops descent into a
// container already on the current branch.
func walk(v any, prefix string, seen map[uintptr]bool, visit func(path string, value any, leaf bool)) {
	switch c := v.(type) {
	case map[string]any:
		id := reflect.ValueOf(c).Pointer()
		if seen[id] {
			return
		}
		seen[id] = true
		defer delete(seen, id)

		keys := make([]string, 0, len(c))
		for k := range c {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			path := k
			if prefix != "" {
				path = prefix + "." + k
			}
			child := c[k]
			visit(path, child, isLeaf(child))
			walk(child, path, seen, visit)
		}

	case []any:
		for i, child := range c {
			path := prefix + "[" + strconv.Itoa(i) + "]"
			visit(path, child, isLeaf(child))
			walk(child, path, seen, visit)
		}
	}
}

func isLeaf(v any) bool {
	switch c := v.(type) {
	case map[string]any:
		return len(c) == 0
	case []any:
		return len(c) == 0
	default:
		return true
	}
}

// Normalize converts typed maps with string keys into map[string]any and
// typed slices and arrays into []any, recursively. Other values are returned
// unchanged. []byte is treated as a scalar. Like Clone, a container reached
// twice is converted once, so cyclic input yields a cyclic result.
func Normalize(v any) any {
	n := &cloner{
		maps:   make(map[uintptr]map[string]any),
		slices: make(map[sliceID][]any),
	}
	return n.normalize(v)
}

func (c *cloner) normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case []byte:
		return t
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		if rv.IsNil() {
			return map[string]any{}
		}
		id := rv.Pointer()
		if done, ok := c.maps[id]; ok {
			return done
		}
		out := make(map[string]any, rv.Len())
		c.maps[id] = out
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = c.normalize(iter.Value().Interface())
		}
		return out

	case reflect.Slice:
		if rv.IsNil() {
			if _, ok := v.([]any); ok {
				return []any{}
			}
			return []any(nil)
		}
		out := make([]any, rv.Len())
		if rv.Len() > 0 {
			id := sliceID{ptr: rv.Pointer(), len: rv.Len()}
			if done, ok := c.slices[id]; ok {
				return done
			}
			c.slices[id] = out
		}
		for i := range out {
			out[i] = c.normalize(rv.Index(i).Interface())
		}
		return out

	case reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = c.normalize(rv.Index(i).Interface())
		}
		return out

	default:
		return v
	}
}

// NormalizeValues is Normalize for a top-level values map.
func NormalizeValues(v map[string]any) map[string]any {
	if v == nil {
		return map[string]any{}
	}
	return Normalize(v).(map[string]any)
}

// Same reports whether a and b are the same map instance. Two nil maps are
// the same.
func Same(a, b map[string]any) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
