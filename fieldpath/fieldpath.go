// Package fieldpath addresses values inside nested form data with string
// paths such as "deep.nested[2].name".
//
// A path is parsed once into tokens that both [Get] and [Set] consume, so
// "a[0].b" and "a.0.b" always address the same location.
package fieldpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/johnsonav1992/formularity/deep"
)

// MaxIndex is the largest array index Set will write. Larger indices would
// allocate the whole gap.
const MaxIndex = 1 << 16

// ErrIndexTooLarge is returned by Check for an index above MaxIndex.
var ErrIndexTooLarge = errors.New("fieldpath: array index too large")

// Token is one segment of a parsed path.
type Token struct {
	// Key is the raw segment text.
	Key string
	// Index is the array index when the segment is all digits, else -1.
	Index int
}

// IsIndex reports whether the token can address an array element.
func (t Token) IsIndex() bool {
	return t.Index >= 0
}

// Parse splits a path on '.', '[' and ']', ignoring empty segments.
func Parse(path string) []Token {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '.' || r == '[' || r == ']'
	})

	tokens := make([]Token, 0, len(parts))
	for _, p := range parts {
		tokens = append(tokens, Token{Key: p, Index: parseIndex(p)})
	}
	return tokens
}

func parseIndex(s string) int {
	for _, r := range s {
		if r < '0' || r > '9' {
			return -1
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

// Check reports whether Set can write at path.
func Check(path string) error {
	for _, tok := range Parse(path) {
		if tok.Index > MaxIndex {
			return fmt.Errorf("%w: %d > %d", ErrIndexTooLarge, tok.Index, MaxIndex)
		}
	}
	return nil
}

// Get resolves path inside obj. It returns false when any segment is
// missing, out of range, or not indexable. It never panics.
func Get(obj any, path string) (any, bool) {
	tokens := Parse(path)
	if len(tokens) == 0 {
		return nil, false
	}

	cur := obj
	for _, tok := range tokens {
		next, ok := step(cur, tok)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Value is like Get but drops the found flag.
func Value(obj any, path string) any {
	v, _ := Get(obj, path)
	return v
}

func step(cur any, tok Token) (any, bool) {
	switch c := cur.(type) {
	case map[string]any:
		v, ok := c[tok.Key]
		return v, ok
	case []any:
		if !tok.IsIndex() || tok.Index >= len(c) {
			return nil, false
		}
		return c[tok.Index], true
	default:
		return nil, false
	}
}

// Set returns a deep clone of obj with value written at path. Missing
// intermediate containers are created: an array when the following segment
// is numeric, otherwise an object. Arrays shorter than the target index are
// padded with nil. An empty path returns obj unchanged.
//
// A scalar or nil root is replaced by a container matching the first segment.
// A path that fails Check also returns obj unchanged.
func Set(obj any, path string, value any) any {
	tokens := Parse(path)
	if len(tokens) == 0 || Check(path) != nil {
		return obj
	}
	return assign(deep.Clone(obj), tokens, value)
}

// assign writes value into cur, which is owned by the caller.
func assign(cur any, tokens []Token, value any) any {
	if len(tokens) == 0 {
		return value
	}
	tok, rest := tokens[0], tokens[1:]

	switch c := cur.(type) {
	case map[string]any:
		c[tok.Key] = assign(c[tok.Key], rest, value)
		return c
	case []any:
		if tok.IsIndex() {
			c = grow(c, tok.Index)
			c[tok.Index] = assign(c[tok.Index], rest, value)
			return c
		}
		// a non-numeric key on an array: fall back to an object view so the
		// write is not lost
		m := make(map[string]any, len(c)+1)
		for i, v := range c {
			m[strconv.Itoa(i)] = v
		}
		m[tok.Key] = assign(nil, rest, value)
		return m
	default:
		if tok.IsIndex() {
			arr := grow(nil, tok.Index)
			arr[tok.Index] = assign(nil, rest, value)
			return arr
		}
		return map[string]any{tok.Key: assign(nil, rest, value)}
	}
}

func grow(arr []any, index int) []any {
	if index < len(arr) {
		return arr
	}
	out := make([]any, index+1)
	copy(out, arr)
	return out
}

// Join appends an object key to a parent path.
func Join(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

// Index appends an array index to a parent path using bracket notation.
func Index(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}

// Canonical rewrites a path into the bracketed form used for error and
// touched keys, so "a.0.b" becomes "a[0].b".
func Canonical(path string) string {
	var b strings.Builder
	for i, tok := range Parse(path) {
		switch {
		case tok.IsIndex() && i > 0:
			b.WriteString("[" + tok.Key + "]")
		case i > 0:
			b.WriteString("." + tok.Key)
		default:
			b.WriteString(tok.Key)
		}
	}
	return b.String()
}

// Pointer renders path as an RFC 6901 JSON pointer ("/a/0/b").
func Pointer(path string) string {
	var b strings.Builder
	for _, tok := range Parse(path) {
		b.WriteByte('/')
		key := strings.ReplaceAll(tok.Key, "~", "~0")
		b.WriteString(strings.ReplaceAll(key, "/", "~1"))
	}
	return b.String()
}
