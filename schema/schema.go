package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// Builder is implemented by every schema builder.
type Builder interface {
	// Build renders the schema as JSON Schema. It fails when the schema is
	// inconsistent.
	Build() (json.RawMessage, error)

	node() *node
}

// Keywords name the checks a value can fail. They key per-check messages
// set with MessageFor.
const (
	KeyRequired         = "required"
	KeyType             = "type"
	KeyEnum             = "enum"
	KeyMinLength        = "minLength"
	KeyMaxLength        = "maxLength"
	KeyPattern          = "pattern"
	KeyFormat           = "format"
	KeyMinimum          = "minimum"
	KeyMaximum          = "maximum"
	KeyExclusiveMinimum = "exclusiveMinimum"
	KeyExclusiveMaximum = "exclusiveMaximum"
	KeyMinItems         = "minItems"
	KeyMaxItems         = "maxItems"
	KeyUniqueItems      = "uniqueItems"
	KeyUnknown          = "additionalProperties"
)

// FormatEmail is the only format checked against values. Other formats are
// rendered but not enforced.
const FormatEmail = "email"

// node is one schema in the tree. The json tags define the rendered form.
type node struct {
	Type        string `json:"type,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
	Default     any    `json:"default,omitempty"`

	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
	Format    string `json:"format,omitempty"`

	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`

	Items       *node `json:"items,omitempty"`
	MinItems    *int  `json:"minItems,omitempty"`
	MaxItems    *int  `json:"maxItems,omitempty"`
	UniqueItems bool  `json:"uniqueItems,omitempty"`

	Properties           map[string]*node `json:"properties,omitempty"`
	Required             []string         `json:"required,omitempty"`
	AdditionalProperties *bool            `json:"additionalProperties,omitempty"`

	// message is reported for any failure without a keyword message.
	message  string
	messages map[string]string
	re       *regexp.Regexp
}

var (
	// ErrInvalidRange is returned when a lower bound exceeds the upper one.
	ErrInvalidRange = errors.New("schema: minimum exceeds maximum")

	// ErrInvalidPattern is returned when a pattern does not compile.
	ErrInvalidPattern = errors.New("schema: invalid regex pattern")

	// ErrNilItems is returned when an array has no items schema.
	ErrNilItems = errors.New("schema: array requires items schema")
)

// ValidationError reports an inconsistent schema. Field is the property
// path when the problem is nested.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema: field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("schema: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func rangeError(what string) error {
	return &ValidationError{Message: what, Err: ErrInvalidRange}
}

// consistent checks the node and its children.
func (n *node) consistent() error {
	if n.MinLength != nil && n.MaxLength != nil && *n.MinLength > *n.MaxLength {
		return rangeError("minLength exceeds maxLength")
	}
	if n.Pattern != "" && n.re == nil {
		if _, err := regexp.Compile(n.Pattern); err != nil {
			return &ValidationError{
				Message: fmt.Sprintf("invalid pattern %q: %v", n.Pattern, err),
				Err:     ErrInvalidPattern,
			}
		}
	}
	if n.Minimum != nil && n.Maximum != nil && *n.Minimum > *n.Maximum {
		return rangeError("minimum exceeds maximum")
	}
	if n.ExclusiveMinimum != nil && n.ExclusiveMaximum != nil && *n.ExclusiveMinimum >= *n.ExclusiveMaximum {
		return rangeError("exclusiveMinimum >= exclusiveMaximum")
	}
	if n.MinItems != nil && n.MaxItems != nil && *n.MinItems > *n.MaxItems {
		return rangeError("minItems exceeds maxItems")
	}

	if n.Type == "array" {
		if n.Items == nil {
			return &ValidationError{Message: "array requires items schema", Err: ErrNilItems}
		}
		if err := n.Items.consistent(); err != nil {
			return &ValidationError{Message: fmt.Sprintf("invalid items schema: %v", err), Err: err}
		}
	}
	for name, prop := range n.Properties {
		if err := prop.consistent(); err != nil {
			return &ValidationError{Field: name, Message: err.Error(), Err: err}
		}
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
