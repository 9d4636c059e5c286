// Package formdef loads declarative form definitions from YAML or HCL and
// builds ready-to-use form controllers from them.
//
// A definition lists fields by path with an optional kind, initial value and
// validation rules:
//
//	id: signup
//	fields:
//	  - path: email
//	    rules:
//	      - rule: required
//	        message: Email is required
//	      - rule: email
//	  - path: age
//	    kind: number
//	    rules:
//	      - rule: min
//	        value: 18
//
// The same definition in HCL:
//
//	id = "signup"
//
//	field "email" {
//	  rule "required" { message = "Email is required" }
//	  rule "email" {}
//	}
//
//	field "age" {
//	  kind = "number"
//	  rule "min" { value = 18 }
//	}
package formdef

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/johnsonav1992/formularity"
)

// Definition describes one form.
type Definition struct {
	// ID identifies the form instance. A random ID is used when empty.
	ID string `yaml:"id,omitempty"`

	// Editing is the initial editing flag.
	Editing bool `yaml:"editing,omitempty"`

	// Fields lists the form's fields in declaration order.
	Fields []Field `yaml:"fields"`
}

// Field describes one form field.
type Field struct {
	// Path addresses the field, e.g. "email" or "address.city".
	Path string `yaml:"path"`

	// Label is the display label published with the form's schema.
	Label string `yaml:"label,omitempty"`

	// Kind is text, number, boolean or group. Empty means text.
	Kind string `yaml:"kind,omitempty"`

	// Initial is the initial value. When nil, the kind's zero value is used.
	Initial any `yaml:"initial,omitempty"`

	// Rules are applied in order; the first failure is reported.
	Rules []Rule `yaml:"rules,omitempty"`
}

// Rule is one validation rule.
type Rule struct {
	// Rule names the check: required, minLength, maxLength, pattern, email,
	// min, max or oneOf.
	Rule string `yaml:"rule"`

	// Value is the rule's argument: a length, a bound, a pattern or a list
	// of allowed values.
	Value any `yaml:"value,omitempty"`

	// Message replaces the rule's default message.
	Message string `yaml:"message,omitempty"`
}

// Load reads a definition file. The format is chosen by extension: .yaml or
// .yml for YAML, .hcl for HCL.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read form definition %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".hcl":
		return ParseHCL(data, path)
	default:
		return nil, formularity.NewConfigError(fmt.Sprintf("unsupported definition format %q", filepath.Ext(path)), "", nil)
	}
}

// Validate checks the definition for missing or duplicate paths, unknown
// kinds, malformed rules and rules that do not fit the field's kind.
func (d *Definition) Validate() error {
	seen := make(map[string]bool, len(d.Fields))
	for i, f := range d.Fields {
		if strings.TrimSpace(f.Path) == "" {
			return formularity.NewConfigError(fmt.Sprintf("field %d has no path", i), "", formularity.ErrInvalidPath)
		}
		if seen[f.Path] {
			return formularity.NewConfigError("duplicate field", f.Path, nil)
		}
		seen[f.Path] = true

		if _, err := f.kind(); err != nil {
			return err
		}
		if _, err := f.validators(); err != nil {
			return err
		}
	}
	_, err := d.Schema()
	return err
}
