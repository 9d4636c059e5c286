package formdef

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

type hclDefinition struct {
	ID      string     `hcl:"id,optional"`
	Editing bool       `hcl:"editing,optional"`
	Fields  []hclField `hcl:"field,block"`
}

type hclField struct {
	Path    string    `hcl:"path,label"`
	Label   string    `hcl:"label,optional"`
	Kind    string    `hcl:"kind,optional"`
	Initial cty.Value `hcl:"initial,optional"`
	Rules   []hclRule `hcl:"rule,block"`
}

type hclRule struct {
	Rule    string    `hcl:"rule,label"`
	Value   cty.Value `hcl:"value,optional"`
	Message string    `hcl:"message,optional"`
}

// ParseHCL parses and validates an HCL definition. filename is used in
// diagnostics only.
func ParseHCL(data []byte, filename string) (*Definition, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse form definition HCL: %w", diags)
	}

	var raw hclDefinition
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode form definition HCL: %w", diags)
	}

	def := &Definition{
		ID:      raw.ID,
		Editing: raw.Editing,
		Fields:  make([]Field, 0, len(raw.Fields)),
	}
	for _, rf := range raw.Fields {
		initial, err := ctyToNative(rf.Initial)
		if err != nil {
			return nil, fmt.Errorf("field %q initial: %w", rf.Path, err)
		}
		f := Field{
			Path:    rf.Path,
			Label:   rf.Label,
			Kind:    rf.Kind,
			Initial: initial,
		}
		for _, rr := range rf.Rules {
			value, err := ctyToNative(rr.Value)
			if err != nil {
				return nil, fmt.Errorf("field %q rule %q: %w", rf.Path, rr.Rule, err)
			}
			f.Rules = append(f.Rules, Rule{Rule: rr.Rule, Value: value, Message: rr.Message})
		}
		def.Fields = append(def.Fields, f)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// ctyToNative converts a cty value into form data: whole numbers become
// int, other numbers float64, collections []any and map[string]any.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()

	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		if v.AsBigFloat().IsInt() {
			var n int
			if err := gocty.FromCtyValue(v, &n); err == nil {
				return n, nil
			}
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			out[key.AsString()] = native
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
