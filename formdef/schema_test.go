package formdef

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnsonav1992/formularity"
)

func TestDefinition_Schema(t *testing.T) {
	def, err := Load("testdata/signup.yaml")
	require.NoError(t, err)

	s, err := def.Schema()
	require.NoError(t, err)

	t.Run("renders nested JSON Schema", func(t *testing.T) {
		raw, err := s.Build()
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(raw, &got))

		assert.Equal(t, []any{"firstName", "email"}, got["required"])

		props := got["properties"].(map[string]any)
		assert.Equal(t, map[string]any{"type": "string", "title": "First name", "maxLength": float64(20)}, props["firstName"])
		assert.Equal(t, map[string]any{"type": "string", "title": "Email", "format": "email"}, props["email"])
		assert.Equal(t, map[string]any{"type": "number", "minimum": float64(18)}, props["age"])
		assert.Equal(t, map[string]any{"type": "boolean"}, props["newsletter"])
		assert.Equal(t, map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "string"},
			"maxItems": float64(3),
		}, props["hobbies"])
		assert.Equal(t, map[string]any{
			"type": "object",
			"properties": map[string]any{
				"country": map[string]any{"type": "string", "enum": []any{"FR", "DE", "US"}},
			},
		}, props["address"])
	})

	t.Run("reports rule messages", func(t *testing.T) {
		errs, err := s.Validate(context.Background(), formularity.Values{
			"firstName": "",
			"email":     "nope",
			"age":       16,
			"hobbies":   []any{"a", "b", "c", "d"},
			"address":   map[string]any{"country": "XX"},
		})
		require.NoError(t, err)
		assert.Equal(t, formularity.Errors{
			"firstName":       "First name is required",
			"email":           "invalid email address",
			"age":             "Must be an adult",
			"hobbies":         "Pick at most three",
			"address.country": "invalid option",
		}, errs)
	})

	t.Run("initial values pass", func(t *testing.T) {
		values := def.InitialValues()
		values["email"] = "jane@example.com"

		errs, err := s.Validate(context.Background(), values)
		require.NoError(t, err)
		assert.Empty(t, errs)
	})
}

func TestDefinition_SchemaListPaths(t *testing.T) {
	def := &Definition{Fields: []Field{
		{Path: "friends[0].name", Rules: []Rule{{Rule: RuleRequired}}},
		{Path: "friends[0].age", Kind: "number"},
	}}

	s, err := def.Schema()
	require.NoError(t, err)

	errs, err := s.Validate(context.Background(), formularity.Values{
		"friends": []any{
			map[string]any{"name": "Bo", "age": 3},
			map[string]any{"age": "old"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, formularity.Errors{
		"friends[1].age":  "must be a number",
		"friends[1].name": "required",
	}, errs)
}

func TestDefinition_SchemaErrors(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
	}{
		{"field is also a parent", []Field{{Path: "address"}, {Path: "address.city"}}},
		{"rule does not fit number", []Field{{Path: "age", Kind: "number", Rules: []Rule{{Rule: RuleEmail}}}}},
		{"rule does not fit boolean", []Field{{Path: "terms", Kind: "boolean", Rules: []Rule{{Rule: RuleMin, Value: 1}}}}},
		{"rule does not fit text", []Field{{Path: "name", Rules: []Rule{{Rule: RuleMax, Value: 3}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := &Definition{Fields: tt.fields}
			err := def.Validate()
			require.Error(t, err)
			assert.True(t, formularity.IsConfiguration(err))
		})
	}
}
