package formdef

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML parses and validates a YAML definition.
func ParseYAML(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse form definition YAML: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// MarshalYAML serializes a definition to YAML.
func MarshalYAML(def *Definition) ([]byte, error) {
	return yaml.Marshal(def)
}
