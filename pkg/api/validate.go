package api

import (
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// Validate checks the manifest for errors the schema cannot express.
func (m *Manifest) Validate() error {
	if len(m.Variables) == 0 {
		return fmt.Errorf("manifest has no variables")
	}

	names := make(map[string]int)
	for i, v := range m.Variables {
		if v.Name == "" {
			return fmt.Errorf("variable %d: name is required", i)
		}
		if prev, exists := names[v.Name]; exists {
			return fmt.Errorf("variable %d: duplicate variable name %q (first defined at variable %d)", i, v.Name, prev)
		}
		names[v.Name] = i

		if len(v.Choices) > 0 && !slices.Contains(v.Choices, v.Default) {
			return fmt.Errorf("variable %q: default %q is not one of %v", v.Name, v.Default, v.Choices)
		}
	}

	for _, pattern := range m.CopyWithoutRender {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("copyWithoutRender: invalid pattern %q", pattern)
		}
	}

	for i, c := range m.Conditional {
		if c.Path == "" {
			return fmt.Errorf("conditional %d: path is required", i)
		}
		if _, ok := names[c.When]; !ok {
			return fmt.Errorf("conditional %q: when references unknown variable %q", c.Path, c.When)
		}
	}

	return nil
}
