package api

const (
	ManifestFilename = "template.yaml"

	// Yes and No are the only accepted values for flag variables.
	Yes = "yes"
	No  = "no"
)

// Manifest is the template.yaml format describing a project template.
type Manifest struct {
	Name              string        `yaml:"name"`
	Description       string        `yaml:"description"`
	Variables         []Variable    `yaml:"variables"`
	CopyWithoutRender []string      `yaml:"copyWithoutRender"`
	Conditional       []Conditional `yaml:"conditional"`

	// Set by the loader, not from YAML.
	FilePath string `yaml:"-"`
}

// Variable is a single template parameter. Declaration order is prompt order.
type Variable struct {
	Name    string   `yaml:"name"`
	Prompt  string   `yaml:"prompt"`
	Default string   `yaml:"default"`
	Choices []string `yaml:"choices,omitempty"`
}

// Conditional removes Path from the generated project unless variable When is "yes".
type Conditional struct {
	Path string `yaml:"path"`
	When string `yaml:"when"`
}

// VariableNames returns the variable names in declaration order.
func (m *Manifest) VariableNames() []string {
	names := make([]string, 0, len(m.Variables))
	for _, v := range m.Variables {
		names = append(names, v.Name)
	}
	return names
}

// Variable looks up a variable by name.
func (m *Manifest) Variable(name string) (Variable, bool) {
	for _, v := range m.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}
