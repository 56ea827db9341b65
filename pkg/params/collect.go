package params

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/krmrn42/vue-express-template/pkg/api"
)

// Collector resolves every manifest variable, in declaration order.
// Precedence: Overrides, then Answers, then the Prompter (which is offered
// the rendered manifest default).
type Collector struct {
	Manifest  *api.Manifest
	Prompter  Prompter
	Answers   map[string]string
	Overrides map[string]string
}

// Collect returns the resolved answers keyed by variable name.
func (c *Collector) Collect(ctx context.Context) (map[string]string, error) {
	prompter := c.Prompter
	if prompter == nil {
		prompter = DefaultsPrompter{}
	}

	for k := range c.Overrides {
		if _, ok := c.Manifest.Variable(k); !ok {
			return nil, fmt.Errorf("override %q does not match any template variable (valid: %s)", k, strings.Join(c.Manifest.VariableNames(), ", "))
		}
	}

	resolved := make(map[string]string, len(c.Manifest.Variables))
	for _, v := range c.Manifest.Variables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		value, err := c.resolve(ctx, prompter, v, resolved)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", v.Name, err)
		}

		if len(v.Choices) > 0 && !slices.Contains(v.Choices, value) {
			return nil, fmt.Errorf("variable %q: %q is not one of %s", v.Name, value, strings.Join(v.Choices, ", "))
		}
		resolved[v.Name] = value
	}

	return resolved, nil
}

func (c *Collector) resolve(ctx context.Context, prompter Prompter, v api.Variable, resolved map[string]string) (string, error) {
	if value, ok := c.Overrides[v.Name]; ok {
		return value, nil
	}
	if value, ok := c.Answers[v.Name]; ok {
		return value, nil
	}

	def, err := RenderDefault(v.Default, resolved)
	if err != nil {
		return "", err
	}
	return prompter.Ask(ctx, v, def)
}

// RenderDefault expands a default value against the answers resolved so far,
// so defaults like "{{ .project_name }}-dev" follow earlier choices.
func RenderDefault(def string, resolved map[string]string) (string, error) {
	if !strings.Contains(def, "{{") {
		return def, nil
	}

	tmpl, err := template.New("default").Funcs(sprig.TxtFuncMap()).Option("missingkey=zero").Parse(def)
	if err != nil {
		return "", fmt.Errorf("parsing default: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, resolved); err != nil {
		return "", fmt.Errorf("rendering default: %w", err)
	}
	return buf.String(), nil
}

// StringAnswers flattens a decoded answers file into string values.
func StringAnswers(raw map[string]any) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch tv := v.(type) {
		case nil:
			out[k] = ""
		case bool:
			out[k] = yesNo(tv)
		default:
			out[k] = fmt.Sprint(tv)
		}
	}
	return out
}

// ParseOverrides turns key=value pairs into an overrides map.
func ParseOverrides(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid override %q, expected key=value", pair)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}
