package processing

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/krmrn42/vue-express-template/pkg/params"
	"gopkg.in/yaml.v3"
)

// AnswersFilename is written into every generated project so later commands
// (setup) can reuse the answers it was generated with.
const AnswersFilename = ".scaffold.yaml"

// LoadContextFile reads a YAML answers file and returns it as a map.
func LoadContextFile(filename string) (map[string]any, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading answers file: %w", err)
	}

	var ctx map[string]any
	if err := yaml.Unmarshal(data, &ctx); err != nil {
		return nil, fmt.Errorf("parsing answers file: %w", err)
	}

	if ctx == nil {
		ctx = make(map[string]any)
	}

	return ctx, nil
}

// MergeContext performs a shallow merge of local context over global context.
// Local keys override global keys at the top level.
func MergeContext(global, local map[string]any) map[string]any {
	merged := make(map[string]any, len(global)+len(local))
	maps.Copy(merged, global)
	maps.Copy(merged, local)
	return merged
}

// WriteAnswersFile stores the parameters of a generated project in
// dir/AnswersFilename, in the same format LoadContextFile reads.
func WriteAnswersFile(dir string, p params.Parameters) error {
	data, err := yaml.Marshal(p.Context())
	if err != nil {
		return fmt.Errorf("encoding answers: %w", err)
	}

	path := filepath.Join(dir, AnswersFilename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing answers file: %w", err)
	}
	return nil
}
