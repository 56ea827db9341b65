package processing

import (
	"fmt"
	"io/fs"
	"strings"
)

const templateMarker = "{{"

// DiscoverProjectRoot returns the single top-level directory of a template
// whose name is itself a template (for example "{{.project_name}}").
func DiscoverProjectRoot(src fs.FS) (string, error) {
	entries, err := fs.ReadDir(src, ".")
	if err != nil {
		return "", fmt.Errorf("reading template root: %w", err)
	}

	var roots []string
	for _, e := range entries {
		if e.IsDir() && strings.Contains(e.Name(), templateMarker) {
			roots = append(roots, e.Name())
		}
	}

	switch len(roots) {
	case 0:
		return "", fmt.Errorf("no templated project directory found")
	case 1:
		return roots[0], nil
	default:
		return "", fmt.Errorf("expected one templated project directory, found %d: %v", len(roots), roots)
	}
}
