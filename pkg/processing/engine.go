package processing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/krmrn42/vue-express-template/pkg/api"
	"github.com/krmrn42/vue-express-template/pkg/params"
)

// ErrProjectExists is returned when the target directory exists and overwriting was not requested.
var ErrProjectExists = errors.New("project directory already exists")

// ExpandOptions controls where and how a template is expanded.
type ExpandOptions struct {
	OutputDir string
	Overwrite bool
}

// Expansion describes the generated tree.
type Expansion struct {
	ProjectDir string
	Files      []string // slash-separated, relative to ProjectDir
	Removed    []string // conditional paths dropped after expansion
}

// Expand renders the templated project directory of src into opts.OutputDir.
// Path segments and file contents are both templates; files matching the
// manifest's copyWithoutRender globs are copied verbatim. On failure or
// cancellation the partially written project directory is removed.
func Expand(ctx context.Context, src fs.FS, m *api.Manifest, p params.Parameters, opts ExpandOptions) (*Expansion, error) {
	root, err := DiscoverProjectRoot(src)
	if err != nil {
		return nil, err
	}

	data := MergeContext(builtinContext(m), p.Context())

	name, err := renderString(root, root, data)
	if err != nil {
		return nil, fmt.Errorf("rendering project directory name: %w", err)
	}
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("project directory name %q is not a valid directory name", name)
	}

	projectDir := filepath.Join(opts.OutputDir, name)
	if err := prepareProjectDir(projectDir, opts.Overwrite); err != nil {
		return nil, err
	}

	exp, err := expandTree(ctx, src, root, projectDir, m, p, data)
	if err != nil {
		discardProject(projectDir)
		return nil, err
	}

	slog.Info("template expanded", "dir", projectDir, "files", len(exp.Files))
	return exp, nil
}

func expandTree(ctx context.Context, src fs.FS, root, projectDir string, m *api.Manifest, p params.Parameters, data map[string]any) (*Expansion, error) {
	exp := &Expansion{ProjectDir: projectDir}

	err := fs.WalkDir(src, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk error at %s: %w", p, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == root {
			return nil
		}

		rel, renderErr := renderPath(strings.TrimPrefix(p, root+"/"), data)
		if renderErr != nil {
			return fmt.Errorf("rendering path %s: %w", p, renderErr)
		}
		if rel == "" {
			slog.Debug("skipping entry with empty rendered name", "path", p)
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		written, entryErr := expandEntry(src, p, rel, d, projectDir, m.CopyWithoutRender, data)
		if entryErr != nil {
			return entryErr
		}
		if written {
			exp.Files = append(exp.Files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("expanding template: %w", err)
	}

	removed, err := removeConditionalPaths(projectDir, m.Conditional, p, data)
	if err != nil {
		return nil, err
	}
	exp.Removed = removed
	exp.Files = dropRemoved(exp.Files, removed)
	return exp, nil
}

func discardProject(dir string) {
	slog.Warn("removing incomplete project directory", "dir", dir)
	if err := os.RemoveAll(dir); err != nil {
		slog.Error("failed to remove incomplete project directory", "dir", dir, "error", err)
	}
}

func builtinContext(m *api.Manifest) map[string]any {
	return map[string]any{
		"_template": m.Name,
		"year":      time.Now().Year(),
	}
}

func prepareProjectDir(dir string, overwrite bool) error {
	_, err := os.Stat(dir)
	if !os.IsNotExist(err) {
		if err != nil {
			return fmt.Errorf("checking project directory %s: %w", dir, err)
		}
		if !overwrite {
			return fmt.Errorf("%w: %s", ErrProjectExists, dir)
		}
		slog.Warn("removing existing project directory", "dir", dir)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("cleaning project directory %s: %w", dir, err)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating project directory %s: %w", dir, err)
	}
	return nil
}

func expandEntry(src fs.FS, srcPath, rel string, d fs.DirEntry, projectDir string, verbatim []string, data map[string]any) (bool, error) {
	target := filepath.Join(projectDir, filepath.FromSlash(rel))

	if d.IsDir() {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return false, fmt.Errorf("creating directory %s: %w", target, err)
		}
		return false, nil
	}

	content, err := fs.ReadFile(src, srcPath)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", srcPath, err)
	}

	info, err := d.Info()
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", srcPath, err)
	}

	if !matchesAny(verbatim, rel) {
		rendered, renderErr := renderString(rel, string(content), data)
		if renderErr != nil {
			return false, fmt.Errorf("rendering %s: %w", rel, renderErr)
		}
		content = []byte(rendered)
	}

	// Embedded files are read-only; generated files must be writable.
	if err := os.WriteFile(target, content, info.Mode().Perm()|0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", target, err)
	}

	slog.Debug("file generated", "file", rel)
	return true, nil
}

func renderPath(rel string, data map[string]any) (string, error) {
	segments := strings.Split(rel, "/")
	for i, seg := range segments {
		if !strings.Contains(seg, templateMarker) {
			continue
		}
		out, err := renderString(seg, seg, data)
		if err != nil {
			return "", err
		}
		out = strings.TrimSpace(out)
		if out == "" {
			return "", nil
		}
		segments[i] = out
	}
	return path.Join(segments...), nil
}

func renderString(name, text string, data map[string]any) (string, error) {
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func removeConditionalPaths(projectDir string, conds []api.Conditional, p params.Parameters, data map[string]any) ([]string, error) {
	var removed []string
	for _, c := range conds {
		if p.Flag(c.When) {
			continue
		}

		rel, err := renderPath(c.Path, data)
		if err != nil {
			return nil, fmt.Errorf("rendering conditional path %s: %w", c.Path, err)
		}
		if rel == "" {
			continue
		}

		target := filepath.Join(projectDir, filepath.FromSlash(rel))
		if _, err := os.Stat(target); os.IsNotExist(err) {
			continue
		}
		slog.Info("removing unselected feature", "path", rel, "when", c.When)
		if err := os.RemoveAll(target); err != nil {
			return nil, fmt.Errorf("removing %s: %w", target, err)
		}
		removed = append(removed, rel)
	}
	return removed, nil
}

func dropRemoved(files, removed []string) []string {
	if len(removed) == 0 {
		return files
	}
	kept := files[:0]
	for _, f := range files {
		drop := false
		for _, r := range removed {
			if f == r || strings.HasPrefix(f, r+"/") {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, f)
		}
	}
	return kept
}
