package steps

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	appsDir          = "apps"
	frontendApp      = "web"
	editorConfigDir  = ".vscode"
	vitestConfigFile = "vitest.config.ts"
	coverageProvider = "@vitest/coverage-v8"

	vitestAnchor = "defineConfig({"
	coverageKey  = "coverage"
)

// scaffoldFlags answers every create-vue question so it never prompts:
// TypeScript, router, Pinia, Vitest, Cypress end-to-end tests, ESLint, Prettier.
var scaffoldFlags = []string{
	"--typescript",
	"--vue-router",
	"--pinia",
	"--vitest",
	"--cypress",
	"--eslint",
	"--prettier",
}

const coverageBlock = `defineConfig({
    test: {
      environment: 'jsdom',
      exclude: [...configDefaults.exclude, 'e2e/*'],
      root: fileURLToPath(new URL('./', import.meta.url)),
      coverage: {
        provider: 'v8',
        reporter: ['text', 'json', 'html']
      }
    },`

type frontendScaffoldStep struct{}

// NewFrontendScaffoldStep creates the step that generates the Vue app under apps/web.
func NewFrontendScaffoldStep() Step { return &frontendScaffoldStep{} }

func (s *frontendScaffoldStep) Name() string { return StepFrontendScaffold }

func (s *frontendScaffoldStep) Run(ctx context.Context, sc StepContext) Result {
	apps := filepath.Join(sc.WorkDir, appsDir)
	if err := os.MkdirAll(apps, 0o755); err != nil {
		return Tolerated("creating %s: %v", appsDir, err)
	}

	args := append([]string{"create", "vue@latest", frontendApp}, scaffoldFlags...)
	out, failure := run(ctx, sc, "creating Vue application", Command{Name: "pnpm", Args: args, Dir: apps})
	if failure != "" {
		return Result{
			Status:  StatusTolerated,
			Message: fmt.Sprintf("Vue app creation failed (%s); please run manually: cd %s && pnpm create vue@latest %s", failure, appsDir, frontendApp),
			Output:  combined(out),
		}
	}
	sc.State.FrontendScaffolded = true

	moved, err := hoistEditorConfig(sc.WorkDir)
	if err != nil {
		return Tolerated("Vue app created but moving %s to the project root failed: %v", editorConfigDir, err)
	}
	if moved {
		return OK("Vue app created; moved %s to the project root", editorConfigDir)
	}
	return OK("Vue app created")
}

// hoistEditorConfig moves apps/web/.vscode to the project root. An existing
// root directory always wins and is left untouched.
func hoistEditorConfig(workDir string) (bool, error) {
	src := filepath.Join(workDir, appsDir, frontendApp, editorConfigDir)
	dst := filepath.Join(workDir, editorConfigDir)

	if _, err := os.Stat(src); err != nil {
		return false, nil
	}
	if _, err := os.Stat(dst); err == nil {
		slog.Debug("keeping existing root editor config", "path", dst)
		return false, nil
	}

	if err := os.Rename(src, dst); err != nil {
		return false, fmt.Errorf("renaming %s: %w", src, err)
	}
	return true, nil
}

type frontendConfigStep struct{}

// NewFrontendConfigStep creates the step that adds test coverage to the Vue app.
func NewFrontendConfigStep() Step { return &frontendConfigStep{} }

func (s *frontendConfigStep) Name() string { return StepFrontendConfig }

func (s *frontendConfigStep) Run(ctx context.Context, sc StepContext) Result {
	if sc.State == nil || !sc.State.FrontendScaffolded {
		return Tolerated("Vue app creation needs manual intervention; skipping Vue setup")
	}

	web := filepath.Join(sc.WorkDir, appsDir, frontendApp)
	if _, err := os.Stat(web); err != nil {
		return Tolerated("Vue app not found at %s; skipping Vue setup", filepath.Join(appsDir, frontendApp))
	}

	var problems []string

	patched, err := PatchVitestConfig(filepath.Join(web, vitestConfigFile))
	switch {
	case err != nil:
		problems = append(problems, err.Error())
	case patched:
		slog.Info("added coverage configuration", "file", vitestConfigFile)
	}

	out, failure := run(ctx, sc, "installing web app dependencies", Command{Name: "pnpm", Args: []string{"install"}, Dir: web})
	if failure != "" {
		problems = append(problems, failure)
	}

	addOut, addFailure := run(ctx, sc, "adding Vitest coverage", Command{Name: "pnpm", Args: []string{"add", "-D", coverageProvider}, Dir: web})
	if addFailure != "" {
		problems = append(problems, addFailure)
		out = addOut
	}

	if len(problems) > 0 {
		return Result{Status: StatusTolerated, Message: "Vue app setup had issues: " + strings.Join(problems, "; "), Output: combined(out)}
	}
	return OK("Vue app configured")
}

// PatchVitestConfig injects a coverage-enabled test block into the Vitest
// config. It is a no-op when the file is absent or already mentions coverage,
// so repeated runs never insert the block twice.
func PatchVitestConfig(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	content := string(data)
	if strings.Contains(content, coverageKey) || !strings.Contains(content, vitestAnchor) {
		return false, nil
	}

	updated := strings.Replace(content, vitestAnchor, coverageBlock, 1)

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
