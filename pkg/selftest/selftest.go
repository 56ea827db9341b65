// Package selftest generates a throwaway project from a template with a fixed
// answer sequence and checks that the expected files and values came out.
package selftest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/krmrn42/vue-express-template/pkg/api"
	"github.com/krmrn42/vue-express-template/pkg/params"
	"github.com/krmrn42/vue-express-template/pkg/processing"
	"github.com/krmrn42/vue-express-template/pkg/steps"
)

// Answers is fed to the template one line per variable, in manifest order.
var Answers = []string{
	"test-app",
	"Test application",
	"Test Author",
	"test@example.com",
	"api-service",
	"8080",
	"test-project-123",
	"us-central1",
	"yes",
	"yes",
	"no",
}

const (
	projectName = "test-app"
	authorName  = "Test Author"
	serviceName = "api-service"
	servicePort = "8080"
)

// RequiredFiles must exist in the generated project.
var RequiredFiles = []string{
	"package.json",
	"pnpm-workspace.yaml",
	"tsconfig.json",
	"eslint.config.cjs",
	".gitignore",
	"README.md",
	"services/" + serviceName + "/package.json",
	"services/" + serviceName + "/src/server.ts",
	"services/" + serviceName + "/src/index.ts",
	"services/" + serviceName + "/tests/index.test.ts",
	"terraform/main.tf",
	"terraform/variables.tf",
	".github/workflows/ci.yml",
	".vscode/settings.json",
}

// Substitution is a value that must appear in a generated file.
type Substitution struct {
	File  string
	Value string
	What  string
}

// Substitutions are checked once every required file is present.
var Substitutions = []Substitution{
	{File: "package.json", Value: projectName, What: "project name"},
	{File: "package.json", Value: authorName, What: "author name"},
	{File: "services/" + serviceName + "/src/index.ts", Value: servicePort, What: "service port"},
}

var errSetupInvoked = errors.New("self-test must not run external commands")

// refusingRunner fails any command; the self-test answers run_initial_setup=no.
type refusingRunner struct {
	calls []steps.Command
}

func (r *refusingRunner) Run(_ context.Context, c steps.Command) (*steps.Output, error) {
	r.calls = append(r.calls, c)
	return nil, fmt.Errorf("%w: %s", errSetupInvoked, c)
}

// Report is the outcome of a self-test.
type Report struct {
	ProjectDir   string
	MissingFiles []string
	BadValues    []Substitution
	Commands     []steps.Command
}

// Passed reports whether nothing was missing.
func (r *Report) Passed() bool {
	return len(r.MissingFiles) == 0 && len(r.BadValues) == 0 && len(r.Commands) == 0
}

// Check generates the template from src into a temporary directory and
// inspects the result. The directory is removed before returning.
func Check(ctx context.Context, src fs.FS) (*Report, error) {
	m, err := api.LoadManifest(src, api.ManifestFilename)
	if err != nil {
		return nil, fmt.Errorf("loading template manifest: %w", err)
	}

	answers, err := (&params.Collector{
		Manifest: m,
		Prompter: params.NewLinePrompter(strings.NewReader(strings.Join(Answers, "\n")), nil),
	}).Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collecting answers: %w", err)
	}

	p, err := params.FromAnswers(answers)
	if err != nil {
		return nil, err
	}

	tmp, err := os.MkdirTemp("", "scaffold-selftest-")
	if err != nil {
		return nil, fmt.Errorf("creating temporary directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmp); err != nil {
			slog.Warn("failed to remove self-test directory", "dir", tmp, "error", err)
		}
	}()

	runner := &refusingRunner{}
	result, err := processing.Generate(ctx, processing.Options{
		Template:  src,
		Manifest:  m,
		Params:    p,
		OutputDir: tmp,
		Runner:    runner,
	})
	if err != nil {
		return nil, fmt.Errorf("generating project: %w", err)
	}

	report := &Report{ProjectDir: result.Expansion.ProjectDir, Commands: runner.calls}
	inspect(report, result.Expansion.ProjectDir)
	return report, nil
}

func inspect(report *Report, dir string) {
	for _, f := range RequiredFiles {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(f))); err != nil {
			report.MissingFiles = append(report.MissingFiles, f)
		}
	}
	if len(report.MissingFiles) > 0 {
		return
	}

	for _, s := range Substitutions {
		content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(s.File)))
		if err != nil || !strings.Contains(string(content), s.Value) {
			report.BadValues = append(report.BadValues, s)
		}
	}
}

// Run executes the self-test and writes a human-readable verdict to w.
func Run(ctx context.Context, src fs.FS, w io.Writer) bool {
	fmt.Fprintln(w, "Testing project template...")

	report, err := Check(ctx, src)
	if err != nil {
		fmt.Fprintf(w, "FAIL template generation failed: %v\n", err)
		return false
	}

	if len(report.Commands) > 0 {
		fmt.Fprintf(w, "FAIL setup ran %d command(s) although run_initial_setup=no\n", len(report.Commands))
	}
	if len(report.MissingFiles) > 0 {
		fmt.Fprintf(w, "FAIL missing required files: %s\n", strings.Join(report.MissingFiles, ", "))
	}
	for _, s := range report.BadValues {
		fmt.Fprintf(w, "FAIL %s %q not templated correctly in %s\n", s.What, s.Value, s.File)
	}

	if !report.Passed() {
		return false
	}
	fmt.Fprintln(w, "PASS all checks passed")
	return true
}
