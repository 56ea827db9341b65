package setup

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/krmrn42/vue-express-template/pkg/params"
	"github.com/krmrn42/vue-express-template/pkg/steps"
)

type fakeRunner struct {
	calls   []string
	fail    map[string]bool
	missing map[string]bool
	onRun   func(steps.Command)
}

func (f *fakeRunner) Run(_ context.Context, c steps.Command) (*steps.Output, error) {
	s := c.String()
	f.calls = append(f.calls, s)
	if f.onRun != nil {
		f.onRun(c)
	}
	for prefix := range f.missing {
		if strings.HasPrefix(s, prefix) {
			return nil, errors.New("executable file not found in $PATH")
		}
	}
	for prefix := range f.fail {
		if strings.HasPrefix(s, prefix) {
			return &steps.Output{Stderr: "failed", ExitCode: 1}, nil
		}
	}
	return &steps.Output{Stdout: "1.0.0"}, nil
}

func testParams() params.Parameters {
	return params.Parameters{
		ProjectName:          "test-app",
		ServiceName:          "api-service",
		ServicePort:          "8080",
		GCPProjectID:         "test-project-123",
		IncludeTerraform:     true,
		IncludeGitHubActions: true,
		RunInitialSetup:      true,
	}
}

func projectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "services", "api-service"), 0o750); err != nil {
		t.Fatal(err)
	}
	return dir
}

func newOrchestrator(t *testing.T, r steps.Runner, dir string, policy Policy) *Orchestrator {
	t.Helper()
	o, err := New(r, testParams(), dir, policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return o
}

var fullSequence = []string{
	"node --version",
	"pnpm --version",
	"git --version",
	"git init",
	"pnpm install",
	"pnpm create vue@latest web --typescript --vue-router --pinia --vitest --cypress --eslint --prettier",
	"pnpm install",
	"pnpm add -D @vitest/coverage-v8",
	"pnpm install",
	"pnpm exec husky init",
	"pnpm -r install",
	"pnpm -r format",
	"pnpm -r build",
	"pnpm test",
	"pnpm lint",
	"git add .",
	"git commit -m Initial commit from template",
}

func TestOrchestrator_FullRun(t *testing.T) {
	dir := projectDir(t)
	r := &fakeRunner{onRun: func(c steps.Command) {
		switch {
		case strings.HasPrefix(c.String(), "pnpm create vue"):
			if err := os.MkdirAll(filepath.Join(c.Dir, "web"), 0o750); err != nil {
				t.Fatal(err)
			}
		case c.String() == "pnpm exec husky init":
			if err := os.MkdirAll(filepath.Join(dir, ".husky"), 0o750); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(filepath.Join(dir, ".husky", "pre-commit"), []byte("npm test\n"), 0o600); err != nil {
				t.Fatal(err)
			}
		}
	}}

	report, err := newOrchestrator(t, r, dir, PolicyLenient).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff(fullSequence, r.calls); diff != "" {
		t.Errorf("command sequence mismatch (-want +got):\n%s", diff)
	}
	if len(report.Records) != len(steps.DefaultSequence) {
		t.Fatalf("expected %d records, got %d", len(steps.DefaultSequence), len(report.Records))
	}
	for _, rec := range report.Records {
		if rec.Result.Status != steps.StatusOK {
			t.Errorf("step %s: expected ok, got %s (%s)", rec.Step, rec.Result.Status, rec.Result.Message)
		}
	}
	if report.Aborted {
		t.Error("report should not be aborted")
	}
}

func TestOrchestrator_MissingPrerequisiteIsFatal(t *testing.T) {
	dir := projectDir(t)
	r := &fakeRunner{missing: map[string]bool{"pnpm": true}}

	report, err := newOrchestrator(t, r, dir, PolicyLenient).Run(context.Background())
	if !errors.Is(err, ErrFatalStep) {
		t.Fatalf("expected ErrFatalStep, got %v", err)
	}

	want := []string{"node --version", "pnpm --version", "git --version"}
	if diff := cmp.Diff(want, r.calls); diff != "" {
		t.Errorf("no step may run after a failed prerequisite check (-want +got):\n%s", diff)
	}
	if !report.Aborted || len(report.Records) != 1 {
		t.Errorf("expected aborted report with one record, got %+v", report)
	}
	if _, err := os.Stat(filepath.Join(dir, ".husky")); !os.IsNotExist(err) {
		t.Error("later steps must not touch the filesystem")
	}
}

func TestOrchestrator_LenientContinuesPastFailures(t *testing.T) {
	dir := projectDir(t)
	r := &fakeRunner{fail: map[string]bool{
		"git init":        true,
		"pnpm install":    true,
		"pnpm create vue": true,
		"pnpm -r build":   true,
		"git commit":      true,
	}}

	report, err := newOrchestrator(t, r, dir, PolicyLenient).Run(context.Background())
	if err != nil {
		t.Fatalf("lenient run should not fail, got %v", err)
	}
	if len(report.Records) != len(steps.DefaultSequence) {
		t.Fatalf("every step should run, got %d records", len(report.Records))
	}

	statuses := make(map[string]steps.Status)
	for _, rec := range report.Records {
		statuses[rec.Step] = rec.Result.Status
	}
	want := map[string]steps.Status{
		steps.StepPrerequisites:    steps.StatusOK,
		steps.StepGitInit:          steps.StatusTolerated,
		steps.StepRootInstall:      steps.StatusTolerated,
		steps.StepFrontendScaffold: steps.StatusTolerated,
		steps.StepFrontendConfig:   steps.StatusTolerated,
		steps.StepServiceInstall:   steps.StatusTolerated,
		steps.StepGitHooks:         steps.StatusTolerated,
		steps.StepVerify:           steps.StatusTolerated,
		steps.StepInitialCommit:    steps.StatusTolerated,
	}
	if diff := cmp.Diff(want, statuses); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}

	for _, c := range r.calls {
		if c == "pnpm add -D @vitest/coverage-v8" {
			t.Error("frontend config must be skipped when scaffolding failed")
		}
	}
	if _, err := os.Stat(filepath.Join(dir, ".husky", "pre-commit")); err != nil {
		t.Errorf("pre-commit hook should still be written: %v", err)
	}
}

func TestOrchestrator_StrictStopsAtFirstToleratedFailure(t *testing.T) {
	dir := projectDir(t)
	r := &fakeRunner{fail: map[string]bool{"pnpm install": true}}

	report, err := newOrchestrator(t, r, dir, PolicyStrict).Run(context.Background())
	if !errors.Is(err, ErrFatalStep) {
		t.Fatalf("expected ErrFatalStep, got %v", err)
	}
	last := report.Records[len(report.Records)-1]
	if last.Step != steps.StepRootInstall {
		t.Errorf("expected to stop at %s, stopped at %s", steps.StepRootInstall, last.Step)
	}
	if !report.Aborted {
		t.Error("report should be aborted")
	}
}

func TestOrchestrator_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	dir := projectDir(t)
	r := &fakeRunner{onRun: func(c steps.Command) {
		if c.String() == "git init" {
			cancel()
		}
	}}

	report, err := newOrchestrator(t, r, dir, PolicyLenient).Run(ctx)
	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("expected ErrInterrupted, got %v", err)
	}
	if !report.Aborted {
		t.Error("report should be aborted")
	}
	if got := r.calls[len(r.calls)-1]; got != "git init" {
		t.Errorf("no command may start after the interrupt, last was %q", got)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyLenient, false},
		{"lenient", PolicyLenient, false},
		{"strict", PolicyStrict, false},
		{"yolo", PolicyLenient, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParsePolicy(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestWriteSummary(t *testing.T) {
	report := &Report{
		Params: testParams(),
		Records: []Record{
			{Step: steps.StepPrerequisites, Result: steps.OK("all required tools found")},
			{Step: steps.StepVerify, Result: steps.Tolerated("verification had issues: running all linting")},
		},
	}

	var buf bytes.Buffer
	if err := WriteSummary(&buf, report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"verification had issues",
		"completed with warnings",
		"cd test-app",
		"cd services/api-service && pnpm dev",
		"http://localhost:8080",
		"terraform init",
		"WIF_PROVIDER",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestNextSteps_OptionalFeatures(t *testing.T) {
	p := testParams()
	p.IncludeTerraform = false
	p.IncludeGitHubActions = false

	out := NextSteps(&Report{Params: p})
	if strings.Contains(out, "terraform init") || strings.Contains(out, "GitHub secrets") {
		t.Errorf("optional instructions should be omitted:\n%s", out)
	}
}

func TestWriteSummary_Aborted(t *testing.T) {
	var buf bytes.Buffer
	report := &Report{Params: testParams(), Aborted: true, Records: []Record{
		{Step: steps.StepPrerequisites, Result: steps.Fatal("missing required tools: Git")},
	}}
	if err := WriteSummary(&buf, report); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "README.md") || strings.Contains(buf.String(), "Next steps") {
		t.Errorf("aborted summary should point at manual instructions only:\n%s", buf.String())
	}
}
