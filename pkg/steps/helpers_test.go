package steps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestFile writes content to a file in dir, failing the test on error.
func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// fakeRunner records every command and fails those whose string form starts
// with a key of fail (exit status) or missing (not startable).
type fakeRunner struct {
	calls   []Command
	fail    map[string]int
	missing map[string]bool
	stdout  map[string]string
	onRun   func(Command)
}

func (f *fakeRunner) Run(_ context.Context, c Command) (*Output, error) {
	f.calls = append(f.calls, c)
	if f.onRun != nil {
		f.onRun(c)
	}
	s := c.String()
	for prefix := range f.missing {
		if strings.HasPrefix(s, prefix) {
			return nil, errors.New("executable file not found in $PATH")
		}
	}
	for prefix, code := range f.fail {
		if strings.HasPrefix(s, prefix) {
			return &Output{Stderr: "boom", ExitCode: code}, nil
		}
	}
	return &Output{Stdout: f.stdout[s]}, nil
}

func (f *fakeRunner) commands() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.String())
	}
	return out
}

func newContext(t *testing.T, r Runner) StepContext {
	t.Helper()
	sc := StepContext{WorkDir: t.TempDir(), Runner: r, State: &State{}}
	sc.Params.ServiceName = "api-service"
	return sc
}
