package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Command is a single external program invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Output holds what a finished command produced.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes commands synchronously. A command that starts but exits
// non-zero is reported through Output.ExitCode, not an error.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Output, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Env []string // appended to the inherited environment
}

func (r ExecRunner) Run(ctx context.Context, c Command) (*Output, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := &Output{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("running %s: %w", c.Name, err)
	}
	return out, nil
}

// run executes c and logs progress under description. It returns a non-empty
// failure detail when the command could not start or exited non-zero.
func run(ctx context.Context, sc StepContext, description string, c Command) (*Output, string) {
	if c.Dir == "" {
		c.Dir = sc.WorkDir
	}

	slog.Info(description, "command", c.String(), "dir", c.Dir)

	out, err := sc.Runner.Run(ctx, c)
	if err != nil {
		slog.Error(description+" failed", "command", c.String(), "error", err)
		return out, err.Error()
	}
	if out.ExitCode != 0 {
		slog.Error(description+" failed", "command", c.String(), "exitCode", out.ExitCode, "stderr", strings.TrimSpace(out.Stderr))
		return out, fmt.Sprintf("%s exited with status %d", c, out.ExitCode)
	}

	slog.Debug(description+" completed", "command", c.String())
	return out, ""
}

func combined(out *Output) string {
	if out == nil {
		return ""
	}
	return strings.TrimSpace(out.Stdout + "\n" + out.Stderr)
}
