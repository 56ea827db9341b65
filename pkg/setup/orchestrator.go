// Package setup drives the post-generation setup: an ordered sequence of
// steps, each returning a typed result that alone decides whether the run
// continues.
package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/krmrn42/vue-express-template/pkg/params"
	"github.com/krmrn42/vue-express-template/pkg/steps"
)

var (
	// ErrFatalStep is returned when a step reports StatusFatal.
	ErrFatalStep = errors.New("setup step failed")
	// ErrInterrupted is returned when the context is cancelled mid-run.
	ErrInterrupted = errors.New("setup interrupted")
)

// Policy decides what a tolerated failure means for the rest of the run.
type Policy int

const (
	// PolicyLenient logs tolerated failures and keeps going.
	PolicyLenient Policy = iota
	// PolicyStrict stops at the first tolerated failure.
	PolicyStrict
)

// ParsePolicy maps "lenient" and "strict" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "lenient":
		return PolicyLenient, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return PolicyLenient, fmt.Errorf("unknown setup policy %q (valid: lenient, strict)", s)
	}
}

// Record is the outcome of one step within a run.
type Record struct {
	Step     string
	Result   steps.Result
	Duration time.Duration
}

// Report collects the step records of a run, in execution order.
type Report struct {
	Dir     string
	Params  params.Parameters
	Records []Record
	Aborted bool
}

// Tolerated returns the records whose step failed without stopping the run.
func (r *Report) Tolerated() []Record {
	var out []Record
	for _, rec := range r.Records {
		if rec.Result.Status == steps.StatusTolerated {
			out = append(out, rec)
		}
	}
	return out
}

// Orchestrator runs the setup steps against a generated project.
type Orchestrator struct {
	Runner steps.Runner
	Params params.Parameters
	Dir    string
	Policy Policy
	Steps  []steps.Step
}

// New creates an Orchestrator with the default step sequence.
func New(runner steps.Runner, p params.Parameters, dir string, policy Policy) (*Orchestrator, error) {
	seq, err := steps.Sequence(steps.DefaultSequence)
	if err != nil {
		return nil, fmt.Errorf("building step sequence: %w", err)
	}
	return &Orchestrator{Runner: runner, Params: p, Dir: dir, Policy: policy, Steps: seq}, nil
}

// Run executes the steps strictly in order. The returned report is always
// non-nil and contains every step that ran.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	report := &Report{Dir: o.Dir, Params: o.Params}
	state := &steps.State{}

	slog.Info("setting up project", "dir", o.Dir)

	for _, step := range o.Steps {
		if ctx.Err() != nil {
			report.Aborted = true
			return report, ErrInterrupted
		}

		sc := steps.StepContext{
			WorkDir: o.Dir,
			Params:  o.Params,
			Runner:  o.Runner,
			State:   state,
		}

		slog.Info("running step", "step", step.Name())
		start := time.Now()
		res := step.Run(ctx, sc)
		report.Records = append(report.Records, Record{Step: step.Name(), Result: res, Duration: time.Since(start)})

		if ctx.Err() != nil {
			report.Aborted = true
			return report, ErrInterrupted
		}

		switch res.Status {
		case steps.StatusOK:
			slog.Info("step completed", "step", step.Name(), "message", res.Message)
		case steps.StatusTolerated:
			slog.Warn("step tolerated failure", "step", step.Name(), "message", res.Message)
			if o.Policy == PolicyStrict {
				report.Aborted = true
				return report, fmt.Errorf("%w: %s: %s (strict policy)", ErrFatalStep, step.Name(), res.Message)
			}
		case steps.StatusFatal:
			slog.Error("step failed", "step", step.Name(), "message", res.Message)
			report.Aborted = true
			return report, fmt.Errorf("%w: %s: %s", ErrFatalStep, step.Name(), res.Message)
		}
	}

	return report, nil
}
