package steps

import (
	"context"
	"fmt"

	"github.com/krmrn42/vue-express-template/pkg/params"
)

// Status classifies the outcome of a step. The driver decides whether to
// continue from the Status alone.
type Status int

const (
	StatusOK Status = iota
	StatusTolerated
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTolerated:
		return "tolerated"
	case StatusFatal:
		return "fatal"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is returned by every step.
type Result struct {
	Status  Status
	Message string
	Output  string // captured output of the failing command, if any
}

// OK reports success.
func OK(format string, args ...any) Result {
	return Result{Status: StatusOK, Message: fmt.Sprintf(format, args...)}
}

// Tolerated reports a failure the pipeline survives.
func Tolerated(format string, args ...any) Result {
	return Result{Status: StatusTolerated, Message: fmt.Sprintf(format, args...)}
}

// Fatal reports a failure that must stop the pipeline.
func Fatal(format string, args ...any) Result {
	return Result{Status: StatusFatal, Message: fmt.Sprintf(format, args...)}
}

// State carries facts later steps depend on within a single run.
type State struct {
	FrontendScaffolded bool
}

// StepContext provides the runtime context for a step.
type StepContext struct {
	WorkDir string
	Params  params.Parameters
	Runner  Runner
	State   *State
}

// Step is the interface all setup steps implement.
type Step interface {
	Name() string
	Run(ctx context.Context, sc StepContext) Result
}
