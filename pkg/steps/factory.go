package steps

import (
	"fmt"
)

// Step names, in the order the setup runs them.
const (
	StepPrerequisites    = "prerequisites"
	StepGitInit          = "git-init"
	StepRootInstall      = "root-install"
	StepFrontendScaffold = "frontend-scaffold"
	StepFrontendConfig   = "frontend-config"
	StepServiceInstall   = "service-install"
	StepGitHooks         = "git-hooks"
	StepVerify           = "verify"
	StepInitialCommit    = "initial-commit"
)

// DefaultSequence is the fixed setup order.
var DefaultSequence = []string{
	StepPrerequisites,
	StepGitInit,
	StepRootInstall,
	StepFrontendScaffold,
	StepFrontendConfig,
	StepServiceInstall,
	StepGitHooks,
	StepVerify,
	StepInitialCommit,
}

// NewStep creates a Step implementation from its name.
func NewStep(name string) (Step, error) {
	switch name {
	case StepPrerequisites:
		return NewPrerequisitesStep(RequiredTools), nil
	case StepGitInit:
		return NewGitInitStep(), nil
	case StepRootInstall:
		return NewRootInstallStep(), nil
	case StepFrontendScaffold:
		return NewFrontendScaffoldStep(), nil
	case StepFrontendConfig:
		return NewFrontendConfigStep(), nil
	case StepServiceInstall:
		return NewServiceInstallStep(), nil
	case StepGitHooks:
		return NewGitHooksStep(), nil
	case StepVerify:
		return NewVerifyStep(), nil
	case StepInitialCommit:
		return NewInitialCommitStep(), nil
	default:
		return nil, fmt.Errorf("unknown step: %s", name)
	}
}

// Sequence builds the steps for names, preserving order.
func Sequence(names []string) ([]Step, error) {
	out := make([]Step, 0, len(names))
	for _, name := range names {
		s, err := NewStep(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
