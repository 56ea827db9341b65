package steps

import (
	"context"
	"os"
	"path/filepath"
)

const initialCommitMessage = "Initial commit from template"

type gitInitStep struct{}

// NewGitInitStep creates a step that initializes a repository unless one exists.
func NewGitInitStep() Step { return &gitInitStep{} }

func (s *gitInitStep) Name() string { return StepGitInit }

func (s *gitInitStep) Run(ctx context.Context, sc StepContext) Result {
	if _, err := os.Stat(filepath.Join(sc.WorkDir, ".git")); err == nil {
		return OK("git repository already exists")
	}

	out, failure := run(ctx, sc, "initializing git repository", Command{Name: "git", Args: []string{"init"}})
	if failure != "" {
		return Result{Status: StatusTolerated, Message: "git init failed: " + failure, Output: combined(out)}
	}
	return OK("initialized git repository")
}

type initialCommitStep struct{}

// NewInitialCommitStep creates a step that stages everything and commits.
func NewInitialCommitStep() Step { return &initialCommitStep{} }

func (s *initialCommitStep) Name() string { return StepInitialCommit }

func (s *initialCommitStep) Run(ctx context.Context, sc StepContext) Result {
	out, failure := run(ctx, sc, "adding all files to git", Command{Name: "git", Args: []string{"add", "."}})
	if failure != "" {
		return Result{Status: StatusTolerated, Message: "git add failed, please review and commit manually: " + failure, Output: combined(out)}
	}

	out, failure = run(ctx, sc, "creating initial commit", Command{Name: "git", Args: []string{"commit", "-m", initialCommitMessage}})
	if failure != "" {
		return Result{Status: StatusTolerated, Message: "initial commit had issues, please review and commit manually: " + failure, Output: combined(out)}
	}
	return OK("initial commit created")
}
