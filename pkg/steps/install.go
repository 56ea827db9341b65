package steps

import (
	"context"
	"os"
	"path/filepath"
)

const servicesDir = "services"

type rootInstallStep struct{}

// NewRootInstallStep creates a step that installs root workspace dependencies.
func NewRootInstallStep() Step { return &rootInstallStep{} }

func (s *rootInstallStep) Name() string { return StepRootInstall }

func (s *rootInstallStep) Run(ctx context.Context, sc StepContext) Result {
	out, failure := run(ctx, sc, "installing root dependencies", Command{Name: "pnpm", Args: []string{"install"}})
	if failure != "" {
		return Result{Status: StatusTolerated, Message: "root install failed: " + failure, Output: combined(out)}
	}
	return OK("root dependencies installed")
}

type serviceInstallStep struct{}

// NewServiceInstallStep creates a step that installs the backend service's dependencies.
func NewServiceInstallStep() Step { return &serviceInstallStep{} }

func (s *serviceInstallStep) Name() string { return StepServiceInstall }

func (s *serviceInstallStep) Run(ctx context.Context, sc StepContext) Result {
	name := sc.Params.ServiceName
	dir := filepath.Join(sc.WorkDir, servicesDir, name)

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return Tolerated("service %s not found at %s", name, filepath.Join(servicesDir, name))
	}

	out, failure := run(ctx, sc, "installing "+name+" dependencies", Command{Name: "pnpm", Args: []string{"install"}, Dir: dir})
	if failure != "" {
		return Result{Status: StatusTolerated, Message: name + " install failed: " + failure, Output: combined(out)}
	}
	return OK("%s dependencies installed", name)
}
