package processing

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/krmrn42/vue-express-template/pkg/api"
	"github.com/krmrn42/vue-express-template/pkg/params"
	"github.com/krmrn42/vue-express-template/pkg/setup"
	"github.com/krmrn42/vue-express-template/pkg/steps"
)

// Options configures a full generation run.
type Options struct {
	Template  fs.FS
	Manifest  *api.Manifest // loaded from Template when nil
	Params    params.Parameters
	OutputDir string
	Overwrite bool

	Runner  steps.Runner // used only when Params.RunInitialSetup is set
	Policy  setup.Policy
	Summary io.Writer // receives the setup summary; nil discards it
}

// Result is the outcome of Generate.
type Result struct {
	Expansion *Expansion
	Report    *setup.Report // nil when setup was skipped
}

// Generate validates the parameters, expands the template and, if requested,
// runs the setup sequence in the new project. Nothing is written when
// validation fails.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	if err := params.Validate(opts.Params); err != nil {
		return nil, err
	}

	m := opts.Manifest
	if m == nil {
		loaded, err := api.LoadManifest(opts.Template, api.ManifestFilename)
		if err != nil {
			return nil, fmt.Errorf("loading template manifest: %w", err)
		}
		m = loaded
	}

	exp, err := Expand(ctx, opts.Template, m, opts.Params, ExpandOptions{
		OutputDir: opts.OutputDir,
		Overwrite: opts.Overwrite,
	})
	if err != nil {
		return nil, err
	}

	if err := WriteAnswersFile(exp.ProjectDir, opts.Params); err != nil {
		return nil, err
	}

	result := &Result{Expansion: exp}

	if !opts.Params.RunInitialSetup {
		slog.Info("skipping automatic setup; follow README.md to finish manually")
		return result, nil
	}

	report, err := RunSetup(ctx, exp.ProjectDir, opts)
	result.Report = report
	return result, err
}

// RunSetup runs the setup sequence against an already generated project.
func RunSetup(ctx context.Context, dir string, opts Options) (*setup.Report, error) {
	runner := opts.Runner
	if runner == nil {
		runner = steps.ExecRunner{}
	}

	orch, err := setup.New(runner, opts.Params, dir, opts.Policy)
	if err != nil {
		return nil, err
	}

	report, runErr := orch.Run(ctx)
	if opts.Summary != nil {
		if err := setup.WriteSummary(opts.Summary, report); err != nil {
			slog.Warn("failed to write setup summary", "error", err)
		}
	}
	return report, runErr
}
