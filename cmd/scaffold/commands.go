package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/krmrn42/vue-express-template/pkg/params"
	"github.com/krmrn42/vue-express-template/pkg/processing"
	"github.com/krmrn42/vue-express-template/pkg/selftest"
	"github.com/spf13/cobra"
)

var errSelfTestFailed = errors.New("template self-test failed")

func (a *app) generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create a new project from the template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			policy, err := a.policy()
			if err != nil {
				return err
			}

			fsys, m, err := a.loadTemplate(cmd)
			if err != nil {
				return err
			}
			p, err := a.collectParameters(ctx, cmd, m, "")
			if err != nil {
				return err
			}

			result, err := processing.Generate(ctx, processing.Options{
				Template:  fsys,
				Manifest:  m,
				Params:    p,
				OutputDir: a.stringFlag(cmd, "output-dir"),
				Overwrite: a.boolFlag(cmd, "overwrite"),
				Runner:    a.runner,
				Policy:    policy,
				Summary:   a.stdout,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "Project generated at %s\n", result.Expansion.ProjectDir)
			return nil
		},
	}

	a.addInputFlags(cmd)
	cmd.Flags().String(
		"output-dir",
		".",
		"directory the project directory is created in")
	cmd.Flags().Bool(
		"overwrite",
		false,
		"replace an existing project directory")
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check template parameters without generating anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, m, err := a.loadTemplate(cmd)
			if err != nil {
				return err
			}
			p, err := a.collectParameters(cmd.Context(), cmd, m, "")
			if err != nil {
				return err
			}
			if err := params.Validate(p); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "parameters are valid")
			return nil
		},
	}
	a.addInputFlags(cmd)
	return cmd
}

func (a *app) setupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Run the initial setup sequence in an already generated project",
		Long: `setup runs the setup steps in --dir. Parameters come from --answers, or from
the ` + processing.AnswersFilename + ` file written at generation time, then --set and prompts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			policy, err := a.policy()
			if err != nil {
				return err
			}

			dir, err := filepath.Abs(a.stringFlag(cmd, "dir"))
			if err != nil {
				return fmt.Errorf("resolving project directory: %w", err)
			}

			_, m, err := a.loadTemplate(cmd)
			if err != nil {
				return err
			}
			p, err := a.collectParameters(ctx, cmd, m, filepath.Join(dir, processing.AnswersFilename))
			if err != nil {
				return err
			}
			if err := params.Validate(p); err != nil {
				return err
			}

			slog.Info("running setup", "dir", dir)
			_, err = processing.RunSetup(ctx, dir, processing.Options{
				Params:  p,
				Runner:  a.runner,
				Policy:  policy,
				Summary: a.stdout,
			})
			return err
		},
	}

	a.addInputFlags(cmd)
	cmd.Flags().String(
		"dir",
		".",
		"generated project directory")
	return cmd
}

func (a *app) selftestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Generate the template with fixed answers and check the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fsys, _, err := a.loadTemplate(cmd)
			if err != nil {
				return err
			}
			if !selftest.Run(cmd.Context(), fsys, a.stdout) {
				return errSelfTestFailed
			}
			return nil
		},
	}
	cmd.Flags().String(
		"template",
		"",
		"template directory containing template.yaml (default: built-in monorepo template)")
	return cmd
}
