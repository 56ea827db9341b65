package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"

	"github.com/krmrn42/vue-express-template/pkg/api"
	"github.com/krmrn42/vue-express-template/pkg/params"
	"github.com/krmrn42/vue-express-template/pkg/processing"
	"github.com/krmrn42/vue-express-template/templates"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// addInputFlags registers the flags every command that needs parameters shares.
func (a *app) addInputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String(
		"template",
		"",
		"template directory containing template.yaml (default: built-in monorepo template)")
	flags.String(
		"answers",
		"",
		"YAML file with answers keyed by variable name")
	flags.Bool(
		"no-input",
		false,
		"do not prompt; use answers, --set values and defaults")
	flags.StringArray(
		"set",
		nil,
		"override a variable, e.g. --set service_port=8080 (repeatable)")
}

// loadTemplate returns the template source and its manifest: the --template
// directory when given, the built-in monorepo template otherwise.
func (a *app) loadTemplate(cmd *cobra.Command) (fs.FS, *api.Manifest, error) {
	if dir := a.stringFlag(cmd, "template"); dir != "" {
		m, err := api.LoadManifestDir(dir)
		if err != nil {
			return nil, nil, err
		}
		return os.DirFS(dir), m, nil
	}

	fsys := templates.Monorepo()
	m, err := api.LoadManifest(fsys, api.ManifestFilename)
	if err != nil {
		return nil, nil, err
	}
	return fsys, m, nil
}

// collectParameters resolves every template variable and builds Parameters.
// defaultAnswers is read when --answers is not given and the file exists.
// It does not validate the result.
func (a *app) collectParameters(ctx context.Context, cmd *cobra.Command, m *api.Manifest, defaultAnswers string) (params.Parameters, error) {
	collector := &params.Collector{Manifest: m, Prompter: a.prompter(cmd)}

	file := a.stringFlag(cmd, "answers")
	if file == "" && defaultAnswers != "" {
		if _, err := os.Stat(defaultAnswers); err == nil {
			slog.Info("using answers recorded in project", "file", defaultAnswers)
			file = defaultAnswers
		}
	}
	if file != "" {
		raw, err := processing.LoadContextFile(file)
		if err != nil {
			return params.Parameters{}, err
		}
		collector.Answers = params.StringAnswers(raw)
	}

	pairs, _ := cmd.Flags().GetStringArray("set")
	overrides, err := params.ParseOverrides(pairs)
	if err != nil {
		return params.Parameters{}, err
	}
	collector.Overrides = overrides

	answers, err := collector.Collect(ctx)
	if err != nil {
		return params.Parameters{}, err
	}
	return params.FromAnswers(answers)
}

func (a *app) prompter(cmd *cobra.Command) params.Prompter {
	if a.boolFlag(cmd, "no-input") {
		return params.DefaultsPrompter{}
	}
	if f, ok := a.stdin.(*os.File); ok && isTerminal(f) {
		return params.SurveyPrompter{}
	}
	return params.NewLinePrompter(a.stdin, a.stderr)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// stringFlag prefers an explicitly set flag, then env/config through viper,
// then the flag default.
func (a *app) stringFlag(cmd *cobra.Command, name string) string {
	if f := cmd.Flags().Lookup(name); (f == nil || !f.Changed) && a.v.IsSet(name) {
		return a.v.GetString(name)
	}
	v, _ := cmd.Flags().GetString(name)
	return v
}

func (a *app) boolFlag(cmd *cobra.Command, name string) bool {
	if f := cmd.Flags().Lookup(name); (f == nil || !f.Changed) && a.v.IsSet(name) {
		return a.v.GetBool(name)
	}
	v, _ := cmd.Flags().GetBool(name)
	return v
}
