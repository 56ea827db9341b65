package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/krmrn42/vue-express-template/pkg/logging"
	"github.com/krmrn42/vue-express-template/pkg/params"
	"github.com/krmrn42/vue-express-template/pkg/setup"
	"github.com/krmrn42/vue-express-template/pkg/steps"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

const envPrefix = "SCAFFOLD"

const (
	exitOK = iota
	exitFailure
)

// app carries the process streams and settings shared by all commands.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	v *viper.Viper

	// runner overrides the command runner used by setup; nil runs real commands.
	runner steps.Runner
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{stdin: stdin, stdout: stdout, stderr: stderr, v: viper.New()}
	return a.execute(ctx, args)
}

func (a *app) execute(ctx context.Context, args []string) int {
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	switch {
	case errors.Is(err, setup.ErrInterrupted), errors.Is(err, context.Canceled):
		fmt.Fprintln(a.stderr, "setup interrupted")
	case errors.Is(err, params.ErrAborted):
		fmt.Fprintln(a.stderr, "aborted")
	case errors.Is(err, params.ErrInvalidParameter):
		fmt.Fprintf(a.stderr, "invalid parameters: %v\n", err)
	default:
		fmt.Fprintf(a.stderr, "error: %v\n", err)
	}
	return exitFailure
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scaffold",
		Short: "Generate a Vue + Express pnpm monorepo and run its initial setup",
		Long: `scaffold expands the built-in monorepo template (or a template directory)
into a new project and, unless run_initial_setup is "no", installs dependencies,
scaffolds the frontend, configures git hooks, verifies the build and commits.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initialize()
		},
	}

	flags := root.PersistentFlags()
	flags.String(
		"config",
		"",
		"YAML config file providing flag defaults")
	flags.String(
		"logging-type",
		logging.Tint,
		"logging type: "+strings.Join(logging.Types, ", "))
	flags.String(
		"log-level",
		"info",
		"logging level: debug, info, warn, error")
	flags.String(
		"policy",
		"lenient",
		"setup failure policy: lenient continues past recoverable failures, strict stops at the first one")
	_ = a.v.BindPFlags(flags)

	root.AddCommand(
		a.generateCmd(),
		a.validateCmd(),
		a.setupCmd(),
		a.selftestCmd(),
	)
	return root
}

// initialize loads configuration sources in precedence order (flags, env,
// config file) and sets up logging.
func (a *app) initialize() error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if cfg := a.v.GetString("config"); cfg != "" {
		a.v.SetConfigFile(cfg)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", cfg, err)
		}
	}

	if err := logging.Initialize(a.stderr, a.v.GetString("logging-type"), a.v.GetString("log-level")); err != nil {
		return err
	}

	return includeEnv()
}

func includeEnv() error {
	err := godotenv.Load()
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		slog.Debug("no .env file found")
	} else {
		slog.Info("using .env file")
	}
	return nil
}

func (a *app) policy() (setup.Policy, error) {
	return setup.ParsePolicy(a.v.GetString("policy"))
}
