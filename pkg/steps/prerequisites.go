package steps

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Tool is an external program the setup depends on.
type Tool struct {
	Command     string
	Description string
	Constraint  string // semver constraint, empty for any version
}

// RequiredTools are checked before anything else runs.
var RequiredTools = []Tool{
	{Command: "node", Description: "Node.js (>=20.0.0)", Constraint: ">= 20.0.0"},
	{Command: "pnpm", Description: "pnpm package manager (>=8.0.0)", Constraint: ">= 8.0.0"},
	{Command: "git", Description: "Git"},
}

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

type prerequisitesStep struct {
	tools []Tool
}

// NewPrerequisitesStep creates the fatal gate that checks every tool answers --version.
func NewPrerequisitesStep(tools []Tool) Step {
	return &prerequisitesStep{tools: tools}
}

func (s *prerequisitesStep) Name() string { return StepPrerequisites }

func (s *prerequisitesStep) Run(ctx context.Context, sc StepContext) Result {
	var missing []string

	for _, tool := range s.tools {
		out, err := sc.Runner.Run(ctx, Command{Name: tool.Command, Args: []string{"--version"}, Dir: sc.WorkDir})
		if err != nil || out.ExitCode != 0 {
			slog.Error("required tool not found", "tool", tool.Description)
			missing = append(missing, tool.Description)
			continue
		}

		version := versionPattern.FindString(out.Stdout)
		if version == "" {
			version = "unknown version"
		}
		slog.Info("required tool found", "tool", tool.Description, "version", version)
		checkConstraint(tool, version)
	}

	if len(missing) > 0 {
		return Fatal("missing required tools: %s; please install them and run the setup again", strings.Join(missing, ", "))
	}
	return OK("all required tools found")
}

// checkConstraint only warns: an old but present tool may still work.
func checkConstraint(tool Tool, version string) {
	if tool.Constraint == "" {
		return
	}

	c, err := semver.NewConstraint(tool.Constraint)
	if err != nil {
		slog.Warn("invalid version constraint", "tool", tool.Command, "constraint", tool.Constraint, "error", err)
		return
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		slog.Warn("could not parse tool version", "tool", tool.Command, "version", version)
		return
	}
	if !c.Check(v) {
		slog.Warn("tool version below recommended minimum", "tool", tool.Description, "version", v.String(), "constraint", tool.Constraint)
	}
}
