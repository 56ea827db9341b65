package setup

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/krmrn42/vue-express-template/pkg/steps"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D29922"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F85149"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8B949E"))
)

// CISecrets must be configured in the repository before the pipeline can deploy.
var CISecrets = []string{"GCP_PROJECT_ID", "CLOUD_RUN_REGION", "GCP_SA_EMAIL", "WIF_PROVIDER"}

// WriteSummary prints the step outcomes followed by the next steps.
func WriteSummary(w io.Writer, r *Report) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Setup summary") + "\n")
	for _, rec := range r.Records {
		fmt.Fprintf(&b, "  %s %-18s %s\n", statusMark(rec.Result.Status), rec.Step, dimStyle.Render(rec.Result.Message))
	}

	if r.Aborted {
		b.WriteString("\n" + failStyle.Render("Setup did not finish.") +
			" You can complete the setup manually by following README.md\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	if len(r.Tolerated()) > 0 {
		b.WriteString("\n" + warnStyle.Render("Setup completed with warnings; review the steps above.") + "\n")
	} else {
		b.WriteString("\n" + okStyle.Render("Setup completed successfully!") + "\n")
	}

	b.WriteString(NextSteps(r))
	_, err := io.WriteString(w, b.String())
	return err
}

// NextSteps renders the follow-up instructions, including the optional
// Terraform and CI items when those features were selected.
func NextSteps(r *Report) string {
	p := r.Params
	lines := []string{
		"cd " + p.ProjectName,
		"Review and customize configuration files",
		"Start development:\n" +
			"      - Frontend: cd apps/web && pnpm dev\n" +
			fmt.Sprintf("      - Backend: cd services/%s && pnpm dev (http://localhost:%d)\n", p.ServiceName, p.Port()) +
			"      - Or both: pnpm dev",
	}
	if p.IncludeTerraform {
		lines = append(lines, "Initialize Terraform: cd terraform && terraform init")
	}
	if p.IncludeGitHubActions {
		secrets := make([]string, 0, len(CISecrets))
		for _, s := range CISecrets {
			secrets = append(secrets, "      - "+s)
		}
		lines = append(lines, "Set up GitHub secrets for CI/CD:\n"+strings.Join(secrets, "\n"))
	}

	var b strings.Builder
	b.WriteString("\n" + titleStyle.Render("Next steps") + "\n")
	for i, l := range lines {
		fmt.Fprintf(&b, "   %d. %s\n", i+1, l)
	}
	return b.String()
}

func statusMark(s steps.Status) string {
	switch s {
	case steps.StatusOK:
		return okStyle.Render("ok  ")
	case steps.StatusTolerated:
		return warnStyle.Render("warn")
	default:
		return failStyle.Render("FAIL")
	}
}
