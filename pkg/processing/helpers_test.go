package processing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/krmrn42/vue-express-template/pkg/api"
	"github.com/krmrn42/vue-express-template/pkg/params"
	"github.com/krmrn42/vue-express-template/pkg/steps"
)

const testManifest = `
name: fixture
variables:
  - name: project_name
  - name: project_description
  - name: author_name
  - name: author_email
  - name: service_name
  - name: service_port
  - name: gcp_project_id
  - name: gcp_region
  - name: include_terraform
    default: "yes"
    choices: ["yes", "no"]
  - name: include_github_actions
    default: "yes"
    choices: ["yes", "no"]
  - name: run_initial_setup
    default: "no"
    choices: ["yes", "no"]
copyWithoutRender:
  - "assets/**"
conditional:
  - path: terraform
    when: include_terraform
  - path: .github
    when: include_github_actions
`

func fixtureTemplate() fstest.MapFS {
	return fstest.MapFS{
		"template.yaml":                  {Data: []byte(testManifest)},
		"{{.project_name}}/package.json": {Data: []byte(`{"name": "{{ .project_name }}", "author": "{{ .author_name }}"}`)},
		"{{.project_name}}/services/{{.service_name}}/src/index.ts":                    {Data: []byte(`const port = {{ .service_port }};`)},
		"{{.project_name}}/terraform/main.tf":                                          {Data: []byte(`project = "{{ .gcp_project_id }}"`)},
		"{{.project_name}}/.github/workflows/ci.yml":                                   {Data: []byte(`secret: ${{"{{"}} secrets.X {{"}}"}}`)},
		"{{.project_name}}/assets/logo.txt":                                            {Data: []byte(`{{ not a template }}`)},
		"{{.project_name}}/{{if eq .include_terraform \"yes\"}}infra{{end}}/README.md": {Data: []byte(`infra for {{ .gcp_region }}`)},
	}
}

func testAnswers() map[string]string {
	return map[string]string{
		params.ProjectName:          "test-app",
		params.ProjectDescription:   "Test application",
		params.AuthorName:           "Test Author",
		params.AuthorEmail:          "test@example.com",
		params.ServiceName:          "api-service",
		params.ServicePort:          "8080",
		params.GCPProjectID:         "test-project-123",
		params.GCPRegion:            "us-central1",
		params.IncludeTerraform:     api.Yes,
		params.IncludeGitHubActions: api.Yes,
		params.RunInitialSetup:      api.No,
	}
}

func testParams(t *testing.T, overrides map[string]string) params.Parameters {
	t.Helper()
	answers := testAnswers()
	for k, v := range overrides {
		answers[k] = v
	}
	p, err := params.FromAnswers(answers)
	if err != nil {
		t.Fatalf("building parameters: %v", err)
	}
	return p
}

func testManifestFor(t *testing.T, fsys fstest.MapFS) *api.Manifest {
	t.Helper()
	m, err := api.LoadManifest(fsys, api.ManifestFilename)
	if err != nil {
		t.Fatalf("loading manifest: %v", err)
	}
	return m
}

func readGenerated(t *testing.T, dir, rel string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("reading %s: %v", rel, err)
	}
	return string(b)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func exists(dir, rel string) bool {
	_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
	return err == nil
}

// recordingRunner records commands; those named in missing cannot be started.
type recordingRunner struct {
	calls   []steps.Command
	missing map[string]bool
}

func (r *recordingRunner) Run(_ context.Context, c steps.Command) (*steps.Output, error) {
	r.calls = append(r.calls, c)
	if r.missing[c.Name] {
		return nil, errors.New("executable file not found in $PATH")
	}
	return &steps.Output{}, nil
}
