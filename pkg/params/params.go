// Package params holds the immutable parameter set a project is generated
// from, the validator that guards template expansion, and the collectors that
// gather answers from files, flags and prompts.
package params

import (
	"fmt"
	"strconv"

	"github.com/krmrn42/vue-express-template/pkg/api"
)

// Variable names understood by the generator.
const (
	ProjectName          = "project_name"
	ProjectDescription   = "project_description"
	AuthorName           = "author_name"
	AuthorEmail          = "author_email"
	ServiceName          = "service_name"
	ServicePort          = "service_port"
	GCPProjectID         = "gcp_project_id"
	GCPRegion            = "gcp_region"
	IncludeTerraform     = "include_terraform"
	IncludeGitHubActions = "include_github_actions"
	RunInitialSetup      = "run_initial_setup"
)

// Parameters is the checked-once, read-only input of a generation run.
// It is passed by value; nothing mutates it after Validate.
type Parameters struct {
	ProjectName          string
	ProjectDescription   string
	AuthorName           string
	AuthorEmail          string
	ServiceName          string
	ServicePort          string
	GCPProjectID         string
	GCPRegion            string
	IncludeTerraform     bool
	IncludeGitHubActions bool
	RunInitialSetup      bool

	extra map[string]string
}

// FromAnswers builds Parameters from resolved answers. Flag variables must be
// "yes" or "no". Answers for variables the generator does not know about are
// kept and exposed to templates.
func FromAnswers(answers map[string]string) (Parameters, error) {
	p := Parameters{
		ProjectName:        answers[ProjectName],
		ProjectDescription: answers[ProjectDescription],
		AuthorName:         answers[AuthorName],
		AuthorEmail:        answers[AuthorEmail],
		ServiceName:        answers[ServiceName],
		ServicePort:        answers[ServicePort],
		GCPProjectID:       answers[GCPProjectID],
		GCPRegion:          answers[GCPRegion],
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{IncludeTerraform, &p.IncludeTerraform},
		{IncludeGitHubActions, &p.IncludeGitHubActions},
		{RunInitialSetup, &p.RunInitialSetup},
	}
	for _, f := range flags {
		v, ok := answers[f.name]
		if !ok {
			continue
		}
		b, err := parseYesNo(v)
		if err != nil {
			return Parameters{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = b
	}

	for k, v := range answers {
		if knownVariable(k) {
			continue
		}
		if p.extra == nil {
			p.extra = make(map[string]string)
		}
		p.extra[k] = v
	}

	return p, nil
}

// Port returns the service port as an integer. Only meaningful after Validate.
func (p Parameters) Port() int {
	n, _ := strconv.Atoi(p.ServicePort)
	return n
}

// Context returns the template data for expansion. Flags render as yes/no.
func (p Parameters) Context() map[string]any {
	ctx := make(map[string]any, 11+len(p.extra))
	for k, v := range p.extra {
		ctx[k] = v
	}
	ctx[ProjectName] = p.ProjectName
	ctx[ProjectDescription] = p.ProjectDescription
	ctx[AuthorName] = p.AuthorName
	ctx[AuthorEmail] = p.AuthorEmail
	ctx[ServiceName] = p.ServiceName
	ctx[ServicePort] = p.ServicePort
	ctx[GCPProjectID] = p.GCPProjectID
	ctx[GCPRegion] = p.GCPRegion
	ctx[IncludeTerraform] = yesNo(p.IncludeTerraform)
	ctx[IncludeGitHubActions] = yesNo(p.IncludeGitHubActions)
	ctx[RunInitialSetup] = yesNo(p.RunInitialSetup)
	return ctx
}

// Flag reports whether the named yes/no variable is set to yes.
func (p Parameters) Flag(name string) bool {
	v, ok := p.Context()[name].(string)
	return ok && v == api.Yes
}

func knownVariable(name string) bool {
	switch name {
	case ProjectName, ProjectDescription, AuthorName, AuthorEmail, ServiceName,
		ServicePort, GCPProjectID, GCPRegion, IncludeTerraform, IncludeGitHubActions, RunInitialSetup:
		return true
	}
	return false
}

func parseYesNo(v string) (bool, error) {
	switch v {
	case api.Yes:
		return true, nil
	case api.No:
		return false, nil
	default:
		return false, fmt.Errorf("expected %q or %q, got %q", api.Yes, api.No, v)
	}
}

func yesNo(b bool) string {
	if b {
		return api.Yes
	}
	return api.No
}
