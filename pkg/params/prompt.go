package params

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/krmrn42/vue-express-template/pkg/api"
)

// ErrAborted is returned when the user cancels an interactive prompt.
var ErrAborted = errors.New("prompt aborted")

// Prompter supplies the value of a single variable given its rendered default.
type Prompter interface {
	Ask(ctx context.Context, v api.Variable, def string) (string, error)
}

// DefaultsPrompter accepts every default without asking.
type DefaultsPrompter struct{}

func (DefaultsPrompter) Ask(ctx context.Context, _ api.Variable, def string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return def, nil
}

// LinePrompter reads one answer per line, in variable order. A blank line or
// end of input keeps the default.
type LinePrompter struct {
	scanner *bufio.Scanner
	echo    io.Writer
}

// NewLinePrompter reads answers from r. If echo is non-nil each question and
// answer is written to it.
func NewLinePrompter(r io.Reader, echo io.Writer) *LinePrompter {
	return &LinePrompter{scanner: bufio.NewScanner(r), echo: echo}
}

func (p *LinePrompter) Ask(ctx context.Context, v api.Variable, def string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	value := def
	if p.scanner.Scan() {
		if line := strings.TrimSpace(p.scanner.Text()); line != "" {
			value = line
		}
	} else if err := p.scanner.Err(); err != nil {
		return "", fmt.Errorf("reading answer: %w", err)
	}

	if p.echo != nil {
		fmt.Fprintf(p.echo, "%s [%s]: %s\n", promptLabel(v), def, value)
	}
	return value, nil
}

// SurveyPrompter asks on the terminal. Variables with choices get a select list.
type SurveyPrompter struct {
	Options []survey.AskOpt
}

func (p SurveyPrompter) Ask(ctx context.Context, v api.Variable, def string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var prompt survey.Prompt
	if len(v.Choices) > 0 {
		prompt = &survey.Select{
			Message: promptLabel(v),
			Options: v.Choices,
			Default: def,
		}
	} else {
		prompt = &survey.Input{
			Message: promptLabel(v),
			Default: def,
		}
	}

	var out string
	if err := survey.AskOne(prompt, &out, p.Options...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

func promptLabel(v api.Variable) string {
	if v.Prompt != "" {
		return v.Prompt
	}
	return v.Name
}
