package setup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted is returned when the user interrupts the prompts
var ErrAborted = errors.New("setup aborted")

// SurveyPrompter asks on the terminal
type SurveyPrompter struct{}

// NewSurveyPrompter creates a terminal prompter
func NewSurveyPrompter() *SurveyPrompter {
	return &SurveyPrompter{}
}

// Ask prompts for param, showing the current value (masked for secrets)
func (p *SurveyPrompter) Ask(ctx context.Context, param Param, current string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	message := param.Description
	if current != "" {
		shown := current
		if param.Secret {
			shown = Mask(current)
		}
		message = fmt.Sprintf("%s [current: %s]", param.Description, shown)
	}

	var out string
	var prompt survey.Prompt
	if param.Secret {
		prompt = &survey.Password{Message: message + ":", Help: "Press Enter to keep the current value"}
	} else {
		prompt = &survey.Input{Message: message + ":", Help: "Press Enter to keep the current value"}
	}
	var opts []survey.AskOpt
	if param.Validate != nil {
		opts = append(opts, survey.WithValidator(blankOr(param.Validate)))
	}
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", ErrAborted
		}
		return "", err
	}
	return out, nil
}

// blankOr adapts validate to survey, letting an empty answer through
func blankOr(validate func(string) error) survey.Validator {
	return func(ans interface{}) error {
		value, _ := ans.(string)
		if strings.TrimSpace(value) == "" {
			return nil
		}
		return validate(strings.TrimSpace(value))
	}
}
