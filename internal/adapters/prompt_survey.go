package adapters

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"azimuth-installer/internal/ports"
)

const defaultPromptPageSize = 15

// SurveyPrompterAdapter asks on the controlling terminal.
type SurveyPrompterAdapter struct {
	PageSize int
	Options  []survey.AskOpt
}

func NewSurveyPrompterAdapter() SurveyPrompterAdapter {
	return SurveyPrompterAdapter{PageSize: defaultPromptPageSize}
}

func (a SurveyPrompterAdapter) SelectOne(ctx context.Context, message string, choices []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(choices) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("no choices to select from")
	}
	prompt := &survey.Select{
		Message:  message,
		Options:  choices,
		PageSize: a.PageSize,
	}
	var answer string
	if err := survey.AskOne(prompt, &answer, a.Options...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("selection cancelled").
				WithCause(err)
		}
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("prompt failed").
			WithCause(err)
	}
	return answer, nil
}

var _ ports.PrompterPort = SurveyPrompterAdapter{}
