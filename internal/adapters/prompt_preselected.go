package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"azimuth-installer/internal/ports"
)

// PreselectedPrompterAdapter answers prompts from a fixed table keyed by
// prompt message. Prompts without an answer go to Fallback.
type PreselectedPrompterAdapter struct {
	Answers  map[string]string
	Fallback ports.PrompterPort
}

func NewPreselectedPrompterAdapter(answers map[string]string, fallback ports.PrompterPort) PreselectedPrompterAdapter {
	cleaned := map[string]string{}
	for message, answer := range answers {
		if strings.TrimSpace(answer) == "" {
			continue
		}
		cleaned[message] = strings.TrimSpace(answer)
	}
	return PreselectedPrompterAdapter{Answers: cleaned, Fallback: fallback}
}

func (a PreselectedPrompterAdapter) SelectOne(ctx context.Context, message string, choices []string) (string, error) {
	answer, ok := a.Answers[message]
	if !ok {
		if a.Fallback == nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("no answer for prompt %q", message))
		}
		return a.Fallback.SelectOne(ctx, message, choices)
	}
	for _, choice := range choices {
		if choice == answer {
			return answer, nil
		}
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("%s is not one of the available choices", answer))
}

var _ ports.PrompterPort = PreselectedPrompterAdapter{}
