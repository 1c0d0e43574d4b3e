package adapters

import (
	"context"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrompter struct {
	answer string
	calls  int
}

func (s *stubPrompter) SelectOne(context.Context, string, []string) (string, error) {
	s.calls++
	return s.answer, nil
}

func TestPreselectedPrompter(t *testing.T) {
	fallback := &stubPrompter{answer: "from-fallback"}
	prompter := NewPreselectedPrompterAdapter(map[string]string{
		"package?": " azimuth-secrets ",
		"version?": "",
	}, fallback)
	ctx := context.Background()

	answer, err := prompter.SelectOne(ctx, "package?", []string{"azimuth-logger", "azimuth-secrets"})
	require.NoError(t, err)
	assert.Equal(t, "azimuth-secrets", answer)
	assert.Equal(t, 0, fallback.calls)

	// Blank answers are dropped and fall through.
	answer, err = prompter.SelectOne(ctx, "version?", []string{"1.0.0"})
	require.NoError(t, err)
	assert.Equal(t, "from-fallback", answer)
	assert.Equal(t, 1, fallback.calls)
}

func TestPreselectedPrompterErrors(t *testing.T) {
	prompter := NewPreselectedPrompterAdapter(map[string]string{"package?": "nope"}, nil)
	ctx := context.Background()

	_, err := prompter.SelectOne(ctx, "package?", []string{"a", "b"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "nope is not one of the available choices")

	_, err = prompter.SelectOne(ctx, "version?", []string{"1.0.0"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
}

func TestSurveyPrompterRejectsEmptyChoices(t *testing.T) {
	prompter := NewSurveyPrompterAdapter()
	assert.Equal(t, defaultPromptPageSize, prompter.PageSize)

	_, err := prompter.SelectOne(context.Background(), "pick", nil)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
}

func TestSurveyPrompterCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSurveyPrompterAdapter().SelectOne(ctx, "pick", []string{"a"})
	require.ErrorIs(t, err, context.Canceled)
}
