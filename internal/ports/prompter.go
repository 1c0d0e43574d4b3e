package ports

import "context"

// PrompterPort asks the operator to pick exactly one of the given choices.
type PrompterPort interface {
	SelectOne(ctx context.Context, message string, choices []string) (string, error)
}
