package evaluate

import "context"

// Completer scores a judge prompt with the chat model.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProgressFunc receives completion counts as results are judged.
type ProgressFunc func(done, total int)
