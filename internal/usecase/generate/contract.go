package generate

import "context"

// Completer sends one prompt to a completion endpoint and returns the
// raw model text. Implementations must be safe for concurrent use;
// each call is an independent request/response pair.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProgressFunc receives completion counts as documents finish.
type ProgressFunc func(done, total int)
