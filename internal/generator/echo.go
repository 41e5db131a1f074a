package generator

import "context"

// DefaultEchoLimit bounds how much of the prompt the echo backend repeats.
const DefaultEchoLimit = 512

// Echo is the deterministic fallback generator: it returns a bounded prefix
// of the prompt. Useful offline and for reproducible tests.
type Echo struct {
	Limit int
}

// NewEcho returns an echo generator with the default prefix bound.
func NewEcho() *Echo {
	return &Echo{Limit: DefaultEchoLimit}
}

func (e *Echo) Generate(_ context.Context, prompt string) (string, error) {
	limit := e.Limit
	if limit <= 0 {
		limit = DefaultEchoLimit
	}
	if len(prompt) > limit {
		prompt = prompt[:limit]
	}
	return "Echoed guidance based on prompt:\n" + prompt, nil
}
