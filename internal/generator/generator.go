// Package generator turns a context-augmented prompt into answer text.
// The deterministic echo backend serves environments without a language
// model; the OpenAI-compatible backend delegates to langchaingo.
package generator

import (
	"context"
	"errors"
)

// ErrUnavailable marks a failed call to an external generation backend.
var ErrUnavailable = errors.New("generation backend unavailable")

// Tags identifying which backend produced an answer, recorded on responses.
const (
	TagEcho   = "echo"
	TagOpenAI = "openai"
)

// Generator produces free text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
