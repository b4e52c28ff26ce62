// Package tutor adapts session state into generation-service requests and
// folds the results back into chat messages and terminal output.
package tutor

import (
	"context"
	"errors"
	"iter"
)

// ErrUnavailable is returned when no generation service is configured.
var ErrUnavailable = errors.New("generation service unavailable")

// Generator is the outbound text-completion contract. Generate returns
// the whole completion; GenerateStream yields text fragments in arrival
// order as a finite, non-restartable sequence. Abandoning the sequence is
// the only way to stop consuming; there is no protocol-level cancel.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateStream(ctx context.Context, prompt string) iter.Seq2[string, error]
}

// Disabled is a Generator that always fails, used when no API key is
// configured so every tutor call degrades to its fallback message.
type Disabled struct{}

var _ Generator = Disabled{}

func (Disabled) Generate(ctx context.Context, prompt string) (string, error) {
	return "", ErrUnavailable
}

func (Disabled) GenerateStream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		yield("", ErrUnavailable)
	}
}
