package tutor

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/ashpool37/pytutor-server/internal/curriculum"
	"github.com/ashpool37/pytutor-server/internal/domain"
)

// Gateway turns (topic, code, history) into generation requests and folds
// the results back into chat messages or narration chunks. It never
// touches session buffers: callers hand it values and merge the returned
// values back in themselves.
type Gateway struct {
	gen Generator
}

// NewGateway creates a gateway over the given generator.
func NewGateway(gen Generator) *Gateway {
	if gen == nil {
		gen = Disabled{}
	}
	return &Gateway{gen: gen}
}

// Greet produces the single introductory message for an empty chat
// buffer. On generation failure it returns a fallback apology message
// instead of an error; the session always gets exactly one message.
func (g *Gateway) Greet(ctx context.Context, topic *curriculum.Topic) domain.ChatMessage {
	text, err := g.gen.Generate(ctx, greetingPrompt(topic))
	if err != nil || text == "" {
		if err != nil {
			slog.Warn("tutor greeting failed", "topic_id", topic.ID, "error", err)
		}
		return domain.NewMessage(domain.RoleModel, greetingFallback)
	}
	return domain.NewMessage(domain.RoleModel, text)
}

// ChatTurn produces the assistant reply to userText given the current
// code buffer and the history that already includes the user's message.
// On failure it returns a fallback error message; there is no retry.
func (g *Gateway) ChatTurn(ctx context.Context, topic *curriculum.Topic, code string, history []domain.ChatMessage, userText string) domain.ChatMessage {
	text, err := g.gen.Generate(ctx, chatPrompt(topic, code, history, userText))
	if err != nil || text == "" {
		if err != nil {
			slog.Warn("tutor chat turn failed", "topic_id", topic.ID, "error", err)
		}
		return domain.NewMessage(domain.RoleModel, chatFallback)
	}
	return domain.NewMessage(domain.RoleModel, text)
}

// NarrateExecution streams a simulated interpreter run of code. Chunks
// arrive in order as a finite sequence; the sequence ends after yielding
// the first error. Partial output received before a failure remains
// valid; consumers append RunFailureSuffix instead of discarding it.
func (g *Gateway) NarrateExecution(ctx context.Context, code string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for chunk, err := range g.gen.GenerateStream(ctx, executionPrompt(code)) {
			if err != nil {
				slog.Warn("execution narration failed", "error", err)
				yield("", err)
				return
			}
			if chunk == "" {
				continue
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

// RunFailureSuffix is the diagnostic text appended to whatever partial
// narration output accumulated before a mid-stream failure.
func RunFailureSuffix(err error) string {
	return fmt.Sprintf(runFailureFormat, err)
}
