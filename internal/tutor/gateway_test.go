package tutor

import (
	"context"
	"errors"
	"iter"
	"strings"
	"testing"

	"github.com/ashpool37/pytutor-server/internal/curriculum"
	"github.com/ashpool37/pytutor-server/internal/domain"
)

type fakeGenerator struct {
	response  string
	err       error
	chunks    []string
	streamErr error
	prompts   []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeGenerator) GenerateStream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	f.prompts = append(f.prompts, prompt)
	return func(yield func(string, error) bool) {
		for _, c := range f.chunks {
			if !yield(c, nil) {
				return
			}
		}
		if f.streamErr != nil {
			yield("", f.streamErr)
		}
	}
}

func conceptTopic(t *testing.T) *curriculum.Topic {
	t.Helper()
	topic, err := curriculum.Find("intro", "syntax")
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	return topic
}

func projectTopic(t *testing.T) *curriculum.Topic {
	t.Helper()
	topic, err := curriculum.Find("real_world_projects", "p1_hello")
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	return topic
}

func TestGateway_GreetReturnsModelMessage(t *testing.T) {
	gen := &fakeGenerator{response: "欢迎学习语法！"}
	g := NewGateway(gen)

	msg := g.Greet(context.Background(), conceptTopic(t))
	if msg.Role != domain.RoleModel {
		t.Errorf("Expected model role, got %s", msg.Role)
	}
	if msg.Text != "欢迎学习语法！" {
		t.Errorf("Expected generated text, got %q", msg.Text)
	}
	if msg.ID == "" {
		t.Error("Expected a minted message id")
	}
}

func TestGateway_GreetFallbackOnFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("boom")}
	g := NewGateway(gen)

	msg := g.Greet(context.Background(), conceptTopic(t))
	if msg.Text != greetingFallback {
		t.Errorf("Expected fallback apology, got %q", msg.Text)
	}
	if msg.Role != domain.RoleModel {
		t.Errorf("Expected model role on fallback, got %s", msg.Role)
	}
}

func TestGateway_GreetPromptVariesByCategory(t *testing.T) {
	gen := &fakeGenerator{response: "ok"}
	g := NewGateway(gen)

	g.Greet(context.Background(), conceptTopic(t))
	g.Greet(context.Background(), projectTopic(t))

	if len(gen.prompts) != 2 {
		t.Fatalf("Expected 2 prompts, got %d", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], "老师") || strings.Contains(gen.prompts[0], "项目导师") {
		t.Errorf("Expected concept framing for a concept topic, got %q", gen.prompts[0])
	}
	if !strings.Contains(gen.prompts[1], "项目导师") {
		t.Errorf("Expected project framing for a project topic, got %q", gen.prompts[1])
	}
}

func TestGateway_ChatTurnPromptEmbedsContext(t *testing.T) {
	gen := &fakeGenerator{response: "继续加油"}
	g := NewGateway(gen)
	topic := conceptTopic(t)

	history := []domain.ChatMessage{
		domain.NewMessage(domain.RoleModel, "welcome"),
		domain.NewMessage(domain.RoleUser, "why does this fail?"),
	}
	msg := g.ChatTurn(context.Background(), topic, "x = 1\nprint(x)", history, "why does this fail?")

	if msg.Text != "继续加油" {
		t.Errorf("Expected generated reply, got %q", msg.Text)
	}
	prompt := gen.prompts[0]
	for _, want := range []string{topic.Title, "x = 1\nprint(x)", "Model: welcome", "User: why does this fail?"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q, got %q", want, prompt)
		}
	}
}

func TestGateway_ChatTurnFallbackOnFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("network down")}
	g := NewGateway(gen)

	msg := g.ChatTurn(context.Background(), conceptTopic(t), "", nil, "hello")
	if msg.Text != chatFallback {
		t.Errorf("Expected fallback reply, got %q", msg.Text)
	}
}

func TestGateway_StreamingAccumulation(t *testing.T) {
	gen := &fakeGenerator{chunks: []string{"Hel", "lo", " World"}}
	g := NewGateway(gen)

	var out strings.Builder
	for chunk, err := range g.NarrateExecution(context.Background(), "print('hi')") {
		if err != nil {
			t.Fatalf("Unexpected stream error: %v", err)
		}
		out.WriteString(chunk)
	}
	if out.String() != "Hello World" {
		t.Errorf("Expected chunks accumulated in arrival order, got %q", out.String())
	}
}

func TestGateway_StreamingPartialFailureKeepsChunks(t *testing.T) {
	gen := &fakeGenerator{chunks: []string{"Hel", "lo"}, streamErr: errors.New("connection reset")}
	g := NewGateway(gen)

	var out strings.Builder
	for chunk, err := range g.NarrateExecution(context.Background(), "print('hi')") {
		if err != nil {
			out.WriteString(RunFailureSuffix(err))
			break
		}
		out.WriteString(chunk)
	}

	got := out.String()
	if !strings.HasPrefix(got, "Hello") {
		t.Errorf("Expected partial output retained, got %q", got)
	}
	if !strings.Contains(got, "[系统提示]") {
		t.Errorf("Expected diagnostic suffix appended, got %q", got)
	}
	if !strings.Contains(got, "connection reset") {
		t.Errorf("Expected suffix to carry the error detail, got %q", got)
	}
}

func TestGateway_ExecutionPromptShape(t *testing.T) {
	gen := &fakeGenerator{chunks: []string{"1\n"}}
	g := NewGateway(gen)

	for range g.NarrateExecution(context.Background(), "print(1)") {
	}
	prompt := gen.prompts[0]
	for _, want := range []string{"Act as a Python interpreter", "print(1)", "错误分析", "修正代码", tracebackDivider} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected execution prompt to contain %q", want)
		}
	}
}
