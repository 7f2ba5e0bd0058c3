package autoplay

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/frozen4917/What-Comes-At-Night/internal/engine"
	"github.com/frozen4917/What-Comes-At-Night/internal/models"
	"github.com/frozen4917/What-Comes-At-Night/internal/narrative"
	"github.com/frozen4917/What-Comes-At-Night/internal/ruleset"
	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		reply string
		want  int
		ok    bool
	}{
		{"3", 2, true},
		{"I choose 2.", 1, true},
		{"  1\n", 0, true},
		{"7", 0, false},
		{"0", 0, false},
		{"wait", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseChoice(tt.reply, 4)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseChoice(%q): expected (%d, %v), got (%d, %v)", tt.reply, tt.want, tt.ok, got, ok)
		}
	}
}

func TestRandomChooser(t *testing.T) {
	actions := make([]engine.Action, 5)
	a, b := NewRandomChooser(3), NewRandomChooser(3)
	for range 50 {
		i, err := a.Choose(context.Background(), nil, actions)
		if err != nil {
			t.Fatalf("Choose failed: %v", err)
		}
		if i < 0 || i >= len(actions) {
			t.Fatalf("Choice %d out of range", i)
		}
		if j, _ := b.Choose(context.Background(), nil, actions); i != j {
			t.Fatalf("Expected equal seeds to agree, got %d and %d", i, j)
		}
	}
	if _, err := a.Choose(context.Background(), nil, nil); !errors.Is(err, ErrNoActions) {
		t.Errorf("Expected ErrNoActions, got %v", err)
	}
}

type fakeModel struct {
	reply  string
	prompt string
}

func (f *fakeModel) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.prompt = string(parts[0].(genai.Text))
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Text(f.reply)}}}},
	}, nil
}

func TestGeminiChooser(t *testing.T) {
	r, err := ruleset.Default()
	if err != nil {
		t.Fatalf("Failed to load default ruleset: %v", err)
	}
	e := engine.New(r, engine.WithSeed(1))
	s, err := e.NewGame()
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	actions := e.AvailableActions(s)

	core, logs := observer.New(zap.WarnLevel)
	fake := &fakeModel{reply: "2"}
	c := &GeminiChooser{model: fake, renderer: narrative.New(r), logger: zap.New(core)}
	c.Observe("The sun is setting.")

	i, err := c.Choose(context.Background(), s, actions)
	if err != nil {
		t.Fatalf("Choose failed: %v", err)
	}
	if i != 1 {
		t.Errorf("Expected the second action, got %d", i)
	}
	for _, want := range []string{"The sun is setting.", "Health: 100", "1. ", "Reply with ONLY the number"} {
		if !strings.Contains(fake.prompt, want) {
			t.Errorf("Expected the prompt to contain %q:\n%s", want, fake.prompt)
		}
	}

	fake.reply = "Let me think about it"
	if i, err := c.Choose(context.Background(), s, actions); err != nil || i != 0 {
		t.Errorf("Expected a fallback to the first action, got %d (%v)", i, err)
	}
	if logs.FilterMessage("unparsable choice, taking the first action").Len() != 1 {
		t.Errorf("Expected the fallback to be logged")
	}
}

func TestGeminiChooserNoActions(t *testing.T) {
	c := &GeminiChooser{model: &fakeModel{}, logger: zap.NewNop()}
	if _, err := c.Choose(context.Background(), &models.GameState{}, nil); !errors.Is(err, ErrNoActions) {
		t.Errorf("Expected ErrNoActions, got %v", err)
	}
}
