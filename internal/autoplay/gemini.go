package autoplay

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"github.com/frozen4917/What-Comes-At-Night/internal/engine"
	"github.com/frozen4917/What-Comes-At-Night/internal/models"
	"github.com/frozen4917/What-Comes-At-Night/internal/narrative"
	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

//go:embed prompts/choose_action.txt
var chooseActionPrompt string

const defaultModel = "gemini-2.5-flash"

var firstNumber = regexp.MustCompile(`\d+`)

var promptTmpl = template.Must(template.New("choose_action").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	Parse(chooseActionPrompt))

// generator is the part of *genai.GenerativeModel the chooser uses.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiChooser asks a Gemini model to play.
type GeminiChooser struct {
	client    *genai.Client
	model     generator
	renderer  *narrative.Renderer
	logger    *zap.Logger
	narration string
}

// NewGeminiChooser connects to Gemini with apiKey. Action labels and
// details are rendered with r.
func NewGeminiChooser(ctx context.Context, apiKey string, r *narrative.Renderer, logger *zap.Logger) (*GeminiChooser, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := client.GenerativeModel(defaultModel)
	model.SetTemperature(0.7)
	return &GeminiChooser{client: client, model: model, renderer: r, logger: logger}, nil
}

// Close releases the Gemini client.
func (c *GeminiChooser) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Observe records the narration shown before the next choice.
func (c *GeminiChooser) Observe(narration string) {
	c.narration = narration
}

func (c *GeminiChooser) Choose(ctx context.Context, s *models.GameState, actions []engine.Action) (int, error) {
	if len(actions) == 0 {
		return 0, ErrNoActions
	}
	prompt, err := c.prompt(s, actions)
	if err != nil {
		return 0, err
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return 0, fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		c.logger.Warn("empty response from gemini, taking the first action")
		return 0, nil
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		c.logger.Warn("unexpected response part from gemini, taking the first action")
		return 0, nil
	}

	i, ok := parseChoice(string(text), len(actions))
	if !ok {
		c.logger.Warn("unparsable choice, taking the first action", zap.String("reply", string(text)))
	}
	return i, nil
}

type promptAction struct {
	Label   string
	Details string
}

func (c *GeminiChooser) prompt(s *models.GameState, actions []engine.Action) (string, error) {
	data := struct {
		Phase            string
		ActionsRemaining int
		Location         string
		Health           int
		Stamina          int
		Noise            int
		Inventory        string
		Monsters         string
		Narration        string
		Actions          []promptAction
	}{
		Phase:            s.World.CurrentPhaseID,
		ActionsRemaining: s.World.ActionsRemaining,
		Location:         s.World.CurrentLocation,
		Health:           s.Player.Health,
		Stamina:          s.Player.Stamina,
		Noise:            s.World.Noise,
		Inventory:        summarize(s.Player.Inventory),
		Monsters:         summarize(s.Horde.Counts()),
		Narration:        c.narration,
	}
	for _, a := range actions {
		label := c.renderer.Text(a.TextRef)
		if label == "" {
			label = a.ID
		}
		details := strings.ReplaceAll(c.renderer.Tooltip(a, s), "\n", "; ")
		data.Actions = append(data.Actions, promptAction{Label: label, Details: details})
	}

	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// parseChoice reads the first integer of reply as a 1-based action number.
// It falls back to the first action when there is none or it is out of range.
func parseChoice(reply string, n int) (int, bool) {
	m := firstNumber.FindString(reply)
	if m == "" {
		return 0, false
	}
	k, err := strconv.Atoi(m)
	if err != nil || k < 1 || k > n {
		return 0, false
	}
	return k - 1, true
}

func summarize(counts map[string]int) string {
	var parts []string
	for _, k := range slices.Sorted(maps.Keys(counts)) {
		if counts[k] > 0 {
			parts = append(parts, fmt.Sprintf("%s x%d", k, counts[k]))
		}
	}
	return strings.Join(parts, ", ")
}
