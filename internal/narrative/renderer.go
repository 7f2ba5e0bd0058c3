// Package narrative turns the engine's message records into player-facing
// text. Texts are Go templates stored in the ruleset; a text_ref may carry
// several variants, one of which is picked at random each time.
package narrative

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"strings"
	"text/template"

	"github.com/frozen4917/What-Comes-At-Night/internal/models"
	"github.com/frozen4917/What-Comes-At-Night/internal/ruleset"
	"go.uber.org/zap"
)

// Rand picks text variants.
type Rand interface {
	IntN(n int) int
}

// Renderer renders text_refs against a ruleset.
type Renderer struct {
	rules  *ruleset.Ruleset
	rng    Rand
	logger *zap.Logger
	cache  map[string]*template.Template
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithRand sets the variant picker.
func WithRand(r Rand) Option {
	return func(rd *Renderer) { rd.rng = r }
}

// WithLogger sets the logger used for missing or broken texts.
func WithLogger(l *zap.Logger) Option {
	return func(rd *Renderer) { rd.logger = l }
}

// New returns a renderer for rules.
func New(rules *ruleset.Ruleset, opts ...Option) *Renderer {
	r := &Renderer{
		rules:  rules,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger: zap.NewNop(),
		cache:  make(map[string]*template.Template),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render renders one message. It reports false when the text is missing or
// fails to render.
func (r *Renderer) Render(msg models.Message) (string, bool) {
	return r.render(msg.TextRef, msg.Params, true)
}

// RenderAll renders msgs in order, skipping the ones that cannot be rendered.
func (r *Renderer) RenderAll(msgs []models.Message) []string {
	var out []string
	for _, msg := range msgs {
		if text, ok := r.Render(msg); ok {
			out = append(out, text)
		}
	}
	return out
}

// Text renders a text_ref without parameters, or "" if it is missing.
func (r *Renderer) Text(ref string) string {
	text, _ := r.render(ref, nil, true)
	return text
}

// optional renders a text_ref that is allowed to be absent.
func (r *Renderer) optional(ref string) (string, bool) {
	return r.render(ref, nil, false)
}

func (r *Renderer) render(ref string, params map[string]any, required bool) (string, bool) {
	variants := r.rules.Texts[ref]
	if len(variants) == 0 {
		if required {
			r.logger.Warn("missing text", zap.String("text_ref", ref))
		}
		return "", false
	}
	i := 0
	if len(variants) > 1 {
		i = r.rng.IntN(len(variants))
	}

	key := fmt.Sprintf("%s#%d", ref, i)
	tmpl, ok := r.cache[key]
	if !ok {
		var err error
		tmpl, err = template.New(key).Funcs(r.funcs()).Parse(variants[i])
		if err != nil {
			r.logger.Warn("bad text template", zap.String("text_ref", ref), zap.Error(err))
			return "", false
		}
		r.cache[key] = tmpl
	}

	if params == nil {
		params = map[string]any{}
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, params); err != nil {
		r.logger.Warn("render text", zap.String("text_ref", ref), zap.Error(err))
		return "", false
	}
	return b.String(), true
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"counted": r.counted,
		"listed":  r.listed,
		"place":   r.place,
	}
}

// counts accepts the monster -> count maps the engine emits, including the
// map[string]any form a decoded save produces.
func counts(v any) map[string]int {
	switch m := v.(type) {
	case map[string]int:
		return m
	case map[string]any:
		out := make(map[string]int, len(m))
		for k, n := range m {
			if i, ok := n.(int); ok {
				out[k] = i
			}
		}
		return out
	}
	return nil
}

func (r *Renderer) name(typ string, n int) string {
	name := r.rules.MonsterName(typ)
	switch {
	case n <= 1:
		return name
	case strings.HasSuffix(name, "h"):
		return name + "es"
	}
	return name + "s"
}

// counted formats {"zombie": 2, "spirit": 1} as "1 Spirit and 2 Zombies".
func (r *Renderer) counted(v any) string {
	m := counts(v)
	var parts []string
	for _, typ := range slices.Sorted(maps.Keys(m)) {
		if m[typ] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", m[typ], r.name(typ, m[typ])))
		}
	}
	return joinList(parts)
}

// listed formats {"zombie": 2, "spirit": 1} as "Spirit and Zombies".
func (r *Renderer) listed(v any) string {
	m := counts(v)
	var parts []string
	for _, typ := range slices.Sorted(maps.Keys(m)) {
		if m[typ] > 0 {
			parts = append(parts, r.name(typ, m[typ]))
		}
	}
	return joinList(parts)
}

// place returns the display name of a location or gate id.
func (r *Renderer) place(v any) string {
	id := fmt.Sprint(v)
	if text, ok := r.optional("place_" + id); ok {
		return text
	}
	if loc, ok := r.rules.Locations[id]; ok && loc.Name != "" {
		return loc.Name
	}
	return id
}

func joinList(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
}
