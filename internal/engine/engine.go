// Package engine resolves a chosen action into state mutations and runs the
// monsters' side of each turn: spawning, despawning, traps, fortification
// attrition, boss moves and damage to the player.
//
// The engine owns no session state. Every call takes the *models.GameState it
// mutates and reports what happened only through that state's message queue,
// which the caller drains once per turn.
package engine

import (
	"maps"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/frozen4917/What-Comes-At-Night/internal/models"
	"github.com/frozen4917/What-Comes-At-Night/internal/ruleset"
	"go.uber.org/zap"
)

// Rand is the single source of randomness for a game. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// Engine applies a ruleset to game states.
type Engine struct {
	rules  *ruleset.Ruleset
	rng    Rand
	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithSeed seeds a PCG random source, making a game reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New returns an engine for rules.
func New(rules *ruleset.Ruleset, opts ...Option) *Engine {
	e := &Engine{
		rules:  rules,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the ruleset the engine plays by.
func (e *Engine) Rules() *ruleset.Ruleset {
	return e.rules
}

// between returns a uniform integer in [lo, hi].
func (e *Engine) between(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + e.rng.IntN(hi-lo+1)
}

// shuffle permutes n elements in place (Fisher-Yates).
func (e *Engine) shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, e.rng.IntN(i+1))
	}
}

// scaled applies the enfeeble multiplier to player-dealt damage.
func (e *Engine) scaled(damage int, enfeebled bool) int {
	if !enfeebled {
		return damage
	}
	return int(math.Floor(float64(damage) * e.rules.Settings.Player.EnfeebleMultiplier))
}

func monsterTypes(h models.Horde) []string {
	return slices.Sorted(maps.Keys(h))
}

// allMonsters flattens the horde in a stable type order. The pointers stay
// valid until the horde's slices are next modified.
func allMonsters(h models.Horde) []*models.MonsterInstance {
	var out []*models.MonsterInstance
	for _, typ := range monsterTypes(h) {
		list := h[typ]
		for i := range list {
			out = append(out, &list[i])
		}
	}
	return out
}

func setFlag(s *models.GameState, flag string, v bool) {
	if s.World.Flags == nil {
		s.World.Flags = make(map[string]bool)
	}
	s.World.Flags[flag] = v
}
