// Package autoplay picks actions for unattended games.
package autoplay

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/frozen4917/What-Comes-At-Night/internal/engine"
	"github.com/frozen4917/What-Comes-At-Night/internal/models"
)

// ErrNoActions is returned when there is nothing to choose from.
var ErrNoActions = errors.New("no actions available")

// Chooser picks one of the available actions and returns its index.
type Chooser interface {
	Choose(ctx context.Context, s *models.GameState, actions []engine.Action) (int, error)
}

// Observer is implemented by choosers that want the narration of each turn.
type Observer interface {
	Observe(narration string)
}

// RandomChooser picks uniformly at random.
type RandomChooser struct {
	rng *rand.Rand
}

// NewRandomChooser returns a chooser seeded with seed.
func NewRandomChooser(seed uint64) *RandomChooser {
	return &RandomChooser{rng: rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d))}
}

func (c *RandomChooser) Choose(ctx context.Context, _ *models.GameState, actions []engine.Action) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(actions) == 0 {
		return 0, ErrNoActions
	}
	return c.rng.IntN(len(actions)), nil
}
