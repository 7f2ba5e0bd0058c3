package ruleset

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/default.yaml
var defaultRuleset []byte

var (
	// ErrUnknownPhase is returned when a phase id is not defined.
	ErrUnknownPhase = errors.New("unknown phase")
	// ErrInvalid wraps every cross-reference problem found by Validate.
	ErrInvalid = errors.New("invalid ruleset")
)

// TextVariants holds one or more templates for a text_ref. A plain scalar
// decodes as a single variant.
type TextVariants []string

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (t *TextVariants) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*t = TextVariants{node.Value}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*t = list
	return nil
}

// Default returns the ruleset shipped with the game.
func Default() (*Ruleset, error) {
	return Parse(defaultRuleset)
}

// Load reads a ruleset from a YAML file.
func Load(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ruleset: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML ruleset.
func Parse(data []byte) (*Ruleset, error) {
	var r Ruleset
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse ruleset: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks the cross references between sections.
func (r *Ruleset) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	for id, item := range r.Items {
		for _, ing := range item.Recipe {
			if _, ok := r.Items[ing.Item]; !ok {
				bad("item %q: recipe ingredient %q is not an item", id, ing.Item)
			}
			if ing.Quantity <= 0 {
				bad("item %q: recipe quantity for %q must be positive", id, ing.Item)
			}
		}
		if c := item.Effects.CleaveAttack; c != nil && c.Targets.Min > c.Targets.Max {
			bad("item %q: cleave targets min > max", id)
		}
	}

	if len(r.Phases) == 0 {
		bad("no phases defined")
	}
	for _, phase := range r.Phases {
		for _, typ := range phase.NoiseSpawnPool {
			if _, ok := r.Monsters[typ]; !ok {
				bad("phase %q: noise pool monster %q is not defined", phase.ID, typ)
			}
		}
		for _, ev := range phase.Events {
			for _, sp := range ev.Effect.Spawn {
				for _, typ := range append([]string{sp.Monster}, sp.BossPool...) {
					if typ == "" {
						continue
					}
					if _, ok := r.Monsters[typ]; !ok {
						bad("phase %q: spawn monster %q is not defined", phase.ID, typ)
					}
				}
			}
		}
	}

	if _, ok := r.Phase(r.InitialState.World.CurrentPhaseID); !ok {
		errs = append(errs, fmt.Errorf("%w: initial phase %q", ErrUnknownPhase, r.InitialState.World.CurrentPhaseID))
	}
	if _, ok := r.Locations[r.InitialState.World.CurrentLocation]; !ok {
		bad("initial location %q is not defined", r.InitialState.World.CurrentLocation)
	}
	for _, typ := range r.Settings.Combat.ShootOrder {
		if _, ok := r.Monsters[typ]; !ok {
			bad("shoot order monster %q is not defined", typ)
		}
	}

	return errors.Join(errs...)
}
