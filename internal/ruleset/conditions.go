package ruleset

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Condition is one predicate of an action's show_if list. The set of
// implementations is closed; UnknownCondition carries any kind this
// version does not recognize.
type Condition interface {
	conditionKind() string
}

type (
	GameModeIs         struct{ Mode string }
	MinStamina         struct{ Value int }
	HordeLocationNotIn struct{ Locations []string }
	HasItem            struct{ Item string }
	HasAnyItem         struct{ Items []string }
	HasItems           struct{ Items []ItemQuantity }
	AtLocation         struct{ Location string }
	IsTargetAdjacent   struct{}
	NotScavenged       struct{ Location string }
	FlagIsTrue         struct{ Flag string }
	FlagIsFalse        struct{ Flag string }
	// MonsterIsPresent covers both monsterIsPresent and bossIsPresent.
	MonsterIsPresent     struct{ Monster string }
	HordeSizeGreaterThan struct{ Size int }
	UnknownCondition     struct {
		Key string
		Raw any
	}
)

func (GameModeIs) conditionKind() string           { return "gameModeIs" }
func (MinStamina) conditionKind() string           { return "minStamina" }
func (HordeLocationNotIn) conditionKind() string   { return "hordeLocationNotIn" }
func (HasItem) conditionKind() string              { return "hasItem" }
func (HasAnyItem) conditionKind() string           { return "hasAnyItem" }
func (HasItems) conditionKind() string             { return "hasItems" }
func (AtLocation) conditionKind() string           { return "atLocation" }
func (IsTargetAdjacent) conditionKind() string     { return "isTargetAdjacent" }
func (NotScavenged) conditionKind() string         { return "notScavenged" }
func (FlagIsTrue) conditionKind() string           { return "flagIsTrue" }
func (FlagIsFalse) conditionKind() string          { return "flagIsFalse" }
func (MonsterIsPresent) conditionKind() string     { return "monsterIsPresent" }
func (HordeSizeGreaterThan) conditionKind() string { return "hordeSizeIsGreaterThan" }
func (c UnknownCondition) conditionKind() string   { return c.Key }

// Kind returns the data key a condition was declared with.
func Kind(c Condition) string {
	return c.conditionKind()
}

// Conditions is an ordered show_if list. All must hold.
type Conditions []Condition

// UnmarshalYAML decodes a sequence of single-key mappings.
func (cs *Conditions) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: show_if must be a list", node.Line)
	}
	out := make(Conditions, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			return fmt.Errorf("line %d: condition must be a single-key mapping", item.Line)
		}
		c, err := decodeCondition(item.Content[0].Value, item.Content[1])
		if err != nil {
			return fmt.Errorf("line %d: condition %q: %w", item.Line, item.Content[0].Value, err)
		}
		out = append(out, c)
	}
	*cs = out
	return nil
}

func decodeCondition(key string, value *yaml.Node) (Condition, error) {
	switch key {
	case "gameModeIs":
		return decodeAs(value, func(mode string) Condition { return GameModeIs{Mode: mode} })
	case "minStamina":
		return decodeAs(value, func(v int) Condition { return MinStamina{Value: v} })
	case "hordeLocationNotIn":
		return decodeAs(value, func(locs []string) Condition { return HordeLocationNotIn{Locations: locs} })
	case "hasItem":
		return decodeAs(value, func(item string) Condition { return HasItem{Item: item} })
	case "hasAnyItem":
		return decodeAs(value, func(items []string) Condition { return HasAnyItem{Items: items} })
	case "hasItems":
		items, err := decodeQuantities(value)
		if err != nil {
			return nil, err
		}
		return HasItems{Items: items}, nil
	case "atLocation":
		return decodeAs(value, func(loc string) Condition { return AtLocation{Location: loc} })
	case "isTargetAdjacent":
		return IsTargetAdjacent{}, nil
	case "notScavenged":
		return decodeAs(value, func(loc string) Condition { return NotScavenged{Location: loc} })
	case "flagIsTrue":
		return decodeAs(value, func(flag string) Condition { return FlagIsTrue{Flag: flag} })
	case "flagIsFalse":
		return decodeAs(value, func(flag string) Condition { return FlagIsFalse{Flag: flag} })
	case "monsterIsPresent", "bossIsPresent":
		return decodeAs(value, func(monster string) Condition { return MonsterIsPresent{Monster: monster} })
	case "hordeSizeIsGreaterThan":
		return decodeAs(value, func(n int) Condition { return HordeSizeGreaterThan{Size: n} })
	default:
		return decodeAs(value, func(raw any) Condition { return UnknownCondition{Key: key, Raw: raw} })
	}
}

// decodeAs decodes value into a T and wraps it.
func decodeAs[T, R any](value *yaml.Node, wrap func(T) R) (R, error) {
	var v T
	if err := value.Decode(&v); err != nil {
		var zero R
		return zero, err
	}
	return wrap(v), nil
}
