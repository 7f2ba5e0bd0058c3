package ruleset

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Attack types.
const (
	AttackSingle     = "single"
	AttackCleave     = "cleave"
	AttackShoot      = "shoot"
	AttackIncinerate = "incinerate"
	AttackSpecial    = "special"
)

// Effect is one step of an action's effect map. The set of implementations
// is closed; UnknownEffect carries any key this version does not recognize.
type Effect interface {
	effectKind() string
}

// ItemQuantity pairs an item with a count.
type ItemQuantity struct {
	Item     string
	Quantity int
}

// StatDelta is an additive change to a named stat.
type StatDelta struct {
	Stat  string
	Delta int
}

// RandomItem grants a uniform draw in [Min, Max] units of Item.
type RandomItem struct {
	Item string
	Min  int
	Max  int
}

type (
	SetLocation      struct{ Location string }
	ChangeStat       struct{ Deltas []StatDelta }
	AddItems         struct{ Items []ItemQuantity }
	AddRandomItems   struct{ Items []RandomItem }
	RemoveItem       struct{ Item string }
	SetPlayerState   struct{ State string }
	SetToFalse       struct{ Flag string }
	AddScavengedFlag struct{ Location string }
	AddTrap          struct{ Gate string }
	Craft            struct{ Item string }
	Attack           struct{ Type string }
	Wait             struct {
		StaminaGain          int `yaml:"stamina_gain"`
		NoiseReduction       int `yaml:"noise_reduction"`
		HidingNoiseReduction int `yaml:"hiding_noise_reduction"`
	}
	UnknownEffect struct {
		Key string
		Raw any
	}
)

func (SetLocation) effectKind() string      { return "setLocation" }
func (ChangeStat) effectKind() string       { return "changeStat" }
func (AddItems) effectKind() string         { return "addItems" }
func (AddRandomItems) effectKind() string   { return "addRandomItems" }
func (RemoveItem) effectKind() string       { return "removeItem" }
func (SetPlayerState) effectKind() string   { return "setPlayerState" }
func (SetToFalse) effectKind() string       { return "setToFalse" }
func (AddScavengedFlag) effectKind() string { return "addScavengedFlag" }
func (AddTrap) effectKind() string          { return "addTrap" }
func (Craft) effectKind() string            { return "craft" }
func (Attack) effectKind() string           { return "attackType" }
func (Wait) effectKind() string             { return "wait" }
func (e UnknownEffect) effectKind() string  { return e.Key }

// EffectKind returns the data key an effect was declared with.
func EffectKind(e Effect) string {
	return e.effectKind()
}

// Effects is an action's effect map. Steps keeps declaration order; the
// attack companion fields and result_ref are data read by the steps, not
// steps themselves.
type Effects struct {
	Steps          []Effect
	ResultRef      string
	AttackTarget   string
	AttackBoss     string
	WeaponPriority []string
}

// Empty reports whether there is nothing to apply.
func (e Effects) Empty() bool {
	return len(e.Steps) == 0 && e.ResultRef == ""
}

// RemovedItem returns the item consumed by a removeItem step, if any.
func (e Effects) RemovedItem() string {
	for _, step := range e.Steps {
		if r, ok := step.(RemoveItem); ok {
			return r.Item
		}
	}
	return ""
}

// UnmarshalYAML decodes a mapping, keeping the order keys were declared in.
func (e *Effects) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: effects must be a mapping", node.Line)
	}
	var out Effects
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		var err error
		switch key {
		case "result_ref":
			err = value.Decode(&out.ResultRef)
		case "attackTarget":
			err = value.Decode(&out.AttackTarget)
		case "attackBoss":
			err = value.Decode(&out.AttackBoss)
		case "weaponPriority":
			err = value.Decode(&out.WeaponPriority)
		default:
			var step Effect
			step, err = decodeEffect(key, value)
			if err == nil {
				out.Steps = append(out.Steps, step)
			}
		}
		if err != nil {
			return fmt.Errorf("line %d: effect %q: %w", value.Line, key, err)
		}
	}
	*e = out
	return nil
}

func decodeEffect(key string, value *yaml.Node) (Effect, error) {
	switch key {
	case "setLocation":
		return decodeAs(value, func(loc string) Effect { return SetLocation{Location: loc} })
	case "changeStat":
		var deltas []StatDelta
		err := eachPair(value, func(k string, v *yaml.Node) error {
			var n int
			if err := v.Decode(&n); err != nil {
				return err
			}
			deltas = append(deltas, StatDelta{Stat: k, Delta: n})
			return nil
		})
		return ChangeStat{Deltas: deltas}, err
	case "addItems":
		items, err := decodeQuantities(value)
		return AddItems{Items: items}, err
	case "addRandomItems":
		var items []RandomItem
		err := eachPair(value, func(k string, v *yaml.Node) error {
			var r Range
			if err := v.Decode(&r); err != nil {
				return err
			}
			items = append(items, RandomItem{Item: k, Min: r.Min, Max: r.Max})
			return nil
		})
		return AddRandomItems{Items: items}, err
	case "removeItem":
		return decodeAs(value, func(item string) Effect { return RemoveItem{Item: item} })
	case "setPlayerState":
		return decodeAs(value, func(state string) Effect { return SetPlayerState{State: state} })
	case "setToFalse":
		return decodeAs(value, func(flag string) Effect { return SetToFalse{Flag: flag} })
	case "addScavengedFlag":
		return decodeAs(value, func(loc string) Effect { return AddScavengedFlag{Location: loc} })
	case "addTrap":
		return decodeAs(value, func(gate string) Effect { return AddTrap{Gate: gate} })
	case "craft":
		return decodeAs(value, func(item string) Effect { return Craft{Item: item} })
	case "attackType":
		return decodeAs(value, func(typ string) Effect { return Attack{Type: typ} })
	case "wait":
		return decodeAs(value, func(w Wait) Effect { return w })
	default:
		return decodeAs(value, func(raw any) Effect { return UnknownEffect{Key: key, Raw: raw} })
	}
}

// decodeQuantities decodes an item -> quantity mapping in declaration order.
func decodeQuantities(node *yaml.Node) ([]ItemQuantity, error) {
	var items []ItemQuantity
	err := eachPair(node, func(k string, v *yaml.Node) error {
		var n int
		if err := v.Decode(&n); err != nil {
			return err
		}
		items = append(items, ItemQuantity{Item: k, Quantity: n})
		return nil
	})
	return items, err
}

func eachPair(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}
