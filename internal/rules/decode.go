package rules

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/samdwyer/delvegen/internal/logger"
)

// ConditionSpec is the JSON form of a condition tree.
//
//	{"all": [...]}
//	{"any": [...]}
//	{"key": "noise", "modifiers": [{"op": "mul", "value": 2}], "op": ">", "value": 0.5}
//	{"key": "depth", "op": "between", "min": 0.2, "max": 0.8}
//
// An empty object is an empty All and is always true.
type ConditionSpec struct {
	All       []ConditionSpec `json:"all,omitempty"`
	Any       []ConditionSpec `json:"any,omitempty"`
	Key       string          `json:"key,omitempty"`
	Modifiers []ModifierSpec  `json:"modifiers,omitempty"`
	Op        string          `json:"op,omitempty"`
	Value     float64         `json:"value,omitempty"`
	Min       float64         `json:"min,omitempty"`
	Max       float64         `json:"max,omitempty"`
}

// ModifierSpec is the JSON form of a modifier.
type ModifierSpec struct {
	Op    string  `json:"op"`
	Value float64 `json:"value,omitempty"`
}

// RuleSpec is the JSON form of a rule, or of an authoring group of rules when
// Group is set. Groups may nest and are flattened in order.
type RuleSpec struct {
	ID    string         `json:"id,omitempty"`
	Tile  string         `json:"tile,omitempty"`
	Layer string         `json:"layer,omitempty"`
	When  *ConditionSpec `json:"when,omitempty"`
	Group string         `json:"group,omitempty"`
	Rules []RuleSpec     `json:"rules,omitempty"`
}

// BiomeSpec is the JSON form of a biome.
type BiomeSpec struct {
	ID    string         `json:"id"`
	Spawn *ConditionSpec `json:"spawn,omitempty"`
	Rules []RuleSpec     `json:"rules"`
}

// Decoder converts specs into condition trees.
//
// In strict mode unknown value keys and modifiers are errors. Otherwise they are
// logged: unknown keys evaluate as 0 and unknown modifiers are dropped.
type Decoder struct {
	Strict bool
	Log    logrus.FieldLogger
}

func (d Decoder) log() logrus.FieldLogger {
	return logger.OrDiscard(d.Log)
}

// Condition builds a Node. A nil spec is always true.
func (d Decoder) Condition(spec *ConditionSpec) (Node, error) {
	if spec == nil {
		return All{}, nil
	}
	switch {
	case spec.Key != "":
		return d.leaf(spec)
	case spec.Any != nil:
		return d.children(spec.Any, func(n []Node) Node { return Any(n) })
	default:
		return d.children(spec.All, func(n []Node) Node { return All(n) })
	}
}

func (d Decoder) children(specs []ConditionSpec, wrap func([]Node) Node) (Node, error) {
	nodes := make([]Node, 0, len(specs))
	for i := range specs {
		n, err := d.Condition(&specs[i])
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return wrap(nodes), nil
}

func (d Decoder) leaf(spec *ConditionSpec) (Node, error) {
	key, ok := ParseKey(spec.Key)
	if !ok {
		if d.Strict {
			return nil, fmt.Errorf("unknown value key %q", spec.Key)
		}
		d.log().WithField("key", spec.Key).Warn("unknown value key, evaluating as 0")
	}

	cmp, err := ParseComparator(spec.Op)
	if err != nil {
		return nil, fmt.Errorf("key %q: %w", spec.Key, err)
	}

	mods := make([]Modifier, 0, len(spec.Modifiers))
	for _, m := range spec.Modifiers {
		op, err := ParseModOp(m.Op)
		if err != nil {
			if d.Strict {
				return nil, fmt.Errorf("key %q: %w", spec.Key, err)
			}
			d.log().WithField("modifier", m.Op).Warn("dropping unknown modifier")
			continue
		}
		mods = append(mods, Modifier{Op: op, Value: m.Value})
	}

	return Leaf{
		Key:       key,
		Modifiers: mods,
		Compare:   cmp,
		Threshold: spec.Value,
		Min:       spec.Min,
		Max:       spec.Max,
	}, nil
}

// Rules flattens groups and builds the ordered rule list.
func (d Decoder) Rules(specs []RuleSpec) ([]Rule, error) {
	var out []Rule
	if err := d.flatten(specs, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (d Decoder) flatten(specs []RuleSpec, out *[]Rule) error {
	for i := range specs {
		spec := &specs[i]
		if spec.Group != "" || (spec.Tile == "" && len(spec.Rules) > 0) {
			if err := d.flatten(spec.Rules, out); err != nil {
				return fmt.Errorf("group %q: %w", spec.Group, err)
			}
			continue
		}
		layer, err := ParseLayer(spec.Layer)
		if err != nil {
			return fmt.Errorf("rule %q: %w", spec.ID, err)
		}
		when, err := d.Condition(spec.When)
		if err != nil {
			return fmt.Errorf("rule %q: %w", spec.ID, err)
		}
		*out = append(*out, Rule{ID: spec.ID, Tile: spec.Tile, Layer: layer, When: when})
	}
	return nil
}

// Biomes builds an ordered biome set.
func (d Decoder) Biomes(specs []BiomeSpec) (BiomeSet, error) {
	set := make(BiomeSet, 0, len(specs))
	for i := range specs {
		spawn, err := d.Condition(specs[i].Spawn)
		if err != nil {
			return nil, fmt.Errorf("biome %q spawn: %w", specs[i].ID, err)
		}
		rules, err := d.Rules(specs[i].Rules)
		if err != nil {
			return nil, fmt.Errorf("biome %q: %w", specs[i].ID, err)
		}
		set = append(set, Biome{ID: specs[i].ID, Spawn: spawn, Rules: rules})
	}
	return set, nil
}
