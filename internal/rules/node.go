package rules

import (
	"fmt"
	"math"
)

// Node is a condition tree: a Leaf, an All (AND) or an Any (OR).
type Node interface {
	isNode()
}

// All is true when every child is true. An empty All is true.
type All []Node

// Any is true when at least one child is true. An empty Any is true.
type Any []Node

func (All) isNode()  {}
func (Any) isNode()  {}
func (Leaf) isNode() {}

// ModOp is one step of a modifier chain.
type ModOp int

const (
	ModXScale ModOp = iota
	ModYScale
	ModMod
	ModMul
	ModDiv
	ModAdd
	ModSub
	ModPow
	ModFloor
	ModRound
	ModAbs
)

var modOpNames = map[string]ModOp{
	"xScale": ModXScale,
	"yScale": ModYScale,
	"mod":    ModMod,
	"mul":    ModMul,
	"div":    ModDiv,
	"add":    ModAdd,
	"sub":    ModSub,
	"pow":    ModPow,
	"floor":  ModFloor,
	"round":  ModRound,
	"abs":    ModAbs,
}

// ParseModOp returns the operation for a data-file name.
func ParseModOp(name string) (ModOp, error) {
	op, ok := modOpNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown modifier %q", name)
	}
	return op, nil
}

// Modifier transforms a sampled value before comparison.
type Modifier struct {
	Op    ModOp
	Value float64
}

// IsScale reports whether the modifier rescales the sampling position instead of the value.
func (m Modifier) IsScale() bool {
	return m.Op == ModXScale || m.Op == ModYScale
}

func (m Modifier) apply(v float64) float64 {
	switch m.Op {
	case ModMod:
		if m.Value == 0 {
			return v
		}
		r := math.Mod(v, m.Value)
		if r != 0 && (r < 0) != (m.Value < 0) {
			r += m.Value
		}
		return r
	case ModMul:
		return v * m.Value
	case ModDiv:
		if m.Value == 0 {
			return v
		}
		return v / m.Value
	case ModAdd:
		return v + m.Value
	case ModSub:
		return v - m.Value
	case ModPow:
		return math.Pow(v, m.Value)
	case ModFloor:
		return math.Floor(v)
	case ModRound:
		if m.Value <= 0 {
			return math.Round(v)
		}
		return math.Round(v/m.Value) * m.Value
	case ModAbs:
		return math.Abs(v)
	default:
		return v
	}
}

// Comparator is the final test applied to a modified value.
type Comparator int

const (
	CmpGreater Comparator = iota
	CmpLess
	CmpGreaterEq
	CmpLessEq
	CmpEqual
	CmpNotEqual
	CmpBetween
)

var comparatorNames = map[string]Comparator{
	">":       CmpGreater,
	"<":       CmpLess,
	">=":      CmpGreaterEq,
	"<=":      CmpLessEq,
	"==":      CmpEqual,
	"!=":      CmpNotEqual,
	"between": CmpBetween,
}

// ParseComparator returns the comparator for a data-file operator.
func ParseComparator(op string) (Comparator, error) {
	c, ok := comparatorNames[op]
	if !ok {
		return 0, fmt.Errorf("unknown comparator %q", op)
	}
	return c, nil
}

const equalEpsilon = 1e-9

// Leaf compares one context value, after its modifier chain, against a threshold or range.
type Leaf struct {
	Key       Key
	Modifiers []Modifier
	Compare   Comparator
	Threshold float64
	Min, Max  float64 // inclusive, only for CmpBetween
}

func (l Leaf) test(v float64) bool {
	switch l.Compare {
	case CmpGreater:
		return v > l.Threshold
	case CmpLess:
		return v < l.Threshold
	case CmpGreaterEq:
		return v >= l.Threshold
	case CmpLessEq:
		return v <= l.Threshold
	case CmpEqual:
		return math.Abs(v-l.Threshold) <= equalEpsilon
	case CmpNotEqual:
		return math.Abs(v-l.Threshold) > equalEpsilon
	case CmpBetween:
		return v >= l.Min && v <= l.Max
	default:
		return false
	}
}

// Sampler re-samples a noise-derived signal at an arbitrary position.
type Sampler interface {
	Sample(k Key, x, y float64) float64
}

// Evaluator evaluates condition trees. A nil Sampler disables re-sampling and
// scale modifiers then have no effect.
type Evaluator struct {
	Sampler Sampler
}

// Evaluate returns the truth of n for ctx. A nil node is true.
func (e *Evaluator) Evaluate(n Node, ctx *Context) bool {
	switch n := n.(type) {
	case nil:
		return true
	case Leaf:
		return e.leaf(n, ctx)
	case *Leaf:
		return e.leaf(*n, ctx)
	case All:
		for _, child := range n {
			if !e.Evaluate(child, ctx) {
				return false
			}
		}
		return true
	case Any:
		if len(n) == 0 {
			return true
		}
		for _, child := range n {
			if e.Evaluate(child, ctx) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Value returns the leaf's input after re-sampling and the modifier chain.
func (e *Evaluator) Value(l Leaf, ctx *Context) float64 {
	xs, ys := 1.0, 1.0
	for _, m := range l.Modifiers {
		switch m.Op {
		case ModXScale:
			xs *= m.Value
		case ModYScale:
			ys *= m.Value
		}
	}

	v := ctx.Value(l.Key)
	if l.Key.IsNoiseDerived() && (xs != 1 || ys != 1) && e.Sampler != nil {
		v = e.Sampler.Sample(l.Key, float64(ctx.X)*xs, float64(ctx.Y)*ys)
	}

	for _, m := range l.Modifiers {
		if m.IsScale() {
			continue
		}
		v = m.apply(v)
	}
	return v
}

func (e *Evaluator) leaf(l Leaf, ctx *Context) bool {
	return l.test(e.Value(l, ctx))
}
