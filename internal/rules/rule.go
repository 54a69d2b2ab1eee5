package rules

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/samdwyer/delvegen/internal/logger"
	"github.com/samdwyer/delvegen/internal/world"
)

// Layer selects which grid layer a rule writes.
type Layer int

const (
	Foreground Layer = iota
	Background
)

// ParseLayer converts a data-file layer name.
func ParseLayer(s string) (Layer, error) {
	switch s {
	case "foreground", "fg", "":
		return Foreground, nil
	case "background", "bg":
		return Background, nil
	default:
		return Foreground, fmt.Errorf("unknown layer %q", s)
	}
}

// String returns the data-file name of the layer.
func (l Layer) String() string {
	if l == Background {
		return "background"
	}
	return "foreground"
}

// Rule places a named tile on a layer when its condition holds.
type Rule struct {
	ID    string
	Tile  string
	Layer Layer
	When  Node
}

// Biome is a region classifier with a spawn condition and ordered tile rules.
type Biome struct {
	ID    string
	Spawn Node
	Rules []Rule
}

// BiomeSet is an ordered biome list. The first biome whose spawn condition holds wins.
type BiomeSet []Biome

// FirstRule returns the first rule for layer whose condition holds.
func (e *Evaluator) FirstRule(rules []Rule, layer Layer, ctx *Context) (*Rule, bool) {
	for i := range rules {
		if rules[i].Layer != layer {
			continue
		}
		if e.Evaluate(rules[i].When, ctx) {
			return &rules[i], true
		}
	}
	return nil, false
}

// FirstBiome returns the first biome whose spawn condition holds.
func (e *Evaluator) FirstBiome(biomes BiomeSet, ctx *Context) (*Biome, bool) {
	for i := range biomes {
		if e.Evaluate(biomes[i].Spawn, ctx) {
			return &biomes[i], true
		}
	}
	return nil, false
}

// Resolver turns rule matches into palette tiles. It is not safe for concurrent use;
// each generation run owns one.
type Resolver struct {
	eval    *Evaluator
	palette *world.Palette
	log     logrus.FieldLogger
	cache   map[string]world.Tile
	missing map[string]bool
}

// NewResolver creates a resolver. log may be nil.
func NewResolver(eval *Evaluator, palette *world.Palette, log logrus.FieldLogger) *Resolver {
	return &Resolver{
		eval:    eval,
		palette: palette,
		log:     logger.OrDiscard(log),
		cache:   make(map[string]world.Tile),
		missing: make(map[string]bool),
	}
}

// Evaluator returns the evaluator used by the resolver.
func (r *Resolver) Evaluator() *Evaluator {
	return r.eval
}

// Biome resolves the active biome for ctx.
func (r *Resolver) Biome(biomes BiomeSet, ctx *Context) (*Biome, bool) {
	return r.eval.FirstBiome(biomes, ctx)
}

// Tile resolves the tile for layer. The boolean is false when no rule matched;
// the caller then supplies its own fallback. A matched rule naming an unknown
// tile resolves to world.Empty.
func (r *Resolver) Tile(rules []Rule, layer Layer, ctx *Context) (world.Tile, bool) {
	rule, ok := r.eval.FirstRule(rules, layer, ctx)
	if !ok {
		return world.Empty, false
	}
	return r.Lookup(rule.Tile), true
}

// Lookup maps a tile name through the palette, logging unknown names once.
func (r *Resolver) Lookup(name string) world.Tile {
	if t, ok := r.cache[name]; ok {
		return t
	}
	t, ok := r.palette.Lookup(name)
	if !ok && !r.missing[name] {
		r.missing[name] = true
		r.log.WithField("tile", name).Warn("unknown tile name, using empty")
	}
	r.cache[name] = t
	return t
}
