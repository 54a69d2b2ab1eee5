package world

import (
	"errors"
	"fmt"
)

// TileDef describes one palette entry.
type TileDef struct {
	Tile     Tile
	Name     string
	Glyph    rune
	Color    string // Hex colour, e.g. "#7A6A5A"
	Category Category
}

// Palette maps tile names to tile values and back. It is read-only once built.
type Palette struct {
	defs       []TileDef
	byName     map[string]int
	byTile     map[Tile]int
	wall       Tile
	background Tile
}

// NewPalette builds a palette from definitions. Tile values must be unique and
// must not collide with Empty or the override values.
func NewPalette(defs []TileDef, wall, background string) (*Palette, error) {
	p := &Palette{
		defs:   make([]TileDef, 0, len(defs)),
		byName: make(map[string]int, len(defs)),
		byTile: make(map[Tile]int, len(defs)),
	}
	for _, d := range defs {
		if d.Tile == Empty || d.Tile.IsOverride() {
			return nil, fmt.Errorf("tile %q uses reserved value %d", d.Name, d.Tile)
		}
		if d.Name == "" {
			return nil, errors.New("tile definition without a name")
		}
		if _, dup := p.byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate tile name %q", d.Name)
		}
		if _, dup := p.byTile[d.Tile]; dup {
			return nil, fmt.Errorf("duplicate tile value %d (%s)", d.Tile, d.Name)
		}
		p.byName[d.Name] = len(p.defs)
		p.byTile[d.Tile] = len(p.defs)
		p.defs = append(p.defs, d)
	}

	var ok bool
	if p.wall, ok = p.Lookup(wall); !ok {
		return nil, fmt.Errorf("default wall tile %q not in palette", wall)
	}
	if p.background, ok = p.Lookup(background); !ok {
		return nil, fmt.Errorf("default background tile %q not in palette", background)
	}
	return p, nil
}

// Lookup returns the tile for a name. "empty" always maps to Empty.
func (p *Palette) Lookup(name string) (Tile, bool) {
	if name == "empty" {
		return Empty, true
	}
	i, ok := p.byName[name]
	if !ok {
		return Empty, false
	}
	return p.defs[i].Tile, true
}

// Def returns the definition for a tile, or false for Empty and unknown values.
func (p *Palette) Def(t Tile) (TileDef, bool) {
	i, ok := p.byTile[t]
	if !ok {
		return TileDef{}, false
	}
	return p.defs[i], true
}

// Name returns the tile name, "empty" for Empty and "?" for unknown values.
func (p *Palette) Name(t Tile) string {
	if t == Empty {
		return "empty"
	}
	if d, ok := p.Def(t); ok {
		return d.Name
	}
	return "?"
}

// Category returns the category of a tile. Empty and unknown tiles are background.
func (p *Palette) Category(t Tile) Category {
	if d, ok := p.Def(t); ok {
		return d.Category
	}
	if t == Empty {
		return CategoryBackground
	}
	return CategorySolid
}

// DefaultWall is the wall used when no corridor rule matches.
func (p *Palette) DefaultWall() Tile { return p.wall }

// DefaultBackground is the background used when nothing else applies.
func (p *Palette) DefaultBackground() Tile { return p.background }

// All returns the definitions in declaration order.
func (p *Palette) All() []TileDef {
	return p.defs
}
