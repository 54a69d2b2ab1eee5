// Package template holds immutable room templates and the analysis computed for
// them once at load: boundary openings and the tile style summary.
package template

import (
	"fmt"

	"github.com/samdwyer/delvegen/internal/world"
)

// Categorizer reports the general category of a tile.
type Categorizer interface {
	Category(t world.Tile) world.Category
}

// Template is a pre-authored room. It must not be mutated after New.
type Template struct {
	ID       string
	Width    int
	Height   int
	Cells    []world.Tile // row-major, len = Width*Height
	Openings []Opening
	Style    Style
}

// New validates the cell grid and computes openings and style.
// fallbackBackground is used when no background-like tile appears in the template.
func New(id string, width, height int, cells []world.Tile, cat Categorizer, fallbackBackground world.Tile) (*Template, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("template %q: invalid size %dx%d", id, width, height)
	}
	if len(cells) != width*height {
		return nil, fmt.Errorf("template %q: %d cells for %dx%d grid", id, len(cells), width, height)
	}
	own := make([]world.Tile, len(cells))
	copy(own, cells)

	return &Template{
		ID:       id,
		Width:    width,
		Height:   height,
		Cells:    own,
		Openings: DetectOpenings(width, height, own, cat),
		Style:    AnalyzeStyle(own, cat, fallbackBackground),
	}, nil
}

// At returns the cell at (x, y), or world.Empty outside the template.
func (t *Template) At(x, y int) world.Tile {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return world.Empty
	}
	return t.Cells[y*t.Width+x]
}

// OpeningsOn returns the indexes of openings touching edge.
func (t *Template) OpeningsOn(edge Edge) []int {
	var out []int
	for i, o := range t.Openings {
		if o.Touches(edge) {
			out = append(out, i)
		}
	}
	return out
}

// HasEdge reports whether any opening touches edge.
func (t *Template) HasEdge(edge Edge) bool {
	return len(t.OpeningsOn(edge)) > 0
}
