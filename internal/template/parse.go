package template

import (
	"fmt"

	"github.com/samdwyer/delvegen/internal/world"
)

// Reserved glyphs in the ASCII authoring format.
const (
	GlyphEmpty         = '.'
	GlyphForcePassable = '+'
	GlyphForceSolid    = 'X'
)

// GlyphFunc maps an authoring glyph to a palette tile.
type GlyphFunc func(r rune) (world.Tile, bool)

// FromRows builds a template from ASCII rows. All rows must have the same width.
func FromRows(id string, rows []string, glyph GlyphFunc, cat Categorizer, fallbackBackground world.Tile) (*Template, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("template %q: no rows", id)
	}
	width := len([]rune(rows[0]))
	cells := make([]world.Tile, 0, width*len(rows))
	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("template %q: row %d has width %d, want %d", id, y, len(runes), width)
		}
		for x, r := range runes {
			switch r {
			case GlyphEmpty:
				cells = append(cells, world.Empty)
			case GlyphForcePassable:
				cells = append(cells, world.ForcePassable)
			case GlyphForceSolid:
				cells = append(cells, world.ForceSolid)
			default:
				t, ok := glyph(r)
				if !ok {
					return nil, fmt.Errorf("template %q: unknown glyph %q at (%d,%d)", id, r, x, y)
				}
				cells = append(cells, t)
			}
		}
	}
	return New(id, width, len(rows), cells, cat, fallbackBackground)
}
