package gamedata

import (
	"fmt"
	"io/fs"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/delvegen/internal/world"
)

// TileDef defines a palette tile loaded from JSON.
type TileDef struct {
	ID       int    `json:"id"`       // Tile value, must be non-zero and unique
	Name     string `json:"name"`     // Name used by rules (e.g., "stone")
	Glyph    string `json:"glyph"`    // Single character for rendering and templates (e.g., "#")
	Color    string `json:"color"`    // Hex color code (e.g., "#7A6A5A")
	Category string `json:"category"` // solid, background, decor or liquid
}

// GlyphRune returns the glyph as a rune for rendering.
func (d *TileDef) GlyphRune() rune {
	for _, r := range d.Glyph {
		return r
	}
	return '?'
}

// TilesFile represents the structure of tiles.json.
type TilesFile struct {
	Wall       string    `json:"wall"`       // Default wall tile name
	Background string    `json:"background"` // Default background tile name
	Tiles      []TileDef `json:"tiles"`
}

// LoadPalette builds a palette from tiles.json in fsys.
func LoadPalette(fsys fs.FS) (*world.Palette, error) {
	file, err := LoadFrom[TilesFile](fsys, "tiles.json")
	if err != nil {
		return nil, err
	}
	return file.Palette()
}

// Palette converts the file into a world.Palette.
func (f TilesFile) Palette() (*world.Palette, error) {
	defs := make([]world.TileDef, 0, len(f.Tiles))
	for i := range f.Tiles {
		d := &f.Tiles[i]
		if d.ID <= 0 || d.ID > 0xFFFF {
			return nil, fmt.Errorf("tile %q: id %d out of range", d.Name, d.ID)
		}
		cat, err := world.ParseCategory(d.Category)
		if err != nil {
			return nil, fmt.Errorf("tile %q: %w", d.Name, err)
		}
		defs = append(defs, world.TileDef{
			Tile:     world.Tile(d.ID),
			Name:     d.Name,
			Glyph:    d.GlyphRune(),
			Color:    d.Color,
			Category: cat,
		})
	}
	p, err := world.NewPalette(defs, f.Wall, f.Background)
	if err != nil {
		return nil, fmt.Errorf("tiles.json: %w", err)
	}
	return p, nil
}

// TileColors maps every palette tile to its terminal colour.
func TileColors(p *world.Palette) map[world.Tile]tcell.Color {
	colors := make(map[world.Tile]tcell.Color, len(p.All()))
	for _, d := range p.All() {
		c, err := ParseHexColor(d.Color)
		if err != nil {
			c = tcell.ColorWhite
		}
		colors[d.Tile] = c
	}
	return colors
}
