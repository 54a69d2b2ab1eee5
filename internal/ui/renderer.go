package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/delvegen/internal/dungeon"
	"github.com/samdwyer/delvegen/internal/gamedata"
	"github.com/samdwyer/delvegen/internal/world"
)

// Camera is the grid position drawn at the top-left screen corner.
type Camera struct {
	X, Y int
}

// Follow returns a camera that keeps (x, y) centred in a w×h view, clamped to the map.
func Follow(x, y, w, h, mapW, mapH int) Camera {
	cx := clamp(x-w/2, 0, max(mapW-w, 0))
	cy := clamp(y-h/2, 0, max(mapH-h, 0))
	return Camera{X: cx, Y: cy}
}

// Renderer handles drawing a generated map to the screen.
type Renderer struct {
	screen *Screen
	styles map[world.Tile]tcell.Style
	glyphs map[world.Tile]rune
}

// NewRenderer creates a renderer that colours tiles from the palette.
func NewRenderer(screen *Screen, palette *world.Palette) *Renderer {
	r := &Renderer{
		screen: screen,
		styles: make(map[world.Tile]tcell.Style),
		glyphs: make(map[world.Tile]rune),
	}
	for tile, c := range gamedata.TileColors(palette) {
		r.styles[tile] = tcell.StyleDefault.Foreground(c)
	}
	for _, d := range palette.All() {
		r.glyphs[d.Tile] = d.Glyph
	}
	return r
}

// Render draws the visible part of the map with the cursor on top.
// The bottom screen row is left for the status line.
func (r *Renderer) Render(res *dungeon.Result, cam Camera, cursor world.Point) {
	r.screen.Clear()

	w, h := r.screen.Size()
	for sy := 0; sy < h-1; sy++ {
		for sx := 0; sx < w; sx++ {
			x, y := cam.X+sx, cam.Y+sy
			if x >= res.Width || y >= res.Height {
				continue
			}
			ch, style := r.cell(res, x, y)
			r.screen.SetContent(sx, sy, ch, style)
		}
	}

	cursorStyle := tcell.StyleDefault.
		Foreground(tcell.ColorYellow).
		Bold(true)
	r.screen.SetContent(cursor.X-cam.X, cursor.Y-cam.Y, '@', cursorStyle)
}

// cell picks the glyph for (x, y): the foreground tile, or a dimmed background
// tile where the foreground is empty.
func (r *Renderer) cell(res *dungeon.Result, x, y int) (rune, tcell.Style) {
	if fg := res.Tile(x, y); fg != world.Empty {
		return r.glyph(fg), r.styles[fg]
	}
	bg := res.BackgroundAt(x, y)
	if bg == world.Empty {
		return ' ', tcell.StyleDefault
	}
	return r.glyph(bg), r.styles[bg].Dim(true)
}

func (r *Renderer) glyph(t world.Tile) rune {
	if g, ok := r.glyphs[t]; ok {
		return g
	}
	return '?'
}

// RenderMessage displays a message on row y.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, ch := range []rune(msg) {
		r.screen.SetContent(i, y, ch, style)
	}
}

// Show flushes the frame.
func (r *Renderer) Show() {
	r.screen.Show()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
