// Package preview writes generated maps and rule outcomes as text.
package preview

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"

	"github.com/samdwyer/delvegen/internal/dungeon"
	"github.com/samdwyer/delvegen/internal/world"
)

// Options controls text output.
type Options struct {
	Color  bool // emit ANSI colours from the palette
	Legend bool // append a glyph legend
}

// Dump writes the map one row per line. Empty foreground cells show the
// background glyph, or a space where both layers are empty.
func Dump(w io.Writer, res *dungeon.Result, opts Options) error {
	p := res.Palette()
	if p == nil {
		return fmt.Errorf("result %s has no palette", res.ID)
	}
	paint := newPainter(p, opts.Color)

	bw := bufio.NewWriter(w)
	var line strings.Builder
	for y := 0; y < res.Height; y++ {
		line.Reset()
		for x := 0; x < res.Width; x++ {
			if fg := res.Tile(x, y); fg != world.Empty {
				line.WriteString(paint.fg(fg))
				continue
			}
			line.WriteString(paint.bg(res.BackgroundAt(x, y)))
		}
		line.WriteByte('\n')
		if _, err := bw.WriteString(line.String()); err != nil {
			return err
		}
	}

	if opts.Legend {
		if err := writeLegend(bw, p, paint); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeLegend(w io.Writer, p *world.Palette, paint *painter) error {
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, d := range p.All() {
		if _, err := fmt.Fprintf(w, "%s %-10s %s\n", paint.fg(d.Tile), d.Name, d.Category); err != nil {
			return err
		}
	}
	return nil
}

// painter renders tiles as optionally coloured glyphs.
type painter struct {
	palette *world.Palette
	colored bool
	fgCache map[world.Tile]string
	bgCache map[world.Tile]string
}

func newPainter(p *world.Palette, colored bool) *painter {
	return &painter{
		palette: p,
		colored: colored,
		fgCache: make(map[world.Tile]string),
		bgCache: make(map[world.Tile]string),
	}
}

func (p *painter) fg(t world.Tile) string {
	if s, ok := p.fgCache[t]; ok {
		return s
	}
	s := "?"
	if d, ok := p.palette.Def(t); ok {
		s = string(d.Glyph)
		if p.colored && d.Color != "" {
			s = color.HEX(d.Color).Sprint(s)
		}
	}
	p.fgCache[t] = s
	return s
}

// bg renders background tiles dimmed so open space reads as open.
func (p *painter) bg(t world.Tile) string {
	if s, ok := p.bgCache[t]; ok {
		return s
	}
	s := " "
	if d, ok := p.palette.Def(t); ok {
		s = string(d.Glyph)
		if p.colored && d.Color != "" {
			s = color.Style{color.OpFuzzy}.Sprint(color.HEX(d.Color).Sprint(s))
		}
	}
	p.bgCache[t] = s
	return s
}
