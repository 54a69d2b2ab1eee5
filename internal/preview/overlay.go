package preview

import (
	"bufio"
	"fmt"
	"io"

	"github.com/samdwyer/delvegen/internal/dungeon"
	"github.com/samdwyer/delvegen/internal/rules"
	"github.com/samdwyer/delvegen/internal/world"
)

// Cell is the rule outcome at one position.
type Cell struct {
	Biome      string
	Foreground world.Tile
	Background world.Tile
}

// Sample resolves biomes and tiles over area with the generator's query helpers.
// The result is row-major with area.Width*area.Height cells.
func Sample(g *dungeon.Generator, area world.Rect) []Cell {
	cells := make([]Cell, 0, area.Width*area.Height)
	for y := area.Y; y < area.Y+area.Height; y++ {
		for x := area.X; x < area.X+area.Width; x++ {
			ctx := g.ContextAt(x, y)
			b, ok := g.ResolveBiome(ctx)
			if !ok {
				cells = append(cells, Cell{})
				continue
			}
			fg, _ := g.ResolveTile(b.Rules, rules.Foreground, ctx)
			bg, _ := g.ResolveTile(b.Rules, rules.Background, ctx)
			cells = append(cells, Cell{Biome: b.ID, Foreground: fg, Background: bg})
		}
	}
	return cells
}

// Overlay writes a biome map over area: one letter per biome in order of first
// appearance and '-' where no biome applies, followed by the letter key.
func Overlay(w io.Writer, g *dungeon.Generator, area world.Rect) error {
	cells := Sample(g, area)
	letters := make(map[string]byte)
	var order []string

	bw := bufio.NewWriter(w)
	for i, c := range cells {
		ch := byte('-')
		if c.Biome != "" {
			l, ok := letters[c.Biome]
			if !ok {
				l = biomeLetter(len(order))
				letters[c.Biome] = l
				order = append(order, c.Biome)
			}
			ch = l
		}
		if err := bw.WriteByte(ch); err != nil {
			return err
		}
		if (i+1)%area.Width == 0 {
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintln(bw); err != nil {
		return err
	}
	for _, id := range order {
		if _, err := fmt.Fprintf(bw, "%c %s\n", letters[id], id); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// RuleMap writes the glyph each rule in rs resolves to for layer over area, or
// '-' where no rule matches. Useful for previewing corridor rules.
func RuleMap(w io.Writer, g *dungeon.Generator, p *world.Palette, rs []rules.Rule, layer rules.Layer, area world.Rect) error {
	bw := bufio.NewWriter(w)
	for y := area.Y; y < area.Y+area.Height; y++ {
		for x := area.X; x < area.X+area.Width; x++ {
			ch := '-'
			if t, ok := g.ResolveTile(rs, layer, g.ContextAt(x, y)); ok {
				ch = ' '
				if d, found := p.Def(t); found {
					ch = d.Glyph
				}
			}
			if _, err := bw.WriteRune(ch); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func biomeLetter(i int) byte {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	if i < len(letters) {
		return letters[i]
	}
	return '?'
}
