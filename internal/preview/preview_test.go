package preview

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/gookit/color"

	"github.com/samdwyer/delvegen/internal/dungeon"
	"github.com/samdwyer/delvegen/internal/gamedata"
	"github.com/samdwyer/delvegen/internal/rules"
	"github.com/samdwyer/delvegen/internal/world"
)

func uniformGenerator(t *testing.T) (*dungeon.Generator, dungeon.Content) {
	t.Helper()
	content := gamedata.MustLoadContent()
	cfg := dungeon.DefaultConfig()
	cfg.Mode = dungeon.ModeUniform
	cfg.Seed = 31
	cfg.Width, cfg.Height = 24, 12
	g, err := dungeon.New(cfg, content)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g, content
}

func TestDumpShape(t *testing.T) {
	g, _ := uniformGenerator(t)
	res, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var buf bytes.Buffer
	if err := Dump(&buf, res, Options{}); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != res.Height {
		t.Fatalf("got %d lines, want %d", len(lines), res.Height)
	}
	for i, l := range lines {
		if n := len([]rune(l)); n != res.Width {
			t.Errorf("line %d has %d runes, want %d", i, n, res.Width)
		}
	}
}

func TestDumpUsesGlyphs(t *testing.T) {
	p, err := world.NewPalette([]world.TileDef{
		{Tile: 1, Name: "stone", Glyph: '#', Color: "#6E6A66"},
		{Tile: 2, Name: "dirt", Glyph: ',', Color: "#3A2F26", Category: world.CategoryBackground},
	}, "stone", "dirt")
	if err != nil {
		t.Fatalf("NewPalette: %v", err)
	}
	res := &dungeon.Result{
		Width:      3,
		Height:     1,
		Foreground: []world.Tile{1, 0, 0},
		Background: []world.Tile{2, 2, 0},
	}
	res.SetPalette(p)

	for _, colored := range []bool{false, true} {
		var buf bytes.Buffer
		if err := Dump(&buf, res, Options{Color: colored, Legend: true}); err != nil {
			t.Fatalf("Dump: %v", err)
		}
		out := color.ClearCode(buf.String())
		if !strings.HasPrefix(out, "#, \n") {
			t.Errorf("colored=%v: map row = %q", colored, strings.SplitN(out, "\n", 2)[0])
		}
		if !strings.Contains(out, "stone") || !strings.Contains(out, "dirt") {
			t.Errorf("colored=%v: legend missing tiles: %q", colored, out)
		}
	}
}

func TestSampleMatchesGeneration(t *testing.T) {
	g, _ := uniformGenerator(t)
	res, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	area := world.Rect{X: 0, Y: 0, Width: res.Width, Height: res.Height}
	for i, c := range Sample(g, area) {
		x, y := i%area.Width, i/area.Width
		if c.Biome != res.BiomeAt(x, y) || c.Foreground != res.Tile(x, y) || c.Background != res.BackgroundAt(x, y) {
			t.Fatalf("(%d,%d): sample %+v differs from generated cell", x, y, c)
		}
	}
}

func TestOverlayWritesKey(t *testing.T) {
	g, content := uniformGenerator(t)

	var buf bytes.Buffer
	area := world.Rect{X: 0, Y: 0, Width: 24, Height: 12}
	if err := Overlay(&buf, g, area); err != nil {
		t.Fatalf("Overlay: %v", err)
	}
	parts := strings.SplitN(buf.String(), "\n\n", 2)
	if len(parts) != 2 {
		t.Fatalf("overlay has no key section: %q", buf.String())
	}
	if rows := strings.Count(parts[0], "\n") + 1; rows != area.Height {
		t.Errorf("overlay has %d rows, want %d", rows, area.Height)
	}
	if !strings.HasPrefix(parts[1], "a ") {
		t.Errorf("key does not start at letter a: %q", parts[1])
	}

	buf.Reset()
	if err := RuleMap(&buf, g, content.Palette, content.CorridorRules, rules.Foreground, area); err != nil {
		t.Fatalf("RuleMap: %v", err)
	}
	if strings.Contains(buf.String(), "-") {
		t.Error("corridor wall rules end with a catch-all and should match everywhere")
	}
}
