package dungeon

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/samdwyer/delvegen/internal/noise"
	"github.com/samdwyer/delvegen/internal/rules"
	"github.com/samdwyer/delvegen/internal/template"
	"github.com/samdwyer/delvegen/internal/world"
)

const (
	tileStone world.Tile = 1
	tileMoss  world.Tile = 2
	tileDirt  world.Tile = 3
)

func testPalette(t *testing.T) *world.Palette {
	t.Helper()
	p, err := world.NewPalette([]world.TileDef{
		{Tile: tileStone, Name: "stone", Glyph: '#', Category: world.CategorySolid},
		{Tile: tileMoss, Name: "moss", Glyph: 'm', Category: world.CategoryBackground},
		{Tile: tileDirt, Name: "dirt", Glyph: 'd', Category: world.CategoryBackground},
	}, "stone", "dirt")
	if err != nil {
		t.Fatalf("NewPalette: %v", err)
	}
	return p
}

func mustTemplate(t *testing.T, p *world.Palette, id string, rows ...string) *template.Template {
	t.Helper()
	glyph := func(r rune) (world.Tile, bool) {
		for _, d := range p.All() {
			if d.Glyph == r {
				return d.Tile, true
			}
		}
		return world.Empty, false
	}
	tpl, err := template.FromRows(id, rows, glyph, p, p.DefaultBackground())
	if err != nil {
		t.Fatalf("FromRows(%s): %v", id, err)
	}
	return tpl
}

// bottomOpening is a 5x5 room whose interior spills out of a 3-wide gap at the bottom.
func bottomOpening(t *testing.T, p *world.Palette, id string) *template.Template {
	return mustTemplate(t, p, id,
		"#####",
		"#...#",
		"#...#",
		"#...#",
		"#...#",
	)
}

func hubContent(t *testing.T) Content {
	p := testPalette(t)
	return Content{
		Palette: p,
		Templates: []*template.Template{
			bottomOpening(t, p, "a"),
			mustTemplate(t, p, "b",
				"#######",
				"#.....#",
				"#.mm..#",
				"#.....#",
				"#######",
			),
			mustTemplate(t, p, "c",
				"#####",
				"#...#",
				"....#",
				"#...#",
				"#####",
			),
			mustTemplate(t, p, "d",
				"##.##",
				"#...#",
				"#...#",
				"#####",
			),
		},
	}
}

func hubConfig(seed int64) Config {
	cfg := DefaultConfig()
	cfg.Mode = ModeHub
	cfg.Seed = seed
	cfg.Corridor.CaveDistance = 0
	return cfg
}

func generate(t *testing.T, cfg Config, content Content) *Result {
	t.Helper()
	g, err := New(cfg, content)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return res
}

func TestHubScenarioSeed42(t *testing.T) {
	p := testPalette(t)
	content := Content{
		Palette:   p,
		Templates: []*template.Template{bottomOpening(t, p, "left"), bottomOpening(t, p, "right")},
	}

	res := generate(t, hubConfig(42), content)

	if got := len(res.Rooms); got != 2 {
		t.Fatalf("rooms = %d, want 2", got)
	}
	if res.Stats.TunnelsCarved != 1 || len(res.Corridors) != 1 {
		t.Errorf("tunnels = %d, corridors = %d, want 1 and 1", res.Stats.TunnelsCarved, len(res.Corridors))
	}
	if res.Stats.CaveCells != 0 {
		t.Errorf("cave cells = %d, want 0", res.Stats.CaveCells)
	}
	if !Reachable(res) {
		t.Error("second room not reachable from the first")
	}
}

func TestHubRoomsAreConnected(t *testing.T) {
	content := hubContent(t)
	for seed := int64(1); seed <= 12; seed++ {
		res := generate(t, hubConfig(seed), content)
		if len(res.Corridors) != len(res.Rooms)-1 {
			t.Errorf("seed %d: %d corridors for %d rooms", seed, len(res.Corridors), len(res.Rooms))
		}
		if !Reachable(res) {
			t.Errorf("seed %d: not every room is reachable", seed)
		}
	}
}

func TestHubRoomsDoNotOverlap(t *testing.T) {
	content := hubContent(t)
	res := generate(t, hubConfig(7), content)

	for i := range res.Rooms {
		for j := i + 1; j < len(res.Rooms); j++ {
			if res.Rooms[i].Rect.Intersects(res.Rooms[j].Rect) {
				t.Errorf("rooms %d and %d overlap: %+v %+v", i, j, res.Rooms[i].Rect, res.Rooms[j].Rect)
			}
		}
	}
	seen := make(map[string]bool)
	for _, room := range res.Rooms {
		if seen[room.TemplateID] {
			t.Errorf("template %s placed twice", room.TemplateID)
		}
		seen[room.TemplateID] = true
	}
}

func TestHubSpawnIsFirstRoomCentre(t *testing.T) {
	content := hubContent(t)
	cfg := hubConfig(3)
	res := generate(t, cfg, content)

	first := res.Rooms[0].Rect
	wantX := (float64(first.X) + float64(first.Width)/2) * float64(cfg.TileSize)
	wantY := (float64(first.Y) + float64(first.Height)/2) * float64(cfg.TileSize)
	if res.Spawn.X != wantX || res.Spawn.Y != wantY {
		t.Errorf("spawn = %+v, want (%v, %v)", res.Spawn, wantX, wantY)
	}
}

func TestResultHasNoOverrideTiles(t *testing.T) {
	p := testPalette(t)
	content := Content{
		Palette: p,
		Templates: []*template.Template{
			mustTemplate(t, p, "vault",
				"#######",
				"#+++++#",
				"#+XXX+#",
				"#+X.X+#",
				"#+XXX+#",
				"#+++++#",
				"###+###",
			),
			bottomOpening(t, p, "plain"),
		},
	}
	cfg := hubConfig(11)
	cfg.Corridor.CaveDistance = 3

	res := generate(t, cfg, content)
	for i := range res.Foreground {
		if res.Foreground[i].IsOverride() || res.Background[i].IsOverride() {
			t.Fatalf("override tile written at index %d", i)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	content := hubContent(t)
	content.Biomes = rules.BiomeSet{{
		ID: "cave",
		Rules: []rules.Rule{
			{Tile: "stone", Layer: rules.Foreground, When: rules.Leaf{Key: rules.KeyCave, Compare: rules.CmpLess, Threshold: 0.5}},
			{Tile: "dirt", Layer: rules.Background},
		},
	}}

	for _, mode := range []Mode{ModeUniform, ModeHub, ModeGraph} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Mode = mode
			cfg.Seed = 1234

			first := generate(t, cfg, content)
			second := generate(t, cfg, content)
			if !reflect.DeepEqual(first, second) {
				t.Fatal("two runs with the same seed differ")
			}

			cfg.Seed = 4321
			other := generate(t, cfg, content)
			if other.ID == first.ID {
				t.Error("different seeds share a result id")
			}
		})
	}
}

func TestGenerateConcurrentRuns(t *testing.T) {
	content := hubContent(t)
	cfg := DefaultConfig()
	cfg.Seed = 99
	g, err := New(cfg, content)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	results := make([]*Result, 4)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := g.Generate(context.Background())
			if err != nil {
				t.Errorf("Generate: %v", err)
				return
			}
			results[i] = res
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if !reflect.DeepEqual(results[0], results[i]) {
			t.Errorf("concurrent run %d differs from run 0", i)
		}
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	content := hubContent(t)

	tests := []struct {
		name    string
		mutate  func(*Config, *Content)
		wantErr error
	}{
		{"no templates in hub mode", func(c *Config, ct *Content) { ct.Templates = nil }, ErrNoTemplates},
		{"no templates in graph mode", func(c *Config, ct *Content) { c.Mode = ModeGraph; ct.Templates = nil }, ErrNoTemplates},
		{"no palette", func(c *Config, ct *Content) { ct.Palette = nil }, ErrInvalidConfig},
		{"unknown mode", func(c *Config, ct *Content) { c.Mode = "maze" }, ErrInvalidConfig},
		{"inverted room range", func(c *Config, ct *Content) { c.MinRooms, c.MaxRooms = 5, 2 }, ErrInvalidConfig},
		{"negative cave distance", func(c *Config, ct *Content) { c.Corridor.CaveDistance = -1 }, ErrInvalidConfig},
		{"empty uniform grid", func(c *Config, ct *Content) { c.Mode = ModeUniform; c.Width = 0 }, ErrInvalidConfig},
		{"inverted gap range", func(c *Config, ct *Content) { c.Mode = ModeGraph; c.Graph.MinGap = 9 }, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			ct := content
			tt.mutate(&cfg, &ct)
			_, err := New(cfg, ct)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUniformModeWithoutBiomesIsEmpty(t *testing.T) {
	content := Content{Palette: testPalette(t)}
	cfg := DefaultConfig()
	cfg.Mode = ModeUniform
	cfg.Width, cfg.Height = 20, 10

	res := generate(t, cfg, content)
	for i := range res.Foreground {
		if res.Foreground[i] != world.Empty || res.Background[i] != world.Empty || res.Biomes[i] != "" {
			t.Fatalf("cell %d not empty: fg=%d bg=%d biome=%q", i, res.Foreground[i], res.Background[i], res.Biomes[i])
		}
	}
	if len(res.Rooms) != 0 {
		t.Errorf("uniform mode placed %d rooms", len(res.Rooms))
	}
}

func TestResultIDTracksContent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeUniform
	cfg.Seed = 11
	cfg.Width, cfg.Height = 12, 6

	bare := Content{Palette: testPalette(t)}
	withRules := Content{
		Palette:       bare.Palette,
		CorridorRules: []rules.Rule{{ID: "walls", Tile: "stone", Layer: rules.Foreground}},
	}

	first := generate(t, cfg, bare)
	again := generate(t, cfg, bare)
	other := generate(t, cfg, withRules)

	if first.ID != again.ID {
		t.Errorf("same inputs gave ids %s and %s", first.ID, again.ID)
	}
	if !reflect.DeepEqual(first.Foreground, other.Foreground) {
		t.Fatal("corridor rules should not change a uniform grid")
	}
	if first.ID == other.ID {
		t.Errorf("different content shares id %s", first.ID)
	}
}

func TestContextCarriesShapedNoise(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeUniform
	cfg.Seed = 9
	g, err := New(cfg, Content{Palette: testPalette(t)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	field := noise.New(cfg.Seed)
	sc := cfg.Scales

	levels := map[float64]bool{}
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			ctx := g.ContextAt(x, y)
			fx, fy := float64(x), float64(y)

			terrace := ctx.Value(rules.KeyTerrace)
			if want := field.Terrace(fx, fy, sc.Terrace, sc.TerraceSteps); terrace != want {
				t.Fatalf("terrace at (%d,%d) = %v, want %v", x, y, terrace, want)
			}
			levels[terrace] = true
			if band := ctx.Value(rules.KeyBand); band != 0 && band != 1 {
				t.Fatalf("band at (%d,%d) = %v, want 0 or 1", x, y, band)
			}
			if want := field.Stretched(fx, fy, sc.StretchX, sc.StretchY); ctx.Value(rules.KeyStretch) != want {
				t.Fatalf("stretch at (%d,%d) = %v, want %v", x, y, ctx.Value(rules.KeyStretch), want)
			}
		}
	}
	if len(levels) > sc.TerraceSteps {
		t.Errorf("terrace produced %d levels, want at most %d", len(levels), sc.TerraceSteps)
	}
}

func TestUniformMatchesQueryHelpers(t *testing.T) {
	content := Content{
		Palette: testPalette(t),
		Biomes: rules.BiomeSet{
			{
				ID:    "deep",
				Spawn: rules.Leaf{Key: rules.KeyDepth, Compare: rules.CmpGreater, Threshold: 0.5},
				Rules: []rules.Rule{
					{Tile: "stone", Layer: rules.Foreground, When: rules.Leaf{Key: rules.KeyCave, Compare: rules.CmpLess, Threshold: 0.55}},
					{Tile: "dirt", Layer: rules.Background},
				},
			},
			{
				ID: "surface",
				Rules: []rules.Rule{
					{Tile: "moss", Layer: rules.Foreground, When: rules.Leaf{Key: rules.KeyRandom, Compare: rules.CmpGreater, Threshold: 0.7}},
				},
			},
		},
	}
	cfg := DefaultConfig()
	cfg.Mode = ModeUniform
	cfg.Seed = 5
	cfg.Width, cfg.Height = 32, 16

	g, err := New(cfg, content)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			ctx := g.ContextAt(x, y)
			biome, ok := g.ResolveBiome(ctx)
			if !ok {
				t.Fatalf("(%d,%d): no biome, surface should always match", x, y)
			}
			wantBiome := "surface"
			if float64(y)/float64(cfg.Height) > 0.5 {
				wantBiome = "deep"
			}
			if biome.ID != wantBiome || res.BiomeAt(x, y) != wantBiome {
				t.Fatalf("(%d,%d): biome helper=%s result=%s, want %s", x, y, biome.ID, res.BiomeAt(x, y), wantBiome)
			}
			fg, _ := g.ResolveTile(biome.Rules, rules.Foreground, ctx)
			bg, _ := g.ResolveTile(biome.Rules, rules.Background, ctx)
			if res.Tile(x, y) != fg || res.BackgroundAt(x, y) != bg {
				t.Fatalf("(%d,%d): result (%d,%d) differs from helpers (%d,%d)", x, y, res.Tile(x, y), res.BackgroundAt(x, y), fg, bg)
			}
		}
	}
}

func TestReachableDetectsSplit(t *testing.T) {
	p := testPalette(t)
	res := &Result{
		Width:      7,
		Height:     3,
		Foreground: make([]world.Tile, 21),
		Background: make([]world.Tile, 21),
		Rooms: []Room{
			{TemplateID: "a", Rect: world.Rect{X: 0, Y: 0, Width: 3, Height: 3}},
			{TemplateID: "b", Rect: world.Rect{X: 4, Y: 0, Width: 3, Height: 3}},
		},
		palette: p,
	}
	for y := 0; y < 3; y++ {
		res.Foreground[y*7+3] = tileStone
	}
	if Reachable(res) {
		t.Error("rooms separated by a stone column reported reachable")
	}

	res.Foreground[1*7+3] = tileMoss
	if !Reachable(res) {
		t.Error("moss is background-like and should join the rooms")
	}
}
