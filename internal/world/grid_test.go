package world

import "testing"

func TestGridOutOfBoundsWritesAreDropped(t *testing.T) {
	g := NewGrid(4, 3)
	g.Fill(Tile(7), Tile(9))

	g.Set(-1, 0, Empty, Empty)
	g.Set(4, 0, Empty, Empty)
	g.SetTile(0, 3, Empty)

	for i, tile := range g.Foreground {
		if tile != Tile(7) {
			t.Fatalf("foreground[%d] = %d, want 7", i, tile)
		}
	}
	if got := g.GetTile(10, 10); got != Empty {
		t.Errorf("GetTile outside grid = %d, want Empty", got)
	}
}

func TestGridPassability(t *testing.T) {
	g := NewGrid(3, 3)
	g.Fill(Tile(1), Tile(2))
	g.Set(1, 1, Empty, Tile(2))

	if !g.IsPassable(1, 1) {
		t.Error("carved cell should be passable")
	}
	if g.IsPassable(0, 0) {
		t.Error("wall cell should not be passable")
	}
	if g.IsPassable(-1, 1) {
		t.Error("cells outside the grid are never passable")
	}
}

func TestCarveContextMasks(t *testing.T) {
	c := NewCarveContext(NewGrid(5, 5))
	c.MarkBlocker(1, 1)
	c.MarkRoomTile(2, 2)
	c.MarkRoomAir(3, 3)
	c.MarkBlocker(99, 99)

	tests := []struct {
		x, y      int
		protected bool
	}{
		{1, 1, true},
		{2, 2, true},
		{3, 3, false},
		{0, 0, false},
		{-1, 0, true},
	}
	for _, tt := range tests {
		if got := c.IsProtected(tt.x, tt.y); got != tt.protected {
			t.Errorf("IsProtected(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.protected)
		}
	}
	if !c.RoomAir[c.Index(3, 3)] {
		t.Error("room air mask not set")
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 5, Y: 5, Width: 10, Height: 10}
	c := Rect{X: 10, Y: 0, Width: 5, Height: 5}

	if !a.Intersects(b) {
		t.Error("overlapping rects should intersect")
	}
	if a.Intersects(c) {
		t.Error("touching rects should not intersect")
	}
	if !a.Expand(1).Intersects(c) {
		t.Error("padded rect should reach its neighbour")
	}
	u := a.Union(c)
	if u.Width != 15 || u.Height != 10 {
		t.Errorf("Union = %+v, want 15x10", u)
	}
}

func TestPaletteLookup(t *testing.T) {
	p, err := NewPalette([]TileDef{
		{Tile: 1, Name: "stone", Glyph: '#', Category: CategorySolid},
		{Tile: 2, Name: "cave_bg", Glyph: '.', Category: CategoryBackground},
	}, "stone", "cave_bg")
	if err != nil {
		t.Fatalf("NewPalette: %v", err)
	}

	if tile, ok := p.Lookup("stone"); !ok || tile != 1 {
		t.Errorf("Lookup(stone) = %d,%v", tile, ok)
	}
	if tile, ok := p.Lookup("empty"); !ok || tile != Empty {
		t.Errorf("Lookup(empty) = %d,%v", tile, ok)
	}
	if _, ok := p.Lookup("lava"); ok {
		t.Error("unknown names should not resolve")
	}
	if p.Category(2) != CategoryBackground {
		t.Error("cave_bg should be background")
	}
	if p.DefaultWall() != 1 || p.DefaultBackground() != 2 {
		t.Error("default tiles not resolved")
	}
}

func TestPaletteRejectsReservedValues(t *testing.T) {
	_, err := NewPalette([]TileDef{{Tile: ForceSolid, Name: "bad"}}, "bad", "bad")
	if err == nil {
		t.Fatal("expected error for reserved tile value")
	}
}
