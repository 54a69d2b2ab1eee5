package world

// Grid is a two-layer tile map stored row-major.
type Grid struct {
	Width      int
	Height     int
	Foreground []Tile
	Background []Tile
}

// NewGrid creates a grid filled with Empty on both layers.
func NewGrid(width, height int) *Grid {
	width = max(width, 0)
	height = max(height, 0)
	return &Grid{
		Width:      width,
		Height:     height,
		Foreground: make([]Tile, width*height),
		Background: make([]Tile, width*height),
	}
}

// InBounds reports whether (x, y) is inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Fill sets every cell to the given tiles.
func (g *Grid) Fill(fg, bg Tile) {
	for i := range g.Foreground {
		g.Foreground[i] = fg
		g.Background[i] = bg
	}
}

// GetTile returns the foreground tile at the given position, or Empty outside the grid.
func (g *Grid) GetTile(x, y int) Tile {
	if !g.InBounds(x, y) {
		return Empty
	}
	return g.Foreground[y*g.Width+x]
}

// GetBackground returns the background tile at the given position, or Empty outside the grid.
func (g *Grid) GetBackground(x, y int) Tile {
	if !g.InBounds(x, y) {
		return Empty
	}
	return g.Background[y*g.Width+x]
}

// Set writes both layers. Out-of-range writes are dropped.
func (g *Grid) Set(x, y int, fg, bg Tile) {
	if !g.InBounds(x, y) {
		return
	}
	i := y*g.Width + x
	g.Foreground[i] = fg
	g.Background[i] = bg
}

// SetTile writes the foreground layer. Out-of-range writes are dropped.
func (g *Grid) SetTile(x, y int, t Tile) {
	if !g.InBounds(x, y) {
		return
	}
	g.Foreground[y*g.Width+x] = t
}

// IsPassable returns true if the given position can be walked on.
func (g *Grid) IsPassable(x, y int) bool {
	return g.InBounds(x, y) && g.Foreground[y*g.Width+x] == Empty
}

// CarveContext bundles a grid with the masks written while stamping rooms.
//
// RoomAir cells seed the cave distance field, Blocker cells are never crossed or
// carved, and RoomTile cells are stamped room geometry that carving must keep.
type CarveContext struct {
	Grid     *Grid
	RoomAir  []bool
	Blocker  []bool
	RoomTile []bool
}

// NewCarveContext allocates empty masks sized to grid.
func NewCarveContext(grid *Grid) *CarveContext {
	n := grid.Width * grid.Height
	return &CarveContext{
		Grid:     grid,
		RoomAir:  make([]bool, n),
		Blocker:  make([]bool, n),
		RoomTile: make([]bool, n),
	}
}

// Index returns the flat index of (x, y), or -1 outside the grid.
func (c *CarveContext) Index(x, y int) int {
	if !c.Grid.InBounds(x, y) {
		return -1
	}
	return y*c.Grid.Width + x
}

// MarkRoomAir flags (x, y) as a cave-carving seed.
func (c *CarveContext) MarkRoomAir(x, y int) {
	if i := c.Index(x, y); i >= 0 {
		c.RoomAir[i] = true
	}
}

// MarkBlocker flags (x, y) as a structural barrier.
func (c *CarveContext) MarkBlocker(x, y int) {
	if i := c.Index(x, y); i >= 0 {
		c.Blocker[i] = true
	}
}

// MarkRoomTile flags (x, y) as protected room geometry.
func (c *CarveContext) MarkRoomTile(x, y int) {
	if i := c.Index(x, y); i >= 0 {
		c.RoomTile[i] = true
	}
}

// IsProtected reports whether carving must leave (x, y) alone.
func (c *CarveContext) IsProtected(x, y int) bool {
	i := c.Index(x, y)
	return i < 0 || c.Blocker[i] || c.RoomTile[i]
}
