package dungeon

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"

	"github.com/samdwyer/delvegen/internal/template"
	"github.com/samdwyer/delvegen/internal/world"
)

// resultNamespace scopes result ids so equal inputs give equal ids.
var resultNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/samdwyer/delvegen/result"))

// PlacedRoom is a template at a grid position.
type PlacedRoom struct {
	Template *template.Template
	X, Y     int
}

// Rect returns the room footprint.
func (p PlacedRoom) Rect() world.Rect {
	return world.Rect{X: p.X, Y: p.Y, Width: p.Template.Width, Height: p.Template.Height}
}

// center returns the exact footprint centre.
func (p PlacedRoom) center() (float64, float64) {
	return float64(p.X) + float64(p.Template.Width)/2, float64(p.Y) + float64(p.Template.Height)/2
}

// Room is a placed room as reported in a Result.
type Room struct {
	TemplateID string
	Rect       world.Rect
}

// Corridor links two rooms by index into Result.Rooms.
type Corridor struct {
	From, To   int
	Start, End world.Point
	Loop       bool // graph mode: added by the loop pass
}

// Spawn is a pixel-space position.
type Spawn struct {
	X, Y float64
}

// Stats counts what a run did.
type Stats struct {
	RoomsPlaced       int
	RoomsDropped      int
	PlacementAttempts int
	TunnelsCarved     int
	TunnelCells       int
	CaveCells         int
	LoopsAdded        int
}

// Result is a finished dungeon. Override tile values never appear in it.
type Result struct {
	ID         uuid.UUID
	Mode       Mode
	Seed       int64
	Width      int
	Height     int
	Foreground []world.Tile
	Background []world.Tile
	Biomes     []string // uniform mode: biome id per cell, "" where none matched
	Rooms      []Room
	Corridors  []Corridor
	Spawn      Spawn
	Stats      Stats

	palette *world.Palette
}

// Tile returns the foreground tile at (x, y), or Empty outside the grid.
func (r *Result) Tile(x, y int) world.Tile {
	if !r.inBounds(x, y) {
		return world.Empty
	}
	return r.Foreground[y*r.Width+x]
}

// BackgroundAt returns the background tile at (x, y), or Empty outside the grid.
func (r *Result) BackgroundAt(x, y int) world.Tile {
	if !r.inBounds(x, y) {
		return world.Empty
	}
	return r.Background[y*r.Width+x]
}

// BiomeAt returns the biome id at (x, y), or "".
func (r *Result) BiomeAt(x, y int) string {
	if !r.inBounds(x, y) || len(r.Biomes) == 0 {
		return ""
	}
	return r.Biomes[y*r.Width+x]
}

// Palette returns the palette the result was built with.
func (r *Result) Palette() *world.Palette {
	return r.palette
}

// SetPalette attaches a palette to a result built outside Generate.
func (r *Result) SetPalette(p *world.Palette) {
	r.palette = p
}

// Walkable reports whether (x, y) can be entered: empty or a background-like tile.
func (r *Result) Walkable(x, y int) bool {
	if !r.inBounds(x, y) {
		return false
	}
	t := r.Foreground[y*r.Width+x]
	if t == world.Empty {
		return true
	}
	return r.palette != nil && r.palette.Category(t).IsBackgroundLike()
}

func (r *Result) inBounds(x, y int) bool {
	return x >= 0 && x < r.Width && y >= 0 && y < r.Height
}

func (r *run) result(mode Mode, rooms []PlacedRoom, corridors []Corridor) *Result {
	res := &Result{
		ID:         resultID(mode, r.cfg.Seed, r.grid.Width, r.grid.Height, r.content),
		Mode:       mode,
		Seed:       r.cfg.Seed,
		Width:      r.grid.Width,
		Height:     r.grid.Height,
		Foreground: r.grid.Foreground,
		Background: r.grid.Background,
		Corridors:  corridors,
		Stats:      r.stats,
		palette:    r.content.Palette,
	}
	for _, p := range rooms {
		res.Rooms = append(res.Rooms, Room{TemplateID: p.Template.ID, Rect: p.Rect()})
	}
	if len(rooms) > 0 {
		cx, cy := rooms[0].center()
		ts := float64(r.cfg.TileSize)
		res.Spawn = Spawn{X: cx * ts, Y: cy * ts}
	}
	return res
}

// resultID names a result by its mode, seed, size and content, so equal inputs
// share an id and a content change produces a new one.
func resultID(mode Mode, seed int64, width, height int, content Content) uuid.UUID {
	name := fmt.Sprintf("%s:%d:%dx%d:%s", mode, seed, width, height, content.fingerprint())
	return uuid.NewSHA1(resultNamespace, []byte(name))
}

// Reachable reports whether every room footprint contains a walkable cell reachable
// from the first room over 4-connected walkable cells. Results without rooms are
// trivially reachable.
func Reachable(res *Result) bool {
	if len(res.Rooms) == 0 {
		return true
	}

	start := -1
	first := res.Rooms[0].Rect
	for y := first.Y; y < first.Y+first.Height && start < 0; y++ {
		for x := first.X; x < first.X+first.Width; x++ {
			if res.Walkable(x, y) {
				start = y*res.Width + x
				break
			}
		}
	}
	if start < 0 {
		return false
	}

	visited := make([]bool, res.Width*res.Height)
	visited[start] = true
	q := queue.New[int]()
	q.Enqueue(start)
	for !q.Empty() {
		i := q.Dequeue()
		x, y := i%res.Width, i/res.Width
		for _, d := range neighbours {
			nx, ny := x+d.X, y+d.Y
			if !res.Walkable(nx, ny) {
				continue
			}
			j := ny*res.Width + nx
			if visited[j] {
				continue
			}
			visited[j] = true
			q.Enqueue(j)
		}
	}

	reached := mapset.New[int]()
	for ri, room := range res.Rooms {
		rect := room.Rect
		for y := rect.Y; y < rect.Y+rect.Height; y++ {
			for x := rect.X; x < rect.X+rect.Width; x++ {
				if res.inBounds(x, y) && visited[y*res.Width+x] {
					reached.Put(ri)
				}
			}
		}
	}
	return reached.Size() == len(res.Rooms)
}

var neighbours = [4]world.Point{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}
