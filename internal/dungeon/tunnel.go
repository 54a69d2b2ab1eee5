package dungeon

import (
	"math"

	"github.com/samdwyer/delvegen/internal/template"
	"github.com/samdwyer/delvegen/internal/world"
)

// Offsets keep the path and width samples on unrelated parts of the field.
const (
	pathNoiseOffset  = 113.7
	widthNoiseOffset = 271.3
	minTunnelRadius  = 0.5
)

// backgroundFunc picks the background for a carved cell; t is the position
// along the path in [0, 1].
type backgroundFunc func(x, y int, t float64) world.Tile

// tunnel carves between two rooms along the dominant axis of their centres.
func (r *run) tunnel(a, b PlacedRoom) (world.Point, world.Point) {
	ax, ay := a.center()
	bx, by := b.center()
	dx, dy := bx-ax, by-ay

	var ea template.Edge
	horizontal := math.Abs(dx) >= math.Abs(dy)
	switch {
	case horizontal && dx >= 0:
		ea = template.EdgeRight
	case horizontal:
		ea = template.EdgeLeft
	case dy >= 0:
		ea = template.EdgeBottom
	default:
		ea = template.EdgeTop
	}

	start := port(a, ea)
	end := port(b, ea.Opposite())
	cells := r.carvePath(start, end, horizontal, func(x, y int, _ float64) world.Tile {
		return r.corridorBackground(x, y)
	})

	cells += r.breach(a, ea, start)
	cells += r.breach(b, ea.Opposite(), end)

	r.stats.TunnelsCarved++
	r.stats.TunnelCells += cells
	return start, end
}

// breach opens room wall behind port, walking inward from edge until it meets
// a walkable cell. Ports on authored openings are already walkable behind.
func (r *run) breach(p PlacedRoom, edge template.Edge, port world.Point) int {
	dx, dy := edge.Delta()
	step := world.Point{X: -dx, Y: -dy}
	rect := p.Rect()

	carved := 0
	for pt := port.Add(step); rect.Contains(pt.X, pt.Y); pt = pt.Add(step) {
		i := r.carve.Index(pt.X, pt.Y)
		if i < 0 || r.carve.Blocker[i] || r.walkable(i) {
			break
		}
		r.grid.Set(pt.X, pt.Y, world.Empty, p.Template.Style.Background)
		carved++
	}
	return carved
}

// walkable mirrors Result.Walkable on the grid under construction.
func (r *run) walkable(i int) bool {
	t := r.grid.Foreground[i]
	return t == world.Empty || r.content.Palette.Category(t).IsBackgroundLike()
}

// port is the grid point where a tunnel meets a room on edge: the representative
// point of the first opening on that edge, else the boundary cell in line with
// the centre.
func port(p PlacedRoom, edge template.Edge) world.Point {
	tpl := p.Template
	origin := world.Point{X: p.X, Y: p.Y}
	if ids := tpl.OpeningsOn(edge); len(ids) > 0 {
		return origin.Add(tpl.Openings[ids[0]].Points[edge])
	}

	var local world.Point
	switch edge {
	case template.EdgeTop:
		local = world.Point{X: tpl.Width / 2, Y: 0}
	case template.EdgeBottom:
		local = world.Point{X: tpl.Width / 2, Y: tpl.Height - 1}
	case template.EdgeLeft:
		local = world.Point{X: 0, Y: tpl.Height / 2}
	default:
		local = world.Point{X: tpl.Width - 1, Y: tpl.Height / 2}
	}
	return origin.Add(local)
}

// carvePath walks from start to end in unit steps along the major axis, pushing
// the centre sideways by noise tapered to zero at both ends, and carves a disk of
// noise-varied radius at every step. Consecutive centres are joined by a
// 4-connected bridge so the path never breaks diagonally. Disks leave room tiles
// alone; only the one-cell bridge may cut through them. Returns the number of
// cells changed to empty.
func (r *run) carvePath(start, end world.Point, horizontal bool, bg backgroundFunc) int {
	cc := r.cfg.Corridor
	sx, sy := float64(start.X), float64(start.Y)
	ex, ey := float64(end.X), float64(end.Y)
	steps := int(math.Max(math.Abs(ex-sx), math.Abs(ey-sy)))
	if steps < 1 {
		steps = 1
	}

	pathScale := nonZero(cc.PathNoiseScale)
	widthScale := nonZero(cc.WidthNoiseScale)

	carved := 0
	prev := start
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		px := sx + (ex-sx)*t
		py := sy + (ey-sy)*t

		taper := math.Sin(math.Pi * t)
		off := r.field.Perlin2D(px/pathScale+pathNoiseOffset, py/pathScale) * cc.NoiseAmplitude * taper
		if horizontal {
			py += off
		} else {
			px += off
		}

		wn := r.field.Perlin2D(px/widthScale, py/widthScale+widthNoiseOffset)
		radius := math.Max(cc.Width/2+wn*cc.WidthVariation, minTunnelRadius)

		cur := world.Point{X: int(math.Round(px)), Y: int(math.Round(py))}
		carved += r.bridge(prev, cur, t, bg)
		carved += r.carveDisk(px, py, radius, t, bg)
		prev = cur
	}
	return carved
}

// bridge carves a 4-connected staircase from a to b, b included.
func (r *run) bridge(a, b world.Point, t float64, bg backgroundFunc) int {
	carved := r.carveCell(a.X, a.Y, t, bg, true)
	x, y := a.X, a.Y
	for x != b.X {
		x += sign(b.X - x)
		carved += r.carveCell(x, y, t, bg, true)
	}
	for y != b.Y {
		y += sign(b.Y - y)
		carved += r.carveCell(x, y, t, bg, true)
	}
	return carved
}

func (r *run) carveDisk(cx, cy, radius, t float64, bg backgroundFunc) int {
	carved := 0
	r2 := radius * radius
	for y := int(math.Floor(cy - radius)); y <= int(math.Ceil(cy+radius)); y++ {
		for x := int(math.Floor(cx - radius)); x <= int(math.Ceil(cx+radius)); x++ {
			ddx, ddy := float64(x)-cx, float64(y)-cy
			if ddx*ddx+ddy*ddy > r2 {
				continue
			}
			carved += r.carveCell(x, y, t, bg, false)
		}
	}
	return carved
}

// carveCell opens (x, y) unless it is outside the grid, already open or a
// structural blocker. Room tiles are only opened when cutRooms is set.
func (r *run) carveCell(x, y int, t float64, bg backgroundFunc, cutRooms bool) int {
	i := r.carve.Index(x, y)
	if i < 0 || r.carve.Blocker[i] || r.grid.Foreground[i] == world.Empty {
		return 0
	}
	if r.carve.RoomTile[i] && !cutRooms {
		return 0
	}
	r.grid.Set(x, y, world.Empty, bg(x, y, t))
	return 1
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
