package dungeon

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/delvegen/internal/rules"
	"github.com/samdwyer/delvegen/internal/world"
)

// hub places templates around an anchor room, links them with tunnels and
// erodes caves around the room interiors.
func (r *run) hub(ctx context.Context) *Result {
	rooms := r.placeRooms(ctx)
	rooms = r.layout(rooms, r.cfg.Margin)

	for _, p := range rooms {
		r.stamp(p)
	}

	corridors := r.connectRooms(ctx, rooms)
	r.carveCaves(ctx)

	return r.result(ModeHub, rooms, corridors)
}

// placeRooms scatters templates in world space. Every template is used at most once.
func (r *run) placeRooms(ctx context.Context) []PlacedRoom {
	_, span := r.tracer.Start(ctx, "dungeon.place_rooms")
	defer span.End()

	templates := r.content.Templates
	target := r.cfg.MinRooms + r.rng.Intn(r.cfg.MaxRooms-r.cfg.MinRooms+1)
	target = min(target, len(templates))
	order := r.rng.Perm(len(templates))

	first := templates[order[0]]
	rooms := []PlacedRoom{{
		Template: first,
		X:        r.cfg.WorldSize/2 - first.Width/2,
		Y:        r.cfg.WorldSize/2 - first.Height/2,
	}}

	for _, ti := range order[1:target] {
		tpl := templates[ti]
		placed := false
		for range r.cfg.PlacementAttempts {
			r.stats.PlacementAttempts++

			parent := rooms[r.rng.Intn(len(rooms))]
			angle := r.rng.Float64() * 2 * math.Pi
			dist := r.cfg.MinDistance + r.rng.Float64()*(r.cfg.MaxDistance-r.cfg.MinDistance)
			px, py := parent.center()
			cx := px + math.Cos(angle)*dist
			cy := py + math.Sin(angle)*dist

			cand := PlacedRoom{
				Template: tpl,
				X:        int(math.Round(cx - float64(tpl.Width)/2)),
				Y:        int(math.Round(cy - float64(tpl.Height)/2)),
			}
			if !r.fits(cand, rooms) {
				continue
			}
			rooms = append(rooms, cand)
			placed = true
			break
		}
		if !placed {
			r.stats.RoomsDropped++
			r.log.WithFields(logrus.Fields{
				"template": tpl.ID,
				"attempts": r.cfg.PlacementAttempts,
			}).Warn("could not place room, dropping it")
		}
	}

	r.stats.RoomsPlaced = len(rooms)
	span.SetAttributes(
		attribute.Int("target", target),
		attribute.Int("placed", len(rooms)),
		attribute.Int("attempts", r.stats.PlacementAttempts),
	)
	return rooms
}

// fits checks world margins, centre spacing and padded footprint overlap.
func (r *run) fits(cand PlacedRoom, rooms []PlacedRoom) bool {
	rect := cand.Rect()
	lo, hi := r.cfg.Margin, r.cfg.WorldSize-r.cfg.Margin
	if rect.X < lo || rect.Y < lo || rect.X+rect.Width > hi || rect.Y+rect.Height > hi {
		return false
	}

	cx, cy := cand.center()
	padded := rect.Expand(r.cfg.RoomPadding)
	for _, other := range rooms {
		ox, oy := other.center()
		if math.Hypot(cx-ox, cy-oy) < r.cfg.Spacing {
			return false
		}
		if padded.Intersects(other.Rect()) {
			return false
		}
	}
	return true
}

// layout moves rooms so their bounding box plus margin starts at the origin,
// allocates the grid and pre-fills it with corridor walls.
func (r *run) layout(rooms []PlacedRoom, margin int) []PlacedRoom {
	bounds := rooms[0].Rect()
	for _, p := range rooms[1:] {
		bounds = bounds.Union(p.Rect())
	}
	bounds = bounds.Expand(margin)

	moved := make([]PlacedRoom, len(rooms))
	for i, p := range rooms {
		moved[i] = PlacedRoom{Template: p.Template, X: p.X - bounds.X, Y: p.Y - bounds.Y}
	}

	r.setGrid(bounds.Width, bounds.Height)
	r.prefill()
	return moved
}

// solid is the neighbour predicate for the pre-fill: the world starts closed.
func solid(int, int) bool { return false }

func (r *run) prefill() {
	for y := 0; y < r.grid.Height; y++ {
		for x := 0; x < r.grid.Width; x++ {
			tc := r.context(x, y, solid)
			r.grid.Set(x, y, r.corridorTile(rules.Foreground, tc), r.corridorTile(rules.Background, tc))
		}
	}
}

// corridorBackground resolves the background for a freshly carved cell.
func (r *run) corridorBackground(x, y int) world.Tile {
	return r.corridorTile(rules.Background, r.context(x, y, r.grid.IsPassable))
}

// corridorWall resolves the wall for a force-solid cell.
func (r *run) corridorWall(x, y int) world.Tile {
	return r.corridorTile(rules.Foreground, r.context(x, y, r.grid.IsPassable))
}

// stamp copies a template into the grid and records the carving masks.
func (r *run) stamp(p PlacedRoom) {
	tpl := p.Template
	for ty := 0; ty < tpl.Height; ty++ {
		for tx := 0; tx < tpl.Width; tx++ {
			x, y := p.X+tx, p.Y+ty
			switch t := tpl.At(tx, ty); t {
			case world.ForcePassable:
				r.grid.Set(x, y, world.Empty, r.corridorBackground(x, y))
				r.carve.MarkRoomAir(x, y)
			case world.ForceSolid:
				r.grid.Set(x, y, r.corridorWall(x, y), r.grid.GetBackground(x, y))
				r.carve.MarkBlocker(x, y)
			default:
				r.grid.Set(x, y, t, tpl.Style.Background)
				r.carve.MarkRoomTile(x, y)
			}
		}
	}
}

// connectRooms links rooms greedily: each step joins the closest pair of one
// connected and one unconnected room, then carves a tunnel between them.
func (r *run) connectRooms(ctx context.Context, rooms []PlacedRoom) []Corridor {
	_, span := r.tracer.Start(ctx, "dungeon.connect_rooms")
	defer span.End()

	connected := mapset.New[int]()
	connected.Put(0)
	var corridors []Corridor

	for connected.Size() < len(rooms) {
		from, to := -1, -1
		best := math.Inf(1)
		for i := range rooms {
			if !connected.Has(i) {
				continue
			}
			ix, iy := rooms[i].center()
			for j := range rooms {
				if connected.Has(j) {
					continue
				}
				jx, jy := rooms[j].center()
				if d := (ix-jx)*(ix-jx) + (iy-jy)*(iy-jy); d < best {
					best, from, to = d, i, j
				}
			}
		}

		start, end := r.tunnel(rooms[from], rooms[to])
		corridors = append(corridors, Corridor{From: from, To: to, Start: start, End: end})
		connected.Put(to)
	}

	span.SetAttributes(
		attribute.Int("tunnels", r.stats.TunnelsCarved),
		attribute.Int("cells", r.stats.TunnelCells),
	)
	return corridors
}
