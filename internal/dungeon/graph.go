package dungeon

import (
	"context"
	"math"

	"github.com/zyedidia/generic/mapset"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/delvegen/internal/template"
	"github.com/samdwyer/delvegen/internal/world"
)

// doorKey identifies one edge of one opening of a placed room. An opening that
// reaches several edges can take one link per edge.
type doorKey struct {
	room, opening int
	edge          template.Edge
}

// door is a free doorKey and its world position.
type door struct {
	doorKey
	at world.Point // representative point of the opening on edge
}

// link joins two doors.
type link struct {
	a, b door
	loop bool
}

// connector grows a room graph by docking templates opening to opening.
type connector struct {
	run   *run
	rooms []PlacedRoom
	links []link
	used  mapset.Set[doorKey]
}

// graph builds the room graph, then stamps it and carves one path per link.
func (r *run) graph(ctx context.Context) *Result {
	_, span := r.tracer.Start(ctx, "dungeon.graph")
	defer span.End()

	c := &connector{run: r, used: mapset.New[doorKey]()}
	c.grow()
	r.stats.RoomsPlaced = len(c.rooms)

	rooms := r.layout(c.rooms, r.cfg.Margin)
	shift := world.Point{X: rooms[0].X - c.rooms[0].X, Y: rooms[0].Y - c.rooms[0].Y}
	for _, p := range rooms {
		r.stamp(p)
	}

	corridors := make([]Corridor, 0, len(c.links))
	for _, l := range c.links {
		start, end := l.a.at.Add(shift), l.b.at.Add(shift)
		bgA := rooms[l.a.room].Template.Style.Background
		bgB := rooms[l.b.room].Template.Style.Background
		horizontal := l.a.edge == template.EdgeLeft || l.a.edge == template.EdgeRight

		cells := r.carvePath(start, end, horizontal, func(x, y int, t float64) world.Tile {
			if r.field.Hash01(x, y) < t {
				return bgB
			}
			return bgA
		})
		r.stats.TunnelsCarved++
		r.stats.TunnelCells += cells
		corridors = append(corridors, Corridor{From: l.a.room, To: l.b.room, Start: start, End: end, Loop: l.loop})
	}

	span.SetAttributes(
		attribute.Int("rooms", len(rooms)),
		attribute.Int("links", len(c.links)),
		attribute.Int("loops", r.stats.LoopsAdded),
	)
	return r.result(ModeGraph, rooms, corridors)
}

// grow places rooms until the room cap or the failure budget is reached.
func (c *connector) grow() {
	r := c.run
	gc := r.cfg.Graph
	templates := r.content.Templates

	c.rooms = append(c.rooms, PlacedRoom{Template: templates[r.rng.Intn(len(templates))]})

	failures := 0
	for len(c.rooms) < gc.MaxRooms && failures < gc.MaxFailures {
		free := c.freeDoors()
		if len(free) == 0 {
			break
		}
		from := free[r.rng.Intn(len(free))]
		want := from.edge.Opposite()

		var candidates []*template.Template
		for _, tpl := range templates {
			if tpl.HasEdge(want) {
				candidates = append(candidates, tpl)
			}
		}
		if len(candidates) == 0 {
			failures++
			continue
		}
		tpl := candidates[r.rng.Intn(len(candidates))]
		ids := tpl.OpeningsOn(want)
		oi := ids[r.rng.Intn(len(ids))]

		gap := gc.MinGap + r.rng.Intn(gc.MaxGap-gc.MinGap+1)
		dx, dy := from.edge.Delta()
		target := from.at.Add(world.Point{X: dx * (gap + 1), Y: dy * (gap + 1)})
		local := tpl.Openings[oi].Points[want]
		cand := PlacedRoom{Template: tpl, X: target.X - local.X, Y: target.Y - local.Y}

		r.stats.PlacementAttempts++
		if c.overlaps(cand) {
			failures++
			continue
		}

		c.rooms = append(c.rooms, cand)
		to := door{doorKey: doorKey{room: len(c.rooms) - 1, opening: oi, edge: want}, at: target}
		c.connect(from, to, false)

		if r.rng.Float64() < gc.LoopChance {
			c.addLoop()
		}
	}
}

// freeDoors lists unused doors in room, opening and edge order.
func (c *connector) freeDoors() []door {
	var out []door
	for ri, p := range c.rooms {
		origin := world.Point{X: p.X, Y: p.Y}
		for oi, o := range p.Template.Openings {
			for _, e := range o.Edges {
				k := doorKey{room: ri, opening: oi, edge: e}
				if c.used.Has(k) {
					continue
				}
				out = append(out, door{doorKey: k, at: origin.Add(o.Points[e])})
			}
		}
	}
	return out
}

func (c *connector) overlaps(cand PlacedRoom) bool {
	rect := cand.Rect().Expand(c.run.cfg.Graph.RoomPadding)
	for _, p := range c.rooms {
		if rect.Intersects(p.Rect()) {
			return true
		}
	}
	return false
}

func (c *connector) connect(a, b door, loop bool) {
	c.used.Put(a.doorKey)
	c.used.Put(b.doorKey)
	c.links = append(c.links, link{a: a, b: b, loop: loop})
}

// addLoop links the closest facing pair of free doors on different rooms, if any
// pair lies within MaxLoopDistance. A pair faces when b sits in front of a and
// uses the opposite edge.
func (c *connector) addLoop() {
	free := c.freeDoors()
	maxDist := c.run.cfg.Graph.MaxLoopDistance
	best := math.Inf(1)
	var pick [2]door
	found := false

	for i, a := range free {
		dx, dy := a.edge.Delta()
		for _, b := range free[i+1:] {
			if a.room == b.room || b.edge != a.edge.Opposite() {
				continue
			}
			vx, vy := b.at.X-a.at.X, b.at.Y-a.at.Y
			if vx*dx+vy*dy <= 0 {
				continue
			}
			d := math.Hypot(float64(vx), float64(vy))
			if d <= maxDist && d < best {
				best, pick, found = d, [2]door{a, b}, true
			}
		}
	}
	if !found {
		return
	}
	c.connect(pick[0], pick[1], true)
	c.run.stats.LoopsAdded++
}
