package dungeon

import (
	"context"

	"github.com/zyedidia/generic/queue"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/delvegen/internal/world"
)

// carveCaves erodes walls around room air. A breadth-first distance field is
// grown from every room-air cell, never through blockers, up to CaveDistance.
// Walls inside the field are opened when distance plus roughness-scaled noise
// stays below CaveDistance. Blockers and room tiles are never touched.
func (r *run) carveCaves(ctx context.Context) {
	limit := r.cfg.Corridor.CaveDistance
	if limit <= 0 {
		return
	}
	_, span := r.tracer.Start(ctx, "dungeon.carve_caves")
	defer span.End()

	dist := r.caveDistances(limit)
	cc := r.cfg.Corridor
	scale := nonZero(cc.CaveNoiseScale)

	carved := 0
	for i, d := range dist {
		if d < 0 {
			continue
		}
		if r.grid.Foreground[i] == world.Empty || r.carve.Blocker[i] || r.carve.RoomTile[i] {
			continue
		}
		x, y := i%r.grid.Width, i/r.grid.Width
		n := r.field.Get(float64(x), float64(y), scale)
		if float64(d)+n*cc.CaveRoughness < float64(limit) {
			r.grid.Set(x, y, world.Empty, r.corridorBackground(x, y))
			carved++
		}
	}

	r.stats.CaveCells += carved
	span.SetAttributes(attribute.Int("cells", carved))
}

// caveDistances returns the 4-connected distance from the nearest room-air cell,
// or -1 where the field did not reach within limit.
func (r *run) caveDistances(limit int) []int {
	w := r.grid.Width
	dist := make([]int, len(r.grid.Foreground))
	for i := range dist {
		dist[i] = -1
	}

	q := queue.New[int]()
	for i, air := range r.carve.RoomAir {
		if air {
			dist[i] = 0
			q.Enqueue(i)
		}
	}

	for !q.Empty() {
		i := q.Dequeue()
		if dist[i] >= limit {
			continue
		}
		x, y := i%w, i/w
		for _, d := range neighbours {
			j := r.carve.Index(x+d.X, y+d.Y)
			if j < 0 || dist[j] >= 0 || r.carve.Blocker[j] {
				continue
			}
			dist[j] = dist[i] + 1
			q.Enqueue(j)
		}
	}
	return dist
}
