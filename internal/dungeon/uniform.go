package dungeon

import (
	"context"

	"github.com/samdwyer/delvegen/internal/rules"
	"github.com/samdwyer/delvegen/internal/world"
)

// uniform fills a fixed grid from the biome set. Cells with no biome stay empty.
func (r *run) uniform(ctx context.Context) *Result {
	_, span := r.tracer.Start(ctx, "dungeon.uniform")
	defer span.End()

	r.setGrid(r.cfg.Width, r.cfg.Height)
	biomes := make([]string, r.cfg.Width*r.cfg.Height)

	for y := 0; y < r.grid.Height; y++ {
		for x := 0; x < r.grid.Width; x++ {
			fg, bg, id := r.uniformAt(x, y)
			r.grid.Set(x, y, fg, bg)
			biomes[y*r.grid.Width+x] = id
		}
	}

	res := r.result(ModeUniform, nil, nil)
	res.Biomes = biomes
	return res
}

// uniformAt resolves a single uniform-mode cell without building a grid.
func (p *probe) uniformAt(x, y int) (fg, bg world.Tile, biome string) {
	tc := p.uniformContext(x, y)
	b, ok := p.resolver.Biome(p.content.Biomes, tc)
	if !ok {
		return world.Empty, world.Empty, ""
	}
	fg, _ = p.resolver.Tile(b.Rules, rules.Foreground, tc)
	bg, _ = p.resolver.Tile(b.Rules, rules.Background, tc)
	return fg, bg, b.ID
}
