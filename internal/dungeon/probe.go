package dungeon

import (
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/delvegen/internal/noise"
	"github.com/samdwyer/delvegen/internal/rules"
	"github.com/samdwyer/delvegen/internal/world"
)

// signals samples the noise-derived context keys from one field.
type signals struct {
	field  *noise.Field
	scales Scales
}

// Sample implements rules.Sampler.
func (s *signals) Sample(k rules.Key, x, y float64) float64 {
	sc := s.scales
	switch k {
	case rules.KeyNoise:
		return s.field.Get(x, y, sc.Noise)
	case rules.KeyDetail:
		return s.field.Get(x, y, sc.Detail)
	case rules.KeyFBM:
		return s.field.GetFBM(x, y, sc.FBM, sc.FBMOctaves, sc.FBMPersistence, sc.FBMLacunarity)
	case rules.KeyCave:
		return s.field.Get(x, y, sc.Cave)
	case rules.KeyRidge:
		return s.field.Ridge(x, y, sc.Ridge)
	case rules.KeyBillow:
		return s.field.Billowy(x, y, sc.Billow)
	case rules.KeyWarp:
		return s.field.Warped(x, y, sc.Warp, sc.WarpStrength)
	case rules.KeyStretch:
		return s.field.Stretched(x, y, sc.StretchX, sc.StretchY)
	case rules.KeyTerrace:
		return s.field.Terrace(x, y, sc.Terrace, sc.TerraceSteps)
	case rules.KeyBand:
		return s.field.Band(x, y, sc.Band, sc.BandCenter, sc.BandWidth)
	default:
		return 0
	}
}

// probe answers per-tile rule queries for one seed. Generation and the public
// query helpers share it so previews match generated output exactly.
// A probe caches tile lookups and is not safe for concurrent use.
type probe struct {
	cfg      Config
	content  Content
	field    *noise.Field
	signals  *signals
	resolver *rules.Resolver
	width    int
	height   int
}

func newProbe(cfg Config, content Content, seed int64, width, height int, log logrus.FieldLogger) *probe {
	field := noise.New(seed)
	sig := &signals{field: field, scales: cfg.Scales}
	eval := &rules.Evaluator{Sampler: sig}
	return &probe{
		cfg:      cfg,
		content:  content,
		field:    field,
		signals:  sig,
		resolver: rules.NewResolver(eval, content.Palette, log),
		width:    width,
		height:   height,
	}
}

// context builds the full context for (x, y). open reports neighbour passability.
func (p *probe) context(x, y int, open func(x, y int) bool) *rules.Context {
	ctx := rules.NewContext(x, y)
	fx, fy := float64(x), float64(y)
	for _, k := range rules.NoiseKeys() {
		ctx.Set(k, p.signals.Sample(k, fx, fy))
	}

	ctx.SetFlag(rules.KeyOpenUp, open(x, y-1))
	ctx.SetFlag(rules.KeyOpenDown, open(x, y+1))
	ctx.SetFlag(rules.KeyOpenLeft, open(x-1, y))
	ctx.SetFlag(rules.KeyOpenRight, open(x+1, y))

	ctx.Set(rules.KeyArch, p.arch(x, y))
	if p.height > 0 {
		ctx.Set(rules.KeyDepth, fy/float64(p.height))
	}
	if p.width > 0 {
		ctx.Set(rules.KeyXPos, fx/float64(p.width))
	}
	ctx.Set(rules.KeyRandom, p.field.Hash01(x, y))
	return ctx
}

// arch measures the arch height from the bottom of the current course.
func (p *probe) arch(x, y int) float64 {
	a := p.cfg.Arch
	if a.Spacing <= 0 {
		return 0
	}
	var rise int
	if a.Band > 0 {
		rise = a.Band - 1 - floorMod(y, a.Band)
	} else {
		rise = p.height - 1 - y
	}
	return noise.Arch(float64(x), float64(rise), a.Spacing, a.HalfWidth, a.Height)
}

// caveOpen is the uniform-mode passability predicate used for neighbour flags.
func (p *probe) caveOpen(x, y int) bool {
	return p.signals.Sample(rules.KeyCave, float64(x), float64(y)) > p.cfg.CaveThreshold
}

// uniformContext is the context used by uniform mode and the query helpers.
func (p *probe) uniformContext(x, y int) *rules.Context {
	return p.context(x, y, p.caveOpen)
}

// corridorTile resolves a corridor rule layer, falling back to the palette default.
func (p *probe) corridorTile(layer rules.Layer, ctx *rules.Context) world.Tile {
	if t, ok := p.resolver.Tile(p.content.CorridorRules, layer, ctx); ok {
		return t
	}
	if layer == rules.Background {
		return p.content.Palette.DefaultBackground()
	}
	return p.content.Palette.DefaultWall()
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
