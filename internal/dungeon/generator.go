// Package dungeon assembles tile grids from noise biomes or room templates.
package dungeon

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/delvegen/internal/logger"
	"github.com/samdwyer/delvegen/internal/rules"
	"github.com/samdwyer/delvegen/internal/telemetry"
	"github.com/samdwyer/delvegen/internal/world"
)

// Generator produces dungeons from a config and content. Generate may be called
// concurrently; every call owns its own state.
type Generator struct {
	cfg     Config
	content Content
	log     logrus.FieldLogger
	tracer  trace.Tracer
	query   *probe
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger for warnings and progress.
func WithLogger(log logrus.FieldLogger) Option {
	return func(g *Generator) { g.log = log }
}

// WithTracer overrides the tracer, mostly for tests.
func WithTracer(t trace.Tracer) Option {
	return func(g *Generator) { g.tracer = t }
}

// New validates cfg against content and returns a generator.
func New(cfg Config, content Content, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if content.Palette == nil {
		return nil, fmt.Errorf("%w: content has no palette", ErrInvalidConfig)
	}
	if cfg.Mode != ModeUniform && len(content.Templates) == 0 {
		return nil, fmt.Errorf("%s mode: %w", cfg.Mode, ErrNoTemplates)
	}

	g := &Generator{cfg: cfg, content: content}
	for _, opt := range opts {
		opt(g)
	}
	g.log = logger.OrDiscard(g.log)
	if g.tracer == nil {
		g.tracer = telemetry.Tracer("dungeon")
	}
	g.query = newProbe(cfg, content, cfg.Seed, cfg.Width, cfg.Height, g.log)
	return g, nil
}

// Config returns the generator configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate runs the configured mode. ctx is only used for tracing.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	ctx, span := g.tracer.Start(ctx, "dungeon.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("mode", string(g.cfg.Mode)),
		attribute.Int64("seed", g.cfg.Seed),
		attribute.Int("templates", len(g.content.Templates)),
	)

	r := g.newRun()
	var res *Result
	switch g.cfg.Mode {
	case ModeUniform:
		res = r.uniform(ctx)
	case ModeHub:
		res = r.hub(ctx)
	case ModeGraph:
		res = r.graph(ctx)
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, g.cfg.Mode)
	}

	span.SetAttributes(
		attribute.Int("width", res.Width),
		attribute.Int("height", res.Height),
		attribute.Int("rooms", res.Stats.RoomsPlaced),
	)
	g.log.WithFields(logrus.Fields{
		"mode":   res.Mode,
		"seed":   res.Seed,
		"width":  res.Width,
		"height": res.Height,
		"rooms":  res.Stats.RoomsPlaced,
	}).Debug("dungeon generated")
	return res, nil
}

// ContextAt builds the uniform-mode context for (x, y) at the configured seed.
// The query helpers share one cache and are not safe for concurrent use.
func (g *Generator) ContextAt(x, y int) *rules.Context {
	return g.query.uniformContext(x, y)
}

// ResolveBiome returns the first biome matching ctx.
func (g *Generator) ResolveBiome(ctx *rules.Context) (*rules.Biome, bool) {
	return g.query.resolver.Biome(g.content.Biomes, ctx)
}

// ResolveTile returns the tile of the first rule for layer matching ctx.
func (g *Generator) ResolveTile(rs []rules.Rule, layer rules.Layer, ctx *rules.Context) (world.Tile, bool) {
	return g.query.resolver.Tile(rs, layer, ctx)
}

// run is the state of one Generate call.
type run struct {
	*probe
	cfg     Config
	content Content
	log     logrus.FieldLogger
	tracer  trace.Tracer
	rng     *rand.Rand
	grid    *world.Grid
	carve   *world.CarveContext
	stats   Stats
}

func (g *Generator) newRun() *run {
	return &run{
		probe:   newProbe(g.cfg, g.content, g.cfg.Seed, g.cfg.Width, g.cfg.Height, g.log),
		cfg:     g.cfg,
		content: g.content,
		log:     g.log,
		tracer:  g.tracer,
		rng:     rand.New(rand.NewSource(g.cfg.Seed)),
	}
}

// setGrid installs the output grid and resizes the probe to match it.
func (r *run) setGrid(width, height int) {
	r.grid = world.NewGrid(width, height)
	r.carve = world.NewCarveContext(r.grid)
	r.probe.width = width
	r.probe.height = height
}
