package viewer

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/delvegen/internal/dungeon"
	"github.com/samdwyer/delvegen/internal/logger"
	"github.com/samdwyer/delvegen/internal/telemetry"
	"github.com/samdwyer/delvegen/internal/ui"
	"github.com/samdwyer/delvegen/internal/world"
)

// Viewer holds the browser state.
type Viewer struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	cfg      dungeon.Config
	content  dungeon.Content
	log      logrus.FieldLogger
	result   *dungeon.Result
	cursor   world.Point
	state    State
	running  bool
}

// New creates a viewer on screen. The first map is generated by Run.
func New(screen *ui.Screen, cfg dungeon.Config, content dungeon.Content, log logrus.FieldLogger) *Viewer {
	return &Viewer{
		screen:   screen,
		renderer: ui.NewRenderer(screen, content.Palette),
		cfg:      cfg,
		content:  content,
		log:      logger.OrDiscard(log),
		state:    StateExplore,
		running:  true,
	}
}

// Run executes the main loop until the user quits.
func (v *Viewer) Run(ctx context.Context) error {
	if err := v.generate(ctx, v.cfg.Seed); err != nil {
		return err
	}

	for v.running {
		v.draw()
		v.handleInput(ctx)
	}

	v.screen.Close()
	return nil
}

// generate replaces the current map and puts the cursor on the spawn tile.
func (v *Viewer) generate(ctx context.Context, seed int64) error {
	ctx, span := telemetry.Tracer("viewer").Start(ctx, "viewer.generate")
	defer span.End()

	cfg := v.cfg
	cfg.Seed = seed
	g, err := dungeon.New(cfg, v.content, dungeon.WithLogger(v.log))
	if err != nil {
		return fmt.Errorf("create generator: %w", err)
	}
	res, err := g.Generate(ctx)
	if err != nil {
		return fmt.Errorf("generate seed %d: %w", seed, err)
	}

	v.cfg = cfg
	v.result = res
	v.cursor = startPoint(res, cfg.TileSize)
	span.SetAttributes(
		attribute.Int64("seed", seed),
		attribute.Int("cursor.x", v.cursor.X),
		attribute.Int("cursor.y", v.cursor.Y),
	)
	return nil
}

// startPoint converts the spawn back to tiles, or picks the grid centre.
func startPoint(res *dungeon.Result, tileSize int) world.Point {
	if len(res.Rooms) == 0 || tileSize <= 0 {
		return world.Point{X: res.Width / 2, Y: res.Height / 2}
	}
	return world.Point{X: int(res.Spawn.X) / tileSize, Y: int(res.Spawn.Y) / tileSize}
}

func (v *Viewer) draw() {
	w, h := v.screen.Size()
	cam := ui.Follow(v.cursor.X, v.cursor.Y, w, h-1, v.result.Width, v.result.Height)
	v.renderer.Render(v.result, cam, v.cursor)
	v.renderer.RenderMessage(v.status(), h-1)
	v.renderer.Show()
}

// status is the bottom line text.
func (v *Viewer) status() string {
	res := v.result
	p := res.Palette()
	x, y := v.cursor.X, v.cursor.Y
	line := fmt.Sprintf("%s seed=%d %dx%d rooms=%d [%s] (%d,%d) fg=%s bg=%s",
		res.Mode, res.Seed, res.Width, res.Height, len(res.Rooms), v.state,
		x, y, p.Name(res.Tile(x, y)), p.Name(res.BackgroundAt(x, y)))
	if b := res.BiomeAt(x, y); b != "" {
		line += " biome=" + b
	}
	return line
}

// handleInput processes a single input event.
func (v *Viewer) handleInput(ctx context.Context) {
	ev := v.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		v.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		v.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (v *Viewer) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		v.running = false

	case tcell.KeyUp:
		v.tryMove(0, -1)
	case tcell.KeyDown:
		v.tryMove(0, 1)
	case tcell.KeyLeft:
		v.tryMove(-1, 0)
	case tcell.KeyRight:
		v.tryMove(1, 0)

	case tcell.KeyTab:
		if v.state == StateExplore {
			v.state = StateInspect
		} else {
			v.state = StateExplore
		}

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			v.running = false
		case 'n':
			v.reseed(ctx, v.cfg.Seed+1)
		case 'p':
			v.reseed(ctx, v.cfg.Seed-1)
		}
	}
}

func (v *Viewer) reseed(ctx context.Context, seed int64) {
	if err := v.generate(ctx, seed); err != nil {
		v.log.WithError(err).Error("regenerate failed")
	}
}

// tryMove attempts to move the cursor by the given delta.
func (v *Viewer) tryMove(dx, dy int) {
	nx, ny := v.cursor.X+dx, v.cursor.Y+dy
	if nx < 0 || ny < 0 || nx >= v.result.Width || ny >= v.result.Height {
		return
	}
	if v.state == StateExplore && !v.result.Walkable(nx, ny) {
		return
	}
	v.cursor = world.Point{X: nx, Y: ny}
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	if v.screen != nil {
		v.screen.Close()
	}
}
