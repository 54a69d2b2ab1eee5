// Package delvegen implements the delvegen command.
package delvegen

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/samdwyer/delvegen/internal/config"
	"github.com/samdwyer/delvegen/internal/dungeon"
	"github.com/samdwyer/delvegen/internal/gamedata"
	"github.com/samdwyer/delvegen/internal/logger"
	"github.com/samdwyer/delvegen/internal/preview"
	"github.com/samdwyer/delvegen/internal/ui"
	"github.com/samdwyer/delvegen/internal/viewer"
	"github.com/samdwyer/delvegen/internal/world"
)

// Output names.
const (
	OutputView    = "view"
	OutputDump    = "dump"
	OutputOverlay = "overlay"
)

// Config holds command configuration.
type Config struct {
	config.Env
	Color  string // auto, always or never
	Legend bool
}

// ParseConfig reads the environment and then applies flags on top of it.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	env, err := config.Load()
	if err != nil {
		return Config{}, err
	}
	cfg := Config{Env: env}

	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "generation seed (0 = random)")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "generation mode (uniform, hub, graph)")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "grid width for uniform mode")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "grid height for uniform mode")
	fs.IntVar(&cfg.TileSize, "tile-size", cfg.TileSize, "pixels per tile for spawn coordinates")
	fs.IntVar(&cfg.CaveDistance, "cave-distance", cfg.CaveDistance, "cave carving radius around rooms (0 = off)")
	fs.IntVar(&cfg.MinRooms, "min-rooms", cfg.MinRooms, "minimum rooms in hub mode")
	fs.IntVar(&cfg.MaxRooms, "max-rooms", cfg.MaxRooms, "maximum rooms in hub mode")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "output (view, dump, overlay)")
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "content directory (default: embedded)")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "reject unknown keys in rule data")
	fs.Func("templates", "comma-separated template ids to place (default: all)", func(v string) error {
		cfg.Templates = splitList(v)
		return nil
	})
	fs.StringVar(&cfg.Color, "color", "auto", "colour dump output (auto, always, never)")
	fs.BoolVar(&cfg.Legend, "legend", true, "append a glyph legend to dump output")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	switch cfg.Output {
	case OutputView, OutputDump, OutputOverlay:
	default:
		return Config{}, fmt.Errorf("unknown output %q (valid outputs: view, dump, overlay)", cfg.Output)
	}
	switch cfg.Color {
	case "auto", "always", "never":
	default:
		return Config{}, fmt.Errorf("unknown color mode %q", cfg.Color)
	}
	return cfg, nil
}

// Run executes the command. Logs go to errOut, maps to out.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: errOut})

	genCfg, err := cfg.Generation()
	if err != nil {
		return err
	}
	content, err := loadContent(ctx, cfg, log)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"seed":      genCfg.Seed,
		"mode":      genCfg.Mode,
		"templates": len(content.Templates),
		"biomes":    len(content.Biomes),
	}).Info("Content loaded")

	if cfg.Output == OutputView {
		screen, err := ui.NewScreen()
		if err != nil {
			return fmt.Errorf("open screen: %w", err)
		}
		v := viewer.New(screen, genCfg, content, log)
		defer v.Close()
		return v.Run(ctx)
	}

	g, err := dungeon.New(genCfg, content, dungeon.WithLogger(log))
	if err != nil {
		return err
	}

	if cfg.Output == OutputOverlay {
		return preview.Overlay(out, g, world.Rect{Width: genCfg.Width, Height: genCfg.Height})
	}

	res, err := g.Generate(ctx)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"id":        res.ID,
		"seed":      res.Seed,
		"mode":      res.Mode,
		"width":     res.Width,
		"height":    res.Height,
		"rooms":     len(res.Rooms),
		"corridors": len(res.Corridors),
		"reachable": dungeon.Reachable(res),
	}).Info("Dungeon generated")

	return preview.Dump(out, res, preview.Options{Color: colored(cfg.Color, out), Legend: cfg.Legend})
}

func loadContent(ctx context.Context, cfg Config, log logrus.FieldLogger) (dungeon.Content, error) {
	opts := gamedata.Options{Strict: cfg.Strict, Templates: cfg.Templates, Log: log}
	if cfg.DataDir == "" {
		return gamedata.DefaultContent(ctx, opts)
	}
	return gamedata.LoadContent(ctx, os.DirFS(cfg.DataDir), opts)
}

// colored resolves the colour mode. auto colours only terminals.
func colored(mode string, out io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
