package gamedata

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/delvegen/internal/dungeon"
	"github.com/samdwyer/delvegen/internal/rules"
	"github.com/samdwyer/delvegen/internal/telemetry"
)

// BiomesFile represents the structure of biomes.json.
type BiomesFile struct {
	Biomes []rules.BiomeSpec `json:"biomes"`
}

// CorridorFile represents the structure of corridor.json.
type CorridorFile struct {
	Rules []rules.RuleSpec `json:"rules"`
}

// Options controls content decoding.
type Options struct {
	Strict    bool     // reject unknown value keys and modifiers
	Templates []string // use only these template ids, in this order; empty uses all
	Log       logrus.FieldLogger
}

// LoadContent reads tiles.json, biomes.json, corridor.json and templates.json
// from fsys. Rule groups are flattened here.
func LoadContent(ctx context.Context, fsys fs.FS, opts Options) (dungeon.Content, error) {
	_, span := telemetry.Tracer("gamedata").Start(ctx, "template.load")
	defer span.End()

	palette, err := LoadPalette(fsys)
	if err != nil {
		return dungeon.Content{}, err
	}

	dec := rules.Decoder{Strict: opts.Strict, Log: opts.Log}

	biomesFile, err := LoadFrom[BiomesFile](fsys, "biomes.json")
	if err != nil {
		return dungeon.Content{}, err
	}
	biomes, err := dec.Biomes(biomesFile.Biomes)
	if err != nil {
		return dungeon.Content{}, err
	}

	corridorFile, err := LoadFrom[CorridorFile](fsys, "corridor.json")
	if err != nil {
		return dungeon.Content{}, err
	}
	corridor, err := dec.Rules(corridorFile.Rules)
	if err != nil {
		return dungeon.Content{}, err
	}

	lib, err := LoadTemplateLibrary(fsys, palette)
	if err != nil {
		return dungeon.Content{}, err
	}
	templates := lib.All()
	if len(opts.Templates) > 0 {
		for _, id := range opts.Templates {
			if lib.GetByID(id) == nil {
				return dungeon.Content{}, fmt.Errorf("templates.json: unknown template %q", id)
			}
		}
		templates = lib.GetMultiple(opts.Templates)
	}

	span.SetAttributes(
		attribute.Int("tiles", len(palette.All())),
		attribute.Int("biomes", len(biomes)),
		attribute.Int("corridor_rules", len(corridor)),
		attribute.Int("templates", len(templates)),
	)
	return dungeon.Content{
		Palette:       palette,
		Biomes:        biomes,
		CorridorRules: corridor,
		Templates:     templates,
	}, nil
}

// DefaultContent loads the embedded content.
func DefaultContent(ctx context.Context, opts Options) (dungeon.Content, error) {
	return LoadContent(ctx, dataFS, opts)
}

// MustLoadContent loads the embedded content, panicking on error.
func MustLoadContent() dungeon.Content {
	content, err := DefaultContent(context.Background(), Options{Strict: true})
	if err != nil {
		panic(err)
	}
	return content
}
