// Package config loads delvegen settings from the environment.
package config

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/samdwyer/delvegen/internal/dungeon"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Env is the environment-backed configuration. Command-line flags override it.
type Env struct {
	Seed         int64  `env:"DELVEGEN_SEED" envDefault:"0"` // 0 picks a random seed
	Mode         string `env:"DELVEGEN_MODE" envDefault:"hub"`
	Width        int    `env:"DELVEGEN_WIDTH" envDefault:"96"`
	Height       int    `env:"DELVEGEN_HEIGHT" envDefault:"48"`
	TileSize     int    `env:"DELVEGEN_TILE_SIZE" envDefault:"16"`
	CaveDistance int    `env:"DELVEGEN_CAVE_DISTANCE" envDefault:"4"`
	MinRooms     int    `env:"DELVEGEN_MIN_ROOMS" envDefault:"4"`
	MaxRooms     int    `env:"DELVEGEN_MAX_ROOMS" envDefault:"8"`
	Output       string `env:"DELVEGEN_OUTPUT" envDefault:"view"` // view, dump or overlay
	DataDir      string `env:"DELVEGEN_DATA_DIR"`                 // empty uses the embedded content
	Strict       bool   `env:"DELVEGEN_STRICT" envDefault:"true"`

	Templates []string `env:"DELVEGEN_TEMPLATES" envSeparator:","` // template ids; empty uses all

	OTelEndpoint string `env:"DELVEGEN_OTEL_ENDPOINT"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load parses Env from the process environment.
func Load() (Env, error) {
	var e Env
	if err := ParseEnv(&e); err != nil {
		return Env{}, err
	}
	return e, nil
}

// Generation builds the generator config. A zero seed is replaced with a random one.
func (e Env) Generation() (dungeon.Config, error) {
	mode, err := dungeon.ParseMode(e.Mode)
	if err != nil {
		return dungeon.Config{}, err
	}

	cfg := dungeon.DefaultConfig()
	cfg.Mode = mode
	cfg.Seed = e.Seed
	cfg.Width = e.Width
	cfg.Height = e.Height
	cfg.TileSize = e.TileSize
	cfg.MinRooms = e.MinRooms
	cfg.MaxRooms = e.MaxRooms
	cfg.Corridor.CaveDistance = e.CaveDistance

	if cfg.Seed == 0 {
		if cfg.Seed, err = NewSeed(); err != nil {
			return dungeon.Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return dungeon.Config{}, err
	}
	return cfg, nil
}

// NewSeed generates a random non-zero seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	for {
		if _, err := crand.Read(b[:]); err != nil {
			return 0, fmt.Errorf("read random seed: %w", err)
		}
		if s := int64(binary.LittleEndian.Uint64(b[:])); s != 0 {
			return s, nil
		}
	}
}
