package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/samdwyer/delvegen/internal/dungeon"
)

type envTestConfig struct {
	Port int `env:"DELVEGEN_TEST_PORT" envDefault:"123"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("DELVEGEN_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DELVEGEN_SEED", "42")
	t.Setenv("DELVEGEN_MODE", "graph")
	t.Setenv("DELVEGEN_CAVE_DISTANCE", "0")
	t.Setenv("DELVEGEN_STRICT", "false")

	e, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if e.Seed != 42 || e.Mode != "graph" || e.CaveDistance != 0 || e.Strict {
		t.Fatalf("unexpected env config: %+v", e)
	}
	if e.Output != "view" || e.Width != 96 || e.TileSize != 16 {
		t.Errorf("defaults not applied: %+v", e)
	}

	cfg, err := e.Generation()
	if err != nil {
		t.Fatalf("Generation: %v", err)
	}
	if cfg.Mode != dungeon.ModeGraph || cfg.Seed != 42 || cfg.Corridor.CaveDistance != 0 {
		t.Errorf("unexpected generation config: %+v", cfg)
	}
}

func TestGenerationPicksRandomSeed(t *testing.T) {
	e, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	e.Seed = 0

	cfg, err := e.Generation()
	if err != nil {
		t.Fatalf("Generation: %v", err)
	}
	if cfg.Seed == 0 {
		t.Error("expected a random non-zero seed")
	}
}

func TestGenerationRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Env)
	}{
		{"unknown mode", func(e *Env) { e.Mode = "labyrinth" }},
		{"inverted room range", func(e *Env) { e.MinRooms, e.MaxRooms = 6, 2 }},
		{"zero tile size", func(e *Env) { e.TileSize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			e.Seed = 1
			tt.mutate(&e)
			if _, err := e.Generation(); !errors.Is(err, dungeon.ErrInvalidConfig) {
				t.Errorf("Generation() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
