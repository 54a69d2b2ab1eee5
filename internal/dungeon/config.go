package dungeon

import (
	"errors"
	"fmt"
)

// Mode selects the assembly strategy.
type Mode string

const (
	ModeUniform Mode = "uniform" // noise-biome fill of a fixed-size grid
	ModeHub     Mode = "hub"     // templates placed around an anchor, linked by tunnels
	ModeGraph   Mode = "graph"   // templates docked opening to opening
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeUniform, ModeHub, ModeGraph:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
	}
}

var (
	// ErrInvalidConfig is returned for configurations that cannot produce a grid.
	ErrInvalidConfig = errors.New("invalid generation config")
	// ErrNoTemplates is returned when a template mode has nothing to place.
	ErrNoTemplates = errors.New("no room templates")
)

// Scales are the noise divisors behind each noise-derived context key.
type Scales struct {
	Noise  float64
	Detail float64
	FBM    float64
	Cave   float64
	Ridge  float64
	Billow float64
	Warp   float64

	FBMOctaves     int
	FBMPersistence float64
	FBMLacunarity  float64
	WarpStrength   float64

	StretchX, StretchY float64 // per-axis divisors for the stretch key
	Terrace            float64
	TerraceSteps       int
	Band               float64
	BandCenter         float64
	BandWidth          float64
}

// ArchConfig shapes the geometric arch indicator.
type ArchConfig struct {
	Spacing   float64 // tiles between arch centres
	HalfWidth float64
	Height    float64
	Band      int // rows per arch course; 0 measures from the bottom of the grid
}

// CorridorConfig tunes tunnel and cave carving.
type CorridorConfig struct {
	Width          float64 // base tunnel diameter in tiles
	NoiseAmplitude float64 // max perpendicular displacement in tiles
	WidthVariation float64 // max radius change in tiles
	CaveDistance   int     // erosion halo size; 0 disables cave carving
	CaveRoughness  float64

	PathNoiseScale  float64
	WidthNoiseScale float64
	CaveNoiseScale  float64
}

// GraphConfig tunes the graph connector.
type GraphConfig struct {
	MaxRooms        int
	MaxFailures     int
	LoopChance      float64
	MaxLoopDistance float64
	MinGap, MaxGap  int // corridor length between docked openings
	RoomPadding     int
}

// Config holds everything a run needs besides content. It is read-only during a run.
type Config struct {
	Mode     Mode
	Seed     int64
	Width    int // uniform mode grid size
	Height   int
	TileSize int // pixels per tile, for the spawn point

	Scales        Scales
	CaveThreshold float64 // uniform mode: cave noise above this is open
	Arch          ArchConfig

	MinRooms          int
	MaxRooms          int
	MinDistance       float64
	MaxDistance       float64
	Spacing           float64 // minimum centre-to-centre distance
	RoomPadding       int
	WorldSize         int // placement area edge length
	Margin            int
	PlacementAttempts int

	Corridor CorridorConfig
	Graph    GraphConfig
}

// DefaultConfig returns tuned defaults.
func DefaultConfig() Config {
	return Config{
		Mode:     ModeHub,
		Width:    96,
		Height:   48,
		TileSize: 16,
		Scales: Scales{
			Noise:          24,
			Detail:         6,
			FBM:            32,
			Cave:           14,
			Ridge:          20,
			Billow:         18,
			Warp:           28,
			FBMOctaves:     4,
			FBMPersistence: 0.5,
			FBMLacunarity:  2,
			WarpStrength:   8,
			StretchX:       40,
			StretchY:       6,
			Terrace:        30,
			TerraceSteps:   4,
			Band:           36,
			BandCenter:     0.5,
			BandWidth:      0.12,
		},
		CaveThreshold: 0.52,
		Arch: ArchConfig{
			Spacing:   16,
			HalfWidth: 5,
			Height:    6,
			Band:      12,
		},
		MinRooms:          4,
		MaxRooms:          8,
		MinDistance:       16,
		MaxDistance:       28,
		Spacing:           14,
		RoomPadding:       2,
		WorldSize:         256,
		Margin:            8,
		PlacementAttempts: 60,
		Corridor: CorridorConfig{
			Width:           3,
			NoiseAmplitude:  3,
			WidthVariation:  0.75,
			CaveDistance:    4,
			CaveRoughness:   2.5,
			PathNoiseScale:  9,
			WidthNoiseScale: 5,
			CaveNoiseScale:  2.5,
		},
		Graph: GraphConfig{
			MaxRooms:        10,
			MaxFailures:     80,
			LoopChance:      0.35,
			MaxLoopDistance: 18,
			MinGap:          3,
			MaxGap:          8,
			RoomPadding:     1,
		},
	}
}

// Validate checks the fields used by the configured mode.
func (c Config) Validate() error {
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("%w: tile size must be positive", ErrInvalidConfig)
	}
	if c.Corridor.CaveDistance < 0 {
		return fmt.Errorf("%w: cave distance must not be negative", ErrInvalidConfig)
	}

	switch c.Mode {
	case ModeUniform:
		if c.Width <= 0 || c.Height <= 0 {
			return fmt.Errorf("%w: grid size %dx%d", ErrInvalidConfig, c.Width, c.Height)
		}
	case ModeHub:
		if c.MinRooms < 1 || c.MaxRooms < c.MinRooms {
			return fmt.Errorf("%w: room range %d..%d", ErrInvalidConfig, c.MinRooms, c.MaxRooms)
		}
		if c.MinDistance < 0 || c.MaxDistance < c.MinDistance {
			return fmt.Errorf("%w: distance range %v..%v", ErrInvalidConfig, c.MinDistance, c.MaxDistance)
		}
		if c.PlacementAttempts < 1 {
			return fmt.Errorf("%w: placement attempts must be positive", ErrInvalidConfig)
		}
		if c.WorldSize <= 2*c.Margin {
			return fmt.Errorf("%w: world size %d too small for margin %d", ErrInvalidConfig, c.WorldSize, c.Margin)
		}
	case ModeGraph:
		if c.Graph.MaxRooms < 1 || c.Graph.MaxFailures < 1 {
			return fmt.Errorf("%w: graph room cap and failure budget must be positive", ErrInvalidConfig)
		}
		if c.Graph.MinGap < 0 || c.Graph.MaxGap < c.Graph.MinGap {
			return fmt.Errorf("%w: gap range %d..%d", ErrInvalidConfig, c.Graph.MinGap, c.Graph.MaxGap)
		}
	}
	return nil
}
