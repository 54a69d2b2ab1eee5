// Package world provides the tile grid, tile palette and carving masks shared by the generators.
package world

import "fmt"

// Tile identifies a palette entry. The zero value is the empty sentinel.
type Tile uint16

const (
	// Empty is the only tile value meaning "nothing here, passable".
	Empty Tile = 0
	// ForcePassable marks a template cell as open air regardless of anything else.
	// It only appears in room templates and is consumed while stamping.
	ForcePassable Tile = 0xFFFE
	// ForceSolid marks a template cell as a structural barrier.
	// It only appears in room templates and is consumed while stamping.
	ForceSolid Tile = 0xFFFD
)

// IsOverride reports whether t is one of the template-only override values.
func (t Tile) IsOverride() bool {
	return t == ForcePassable || t == ForceSolid
}

// Category is the general behaviour class of a tile.
type Category int

const (
	CategorySolid Category = iota
	CategoryBackground
	CategoryDecor
	CategoryLiquid
)

// ParseCategory converts the JSON category name into a Category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "solid", "":
		return CategorySolid, nil
	case "background":
		return CategoryBackground, nil
	case "decor":
		return CategoryDecor, nil
	case "liquid":
		return CategoryLiquid, nil
	default:
		return CategorySolid, fmt.Errorf("unknown tile category %q", s)
	}
}

// String returns the category name used in data files.
func (c Category) String() string {
	switch c {
	case CategorySolid:
		return "solid"
	case CategoryBackground:
		return "background"
	case CategoryDecor:
		return "decor"
	case CategoryLiquid:
		return "liquid"
	default:
		return "unknown"
	}
}

// IsBackgroundLike returns true for categories that do not block movement.
func (c Category) IsBackgroundLike() bool {
	return c == CategoryBackground || c == CategoryDecor
}
