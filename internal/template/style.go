package template

import (
	"sort"

	"github.com/samdwyer/delvegen/internal/world"
)

// Style is the frequency-ranked summary of a template's tiles.
type Style struct {
	Primary    world.Tile
	Secondary  world.Tile
	Background world.Tile
}

// AnalyzeStyle counts non-empty tiles and picks the two most common plus the most
// common background-like tile. Override values are not tiles and are skipped.
func AnalyzeStyle(cells []world.Tile, cat Categorizer, fallbackBackground world.Tile) Style {
	counts := make(map[world.Tile]int)
	for _, t := range cells {
		if t == world.Empty || t.IsOverride() {
			continue
		}
		counts[t]++
	}

	ranked := make([]world.Tile, 0, len(counts))
	for t := range counts {
		ranked = append(ranked, t)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})

	style := Style{Background: fallbackBackground}
	if len(ranked) == 0 {
		return style
	}
	style.Primary = ranked[0]
	style.Secondary = ranked[0]
	if len(ranked) > 1 {
		style.Secondary = ranked[1]
	}
	for _, t := range ranked {
		if cat.Category(t).IsBackgroundLike() {
			style.Background = t
			break
		}
	}
	return style
}
