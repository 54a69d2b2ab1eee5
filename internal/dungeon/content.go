package dungeon

import (
	"fmt"
	"strings"

	"github.com/samdwyer/delvegen/internal/rules"
	"github.com/samdwyer/delvegen/internal/template"
	"github.com/samdwyer/delvegen/internal/world"
)

// Content is the authored input to generation. It is shared read-only by runs.
type Content struct {
	Palette       *world.Palette
	Biomes        rules.BiomeSet       // uniform mode
	CorridorRules []rules.Rule         // walls, tunnel and cave backgrounds in template modes
	Templates     []*template.Template // template modes, in library order
}

// fingerprint describes everything in the content that can change a result:
// palette entries, rules with their conditions, and template cells.
func (c Content) fingerprint() string {
	var b strings.Builder
	if c.Palette != nil {
		for _, d := range c.Palette.All() {
			fmt.Fprintf(&b, "tile %d %s %d;", d.Tile, d.Name, d.Category)
		}
		fmt.Fprintf(&b, "defaults %d %d;", c.Palette.DefaultWall(), c.Palette.DefaultBackground())
	}
	writeRules := func(rs []rules.Rule) {
		for _, r := range rs {
			fmt.Fprintf(&b, "rule %s %s %s %v;", r.ID, r.Tile, r.Layer, r.When)
		}
	}
	for _, bm := range c.Biomes {
		fmt.Fprintf(&b, "biome %s %v;", bm.ID, bm.Spawn)
		writeRules(bm.Rules)
	}
	b.WriteString("corridor;")
	writeRules(c.CorridorRules)
	for _, t := range c.Templates {
		fmt.Fprintf(&b, "template %s %dx%d %v;", t.ID, t.Width, t.Height, t.Cells)
	}
	return b.String()
}
