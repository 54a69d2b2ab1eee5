package gamedata

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/samdwyer/delvegen/internal/template"
	"github.com/samdwyer/delvegen/internal/world"
)

// TemplateDef defines a room template in the ASCII authoring format.
//
// Each row is one line of glyphs: "." is empty, "+" forces open air, "X" forces
// a structural barrier, and any other glyph names the palette tile using it.
type TemplateDef struct {
	ID   string   `json:"id"`   // Unique identifier (e.g., "crypt")
	Rows []string `json:"rows"` // Equal-width glyph rows, top to bottom
}

// TemplatesFile represents the structure of templates.json.
type TemplatesFile struct {
	Templates []TemplateDef `json:"templates"`
}

// GlyphLookup returns a glyph resolver for the palette.
func GlyphLookup(p *world.Palette) template.GlyphFunc {
	byGlyph := make(map[rune]world.Tile, len(p.All()))
	for _, d := range p.All() {
		if _, taken := byGlyph[d.Glyph]; !taken {
			byGlyph[d.Glyph] = d.Tile
		}
	}
	return func(r rune) (world.Tile, bool) {
		t, ok := byGlyph[r]
		return t, ok
	}
}

// TemplateLibrary holds analysed room templates and provides lookup utilities.
type TemplateLibrary struct {
	templates []*template.Template
	byID      map[string]*template.Template
}

// NewTemplateLibrary creates a library. Template ids must be unique.
func NewTemplateLibrary(templates []*template.Template) (*TemplateLibrary, error) {
	lib := &TemplateLibrary{
		templates: templates,
		byID:      make(map[string]*template.Template, len(templates)),
	}
	for _, t := range templates {
		if _, dup := lib.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		lib.byID[t.ID] = t
	}
	return lib, nil
}

// LoadTemplateLibrary parses templates.json from fsys against the palette.
func LoadTemplateLibrary(fsys fs.FS, palette *world.Palette) (*TemplateLibrary, error) {
	file, err := LoadFrom[TemplatesFile](fsys, "templates.json")
	if err != nil {
		return nil, err
	}
	if len(file.Templates) == 0 {
		return nil, errors.New("no templates loaded from templates.json")
	}

	glyph := GlyphLookup(palette)
	templates := make([]*template.Template, 0, len(file.Templates))
	for _, def := range file.Templates {
		t, err := template.FromRows(def.ID, def.Rows, glyph, palette, palette.DefaultBackground())
		if err != nil {
			return nil, fmt.Errorf("templates.json: %w", err)
		}
		templates = append(templates, t)
	}
	return NewTemplateLibrary(templates)
}

// GetByID returns the template with the given ID, or nil if not found.
func (l *TemplateLibrary) GetByID(id string) *template.Template {
	return l.byID[id]
}

// GetMultiple returns templates for a list of IDs, in the order given.
// Missing IDs are silently skipped.
func (l *TemplateLibrary) GetMultiple(ids []string) []*template.Template {
	result := make([]*template.Template, 0, len(ids))
	for _, id := range ids {
		if t := l.byID[id]; t != nil {
			result = append(result, t)
		}
	}
	return result
}

// All returns all templates in file order.
func (l *TemplateLibrary) All() []*template.Template {
	return l.templates
}

// Count returns the number of templates in the library.
func (l *TemplateLibrary) Count() int {
	return len(l.templates)
}
