package finance

import "maps"

const DefaultColor = "#718096"

// Palette maps category names to colour tokens. Lookups fall back to DefaultColor.
type Palette map[string]string

var defaultPalette = Palette{
	"Alimentação": "#0066CC",
	"Transporte":  "#3399FF",
	"Moradia":     "#1a365d",
	"Lazer":       "#63B3ED",
	"Saúde":       "#4A5568",
	"Educação":    "#2D3748",
	"Compras":     "#718096",
	"Outros":      "#A0AEC0",
	"Salário":     "#22C55E",
}

// DefaultPalette returns a copy of the built-in category colours.
func DefaultPalette() Palette {
	return maps.Clone(defaultPalette)
}

// With returns a new palette where the given colours override existing ones.
func (p Palette) With(overrides map[string]string) Palette {
	merged := maps.Clone(p)
	if merged == nil {
		merged = Palette{}
	}
	maps.Copy(merged, overrides)
	return merged
}

func (p Palette) ColorOf(name string) string {
	if color, ok := p[name]; ok {
		return color
	}
	return DefaultColor
}
