package covercolor

import (
	"context"
	"image/color"

	"github.com/cespare/xxhash/v2"
)

// DefaultPalette is the set of cover colours picked from when no image is sampled.
var DefaultPalette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEEAD",
	"#D4A5A5", "#9B59B6", "#3498DB", "#E67E22", "#2ECC71",
	"#F1C40F", "#E74C3C", "#1ABC9C", "#34495E", "#8B4513",
}

// Palette maps a cover URL to one of a fixed set of colours by hashing the URL,
// so the same cover always gets the same colour across runs.
type Palette struct {
	colours []color.RGBA
}

// NewPalette parses hex colours. An empty list uses DefaultPalette.
func NewPalette(hex []string) (*Palette, error) {
	if len(hex) == 0 {
		hex = DefaultPalette
	}
	p := &Palette{colours: make([]color.RGBA, 0, len(hex))}
	for _, h := range hex {
		c, err := ParseHex(h)
		if err != nil {
			return nil, err
		}
		p.colours = append(p.colours, c)
	}
	return p, nil
}

// Pick returns the palette colour for url. An empty URL yields Fallback.
func (p *Palette) Pick(url string) color.RGBA {
	if url == "" || len(p.colours) == 0 {
		return Fallback
	}
	return p.colours[xxhash.Sum64String(url)%uint64(len(p.colours))]
}

// Resolve implements Resolver. It never fails or blocks.
func (p *Palette) Resolve(_ context.Context, url string) (color.RGBA, error) {
	return p.Pick(url), nil
}

// Instant reports that Resolve does no I/O.
func (p *Palette) Instant() bool { return true }

// Len returns the number of colours.
func (p *Palette) Len() int { return len(p.colours) }
