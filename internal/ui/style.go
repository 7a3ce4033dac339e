package ui

import (
	"image/color"
	"strconv"
	"strings"

	"bookshelf/internal/covercolor"
)

// Rule maps one simple selector (".details", "#close") to raw declaration values.
type Rule struct {
	Selector string
	Props    map[string]string
}

// Stylesheet keeps rules in source order.
type Stylesheet struct {
	Rules []Rule
}

// Props merges the declarations of every rule selecting class or id. Later rules win.
func (s *Stylesheet) Props(class, id string) map[string]string {
	merged := make(map[string]string)
	if s == nil {
		return merged
	}
	for _, r := range s.Rules {
		if !selects(r.Selector, class, id) {
			continue
		}
		for k, v := range r.Props {
			merged[k] = v
		}
	}
	return merged
}

func selects(sel, class, id string) bool {
	switch {
	case class != "" && sel == "."+class:
		return true
	case id != "" && sel == "#"+id:
		return true
	}
	return false
}

// ComputedStyle is what the renderer draws with. A LeftPct or TopPct of -1 means the
// pixel offset applies; 0..100 places the box in the free space of its parent.
type ComputedStyle struct {
	Background, Color, Border color.RGBA
	HasBorder                 bool

	Width, Height     int32
	Left, Top         int32
	LeftPct, TopPct   int32
	Padding, FontSize int32
}

// DefaultComputedStyle is white text on a transparent box.
func DefaultComputedStyle() ComputedStyle {
	return ComputedStyle{
		Color:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Border:   color.RGBA{A: 255},
		LeftPct:  -1,
		TopPct:   -1,
		Padding:  4,
		FontSize: defaultFontSize,
	}
}

// ParsePx reads "12px" or "12".
func ParsePx(s string) (int32, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// ParsePct reads "N%" with N in 0..100.
func ParsePct(s string) (int32, bool) {
	num, ok := strings.CutSuffix(strings.TrimSpace(s), "%")
	if !ok || num == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(num, 10, 32)
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return int32(n), true
}

// property applies one declaration value; values it cannot read are dropped.
type property func(st *ComputedStyle, v string)

var properties = map[string]property{
	"background": hexProp(func(st *ComputedStyle, c color.RGBA) { st.Background = c }),
	"color":      hexProp(func(st *ComputedStyle, c color.RGBA) { st.Color = c }),
	"border": hexProp(func(st *ComputedStyle, c color.RGBA) {
		st.Border = c
		st.HasBorder = true
	}),
	"width":     pxProp(func(st *ComputedStyle) *int32 { return &st.Width }, false),
	"height":    pxProp(func(st *ComputedStyle) *int32 { return &st.Height }, false),
	"padding":   pxProp(func(st *ComputedStyle) *int32 { return &st.Padding }, true),
	"font-size": sizeProp,
	"left":      offsetProp(func(st *ComputedStyle) (*int32, *int32) { return &st.Left, &st.LeftPct }),
	"top":       offsetProp(func(st *ComputedStyle) (*int32, *int32) { return &st.Top, &st.TopPct }),
}

func init() {
	properties["x"] = properties["left"]
	properties["y"] = properties["top"]
}

// Colours must be written as #rgb or #rrggbb; named colours are not supported.
func hexProp(set func(*ComputedStyle, color.RGBA)) property {
	return func(st *ComputedStyle, v string) {
		if !strings.HasPrefix(v, "#") {
			return
		}
		if c, err := covercolor.ParseHex(v); err == nil {
			set(st, c)
		}
	}
}

func pxProp(field func(*ComputedStyle) *int32, nonNegative bool) property {
	return func(st *ComputedStyle, v string) {
		n, ok := ParsePx(v)
		if !ok || (nonNegative && n < 0) {
			return
		}
		*field(st) = n
	}
}

func sizeProp(st *ComputedStyle, v string) {
	if n, ok := ParsePx(v); ok && n > 0 {
		st.FontSize = n
	}
}

func offsetProp(fields func(*ComputedStyle) (px, pct *int32)) property {
	return func(st *ComputedStyle, v string) {
		px, pct := fields(st)
		if n, ok := ParsePct(v); ok {
			*pct = n
			return
		}
		if n, ok := ParsePx(v); ok {
			*px = n
		}
	}
}

// ResolveProps turns merged declarations into a ComputedStyle on top of the defaults.
func ResolveProps(props map[string]string) ComputedStyle {
	st := DefaultComputedStyle()
	for k, v := range props {
		if apply, ok := properties[k]; ok {
			apply(&st, strings.TrimSpace(v))
		}
	}
	return st
}
