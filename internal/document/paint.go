package document

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB is a color with channels in [0, 1].
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Hex renders the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return int(v*255 + 0.5)
	}
}

// ParseHex parses #rgb or #rrggbb.
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return RGB{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
	}, nil
}

// PaintType distinguishes solid paints from the rest.
type PaintType string

const (
	PaintSolid          PaintType = "SOLID"
	PaintGradientLinear PaintType = "GRADIENT_LINEAR"
	PaintImage          PaintType = "IMAGE"
)

// VariableAlias references a variable by id.
type VariableAlias struct {
	ID string `json:"id"`
}

// Paint is one fill or stroke layer.
type Paint struct {
	Type           PaintType                `json:"type"`
	Color          RGB                      `json:"color"`
	Opacity        float64                  `json:"opacity"`
	Visible        bool                     `json:"visible"`
	BlendMode      string                   `json:"blendMode"`
	BoundVariables map[string]VariableAlias `json:"boundVariables,omitempty"`
}

// SolidPaint returns a visible, opaque solid paint.
func SolidPaint(c RGB) Paint {
	return Paint{
		Type:      PaintSolid,
		Color:     c,
		Opacity:   1,
		Visible:   true,
		BlendMode: "NORMAL",
	}
}

// Clone returns a deep copy of the paint.
func (p Paint) Clone() Paint {
	out := p
	if p.BoundVariables != nil {
		out.BoundVariables = make(map[string]VariableAlias, len(p.BoundVariables))
		for k, v := range p.BoundVariables {
			out.BoundVariables[k] = v
		}
	}
	return out
}

// WithBoundVariable returns a copy of the paint with field bound to v.
// Binding "color" also adopts the variable's resolved color.
func (p Paint) WithBoundVariable(field string, v *Variable) Paint {
	out := p.Clone()
	if out.BoundVariables == nil {
		out.BoundVariables = make(map[string]VariableAlias, 1)
	}
	out.BoundVariables[field] = v.Alias()
	if field == "color" && v.Kind == VariableColor {
		out.Color = v.Color
	}
	return out
}

// ClonePaints deep-copies a paint list. A nil list stays nil.
func ClonePaints(paints []Paint) []Paint {
	if paints == nil {
		return nil
	}
	out := make([]Paint, len(paints))
	for i, p := range paints {
		out[i] = p.Clone()
	}
	return out
}
