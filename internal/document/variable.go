package document

import "slices"

// VariableKind is the resolved type of a variable.
type VariableKind string

const (
	VariableColor  VariableKind = "color"
	VariableNumber VariableKind = "number"
)

// Scope limits where a variable may be applied.
type Scope string

const (
	ScopeAll          Scope = "ALL_SCOPES"
	ScopeAllFills     Scope = "ALL_FILLS"
	ScopeFrameFill    Scope = "FRAME_FILL"
	ScopeShapeFill    Scope = "SHAPE_FILL"
	ScopeTextFill     Scope = "TEXT_FILL"
	ScopeStrokeColor  Scope = "STROKE_COLOR"
	ScopeGap          Scope = "GAP"
	ScopeCornerRadius Scope = "CORNER_RADIUS"
	ScopeStrokeFloat  Scope = "STROKE_FLOAT"
	ScopeWidthHeight  Scope = "WIDTH_HEIGHT"
)

// Variable is a design token that can be bound to node properties.
type Variable struct {
	ID         string
	Name       string
	Collection string
	Library    string // empty for local variables
	Kind       VariableKind
	Scopes     []Scope
	Color      RGB
	Number     float64
	AliasOf    string // id of the color variable this one refers to; Color is unused then
}

// HasScope reports whether the variable carries scope s.
func (v *Variable) HasScope(s Scope) bool {
	return slices.Contains(v.Scopes, s)
}

// Alias returns a reference to the variable.
func (v *Variable) Alias() VariableAlias {
	return VariableAlias{ID: v.ID}
}

// IsAlias reports whether the variable takes its value from another variable.
func (v *Variable) IsAlias() bool {
	return v.AliasOf != ""
}

// Remote reports whether the variable comes from a library.
func (v *Variable) Remote() bool {
	return v.Library != ""
}

// PaintStyle is a named paint list.
type PaintStyle struct {
	ID     string
	Name   string
	Paints []Paint
}
