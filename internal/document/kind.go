package document

import (
	"errors"
	"strings"
)

var (
	// ErrNodeNotFound is returned when a node id no longer resolves.
	ErrNodeNotFound = errors.New("node not found")
	// ErrVariableNotFound is returned when a variable id no longer resolves.
	ErrVariableNotFound = errors.New("variable not found")
	// ErrStyleNotFound is returned when a paint style id does not resolve.
	ErrStyleNotFound = errors.New("style not found")
	// ErrUnsupported is returned when a node kind lacks the capability an operation needs.
	ErrUnsupported = errors.New("operation not supported by node kind")
	// ErrNodeExists is returned when a requested node id is already in use.
	ErrNodeExists = errors.New("node id already in use")
	// ErrAliasCycle is returned when color aliases refer back to themselves.
	ErrAliasCycle = errors.New("variable alias cycle")
)

// Capability is a set of property groups a node kind supports.
type Capability uint16

const (
	HasFills Capability = 1 << iota
	HasStrokes
	HasEdgeStrokes // per-edge stroke weights
	HasCornerRadius
	HasAutoLayout
	HasBindings
	HasChildren
)

// Has reports whether every capability in want is present.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

func (c Capability) String() string {
	names := []struct {
		c    Capability
		name string
	}{
		{HasFills, "fills"},
		{HasStrokes, "strokes"},
		{HasEdgeStrokes, "edge-strokes"},
		{HasCornerRadius, "corner-radius"},
		{HasAutoLayout, "auto-layout"},
		{HasBindings, "bindings"},
		{HasChildren, "children"},
	}
	var parts []string
	for _, n := range names {
		if c.Has(n.c) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Kind is the node type.
type Kind int

const (
	KindPage Kind = iota
	KindFrame
	KindGroup
	KindRectangle
	KindEllipse
	KindPolygon
	KindStar
	KindLine
	KindText
	KindVector
)

var kindNames = map[Kind]string{
	KindPage:      "PAGE",
	KindFrame:     "FRAME",
	KindGroup:     "GROUP",
	KindRectangle: "RECTANGLE",
	KindEllipse:   "ELLIPSE",
	KindPolygon:   "POLYGON",
	KindStar:      "STAR",
	KindLine:      "LINE",
	KindText:      "TEXT",
	KindVector:    "VECTOR",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseKind resolves a kind name case-insensitively.
func ParseKind(name string) (Kind, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == upper {
			return k, true
		}
	}
	return 0, false
}

// Capabilities returns the property groups a node of this kind supports.
func (k Kind) Capabilities() Capability {
	shape := HasFills | HasStrokes | HasBindings
	switch k {
	case KindPage, KindGroup:
		return HasChildren
	case KindFrame:
		return shape | HasEdgeStrokes | HasCornerRadius | HasAutoLayout | HasChildren
	case KindRectangle:
		return shape | HasEdgeStrokes | HasCornerRadius
	case KindEllipse, KindPolygon, KindStar, KindText, KindVector:
		return shape
	case KindLine:
		return HasStrokes | HasBindings
	default:
		return 0
	}
}
