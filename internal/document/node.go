package document

import (
	"fmt"
	"sort"
)

// LayoutMode is the auto-layout direction of a frame.
type LayoutMode string

const (
	LayoutNone       LayoutMode = "NONE"
	LayoutHorizontal LayoutMode = "HORIZONTAL"
	LayoutVertical   LayoutMode = "VERTICAL"
)

// EdgeWeights are per-edge stroke weights.
type EdgeWeights struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// CornerRadii are per-corner radii.
type CornerRadii struct {
	TopLeft     float64 `json:"topLeft"`
	TopRight    float64 `json:"topRight"`
	BottomLeft  float64 `json:"bottomLeft"`
	BottomRight float64 `json:"bottomRight"`
}

// Layout is the auto-layout property group.
type Layout struct {
	Mode          LayoutMode `json:"mode"`
	ItemSpacing   float64    `json:"itemSpacing"`
	PaddingTop    float64    `json:"paddingTop"`
	PaddingBottom float64    `json:"paddingBottom"`
	PaddingLeft   float64    `json:"paddingLeft"`
	PaddingRight  float64    `json:"paddingRight"`
}

// Bindable number fields, grouped by the capability that owns them.
var bindableFields = []struct {
	field string
	cap   Capability
}{
	{"strokeWeight", HasStrokes},
	{"strokeTopWeight", HasEdgeStrokes},
	{"strokeRightWeight", HasEdgeStrokes},
	{"strokeBottomWeight", HasEdgeStrokes},
	{"strokeLeftWeight", HasEdgeStrokes},
	{"topLeftRadius", HasCornerRadius},
	{"topRightRadius", HasCornerRadius},
	{"bottomLeftRadius", HasCornerRadius},
	{"bottomRightRadius", HasCornerRadius},
	{"itemSpacing", HasAutoLayout},
	{"paddingTop", HasAutoLayout},
	{"paddingBottom", HasAutoLayout},
	{"paddingLeft", HasAutoLayout},
	{"paddingRight", HasAutoLayout},
}

// Node is one visual node of the document tree.
type Node struct {
	id   string
	name string
	kind Kind

	x, y, width, height float64

	fills        []Paint
	strokes      []Paint
	strokeWeight float64
	edges        EdgeWeights
	corners      CornerRadii
	layout       Layout
	bound        map[string]VariableAlias

	parent   *Node
	children []*Node
	removed  bool
}

func newNode(id string, kind Kind, name string) *Node {
	n := &Node{
		id:     id,
		name:   name,
		kind:   kind,
		layout: Layout{Mode: LayoutNone},
		bound:  make(map[string]VariableAlias),
	}
	if kind.Capabilities().Has(HasFills) {
		n.fills = []Paint{}
	}
	if kind.Capabilities().Has(HasStrokes) {
		n.strokes = []Paint{}
		n.strokeWeight = 1
		if kind.Capabilities().Has(HasEdgeStrokes) {
			n.edges = EdgeWeights{Top: 1, Right: 1, Bottom: 1, Left: 1}
		}
	}
	return n
}

func (n *Node) ID() string                   { return n.id }
func (n *Node) Name() string                 { return n.name }
func (n *Node) SetName(name string)          { n.name = name }
func (n *Node) Kind() Kind                   { return n.kind }
func (n *Node) Capabilities() Capability     { return n.kind.Capabilities() }
func (n *Node) Has(c Capability) bool        { return n.kind.Capabilities().Has(c) }
func (n *Node) Parent() *Node                { return n.parent }
func (n *Node) Position() (x, y float64)     { return n.x, n.y }
func (n *Node) SetPosition(x, y float64)     { n.x, n.y = x, y }
func (n *Node) Size() (w, h float64)         { return n.width, n.height }
func (n *Node) Removed() bool                { return n.removed }
func (n *Node) String() string               { return fmt.Sprintf("%s %q (%s)", n.kind, n.name, n.id) }
func (n *Node) Resize(width, height float64) { n.width, n.height = width, height }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// IndexOf returns the position of child among n's children, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// Index returns the node's position within its parent, or -1 when detached.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	return n.parent.IndexOf(n)
}

func (n *Node) require(c Capability) error {
	if !n.Has(c) {
		return fmt.Errorf("%s: %w (needs %s)", n, ErrUnsupported, c)
	}
	return nil
}

// Fills returns a deep copy of the fill paints.
func (n *Node) Fills() []Paint { return ClonePaints(n.fills) }

// SetFills replaces the fill paints.
func (n *Node) SetFills(paints []Paint) error {
	if err := n.require(HasFills); err != nil {
		return err
	}
	n.fills = ClonePaints(paints)
	if n.fills == nil {
		n.fills = []Paint{}
	}
	return nil
}

// Strokes returns a deep copy of the stroke paints.
func (n *Node) Strokes() []Paint { return ClonePaints(n.strokes) }

// SetStrokes replaces the stroke paints.
func (n *Node) SetStrokes(paints []Paint) error {
	if err := n.require(HasStrokes); err != nil {
		return err
	}
	n.strokes = ClonePaints(paints)
	if n.strokes == nil {
		n.strokes = []Paint{}
	}
	return nil
}

func (n *Node) StrokeWeight() float64 { return n.strokeWeight }

func (n *Node) SetStrokeWeight(w float64) error {
	if err := n.require(HasStrokes); err != nil {
		return err
	}
	n.strokeWeight = w
	return nil
}

func (n *Node) EdgeWeights() EdgeWeights { return n.edges }

func (n *Node) SetEdgeWeights(e EdgeWeights) error {
	if err := n.require(HasEdgeStrokes); err != nil {
		return err
	}
	n.edges = e
	return nil
}

func (n *Node) CornerRadii() CornerRadii { return n.corners }

func (n *Node) SetCornerRadii(c CornerRadii) error {
	if err := n.require(HasCornerRadius); err != nil {
		return err
	}
	n.corners = c
	return nil
}

func (n *Node) Layout() Layout { return n.layout }

func (n *Node) SetLayout(l Layout) error {
	if err := n.require(HasAutoLayout); err != nil {
		return err
	}
	if l.Mode == "" {
		l.Mode = LayoutNone
	}
	n.layout = l
	return nil
}

// BindableFields lists the number fields this node can bind, in a stable order.
func (n *Node) BindableFields() []string {
	if !n.Has(HasBindings) {
		return nil
	}
	var out []string
	for _, f := range bindableFields {
		if n.Has(f.cap) {
			out = append(out, f.field)
		}
	}
	return out
}

// BoundVariables returns a copy of the node-level variable bindings.
func (n *Node) BoundVariables() map[string]VariableAlias {
	out := make(map[string]VariableAlias, len(n.bound))
	for k, v := range n.bound {
		out[k] = v
	}
	return out
}

// BoundFields returns the bound field names sorted.
func (n *Node) BoundFields() []string {
	out := make([]string, 0, len(n.bound))
	for k := range n.bound {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// BindingCount counts node-level bindings plus fill and stroke paints bound to a variable.
func (n *Node) BindingCount() int {
	count := len(n.bound)
	for _, paints := range [][]Paint{n.fills, n.strokes} {
		for _, p := range paints {
			if len(p.BoundVariables) > 0 {
				count++
			}
		}
	}
	return count
}

// SetBoundVariable binds field to v, or clears the binding when v is nil.
// Binding a number variable also writes its value into the field.
func (n *Node) SetBoundVariable(field string, v *Variable) error {
	if err := n.require(HasBindings); err != nil {
		return err
	}
	var fieldCap Capability
	for _, f := range bindableFields {
		if f.field == field {
			fieldCap = f.cap
			break
		}
	}
	if fieldCap == 0 {
		return fmt.Errorf("%s: unknown bindable field %q: %w", n, field, ErrUnsupported)
	}
	if err := n.require(fieldCap); err != nil {
		return err
	}

	if v == nil {
		delete(n.bound, field)
		return nil
	}
	if v.Kind != VariableNumber {
		return fmt.Errorf("%s: field %q needs a number variable, got %s", n, field, v.Kind)
	}
	n.bound[field] = v.Alias()
	n.setNumber(field, v.Number)
	return nil
}

func (n *Node) setNumber(field string, value float64) {
	switch field {
	case "strokeWeight":
		n.strokeWeight = value
	case "strokeTopWeight":
		n.edges.Top = value
	case "strokeRightWeight":
		n.edges.Right = value
	case "strokeBottomWeight":
		n.edges.Bottom = value
	case "strokeLeftWeight":
		n.edges.Left = value
	case "topLeftRadius":
		n.corners.TopLeft = value
	case "topRightRadius":
		n.corners.TopRight = value
	case "bottomLeftRadius":
		n.corners.BottomLeft = value
	case "bottomRightRadius":
		n.corners.BottomRight = value
	case "itemSpacing":
		n.layout.ItemSpacing = value
	case "paddingTop":
		n.layout.PaddingTop = value
	case "paddingBottom":
		n.layout.PaddingBottom = value
	case "paddingLeft":
		n.layout.PaddingLeft = value
	case "paddingRight":
		n.layout.PaddingRight = value
	}
}
