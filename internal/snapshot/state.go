// Package snapshot captures and restores the mutable state of document nodes.
package snapshot

import (
	"maps"
	"slices"

	"github.com/bethropolis/bindery/internal/document"
)

// FillGroup is the captured fill paint list.
type FillGroup struct {
	Paints []document.Paint `json:"paints"`
}

func (g *FillGroup) Clone() *FillGroup {
	if g == nil {
		return nil
	}
	return &FillGroup{Paints: document.ClonePaints(g.Paints)}
}

// StrokeGroup is the captured stroke paint list with its weights.
// Edges is only present for kinds with per-edge weights.
type StrokeGroup struct {
	Paints []document.Paint      `json:"paints"`
	Weight float64               `json:"weight"`
	Edges  *document.EdgeWeights `json:"edges,omitempty"`
}

func (g *StrokeGroup) Clone() *StrokeGroup {
	if g == nil {
		return nil
	}
	out := &StrokeGroup{Paints: document.ClonePaints(g.Paints), Weight: g.Weight}
	if g.Edges != nil {
		e := *g.Edges
		out.Edges = &e
	}
	return out
}

// Properties holds the optional property groups of a node. A nil group was not captured
// and is left alone on restore.
type Properties struct {
	Name    *string               `json:"name,omitempty"`
	Fills   *FillGroup            `json:"fills,omitempty"`
	Strokes *StrokeGroup          `json:"strokes,omitempty"`
	Corners *document.CornerRadii `json:"corners,omitempty"`
	Layout  *document.Layout      `json:"layout,omitempty"`
}

func (p Properties) Clone() Properties {
	out := Properties{
		Fills:   p.Fills.Clone(),
		Strokes: p.Strokes.Clone(),
	}
	if p.Name != nil {
		name := *p.Name
		out.Name = &name
	}
	if p.Corners != nil {
		c := *p.Corners
		out.Corners = &c
	}
	if p.Layout != nil {
		l := *p.Layout
		out.Layout = &l
	}
	return out
}

// NodeState is the captured state of one node at one point in time.
//
// Bindings maps a bindable field to the variable bound to it. A nil alias records that the
// field was unbound, so restoring the state clears any binding added later.
//
// FrameCreated marks the after-state of a frame synthesized around OriginalNodeID; such
// entries are restored structurally.
type NodeState struct {
	NodeID         string                             `json:"nodeId"`
	Properties     Properties                         `json:"properties"`
	Bindings       map[string]*document.VariableAlias `json:"bindings,omitempty"`
	ParentID       string                             `json:"parentId,omitempty"`
	Index          int                                `json:"index"`
	FrameCreated   bool                               `json:"frameCreated,omitempty"`
	OriginalNodeID string                             `json:"originalNodeId,omitempty"`
}

// Clone returns a deep copy of the state.
func (s NodeState) Clone() NodeState {
	out := s
	out.Properties = s.Properties.Clone()
	if s.Bindings != nil {
		out.Bindings = make(map[string]*document.VariableAlias, len(s.Bindings))
		for field, alias := range s.Bindings {
			if alias != nil {
				a := *alias
				alias = &a
			}
			out.Bindings[field] = alias
		}
	}
	return out
}

// CloneAll deep-copies a list of states.
func CloneAll(states []NodeState) []NodeState {
	if states == nil {
		return nil
	}
	out := make([]NodeState, len(states))
	for i, s := range states {
		out[i] = s.Clone()
	}
	return out
}

// Equal reports whether two states describe the same node with the same values.
func Equal(a, b NodeState) bool {
	if a.NodeID != b.NodeID || a.ParentID != b.ParentID || a.Index != b.Index ||
		a.FrameCreated != b.FrameCreated || a.OriginalNodeID != b.OriginalNodeID {
		return false
	}
	if !maps.EqualFunc(a.Bindings, b.Bindings, equalAlias) {
		return false
	}
	pa, pb := a.Properties, b.Properties
	return equalPtr(pa.Name, pb.Name) &&
		equalPtr(pa.Corners, pb.Corners) &&
		equalPtr(pa.Layout, pb.Layout) &&
		equalFills(pa.Fills, pb.Fills) &&
		equalStrokes(pa.Strokes, pb.Strokes)
}

// Changed reports whether any after-state differs from its before-state. Lists of
// different length always count as changed.
func Changed(before, after []NodeState) bool {
	return !slices.EqualFunc(before, after, Equal)
}

func equalAlias(a, b *document.VariableAlias) bool {
	return equalPtr(a, b)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalFills(a, b *FillGroup) bool {
	if a == nil || b == nil {
		return a == b
	}
	return equalPaints(a.Paints, b.Paints)
}

func equalStrokes(a, b *StrokeGroup) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Weight == b.Weight && equalPtr(a.Edges, b.Edges) && equalPaints(a.Paints, b.Paints)
}

func equalPaints(a, b []document.Paint) bool {
	return slices.EqualFunc(a, b, func(x, y document.Paint) bool {
		return x.Type == y.Type && x.Color == y.Color && x.Opacity == y.Opacity &&
			x.Visible == y.Visible && x.BlendMode == y.BlendMode &&
			maps.Equal(x.BoundVariables, y.BoundVariables)
	})
}
