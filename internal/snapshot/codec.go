package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/bethropolis/bindery/internal/document"
	"github.com/bethropolis/bindery/internal/logger"
)

// Capture reads the state of n. Only the groups the node's kind supports are captured.
func Capture(n *document.Node) NodeState {
	name := n.Name()
	s := NodeState{
		NodeID:     n.ID(),
		Properties: Properties{Name: &name},
		Index:      n.Index(),
	}
	if p := n.Parent(); p != nil {
		s.ParentID = p.ID()
	}

	if n.Has(document.HasFills) {
		s.Properties.Fills = &FillGroup{Paints: n.Fills()}
	}
	if n.Has(document.HasStrokes) {
		g := &StrokeGroup{Paints: n.Strokes(), Weight: n.StrokeWeight()}
		if n.Has(document.HasEdgeStrokes) {
			e := n.EdgeWeights()
			g.Edges = &e
		}
		s.Properties.Strokes = g
	}
	if n.Has(document.HasCornerRadius) {
		c := n.CornerRadii()
		s.Properties.Corners = &c
	}
	if n.Has(document.HasAutoLayout) {
		l := n.Layout()
		s.Properties.Layout = &l
	}
	if n.Has(document.HasBindings) {
		bound := n.BoundVariables()
		s.Bindings = make(map[string]*document.VariableAlias)
		for _, field := range n.BindableFields() {
			if alias, ok := bound[field]; ok {
				s.Bindings[field] = &alias
			} else {
				s.Bindings[field] = nil
			}
		}
	}
	return s
}

// CaptureAll captures every node in order.
func CaptureAll(nodes []*document.Node) []NodeState {
	out := make([]NodeState, len(nodes))
	for i, n := range nodes {
		out[i] = Capture(n)
	}
	return out
}

// Codec writes captured states back through a document host.
type Codec struct {
	host document.Host
}

func NewCodec(host document.Host) *Codec {
	return &Codec{host: host}
}

// Restore writes state onto the node it names. It returns false with an error wrapping
// document.ErrNodeNotFound when the node is gone. Groups the node does not support are
// skipped, and a binding whose variable no longer resolves is skipped on its own.
// Restoring the same state twice leaves the node unchanged.
func (c *Codec) Restore(ctx context.Context, state NodeState) (bool, error) {
	n, err := c.host.NodeByID(ctx, state.NodeID)
	if err != nil {
		return false, fmt.Errorf("restore: %w", err)
	}
	c.Apply(ctx, n, state)
	return true, nil
}

// Apply writes state onto n regardless of the id recorded in state.
func (c *Codec) Apply(ctx context.Context, n *document.Node, state NodeState) {
	p := state.Properties
	if p.Name != nil {
		n.SetName(*p.Name)
	}
	if p.Fills != nil {
		skipped(n, "fills", n.SetFills(p.Fills.Paints))
	}
	if p.Strokes != nil {
		skipped(n, "strokes", n.SetStrokes(p.Strokes.Paints))
		skipped(n, "stroke weight", n.SetStrokeWeight(p.Strokes.Weight))
		if p.Strokes.Edges != nil {
			skipped(n, "edge weights", n.SetEdgeWeights(*p.Strokes.Edges))
		}
	}
	if p.Corners != nil {
		skipped(n, "corner radii", n.SetCornerRadii(*p.Corners))
	}
	if p.Layout != nil {
		skipped(n, "layout", n.SetLayout(*p.Layout))
	}

	if !n.Has(document.HasBindings) {
		return
	}
	for field, alias := range state.Bindings {
		if alias == nil {
			if err := n.SetBoundVariable(field, nil); err != nil {
				logger.DebugTagf("snapshot", "Skipping unbind of %s on %s: %v", field, n.ID(), err)
			}
			continue
		}
		v, err := c.host.VariableByID(ctx, alias.ID)
		if err != nil {
			if errors.Is(err, document.ErrVariableNotFound) {
				logger.WarnTagf("snapshot", "Variable %s for %s on %s no longer exists, skipping", alias.ID, field, n.ID())
			} else {
				logger.WarnTagf("snapshot", "Could not resolve variable %s: %v", alias.ID, err)
			}
			continue
		}
		if err := n.SetBoundVariable(field, v); err != nil {
			logger.WarnTagf("snapshot", "Could not bind %s on %s: %v", field, n.ID(), err)
		}
	}
}

// skipped logs a group the node's kind cannot take.
func skipped(n *document.Node, group string, err error) {
	if err != nil {
		logger.DebugTagf("snapshot", "Skipping %s on %s: %v", group, n.ID(), err)
	}
}
