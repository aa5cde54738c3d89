// Package structure creates and reverses the container frames a binding may synthesize
// around a node.
package structure

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bethropolis/bindery/internal/document"
	"github.com/bethropolis/bindery/internal/logger"
	"github.com/bethropolis/bindery/internal/snapshot"
)

// ErrStructuralRestore matches every *Error.
var ErrStructuralRestore = errors.New("structural restore failed")

// Error describes a failed structural undo or redo.
type Error struct {
	Op     string // "wrap", "undo" or "redo"
	NodeID string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("structure: %s %s: %v", e.Op, e.NodeID, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrStructuralRestore }

// Host is the part of a document the tracker edits.
type Host interface {
	NodeByID(ctx context.Context, id string) (*document.Node, error)
	CreateFrameWithID(ctx context.Context, id, name string) (*document.Node, error)
	InsertChild(parent *document.Node, index int, child *document.Node) error
	Remove(n *document.Node) error
}

// Tracker wraps nodes in auto-layout frames and reverses or replays those wraps.
//
// A replayed wrap recreates the frame under the id the action recorded, so later actions
// that touched the frame still resolve it. If that id has been taken meanwhile the frame
// gets a new one, and the tracker remembers which frame stands in for the recorded one.
type Tracker struct {
	host  Host
	codec *snapshot.Codec

	mu    sync.Mutex
	remap map[string]string // recorded frame id -> live frame id
}

func NewTracker(host Host, codec *snapshot.Codec) *Tracker {
	return &Tracker{
		host:  host,
		codec: codec,
		remap: make(map[string]string),
	}
}

// Resolve returns the live id for a recorded frame id.
func (t *Tracker) Resolve(frameID string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if live, ok := t.remap[frameID]; ok {
		return live
	}
	return frameID
}

// Wrap places node inside a new horizontal auto-layout frame that takes over the node's
// slot in its parent, position and size. The node ends up at (0,0) inside the frame.
func (t *Tracker) Wrap(ctx context.Context, node *document.Node) (*document.Node, error) {
	frame, err := t.enclose(ctx, node, "", node.Name()+" Frame")
	if err != nil {
		return nil, &Error{Op: "wrap", NodeID: node.ID(), Err: err}
	}
	if err := frame.SetLayout(document.Layout{Mode: document.LayoutHorizontal}); err != nil {
		return nil, &Error{Op: "wrap", NodeID: node.ID(), Err: err}
	}
	logger.DebugTagf("structure", "Wrapped %s in %s", node.ID(), frame.ID())
	return frame, nil
}

func (t *Tracker) enclose(ctx context.Context, node *document.Node, id, name string) (*document.Node, error) {
	parent := node.Parent()
	if parent == nil {
		return nil, fmt.Errorf("%s has no parent", node)
	}
	index := node.Index()

	frame, err := t.host.CreateFrameWithID(ctx, id, name)
	if err != nil {
		return nil, err
	}
	x, y := node.Position()
	w, h := node.Size()
	frame.SetPosition(x, y)
	frame.Resize(w, h)
	if err := frame.SetFills(nil); err != nil {
		return nil, err
	}

	if err := t.host.InsertChild(parent, index, frame); err != nil {
		_ = t.host.Remove(frame)
		return nil, err
	}
	if err := t.host.InsertChild(frame, 0, node); err != nil {
		_ = t.host.Remove(frame)
		return nil, err
	}
	node.SetPosition(0, 0)
	return frame, nil
}

// Undo reverses a wrap. after is the frame's recorded state and before the wrapped node's.
// The node goes back into the frame's parent at the frame's index and position, the frame
// is removed, and before is restored onto the node.
func (t *Tracker) Undo(ctx context.Context, before, after snapshot.NodeState) error {
	frameID := t.Resolve(after.NodeID)
	frame, err := t.host.NodeByID(ctx, frameID)
	if err != nil {
		return &Error{Op: "undo", NodeID: after.NodeID, Err: err}
	}
	node, err := t.host.NodeByID(ctx, after.OriginalNodeID)
	if err != nil {
		return &Error{Op: "undo", NodeID: after.OriginalNodeID, Err: err}
	}
	parent := frame.Parent()
	if parent == nil {
		return &Error{Op: "undo", NodeID: frameID, Err: fmt.Errorf("frame has no parent")}
	}

	index := frame.Index()
	x, y := frame.Position()
	if err := t.host.InsertChild(parent, index, node); err != nil {
		return &Error{Op: "undo", NodeID: node.ID(), Err: err}
	}
	node.SetPosition(x, y)
	if err := t.host.Remove(frame); err != nil {
		return &Error{Op: "undo", NodeID: frameID, Err: err}
	}

	if _, err := t.codec.Restore(ctx, before); err != nil {
		return &Error{Op: "undo", NodeID: before.NodeID, Err: err}
	}
	logger.DebugTagf("structure", "Unwrapped %s from %s", node.ID(), frameID)
	return nil
}

// Redo recreates the frame recorded in after around the original node and restores
// after onto it. The frame keeps its recorded id when that id is free; otherwise later
// undos find the replacement through Resolve.
func (t *Tracker) Redo(ctx context.Context, after snapshot.NodeState) error {
	node, err := t.host.NodeByID(ctx, after.OriginalNodeID)
	if err != nil {
		return &Error{Op: "redo", NodeID: after.OriginalNodeID, Err: err}
	}
	name := node.Name() + " Frame"
	if after.Properties.Name != nil && *after.Properties.Name != "" {
		name = *after.Properties.Name
	}

	frame, err := t.enclose(ctx, node, after.NodeID, name)
	if errors.Is(err, document.ErrNodeExists) {
		logger.WarnTagf("structure", "Frame id %s is taken, recreating under a new id", after.NodeID)
		frame, err = t.enclose(ctx, node, "", name)
	}
	if err != nil {
		return &Error{Op: "redo", NodeID: node.ID(), Err: err}
	}
	state := after.Clone()
	state.NodeID = frame.ID()
	t.codec.Apply(ctx, frame, state)

	t.mu.Lock()
	if frame.ID() != after.NodeID {
		t.remap[after.NodeID] = frame.ID()
	} else {
		delete(t.remap, after.NodeID)
	}
	t.mu.Unlock()
	logger.DebugTagf("structure", "Recreated frame %s as %s around %s", after.NodeID, frame.ID(), node.ID())
	return nil
}

// Forget drops remap entries, used when the history that refers to them is cleared.
func (t *Tracker) Forget() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.remap)
}
