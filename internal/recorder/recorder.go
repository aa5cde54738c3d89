// Package recorder turns a mutation of document nodes into a history action.
package recorder

import (
	"context"
	"errors"
	"time"

	"github.com/bethropolis/bindery/internal/document"
	"github.com/bethropolis/bindery/internal/history"
	"github.com/bethropolis/bindery/internal/idgen"
	"github.com/bethropolis/bindery/internal/logger"
	"github.com/bethropolis/bindery/internal/snapshot"
)

// ErrNoNodes is returned when Record is called without nodes.
var ErrNoNodes = errors.New("no nodes to record")

// Outcome reports structural side effects of a mutation.
type Outcome struct {
	// Frames maps the id of a node that was wrapped to the frame now holding it.
	Frames map[string]*document.Node
}

// MutateFunc performs the actual edit.
type MutateFunc func(ctx context.Context) (Outcome, error)

// Meta describes the action being recorded.
type Meta struct {
	Kind         history.Kind
	Description  string
	VariableID   string
	VariableKind document.VariableKind
	Operation    string
}

// Recorder captures node state around mutations and adds the resulting actions to a
// history manager.
type Recorder struct {
	history    *history.Manager
	newID      idgen.Generator
	now        func() time.Time
	recordNoop bool
}

type Option func(*Recorder)

// WithIDGenerator overrides the action id generator.
func WithIDGenerator(gen idgen.Generator) Option {
	return func(r *Recorder) { r.newID = gen }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// WithRecordNoop records actions even when nothing changed.
func WithRecordNoop(on bool) Option {
	return func(r *Recorder) { r.recordNoop = on }
}

func New(h *history.Manager, opts ...Option) *Recorder {
	r := &Recorder{
		history: h,
		newID:   idgen.Actions(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record captures nodes, runs mutate, captures them again and adds the action.
//
// A wrapped node's after entry is the capture of its frame, flagged as frame-created.
// The action is skipped, and nil returned, when no node changed and no frame was created
// unless the recorder records no-ops. When mutate fails, whatever it changed is still
// recorded and its error returned.
func (r *Recorder) Record(ctx context.Context, nodes []*document.Node, mutate MutateFunc, meta Meta) (*history.Action, error) {
	if len(nodes) == 0 {
		return nil, ErrNoNodes
	}
	before := snapshot.CaptureAll(nodes)
	outcome, mutateErr := mutate(ctx)

	after := make([]snapshot.NodeState, len(nodes))
	frames := 0
	for i, n := range nodes {
		if frame, ok := outcome.Frames[n.ID()]; ok && frame != nil {
			s := snapshot.Capture(frame)
			s.FrameCreated = true
			s.OriginalNodeID = n.ID()
			after[i] = s
			frames++
			continue
		}
		after[i] = snapshot.Capture(n)
	}

	if frames == 0 && !snapshot.Changed(before, after) && !r.recordNoop {
		logger.DebugTagf("recorder", "Nothing changed for %q, not recording", meta.Description)
		return nil, mutateErr
	}

	action := history.Action{
		ID:           r.newID(),
		Kind:         meta.Kind,
		Timestamp:    r.now(),
		Description:  meta.Description,
		VariableID:   meta.VariableID,
		VariableKind: meta.VariableKind,
		Operation:    meta.Operation,
		Before:       before,
		After:        after,
	}
	if action.Kind == "" {
		action.Kind = history.KindApplyVariable
	}
	r.history.AddAction(action)
	logger.DebugTagf("recorder", "Recorded %s (%d nodes, %d frames)", action.ID, len(nodes), frames)
	return &action, mutateErr
}
