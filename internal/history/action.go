package history

import (
	"time"

	"github.com/bethropolis/bindery/internal/document"
	"github.com/bethropolis/bindery/internal/snapshot"
)

// Kind tells what produced an action.
type Kind string

const (
	KindApplyVariable Kind = "apply-variable"
	KindApplyStyle    Kind = "apply-style"
)

// Action is one recorded mutation spanning one or more nodes. Before and After are
// index-aligned: entry i of both describes the same node.
type Action struct {
	ID           string                `json:"id"`
	Kind         Kind                  `json:"type"`
	Timestamp    time.Time             `json:"timestamp"`
	Description  string                `json:"description"`
	VariableID   string                `json:"variableId,omitempty"`
	VariableKind document.VariableKind `json:"variableType,omitempty"`
	Operation    string                `json:"action"`
	Before       []snapshot.NodeState  `json:"beforeState"`
	After        []snapshot.NodeState  `json:"afterState"`
}

// Clone returns a deep copy of the action.
func (a Action) Clone() Action {
	out := a
	out.Before = snapshot.CloneAll(a.Before)
	out.After = snapshot.CloneAll(a.After)
	return out
}

// NodeCount is the number of nodes the action touched.
func (a Action) NodeCount() int { return len(a.Before) }

// FrameCount is the number of frames the action synthesized.
func (a Action) FrameCount() int {
	n := 0
	for _, s := range a.After {
		if structural(s) {
			n++
		}
	}
	return n
}

func structural(s snapshot.NodeState) bool {
	return s.FrameCreated && s.OriginalNodeID != ""
}
