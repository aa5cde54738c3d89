// Package history keeps the undo/redo timeline of recorded actions.
package history

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bethropolis/bindery/internal/event"
	"github.com/bethropolis/bindery/internal/logger"
	"github.com/bethropolis/bindery/internal/snapshot"
)

const DefaultCapacity = 50

// ErrPartialRestore is returned when some nodes of an undo or redo step could not be
// restored. The step still counts as taken.
var ErrPartialRestore = errors.New("some changes could not be restored")

// StateRestorer writes a captured state back onto its node.
type StateRestorer interface {
	Restore(ctx context.Context, state snapshot.NodeState) (bool, error)
}

// FrameRestorer reverses and replays synthesized frames.
type FrameRestorer interface {
	Undo(ctx context.Context, before, after snapshot.NodeState) error
	Redo(ctx context.Context, after snapshot.NodeState) error
}

// IDResolver is implemented by frame restorers that can recreate a frame under a new id.
type IDResolver interface {
	Resolve(id string) string
}

// Info is the summary pushed after every change.
type Info = event.HistorySummary

// FullInfo is the whole timeline with copies of every action.
type FullInfo struct {
	Actions      []Action `json:"actions"`
	CurrentIndex int      `json:"currentIndex"`
	CanUndo      bool     `json:"canUndo"`
	CanRedo      bool     `json:"canRedo"`
	TotalActions int      `json:"totalActions"`
}

// Manager handles the undo/redo timeline.
type Manager struct {
	events   *event.Manager
	states   StateRestorer
	frames   FrameRestorer
	actions  []Action
	current  int // index of the last applied action, -1 when none
	capacity int
	mutex    sync.Mutex
}

type pending struct {
	typ  event.Type
	data interface{}
}

// NewManager creates a history manager. events may be nil.
func NewManager(events *event.Manager, states StateRestorer, frames FrameRestorer, capacity int) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Manager{
		events:   events,
		states:   states,
		frames:   frames,
		actions:  make([]Action, 0, capacity),
		current:  -1,
		capacity: capacity,
	}
}

// AddAction appends action, discarding any redo tail first. When the timeline is over
// capacity the oldest action is evicted.
func (m *Manager) AddAction(action Action) {
	m.mutex.Lock()
	if m.current < len(m.actions)-1 {
		logger.Debugf("History: Discarding %d redo action(s)", len(m.actions)-1-m.current)
		m.actions = m.actions[:m.current+1]
	}
	m.actions = append(m.actions, action.Clone())
	m.current = len(m.actions) - 1

	if len(m.actions) > m.capacity {
		m.actions[0] = Action{}
		m.actions = m.actions[1:]
		m.current--
	}
	logger.Debugf("History: Recorded %s %q. Index: %d, Count: %d", action.ID, action.Description, m.current, len(m.actions))
	notes := []pending{m.changedLocked()}
	m.mutex.Unlock()

	m.dispatch(notes)
}

// Undo reverts the action at the current index. It returns false with a nil error when
// there is nothing to undo.
func (m *Manager) Undo(ctx context.Context) (bool, error) {
	m.mutex.Lock()
	notes, ok, err := m.undoLocked(ctx)
	m.mutex.Unlock()

	m.dispatch(notes)
	return ok, err
}

// Redo replays the action after the current index. It returns false with a nil error when
// there is nothing to redo.
func (m *Manager) Redo(ctx context.Context) (bool, error) {
	m.mutex.Lock()
	notes, ok, err := m.redoLocked(ctx)
	m.mutex.Unlock()

	m.dispatch(notes)
	return ok, err
}

// JumpToAction undoes or redoes one step at a time until target is the current index.
// target -1 undoes everything. It stops at the first step that fails and leaves the
// timeline where that step put it.
func (m *Manager) JumpToAction(ctx context.Context, target int) (bool, error) {
	m.mutex.Lock()
	if target < -1 || target >= len(m.actions) {
		logger.Debugf("History: Jump target %d out of range [-1, %d]", target, len(m.actions)-1)
		m.mutex.Unlock()
		return false, nil
	}

	var all []pending
	ok, err := true, error(nil)
	for ok && m.current != target {
		var notes []pending
		if target < m.current {
			notes, ok, err = m.undoLocked(ctx)
		} else {
			notes, ok, err = m.redoLocked(ctx)
		}
		all = append(all, notes...)
	}
	logger.Debugf("History: Jump to %d ended at %d (ok=%t)", target, m.current, ok)
	m.mutex.Unlock()

	m.dispatch(all)
	return ok, err
}

func (m *Manager) undoLocked(ctx context.Context) ([]pending, bool, error) {
	if m.current < 0 {
		logger.Debugf("History: Nothing to undo.")
		return nil, false, nil
	}
	action := m.actions[m.current]
	logger.Debugf("History: Undoing %d (%s)", m.current, action.Description)

	var failures []error
	for i, before := range action.Before {
		var err error
		if i < len(action.After) && structural(action.After[i]) {
			err = m.frames.Undo(ctx, before, action.After[i])
		} else {
			_, err = m.states.Restore(ctx, m.live(before))
		}
		if err != nil {
			logger.Errorf("History: Error undoing %s: %v", before.NodeID, err)
			failures = append(failures, err)
		}
	}

	// Restored nodes cannot be un-restored, so the step is committed either way.
	m.current--
	notes := []pending{m.changedLocked()}
	if len(failures) > 0 {
		notes = append(notes, notify("Failed to undo some changes", event.SeverityWarning))
		return notes, false, partial("undo", action, failures)
	}
	notes = append(notes, notify("↶ Undone: "+action.Description, event.SeverityInfo))
	return notes, true, nil
}

// live points state at the node currently standing in for its recorded id.
func (m *Manager) live(state snapshot.NodeState) snapshot.NodeState {
	r, ok := m.frames.(IDResolver)
	if !ok {
		return state
	}
	state.NodeID = r.Resolve(state.NodeID)
	return state
}

func (m *Manager) redoLocked(ctx context.Context) ([]pending, bool, error) {
	if m.current >= len(m.actions)-1 {
		logger.Debugf("History: Nothing to redo. current=%d, len=%d", m.current, len(m.actions))
		return nil, false, nil
	}
	action := m.actions[m.current+1]
	logger.Debugf("History: Redoing %d (%s)", m.current+1, action.Description)

	var failures []error
	for _, after := range action.After {
		var err error
		if structural(after) {
			err = m.frames.Redo(ctx, after)
		} else {
			_, err = m.states.Restore(ctx, m.live(after))
		}
		if err != nil {
			logger.Errorf("History: Error redoing %s: %v", after.NodeID, err)
			failures = append(failures, err)
		}
	}

	m.current++
	notes := []pending{m.changedLocked()}
	if len(failures) > 0 {
		notes = append(notes, notify("Failed to redo some changes", event.SeverityWarning))
		return notes, false, partial("redo", action, failures)
	}
	notes = append(notes, notify("↷ Redone: "+action.Description, event.SeverityInfo))
	return notes, true, nil
}

// Clear drops every action.
func (m *Manager) Clear() {
	m.mutex.Lock()
	clear(m.actions)
	m.actions = m.actions[:0]
	m.current = -1
	logger.Debugf("History: Cleared.")
	notes := []pending{m.changedLocked()}
	m.mutex.Unlock()

	m.dispatch(notes)
}

// Info returns the summary of the timeline.
func (m *Manager) Info() Info {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.infoLocked()
}

// FullInfo returns the timeline with deep copies of every action.
func (m *Manager) FullInfo() FullInfo {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	actions := make([]Action, len(m.actions))
	for i, a := range m.actions {
		actions[i] = a.Clone()
	}
	return FullInfo{
		Actions:      actions,
		CurrentIndex: m.current,
		CanUndo:      m.current >= 0,
		CanRedo:      m.current < len(m.actions)-1,
		TotalActions: len(m.actions),
	}
}

func (m *Manager) CanUndo() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.current >= 0
}

func (m *Manager) CanRedo() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.current < len(m.actions)-1
}

func (m *Manager) Len() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.actions)
}

func (m *Manager) CurrentIndex() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.current
}

func (m *Manager) Capacity() int { return m.capacity }

func (m *Manager) infoLocked() Info {
	info := Info{
		CanUndo:      m.current >= 0,
		CanRedo:      m.current < len(m.actions)-1,
		TotalActions: len(m.actions),
	}
	if info.CanUndo {
		desc := m.actions[m.current].Description
		info.CurrentAction = &desc
	}
	if info.CanRedo {
		desc := m.actions[m.current+1].Description
		info.NextAction = &desc
	}
	return info
}

func (m *Manager) changedLocked() pending {
	return pending{typ: event.TypeHistoryChanged, data: event.HistoryChangedData{Summary: m.infoLocked()}}
}

func partial(op string, action Action, failures []error) error {
	return fmt.Errorf("%s %q: %w", op, action.Description, errors.Join(append([]error{ErrPartialRestore}, failures...)...))
}

func notify(msg string, sev event.Severity) pending {
	return pending{typ: event.TypeNotify, data: event.NotifyData{Message: msg, Severity: sev}}
}

// dispatch runs outside the lock so handlers may call back into the manager.
func (m *Manager) dispatch(notes []pending) {
	if m.events == nil {
		return
	}
	for _, n := range notes {
		m.events.Dispatch(n.typ, n.data)
	}
}
