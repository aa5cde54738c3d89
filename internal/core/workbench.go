// internal/core/workbench.go
package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bethropolis/bindery/internal/binding"
	"github.com/bethropolis/bindery/internal/core/clipboard"
	"github.com/bethropolis/bindery/internal/core/cursor"
	"github.com/bethropolis/bindery/internal/core/selection"
	"github.com/bethropolis/bindery/internal/document"
	"github.com/bethropolis/bindery/internal/event"
	"github.com/bethropolis/bindery/internal/history"
	"github.com/bethropolis/bindery/internal/logger"
	"github.com/bethropolis/bindery/internal/structure"
)

// Pane is one of the three lists on screen.
type Pane int

const (
	PaneNodes Pane = iota
	PaneVariables
	PaneHistory
	paneCount
)

func (p Pane) String() string {
	switch p {
	case PaneNodes:
		return "Nodes"
	case PaneVariables:
		return "Variables"
	case PaneHistory:
		return "History"
	default:
		return "Unknown"
	}
}

// DefaultScrollOff is the number of rows kept visible around a pane cursor.
const DefaultScrollOff = 2

// NodeRow is one line of the flattened node tree.
type NodeRow struct {
	Node  *document.Node
	Depth int
}

// Config holds the collaborators of a Workbench.
type Config struct {
	Document  *document.Document
	History   *history.Manager
	Service   *binding.Service
	Tracker   *structure.Tracker
	Events    *event.Manager
	Clipboard *clipboard.Manager
	Operation binding.Operation
	AutoWrap  bool
}

// Workbench is the interactive state behind the panes: cursors, node selection and the
// active binding operation. It turns user intents into binding and history calls.
// It is not safe for concurrent use; the app drives it from one goroutine.
type Workbench struct {
	doc       *document.Document
	history   *history.Manager
	service   *binding.Service
	tracker   *structure.Tracker
	events    *event.Manager
	clipboard *clipboard.Manager

	pane      Pane
	cursors   [paneCount]*cursor.Manager
	selection *selection.Manager
	operation binding.Operation
	autoWrap  bool
	now       func() time.Time

	filter     string // case-insensitive name filter for variables and styles
	collection string // "" shows every collection
}

// NewWorkbench creates a workbench. Document, History and Service are required.
func NewWorkbench(cfg Config) *Workbench {
	if cfg.Document == nil || cfg.History == nil || cfg.Service == nil {
		panic("core.NewWorkbench: missing required dependencies in Config")
	}
	if cfg.Clipboard == nil {
		cfg.Clipboard = clipboard.NewManager(false)
	}
	if cfg.Operation == "" {
		cfg.Operation = binding.OpFill
	}
	w := &Workbench{
		doc:       cfg.Document,
		history:   cfg.History,
		service:   cfg.Service,
		tracker:   cfg.Tracker,
		events:    cfg.Events,
		clipboard: cfg.Clipboard,
		selection: selection.NewManager(),
		operation: cfg.Operation,
		autoWrap:  cfg.AutoWrap,
		now:       time.Now,
	}
	for i := range w.cursors {
		w.cursors[i] = cursor.NewManager(DefaultScrollOff)
	}
	cfg.Service.SetAutoWrap(cfg.AutoWrap)
	w.Refresh()
	// The history list starts on the current entry.
	w.cursors[PaneHistory].SetPosition(w.history.CurrentIndex() + 1)
	return w
}

func (w *Workbench) Document() *document.Document { return w.doc }
func (w *Workbench) History() *history.Manager    { return w.history }
func (w *Workbench) Now() time.Time               { return w.now() }

// Refresh recounts the rows of every pane and drops selected nodes that no longer exist.
func (w *Workbench) Refresh() {
	w.cursors[PaneNodes].SetCount(len(w.NodeRows()))
	w.cursors[PaneVariables].SetCount(len(w.Variables()))
	w.cursors[PaneHistory].SetCount(w.history.Len() + 1)

	changed := w.selection.Prune(func(id string) bool {
		_, err := w.doc.NodeByID(context.Background(), id)
		return err == nil
	})
	if changed {
		w.dispatchSelection()
	}
}

// --- Panes and cursors ---

func (w *Workbench) Pane() Pane { return w.pane }

func (w *Workbench) SetPane(p Pane) {
	if p >= 0 && p < paneCount {
		w.pane = p
	}
}

// CyclePane moves focus by delta panes, wrapping around.
func (w *Workbench) CyclePane(delta int) {
	n := int(paneCount)
	w.pane = Pane(((int(w.pane)+delta)%n + n) % n)
}

// Cursor returns the cursor of pane p.
func (w *Workbench) Cursor(p Pane) *cursor.Manager { return w.cursors[p] }

// SetViewHeight sets the number of visible rows of pane p.
func (w *Workbench) SetViewHeight(p Pane, height int) { w.cursors[p].SetViewSize(height) }

func (w *Workbench) MoveCursor(delta int) { w.cursors[w.pane].Move(delta) }
func (w *Workbench) PageMove(pages int)   { w.cursors[w.pane].PageMove(pages) }
func (w *Workbench) Home()                { w.cursors[w.pane].Home() }
func (w *Workbench) End()                 { w.cursors[w.pane].End() }

// NodeRows flattens the node tree depth first.
func (w *Workbench) NodeRows() []NodeRow {
	var rows []NodeRow
	w.doc.Walk(func(n *document.Node, depth int) bool {
		rows = append(rows, NodeRow{Node: n, Depth: depth})
		return true
	})
	return rows
}

// CursorNode returns the node under the nodes pane cursor.
func (w *Workbench) CursorNode() *document.Node {
	rows := w.NodeRows()
	c := w.cursors[PaneNodes]
	if !c.Valid() || c.Position() >= len(rows) {
		return nil
	}
	return rows[c.Position()].Node
}

// CursorVariable returns the variable under the variables pane cursor.
func (w *Workbench) CursorVariable() *document.Variable {
	vars := w.Variables()
	c := w.cursors[PaneVariables]
	if !c.Valid() || c.Position() >= len(vars) {
		return nil
	}
	return vars[c.Position()]
}

// CursorHistoryIndex maps the history cursor to an action index. Row 0 is the
// initial state, index -1.
func (w *Workbench) CursorHistoryIndex() int {
	return w.cursors[PaneHistory].Position() - 1
}

// --- Variable filters ---

// Variables returns the variables that pass the collection and name filters, in document
// order.
func (w *Workbench) Variables() []*document.Variable {
	var out []*document.Variable
	for _, v := range w.doc.Variables() {
		if w.collection != "" && v.Collection != w.collection {
			continue
		}
		if !w.matches(v.Name) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Styles returns the paint styles whose name passes the filter.
func (w *Workbench) Styles() []*document.PaintStyle {
	var out []*document.PaintStyle
	for _, s := range w.doc.Styles() {
		if w.matches(s.Name) {
			out = append(out, s)
		}
	}
	return out
}

func (w *Workbench) matches(name string) bool {
	return w.filter == "" || strings.Contains(strings.ToLower(name), strings.ToLower(w.filter))
}

func (w *Workbench) Filter() string { return w.filter }

// SetFilter sets the name filter; an empty text shows everything.
func (w *Workbench) SetFilter(text string) {
	w.filter = strings.TrimSpace(text)
	w.Refresh()
	w.cursors[PaneVariables].Home()
}

func (w *Workbench) Collection() string { return w.collection }

// Collections lists the collection names in order of first appearance.
func (w *Workbench) Collections() []string {
	var names []string
	seen := make(map[string]bool)
	for _, v := range w.doc.Variables() {
		if v.Collection != "" && !seen[v.Collection] {
			seen[v.Collection] = true
			names = append(names, v.Collection)
		}
	}
	return names
}

// SetCollection limits the variables pane to one collection, matched case-insensitively.
// An empty name shows every collection.
func (w *Workbench) SetCollection(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		w.collection = ""
	} else {
		found := ""
		for _, c := range w.Collections() {
			if strings.EqualFold(c, name) {
				found = c
				break
			}
		}
		if found == "" {
			return fmt.Errorf("unknown collection %q", name)
		}
		w.collection = found
	}
	w.Refresh()
	w.cursors[PaneVariables].Home()
	return nil
}

// ReloadLibrary replaces the document's variables and styles with those of src. A
// collection filter whose collection disappeared is dropped.
func (w *Workbench) ReloadLibrary(src *document.Document) document.LibraryChanges {
	ch := w.doc.SyncLibrary(src)
	if w.collection != "" && !slices.Contains(w.Collections(), w.collection) {
		w.collection = ""
	}
	w.Refresh()
	w.notify(event.SeverityInfo, "Variables reloaded: %d added, %d updated, %d removed", ch.Added, ch.Updated, ch.Removed)
	if w.events != nil {
		w.events.Dispatch(event.TypeDocumentModified, event.DocumentModifiedData{})
	}
	return ch
}

// --- Selection ---

// ToggleSelect toggles the node under the nodes cursor.
func (w *Workbench) ToggleSelect() bool {
	n := w.CursorNode()
	if n == nil {
		return false
	}
	w.selection.Toggle(n.ID())
	w.dispatchSelection()
	return true
}

func (w *Workbench) ClearSelection() {
	if w.selection.Len() == 0 {
		return
	}
	w.selection.Clear()
	w.dispatchSelection()
}

func (w *Workbench) IsSelected(id string) bool { return w.selection.Has(id) }
func (w *Workbench) SelectedIDs() []string     { return w.selection.IDs() }

// Targets returns the selected node ids, or the node under the cursor when nothing is
// selected.
func (w *Workbench) Targets() []string {
	if ids := w.selection.IDs(); len(ids) > 0 {
		return ids
	}
	if n := w.CursorNode(); n != nil {
		return []string{n.ID()}
	}
	return nil
}

func (w *Workbench) dispatchSelection() {
	if w.events != nil {
		w.events.Dispatch(event.TypeSelectionChanged, event.SelectionChangedData{NodeIDs: w.selection.IDs()})
	}
}

// --- Binding ---

func (w *Workbench) Operation() binding.Operation { return w.operation }

func (w *Workbench) SetOperation(op binding.Operation) { w.operation = op }

// CycleOperation advances to the next operation. When a variable is under the cursor
// only operations of its kind are offered.
func (w *Workbench) CycleOperation() binding.Operation {
	ops := binding.Operations
	if v := w.CursorVariable(); v != nil {
		ops = binding.OperationsFor(v.Kind)
	}
	next := ops[0]
	for i, op := range ops {
		if op == w.operation {
			next = ops[(i+1)%len(ops)]
			break
		}
	}
	w.operation = next
	return next
}

func (w *Workbench) AutoWrap() bool { return w.autoWrap }

// ToggleAutoWrap flips auto-layout wrapping for spacing and padding bindings.
func (w *Workbench) ToggleAutoWrap() bool {
	w.autoWrap = !w.autoWrap
	w.service.SetAutoWrap(w.autoWrap)
	if w.autoWrap {
		w.notify(event.SeverityInfo, "Auto Layout wrapping on")
	} else {
		w.notify(event.SeverityInfo, "Auto Layout wrapping off")
	}
	return w.autoWrap
}

// ApplyVariable binds the variable to the current targets. A variable whose kind does not
// fit the active operation switches to the first operation of its kind.
func (w *Workbench) ApplyVariable(ctx context.Context, variableID string) (binding.Result, error) {
	v, err := w.doc.VariableByID(ctx, variableID)
	if err != nil {
		w.notify(event.SeverityError, "Error: %v", err)
		return binding.Result{}, err
	}
	if w.operation.VariableKind() != v.Kind {
		w.operation = binding.OperationsFor(v.Kind)[0]
	}
	res, err := w.service.ApplyVariable(ctx, w.Targets(), v.ID, w.operation)
	w.report(res, err)
	return res, err
}

// ApplyStyle applies a paint style to the current targets with the active operation.
func (w *Workbench) ApplyStyle(ctx context.Context, styleID string) (binding.Result, error) {
	res, err := w.service.ApplyStyle(ctx, w.Targets(), styleID, w.operation)
	w.report(res, err)
	return res, err
}

func (w *Workbench) report(res binding.Result, err error) {
	w.Refresh()
	if res.Action != nil {
		w.cursors[PaneHistory].SetPosition(w.history.CurrentIndex() + 1)
	}
	switch {
	case errors.Is(err, binding.ErrNothingSelected):
		w.notify(event.SeverityWarning, "Select at least one node first")
	case errors.Is(err, binding.ErrNotApplicable):
		w.notify(event.SeverityWarning, "%s: %v", res.Message, err)
	case err != nil && res.Message != "":
		w.notify(event.SeverityError, "%s", res.Message)
	case err != nil:
		w.notify(event.SeverityError, "Error: %v", err)
	case res.Warning != "":
		w.notify(event.SeverityWarning, "%s (%s)", res.Message, res.Warning)
	default:
		w.notify(event.SeverityInfo, "%s", res.Message)
	}
}

// Confirm runs the Enter action of the focused pane: select in the nodes pane, apply in
// the variables pane, jump in the history pane.
func (w *Workbench) Confirm(ctx context.Context) error {
	switch w.pane {
	case PaneNodes:
		w.ToggleSelect()
		return nil
	case PaneVariables:
		v := w.CursorVariable()
		if v == nil {
			return nil
		}
		_, err := w.ApplyVariable(ctx, v.ID)
		return err
	case PaneHistory:
		_, err := w.Jump(ctx, w.CursorHistoryIndex())
		return err
	}
	return nil
}

// --- History ---

// Undo steps back once. The history manager reports the outcome through events.
func (w *Workbench) Undo(ctx context.Context) (bool, error) {
	ok, err := w.history.Undo(ctx)
	if !ok && err == nil {
		w.notify(event.SeverityInfo, "Nothing to undo")
	}
	w.afterHistory(ok)
	return ok, err
}

// Redo steps forward once.
func (w *Workbench) Redo(ctx context.Context) (bool, error) {
	ok, err := w.history.Redo(ctx)
	if !ok && err == nil {
		w.notify(event.SeverityInfo, "Nothing to redo")
	}
	w.afterHistory(ok)
	return ok, err
}

// Jump moves the timeline to action index target; -1 undoes everything.
func (w *Workbench) Jump(ctx context.Context, target int) (bool, error) {
	ok, err := w.history.JumpToAction(ctx, target)
	if !ok && err == nil {
		w.notify(event.SeverityWarning, "No history entry %d", target+1)
	}
	w.afterHistory(ok)
	return ok, err
}

func (w *Workbench) afterHistory(moved bool) {
	w.Refresh()
	if moved {
		w.cursors[PaneHistory].SetPosition(w.history.CurrentIndex() + 1)
	}
	if moved && w.events != nil {
		w.events.Dispatch(event.TypeDocumentModified, event.DocumentModifiedData{})
	}
}

// ClearHistory drops the timeline and the frame remap.
func (w *Workbench) ClearHistory() {
	w.history.Clear()
	if w.tracker != nil {
		w.tracker.Forget()
	}
	w.Refresh()
	w.cursors[PaneHistory].Home()
	w.notify(event.SeverityInfo, "History cleared")
}

// CopyAction copies the action under the history cursor to the clipboard as JSON.
func (w *Workbench) CopyAction() error {
	idx := w.CursorHistoryIndex()
	info := w.history.FullInfo()
	if idx < 0 || idx >= len(info.Actions) {
		w.notify(event.SeverityWarning, "No action under the cursor")
		return nil
	}
	action := info.Actions[idx]
	data, err := json.MarshalIndent(action, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode action %s: %w", action.ID, err)
	}
	return w.copy(data, "Copied action "+action.ID)
}

// CopyHistory copies the whole timeline to the clipboard as JSON.
func (w *Workbench) CopyHistory() error {
	info := w.history.FullInfo()
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	return w.copy(data, fmt.Sprintf("Copied %d history entries", info.TotalActions))
}

func (w *Workbench) copy(data []byte, what string) error {
	if err := w.clipboard.Copy(string(data)); err != nil {
		logger.Warnf("Workbench: %v", err)
		w.notify(event.SeverityWarning, "%s to internal register only", what)
		return nil
	}
	w.notify(event.SeverityInfo, "%s to clipboard", what)
	return nil
}

func (w *Workbench) notify(sev event.Severity, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.DebugTagf("workbench", "Workbench: %s", msg)
	if w.events != nil {
		w.events.Dispatch(event.TypeNotify, event.NotifyData{Message: msg, Severity: sev})
	}
}
