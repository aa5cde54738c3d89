package binding

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bethropolis/bindery/internal/document"
	"github.com/bethropolis/bindery/internal/event"
	"github.com/bethropolis/bindery/internal/history"
	"github.com/bethropolis/bindery/internal/logger"
	"github.com/bethropolis/bindery/internal/recorder"
	"github.com/bethropolis/bindery/internal/structure"
)

var (
	// ErrNothingSelected is returned when no node ids are given.
	ErrNothingSelected = errors.New("nothing is selected")
	// ErrKindMismatch is returned when the variable kind does not fit the operation.
	ErrKindMismatch = errors.New("variable kind does not match operation")
	// ErrNotApplicable is returned when no selected node accepts the operation.
	ErrNotApplicable = errors.New("operation not applicable to the selection")
)

// Options tune a Service.
type Options struct {
	// AutoWrap wraps nodes without auto layout in a new auto-layout frame when a spacing or
	// padding variable is applied to them.
	AutoWrap bool
}

// Result describes one application.
type Result struct {
	Message string
	Applied []string          // ids of the nodes the action recorded
	Skipped map[string]string // node id -> reason
	Wrapped int
	Warning string
	Action  *history.Action // nil when nothing changed
}

// Service applies variables and styles to nodes of one document.
type Service struct {
	doc      *document.Document
	recorder *recorder.Recorder
	tracker  *structure.Tracker
	events   *event.Manager
	opts     Options
}

// NewService creates a binding service. events may be nil.
func NewService(doc *document.Document, rec *recorder.Recorder, tracker *structure.Tracker, events *event.Manager, opts Options) *Service {
	return &Service{doc: doc, recorder: rec, tracker: tracker, events: events, opts: opts}
}

// SetAutoWrap toggles wrapping for later applications.
func (s *Service) SetAutoWrap(on bool) { s.opts.AutoWrap = on }

// ApplyVariable binds the variable to every selected node that accepts it and records
// one history action for the whole selection.
func (s *Service) ApplyVariable(ctx context.Context, nodeIDs []string, variableID string, op Operation) (Result, error) {
	if len(nodeIDs) == 0 {
		return Result{}, ErrNothingSelected
	}
	v, err := s.doc.VariableByID(ctx, variableID)
	if err != nil {
		return Result{}, err
	}
	if op.VariableKind() != v.Kind {
		return Result{}, fmt.Errorf("%s is a %s variable, %s needs %s: %w", v.Name, v.Kind, op, op.VariableKind(), ErrKindMismatch)
	}

	var color document.RGB
	if v.Kind == document.VariableColor {
		if color, err = s.doc.ResolveColor(ctx, v); err != nil {
			return Result{}, err
		}
	}

	nodes, res := s.resolve(ctx, nodeIDs)
	wrap := make(map[string]bool)
	var targets []*document.Node
	for _, n := range nodes {
		if !ValidScope(v, op, n) {
			res.Skipped[n.ID()] = "scope limitation"
			continue
		}
		reason, needsWrap := s.check(n, op)
		if reason != "" {
			res.Skipped[n.ID()] = reason
			continue
		}
		if needsWrap {
			wrap[n.ID()] = true
		}
		targets = append(targets, n)
	}
	if len(targets) == 0 {
		res.Message = "Scope limitation"
		return res, notApplicable(res)
	}
	res.Warning = scopeWarning(v, op)

	mutate := func(ctx context.Context) (recorder.Outcome, error) {
		out := recorder.Outcome{Frames: make(map[string]*document.Node)}
		var errs []error
		for _, n := range targets {
			target := n
			if wrap[n.ID()] {
				frame, err := s.tracker.Wrap(ctx, n)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				out.Frames[n.ID()] = frame
				target = frame
			}
			var err error
			if v.Kind == document.VariableColor {
				err = applyColor(target, v, color, op)
			} else {
				err = applyNumber(target, v, op)
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", target.ID(), err))
			}
		}
		return out, errors.Join(errs...)
	}

	meta := recorder.Meta{
		Kind:         history.KindApplyVariable,
		Description:  describe("Bind "+v.Name+" to "+op.Label(), len(targets)),
		VariableID:   v.ID,
		VariableKind: v.Kind,
		Operation:    string(op),
	}
	return s.record(ctx, targets, mutate, meta, res)
}

// ApplyStyle replaces the first fill or stroke paint of each selected node with the
// style's paint.
func (s *Service) ApplyStyle(ctx context.Context, nodeIDs []string, styleID string, op Operation) (Result, error) {
	if len(nodeIDs) == 0 {
		return Result{}, ErrNothingSelected
	}
	if op != OpFill && op != OpStroke {
		return Result{}, fmt.Errorf("styles apply to fill or stroke, not %s: %w", op, ErrKindMismatch)
	}
	style, err := s.doc.StyleByID(ctx, styleID)
	if err != nil {
		return Result{}, err
	}
	if len(style.Paints) == 0 {
		return Result{}, fmt.Errorf("style %s has no paints: %w", style.Name, ErrNotApplicable)
	}

	nodes, res := s.resolve(ctx, nodeIDs)
	var targets []*document.Node
	for _, n := range nodes {
		if reason, _ := s.check(n, op); reason != "" {
			res.Skipped[n.ID()] = reason
			continue
		}
		targets = append(targets, n)
	}
	if len(targets) == 0 {
		res.Message = "Scope limitation"
		return res, notApplicable(res)
	}

	mutate := func(ctx context.Context) (recorder.Outcome, error) {
		var errs []error
		for _, n := range targets {
			if err := applyStyle(n, style, op); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", n.ID(), err))
			}
		}
		return recorder.Outcome{}, errors.Join(errs...)
	}
	meta := recorder.Meta{
		Kind:        history.KindApplyStyle,
		Description: describe("Apply style "+style.Name+" to "+op.Label(), len(targets)),
		Operation:   string(op),
	}
	return s.record(ctx, targets, mutate, meta, res)
}

func (s *Service) record(ctx context.Context, targets []*document.Node, mutate recorder.MutateFunc, meta recorder.Meta, res Result) (Result, error) {
	action, err := s.recorder.Record(ctx, targets, mutate, meta)
	res.Action = action
	for _, n := range targets {
		res.Applied = append(res.Applied, n.ID())
	}

	switch {
	case action == nil && err == nil:
		res.Message = "Nothing changed: " + meta.Description
	case action != nil:
		res.Wrapped = action.FrameCount()
		res.Message = meta.Description
		if res.Wrapped > 0 {
			res.Message += fmt.Sprintf(", wrapped %d in Auto Layout", res.Wrapped)
		}
		if len(res.Skipped) > 0 {
			res.Message += fmt.Sprintf(" (%d skipped)", len(res.Skipped))
		}
	}
	if err != nil {
		logger.WarnTagf("binding", "%s: %v", meta.Description, err)
		res.Message = "Could not fully apply: " + meta.Description
	}

	if action != nil && s.events != nil {
		s.events.Dispatch(event.TypeDocumentModified, event.DocumentModifiedData{NodeIDs: res.Applied})
	}
	return res, err
}

func (s *Service) resolve(ctx context.Context, ids []string) ([]*document.Node, Result) {
	res := Result{Skipped: make(map[string]string)}
	var nodes []*document.Node
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		n, err := s.doc.NodeByID(ctx, id)
		if err != nil {
			res.Skipped[id] = "node not found"
			continue
		}
		nodes = append(nodes, n)
	}
	return nodes, res
}

// check returns why n cannot take op, and whether it has to be wrapped first.
func (s *Service) check(n *document.Node, op Operation) (reason string, wrap bool) {
	switch op {
	case OpFill:
		if !n.Has(document.HasFills) {
			return "does not support fills", false
		}
	case OpStroke, OpStrokeWidth:
		if !n.Has(document.HasStrokes) {
			return "does not support strokes", false
		}
	case OpBorderRadius:
		if !n.Has(document.HasCornerRadius) {
			return "does not support corner radius", false
		}
	case OpSpaceBetween, OpPaddingVertical, OpPaddingHorizontal, OpPaddingGeneral:
		if n.Has(document.HasAutoLayout) && n.Layout().Mode != document.LayoutNone {
			return "", false
		}
		if s.opts.AutoWrap && n.Parent() != nil {
			return "", true
		}
		if n.Has(document.HasAutoLayout) {
			return "Auto Layout required for " + op.Label(), false
		}
		return "must be an Auto Layout frame for " + op.Label(), false
	}
	return "", false
}

func describe(base string, count int) string {
	if count > 1 {
		return fmt.Sprintf("%s (%d nodes)", base, count)
	}
	return base
}

func notApplicable(res Result) error {
	reasons := make([]string, 0, len(res.Skipped))
	for id, why := range res.Skipped {
		reasons = append(reasons, id+": "+why)
	}
	sort.Strings(reasons)
	return fmt.Errorf("%w (%s)", ErrNotApplicable, strings.Join(reasons, "; "))
}
