package recorder

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bethropolis/bindery/internal/document"
	"github.com/bethropolis/bindery/internal/history"
	"github.com/bethropolis/bindery/internal/idgen"
	"github.com/bethropolis/bindery/internal/snapshot"
	"github.com/bethropolis/bindery/internal/structure"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixed = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	doc      *document.Document
	tracker  *structure.Tracker
	history  *history.Manager
	recorder *Recorder
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	doc := document.New("Test")
	codec := snapshot.NewCodec(doc)
	tracker := structure.NewTracker(doc, codec)
	h := history.NewManager(nil, codec, tracker, 0)
	opts = append([]Option{WithClock(func() time.Time { return fixed }), WithIDGenerator(idgen.Sequence("act_"))}, opts...)
	return &harness{doc: doc, tracker: tracker, history: h, recorder: New(h, opts...)}
}

func (h *harness) rect(t *testing.T, name string) *document.Node {
	t.Helper()
	n := h.doc.NewNode(document.KindRectangle, name)
	require.NoError(t, h.doc.AppendChild(h.doc.Root(), n))
	return n
}

func setFill(n *document.Node, c document.RGB) MutateFunc {
	return func(context.Context) (Outcome, error) {
		return Outcome{}, n.SetFills([]document.Paint{document.SolidPaint(c)})
	}
}

func TestRecord(t *testing.T) {
	h := newHarness(t)
	n := h.rect(t, "Rect")
	meta := Meta{
		Description:  "Bind red to fill",
		VariableID:   "v:red",
		VariableKind: document.VariableColor,
		Operation:    "fill",
	}

	action, err := h.recorder.Record(context.Background(), []*document.Node{n}, setFill(n, document.RGB{R: 1}), meta)
	require.NoError(t, err)
	require.NotNil(t, action)

	assert.Equal(t, "act_1", action.ID)
	assert.Equal(t, history.KindApplyVariable, action.Kind)
	assert.Equal(t, fixed, action.Timestamp)
	assert.Equal(t, "fill", action.Operation)
	assert.Equal(t, document.VariableColor, action.VariableKind)
	require.Len(t, action.Before, 1)
	assert.Empty(t, action.Before[0].Properties.Fills.Paints)
	assert.Len(t, action.After[0].Properties.Fills.Paints, 1)

	assert.Equal(t, 1, h.history.Len())
	assert.Equal(t, "Bind red to fill", *h.history.Info().CurrentAction)
}

func TestRecordDefaultIDs(t *testing.T) {
	doc := document.New("Test")
	codec := snapshot.NewCodec(doc)
	r := New(history.NewManager(nil, codec, nil, 0))
	n := doc.NewNode(document.KindEllipse, "E")

	action, err := r.Record(context.Background(), []*document.Node{n}, setFill(n, document.RGB{G: 1}), Meta{})
	require.NoError(t, err)
	raw, ok := strings.CutPrefix(action.ID, idgen.ActionPrefix)
	require.True(t, ok, action.ID)
	_, err = uuid.Parse(raw)
	assert.NoError(t, err)
}

func TestRecordSkipsNoop(t *testing.T) {
	h := newHarness(t)
	n := h.rect(t, "Rect")
	noop := func(context.Context) (Outcome, error) { return Outcome{}, nil }

	action, err := h.recorder.Record(context.Background(), []*document.Node{n}, noop, Meta{Description: "noop"})
	assert.NoError(t, err)
	assert.Nil(t, action)
	assert.Equal(t, 0, h.history.Len())
}

func TestRecordNoopWhenEnabled(t *testing.T) {
	h := newHarness(t, WithRecordNoop(true))
	n := h.rect(t, "Rect")
	noop := func(context.Context) (Outcome, error) { return Outcome{}, nil }

	action, err := h.recorder.Record(context.Background(), []*document.Node{n}, noop, Meta{Description: "noop"})
	require.NoError(t, err)
	require.NotNil(t, action)
	assert.Equal(t, 1, h.history.Len())
}

func TestRecordKeepsPartialMutation(t *testing.T) {
	h := newHarness(t)
	a := h.rect(t, "A")
	b := h.rect(t, "B")
	boom := errors.New("boom")
	mutate := func(ctx context.Context) (Outcome, error) {
		if _, err := setFill(a, document.RGB{B: 1})(ctx); err != nil {
			return Outcome{}, err
		}
		return Outcome{}, boom
	}

	action, err := h.recorder.Record(context.Background(), []*document.Node{a, b}, mutate, Meta{Description: "partial"})
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, action, "the change to A can still be undone")

	ok, err := h.history.Undo(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, a.Fills())
}

func TestRecordFailedMutationWithoutChanges(t *testing.T) {
	h := newHarness(t)
	n := h.rect(t, "Rect")
	boom := errors.New("boom")

	action, err := h.recorder.Record(context.Background(), []*document.Node{n},
		func(context.Context) (Outcome, error) { return Outcome{}, boom }, Meta{})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, action)
	assert.Equal(t, 0, h.history.Len())
}

func TestRecordNoNodes(t *testing.T) {
	h := newHarness(t)
	called := false
	_, err := h.recorder.Record(context.Background(), nil, func(context.Context) (Outcome, error) {
		called = true
		return Outcome{}, nil
	}, Meta{})
	assert.ErrorIs(t, err, ErrNoNodes)
	assert.False(t, called)
}

func TestRecordWrappedNode(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	gap := &document.Variable{ID: "v:gap", Kind: document.VariableNumber, Number: 6}
	h.doc.AddVariable(gap)
	n := h.rect(t, "Rect")

	action, err := h.recorder.Record(ctx, []*document.Node{n}, func(ctx context.Context) (Outcome, error) {
		frame, err := h.tracker.Wrap(ctx, n)
		if err != nil {
			return Outcome{}, err
		}
		if err := frame.SetBoundVariable("itemSpacing", gap); err != nil {
			return Outcome{}, err
		}
		return Outcome{Frames: map[string]*document.Node{n.ID(): frame}}, nil
	}, Meta{Description: "Bind gap", Operation: "spaceBetween"})
	require.NoError(t, err)
	require.NotNil(t, action)

	after := action.After[0]
	assert.True(t, after.FrameCreated)
	assert.Equal(t, n.ID(), after.OriginalNodeID)
	assert.Equal(t, n.Parent().ID(), after.NodeID)
	assert.Equal(t, n.ID(), action.Before[0].NodeID)
	assert.Equal(t, 1, action.FrameCount())

	_, err = h.history.Undo(ctx)
	require.NoError(t, err)
	assert.Same(t, h.doc.Root(), n.Parent())
	_, err = h.history.Redo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Rect Frame", n.Parent().Name())
}
