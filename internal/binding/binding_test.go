package binding

import (
	"context"
	"testing"

	"github.com/bethropolis/bindery/internal/document"
	"github.com/bethropolis/bindery/internal/event"
	"github.com/bethropolis/bindery/internal/history"
	"github.com/bethropolis/bindery/internal/idgen"
	"github.com/bethropolis/bindery/internal/recorder"
	"github.com/bethropolis/bindery/internal/snapshot"
	"github.com/bethropolis/bindery/internal/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	doc     *document.Document
	events  *event.Manager
	history *history.Manager
	service *Service
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	doc := document.Demo()
	codec := snapshot.NewCodec(doc)
	tracker := structure.NewTracker(doc, codec)
	events := event.NewManager()
	h := history.NewManager(events, codec, tracker, 0)
	rec := recorder.New(h, recorder.WithIDGenerator(idgen.Sequence("act_")))
	return &harness{
		doc:     doc,
		events:  events,
		history: h,
		service: NewService(doc, rec, tracker, events, opts),
	}
}

func (h *harness) node(t *testing.T, id string) *document.Node {
	t.Helper()
	n, err := h.doc.NodeByID(context.Background(), id)
	require.NoError(t, err)
	return n
}

func TestValidScope(t *testing.T) {
	doc := document.New("Test")
	frame := doc.NewNode(document.KindFrame, "Frame")
	rect := doc.NewNode(document.KindRectangle, "Rect")
	text := doc.NewNode(document.KindText, "Text")
	vector := doc.NewNode(document.KindVector, "Vector")
	group := doc.NewNode(document.KindGroup, "Group")

	v := func(scopes ...document.Scope) *document.Variable {
		return &document.Variable{ID: "v", Scopes: scopes}
	}
	tests := []struct {
		name string
		v    *document.Variable
		op   Operation
		n    *document.Node
		want bool
	}{
		{"all scopes", v(document.ScopeAll), OpFill, group, true},
		{"all fills on vector", v(document.ScopeAllFills), OpFill, vector, true},
		{"frame fill on frame", v(document.ScopeFrameFill), OpFill, frame, true},
		{"frame fill on rect", v(document.ScopeFrameFill), OpFill, rect, false},
		{"shape fill on rect", v(document.ScopeShapeFill), OpFill, rect, true},
		{"shape fill on vector", v(document.ScopeShapeFill), OpFill, vector, false},
		{"text fill on text", v(document.ScopeTextFill), OpFill, text, true},
		{"fill on group", v(document.ScopeAllFills), OpFill, group, false},
		{"stroke color", v(document.ScopeStrokeColor), OpStroke, rect, true},
		{"stroke with fill scope", v(document.ScopeAllFills), OpStroke, rect, false},
		{"gap for spacing", v(document.ScopeGap), OpSpaceBetween, frame, true},
		{"gap for padding", v(document.ScopeGap), OpPaddingGeneral, frame, true},
		{"radius", v(document.ScopeCornerRadius), OpBorderRadius, rect, true},
		{"radius for spacing", v(document.ScopeCornerRadius), OpSpaceBetween, frame, false},
		{"stroke float", v(document.ScopeStrokeFloat), OpStrokeWidth, rect, true},
		{"width height", v(document.ScopeWidthHeight), OpStrokeWidth, rect, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidScope(tt.v, tt.op, tt.n))
		})
	}
}

func TestParseOperation(t *testing.T) {
	op, ok := ParseOperation("SPACEBETWEEN")
	assert.True(t, ok)
	assert.Equal(t, OpSpaceBetween, op)
	_, ok = ParseOperation("opacity")
	assert.False(t, ok)

	assert.Equal(t, []Operation{OpFill, OpStroke}, OperationsFor(document.VariableColor))
	assert.Len(t, OperationsFor(document.VariableNumber), 6)
}

func TestApplyColorFill(t *testing.T) {
	h := newHarness(t, Options{})
	ctx := context.Background()

	res, err := h.service.ApplyVariable(ctx, []string{"1:1", "2:1"}, "VariableID:1:1", OpFill)
	require.NoError(t, err)
	require.NotNil(t, res.Action)
	assert.Equal(t, "Bind brand/primary to fill (2 nodes)", res.Action.Description)
	assert.Equal(t, res.Action.Description, res.Message)
	assert.Equal(t, []string{"1:1", "2:1"}, res.Applied)
	assert.Equal(t, "VariableID:1:1", res.Action.VariableID)
	assert.Equal(t, document.VariableColor, res.Action.VariableKind)

	card := h.node(t, "1:1")
	fill := card.Fills()[0]
	assert.Equal(t, "VariableID:1:1", fill.BoundVariables["color"].ID)
	assert.Equal(t, "#3b82f6", fill.Color.Hex())

	ok, err := h.history.Undo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, card.Fills()[0].BoundVariables)
	assert.Equal(t, "#ffffff", card.Fills()[0].Color.Hex())
}

func TestApplyColorCreatesPaint(t *testing.T) {
	h := newHarness(t, Options{})
	toolbar := h.node(t, "3:1")
	require.Empty(t, toolbar.Strokes())

	_, err := h.service.ApplyVariable(context.Background(), []string{"3:1"}, "VariableID:1:2", OpStroke)
	require.NoError(t, err)
	strokes := toolbar.Strokes()
	require.Len(t, strokes, 1)
	assert.Equal(t, document.PaintSolid, strokes[0].Type)
	assert.Equal(t, "#ef4444", strokes[0].Color.Hex())
	assert.Equal(t, "VariableID:1:2", strokes[0].BoundVariables["color"].ID)
}

func TestApplyAliasUsesResolvedColor(t *testing.T) {
	h := newHarness(t, Options{})
	ctx := context.Background()
	h.doc.AddVariable(&document.Variable{
		ID: "sem:link", Name: "semantic/link", Kind: document.VariableColor,
		Scopes: []document.Scope{document.ScopeAll}, AliasOf: "VariableID:1:2",
	})

	_, err := h.service.ApplyVariable(ctx, []string{"2:1"}, "sem:link", OpFill)
	require.NoError(t, err)
	fill := h.node(t, "2:1").Fills()[0]
	assert.Equal(t, "sem:link", fill.BoundVariables["color"].ID, "the alias itself is bound")
	assert.Equal(t, "#ef4444", fill.Color.Hex())

	h.doc.AddVariable(&document.Variable{
		ID: "sem:broken", Name: "semantic/broken", Kind: document.VariableColor,
		Scopes: []document.Scope{document.ScopeAll}, AliasOf: "missing",
	})
	_, err = h.service.ApplyVariable(ctx, []string{"2:1"}, "sem:broken", OpFill)
	assert.ErrorIs(t, err, document.ErrVariableNotFound)
	assert.Equal(t, 1, h.history.Len())
}

func TestApplyScopeLimitation(t *testing.T) {
	h := newHarness(t, Options{})
	// text/muted only allows TEXT_FILL.
	res, err := h.service.ApplyVariable(context.Background(), []string{"1:1", "1:2"}, "VariableID:1:3", OpFill)
	require.NoError(t, err)
	assert.Equal(t, []string{"1:2"}, res.Applied)
	assert.Equal(t, "scope limitation", res.Skipped["1:1"])
	assert.Contains(t, res.Message, "(1 skipped)")

	res, err = h.service.ApplyVariable(context.Background(), []string{"1:1"}, "VariableID:1:3", OpFill)
	assert.ErrorIs(t, err, ErrNotApplicable)
	assert.Equal(t, "Scope limitation", res.Message)
	assert.Equal(t, 1, h.history.Len())
}

func TestApplyErrors(t *testing.T) {
	h := newHarness(t, Options{})
	ctx := context.Background()

	_, err := h.service.ApplyVariable(ctx, nil, "VariableID:1:1", OpFill)
	assert.ErrorIs(t, err, ErrNothingSelected)

	_, err = h.service.ApplyVariable(ctx, []string{"1:1"}, "VariableID:9:9", OpFill)
	assert.ErrorIs(t, err, document.ErrVariableNotFound)

	_, err = h.service.ApplyVariable(ctx, []string{"1:1"}, "VariableID:1:1", OpSpaceBetween)
	assert.ErrorIs(t, err, ErrKindMismatch)

	res, err := h.service.ApplyVariable(ctx, []string{"9:9"}, "VariableID:1:1", OpFill)
	assert.ErrorIs(t, err, ErrNotApplicable)
	assert.Equal(t, "node not found", res.Skipped["9:9"])

	_, err = h.service.ApplyStyle(ctx, []string{"1:1"}, "S:missing", OpFill)
	assert.ErrorIs(t, err, document.ErrStyleNotFound)
	_, err = h.service.ApplyStyle(ctx, []string{"1:1"}, "S:surface", OpBorderRadius)
	assert.ErrorIs(t, err, ErrKindMismatch)

	assert.Equal(t, 0, h.history.Len())
}

func TestApplySpacingOnAutoLayoutFrame(t *testing.T) {
	h := newHarness(t, Options{})
	ctx := context.Background()
	card := h.node(t, "1:1")

	res, err := h.service.ApplyVariable(ctx, []string{"1:1"}, "VariableID:2:1", OpSpaceBetween)
	require.NoError(t, err)
	assert.Empty(t, res.Warning)
	assert.Equal(t, 16.0, card.Layout().ItemSpacing)
	assert.Equal(t, []string{"itemSpacing"}, card.BoundFields())

	res, err = h.service.ApplyVariable(ctx, []string{"1:1"}, "VariableID:2:1", OpPaddingVertical)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Warning, "GAP scope used for padding")
	assert.Equal(t, 16.0, card.Layout().PaddingTop)
	assert.Equal(t, 12.0, card.Layout().PaddingLeft)
	assert.Equal(t, []string{"itemSpacing", "paddingBottom", "paddingTop"}, card.BoundFields())
}

func TestApplySpacingWithoutAutoLayout(t *testing.T) {
	h := newHarness(t, Options{})
	res, err := h.service.ApplyVariable(context.Background(), []string{"3:1", "2:1"}, "VariableID:2:1", OpSpaceBetween)
	assert.ErrorIs(t, err, ErrNotApplicable)
	assert.Equal(t, "Auto Layout required for spacing", res.Skipped["3:1"])
	assert.Equal(t, "must be an Auto Layout frame for spacing", res.Skipped["2:1"])
}

func TestApplySpacingAutoWrap(t *testing.T) {
	h := newHarness(t, Options{AutoWrap: true})
	ctx := context.Background()
	badge := h.node(t, "2:1")
	root := h.doc.Root()
	index := badge.Index()

	res, err := h.service.ApplyVariable(ctx, []string{"2:1"}, "VariableID:2:1", OpSpaceBetween)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Wrapped)
	assert.Contains(t, res.Message, "wrapped 1 in Auto Layout")

	frame := badge.Parent()
	assert.Equal(t, "Badge Frame", frame.Name())
	assert.Equal(t, index, frame.Index())
	assert.Equal(t, 16.0, frame.Layout().ItemSpacing)
	assert.True(t, res.Action.After[0].FrameCreated)

	_, err = h.history.Undo(ctx)
	require.NoError(t, err)
	assert.Same(t, root, badge.Parent())
	assert.Equal(t, index, badge.Index())
	x, y := badge.Position()
	assert.Equal(t, [2]float64{400, 40}, [2]float64{x, y})

	_, err = h.history.Redo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Badge Frame", badge.Parent().Name())
	assert.Equal(t, []string{"itemSpacing"}, badge.Parent().BoundFields())
}

func TestApplyBorderRadiusAndStrokeWidth(t *testing.T) {
	h := newHarness(t, Options{})
	ctx := context.Background()
	button := h.node(t, "1:3")

	_, err := h.service.ApplyVariable(ctx, []string{"1:3"}, "VariableID:2:2", OpBorderRadius)
	require.NoError(t, err)
	assert.Equal(t, document.CornerRadii{TopLeft: 12, TopRight: 12, BottomLeft: 12, BottomRight: 12}, button.CornerRadii())

	_, err = h.service.ApplyVariable(ctx, []string{"1:3", "2:1"}, "VariableID:2:3", OpStrokeWidth)
	require.NoError(t, err)
	require.Len(t, button.Strokes(), 1)
	assert.True(t, button.Strokes()[0].Visible)
	assert.Len(t, button.BoundFields(), 9)

	badge := h.node(t, "2:1")
	assert.Equal(t, []string{"strokeWeight"}, badge.BoundFields())

	_, err = h.history.Undo(ctx)
	require.NoError(t, err)
	assert.Empty(t, button.Strokes())
	assert.Len(t, button.BoundFields(), 4)
	assert.Empty(t, badge.BoundFields())
}

func TestApplyRadiusSkipsUnsupported(t *testing.T) {
	h := newHarness(t, Options{})
	res, err := h.service.ApplyVariable(context.Background(), []string{"1:2"}, "VariableID:2:2", OpBorderRadius)
	assert.ErrorIs(t, err, ErrNotApplicable)
	assert.Equal(t, "does not support corner radius", res.Skipped["1:2"])
}

func TestApplyNoopIsNotRecorded(t *testing.T) {
	h := newHarness(t, Options{})
	ctx := context.Background()
	_, err := h.service.ApplyVariable(ctx, []string{"1:1"}, "VariableID:1:1", OpFill)
	require.NoError(t, err)

	res, err := h.service.ApplyVariable(ctx, []string{"1:1"}, "VariableID:1:1", OpFill)
	require.NoError(t, err)
	assert.Nil(t, res.Action)
	assert.Contains(t, res.Message, "Nothing changed")
	assert.Equal(t, 1, h.history.Len())
}

func TestApplyStyle(t *testing.T) {
	h := newHarness(t, Options{})
	ctx := context.Background()
	var modified []string
	h.events.Subscribe(event.TypeDocumentModified, func(e event.Event) bool {
		modified = e.Data.(event.DocumentModifiedData).NodeIDs
		return false
	})

	res, err := h.service.ApplyStyle(ctx, []string{"1:3"}, "S:surface", OpFill)
	require.NoError(t, err)
	require.NotNil(t, res.Action)
	assert.Equal(t, history.KindApplyStyle, res.Action.Kind)
	assert.Equal(t, "Apply style Surface to fill", res.Action.Description)
	assert.Equal(t, "#f8fafc", h.node(t, "1:3").Fills()[0].Color.Hex())
	assert.Equal(t, []string{"1:3"}, modified)

	_, err = h.service.ApplyStyle(ctx, []string{"1:3"}, "S:surface", OpStroke)
	require.NoError(t, err)
	assert.Equal(t, "#f8fafc", h.node(t, "1:3").Strokes()[0].Color.Hex())
	assert.Equal(t, 2, h.history.Len())
}
