package document

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentHasPage(t *testing.T) {
	doc := New("Test")
	assert.Equal(t, "Test", doc.Name())
	require.NotNil(t, doc.Root())
	assert.Equal(t, KindPage, doc.Root().Kind())
	assert.Equal(t, 0, doc.NodeCount())

	n, err := doc.NodeByID(context.Background(), doc.Root().ID())
	require.NoError(t, err)
	assert.Same(t, doc.Root(), n)
}

func TestNodeByIDNotFound(t *testing.T) {
	doc := New("Test")
	_, err := doc.NodeByID(context.Background(), "9:9")
	assert.ErrorIs(t, err, ErrNodeNotFound)

	_, err = doc.VariableByID(context.Background(), "VariableID:0")
	assert.ErrorIs(t, err, ErrVariableNotFound)

	_, err = doc.StyleByID(context.Background(), "S:0")
	assert.ErrorIs(t, err, ErrStyleNotFound)
}

func TestLookupHonoursCancelledContext(t *testing.T) {
	doc := New("Test")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := doc.NodeByID(ctx, doc.Root().ID())
	assert.ErrorIs(t, err, context.Canceled)
	_, err = doc.CreateFrame(ctx, "Frame")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInsertChildClampsIndex(t *testing.T) {
	doc := New("Test")
	page := doc.Root()
	a := doc.NewNode(KindRectangle, "A")
	b := doc.NewNode(KindRectangle, "B")
	c := doc.NewNode(KindRectangle, "C")

	require.NoError(t, doc.AppendChild(page, a))
	require.NoError(t, doc.InsertChild(page, 99, b))
	require.NoError(t, doc.InsertChild(page, -3, c))

	assert.Equal(t, []*Node{c, a, b}, page.Children())
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, 2, b.Index())
	assert.Same(t, page, a.Parent())
}

func TestInsertChildMovesBetweenParents(t *testing.T) {
	doc := New("Test")
	frame, err := doc.CreateFrame(context.Background(), "Frame")
	require.NoError(t, err)
	rect := doc.NewNode(KindRectangle, "Rect")
	require.NoError(t, doc.AppendChild(doc.Root(), rect))

	require.NoError(t, doc.AppendChild(frame, rect))
	assert.Equal(t, []*Node{frame}, doc.Root().Children())
	assert.Equal(t, []*Node{rect}, frame.Children())
	assert.Same(t, frame, rect.Parent())
}

func TestInsertChildRejectsInvalidTargets(t *testing.T) {
	doc := New("Test")
	outer, err := doc.CreateFrame(context.Background(), "Outer")
	require.NoError(t, err)
	inner := doc.NewNode(KindFrame, "Inner")
	require.NoError(t, doc.AppendChild(outer, inner))

	err = doc.AppendChild(inner, outer)
	assert.Error(t, err, "a node cannot move into its own descendant")

	rect := doc.NewNode(KindRectangle, "Rect")
	ellipse := doc.NewNode(KindEllipse, "Ellipse")
	assert.ErrorIs(t, doc.AppendChild(rect, ellipse), ErrUnsupported)
}

func TestRemoveUnregistersSubtree(t *testing.T) {
	ctx := context.Background()
	doc := New("Test")
	frame, err := doc.CreateFrame(ctx, "Frame")
	require.NoError(t, err)
	rect := doc.NewNode(KindRectangle, "Rect")
	require.NoError(t, doc.AppendChild(frame, rect))
	assert.Equal(t, 2, doc.NodeCount())

	require.NoError(t, doc.Remove(frame))
	assert.True(t, frame.Removed())
	assert.True(t, rect.Removed())
	assert.Equal(t, 0, doc.NodeCount())
	assert.Empty(t, doc.Root().Children())

	_, err = doc.NodeByID(ctx, rect.ID())
	assert.ErrorIs(t, err, ErrNodeNotFound)
	assert.ErrorIs(t, doc.Remove(frame), ErrNodeNotFound)
	assert.ErrorIs(t, doc.AppendChild(doc.Root(), rect), ErrNodeNotFound)
	assert.ErrorIs(t, doc.Remove(doc.Root()), ErrUnsupported)
}

func TestCreateFrameGetsFreshIDs(t *testing.T) {
	doc := New("Test")
	a, err := doc.CreateFrame(context.Background(), "A")
	require.NoError(t, err)
	b, err := doc.CreateFrame(context.Background(), "B")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, []*Node{a, b}, doc.Root().Children())
}

func TestCreateFrameWithIDReusesRemovedID(t *testing.T) {
	ctx := context.Background()
	doc := New("Test")
	a, err := doc.CreateFrame(ctx, "A")
	require.NoError(t, err)
	id := a.ID()

	_, err = doc.CreateFrameWithID(ctx, id, "Again")
	assert.ErrorIs(t, err, ErrNodeExists)

	require.NoError(t, doc.Remove(a))
	again, err := doc.CreateFrameWithID(ctx, id, "Again")
	require.NoError(t, err)
	assert.Equal(t, id, again.ID())
	found, err := doc.NodeByID(ctx, id)
	require.NoError(t, err)
	assert.Same(t, again, found)

	fresh, err := doc.CreateFrame(ctx, "Fresh")
	require.NoError(t, err)
	assert.NotEqual(t, id, fresh.ID())
}

func TestWalkSkipsSubtree(t *testing.T) {
	doc := Demo()

	var all []string
	doc.Walk(func(n *Node, depth int) bool {
		all = append(all, n.Name())
		return true
	})
	assert.Equal(t, []string{"Card", "Title", "Button", "Badge", "Toolbar"}, all)

	var top []string
	doc.Walk(func(n *Node, depth int) bool {
		top = append(top, n.Name())
		return false
	})
	assert.Equal(t, []string{"Card", "Badge", "Toolbar"}, top)
}

func TestVariablesKeepInsertionOrder(t *testing.T) {
	doc := New("Test")
	doc.AddVariable(&Variable{ID: "b", Kind: VariableNumber})
	doc.AddVariable(&Variable{ID: "a", Kind: VariableNumber})
	doc.AddVariable(&Variable{ID: "b", Kind: VariableNumber, Number: 4})

	vars := doc.Variables()
	require.Len(t, vars, 2)
	assert.Equal(t, "b", vars[0].ID)
	assert.Equal(t, 4.0, vars[0].Number)

	doc.RemoveVariable("b")
	doc.RemoveVariable("missing")
	vars = doc.Variables()
	require.Len(t, vars, 1)
	assert.Equal(t, "a", vars[0].ID)
}

func TestSetterCapabilities(t *testing.T) {
	doc := New("Test")
	group := doc.NewNode(KindGroup, "Group")
	line := doc.NewNode(KindLine, "Line")
	frame := doc.NewNode(KindFrame, "Frame")

	assert.ErrorIs(t, group.SetFills(nil), ErrUnsupported)
	assert.ErrorIs(t, line.SetFills(nil), ErrUnsupported)
	assert.NoError(t, line.SetStrokeWeight(2))
	assert.ErrorIs(t, line.SetCornerRadii(CornerRadii{}), ErrUnsupported)

	require.NoError(t, frame.SetFills(nil))
	assert.NotNil(t, frame.Fills(), "nil fills normalise to an empty list")
	require.NoError(t, frame.SetLayout(Layout{ItemSpacing: 4}))
	assert.Equal(t, LayoutNone, frame.Layout().Mode)
}

func TestSetBoundVariable(t *testing.T) {
	doc := New("Test")
	frame := doc.NewNode(KindFrame, "Frame")
	gap := &Variable{ID: "v:gap", Kind: VariableNumber, Number: 24}
	red := &Variable{ID: "v:red", Kind: VariableColor}

	require.NoError(t, frame.SetBoundVariable("itemSpacing", gap))
	assert.Equal(t, 24.0, frame.Layout().ItemSpacing)
	assert.Equal(t, map[string]VariableAlias{"itemSpacing": {ID: "v:gap"}}, frame.BoundVariables())

	require.NoError(t, frame.SetBoundVariable("topLeftRadius", gap))
	assert.Equal(t, []string{"itemSpacing", "topLeftRadius"}, frame.BoundFields())

	require.NoError(t, frame.SetBoundVariable("itemSpacing", nil))
	assert.Equal(t, []string{"topLeftRadius"}, frame.BoundFields())
	assert.Equal(t, 24.0, frame.Layout().ItemSpacing, "clearing keeps the resolved value")

	assert.Error(t, frame.SetBoundVariable("paddingTop", red))
	assert.ErrorIs(t, frame.SetBoundVariable("opacity", gap), ErrUnsupported)

	ellipse := doc.NewNode(KindEllipse, "Ellipse")
	assert.ErrorIs(t, ellipse.SetBoundVariable("itemSpacing", gap), ErrUnsupported)
	assert.Equal(t, []string{"strokeWeight"}, ellipse.BindableFields())
}

func TestBoundVariablesReturnsCopy(t *testing.T) {
	doc := New("Test")
	rect := doc.NewNode(KindRectangle, "Rect")
	require.NoError(t, rect.SetBoundVariable("strokeWeight", &Variable{ID: "v", Kind: VariableNumber, Number: 2}))

	bound := rect.BoundVariables()
	delete(bound, "strokeWeight")
	assert.Equal(t, []string{"strokeWeight"}, rect.BoundFields())
}

func TestBindingCountIncludesPaints(t *testing.T) {
	doc := New("Test")
	rect := doc.NewNode(KindRectangle, "Rect")
	assert.Zero(t, rect.BindingCount())

	red := &Variable{ID: "v:red", Kind: VariableColor, Color: RGB{R: 1}}
	require.NoError(t, rect.SetFills([]Paint{SolidPaint(RGB{}).WithBoundVariable("color", red), SolidPaint(RGB{})}))
	require.NoError(t, rect.SetBoundVariable("strokeWeight", &Variable{ID: "v:w", Kind: VariableNumber, Number: 1}))
	assert.Equal(t, 2, rect.BindingCount())
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "#ff0000", want: "#ff0000"},
		{in: "00ff00", want: "#00ff00"},
		{in: "#abc", want: "#aabbcc"},
		{in: " #3B82F6 ", want: "#3b82f6"},
		{in: "#12345", wantErr: true},
		{in: "#gggggg", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseHex(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Hex())
		})
	}
}

func TestPaintCloneIsDeep(t *testing.T) {
	v := &Variable{ID: "v:red", Kind: VariableColor, Color: RGB{R: 1}}
	p := SolidPaint(RGB{}).WithBoundVariable("color", v)
	assert.Equal(t, RGB{R: 1}, p.Color)

	clone := p.Clone()
	clone.BoundVariables["color"] = VariableAlias{ID: "other"}
	assert.Equal(t, "v:red", p.BoundVariables["color"].ID)

	assert.Nil(t, ClonePaints(nil))
}

func TestKindCapabilities(t *testing.T) {
	assert.True(t, KindFrame.Capabilities().Has(HasAutoLayout|HasChildren|HasCornerRadius))
	assert.False(t, KindRectangle.Capabilities().Has(HasAutoLayout))
	assert.False(t, KindLine.Capabilities().Has(HasFills))
	assert.Equal(t, "children", KindGroup.Capabilities().String())
	assert.Equal(t, "none", Capability(0).String())

	k, ok := ParseKind(" rectangle ")
	assert.True(t, ok)
	assert.Equal(t, KindRectangle, k)
	_, ok = ParseKind("slice")
	assert.False(t, ok)
}

func TestResolveColor(t *testing.T) {
	ctx := context.Background()
	doc := New("Test")
	base := &Variable{ID: "base", Kind: VariableColor, Color: RGB{G: 1}}
	mid := &Variable{ID: "mid", Kind: VariableColor, AliasOf: "base"}
	top := &Variable{ID: "top", Kind: VariableColor, AliasOf: "mid"}
	gap := &Variable{ID: "gap", Kind: VariableNumber, Number: 4}
	for _, v := range []*Variable{base, mid, top, gap} {
		doc.AddVariable(v)
	}

	c, err := doc.ResolveColor(ctx, top)
	require.NoError(t, err)
	assert.Equal(t, RGB{G: 1}, c)
	c, err = doc.ResolveColor(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, RGB{G: 1}, c)

	bad := &Variable{ID: "bad", Kind: VariableColor, AliasOf: "gap"}
	_, err = doc.ResolveColor(ctx, bad)
	assert.ErrorContains(t, err, "number variable gap")

	base.AliasOf = "top"
	_, err = doc.ResolveColor(ctx, top)
	assert.ErrorIs(t, err, ErrAliasCycle)

	doc.RemoveVariable("base")
	_, err = doc.ResolveColor(ctx, mid)
	assert.ErrorIs(t, err, ErrVariableNotFound)
}

func TestSyncLibrary(t *testing.T) {
	ctx := context.Background()
	doc := Demo()
	src := New("Fresh")
	src.AddVariable(&Variable{ID: "VariableID:2:1", Name: "space/lg", Kind: VariableNumber, Number: 24})
	src.AddVariable(&Variable{ID: "new", Name: "new", Kind: VariableNumber})
	src.AddStyle(&PaintStyle{ID: "S:ink", Name: "Ink"})

	ch := doc.SyncLibrary(src)
	assert.Equal(t, LibraryChanges{Added: 1, Updated: 1, Removed: 5, Styles: 1}, ch)

	var names []string
	for _, v := range doc.Variables() {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"space/lg", "new"}, names)
	_, err := doc.VariableByID(ctx, "VariableID:1:1")
	assert.ErrorIs(t, err, ErrVariableNotFound)

	_, err = doc.StyleByID(ctx, "S:surface")
	assert.ErrorIs(t, err, ErrStyleNotFound)
	require.Len(t, doc.Styles(), 1)
	assert.Equal(t, "Ink", doc.Styles()[0].Name)
	assert.Equal(t, 5, doc.NodeCount(), "nodes are untouched")
}
