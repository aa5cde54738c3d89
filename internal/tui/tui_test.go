package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bethropolis/bindery/internal/binding"
	"github.com/bethropolis/bindery/internal/core"
	"github.com/bethropolis/bindery/internal/document"
	"github.com/bethropolis/bindery/internal/event"
	"github.com/bethropolis/bindery/internal/history"
	"github.com/bethropolis/bindery/internal/recorder"
	"github.com/bethropolis/bindery/internal/snapshot"
	"github.com/bethropolis/bindery/internal/structure"
	"github.com/bethropolis/bindery/internal/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkbench(t *testing.T) *core.Workbench {
	t.Helper()
	doc := document.Demo()
	codec := snapshot.NewCodec(doc)
	tracker := structure.NewTracker(doc, codec)
	events := event.NewManager()
	hist := history.NewManager(events, codec, tracker, 0)
	svc := binding.NewService(doc, recorder.New(hist), tracker, events, binding.Options{})
	return core.NewWorkbench(core.Config{Document: doc, History: hist, Service: svc, Tracker: tracker, Events: events})
}

func newScreen(t *testing.T, w, h int) (*TUI, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	ui, err := NewWithScreen(sim, theme.BinderyDark())
	require.NoError(t, err)
	t.Cleanup(ui.Close)
	sim.SetSize(w, h)
	return ui, sim
}

// rowText reads width cells of row y starting at x.
func rowText(s tcell.Screen, x, y, width int) string {
	var b strings.Builder
	for i := 0; i < width; i++ {
		r, comb, _, w := s.GetContent(x+i, y)
		b.WriteRune(r)
		for _, c := range comb {
			b.WriteRune(c)
		}
		if w > 1 {
			i += w - 1
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func TestPaneColumns(t *testing.T) {
	cols := paneColumns(100)
	assert.Equal(t, column{0, 40}, cols[0])
	assert.Equal(t, column{41, 30}, cols[1])
	assert.Equal(t, column{72, 28}, cols[2])

	narrow := paneColumns(3)
	assert.Equal(t, 3, narrow[0].width)
	assert.Zero(t, narrow[2].width)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 5))
	assert.Equal(t, "hell…", truncate("hello world", 5))
	assert.Equal(t, "日…", truncate("日本語", 4))
	assert.Equal(t, "", truncate("abc", 0))
}

func TestFormatAge(t *testing.T) {
	assert.Equal(t, "now", formatAge(200*time.Millisecond))
	assert.Equal(t, "42s", formatAge(42*time.Second))
	assert.Equal(t, "5m", formatAge(5*time.Minute+10*time.Second))
	assert.Equal(t, "3h", formatAge(3*time.Hour))
	assert.Equal(t, "2d", formatAge(49*time.Hour))
}

func TestListHeight(t *testing.T) {
	assert.Equal(t, 18, ListHeight(20))
	assert.Zero(t, ListHeight(2))
}

func TestDrawWorkbench(t *testing.T) {
	ui, sim := newScreen(t, 100, 20)
	wb := newWorkbench(t)
	th := theme.BinderyDark()

	DrawWorkbench(ui, wb, th)

	assert.Equal(t, " Nodes (5)", rowText(sim, 0, 0, 40))
	assert.Equal(t, "› ○ # Card", rowText(sim, 0, 1, 40))
	assert.Equal(t, "  ○   T Title", rowText(sim, 0, 2, 40))
	assert.Equal(t, " Variables · fill", rowText(sim, 41, 0, 30))
	assert.Equal(t, "› ■ brand/primary  #3b82f6", rowText(sim, 41, 1, 30))
	assert.Equal(t, " History 0/50", rowText(sim, 72, 0, 28))
	assert.Equal(t, "› ▶ ◦ Initial state", rowText(sim, 72, 1, 28))

	r, _, _, _ := sim.GetContent(40, 5)
	assert.Equal(t, '│', r)

	// The focused pane's cursor row uses the cursor style.
	_, _, style, _ := sim.GetContent(0, 1)
	assert.Equal(t, th.GetStyle("Cursor"), style)

	_, height := wb.Cursor(core.PaneNodes).Viewport()
	assert.Equal(t, 18, height)
}

func TestDrawWorkbenchAfterApply(t *testing.T) {
	ui, sim := newScreen(t, 100, 20)
	wb := newWorkbench(t)
	th := theme.BinderyDark()

	wb.MoveCursor(2) // Button
	require.True(t, wb.ToggleSelect())
	_, err := wb.ApplyVariable(context.Background(), "VariableID:1:1")
	require.NoError(t, err)

	DrawWorkbench(ui, wb, th)

	assert.Equal(t, " Nodes (1 selected)", rowText(sim, 0, 0, 40))
	assert.Equal(t, "› ●   ▭ Button [1]", rowText(sim, 0, 3, 40))
	assert.Equal(t, " History 1/50", rowText(sim, 72, 0, 28))
	assert.True(t, strings.HasPrefix(rowText(sim, 72, 2, 28), "› ▶ ◼ Bind brand/primary"))
}

func TestDrawFilteredVariables(t *testing.T) {
	ui, sim := newScreen(t, 100, 20)
	wb := newWorkbench(t)

	wb.SetFilter("brand")
	DrawWorkbench(ui, wb, theme.BinderyDark())

	assert.Equal(t, " Variables · fill /brand", rowText(sim, 41, 0, 30))
	assert.Equal(t, "› ■ brand/primary  #3b82f6", rowText(sim, 41, 1, 30))
	assert.Equal(t, "  ■ brand/danger  #ef4444", rowText(sim, 41, 2, 30))
	assert.Empty(t, rowText(sim, 41, 3, 30))
}

func TestVariableLine(t *testing.T) {
	doc := document.Demo()
	ctx := context.Background()
	doc.AddVariable(&document.Variable{
		ID: "sem:link", Name: "semantic/link", Kind: document.VariableColor,
		Scopes: []document.Scope{document.ScopeAll}, AliasOf: "VariableID:1:2",
	})
	doc.AddVariable(&document.Variable{
		ID: "sem:broken", Name: "semantic/broken", Kind: document.VariableColor,
		Scopes: []document.Scope{document.ScopeAll}, AliasOf: "missing",
	})

	line := func(id string) string {
		v, err := doc.VariableByID(ctx, id)
		require.NoError(t, err)
		return variableLine(doc, v)
	}
	assert.Equal(t, "■ brand/primary  #3b82f6", line("VariableID:1:1"))
	assert.Equal(t, "■ semantic/link  → brand/danger #ef4444", line("sem:link"))
	assert.Equal(t, "■ semantic/broken  → missing ?", line("sem:broken"))
	assert.Equal(t, "± border/thin  1 (Core UI)", line("VariableID:2:3"))
}

func TestNodeStyle(t *testing.T) {
	th := theme.BinderyDark()
	doc := document.Demo()
	card, err := doc.NodeByID(context.Background(), "1:1")
	require.NoError(t, err)
	title, err := doc.NodeByID(context.Background(), "1:2")
	require.NoError(t, err)

	assert.Equal(t, th.GetStyle("Selected"), nodeStyle(card, true, th))
	assert.Equal(t, th.GetStyle("Node.frame"), nodeStyle(card, false, th))
	assert.Equal(t, th.GetStyle("Node.text"), nodeStyle(title, false, th))
}

func TestHistoryStyle(t *testing.T) {
	th := theme.BinderyDark()
	a := history.Action{Description: "x"}
	assert.Equal(t, th.GetStyle("History.undone"), historyStyle(a, 2, 1, th))
	assert.Equal(t, th.GetStyle("History.current"), historyStyle(a, 1, 1, th))
	assert.Equal(t, th.GetStyle("History"), historyStyle(a, 0, 1, th))
}

func TestActionIcon(t *testing.T) {
	assert.Equal(t, "◼", actionIcon(history.Action{Operation: "fill"}))
	assert.Equal(t, "↔", actionIcon(history.Action{Operation: "spaceBetween"}))
	assert.Equal(t, "§", actionIcon(history.Action{Kind: history.KindApplyStyle, Operation: "fill"}))
}
