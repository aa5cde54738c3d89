// internal/tui/drawing.go
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bethropolis/bindery/internal/binding"
	"github.com/bethropolis/bindery/internal/core"
	"github.com/bethropolis/bindery/internal/document"
	"github.com/bethropolis/bindery/internal/history"
	"github.com/bethropolis/bindery/internal/logger"
	"github.com/bethropolis/bindery/internal/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// column is the horizontal extent of one pane.
type column struct {
	x, width int
}

// paneColumns splits width into the nodes, variables and history panes with a one-cell
// separator between them.
func paneColumns(width int) [3]column {
	if width < 5 {
		return [3]column{{0, width}, {width, 0}, {width, 0}}
	}
	nodes := width * 2 / 5
	vars := width * 3 / 10
	hist := width - nodes - vars - 2
	return [3]column{
		{0, nodes},
		{nodes + 1, vars},
		{nodes + vars + 2, hist},
	}
}

// ListHeight is the number of list rows each pane shows on a screen of the given height.
// One row goes to the pane titles and one to the status bar.
func ListHeight(screenHeight int) int {
	if screenHeight < 3 {
		return 0
	}
	return screenHeight - 2
}

// drawText draws s at (x, y) clipped to maxWidth cells, ending in an ellipsis when cut.
// It returns the number of cells used.
func drawText(screen tcell.Screen, x, y, maxWidth int, s string, style tcell.Style) int {
	if maxWidth <= 0 {
		return 0
	}
	clipped := s
	if uniseg.StringWidth(s) > maxWidth {
		clipped = truncate(s, maxWidth)
	}

	used := 0
	gr := uniseg.NewGraphemes(clipped)
	for gr.Next() {
		runes := gr.Runes()
		w := gr.Width()
		if used+w > maxWidth {
			break
		}
		var comb []rune
		if len(runes) > 1 {
			comb = runes[1:]
		}
		screen.SetContent(x+used, y, runes[0], comb, style)
		used += w
	}
	return used
}

// truncate cuts s to at most width cells, the last of which is "…".
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		w := gr.Width()
		if used+w > width-1 {
			break
		}
		b.WriteString(gr.Str())
		used += w
	}
	b.WriteString("…")
	return b.String()
}

func fill(screen tcell.Screen, col column, y int, style tcell.Style) {
	for x := col.x; x < col.x+col.width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
}

// DrawWorkbench draws the three panes into the screen area above the status bar and
// sizes the pane viewports to match.
func DrawWorkbench(tuiManager *TUI, wb *core.Workbench, activeTheme *theme.Theme) {
	if activeTheme == nil {
		logger.Warnf("DrawWorkbench called with nil theme, using built-in default.")
		activeTheme = theme.BinderyDark()
	}
	screen := tuiManager.GetScreen()
	width, height := screen.Size()
	listHeight := ListHeight(height)
	if listHeight <= 0 || width <= 0 {
		return
	}

	cols := paneColumns(width)
	border := activeTheme.GetStyle("PaneBorder")
	for _, col := range cols[:2] {
		sepX := col.x + col.width
		for y := 0; y <= listHeight; y++ {
			screen.SetContent(sepX, y, '│', nil, border)
		}
	}

	for _, p := range []core.Pane{core.PaneNodes, core.PaneVariables, core.PaneHistory} {
		wb.SetViewHeight(p, listHeight)
	}

	drawNodes(screen, cols[0], listHeight, wb, activeTheme)
	drawVariables(screen, cols[1], listHeight, wb, activeTheme)
	drawHistory(screen, cols[2], listHeight, wb, activeTheme)
}

func drawTitle(screen tcell.Screen, col column, title string, active bool, th *theme.Theme) {
	style := th.GetStyle("PaneTitle")
	if active {
		style = th.GetStyle("PaneTitleActive")
	}
	fill(screen, col, 0, th.GetStyle("Default"))
	drawText(screen, col.x, 0, col.width, " "+title, style)
}

// drawList draws the visible rows of one pane. row returns the text and style of a row.
func drawList(screen tcell.Screen, col column, listHeight int, wb *core.Workbench, p core.Pane,
	th *theme.Theme, row func(i int) (string, tcell.Style)) {
	c := wb.Cursor(p)
	top, _ := c.Viewport()
	focused := wb.Pane() == p
	def := th.GetStyle("Default")

	for i := 0; i < listHeight; i++ {
		y := i + 1
		fill(screen, col, y, def)
		idx := top + i
		if idx >= c.Count() {
			continue
		}
		text, style := row(idx)
		marker := "  "
		if idx == c.Position() {
			marker = "› "
			if focused {
				style = th.GetStyle("Cursor")
				fill(screen, col, y, style)
			}
		}
		drawText(screen, col.x, y, col.width, marker+text, style)
	}
}

func drawNodes(screen tcell.Screen, col column, listHeight int, wb *core.Workbench, th *theme.Theme) {
	rows := wb.NodeRows()
	title := fmt.Sprintf("Nodes (%d)", len(rows))
	if n := len(wb.SelectedIDs()); n > 0 {
		title = fmt.Sprintf("Nodes (%d selected)", n)
	}
	drawTitle(screen, col, title, wb.Pane() == core.PaneNodes, th)

	drawList(screen, col, listHeight, wb, core.PaneNodes, th, func(i int) (string, tcell.Style) {
		r := rows[i]
		return nodeLine(r, wb.IsSelected(r.Node.ID())), nodeStyle(r.Node, wb.IsSelected(r.Node.ID()), th)
	})
}

func nodeLine(r core.NodeRow, selected bool) string {
	mark := "○"
	if selected {
		mark = "●"
	}
	line := mark + " " + strings.Repeat("  ", r.Depth) + kindIcon(r.Node.Kind()) + " " + r.Node.Name()
	if n := r.Node.BindingCount(); n > 0 {
		line += fmt.Sprintf(" [%d]", n)
	}
	return line
}

func nodeStyle(n *document.Node, selected bool, th *theme.Theme) tcell.Style {
	switch {
	case selected:
		return th.GetStyle("Selected")
	case n.BindingCount() > 0:
		return th.GetStyle("Node.bound")
	case n.Kind() == document.KindFrame:
		return th.GetStyle("Node.frame")
	case n.Kind() == document.KindText:
		return th.GetStyle("Node.text")
	}
	return th.GetStyle("Node")
}

func kindIcon(k document.Kind) string {
	switch k {
	case document.KindFrame:
		return "#"
	case document.KindGroup:
		return "▣"
	case document.KindRectangle:
		return "▭"
	case document.KindEllipse:
		return "◯"
	case document.KindPolygon, document.KindStar:
		return "△"
	case document.KindLine:
		return "╱"
	case document.KindText:
		return "T"
	}
	return "◇"
}

func drawVariables(screen tcell.Screen, col column, listHeight int, wb *core.Workbench, th *theme.Theme) {
	vars := wb.Variables()
	doc := wb.Document()
	title := "Variables · " + string(wb.Operation())
	if c := wb.Collection(); c != "" {
		title += " · " + c
	}
	if f := wb.Filter(); f != "" {
		title += " /" + f
	}
	drawTitle(screen, col, title, wb.Pane() == core.PaneVariables, th)

	drawList(screen, col, listHeight, wb, core.PaneVariables, th, func(i int) (string, tcell.Style) {
		v := vars[i]
		return variableLine(doc, v), variableStyle(v, th)
	})

	// Color swatches sit just after the cursor marker.
	top, _ := wb.Cursor(core.PaneVariables).Viewport()
	for i := 0; i < listHeight && top+i < len(vars); i++ {
		v := vars[top+i]
		if v.Kind != document.VariableColor || col.width < 3 {
			continue
		}
		c, err := doc.ResolveColor(context.Background(), v)
		if err != nil {
			continue
		}
		swatch := th.GetStyle("Default").Foreground(tcell.GetColor(c.Hex()))
		screen.SetContent(col.x+2, i+1, '■', nil, swatch)
	}
}

// variableLine renders a variable row. Aliases show their target and resolved color.
func variableLine(doc *document.Document, v *document.Variable) string {
	var line string
	switch v.Kind {
	case document.VariableColor:
		value := "?"
		if c, err := doc.ResolveColor(context.Background(), v); err == nil {
			value = c.Hex()
		}
		if v.IsAlias() {
			target := v.AliasOf
			if t, err := doc.VariableByID(context.Background(), v.AliasOf); err == nil {
				target = t.Name
			}
			value = "→ " + target + " " + value
		}
		line = "■ " + v.Name + "  " + value
	default:
		line = "± " + v.Name + "  " + fmt.Sprintf("%g", v.Number)
	}
	if v.Remote() {
		line += " (" + v.Library + ")"
	}
	return line
}

func variableStyle(v *document.Variable, th *theme.Theme) tcell.Style {
	if v.Remote() {
		return th.GetStyle("Variable.remote")
	}
	return th.GetStyle("Variable." + string(v.Kind))
}

func drawHistory(screen tcell.Screen, col column, listHeight int, wb *core.Workbench, th *theme.Theme) {
	info := wb.History().FullInfo()
	title := fmt.Sprintf("History %d/%d", info.TotalActions, wb.History().Capacity())
	drawTitle(screen, col, title, wb.Pane() == core.PaneHistory, th)
	now := wb.Now()

	drawList(screen, col, listHeight, wb, core.PaneHistory, th, func(row int) (string, tcell.Style) {
		index := row - 1
		current := index == info.CurrentIndex
		prefix := "  "
		if current {
			prefix = "▶ "
		}
		if index < 0 {
			style := th.GetStyle("History")
			if current {
				style = th.GetStyle("History.current")
			}
			return prefix + "◦ Initial state", style
		}
		a := info.Actions[index]
		return prefix + historyLine(a, now), historyStyle(a, index, info.CurrentIndex, th)
	})
}

func historyLine(a history.Action, now time.Time) string {
	counts := fmt.Sprintf("%d", a.NodeCount())
	if f := a.FrameCount(); f > 0 {
		counts += fmt.Sprintf("+%d", f)
	}
	return fmt.Sprintf("%s %s  %s %s", actionIcon(a), a.Description, formatAge(now.Sub(a.Timestamp)), counts)
}

func historyStyle(a history.Action, index, current int, th *theme.Theme) tcell.Style {
	switch {
	case index > current:
		return th.GetStyle("History.undone")
	case index == current:
		return th.GetStyle("History.current")
	case a.FrameCount() > 0:
		return th.GetStyle("History.frame")
	}
	return th.GetStyle("History")
}

func actionIcon(a history.Action) string {
	if a.Kind == history.KindApplyStyle {
		return "§"
	}
	switch binding.Operation(a.Operation) {
	case binding.OpFill:
		return "◼"
	case binding.OpStroke:
		return "▢"
	case binding.OpSpaceBetween:
		return "↔"
	case binding.OpPaddingVertical, binding.OpPaddingHorizontal, binding.OpPaddingGeneral:
		return "⊡"
	case binding.OpBorderRadius:
		return "◜"
	case binding.OpStrokeWidth:
		return "━"
	}
	return "•"
}

// formatAge renders a duration as a short relative age.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d/time.Second))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d/time.Hour))
	}
	return fmt.Sprintf("%dd", int(d/(24*time.Hour)))
}
