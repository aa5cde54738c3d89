package app

import (
	"github.com/bethropolis/bindery/internal/logger"
	"github.com/bethropolis/bindery/internal/tui"
)

// drawWorkbench clears the screen and redraws all components.
func (a *App) drawWorkbench() {
	screen := a.tuiManager.GetScreen()
	width, height := a.tuiManager.Size()

	logger.DebugTagf("draw", "drawWorkbench: Screen Size (%d x %d), ListHeight: %d",
		width, height, tui.ListHeight(height))

	a.tuiManager.Clear()
	tui.DrawWorkbench(a.tuiManager, a.workbench, a.activeTheme)
	a.statusBar.Draw(screen, width, height)
	a.tuiManager.Show()
}

// requestRedraw sends a redraw signal non-blockingly.
func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default: // Don't block if a redraw is already pending
	}
}
