package app

import (
	"github.com/bethropolis/bindery/internal/event"
	"github.com/bethropolis/bindery/internal/logger"
)

// subscribeEvents wires app-level reactions. The status bar subscribes itself.
func (a *App) subscribeEvents() {
	a.eventManager.Subscribe(event.TypeDocumentLoaded, a.handleDocumentLoaded)
	a.eventManager.Subscribe(event.TypeDocumentModified, a.handleDocumentModified)
	a.eventManager.Subscribe(event.TypeAppQuit, a.handleAppQuit)
}

// handleDocumentLoaded names the document in the status bar and resets the panes.
func (a *App) handleDocumentLoaded(e event.Event) bool {
	data, ok := e.Data.(event.DocumentLoadedData)
	if !ok {
		logger.Warnf("App: Received DocumentLoaded event with unexpected data type: %T", e.Data)
		return false
	}
	logger.Infof("Loaded document %q from %s (%d nodes)", a.doc.Name(), data.Source, data.NodeCount)
	a.statusBar.SetDocument(a.doc.Name())
	a.workbench.Refresh()
	a.requestRedraw()
	return false // Not consumed
}

// handleDocumentModified redraws after undo, redo and jumps.
func (a *App) handleDocumentModified(e event.Event) bool {
	logger.DebugTagf("app", "App: document modified")
	a.requestRedraw()
	return false
}

func (a *App) handleAppQuit(e event.Event) bool {
	if a.history.CanUndo() {
		logger.Infof("App: Quitting with %d applied actions; history is not persisted.", a.history.CurrentIndex()+1)
	}
	return false
}
