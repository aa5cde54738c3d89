// internal/app/workbench_api.go
package app

import (
	"github.com/bethropolis/bindery/internal/document"
	"github.com/bethropolis/bindery/internal/event"
	"github.com/bethropolis/bindery/internal/history"
	"github.com/bethropolis/bindery/internal/modehandler"
	"github.com/bethropolis/bindery/internal/plugin"
	"github.com/gdamore/tcell/v2"
)

// Ensure appWorkbenchAPI implements the plugin.WorkbenchAPI interface.
var _ plugin.WorkbenchAPI = (*appWorkbenchAPI)(nil)

// appWorkbenchAPI is the plugin-facing view of the App.
type appWorkbenchAPI struct {
	app *App
}

func newWorkbenchAPI(app *App) *appWorkbenchAPI {
	return &appWorkbenchAPI{app: app}
}

// --- Document & History ---

func (api *appWorkbenchAPI) Document() *document.Document { return api.app.doc }

func (api *appWorkbenchAPI) HistoryInfo() history.Info { return api.app.history.Info() }

func (api *appWorkbenchAPI) HistoryCapacity() int { return api.app.history.Capacity() }

func (api *appWorkbenchAPI) SelectedIDs() []string { return api.app.workbench.SelectedIDs() }

// --- Event Bus ---

func (api *appWorkbenchAPI) DispatchEvent(eventType event.Type, data interface{}) {
	api.app.eventManager.Dispatch(eventType, data)
}

func (api *appWorkbenchAPI) SubscribeEvent(eventType event.Type, handler event.Handler) {
	api.app.eventManager.Subscribe(eventType, handler)
}

// --- Commands ---

func (api *appWorkbenchAPI) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	return api.app.modeHandler.RegisterCommand(name, modehandler.CommandFunc(cmdFunc))
}

// --- Status Bar & Theme ---

func (api *appWorkbenchAPI) SetStatusMessage(format string, args ...interface{}) {
	api.app.statusBar.SetTemporaryMessage(format, args...)
	api.app.requestRedraw()
}

func (api *appWorkbenchAPI) GetThemeStyle(styleName string) tcell.Style {
	return api.app.activeTheme.GetStyle(styleName)
}
