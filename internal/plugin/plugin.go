// internal/plugin/plugin.go
package plugin

import (
	"github.com/bethropolis/bindery/internal/document"
	"github.com/bethropolis/bindery/internal/event"
	"github.com/bethropolis/bindery/internal/history"
	"github.com/gdamore/tcell/v2"
)

// CommandFunc defines the signature for commands registered by plugins.
type CommandFunc func(args []string) error

// WorkbenchAPI is the surface plugins use to interact with the workbench. Plugins read the
// document and history but change them only through commands and events.
type WorkbenchAPI interface {
	// --- Document & History (read-only) ---
	Document() *document.Document
	HistoryInfo() history.Info
	HistoryCapacity() int
	SelectedIDs() []string

	// --- Event Bus Interaction ---
	DispatchEvent(eventType event.Type, data interface{})
	SubscribeEvent(eventType event.Type, handler event.Handler)

	// --- Command Registration ---
	RegisterCommand(name string, cmdFunc CommandFunc) error

	// --- Status Bar ---
	SetStatusMessage(format string, args ...interface{})

	// --- Theme Access ---
	GetThemeStyle(styleName string) tcell.Style
}

// Plugin defines the interface that all plugins must implement.
type Plugin interface {
	// Name returns the unique identifier name of the plugin.
	Name() string

	// Initialize is called once after the workbench is wired. Plugins subscribe to
	// events and register commands here.
	Initialize(api WorkbenchAPI) error

	// Shutdown is called once when the app is closing.
	Shutdown() error
}
