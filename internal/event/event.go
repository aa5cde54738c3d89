// internal/event/event.go
package event

import "github.com/gdamore/tcell/v2"

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// History events
	TypeHistoryChanged // Fired after every state-changing history call
	TypeNotify         // User-facing message (undo/redo results, binding results)

	// Document events
	TypeDocumentLoaded   // Fired after the document has been loaded or reloaded
	TypeDocumentModified // Fired when a binding mutated nodes
	TypeSelectionChanged // Fired when the set of selected nodes changes

	// Input
	TypeKeyPressed // Raw key press event forwarded

	// Application lifecycle
	TypeAppReady
	TypeAppQuit
)

func (t Type) String() string {
	switch t {
	case TypeHistoryChanged:
		return "history-changed"
	case TypeNotify:
		return "notify"
	case TypeDocumentLoaded:
		return "document-loaded"
	case TypeDocumentModified:
		return "document-modified"
	case TypeSelectionChanged:
		return "selection-changed"
	case TypeKeyPressed:
		return "key-pressed"
	case TypeAppReady:
		return "app-ready"
	case TypeAppQuit:
		return "app-quit"
	default:
		return "unknown"
	}
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// HistorySummary is the push-style history state summary sent to the UI.
type HistorySummary struct {
	CanUndo       bool    `json:"canUndo"`
	CanRedo       bool    `json:"canRedo"`
	CurrentAction *string `json:"currentAction"`
	NextAction    *string `json:"nextAction"`
	TotalActions  int     `json:"totalActions"`
}

// HistoryChangedData carries the summary after a history mutation.
type HistoryChangedData struct {
	Summary HistorySummary
}

// Severity grades a user-facing notification.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// NotifyData is a short message meant for the status bar.
type NotifyData struct {
	Message  string
	Severity Severity
}

// DocumentLoadedData describes the loaded document.
type DocumentLoadedData struct {
	Source    string
	NodeCount int
}

// DocumentModifiedData lists the node ids touched by a mutation.
type DocumentModifiedData struct {
	NodeIDs []string
}

// SelectionChangedData contains the selected node ids in selection order.
type SelectionChangedData struct {
	NodeIDs []string
}

// KeyPressedData contains the raw tcell key event.
type KeyPressedData struct {
	KeyEvent *tcell.EventKey
}

// AppQuitData could contain exit code or reason later.
type AppQuitData struct{}

// AppReadyData could contain initial config or state later.
type AppReadyData struct{}
