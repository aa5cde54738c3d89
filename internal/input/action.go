// internal/input/action.go
package input

// Action represents a command decoded from a key press.
type Action int

const (
	// Meta
	ActionUnknown Action = iota
	ActionQuit
	ActionForceQuit
	ActionCancel // Esc

	// Cursor movement within the focused pane
	ActionMoveUp
	ActionMoveDown
	ActionMovePageUp
	ActionMovePageDown
	ActionMoveHome
	ActionMoveEnd

	// Panes and selection
	ActionNextPane
	ActionPrevPane
	ActionToggleSelect
	ActionClearSelection
	ActionConfirm // Enter: apply the variable or jump to the history entry

	// Binding
	ActionCycleOperation
	ActionToggleAutoWrap

	// History
	ActionUndo
	ActionRedo
	ActionCopyAction
	ActionClearHistory

	// Command line
	ActionEnterCommandMode
	ActionFilter // "/": command mode prefilled with "filter "
	ActionInsertRune
	ActionDeleteCharBackward
)

// ActionEvent is a decoded key press. Rune is set for every printable key so
// text-entry modes can use it regardless of the normal-mode binding.
type ActionEvent struct {
	Action Action
	Rune   rune
}
