// internal/modehandler/modehandler.go
package modehandler

import (
	"context"
	"fmt"

	"github.com/bethropolis/bindery/internal/core"
	"github.com/bethropolis/bindery/internal/event"
	"github.com/bethropolis/bindery/internal/input"
	"github.com/bethropolis/bindery/internal/logger"
	"github.com/bethropolis/bindery/internal/statusbar"
	"github.com/gdamore/tcell/v2"
)

// InputMode defines the different states for user input.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeCommand
	ModeConfirm // waiting for y/n
)

func (m InputMode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeCommand:
		return "COMMAND"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

// CommandFunc runs a ':' command with its whitespace-separated arguments.
type CommandFunc func(args []string) error

// Config holds dependencies for the ModeHandler.
type Config struct {
	Workbench      *core.Workbench
	InputProcessor *input.InputProcessor
	EventManager   *event.Manager
	StatusBar      *statusbar.StatusBar
	QuitSignal     chan<- struct{}
	// Context is passed to blocking workbench calls. Defaults to context.Background().
	Context context.Context
}

// ModeHandler routes key events to the workbench according to the current mode.
type ModeHandler struct {
	workbench      *core.Workbench
	inputProcessor *input.InputProcessor
	eventManager   *event.Manager
	statusBar      *statusbar.StatusBar
	quitSignal     chan<- struct{}
	ctx            context.Context

	currentMode InputMode
	cmdBuffer   string
	commands    map[string]CommandFunc
	quitting    bool

	confirmPrompt string
	onConfirm     func()
}

// New creates a new ModeHandler.
func New(cfg Config) *ModeHandler {
	if cfg.Workbench == nil || cfg.InputProcessor == nil || cfg.EventManager == nil || cfg.StatusBar == nil || cfg.QuitSignal == nil {
		panic("modehandler.New: Missing required dependencies in Config")
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	mh := &ModeHandler{
		workbench:      cfg.Workbench,
		inputProcessor: cfg.InputProcessor,
		eventManager:   cfg.EventManager,
		statusBar:      cfg.StatusBar,
		quitSignal:     cfg.QuitSignal,
		ctx:            cfg.Context,
		commands:       make(map[string]CommandFunc),
	}
	mh.setMode(ModeNormal)
	mh.statusBar.SetOperation(string(cfg.Workbench.Operation()))
	return mh
}

// HandleKeyEvent decides what to do based on current mode and key event.
// Returns true if the event resulted in an action requiring redraw.
func (mh *ModeHandler) HandleKeyEvent(ev *tcell.EventKey) bool {
	mh.eventManager.Dispatch(event.TypeKeyPressed, event.KeyPressedData{KeyEvent: ev})

	actionEvent := mh.inputProcessor.ProcessEvent(ev)

	switch mh.currentMode {
	case ModeNormal:
		return mh.handleActionNormal(actionEvent)
	case ModeCommand:
		return mh.handleActionCommand(actionEvent)
	case ModeConfirm:
		return mh.handleActionConfirm(actionEvent)
	default:
		logger.Warnf("ModeHandler: Unknown input mode: %v", mh.currentMode)
		return false
	}
}

// handleActionNormal handles actions in ModeNormal.
func (mh *ModeHandler) handleActionNormal(actionEvent input.ActionEvent) bool {
	wb := mh.workbench
	actionProcessed := true

	switch actionEvent.Action {
	case input.ActionEnterCommandMode:
		mh.cmdBuffer = ""
		mh.setMode(ModeCommand)
		mh.statusBar.SetCommandInput("")
		logger.DebugTagf("mode", "ModeHandler: Entering Command Mode")
	case input.ActionFilter:
		mh.cmdBuffer = "filter "
		mh.setMode(ModeCommand)
		mh.statusBar.SetCommandInput(mh.cmdBuffer)

	case input.ActionQuit, input.ActionForceQuit:
		mh.Quit()

	case input.ActionCancel:
		if len(wb.SelectedIDs()) > 0 {
			wb.ClearSelection()
			mh.statusBar.SetTemporaryMessage("Selection cleared")
		} else {
			mh.statusBar.ResetTemporaryMessage()
		}

	case input.ActionMoveUp:
		wb.MoveCursor(-1)
	case input.ActionMoveDown:
		wb.MoveCursor(1)
	case input.ActionMovePageUp:
		wb.PageMove(-1)
	case input.ActionMovePageDown:
		wb.PageMove(1)
	case input.ActionMoveHome:
		wb.Home()
	case input.ActionMoveEnd:
		wb.End()

	case input.ActionNextPane:
		wb.CyclePane(1)
	case input.ActionPrevPane:
		wb.CyclePane(-1)

	case input.ActionToggleSelect:
		if wb.Pane() != core.PaneNodes {
			actionProcessed = false
			break
		}
		actionProcessed = wb.ToggleSelect()
	case input.ActionClearSelection:
		wb.ClearSelection()

	case input.ActionConfirm:
		if err := wb.Confirm(mh.ctx); err != nil {
			logger.DebugTagf("mode", "ModeHandler: Confirm in %s pane: %v", wb.Pane(), err)
		}

	case input.ActionCycleOperation:
		op := wb.CycleOperation()
		mh.statusBar.SetOperation(string(op))
		mh.statusBar.SetTemporaryMessage("Operation: %s", op.Label())
	case input.ActionToggleAutoWrap:
		wb.ToggleAutoWrap()

	case input.ActionUndo:
		if _, err := wb.Undo(mh.ctx); err != nil {
			logger.Warnf("ModeHandler: Undo: %v", err)
		}
	case input.ActionRedo:
		if _, err := wb.Redo(mh.ctx); err != nil {
			logger.Warnf("ModeHandler: Redo: %v", err)
		}

	case input.ActionCopyAction:
		if err := wb.CopyAction(); err != nil {
			mh.statusBar.SetMessage(event.SeverityError, "Copy failed: %v", err)
		}

	case input.ActionClearHistory:
		n := wb.History().Len()
		if n == 0 {
			mh.statusBar.SetTemporaryMessage("History is empty")
			break
		}
		mh.Confirm(fmt.Sprintf("Clear %d history entries? (y/n)", n), wb.ClearHistory)

	default:
		actionProcessed = false
	}

	// The active operation may change as a side effect of applying a variable.
	mh.statusBar.SetOperation(string(wb.Operation()))
	return actionProcessed
}

// Confirm asks a y/n question on the status line and runs onYes when answered with y.
func (mh *ModeHandler) Confirm(prompt string, onYes func()) {
	mh.confirmPrompt = prompt
	mh.onConfirm = onYes
	mh.setMode(ModeConfirm)
	mh.statusBar.SetMessage(event.SeverityWarning, "%s", prompt)
}

func (mh *ModeHandler) handleActionConfirm(actionEvent input.ActionEvent) bool {
	onYes := mh.onConfirm
	mh.onConfirm = nil
	mh.confirmPrompt = ""
	mh.setMode(ModeNormal)

	if actionEvent.Rune == 'y' || actionEvent.Rune == 'Y' {
		if onYes != nil {
			onYes()
		}
		return true
	}
	mh.statusBar.SetTemporaryMessage("Cancelled")
	return true
}

// Quit signals the app to stop. Calling it twice is safe.
func (mh *ModeHandler) Quit() {
	if mh.quitting {
		return
	}
	mh.quitting = true
	close(mh.quitSignal)
}

// RegisterCommand adds a ':' command.
func (mh *ModeHandler) RegisterCommand(name string, cmdFunc CommandFunc) error {
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if _, exists := mh.commands[name]; exists {
		return fmt.Errorf("command '%s' already registered", name)
	}
	mh.commands[name] = cmdFunc
	logger.DebugTagf("mode", "ModeHandler: Registered command ':%s'", name)
	return nil
}

func (mh *ModeHandler) setMode(m InputMode) {
	mh.currentMode = m
	mh.statusBar.SetMode(m.String())
}

// GetCurrentMode returns the current input mode.
func (mh *ModeHandler) GetCurrentMode() InputMode {
	return mh.currentMode
}

// GetCommandBuffer returns the command line while in command mode.
func (mh *ModeHandler) GetCommandBuffer() string {
	if mh.currentMode == ModeCommand {
		return mh.cmdBuffer
	}
	return ""
}

// Context returns the context handed to workbench calls.
func (mh *ModeHandler) Context() context.Context { return mh.ctx }
