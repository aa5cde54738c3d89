package modehandler

import (
	"strings"
	"unicode/utf8"

	"github.com/bethropolis/bindery/internal/event"
	"github.com/bethropolis/bindery/internal/input"
	"github.com/bethropolis/bindery/internal/logger"
)

// handleActionCommand handles actions when in ModeCommand. Every printable key is
// text here, whatever it is bound to in normal mode.
func (mh *ModeHandler) handleActionCommand(actionEvent input.ActionEvent) bool {
	if actionEvent.Rune != 0 {
		mh.cmdBuffer += string(actionEvent.Rune)
		mh.statusBar.SetCommandInput(mh.cmdBuffer)
		return true
	}

	switch actionEvent.Action {
	case input.ActionDeleteCharBackward:
		if len(mh.cmdBuffer) > 0 {
			_, size := utf8.DecodeLastRuneInString(mh.cmdBuffer)
			mh.cmdBuffer = mh.cmdBuffer[:len(mh.cmdBuffer)-size]
			mh.statusBar.SetCommandInput(mh.cmdBuffer)
		} else {
			mh.leaveCommandMode()
			logger.DebugTagf("mode", "ModeHandler: Exiting Command Mode via Backspace")
		}

	case input.ActionConfirm:
		cmdStr := mh.cmdBuffer
		mh.leaveCommandMode()
		mh.executeCommand(cmdStr)

	case input.ActionCancel, input.ActionQuit:
		mh.leaveCommandMode()
		logger.DebugTagf("mode", "ModeHandler: Canceled Command Mode")

	default:
		return false
	}
	return true
}

func (mh *ModeHandler) leaveCommandMode() {
	mh.cmdBuffer = ""
	mh.statusBar.ClearCommandInput()
	mh.setMode(ModeNormal)
}

// executeCommand parses and runs a command line. A command may switch modes itself,
// e.g. to ask for confirmation.
func (mh *ModeHandler) executeCommand(cmdStr string) {
	parts := strings.Fields(cmdStr)
	if len(parts) == 0 {
		return
	}
	cmdName := parts[0]
	args := parts[1:]

	cmdFunc, exists := mh.commands[cmdName]
	if !exists {
		mh.statusBar.SetMessage(event.SeverityError, "Unknown command: %s", cmdName)
		return
	}
	logger.DebugTagf("mode", "ModeHandler: Executing command ':%s' with args %v", cmdName, args)
	if err := cmdFunc(args); err != nil {
		mh.statusBar.SetMessage(event.SeverityError, "Error executing command '%s': %v", cmdName, err)
	}
}
