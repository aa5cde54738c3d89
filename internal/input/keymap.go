// internal/input/keymap.go
package input

import (
	"github.com/gdamore/tcell/v2"
)

type Keymap map[tcell.Key]Action        // special keys (Enter, arrows, ...)
type RuneKeymap map[rune]Action         // plain runes in normal mode
type ModKeymap map[tcell.ModMask]Keymap // keys combined with modifiers

// InputProcessor translates tcell events into ActionEvents.
type InputProcessor struct {
	keymap     Keymap
	runeKeymap RuneKeymap
	modKeymap  ModKeymap
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:     make(Keymap),
		runeKeymap: make(RuneKeymap),
		modKeymap:  make(ModKeymap),
	}
	p.loadDefaultBindings()
	return p
}

func (p *InputProcessor) loadDefaultBindings() {
	p.keymap[tcell.KeyUp] = ActionMoveUp
	p.keymap[tcell.KeyDown] = ActionMoveDown
	p.keymap[tcell.KeyPgUp] = ActionMovePageUp
	p.keymap[tcell.KeyPgDn] = ActionMovePageDown
	p.keymap[tcell.KeyHome] = ActionMoveHome
	p.keymap[tcell.KeyEnd] = ActionMoveEnd
	p.keymap[tcell.KeyTab] = ActionNextPane
	p.keymap[tcell.KeyBacktab] = ActionPrevPane
	p.keymap[tcell.KeyEnter] = ActionConfirm
	p.keymap[tcell.KeyBackspace] = ActionDeleteCharBackward
	p.keymap[tcell.KeyBackspace2] = ActionDeleteCharBackward
	p.keymap[tcell.KeyEscape] = ActionCancel
	p.keymap[tcell.KeyCtrlC] = ActionQuit
	p.keymap[tcell.KeyCtrlZ] = ActionUndo // some terminals report Ctrl keys without ModCtrl
	p.keymap[tcell.KeyCtrlY] = ActionRedo

	ctrlMap := make(Keymap)
	ctrlMap[tcell.KeyCtrlZ] = ActionUndo
	ctrlMap[tcell.KeyCtrlY] = ActionRedo
	ctrlMap[tcell.KeyCtrlQ] = ActionForceQuit
	ctrlMap[tcell.KeyCtrlC] = ActionQuit
	p.modKeymap[tcell.ModCtrl] = ctrlMap

	p.runeKeymap[':'] = ActionEnterCommandMode
	p.runeKeymap['/'] = ActionFilter
	p.runeKeymap['q'] = ActionQuit
	p.runeKeymap['k'] = ActionMoveUp
	p.runeKeymap['j'] = ActionMoveDown
	p.runeKeymap['g'] = ActionMoveHome
	p.runeKeymap['G'] = ActionMoveEnd
	p.runeKeymap[' '] = ActionToggleSelect
	p.runeKeymap['x'] = ActionClearSelection
	p.runeKeymap['o'] = ActionCycleOperation
	p.runeKeymap['w'] = ActionToggleAutoWrap
	p.runeKeymap['u'] = ActionUndo
	p.runeKeymap['r'] = ActionRedo
	p.runeKeymap['y'] = ActionCopyAction
	p.runeKeymap['c'] = ActionClearHistory
}

// ProcessEvent maps a key event to an ActionEvent. The current mode is not
// considered here; the mode handler decides what an action means.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()
	runeVal := ev.Rune()

	if modKeyMap, ok := p.modKeymap[mod]; ok {
		if action, ok := modKeyMap[key]; ok {
			return ActionEvent{Action: action}
		}
	}
	// tcell reports Ctrl+letter keys as their own Key values; drop the implied modifier.
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		mod &^= tcell.ModCtrl
	}

	if key == tcell.KeyRune {
		if mod != tcell.ModNone && mod != tcell.ModShift {
			return ActionEvent{Action: ActionUnknown}
		}
		if action, ok := p.runeKeymap[runeVal]; ok {
			return ActionEvent{Action: action, Rune: runeVal}
		}
		return ActionEvent{Action: ActionInsertRune, Rune: runeVal}
	}

	if mod == tcell.ModNone || mod == tcell.ModShift {
		if action, ok := p.keymap[key]; ok {
			return ActionEvent{Action: action}
		}
	}
	return ActionEvent{Action: ActionUnknown}
}
