// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bethropolis/bindery/internal/event"
	"github.com/bethropolis/bindery/internal/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// Config defines the appearance and behavior of the status bar.
type Config struct {
	StyleDefault   tcell.Style
	StyleMode      tcell.Style
	StyleMessage   tcell.Style
	StyleWarning   tcell.Style
	StyleError     tcell.Style
	StyleCommand   tcell.Style
	MessageTimeout time.Duration
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	base := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorBlue)
	return Config{
		StyleDefault:   base,
		StyleMode:      base.Foreground(tcell.ColorYellow).Bold(true),
		StyleMessage:   base.Foreground(tcell.ColorWhite).Bold(true),
		StyleWarning:   base.Foreground(tcell.ColorOrange).Bold(true),
		StyleError:     base.Foreground(tcell.ColorRed).Bold(true),
		StyleCommand:   base.Foreground(tcell.ColorGreen).Bold(true),
		MessageTimeout: 4 * time.Second,
	}
}

// ConfigFromTheme takes the StatusBar* styles from t.
func ConfigFromTheme(t *theme.Theme, timeout time.Duration) Config {
	return Config{
		StyleDefault:   t.GetStyle("StatusBar"),
		StyleMode:      t.GetStyle("StatusBarMode"),
		StyleMessage:   t.GetStyle("StatusBarMessage"),
		StyleWarning:   t.GetStyle("StatusBarWarning"),
		StyleError:     t.GetStyle("StatusBarError"),
		StyleCommand:   t.GetStyle("StatusBarCommand"),
		MessageTimeout: timeout,
	}
}

// StatusBar is the one-line summary at the bottom of the screen.
type StatusBar struct {
	config Config
	mu     sync.RWMutex
	now    func() time.Time

	docName   string
	mode      string
	operation string
	selected  int
	history   event.HistorySummary

	commandInput string
	commandOpen  bool

	tempMessage     string
	tempSeverity    event.Severity
	tempMessageTime time.Time
}

// New creates a new StatusBar with the given configuration.
func New(config Config) *StatusBar {
	return &StatusBar{
		config: config,
		now:    time.Now,
	}
}

// SetConfig swaps styles, e.g. after a theme change.
func (sb *StatusBar) SetConfig(config Config) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.config = config
}

// Subscribe keeps the bar in sync with history and notification events. The handlers
// never consume the event.
func (sb *StatusBar) Subscribe(events *event.Manager) {
	events.Subscribe(event.TypeHistoryChanged, func(e event.Event) bool {
		if data, ok := e.Data.(event.HistoryChangedData); ok {
			sb.SetHistory(data.Summary)
		}
		return false
	})
	events.Subscribe(event.TypeNotify, func(e event.Event) bool {
		if data, ok := e.Data.(event.NotifyData); ok {
			sb.SetMessage(data.Severity, "%s", data.Message)
		}
		return false
	})
	events.Subscribe(event.TypeSelectionChanged, func(e event.Event) bool {
		if data, ok := e.Data.(event.SelectionChangedData); ok {
			sb.SetSelection(len(data.NodeIDs))
		}
		return false
	})
}

func (sb *StatusBar) SetDocument(name string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.docName = name
}

func (sb *StatusBar) SetMode(mode string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.mode = mode
}

func (sb *StatusBar) SetOperation(op string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.operation = op
}

func (sb *StatusBar) SetSelection(count int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.selected = count
}

func (sb *StatusBar) SetHistory(summary event.HistorySummary) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.history = summary
}

// SetCommandInput shows ":<input>" in place of the summary until ClearCommandInput.
func (sb *StatusBar) SetCommandInput(input string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.commandInput = input
	sb.commandOpen = true
}

func (sb *StatusBar) ClearCommandInput() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.commandInput = ""
	sb.commandOpen = false
}

// SetMessage displays a message for the configured timeout.
func (sb *StatusBar) SetMessage(severity event.Severity, format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempSeverity = severity
	sb.tempMessageTime = sb.now()
}

// SetTemporaryMessage displays an info message.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.SetMessage(event.SeverityInfo, format, args...)
}

// ResetTemporaryMessage clears any temporary message being displayed.
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// getDefaultDisplayText builds the summary line. Caller holds the lock.
func (sb *StatusBar) getDefaultDisplayText() string {
	name := sb.docName
	if name == "" {
		name = "[No Document]"
	}
	parts := []string{name}
	if sb.selected > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", sb.selected))
	}
	if sb.operation != "" {
		parts = append(parts, "op: "+sb.operation)
	}

	h := sb.history
	undo := "↶ -"
	if h.CanUndo && h.CurrentAction != nil {
		undo = "↶ " + *h.CurrentAction
	}
	redo := "↷ -"
	if h.CanRedo && h.NextAction != nil {
		redo = "↷ " + *h.NextAction
	}
	parts = append(parts, undo, redo, fmt.Sprintf("%d actions", h.TotalActions))

	text := strings.Join(parts, " | ")
	if sb.mode != "" {
		text += " -- " + sb.mode
	}
	return text
}

// Line returns the text and style Draw would render now. Expired messages are cleared.
func (sb *StatusBar) Line() (string, tcell.Style) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.commandOpen {
		return ":" + sb.commandInput, sb.config.StyleCommand
	}

	active := !sb.tempMessageTime.IsZero() && sb.now().Sub(sb.tempMessageTime) <= sb.config.MessageTimeout
	if !sb.tempMessageTime.IsZero() && !active {
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}
	if active {
		switch sb.tempSeverity {
		case event.SeverityWarning:
			return sb.tempMessage, sb.config.StyleWarning
		case event.SeverityError:
			return sb.tempMessage, sb.config.StyleError
		default:
			return sb.tempMessage, sb.config.StyleMessage
		}
	}
	return sb.getDefaultDisplayText(), sb.config.StyleDefault
}

// Draw renders the status bar on the last screen row using visual widths.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1
	text, style := sb.Line()

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}

	gr := uniseg.NewGraphemes(text)
	currentX := 0
	for gr.Next() {
		clusterWidth := gr.Width()
		if currentX+clusterWidth > width {
			break
		}
		runes := gr.Runes()
		if len(runes) > 0 {
			var combining []rune
			if len(runes) > 1 {
				combining = runes[1:]
			}
			screen.SetContent(currentX, y, runes[0], combining, style)
		}
		currentX += clusterWidth
	}
}
