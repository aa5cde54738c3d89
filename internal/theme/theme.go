// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/bethropolis/bindery/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// Theme maps style names to tcell styles.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle looks up name, then its base name (the part before the first dot), then
// "Default".
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}

	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		baseName := name[:dotIndex]
		if style, ok := t.Styles[baseName]; ok {
			return style
		}
	}

	if defStyle, ok := t.Styles["Default"]; ok {
		if name != "Default" {
			logger.DebugTagf("theme", "Theme '%s': Style '%s' not found, falling back to 'Default'", t.Name, name)
		}
		return defStyle
	}

	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// BinderyDark returns the built-in dark theme.
func BinderyDark() *Theme {
	background := tcell.NewHexColor(0x2a2f38)
	foreground := tcell.NewHexColor(0xc5cdd9)
	muted := tcell.NewHexColor(0x5c6370)
	orange := tcell.NewHexColor(0xd19a66)
	yellow := tcell.NewHexColor(0xe5c07b)
	green := tcell.NewHexColor(0x98c379)
	cyan := tcell.NewHexColor(0x56b6c2)
	blue := tcell.NewHexColor(0x61afef)
	red := tcell.NewHexColor(0xe06c75)

	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(foreground)

	return &Theme{
		Name:   "Bindery Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			"Default":         base,
			"Muted":           base.Foreground(muted),
			"Cursor":          base.Reverse(true),
			"Selected":        base.Foreground(green).Bold(true),
			"PaneBorder":      base.Foreground(muted),
			"PaneTitle":       base.Foreground(muted).Bold(true),
			"PaneTitleActive": base.Foreground(blue).Bold(true),

			"Node":            base,
			"Node.frame":      base.Foreground(cyan),
			"Node.text":       base.Foreground(yellow),
			"Node.bound":      base.Foreground(orange),
			"Variable":        base,
			"Variable.color":  base.Foreground(green),
			"Variable.number": base.Foreground(orange),
			"Variable.remote": base.Foreground(muted).Italic(true),

			"History":         base,
			"History.current": base.Foreground(blue).Bold(true),
			"History.undone":  base.Foreground(muted),
			"History.frame":   base.Foreground(cyan),

			"StatusBar":        tcell.StyleDefault.Background(background).Foreground(foreground),
			"StatusBarMode":    tcell.StyleDefault.Background(background).Foreground(yellow).Bold(true),
			"StatusBarMessage": tcell.StyleDefault.Background(background).Foreground(foreground).Bold(true),
			"StatusBarWarning": tcell.StyleDefault.Background(background).Foreground(orange).Bold(true),
			"StatusBarError":   tcell.StyleDefault.Background(background).Foreground(red).Bold(true),
			"StatusBarCommand": tcell.StyleDefault.Background(background).Foreground(green).Bold(true),
		},
	}
}
