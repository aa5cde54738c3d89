package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bethropolis/bindery/internal/binding"
	"github.com/bethropolis/bindery/internal/logger"
	"github.com/bethropolis/bindery/internal/modehandler"
)

// registerAppCommands registers the built-in ':' commands.
func registerAppCommands(app *App) {
	wb := app.workbench
	mh := app.modeHandler

	commands := map[string]modehandler.CommandFunc{
		"undo": func(args []string) error {
			if _, err := wb.Undo(mh.Context()); err != nil {
				logger.Warnf("App: :undo: %v", err)
			}
			return nil
		},
		"redo": func(args []string) error {
			if _, err := wb.Redo(mh.Context()); err != nil {
				logger.Warnf("App: :redo: %v", err)
			}
			return nil
		},
		// jump N moves to the Nth action, counting from 1; jump 0 undoes everything.
		"jump": func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: jump N")
			}
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid entry number %q", args[0])
			}
			if _, err := wb.Jump(mh.Context(), n-1); err != nil {
				logger.Warnf("App: :jump %d: %v", n, err)
			}
			return nil
		},
		"clear": func(args []string) error {
			wb.ClearHistory()
			return nil
		},
		"history": func(args []string) error {
			return wb.CopyHistory()
		},
		"op": func(args []string) error {
			if len(args) == 0 {
				app.statusBar.SetTemporaryMessage("Operation: %s", wb.Operation())
				return nil
			}
			op, ok := binding.ParseOperation(args[0])
			if !ok {
				names := make([]string, len(binding.Operations))
				for i, o := range binding.Operations {
					names[i] = string(o)
				}
				return fmt.Errorf("unknown operation '%s'. Available: %s", args[0], strings.Join(names, ", "))
			}
			wb.SetOperation(op)
			app.statusBar.SetOperation(string(op))
			app.statusBar.SetTemporaryMessage("Operation: %s", op.Label())
			return nil
		},
		"style": func(args []string) error {
			if len(args) == 0 {
				var styles []string
				for _, s := range wb.Styles() {
					styles = append(styles, fmt.Sprintf("%s (%s)", s.ID, s.Name))
				}
				if len(styles) == 0 {
					app.statusBar.SetTemporaryMessage("No paint styles")
					return nil
				}
				app.statusBar.SetTemporaryMessage("Styles: %s", strings.Join(styles, ", "))
				return nil
			}
			if _, err := wb.ApplyStyle(mh.Context(), args[0]); err != nil {
				logger.DebugTagf("app", "App: :style %s: %v", args[0], err)
			}
			return nil
		},
		"filter": func(args []string) error {
			wb.SetFilter(strings.Join(args, " "))
			if wb.Filter() == "" {
				app.statusBar.SetTemporaryMessage("Filter cleared")
				return nil
			}
			app.statusBar.SetTemporaryMessage("Filter: %s (%d variables)", wb.Filter(), len(wb.Variables()))
			return nil
		},
		"collection": func(args []string) error {
			if len(args) == 0 {
				current := wb.Collection()
				if current == "" {
					current = "all"
				}
				app.statusBar.SetTemporaryMessage("Collection: %s", current)
				return nil
			}
			name := strings.Join(args, " ")
			if strings.EqualFold(name, "all") {
				name = ""
			}
			if err := wb.SetCollection(name); err != nil {
				return fmt.Errorf("%v. Available: %s", err, strings.Join(wb.Collections(), ", "))
			}
			if name == "" {
				app.statusBar.SetTemporaryMessage("Showing all collections")
			} else {
				app.statusBar.SetTemporaryMessage("Collection: %s", wb.Collection())
			}
			return nil
		},
		"collections": func(args []string) error {
			app.statusBar.SetTemporaryMessage("Collections: %s", strings.Join(wb.Collections(), ", "))
			return nil
		},
		"reload": func(args []string) error {
			if app.loader == nil {
				return fmt.Errorf("no source to reload from")
			}
			src, err := app.loader()
			if err != nil {
				return fmt.Errorf("reload failed: %w", err)
			}
			wb.ReloadLibrary(src)
			return nil
		},
		"wrap": func(args []string) error {
			wb.ToggleAutoWrap()
			return nil
		},
		"theme": func(args []string) error {
			if len(args) == 0 {
				app.statusBar.SetTemporaryMessage("Current theme: %s", app.GetTheme().Name)
				return nil
			}
			themeName := strings.Join(args, " ") // Allow theme names with spaces
			if err := app.SetTheme(themeName); err != nil {
				return fmt.Errorf("theme '%s' not found. Available: %s", themeName, strings.Join(app.themeManager.ListThemes(), ", "))
			}
			app.statusBar.SetTemporaryMessage("Theme set to: %s", app.GetTheme().Name)
			return nil
		},
		"themes": func(args []string) error {
			app.statusBar.SetTemporaryMessage("Available themes: %s", strings.Join(app.themeManager.ListThemes(), ", "))
			return nil
		},
		"q": func(args []string) error {
			mh.Quit()
			return nil
		},
	}
	commands["quit"] = commands["q"]

	for name, fn := range commands {
		if err := mh.RegisterCommand(name, fn); err != nil {
			// Registration should succeed unless a name is reused.
			logger.Warnf("Failed to register ':%s' command: %v", name, err)
		}
	}
}
