// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/bethropolis/bindery/internal/binding"
	"github.com/bethropolis/bindery/internal/config"
	"github.com/bethropolis/bindery/internal/core"
	"github.com/bethropolis/bindery/internal/core/clipboard"
	"github.com/bethropolis/bindery/internal/document"
	"github.com/bethropolis/bindery/internal/event"
	"github.com/bethropolis/bindery/internal/history"
	"github.com/bethropolis/bindery/internal/idgen"
	"github.com/bethropolis/bindery/internal/input"
	"github.com/bethropolis/bindery/internal/logger"
	"github.com/bethropolis/bindery/internal/modehandler"
	"github.com/bethropolis/bindery/internal/plugin"
	"github.com/bethropolis/bindery/internal/recorder"
	"github.com/bethropolis/bindery/internal/snapshot"
	"github.com/bethropolis/bindery/internal/statusbar"
	"github.com/bethropolis/bindery/internal/structure"
	"github.com/bethropolis/bindery/internal/theme"
	"github.com/bethropolis/bindery/internal/tui"
	"github.com/gdamore/tcell/v2"
)

// tickInterval drives redraws while a status message is waiting to expire.
const tickInterval = 500 * time.Millisecond

// App encapsulates the core components and main loop of the workbench.
type App struct {
	cfg           *config.Config
	doc           *document.Document
	source        string
	tuiManager    *tui.TUI
	workbench     *core.Workbench
	history       *history.Manager
	statusBar     *statusbar.StatusBar
	eventManager  *event.Manager
	modeHandler   *modehandler.ModeHandler
	themeManager  *theme.Manager
	activeTheme   *theme.Theme
	pluginManager *plugin.Manager
	workbenchAPI  plugin.WorkbenchAPI
	loader        Loader

	ctx    context.Context
	cancel context.CancelFunc

	// Channels managed by the App
	quit          chan struct{}
	redrawRequest chan struct{}
	termEvents    chan tcell.Event
}

// Loader reads the document again, for :reload.
type Loader func() (*document.Document, error)

// Option customizes NewApp.
type Option func(*options)

type options struct {
	screen    tcell.Screen
	source    string
	ids       idgen.Generator
	clipboard *clipboard.Manager
	themesDir *string
	loader    Loader
}

// WithScreen draws on s instead of the real terminal.
func WithScreen(s tcell.Screen) Option {
	return func(o *options) { o.screen = s }
}

// WithSource names where the document came from, for the status bar and logs.
func WithSource(source string) Option {
	return func(o *options) { o.source = source }
}

// WithIDGenerator overrides the action id generator.
func WithIDGenerator(gen idgen.Generator) Option {
	return func(o *options) { o.ids = gen }
}

// WithClipboard overrides the clipboard built from the config.
func WithClipboard(c *clipboard.Manager) Option {
	return func(o *options) { o.clipboard = c }
}

// WithLoader sets where :reload reads variables and styles from.
func WithLoader(load Loader) Option {
	return func(o *options) { o.loader = load }
}

// WithThemesDir loads extra themes from dir. An empty dir loads none.
func WithThemesDir(dir string) Option {
	return func(o *options) { o.themesDir = &dir }
}

// NewApp wires every component around doc.
func NewApp(cfg *config.Config, doc *document.Document, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if doc == nil {
		return nil, fmt.Errorf("app: no document")
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	// --- Theme ---
	themesDir := theme.DefaultThemesDir(config.AppName)
	if o.themesDir != nil {
		themesDir = *o.themesDir
	}
	themeManager := theme.NewManager(themesDir)
	if cfg.UI.ThemeFile != "" {
		if err := themeManager.LoadFile(cfg.UI.ThemeFile); err != nil {
			logger.Warnf("App: %v", err)
		}
	}
	activeTheme := themeManager.Current()

	// --- Terminal ---
	var tuiManager *tui.TUI
	var err error
	if o.screen != nil {
		tuiManager, err = tui.NewWithScreen(o.screen, activeTheme)
	} else {
		tuiManager, err = tui.New(activeTheme)
	}
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}

	// --- Core Components ---
	eventManager := event.NewManager()
	codec := snapshot.NewCodec(doc)
	tracker := structure.NewTracker(doc, codec)
	hist := history.NewManager(eventManager, codec, tracker, cfg.History.Capacity)

	recOpts := []recorder.Option{recorder.WithRecordNoop(cfg.History.RecordNoop)}
	ids := o.ids
	if ids == nil && cfg.History.IDStyle == config.IDStyleSequence {
		ids = idgen.Sequence(idgen.ActionPrefix)
	}
	if ids != nil {
		recOpts = append(recOpts, recorder.WithIDGenerator(ids))
	}
	rec := recorder.New(hist, recOpts...)
	service := binding.NewService(doc, rec, tracker, eventManager, binding.Options{AutoWrap: cfg.Binding.AutoWrap})

	clip := o.clipboard
	if clip == nil {
		clip = clipboard.NewManager(cfg.UI.SystemClipboard)
	}
	op, _ := binding.ParseOperation(cfg.Binding.DefaultOperation)
	wb := core.NewWorkbench(core.Config{
		Document:  doc,
		History:   hist,
		Service:   service,
		Tracker:   tracker,
		Events:    eventManager,
		Clipboard: clip,
		Operation: op,
		AutoWrap:  cfg.Binding.AutoWrap,
	})

	statusBar := statusbar.New(statusbar.ConfigFromTheme(activeTheme, cfg.UI.MessageTimeout))
	statusBar.Subscribe(eventManager)

	ctx, cancel := context.WithCancel(context.Background())
	quitChan := make(chan struct{})
	modeHandler := modehandler.New(modehandler.Config{
		Workbench:      wb,
		InputProcessor: input.NewInputProcessor(),
		EventManager:   eventManager,
		StatusBar:      statusBar,
		QuitSignal:     quitChan,
		Context:        ctx,
	})

	source := o.source
	if source == "" {
		source = doc.Name()
	}
	a := &App{
		cfg:           cfg,
		doc:           doc,
		source:        source,
		tuiManager:    tuiManager,
		workbench:     wb,
		history:       hist,
		statusBar:     statusBar,
		eventManager:  eventManager,
		modeHandler:   modeHandler,
		themeManager:  themeManager,
		activeTheme:   activeTheme,
		pluginManager: plugin.NewManager(),
		loader:        o.loader,
		ctx:           ctx,
		cancel:        cancel,
		quit:          quitChan,
		redrawRequest: make(chan struct{}, 1),
		termEvents:    make(chan tcell.Event, 16),
	}

	a.subscribeEvents()
	registerAppCommands(a)

	// --- Plugins (register commands through the API) ---
	a.workbenchAPI = newWorkbenchAPI(a)
	if err := registerPlugins(a.pluginManager); err != nil {
		logger.Warnf("App: %v", err)
	}
	if err := a.pluginManager.InitializePlugins(a.workbenchAPI); err != nil {
		logger.Warnf("App: %v", err)
	}

	eventManager.Dispatch(event.TypeDocumentLoaded, event.DocumentLoadedData{
		Source:    source,
		NodeCount: doc.NodeCount(),
	})
	return a, nil
}

// Run starts the application's event and drawing loops and blocks until quit.
func (a *App) Run() error {
	defer a.tuiManager.Close()
	defer a.pluginManager.ShutdownPlugins()
	defer a.cancel()

	go a.pollEvents()

	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	a.statusBar.SetTemporaryMessage("Tab switch pane | Space select | Enter apply | u/r undo/redo | :q quit")
	a.requestRedraw()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	// --- Main Loop ---
	// Key handling and drawing both happen here, so components need no locking.
	for {
		select {
		case <-a.quit:
			a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
			logger.Infof("Exiting application with %d history entries.", a.history.Len())
			return nil
		case ev := <-a.termEvents:
			if a.handleTerminalEvent(ev) {
				a.requestRedraw()
			}
		case <-ticker.C:
			// Expired status messages disappear on the next draw.
			a.requestRedraw()
		case <-a.redrawRequest:
			a.drawWorkbench()
		}
	}
}

// pollEvents forwards terminal events to the main loop until the screen is finalized.
func (a *App) pollEvents() {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}
		select {
		case a.termEvents <- ev:
		case <-a.ctx.Done():
			return
		}
	}
}

// handleTerminalEvent reacts to one terminal event and reports whether to redraw.
func (a *App) handleTerminalEvent(ev tcell.Event) bool {
	switch eventData := ev.(type) {
	case *tcell.EventResize:
		a.tuiManager.Sync()
		return true
	case *tcell.EventKey:
		// Delegate ALL key handling to ModeHandler
		return a.modeHandler.HandleKeyEvent(eventData)
	}
	return false
}

// Workbench exposes the workbench, mainly for tests.
func (a *App) Workbench() *core.Workbench { return a.workbench }

// GetModeHandler gives access to the mode handler for command registration.
func (a *App) GetModeHandler() *modehandler.ModeHandler {
	return a.modeHandler
}

// GetTheme returns the app's active theme.
func (a *App) GetTheme() *theme.Theme {
	return a.activeTheme
}

// SetTheme switches to the named registered theme and restyles the screen and status bar.
func (a *App) SetTheme(name string) error {
	if err := a.themeManager.SetTheme(name); err != nil {
		return err
	}
	a.activeTheme = a.themeManager.Current()
	a.tuiManager.ApplyTheme(a.activeTheme)
	a.statusBar.SetConfig(statusbar.ConfigFromTheme(a.activeTheme, a.cfg.UI.MessageTimeout))
	a.requestRedraw()
	return nil
}
