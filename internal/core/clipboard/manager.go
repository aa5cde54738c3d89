package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/bethropolis/bindery/internal/logger"
)

// Manager copies text to the system clipboard and always keeps a copy in an internal
// register, so copy/paste still works on systems without a clipboard utility.
type Manager struct {
	system   bool
	register string
	write    func(string) error
	read     func() (string, error)
}

// NewManager creates a clipboard. When useSystem is false, or the platform has no
// clipboard support, only the internal register is used.
func NewManager(useSystem bool) *Manager {
	m := &Manager{
		system: useSystem && !clipboard.Unsupported,
		write:  clipboard.WriteAll,
		read:   clipboard.ReadAll,
	}
	if useSystem && clipboard.Unsupported {
		logger.Warnf("ClipboardManager: system clipboard unsupported, using internal register")
	}
	return m
}

// UsesSystem reports whether the system clipboard is written.
func (m *Manager) UsesSystem() bool { return m.system }

// Copy stores text. The internal register is updated even when the system write fails.
func (m *Manager) Copy(text string) error {
	m.register = text
	logger.DebugTagf("clipboard", "ClipboardManager: Copied %d bytes", len(text))
	if !m.system {
		return nil
	}
	if err := m.write(text); err != nil {
		return fmt.Errorf("system clipboard write failed: %w", err)
	}
	return nil
}

// Paste returns the system clipboard contents, falling back to the register.
func (m *Manager) Paste() (string, error) {
	if !m.system {
		return m.register, nil
	}
	text, err := m.read()
	if err != nil {
		logger.DebugTagf("clipboard", "ClipboardManager: system read failed, using register: %v", err)
		return m.register, nil
	}
	return text, nil
}

// Register returns the last copied text.
func (m *Manager) Register() string { return m.register }
