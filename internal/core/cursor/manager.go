package cursor

// Manager tracks the highlighted row of one list pane and keeps it inside the viewport.
type Manager struct {
	position    int
	count       int
	viewportTop int
	viewHeight  int
	scrollOff   int
}

// NewManager creates a cursor that keeps scrollOff rows visible around it.
func NewManager(scrollOff int) *Manager {
	if scrollOff < 0 {
		scrollOff = 0
	}
	return &Manager{scrollOff: scrollOff}
}

// SetCount updates the number of rows and clamps the cursor.
func (m *Manager) SetCount(n int) {
	if n < 0 {
		n = 0
	}
	m.count = n
	m.SetPosition(m.position)
}

func (m *Manager) Count() int { return m.count }

// SetViewSize updates the number of visible rows.
func (m *Manager) SetViewSize(height int) {
	m.viewHeight = height
	m.ScrollToCursor()
}

// Position returns the cursor row, 0 when the list is empty.
func (m *Manager) Position() int { return m.position }

// Valid reports whether the cursor points at a row.
func (m *Manager) Valid() bool { return m.count > 0 }

// SetPosition moves the cursor, clamped to the rows.
func (m *Manager) SetPosition(pos int) {
	if pos >= m.count {
		pos = m.count - 1
	}
	if pos < 0 {
		pos = 0
	}
	m.position = pos
	m.ScrollToCursor()
}

// Move moves the cursor by delta rows.
func (m *Manager) Move(delta int) {
	m.SetPosition(m.position + delta)
}

// PageMove moves the cursor by whole viewports.
func (m *Manager) PageMove(pages int) {
	if m.viewHeight <= 0 {
		return
	}
	m.Move(pages * m.viewHeight)
}

func (m *Manager) Home() { m.SetPosition(0) }
func (m *Manager) End()  { m.SetPosition(m.count - 1) }

// Viewport returns the first visible row and the number of visible rows.
func (m *Manager) Viewport() (top, height int) {
	return m.viewportTop, m.viewHeight
}

// ScrollToCursor adjusts the viewport so the cursor and its scroll-off margin are visible.
func (m *Manager) ScrollToCursor() {
	if m.viewHeight <= 0 {
		return
	}
	scrollOff := m.scrollOff
	if limit := (m.viewHeight - 1) / 2; scrollOff > limit {
		scrollOff = limit
	}

	if m.position < m.viewportTop+scrollOff {
		m.viewportTop = m.position - scrollOff
	}
	if m.position >= m.viewportTop+m.viewHeight-scrollOff {
		m.viewportTop = m.position - m.viewHeight + scrollOff + 1
	}

	maxTop := m.count - m.viewHeight
	if maxTop < 0 {
		maxTop = 0
	}
	if m.viewportTop > maxTop {
		m.viewportTop = maxTop
	}
	if m.viewportTop < 0 {
		m.viewportTop = 0
	}
}
