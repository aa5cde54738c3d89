package selection

import "slices"

// Manager is the ordered set of selected node ids. Order is the order nodes were picked,
// which is the order bindings are recorded in.
type Manager struct {
	ids []string
}

func NewManager() *Manager {
	return &Manager{}
}

// Toggle adds id, or removes it when already selected. It reports whether id is now
// selected.
func (m *Manager) Toggle(id string) bool {
	if i := slices.Index(m.ids, id); i >= 0 {
		m.ids = slices.Delete(m.ids, i, i+1)
		return false
	}
	m.ids = append(m.ids, id)
	return true
}

func (m *Manager) Has(id string) bool { return slices.Contains(m.ids, id) }

func (m *Manager) Len() int { return len(m.ids) }

// IDs returns a copy of the selection.
func (m *Manager) IDs() []string { return slices.Clone(m.ids) }

func (m *Manager) Clear() { m.ids = nil }

// Prune drops ids for which keep returns false and reports whether anything changed.
func (m *Manager) Prune(keep func(id string) bool) bool {
	before := len(m.ids)
	m.ids = slices.DeleteFunc(m.ids, func(id string) bool { return !keep(id) })
	return len(m.ids) != before
}
