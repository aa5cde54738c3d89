package document

import (
	"context"
	"fmt"
	"sync"

	"github.com/bethropolis/bindery/internal/logger"
)

// Host is the lookup surface the history core needs from a document.
type Host interface {
	NodeByID(ctx context.Context, id string) (*Node, error)
	VariableByID(ctx context.Context, id string) (*Variable, error)
}

// Document is an in-memory node tree with its variables and paint styles.
type Document struct {
	mu sync.RWMutex

	name   string
	root   *Node
	nextID int

	nodes      map[string]*Node
	variables  map[string]*Variable
	varOrder   []string
	styles     map[string]*PaintStyle
	styleOrder []string
}

// New creates an empty document with a single page as root.
func New(name string) *Document {
	d := &Document{
		name:      name,
		nodes:     make(map[string]*Node),
		variables: make(map[string]*Variable),
		styles:    make(map[string]*PaintStyle),
	}
	d.root = newNode(d.allocID(), KindPage, "Page 1")
	d.nodes[d.root.id] = d.root
	return d
}

func (d *Document) Name() string { return d.name }

// Root returns the page node.
func (d *Document) Root() *Node { return d.root }

// allocID hands out ids in the "0:N" style. Caller holds the write lock or owns d.
func (d *Document) allocID() string {
	for {
		d.nextID++
		id := fmt.Sprintf("0:%d", d.nextID)
		if _, taken := d.nodes[id]; !taken {
			return id
		}
	}
}

// NewNode creates a detached node registered with the document.
func (d *Document) NewNode(kind Kind, name string) *Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.newNodeLocked(kind, name, "")
}

func (d *Document) newNodeLocked(kind Kind, name, id string) *Node {
	if id == "" {
		id = d.allocID()
	}
	n := newNode(id, kind, name)
	d.nodes[id] = n
	return n
}

// NodeByID resolves a live node.
func (d *Document) NodeByID(ctx context.Context, id string) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	n, ok := d.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node %q: %w", id, ErrNodeNotFound)
	}
	return n, nil
}

// VariableByID resolves a variable.
func (d *Document) VariableByID(ctx context.Context, id string) (*Variable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.variables[id]
	if !ok {
		return nil, fmt.Errorf("variable %q: %w", id, ErrVariableNotFound)
	}
	return v, nil
}

// StyleByID resolves a paint style.
func (d *Document) StyleByID(ctx context.Context, id string) (*PaintStyle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.styles[id]
	if !ok {
		return nil, fmt.Errorf("style %q: %w", id, ErrStyleNotFound)
	}
	return s, nil
}

// AddVariable registers v, replacing any variable with the same id.
func (d *Document) AddVariable(v *Variable) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.variables[v.ID]; !exists {
		d.varOrder = append(d.varOrder, v.ID)
	}
	d.variables[v.ID] = v
}

// RemoveVariable deletes a variable. Bindings that reference it are left dangling.
func (d *Document) RemoveVariable(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.variables[id]; !exists {
		return
	}
	delete(d.variables, id)
	for i, vid := range d.varOrder {
		if vid == id {
			d.varOrder = append(d.varOrder[:i], d.varOrder[i+1:]...)
			break
		}
	}
}

// Variables returns all variables in insertion order.
func (d *Document) Variables() []*Variable {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Variable, 0, len(d.varOrder))
	for _, id := range d.varOrder {
		out = append(out, d.variables[id])
	}
	return out
}

// maxAliasDepth bounds alias chains; longer chains are treated as cycles.
const maxAliasDepth = 16

// ResolveColor follows v's alias chain to a concrete color.
func (d *Document) ResolveColor(ctx context.Context, v *Variable) (RGB, error) {
	seen := make(map[string]bool)
	for depth := 0; v.IsAlias(); depth++ {
		if seen[v.ID] || depth >= maxAliasDepth {
			return RGB{}, fmt.Errorf("resolve %s: %w", v.ID, ErrAliasCycle)
		}
		seen[v.ID] = true
		target, err := d.VariableByID(ctx, v.AliasOf)
		if err != nil {
			return RGB{}, fmt.Errorf("resolve alias of %s: %w", v.ID, err)
		}
		if target.Kind != VariableColor {
			return RGB{}, fmt.Errorf("alias of %s points at %s variable %s", v.ID, target.Kind, target.ID)
		}
		v = target
	}
	return v.Color, nil
}

// LibraryChanges counts what SyncLibrary did.
type LibraryChanges struct {
	Added   int
	Updated int
	Removed int
	Styles  int // styles after the sync
}

// SyncLibrary replaces the variables and paint styles with those of src, keeping the
// order of ids both documents share. Node bindings to removed variables are left dangling.
func (d *Document) SyncLibrary(src *Document) LibraryChanges {
	var ch LibraryChanges
	incoming := src.Variables()
	keep := make(map[string]bool, len(incoming))
	for _, v := range incoming {
		keep[v.ID] = true
		if _, err := d.VariableByID(context.Background(), v.ID); err == nil {
			ch.Updated++
		} else {
			ch.Added++
		}
		d.AddVariable(v)
	}
	for _, v := range d.Variables() {
		if !keep[v.ID] {
			d.RemoveVariable(v.ID)
			ch.Removed++
		}
	}

	styles := src.Styles()
	keepStyles := make(map[string]bool, len(styles))
	for _, s := range styles {
		keepStyles[s.ID] = true
		d.AddStyle(s)
	}
	for _, s := range d.Styles() {
		if !keepStyles[s.ID] {
			d.RemoveStyle(s.ID)
		}
	}
	ch.Styles = len(styles)
	logger.DebugTagf("document", "Library sync: %d added, %d updated, %d removed, %d styles", ch.Added, ch.Updated, ch.Removed, ch.Styles)
	return ch
}

// AddStyle registers a paint style.
func (d *Document) AddStyle(s *PaintStyle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.styles[s.ID]; !exists {
		d.styleOrder = append(d.styleOrder, s.ID)
	}
	d.styles[s.ID] = s
}

// RemoveStyle deletes a paint style.
func (d *Document) RemoveStyle(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.styles[id]; !exists {
		return
	}
	delete(d.styles, id)
	for i, sid := range d.styleOrder {
		if sid == id {
			d.styleOrder = append(d.styleOrder[:i], d.styleOrder[i+1:]...)
			break
		}
	}
}

// Styles returns all paint styles in insertion order.
func (d *Document) Styles() []*PaintStyle {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*PaintStyle, 0, len(d.styleOrder))
	for _, id := range d.styleOrder {
		out = append(out, d.styles[id])
	}
	return out
}

// CreateFrame creates a frame appended to the page, like a host's createFrame call.
func (d *Document) CreateFrame(ctx context.Context, name string) (*Node, error) {
	return d.CreateFrameWithID(ctx, "", name)
}

// CreateFrameWithID is CreateFrame with a caller-chosen id, used to bring back a removed
// frame under the id history recorded for it. An empty id allocates a fresh one.
func (d *Document) CreateFrameWithID(ctx context.Context, id, name string) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, taken := d.nodes[id]; id != "" && taken {
		return nil, fmt.Errorf("create frame %q: %w", id, ErrNodeExists)
	}
	f := d.newNodeLocked(KindFrame, name, id)
	d.root.children = append(d.root.children, f)
	f.parent = d.root
	logger.DebugTagf("document", "Created frame %s", f.id)
	return f, nil
}

// AppendChild moves child to the end of parent's children.
func (d *Document) AppendChild(parent, child *Node) error {
	return d.InsertChild(parent, len(parent.children), child)
}

// InsertChild moves child into parent at index. The index is clamped to the valid range and
// interpreted after child has been detached from its current parent.
func (d *Document) InsertChild(parent *Node, index int, child *Node) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if parent.removed || child.removed {
		return fmt.Errorf("insert %s into %s: %w", child, parent, ErrNodeNotFound)
	}
	if !parent.Has(HasChildren) {
		return fmt.Errorf("insert into %s: %w", parent, ErrUnsupported)
	}
	for p := parent; p != nil; p = p.parent {
		if p == child {
			return fmt.Errorf("insert %s into its own descendant %s", child, parent)
		}
	}

	detach(child)
	if index < 0 {
		index = 0
	}
	if index > len(parent.children) {
		index = len(parent.children)
	}
	parent.children = append(parent.children, nil)
	copy(parent.children[index+1:], parent.children[index:])
	parent.children[index] = child
	child.parent = parent
	return nil
}

func detach(n *Node) {
	if n.parent == nil {
		return
	}
	if i := n.parent.IndexOf(n); i >= 0 {
		n.parent.children = append(n.parent.children[:i], n.parent.children[i+1:]...)
	}
	n.parent = nil
}

// Remove detaches n and unregisters it with its whole subtree.
func (d *Document) Remove(n *Node) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if n == d.root {
		return fmt.Errorf("remove page: %w", ErrUnsupported)
	}
	if n.removed {
		return fmt.Errorf("remove %s: %w", n, ErrNodeNotFound)
	}
	detach(n)
	var unregister func(*Node)
	unregister = func(x *Node) {
		x.removed = true
		delete(d.nodes, x.id)
		for _, c := range x.children {
			unregister(c)
		}
	}
	unregister(n)
	return nil
}

// Walk visits the tree depth-first starting at the page's children.
// Returning false from fn skips the node's subtree.
func (d *Document) Walk(fn func(n *Node, depth int) bool) {
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		for _, c := range n.Children() {
			if fn(c, depth) {
				visit(c, depth+1)
			}
		}
	}
	visit(d.root, 0)
}

// NodeCount returns the number of live nodes, excluding the page.
func (d *Document) NodeCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.nodes) - 1
}
