package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/bindery/internal/logger"
	"gopkg.in/yaml.v3"
)

// Seed is the on-disk description of a document.
type Seed struct {
	Name      string         `toml:"name" yaml:"name"`
	Variables []SeedVariable `toml:"variables" yaml:"variables"`
	Styles    []SeedStyle    `toml:"styles" yaml:"styles"`
	Nodes     []SeedNode     `toml:"nodes" yaml:"nodes"`
}

// SeedVariable describes one variable. Color is a hex string for color variables.
type SeedVariable struct {
	ID         string   `toml:"id" yaml:"id"`
	Name       string   `toml:"name" yaml:"name"`
	Collection string   `toml:"collection" yaml:"collection"`
	Library    string   `toml:"library" yaml:"library"`
	Kind       string   `toml:"kind" yaml:"kind"`
	Scopes     []string `toml:"scopes" yaml:"scopes"`
	Color      string   `toml:"color" yaml:"color"`
	Number     float64  `toml:"number" yaml:"number"`
	Alias      string   `toml:"alias" yaml:"alias"` // id of another color variable
}

// SeedStyle describes a single-color paint style.
type SeedStyle struct {
	ID    string `toml:"id" yaml:"id"`
	Name  string `toml:"name" yaml:"name"`
	Color string `toml:"color" yaml:"color"`
}

// SeedNode describes a node and its subtree.
type SeedNode struct {
	ID          string     `toml:"id" yaml:"id"`
	Name        string     `toml:"name" yaml:"name"`
	Kind        string     `toml:"kind" yaml:"kind"`
	X           float64    `toml:"x" yaml:"x"`
	Y           float64    `toml:"y" yaml:"y"`
	Width       float64    `toml:"width" yaml:"width"`
	Height      float64    `toml:"height" yaml:"height"`
	Fill        string     `toml:"fill" yaml:"fill"`
	Stroke      string     `toml:"stroke" yaml:"stroke"`
	StrokeWidth float64    `toml:"stroke_weight" yaml:"stroke_weight"`
	Radius      float64    `toml:"radius" yaml:"radius"`
	Layout      string     `toml:"layout" yaml:"layout"`
	Spacing     float64    `toml:"spacing" yaml:"spacing"`
	Padding     float64    `toml:"padding" yaml:"padding"`
	Children    []SeedNode `toml:"children" yaml:"children"`
}

// Load reads a seed file; the format follows the extension (.toml, .yaml, .yml).
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document '%s': %w", path, err)
	}

	var seed Seed
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		meta, err := toml.Decode(string(data), &seed)
		if err != nil {
			return nil, fmt.Errorf("failed to parse document '%s': %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			logger.WarnTagf("document", "Document '%s': unrecognized keys: %v", path, undecoded)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &seed); err != nil {
			return nil, fmt.Errorf("failed to parse document '%s': %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported document format '%s'", filepath.Ext(path))
	}

	if seed.Name == "" {
		seed.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	doc, err := FromSeed(seed)
	if err != nil {
		return nil, fmt.Errorf("document '%s': %w", path, err)
	}
	logger.InfoTagf("document", "Loaded '%s' with %d nodes and %d variables", path, doc.NodeCount(), len(seed.Variables))
	return doc, nil
}

// FromSeed builds a document from a decoded seed.
func FromSeed(seed Seed) (*Document, error) {
	doc := New(seed.Name)

	for i, sv := range seed.Variables {
		v, err := sv.variable()
		if err != nil {
			return nil, fmt.Errorf("variable %d: %w", i, err)
		}
		doc.AddVariable(v)
	}
	for _, v := range doc.Variables() {
		if _, err := doc.ResolveColor(context.Background(), v); err != nil {
			return nil, fmt.Errorf("variable %s: %w", v.ID, err)
		}
	}
	for i, ss := range seed.Styles {
		c, err := ParseHex(ss.Color)
		if err != nil {
			return nil, fmt.Errorf("style %d: %w", i, err)
		}
		id := ss.ID
		if id == "" {
			id = fmt.Sprintf("S:%d", i+1)
		}
		doc.AddStyle(&PaintStyle{ID: id, Name: ss.Name, Paints: []Paint{SolidPaint(c)}})
	}
	for _, sn := range seed.Nodes {
		if err := doc.addSeedNode(doc.root, sn); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (sv SeedVariable) variable() (*Variable, error) {
	if sv.ID == "" {
		return nil, fmt.Errorf("missing id")
	}
	v := &Variable{
		ID:         sv.ID,
		Name:       sv.Name,
		Collection: sv.Collection,
		Library:    sv.Library,
		Kind:       VariableKind(strings.ToLower(sv.Kind)),
		Number:     sv.Number,
	}
	if v.Name == "" {
		v.Name = sv.ID
	}
	for _, s := range sv.Scopes {
		v.Scopes = append(v.Scopes, Scope(strings.ToUpper(s)))
	}
	if len(v.Scopes) == 0 {
		v.Scopes = []Scope{ScopeAll}
	}
	switch v.Kind {
	case VariableColor:
		if sv.Alias != "" {
			v.AliasOf = sv.Alias
			break
		}
		c, err := ParseHex(sv.Color)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sv.ID, err)
		}
		v.Color = c
	case VariableNumber:
		if sv.Alias != "" {
			return nil, fmt.Errorf("%s: only color variables can be aliases", sv.ID)
		}
	default:
		return nil, fmt.Errorf("%s: unknown variable kind %q", sv.ID, sv.Kind)
	}
	return v, nil
}

func (d *Document) addSeedNode(parent *Node, sn SeedNode) error {
	kind, ok := ParseKind(sn.Kind)
	if !ok || kind == KindPage {
		return fmt.Errorf("node %q: unknown kind %q", sn.Name, sn.Kind)
	}
	if sn.ID != "" {
		if _, exists := d.nodes[sn.ID]; exists {
			return fmt.Errorf("node %q: duplicate id %q", sn.Name, sn.ID)
		}
	}

	d.mu.Lock()
	n := d.newNodeLocked(kind, sn.Name, sn.ID)
	d.mu.Unlock()
	n.SetPosition(sn.X, sn.Y)
	n.Resize(sn.Width, sn.Height)

	if sn.Fill != "" {
		c, err := ParseHex(sn.Fill)
		if err != nil {
			return fmt.Errorf("node %q fill: %w", sn.Name, err)
		}
		if err := n.SetFills([]Paint{SolidPaint(c)}); err != nil {
			return err
		}
	}
	if sn.Stroke != "" {
		c, err := ParseHex(sn.Stroke)
		if err != nil {
			return fmt.Errorf("node %q stroke: %w", sn.Name, err)
		}
		if err := n.SetStrokes([]Paint{SolidPaint(c)}); err != nil {
			return err
		}
	}
	if sn.StrokeWidth > 0 && n.Has(HasStrokes) {
		_ = n.SetStrokeWeight(sn.StrokeWidth)
		if n.Has(HasEdgeStrokes) {
			w := sn.StrokeWidth
			_ = n.SetEdgeWeights(EdgeWeights{Top: w, Right: w, Bottom: w, Left: w})
		}
	}
	if sn.Radius > 0 && n.Has(HasCornerRadius) {
		r := sn.Radius
		_ = n.SetCornerRadii(CornerRadii{TopLeft: r, TopRight: r, BottomLeft: r, BottomRight: r})
	}
	if n.Has(HasAutoLayout) {
		mode := LayoutMode(strings.ToUpper(sn.Layout))
		if mode == "" {
			mode = LayoutNone
		}
		p := sn.Padding
		_ = n.SetLayout(Layout{Mode: mode, ItemSpacing: sn.Spacing, PaddingTop: p, PaddingBottom: p, PaddingLeft: p, PaddingRight: p})
	}

	if err := d.AppendChild(parent, n); err != nil {
		return err
	}
	for _, child := range sn.Children {
		if err := d.addSeedNode(n, child); err != nil {
			return err
		}
	}
	return nil
}
