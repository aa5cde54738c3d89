// Package stats reports document and history counts with the :stats command.
package stats

import (
	"fmt"

	"github.com/bethropolis/bindery/internal/document"
	"github.com/bethropolis/bindery/internal/plugin"
)

// Ensure Stats implements plugin.Plugin
var _ plugin.Plugin = (*Stats)(nil)

// Stats counts nodes, bindings, variables and history entries.
type Stats struct {
	api plugin.WorkbenchAPI
}

func New() plugin.Plugin {
	return &Stats{}
}

func (p *Stats) Name() string {
	return "stats"
}

// Initialize registers the :stats command.
func (p *Stats) Initialize(api plugin.WorkbenchAPI) error {
	p.api = api
	if err := api.RegisterCommand("stats", p.executeStats); err != nil {
		return fmt.Errorf("failed to register 'stats' command: %w", err)
	}
	return nil
}

func (p *Stats) Shutdown() error {
	return nil
}

// Counts is one snapshot of the numbers :stats shows.
type Counts struct {
	Nodes      int
	BoundNodes int
	Bindings   int
	Variables  int
	Remote     int
	Selected   int
	Actions    int
	Capacity   int
}

// Collect gathers counts through api.
func Collect(api plugin.WorkbenchAPI) Counts {
	doc := api.Document()
	c := Counts{
		Nodes:    doc.NodeCount(),
		Selected: len(api.SelectedIDs()),
		Capacity: api.HistoryCapacity(),
	}
	doc.Walk(func(n *document.Node, depth int) bool {
		if b := n.BindingCount(); b > 0 {
			c.BoundNodes++
			c.Bindings += b
		}
		return true
	})
	for _, v := range doc.Variables() {
		c.Variables++
		if v.Remote() {
			c.Remote++
		}
	}

	c.Actions = api.HistoryInfo().TotalActions
	return c
}

func (c Counts) String() string {
	return fmt.Sprintf("Nodes: %d (%d bound, %d bindings), Variables: %d (%d remote), Selected: %d, History: %d/%d",
		c.Nodes, c.BoundNodes, c.Bindings, c.Variables, c.Remote, c.Selected, c.Actions, c.Capacity)
}

// executeStats is the function called when the :stats command runs.
func (p *Stats) executeStats(args []string) error {
	if p.api == nil {
		return fmt.Errorf("stats plugin not initialized with API")
	}
	p.api.SetStatusMessage("%s", Collect(p.api))
	return nil
}
