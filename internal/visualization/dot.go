// Package visualization renders simulated networks as Graphviz DOT files:
// adoption state as node fill, boundary findings as node outline, and the
// influence paths a bandwagon took as directed overlay edges.
package visualization

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/offero/disim/internal/network"
	"github.com/offero/disim/internal/stats"
)

// Filter selects which trials get a graph file.
type Filter string

const (
	// FilterAll renders every trial.
	FilterAll Filter = "all"
	// FilterWPP renders only trials where boundary analysis found a
	// weakness or pressure point.
	FilterWPP Filter = "wpp"
	// FilterNone disables graph output.
	FilterNone Filter = "none"
)

// ParseFilter validates a filter name.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterAll, FilterWPP, FilterNone:
		return Filter(s), nil
	default:
		return "", fmt.Errorf("unknown graph filter %q (use %q, %q or %q)",
			s, FilterAll, FilterWPP, FilterNone)
	}
}

// Node fill encodes adoption state, node outline encodes boundary findings.
const (
	adoptedFill    = "dodgerblue"
	nonAdoptedFill = "firebrick1"

	weakOutline     = "yellow"
	pressureOutline = "green"
	bothOutline     = "#CF27CD"

	influenceColor = "#1E90FFAF"
)

func outlineColor(a *network.Agent) string {
	switch {
	case a.Weak && a.PressurePoint:
		return bothOutline
	case a.Weak:
		return weakOutline
	case a.PressurePoint:
		return pressureOutline
	default:
		return "black"
	}
}

func writeNode(b *strings.Builder, id int64, a *network.Agent) {
	fill := nonAdoptedFill
	if a.Adopted {
		fill = adoptedFill
	}
	fmt.Fprintf(b, "    \"%d\" [fillcolor=\"%s\", color=\"%s\", penwidth=3];\n",
		id, fill, outlineColor(a))
}

// RenderDOT produces a Graphviz DOT representation of a simulated network.
// Core nodes are grouped in a cluster subgraph; influence edges overlay the
// ties each adopter credited at adoption time.
func RenderDOT(net *network.Network) string {
	var b strings.Builder
	b.WriteString("graph diffusion {\n")
	b.WriteString("  node [shape=circle, style=filled, fontname=\"Helvetica\"];\n\n")

	b.WriteString("  subgraph cluster_core {\n")
	b.WriteString("    label=\"core\";\n")
	for _, id := range net.NodesIn(network.SegmentCore) {
		writeNode(&b, id, net.Agent(id))
	}
	b.WriteString("  }\n\n")

	for _, id := range net.NodesIn(network.SegmentPeriphery) {
		writeNode(&b, id, net.Agent(id))
	}
	b.WriteString("\n")

	for _, e := range net.Edges() {
		fmt.Fprintf(&b, "  \"%d\" -- \"%d\";\n", e[0], e[1])
	}
	b.WriteString("\n")

	for id := int64(0); id < int64(net.NumNodes()); id++ {
		for _, src := range net.Agent(id).Influence {
			fmt.Fprintf(&b, "  \"%d\" -- \"%d\" [dir=forward, color=\"%s\", penwidth=4];\n",
				src, id, influenceColor)
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// DOTRenderer writes per-trial graph files into a directory, subject to a
// filter. It satisfies the experiment driver's renderer interface.
type DOTRenderer struct {
	Dir    string
	Filter Filter
}

// FileName returns the graph file name for a trial.
func FileName(row stats.TrialRow) string {
	return fmt.Sprintf("Graph-pties%d-amb%g-trial%d.dot",
		row.PeripheralTies, row.Ambiguity, row.Trial)
}

// RenderTrial writes the trial's network as a DOT file when the filter
// admits it.
func (r *DOTRenderer) RenderTrial(net *network.Network, row stats.TrialRow) error {
	switch r.Filter {
	case FilterNone:
		return nil
	case FilterWPP:
		if row.Weaknesses == 0 && row.PressurePoints == 0 {
			return nil
		}
	}
	path := filepath.Join(r.Dir, FileName(row))
	if err := os.WriteFile(path, []byte(RenderDOT(net)), 0o644); err != nil {
		return fmt.Errorf("write graph file: %w", err)
	}
	return nil
}
