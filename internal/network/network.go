package network

import (
	"gonum.org/v1/gonum/graph/multi"
)

// Network is a core-periphery social network: an undirected multigraph with
// no self-loops over nodes 0..N-1, where nodes 0..numCore-1 form the core.
// Agent state lives in a flat arena indexed by node id. The edge list is
// mutable only during generation; afterwards the topology is fixed and
// trials operate on deep copies.
type Network struct {
	g       *multi.UndirectedGraph
	agents  []Agent
	edges   [][2]int64
	numCore int
}

// New allocates a network with numCore+numPeriphery nodes, core first, no
// ties, and default agent state. Generate is the usual entry point; New is
// for hand-built topologies.
func New(numCore, numPeriphery int) *Network {
	n := numCore + numPeriphery
	net := &Network{
		g:       multi.NewUndirectedGraph(),
		agents:  make([]Agent, n),
		numCore: numCore,
	}
	for id := 0; id < n; id++ {
		net.g.AddNode(multi.Node(id))
		seg := SegmentPeriphery
		if id < numCore {
			seg = SegmentCore
		}
		net.agents[id] = Agent{Segments: NewSegmentSet(seg)}
	}
	return net
}

// AddTie inserts an undirected edge between a and b. Ties may only be added
// before the network is handed to the simulator.
func (net *Network) AddTie(a, b int64) {
	net.g.SetLine(net.g.NewLine(multi.Node(a), multi.Node(b)))
	net.edges = append(net.edges, [2]int64{a, b})
}

// NumNodes returns the total node count.
func (net *Network) NumNodes() int { return len(net.agents) }

// NumCore returns the number of core nodes.
func (net *Network) NumCore() int { return net.numCore }

// NumPeriphery returns the number of peripheral nodes.
func (net *Network) NumPeriphery() int { return len(net.agents) - net.numCore }

// NumEdges returns the number of ties, counting multiplicity.
func (net *Network) NumEdges() int { return len(net.edges) }

// Edges returns the tie list in generation order. Callers must not mutate
// the returned slice.
func (net *Network) Edges() [][2]int64 { return net.edges }

// Agent returns a pointer into the agent arena for the given node id.
func (net *Network) Agent(id int64) *Agent { return &net.agents[id] }

// Neighbors returns the ids of the distinct nodes adjacent to id.
func (net *Network) Neighbors(id int64) []int64 {
	it := net.g.From(id)
	out := make([]int64, 0, it.Len())
	for it.Next() {
		out = append(out, it.Node().ID())
	}
	return out
}

// NodesIn returns the ids of all nodes belonging to the given segment, in
// ascending order.
func (net *Network) NodesIn(seg Segment) []int64 {
	var ids []int64
	for id := range net.agents {
		if net.agents[id].In(seg) {
			ids = append(ids, int64(id))
		}
	}
	return ids
}

// AdoptedCount returns the number of adopted nodes in the given segment.
func (net *Network) AdoptedCount(seg Segment) int {
	count := 0
	for id := range net.agents {
		if net.agents[id].In(seg) && net.agents[id].Adopted {
			count++
		}
	}
	return count
}

// Clone returns a deep copy of the network. The copy shares no mutable
// state with the original: the graph, the agent arena, and every influence
// list are freshly allocated.
func (net *Network) Clone() *Network {
	c := &Network{
		g:       multi.NewUndirectedGraph(),
		agents:  make([]Agent, len(net.agents)),
		edges:   make([][2]int64, len(net.edges)),
		numCore: net.numCore,
	}
	for id := range net.agents {
		c.g.AddNode(multi.Node(id))
		c.agents[id] = net.agents[id].clone()
	}
	copy(c.edges, net.edges)
	for _, e := range net.edges {
		c.g.SetLine(c.g.NewLine(multi.Node(e[0]), multi.Node(e[1])))
	}
	return c
}
