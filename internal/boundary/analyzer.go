// Package boundary locates the structural conditions Abrahamson & Rosenkopf
// call boundary weaknesses and boundary pressure points: target-segment
// nodes whose cross-segment ties make them susceptible entry points for
// diffusion across the core-periphery boundary.
package boundary

import (
	"github.com/offero/disim/internal/network"
)

// DefaultProportion is the fraction of the non-target segment a node must
// neighbor to count as a pressure point. The original authors report that
// proportions other than one half did not change their results.
const DefaultProportion = 0.5

// Result holds the node ids identified by one analysis pass, in ascending
// id order.
type Result struct {
	Weaknesses     []int64
	PressurePoints []int64
}

type cacheKey struct {
	target     network.Segment
	proportion float64
}

// Analyzer scans one simulated network. Results are memoized per (segment,
// proportion) pair, so an analyzer must be scoped to a single network
// instance and discarded when the trial ends; reusing it across networks
// would serve stale results.
type Analyzer struct {
	net   *network.Network
	cache map[cacheKey]Result
}

// NewAnalyzer creates an analyzer bound to net.
func NewAnalyzer(net *network.Network) *Analyzer {
	return &Analyzer{
		net:   net,
		cache: make(map[cacheKey]Result),
	}
}

// Analyze finds boundary weaknesses and pressure points among the nodes of
// the target segment and marks the matching agents' Weak and PressurePoint
// flags. A weakness is a cross-linked node whose constrained pressure
// signal I + A/N already exceeds zero, so a single outside adoption tips
// it. A pressure point neighbors at least proportion of the non-target
// segment.
func (an *Analyzer) Analyze(target network.Segment, proportion float64) Result {
	key := cacheKey{target: target, proportion: proportion}
	if res, ok := an.cache[key]; ok {
		return res
	}

	net := an.net
	n := float64(net.NumNodes())
	targetNodes := net.NodesIn(target)
	outside := float64(net.NumNodes() - len(targetNodes))

	var res Result
	for _, id := range targetNodes {
		a := net.Agent(id)

		crossTies := 0
		for _, nb := range net.Neighbors(id) {
			if !net.Agent(nb).In(target) {
				crossTies++
			}
		}

		if crossTies > 0 {
			constrained := a.Profit + a.Ambiguity*(1.0/n)
			if constrained > 0 {
				res.Weaknesses = append(res.Weaknesses, id)
				a.Weak = true
			}
		}
		if float64(crossTies) >= proportion*outside {
			res.PressurePoints = append(res.PressurePoints, id)
			a.PressurePoint = true
		}
	}

	an.cache[key] = res
	return res
}
