// Package network models the core-periphery social network used by the
// diffusion simulation: a fixed arena of agent records indexed by node id
// over an undirected multigraph topology.
package network

// Segment identifies a stratum of the network. The model uses two, but the
// tag-set representation leaves room for finer stratifications.
type Segment uint8

const (
	SegmentCore Segment = iota
	SegmentPeriphery
)

// String returns the segment name used in logs and DOT output.
func (s Segment) String() string {
	switch s {
	case SegmentCore:
		return "core"
	case SegmentPeriphery:
		return "periphery"
	default:
		return "unknown"
	}
}

// ParseSegment maps a segment name to its Segment value.
func ParseSegment(name string) (Segment, bool) {
	switch name {
	case "core":
		return SegmentCore, true
	case "periphery":
		return SegmentPeriphery, true
	default:
		return 0, false
	}
}

// SegmentSet is a small tag set of segment memberships.
type SegmentSet uint8

// NewSegmentSet builds a set containing the given segments.
func NewSegmentSet(segs ...Segment) SegmentSet {
	var ss SegmentSet
	for _, s := range segs {
		ss.Add(s)
	}
	return ss
}

// Add inserts a segment tag into the set.
func (ss *SegmentSet) Add(s Segment) { *ss |= 1 << s }

// Has reports whether the set contains the given segment tag.
func (ss SegmentSet) Has(s Segment) bool { return ss&(1<<s) != 0 }

// Agent is the fixed-schema per-node state record. Profit and Ambiguity are
// assigned by the simulator at the start of a trial; Adopted and Influence
// evolve during the round loop; Weak and PressurePoint are derived
// attributes written by the boundary analyzer.
type Agent struct {
	// Profit is the assessed profit I, the agent's private valuation of
	// the innovation.
	Profit float64

	// Ambiguity is the bandwagon-pressure weight A, constant across all
	// agents within a trial.
	Ambiguity float64

	// Adopted transitions false->true at most once and never reverts.
	Adopted bool

	// Influence holds the ids of the already-adopted neighbors observed at
	// the moment this agent adopted. Empty for the seed adopter.
	Influence []int64

	// Weak and PressurePoint are boundary-analysis results.
	Weak          bool
	PressurePoint bool

	// Segments is the agent's stratum membership tag set.
	Segments SegmentSet
}

// In reports whether the agent belongs to the given segment.
func (a *Agent) In(s Segment) bool { return a.Segments.Has(s) }

// clone returns a deep copy of the agent, including its influence list.
func (a *Agent) clone() Agent {
	c := *a
	if a.Influence != nil {
		c.Influence = make([]int64, len(a.Influence))
		copy(c.Influence, a.Influence)
	}
	return c
}
