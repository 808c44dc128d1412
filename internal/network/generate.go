package network

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrInfeasibleTies is returned when the requested number of peripheral
// ties exceeds the candidate edge universe for the given segment sizes.
var ErrInfeasibleTies = errors.New("requested peripheral ties exceed the candidate universe")

// TieCounts reports the size of the undirected edge universe for a network,
// split by stratum. Total == Core + Peripheral always holds.
type TieCounts struct {
	Total      int
	Core       int
	Peripheral int
}

// PossibleTies returns the tie universe sizes for a network of n nodes with
// numCore core nodes. A peripheral tie is any edge not internal to the core.
func PossibleTies(n, numCore int) TieCounts {
	total := n * (n - 1) / 2
	core := numCore * (numCore - 1) / 2
	return TieCounts{
		Total:      total,
		Core:       core,
		Peripheral: total - core,
	}
}

// Generate builds a core-periphery network: a complete subgraph over the
// core plus exactly peripheralTies extra edges sampled uniformly without
// replacement from the set of all distinct pairs with at least one
// peripheral endpoint.
func Generate(numCore, numPeriphery, peripheralTies int, rng *rand.Rand) (*Network, error) {
	if numCore < 0 || numPeriphery < 0 || peripheralTies < 0 {
		return nil, fmt.Errorf("generate network: negative size (core=%d periphery=%d ties=%d)",
			numCore, numPeriphery, peripheralTies)
	}

	n := numCore + numPeriphery
	counts := PossibleTies(n, numCore)
	if peripheralTies > counts.Peripheral {
		return nil, fmt.Errorf("generate network: %d ties requested, %d possible (core=%d periphery=%d): %w",
			peripheralTies, counts.Peripheral, numCore, numPeriphery, ErrInfeasibleTies)
	}

	net := New(numCore, numPeriphery)

	// Fully link the core.
	for a := int64(0); a < int64(numCore); a++ {
		for b := a + 1; b < int64(numCore); b++ {
			net.AddTie(a, b)
		}
	}

	// Candidate universe: periphery-core and periphery-periphery pairs.
	candidates := make([][2]int64, 0, counts.Peripheral)
	for p := int64(numCore); p < int64(n); p++ {
		for c := int64(0); c < int64(numCore); c++ {
			candidates = append(candidates, [2]int64{p, c})
		}
	}
	for p := int64(numCore); p < int64(n); p++ {
		for q := p + 1; q < int64(n); q++ {
			candidates = append(candidates, [2]int64{p, q})
		}
	}

	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	for _, e := range candidates[:peripheralTies] {
		net.AddTie(e[0], e[1])
	}

	return net, nil
}
