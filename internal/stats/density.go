package stats

import "github.com/offero/disim/internal/network"

// PeripheralDensity returns the fraction of possible peripheral ties that
// are realized: pties over the peripheral tie universe of a network with
// the given segment sizes.
func PeripheralDensity(pties, coreNodes, periphNodes int) float64 {
	possible := network.PossibleTies(coreNodes+periphNodes, coreNodes).Peripheral
	if possible == 0 {
		return 0
	}
	return float64(pties) / float64(possible)
}

// NetworkDensity returns the overall edge density of a core-periphery
// network with a complete core and pties extra peripheral ties.
func NetworkDensity(pties, coreNodes, periphNodes int) float64 {
	counts := network.PossibleTies(coreNodes+periphNodes, coreNodes)
	if counts.Total == 0 {
		return 0
	}
	return float64(pties+counts.Core) / float64(counts.Total)
}
