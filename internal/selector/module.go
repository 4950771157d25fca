package selector

// #region imports
import (
	"fmt"
	"math/rand"
)

// #endregion

// #region mode

// ModuleMode selects the first-level module scheduling policy.
type ModuleMode string

const (
	ModeRoundRobin ModuleMode = "round_robin" // strict rotation, wrapping
	ModeWeighted   ModuleMode = "weighted"    // draw proportional to weights
	ModeRandom     ModuleMode = "random"      // uniform draw, weights ignored
)

// #endregion

// #region weighted-module-selector

// WeightedModuleSelector picks which logical module supplies the next
// target, independent of target kind, and tracks per-module balance so the
// builder can rebalance after ratio-forced deviations.
type WeightedModuleSelector struct {
	moduleNames []string
	weights     []int
	totalWeight int
	mode        ModuleMode
	rng         *rand.Rand

	selectionCounts map[string]int
	roundRobinIndex int
}

// NewWeightedModuleSelector validates the module list and weights.
// In weighted mode an all-zero weight vector is a configuration error;
// zero-weight participants are simply never scheduled.
func NewWeightedModuleSelector(moduleNames []string, weights []int, mode ModuleMode, rng *rand.Rand) (*WeightedModuleSelector, error) {
	if len(moduleNames) == 0 {
		return nil, fmt.Errorf("module selector requires at least one module")
	}
	if len(weights) == 0 {
		// Missing weights mean uniform participation.
		weights = make([]int, len(moduleNames))
		for i := range weights {
			weights[i] = 1
		}
	}
	if len(weights) != len(moduleNames) {
		return nil, fmt.Errorf("module selector got %d weights for %d modules",
			len(weights), len(moduleNames))
	}

	totalWeight := 0
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("module %q has negative weight %d", moduleNames[i], w)
		}
		totalWeight += w
	}

	switch mode {
	case ModeRoundRobin, ModeWeighted, ModeRandom:
	default:
		return nil, fmt.Errorf("unknown module selection mode %q", mode)
	}
	if mode == ModeWeighted && totalWeight == 0 {
		return nil, fmt.Errorf("weighted mode requires at least one positive weight")
	}

	counts := make(map[string]int, len(moduleNames))
	for _, name := range moduleNames {
		counts[name] = 0
	}

	return &WeightedModuleSelector{
		moduleNames:     moduleNames,
		weights:         weights,
		totalWeight:     totalWeight,
		mode:            mode,
		rng:             rng,
		selectionCounts: counts,
	}, nil
}

// #endregion

// #region scheduling

// NextScheduled returns the module the primary mode schedules next.
// Round-robin advances its cursor; the random modes draw independently.
func (s *WeightedModuleSelector) NextScheduled() string {
	switch s.mode {
	case ModeRoundRobin:
		module := s.moduleNames[s.roundRobinIndex]
		s.roundRobinIndex = (s.roundRobinIndex + 1) % len(s.moduleNames)
		return module
	case ModeWeighted:
		pick := s.rng.Intn(s.totalWeight)
		for i, w := range s.weights {
			if pick < w {
				return s.moduleNames[i]
			}
			pick -= w
		}
		// Unreachable while totalWeight equals the sum of weights.
		return s.moduleNames[len(s.moduleNames)-1]
	default: // ModeRandom
		return s.moduleNames[s.rng.Intn(len(s.moduleNames))]
	}
}

// RecordSelection counts a realized selection for balance tracking.
// Record the module that actually supplied the target, which may differ
// from the scheduled one when the ratio forces a fallback.
func (s *WeightedModuleSelector) RecordSelection(moduleName string) {
	s.selectionCounts[moduleName]++
}

// SelectionCounts returns a copy of the per-module balance counters.
func (s *WeightedModuleSelector) SelectionCounts() map[string]int {
	out := make(map[string]int, len(s.selectionCounts))
	for name, n := range s.selectionCounts {
		out[name] = n
	}
	return out
}

// #endregion

// #region rebalancing

// MostUnderselected returns the available module with the largest deficit
// against its weight-ideal share of all selections so far. The builder uses
// it as the rebalancing fallback when the scheduled module cannot supply
// the kind the ratio demands.
func (s *WeightedModuleSelector) MostUnderselected(available []string) string {
	if len(available) == 0 {
		return ""
	}

	totalSelections := 0
	for _, n := range s.selectionCounts {
		totalSelections += n
	}

	availSet := make(map[string]bool, len(available))
	for _, name := range available {
		availSet[name] = true
	}

	best := ""
	bestDeficit := 0.0
	for i, module := range s.moduleNames {
		if !availSet[module] {
			continue
		}
		ideal := 0.0
		if totalSelections > 0 && s.totalWeight > 0 {
			ideal = float64(s.weights[i]) / float64(s.totalWeight) * float64(totalSelections)
		}
		deficit := ideal - float64(s.selectionCounts[module])
		if best == "" || deficit > bestDeficit {
			best = module
			bestDeficit = deficit
		}
	}
	return best
}

// #endregion
