package selector

// #region imports
import (
	"fmt"
	"math/rand"

	"github.com/fatori-v/fi-controller/internal/target"
)

// #endregion

// #region sizing

// DefaultAbsoluteCap is the hard ceiling on built pool size. It exists
// purely to bound memory use when repeat mode is combined with no explicit
// pool size.
const DefaultAbsoluteCap = 1_000_000

// SizePolicy controls how many positions a build may produce.
type SizePolicy struct {
	// TargetCount is the requested pool size, 0 meaning unset.
	TargetCount int
	// BreakRepeatOnly restricts TargetCount to repeat mode: when true and
	// repeat is off, the build exhausts all candidates instead of stopping
	// at TargetCount.
	BreakRepeatOnly bool
	// AbsoluteCap is the hard ceiling; 0 selects DefaultAbsoluteCap.
	AbsoluteCap int
}

func (sp SizePolicy) cap() int {
	if sp.AbsoluteCap > 0 {
		return sp.AbsoluteCap
	}
	return DefaultAbsoluteCap
}

// maxIterations resolves the iteration budget for a build over candidate
// lists totalling totalAvailable entries.
func (sp SizePolicy) maxIterations(repeat bool, totalAvailable int) int {
	cap := sp.cap()
	if sp.BreakRepeatOnly {
		switch {
		case repeat && sp.TargetCount > 0:
			return min(sp.TargetCount, cap)
		case repeat:
			return cap
		default:
			// Non-repeat: exhaust everything, cap only as a safety measure.
			return min(totalAvailable, cap)
		}
	}
	switch {
	case sp.TargetCount > 0:
		return min(sp.TargetCount, cap)
	case repeat:
		return cap
	default:
		return min(totalAvailable, cap)
	}
}

// #endregion

// #region ratio-selector

// RatioSelector interleaves CONFIG and REG targets into one sequence that
// converges to a configured proportion of REG picks.
//
// The selector tracks running counts of each kind and greedily picks the
// kind that is behind its ideal share, which guarantees convergence to the
// ratio regardless of list contents. It borrows the candidate lists; it
// never mutates the caller's slices.
type RatioSelector struct {
	ratio       float64 // proportion of REG picks, in [0,1]
	repeat      bool
	ratioStrict bool
	size        SizePolicy
	rng         *rand.Rand

	configSelected int
	regSelected    int
}

// NewRatioSelector validates the ratio and returns a selector. rng must be
// pre-seeded by the caller for reproducibility.
func NewRatioSelector(ratio float64, repeat, ratioStrict bool, size SizePolicy, rng *rand.Rand) (*RatioSelector, error) {
	if ratio < 0.0 || ratio > 1.0 {
		return nil, fmt.Errorf("ratio must be in [0.0, 1.0], got %v", ratio)
	}
	return &RatioSelector{
		ratio:       ratio,
		repeat:      repeat,
		ratioStrict: ratioStrict,
		size:        size,
		rng:         rng,
	}, nil
}

// Selected reports the running per-kind counts.
func (s *RatioSelector) Selected() (config, reg int) {
	return s.configSelected, s.regSelected
}

// #endregion

// #region decision-rule

// ShouldPickRegister decides whether the next pick should be a REG target.
//
// Pure modes (ratio 0 or 1) bypass counting entirely. Otherwise the first
// pick is REG iff ratio > 0.5, and every later pick is REG iff the REG
// count is behind total*ratio.
func (s *RatioSelector) ShouldPickRegister() bool {
	if s.ratio == 1.0 {
		return true
	}
	if s.ratio == 0.0 {
		return false
	}

	total := s.configSelected + s.regSelected
	if total == 0 {
		return s.ratio > 0.5
	}

	idealRegs := float64(total) * s.ratio
	return float64(s.regSelected) < idealRegs
}

// #endregion

// #region sequential-build

// BuildSequentialIntermixed walks both candidate lists with cursors and
// produces a deterministic pattern like CONFIG, CONFIG, REG, ... matching
// the ratio.
//
// With repeat on, an exhausted cursor wraps to 0 (infinite pool). With
// repeat off, an exhausted kind falls back to the other kind, unless strict
// mode halts the build the instant the minority kind runs out.
func (s *RatioSelector) BuildSequentialIntermixed(configTargets, regTargets []target.Target) []target.Target {
	maxIterations := s.size.maxIterations(s.repeat, len(configTargets)+len(regTargets))
	pool := make([]target.Target, 0, min(maxIterations, len(configTargets)+len(regTargets)))

	configIdx := 0
	regIdx := 0

	for i := 0; i < maxIterations; i++ {
		if s.ShouldPickRegister() {
			switch {
			case regIdx < len(regTargets):
				pool = append(pool, regTargets[regIdx])
				regIdx++
				s.regSelected++
				if s.repeat && regIdx >= len(regTargets) {
					regIdx = 0
				}
			case !s.repeat && configIdx < len(configTargets) && !s.ratioStrict && s.ratio < 1.0:
				pool = append(pool, configTargets[configIdx])
				configIdx++
				s.configSelected++
			default:
				return pool
			}
		} else {
			switch {
			case configIdx < len(configTargets):
				pool = append(pool, configTargets[configIdx])
				configIdx++
				s.configSelected++
				if s.repeat && configIdx >= len(configTargets) {
					configIdx = 0
				}
			case !s.repeat && regIdx < len(regTargets) && !s.ratioStrict && s.ratio > 0.0:
				pool = append(pool, regTargets[regIdx])
				regIdx++
				s.regSelected++
			default:
				return pool
			}
		}

		// Strict mode halts the instant either kind runs dry, so a pool
		// never carries picks that can no longer honor the ratio. Pure
		// modes only ever need one kind and are exempt.
		if !s.repeat && s.ratioStrict && s.ratio > 0.0 && s.ratio < 1.0 &&
			(configIdx >= len(configTargets) || regIdx >= len(regTargets)) {
			break
		}

		if !s.repeat && configIdx >= len(configTargets) && regIdx >= len(regTargets) {
			break
		}
	}

	return pool
}

// #endregion

// #region random-build

// BuildRandomIntermixed draws each position independently from the needed
// kind's candidates: with replacement under repeat (the same target may
// recur, even consecutively), remove-after-draw otherwise. Exhaustion policy
// matches the sequential build.
func (s *RatioSelector) BuildRandomIntermixed(configTargets, regTargets []target.Target) []target.Target {
	maxIterations := s.size.maxIterations(s.repeat, len(configTargets)+len(regTargets))
	pool := make([]target.Target, 0, min(maxIterations, len(configTargets)+len(regTargets)))

	// Working copies for without-replacement draws.
	var availConfig, availReg []target.Target
	if !s.repeat {
		availConfig = append([]target.Target(nil), configTargets...)
		availReg = append([]target.Target(nil), regTargets...)
	}

	drawFrom := func(list []target.Target) (target.Target, []target.Target) {
		idx := s.rng.Intn(len(list))
		t := list[idx]
		list[idx] = list[len(list)-1]
		return t, list[:len(list)-1]
	}

	for i := 0; i < maxIterations; i++ {
		if s.ShouldPickRegister() {
			if s.repeat {
				switch {
				case len(regTargets) > 0:
					pool = append(pool, regTargets[s.rng.Intn(len(regTargets))])
					s.regSelected++
				case len(configTargets) > 0 && !s.ratioStrict && s.ratio < 1.0:
					pool = append(pool, configTargets[s.rng.Intn(len(configTargets))])
					s.configSelected++
				default:
					return pool
				}
			} else {
				switch {
				case len(availReg) > 0:
					var t target.Target
					t, availReg = drawFrom(availReg)
					pool = append(pool, t)
					s.regSelected++
				case len(availConfig) > 0 && !s.ratioStrict && s.ratio < 1.0:
					var t target.Target
					t, availConfig = drawFrom(availConfig)
					pool = append(pool, t)
					s.configSelected++
				default:
					return pool
				}
			}
		} else {
			if s.repeat {
				switch {
				case len(configTargets) > 0:
					pool = append(pool, configTargets[s.rng.Intn(len(configTargets))])
					s.configSelected++
				case len(regTargets) > 0 && !s.ratioStrict && s.ratio > 0.0:
					pool = append(pool, regTargets[s.rng.Intn(len(regTargets))])
					s.regSelected++
				default:
					return pool
				}
			} else {
				switch {
				case len(availConfig) > 0:
					var t target.Target
					t, availConfig = drawFrom(availConfig)
					pool = append(pool, t)
					s.configSelected++
				case len(availReg) > 0 && !s.ratioStrict && s.ratio > 0.0:
					var t target.Target
					t, availReg = drawFrom(availReg)
					pool = append(pool, t)
					s.regSelected++
				default:
					return pool
				}
			}
		}

		if !s.repeat && s.ratioStrict && s.ratio > 0.0 && s.ratio < 1.0 &&
			(len(availConfig) == 0 || len(availReg) == 0) {
			break
		}

		if !s.repeat && len(availConfig) == 0 && len(availReg) == 0 {
			break
		}
	}

	return pool
}

// #endregion
