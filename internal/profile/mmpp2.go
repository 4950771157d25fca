package profile

// #region imports
import (
	"fmt"
	"math/rand"
	"time"

	"github.com/fatori-v/fi-controller/internal/campaign"
)

// #endregion

// #region state

type mmppState string

const (
	stateLow  mmppState = "low"
	stateHigh mmppState = "high"
)

// #endregion

// #region mmpp2

// MMPP2 is a two-state Markov-modulated Poisson process: a low-rate and a
// high-rate Poisson regime, with a Bernoulli draw after every injection
// deciding whether the regime flips. Models bursty fault environments.
type MMPP2 struct {
	lowHz       float64
	highHz      float64
	pLowToHigh  float64
	pHighToLow  float64
	state       mmppState
	duration    time.Duration // 0 means unlimited
	rng         *rand.Rand
	transitions []mmppState // recorded flips, exposed for reproducibility checks
}

func newMMPP2(args Params, timeSeed int64) (TimeProfile, error) {
	for _, key := range []string{"low_hz", "high_hz", "p_low_to_high", "p_high_to_low"} {
		if !args.has(key) {
			return nil, fmt.Errorf("requires %s", key)
		}
	}
	lowHz, err := args.Float("low_hz", 0)
	if err != nil {
		return nil, err
	}
	highHz, err := args.Float("high_hz", 0)
	if err != nil {
		return nil, err
	}
	pLH, err := args.Float("p_low_to_high", 0)
	if err != nil {
		return nil, err
	}
	pHL, err := args.Float("p_high_to_low", 0)
	if err != nil {
		return nil, err
	}
	durationS, err := args.Float("duration_s", 0)
	if err != nil {
		return nil, err
	}

	if lowHz <= 0 || highHz <= 0 {
		return nil, fmt.Errorf("requires positive low_hz and high_hz")
	}
	if pLH < 0 || pLH > 1 || pHL < 0 || pHL > 1 {
		return nil, fmt.Errorf("transition probabilities must be in [0,1]")
	}
	if durationS < 0 {
		return nil, fmt.Errorf("duration_s must not be negative")
	}

	start := mmppState(args.String("start_state", "low"))
	if start != stateLow && start != stateHigh {
		return nil, fmt.Errorf("start_state must be %q or %q, got %q", stateLow, stateHigh, start)
	}

	rng, err := args.Rand(timeSeed)
	if err != nil {
		return nil, err
	}
	return &MMPP2{
		lowHz:      lowHz,
		highHz:     highHz,
		pLowToHigh: pLH,
		pHighToLow: pHL,
		state:      start,
		duration:   seconds(durationS),
		rng:        rng,
	}, nil
}

func (m *MMPP2) currentRate() float64 {
	if m.state == stateLow {
		return m.lowHz
	}
	return m.highHz
}

func (m *MMPP2) maybeTransition() {
	u := m.rng.Float64()
	switch m.state {
	case stateLow:
		if u < m.pLowToHigh {
			m.state = stateHigh
			m.transitions = append(m.transitions, stateHigh)
		}
	case stateHigh:
		if u < m.pHighToLow {
			m.state = stateLow
			m.transitions = append(m.transitions, stateLow)
		}
	}
}

// Run drives the controller under the two-regime process.
func (m *MMPP2) Run(c Controller) {
	start := c.Now()
	scheduled := start

	for {
		if c.ShouldStop() {
			reportStop(c)
			return
		}

		scheduled = scheduled.Add(sampleExponential(m.rng, m.currentRate()))
		if m.duration > 0 && scheduled.Sub(start) >= m.duration {
			c.SetTerminationReason(campaign.ReasonDurationReached)
			return
		}

		t := c.NextTarget()
		if t == nil {
			c.SetTerminationReason(campaign.ReasonPoolExhausted)
			return
		}

		if wait := scheduled.Sub(c.Now()); wait > 0 {
			c.Sleep(wait)
		}
		c.InjectTarget(t)

		m.maybeTransition()
	}
}

// #endregion
