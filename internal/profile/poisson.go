package profile

// #region imports
import (
	"fmt"
	"math/rand"
	"time"

	"github.com/fatori-v/fi-controller/internal/campaign"
)

// #endregion

// #region poisson

// Poisson spaces injections with exponential inter-arrival times at a
// constant average rate.
type Poisson struct {
	rateHz   float64
	duration time.Duration // 0 means unlimited
	rng      *rand.Rand
}

func newPoisson(args Params, timeSeed int64) (TimeProfile, error) {
	rateHz, err := args.Float("rate_hz", 0)
	if err != nil {
		return nil, err
	}
	if !args.has("rate_hz") {
		return nil, fmt.Errorf("requires rate_hz")
	}
	if rateHz <= 0 {
		return nil, fmt.Errorf("requires rate_hz > 0, got %v", rateHz)
	}
	durationS, err := args.Float("duration_s", 0)
	if err != nil {
		return nil, err
	}
	if durationS < 0 {
		return nil, fmt.Errorf("duration_s must not be negative")
	}
	rng, err := args.Rand(timeSeed)
	if err != nil {
		return nil, err
	}
	return &Poisson{rateHz: rateHz, duration: seconds(durationS), rng: rng}, nil
}

// Run drives the controller with exponential spacing. Each drawn deadline
// is checked against the duration ceiling before a target is consumed, so
// the pool never loses a target the schedule cannot fit.
func (p *Poisson) Run(c Controller) {
	start := c.Now()
	scheduled := start

	for {
		if c.ShouldStop() {
			reportStop(c)
			return
		}

		scheduled = scheduled.Add(sampleExponential(p.rng, p.rateHz))
		if p.duration > 0 && scheduled.Sub(start) >= p.duration {
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
	}
}

// #endregion
