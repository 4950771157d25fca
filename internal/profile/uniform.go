package profile

// #region imports
import (
	"fmt"
	"time"

	"github.com/fatori-v/fi-controller/internal/campaign"
)

// #endregion

// #region uniform

// Uniform fires at a constant cadence.
//
// Deadlines are absolute: injection n is scheduled at start + n*period,
// never previous + period, so dispatch and logging overhead cannot
// accumulate into drift. A deadline already in the past dispatches
// immediately without sleeping.
type Uniform struct {
	period   time.Duration
	duration time.Duration // 0 means unlimited
}

func newUniform(args Params, timeSeed int64) (TimeProfile, error) {
	_ = timeSeed

	rateHz, err := args.Float("rate_hz", 0)
	if err != nil {
		return nil, err
	}
	periodS, err := args.Float("period_s", 0)
	if err != nil {
		return nil, err
	}
	durationS, err := args.Float("duration_s", 0)
	if err != nil {
		return nil, err
	}

	// period_s wins over rate_hz when both are given.
	var period time.Duration
	switch {
	case periodS > 0:
		period = seconds(periodS)
	case rateHz > 0:
		period = seconds(1.0 / rateHz)
	default:
		return nil, fmt.Errorf("requires positive rate_hz or period_s")
	}
	if durationS < 0 {
		return nil, fmt.Errorf("duration_s must not be negative")
	}

	return &Uniform{period: period, duration: seconds(durationS)}, nil
}

// Run drives the controller at the fixed cadence.
func (u *Uniform) Run(c Controller) {
	start := c.Now()
	deadline := start

	for n := 0; ; n++ {
		if c.ShouldStop() {
			reportStop(c)
			return
		}
		if u.duration > 0 && deadline.Sub(start) >= u.duration {
			c.SetTerminationReason(campaign.ReasonDurationReached)
			return
		}

		t := c.NextTarget()
		if t == nil {
			c.SetTerminationReason(campaign.ReasonPoolExhausted)
			return
		}

		// Behind schedule means immediate dispatch, no sleep.
		if wait := deadline.Sub(c.Now()); wait > 0 {
			c.Sleep(wait)
		}
		c.InjectTarget(t)

		deadline = start.Add(time.Duration(n+1) * u.period)
	}
}

// #endregion
