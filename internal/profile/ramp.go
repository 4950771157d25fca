package profile

// #region imports
import (
	"fmt"
	"time"

	"github.com/fatori-v/fi-controller/internal/campaign"
)

// #endregion

// #region ramp

// Ramp sweeps the injection rate linearly between two values over a fixed
// duration. A piecewise-uniform approximation: the instantaneous rate is
// sampled at each step and converted into the next local period.
type Ramp struct {
	startRateHz float64
	endRateHz   float64
	duration    time.Duration
}

func newRamp(args Params, timeSeed int64) (TimeProfile, error) {
	_ = timeSeed

	startRateHz, err := args.Float("start_rate_hz", 1.0)
	if err != nil {
		return nil, err
	}
	endRateHz, err := args.Float("end_rate_hz", 10.0)
	if err != nil {
		return nil, err
	}
	durationS, err := args.Float("duration_s", 60.0)
	if err != nil {
		return nil, err
	}

	if startRateHz <= 0 || endRateHz <= 0 {
		return nil, fmt.Errorf("requires positive start_rate_hz and end_rate_hz")
	}
	if durationS <= 0 {
		return nil, fmt.Errorf("requires duration_s > 0")
	}
	return &Ramp{
		startRateHz: startRateHz,
		endRateHz:   endRateHz,
		duration:    seconds(durationS),
	}, nil
}

// rateAt interpolates the instantaneous rate for an elapsed time, clamped
// to the endpoints.
func (r *Ramp) rateAt(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return r.startRateHz
	}
	if elapsed >= r.duration {
		return r.endRateHz
	}
	frac := float64(elapsed) / float64(r.duration)
	return r.startRateHz + frac*(r.endRateHz-r.startRateHz)
}

// Run drives the controller while sweeping the rate.
func (r *Ramp) Run(c Controller) {
	start := c.Now()
	deadline := start

	for {
		if c.ShouldStop() {
			reportStop(c)
			return
		}
		elapsed := deadline.Sub(start)
		if elapsed >= r.duration {
			c.SetTerminationReason(campaign.ReasonDurationReached)
			return
		}

		t := c.NextTarget()
		if t == nil {
			c.SetTerminationReason(campaign.ReasonPoolExhausted)
			return
		}

		if wait := deadline.Sub(c.Now()); wait > 0 {
			c.Sleep(wait)
		}
		c.InjectTarget(t)

		// Local period from the rate at this point of the sweep.
		deadline = deadline.Add(seconds(1.0 / r.rateAt(elapsed)))
	}
}

// #endregion
