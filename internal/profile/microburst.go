package profile

// #region imports
import (
	"fmt"
	"time"

	"github.com/fatori-v/fi-controller/internal/campaign"
)

// #endregion

// #region microburst

// Microburst alternates fixed-duration idle and burst intervals. Each
// interval is internally scheduled like the Uniform law at its own rate
// (absolute deadlines, drift-free); idle rate 0 is a pure sleep. The
// profile ends after a configured burst count or the overall duration,
// whichever comes first.
type Microburst struct {
	burstRateHz   float64
	idleRateHz    float64
	burstDuration time.Duration
	idleDuration  time.Duration
	bursts        int           // 0 means unlimited
	duration      time.Duration // 0 means unlimited
}

func newMicroburst(args Params, timeSeed int64) (TimeProfile, error) {
	_ = timeSeed

	for _, key := range []string{"burst_rate_hz", "burst_duration_s", "idle_duration_s"} {
		if !args.has(key) {
			return nil, fmt.Errorf("requires %s", key)
		}
	}
	burstRateHz, err := args.Float("burst_rate_hz", 0)
	if err != nil {
		return nil, err
	}
	idleRateHz, err := args.Float("idle_rate_hz", 0)
	if err != nil {
		return nil, err
	}
	burstDurationS, err := args.Float("burst_duration_s", 0)
	if err != nil {
		return nil, err
	}
	idleDurationS, err := args.Float("idle_duration_s", 0)
	if err != nil {
		return nil, err
	}
	bursts, err := args.Int("bursts", 0)
	if err != nil {
		return nil, err
	}
	durationS, err := args.Float("duration_s", 0)
	if err != nil {
		return nil, err
	}

	if burstRateHz <= 0 {
		return nil, fmt.Errorf("requires burst_rate_hz > 0")
	}
	if idleRateHz < 0 {
		return nil, fmt.Errorf("idle_rate_hz must not be negative")
	}
	if burstDurationS <= 0 || idleDurationS <= 0 {
		return nil, fmt.Errorf("requires positive burst_duration_s and idle_duration_s")
	}
	if bursts < 0 {
		return nil, fmt.Errorf("bursts must not be negative")
	}
	if args.has("bursts") && bursts == 0 {
		return nil, fmt.Errorf("bursts must be > 0 when given")
	}
	if durationS < 0 {
		return nil, fmt.Errorf("duration_s must not be negative")
	}

	return &Microburst{
		burstRateHz:   burstRateHz,
		idleRateHz:    idleRateHz,
		burstDuration: seconds(burstDurationS),
		idleDuration:  seconds(idleDurationS),
		bursts:        bursts,
		duration:      seconds(durationS),
	}, nil
}

// runInterval executes one idle or burst interval with drift-free fixed-rate
// spacing. Returns false when the controller requested a stop or the pool
// ran out; the caller sets the reason.
func (m *Microburst) runInterval(c Controller, rateHz float64, duration time.Duration) bool {
	start := c.Now()

	if rateHz <= 0 {
		// Pure sleep, in coarse stop-aware steps.
		for {
			if c.ShouldStop() {
				return false
			}
			remaining := duration - c.Now().Sub(start)
			if remaining <= 0 {
				return true
			}
			if remaining > time.Second {
				remaining = time.Second
			}
			c.Sleep(remaining)
		}
	}

	period := seconds(1.0 / rateHz)
	for n := 0; ; n++ {
		if c.ShouldStop() {
			return false
		}
		deadline := start.Add(time.Duration(n) * period)
		if deadline.Sub(start) >= duration {
			// Sleep out the tail so the interval keeps its fixed duration
			// and the next interval starts on its boundary.
			if tail := duration - c.Now().Sub(start); tail > 0 {
				c.Sleep(tail)
			}
			return true
		}

		t := c.NextTarget()
		if t == nil {
			return false
		}
		if wait := deadline.Sub(c.Now()); wait > 0 {
			c.Sleep(wait)
		}
		c.InjectTarget(t)
	}
}

// Run alternates idle and burst intervals until an end condition fires.
func (m *Microburst) Run(c Controller) {
	campaignStart := c.Now()
	burstCount := 0

	// remaining truncates an interval so it never overruns the overall
	// duration ceiling. The second return is false when nothing is left.
	remaining := func(want time.Duration) (time.Duration, bool) {
		if m.duration == 0 {
			return want, true
		}
		left := m.duration - c.Now().Sub(campaignStart)
		if left <= 0 {
			return 0, false
		}
		if want > left {
			return left, true
		}
		return want, true
	}

	for {
		if m.bursts > 0 && burstCount >= m.bursts {
			c.SetTerminationReason(campaign.ReasonBurstsCompleted)
			return
		}
		if c.ShouldStop() {
			reportStop(c)
			return
		}

		idleFor, ok := remaining(m.idleDuration)
		if !ok {
			c.SetTerminationReason(campaign.ReasonDurationReached)
			return
		}
		if !m.runInterval(c, m.idleRateHz, idleFor) {
			m.setInterruptReason(c)
			return
		}

		if c.ShouldStop() {
			reportStop(c)
			return
		}
		burstFor, ok := remaining(m.burstDuration)
		if !ok {
			c.SetTerminationReason(campaign.ReasonDurationReached)
			return
		}
		if !m.runInterval(c, m.burstRateHz, burstFor) {
			m.setInterruptReason(c)
			return
		}
		burstCount++
	}
}

func (m *Microburst) setInterruptReason(c Controller) {
	if c.ShouldStop() {
		reportStop(c)
	} else {
		c.SetTerminationReason(campaign.ReasonPoolExhausted)
	}
}

// #endregion
