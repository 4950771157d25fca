package profile

// #region imports
import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatori-v/fi-controller/internal/campaign"
)

// #endregion

// #region trace

// Trace replays a pre-computed injection schedule from a text file: one
// number per line, either absolute offsets from campaign start or
// inter-arrival gaps (converted to offsets by running sum). The schedule
// may be replayed for several cycles, each re-anchored to its own start.
type Trace struct {
	schedule []time.Duration
	repeat   int
	duration time.Duration // 0 means unlimited
}

func newTrace(args Params, timeSeed int64) (TimeProfile, error) {
	_ = timeSeed

	path := args.String("path", "")
	if path == "" {
		return nil, fmt.Errorf("requires a non-empty path")
	}
	scale, err := args.Float("scale", 1.0)
	if err != nil {
		return nil, err
	}
	if scale <= 0 {
		return nil, fmt.Errorf("requires scale > 0")
	}
	format := args.String("format", "offsets")
	if format != "offsets" && format != "gaps" {
		return nil, fmt.Errorf("format must be \"offsets\" or \"gaps\", got %q", format)
	}
	repeat, err := args.Int("repeat", 1)
	if err != nil {
		return nil, err
	}
	if repeat < 1 {
		return nil, fmt.Errorf("repeat must be >= 1")
	}
	durationS, err := args.Float("duration_s", 0)
	if err != nil {
		return nil, err
	}
	if durationS < 0 {
		return nil, fmt.Errorf("duration_s must not be negative")
	}

	schedule, err := loadSchedule(path, scale, format)
	if err != nil {
		return nil, err
	}
	return &Trace{schedule: schedule, repeat: repeat, duration: seconds(durationS)}, nil
}

// loadSchedule parses the trace file into absolute offsets. Blank lines and
// '#' comments are skipped; negative values are rejected. Offsets are
// sorted; gaps are summed into a monotonically increasing schedule.
func loadSchedule(path string, scale float64, format string) ([]time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	defer f.Close()

	var values []float64
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("trace file %s line %d: %q is not a number", path, lineNo, line)
		}
		if v < 0 {
			return nil, fmt.Errorf("trace file %s line %d: negative value %v", path, lineNo, v)
		}
		values = append(values, v*scale)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read trace file %s: %w", path, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("trace file %s has no schedule entries", path)
	}

	schedule := make([]time.Duration, len(values))
	switch format {
	case "gaps":
		sum := 0.0
		for i, v := range values {
			sum += v
			schedule[i] = seconds(sum)
		}
	default: // offsets
		sort.Float64s(values)
		for i, v := range values {
			schedule[i] = seconds(v)
		}
	}
	return schedule, nil
}

// #endregion

// #region run

// Run replays the schedule for the configured number of cycles. Each cycle
// re-anchors to its own start time, so cycle boundaries do not inherit the
// previous cycle's overrun.
func (tr *Trace) Run(c Controller) {
	campaignStart := c.Now()

	for cycle := 0; cycle < tr.repeat; cycle++ {
		cycleStart := c.Now()

		for _, offset := range tr.schedule {
			if c.ShouldStop() {
				reportStop(c)
				return
			}
			deadline := cycleStart.Add(offset)
			if tr.duration > 0 && deadline.Sub(campaignStart) >= tr.duration {
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
		}
	}
	c.SetTerminationReason(campaign.ReasonScheduleComplete)
}

// #endregion
