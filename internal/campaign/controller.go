// Package campaign runs the injection loop: the controller routes targets
// to backends under a time profile's schedule, with optional benchmark
// synchronization gating every dispatch.
package campaign

// #region imports
import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatori-v/fi-controller/internal/backend"
	"github.com/fatori-v/fi-controller/internal/target"
)

// #endregion

// #region termination-reasons

// Termination reasons. Every exit path must leave one of these; a campaign
// that ends with ReasonUnknown is a bug.
const (
	ReasonUnknown          = "unknown"
	ReasonStopRequested    = "Stop requested"
	ReasonDurationReached  = "Duration limit reached"
	ReasonPoolExhausted    = "Target pool exhausted"
	ReasonBurstsCompleted  = "Requested number of bursts completed"
	ReasonScheduleComplete = "Schedule completed"
	ReasonBenchmarkStopped = "Benchmark stopped."
	ReasonUserInterrupt    = "User interrupt"
)

// #endregion

// #region sink

// Sink receives per-injection records. Sink failures are logged and
// swallowed at the controller boundary; a broken results store must never
// disturb campaign timing.
type Sink interface {
	RecordInjection(t target.Target, success bool, at time.Time) error
}

// #endregion

// #region stats

// Stats is the controller's running outcome snapshot.
type Stats struct {
	Total             int
	Successes         int
	Failures          int
	TerminationReason string
}

func (s Stats) String() string {
	return fmt.Sprintf("total=%d ok=%d failed=%d reason=%q",
		s.Total, s.Successes, s.Failures, s.TerminationReason)
}

// #endregion

// #region controller

// Controller executes injections for a time profile.
//
// The campaign is a single cooperative thread of control: the profile calls
// NextTarget/InjectTarget/Sleep in its loop and polls ShouldStop between
// scheduled events. Only the stop flag and the termination reason may be
// written from another goroutine (the signal handler); everything else is
// owned by the loop.
type Controller struct {
	pool          *target.Pool
	configBackend backend.ConfigBackend
	regBackend    backend.RegisterBackend
	sink          Sink
	sync          *BenchmarkSync // nil when sync is disabled

	total     int
	successes int
	failures  int

	stopped atomic.Bool

	reasonMu sync.Mutex
	reason   string

	now   func() time.Time
	sleep func(time.Duration)
}

// NewController wires a controller over a built pool. sink and bsync may be
// nil.
func NewController(pool *target.Pool, cb backend.ConfigBackend, rb backend.RegisterBackend, sink Sink, bsync *BenchmarkSync) *Controller {
	return &Controller{
		pool:          pool,
		configBackend: cb,
		regBackend:    rb,
		sink:          sink,
		sync:          bsync,
		reason:        ReasonUnknown,
		now:           time.Now,
		sleep:         time.Sleep,
	}
}

// #endregion

// #region iteration

// NextTarget pulls the next target in pool order, or nil on exhaustion.
func (c *Controller) NextTarget() *target.Target {
	return c.pool.PopNext()
}

// #endregion

// #region injection

// InjectTarget dispatches one target and records the outcome.
//
// The timestamp is captured before dispatch so logging and routing latency
// are never attributed to injection time. Backend errors and panics are
// converted to a failure count; they never reach the time profile.
func (c *Controller) InjectTarget(t *target.Target) bool {
	if c.sync != nil && c.sync.ShouldCheck() && !c.sync.CheckActive() {
		c.SetTerminationReason(ReasonBenchmarkStopped)
		c.RequestStop()
		return false
	}

	at := c.now()
	c.total++

	success := c.dispatch(t)
	if success {
		c.successes++
	} else {
		c.failures++
	}

	if c.sink != nil {
		if err := c.sink.RecordInjection(*t, success, at); err != nil {
			log.Printf("[CAMPAIGN] sink error (ignored): %v", err)
		}
	}
	if c.sync != nil {
		c.sync.OnInjection()
	}
	return success
}

func (c *Controller) dispatch(t *target.Target) (success bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[CAMPAIGN] backend panic for %s: %v", t.Describe(), r)
			success = false
		}
	}()

	var err error
	switch t.Kind {
	case target.KindConfig:
		err = c.configBackend.InjectConfig(t.ConfigAddress)
	case target.KindReg:
		err = c.regBackend.InjectRegister(t.RegID, backend.NoBitIndex)
	default:
		err = fmt.Errorf("unroutable kind %q", t.Kind)
	}
	if err != nil {
		log.Printf("[CAMPAIGN] dispatch failed for %s: %v", t.Describe(), err)
		return false
	}
	return true
}

// #endregion

// #region stop-control

// ShouldStop is polled by time profiles between scheduled events.
func (c *Controller) ShouldStop() bool {
	return c.stopped.Load()
}

// RequestStop sets the cooperative stop flag. Safe from any goroutine.
func (c *Controller) RequestStop() {
	c.stopped.Store(true)
}

// SetTerminationReason records why the campaign ended. Last writer wins.
func (c *Controller) SetTerminationReason(reason string) {
	c.reasonMu.Lock()
	c.reason = reason
	c.reasonMu.Unlock()
}

// TerminationReason returns the recorded reason, ReasonUnknown if none.
func (c *Controller) TerminationReason() string {
	c.reasonMu.Lock()
	defer c.reasonMu.Unlock()
	return c.reason
}

// #endregion

// #region timing

// Now returns the controller's clock reading. Profiles must use this
// instead of the system clock so schedules can run against a virtual clock
// in tests.
func (c *Controller) Now() time.Time {
	return c.now()
}

// Sleep suspends the control thread. This is the only legal blocking point
// in a scheduling loop; non-positive durations return immediately.
func (c *Controller) Sleep(d time.Duration) {
	if d > 0 {
		c.sleep(d)
	}
}

// SetClock overrides the controller's time source, letting schedules run
// against a virtual clock in tests.
func (c *Controller) SetClock(now func() time.Time, sleep func(time.Duration)) {
	c.now = now
	c.sleep = sleep
}

// #endregion

// #region stats-access

// Stats returns the outcome snapshot.
func (c *Controller) Stats() Stats {
	return Stats{
		Total:             c.total,
		Successes:         c.successes,
		Failures:          c.failures,
		TerminationReason: c.TerminationReason(),
	}
}

// #endregion
