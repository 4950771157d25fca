package campaign

// #region imports
import (
	"fmt"
	"log"
	"os"
	"time"
)

// #endregion

// #region benchmark-sync

// BenchmarkSync coordinates a campaign with an external benchmark process
// through a signal file: the benchmark creates the file when ready and
// removes it when done. The campaign blocks on the file before starting and
// stops gracefully when it disappears mid-run.
//
// Existence checks are hybrid: a check fires when EITHER the time interval
// OR the injection-count threshold since the last check is reached. The
// count keeps high-rate campaigns from hammering the filesystem; the timer
// keeps low-rate campaigns responsive.
type BenchmarkSync struct {
	path          string
	checkInterval time.Duration
	checkEveryN   int

	lastCheck      time.Time
	injectionCount int
	fileAppeared   bool

	now   func() time.Time
	sleep func(time.Duration)
}

// NewBenchmarkSync builds a sync handle over the given signal file.
func NewBenchmarkSync(path string, checkInterval time.Duration, checkEveryN int) (*BenchmarkSync, error) {
	if path == "" {
		return nil, fmt.Errorf("benchmark sync needs a signal file path")
	}
	if checkInterval <= 0 || checkEveryN < 1 {
		return nil, fmt.Errorf("benchmark sync check thresholds must be positive, got interval=%v n=%d",
			checkInterval, checkEveryN)
	}
	return &BenchmarkSync{
		path:          path,
		checkInterval: checkInterval,
		checkEveryN:   checkEveryN,
		now:           time.Now,
		sleep:         time.Sleep,
	}, nil
}

// #endregion

// #region handshake

// WaitForReady blocks until the signal file appears, then writes "READY"
// into it to complete the handshake with the benchmark. timeout 0 waits
// forever. Returns false on timeout.
func (s *BenchmarkSync) WaitForReady(timeout time.Duration) bool {
	log.Printf("[SYNC] waiting for benchmark signal file %s", s.path)
	start := s.now()

	for {
		if _, err := os.Stat(s.path); err == nil {
			s.fileAppeared = true
			s.lastCheck = s.now()
			log.Printf("[SYNC] benchmark ready")

			// The handshake reply is best-effort; detection already succeeded.
			if err := os.WriteFile(s.path, []byte("READY"), 0o644); err != nil {
				log.Printf("[SYNC] could not write READY handshake: %v", err)
			}
			return true
		}
		if timeout > 0 && s.now().Sub(start) > timeout {
			log.Printf("[SYNC] timed out after %v waiting for benchmark", timeout)
			return false
		}
		s.sleep(100 * time.Millisecond)
	}
}

// #endregion

// #region checking

// ShouldCheck reports whether an existence check is due.
func (s *BenchmarkSync) ShouldCheck() bool {
	if !s.fileAppeared {
		return false
	}
	if s.now().Sub(s.lastCheck) >= s.checkInterval {
		return true
	}
	return s.injectionCount >= s.checkEveryN
}

// CheckActive performs the existence check and resets both thresholds.
func (s *BenchmarkSync) CheckActive() bool {
	s.lastCheck = s.now()
	s.injectionCount = 0

	if _, err := os.Stat(s.path); err != nil {
		log.Printf("[SYNC] benchmark signal file gone, stopping campaign")
		return false
	}
	return true
}

// OnInjection advances the count-based threshold.
func (s *BenchmarkSync) OnInjection() {
	s.injectionCount++
}

// #endregion
