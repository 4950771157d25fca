// Package profile implements the time-domain scheduling laws. A profile
// owns the campaign loop: it decides WHEN each injection fires and drives
// the controller until a stop condition, leaving a termination reason on
// every exit path.
package profile

// #region imports
import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatori-v/fi-controller/internal/campaign"
	"github.com/fatori-v/fi-controller/internal/target"
)

// #endregion

// #region contract

// Controller is the surface a time profile drives. Satisfied by
// campaign.Controller; tests substitute a virtual-clock fake.
type Controller interface {
	NextTarget() *target.Target
	InjectTarget(t *target.Target) bool
	ShouldStop() bool
	SetTerminationReason(reason string)
	TerminationReason() string
	Now() time.Time
	Sleep(d time.Duration)
}

// reportStop records the generic stop reason, but never over a specific one
// already left by whoever requested the stop (signal handler, benchmark
// sync).
func reportStop(c Controller) {
	if c.TerminationReason() == campaign.ReasonUnknown {
		c.SetTerminationReason(campaign.ReasonStopRequested)
	}
}

// TimeProfile runs the scheduling loop until ShouldStop, pool exhaustion,
// an optional duration ceiling, or a law-specific stop condition.
type TimeProfile interface {
	Run(c Controller)
}

// #endregion

// #region params

// Params is the parsed "k=v;k=v" argument string of one profile.
type Params map[string]string

// ParseParams splits an argument string like "rate_hz=10;duration_s=60".
// Empty segments are skipped; a segment without '=' is an error.
func ParseParams(s string) (Params, error) {
	p := Params{}
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("malformed argument %q, want key=value", part)
		}
		p[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return p, nil
}

// Float reads a float parameter, returning def when absent or blank.
func (p Params) Float(key string, def float64) (float64, error) {
	raw, ok := p[key]
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("argument %s=%q is not a number", key, raw)
	}
	return v, nil
}

// Int reads an integer parameter with base auto-detection (0x.. works).
func (p Params) Int(key string, def int) (int, error) {
	raw, ok := p[key]
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("argument %s=%q is not an integer", key, raw)
	}
	return int(v), nil
}

// Bool reads a boolean parameter, returning def when absent or blank.
func (p Params) Bool(key string, def bool) (bool, error) {
	raw, ok := p[key]
	if !ok || raw == "" {
		return def, nil
	}
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("argument %s=%q is not a boolean", key, raw)
}

// String reads a string parameter.
func (p Params) String(key, def string) string {
	if raw, ok := p[key]; ok && raw != "" {
		return raw
	}
	return def
}

// has reports whether the key is present and non-blank.
func (p Params) has(key string) bool {
	raw, ok := p[key]
	return ok && raw != ""
}

// Rand builds the profile's random source: a local "seed" argument
// overrides the campaign's derived per-domain seed.
func (p Params) Rand(timeSeed int64) (*rand.Rand, error) {
	if raw, ok := p["seed"]; ok && raw != "" {
		local, err := strconv.ParseInt(raw, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("argument seed=%q is not an integer", raw)
		}
		return rand.New(rand.NewSource(local)), nil
	}
	return rand.New(rand.NewSource(timeSeed)), nil
}

// #endregion

// #region sampling

// sampleExponential draws an exponentially distributed inter-arrival
// interval for the given rate via inverse CDF, resampling the rare exact-0
// uniform draw to keep ln defined.
func sampleExponential(rng *rand.Rand, rateHz float64) time.Duration {
	u := rng.Float64()
	for u <= 0.0 {
		u = rng.Float64()
	}
	return seconds(-math.Log(u) / rateHz)
}

// seconds converts a float second count to a Duration.
func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// #endregion

// #region registry

// Factory builds one configured profile from parsed arguments. Argument
// errors (missing required keys, non-positive rates) surface here, before
// the campaign loop ever starts.
type Factory func(args Params, timeSeed int64) (TimeProfile, error)

type entry struct {
	describe string
	factory  Factory
}

// The profile set is closed at compile time; the CLI still picks by
// string name.
var registry = map[string]entry{
	"uniform": {
		describe: "Uniform injection cadence (constant period or rate).",
		factory:  newUniform,
	},
	"poisson": {
		describe: "Poisson process with exponential inter-arrival times at a fixed rate.",
		factory:  newPoisson,
	},
	"mmpp2": {
		describe: "Two-state Markov-modulated Poisson process (bursty traffic).",
		factory:  newMMPP2,
	},
	"microburst": {
		describe: "Alternating idle and fixed-rate burst intervals.",
		factory:  newMicroburst,
	},
	"ramp": {
		describe: "Linear sweep of injection rate between two values over a duration.",
		factory:  newRamp,
	},
	"trace": {
		describe: "Replay injections at times defined by a trace file.",
		factory:  newTrace,
	},
}

// New builds the named profile from its raw argument string.
func New(name, argString string, timeSeed int64) (TimeProfile, error) {
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown time profile %q, available: %v", name, Names())
	}
	args, err := ParseParams(argString)
	if err != nil {
		return nil, fmt.Errorf("time profile %s: %w", name, err)
	}
	p, err := e.factory(args, timeSeed)
	if err != nil {
		return nil, fmt.Errorf("time profile %s: %w", name, err)
	}
	return p, nil
}

// Names lists the registered profiles in stable order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the one-line description of a registered profile.
func Describe(name string) string {
	if e, ok := registry[name]; ok {
		return e.describe
	}
	return ""
}

// #endregion
