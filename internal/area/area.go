// Package area implements the area-domain selection profiles: each builder
// turns the system dictionary (or an explicit file) into the ordered target
// pool one campaign consumes. WHERE faults land is decided here; WHEN is the
// time profiles' business.
package area

// #region imports
import (
	"fmt"
	"sort"

	"github.com/fatori-v/fi-controller/internal/profile"
	"github.com/fatori-v/fi-controller/internal/sysdict"
	"github.com/fatori-v/fi-controller/internal/target"
)

// #endregion

// #region contract

// Env carries everything a builder may need to resolve targets. Builders
// take what they use: target_list ignores all of it.
type Env struct {
	Dict      *sysdict.SystemDict
	BoardName string
	Addresses sysdict.AddressSource

	// Pool sizing and ratio policy from the campaign configuration.
	RatioStrict     bool
	BreakRepeatOnly bool
	AbsoluteCap     int
}

// Builder produces one campaign's target pool.
type Builder interface {
	BuildPool(env Env) (*target.Pool, error)
}

// #endregion

// #region registry

// Factory builds one configured area builder from parsed arguments.
// Argument errors surface here, before the dictionary is touched.
type Factory func(args profile.Params, areaSeed int64) (Builder, error)

type entry struct {
	describe string
	factory  Factory
}

// The builder set is closed at compile time; the CLI still picks by
// string name.
var registry = map[string]entry{
	"modules": {
		describe: "Two-level selection over named modules (module schedule + CONFIG/REG ratio).",
		factory:  newModules,
	},
	"device": {
		describe: "Device-wide pool: every configuration bit and every register, intermixed by ratio.",
		factory:  newDevice,
	},
	"target_list": {
		describe: "Load an explicit pre-built pool from a YAML file.",
		factory:  newTargetList,
	},
}

// New builds the named area builder from its raw argument string.
func New(name, argString string, areaSeed int64) (Builder, error) {
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown area profile %q, available: %v", name, Names())
	}
	args, err := profile.ParseParams(argString)
	if err != nil {
		return nil, fmt.Errorf("area profile %s: %w", name, err)
	}
	b, err := e.factory(args, areaSeed)
	if err != nil {
		return nil, fmt.Errorf("area profile %s: %w", name, err)
	}
	return b, nil
}

// Names lists the registered builders in stable order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the one-line description of a registered builder.
func Describe(name string) string {
	if e, ok := registry[name]; ok {
		return e.describe
	}
	return ""
}

// #endregion
