package selector

// #region imports
import (
	"fmt"
	"log"

	"github.com/fatori-v/fi-controller/internal/target"
)

// #endregion

// #region candidates

// KindCandidates holds one module's candidate targets split by kind.
type KindCandidates struct {
	Config []target.Target
	Reg    []target.Target
}

// moduleCursor tracks consumption of one module's candidates. Cursors wrap
// under repeat, mirroring the single-level sequential build.
type moduleCursor struct {
	candidates KindCandidates
	configIdx  int
	regIdx     int
}

func (mc *moduleCursor) draw(kind target.Kind, repeat bool) (target.Target, bool) {
	switch kind {
	case target.KindConfig:
		if mc.configIdx >= len(mc.candidates.Config) {
			return target.Target{}, false
		}
		t := mc.candidates.Config[mc.configIdx]
		mc.configIdx++
		if repeat && mc.configIdx >= len(mc.candidates.Config) {
			mc.configIdx = 0
		}
		return t, true
	default:
		if mc.regIdx >= len(mc.candidates.Reg) {
			return target.Target{}, false
		}
		t := mc.candidates.Reg[mc.regIdx]
		mc.regIdx++
		if repeat && mc.regIdx >= len(mc.candidates.Reg) {
			mc.regIdx = 0
		}
		return t, true
	}
}

func (mc *moduleCursor) remaining() int {
	return (len(mc.candidates.Config) - mc.configIdx) + (len(mc.candidates.Reg) - mc.regIdx)
}

// #endregion

// #region pool-builder

// PoolBuilder composes the ratio selector and the module selector into the
// two-level build: the global ratio rule decides the kind of each position,
// the module selector decides which module supplies it.
//
// The ratio always wins: when the scheduled module cannot supply the needed
// kind, the builder sacrifices module-selection fidelity and draws the same
// kind from any other module before it ever considers breaking the ratio.
type PoolBuilder struct {
	ratio   *RatioSelector
	modules *WeightedModuleSelector

	repeat      bool
	ratioStrict bool
	size        SizePolicy

	order   []string
	cursors map[string]*moduleCursor
}

// NewPoolBuilder wires the two selectors over per-module candidate lists.
// Every module known to the module selector must have an entry in candidates,
// even an empty one.
func NewPoolBuilder(ratio *RatioSelector, modules *WeightedModuleSelector, candidates map[string]KindCandidates) (*PoolBuilder, error) {
	cursors := make(map[string]*moduleCursor, len(modules.moduleNames))
	for _, name := range modules.moduleNames {
		c, ok := candidates[name]
		if !ok {
			return nil, fmt.Errorf("module %q has no candidate lists", name)
		}
		cursors[name] = &moduleCursor{candidates: c}
	}
	return &PoolBuilder{
		ratio:       ratio,
		modules:     modules,
		repeat:      ratio.repeat,
		ratioStrict: ratio.ratioStrict,
		size:        ratio.size,
		order:       modules.moduleNames,
		cursors:     cursors,
	}, nil
}

// #endregion

// #region build

// Build runs the per-position algorithm until the iteration budget is
// exhausted, the ratio can no longer be honored (strict), or every module's
// candidates are drained.
func (b *PoolBuilder) Build() []target.Target {
	totalAvailable := 0
	for _, mc := range b.cursors {
		totalAvailable += mc.remaining()
	}
	maxIterations := b.size.maxIterations(b.repeat, totalAvailable)
	pool := make([]target.Target, 0, min(maxIterations, totalAvailable))

	for i := 0; i < maxIterations; i++ {
		needKind := target.KindConfig
		if b.ratio.ShouldPickRegister() {
			needKind = target.KindReg
		}
		scheduled := b.modules.NextScheduled()

		t, from, ok := b.drawKindFrom(scheduled, needKind)
		if !ok {
			if b.ratioStrict {
				log.Printf("[BUILD] no module can supply %s, strict ratio halts build at %d targets",
					needKind, len(pool))
				break
			}
			// Pure modes never substitute the other kind; an exhausted kind
			// simply ends the build.
			if b.ratio.ratio == 0.0 || b.ratio.ratio == 1.0 {
				break
			}
			t, from, ok = b.drawAnyFromUnderselected()
			if !ok {
				break // full exhaustion
			}
		}

		pool = append(pool, t)
		b.modules.RecordSelection(from)
		if t.Kind == target.KindReg {
			b.ratio.regSelected++
		} else {
			b.ratio.configSelected++
		}

		if !b.repeat && b.totalRemaining() == 0 {
			break
		}
	}

	return pool
}

// drawKindFrom draws the needed kind from the scheduled module, then from
// every other module in list order. First success wins.
func (b *PoolBuilder) drawKindFrom(scheduled string, kind target.Kind) (target.Target, string, bool) {
	if t, ok := b.cursors[scheduled].draw(kind, b.repeat); ok {
		return t, scheduled, true
	}
	for _, name := range b.order {
		if name == scheduled {
			continue
		}
		if t, ok := b.cursors[name].draw(kind, b.repeat); ok {
			return t, name, true
		}
	}
	return target.Target{}, "", false
}

// drawAnyFromUnderselected is the lenient rebalancing fallback: any kind,
// preferring the module furthest behind its weight-ideal share.
func (b *PoolBuilder) drawAnyFromUnderselected() (target.Target, string, bool) {
	available := make([]string, 0, len(b.order))
	for _, name := range b.order {
		if b.cursors[name].remaining() > 0 {
			available = append(available, name)
		}
	}
	for len(available) > 0 {
		name := b.modules.MostUnderselected(available)
		mc := b.cursors[name]
		if t, ok := mc.draw(target.KindConfig, b.repeat); ok {
			return t, name, true
		}
		if t, ok := mc.draw(target.KindReg, b.repeat); ok {
			return t, name, true
		}
		// Drained between the availability scan and the draw; drop it.
		next := available[:0]
		for _, n := range available {
			if n != name {
				next = append(next, n)
			}
		}
		available = next
	}
	return target.Target{}, "", false
}

func (b *PoolBuilder) totalRemaining() int {
	total := 0
	for _, mc := range b.cursors {
		total += mc.remaining()
	}
	return total
}

// #endregion
