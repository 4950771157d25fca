package selector

import (
	"math"
	"math/rand"
	"testing"

	"github.com/fatori-v/fi-controller/internal/target"
)

// #region helpers

func moduleCandidatesFor(t *testing.T, module string, nConfig, nReg int) KindCandidates {
	t.Helper()
	var kc KindCandidates
	for i := 0; i < nConfig; i++ {
		tgt, err := target.NewConfigTarget(module, lfa(i), module+"_pb", "test")
		if err != nil {
			t.Fatalf("NewConfigTarget: %v", err)
		}
		kc.Config = append(kc.Config, tgt)
	}
	for i := 0; i < nReg; i++ {
		tgt, err := target.NewRegisterTarget(module, i+1, "", "test")
		if err != nil {
			t.Fatalf("NewRegisterTarget: %v", err)
		}
		kc.Reg = append(kc.Reg, tgt)
	}
	return kc
}

func newBuilder(t *testing.T, ratio float64, repeat, strict bool, size SizePolicy,
	modules []string, weights []int, candidates map[string]KindCandidates) *PoolBuilder {
	t.Helper()
	rng := rand.New(rand.NewSource(11))
	rs, err := NewRatioSelector(ratio, repeat, strict, size, rng)
	if err != nil {
		t.Fatalf("NewRatioSelector: %v", err)
	}
	ms, err := NewWeightedModuleSelector(modules, weights, ModeRoundRobin, rng)
	if err != nil {
		t.Fatalf("NewWeightedModuleSelector: %v", err)
	}
	b, err := NewPoolBuilder(rs, ms, candidates)
	if err != nil {
		t.Fatalf("NewPoolBuilder: %v", err)
	}
	return b
}

// #endregion

func TestBuilderRequiresCandidatesForEveryModule(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	rs, _ := NewRatioSelector(0.5, false, false, SizePolicy{}, rng)
	ms, _ := NewWeightedModuleSelector([]string{"alu", "decoder"}, nil, ModeRoundRobin, rng)
	_, err := NewPoolBuilder(rs, ms, map[string]KindCandidates{"alu": {}})
	if err == nil {
		t.Fatal("expected error for missing candidate entry")
	}
}

func TestBuilderHonorsGlobalRatio(t *testing.T) {
	// The ratio is global across modules: even though decoder carries all
	// the REG candidates, the built pool converges to the configured ratio.
	candidates := map[string]KindCandidates{
		"alu":     moduleCandidatesFor(t, "alu", 5, 0),
		"decoder": moduleCandidatesFor(t, "decoder", 0, 5),
	}
	b := newBuilder(t, 0.3, true, false, SizePolicy{TargetCount: 1000},
		[]string{"alu", "decoder"}, nil, candidates)
	pool := b.Build()
	if len(pool) != 1000 {
		t.Fatalf("pool length %d, want 1000", len(pool))
	}
	reg := 0
	for _, tgt := range pool {
		if tgt.Kind == target.KindReg {
			reg++
		}
	}
	got := float64(reg) / float64(len(pool))
	if math.Abs(got-0.3) > 0.01 {
		t.Errorf("realized REG fraction %v, want ~0.3", got)
	}
}

func TestBuilderCrossModuleKindFallback(t *testing.T) {
	// Round-robin schedules alu and decoder alternately, but only decoder
	// has REG candidates. The ratio wins: REG picks are served from decoder
	// even when alu was scheduled.
	candidates := map[string]KindCandidates{
		"alu":     moduleCandidatesFor(t, "alu", 4, 0),
		"decoder": moduleCandidatesFor(t, "decoder", 0, 4),
	}
	b := newBuilder(t, 0.5, false, false, SizePolicy{},
		[]string{"alu", "decoder"}, nil, candidates)
	pool := b.Build()
	if len(pool) != 8 {
		t.Fatalf("pool length %d, want 8", len(pool))
	}
	for _, tgt := range pool {
		if tgt.Kind == target.KindReg && tgt.ModuleName != "decoder" {
			t.Errorf("REG target from %q, only decoder has them", tgt.ModuleName)
		}
		if tgt.Kind == target.KindConfig && tgt.ModuleName != "alu" {
			t.Errorf("CONFIG target from %q, only alu has them", tgt.ModuleName)
		}
	}
}

func TestBuilderStrictStopsWhenKindUnavailable(t *testing.T) {
	candidates := map[string]KindCandidates{
		"alu":     moduleCandidatesFor(t, "alu", 10, 0),
		"decoder": moduleCandidatesFor(t, "decoder", 0, 2),
	}
	b := newBuilder(t, 0.5, false, true, SizePolicy{},
		[]string{"alu", "decoder"}, nil, candidates)
	pool := b.Build()

	// With 2 REG total at ratio 0.5 the build cannot pass 2 of each without
	// breaking the ratio, and strict mode refuses to.
	config, reg := 0, 0
	for _, tgt := range pool {
		if tgt.Kind == target.KindReg {
			reg++
		} else {
			config++
		}
	}
	if reg != 2 {
		t.Errorf("REG count %d, want 2", reg)
	}
	if config > 3 {
		t.Errorf("CONFIG count %d, strict ratio should hold it near 2", config)
	}
}

func TestBuilderLenientRebalancesToUnderselected(t *testing.T) {
	candidates := map[string]KindCandidates{
		"alu":     moduleCandidatesFor(t, "alu", 10, 0),
		"decoder": moduleCandidatesFor(t, "decoder", 0, 2),
	}
	b := newBuilder(t, 0.5, false, false, SizePolicy{},
		[]string{"alu", "decoder"}, nil, candidates)
	pool := b.Build()
	if len(pool) != 12 {
		t.Fatalf("lenient build should exhaust all 12 targets, got %d", len(pool))
	}
}

func TestBuilderRecordsActualSupplier(t *testing.T) {
	candidates := map[string]KindCandidates{
		"alu":     moduleCandidatesFor(t, "alu", 6, 0),
		"decoder": moduleCandidatesFor(t, "decoder", 0, 6),
	}
	b := newBuilder(t, 0.5, false, false, SizePolicy{},
		[]string{"alu", "decoder"}, nil, candidates)
	pool := b.Build()

	counts := b.modules.SelectionCounts()
	byModule := map[string]int{}
	for _, tgt := range pool {
		byModule[tgt.ModuleName]++
	}
	for module, n := range byModule {
		if counts[module] != n {
			t.Errorf("module %s: balance counter %d, pool holds %d", module, counts[module], n)
		}
	}
}
