package area

// #region imports
import (
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/fatori-v/fi-controller/internal/profile"
	"github.com/fatori-v/fi-controller/internal/selector"
	"github.com/fatori-v/fi-controller/internal/sysdict"
	"github.com/fatori-v/fi-controller/internal/target"
)

// #endregion

// #region modules-builder

// Modules is the two-level module-based builder: an include/exclude filter
// picks the participating modules, the module selector schedules which one
// supplies each position, and the global CONFIG/REG ratio decides the kind.
type Modules struct {
	include  []string
	exclude  map[string]bool
	mode     selector.ModuleMode
	weights  map[string]int
	ratio    float64
	repeat   bool
	poolSize int
	rng      *rand.Rand
}

func newModules(args profile.Params, areaSeed int64) (Builder, error) {
	ratio, err := args.Float("ratio", 0.5)
	if err != nil {
		return nil, err
	}
	if ratio < 0.0 || ratio > 1.0 {
		return nil, fmt.Errorf("ratio must be in [0.0, 1.0], got %v", ratio)
	}
	repeat, err := args.Bool("repeat", false)
	if err != nil {
		return nil, err
	}
	poolSize, err := args.Int("pool_size", 0)
	if err != nil {
		return nil, err
	}
	if poolSize < 0 {
		return nil, fmt.Errorf("pool_size must not be negative, got %d", poolSize)
	}
	weights, err := parseWeights(args.String("weights", ""))
	if err != nil {
		return nil, err
	}
	mode := selector.ModuleMode(args.String("mode", string(selector.ModeRoundRobin)))

	rng, err := args.Rand(areaSeed)
	if err != nil {
		return nil, err
	}

	exclude := map[string]bool{}
	for _, name := range splitList(args.String("exclude", "")) {
		exclude[name] = true
	}

	return &Modules{
		include:  splitList(args.String("include", "")),
		exclude:  exclude,
		mode:     mode,
		weights:  weights,
		ratio:    ratio,
		repeat:   repeat,
		poolSize: poolSize,
		rng:      rng,
	}, nil
}

// parseWeights parses "alu:3,lsu:1" into a weight map. Malformed pairs are
// errors rather than silently dropped.
func parseWeights(s string) (map[string]int, error) {
	weights := map[string]int{}
	for _, pair := range splitList(s) {
		name, raw, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("malformed weight %q, want module:weight", pair)
		}
		w, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("weight %q is not an integer", pair)
		}
		weights[strings.TrimSpace(name)] = w
	}
	return weights, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// #endregion

// #region build

// BuildPool resolves candidates for every selected module and runs the
// two-level build.
func (m *Modules) BuildPool(env Env) (*target.Pool, error) {
	board, err := env.Dict.Board(env.BoardName)
	if err != nil {
		return nil, err
	}

	modules, err := m.selectModules(board)
	if err != nil {
		return nil, err
	}

	candidates := make(map[string]selector.KindCandidates, len(modules))
	for _, name := range modules {
		c, err := moduleCandidates(board, name, env)
		if err != nil {
			return nil, err
		}
		candidates[name] = c
	}

	weights := make([]int, len(modules))
	for i, name := range modules {
		if w, ok := m.weights[name]; ok {
			weights[i] = w
		} else {
			weights[i] = 1
		}
	}

	ratioSel, err := selector.NewRatioSelector(m.ratio, m.repeat, env.RatioStrict, selector.SizePolicy{
		TargetCount:     m.poolSize,
		BreakRepeatOnly: env.BreakRepeatOnly,
		AbsoluteCap:     env.AbsoluteCap,
	}, m.rng)
	if err != nil {
		return nil, err
	}
	moduleSel, err := selector.NewWeightedModuleSelector(modules, weights, m.mode, m.rng)
	if err != nil {
		return nil, err
	}
	builder, err := selector.NewPoolBuilder(ratioSel, moduleSel, candidates)
	if err != nil {
		return nil, err
	}

	pool := target.NewPool()
	pool.AddMany(builder.Build())
	if pool.Len() == 0 {
		return nil, fmt.Errorf("modules %v produced no targets", modules)
	}
	log.Printf("[POOL] modules profile built %d targets over %v", pool.Len(), modules)
	return pool, nil
}

// selectModules applies the include/exclude filters over the board's module
// table.
func (m *Modules) selectModules(board sysdict.BoardDict) ([]string, error) {
	all := make([]string, 0, len(board.Modules))
	for name := range board.Modules {
		all = append(all, name)
	}

	include := m.include
	if len(include) == 0 {
		include = all
	}

	var selected []string
	for _, name := range include {
		if _, ok := board.Modules[name]; !ok {
			return nil, fmt.Errorf("module %q not in board dictionary, available: %v",
				name, all)
		}
		if !m.exclude[name] {
			selected = append(selected, name)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no modules left after filtering (available %v)", all)
	}

	// An explicit include list keeps its given order; the all-modules
	// default is sorted so campaigns are reproducible.
	if len(m.include) == 0 {
		sort.Strings(selected)
	}
	return selected, nil
}

// moduleCandidates builds the full candidate library for one module: its
// registers from the dictionary, its configuration bits from the pblock
// region expansion.
func moduleCandidates(board sysdict.BoardDict, moduleName string, env Env) (selector.KindCandidates, error) {
	module := board.Modules[moduleName]

	var c selector.KindCandidates
	for _, regID := range module.Registers {
		t, err := target.NewRegisterTarget(moduleName, regID, board.RegisterName(regID), "profile:modules")
		if err != nil {
			return selector.KindCandidates{}, err
		}
		c.Reg = append(c.Reg, t)
	}

	addrs, err := env.Addresses.Addresses(module.Pblock.Region)
	if err != nil {
		return selector.KindCandidates{}, fmt.Errorf("module %q: %w", moduleName, err)
	}
	for _, addr := range addrs {
		t, err := target.NewConfigTarget(moduleName, addr, module.Pblock.Name, "profile:modules")
		if err != nil {
			return selector.KindCandidates{}, err
		}
		c.Config = append(c.Config, t)
	}
	return c, nil
}

// #endregion
