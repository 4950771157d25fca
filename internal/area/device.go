package area

// #region imports
import (
	"fmt"
	"log"
	"math/rand"

	"github.com/fatori-v/fi-controller/internal/profile"
	"github.com/fatori-v/fi-controller/internal/selector"
	"github.com/fatori-v/fi-controller/internal/target"
)

// #endregion

// #region device-builder

// DefaultDevicePoolSize bounds the repeat-mode device pool when no explicit
// size is requested. The full-device expansion is huge; an unbounded repeat
// pool over it is never what anyone wants.
const DefaultDevicePoolSize = 200

// Device is the device-wide builder: every configuration bit of the full
// device region plus every register of every module, intermixed by the
// CONFIG/REG ratio. This is the single-module degenerate case of the
// two-level build, so it uses the ratio selector directly.
type Device struct {
	order      string // "sequential" or "random"
	ratio      float64
	repeat     bool
	poolSize   int
	sampleSize int // 0 means no CONFIG sampling
	rng        *rand.Rand
}

func newDevice(args profile.Params, areaSeed int64) (Builder, error) {
	ratio, err := args.Float("ratio", 0.5)
	if err != nil {
		return nil, err
	}
	if ratio < 0.0 || ratio > 1.0 {
		return nil, fmt.Errorf("ratio must be in [0.0, 1.0], got %v", ratio)
	}
	repeat, err := args.Bool("repeat", true)
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
	if poolSize == 0 && repeat {
		poolSize = DefaultDevicePoolSize
	}
	sampleSize, err := args.Int("sample_size", 0)
	if err != nil {
		return nil, err
	}
	if sampleSize < 0 {
		return nil, fmt.Errorf("sample_size must not be negative, got %d", sampleSize)
	}
	order := args.String("order", args.String("mode", "sequential"))
	if order != "sequential" && order != "random" {
		return nil, fmt.Errorf("order must be \"sequential\" or \"random\", got %q", order)
	}
	rng, err := args.Rand(areaSeed)
	if err != nil {
		return nil, err
	}

	return &Device{
		order:      order,
		ratio:      ratio,
		repeat:     repeat,
		poolSize:   poolSize,
		sampleSize: sampleSize,
		rng:        rng,
	}, nil
}

// #endregion

// #region build

// BuildPool expands the full device region, collects every register, and
// intermixes the two lists through the ratio selector.
func (d *Device) BuildPool(env Env) (*target.Pool, error) {
	board, err := env.Dict.Board(env.BoardName)
	if err != nil {
		return nil, err
	}

	addrs, err := env.Addresses.Addresses(board.FullDeviceRegion)
	if err != nil {
		return nil, fmt.Errorf("full device region: %w", err)
	}
	if d.sampleSize > 0 && len(addrs) > d.sampleSize {
		addrs = sample(d.rng, addrs, d.sampleSize)
	}

	configTargets := make([]target.Target, 0, len(addrs))
	for _, addr := range addrs {
		t, err := target.NewConfigTarget("device", addr, "", "profile:device")
		if err != nil {
			return nil, err
		}
		configTargets = append(configTargets, t)
	}

	refs, err := board.RegisterIndex(nil)
	if err != nil {
		return nil, err
	}
	regTargets := make([]target.Target, 0, len(refs))
	for _, ref := range refs {
		t, err := target.NewRegisterTarget(ref.ModuleName, ref.RegID, ref.RegName, "profile:device")
		if err != nil {
			return nil, err
		}
		regTargets = append(regTargets, t)
	}

	if len(configTargets) == 0 && len(regTargets) == 0 {
		return nil, fmt.Errorf("board %q yields no device-wide targets", env.BoardName)
	}

	ratioSel, err := selector.NewRatioSelector(d.ratio, d.repeat, env.RatioStrict, selector.SizePolicy{
		TargetCount:     d.poolSize,
		BreakRepeatOnly: env.BreakRepeatOnly,
		AbsoluteCap:     env.AbsoluteCap,
	}, d.rng)
	if err != nil {
		return nil, err
	}

	var built []target.Target
	if d.order == "random" {
		built = ratioSel.BuildRandomIntermixed(configTargets, regTargets)
	} else {
		built = ratioSel.BuildSequentialIntermixed(configTargets, regTargets)
	}

	pool := target.NewPool()
	pool.AddMany(built)
	log.Printf("[POOL] device profile built %d targets (%d config bits, %d registers available)",
		pool.Len(), len(configTargets), len(regTargets))
	return pool, nil
}

// sample draws n distinct elements in stable random order.
func sample(rng *rand.Rand, addrs []string, n int) []string {
	out := make([]string, 0, n)
	for _, i := range rng.Perm(len(addrs))[:n] {
		out = append(out, addrs[i])
	}
	return out
}

// #endregion
