package area

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatori-v/fi-controller/internal/sysdict"
	"github.com/fatori-v/fi-controller/internal/target"
)

// #region fixtures

type fakeAddresses struct {
	byRegion map[string][]string
}

func (f fakeAddresses) Addresses(region string) ([]string, error) {
	addrs, ok := f.byRegion[region]
	if !ok {
		return nil, fmt.Errorf("no address list for region %q", region)
	}
	return addrs, nil
}

func testEnv() Env {
	dict := &sysdict.SystemDict{
		Boards: map[string]sysdict.BoardDict{
			"basys3": {
				FullDeviceRegion: "X0Y0:X3Y3",
				Registers: []sysdict.RegisterInfo{
					{RegID: 1, Name: "alu_acc_q"},
					{RegID: 2, Name: "alu_flag_q"},
					{RegID: 3, Name: "dec_op_q"},
				},
				Modules: map[string]sysdict.ModuleInfo{
					"alu": {
						Registers: []int{1, 2},
						Pblock:    sysdict.PblockInfo{Name: "alu_pb", Region: "X0Y0:X1Y1"},
					},
					"decoder": {
						Registers: []int{3},
						Pblock:    sysdict.PblockInfo{Name: "dec_pb", Region: "X2Y0:X3Y1"},
					},
				},
			},
		},
	}
	return Env{
		Dict:      dict,
		BoardName: "basys3",
		Addresses: fakeAddresses{byRegion: map[string][]string{
			"X0Y0:X1Y1": {"000000a1", "000000a2", "000000a3", "000000a4"},
			"X2Y0:X3Y1": {"000000b1", "000000b2"},
			"X0Y0:X3Y3": {"000000c1", "000000c2", "000000c3", "000000c4", "000000c5", "000000c6"},
		}},
		BreakRepeatOnly: true,
	}
}

func countKinds(t *testing.T, pool *target.Pool) (config, reg int) {
	t.Helper()
	byKind := pool.CountByKind()
	return byKind[target.KindConfig], byKind[target.KindReg]
}

// #endregion

func TestRegistryNames(t *testing.T) {
	want := []string{"device", "modules", "target_list"}
	got := Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
		if Describe(want[i]) == "" {
			t.Errorf("no description for %q", want[i])
		}
	}
}

func TestNewUnknownProfile(t *testing.T) {
	if _, err := New("pblock", "", 1); err == nil {
		t.Error("unknown profile accepted")
	}
}

func TestConstructionErrorsAreEager(t *testing.T) {
	cases := []struct {
		name    string
		profile string
		args    string
	}{
		{"ratio above one", "modules", "ratio=1.5"},
		{"negative pool size", "modules", "pool_size=-5"},
		{"malformed weights", "modules", "weights=alu3"},
		{"non-numeric weight", "modules", "weights=alu:x"},
		{"bad repeat flag", "modules", "repeat=maybe"},
		{"device bad order", "device", "order=shuffled"},
		{"device ratio below zero", "device", "ratio=-0.1"},
		{"target_list without file", "target_list", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.profile, tc.args, 1); err == nil {
				t.Errorf("New(%q, %q) accepted", tc.profile, tc.args)
			}
		})
	}
}

func TestModulesHonorsRatio(t *testing.T) {
	b, err := New("modules", "ratio=0.5;repeat=true;pool_size=20", 7)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pool, err := b.BuildPool(testEnv())
	if err != nil {
		t.Fatalf("BuildPool: %v", err)
	}
	if pool.Len() != 20 {
		t.Fatalf("pool size = %d, want 20", pool.Len())
	}
	config, reg := countKinds(t, pool)
	if config != 10 || reg != 10 {
		t.Errorf("kind split = %d config / %d reg, want 10/10", config, reg)
	}
}

func TestModulesExcludeFilter(t *testing.T) {
	b, err := New("modules", "exclude=decoder;ratio=0.0", 7)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pool, err := b.BuildPool(testEnv())
	if err != nil {
		t.Fatalf("BuildPool: %v", err)
	}
	pool.Reset()
	for tgt := pool.PopNext(); tgt != nil; tgt = pool.PopNext() {
		if tgt.ModuleName != "alu" {
			t.Fatalf("excluded module supplied target %s", tgt.Describe())
		}
	}
	// Pure CONFIG mode drains only the alu pblock expansion.
	if pool.Len() != 4 {
		t.Errorf("pool size = %d, want 4", pool.Len())
	}
}

func TestModulesRejectsUnknownInclude(t *testing.T) {
	b, err := New("modules", "include=alu,mmu", 7)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := b.BuildPool(testEnv()); err == nil {
		t.Error("unknown module in include list accepted")
	}
}

func TestModulesRejectsEmptySelection(t *testing.T) {
	b, err := New("modules", "include=alu;exclude=alu", 7)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := b.BuildPool(testEnv()); err == nil {
		t.Error("empty module selection accepted")
	}
}

func TestDevicePureConfigExhausts(t *testing.T) {
	b, err := New("device", "ratio=0.0;repeat=false", 7)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pool, err := b.BuildPool(testEnv())
	if err != nil {
		t.Fatalf("BuildPool: %v", err)
	}
	config, reg := countKinds(t, pool)
	if config != 6 || reg != 0 {
		t.Fatalf("kind split = %d config / %d reg, want 6/0", config, reg)
	}
	// Sequential order preserves the address-list order.
	pool.Reset()
	first := pool.PopNext()
	if first.ConfigAddress != "000000c1" || first.ModuleName != "device" {
		t.Errorf("first target = %s", first.Describe())
	}
}

func TestDeviceRepeatDefaultsPoolSize(t *testing.T) {
	b, err := New("device", "ratio=0.5", 7)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pool, err := b.BuildPool(testEnv())
	if err != nil {
		t.Fatalf("BuildPool: %v", err)
	}
	if pool.Len() != DefaultDevicePoolSize {
		t.Errorf("pool size = %d, want %d", pool.Len(), DefaultDevicePoolSize)
	}
}

func TestDeviceSampleSizeLimitsConfigTargets(t *testing.T) {
	env := testEnv()
	b, err := New("device", "ratio=0.0;repeat=false;sample_size=3", 7)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pool, err := b.BuildPool(env)
	if err != nil {
		t.Fatalf("BuildPool: %v", err)
	}
	if pool.Len() != 3 {
		t.Fatalf("pool size = %d, want 3", pool.Len())
	}
	valid := map[string]bool{}
	for _, a := range env.Addresses.(fakeAddresses).byRegion["X0Y0:X3Y3"] {
		valid[a] = true
	}
	pool.Reset()
	for tgt := pool.PopNext(); tgt != nil; tgt = pool.PopNext() {
		if !valid[tgt.ConfigAddress] {
			t.Errorf("sampled address %q not from the device expansion", tgt.ConfigAddress)
		}
	}
}

func TestTargetListRoundTrip(t *testing.T) {
	src := target.NewPool()
	tgt, err := target.NewRegisterTarget("alu", 2, "alu_flag_q", "test")
	if err != nil {
		t.Fatalf("NewRegisterTarget: %v", err)
	}
	src.Add(tgt)
	path := filepath.Join(t.TempDir(), "pool.yaml")
	if err := target.SavePoolFile(path, src); err != nil {
		t.Fatalf("SavePoolFile: %v", err)
	}

	b, err := New("target_list", "pool_file="+path, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pool, err := b.BuildPool(Env{})
	if err != nil {
		t.Fatalf("BuildPool: %v", err)
	}
	if pool.Len() != 1 {
		t.Fatalf("pool size = %d", pool.Len())
	}
	pool.Reset()
	if got := pool.PopNext(); got.RegID != 2 || got.ModuleName != "alu" {
		t.Errorf("loaded target = %s", got.Describe())
	}
}

func TestTargetListMissingFile(t *testing.T) {
	b, err := New("target_list", "pool_file="+filepath.Join(os.TempDir(), "does-not-exist.yaml"), 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := b.BuildPool(Env{}); err == nil {
		t.Error("missing pool file accepted")
	}
}
