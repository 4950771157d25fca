package sysdict

import (
	"fmt"
	"testing"
)

// #region fakes

type countingSource struct {
	calls map[string]int
	fail  bool
}

func (s *countingSource) Addresses(region string) ([]string, error) {
	if s.fail {
		return nil, fmt.Errorf("decode region %s: geometry unavailable", region)
	}
	s.calls[region]++
	return []string{region + ":000000aa", region + ":000000ab"}, nil
}

// #endregion

func TestCachedAddressSourceMemoizes(t *testing.T) {
	inner := &countingSource{calls: map[string]int{}}
	src, err := NewCachedAddressSource(inner, 8)
	if err != nil {
		t.Fatalf("NewCachedAddressSource: %v", err)
	}

	for i := 0; i < 3; i++ {
		addrs, err := src.Addresses("X1Y2")
		if err != nil {
			t.Fatalf("Addresses: %v", err)
		}
		if len(addrs) != 2 {
			t.Fatalf("got %d addresses", len(addrs))
		}
	}
	if inner.calls["X1Y2"] != 1 {
		t.Errorf("inner expanded %d times, want 1", inner.calls["X1Y2"])
	}
}

func TestCachedAddressSourceEvicts(t *testing.T) {
	inner := &countingSource{calls: map[string]int{}}
	src, err := NewCachedAddressSource(inner, 1)
	if err != nil {
		t.Fatalf("NewCachedAddressSource: %v", err)
	}

	if _, err := src.Addresses("A"); err != nil {
		t.Fatal(err)
	}
	if _, err := src.Addresses("B"); err != nil {
		t.Fatal(err)
	}
	if _, err := src.Addresses("A"); err != nil {
		t.Fatal(err)
	}
	if inner.calls["A"] != 2 {
		t.Errorf("region A expanded %d times after eviction, want 2", inner.calls["A"])
	}
}

func TestCachedAddressSourceDoesNotCacheErrors(t *testing.T) {
	inner := &countingSource{calls: map[string]int{}, fail: true}
	src, err := NewCachedAddressSource(inner, 4)
	if err != nil {
		t.Fatalf("NewCachedAddressSource: %v", err)
	}
	if _, err := src.Addresses("X"); err == nil {
		t.Fatal("expected error from failing source")
	}
	inner.fail = false
	addrs, err := src.Addresses("X")
	if err != nil {
		t.Fatalf("Addresses after recovery: %v", err)
	}
	if len(addrs) != 2 {
		t.Fatalf("got %d addresses after recovery", len(addrs))
	}
}

func TestRegisterIndex(t *testing.T) {
	board := BoardDict{
		FullDeviceRegion: "R",
		Registers: []RegisterInfo{
			{RegID: 1, Name: "alu_out"},
			{RegID: 2, Name: "alu_acc"},
			{RegID: 3, Name: "dec_opcode"},
		},
		Modules: map[string]ModuleInfo{
			"alu":     {Registers: []int{1, 2}, Pblock: PblockInfo{Name: "a", Region: "R"}},
			"decoder": {Registers: []int{3}, Pblock: PblockInfo{Name: "d", Region: "R"}},
		},
	}

	refs, err := board.RegisterIndex([]string{"decoder", "alu"})
	if err != nil {
		t.Fatalf("RegisterIndex: %v", err)
	}
	want := []RegisterRef{
		{"decoder", 3, "dec_opcode"},
		{"alu", 1, "alu_out"},
		{"alu", 2, "alu_acc"},
	}
	if len(refs) != len(want) {
		t.Fatalf("got %d refs, want %d", len(refs), len(want))
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Errorf("ref %d = %+v, want %+v", i, refs[i], want[i])
		}
	}

	// Empty selection walks every module in name order.
	refs, err = board.RegisterIndex(nil)
	if err != nil {
		t.Fatalf("RegisterIndex(nil): %v", err)
	}
	if len(refs) != 3 || refs[0].ModuleName != "alu" {
		t.Fatalf("RegisterIndex(nil) = %+v", refs)
	}

	if _, err := board.RegisterIndex([]string{"fpu"}); err == nil {
		t.Error("expected error for unknown module")
	}
}
