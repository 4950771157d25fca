package target

import (
	"errors"
	"strings"
	"testing"
)

func TestConstructorsBuildValidTargets(t *testing.T) {
	cfg, err := NewConfigTarget("alu", "0012ab34", "alu_pb", "profile:modules")
	if err != nil {
		t.Fatalf("NewConfigTarget: %v", err)
	}
	if cfg.Kind != KindConfig || cfg.ConfigAddress != "0012ab34" || cfg.RegID != 0 {
		t.Errorf("config target fields: %+v", cfg)
	}

	reg, err := NewRegisterTarget("decoder", 5, "dec_rec_q", "profile:modules")
	if err != nil {
		t.Fatalf("NewRegisterTarget: %v", err)
	}
	if reg.Kind != KindReg || reg.RegID != 5 || reg.ConfigAddress != "" {
		t.Errorf("register target fields: %+v", reg)
	}
}

func TestValidateRejectsKindFieldMismatches(t *testing.T) {
	cases := []struct {
		name string
		tgt  Target
	}{
		{"config without address", Target{Kind: KindConfig, ModuleName: "alu"}},
		{"config carrying reg_id", Target{Kind: KindConfig, ModuleName: "alu", ConfigAddress: "00aa", RegID: 3}},
		{"register without reg_id", Target{Kind: KindReg, ModuleName: "alu"}},
		{"register with zero reg_id", Target{Kind: KindReg, ModuleName: "alu", RegID: 0}},
		{"register carrying address", Target{Kind: KindReg, ModuleName: "alu", RegID: 3, ConfigAddress: "00aa"}},
		{"unknown kind", Target{Kind: "FLIPFLOP", ModuleName: "alu"}},
		{"zero value", Target{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tgt.Validate()
			if err == nil {
				t.Fatal("invalid target accepted")
			}
			if !errors.Is(err, ErrInvalidTarget) {
				t.Errorf("error %v does not wrap ErrInvalidTarget", err)
			}
		})
	}
}

func TestConstructorsRejectInvalidFields(t *testing.T) {
	if _, err := NewConfigTarget("alu", "", "alu_pb", "test"); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("empty address: err = %v", err)
	}
	if _, err := NewRegisterTarget("alu", 0, "", "test"); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("reg_id 0 (the wire idle ID): err = %v", err)
	}
	if _, err := NewRegisterTarget("alu", -1, "", "test"); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("negative reg_id: err = %v", err)
	}
}

func TestDescribe(t *testing.T) {
	cfg, _ := NewConfigTarget("alu", "0012ab34", "alu_pb", "test")
	if got := cfg.Describe(); !strings.Contains(got, "alu") || !strings.Contains(got, "0012ab34") {
		t.Errorf("Describe() = %q", got)
	}
	reg, _ := NewRegisterTarget("decoder", 5, "dec_rec_q", "test")
	if got := reg.Describe(); !strings.Contains(got, "decoder") || !strings.Contains(got, "5") {
		t.Errorf("Describe() = %q", got)
	}
}
