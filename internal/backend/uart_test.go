package backend

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatori-v/fi-controller/internal/config"
	"github.com/fatori-v/fi-controller/internal/target"
)

// #region fakes

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("serial gone")
}

// #endregion

func TestSEMBackendWireFormat(t *testing.T) {
	var buf bytes.Buffer
	b := NewSEMBackend(&buf)

	if err := b.InjectConfig("0012ab34"); err != nil {
		t.Fatalf("InjectConfig: %v", err)
	}
	if got := buf.String(); got != "N 0012ab34\n" {
		t.Errorf("wire bytes = %q", got)
	}
}

func TestSEMBackendRejectsEmptyAddress(t *testing.T) {
	b := NewSEMBackend(&bytes.Buffer{})
	if err := b.InjectConfig(""); err == nil {
		t.Fatal("empty address accepted")
	}
}

func TestSEMBackendPropagatesWriteErrors(t *testing.T) {
	b := NewSEMBackend(failingWriter{})
	if err := b.InjectConfig("00000001"); err == nil {
		t.Fatal("write error swallowed")
	}
}

func TestBoardBackendWireFormat(t *testing.T) {
	var buf bytes.Buffer
	b, err := NewBoardBackend(&buf, 0, 8)
	if err != nil {
		t.Fatalf("NewBoardBackend: %v", err)
	}
	if err := b.InjectRegister(99, NoBitIndex); err != nil {
		t.Fatalf("InjectRegister: %v", err)
	}
	if got := buf.Bytes(); len(got) != 2 || got[0] != 0x52 || got[1] != 99 {
		t.Errorf("wire bytes = %v, want [0x52 99]", got)
	}
}

func TestBoardBackendValidation(t *testing.T) {
	var buf bytes.Buffer
	b, err := NewBoardBackend(&buf, 0, 4) // max reg id 15
	if err != nil {
		t.Fatalf("NewBoardBackend: %v", err)
	}
	cases := []struct {
		name  string
		regID int
	}{
		{"idle id", 0},
		{"negative", -3},
		{"beyond width", 16},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := b.InjectRegister(tc.regID, NoBitIndex); err == nil {
				t.Errorf("reg_id %d accepted", tc.regID)
			}
			if buf.Len() != 0 {
				t.Errorf("bytes reached the wire for invalid reg_id %d", tc.regID)
			}
		})
	}

	if _, err := NewBoardBackend(&buf, 0, 12); err == nil {
		t.Error("reg id width beyond one byte accepted")
	}
}

func TestForRequirements(t *testing.T) {
	cfg := config.DefaultConfig()
	var buf bytes.Buffer

	cb, rb, err := ForRequirements(target.BackendRequirements{Config: true}, cfg, &buf)
	if err != nil {
		t.Fatalf("ForRequirements: %v", err)
	}
	if _, ok := cb.(*SEMBackend); !ok {
		t.Errorf("CONFIG required but backend is %T", cb)
	}
	if _, ok := rb.(NoOpRegisterBackend); !ok {
		t.Errorf("REG not required but backend is %T", rb)
	}

	cfg.Debug = true
	cb, rb, err = ForRequirements(target.BackendRequirements{Config: true, Reg: true}, cfg, &buf)
	if err != nil {
		t.Fatalf("ForRequirements debug: %v", err)
	}
	if _, ok := cb.(NoOpConfigBackend); !ok {
		t.Errorf("debug mode config backend is %T", cb)
	}
	if _, ok := rb.(NoOpRegisterBackend); !ok {
		t.Errorf("debug mode register backend is %T", rb)
	}
}
