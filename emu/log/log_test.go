package log

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestZFieldValue(t *testing.T) {
	tests := []struct {
		f    ZField
		want string
	}{
		{ZField{Type: FieldTypeHex8, Integer: 0x7}, "$07"},
		{ZField{Type: FieldTypeHex16, Integer: 0xC000}, "$C000"},
		{ZField{Type: FieldTypeBool, Boolean: true}, "true"},
		{ZField{Type: FieldTypeInt, Integer: uint64(^uint64(0))}, "-1"},
		{ZField{Type: FieldTypeError, Error: errors.New("boom")}, "boom"},
		{ZField{Type: FieldTypeError}, "<nil>"},
		{ZField{Type: FieldTypeBlob, Blob: []byte{0xde, 0xad}}, "dead"},
	}
	for _, tt := range tests {
		if got := tt.f.Value(); got != tt.want {
			t.Errorf("Value(%+v) = %q, want %q", tt.f, got, tt.want)
		}
	}
}

func TestModuleEnabled(t *testing.T) {
	mod := NewModule("testmod")
	if mod.Enabled(DebugLevel) {
		t.Fatalf("debug level enabled by default")
	}
	if !mod.Enabled(WarnLevel) {
		t.Fatalf("warn level disabled by default")
	}
	if mod.DebugZ("nope") != nil {
		t.Fatalf("DebugZ should return nil entry when disabled")
	}

	EnableDebugModules(mod.Mask())
	defer DisableDebugModules(mod.Mask())
	if !mod.Enabled(DebugLevel) {
		t.Fatalf("debug level not enabled after EnableDebugModules")
	}

	got, ok := ModuleByName("testmod")
	if !ok || got != mod {
		t.Fatalf("ModuleByName(testmod) = %v, %t", got, ok)
	}
}

func TestEntryZOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	ModCPU.WarnZ("halted").Hex16("pc", 0x8000).Hex8("op", 0x02).End()

	out := buf.String()
	for _, want := range []string{"halted", "$8000", "$02", "cpu"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q doesn't contain %q", out, want)
		}
	}
}

func TestNilEntryZ(t *testing.T) {
	var e *EntryZ
	// all methods must be callable on a nil entry
	e.Hex8("a", 1).Hex16("b", 2).String("c", "d").Bool("e", true).Error("f", nil).End()
}
