package input

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestButtons(t *testing.T) {
	var bs Buttons
	bs.Set(A, true)
	bs.Set(Start, true)
	bs.Set(Right, true)
	bs.Set(Right, false)

	if got, want := uint8(bs), uint8(0b0000_1001); got != want {
		t.Fatalf("Buttons = %08b, want %08b", got, want)
	}
	if got := bs.String(); got != "A+Start" {
		t.Errorf("String() = %q, want A+Start", got)
	}
	if got := Buttons(0).String(); got != "none" {
		t.Errorf("String() = %q, want none", got)
	}
}

func TestButtonByName(t *testing.T) {
	for b := range NumButtons {
		got, ok := ButtonByName(b.String())
		if !ok || got != b {
			t.Errorf("ButtonByName(%q) = %v, %t", b.String(), got, ok)
		}
	}
	if _, ok := ButtonByName("turbo"); ok {
		t.Errorf("ButtonByName(turbo) should fail")
	}
}

func TestConfigMapping(t *testing.T) {
	cfg := Config{Keys: map[string]string{"a": "K", "start": "Space"}}
	got, err := cfg.Mapping()
	if err != nil {
		t.Fatal(err)
	}
	want := [NumButtons]string{"K", "Z", "Right Shift", "Space", "Up", "Down", "Left", "Right"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Mapping() mismatch (-want +got):\n%s", diff)
	}

	cfg = Config{Keys: map[string]string{"Turbo": "T"}}
	if _, err := cfg.Mapping(); err == nil {
		t.Errorf("Mapping() with unknown button: want error")
	}
}
