package ines

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/go-faster/jx"
	"github.com/google/go-cmp/cmp"
)

func image(hdr [HeaderSize]byte, sections ...[]byte) []byte {
	buf := append([]byte(nil), hdr[:]...)
	for _, s := range sections {
		buf = append(buf, s...)
	}
	return buf
}

func hdr(b4, b5, b6, b7 byte) [HeaderSize]byte {
	return [HeaderSize]byte{'N', 'E', 'S', 0x1a, b4, b5, b6, b7}
}

func TestDecodeHeader(t *testing.T) {
	prg := bytes.Repeat([]byte{0xEA}, 2*PRGBankSize)
	chr := bytes.Repeat([]byte{0x55}, CHRBankSize)
	rom, err := Decode(image(hdr(2, 1, 0x13, 0x40), prg, chr))
	if err != nil {
		t.Fatal(err)
	}

	got := rom.Infos()
	want := Infos{
		PRGSize:   2 * PRGBankSize,
		CHRSize:   CHRBankSize,
		Mapper:    0x41,
		Mirroring: VertMirroring,
		Battery:   true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Infos mismatch (-want +got):\n%s", diff)
	}
	if len(rom.PRG) != len(prg) || len(rom.CHR) != len(chr) {
		t.Errorf("section sizes: PRG=%d CHR=%d", len(rom.PRG), len(rom.CHR))
	}
}

func TestDecodeTrainer(t *testing.T) {
	trainer := bytes.Repeat([]byte{0x77}, TrainerSize)
	prg := bytes.Repeat([]byte{0x01}, PRGBankSize)
	rom, err := Decode(image(hdr(1, 0, 0x04, 0), trainer, prg))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(rom.Trainer, trainer) {
		t.Errorf("trainer not decoded")
	}
	if rom.PRG[0] != 0x01 {
		t.Errorf("PRG[0] = %02X, want 01 (trainer not skipped)", rom.PRG[0])
	}
	if !rom.Infos().CHRRAM {
		t.Errorf("CHRRAM = false, want true with 0 CHR banks")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want error
	}{
		{"empty", nil, ErrTruncated},
		{"short header", []byte("NES\x1a\x01"), ErrTruncated},
		{"bad magic", image([HeaderSize]byte{'N', 'E', 'Z', 0x1a}), ErrBadMagic},
		{"missing trainer", image(hdr(1, 0, 0x04, 0)), ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.buf)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeTruncatedPRG(t *testing.T) {
	// Truncated dumps are accepted, missing bytes are left to the cartridge.
	rom, err := Decode(image(hdr(2, 0, 0, 0), []byte{1, 2, 3}))
	if err != nil {
		t.Fatal(err)
	}
	if len(rom.PRG) != 3 {
		t.Errorf("len(PRG) = %d, want 3", len(rom.PRG))
	}
	if rom.PRGSize() != 2*PRGBankSize {
		t.Errorf("PRGSize() = %d, want %d", rom.PRGSize(), 2*PRGBankSize)
	}
}

func TestInfosJSON(t *testing.T) {
	want := Infos{
		PRGSize:    PRGBankSize,
		CHRRAM:     true,
		Mapper:     0,
		MapperName: "NROM",
		Mirroring:  VertMirroring,
		Trainer:    true,
	}

	var e jx.Encoder
	want.Encode(&e)

	var got Infos
	if err := got.Decode(jx.DecodeBytes(e.Bytes())); err != nil {
		t.Fatalf("decode %s: %v", e.Bytes(), err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSON round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestInfosText(t *testing.T) {
	var buf bytes.Buffer
	infos := Infos{PRGSize: 2 * PRGBankSize, CHRSize: CHRBankSize, MapperName: "NROM"}
	if err := infos.WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"32KB", "8KB", "000 (NROM)", "horizontal"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("text output doesn't contain %q:\n%s", want, buf.String())
		}
	}
}
