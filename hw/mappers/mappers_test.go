package mappers

import (
	"errors"
	"os"
	"testing"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/tests"
)

func TestMain(m *testing.M) {
	log.Disable()
	os.Exit(m.Run())
}

func load(t *testing.T, rom tests.ROM) (*hw.NES, *hw.Cartridge, error) {
	t.Helper()

	nes := hw.NewNES()
	cart := hw.NewCartridge(rom.Rom(t))
	err := Load(cart, nes)
	return nes, cart, err
}

func TestNROM(t *testing.T) {
	rom := tests.ROM{
		CHRBanks: 1,
		Vertical: true,
		Code: map[uint16][]byte{
			0x8000: {0xEA, 0x4C},
			0xBFF0: {0x60},
		},
		CHR: map[int][]byte{0x10: {0xAA, 0x55}},
	}
	nes, cart, err := load(t, rom)
	if err != nil {
		t.Fatal(err)
	}
	if nes.Bus.Cart != cart {
		t.Fatalf("cartridge not inserted in the bus")
	}

	bus := nes.Bus
	for _, tt := range []struct {
		addr uint16
		want uint8
	}{
		{0x8000, 0xEA},
		{0x8001, 0x4C},
		{0xBFF0, 0x60},
		{0xC000, 0xEA}, // 16KB mirrored
		{0xFFF0, 0x60},
		{0xFFFC, 0x00}, // reset vector $8000
		{0xFFFD, 0x80},
	} {
		if got := bus.Read8(tt.addr); got != tt.want {
			t.Errorf("Read8($%04X) = %#02x, want %#02x", tt.addr, got, tt.want)
		}
	}

	bus.Write8(0x8000, 0x00)
	if got := bus.Read8(0x8000); got != 0xEA {
		t.Errorf("PRG ROM written: Read8($8000) = %#02x", got)
	}

	bus.Write8(0x6123, 0x99)
	if cart.SRAM[0x123] != 0x99 {
		t.Errorf("SRAM[$123] = %#02x, want 0x99", cart.SRAM[0x123])
	}

	ppu := nes.PPU.Bus
	if got := ppu.Read8(0x0010); got != 0xAA {
		t.Errorf("CHR Read8($0010) = %#02x, want 0xAA", got)
	}
	ppu.Write8(0x0011, 0x00)
	if got := ppu.Read8(0x0011); got != 0x55 {
		t.Errorf("CHR ROM written: Read8($0011) = %#02x", got)
	}

	// Vertical mirroring: $2000 and $2800 share a nametable.
	ppu.Write8(0x2005, 0x77)
	if got := ppu.Read8(0x2805); got != 0x77 {
		t.Errorf("Read8($2805) = %#02x, want 0x77", got)
	}
	if got := ppu.Read8(0x2405); got != 0x00 {
		t.Errorf("Read8($2405) = %#02x, want 0x00", got)
	}
}

func TestNROM32K(t *testing.T) {
	rom := tests.ROM{
		PRGBanks: 2,
		Code: map[uint16][]byte{
			0x8000: {0x11},
			0xC000: {0x22},
		},
	}
	nes, _, err := load(t, rom)
	if err != nil {
		t.Fatal(err)
	}
	if got := nes.Bus.Read8(0x8000); got != 0x11 {
		t.Errorf("Read8($8000) = %#02x, want 0x11", got)
	}
	if got := nes.Bus.Read8(0xC000); got != 0x22 {
		t.Errorf("Read8($C000) = %#02x, want 0x22", got)
	}
}

func TestNROMCHRRAM(t *testing.T) {
	nes, cart, err := load(t, tests.ROM{})
	if err != nil {
		t.Fatal(err)
	}
	if !cart.CHRRAM {
		t.Fatalf("cartridge without CHR ROM should use CHR RAM")
	}
	nes.PPU.Bus.Write8(0x1FFF, 0x42)
	if got := nes.PPU.Bus.Read8(0x1FFF); got != 0x42 {
		t.Errorf("CHR RAM Read8($1FFF) = %#02x, want 0x42", got)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("unsupported", func(t *testing.T) {
		nes, _, err := load(t, tests.ROM{Mapper: 4})
		if !errors.Is(err, ErrUnsupported) {
			t.Fatalf("Load() = %v, want ErrUnsupported", err)
		}
		if nes.Bus.Cart != nil {
			t.Errorf("cartridge inserted despite error")
		}
	})

	t.Run("too many PRG banks", func(t *testing.T) {
		_, _, err := load(t, tests.ROM{PRGBanks: 4})
		if err == nil || errors.Is(err, ErrUnsupported) {
			t.Fatalf("Load() = %v, want a bank count error", err)
		}
	})
}

func TestName(t *testing.T) {
	if got := Name(0); got != "NROM" {
		t.Errorf("Name(0) = %q, want NROM", got)
	}
	if got := Name(4); got != "unknown" {
		t.Errorf("Name(4) = %q, want unknown", got)
	}
}
