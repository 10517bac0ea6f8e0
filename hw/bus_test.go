package hw

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"nescore/hw/input"
	"nescore/ines"
	"nescore/tests"
)

func TestBusRAMMirroring(t *testing.T) {
	bus := NewBus(NewPPU())

	bus.Write8(0x0000, 0x5A)
	for _, addr := range []uint16{0x0800, 0x1000, 0x1800} {
		if got := bus.Read8(addr); got != 0x5A {
			t.Errorf("Read8($%04X) = %#02x, want 0x5A", addr, got)
		}
	}

	bus.Write8(0x1FFF, 0xA5)
	if got := bus.Read8(0x07FF); got != 0xA5 {
		t.Errorf("Read8($07FF) = %#02x, want 0xA5", got)
	}
}

func TestBusPPURegisterMirroring(t *testing.T) {
	ppu := NewPPU()
	bus := NewBus(ppu)

	// $3FFE and $2006 are the same port, so is $200F and $2007.
	bus.Write8(0x3FFE, 0x21)
	bus.Write8(0x2006, 0x08)
	bus.Write8(0x200F, 0x77)

	if got := ppu.Bus.Peek8(0x2108); got != 0x77 {
		t.Errorf("VRAM[$2108] = %#02x, want 0x77", got)
	}
}

func TestBusUnmapped(t *testing.T) {
	bus := NewBus(NewPPU())

	for _, addr := range []uint16{0x4000, 0x4015, 0x4017, 0x4018, 0x5000, 0x5FFF, 0x6000, 0x8000, 0xFFFF} {
		bus.Write8(addr, 0xFF)
		if got := bus.Read8(addr); got != 0 {
			t.Errorf("Read8($%04X) = %#02x, want 0", addr, got)
		}
	}
}

func TestBusCartridge(t *testing.T) {
	nes := newTestNES(t, tests.ROM{
		Code: map[uint16][]byte{0x8000: {0xAB, 0xCD}},
	})
	bus := nes.Bus

	// Single bank: $C000 mirrors $8000.
	if got := bus.Read8(0xC000); got != 0xAB {
		t.Errorf("Read8($C000) = %#02x, want 0xAB", got)
	}
	if got := bus.Read8(0xC001); got != 0xCD {
		t.Errorf("Read8($C001) = %#02x, want 0xCD", got)
	}

	// ROM writes are dropped.
	bus.Write8(0x8000, 0x00)
	if got := bus.Read8(0x8000); got != 0xAB {
		t.Errorf("Read8($8000) after write = %#02x, want 0xAB", got)
	}

	// Save RAM.
	bus.Write8(0x6000, 0x11)
	bus.Write8(0x7FFF, 0x22)
	if got := bus.Cart.SRAM[0]; got != 0x11 {
		t.Errorf("SRAM[0] = %#02x, want 0x11", got)
	}
	if got := bus.Cart.SRAM[SRAMSize-1]; got != 0x22 {
		t.Errorf("SRAM[last] = %#02x, want 0x22", got)
	}
	bus.Cart.SRAM[1] = 0x33
	if got := bus.Read8(0x6001); got != 0x33 {
		t.Errorf("Read8($6001) = %#02x, want 0x33", got)
	}

	bus.Eject()
	if got := bus.Read8(0x8000); got != 0 {
		t.Errorf("Read8($8000) after eject = %#02x, want 0", got)
	}
	if got := bus.Read8(0x6000); got != 0 {
		t.Errorf("Read8($6000) after eject = %#02x, want 0", got)
	}
}

func TestBusTwoBanks(t *testing.T) {
	nes := newTestNES(t, tests.ROM{
		PRGBanks: 2,
		Code: map[uint16][]byte{
			0x8000: {0x01},
			0xC000: {0x02},
		},
	})
	if got := nes.Bus.Read8(0x8000); got != 0x01 {
		t.Errorf("Read8($8000) = %#02x, want 0x01", got)
	}
	if got := nes.Bus.Read8(0xC000); got != 0x02 {
		t.Errorf("Read8($C000) = %#02x, want 0x02", got)
	}
}

func TestBusEjectRestoresPPU(t *testing.T) {
	nes := newTestNES(t, tests.ROM{
		CHRBanks: 1,
		CHR:      map[int][]byte{0: {0x5A}},
		Vertical: true,
	})
	ppu := nes.PPU

	if got := ppu.Bus.Read8(0x0000); got != 0x5A {
		t.Fatalf("CHR[0] = %#02x, want 0x5A", got)
	}

	nes.Bus.Eject()

	// Pattern tables are back to the internal RAM, writable and blank.
	if got := ppu.Bus.Read8(0x0000); got != 0 {
		t.Errorf("CHR[0] after eject = %#02x, want 0", got)
	}
	ppu.Bus.Write8(0x0000, 0x77)
	if got := ppu.Bus.Read8(0x0000); got != 0x77 {
		t.Errorf("CHR[0] after write = %#02x, want 0x77", got)
	}

	// Horizontal layout: $2000 aliases $2400, not $2800.
	ppu.Bus.Write8(0x2000, 0x99)
	if got := ppu.Bus.Read8(0x2400); got != 0x99 {
		t.Errorf("Read8($2400) = %#02x, want 0x99", got)
	}
	if got := ppu.Bus.Read8(0x2800); got == 0x99 {
		t.Errorf("Read8($2800) = %#02x, want vertical mirroring undone", got)
	}
}

func TestCartridgeShortImage(t *testing.T) {
	buf := tests.ROM{
		PRGBanks: 2,
		Code:     map[uint16][]byte{0x8000: {0x42}},
	}.Bytes()
	buf = buf[:ines.HeaderSize+0x4000]

	rom, err := ines.Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	cart := NewCartridge(rom)
	if len(cart.PRG) != 0x8000 {
		t.Fatalf("len(PRG) = %#x, want 0x8000", len(cart.PRG))
	}
	if got := cart.PRG[0]; got != 0x42 {
		t.Errorf("PRG[0] = %#02x, want 0x42", got)
	}
	if got := cart.PRG[0x7FFC]; got != 0 {
		t.Errorf("PRG[$7FFC] past image = %#02x, want 0", got)
	}
	if !cart.CHRRAM {
		t.Errorf("CHRRAM = false, want true without CHR banks")
	}
}

func TestBusAddressingHelpers(t *testing.T) {
	bus := NewBus(NewPPU())

	if got := bus.ZeroPageIdx(0xFF, 0x02); got != 0x0001 {
		t.Errorf("ZeroPageIdx($FF, 2) = $%04X, want $0001", got)
	}
	if got := bus.AbsoluteIdx(0xFFFF, 0x01); got != 0x0000 {
		t.Errorf("AbsoluteIdx($FFFF, 1) = $%04X, want $0000", got)
	}
	if got := bus.AbsoluteIdx(0x12F0, 0x20); got != 0x1310 {
		t.Errorf("AbsoluteIdx($12F0, $20) = $%04X, want $1310", got)
	}

	// Pointer bytes straddling the end of zero page wrap to $00.
	bus.Write8(0x00FF, 0x34)
	bus.Write8(0x0000, 0x12)
	bus.Write8(0x0100, 0x99)

	if got := bus.IndexedIndirect(0xF0, 0x0F); got != 0x1234 {
		t.Errorf("IndexedIndirect($F0, $0F) = $%04X, want $1234", got)
	}
	if got := bus.IndirectIndexed(0xFF, 0xF0); got != 0x1324 {
		t.Errorf("IndirectIndexed($FF, $F0) = $%04X, want $1324", got)
	}

	bus.Write8(0x0010, 0xF0)
	bus.Write8(0x0011, 0xFF)
	if got := bus.IndirectIndexed(0x10, 0x20); got != 0x0010 {
		t.Errorf("IndirectIndexed($10, $20) = $%04X, want $0010", got)
	}
}

func TestOAMDMA(t *testing.T) {
	ppu := NewPPU()
	bus := NewBus(ppu)

	var want [256]uint8
	for i := range want {
		want[i] = uint8(i ^ 0x5A)
		bus.Write8(0x0200+uint16(i), want[i])
	}

	bus.Write8(0x2003, 0x00)
	bus.Write8(0x4014, 0x02)
	if diff := cmp.Diff(want, ppu.OAM); diff != "" {
		t.Errorf("OAM mismatch (-want +got):\n%s", diff)
	}
	if got := bus.takeStall(); got != 513 {
		t.Errorf("stall = %d cycles, want 513", got)
	}
	if got := bus.takeStall(); got != 0 {
		t.Errorf("stall not consumed: %d", got)
	}

	// Copy starts at OAMADDR and wraps.
	bus.Write8(0x2003, 0x10)
	bus.Write8(0x4014, 0x02)
	if ppu.OAM[0x10] != want[0] || ppu.OAM[0x0F] != want[0xFF] {
		t.Errorf("OAM[$10] = %#02x OAM[$0F] = %#02x, want %#02x %#02x",
			ppu.OAM[0x10], ppu.OAM[0x0F], want[0], want[0xFF])
	}
}

func TestController(t *testing.T) {
	bus := NewBus(NewPPU())

	var bs input.Buttons
	bs.Set(input.A, true)
	bs.Set(input.Start, true)
	bs.Set(input.Left, true)
	bus.Input.SetButtons(bs)

	bus.Write8(0x4016, 1)
	bus.Write8(0x4016, 0)

	var got []uint8
	for range 10 {
		got = append(got, bus.Read8(0x4016))
	}
	want := []uint8{1, 0, 0, 1, 0, 0, 1, 0, 1, 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("controller reads mismatch (-want +got):\n%s", diff)
	}

	// Strobe high: A is reported continuously.
	bus.Write8(0x4016, 1)
	for range 3 {
		if got := bus.Read8(0x4016); got != 1 {
			t.Errorf("read with strobe high = %d, want 1", got)
		}
	}

	if got := bus.Read8(0x4017); got != 0 {
		t.Errorf("Read8($4017) = %d, want 0", got)
	}
}
