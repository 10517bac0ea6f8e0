// Package tests builds synthetic iNES images for package tests.
package tests

import (
	"testing"

	"nescore/ines"
)

// ROM describes a synthetic NROM cartridge.
type ROM struct {
	PRGBanks int // 16KB banks, defaults to 1
	CHRBanks int // 8KB banks, 0 means CHR RAM
	Vertical bool
	Battery  bool
	Mapper   uint8

	// Vectors, Reset defaults to $8000.
	NMI, Reset, IRQ uint16

	// Code maps CPU addresses ($8000-$FFFF) to the bytes stored there.
	Code map[uint16][]byte
	// CHR maps CHR ROM offsets to the bytes stored there.
	CHR map[int][]byte
}

// Bytes returns the iNES image.
func (r ROM) Bytes() []byte {
	if r.PRGBanks == 0 {
		r.PRGBanks = 1
	}
	if r.Reset == 0 {
		r.Reset = 0x8000
	}

	hdr := make([]byte, ines.HeaderSize)
	copy(hdr, ines.Magic)
	hdr[4] = byte(r.PRGBanks)
	hdr[5] = byte(r.CHRBanks)
	hdr[6] = r.Mapper<<4 | flag(r.Vertical, 0x01) | flag(r.Battery, 0x02)
	hdr[7] = r.Mapper & 0xF0

	prg := make([]byte, r.PRGBanks*ines.PRGBankSize)
	put := func(addr uint16, b ...byte) {
		for i, v := range b {
			prg[(int(addr)-0x8000+i)%len(prg)] = v
		}
	}
	for addr, code := range r.Code {
		put(addr, code...)
	}
	put(0xFFFA, byte(r.NMI), byte(r.NMI>>8))
	put(0xFFFC, byte(r.Reset), byte(r.Reset>>8))
	put(0xFFFE, byte(r.IRQ), byte(r.IRQ>>8))

	chr := make([]byte, r.CHRBanks*ines.CHRBankSize)
	for off, b := range r.CHR {
		copy(chr[off:], b)
	}

	buf := append(hdr, prg...)
	return append(buf, chr...)
}

// Rom returns the decoded image, failing tb on error.
func (r ROM) Rom(tb testing.TB) *ines.Rom {
	tb.Helper()

	rom, err := ines.Decode(r.Bytes())
	if err != nil {
		tb.Fatalf("decode synthetic rom: %v", err)
	}
	return rom
}

func flag(b bool, v byte) byte {
	if b {
		return v
	}
	return 0
}
