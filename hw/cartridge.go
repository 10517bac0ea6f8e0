package hw

import (
	"nescore/emu/log"
	"nescore/ines"
)

const (
	SRAMBase = 0x6000
	SRAMSize = 0x2000
	PRGBase  = 0x8000
	CHRSize  = 0x2000
)

// Cartridge holds the program and character data of a game and the facts
// derived from its header.
type Cartridge struct {
	PRG       []byte // PRGBanks*16KB, zero-padded past the loaded image
	CHR       []byte // 8KB of CHR ROM, or CHR RAM if CHRRAM is set
	CHRRAM    bool
	SRAM      []byte // save RAM, $6000-$7FFF
	PRGBanks  int
	Mirroring ines.Mirroring
	Battery   bool
	Mapper    uint16
}

// NewCartridge builds the cartridge store from a decoded image.
func NewCartridge(rom *ines.Rom) *Cartridge {
	cart := &Cartridge{
		PRGBanks:  max(rom.PRGBanks(), 1),
		SRAM:      make([]byte, SRAMSize),
		Mirroring: rom.Mirroring(),
		Battery:   rom.HasPersistent(),
		Mapper:    rom.Mapper(),
	}

	cart.PRG = make([]byte, cart.PRGBanks*ines.PRGBankSize)
	if n := copy(cart.PRG, rom.PRG); n < len(cart.PRG) {
		log.ModMem.WarnZ("PRG image shorter than declared, missing bytes read as 0").
			Int("loaded", n).
			Int("declared", len(cart.PRG)).
			End()
	}

	cart.CHR = make([]byte, CHRSize)
	if rom.CHRBanks() == 0 {
		cart.CHRRAM = true
	} else if n := copy(cart.CHR, rom.CHR); n < CHRSize {
		log.ModMem.WarnZ("CHR image shorter than declared, missing bytes read as 0").
			Int("loaded", n).
			End()
	}

	// The trainer is loaded at $7000 in save RAM.
	if len(rom.Trainer) != 0 {
		copy(cart.SRAM[0x1000:], rom.Trainer)
	}
	return cart
}
