package mappers

import (
	"nescore/hw/hwio"
)

var NROM = MapperDesc{
	Name:        "NROM",
	Load:        loadNROM,
	MaxPRGBanks: 2,
}

type nrom struct {
	PRGRAM hwio.Mem `hwio:"offset=0x6000,size=0x2000"`
	PRGROM hwio.Mem `hwio:"offset=0x8000,vsize=0x8000,readonly"`
}

func loadNROM(b *base) error {
	nrom := &nrom{}

	// Both areas alias the cartridge buffers. A 16KB PRG ROM is mirrored
	// at $C000 by the 'vsize'.
	nrom.PRGRAM.Data = b.cart.SRAM
	nrom.PRGROM.Data = b.cart.PRG
	if err := hwio.InitRegs(nrom); err != nil {
		return err
	}

	b.nes.Bus.Table.MapBank(0x0000, nrom, 0)
	b.mapPPU()
	return nil
}
