package mappers

import (
	"fmt"

	"nescore/hw"
)

type base struct {
	desc MapperDesc

	cart *hw.Cartridge
	nes  *hw.NES
}

func ispow2(n int) bool {
	return n != 0 && n&(n-1) == 0
}

func newbase(desc MapperDesc, cart *hw.Cartridge, nes *hw.NES) (*base, error) {
	if !ispow2(len(cart.PRG)) {
		return nil, fmt.Errorf("only support PRG ROM with power of 2 size, got %d", len(cart.PRG))
	}
	if desc.MaxPRGBanks != 0 && cart.PRGBanks > desc.MaxPRGBanks {
		return nil, fmt.Errorf("%s supports up to %d PRG banks, got %d", desc.Name, desc.MaxPRGBanks, cart.PRGBanks)
	}
	return &base{desc: desc, cart: cart, nes: nes}, nil
}

func (b *base) load() error {
	b.nes.Bus.Insert(b.cart)
	return b.desc.Load(b)
}

// mapPPU maps the cartridge pattern tables and sets the nametable layout.
func (b *base) mapPPU() {
	b.nes.PPU.MapCHR(b.cart.CHR, b.cart.CHRRAM)
	b.nes.PPU.MapNametables(b.cart.Mirroring)
}
