// Package mappers maps cartridge memory into the CPU and PPU address spaces.
package mappers

import (
	"errors"
	"fmt"

	"nescore/emu/log"
	"nescore/hw"
)

var modMapper = log.NewModule("mapper")

// ErrUnsupported is returned when loading a cartridge whose mapper number
// has no implementation.
var ErrUnsupported = errors.New("unsupported mapper")

// MapperDesc describes a mapper chip.
type MapperDesc struct {
	Name string
	Load func(*base) error

	// Maximum number of 16KB PRG banks the board can address.
	MaxPRGBanks int
}

var All = map[uint16]MapperDesc{
	0: NROM,
}

// Name returns the board name of mapper n, or "unknown".
func Name(n uint16) string {
	if desc, ok := All[n]; ok {
		return desc.Name
	}
	return "unknown"
}

// Load maps cart into nes, according to the cartridge mapper number.
func Load(cart *hw.Cartridge, nes *hw.NES) error {
	desc, ok := All[cart.Mapper]
	if !ok {
		return fmt.Errorf("%w %d", ErrUnsupported, cart.Mapper)
	}
	b, err := newbase(desc, cart, nes)
	if err != nil {
		return fmt.Errorf("mapper initialization failed: %w", err)
	}
	if err := b.load(); err != nil {
		return fmt.Errorf("failed to load mapper %s: %w", desc.Name, err)
	}

	modMapper.InfoZ("cartridge loaded").
		String("mapper", desc.Name).
		Int("prg banks", cart.PRGBanks).
		Bool("chr ram", cart.CHRRAM).
		Stringer("mirroring", cart.Mirroring).
		Bool("battery", cart.Battery).
		End()
	return nil
}
