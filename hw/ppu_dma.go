package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

// DMA transfers take 513 CPU cycles, during which the CPU is stalled.
const oamDMACycles = 513

// OAMDMA copies a page of CPU memory into the PPU object memory.
type OAMDMA struct {
	Reg hwio.Reg8 `hwio:"offset=0x14,rcb,wcb"`

	bus *Bus
}

func (dma *OAMDMA) initBus(bus *Bus) {
	hwio.MustInitRegs(dma)
	dma.bus = bus
}

func (dma *OAMDMA) ReadREG(uint8) uint8 { return 0 }

// WriteREG starts a transfer from page val. The 256 bytes are copied at once,
// starting at the current OAM address.
func (dma *OAMDMA) WriteREG(_, val uint8) {
	log.ModDMA.DebugZ("OAM DMA").Hex8("page", val).End()

	var buf [256]uint8
	base := uint16(val) << 8
	for i := range buf {
		buf[i] = dma.bus.Read8(base + uint16(i))
	}
	dma.bus.PPU.WriteOAM(buf[:])
	dma.bus.stall += oamDMACycles
}
