package hw

import (
	"nescore/hw/hwio"
)

// Bus is the CPU address space decoder.
//
//	$0000-$1FFF  work RAM, 2KB mirrored every $800
//	$2000-$3FFF  PPU registers, mirrored every 8 bytes
//	$4000-$4017  I/O: $4014 OAM DMA, $4016 controller, the rest is inert
//	$4018-$5FFF  unmapped, reads return 0
//	$6000-$7FFF  cartridge save RAM
//	$8000-$FFFF  cartridge program ROM
//
// The cartridge regions are mapped by the mapper, they read as 0 until a
// cartridge is inserted.
type Bus struct {
	Table *hwio.Table

	RAM hwio.Mem    `hwio:"offset=0x0,size=0x800,vsize=0x2000"`
	IO  hwio.Device `hwio:"bank=1,offset=0x0,size=0x18"`

	PPU   *PPU
	Cart  *Cartridge
	Input InputPorts
	DMA   OAMDMA

	// CPU cycles stolen by DMA, not yet accounted for.
	stall int
}

// NewBus creates the CPU bus, mapping work RAM, I/O and the registers of ppu.
func NewBus(ppu *PPU) *Bus {
	b := &Bus{
		Table: hwio.NewTable("cpu"),
		PPU:   ppu,
	}
	hwio.MustInitRegs(b)

	b.Table.MapBank(0x0000, b, 0)
	for off := uint32(0x2000); off < 0x4000; off += 8 {
		b.Table.MapBank(uint16(off), ppu, 0)
	}

	b.Table.MapBank(0x4000, b, 1)
	b.DMA.initBus(b)
	b.Table.MapBank(0x4000, &b.DMA, 0)
	b.Input.initBus()
	b.Table.MapBank(0x4000, &b.Input, 0)
	return b
}

// Reset clears bus owned state. Work RAM is left as is, like on a console.
func (b *Bus) Reset() {
	b.Input.reset()
	b.stall = 0
}

func (b *Bus) Read8(addr uint16) uint8       { return b.Table.Read8(addr) }
func (b *Bus) Peek8(addr uint16) uint8       { return b.Table.Peek8(addr) }
func (b *Bus) Write8(addr uint16, val uint8) { b.Table.Write8(addr, val) }

func (b *Bus) Read16(addr uint16) uint16 {
	return uint16(b.Read8(addr+1))<<8 | uint16(b.Read8(addr))
}

// readZP16 reads a 16-bit pointer in zero page, the high byte wraps at $FF.
func (b *Bus) readZP16(zp uint8) uint16 {
	lo := b.Read8(uint16(zp))
	hi := b.Read8(uint16(zp + 1))
	return uint16(hi)<<8 | uint16(lo)
}

// Addressing mode helpers. They return the effective address of the operand.

// ZeroPageIdx returns zp+idx, wrapping within zero page.
func (b *Bus) ZeroPageIdx(zp, idx uint8) uint16 {
	return uint16(zp + idx)
}

// AbsoluteIdx returns addr+idx over the full 16-bit space.
func (b *Bus) AbsoluteIdx(addr uint16, idx uint8) uint16 {
	return addr + uint16(idx)
}

// IndexedIndirect returns the pointer stored at zero page zp+x: (zp,X).
func (b *Bus) IndexedIndirect(zp, x uint8) uint16 {
	return b.readZP16(zp + x)
}

// IndirectIndexed returns the pointer stored at zero page zp, plus y: (zp),Y.
// The pointer bytes wrap in zero page, the addition doesn't.
func (b *Bus) IndirectIndexed(zp, y uint8) uint16 {
	return b.readZP16(zp) + uint16(y)
}

// Indirect returns the pointer stored at ptr, used by JMP ($nnnn). The high
// byte is fetched from the same page as the low byte.
func (b *Bus) Indirect(ptr uint16) uint16 {
	lo := b.Read8(ptr)
	hi := b.Read8(ptr&0xFF00 | uint16(uint8(ptr)+1))
	return uint16(hi)<<8 | uint16(lo)
}

// Insert attaches cart to the bus. Mapping its memory is the mapper's job.
func (b *Bus) Insert(cart *Cartridge) {
	b.Cart = cart
}

// Eject unmaps the cartridge regions, they read as 0 afterward. The PPU gets
// its internal pattern table RAM back.
func (b *Bus) Eject() {
	b.Table.Unmap(SRAMBase, 0xFFFF)
	b.PPU.unmapCartridge()
	b.Cart = nil
}

func (b *Bus) takeStall() int {
	n := b.stall
	b.stall = 0
	return n
}
