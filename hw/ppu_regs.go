package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

// Write-only ports read back the last byte written to any port.

// PPUCTRL: $2000
func (p *PPU) ReadPPUCTRL(uint8) uint8 { return p.latch }

func (p *PPU) WritePPUCTRL(old, val uint8) {
	log.ModPPU.DebugZ("Write to PPUCTRL").Hex8("val", val).End()
	p.latch = val

	// Enabling NMI while in vblank raises it right away.
	if !hwio.GetBit8(old, nmi) && hwio.GetBit8(val, nmi) &&
		hwio.GetBit8(p.status, vblank) {
		p.requestNMI()
	}
}

// PPUMASK: $2001
func (p *PPU) ReadPPUMASK(uint8) uint8 { return p.latch }

func (p *PPU) WritePPUMASK(_, val uint8) {
	log.ModPPU.DebugZ("Write to PPUMASK").Hex8("val", val).End()
	p.latch = val
}

// PPUSTATUS: $2002
func (p *PPU) ReadPPUSTATUS(uint8) uint8 {
	ret := p.PeekPPUSTATUS(0)
	hwio.ClearBit8(&p.status, vblank)
	p.writeLatch = false
	return ret
}

func (p *PPU) PeekPPUSTATUS(uint8) uint8 {
	return p.status&^openbusMask | p.latch&openbusMask
}

func (p *PPU) WritePPUSTATUS(_, val uint8) { p.latch = val }

// OAMADDR: $2003
func (p *PPU) ReadOAMADDR(uint8) uint8 { return p.latch }

func (p *PPU) WriteOAMADDR(_, val uint8) {
	p.latch = val
	p.oamAddr = val
}

// OAMDATA: $2004
func (p *PPU) ReadOAMDATA(uint8) uint8 { return p.OAM[p.oamAddr] }

func (p *PPU) WriteOAMDATA(_, val uint8) {
	p.latch = val
	p.OAM[p.oamAddr] = val
	p.oamAddr++
}

// PPUSCROLL: $2005
func (p *PPU) ReadPPUSCROLL(uint8) uint8 { return p.latch }

func (p *PPU) WritePPUSCROLL(_, val uint8) {
	log.ModPPU.DebugZ("Write to PPUSCROLL").
		Hex8("val", val).
		Bool("second", p.writeLatch).
		End()
	p.latch = val

	if !p.writeLatch {
		p.scrollX = val
	} else {
		p.scrollY = val % ScreenHeight
	}
	p.writeLatch = !p.writeLatch
}

// To read/write VRAM from CPU, PPUADDR is set to the address of the
// operation, high byte first.
// PPUADDR: $2006
func (p *PPU) ReadPPUADDR(uint8) uint8 { return p.latch }

func (p *PPU) WritePPUADDR(_, val uint8) {
	p.latch = val

	if !p.writeLatch {
		p.vramAddr = uint16(val)<<8 | p.vramAddr&0x00FF
	} else {
		p.vramAddr = p.vramAddr&0xFF00 | uint16(val)
	}
	p.vramAddr &= 0x3FFF
	p.writeLatch = !p.writeLatch
}

// PPUDATA: $2007
func (p *PPU) ReadPPUDATA(uint8) uint8 {
	var val uint8
	if p.vramAddr < 0x3F00 {
		// VRAM reads are delayed: the data is returned at the next read.
		val = p.ppuDataRbuf
		p.ppuDataRbuf = p.Bus.Read8(p.vramAddr)
	} else {
		// Palette reads are immediate, the buffer gets the nametable byte
		// "below" the palette.
		val = p.Bus.Read8(p.vramAddr)
		p.ppuDataRbuf = p.Bus.Read8(p.vramAddr - 0x1000)
	}

	log.ModPPU.DebugZ("VRAM read").
		Hex16("addr", p.vramAddr).
		Hex8("val", val).
		End()
	p.incVRAMaddr()
	return val
}

func (p *PPU) PeekPPUDATA(uint8) uint8 {
	if p.vramAddr < 0x3F00 {
		return p.ppuDataRbuf
	}
	return p.Bus.Peek8(p.vramAddr)
}

func (p *PPU) WritePPUDATA(_, val uint8) {
	p.latch = val

	log.ModPPU.DebugZ("VRAM write").
		Hex16("addr", p.vramAddr).
		Hex8("val", val).
		End()
	p.Bus.Write8(p.vramAddr, val)
	p.incVRAMaddr()
}

// After each access to PPUDATA, the VRAM address is incremented.
func (p *PPU) incVRAMaddr() {
	incr := uint16(1)
	if hwio.GetBit8(p.PPUCTRL.Value, vramIncr) {
		incr = 32
	}
	p.vramAddr = (p.vramAddr + incr) & 0x3FFF
}

// Palette RAM: $3F00-$3FFF on the PPU bus, 32 entries mirrored. Entry 0 of
// the sprite groups ($3F10/$14/$18/$1C) is the same cell as entry 0 of the
// matching background group.
func paletteIndex(addr uint16) uint16 {
	idx := addr & 0x1F
	if idx&0x13 == 0x10 {
		idx &^= 0x10
	}
	return idx
}

func (p *PPU) ReadPALETTE(addr uint16) uint8 { return p.palette[paletteIndex(addr)] }
func (p *PPU) PeekPALETTE(addr uint16) uint8 { return p.palette[paletteIndex(addr)] }

func (p *PPU) WritePALETTE(addr uint16, val uint8) {
	p.palette[paletteIndex(addr)] = val & 0x3F
}
