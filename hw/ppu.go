package hw

import (
	"image"

	"nescore/emu/log"
	"nescore/hw/hwio"
	"nescore/ines"
)

const (
	NumScanlines = 262 // Number of scanlines per frame.
	NumDots      = 341 // Number of PPU dots per scanline.

	ScreenWidth  = 256
	ScreenHeight = 240

	preRenderLine = 261
	vblankLine    = 241
)

const (
	// PPUCTRL bits
	// $2000

	// Nametable selection mask
	// (0 = $2000; 1 = $2400; 2 = $2800; 3 = $2C00)
	ntselect = 0b11

	// VRAM address increment per CPU read/write of PPUDATA
	// (0: +1 i.e. horizontal; 1: +32 i.e. vertical)
	vramIncr = 2

	// Sprite pattern table address for 8x8 sprites
	// (0: $0000; 1: $1000; ignored in 8x16 mode)
	spriteAddr = 3

	// Background pattern table address (0: $0000; 1: $1000)
	backgroundAddr = 4

	// Sprite size (0: 8x8 pixels; 1: 8x16 pixels)
	spriteSize = 5

	// Generate an NMI at the start of the
	// vertical blanking interval (0: off; 1: on)
	nmi = 7
)

const (
	// PPUMASK bits
	// $2001

	greyscale       = 0
	leftmostBg      = 1 // show background in leftmost 8 pixels
	leftmostSprites = 2 // show sprites in leftmost 8 pixels
	showBg          = 3
	showSprites     = 4
)

const (
	// PPUSTATUS bits
	// $2002

	// Low bits return the last byte written to any port.
	openbusMask = 0b11111

	// More than 8 sprites were found on a scanline. Cleared at dot 1 of the
	// pre-render line.
	spriteOverflow = 5

	// Set when a nonzero pixel of sprite 0 overlaps a nonzero background
	// pixel; cleared at dot 1 of the pre-render line.
	sprite0Hit = 6

	// Vertical blank has started. Set at dot 0 of line 241, cleared after
	// reading $2002 and at dot 1 of the pre-render line.
	vblank = 7
)

// PPU is the picture processing unit.
//
// Its own address space (Bus) is laid out as:
//
//	$0000-$1FFF  pattern tables, cartridge CHR ROM or CHR RAM
//	$2000-$2FFF  4 nametables, 2 of them backed by VRAM
//	$3000-$3EFF  mirror of $2000-$2EFF
//	$3F00-$3FFF  palette RAM, 32 bytes mirrored
type PPU struct {
	Bus *hwio.Table

	Scanline int // Current scanline, 0-261
	Dot      int // Current dot in scanline, 0-340

	// CPU-exposed memory-mapped registers, mapped from $2000 to $2007 and
	// mirrored up to $3FFF by the CPU bus.
	PPUCTRL   hwio.Reg8 `hwio:"offset=0x0,rcb,wcb"`
	PPUMASK   hwio.Reg8 `hwio:"offset=0x1,rcb,wcb"`
	PPUSTATUS hwio.Reg8 `hwio:"offset=0x2,rcb,pcb,wcb"`
	OAMADDR   hwio.Reg8 `hwio:"offset=0x3,rcb,wcb"`
	OAMDATA   hwio.Reg8 `hwio:"offset=0x4,rcb,wcb"`
	PPUSCROLL hwio.Reg8 `hwio:"offset=0x5,rcb,wcb"`
	PPUADDR   hwio.Reg8 `hwio:"offset=0x6,rcb,wcb"`
	PPUDATA   hwio.Reg8 `hwio:"offset=0x7,rcb,pcb,wcb"`

	Palette hwio.Device `hwio:"bank=1,offset=0x3F00,size=0x100,rcb,pcb,wcb"`

	OAM [256]uint8

	vram    [2][0x400]uint8 // physical nametables
	chrRAM  [CHRSize]uint8  // used when no cartridge provides CHR
	palette [32]uint8

	status  uint8 // PPUSTATUS flags, bits 5-7
	latch   uint8 // last byte written to any port
	oamAddr uint8

	// VRAM read/write
	vramAddr    uint16
	writeLatch  bool
	ppuDataRbuf uint8

	scrollX, scrollY uint8
	lineScrollX      uint8 // horizontal scroll latched for the current line
	lineNT           uint8 // nametable select latched for the current line
	frameScrollY     uint8 // vertical scroll latched for the current frame

	bg      bgFetch
	sprites spriteUnit

	nmiPending bool
	nmiFired   bool // an NMI has been requested in this vblank

	back, front *image.RGBA
	frameCount  uint64
}

// NewPPU returns a powered-up PPU, with CHR RAM at $0000-$1FFF and
// horizontally mirrored nametables.
func NewPPU() *PPU {
	p := &PPU{
		Bus:   hwio.NewTable("ppu"),
		back:  image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight)),
		front: image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight)),
	}
	hwio.MustInitRegs(p)
	p.Bus.MapBank(0x0000, p, 1)
	p.unmapCartridge()
	return p
}

// unmapCartridge restores the pattern tables and nametable layout used when
// no cartridge is inserted.
func (p *PPU) unmapCartridge() {
	p.MapCHR(p.chrRAM[:], true)
	p.MapNametables(ines.HorzMirroring)
}

// MapCHR maps data (8KB) as pattern tables.
func (p *PPU) MapCHR(data []uint8, writable bool) {
	p.Bus.MapMemorySlice(0x0000, 0x1FFF, data, !writable)
}

// MapNametables arranges the 2 physical nametables into the 4 logical ones.
//
//	horizontal: $2000=$2400  $2800=$2C00
//	vertical:   $2000=$2800  $2400=$2C00
func (p *PPU) MapNametables(m ines.Mirroring) {
	for i := range 4 {
		phys := i >> 1
		if m == ines.VertMirroring {
			phys = i & 1
		}
		base := uint16(0x2000 + i*0x400)
		p.Bus.MapMemorySlice(base, base+0x3FF, p.vram[phys][:], false)

		mirror := base + 0x1000
		end := min(mirror+0x3FF, 0x3EFF)
		p.Bus.MapMemorySlice(mirror, end, p.vram[phys][:], false)
	}
	log.ModPPU.DebugZ("nametables mapped").Stringer("mirroring", m).End()
}

// Reset puts the PPU back in its power-up state. Memory content is kept.
func (p *PPU) Reset() {
	p.Scanline, p.Dot = 0, 0
	p.PPUCTRL.Value = 0
	p.PPUMASK.Value = 0
	p.status = 0
	p.latch = 0
	p.oamAddr = 0
	p.vramAddr = 0
	p.writeLatch = false
	p.ppuDataRbuf = 0
	p.scrollX, p.scrollY = 0, 0
	p.lineScrollX, p.lineNT, p.frameScrollY = 0, 0, 0
	p.bg = bgFetch{}
	p.sprites.reset()
	p.nmiPending = false
	p.nmiFired = false
}

// Frame returns the last complete frame. It's replaced at each vblank.
func (p *PPU) Frame() *image.RGBA { return p.front }

// FrameCount returns the number of frames completed since power-up.
func (p *PPU) FrameCount() uint64 { return p.frameCount }

// Step advances the PPU by the equivalent of cpuCycles CPU cycles, 3 dots
// each. It reports whether an NMI was requested in the meantime.
func (p *PPU) Step(cpuCycles int) bool {
	for range cpuCycles * 3 {
		p.tick()
	}
	nmi := p.nmiPending
	p.nmiPending = false
	return nmi
}

// WriteOAM copies buf into OAM from the current OAM address, wrapping.
func (p *PPU) WriteOAM(buf []uint8) {
	for i, v := range buf {
		p.OAM[uint8(int(p.oamAddr)+i)] = v
	}
}

func (p *PPU) tick() {
	switch {
	case p.Scanline < ScreenHeight:
		p.visibleDot()
	case p.Scanline == vblankLine:
		if p.Dot == 0 {
			p.enterVBlank()
		}
	case p.Scanline == preRenderLine:
		p.preRenderDot()
	}

	p.Dot++
	if p.Dot == NumDots {
		p.Dot = 0
		p.Scanline++
		if p.Scanline == NumScanlines {
			p.Scanline = 0
		}
	}
}

func (p *PPU) visibleDot() {
	switch {
	case p.Dot == 0:
		p.lineScrollX = p.scrollX
		p.lineNT = p.PPUCTRL.Value & ntselect
	case p.Dot <= 256:
		p.backgroundDot()
	case p.Dot == 257:
		p.sprites.clearLine()
		p.evaluateSprites()
	case p.Dot <= 320:
		if (p.Dot-257)&7 == 7 {
			p.fetchSprite((p.Dot - 257) >> 3)
		}
	}
}

func (p *PPU) preRenderDot() {
	switch p.Dot {
	case 1:
		const mask = 1<<vblank | 1<<sprite0Hit | 1<<spriteOverflow
		p.status &^= mask
		p.nmiFired = false
	case 257:
		p.sprites.clearLine()
	case 280:
		p.frameScrollY = p.scrollY
	}
}

func (p *PPU) enterVBlank() {
	hwio.SetBit8(&p.status, vblank)
	p.oamAddr = 0

	p.front, p.back = p.back, p.front
	p.frameCount++

	if hwio.GetBit8(p.PPUCTRL.Value, nmi) {
		p.requestNMI()
	}
}

// requestNMI raises the NMI line, at most once per vblank.
func (p *PPU) requestNMI() {
	if p.nmiFired {
		return
	}
	p.nmiFired = true
	p.nmiPending = true
	log.ModPPU.DebugZ("NMI").Uint("frame", uint(p.frameCount)).End()
}

func (p *PPU) renderingEnabled() bool {
	return p.PPUMASK.Value&(1<<showBg|1<<showSprites) != 0
}
