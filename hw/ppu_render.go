package hw

import "nescore/hw/hwio"

// bgFetch holds the latches filled during an 8-dot tile fetch group.
type bgFetch struct {
	nt     uint8 // nametable byte (tile index)
	attr   uint8 // palette group, already extracted from the attribute byte
	lo, hi uint8 // pattern bitmap planes

	// pixel addressing of the tile being fetched
	ntbase   uint16
	col, row int
	fineY    uint16
}

// locate computes the nametable position of tile group g on the current line.
func (p *PPU) locate(g int) {
	x := int(p.lineNT&1)*ScreenWidth + int(p.lineScrollX&^7) + g*8
	y := int(p.lineNT>>1)*ScreenHeight + int(p.frameScrollY) + p.Scanline
	x %= 2 * ScreenWidth
	y %= 2 * ScreenHeight

	nt := x/ScreenWidth + 2*(y/ScreenHeight)
	p.bg.ntbase = 0x2000 + uint16(nt)*0x400
	p.bg.col = (x % ScreenWidth) / 8
	p.bg.row = (y % ScreenHeight) / 8
	p.bg.fineY = uint16(y % 8)
}

func (p *PPU) fetchNT() {
	p.bg.nt = p.Bus.Read8(p.bg.ntbase + uint16(p.bg.row*32+p.bg.col))
}

func (p *PPU) fetchAT() {
	at := p.Bus.Read8(p.bg.ntbase + 0x3C0 + uint16((p.bg.row/4)*8+p.bg.col/4))
	shift := uint((p.bg.row&2)<<1 | p.bg.col&2)
	p.bg.attr = (at >> shift) & 0b11
}

func (p *PPU) bgPatternAddr() uint16 {
	var base uint16
	if hwio.GetBit8(p.PPUCTRL.Value, backgroundAddr) {
		base = 0x1000
	}
	return base + uint16(p.bg.nt)*16 + p.bg.fineY
}

func (p *PPU) fetchLo() { p.bg.lo = p.Bus.Read8(p.bgPatternAddr()) }
func (p *PPU) fetchHi() { p.bg.hi = p.Bus.Read8(p.bgPatternAddr() + 8) }

// backgroundDot runs one dot of the background pipeline (dots 1-256). Each
// 8-dot group fetches one tile then composites its 8 pixels.
func (p *PPU) backgroundDot() {
	g := (p.Dot - 1) >> 3
	switch (p.Dot - 1) & 7 {
	case 0:
		p.locate(g)
		p.fetchNT()
	case 2:
		p.fetchAT()
	case 4:
		p.fetchLo()
	case 6:
		p.fetchHi()
	case 7:
		p.drawTile(g)
		// A fine X scroll shifts the line left, the last pixels come from
		// a 33rd tile.
		if g == 31 && p.lineScrollX&7 != 0 {
			p.locate(32)
			p.fetchNT()
			p.fetchAT()
			p.fetchLo()
			p.fetchHi()
			p.drawTile(32)
		}
	}
}

// drawTile composites the 8 pixels of the tile of group g.
func (p *PPU) drawTile(g int) {
	finex := int(p.lineScrollX & 7)
	for i := range 8 {
		x := g*8 + i - finex
		if x < 0 || x >= ScreenWidth {
			continue
		}
		color := (p.bg.lo>>(7-i))&1 | ((p.bg.hi>>(7-i))&1)<<1
		p.composite(x, color, p.bg.attr)
	}
}

// composite resolves the final color of pixel x on the current scanline,
// from its background pixel and the sprite pixel prepared for that line.
func (p *PPU) composite(x int, bgColor, bgPal uint8) {
	mask := p.PPUMASK.Value
	if !hwio.GetBit8(mask, showBg) || (x < 8 && !hwio.GetBit8(mask, leftmostBg)) {
		bgColor = 0
	}

	sp := p.sprites.line[x]
	if !hwio.GetBit8(mask, showSprites) || (x < 8 && !hwio.GetBit8(mask, leftmostSprites)) {
		sp = spritePixel{}
	}

	if sp.zero && sp.color != 0 && bgColor != 0 && x != 255 {
		hwio.SetBit8(&p.status, sprite0Hit)
	}

	// idx stays 0 (backdrop) for transparent pixels.
	var idx uint16
	switch {
	case sp.color != 0 && (bgColor == 0 || !sp.behind):
		idx = 0x10 | uint16(sp.pal)<<2 | uint16(sp.color)
	case bgColor != 0:
		idx = uint16(bgPal)<<2 | uint16(bgColor)
	}

	c := p.palette[paletteIndex(idx)]
	if hwio.GetBit8(mask, greyscale) {
		c &= 0x30
	}
	p.setPixel(x, p.Scanline, c)
}

func (p *PPU) setPixel(x, y int, c uint8) {
	rgb := masterPalette[c&0x3F]
	off := y*p.back.Stride + x*4
	pix := p.back.Pix[off : off+4 : off+4]
	pix[0] = uint8(rgb >> 16)
	pix[1] = uint8(rgb >> 8)
	pix[2] = uint8(rgb)
	pix[3] = 0xFF
}

/* sprites */

const (
	maxLineSprites = 8

	sprAttrPalette = 0b11
	sprAttrBehind  = 5
	sprAttrFlipH   = 6
	sprAttrFlipV   = 7
)

// spriteSlot is a sprite selected for the next scanline.
type spriteSlot struct {
	index uint8 // OAM index
	tile  uint8
	attr  uint8
	x     uint8
	row   int // row within the sprite, before flipping
}

type spritePixel struct {
	color  uint8 // 0 is transparent
	pal    uint8
	behind bool
	zero   bool // pixel belongs to sprite 0
}

type spriteUnit struct {
	slots [maxLineSprites]spriteSlot
	n     int

	line [ScreenWidth]spritePixel
}

func (s *spriteUnit) reset() {
	s.n = 0
	s.clearLine()
}

func (s *spriteUnit) clearLine() {
	s.line = [ScreenWidth]spritePixel{}
}

func (p *PPU) spriteHeight() int {
	if hwio.GetBit8(p.PPUCTRL.Value, spriteSize) {
		return 16
	}
	return 8
}

// evaluateSprites selects, in OAM order, the first 8 sprites in range of the
// next scanline. Finding a 9th sets the overflow flag.
func (p *PPU) evaluateSprites() {
	p.sprites.n = 0
	if !p.renderingEnabled() {
		return
	}

	h := p.spriteHeight()
	for i := range 64 {
		spr := p.OAM[i*4 : i*4+4]
		row := p.Scanline - int(spr[0])
		if row < 0 || row >= h {
			continue
		}
		if p.sprites.n == maxLineSprites {
			hwio.SetBit8(&p.status, spriteOverflow)
			break
		}
		p.sprites.slots[p.sprites.n] = spriteSlot{
			index: uint8(i),
			tile:  spr[1],
			attr:  spr[2],
			x:     spr[3],
			row:   row,
		}
		p.sprites.n++
	}
}

// SelectedSprites returns the OAM indices of the sprites selected for the
// next scanline.
func (p *PPU) SelectedSprites() []uint8 {
	idx := make([]uint8, p.sprites.n)
	for i := range idx {
		idx[i] = p.sprites.slots[i].index
	}
	return idx
}

// fetchSprite fetches the pattern of slot i and renders it in the sprite line
// buffer. Lower OAM indices have priority: their opaque pixels are kept.
func (p *PPU) fetchSprite(i int) {
	if i >= p.sprites.n {
		return
	}
	slot := &p.sprites.slots[i]

	h := p.spriteHeight()
	row := slot.row
	if hwio.GetBit8(slot.attr, sprAttrFlipV) {
		row = h - 1 - row
	}

	var addr uint16
	if h == 16 {
		tile := slot.tile &^ 1
		if row >= 8 {
			tile++
			row -= 8
		}
		addr = uint16(slot.tile&1)*0x1000 + uint16(tile)*16 + uint16(row)
	} else {
		if hwio.GetBit8(p.PPUCTRL.Value, spriteAddr) {
			addr = 0x1000
		}
		addr += uint16(slot.tile)*16 + uint16(row)
	}
	lo := p.Bus.Read8(addr)
	hi := p.Bus.Read8(addr + 8)

	flipH := hwio.GetBit8(slot.attr, sprAttrFlipH)
	for px := range 8 {
		x := int(slot.x) + px
		if x >= ScreenWidth {
			break
		}
		bit := 7 - px
		if flipH {
			bit = px
		}
		color := (lo>>bit)&1 | ((hi>>bit)&1)<<1
		if color == 0 || p.sprites.line[x].color != 0 {
			continue
		}
		p.sprites.line[x] = spritePixel{
			color:  color,
			pal:    slot.attr & sprAttrPalette,
			behind: hwio.GetBit8(slot.attr, sprAttrBehind),
			zero:   slot.index == 0,
		}
	}
}
