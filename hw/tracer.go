package hw

import (
	"fmt"
	"io"
)

type disasmer interface {
	Disasm(pc uint16) DisasmOp
}

// tracer writes one line per executed instruction, in a format close to the
// nestest log:
//
//	C000  4C F5 C5  JMP $C5F5              A:00 X:00 Y:00 P:24 SP:FD PPU:  0, 21 CYC:7
type tracer struct {
	d disasmer
	w io.Writer

	buf []byte
}

func (c *CPU) traceOp() {
	scanline, dot := -1, 0
	if ppu := c.Bus.PPU; ppu != nil {
		scanline, dot = ppu.Scanline, ppu.Dot
	}
	c.tracer.write(c.PC, c.A, c.X, c.Y, c.P, c.SP, scanline, dot, c.Cycles)
}

func (t *tracer) write(pc uint16, a, x, y uint8, p P, sp uint8, scanline, dot int, cycles int64) {
	if scanline == NumScanlines-1 {
		scanline = -1
	}

	dis := t.d.Disasm(pc)
	t.buf = fmt.Appendf(t.buf[:0], "%04X  % -9X %-4s%-27s A:%02X X:%02X Y:%02X P:%02X SP:%02X PPU:%3d,%3d CYC:%d\n",
		pc, dis.Buf, dis.Opcode, dis.Oper, a, x, y, uint8(p), sp, scanline, dot, cycles)
	t.w.Write(t.buf)
}
