package hw

import "fmt"

// DisasmOp is a disassembled instruction.
type DisasmOp struct {
	PC     uint16
	Buf    []byte // raw instruction bytes
	Opcode string
	Oper   string
}

func (d DisasmOp) String() string {
	return fmt.Sprintf("%04X  % -9X %s %s", d.PC, d.Buf, d.Opcode, d.Oper)
}

// Disasm disassembles the instruction at pc, without side effects.
func (c *CPU) Disasm(pc uint16) DisasmOp {
	return disasm(c.Bus.Peek8, pc)
}

func disasm(peek func(uint16) uint8, pc uint16) DisasmOp {
	code := peek(pc)
	op, ok := Decode(code)
	if !ok {
		return DisasmOp{PC: pc, Buf: []byte{code}, Opcode: "???"}
	}

	size := op.Mode.Size()
	buf := make([]byte, size)
	for i := range size {
		buf[i] = peek(pc + i)
	}
	arg8 := uint16(0)
	arg16 := uint16(0)
	if size > 1 {
		arg8 = uint16(buf[1])
		arg16 = arg8
	}
	if size > 2 {
		arg16 |= uint16(buf[2]) << 8
	}

	var oper string
	switch op.Mode {
	case Accumulator:
		oper = "A"
	case Immediate:
		oper = fmt.Sprintf("#$%02X", arg8)
	case ZeroPage:
		oper = fmt.Sprintf("$%02X", arg8)
	case ZeroPageX:
		oper = fmt.Sprintf("$%02X,X", arg8)
	case ZeroPageY:
		oper = fmt.Sprintf("$%02X,Y", arg8)
	case Absolute:
		oper = formatAddr(arg16)
	case AbsoluteX:
		oper = formatAddr(arg16) + ",X"
	case AbsoluteY:
		oper = formatAddr(arg16) + ",Y"
	case Indirect:
		oper = "(" + formatAddr(arg16) + ")"
	case IndexedIndirect:
		oper = fmt.Sprintf("($%02X,X)", arg8)
	case IndirectIndexed:
		oper = fmt.Sprintf("($%02X),Y", arg8)
	case Relative:
		oper = fmt.Sprintf("$%04X", pc+2+uint16(int8(arg8)))
	}

	return DisasmOp{
		PC:     pc,
		Buf:    buf,
		Opcode: op.Mnemonic.String(),
		Oper:   oper,
	}
}

var addressLabels = map[uint16]string{
	0x2000: "PpuControl_2000",
	0x2001: "PpuMask_2001",
	0x2002: "PpuStatus_2002",
	0x2003: "OamAddr_2003",
	0x2004: "OamData_2004",
	0x2005: "PpuScroll_2005",
	0x2006: "PpuAddr_2006",
	0x2007: "PpuData_2007",
	0x4014: "SpriteDma_4014",
	0x4016: "Ctrl1_4016",
	0x4017: "Ctrl2_4017",
}

func formatAddr(addr uint16) string {
	if label, ok := addressLabels[addr]; ok {
		return label
	}
	return fmt.Sprintf("$%04X", addr)
}
