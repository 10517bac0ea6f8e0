package hw

// execute runs in. PC already points to the next instruction. It returns
// false for an instruction without execution case.
func (c *CPU) execute(in Instruction) bool {
	switch in.Mnemonic {
	// loads/stores
	case LDA:
		c.A = c.operand(in)
		c.P.checkNZ(c.A)
	case LDX:
		c.X = c.operand(in)
		c.P.checkNZ(c.X)
	case LDY:
		c.Y = c.operand(in)
		c.P.checkNZ(c.Y)
	case STA:
		c.Bus.Write8(c.operandAddr(in), c.A)
	case STX:
		c.Bus.Write8(c.operandAddr(in), c.X)
	case STY:
		c.Bus.Write8(c.operandAddr(in), c.Y)

	// transfers
	case TAX:
		c.X = c.A
		c.P.checkNZ(c.X)
	case TAY:
		c.Y = c.A
		c.P.checkNZ(c.Y)
	case TXA:
		c.A = c.X
		c.P.checkNZ(c.A)
	case TYA:
		c.A = c.Y
		c.P.checkNZ(c.A)
	case TSX:
		c.X = c.SP
		c.P.checkNZ(c.X)
	case TXS:
		c.SP = c.X

	// stack
	case PHA:
		c.push8(c.A)
	case PHP:
		c.push8(c.P.pushed(true))
	case PLA:
		c.A = c.pull8()
		c.P.checkNZ(c.A)
	case PLP:
		c.P = pulled(c.pull8())

	// arithmetic and logic
	case ADC:
		c.adc(c.operand(in))
	case SBC:
		c.sbc(c.operand(in))
	case AND:
		c.A &= c.operand(in)
		c.P.checkNZ(c.A)
	case ORA:
		c.A |= c.operand(in)
		c.P.checkNZ(c.A)
	case EOR:
		c.A ^= c.operand(in)
		c.P.checkNZ(c.A)
	case BIT:
		v := c.operand(in)
		c.P.set(Zero, c.A&v == 0)
		c.P.set(Overflow, v&0x40 != 0)
		c.P.set(Negative, v&0x80 != 0)
	case CMP:
		c.compare(c.A, c.operand(in))
	case CPX:
		c.compare(c.X, c.operand(in))
	case CPY:
		c.compare(c.Y, c.operand(in))

	// increments/decrements
	case INC:
		c.modify(in, func(v uint8) uint8 { return v + 1 })
	case DEC:
		c.modify(in, func(v uint8) uint8 { return v - 1 })
	case INX:
		c.X++
		c.P.checkNZ(c.X)
	case INY:
		c.Y++
		c.P.checkNZ(c.Y)
	case DEX:
		c.X--
		c.P.checkNZ(c.X)
	case DEY:
		c.Y--
		c.P.checkNZ(c.Y)

	// shifts/rotates
	case ASL:
		c.modify(in, c.asl)
	case LSR:
		c.modify(in, c.lsr)
	case ROL:
		c.modify(in, c.rol)
	case ROR:
		c.modify(in, c.ror)

	// jumps/calls
	case JMP:
		c.PC = c.operandAddr(in)
	case JSR:
		// push the address of the last byte of the JSR instruction.
		c.push16(c.PC - 1)
		c.PC = in.Arg16()
	case RTS:
		c.PC = c.pull16() + 1
	case RTI:
		c.P = pulled(c.pull8())
		c.PC = c.pull16()
	case BRK:
		// BRK has a padding byte, the return address skips it.
		c.PC++
		c.interrupt(IRQVector, true)

	// branches
	case BCC:
		c.branch(in, !c.P.has(Carry))
	case BCS:
		c.branch(in, c.P.has(Carry))
	case BNE:
		c.branch(in, !c.P.has(Zero))
	case BEQ:
		c.branch(in, c.P.has(Zero))
	case BPL:
		c.branch(in, !c.P.has(Negative))
	case BMI:
		c.branch(in, c.P.has(Negative))
	case BVC:
		c.branch(in, !c.P.has(Overflow))
	case BVS:
		c.branch(in, c.P.has(Overflow))

	// status flags
	case CLC:
		c.P &^= Carry
	case SEC:
		c.P |= Carry
	case CLI:
		c.P &^= Interrupt
	case SEI:
		c.P |= Interrupt
	case CLD:
		c.P &^= Decimal
	case SED:
		c.P |= Decimal
	case CLV:
		c.P &^= Overflow

	case NOP:

	default:
		return false
	}
	return true
}

// operandAddr returns the effective address of the operand of in.
func (c *CPU) operandAddr(in Instruction) uint16 {
	switch in.Mode {
	case ZeroPage:
		return uint16(in.Arg8())
	case ZeroPageX:
		return c.Bus.ZeroPageIdx(in.Arg8(), c.X)
	case ZeroPageY:
		return c.Bus.ZeroPageIdx(in.Arg8(), c.Y)
	case Absolute:
		return in.Arg16()
	case AbsoluteX:
		return c.Bus.AbsoluteIdx(in.Arg16(), c.X)
	case AbsoluteY:
		return c.Bus.AbsoluteIdx(in.Arg16(), c.Y)
	case Indirect:
		return c.Bus.Indirect(in.Arg16())
	case IndexedIndirect:
		return c.Bus.IndexedIndirect(in.Arg8(), c.X)
	case IndirectIndexed:
		return c.Bus.IndirectIndexed(in.Arg8(), c.Y)
	}
	panic("operandAddr: no address for mode " + in.Mode.String())
}

// operand returns the value of the operand of in.
func (c *CPU) operand(in Instruction) uint8 {
	if in.Mode == Immediate {
		return in.Arg8()
	}
	return c.Bus.Read8(c.operandAddr(in))
}

// modify applies a read-modify-write operation on the accumulator or on
// memory, then sets N and Z from the result.
func (c *CPU) modify(in Instruction, op func(uint8) uint8) {
	if in.Mode == Accumulator {
		c.A = op(c.A)
		c.P.checkNZ(c.A)
		return
	}
	addr := c.operandAddr(in)
	v := op(c.Bus.Read8(addr))
	c.Bus.Write8(addr, v)
	c.P.checkNZ(v)
}

func (c *CPU) adc(v uint8) {
	sum := uint16(c.A) + uint16(v) + uint16(c.P&Carry)
	c.P.checkCV(c.A, v, sum)
	c.A = uint8(sum)
	c.P.checkNZ(c.A)
}

func (c *CPU) sbc(v uint8) {
	c.adc(v ^ 0xFF)
}

func (c *CPU) compare(reg, v uint8) {
	c.P.set(Carry, reg >= v)
	c.P.checkNZ(reg - v)
}

func (c *CPU) asl(v uint8) uint8 {
	c.P.set(Carry, v&0x80 != 0)
	return v << 1
}

func (c *CPU) lsr(v uint8) uint8 {
	c.P.set(Carry, v&0x01 != 0)
	return v >> 1
}

func (c *CPU) rol(v uint8) uint8 {
	carry := uint8(c.P & Carry)
	c.P.set(Carry, v&0x80 != 0)
	return v<<1 | carry
}

func (c *CPU) ror(v uint8) uint8 {
	carry := uint8(c.P & Carry)
	c.P.set(Carry, v&0x01 != 0)
	return v>>1 | carry<<7
}

// branch adds the signed displacement to PC, which already points past the
// branch instruction.
func (c *CPU) branch(in Instruction, cond bool) {
	if cond {
		c.PC += uint16(int8(in.Arg8()))
	}
}
