package hw

// P is the processor status register.
type P uint8

const (
	Carry P = 1 << iota
	Zero
	Interrupt
	Decimal // stored, never alters arithmetic
	Break
	Reserved
	Overflow
	Negative
)

// Status byte at power-up: I and the two unused bits set.
const powerUpStatus = P(0x34)

func (p P) String() string {
	const bits = "nvubdizcNVUBDIZC"

	s := make([]byte, 8)
	for i := range 8 {
		ibit := (uint8(p) >> (7 - i)) & 1
		s[i] = bits[i+int(8*ibit)]
	}
	return string(s)
}

func (p P) has(flag P) bool {
	return p&flag == flag
}

func (p *P) set(flag P, b bool) {
	if b {
		*p |= flag
	} else {
		*p &^= flag
	}
}

// checkNZ recomputes N and Z from v.
func (p *P) checkNZ(v uint8) {
	p.set(Zero, v == 0)
	p.set(Negative, v&0x80 != 0)
}

// checkCV sets C and V after the 9-bit sum of x and y.
func (p *P) checkCV(x, y uint8, sum uint16) {
	p.set(Carry, sum > 0xFF)
	// signed overflow: both operands have the same sign, the result doesn't.
	p.set(Overflow, (uint16(x)^sum)&(uint16(y)^sum)&0x80 != 0)
}

// pushed returns the byte written on the stack by PHP/BRK (brk=true) or by
// hardware interrupts.
func (p P) pushed(brk bool) uint8 {
	v := p | Reserved
	if brk {
		v |= Break
	} else {
		v &^= Break
	}
	return uint8(v)
}

// pulled returns the status restored by PLP/RTI from a stack byte. The break
// bit doesn't exist in the register, the unused bit reads as 1.
func pulled(v uint8) P {
	return (P(v) &^ Break) | Reserved
}
