package hw

import (
	"errors"
	"fmt"
	"io"

	"nescore/emu/log"
)

// Locations reserved for vector pointers.
const (
	NMIVector   = uint16(0xFFFA) // Non-Maskable Interrupt
	ResetVector = uint16(0xFFFC) // Reset
	IRQVector   = uint16(0xFFFE) // Interrupt Request, BRK
)

// Cycles taken by the interrupt entry sequence.
const interruptCycles = 7

var (
	// ErrInvalidOpcode is returned when the CPU decodes a byte that maps to
	// no instruction.
	ErrInvalidOpcode = errors.New("invalid opcode")

	// ErrUnimplemented is returned for an instruction without execution case.
	ErrUnimplemented = errors.New("unimplemented instruction")

	// ErrHalted is returned by Step once the CPU has stopped.
	ErrHalted = errors.New("CPU halted")
)

// OpcodeError reports the instruction the CPU stopped on.
type OpcodeError struct {
	PC     uint16
	Opcode uint8
	Err    error
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("%v $%02X at $%04X", e.Err, e.Opcode, e.PC)
}

func (e *OpcodeError) Unwrap() error { return e.Err }

// CPU is the 6502 core. Its only connection to the rest of the system is the
// Bus.
type CPU struct {
	Bus *Bus

	A, X, Y, SP uint8
	PC          uint16
	P           P

	Cycles int64 // total elapsed CPU cycles

	// Non-nil when execution tracing is enabled.
	tracer *tracer

	halted bool
}

// NewCPU creates a CPU connected to bus. Call Reset before running it.
func NewCPU(bus *Bus) *CPU {
	return &CPU{
		Bus: bus,
		SP:  0xFD,
		P:   powerUpStatus,
	}
}

// Reset performs a power-up (soft=false) or a reset button press (soft=true).
// In both cases execution resumes at the reset vector.
func (c *CPU) Reset(soft bool) {
	if soft {
		c.SP -= 3
		c.P |= Interrupt
	} else {
		c.A, c.X, c.Y = 0, 0, 0
		c.SP = 0xFD
		c.P = powerUpStatus
		c.Cycles = 0
	}
	c.halted = false
	c.PC = c.Bus.Read16(ResetVector)

	log.ModCPU.InfoZ("reset").
		Bool("soft", soft).
		Hex16("PC", c.PC).
		End()
}

// SetTraceOutput enables execution tracing to w, or disables it if w is nil.
func (c *CPU) SetTraceOutput(w io.Writer) {
	if w == nil {
		c.tracer = nil
		return
	}
	c.tracer = &tracer{w: w, d: c}
}

func (c *CPU) IsHalted() bool {
	return c.halted
}

// Step executes one instruction and returns the number of elapsed cycles. On
// an opcode the CPU can't execute, it halts and returns an *OpcodeError;
// subsequent calls return ErrHalted.
func (c *CPU) Step() (int, error) {
	if c.halted {
		return 0, ErrHalted
	}

	pc := c.PC
	in, ok := c.decode()
	if !ok {
		return 0, c.halt(pc, in.Code, ErrInvalidOpcode)
	}

	if c.tracer != nil {
		c.traceOp()
	}

	c.PC += in.Mode.Size()
	if !c.execute(in) {
		return 0, c.halt(pc, in.Code, ErrUnimplemented)
	}

	c.Cycles += int64(in.Cycles)
	return int(in.Cycles), nil
}

// decode fetches the instruction at PC. Operand bytes are only read when the
// addressing mode uses them, since reads can have side effects.
func (c *CPU) decode() (Instruction, bool) {
	code := c.Bus.Read8(c.PC)
	op, ok := Decode(code)
	in := Instruction{Opcode: op}
	in.Code = code
	if !ok {
		return in, false
	}
	for i := range op.Mode.Size() - 1 {
		in.Operand[i] = c.Bus.Read8(c.PC + 1 + i)
	}
	return in, true
}

func (c *CPU) halt(pc uint16, opcode uint8, err error) error {
	c.halted = true
	log.ModCPU.WarnZ("CPU halted").
		Hex16("PC", pc).
		Hex8("opcode", opcode).
		Error("err", err).
		End()
	return &OpcodeError{PC: pc, Opcode: opcode, Err: err}
}

// NMI services a non-maskable interrupt and returns the elapsed cycles.
func (c *CPU) NMI() int {
	c.interrupt(NMIVector, false)
	c.Cycles += interruptCycles
	return interruptCycles
}

// interrupt pushes PC and P then jumps to the handler at vector. brk sets the
// break bit in the pushed status.
func (c *CPU) interrupt(vector uint16, brk bool) {
	c.push16(c.PC)
	c.push8(c.P.pushed(brk))
	c.P |= Interrupt
	c.PC = c.Bus.Read16(vector)
}

/* stack operations */

func (c *CPU) push8(val uint8) {
	c.Bus.Write8(0x0100+uint16(c.SP), val)
	c.SP--
}

func (c *CPU) push16(val uint16) {
	c.push8(uint8(val >> 8))
	c.push8(uint8(val))
}

func (c *CPU) pull8() uint8 {
	c.SP++
	return c.Bus.Read8(0x0100 + uint16(c.SP))
}

func (c *CPU) pull16() uint16 {
	lo := c.pull8()
	hi := c.pull8()
	return uint16(hi)<<8 | uint16(lo)
}
