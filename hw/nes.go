package hw

import "nescore/emu/log"

// NES wires the CPU, its bus and the PPU together.
type NES struct {
	CPU *CPU
	Bus *Bus
	PPU *PPU
}

// NewNES returns a powered-off console without cartridge. Call Reset(false)
// after inserting one.
func NewNES() *NES {
	ppu := NewPPU()
	bus := NewBus(ppu)
	return &NES{
		CPU: NewCPU(bus),
		Bus: bus,
		PPU: ppu,
	}
}

// Reset performs a power-up (soft=false) or presses the reset button.
func (nes *NES) Reset(soft bool) {
	nes.Bus.Reset()
	nes.PPU.Reset()
	nes.CPU.Reset(soft)
}

// Step executes one CPU instruction and runs the PPU for the same amount of
// time, servicing the NMI the PPU may request. It returns the elapsed CPU
// cycles, DMA stalls included.
func (nes *NES) Step() (int, error) {
	cycles, err := nes.CPU.Step()
	if err != nil {
		return 0, err
	}

	if stall := nes.Bus.takeStall(); stall != 0 {
		nes.CPU.Cycles += int64(stall)
		cycles += stall
	}

	if nes.PPU.Step(cycles) {
		n := nes.CPU.NMI()
		nes.PPU.Step(n)
		cycles += n
	}
	return cycles, nil
}

// RunFrame steps the console until the PPU completes a frame.
func (nes *NES) RunFrame() error {
	frame := nes.PPU.FrameCount()
	for nes.PPU.FrameCount() == frame {
		if _, err := nes.Step(); err != nil {
			log.ModEmu.DebugZ("frame interrupted").
				Uint("frame", uint(frame)).
				Error("err", err).
				End()
			return err
		}
	}
	return nil
}
