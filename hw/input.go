package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
	"nescore/hw/input"
)

// InputPorts is the controller port at $4016. $4017 (second controller) is
// not connected and reads as 0.
type InputPorts struct {
	In hwio.Reg8 `hwio:"offset=0x16,rcb,wcb"`

	buttons input.Buttons // last snapshot from the provider
	strobe  bool
	shift   uint8 // controller shift register
	nread   int   // bits shifted out since the last latch
}

func (ip *InputPorts) initBus() {
	hwio.MustInitRegs(ip)
	ip.reset()
}

func (ip *InputPorts) reset() {
	ip.strobe = false
	ip.shift = 0
	ip.nread = 0
}

// SetButtons updates the buttons snapshot. The controller latches it on the
// next strobe.
func (ip *InputPorts) SetButtons(bs input.Buttons) {
	if bs != ip.buttons {
		log.ModInput.DebugZ("buttons").Stringer("state", bs).End()
	}
	ip.buttons = bs
}

// Buttons returns the current buttons snapshot.
func (ip *InputPorts) Buttons() input.Buttons { return ip.buttons }

func (ip *InputPorts) latch() {
	ip.shift = uint8(ip.buttons)
	ip.nread = 0
}

// In: $4016
func (ip *InputPorts) WriteIN(_, val uint8) {
	prev := ip.strobe
	ip.strobe = val&1 != 0
	if ip.strobe || prev {
		ip.latch()
	}
}

func (ip *InputPorts) ReadIN(_ uint8) uint8 {
	if ip.strobe {
		// While strobe is high, the controller keeps reloading its shift
		// register and reports the A button.
		ip.latch()
		return ip.shift & 1
	}
	if ip.nread >= int(input.NumButtons) {
		return 1
	}
	bit := ip.shift & 1
	ip.shift >>= 1
	ip.nread++
	return bit
}
