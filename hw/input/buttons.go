// Package input defines the standard NES controller state and the interface
// of the devices that provide it.
package input

import (
	"context"
	"strings"
)

// A Button identifies a button of a standard NES controller. Buttons are
// numbered in the order the controller shift register reports them.
type Button uint8

const (
	A Button = iota
	B
	Select
	Start
	Up
	Down
	Left
	Right

	NumButtons
)

var buttonNames = [NumButtons]string{
	"A", "B", "Select", "Start", "Up", "Down", "Left", "Right",
}

func (b Button) String() string {
	if b < NumButtons {
		return buttonNames[b]
	}
	return "?"
}

// ButtonByName returns the button with the given name (case insensitive).
func ButtonByName(name string) (Button, bool) {
	for i, n := range buttonNames {
		if strings.EqualFold(n, name) {
			return Button(i), true
		}
	}
	return 0, false
}

// Buttons is a snapshot of the 8 buttons of a controller, bit n is set when
// Button(n) is pressed.
type Buttons uint8

func (bs Buttons) Pressed(b Button) bool {
	return bs&(1<<b) != 0
}

func (bs *Buttons) Set(b Button, pressed bool) {
	if pressed {
		*bs |= 1 << b
	} else {
		*bs &^= 1 << b
	}
}

func (bs Buttons) String() string {
	var sb strings.Builder
	for b := range NumButtons {
		if !bs.Pressed(b) {
			continue
		}
		if sb.Len() != 0 {
			sb.WriteByte('+')
		}
		sb.WriteString(b.String())
	}
	if sb.Len() == 0 {
		return "none"
	}
	return sb.String()
}

// A Provider reports the state of controller 1. Poll may block, callers give
// it a context with a short deadline.
type Provider interface {
	Poll(ctx context.Context) (Buttons, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (Buttons, error)

func (f ProviderFunc) Poll(ctx context.Context) (Buttons, error) { return f(ctx) }
