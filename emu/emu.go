package emu

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/hw/input"
	"nescore/ines"
)

// Presenter displays the frames produced by the PPU.
type Presenter interface {
	// Present shows frame. The image is only valid during the call. It
	// returns false once the user asked to close the output.
	Present(frame *image.RGBA) bool
}

// frameDuration is the period of the 60Hz frame limiter.
const frameDuration = time.Second / 60

// number of instructions between 2 checks of the input poll deadline.
const pollCheckSteps = 256

type Emulator struct {
	NES  *hw.NES
	Cart *hw.Cartridge // nil without cartridge

	out   Presenter
	input input.Provider
	cfg   EmulationConfig

	sramPath string

	// These are accessed concurrently by the emulator loop and the UI.
	quit    atomic.Bool
	reset   atomic.Bool
	restart atomic.Bool
	polling atomic.Bool // an input poll is in flight
}

// New returns an emulator without cartridge, displaying frames to out and
// reading controller 1 from in. in may be nil.
func New(cfg Config, out Presenter, in input.Provider) *Emulator {
	e := &Emulator{
		NES:   hw.NewNES(),
		out:   out,
		input: in,
		cfg:   cfg.Emulation,
	}
	if cfg.TraceOut != nil {
		e.NES.CPU.SetTraceOutput(cfg.TraceOut)
	}
	e.NES.Reset(false)
	return e
}

// Launch creates an emulator and inserts the cartridge at romPath. If the
// cartridge can't be loaded, the error is logged and the emulator is
// returned anyway, without cartridge.
func Launch(romPath string, cfg Config, out Presenter, in input.Provider) *Emulator {
	e := New(cfg, out, in)
	if err := e.LoadROM(romPath); err != nil {
		log.ModEmu.ErrorZ("failed to load cartridge, running without").
			Error("err", err).
			End()
	}
	return e
}

// LoadROM inserts the cartridge at path and powers the console up. On error
// the console is left without cartridge.
func (e *Emulator) LoadROM(path string) error {
	rom, err := ines.Open(path)
	if err != nil {
		e.eject()
		return err
	}
	cart, err := insert(e.NES, rom)
	if err != nil {
		e.eject()
		return fmt.Errorf("%s: %w", path, err)
	}

	e.Cart = cart
	e.sramPath = ""
	if cart.Battery {
		e.sramPath = savePath(path)
		if err := loadSRAM(cart, e.sramPath); err != nil {
			log.ModEmu.WarnZ("failed to load save RAM").Error("err", err).End()
		}
	}

	e.NES.Reset(false)
	return nil
}

func (e *Emulator) eject() {
	e.NES.Bus.Eject()
	e.Cart = nil
	e.sramPath = ""
	e.NES.Reset(false)
}

// Run runs the emulation loop until Stop is called, the presenter reports a
// close request or ctx is done, in which cases it returns nil. If the CPU
// halts, Run returns an error wrapping hw.ErrHalted and the halt cause.
func (e *Emulator) Run(ctx context.Context) error {
	defer e.persist()

	log.ModEmu.InfoZ("emulation loop started").End()
	defer log.ModEmu.InfoZ("emulation loop exited").End()

	frame := e.NES.PPU.FrameCount()
	nextFrame := time.Now().Add(frameDuration)
	var lastPoll time.Time

	for steps := 0; ; steps++ {
		if e.quit.Load() || ctx.Err() != nil {
			return nil
		}
		e.handleReset()

		if _, err := e.NES.Step(); err != nil {
			return fmt.Errorf("%w: %w", hw.ErrHalted, err)
		}

		if steps%pollCheckSteps == 0 && time.Since(lastPoll) >= e.cfg.pollInterval() {
			e.pollInput(ctx)
			lastPoll = time.Now()
		}

		if n := e.NES.PPU.FrameCount(); n != frame {
			frame = n
			if e.out != nil && !e.out.Present(e.NES.PPU.Frame()) {
				return nil
			}
			if !e.cfg.DisableFrameLimit {
				nextFrame = e.limitFrame(ctx, nextFrame)
			}
		}
	}
}

// limitFrame waits until deadline, and returns the next one. When the
// emulator is late by more than a frame, the schedule is reset.
func (e *Emulator) limitFrame(ctx context.Context, deadline time.Time) time.Time {
	now := time.Now()
	if now.Sub(deadline) > frameDuration {
		return now.Add(frameDuration)
	}
	if d := deadline.Sub(now); d > 0 {
		t := time.NewTimer(d)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
		}
	}
	return deadline.Add(frameDuration)
}

type pollResult struct {
	buttons input.Buttons
	err     error
}

// pollInput fetches a new buttons snapshot, waiting at most the configured
// timeout. On error or timeout the previous snapshot is kept.
func (e *Emulator) pollInput(ctx context.Context) {
	if e.input == nil {
		return
	}
	if !e.polling.CompareAndSwap(false, true) {
		// The previous poll hasn't returned yet.
		return
	}

	pctx, cancel := context.WithTimeout(ctx, e.cfg.pollTimeout())
	defer cancel()

	done := make(chan pollResult, 1)
	go func() {
		defer e.polling.Store(false)
		bs, err := e.input.Poll(pctx)
		done <- pollResult{buttons: bs, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			log.ModInput.DebugZ("input poll failed").Error("err", res.err).End()
			return
		}
		e.NES.Bus.Input.SetButtons(res.buttons)
	case <-pctx.Done():
		log.ModInput.DebugZ("input poll timed out").End()
	}
}

func (e *Emulator) persist() {
	if e.Cart == nil || e.sramPath == "" {
		return
	}
	if err := saveSRAM(e.Cart, e.sramPath); err != nil {
		log.ModEmu.ErrorZ("failed to persist save RAM").Error("err", err).End()
	}
}

// Stop, Reset and Restart allow to control the emulator loop in a
// concurrent-safe way.

func (e *Emulator) Stop()    { e.quit.Store(true) }
func (e *Emulator) Reset()   { e.reset.Store(true) }
func (e *Emulator) Restart() { e.restart.Store(true) }

func (e *Emulator) handleReset() {
	if e.reset.CompareAndSwap(true, false) {
		log.ModEmu.InfoZ("Performing soft reset").End()
		e.NES.Reset(true)
	} else if e.restart.CompareAndSwap(true, false) {
		log.ModEmu.InfoZ("Performing hard reset").End()
		e.NES.Reset(false)
	}
}
