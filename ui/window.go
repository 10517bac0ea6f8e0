// Package ui displays the emulator screen in an SDL window rendered with
// OpenGL, and reads the keyboard for controller 1.
package ui

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/veandco/go-sdl2/sdl"

	"nescore/emu"
	"nescore/emu/log"
	"nescore/hw"
	"nescore/hw/input"
)

var modUI = log.NewModule("ui")

// redraw period when vsync is disabled.
const redrawPeriod = time.Second / 120

// Controller receives the reset requests made with hotkeys.
type Controller interface {
	Reset()
	Restart()
}

// Window shows frames produced by the emulator and reports the keyboard
// state as controller 1 buttons. All SDL and OpenGL calls are made on the
// main thread through sdl.Do, the caller must be running inside sdl.Main.
type Window struct {
	win   *sdl.Window
	glctx sdl.GLContext
	prog  uint32
	tex   uint32
	vao   uint32
	vsync bool

	keys [input.NumButtons]sdl.Scancode

	mu    sync.Mutex
	pix   []byte // last presented frame
	dirty bool

	closed atomic.Bool
}

// NewWindow creates and shows the window.
func NewWindow(title string, vcfg emu.VideoConfig, icfg input.Config) (*Window, error) {
	vcfg.Check(ShaderNames)
	keys, err := icfg.Mapping()
	if err != nil {
		return nil, err
	}

	w := &Window{
		vsync: !vcfg.DisableVSync,
		pix:   make([]byte, hw.ScreenWidth*hw.ScreenHeight*4),
	}
	sdl.Do(func() {
		err = w.init(title, vcfg, keys)
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Window) init(title string, vcfg emu.VideoConfig, keys [input.NumButtons]string) error {
	for b, name := range keys {
		sc := sdl.GetScancodeFromName(name)
		if sc == sdl.SCANCODE_UNKNOWN {
			return fmt.Errorf("unknown key %q for button %s", name, input.Button(b))
		}
		w.keys[b] = sc
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("failed to initialize SDL: %s", err)
	}

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)

	// Center the window on the configured monitor.
	pos := int32(sdl.WINDOWPOS_CENTERED_MASK) | vcfg.Monitor
	win, err := sdl.CreateWindow(title, pos, pos,
		int32(hw.ScreenWidth*vcfg.Scale), int32(hw.ScreenHeight*vcfg.Scale),
		sdl.WINDOW_OPENGL|sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return fmt.Errorf("failed to create window: %s", err)
	}
	w.win = win

	if w.glctx, err = win.GLCreateContext(); err != nil {
		return fmt.Errorf("failed to create OpenGL context: %s", err)
	}
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize opengl: %s", err)
	}

	interval := 0
	if w.vsync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		modUI.WarnZ("failed to set swap interval").Error("err", err).End()
		w.vsync = false
	}

	gl.GenTextures(1, &w.tex)
	gl.BindTexture(gl.TEXTURE_2D, w.tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, hw.ScreenWidth, hw.ScreenHeight, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&w.pix[0]))

	if w.prog, err = newProgram(vcfg.Shader); err != nil {
		return err
	}

	var vbo, ebo uint32
	gl.GenVertexArrays(1, &w.vao)
	gl.GenBuffers(1, &vbo)
	gl.GenBuffers(1, &ebo)

	gl.BindVertexArray(w.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	// Position attributes
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 5*4, 0)
	gl.EnableVertexAttribArray(0)

	// Texture coordinate attributes.
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 5*4, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	modUI.InfoZ("window created").
		Int("scale", vcfg.Scale).
		String("shader", vcfg.Shader).
		Bool("vsync", w.vsync).
		End()
	return nil
}

// Present implements emu.Presenter. The frame is copied, it's uploaded to
// the GPU at the next redraw.
func (w *Window) Present(frame *image.RGBA) bool {
	w.mu.Lock()
	copy(w.pix, frame.Pix)
	w.dirty = true
	w.mu.Unlock()
	return !w.closed.Load()
}

// Poll implements input.Provider with the current keyboard state.
func (w *Window) Poll(ctx context.Context) (input.Buttons, error) {
	var bs input.Buttons
	sdl.Do(func() {
		state := sdl.GetKeyboardState()
		for b, sc := range w.keys {
			if int(sc) < len(state) && state[sc] != 0 {
				bs.Set(input.Button(b), true)
			}
		}
	})
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return bs, nil
}

// Run processes window events and redraws the screen until the window is
// closed or ctx is done. Escape closes the window, F1 requests a soft reset
// and F2 a hard one.
func (w *Window) Run(ctx context.Context, ctl Controller) error {
	defer w.closed.Store(true)

	var tick <-chan time.Time
	if !w.vsync {
		t := time.NewTicker(redrawPeriod)
		defer t.Stop()
		tick = t.C
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		var quit bool
		sdl.Do(func() {
			quit = w.handleEvents(ctl)
			if !quit {
				w.draw()
			}
		})
		if quit {
			modUI.InfoZ("window closed").End()
			return nil
		}
		if tick != nil {
			select {
			case <-tick:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// handleEvents reports whether the window should close.
func (w *Window) handleEvents(ctl Controller) bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return true
		case *sdl.KeyboardEvent:
			if e.State != sdl.PRESSED || e.Repeat != 0 {
				break
			}
			switch e.Keysym.Scancode {
			case sdl.SCANCODE_ESCAPE:
				return true
			case sdl.SCANCODE_F1:
				ctl.Reset()
			case sdl.SCANCODE_F2:
				ctl.Restart()
			}
		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				gl.Viewport(0, 0, e.Data1, e.Data2)
			}
		}
	}
	return false
}

func (w *Window) draw() {
	gl.BindTexture(gl.TEXTURE_2D, w.tex)

	w.mu.Lock()
	if w.dirty {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, hw.ScreenWidth, hw.ScreenHeight, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&w.pix[0]))
		w.dirty = false
	}
	w.mu.Unlock()

	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(w.prog)
	gl.BindVertexArray(w.vao)
	gl.DrawElements(gl.TRIANGLES, int32(len(indices)), gl.UNSIGNED_INT, nil)
	w.win.GLSwap()
}

// Close destroys the window and shuts SDL down.
func (w *Window) Close() error {
	w.closed.Store(true)

	var err error
	sdl.Do(func() {
		if w.glctx != nil {
			sdl.GLDeleteContext(w.glctx)
		}
		if w.win != nil {
			err = w.win.Destroy()
		}
		sdl.Quit()
	})
	return err
}
