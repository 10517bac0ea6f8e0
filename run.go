package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"

	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/sync/errgroup"

	"nescore/emu"
	"nescore/emu/log"
	"nescore/ui"
)

// runMain runs the emulator with the given rom, until the window is closed or
// the CPU halts.
func runMain(args Run) {
	cfg := loadConfig(args)

	var exitcode int
	sdl.Main(func() {
		if err := run(args, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "emulation stopped: %v\n", err)
			exitcode = 1
		}
	})
	os.Exit(exitcode)
}

// loadConfig loads the configuration file and applies command line
// overrides.
func loadConfig(args Run) emu.Config {
	path := args.Config
	if path == "" {
		var err error
		path, err = emu.ConfigPath()
		checkf(err, "failed to locate configuration")
	}
	cfg, err := emu.LoadConfigOrDefault(path)
	checkf(err, "failed to load configuration")

	if args.Scale > 0 {
		cfg.Video.Scale = args.Scale
	}
	if args.Shader != "" {
		cfg.Video.Shader = args.Shader
	}
	cfg.Video.Monitor = args.Monitor
	if args.NoFrameLimit {
		cfg.Emulation.DisableFrameLimit = true
	}
	cfg.Video.Check(ui.ShaderNames)
	return cfg
}

func run(args Run, cfg emu.Config) error {
	title := "nescore - " + filepath.Base(args.RomPath)
	win, err := ui.NewWindow(title, cfg.Video, cfg.Input)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Close()

	if args.Trace != nil {
		cfg.TraceOut = args.Trace
		defer args.Trace.Close()
	}

	emulator := emu.Launch(args.RomPath, cfg, win, win)

	if args.CPUProfile != "" {
		f, err := os.Create(args.CPUProfile)
		checkf(err, "failed to create cpu profile file")
		checkf(pprof.StartCPUProfile(f), "failed to start cpu profile")
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
			fmt.Println("CPU profile written to", args.CPUProfile)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return emulator.Run(ctx)
	})
	g.Go(func() error {
		defer emulator.Stop()
		return win.Run(ctx, emulator)
	})

	err = g.Wait()
	if err != nil {
		log.ModEmu.ErrorZ("emulator halted").Error("err", err).End()
	}
	return err
}
