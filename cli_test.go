package main

import (
	"os"
	"path/filepath"
	"testing"

	"nescore/emu/log"
	"nescore/tests"
	"nescore/ui"
)

func TestMain(m *testing.M) {
	log.Disable()
	os.Exit(m.Run())
}

func TestParseArgs(t *testing.T) {
	rom := filepath.Join(t.TempDir(), "game.nes")
	if err := os.WriteFile(rom, tests.ROM{}.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	cli := parseArgs([]string{"rom-infos", "--json", rom}, ui.ShaderNames)
	if cli.mode != romInfosMode || !cli.RomInfos.JSON || cli.RomInfos.RomPath != rom {
		t.Errorf("rom-infos: mode = %d, args = %+v", cli.mode, cli.RomInfos)
	}

	cli = parseArgs([]string{rom, "--scale", "2", "--trace", "stdout"}, ui.ShaderNames)
	if cli.mode != runMode {
		t.Fatalf("mode = %d, want runMode", cli.mode)
	}
	if cli.Run.Scale != 2 || cli.Run.RomPath != rom {
		t.Errorf("run args = %+v", cli.Run)
	}
	if cli.Run.Trace == nil || cli.Run.Trace.String() != "stdout" || cli.Run.Trace.w != os.Stdout {
		t.Errorf("trace output = %v, want stdout", cli.Run.Trace)
	}

	cli = parseArgs([]string{"version"}, ui.ShaderNames)
	if cli.mode != versionMode {
		t.Errorf("mode = %d, want versionMode", cli.mode)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := loadConfig(Run{
		Config:       path,
		Scale:        2,
		Monitor:      1,
		Shader:       "bogus",
		NoFrameLimit: true,
	})

	if cfg.Video.Scale != 2 || cfg.Video.Monitor != 1 {
		t.Errorf("video config = %+v", cfg.Video)
	}
	if cfg.Video.Shader != ui.ShaderNames[0] {
		t.Errorf("shader = %q, want fallback %q", cfg.Video.Shader, ui.ShaderNames[0])
	}
	if !cfg.Emulation.DisableFrameLimit {
		t.Errorf("frame limit not disabled")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config not written: %v", err)
	}
}
