package emu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfigOrDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), cfgFilename)

	cfg, err := LoadConfigOrDefault(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}

	cfg.Video.Scale = 2
	cfg.Video.Shader = "crt"
	cfg.Emulation.DisableFrameLimit = true
	cfg.Input.Keys["A"] = "K"
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatal(err)
	}

	got, err := LoadConfigOrDefault(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("config round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), cfgFilename)
	const content = `
[video]
scale = 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigOrDefault(path)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	want.Video.Scale = 4
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), cfgFilename)
	if err := os.WriteFile(path, []byte("[video\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigOrDefault(path); err == nil {
		t.Fatal("LoadConfigOrDefault() succeeded on invalid toml")
	}
}

func TestVideoConfigCheck(t *testing.T) {
	shaders := []string{"passthrough", "crt"}

	vcfg := VideoConfig{Shader: "bogus"}
	vcfg.Check(shaders)
	want := VideoConfig{Scale: 3, Shader: "passthrough"}
	if diff := cmp.Diff(want, vcfg); diff != "" {
		t.Errorf("checked config mismatch (-want +got):\n%s", diff)
	}

	vcfg = VideoConfig{Scale: 2, Shader: "crt"}
	vcfg.Check(shaders)
	if vcfg.Shader != "crt" || vcfg.Scale != 2 {
		t.Errorf("valid config changed: %+v", vcfg)
	}
}
