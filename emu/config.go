package emu

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"nescore/emu/log"
	"nescore/hw/input"
)

type Config struct {
	Video     VideoConfig     `toml:"video"`
	Emulation EmulationConfig `toml:"emulation"`
	Input     input.Config    `toml:"input"`

	TraceOut io.Writer `toml:"-"`
}

type VideoConfig struct {
	Scale        int    `toml:"scale"`
	DisableVSync bool   `toml:"disable_vsync"`
	Monitor      int32  `toml:"monitor"`
	Shader       string `toml:"shader"`
}

// Check replaces invalid settings with their default value. shaders lists
// the valid shader names, the first one being the default.
func (vcfg *VideoConfig) Check(shaders []string) {
	if vcfg.Scale < 1 {
		vcfg.Scale = DefaultConfig().Video.Scale
	}
	if len(shaders) == 0 {
		return
	}
	if vcfg.Shader == "" {
		vcfg.Shader = shaders[0]
	}
	if !slices.Contains(shaders, vcfg.Shader) {
		log.ModEmu.WarnZ("invalid shader name, fallback to default").
			String("shader", vcfg.Shader).
			String("default", shaders[0]).
			End()
		vcfg.Shader = shaders[0]
	}
}

type EmulationConfig struct {
	DisableFrameLimit bool `toml:"disable_frame_limit"`

	// Input is polled every PollIntervalMS milliseconds, each poll waits at
	// most PollTimeoutMS for the input device.
	PollIntervalMS int `toml:"poll_interval_ms"`
	PollTimeoutMS  int `toml:"poll_timeout_ms"`
}

func (ecfg EmulationConfig) pollInterval() time.Duration {
	return time.Duration(ecfg.PollIntervalMS) * time.Millisecond
}

func (ecfg EmulationConfig) pollTimeout() time.Duration {
	if ecfg.PollTimeoutMS <= 0 {
		return time.Duration(DefaultConfig().Emulation.PollTimeoutMS) * time.Millisecond
	}
	return time.Duration(ecfg.PollTimeoutMS) * time.Millisecond
}

func DefaultConfig() Config {
	return Config{
		Video: VideoConfig{
			Scale:  3,
			Shader: "passthrough",
		},
		Emulation: EmulationConfig{
			PollIntervalMS: 10,
			PollTimeoutMS:  2,
		},
		Input: input.DefaultConfig(),
	}
}

const cfgFilename = "config.toml"

// ConfigDir returns the nescore configuration directory, creating it if
// needed.
func ConfigDir() (string, error) {
	dir := configdir.LocalConfig("nescore")
	if err := configdir.MakePath(dir); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return dir, nil
}

// ConfigPath returns the path of the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, cfgFilename), nil
}

// LoadConfigOrDefault loads the configuration at path. If the file doesn't
// exist, the default configuration is written there and returned.
func LoadConfigOrDefault(path string) (Config, error) {
	cfg := DefaultConfig()
	_, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.ModEmu.InfoZ("writing default config").String("path", path).End()
		return cfg, SaveConfig(path, cfg)
	case err != nil:
		return DefaultConfig(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg at path.
func SaveConfig(path string, cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}
