package emu

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/hw/mappers"
	"nescore/ines"
)

// insert builds the cartridge of rom and maps it into nes.
func insert(nes *hw.NES, rom *ines.Rom) (*hw.Cartridge, error) {
	cart := hw.NewCartridge(rom)
	if err := mappers.Load(cart, nes); err != nil {
		nes.Bus.Eject()
		return nil, err
	}
	return cart, nil
}

// savePath returns the save RAM file of the rom at romPath.
func savePath(romPath string) string {
	return strings.TrimSuffix(romPath, filepath.Ext(romPath)) + ".sav"
}

// loadSRAM fills the cartridge save RAM from path. A missing file is not an
// error: the game has never been saved.
func loadSRAM(cart *hw.Cartridge, path string) error {
	buf, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(buf) != len(cart.SRAM) {
		log.ModEmu.WarnZ("unexpected save RAM size").
			String("path", path).
			Int("size", len(buf)).
			End()
	}
	copy(cart.SRAM, buf)
	return nil
}

func saveSRAM(cart *hw.Cartridge, path string) error {
	if err := os.WriteFile(path, cart.SRAM, 0o644); err != nil {
		return fmt.Errorf("save RAM: %w", err)
	}
	log.ModEmu.InfoZ("save RAM written").String("path", path).End()
	return nil
}
