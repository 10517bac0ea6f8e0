// Package ines decodes cartridge images in the iNES file format, used for
// the distribution of NES binary programs.
package ines

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	Magic       = "NES\x1a"
	HeaderSize  = 16
	TrainerSize = 512
	PRGBankSize = 16 << 10
	CHRBankSize = 8 << 10
)

var (
	ErrBadMagic  = errors.New("invalid magic number")
	ErrTruncated = errors.New("truncated image")
)

// Rom is a decoded iNES image.
//
// PRG and CHR hold what the image actually contains, which may be shorter
// than what the header declares for truncated dumps.
type Rom struct {
	header
	Trainer []byte // 512 bytes if present, or empty.
	PRG     []byte
	CHR     []byte
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rom, nil
}

// Decode decodes an in-memory image.
func Decode(buf []byte) (*Rom, error) {
	rom := new(Rom)
	if err := rom.decode(buf); err != nil {
		return nil, err
	}
	return rom, nil
}

// ReadFrom implements io.ReaderFrom.
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return int64(len(buf)), err
	}
	return int64(len(buf)), rom.decode(buf)
}

func (rom *Rom) decode(buf []byte) error {
	if err := rom.header.decode(buf); err != nil {
		return fmt.Errorf("failed to decode header: %w", err)
	}
	off := HeaderSize

	if rom.HasTrainer() {
		if len(buf) < off+TrainerSize {
			return fmt.Errorf("trainer section: %w", ErrTruncated)
		}
		rom.Trainer = buf[off : off+TrainerSize]
		off += TrainerSize
	}

	rom.PRG = section(buf, off, rom.PRGSize())
	off += rom.PRGSize()
	rom.CHR = section(buf, off, rom.CHRSize())
	return nil
}

// section returns buf[off:off+size], clamped to the available data.
func section(buf []byte, off, size int) []byte {
	if off >= len(buf) {
		return nil
	}
	end := min(off+size, len(buf))
	return buf[off:end:end]
}

type header struct {
	raw [HeaderSize]byte
}

func (hdr *header) decode(p []byte) error {
	if len(p) < HeaderSize {
		return fmt.Errorf("header needs %d bytes, got %d: %w", HeaderSize, len(p), ErrTruncated)
	}
	if string(p[:4]) != Magic {
		return ErrBadMagic
	}
	copy(hdr.raw[:], p[:HeaderSize])
	return nil
}

// Header returns the raw 16 header bytes.
func (hdr *header) Header() [HeaderSize]byte { return hdr.raw }

// PRGBanks returns the number of 16KB PRG ROM banks.
func (hdr *header) PRGBanks() int { return int(hdr.raw[4]) }

// CHRBanks returns the number of 8KB CHR ROM banks. Zero means the board uses
// CHR RAM.
func (hdr *header) CHRBanks() int { return int(hdr.raw[5]) }

func (hdr *header) PRGSize() int { return hdr.PRGBanks() * PRGBankSize }
func (hdr *header) CHRSize() int { return hdr.CHRBanks() * CHRBankSize }

// Mirroring returns the nametable mirroring selected by the board.
func (hdr *header) Mirroring() Mirroring {
	return Mirroring(hdr.raw[6] & 0x01)
}

// HasPersistent indicates the presence of battery-backed save RAM.
func (hdr *header) HasPersistent() bool {
	return hdr.raw[6]&0x02 != 0
}

// HasTrainer indicates the presence of a trainer section in the rom.
func (hdr *header) HasTrainer() bool {
	return hdr.raw[6]&0x04 != 0
}

// FourScreen indicates the board provides its own nametable RAM.
func (hdr *header) FourScreen() bool {
	return hdr.raw[6]&0x08 != 0
}

// Mapper returns the mapper number.
func (hdr *header) Mapper() uint16 {
	return uint16(hdr.raw[6]>>4) | uint16(hdr.raw[7]&0xF0)
}

// Mirroring is the nametable arrangement.
type Mirroring uint8

const (
	HorzMirroring Mirroring = 0
	VertMirroring Mirroring = 1
)

func (m Mirroring) String() string {
	if m == VertMirroring {
		return "vertical"
	}
	return "horizontal"
}
