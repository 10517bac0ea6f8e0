package ines

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/go-faster/jx"
)

// Infos summarizes an image header.
type Infos struct {
	PRGSize    int
	CHRSize    int
	CHRRAM     bool
	Mapper     uint16
	MapperName string
	Mirroring  Mirroring
	Battery    bool
	Trainer    bool
	FourScreen bool
}

func (rom *Rom) Infos() Infos {
	return Infos{
		PRGSize:    rom.PRGSize(),
		CHRSize:    rom.CHRSize(),
		CHRRAM:     rom.CHRBanks() == 0,
		Mapper:     rom.Mapper(),
		Mirroring:  rom.Mirroring(),
		Battery:    rom.HasPersistent(),
		Trainer:    rom.HasTrainer(),
		FourScreen: rom.FourScreen(),
	}
}

// WriteText writes infos as an aligned, human readable table.
func (i Infos) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	chr := fmt.Sprintf("%dKB", i.CHRSize>>10)
	if i.CHRRAM {
		chr = "none (8KB RAM)"
	}
	mapper := fmt.Sprintf("%03d", i.Mapper)
	if i.MapperName != "" {
		mapper += " (" + i.MapperName + ")"
	}

	fmt.Fprintf(tw, "PRG ROM:\t%dKB\n", i.PRGSize>>10)
	fmt.Fprintf(tw, "CHR ROM:\t%s\n", chr)
	fmt.Fprintf(tw, "Mapper:\t%s\n", mapper)
	fmt.Fprintf(tw, "Mirroring:\t%s\n", i.Mirroring)
	fmt.Fprintf(tw, "Battery:\t%t\n", i.Battery)
	fmt.Fprintf(tw, "Trainer:\t%t\n", i.Trainer)
	fmt.Fprintf(tw, "Four screen:\t%t\n", i.FourScreen)
	return tw.Flush()
}

// Encode writes infos as a JSON object.
func (i Infos) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("prg_size")
	e.Int(i.PRGSize)
	e.FieldStart("chr_size")
	e.Int(i.CHRSize)
	e.FieldStart("chr_ram")
	e.Bool(i.CHRRAM)
	e.FieldStart("mapper")
	e.Int(int(i.Mapper))
	if i.MapperName != "" {
		e.FieldStart("mapper_name")
		e.Str(i.MapperName)
	}
	e.FieldStart("mirroring")
	e.Str(i.Mirroring.String())
	e.FieldStart("battery")
	e.Bool(i.Battery)
	e.FieldStart("trainer")
	e.Bool(i.Trainer)
	e.FieldStart("four_screen")
	e.Bool(i.FourScreen)
	e.ObjEnd()
}

// Decode reads infos from a JSON object written by Encode.
func (i *Infos) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "prg_size":
			i.PRGSize, err = d.Int()
		case "chr_size":
			i.CHRSize, err = d.Int()
		case "chr_ram":
			i.CHRRAM, err = d.Bool()
		case "mapper":
			var n int
			n, err = d.Int()
			i.Mapper = uint16(n)
		case "mapper_name":
			i.MapperName, err = d.Str()
		case "mirroring":
			var s string
			if s, err = d.Str(); err == nil {
				i.Mirroring, err = parseMirroring(s)
			}
		case "battery":
			i.Battery, err = d.Bool()
		case "trainer":
			i.Trainer, err = d.Bool()
		case "four_screen":
			i.FourScreen, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
}

func parseMirroring(s string) (Mirroring, error) {
	switch s {
	case "horizontal":
		return HorzMirroring, nil
	case "vertical":
		return VertMirroring, nil
	}
	return 0, fmt.Errorf("unknown mirroring %q", s)
}
