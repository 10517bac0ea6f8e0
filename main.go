package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/go-faster/jx"

	"nescore/hw/mappers"
	"nescore/ines"
	"nescore/ui"
)

func main() {
	cli := parseArgs(os.Args[1:], ui.ShaderNames)

	switch cli.mode {
	case romInfosMode:
		romInfosMain(cli.RomInfos)
	case versionMode:
		printVersion()
	default:
		runMain(cli.Run)
	}
}

func romInfosMain(args RomInfos) {
	rom, err := ines.Open(args.RomPath)
	checkf(err, "failed to read ROM")

	infos := rom.Infos()
	infos.MapperName = mappers.Name(infos.Mapper)

	if !args.JSON {
		checkf(infos.WriteText(os.Stdout), "failed to write ROM infos")
		return
	}

	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	infos.Encode(e)
	e.Raw([]byte("\n"))
	_, err = os.Stdout.Write(e.Bytes())
	checkf(err, "failed to write ROM infos")
}

func printVersion() {
	version := "(devel)"
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		version = bi.Main.Version
	}
	fmt.Println("nescore", version)
}
