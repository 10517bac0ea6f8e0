package hwio

import (
	"fmt"

	"nescore/emu/log"
)

// log unmapped accesses (verbose: many games read from open bus)
const logUnmapped = false

// BankIO8 is implemented by anything mapped into a Table.
type BankIO8 interface {
	// Read8 reads a byte from the given address. If peek is true, the read
	// shouldn't have any side effects (debugging/tracing).
	Read8(addr uint16, peek bool) uint8
	Write8(addr uint16, val uint8)
}

func Read16(b BankIO8, addr uint16) uint16 {
	lo := b.Read8(addr, false)
	hi := b.Read8(addr+1, false)
	return uint16(hi)<<8 | uint16(lo)
}

func Write16(b BankIO8, addr uint16, val uint16) {
	b.Write8(addr, uint8(val))
	b.Write8(addr+1, uint8(val>>8))
}

// Table is a 16-bit address space decoder. Each address is routed to the
// BankIO8 mapped at it, Unmapped (if set) handles the rest.
type Table struct {
	Name     string
	Unmapped BankIO8

	pages [256]*[256]BankIO8
}

func NewTable(name string) *Table {
	return &Table{Name: name}
}

// Reset unmaps everything.
func (t *Table) Reset() {
	t.pages = [256]*[256]BankIO8{}
}

func (t *Table) search(addr uint16) BankIO8 {
	page := t.pages[addr>>8]
	if page == nil {
		return nil
	}
	return page[addr&0xFF]
}

func (t *Table) setRange(begin, end uint16, io BankIO8) {
	for addr := uint32(begin); addr <= uint32(end); addr++ {
		page := t.pages[addr>>8]
		if page == nil {
			if io == nil {
				continue
			}
			page = new([256]BankIO8)
			t.pages[addr>>8] = page
		}
		page[addr&0xFF] = io
	}
}

// MapBank maps a register bank, that is a structure containing multiple
// Reg8, Mem or Device fields. For this function to work, registers must have a
// struct tag "hwio", containing the following fields:
//
//	offset=0x12     Byte-offset within the register bank at which this
//	                register is mapped. There is no default value: if this
//	                option is missing, the register is assumed not to be
//	                part of the bank, and is ignored by this call.
//
//	bank=NN         Ordinal bank number (if not specified, default to zero).
//	                This option allows for a structure to expose multiple
//	                banks, as regs can be grouped by bank by specified the
//	                bank number.
//
// See InitRegs for the other options.
func (t *Table) MapBank(addr uint16, bank any, bankNum int) {
	regs, err := bankGetRegs(bank, bankNum)
	if err != nil {
		panic(err)
	}

	for _, reg := range regs {
		switch r := reg.ptr.(type) {
		case *Mem:
			t.MapMem(addr+reg.offset, r)
		case *Reg8:
			t.MapReg8(addr+reg.offset, r)
		case *Device:
			t.MapDevice(addr+reg.offset, r)
		default:
			panic(fmt.Errorf("invalid reg type: %T", r))
		}
	}
}

func (t *Table) UnmapBank(addr uint16, bank any, bankNum int) {
	regs, err := bankGetRegs(bank, bankNum)
	if err != nil {
		panic(err)
	}

	for _, reg := range regs {
		begin := addr + reg.offset
		switch r := reg.ptr.(type) {
		case *Mem:
			t.Unmap(begin, begin+uint16(r.VSize-1))
		case *Reg8:
			t.Unmap(begin, begin)
		case *Device:
			t.Unmap(begin, begin+uint16(r.Size-1))
		default:
			panic(fmt.Errorf("invalid reg type: %T", r))
		}
	}
}

func (t *Table) MapReg8(addr uint16, reg *Reg8) {
	t.setRange(addr, addr, reg)
}

func (t *Table) MapDevice(addr uint16, dev *Device) {
	t.setRange(addr, addr+uint16(dev.Size-1), dev)
}

func (t *Table) MapMem(addr uint16, m *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Hex16("addr", addr).
		Hex16("vsize", uint16(m.VSize-1)).
		String("area", m.Name).
		String("bus", t.Name).
		End()

	vsize := m.VSize
	if vsize == 0 {
		vsize = len(m.Data)
	}
	t.setRange(addr, addr+uint16(vsize-1), m.BankIO8(addr))
}

// MapMemorySlice maps buf at [addr, end], mirroring it if the range is
// larger than the slice.
func (t *Table) MapMemorySlice(addr, end uint16, buf []uint8, readonly bool) {
	log.ModHwIo.DebugZ("mapping slice").
		Hex16("addr", addr).
		Hex16("end", end).
		String("bus", t.Name).
		Bool("ro", readonly).
		End()

	var flags MemFlags
	if readonly {
		flags |= MemFlagReadOnly
	}
	t.MapMem(addr, &Mem{
		Data:  buf,
		Flags: flags,
		VSize: int(end) - int(addr) + 1,
	})
}

func (t *Table) Unmap(begin, end uint16) {
	t.setRange(begin, end, nil)
}

// Read8 forwards the read to the device mapped at addr. Unmapped addresses
// read as 0 unless an Unmapped handler is set.
func (t *Table) Read8(addr uint16) uint8 {
	if io := t.search(addr); io != nil {
		return io.Read8(addr, false)
	}
	return t.unmappedRead8(addr, false)
}

// Peek8 reads addr without side effects.
func (t *Table) Peek8(addr uint16) uint8 {
	if io := t.search(addr); io != nil {
		return io.Read8(addr, true)
	}
	return t.unmappedRead8(addr, true)
}

func (t *Table) unmappedRead8(addr uint16, peek bool) uint8 {
	if t.Unmapped != nil {
		return t.Unmapped.Read8(addr, peek)
	}
	if logUnmapped && !peek {
		log.ModHwIo.ErrorZ("unmapped Read8").
			String("name", t.Name).
			Hex16("addr", addr).
			End()
	}
	return 0
}

func (t *Table) Write8(addr uint16, val uint8) {
	if io := t.search(addr); io != nil {
		io.Write8(addr, val)
		return
	}
	if t.Unmapped != nil {
		t.Unmapped.Write8(addr, val)
		return
	}
	if logUnmapped {
		log.ModHwIo.ErrorZ("unmapped Write8").
			String("name", t.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
	}
}
