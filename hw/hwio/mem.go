package hwio

import (
	"nescore/emu/log"
)

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlagReadOnly  MemFlags = 1 << iota
	MemFlagNoROLog            // drop writes to read-only memory silently
)

// Mem is a linear memory area that can be mapped into a Table. When VSize is
// bigger than len(Data), the area is mirrored over the virtual size. Data
// length must be a power of 2.
type Mem struct {
	Name    string
	Data    []byte
	VSize   int
	Flags   MemFlags
	WriteCb func(addr uint16, val uint8) // called after each successful write
}

// BankIO8 returns the adaptor used to map m at base address base.
func (m *Mem) BankIO8(base uint16) BankIO8 {
	if len(m.Data) == 0 || len(m.Data)&(len(m.Data)-1) != 0 {
		panic("memory buffer size is not pow2")
	}
	return &mem{
		name: m.Name,
		data: m.Data,
		base: base,
		mask: uint16(len(m.Data) - 1),
		wcb:  m.WriteCb,
		ro:   m.Flags,
	}
}

type mem struct {
	name string
	data []byte
	base uint16
	mask uint16
	wcb  func(uint16, uint8)
	ro   MemFlags
}

func (m *mem) Read8(addr uint16, _ bool) uint8 {
	return m.data[(addr-m.base)&m.mask]
}

func (m *mem) Write8(addr uint16, val uint8) {
	switch {
	case m.ro&MemFlagNoROLog != 0:
		return
	case m.ro&MemFlagReadOnly != 0:
		log.ModHwIo.WarnZ("Write8 to readonly memory").
			String("name", m.name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
		return
	}
	m.data[(addr-m.base)&m.mask] = val
	if m.wcb != nil {
		m.wcb(addr, val)
	}
}
