package hwio

func GetBit8(v uint8, n uint) bool {
	return v&(1<<n) != 0
}

func GetBiti8(v uint8, n uint) uint8 {
	return v >> n & 0x01
}

func SetBit8(v *uint8, n uint) {
	*v |= 1 << n
}

func ClearBit8(v *uint8, n uint) {
	*v &^= 1 << n
}

// SetBit8To sets or clears bit n of v depending on b.
func SetBit8To(v *uint8, n uint, b bool) {
	if b {
		SetBit8(v, n)
	} else {
		ClearBit8(v, n)
	}
}

// Bits8 extracts the width-bit field starting at bit lo.
func Bits8(v uint8, lo, width uint) uint8 {
	return (v >> lo) & (1<<width - 1)
}

func GetBit16(v uint16, n uint) bool {
	return v&(1<<n) != 0
}
