package hwio

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// InitRegs initializes all the Reg8, Mem and Device fields of the structure
// pointed by data, following their "hwio" struct tag:
//
//	reset=0x12      initial register value
//	rwmask=0xF0     bits that can be written (others are read-only)
//	size=0x800      size of the backing memory (Mem) or of the device range
//	vsize=0x2000    virtual size of a Mem (mirrored), defaults to size
//	readonly        writes are rejected (and logged)
//	writeonly       reads are rejected (and logged)
//	rcb, wcb, pcb   read/write/peek callbacks. Without value, the method name
//	                is Read/Write/Peek followed by the upper-cased field
//	                name (ex: WritePPUCTRL). Use rcb=Name to override.
func InitRegs(data any) error {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return errors.New("InitRegs: data must be a pointer to struct")
	}
	sv := v.Elem()
	st := sv.Type()

	for i := range st.NumField() {
		sf := st.Field(i)
		tag, ok := sf.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		opts, err := parseTag(tag)
		if err != nil {
			return fmt.Errorf("field %s: %w", sf.Name, err)
		}

		field := sv.Field(i).Addr().Interface()
		switch r := field.(type) {
		case *Reg8:
			err = initReg8(v, sf.Name, r, opts)
		case *Mem:
			err = initMem(v, sf.Name, r, opts)
		case *Device:
			err = initDevice(v, sf.Name, r, opts)
		default:
			err = fmt.Errorf("unsupported type %T", field)
		}
		if err != nil {
			return fmt.Errorf("field %s: %w", sf.Name, err)
		}
	}
	return nil
}

// MustInitRegs is like InitRegs but panics on error.
func MustInitRegs(data any) {
	if err := InitRegs(data); err != nil {
		panic(err)
	}
}

type tagOpts map[string]string

func parseTag(tag string) (tagOpts, error) {
	opts := make(tagOpts)
	for _, kv := range strings.Split(tag, ",") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		k, v, _ := strings.Cut(kv, "=")
		switch k {
		case "offset", "bank", "size", "vsize", "reset", "rwmask",
			"readonly", "writeonly", "rcb", "wcb", "pcb":
		default:
			return nil, fmt.Errorf("unknown hwio option %q", k)
		}
		opts[k] = v
	}
	return opts, nil
}

func (o tagOpts) has(k string) bool {
	_, ok := o[k]
	return ok
}

func (o tagOpts) uint(k string, def uint64) (uint64, error) {
	s, ok := o[k]
	if !ok {
		return def, nil
	}
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", k, s, err)
	}
	return n, nil
}

func (o tagOpts) rwflags() RWFlags {
	var f RWFlags
	if o.has("readonly") {
		f |= ReadOnlyFlag
	}
	if o.has("writeonly") {
		f |= WriteOnlyFlag
	}
	return f
}

// method returns the callback method for option k (rcb, wcb or pcb), or an
// invalid Value if the option is not set.
func (o tagOpts) method(v reflect.Value, k, prefix, field string) (reflect.Value, error) {
	name, ok := o[k]
	if !ok {
		return reflect.Value{}, nil
	}
	if name == "" {
		name = prefix + strings.ToUpper(field)
	}
	m := v.MethodByName(name)
	if !m.IsValid() {
		return reflect.Value{}, fmt.Errorf("%s: method %s not found on %s", k, name, v.Type())
	}
	return m, nil
}

func callback[F any](v reflect.Value, o tagOpts, k, prefix, field string) (F, error) {
	var zero F
	m, err := o.method(v, k, prefix, field)
	if err != nil || !m.IsValid() {
		return zero, err
	}
	f, ok := m.Interface().(F)
	if !ok {
		return zero, fmt.Errorf("%s: method has type %s, want %T", k, m.Type(), zero)
	}
	return f, nil
}

func initReg8(v reflect.Value, name string, r *Reg8, o tagOpts) error {
	reset, err := o.uint("reset", 0)
	if err != nil {
		return err
	}
	rwmask, err := o.uint("rwmask", 0xFF)
	if err != nil {
		return err
	}

	*r = Reg8{
		Name:   name,
		Value:  uint8(reset),
		RoMask: ^uint8(rwmask),
		Flags:  o.rwflags(),
	}
	if r.ReadCb, err = callback[func(uint8) uint8](v, o, "rcb", "Read", name); err != nil {
		return err
	}
	if r.PeekCb, err = callback[func(uint8) uint8](v, o, "pcb", "Peek", name); err != nil {
		return err
	}
	if r.WriteCb, err = callback[func(uint8, uint8)](v, o, "wcb", "Write", name); err != nil {
		return err
	}
	return nil
}

func initMem(v reflect.Value, name string, m *Mem, o tagOpts) error {
	size, err := o.uint("size", uint64(len(m.Data)))
	if err != nil {
		return err
	}
	vsize, err := o.uint("vsize", size)
	if err != nil {
		return err
	}
	if size == 0 {
		return errors.New("Mem without size")
	}

	m.Name = name
	if len(m.Data) != int(size) {
		m.Data = make([]byte, size)
	}
	m.VSize = int(vsize)
	m.Flags = MemFlagReadWrite
	if o.has("readonly") {
		m.Flags |= MemFlagReadOnly
	}
	m.WriteCb, err = callback[func(uint16, uint8)](v, o, "wcb", "Write", name)
	return err
}

func initDevice(v reflect.Value, name string, d *Device, o tagOpts) error {
	size, err := o.uint("size", 1)
	if err != nil {
		return err
	}

	*d = Device{
		Name:  name,
		Size:  int(size),
		Flags: o.rwflags(),
	}
	if d.ReadCb, err = callback[func(uint16) uint8](v, o, "rcb", "Read", name); err != nil {
		return err
	}
	if d.PeekCb, err = callback[func(uint16) uint8](v, o, "pcb", "Peek", name); err != nil {
		return err
	}
	if d.WriteCb, err = callback[func(uint16, uint8)](v, o, "wcb", "Write", name); err != nil {
		return err
	}
	return nil
}

type bankReg struct {
	offset uint16
	ptr    any
}

// bankGetRegs returns the registers of bank bankNum, in field order.
func bankGetRegs(bank any, bankNum int) ([]bankReg, error) {
	v := reflect.ValueOf(bank)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return nil, errors.New("bank must be a pointer to struct")
	}
	sv := v.Elem()
	st := sv.Type()

	var regs []bankReg
	for i := range st.NumField() {
		sf := st.Field(i)
		tag, ok := sf.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		opts, err := parseTag(tag)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", sf.Name, err)
		}
		if !opts.has("offset") {
			continue
		}
		num, err := opts.uint("bank", 0)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", sf.Name, err)
		}
		if int(num) != bankNum {
			continue
		}
		off, err := opts.uint("offset", 0)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", sf.Name, err)
		}
		regs = append(regs, bankReg{
			offset: uint16(off),
			ptr:    sv.Field(i).Addr().Interface(),
		})
	}
	return regs, nil
}
