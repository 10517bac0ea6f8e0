package log

import (
	"fmt"
	"sync"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

const maxZFields = 16

// EntryZ is a log entry built with chained typed fields. A nil *EntryZ is
// valid: all methods are no-ops, so a disabled module costs a nil check.
type EntryZ struct {
	mod   Module
	lvl   Level
	msg   string
	zfbuf [maxZFields]ZField
	zfidx int
}

var entryPool = sync.Pool{
	New: func() any { return new(EntryZ) },
}

func NewEntryZ() *EntryZ {
	e := entryPool.Get().(*EntryZ)
	e.zfidx = 0
	return e
}

func (e *EntryZ) add(f ZField) *EntryZ {
	if e == nil {
		return nil
	}
	if e.zfidx < len(e.zfbuf) {
		e.zfbuf[e.zfidx] = f
		e.zfidx++
	}
	return e
}

func (e *EntryZ) Bool(key string, b bool) *EntryZ {
	return e.add(ZField{Type: FieldTypeBool, Key: key, Boolean: b})
}

func (e *EntryZ) String(key string, s string) *EntryZ {
	return e.add(ZField{Type: FieldTypeString, Key: key, String: s})
}

func (e *EntryZ) Stringer(key string, s fmt.Stringer) *EntryZ {
	return e.add(ZField{Type: FieldTypeStringer, Key: key, Interface: s})
}

func (e *EntryZ) Hex8(key string, v uint8) *EntryZ {
	return e.add(ZField{Type: FieldTypeHex8, Key: key, Integer: uint64(v)})
}

func (e *EntryZ) Hex16(key string, v uint16) *EntryZ {
	return e.add(ZField{Type: FieldTypeHex16, Key: key, Integer: uint64(v)})
}

func (e *EntryZ) Hex32(key string, v uint32) *EntryZ {
	return e.add(ZField{Type: FieldTypeHex32, Key: key, Integer: uint64(v)})
}

func (e *EntryZ) Int(key string, v int) *EntryZ {
	return e.add(ZField{Type: FieldTypeInt, Key: key, Integer: uint64(v)})
}

func (e *EntryZ) Int64(key string, v int64) *EntryZ {
	return e.add(ZField{Type: FieldTypeInt, Key: key, Integer: uint64(v)})
}

func (e *EntryZ) Uint(key string, v uint) *EntryZ {
	return e.add(ZField{Type: FieldTypeUint, Key: key, Integer: uint64(v)})
}

func (e *EntryZ) Duration(key string, d time.Duration) *EntryZ {
	return e.add(ZField{Type: FieldTypeDuration, Key: key, Duration: d})
}

func (e *EntryZ) Error(key string, err error) *EntryZ {
	return e.add(ZField{Type: FieldTypeError, Key: key, Error: err})
}

func (e *EntryZ) Blob(key string, b []byte) *EntryZ {
	return e.add(ZField{Type: FieldTypeBlob, Key: key, Blob: b})
}

// End emits the entry and releases it.
func (e *EntryZ) End() {
	if e == nil {
		return
	}
	if !disabled {
		for _, c := range contexts {
			c.AddLogContext(e)
		}

		fields := make(logrus.Fields, e.zfidx+1)
		fields["_mod"] = modNames[e.mod]
		for i := range e.zfbuf[:e.zfidx] {
			fields[e.zfbuf[i].Key] = e.zfbuf[i].Value()
		}
		entry := logrus.StandardLogger().WithFields(fields)

		switch e.lvl {
		case DebugLevel:
			entry.Debug(e.msg)
		case InfoLevel:
			entry.Info(e.msg)
		case WarnLevel:
			entry.Warn(e.msg)
		case ErrorLevel:
			entry.Error(e.msg)
		case FatalLevel:
			entry.Fatal(e.msg)
		case PanicLevel:
			entry.Panic(e.msg)
		}
	}

	e.zfbuf = [maxZFields]ZField{}
	entryPool.Put(e)
}
