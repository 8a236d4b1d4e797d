package cdr

import (
	"math"
	"unsafe"
)

// width is the trait every fixed-size integer primitive dispatches on.
// Template-per-primitive overloads in the source collapse to these two
// generic functions keyed on the primitive's size (spec §9 design note):
// writeWidth/readWidth below handle 1/2/4/8-byte integers uniformly,
// and floats ride the same path after a bit-reinterpretation.
type width interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// writeWidth writes the natural-size encoding of v: it pads to v's size
// (unless Fast CDR or the previous primitive already left the cursor
// aligned), then writes the bytes in the stream's declared byte order.
func writeWidth[T width](c *Codec, v T) error {
	var zero T
	size := uint8(unsafe.Sizeof(zero))
	if err := c.alignTo(size); err != nil {
		return err
	}
	var tmp [8]byte
	order := c.byteOrder()
	switch size {
	case 1:
		tmp[0] = byte(v)
	case 2:
		order.PutUint16(tmp[:2], uint16(v))
	case 4:
		order.PutUint32(tmp[:4], uint32(v))
	case 8:
		order.PutUint64(tmp[:8], uint64(v))
	}
	if err := c.current.MemCopy(tmp[:size]); err != nil {
		return notEnoughMemory("writing %d-byte primitive: %v", size, err)
	}
	c.lastDataSize = size
	return nil
}

// readWidth is the decode mirror of writeWidth.
func readWidth[T width](c *Codec) (T, error) {
	var zero T
	size := uint8(unsafe.Sizeof(zero))
	if err := c.alignTo(size); err != nil {
		return zero, err
	}
	raw, err := c.current.RMemCopy(int(size))
	if err != nil {
		return zero, notEnoughMemory("reading %d-byte primitive: %v", size, err)
	}
	order := c.byteOrder()
	var v uint64
	switch size {
	case 1:
		v = uint64(raw[0])
	case 2:
		v = uint64(order.Uint16(raw))
	case 4:
		v = uint64(order.Uint32(raw))
	case 8:
		v = order.Uint64(raw)
	}
	c.lastDataSize = size
	return T(v), nil
}

func (c *Codec) WriteOctet(v uint8) error  { return writeWidth(c, v) }
func (c *Codec) WriteUint8(v uint8) error  { return writeWidth(c, v) }
func (c *Codec) WriteInt8(v int8) error    { return writeWidth(c, uint8(v)) }
func (c *Codec) WriteUint16(v uint16) error { return writeWidth(c, v) }
func (c *Codec) WriteInt16(v int16) error  { return writeWidth(c, uint16(v)) }
func (c *Codec) WriteUint32(v uint32) error { return writeWidth(c, v) }
func (c *Codec) WriteInt32(v int32) error  { return writeWidth(c, uint32(v)) }
func (c *Codec) WriteUint64(v uint64) error { return writeWidth(c, v) }
func (c *Codec) WriteInt64(v int64) error  { return writeWidth(c, uint64(v)) }

func (c *Codec) ReadOctet() (uint8, error)  { return readWidth[uint8](c) }
func (c *Codec) ReadUint8() (uint8, error)  { return readWidth[uint8](c) }
func (c *Codec) ReadInt8() (int8, error) {
	v, err := readWidth[uint8](c)
	return int8(v), err
}
func (c *Codec) ReadUint16() (uint16, error) { return readWidth[uint16](c) }
func (c *Codec) ReadInt16() (int16, error) {
	v, err := readWidth[uint16](c)
	return int16(v), err
}
func (c *Codec) ReadUint32() (uint32, error) { return readWidth[uint32](c) }
func (c *Codec) ReadInt32() (int32, error) {
	v, err := readWidth[uint32](c)
	return int32(v), err
}
func (c *Codec) ReadUint64() (uint64, error) { return readWidth[uint64](c) }
func (c *Codec) ReadInt64() (int64, error) {
	v, err := readWidth[uint64](c)
	return int64(v), err
}

// WriteFloat32 encodes a 4-byte IEEE-754 float through the same integer
// path as every other scalar.
func (c *Codec) WriteFloat32(v float32) error {
	return writeWidth(c, math.Float32bits(v))
}

func (c *Codec) ReadFloat32() (float32, error) {
	bits, err := readWidth[uint32](c)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

func (c *Codec) WriteFloat64(v float64) error {
	return writeWidth(c, math.Float64bits(v))
}

func (c *Codec) ReadFloat64() (float64, error) {
	bits, err := readWidth[uint64](c)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// WriteBool encodes a boolean as a single byte: 0 for false, 1 for true.
func (c *Codec) WriteBool(v bool) error {
	if v {
		return writeWidth(c, uint8(1))
	}
	return writeWidth(c, uint8(0))
}

// ReadBool decodes a boolean byte. Any value other than 0 or 1 is a
// bad-parameter signal (spec §4.4).
func (c *Codec) ReadBool() (bool, error) {
	v, err := readWidth[uint8](c)
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, badParameter("invalid boolean byte 0x%02x", v)
	}
}

// longDoubleAlign is the alignment the 16-byte long double slot requires
// (spec §4.4: "Alignment for this slot is 8").
const longDoubleAlign = 8

// WriteLongDouble writes a 16-byte long double slot. The host long
// double is treated as a float64; on such hosts 8 padding bytes precede
// the 8 significant bytes in little-endian streams, and follow them in
// big-endian streams (spec §4.4/§6).
func (c *Codec) WriteLongDouble(v float64) error {
	if err := c.alignTo(longDoubleAlign); err != nil {
		return err
	}
	var payload [8]byte
	c.byteOrder().PutUint64(payload[:], math.Float64bits(v))
	var out [16]byte
	if c.endianness == LittleEndian {
		copy(out[8:], payload[:])
	} else {
		copy(out[:8], payload[:])
	}
	if err := c.current.MemCopy(out[:]); err != nil {
		return notEnoughMemory("writing long double: %v", err)
	}
	c.lastDataSize = longDoubleAlign
	return nil
}

// ReadLongDouble reads a 16-byte long double slot back into a float64.
func (c *Codec) ReadLongDouble() (float64, error) {
	if err := c.alignTo(longDoubleAlign); err != nil {
		return 0, err
	}
	raw, err := c.current.RMemCopy(16)
	if err != nil {
		return 0, notEnoughMemory("reading long double: %v", err)
	}
	var payload []byte
	if c.endianness == LittleEndian {
		payload = raw[8:]
	} else {
		payload = raw[:8]
	}
	c.lastDataSize = longDoubleAlign
	return math.Float64frombits(c.byteOrder().Uint64(payload)), nil
}
