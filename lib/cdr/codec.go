// Package cdr implements the Common Data Representation codec core:
// Classic CDR (CORBA-style and DDS-style), Fast CDR, and the scalar,
// string, array and sequence primitives shared by the XCDR v1/v2
// machinery that lives in lib/xcdr.
//
// # Overview
//
// Codec pairs a lib/buffer.Buffer with two cursors — current (the next
// read/write position) and anchor (the origin alignment is computed
// from) — plus the swap flag, dialect selector and last-data-size
// bookkeeping described in spec §3. Every typed write/read couples a
// size rule, an alignment rule, an endianness rule and a bounds/growth
// rule; Codec is where those four rules are joined.
//
// # Dependencies
//
// Uses only the Go standard library:
//   - encoding/binary: byte-order-aware PutUint16/32/64 for the
//     byte-aligned fast path of every multi-byte primitive
//   - math: Float32bits/Float64bits <-> Float32frombits/Float64frombits
//   - unsafe: host-endianness detection and zero-copy string/array views
//
// # Thread Safety
//
// Codec is NOT thread-safe; a codec and its buffer are exclusively owned
// by one goroutine for the duration of an encode or decode operation
// (spec §5). Two codecs MUST NOT share a Buffer even for read-only
// operations.
package cdr

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/eProsima/Fast-CDR-sub003/lib/buffer"
)

const (
	// ENABLE_TRACE controls whether trace output is printed.
	ENABLE_TRACE = false
)

// Endianness is the wire byte order of a stream.
type Endianness uint8

const (
	BigEndian Endianness = iota
	LittleEndian
)

// hostEndianness is detected once via the classic byte-at-address-zero
// trick, using unsafe the same way the teacher's codec reaches for
// unsafe to avoid an extra allocation on the string write path.
var hostEndianness = func() Endianness {
	var probe uint16 = 1
	if *(*byte)(unsafe.Pointer(&probe)) == 1 {
		return LittleEndian
	}
	return BigEndian
}()

// Dialect selects which family of framing rules govern begin_type,
// end_type and serialize_encapsulation. It is orthogonal to the scalar
// codec primitives (spec §9 design note).
type Dialect uint8

const (
	CorbaCdr Dialect = iota // classic CDR, no encapsulation preamble
	DdsCdr                  // classic CDR, DDS-style encapsulation preamble
	XCdrV1                  // extended CDR v1 (PL_CDR parameter lists)
	XCdrV2                  // extended CDR v2 (DHEADER / EMHEADER1)
	FastCdr                 // no alignment, native endianness, no preamble
)

// EncodingFlag is the low-nibble framing mode carried by an XCDR v2
// encapsulation kind byte (and, for XCdrV1, whether PL_CDR applies).
type EncodingFlag uint8

const (
	PlainCdr    EncodingFlag = iota // classic, no member headers
	PlCdr                           // XCDR v1 parameter list (mutable)
	PlainCdr2                       // XCDR v2, no member framing
	DelimitCdr2                     // XCDR v2, DHEADER only (appendable)
	PlCdr2                          // XCDR v2, EMHEADER1 per member (mutable)
)

// Codec is the serialization engine described in spec §3: a buffer
// reference, a current cursor, an alignment anchor, the endianness swap
// flag, the dialect/encoding-flag selectors, and last_data_size.
type Codec struct {
	buf          *buffer.Buffer
	current      buffer.Cursor
	anchor       buffer.Cursor
	swap         bool
	endianness   Endianness
	dialect      Dialect
	encodingFlag EncodingFlag
	lastDataSize uint8
	plFlag       bool
	options      uint16
}

// New constructs a Codec over buf for the given stream endianness and
// dialect. Fast CDR forces swap to always be false: it is defined as a
// native-endianness encoding regardless of the endianness argument.
func New(buf *buffer.Buffer, endianness Endianness, dialect Dialect) *Codec {
	if dialect == FastCdr {
		endianness = hostEndianness
	}
	c := &Codec{
		buf:        buf,
		endianness: endianness,
		dialect:    dialect,
	}
	c.current = buf.Begin()
	c.anchor = c.current
	c.recomputeSwap()
	return c
}

func (c *Codec) recomputeSwap() {
	if c.dialect == FastCdr {
		c.swap = false
		return
	}
	c.swap = c.endianness != hostEndianness
}

// SetEncodingFlag selects the XCDR framing mode used by begin_type and
// end_type (PlainCdr2, DelimitCdr2 or PlCdr2 under XCdrV2; PlainCdr or
// PlCdr under XCdrV1/classic).
func (c *Codec) SetEncodingFlag(flag EncodingFlag) {
	c.encodingFlag = flag
	c.plFlag = flag == PlCdr || flag == PlCdr2
}

// EncodingFlag returns the codec's current XCDR framing mode.
func (c *Codec) EncodingFlag() EncodingFlag { return c.encodingFlag }

// Dialect returns the codec's dialect selector.
func (c *Codec) Dialect() Dialect { return c.dialect }

// Endianness returns the codec's declared stream endianness.
func (c *Codec) Endianness() Endianness { return c.endianness }

// Swap reports whether the codec must byte-swap multi-byte primitives
// (stream_endianness XOR host_endianness).
func (c *Codec) Swap() bool { return c.swap }

// SetOptions sets the 16-bit DDS options field written by
// SerializeEncapsulation.
func (c *Codec) SetOptions(opts uint16) { c.options = opts }

// Options returns the 16-bit DDS options field, populated by
// ReadEncapsulation on decode.
func (c *Codec) Options() uint16 { return c.options }

// LastDataSize returns the size, in bytes, of the most recently
// written/read primitive (0 immediately after the anchor moves).
func (c *Codec) LastDataSize() uint8 { return c.lastDataSize }

// trace prints debug information when ENABLE_TRACE is set, the same
// ENTER/EXIT-at-hot-methods convention lib/buffer.Buffer.trace uses.
func (c *Codec) trace(event, function, arguments string) {
	if !ENABLE_TRACE {
		return
	}
	state := fmt.Sprintf("[%s %s] offset=%d anchor=%d swap=%v lastDataSize=%d",
		event, function, c.current.Offset(), c.anchor.Offset(), c.swap, c.lastDataSize)
	if arguments != "" {
		state = state + " --> " + arguments
	}
	println(state)
}

func (c *Codec) byteOrder() binary.ByteOrder {
	if c.endianness == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Reset rewinds both cursors to the start of the buffer and clears
// last_data_size, matching the teacher's CreateReader/CreateWriter reuse
// pattern (spec's idempotence-of-reset testable property).
func (c *Codec) Reset() {
	c.current = c.buf.Begin()
	c.anchor = c.current
	c.lastDataSize = 0
}

// ResetAlignment moves the alignment anchor to the current cursor,
// re-basing subsequent pad() computations. XCDR aggregates do this when
// they change reference origin (e.g. after a DHEADER or encapsulation
// preamble).
func (c *Codec) ResetAlignment() {
	c.anchor = c.current
	c.lastDataSize = 0
}

// Jump advances the current cursor by n bytes without interpreting
// them, per the Programmatic Surface list in spec §6. It clears
// last_data_size, since the skipped span says nothing about alignment.
func (c *Codec) Jump(n int) error {
	if ENABLE_TRACE {
		c.trace("ENTER", "Jump", fmt.Sprintf("n=%d", n))
		defer c.trace("EXIT", "Jump", "")
	}
	if n == 0 {
		return nil
	}
	if err := c.current.Seek(n); err != nil {
		return notEnoughMemory("jump(%d): %v", n, err)
	}
	c.lastDataSize = 0
	return nil
}

// GetSerializedDataLength returns the number of bytes between the start
// of the buffer and the current cursor.
func (c *Codec) GetSerializedDataLength() int {
	return c.buf.Begin().Distance(c.current)
}

// Bytes returns the underlying buffer's current contents, for callers
// (notably lib/xcdr's tests) that need to re-wrap an encoded stream for
// a decode pass. Callers must not retain the slice across a write that
// grows the buffer.
func (c *Codec) Bytes() []byte { return c.buf.Bytes() }

// Mark returns the current cursor, for callers (notably lib/xcdr) that
// need to measure how many bytes a nested operation produced.
func (c *Codec) Mark() buffer.Cursor { return c.current }

// Since returns the number of bytes written/read since mark.
func (c *Codec) Since(mark buffer.Cursor) int { return mark.Distance(c.current) }

// relativeOffset is the cursor's position measured from the alignment
// anchor, the quantity pad() operates on (spec §4.3: alignment is
// relative to anchor.offset, not absolute buffer offset).
func (c *Codec) relativeOffset() int {
	return c.anchor.Distance(c.current)
}

// pad computes the number of padding bytes needed before a datum of
// natural size S, given a current offset relative to the alignment
// anchor. Because S is always a power of two (1, 2, 4, 8), the modulo
// form collapses to a mask, but the direct form below is clearer and is
// only ever called once per primitive.
func pad(offset int, size uint8) int {
	s := int(size)
	return (s - (offset % s)) % s
}

// alignTo advances the current cursor by the padding needed to reach
// size-byte alignment relative to the anchor. Fast CDR always skips
// padding (spec §4.3 substitutes the constant zero). The skip-redundant-
// padding optimization from spec §4.3 is applied: if size <= the size of
// the last primitive written/read, the cursor is already aligned to at
// least `size` and no padding is computed.
func (c *Codec) alignTo(size uint8) error {
	if ENABLE_TRACE {
		c.trace("ENTER", "alignTo", fmt.Sprintf("size=%d", size))
		defer c.trace("EXIT", "alignTo", "")
	}
	if c.dialect == FastCdr {
		return nil
	}
	if size <= c.lastDataSize {
		return nil
	}
	p := pad(c.relativeOffset(), size)
	if p == 0 {
		return nil
	}
	if err := c.current.Seek(p); err != nil {
		return notEnoughMemory("alignment padding of %d bytes: %v", p, err)
	}
	return nil
}

// Align is the public form of alignTo(4), used by XCDR framing code that
// must 4-byte-align before emitting or reading a header.
func (c *Codec) Align() error {
	return c.alignTo(4)
}
