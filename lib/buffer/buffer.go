// Package buffer provides the byte-region engine underneath the CDR codec.
//
// # Overview
//
// Buffer owns or borrows a byte region and exposes two Cursor handles,
// begin() and end(), plus a grow() operation used by owned, growable
// buffers. Cursor is a position-plus-buffer handle that survives a
// buffer grow because it stores an integer offset rather than a slice
// header.
//
// # Dependencies
//
// Uses only the Go standard library:
//   - errors, fmt: error values and trace output
//   - slices: efficient buffer growth (Go 1.21+)
//
// # Thread Safety
//
// Buffer and Cursor are NOT thread-safe. A Buffer and its cursors are
// exclusively owned by one goroutine for the duration of an encode or
// decode operation.
package buffer

import (
	"errors"
	"fmt"
	"slices"
)

const (
	// ENABLE_TRACE controls whether trace output is printed.
	ENABLE_TRACE = false

	// DefaultInitialSize is the initial capacity used by Allocate.
	DefaultInitialSize = 200
)

// Buffer is a byte region plus an optional growth policy. It owns memory
// when allocated internally (Allocate) and borrows it when wrapping a
// caller-provided region (Wrap).
type Buffer struct {
	data     []byte
	owned    bool
	growable bool
}

// Wrap creates a borrowed, non-growable buffer over an existing byte
// slice. Grow always fails on a wrapped buffer.
func Wrap(data []byte) *Buffer {
	return &Buffer{
		data:     data,
		owned:    false,
		growable: false,
	}
}

// Allocate creates an owned, growable buffer. The initial capacity is
// implementation-defined (DefaultInitialSize is a reasonable default).
func Allocate() *Buffer {
	return &Buffer{
		data:     make([]byte, 0, DefaultInitialSize),
		owned:    true,
		growable: true,
	}
}

// AllocateSize creates an owned, growable buffer with a caller-chosen
// initial capacity.
func AllocateSize(initial int) *Buffer {
	if initial < 0 {
		initial = 0
	}
	return &Buffer{
		data:     make([]byte, 0, initial),
		owned:    true,
		growable: true,
	}
}

// Len returns the number of bytes currently held by the buffer.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Cap returns the capacity of the underlying storage.
func (b *Buffer) Cap() int {
	return cap(b.data)
}

// Bytes returns the buffer's current contents. Callers must not retain
// the slice across a Grow.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Owned reports whether the buffer owns (and may reallocate) its memory.
func (b *Buffer) Owned() bool {
	return b.owned
}

// Begin returns a cursor positioned at offset 0.
func (b *Buffer) Begin() Cursor {
	return Cursor{buf: b, offset: 0}
}

// End returns a cursor positioned at the buffer's current logical length
// (Len, not Cap).
func (b *Buffer) End() Cursor {
	return Cursor{buf: b, offset: len(b.data)}
}

// trace prints debug information when ENABLE_TRACE is set.
func (b *Buffer) trace(event, function, arguments string) {
	if !ENABLE_TRACE {
		return
	}
	state := fmt.Sprintf("[%s %s] len=%d cap=%d owned=%v", event, function, len(b.data), cap(b.data), b.owned)
	if arguments != "" {
		state = state + " --> " + arguments
	}
	println(state)
}

// grow ensures space for at least minIncrement more bytes, expanding the
// logical length by exactly minIncrement. A borrowed (non-growable)
// buffer always fails. Owned buffers grow using slices.Grow with an
// exponential capacity strategy (doubling, or the requested size if
// larger), the same amortized-O(1) policy as bitbuffer.Codec.grow.
func (b *Buffer) grow(minIncrement int) bool {
	if ENABLE_TRACE {
		b.trace("ENTER", "grow", fmt.Sprintf("minIncrement=%d", minIncrement))
		defer b.trace("EXIT", "grow", "")
	}
	if minIncrement <= 0 {
		return true
	}
	if !b.growable {
		return false
	}
	needed := len(b.data) + minIncrement
	if cap(b.data) < needed {
		capacity := max(cap(b.data)*2, needed)
		b.data = slices.Grow(b.data, capacity-len(b.data))
	}
	b.data = b.data[:needed]
	return true
}

// ensure grows the buffer so that offset "to" is addressable, returning
// an error (rather than a bool) for callers that want an error return.
func (b *Buffer) ensure(to int) error {
	if to <= len(b.data) {
		return nil
	}
	if !b.grow(to - len(b.data)) {
		return errors.New("buffer: not enough memory")
	}
	return nil
}

// Cursor is a position within a Buffer. It stores an integer offset, not
// a slice header, so it remains valid across a buffer Grow — the engine
// never needs to "repair" a cursor in more than one place (Cursor.offset
// is always reinterpreted against the live Buffer at call time).
type Cursor struct {
	buf    *Buffer
	offset int
}

// Offset returns the cursor's byte position within its buffer.
func (c Cursor) Offset() int {
	return c.offset
}

// SameBuffer reports whether two cursors reference the same Buffer.
func (c Cursor) SameBuffer(o Cursor) bool {
	return c.buf == o.buf
}

// Distance returns the number of bytes between c and o, assuming both
// cursors reference the same Buffer and o is not before c.
func (c Cursor) Distance(o Cursor) int {
	return o.offset - c.offset
}

// Seek advances the cursor n bytes forward, growing the underlying
// buffer if necessary. Negative n is a programmer error and panics, as
// spec.md classifies out-of-protocol misuse as undefined.
func (c *Cursor) Seek(n int) error {
	if n < 0 {
		panic("buffer: negative seek")
	}
	if err := c.buf.ensure(c.offset + n); err != nil {
		return err
	}
	c.offset += n
	return nil
}

// ReadByte reads and consumes a single byte at the cursor.
func (c *Cursor) ReadByte() (byte, error) {
	if c.offset >= len(c.buf.data) {
		return 0, errors.New("buffer: no more data")
	}
	v := c.buf.data[c.offset]
	c.offset++
	return v, nil
}

// WriteByte writes a single byte at the cursor, growing the buffer if
// necessary.
func (c *Cursor) WriteByte(v byte) error {
	if err := c.buf.ensure(c.offset + 1); err != nil {
		return err
	}
	c.buf.data[c.offset] = v
	c.offset++
	return nil
}

// MemCopy writes n raw bytes at the cursor without any endianness swap,
// used by char/octet arrays and by in-order strings.
func (c *Cursor) MemCopy(src []byte) error {
	n := len(src)
	if n == 0 {
		return nil
	}
	if err := c.buf.ensure(c.offset + n); err != nil {
		return err
	}
	copy(c.buf.data[c.offset:c.offset+n], src)
	c.offset += n
	return nil
}

// RMemCopy copies n bytes from the stream into caller memory, the
// mirror of MemCopy for decode.
func (c *Cursor) RMemCopy(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if c.offset+n > len(c.buf.data) {
		return nil, errors.New("buffer: insufficient data")
	}
	dst := make([]byte, n)
	copy(dst, c.buf.data[c.offset:c.offset+n])
	c.offset += n
	return dst, nil
}

// Slice returns a direct view of n bytes at the cursor without copying,
// advancing the cursor. Callers must not retain the slice past the next
// buffer Grow.
func (c *Cursor) Slice(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if c.offset+n > len(c.buf.data) {
		return nil, errors.New("buffer: insufficient data")
	}
	v := c.buf.data[c.offset : c.offset+n]
	c.offset += n
	return v, nil
}

// Remaining returns the number of bytes between the cursor and the end
// of the buffer's current logical length.
func (c Cursor) Remaining() int {
	return len(c.buf.data) - c.offset
}
