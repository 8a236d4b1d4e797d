package cdr

import "github.com/eProsima/Fast-CDR-sub003/lib/buffer"

// Reserve writes n zero bytes at the current cursor (first padded to a
// 4-byte boundary relative to the anchor — DHEADER and EMHEADER1 slots
// are always 4-byte fields) and returns a cursor pointing at the start of the
// reservation, for later back-patching once the real value is known
// (used by DHEADER in lib/xcdr).
func (c *Codec) Reserve(n int) (buffer.Cursor, error) {
	if err := c.alignTo(4); err != nil {
		return buffer.Cursor{}, err
	}
	start := c.current
	zeros := make([]byte, n)
	if err := c.current.MemCopy(zeros); err != nil {
		return buffer.Cursor{}, notEnoughMemory("reserving %d bytes: %v", n, err)
	}
	c.lastDataSize = 4
	return start, nil
}

// PatchUint32At overwrites the 4 bytes at a previously reserved cursor
// position with value, encoded in the codec's declared byte order. It
// does not move the codec's current cursor.
func (c *Codec) PatchUint32At(at buffer.Cursor, value uint32) error {
	patch := at
	var tmp [4]byte
	c.byteOrder().PutUint32(tmp[:], value)
	if err := patch.MemCopy(tmp[:]); err != nil {
		return notEnoughMemory("patching reserved header: %v", err)
	}
	return nil
}
