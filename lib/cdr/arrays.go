package cdr

import "unsafe"

// WriteArray writes a fixed-length array of K elements of a scalar type
// T back-to-back, each aligned per the usual rule, with no length
// prefix (spec §4.6). When the codec's swap flag is false, the elements
// are written as one contiguous blit via an unsafe reinterpretation of
// the slice, matching spec §4.6 ("contiguous blits ... permitted only
// when swap is false"); otherwise each element is written individually
// so it can be byte-reversed.
func WriteArray[T width](c *Codec, values []T) error {
	if len(values) == 0 {
		return nil
	}
	var zero T
	size := uint8(unsafe.Sizeof(zero))
	if !c.swap {
		if err := c.alignTo(size); err != nil {
			return err
		}
		raw := unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), int(size)*len(values))
		if err := c.current.MemCopy(raw); err != nil {
			return notEnoughMemory("writing array blit: %v", err)
		}
		c.lastDataSize = size
		return nil
	}
	for _, v := range values {
		if err := writeWidth(c, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadArray reads a fixed-length array of n scalar elements. The byte
// count needed is validated against the remaining buffer before the
// destination slice is allocated (spec §9 open question).
func ReadArray[T width](c *Codec, n int) ([]T, error) {
	if n < 0 {
		return nil, badParameter("negative array length %d", n)
	}
	if n == 0 {
		return []T{}, nil
	}
	var zero T
	size := uint8(unsafe.Sizeof(zero))
	if err := c.alignTo(size); err != nil {
		return nil, err
	}
	if !c.swap {
		need := int(size) * n
		if need > c.current.Remaining() {
			return nil, notEnoughMemory("array declares %d elements but only %d bytes remain", n, c.current.Remaining())
		}
		raw, err := c.current.Slice(need)
		if err != nil {
			return nil, notEnoughMemory("reading array blit: %v", err)
		}
		result := make([]T, n)
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&result[0])), need), raw)
		c.lastDataSize = size
		return result, nil
	}
	if int(size)*n > c.current.Remaining() {
		return nil, notEnoughMemory("array declares %d elements but only %d bytes remain", n, c.current.Remaining())
	}
	result := make([]T, n)
	for i := range result {
		v, err := readWidth[T](c)
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	return result, nil
}

// WriteSequence writes a variable-length sequence: a 4-byte element
// count N followed by N copies of T (spec §4.6: N is the element count,
// not a byte count).
func WriteSequence[T width](c *Codec, values []T) error {
	return c.withSnapshot(func() error {
		if err := c.WriteUint32(uint32(len(values))); err != nil {
			return err
		}
		return WriteArray(c, values)
	})
}

// ReadSequence decodes a variable-length sequence.
func ReadSequence[T width](c *Codec) ([]T, error) {
	snapshot := c.GetState()
	n, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}
	result, err := ReadArray[T](c, int(n))
	if err != nil {
		c.SetState(snapshot)
		return nil, err
	}
	return result, nil
}

// WriteBoolSequence encodes a vector<bool>: a 4-byte length N followed
// by N bytes each 0 or 1, the bespoke path spec §4.6 calls out because
// bool has no natural multi-byte width to blit.
func (c *Codec) WriteBoolSequence(values []bool) error {
	return c.withSnapshot(func() error {
		if err := c.WriteUint32(uint32(len(values))); err != nil {
			return err
		}
		for _, v := range values {
			if err := c.WriteBool(v); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadBoolSequence decodes a vector<bool>.
func (c *Codec) ReadBoolSequence() ([]bool, error) {
	snapshot := c.GetState()
	n, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}
	if int(n) > c.current.Remaining() {
		c.SetState(snapshot)
		return nil, notEnoughMemory("bool sequence declares %d elements but only %d bytes remain", n, c.current.Remaining())
	}
	result := make([]bool, n)
	for i := range result {
		v, err := c.ReadBool()
		if err != nil {
			c.SetState(snapshot)
			return nil, err
		}
		result[i] = v
	}
	return result, nil
}
