package cdr

import "unsafe"

// WriteString encodes a narrow CDR string: a 4-byte length (counting the
// terminating NUL) followed by that many bytes including the NUL. A Go
// empty string is encoded as a zero-length field with no content bytes
// and no NUL, per spec §4.5 ("length 0 denotes an absent or empty
// string"). The byte view is taken via unsafe.Slice/unsafe.StringData,
// the same zero-copy trick the teacher's octet-string writer uses, to
// avoid an extra allocation before the bulk copy.
func (c *Codec) WriteString(s string) error {
	return c.withSnapshot(func() error {
		if len(s) == 0 {
			return c.WriteUint32(0)
		}
		if err := c.WriteUint32(uint32(len(s) + 1)); err != nil {
			return err
		}
		view := unsafe.Slice(unsafe.StringData(s), len(s))
		if err := c.current.MemCopy(view); err != nil {
			return notEnoughMemory("writing string contents: %v", err)
		}
		c.lastDataSize = 1
		return c.current.WriteByte(0) // terminating NUL
	})
}

// ReadString decodes a narrow CDR string. The declared length is
// validated against the remaining buffer bytes before any allocation
// (spec §9 open question: validate before allocating, never resize a
// destination first). Length 0 MUST be accepted and returns "".
func (c *Codec) ReadString() (string, error) {
	snapshot := c.GetState()
	n, err := c.ReadUint32()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	if int(n) > c.current.Remaining() {
		c.SetState(snapshot)
		return "", notEnoughMemory("string declares %d bytes but only %d remain", n, c.current.Remaining())
	}
	raw, err := c.current.RMemCopy(int(n))
	if err != nil {
		c.SetState(snapshot)
		return "", notEnoughMemory("reading string contents: %v", err)
	}
	c.lastDataSize = 1
	// Trim the terminating NUL (last byte); accept a missing terminator
	// gracefully rather than faulting, since the length alone is
	// authoritative for the content span.
	content := raw
	if content[len(content)-1] == 0 {
		content = content[:len(content)-1]
	}
	return string(content), nil
}

// WriteWString encodes a wide CDR string: a 4-byte code-unit count N
// followed by N 4-byte code units (UTF-32, endianness applied). No
// terminator is written (spec §4.5).
func (c *Codec) WriteWString(codeUnits []rune) error {
	return c.withSnapshot(func() error {
		if err := c.WriteUint32(uint32(len(codeUnits))); err != nil {
			return err
		}
		for _, r := range codeUnits {
			if err := c.WriteUint32(uint32(r)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadWString decodes a wide CDR string. If the last code unit is zero,
// it is dropped and the returned length adjusted downward, per spec
// §4.5 ("the decoder MAY drop it").
func (c *Codec) ReadWString() ([]rune, error) {
	snapshot := c.GetState()
	n, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []rune{}, nil
	}
	needed := int(n) * 4
	if needed > c.current.Remaining() {
		c.SetState(snapshot)
		return nil, notEnoughMemory("wstring declares %d code units but only %d bytes remain", n, c.current.Remaining())
	}
	result := make([]rune, n)
	for i := range result {
		v, err := c.ReadUint32()
		if err != nil {
			c.SetState(snapshot)
			return nil, err
		}
		result[i] = rune(v)
	}
	if len(result) > 0 && result[len(result)-1] == 0 {
		result = result[:len(result)-1]
	}
	return result, nil
}
