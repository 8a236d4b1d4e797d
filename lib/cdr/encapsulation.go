package cdr

// Encapsulation kind byte values (spec §6 EXTERNAL INTERFACES table).
// The low bit of every kind value is the endianness bit; callers MUST
// mask with 0x1 rather than compare the whole byte to "BE"/"LE"
// constants, on both the encode and decode paths, per the spec §9 open
// question ("the source contains a dead branch that swaps
// m_endianness = encapsulationKind instead of encapsulationKind & 0x1
// ... the rewrite SHOULD mask in both directions").
const (
	kindCorbaBE    = 0x00
	kindCorbaLE    = 0x01
	kindPlBEv1     = 0x02
	kindPlLEv1     = 0x03
	kindDelimitCdr2Nibble = 0x08
	kindPlainCdr2Nibble   = 0x10
	kindPlCdr2Nibble      = 0x0A
)

// usesEncapsulation reports whether the codec's dialect requires the
// 4-byte preamble. CORBA-style classic CDR and Fast CDR never emit or
// consume it (spec §4.7: "DDS-style requires emission/consumption; CORBA-
// style does not").
func (c *Codec) usesEncapsulation() bool {
	return c.dialect == DdsCdr || c.dialect == XCdrV1 || c.dialect == XCdrV2
}

func (c *Codec) encapsulationKind() uint8 {
	endiannessBit := uint8(0)
	if c.endianness == LittleEndian {
		endiannessBit = 1
	}
	if c.dialect == XCdrV2 {
		var nibble uint8
		switch c.encodingFlag {
		case DelimitCdr2:
			nibble = kindDelimitCdr2Nibble
		case PlCdr2:
			nibble = kindPlCdr2Nibble
		default:
			nibble = kindPlainCdr2Nibble
		}
		return nibble | endiannessBit
	}
	if c.plFlag || c.encodingFlag == PlCdr {
		return kindPlBEv1 | endiannessBit
	}
	return kindCorbaBE | endiannessBit
}

// SerializeEncapsulation writes the 4-byte preamble
// [0x00, kind, options_hi, options_lo] when the dialect requires one,
// then resets the alignment anchor to the cursor just past the
// preamble. It is a no-op for CorbaCdr and FastCdr.
func (c *Codec) SerializeEncapsulation() error {
	if !c.usesEncapsulation() {
		return nil
	}
	return c.withSnapshot(func() error {
		if err := c.current.WriteByte(0x00); err != nil {
			return notEnoughMemory("writing encapsulation first byte: %v", err)
		}
		if err := c.current.WriteByte(c.encapsulationKind()); err != nil {
			return notEnoughMemory("writing encapsulation kind: %v", err)
		}
		optsHi := byte(c.options >> 8)
		optsLo := byte(c.options)
		if err := c.current.WriteByte(optsHi); err != nil {
			return notEnoughMemory("writing encapsulation options: %v", err)
		}
		if err := c.current.WriteByte(optsLo); err != nil {
			return notEnoughMemory("writing encapsulation options: %v", err)
		}
		c.lastDataSize = 0
		c.ResetAlignment()
		return nil
	})
}

// ReadEncapsulation reads and validates the 4-byte preamble, detecting
// endianness and dialect/encoding-flag automatically, then resets the
// alignment anchor. It is a no-op for CorbaCdr and FastCdr.
func (c *Codec) ReadEncapsulation() error {
	if !c.usesEncapsulation() {
		return nil
	}
	snapshot := c.GetState()
	first, err := c.current.ReadByte()
	if err != nil {
		c.SetState(snapshot)
		return notEnoughMemory("reading encapsulation: %v", err)
	}
	if first != 0x00 {
		c.SetState(snapshot)
		return badParameter("encapsulation first byte must be 0x00, got 0x%02x", first)
	}
	kind, err := c.current.ReadByte()
	if err != nil {
		c.SetState(snapshot)
		return notEnoughMemory("reading encapsulation kind: %v", err)
	}
	optsHi, err := c.current.ReadByte()
	if err != nil {
		c.SetState(snapshot)
		return notEnoughMemory("reading encapsulation options: %v", err)
	}
	optsLo, err := c.current.ReadByte()
	if err != nil {
		c.SetState(snapshot)
		return notEnoughMemory("reading encapsulation options: %v", err)
	}

	endiannessBit := kind & 0x1 // masked both directions, see const block above
	if endiannessBit == 1 {
		c.endianness = LittleEndian
	} else {
		c.endianness = BigEndian
	}

	nibble := kind &^ 0x1
	switch nibble {
	case kindCorbaBE:
		c.plFlag = false
		c.encodingFlag = PlainCdr
	case kindPlBEv1:
		c.dialect = XCdrV1
		c.plFlag = true
		c.encodingFlag = PlCdr
	case kindPlainCdr2Nibble:
		c.dialect = XCdrV2
		c.encodingFlag = PlainCdr2
	case kindDelimitCdr2Nibble:
		c.dialect = XCdrV2
		c.encodingFlag = DelimitCdr2
	case kindPlCdr2Nibble:
		c.dialect = XCdrV2
		c.plFlag = true
		c.encodingFlag = PlCdr2
	default:
		c.SetState(snapshot)
		return badParameter("unknown encapsulation kind nibble 0x%02x", nibble)
	}

	c.options = uint16(optsHi)<<8 | uint16(optsLo)
	c.recomputeSwap()
	c.lastDataSize = 0
	c.ResetAlignment()
	return nil
}
