package xcdr

import (
	"math/bits"

	"github.com/eProsima/Fast-CDR-sub003/lib/buffer"
	"github.com/eProsima/Fast-CDR-sub003/lib/cdr"
)

// lengthCode maps a member payload length to the EMHEADER1 LC field
// (spec §4.9): 0=1 byte, 1=2, 2=4, 3=8, 4..7 mean "read a trailing
// NEXTINT 32-bit length word". A length is eligible for one of the four
// fixed codes only when it is exactly one of the four power-of-two
// widths (bits.OnesCount32==1 and bits.Len32-1 <= 3); anything else
// always takes the NEXTINT path with code 4 (the generic "large or
// irregular length" case — codes 5..7 are reserved by the wire format
// for element-size hints this codec does not need to distinguish).
func lengthCode(length uint32) (code uint8, useNextInt bool) {
	if bits.OnesCount32(length) == 1 {
		if log2 := bits.Len32(length) - 1; log2 <= 3 {
			return uint8(log2), false
		}
	}
	return 4, true
}

const (
	emheaderMustUnderstand = uint32(1) << 31
	emheaderLCShift        = 28
	emheaderLCMask         = uint32(0x7) << emheaderLCShift
	emheaderIDMask         = uint32(0x0FFFFFFF)
)

// EncodeMemberV2 writes a PL_CDR2 EMHEADER1 word
// (M_flag<<31 | length_code<<28 | member_id), followed by a NEXTINT
// 32-bit length word when the length doesn't fit one of the four fixed
// codes.
func EncodeMemberV2(c *cdr.Codec, id uint32, mustUnderstand bool, length uint32) error {
	if id > emheaderIDMask {
		return cdr.NewBadParameter("member id 0x%x exceeds EMHEADER1's 28-bit id field", id)
	}
	code, useNextInt := lengthCode(length)
	header := uint32(code) << emheaderLCShift
	header |= id & emheaderIDMask
	if mustUnderstand {
		header |= emheaderMustUnderstand
	}
	if err := c.WriteUint32(header); err != nil {
		return err
	}
	if useNextInt {
		return c.WriteUint32(length)
	}
	return nil
}

// DecodedHeaderV2 is a parsed PL_CDR2 EMHEADER1 (+ optional NEXTINT).
type DecodedHeaderV2 struct {
	ID             uint32
	MustUnderstand bool
	Length         uint32
}

var fixedLengths = [4]uint32{1, 2, 4, 8}

// DecodeMemberHeaderV2 reads one EMHEADER1 word, and its trailing
// NEXTINT when the length code requires one.
func DecodeMemberHeaderV2(c *cdr.Codec) (DecodedHeaderV2, error) {
	header, err := c.ReadUint32()
	if err != nil {
		return DecodedHeaderV2{}, err
	}
	lc := (header & emheaderLCMask) >> emheaderLCShift
	id := header & emheaderIDMask
	mustUnderstand := header&emheaderMustUnderstand != 0
	var length uint32
	if lc < 4 {
		length = fixedLengths[lc]
	} else {
		length, err = c.ReadUint32()
		if err != nil {
			return DecodedHeaderV2{}, err
		}
	}
	return DecodedHeaderV2{ID: id, MustUnderstand: mustUnderstand, Length: length}, nil
}

// BeginType implements the begin_type(encoding) contract from spec §4.9:
// for DELIMIT_CDR2/PL_CDR2 under XCdrV2 it reserves 4 bytes for DHEADER
// and resets the alignment anchor; for classic/plain encodings it is a
// no-op. The returned reservation (and whether one was made) is passed
// to EndType.
func BeginType(c *cdr.Codec) (reservation buffer.Cursor, reserved bool, bodyStart buffer.Cursor, err error) {
	if c.Dialect() == cdr.XCdrV2 && (c.EncodingFlag() == cdr.DelimitCdr2 || c.EncodingFlag() == cdr.PlCdr2) {
		reservation, err = c.Reserve(4)
		if err != nil {
			return buffer.Cursor{}, false, buffer.Cursor{}, err
		}
		c.ResetAlignment()
		return reservation, true, c.Mark(), nil
	}
	return buffer.Cursor{}, false, c.Mark(), nil
}

// DecodeDHeader reads the 4-byte DHEADER aggregate byte count written by
// BeginType's reservation and resets the alignment anchor, mirroring
// what BeginType does on encode. It is the decode-side half of
// begin_type for DELIMIT_CDR2/PL_CDR2.
func DecodeDHeader(c *cdr.Codec) (length uint32, err error) {
	length, err = c.ReadUint32()
	if err != nil {
		return 0, err
	}
	c.ResetAlignment()
	return length, nil
}

// EndType implements the end_type(encoding) contract: for PL_CDR under
// XCdrV1 it emits the sentinel; for DELIMIT_CDR2/PL_CDR2 it back-patches
// the DHEADER reserved by BeginType with the byte count produced since
// bodyStart.
func EndType(c *cdr.Codec, reservation buffer.Cursor, reserved bool, bodyStart buffer.Cursor) error {
	if c.Dialect() == cdr.XCdrV1 && c.EncodingFlag() == cdr.PlCdr {
		return EncodeSentinelV1(c)
	}
	if reserved {
		length := uint32(c.Since(bodyStart))
		return c.PatchUint32At(reservation, length)
	}
	return nil
}
