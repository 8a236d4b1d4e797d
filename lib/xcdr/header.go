// Package xcdr implements the member-dispatch layer described in spec
// §4.9: PL_CDR v1 short/long parameter headers and the sentinel, PL_CDR2
// EMHEADER1 and DHEADER framing, the decode dispatcher, and the
// begin_type/end_type aggregate contracts. A parallel, write-free Size
// calculator (spec §4.10) lives alongside it in size.go.
//
// # Dependencies
//
// Builds on lib/cdr and lib/buffer plus the standard library's math/bits
// (EMHEADER1 length-code selection); no third-party packages.
package xcdr

import (
	"github.com/eProsima/Fast-CDR-sub003/lib/cdr"
)

// HeaderPreference selects which PL_CDR v1 header width EncodeMemberV1
// should prefer.
type HeaderPreference uint8

const (
	// Short forces the 4-byte header; EncodeMemberV1 fails with
	// bad-parameter if the id or length doesn't fit.
	Short HeaderPreference = iota
	// Long always emits the 12-byte header.
	Long
	// AutoShort prefers the short header, falling back to long only
	// when the id or length doesn't fit (spec §4.9: "AUTO_WITH_SHORT_DEFAULT").
	AutoShort
	// AutoLong always emits the long header: id and length are both
	// 32-bit fields in the long form, so they always fit it, making
	// "auto" degenerate to "long" in practice
	// (spec §4.9: "AUTO_WITH_LONG_DEFAULT").
	AutoLong
)

const (
	shortMaxID     = 0x3F00
	shortMaxLength = 0xFFFF
	longMarkerHi   = 0x3F
	longMarkerLo   = 0x01
	longHeaderLen  = 0x0008
	sentinelWord   = 0x3F020000
)

func fitsShort(id, length uint32) bool {
	return id <= shortMaxID && length <= shortMaxLength
}

// EncodeMemberV1 writes a PL_CDR v1 member header, 4-byte aligned: either
// the 4-byte short form [id_hi, id_lo, len_hi, len_lo] or, when id or
// length exceeds the short form's range (or Long/AutoLong is requested),
// the 12-byte long form [0x3F, 0x01, 0x00, 0x08, id(4), len(4)]. Byte
// layouts are shown big-endian; every field is written in the stream's
// byte order.
func EncodeMemberV1(c *cdr.Codec, id, length uint32, pref HeaderPreference) error {
	useShort := false
	switch pref {
	case Short:
		if !fitsShort(id, length) {
			return badParameter(c, "member id 0x%x / length %d exceeds PL_CDR short header capacity", id, length)
		}
		useShort = true
	case AutoShort:
		useShort = fitsShort(id, length)
	case Long, AutoLong:
		useShort = false
	}

	if err := c.Align(); err != nil {
		return err
	}
	if useShort {
		if err := c.WriteUint16(uint16(id)); err != nil {
			return err
		}
		return c.WriteUint16(uint16(length))
	}

	if err := c.WriteUint16((longMarkerHi << 8) | longMarkerLo); err != nil {
		return err
	}
	if err := c.WriteUint16(longHeaderLen); err != nil {
		return err
	}
	if err := c.WriteUint32(id); err != nil {
		return err
	}
	return c.WriteUint32(length)
}

// DecodedHeaderV1 is a parsed PL_CDR v1 member header (or the sentinel).
type DecodedHeaderV1 struct {
	ID        uint32
	Length    uint32
	Sentinel  bool
	WasLong   bool
}

// DecodeMemberHeaderV1 aligns to 4 bytes and reads one PL_CDR v1 header,
// detecting short form, long form, or the terminating sentinel
// automatically from the first 16-bit field.
func DecodeMemberHeaderV1(c *cdr.Codec) (DecodedHeaderV1, error) {
	if err := c.Align(); err != nil {
		return DecodedHeaderV1{}, err
	}
	idOrMarker, err := c.ReadUint16()
	if err != nil {
		return DecodedHeaderV1{}, err
	}
	if idOrMarker == (longMarkerHi<<8)|0x02 {
		// Sentinel [0x3F, 0x02, 0x00, 0x00].
		if _, err := c.ReadUint16(); err != nil {
			return DecodedHeaderV1{}, err
		}
		return DecodedHeaderV1{Sentinel: true}, nil
	}
	if idOrMarker == (longMarkerHi<<8)|longMarkerLo {
		hlen, err := c.ReadUint16()
		if err != nil {
			return DecodedHeaderV1{}, err
		}
		if hlen != longHeaderLen {
			return DecodedHeaderV1{}, badParameter(c, "long PL_CDR header length field is 0x%04x, want 0x%04x", hlen, longHeaderLen)
		}
		id, err := c.ReadUint32()
		if err != nil {
			return DecodedHeaderV1{}, err
		}
		length, err := c.ReadUint32()
		if err != nil {
			return DecodedHeaderV1{}, err
		}
		return DecodedHeaderV1{ID: id, Length: length, WasLong: true}, nil
	}
	length, err := c.ReadUint16()
	if err != nil {
		return DecodedHeaderV1{}, err
	}
	return DecodedHeaderV1{ID: uint32(idOrMarker), Length: uint32(length)}, nil
}

// EncodeSentinelV1 writes the 4-byte PL_CDR v1 aggregate terminator
// [0x3F, 0x02, 0x00, 0x00], 4-byte aligned. It is written as two 16-bit
// fields (PID 0x3F02, length 0), each in the codec's declared byte order,
// the same way DecodeMemberHeaderV1 reads it back.
func EncodeSentinelV1(c *cdr.Codec) error {
	if err := c.Align(); err != nil {
		return err
	}
	if err := c.WriteUint16(uint16(sentinelWord >> 16)); err != nil {
		return err
	}
	return c.WriteUint16(uint16(sentinelWord & 0xFFFF))
}

func badParameter(c *cdr.Codec, format string, args ...any) error {
	_ = c
	return cdr.NewBadParameter(format, args...)
}
