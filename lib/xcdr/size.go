package xcdr

import "github.com/eProsima/Fast-CDR-sub003/lib/cdr"

// Calculator is the write-free size calculator from spec §4.10: it
// mirrors every Codec Write*/Add* call's size and alignment rules
// without touching a buffer, so callers can size an allocation before
// encoding into it. Its Add* method set and alignment bookkeeping
// (offset relative to an anchor, last_data_size skip) are kept in exact
// lockstep with lib/cdr's Codec — spec §8's "size-calculator agreement"
// property depends on the two never drifting apart.
type Calculator struct {
	offset       int
	anchor       int
	dialect      cdr.Dialect
	lastDataSize uint8
}

// NewCalculator starts a Calculator at offset 0 for the given dialect.
// Classic/DDS/XCDR dialects align; FastCdr never does, matching Codec.
func NewCalculator(dialect cdr.Dialect) *Calculator {
	return &Calculator{dialect: dialect}
}

// pad mirrors lib/cdr's unexported pad(offset, size) formula. Duplicated
// rather than imported since lib/cdr does not export it and Calculator
// must stay buffer-free (see DESIGN.md).
func pad(offset int, size uint8) int {
	s := int(size)
	return (s - (offset % s)) % s
}

func (s *Calculator) alignTo(size uint8) {
	if s.dialect == cdr.FastCdr {
		return
	}
	if size <= s.lastDataSize {
		return
	}
	s.offset += pad(s.offset-s.anchor, size)
}

// Result returns the total byte count accumulated so far.
func (s *Calculator) Result() int { return s.offset }

// Reset zeroes the calculator back to offset 0, matching Codec.Reset.
func (s *Calculator) Reset() {
	s.offset = 0
	s.anchor = 0
	s.lastDataSize = 0
}

// ResetAlignment re-bases subsequent AddX alignment against the current
// offset, matching Codec.ResetAlignment (used around AddDHeader/AddEncapsulation).
func (s *Calculator) ResetAlignment() {
	s.anchor = s.offset
	s.lastDataSize = 0
}

func (s *Calculator) addWidth(size uint8) {
	s.alignTo(size)
	s.offset += int(size)
	s.lastDataSize = size
}

// AddUint8 accounts for a 1-byte primitive (octet, int8, uint8, bool).
func (s *Calculator) AddUint8() { s.addWidth(1) }

// AddUint16 accounts for a 2-byte, 2-byte-aligned primitive.
func (s *Calculator) AddUint16() { s.addWidth(2) }

// AddUint32 accounts for a 4-byte, 4-byte-aligned primitive.
func (s *Calculator) AddUint32() { s.addWidth(4) }

// AddUint64 accounts for an 8-byte, 8-byte-aligned primitive.
func (s *Calculator) AddUint64() { s.addWidth(8) }

// AddFloat32 accounts for a 4-byte IEEE-754 single.
func (s *Calculator) AddFloat32() { s.addWidth(4) }

// AddFloat64 accounts for an 8-byte IEEE-754 double.
func (s *Calculator) AddFloat64() { s.addWidth(8) }

// AddBool accounts for a 1-byte boolean.
func (s *Calculator) AddBool() { s.addWidth(1) }

// AddLongDouble accounts for the 16-byte long double slot (8 significant
// bytes + 8 padding bytes), 8-byte aligned, matching Codec.WriteLongDouble.
func (s *Calculator) AddLongDouble() {
	s.alignTo(8)
	s.offset += 16
	s.lastDataSize = 8
}

// AddString accounts for a narrow CDR string: a 4-byte length prefix
// plus len(s) content bytes plus one NUL terminator (len(s)==0 emits
// only the 4-byte zero length, matching Codec.WriteString).
func (s *Calculator) AddString(str string) {
	s.AddUint32()
	if len(str) == 0 {
		return
	}
	s.offset += len(str) + 1
	s.lastDataSize = 1
}

// AddWString accounts for a wide CDR string: a 4-byte count plus
// codeUnits 4-byte UTF-32 code units.
func (s *Calculator) AddWString(codeUnits int) {
	s.AddUint32()
	for i := 0; i < codeUnits; i++ {
		s.AddUint32()
	}
}

// AddArray accounts for n elements of the given natural width, matching
// Codec's per-element alignment (the first element sets the alignment
// point; later elements of the same width never re-pad).
func (s *Calculator) AddArray(n int, elementSize uint8) {
	for i := 0; i < n; i++ {
		s.addWidth(elementSize)
	}
}

// AddSequence accounts for a 4-byte element count plus AddArray(n, elementSize).
func (s *Calculator) AddSequence(n int, elementSize uint8) {
	s.AddUint32()
	s.AddArray(n, elementSize)
}

// AddEncapsulation accounts for the 4-byte DDS/XCDR encapsulation
// preamble and resets the alignment anchor, matching
// Codec.SerializeEncapsulation.
func (s *Calculator) AddEncapsulation() {
	s.AddUint8()
	s.AddUint8()
	s.AddUint8()
	s.AddUint8()
	s.ResetAlignment()
}

// AddMemberHeaderShort accounts for a 4-byte, 4-byte-aligned PL_CDR v1
// short member header.
func (s *Calculator) AddMemberHeaderShort() {
	s.alignTo(4)
	s.AddUint16()
	s.AddUint16()
}

// AddMemberHeaderLong accounts for a 12-byte, 4-byte-aligned PL_CDR v1
// long member header.
func (s *Calculator) AddMemberHeaderLong() {
	s.alignTo(4)
	s.AddUint16()
	s.AddUint16()
	s.AddUint32()
	s.AddUint32()
}

// AddMemberHeaderV2 accounts for a 4-byte EMHEADER1 word, plus a trailing
// 4-byte NEXTINT when length doesn't fit one of the four fixed codes.
func (s *Calculator) AddMemberHeaderV2(length uint32) {
	s.AddUint32()
	if _, useNextInt := lengthCode(length); useNextInt {
		s.AddUint32()
	}
}

// AddSentinel accounts for the 4-byte PL_CDR v1 terminator.
func (s *Calculator) AddSentinel() { s.AddUint32() }

// AddDHeader accounts for the 4-byte DHEADER aggregate byte-count prefix
// and resets the alignment anchor, matching BeginType's reservation.
func (s *Calculator) AddDHeader() {
	s.AddUint32()
	s.ResetAlignment()
}
