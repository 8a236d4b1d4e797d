// Package fastcdr is the root of the module: a small file-level
// diagnostic helper used by cmd/cdrdump to report the encapsulation
// preamble of a CDR-encoded file without requiring the caller to
// already know the type being decoded. No payload primitives are decoded.
package fastcdr

import (
	"fmt"
	"os"

	"github.com/eProsima/Fast-CDR-sub003/lib/buffer"
	"github.com/eProsima/Fast-CDR-sub003/lib/cdr"
)

// Dump reads filename whole, detects its DDS/XCDR encapsulation preamble
// (if any byte pattern matches one), and prints a one-line diagnostic
// summary: dialect, endianness, options and the remaining byte count.
// Files with no recognizable preamble are reported as raw CorbaCdr
// (encapsulation-less) streams.
func Dump(filename string) error {
	raw, err := os.ReadFile(filename)
	if nil != err {
		return err
	}
	if len(raw) < 4 {
		fmt.Printf("%s: %d byte(s), too short for an encapsulation preamble\n", filename, len(raw))
		return nil
	}

	dialect, endianness := guessEncapsulation(raw)
	c := cdr.New(buffer.Wrap(raw), endianness, dialect)
	if dialect != cdr.CorbaCdr {
		if err := c.ReadEncapsulation(); err != nil {
			fmt.Printf("%s: malformed encapsulation preamble: %v\n", filename, err)
			return nil
		}
	}
	fmt.Printf(
		"%s: dialect=%d endianness=%d options=0x%04x payload=%d byte(s)\n",
		filename, c.Dialect(), c.Endianness(), c.Options(), len(raw)-c.GetSerializedDataLength(),
	)
	return nil
}

// guessEncapsulation inspects the first two bytes for a recognizable
// [0x00, kind] preamble and reports the dialect/endianness it implies.
// Anything else is treated as a bare CorbaCdr stream (no preamble).
func guessEncapsulation(raw []byte) (cdr.Dialect, cdr.Endianness) {
	if raw[0] != 0x00 {
		return cdr.CorbaCdr, cdr.BigEndian
	}
	kind := raw[1]
	endianness := cdr.BigEndian
	if kind&0x01 != 0 {
		endianness = cdr.LittleEndian
	}
	switch kind &^ 0x01 {
	case 0x00:
		return cdr.DdsCdr, endianness
	case 0x02:
		return cdr.XCdrV1, endianness
	case 0x08, 0x0A, 0x10:
		return cdr.XCdrV2, endianness
	default:
		return cdr.CorbaCdr, cdr.BigEndian
	}
}
