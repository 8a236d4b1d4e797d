package xcdr

import (
	"testing"

	"github.com/eProsima/Fast-CDR-sub003/lib/buffer"
	"github.com/eProsima/Fast-CDR-sub003/lib/cdr"
)

func xcdrV1Codec(flag cdr.EncodingFlag) *cdr.Codec {
	c := cdr.New(buffer.Allocate(), cdr.LittleEndian, cdr.XCdrV1)
	c.SetEncodingFlag(flag)
	return c
}

func xcdrV2Codec(flag cdr.EncodingFlag) *cdr.Codec {
	c := cdr.New(buffer.Allocate(), cdr.LittleEndian, cdr.XCdrV2)
	c.SetEncodingFlag(flag)
	return c
}

func TestEncodeDecodeMemberV1Short(t *testing.T) {
	c := xcdrV1Codec(cdr.PlCdr)
	if err := EncodeMemberV1(c, 0x10, 4, AutoShort); err != nil {
		t.Fatalf("EncodeMemberV1 failed: %v", err)
	}
	if err := c.WriteUint32(0xCAFEBABE); err != nil {
		t.Fatal(err)
	}
	if err := EncodeSentinelV1(c); err != nil {
		t.Fatalf("EncodeSentinelV1 failed: %v", err)
	}

	d := cdr.New(buffer.Wrap(c.Bytes()), cdr.LittleEndian, cdr.XCdrV1)
	d.SetEncodingFlag(cdr.PlCdr)
	header, err := DecodeMemberHeaderV1(d)
	if err != nil {
		t.Fatalf("DecodeMemberHeaderV1 failed: %v", err)
	}
	if header.Sentinel || header.WasLong {
		t.Fatalf("expected short non-sentinel header, got %+v", header)
	}
	if header.ID != 0x10 || header.Length != 4 {
		t.Fatalf("got id=%d length=%d, want id=16 length=4", header.ID, header.Length)
	}
	v, err := d.ReadUint32()
	if err != nil || v != 0xCAFEBABE {
		t.Fatalf("ReadUint32 got %v, %v", v, err)
	}
	term, err := DecodeMemberHeaderV1(d)
	if err != nil {
		t.Fatalf("sentinel decode failed: %v", err)
	}
	if !term.Sentinel {
		t.Fatalf("expected sentinel, got %+v", term)
	}
}

func TestEncodeMemberV1LongWhenIDOverflowsShort(t *testing.T) {
	c := xcdrV1Codec(cdr.PlCdr)
	if err := EncodeMemberV1(c, 0x3F01, 4, AutoShort); err != nil {
		t.Fatalf("EncodeMemberV1 failed: %v", err)
	}
	d := cdr.New(buffer.Wrap(c.Bytes()), cdr.LittleEndian, cdr.XCdrV1)
	d.SetEncodingFlag(cdr.PlCdr)
	header, err := DecodeMemberHeaderV1(d)
	if err != nil {
		t.Fatalf("DecodeMemberHeaderV1 failed: %v", err)
	}
	if !header.WasLong {
		t.Fatalf("expected long form, got %+v", header)
	}
	if header.ID != 0x3F01 || header.Length != 4 {
		t.Fatalf("got id=0x%x length=%d, want id=0x3f01 length=4", header.ID, header.Length)
	}
}

func TestEncodeMemberV1ShortRejectsOversizeID(t *testing.T) {
	c := xcdrV1Codec(cdr.PlCdr)
	err := EncodeMemberV1(c, 0x3F01, 4, Short)
	if !cdr.IsBadParameter(err) {
		t.Fatalf("expected bad-parameter fault, got %v", err)
	}
}

func TestDispatchMembersV1SkipsUnknown(t *testing.T) {
	c := xcdrV1Codec(cdr.PlCdr)
	if err := EncodeMemberV1(c, 1, 4, AutoShort); err != nil {
		t.Fatal(err)
	}
	if err := c.WriteUint32(10); err != nil {
		t.Fatal(err)
	}
	if err := EncodeMemberV1(c, 2, 4, AutoShort); err != nil {
		t.Fatal(err)
	}
	if err := c.WriteUint32(20); err != nil {
		t.Fatal(err)
	}
	if err := EncodeSentinelV1(c); err != nil {
		t.Fatal(err)
	}

	d := cdr.New(buffer.Wrap(c.Bytes()), cdr.LittleEndian, cdr.XCdrV1)
	d.SetEncodingFlag(cdr.PlCdr)
	var gotID1 uint32
	err := DecodeMembersV1(d, func(c *cdr.Codec, id uint32, mustUnderstand bool) (bool, error) {
		if id == 1 {
			v, err := c.ReadUint32()
			if err != nil {
				return false, err
			}
			gotID1 = v
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		t.Fatalf("DecodeMembersV1 failed: %v", err)
	}
	if gotID1 != 10 {
		t.Fatalf("got %d, want 10", gotID1)
	}
}

func TestEncodeDecodeMemberV2FixedLength(t *testing.T) {
	c := xcdrV2Codec(cdr.PlCdr2)
	if err := EncodeMemberV2(c, 5, true, 4); err != nil {
		t.Fatalf("EncodeMemberV2 failed: %v", err)
	}
	if err := c.WriteUint32(42); err != nil {
		t.Fatal(err)
	}

	d := cdr.New(buffer.Wrap(c.Bytes()), cdr.LittleEndian, cdr.XCdrV2)
	d.SetEncodingFlag(cdr.PlCdr2)
	header, err := DecodeMemberHeaderV2(d)
	if err != nil {
		t.Fatalf("DecodeMemberHeaderV2 failed: %v", err)
	}
	if header.ID != 5 || !header.MustUnderstand || header.Length != 4 {
		t.Fatalf("got %+v, want id=5 mustUnderstand=true length=4", header)
	}
	v, err := d.ReadUint32()
	if err != nil || v != 42 {
		t.Fatalf("ReadUint32 got %v, %v", v, err)
	}
}

func TestEncodeDecodeMemberV2NextInt(t *testing.T) {
	c := xcdrV2Codec(cdr.PlCdr2)
	if err := EncodeMemberV2(c, 7, false, 11); err != nil {
		t.Fatalf("EncodeMemberV2 failed: %v", err)
	}
	d := cdr.New(buffer.Wrap(c.Bytes()), cdr.LittleEndian, cdr.XCdrV2)
	d.SetEncodingFlag(cdr.PlCdr2)
	header, err := DecodeMemberHeaderV2(d)
	if err != nil {
		t.Fatalf("DecodeMemberHeaderV2 failed: %v", err)
	}
	if header.ID != 7 || header.MustUnderstand || header.Length != 11 {
		t.Fatalf("got %+v, want id=7 mustUnderstand=false length=11", header)
	}
}

func TestBeginEndTypeDelimitCdr2RoundTrip(t *testing.T) {
	c := xcdrV2Codec(cdr.DelimitCdr2)
	reservation, reserved, bodyStart, err := BeginType(c)
	if err != nil {
		t.Fatalf("BeginType failed: %v", err)
	}
	if !reserved {
		t.Fatalf("expected a DHEADER reservation for DelimitCdr2")
	}
	if err := c.WriteUint32(1); err != nil {
		t.Fatal(err)
	}
	if err := c.WriteUint64(2); err != nil {
		t.Fatal(err)
	}
	if err := EndType(c, reservation, reserved, bodyStart); err != nil {
		t.Fatalf("EndType failed: %v", err)
	}

	d := cdr.New(buffer.Wrap(c.Bytes()), cdr.LittleEndian, cdr.XCdrV2)
	d.SetEncodingFlag(cdr.DelimitCdr2)
	length, err := DecodeDHeader(d)
	if err != nil {
		t.Fatalf("DecodeDHeader failed: %v", err)
	}
	if int(length) != c.GetSerializedDataLength()-4 {
		t.Fatalf("DHEADER length %d does not match body size %d", length, c.GetSerializedDataLength()-4)
	}
}

func TestBeginTypeNoOpForPlainCdr(t *testing.T) {
	c := cdr.New(buffer.Allocate(), cdr.LittleEndian, cdr.CorbaCdr)
	_, reserved, _, err := BeginType(c)
	if err != nil {
		t.Fatalf("BeginType failed: %v", err)
	}
	if reserved {
		t.Fatalf("expected no DHEADER reservation for classic CDR")
	}
}

func TestSizeCalculatorAgreesWithCodec(t *testing.T) {
	c := cdr.New(buffer.Allocate(), cdr.LittleEndian, cdr.CorbaCdr)
	calc := NewCalculator(cdr.CorbaCdr)

	if err := c.WriteUint8(1); err != nil {
		t.Fatal(err)
	}
	calc.AddUint8()

	if err := c.WriteUint32(2); err != nil {
		t.Fatal(err)
	}
	calc.AddUint32()

	if err := c.WriteString("hello"); err != nil {
		t.Fatal(err)
	}
	calc.AddString("hello")

	if err := cdr.WriteSequence(c, []uint16{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	calc.AddSequence(3, 2)

	if err := c.WriteUint64(9); err != nil {
		t.Fatal(err)
	}
	calc.AddUint64()

	if c.GetSerializedDataLength() != calc.Result() {
		t.Fatalf("codec wrote %d bytes, calculator predicted %d", c.GetSerializedDataLength(), calc.Result())
	}
}

func TestSizeCalculatorAgreesWithEncapsulationAndDHeader(t *testing.T) {
	c := xcdrV2Codec(cdr.DelimitCdr2)
	calc := NewCalculator(cdr.XCdrV2)

	if err := c.SerializeEncapsulation(); err != nil {
		t.Fatal(err)
	}
	calc.AddEncapsulation()

	reservation, reserved, bodyStart, err := BeginType(c)
	if err != nil {
		t.Fatal(err)
	}
	calc.AddDHeader()

	if err := c.WriteUint8(1); err != nil {
		t.Fatal(err)
	}
	calc.AddUint8()
	if err := c.WriteUint32(2); err != nil {
		t.Fatal(err)
	}
	calc.AddUint32()

	if err := EndType(c, reservation, reserved, bodyStart); err != nil {
		t.Fatal(err)
	}

	if c.GetSerializedDataLength() != calc.Result() {
		t.Fatalf("codec wrote %d bytes, calculator predicted %d", c.GetSerializedDataLength(), calc.Result())
	}
}
