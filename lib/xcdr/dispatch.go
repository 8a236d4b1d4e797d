package xcdr

import "github.com/eProsima/Fast-CDR-sub003/lib/cdr"

// Dispatcher is called once per decoded member header. It returns true
// when it consumed the member's payload itself, or false to let the
// decode loop skip over length bytes via Codec.Jump (the "unknown
// member" path spec §4.9 requires both PL_CDR v1 and PL_CDR2 decoders to
// support).
type Dispatcher func(c *cdr.Codec, id uint32, mustUnderstand bool) (handled bool, err error)

// DecodeMembersV1 reads PL_CDR v1 member headers until the sentinel,
// invoking dispatch for each and skipping members dispatch declines.
func DecodeMembersV1(c *cdr.Codec, dispatch Dispatcher) error {
	for {
		header, err := DecodeMemberHeaderV1(c)
		if err != nil {
			return err
		}
		if header.Sentinel {
			return nil
		}
		handled, err := dispatch(c, header.ID, false)
		if err != nil {
			return err
		}
		if !handled {
			if err := c.Jump(int(header.Length)); err != nil {
				return err
			}
		}
	}
}

// DecodeMembersV2 reads PL_CDR2 EMHEADER1 member headers until exactly
// aggregateLength bytes (the DHEADER value read by the caller via
// DecodeDHeader) have been consumed, invoking dispatch for
// each and skipping members dispatch declines.
func DecodeMembersV2(c *cdr.Codec, aggregateLength uint32, dispatch Dispatcher) error {
	start := c.Mark()
	for uint32(c.Since(start)) < aggregateLength {
		header, err := DecodeMemberHeaderV2(c)
		if err != nil {
			return err
		}
		handled, err := dispatch(c, header.ID, header.MustUnderstand)
		if err != nil {
			return err
		}
		if !handled {
			if err := c.Jump(int(header.Length)); err != nil {
				return err
			}
		}
	}
	return nil
}
