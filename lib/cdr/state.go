package cdr

import "github.com/eProsima/Fast-CDR-sub003/lib/buffer"

// State is a value-type snapshot of the four codec fields spec §3 lists
// as the invariant set a rollback must restore: current, anchor, swap,
// and last_data_size. It holds no resources and never needs cleanup —
// spec §9 collapses the source's exception-based unwinding into this
// plain value-restore mechanism.
type State struct {
	current      buffer.Cursor
	anchor       buffer.Cursor
	swap         bool
	lastDataSize uint8
}

// GetState takes a snapshot of the codec's current position and
// alignment bookkeeping.
func (c *Codec) GetState() State {
	return State{
		current:      c.current,
		anchor:       c.anchor,
		swap:         c.swap,
		lastDataSize: c.lastDataSize,
	}
}

// SetState restores a previously captured snapshot. Every operation that
// may write or read more than one primitive (strings, sequences,
// aggregates, nested types) should take a snapshot before its first byte
// and restore it on any failure from a nested call, so the cursor never
// leaks past a half-written value.
func (c *Codec) SetState(s State) {
	c.current = s.current
	c.anchor = s.anchor
	c.swap = s.swap
	c.lastDataSize = s.lastDataSize
}

// withSnapshot runs fn, restoring the pre-call state and re-raising the
// error if fn fails. It is the single place the "snapshot before any
// operation that may partially write" rule (spec §4.8) is enforced.
func (c *Codec) withSnapshot(fn func() error) error {
	snapshot := c.GetState()
	if err := fn(); err != nil {
		c.SetState(snapshot)
		return err
	}
	return nil
}
