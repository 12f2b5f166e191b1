package bgp

import (
	"encoding/binary"
	"fmt"
)

// ErrTruncated is returned by any ByteCursor read that would run past
// the end of the underlying buffer.
var ErrTruncated = fmt.Errorf("bgp: truncated buffer")

// ByteCursor is a bounds-checked, big-endian reader over an immutable
// byte slice. It borrows the slice for the lifetime of the call that
// created it; it never retains or copies more than the caller asks
// for. Most decoders in this package read through a ByteCursor; the
// fixed-stride list decoders (communities, cluster list) and DecodeESI
// index their input slices directly.
type ByteCursor struct {
	buf []byte
	pos int
}

// NewByteCursor wraps buf for reading. buf is not copied.
func NewByteCursor(buf []byte) *ByteCursor {
	return &ByteCursor{buf: buf}
}

// Remaining returns the number of unread bytes.
func (c *ByteCursor) Remaining() int {
	return len(c.buf) - c.pos
}

// Rest returns the unread tail of the buffer without advancing.
func (c *ByteCursor) Rest() []byte {
	return c.buf[c.pos:]
}

// Take returns a borrowed slice of length n and advances the cursor by
// n. It fails with ErrTruncated if n exceeds Remaining().
func (c *ByteCursor) Take(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, ErrTruncated
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Skip advances the cursor by n bytes without returning them.
func (c *ByteCursor) Skip(n int) error {
	_, err := c.Take(n)
	return err
}

// PeekU8 returns the next byte without advancing the cursor.
func (c *ByteCursor) PeekU8() (uint8, error) {
	if c.Remaining() < 1 {
		return 0, ErrTruncated
	}
	return c.buf[c.pos], nil
}

// ReadU8 reads and consumes one byte.
func (c *ByteCursor) ReadU8() (uint8, error) {
	b, err := c.Take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16BE reads and consumes a big-endian uint16.
func (c *ByteCursor) ReadU16BE() (uint16, error) {
	b, err := c.Take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadU32BE reads and consumes a big-endian uint32.
func (c *ByteCursor) ReadU32BE() (uint32, error) {
	b, err := c.Take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadU24BE reads a 3-byte big-endian quantity into the low 24 bits of
// a uint32. Used for MPLS labels, which are 20 bits of label plus 3
// bits TC/EXP plus 1 bit bottom-of-stack, but are rendered here as the
// raw 24-bit field per spec (right-shifted callers handle the label
// value split if they need it).
func (c *ByteCursor) ReadU24BE() (uint32, error) {
	b, err := c.Take(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}
