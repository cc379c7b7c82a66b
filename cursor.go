package ktx

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Cursor is a sequential read/write position over a fixed byte buffer.
//
// The byte order is fixed at construction. Reads past the end return
// ErrTruncatedRead and writes past the end return ErrBufferOverflow; the
// buffer is never grown.
type Cursor struct {
	order binary.ByteOrder
	buf   []byte
	off   int
}

// NewCursor returns a cursor positioned at the start of buf.
func NewCursor(buf []byte, order binary.ByteOrder) *Cursor {
	return &Cursor{buf: buf, order: order}
}

// Offset returns the current position.
func (c *Cursor) Offset() int {
	return c.off
}

// Seek moves the cursor to an absolute position.
func (c *Cursor) Seek(off int) {
	c.off = off
}

// Len returns the size of the underlying buffer.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// ByteOrder returns the byte order used for integers.
func (c *Cursor) ByteOrder() binary.ByteOrder {
	return c.order
}

func (c *Cursor) need(n int) error {
	if c.off < 0 || n < 0 || c.off > len(c.buf) || len(c.buf)-c.off < n {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncatedRead, n, c.off, max(0, len(c.buf)-c.off))
	}
	return nil
}

func (c *Cursor) room(n int) error {
	if c.off < 0 || c.off > len(c.buf) || len(c.buf)-c.off < n {
		return fmt.Errorf("%w: %d bytes at offset %d, capacity %d", ErrBufferOverflow, n, c.off, len(c.buf))
	}
	return nil
}

// ReadUint32 reads one integer and advances by 4 bytes.
func (c *Cursor) ReadUint32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := c.order.Uint32(c.buf[c.off:])
	c.off += 4
	return v, nil
}

// WriteUint32 writes one integer and advances by 4 bytes.
func (c *Cursor) WriteUint32(v uint32) error {
	if err := c.room(4); err != nil {
		return err
	}
	c.order.PutUint32(c.buf[c.off:], v)
	c.off += 4
	return nil
}

// ReadBytes returns a view of the next n bytes and advances past them.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	b := c.buf[c.off : c.off+n : c.off+n]
	c.off += n
	return b, nil
}

// WriteBytes copies b into the buffer and advances past it.
func (c *Cursor) WriteBytes(b []byte) error {
	if err := c.room(len(b)); err != nil {
		return err
	}
	c.off += copy(c.buf[c.off:], b)
	return nil
}

// ReadString reads bytes up to a 0 terminator, consuming the terminator.
// With maxLen >= 0 at most maxLen bytes are consumed and a missing
// terminator within that window is not an error. With maxLen < 0 the
// terminator must be present before the end of the buffer.
func (c *Cursor) ReadString(maxLen int) (string, error) {
	if err := c.need(0); err != nil {
		return "", err
	}
	window := c.buf[c.off:]
	if maxLen >= 0 {
		if maxLen > len(window) {
			return "", fmt.Errorf("%w: string of up to %d bytes at offset %d, have %d", ErrTruncatedRead, maxLen, c.off, len(window))
		}
		window = window[:maxLen]
	}

	n := bytes.IndexByte(window, 0)
	if n < 0 {
		if maxLen < 0 {
			return "", fmt.Errorf("%w: unterminated string at offset %d", ErrTruncatedRead, c.off)
		}
		c.off += len(window)
		return string(window), nil
	}

	s := string(window[:n])
	c.off += n + 1
	return s, nil
}

// WriteString writes s followed by one 0 terminator.
func (c *Cursor) WriteString(s string) error {
	if err := c.room(len(s) + 1); err != nil {
		return err
	}
	c.off += copy(c.buf[c.off:], s)
	c.buf[c.off] = 0
	c.off++
	return nil
}

// Align4 skips to the next multiple of 4 without touching the buffer.
// Bounds are enforced by the next read.
func (c *Cursor) Align4() {
	c.off = pad4(c.off)
}

// AlignWrite4 zero-fills up to the next multiple of 4.
func (c *Cursor) AlignWrite4() error {
	next := pad4(c.off)
	if err := c.room(next - c.off); err != nil {
		return err
	}
	clear(c.buf[c.off:next])
	c.off = next
	return nil
}
