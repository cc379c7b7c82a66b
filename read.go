package ktx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// DecodeOptions configures container decoding. A nil *DecodeOptions decodes
// every level and the key/value annotations.
type DecodeOptions struct {
	// LevelStart is the first level to return.
	LevelStart int
	// LevelEnd is one past the last level to return; <= 0 or beyond the
	// level count means through the last level.
	LevelEnd int
	// SkipKeyValues leaves Container.KeyValues empty.
	SkipKeyValues bool
}

// span is one image entry inside the container buffer.
type span struct {
	off  int
	size int
}

// ReadFile reads a container file, removes any outer compression and
// decodes it. Errors carry the path.
func ReadFile(path string, opts *DecodeOptions) (*Container, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}

	data, err := Unwrap(raw)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}

	c, err := Decode(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}

	return c, nil
}

// DecodeReader reads r to the end and decodes the result.
func DecodeReader(r io.Reader, opts *DecodeOptions) (*Container, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data, opts)
}

// Decode parses a container held entirely in memory. ImageData entries are
// views into data; nothing is copied.
func Decode(data []byte, opts *DecodeOptions) (*Container, error) {
	if opts == nil {
		opts = &DecodeOptions{}
	}

	h, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}

	kvLen, err := intFromU32(h.BytesOfKeyValueData)
	if err != nil {
		return nil, fmt.Errorf("key/value data: %w", err)
	}
	if kvLen > len(data)-HeaderSize {
		return nil, fmt.Errorf("%w: key/value data needs %d bytes, have %d", ErrTruncatedRead, kvLen, len(data)-HeaderSize)
	}

	out := &Container{Header: *h}
	if !opts.SkipKeyValues && kvLen > 0 {
		out.KeyValues, err = decodeKeyValues(data[HeaderSize:HeaderSize+kvLen], h.ByteOrder)
		if err != nil {
			return nil, err
		}
	}

	start, end := opts.LevelStart, opts.LevelEnd
	if end <= 0 || end > h.Levels() {
		end = h.Levels()
	}
	if start < 0 || start >= end {
		return nil, fmt.Errorf("%w: [%d, %d) of %d levels", ErrInvalidLevelRange, opts.LevelStart, opts.LevelEnd, h.Levels())
	}

	spans, err := resolveSpans(data, h, HeaderSize+kvLen, start, end)
	if err != nil {
		return nil, err
	}

	// One contiguous block covers every requested entry.
	first := spans[0].off
	last := spans[len(spans)-1].off + spans[len(spans)-1].size
	block := data[first:last]

	out.ImageData = make([][]byte, len(spans))
	for i, s := range spans {
		lo := s.off - first
		out.ImageData[i] = block[lo : lo+s.size : lo+s.size]
	}
	out.LevelStart = start

	return out, nil
}

// decodeHeader checks the identifier, detects the byte order and reads the
// fixed header fields.
func decodeHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: header needs %d bytes, have %d", ErrTruncatedRead, HeaderSize, len(data))
	}
	if !bytes.Equal(data[:len(Identifier)], Identifier[:]) {
		return nil, fmt.Errorf("%w: bad identifier % x", ErrMalformedHeader, data[:len(Identifier)])
	}

	order, err := detectByteOrder(data[12:16])
	if err != nil {
		return nil, err
	}

	h := &Header{ByteOrder: order}
	c := NewCursor(data, order)
	c.Seek(16)
	for _, f := range []*uint32{
		&h.GLType,
		&h.GLTypeSize,
		&h.GLFormat,
		&h.GLInternalFormat,
		&h.GLBaseInternalFormat,
		&h.PixelWidth,
		&h.PixelHeight,
		&h.PixelDepth,
		&h.NumberOfArrayElements,
		&h.NumberOfFaces,
		&h.NumberOfMipmapLevels,
		&h.BytesOfKeyValueData,
	} {
		if *f, err = c.ReadUint32(); err != nil {
			return nil, err
		}
	}

	if err := h.validate(); err != nil {
		return nil, err
	}

	return h, nil
}

// detectByteOrder interprets the endianness marker. The writer stores
// Endianness in its native order, so reading it back little-endian yields
// the marker only for little-endian files.
func detectByteOrder(marker []byte) (binary.ByteOrder, error) {
	switch {
	case binary.LittleEndian.Uint32(marker) == Endianness:
		return binary.LittleEndian, nil
	case binary.BigEndian.Uint32(marker) == Endianness:
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("%w: bad endianness marker % x", ErrMalformedHeader, marker)
	}
}

// decodeKeyValues parses the annotation section. Every entry is a uint32
// size followed by a NUL-terminated key and value, padded to 4 bytes
// relative to the section start.
func decodeKeyValues(section []byte, order binary.ByteOrder) (KeyValues, error) {
	var kv KeyValues
	c := NewCursor(section, order)
	for c.Offset() < c.Len() {
		size32, err := c.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("key/value entry %d: %w", len(kv), err)
		}
		size, err := intFromU32(size32)
		if err != nil {
			return nil, fmt.Errorf("key/value entry %d: %w", len(kv), err)
		}

		// Some writers store the padded entry length including the size
		// field itself. Such an entry still ends at the section boundary.
		entry := c.Offset()
		size = min(size, c.Len()-entry)

		key, err := c.ReadString(size)
		if err != nil {
			return nil, fmt.Errorf("key/value entry %d: %w", len(kv), err)
		}
		if key == "" {
			return nil, fmt.Errorf("%w: entry %d has an empty key", ErrInvalidKeyValue, len(kv))
		}
		value, err := c.ReadString(size - (c.Offset() - entry))
		if err != nil {
			return nil, fmt.Errorf("key/value entry %d: %w", len(kv), err)
		}

		kv = append(kv, KeyValue{Key: key, Value: value})
		c.Seek(entry + size)
		c.Align4()
	}

	return kv, nil
}

// resolveSpans walks the image section. The size of level N is stored in
// front of its data, so the offset of level N+1 is only known once level N
// has been read; levels before start are walked but not recorded.
func resolveSpans(data []byte, h *Header, off, start, end int) ([]span, error) {
	layers, faces := h.Layers(), h.Faces()
	spans := make([]span, 0, (end-start)*layers*faces)

	c := NewCursor(data, h.ByteOrder)
	for level := 0; level < end; level++ {
		c.Seek(off)
		size32, err := c.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("level %d image size: %w", level, err)
		}
		size, err := intFromU32(size32)
		if err != nil {
			return nil, fmt.Errorf("level %d image size: %w", level, err)
		}
		off = c.Offset()

		for layer := 0; layer < layers; layer++ {
			for face := 0; face < faces; face++ {
				if size > len(data)-off {
					return nil, fmt.Errorf("%w: level %d layer %d face %d needs %d bytes at offset %d, have %d",
						ErrTruncatedRead, level, layer, face, size, off, max(0, len(data)-off))
				}
				if level >= start {
					spans = append(spans, span{off: off, size: size})
				}
				// cube padding
				off = pad4(off + size)
			}
		}
		// mip padding
		off = pad4(off)
	}

	return spans, nil
}
