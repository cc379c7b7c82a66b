package ktx

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedHeader indicates a bad file identifier or endianness marker.
	ErrMalformedHeader = errors.New("malformed header")
	// ErrFieldOutOfRange indicates a header field violates its bounds.
	ErrFieldOutOfRange = errors.New("header field out of range")
	// ErrTruncatedRead indicates fewer bytes are available than a section declares.
	ErrTruncatedRead = errors.New("truncated read")
	// ErrBufferOverflow indicates a write past the end of a fixed buffer.
	ErrBufferOverflow = errors.New("buffer overflow")
	// ErrInconsistentMipmapChain indicates a level does not match the expected chain.
	ErrInconsistentMipmapChain = errors.New("inconsistent mipmap chain")
	// ErrUnusedMipmap indicates a level declared after the chain reached 1x1.
	ErrUnusedMipmap = errors.New("unused mipmap image")
	// ErrPackingInvariant indicates the encoder did not fill its buffer exactly.
	ErrPackingInvariant = errors.New("packing invariant violated")
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrInvalidFormat indicates an unknown compression format.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrEmptyMipmaps indicates missing mipmap data.
	ErrEmptyMipmaps = errors.New("empty mipmaps")
	// ErrMipmapSizeMismatch indicates mipmap payload size mismatch.
	ErrMipmapSizeMismatch = errors.New("mipmap size mismatch")
	// ErrLevelCountMismatch indicates the level buffers do not fill the declared layout.
	ErrLevelCountMismatch = errors.New("level buffer count mismatch")
	// ErrInvalidLevelRange indicates a decode level range outside the container.
	ErrInvalidLevelRange = errors.New("invalid level range")
	// ErrInvalidKeyValue indicates a malformed key/value annotation.
	ErrInvalidKeyValue = errors.New("invalid key/value annotation")
	// ErrOpenFile indicates container file open failed.
	ErrOpenFile = errors.New("open file failed")
	// ErrCreateFile indicates container file creation failed.
	ErrCreateFile = errors.New("create file failed")
	// ErrUnknownWrap indicates an unsupported outer compression.
	ErrUnknownWrap = errors.New("unknown wrap")
	// ErrLZ4Compress indicates LZ4 frame compression failed.
	ErrLZ4Compress = errors.New("LZ4 compression failed")
	// ErrLZ4Decode indicates LZ4 frame decode failed.
	ErrLZ4Decode = errors.New("LZ4 decode failed")
	// ErrZstdCompress indicates zstd compression failed.
	ErrZstdCompress = errors.New("zstd compression failed")
	// ErrZstdDecode indicates zstd decode failed.
	ErrZstdDecode = errors.New("zstd decode failed")
)

// FieldError reports a header field that violates its bounds.
type FieldError struct {
	Field  string
	Value  uint32
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s=%d: %s", ErrFieldOutOfRange, e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrFieldOutOfRange.
func (e *FieldError) Unwrap() error {
	return ErrFieldOutOfRange
}

func fieldError(field string, value uint32, format string, args ...any) error {
	return &FieldError{Field: field, Value: value, Reason: fmt.Sprintf(format, args...)}
}

// MipmapError reports the level at which a mipmap chain breaks.
type MipmapError struct {
	Err    error
	Reason string
	Level  int
}

func (e *MipmapError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("level %d image: %s", e.Level, e.Err)
	}
	return fmt.Sprintf("level %d image: %s: %s", e.Level, e.Err, e.Reason)
}

// Unwrap returns ErrInconsistentMipmapChain or ErrUnusedMipmap.
func (e *MipmapError) Unwrap() error {
	return e.Err
}
