package ktx

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/DataDog/zstd"
	"github.com/pierrec/lz4/v4"
)

// Wrap selects an optional outer compression for stored containers.
type Wrap uint8

const (
	// WrapNone stores the container as is.
	WrapNone Wrap = iota
	// WrapLZ4 stores the container in an LZ4 frame.
	WrapLZ4
	// WrapZstd stores the container in a zstd frame.
	WrapZstd
)

var (
	lz4FrameMagic  = []byte{0x04, 0x22, 0x4d, 0x18}
	zstdFrameMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

func (w Wrap) String() string {
	switch w {
	case WrapNone:
		return "none"
	case WrapLZ4:
		return "lz4"
	case WrapZstd:
		return "zstd"
	default:
		return fmt.Sprintf("wrap(%d)", uint8(w))
	}
}

// ParseWrap resolves a wrap name as printed by String. An empty name is
// WrapNone.
func ParseWrap(name string) (Wrap, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return WrapNone, nil
	case "lz4":
		return WrapLZ4, nil
	case "zstd", "zst":
		return WrapZstd, nil
	default:
		return WrapNone, fmt.Errorf("%w: %q", ErrUnknownWrap, name)
	}
}

// DetectWrap inspects the leading frame magic of data.
func DetectWrap(data []byte) Wrap {
	switch {
	case bytes.HasPrefix(data, lz4FrameMagic):
		return WrapLZ4
	case bytes.HasPrefix(data, zstdFrameMagic):
		return WrapZstd
	default:
		return WrapNone
	}
}

// wrapBytes compresses data with the selected outer compression.
func wrapBytes(data []byte, w Wrap) ([]byte, error) {
	switch w {
	case WrapNone:
		return data, nil

	case WrapLZ4:
		var out bytes.Buffer
		zw := lz4.NewWriter(&out)
		if err := zw.Apply(lz4.CompressionLevelOption(lz4.Level9)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Compress, err)
		}
		if _, err := zw.Write(data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Compress, err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Compress, err)
		}
		return out.Bytes(), nil

	case WrapZstd:
		out, err := zstd.CompressLevel(nil, data, zstd.DefaultCompression)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrZstdCompress, err)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownWrap, w)
	}
}

// Unwrap removes any outer compression detected by its frame magic.
// Unwrapped input is returned as is, without a copy.
func Unwrap(data []byte) ([]byte, error) {
	switch DetectWrap(data) {
	case WrapLZ4:
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Decode, err)
		}
		// A damaged frame descriptor can read as an empty stream.
		if len(out) == 0 {
			return nil, fmt.Errorf("%w: frame of %d bytes decoded to nothing", ErrLZ4Decode, len(data))
		}
		return out, nil

	case WrapZstd:
		out, err := zstd.Decompress(nil, data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrZstdDecode, err)
		}
		return out, nil

	default:
		return data, nil
	}
}
