package ktx

import (
	"encoding/binary"
	"fmt"
)

const (
	// HeaderSize is the identifier plus the endianness marker and the twelve
	// uint32 header fields, not including key/value data.
	HeaderSize = 12 + 13*4

	// Endianness is the marker value written after the identifier.
	Endianness = 0x04030201

	// KeyOrientation is the annotation key describing texture orientation.
	KeyOrientation = "KTXorientation"

	maxWidth       = 16384
	maxHeight      = 16384
	maxDepth       = 2048
	maxArrayLayers = 2048
)

// Identifier is the 12-byte file identifier of a KTX 1.1 container.
var Identifier = [12]byte{0xab, 0x4b, 0x54, 0x58, 0x20, 0x31, 0x31, 0xbb, 0x0d, 0x0a, 0x1a, 0x0a}

// Header holds the fixed container header fields.
type Header struct {
	ByteOrder             binary.ByteOrder
	GLType                uint32
	GLTypeSize            uint32
	GLFormat              uint32
	GLInternalFormat      uint32
	GLBaseInternalFormat  uint32
	PixelWidth            uint32
	PixelHeight           uint32
	PixelDepth            uint32
	NumberOfArrayElements uint32
	NumberOfFaces         uint32
	NumberOfMipmapLevels  uint32
	BytesOfKeyValueData   uint32
}

// Format resolves the internal format enumerant.
func (h *Header) Format() (format CompressionFormat, srgb bool, ok bool) {
	return FormatFromGLInternalFormat(h.GLInternalFormat)
}

// Levels returns the number of levels stored in the image section. A
// declared count of 0 means "generate at load time" and stores one level.
func (h *Header) Levels() int {
	return max(1, int(h.NumberOfMipmapLevels))
}

// Layers returns the number of array layers stored per level.
func (h *Header) Layers() int {
	return max(1, int(h.NumberOfArrayElements))
}

// Faces returns the number of faces stored per layer.
func (h *Header) Faces() int {
	return max(1, int(h.NumberOfFaces))
}

// validate checks the header bounds shared by encoder and decoder.
func (h *Header) validate() error {
	if h.PixelWidth < 1 || h.PixelWidth > maxWidth {
		return fieldError("pixelWidth", h.PixelWidth, "must be in [1, %d]", maxWidth)
	}
	if h.PixelHeight > maxHeight {
		return fieldError("pixelHeight", h.PixelHeight, "must be at most %d", maxHeight)
	}
	if h.PixelDepth > maxDepth {
		return fieldError("pixelDepth", h.PixelDepth, "must be at most %d", maxDepth)
	}
	if h.PixelDepth > 0 && h.PixelHeight == 0 {
		return fieldError("pixelHeight", h.PixelHeight, "3D textures need a height")
	}
	if h.NumberOfArrayElements > maxArrayLayers {
		return fieldError("numberOfArrayElements", h.NumberOfArrayElements, "must be at most %d", maxArrayLayers)
	}
	if h.NumberOfFaces != 1 && h.NumberOfFaces != 6 {
		return fieldError("numberOfFaces", h.NumberOfFaces, "must be 1 or 6")
	}
	if h.NumberOfMipmapLevels > 1 {
		limit := MipLevelCount(int(h.PixelWidth), int(h.PixelHeight), int(h.PixelDepth))
		if int(h.NumberOfMipmapLevels) > limit {
			return fieldError("numberOfMipmapLevels", h.NumberOfMipmapLevels, "must be at most %d for %dx%dx%d", limit, h.PixelWidth, h.PixelHeight, h.PixelDepth)
		}
	}
	return nil
}

// KeyValue is one key/value annotation.
type KeyValue struct {
	Key   string
	Value string
}

// KeyValues is an ordered list of annotations.
type KeyValues []KeyValue

// Get returns the first value stored under key.
func (kv KeyValues) Get(key string) (string, bool) {
	for _, p := range kv {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// byteSize returns the padded section length of all pairs.
func (kv KeyValues) byteSize() int {
	n := 0
	for _, p := range kv {
		n += keyValueEntrySize(p.Key, p.Value)
	}
	return n
}

// keyValueEntrySize is the size prefix, both NUL-terminated strings and
// the padding to 4 bytes.
func keyValueEntrySize(key, value string) int {
	return pad4(4 + len(key) + len(value) + 2)
}

// Orientation returns the orientation annotation value. Y-flipped textures
// have their T axis pointing up.
func Orientation(yFlipped bool) string {
	if yFlipped {
		return "S=r,T=u"
	}
	return "S=r,T=d"
}

// Container is one encoded or decoded KTX file. ImageData entries are views
// into a single backing buffer, ordered level-major, then layer, then face.
type Container struct {
	KeyValues KeyValues
	ImageData [][]byte
	Header

	// LevelStart is the container level of ImageData's first level.
	LevelStart int
}

// YFlipped reports whether the orientation annotation says T points up.
func (c *Container) YFlipped() bool {
	v, ok := c.KeyValues.Get(KeyOrientation)
	return ok && v == Orientation(true)
}

// LevelCount returns the number of levels present in ImageData.
func (c *Container) LevelCount() int {
	per := c.Layers() * c.Faces()
	if per == 0 {
		return 0
	}
	return len(c.ImageData) / per
}

// Image returns the entry for a container level, layer and face, or nil if
// it is outside the decoded range.
func (c *Container) Image(level, layer, face int) []byte {
	layers, faces := c.Layers(), c.Faces()
	if layer < 0 || layer >= layers || face < 0 || face >= faces {
		return nil
	}
	rel := level - c.LevelStart
	if rel < 0 || rel >= c.LevelCount() {
		return nil
	}
	return c.ImageData[(rel*layers+layer)*faces+face]
}

// String returns a short human-readable description.
func (c *Container) String() string {
	name := fmt.Sprintf("0x%04x", c.GLInternalFormat)
	if f, srgb, ok := c.Format(); ok {
		name = f.String()
		if srgb {
			name += "_SRGB"
		}
	}
	return fmt.Sprintf("KTX %s %dx%dx%d, %d levels, %d layers, %d faces",
		name, c.PixelWidth, c.PixelHeight, c.PixelDepth,
		c.NumberOfMipmapLevels, c.NumberOfArrayElements, c.NumberOfFaces)
}
