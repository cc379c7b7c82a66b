package ktx

import (
	"fmt"
	"strings"
)

// CompressionFormat identifies a block-compressed texture format.
type CompressionFormat uint8

// Supported compression formats.
const (
	FormatUnknown CompressionFormat = iota
	FormatASTC4x4
	FormatASTC5x4
	FormatASTC5x5
	FormatASTC6x5
	FormatASTC6x6
	FormatASTC8x5
	FormatASTC8x6
	FormatASTC8x8
	FormatASTC10x5
	FormatASTC10x6
	FormatASTC10x8
	FormatASTC10x10
	FormatASTC12x10
	FormatASTC12x12
	FormatETC1RGB
	FormatETC2RGB
	FormatETC2RGBA
	FormatBC1
	FormatBC1Alpha
	FormatBC2
	FormatBC3

	formatCount
)

// OpenGL enumerants written to the container header.
const (
	GLRGB  = 0x1907
	GLRGBA = 0x1908

	glCompressedRGBAASTC4x4        = 0x93b0
	glCompressedSRGB8Alpha8ASTC4x4 = 0x93d0

	glCompressedRGBETC1      = 0x8d64
	glCompressedRGB8ETC2     = 0x9274
	glCompressedSRGB8ETC2    = 0x9275
	glCompressedRGBA8ETC2EAC = 0x9278
	glCompressedSRGB8A8ETC2  = 0x9279

	glCompressedRGBS3TCDXT1       = 0x83f0
	glCompressedRGBAS3TCDXT1      = 0x83f1
	glCompressedRGBAS3TCDXT3      = 0x83f2
	glCompressedRGBAS3TCDXT5      = 0x83f3
	glCompressedSRGBS3TCDXT1      = 0x8c4c
	glCompressedSRGBAlphaS3TCDXT1 = 0x8c4d
	glCompressedSRGBAlphaS3TCDXT3 = 0x8c4e
	glCompressedSRGBAlphaS3TCDXT5 = 0x8c4f
)

type formatInfo struct {
	name     string
	linear   uint32
	srgb     uint32
	base     uint32
	blockX   int
	blockY   int
	blockLen int
}

// ASTC enumerants are consecutive in footprint order, starting at 4x4.
var formatTable = [formatCount]formatInfo{
	FormatASTC4x4:   astcInfo("ASTC_4x4", 0, 4, 4),
	FormatASTC5x4:   astcInfo("ASTC_5x4", 1, 5, 4),
	FormatASTC5x5:   astcInfo("ASTC_5x5", 2, 5, 5),
	FormatASTC6x5:   astcInfo("ASTC_6x5", 3, 6, 5),
	FormatASTC6x6:   astcInfo("ASTC_6x6", 4, 6, 6),
	FormatASTC8x5:   astcInfo("ASTC_8x5", 5, 8, 5),
	FormatASTC8x6:   astcInfo("ASTC_8x6", 6, 8, 6),
	FormatASTC8x8:   astcInfo("ASTC_8x8", 7, 8, 8),
	FormatASTC10x5:  astcInfo("ASTC_10x5", 8, 10, 5),
	FormatASTC10x6:  astcInfo("ASTC_10x6", 9, 10, 6),
	FormatASTC10x8:  astcInfo("ASTC_10x8", 10, 10, 8),
	FormatASTC10x10: astcInfo("ASTC_10x10", 11, 10, 10),
	FormatASTC12x10: astcInfo("ASTC_12x10", 12, 12, 10),
	FormatASTC12x12: astcInfo("ASTC_12x12", 13, 12, 12),

	// ETC1 has no sRGB variant.
	FormatETC1RGB:  {name: "ETC_R8G8B8", linear: glCompressedRGBETC1, srgb: glCompressedRGBETC1, base: GLRGB, blockX: 4, blockY: 4, blockLen: 8},
	FormatETC2RGB:  {name: "ETC2_R8G8B8", linear: glCompressedRGB8ETC2, srgb: glCompressedSRGB8ETC2, base: GLRGB, blockX: 4, blockY: 4, blockLen: 8},
	FormatETC2RGBA: {name: "ETC2_R8G8B8A8", linear: glCompressedRGBA8ETC2EAC, srgb: glCompressedSRGB8A8ETC2, base: GLRGBA, blockX: 4, blockY: 4, blockLen: 16},

	FormatBC1:      {name: "BC1", linear: glCompressedRGBS3TCDXT1, srgb: glCompressedSRGBS3TCDXT1, base: GLRGB, blockX: 4, blockY: 4, blockLen: 8},
	FormatBC1Alpha: {name: "BC1_ALPHA", linear: glCompressedRGBAS3TCDXT1, srgb: glCompressedSRGBAlphaS3TCDXT1, base: GLRGBA, blockX: 4, blockY: 4, blockLen: 8},
	FormatBC2:      {name: "BC2", linear: glCompressedRGBAS3TCDXT3, srgb: glCompressedSRGBAlphaS3TCDXT3, base: GLRGBA, blockX: 4, blockY: 4, blockLen: 16},
	FormatBC3:      {name: "BC3", linear: glCompressedRGBAS3TCDXT5, srgb: glCompressedSRGBAlphaS3TCDXT5, base: GLRGBA, blockX: 4, blockY: 4, blockLen: 16},
}

func astcInfo(name string, index uint32, bx, by int) formatInfo {
	return formatInfo{
		name:     name,
		linear:   glCompressedRGBAASTC4x4 + index,
		srgb:     glCompressedSRGB8Alpha8ASTC4x4 + index,
		base:     GLRGBA,
		blockX:   bx,
		blockY:   by,
		blockLen: 16,
	}
}

// GLPixelFormat holds the GL type/format fields of a container header.
type GLPixelFormat struct {
	Type               uint32
	TypeSize           uint32
	Format             uint32
	InternalFormat     uint32
	BaseInternalFormat uint32
}

// Formats returns every supported format in declaration order.
func Formats() []CompressionFormat {
	out := make([]CompressionFormat, 0, formatCount-1)
	for f := FormatUnknown + 1; f < formatCount; f++ {
		out = append(out, f)
	}
	return out
}

// Valid reports whether f is a known format.
func (f CompressionFormat) Valid() bool {
	return f > FormatUnknown && f < formatCount
}

func (f CompressionFormat) String() string {
	if !f.Valid() {
		return fmt.Sprintf("UNKNOWN(%d)", uint8(f))
	}
	return formatTable[f].name
}

// GLInternalFormat returns the internal format enumerant, sRGB or linear.
func (f CompressionFormat) GLInternalFormat(srgb bool) uint32 {
	if !f.Valid() {
		return 0
	}
	if srgb {
		return formatTable[f].srgb
	}
	return formatTable[f].linear
}

// GLBaseInternalFormat returns GL_RGB for opaque 3-channel formats and
// GL_RGBA otherwise.
func (f CompressionFormat) GLBaseInternalFormat() uint32 {
	if !f.Valid() {
		return 0
	}
	return formatTable[f].base
}

// PixelFormat returns the header fields for f. Compressed textures always
// carry type 0, type size 1 and format 0.
func (f CompressionFormat) PixelFormat(srgb bool) GLPixelFormat {
	return GLPixelFormat{
		Type:               0,
		TypeSize:           1,
		Format:             0,
		InternalFormat:     f.GLInternalFormat(srgb),
		BaseInternalFormat: f.GLBaseInternalFormat(),
	}
}

// BlockSize returns the compressed block footprint in texels.
func (f CompressionFormat) BlockSize() (x, y int) {
	if !f.Valid() {
		return 0, 0
	}
	return formatTable[f].blockX, formatTable[f].blockY
}

// BytesPerBlock returns the size of one compressed block.
func (f CompressionFormat) BytesPerBlock() int {
	if !f.Valid() {
		return 0
	}
	return formatTable[f].blockLen
}

// LevelSize returns the compressed byte length of one image of the given
// dimensions, or -1 for an unknown format. Zero height or depth counts as 1.
func (f CompressionFormat) LevelSize(width, height, depth int) int {
	if !f.Valid() || width <= 0 {
		return -1
	}
	height = max(1, height)
	depth = max(1, depth)
	bx, by := f.BlockSize()
	blocksW := (width + bx - 1) / bx
	blocksH := (height + by - 1) / by
	return blocksW * blocksH * depth * f.BytesPerBlock()
}

// ParseCompressionFormat resolves a format name as printed by String. A
// trailing "_SRGB" selects the sRGB variant.
func ParseCompressionFormat(name string) (format CompressionFormat, srgb bool, err error) {
	base := name
	if trimmed, ok := strings.CutSuffix(strings.ToUpper(name), "_SRGB"); ok {
		base = name[:len(trimmed)]
		srgb = true
	}
	for f := FormatUnknown + 1; f < formatCount; f++ {
		if strings.EqualFold(formatTable[f].name, base) {
			return f, srgb, nil
		}
	}
	return FormatUnknown, false, fmt.Errorf("%w: %q", ErrInvalidFormat, name)
}

// FormatFromGLInternalFormat maps an internal format enumerant back to a
// format. The sRGB result is false for ETC1, whose code is shared.
func FormatFromGLInternalFormat(code uint32) (format CompressionFormat, srgb bool, ok bool) {
	for f := FormatUnknown + 1; f < formatCount; f++ {
		info := formatTable[f]
		if info.linear == code {
			return f, false, true
		}
		if info.srgb == code {
			return f, true, true
		}
	}
	return FormatUnknown, false, false
}
