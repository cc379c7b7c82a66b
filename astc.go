package ktx

import (
	"encoding/binary"
	"fmt"
	"os"
)

const (
	// IntermediateMagic is the little-endian magic of .astc tool output.
	IntermediateMagic = 0x5ca1ab13

	// IntermediateHeaderSize is the magic, three block sizes and three
	// 24-bit dimensions.
	IntermediateHeaderSize = 4 + 3*1 + 3*3

	astcBlockBytes = 16
)

// Intermediate is the single payload of an .astc file.
type Intermediate struct {
	// Data is a view into the decoded buffer.
	Data []byte

	BlockX int
	BlockY int
	BlockZ int

	DimX int
	DimY int
	DimZ int
}

func (a *Intermediate) String() string {
	return fmt.Sprintf("ASTC %dx%dx%d blocks, %dx%dx%d texels, %d bytes",
		a.BlockX, a.BlockY, a.BlockZ, a.DimX, a.DimY, a.DimZ, len(a.Data))
}

// ReadIntermediateFile reads and decodes an .astc file.
func ReadIntermediateFile(path string) (*Intermediate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}

	a, err := DecodeIntermediate(data)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}

	return a, nil
}

// DecodeIntermediate parses an .astc header and returns its payload of
// ceil(dimX/blockX) * ceil(dimY/blockY) * ceil(dimZ/blockZ) 16-byte blocks.
// Trailing bytes after the payload are ignored.
func DecodeIntermediate(data []byte) (*Intermediate, error) {
	if len(data) < IntermediateHeaderSize {
		return nil, fmt.Errorf("%w: astc header needs %d bytes, have %d", ErrTruncatedRead, IntermediateHeaderSize, len(data))
	}
	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != IntermediateMagic {
		return nil, fmt.Errorf("%w: bad astc magic 0x%08x", ErrMalformedHeader, magic)
	}

	a := &Intermediate{
		BlockX: max(1, int(data[4])),
		BlockY: max(1, int(data[5])),
		BlockZ: max(1, int(data[6])),
		DimX:   int(decodeU24LE(data[7:10])),
		DimY:   int(decodeU24LE(data[10:13])),
		DimZ:   int(decodeU24LE(data[13:16])),
	}
	if a.DimX == 0 || a.DimY == 0 || a.DimZ == 0 {
		return nil, fmt.Errorf("%w: zero astc dimension %dx%dx%d", ErrMalformedHeader, a.DimX, a.DimY, a.DimZ)
	}

	blocksX := (a.DimX + a.BlockX - 1) / a.BlockX
	blocksY := (a.DimY + a.BlockY - 1) / a.BlockY
	blocksZ := (a.DimZ + a.BlockZ - 1) / a.BlockZ

	// Dimensions are 24-bit, so the product only fits in 64 bits.
	need := uint64(blocksX) * uint64(blocksY) * uint64(blocksZ) * astcBlockBytes
	if need > uint64(len(data)-IntermediateHeaderSize) {
		return nil, fmt.Errorf("%w: astc payload needs %d bytes, have %d", ErrTruncatedRead, need, len(data)-IntermediateHeaderSize)
	}

	end := IntermediateHeaderSize + int(need)
	a.Data = data[IntermediateHeaderSize:end:end]

	return a, nil
}

func decodeU24LE(b []byte) uint32 {
	_ = b[2]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}
