package ktx

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"
)

// Descriptor describes the container to encode.
type Descriptor struct {
	// KeyValues are written after the orientation annotation. An entry
	// with KeyOrientation is ignored; orientation follows YFlipped.
	KeyValues KeyValues

	Format CompressionFormat
	SRGB   bool

	Width  int
	Height int
	// Depth is 0 for 1D and 2D textures.
	Depth int

	// LevelCount is the number of mipmap levels. 0 derives it from the
	// number of level buffers.
	LevelCount int
	// ArrayLayerCount is 0 for non-array textures.
	ArrayLayerCount int
	// FaceCount is 1, or 6 for cubemaps. 0 means 1.
	FaceCount int

	YFlipped bool
}

// Encode packs already-compressed level buffers into a container.
//
// levels is flattened level-major, then layer, then face. Entries of one
// level must share a byte length. The returned container's ImageData are
// views into the returned buffer.
func Encode(desc Descriptor, levels [][]byte) (*Container, []byte, error) {
	if len(levels) == 0 {
		return nil, nil, ErrEmptyMipmaps
	}
	if !desc.Format.Valid() {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidFormat, desc.Format)
	}

	header, err := headerFromDescriptor(desc, len(levels))
	if err != nil {
		return nil, nil, err
	}
	if err := header.validate(); err != nil {
		return nil, nil, err
	}

	kv, err := annotations(desc)
	if err != nil {
		return nil, nil, err
	}
	kvLen := kv.byteSize()
	if header.BytesOfKeyValueData, err = u32FromInt(kvLen); err != nil {
		return nil, nil, err
	}

	perLevel := header.Layers() * header.Faces()
	imageLen := 0
	for level := 0; level < header.Levels(); level++ {
		entries := levels[level*perLevel : (level+1)*perLevel]
		size := len(entries[0])
		for i, e := range entries {
			if len(e) != size {
				return nil, nil, fmt.Errorf("%w: level %d entry %d: expected %d, got %d", ErrMipmapSizeMismatch, level, i, size, len(e))
			}
		}
		if _, err := u32FromInt(size); err != nil {
			return nil, nil, fmt.Errorf("level %d: %w", level, err)
		}
		imageLen += 4 + perLevel*pad4(size)
	}

	total := HeaderSize + kvLen + imageLen
	if uint64(total) > maxUint32 {
		return nil, nil, fmt.Errorf("%w: %d bytes", ErrSizeOverflow, total)
	}

	buf := make([]byte, total)
	p := &packer{c: NewCursor(buf, binary.LittleEndian)}

	p.bytes(Identifier[:])
	p.u32(Endianness)
	p.u32(header.GLType)
	p.u32(header.GLTypeSize)
	p.u32(header.GLFormat)
	p.u32(header.GLInternalFormat)
	p.u32(header.GLBaseInternalFormat)
	p.u32(header.PixelWidth)
	p.u32(header.PixelHeight)
	p.u32(header.PixelDepth)
	p.u32(header.NumberOfArrayElements)
	p.u32(header.NumberOfFaces)
	p.u32(header.NumberOfMipmapLevels)
	p.u32(header.BytesOfKeyValueData)

	for _, pair := range kv {
		// #nosec G115 -- bounded by the section length checked above.
		p.u32(uint32(len(pair.Key) + 1 + len(pair.Value) + 1))
		p.str(pair.Key)
		p.str(pair.Value)
		p.align()
	}

	views := make([][]byte, 0, len(levels))
	for level := 0; level < header.Levels(); level++ {
		entries := levels[level*perLevel : (level+1)*perLevel]
		// #nosec G115 -- checked above.
		p.u32(uint32(len(entries[0])))
		for _, e := range entries {
			start := p.c.Offset()
			p.bytes(e)
			views = append(views, buf[start:start+len(e):start+len(e)])
			p.align()
		}
		p.align()
	}

	p.finish()

	return &Container{
		Header:    *header,
		KeyValues: kv,
		ImageData: views,
	}, buf, nil
}

// WriteFile stores an encoded container at path, optionally wrapped in an
// outer compression.
func WriteFile(path string, buf []byte, wrap Wrap) error {
	out, err := wrapBytes(buf, wrap)
	if err != nil {
		return fmt.Errorf("%q: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}
	if _, err := f.Write(out); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}

	return f.Close()
}

func headerFromDescriptor(desc Descriptor, buffers int) (*Header, error) {
	pf := desc.Format.PixelFormat(desc.SRGB)
	h := &Header{
		ByteOrder:            binary.LittleEndian,
		GLType:               pf.Type,
		GLTypeSize:           pf.TypeSize,
		GLFormat:             pf.Format,
		GLInternalFormat:     pf.InternalFormat,
		GLBaseInternalFormat: pf.BaseInternalFormat,
	}

	fields := []struct {
		dst  *uint32
		name string
		v    int
	}{
		{&h.PixelWidth, "pixelWidth", desc.Width},
		{&h.PixelHeight, "pixelHeight", desc.Height},
		{&h.PixelDepth, "pixelDepth", desc.Depth},
		{&h.NumberOfArrayElements, "numberOfArrayElements", desc.ArrayLayerCount},
		{&h.NumberOfFaces, "numberOfFaces", max(1, desc.FaceCount)},
	}
	for _, f := range fields {
		v, err := u32FromInt(f.v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}

	perLevel := h.Layers() * h.Faces()
	levelCount := desc.LevelCount
	if levelCount == 0 {
		if buffers%perLevel != 0 {
			return nil, fmt.Errorf("%w: %d buffers for %d entries per level", ErrLevelCountMismatch, buffers, perLevel)
		}
		levelCount = buffers / perLevel
	}
	if levelCount < 0 || levelCount*perLevel != buffers {
		return nil, fmt.Errorf("%w: %d buffers, want %d levels x %d entries", ErrLevelCountMismatch, buffers, levelCount, perLevel)
	}
	var err error
	if h.NumberOfMipmapLevels, err = u32FromInt(levelCount); err != nil {
		return nil, err
	}

	return h, nil
}

func annotations(desc Descriptor) (KeyValues, error) {
	kv := make(KeyValues, 0, 1+len(desc.KeyValues))
	kv = append(kv, KeyValue{Key: KeyOrientation, Value: Orientation(desc.YFlipped)})
	for _, p := range desc.KeyValues {
		if p.Key == KeyOrientation {
			continue
		}
		if p.Key == "" || strings.IndexByte(p.Key, 0) >= 0 || strings.IndexByte(p.Value, 0) >= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidKeyValue, p.Key)
		}
		kv = append(kv, p)
	}
	return kv, nil
}

// packer writes into an exactly sized buffer. Any write failure or a final
// position short of the end is a packing defect, never an input error.
type packer struct {
	c   *Cursor
	err error
}

func (p *packer) u32(v uint32) {
	if p.err == nil {
		p.err = p.c.WriteUint32(v)
	}
}

func (p *packer) bytes(b []byte) {
	if p.err == nil {
		p.err = p.c.WriteBytes(b)
	}
}

func (p *packer) str(s string) {
	if p.err == nil {
		p.err = p.c.WriteString(s)
	}
}

func (p *packer) align() {
	if p.err == nil {
		p.err = p.c.AlignWrite4()
	}
}

func (p *packer) finish() {
	if p.err != nil {
		panic(fmt.Errorf("%w: %v", ErrPackingInvariant, p.err))
	}
	if p.c.Offset() != p.c.Len() {
		panic(fmt.Errorf("%w: wrote %d of %d bytes", ErrPackingInvariant, p.c.Offset(), p.c.Len()))
	}
}
