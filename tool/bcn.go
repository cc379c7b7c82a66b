package tool

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/woozymasta/bcn"
	"github.com/woozymasta/ktx"
)

// ErrEncodeLevel is returned when the block encoder rejects an image.
var ErrEncodeLevel = errors.New("encode level")

// BCn compresses BC1, BC2 and BC3 in process. BC1 with and without alpha
// share the DXT1 block layout.
type BCn struct {
	// Options is passed to the encoder as is; nil uses its defaults.
	Options *bcn.EncodeOptions
}

// NewBCn returns a BCn strategy with the given encoder options.
func NewBCn(opts *bcn.EncodeOptions) *BCn {
	return &BCn{Options: opts}
}

// Name implements Strategy.
func (s *BCn) Name() string {
	return "bcn"
}

// Compressor implements Strategy. sRGB only changes the container header,
// so both variants share an encoder.
func (s *BCn) Compressor(format ktx.CompressionFormat, _ bool) (Compressor, bool) {
	f, ok := bcnFormat(format)
	if !ok {
		return nil, false
	}
	return &bcnCompressor{format: f, opts: s.Options}, true
}

func bcnFormat(format ktx.CompressionFormat) (bcn.Format, bool) {
	switch format {
	case ktx.FormatBC1, ktx.FormatBC1Alpha:
		return bcn.FormatDXT1, true
	case ktx.FormatBC2:
		return bcn.FormatDXT3, true
	case ktx.FormatBC3:
		return bcn.FormatDXT5, true
	default:
		return bcn.FormatUnknown, false
	}
}

type bcnCompressor struct {
	opts   *bcn.EncodeOptions
	format bcn.Format
}

func (c *bcnCompressor) Compress(ctx context.Context, img image.Image) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, _, _, err := bcn.EncodeImageWithOptions(img, c.format, c.opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeLevel, err)
	}

	return data, nil
}
