// Package squeeze turns source images into a compressed KTX container.
//
// The pipeline builds or validates the mipmap chain, optionally flips every
// level, compresses the levels with the first matching strategy of a
// tool.Registry and packs the result with ktx.Encode.
package squeeze

import (
	"context"
	"fmt"
	"image"

	"github.com/google/uuid"
	"github.com/woozymasta/bcn"

	"github.com/woozymasta/ktx"
	"github.com/woozymasta/ktx/internal/logger"
	"github.com/woozymasta/ktx/tool"
)

// Options configures one Compress run.
type Options struct {
	// Logger receives progress records; nil discards them.
	Logger logger.Logger

	// KeyValues are stored after the orientation annotation.
	KeyValues ktx.KeyValues

	Format ktx.CompressionFormat
	SRGB   bool

	// MaxLevels limits the chain length; 0 keeps every level.
	MaxLevels int

	// YFlip flips every level vertically before compression and marks the
	// container as y-flipped.
	YFlip bool
}

// Compress compresses images into a container.
//
// A single image is expanded into a full mipmap chain. Several images are
// taken as a ready chain, largest first, and must halve at every level.
func Compress(ctx context.Context, images []image.Image, opts Options, reg *tool.Registry) (*ktx.Container, []byte, error) {
	if len(images) == 0 {
		return nil, nil, ktx.ErrEmptyMipmaps
	}
	if !opts.Format.Valid() {
		return nil, nil, fmt.Errorf("%w: %s", ktx.ErrInvalidFormat, opts.Format)
	}

	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	log = log.With("run", uuid.NewString(), "format", opts.Format.String(), "srgb", opts.SRGB)

	levels, err := mipChain(images, opts.MaxLevels)
	if err != nil {
		return nil, nil, err
	}

	strategy, comp, err := reg.Find(opts.Format, opts.SRGB)
	if err != nil {
		return nil, nil, err
	}

	base := levels[0].Bounds()
	log.Info("compressing texture",
		"strategy", strategy.Name(),
		"width", base.Dx(),
		"height", base.Dy(),
		"levels", len(levels),
		"yflip", opts.YFlip,
	)

	payloads := make([][]byte, len(levels))
	for i, img := range levels {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		if opts.YFlip {
			img = FlipVertical(img)
		}

		data, err := comp.Compress(ctx, img)
		if err != nil {
			return nil, nil, fmt.Errorf("level %d: %w", i, err)
		}

		b := img.Bounds()
		if want := opts.Format.LevelSize(b.Dx(), b.Dy(), 0); len(data) != want {
			return nil, nil, fmt.Errorf("%w: level %d (%dx%d): expected %d, got %d",
				ktx.ErrMipmapSizeMismatch, i, b.Dx(), b.Dy(), want, len(data))
		}

		payloads[i] = data
		log.Debug("level compressed", "level", i, "width", b.Dx(), "height", b.Dy(), "bytes", len(data))
	}

	c, buf, err := ktx.Encode(ktx.Descriptor{
		KeyValues:  opts.KeyValues,
		Format:     opts.Format,
		SRGB:       opts.SRGB,
		Width:      base.Dx(),
		Height:     base.Dy(),
		LevelCount: len(payloads),
		YFlipped:   opts.YFlip,
	}, payloads)
	if err != nil {
		return nil, nil, err
	}

	log.Info("texture packed", "bytes", len(buf))

	return c, buf, nil
}

// mipChain returns the levels to compress. A lone image is expanded by the
// block library's mipmap generator; a supplied chain is validated.
func mipChain(images []image.Image, maxLevels int) ([]image.Image, error) {
	var levels []image.Image

	if len(images) == 1 {
		b := images[0].Bounds()
		if b.Dx() <= 0 || b.Dy() <= 0 {
			return nil, &ktx.MipmapError{Level: 0, Err: ktx.ErrInconsistentMipmapChain, Reason: "empty image"}
		}
		for _, m := range bcn.GenerateMipmaps(images[0], false) {
			levels = append(levels, m)
		}
		if len(levels) == 0 {
			levels = images
		}
	} else {
		meta := make([]ktx.ImageMetadata, len(images))
		for i, img := range images {
			meta[i] = Metadata(img)
		}
		if err := ktx.ValidateMipmapChain(meta); err != nil {
			return nil, err
		}
		levels = images
	}

	if maxLevels > 0 && len(levels) > maxLevels {
		levels = levels[:maxLevels]
	}

	return levels, nil
}
