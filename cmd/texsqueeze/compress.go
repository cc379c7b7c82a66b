package main

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/woozymasta/bcn"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/woozymasta/ktx"
	"github.com/woozymasta/ktx/internal/logger"
	"github.com/woozymasta/ktx/squeeze"
	"github.com/woozymasta/ktx/tool"
)

const defaultWriter = "texsqueeze"

func compressCmd() *cli.Command {
	return &cli.Command{
		Name:      "compress",
		Usage:     "Compress images into a KTX container",
		ArgsUsage: "<image> [<mip1> <mip2> ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "output .ktx path",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "target format, e.g. BC1, BC3, BC1_ALPHA_SRGB",
				Value:   "BC3",
			},
			&cli.BoolFlag{Name: "srgb", Usage: "mark the texture as sRGB"},
			&cli.StringFlag{Name: "quality", Usage: "fast|default|high", Value: "default"},
			&cli.IntFlag{Name: "max-levels", Usage: "limit mipmap levels (0 = full chain)"},
			&cli.BoolFlag{Name: "no-mipmaps", Usage: "store only the base level"},
			&cli.BoolFlag{Name: "yflip", Usage: "flip levels vertically and mark the texture y-flipped"},
			&cli.StringFlag{Name: "wrap", Usage: "outer compression: none|lz4|zstd", Value: "none"},
		},
		Action: runCompress,
	}
}

func runCompress(ctx context.Context, cmd *cli.Command) error {
	cfg := configFrom(ctx)
	log := logger.FromContext(ctx).With("cmd", "compress")

	inputs := cmd.Args().Slice()
	if len(inputs) == 0 {
		return cli.Exit("error: compress needs at least one input image", 1)
	}

	format, srgb, err := ktx.ParseCompressionFormat(stringSetting(cmd, "format", cfg.Format))
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	srgb = srgb || boolSetting(cmd, "srgb", cfg.SRGB)

	encOpts, err := encodeOptions(stringSetting(cmd, "quality", cfg.Quality))
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}

	wrap, err := ktx.ParseWrap(stringSetting(cmd, "wrap", cfg.Wrap))
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}

	maxLevels := intSetting(cmd, "max-levels", cfg.MaxLevels)
	if cmd.Bool("no-mipmaps") {
		maxLevels = 1
	}

	images := make([]image.Image, len(inputs))
	for i, path := range inputs {
		if images[i], err = loadImage(path); err != nil {
			return cli.Exit(fmt.Sprintf("error: %v", err), 1)
		}
	}

	writer := cfg.Writer
	if writer == "" {
		writer = defaultWriter
	}

	_, buf, err := squeeze.Compress(ctx, images, squeeze.Options{
		Logger:    log,
		KeyValues: ktx.KeyValues{{Key: "KTXwriter", Value: writer}},
		Format:    format,
		SRGB:      srgb,
		MaxLevels: maxLevels,
		YFlip:     boolSetting(cmd, "yflip", cfg.YFlip),
	}, tool.NewRegistry(tool.NewBCn(encOpts)))
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: compress %s: %v", inputs[0], err), 1)
	}

	out := cmd.String("output")
	if err := ktx.WriteFile(out, buf, wrap); err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}

	log.Info("wrote texture", "path", out, "bytes", len(buf), "wrap", wrap.String())
	return nil
}

// encodeOptions maps a quality name to block encoder options. The default
// leaves the encoder's own settings in place.
func encodeOptions(quality string) (*bcn.EncodeOptions, error) {
	switch strings.ToLower(quality) {
	case "", "default":
		return nil, nil
	case "fast":
		return &bcn.EncodeOptions{QualityLevel: bcn.QualityLevelFast}, nil
	case "high":
		return &bcn.EncodeOptions{QualityLevel: 8}, nil
	default:
		return nil, fmt.Errorf("unknown quality %q", quality)
	}
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", path, err)
	}
	return img, nil
}
