package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/woozymasta/ktx"
	"github.com/woozymasta/ktx/internal/logger"
)

func packCmd() *cli.Command {
	return &cli.Command{
		Name:      "pack",
		Usage:     "Pack pre-compressed level files (.astc, single-level .ktx or raw blocks) into one container",
		ArgsUsage: "<level0> [<level1> ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "output .ktx path",
				Required: true,
			},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "block format; required for raw inputs"},
			&cli.BoolFlag{Name: "srgb", Usage: "mark the texture as sRGB"},
			&cli.IntFlag{Name: "width", Usage: "base level width (default: from the first input)"},
			&cli.IntFlag{Name: "height", Usage: "base level height (default: from the first input)"},
			&cli.IntFlag{Name: "layers", Usage: "array layers per level (0 = not an array)"},
			&cli.IntFlag{Name: "faces", Usage: "faces per layer: 1 or 6", Value: 1},
			&cli.BoolFlag{Name: "yflip", Usage: "mark the texture y-flipped"},
			&cli.StringFlag{Name: "wrap", Usage: "outer compression: none|lz4|zstd", Value: "none"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := configFrom(ctx)
			log := logger.FromContext(ctx).With("cmd", "pack")

			inputs := cmd.Args().Slice()
			if len(inputs) == 0 {
				return cli.Exit("error: pack needs at least one input file", 1)
			}

			opts := packOptions{
				Width:  int(cmd.Int("width")),
				Height: int(cmd.Int("height")),
				Layers: int(cmd.Int("layers")),
				Faces:  int(cmd.Int("faces")),
				YFlip:  cmd.Bool("yflip"),
				SRGB:   cmd.Bool("srgb"),
			}
			if cfg.Writer != "" {
				opts.KeyValues = ktx.KeyValues{{Key: "KTXwriter", Value: cfg.Writer}}
			}
			if name := cmd.String("format"); name != "" {
				var srgb bool
				var err error
				if opts.Format, srgb, err = ktx.ParseCompressionFormat(name); err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				opts.SRGB = opts.SRGB || srgb
			}

			wrap, err := ktx.ParseWrap(stringSetting(cmd, "wrap", cfg.Wrap))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			buf, err := packFiles(inputs, opts)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: pack: %v", err), 1)
			}

			out := cmd.String("output")
			if err := ktx.WriteFile(out, buf, wrap); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			log.Info("wrote texture", "path", out, "inputs", len(inputs), "bytes", len(buf), "wrap", wrap.String())
			return nil
		},
	}
}

type packOptions struct {
	KeyValues ktx.KeyValues

	// Format is taken from the first input when unknown.
	Format ktx.CompressionFormat
	SRGB   bool

	// Width and Height default to the first input's dimensions.
	Width  int
	Height int

	Layers int
	Faces  int
	YFlip  bool
}

// payload is one pre-compressed image read from disk. Raw inputs carry no
// format or dimensions.
type payload struct {
	data   []byte
	format ktx.CompressionFormat
	srgb   bool
	width  int
	height int
}

// packFiles reads one payload per path, ordered level-major, then layer,
// then face, and encodes them into a container.
func packFiles(paths []string, opts packOptions) ([]byte, error) {
	payloads := make([]payload, len(paths))
	for i, path := range paths {
		p, err := readPayload(path)
		if err != nil {
			return nil, err
		}
		payloads[i] = p
	}

	first := payloads[0]
	format := opts.Format
	if format == ktx.FormatUnknown {
		format = first.format
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %s has no format, pass --format", ktx.ErrInvalidFormat, paths[0])
	}

	width, height := opts.Width, opts.Height
	if width == 0 {
		width = first.width
	}
	if height == 0 {
		height = first.height
	}
	if width == 0 {
		return nil, fmt.Errorf("%s has no dimensions, pass --width and --height", paths[0])
	}

	perLevel := max(1, opts.Layers) * max(1, opts.Faces)
	levels := make([][]byte, len(payloads))
	for i, p := range payloads {
		if p.format != ktx.FormatUnknown && p.format != format {
			return nil, fmt.Errorf("%w: %s is %s, want %s", ktx.ErrInvalidFormat, paths[i], p.format, format)
		}

		level := i / perLevel
		w, h := ktx.MipDimension(width, level), ktx.MipDimension(height, level)
		if want := format.LevelSize(w, h, 0); len(p.data) != want {
			return nil, fmt.Errorf("%w: %s: level %d (%dx%d) needs %d bytes, got %d",
				ktx.ErrMipmapSizeMismatch, paths[i], level, w, h, want, len(p.data))
		}
		levels[i] = p.data
	}

	_, buf, err := ktx.Encode(ktx.Descriptor{
		KeyValues:       opts.KeyValues,
		Format:          format,
		SRGB:            opts.SRGB || first.srgb,
		Width:           width,
		Height:          height,
		ArrayLayerCount: opts.Layers,
		FaceCount:       opts.Faces,
		YFlipped:        opts.YFlip,
	}, levels)
	if err != nil {
		return nil, err
	}

	return buf, nil
}

// readPayload loads one input. A .ktx input contributes its base image and
// must hold a single layer and face.
func readPayload(path string) (payload, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".astc":
		a, err := ktx.ReadIntermediateFile(path)
		if err != nil {
			return payload{}, err
		}
		format, ok := astcFormat(a.BlockX, a.BlockY)
		if !ok || a.BlockZ != 1 || a.DimZ != 1 {
			return payload{}, fmt.Errorf("%w: %s: unsupported ASTC footprint %dx%dx%d",
				ktx.ErrInvalidFormat, path, a.BlockX, a.BlockY, a.BlockZ)
		}
		return payload{data: a.Data, format: format, width: a.DimX, height: a.DimY}, nil

	case ".ktx":
		c, err := ktx.ReadFile(path, &ktx.DecodeOptions{LevelEnd: 1, SkipKeyValues: true})
		if err != nil {
			return payload{}, err
		}
		format, srgb, ok := c.Format()
		if !ok {
			return payload{}, fmt.Errorf("%w: %s: internal format 0x%04x", ktx.ErrInvalidFormat, path, c.GLInternalFormat)
		}
		if c.Layers()*c.Faces() != 1 {
			return payload{}, fmt.Errorf("%s: %d layers and %d faces, want a single image", path, c.Layers(), c.Faces())
		}
		return payload{
			data:   c.Image(0, 0, 0),
			format: format,
			srgb:   srgb,
			width:  int(c.PixelWidth),
			height: max(1, int(c.PixelHeight)),
		}, nil

	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return payload{}, fmt.Errorf("%w: %q: %v", ktx.ErrOpenFile, path, err)
		}
		return payload{data: data}, nil
	}
}

// astcFormat finds the 2D ASTC format with the given block footprint.
func astcFormat(bx, by int) (ktx.CompressionFormat, bool) {
	for _, f := range ktx.Formats() {
		if !strings.HasPrefix(f.String(), "ASTC_") {
			continue
		}
		if x, y := f.BlockSize(); x == bx && y == by {
			return f, true
		}
	}
	return ktx.FormatUnknown, false
}
