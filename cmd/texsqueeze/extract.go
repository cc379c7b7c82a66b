package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/woozymasta/ktx"
	"github.com/woozymasta/ktx/internal/logger"
)

func extractCmd() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "Copy a range of mipmap levels into a new container",
		ArgsUsage: "<file.ktx>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "output .ktx path",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "levels",
				Usage: "level range start:end (end exclusive, either side optional) or a single level",
			},
			&cli.StringFlag{Name: "wrap", Usage: "outer compression: none|lz4|zstd", Value: "none"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx).With("cmd", "extract")

			if cmd.Args().Len() != 1 {
				return cli.Exit("error: extract needs exactly one input file", 1)
			}
			in := cmd.Args().First()

			start, end, err := parseLevelRange(cmd.String("levels"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			wrap, err := ktx.ParseWrap(stringSetting(cmd, "wrap", configFrom(ctx).Wrap))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			buf, err := extractLevels(in, start, end)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: extract: %v", err), 1)
			}

			out := cmd.String("output")
			if err := ktx.WriteFile(out, buf, wrap); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			log.Info("wrote texture", "path", out, "from", in, "start", start, "end", end, "bytes", len(buf))
			return nil
		},
	}
}

// parseLevelRange parses "start:end", "start:", ":end", a single level or
// an empty string. An end of 0 means through the last level.
func parseLevelRange(s string) (start, end int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, nil
	}

	lo, hi, ranged := strings.Cut(s, ":")
	if lo != "" {
		if start, err = strconv.Atoi(lo); err != nil || start < 0 {
			return 0, 0, fmt.Errorf("%w: bad start %q", ktx.ErrInvalidLevelRange, lo)
		}
	}
	if !ranged {
		return start, start + 1, nil
	}
	if hi != "" {
		if end, err = strconv.Atoi(hi); err != nil || end <= start {
			return 0, 0, fmt.Errorf("%w: bad end %q", ktx.ErrInvalidLevelRange, hi)
		}
	}
	return start, end, nil
}

// extractLevels decodes the requested levels of path and re-encodes them
// with the first of them as the new base level.
func extractLevels(path string, start, end int) ([]byte, error) {
	c, err := ktx.ReadFile(path, &ktx.DecodeOptions{LevelStart: start, LevelEnd: end})
	if err != nil {
		return nil, err
	}

	format, srgb, ok := c.Format()
	if !ok {
		return nil, fmt.Errorf("%w: %s: internal format 0x%04x", ktx.ErrInvalidFormat, path, c.GLInternalFormat)
	}

	desc := ktx.Descriptor{
		KeyValues:       c.KeyValues,
		Format:          format,
		SRGB:            srgb,
		Width:           ktx.MipDimension(int(c.PixelWidth), c.LevelStart),
		LevelCount:      c.LevelCount(),
		ArrayLayerCount: int(c.NumberOfArrayElements),
		FaceCount:       int(c.NumberOfFaces),
		YFlipped:        c.YFlipped(),
	}
	if c.PixelHeight > 0 {
		desc.Height = ktx.MipDimension(int(c.PixelHeight), c.LevelStart)
	}
	if c.PixelDepth > 0 {
		desc.Depth = ktx.MipDimension(int(c.PixelDepth), c.LevelStart)
	}

	_, buf, err := ktx.Encode(desc, c.ImageData)
	if err != nil {
		return nil, err
	}
	return buf, nil
}
