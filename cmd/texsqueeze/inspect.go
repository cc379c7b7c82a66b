package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/woozymasta/ktx"
	"github.com/woozymasta/ktx/internal/logger"
)

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the header, annotations and level layout of KTX files",
		ArgsUsage: "<file.ktx> [...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print one JSON document per file"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx).With("cmd", "inspect")

			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return cli.Exit("error: inspect needs at least one file", 1)
			}

			for _, path := range paths {
				r, err := inspectFile(path)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				log.Debug("decoded texture", "path", path, "wrap", r.Wrap, "levels", len(r.Levels))
				if cmd.Bool("json") {
					err = printReportJSON(os.Stdout, r)
				} else {
					err = printReport(os.Stdout, r)
				}
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
			}
			return nil
		},
	}
}

type levelReport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Depth  int `json:"depth"`
	Bytes  int `json:"bytes"`
}

type inspectReport struct {
	Path      string            `json:"path"`
	Wrap      string            `json:"wrap"`
	ByteOrder string            `json:"byteOrder"`
	Format    string            `json:"format"`
	KeyValues []ktx.KeyValue    `json:"keyValues"`
	Levels    []levelReport     `json:"levels"`
	Header    map[string]uint32 `json:"header"`
	FileSize  int               `json:"fileSize"`
	YFlipped  bool              `json:"yFlipped"`
}

func inspectFile(path string) (*inspectReport, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ktx.ErrOpenFile, path, err)
	}
	wrap := ktx.DetectWrap(raw)
	data, err := ktx.Unwrap(raw)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	c, err := ktx.Decode(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}

	return describe(path, len(raw), wrap, c), nil
}

func describe(path string, size int, wrap ktx.Wrap, c *ktx.Container) *inspectReport {
	r := &inspectReport{
		Path:      path,
		FileSize:  size,
		Wrap:      wrap.String(),
		ByteOrder: c.ByteOrder.String(),
		Format:    fmt.Sprintf("0x%04x", c.GLInternalFormat),
		KeyValues: c.KeyValues,
		YFlipped:  c.YFlipped(),
		Header: map[string]uint32{
			"glType":                c.GLType,
			"glTypeSize":            c.GLTypeSize,
			"glFormat":              c.GLFormat,
			"glInternalFormat":      c.GLInternalFormat,
			"glBaseInternalFormat":  c.GLBaseInternalFormat,
			"pixelWidth":            c.PixelWidth,
			"pixelHeight":           c.PixelHeight,
			"pixelDepth":            c.PixelDepth,
			"numberOfArrayElements": c.NumberOfArrayElements,
			"numberOfFaces":         c.NumberOfFaces,
			"numberOfMipmapLevels":  c.NumberOfMipmapLevels,
			"bytesOfKeyValueData":   c.BytesOfKeyValueData,
		},
	}
	if f, srgb, ok := c.Format(); ok {
		r.Format = f.String()
		if srgb {
			r.Format += "_SRGB"
		}
	}

	for level := c.LevelStart; level < c.LevelStart+c.LevelCount(); level++ {
		lr := levelReport{
			Width: ktx.MipDimension(int(c.PixelWidth), level),
			Bytes: len(c.Image(level, 0, 0)),
		}
		if c.PixelHeight > 0 {
			lr.Height = ktx.MipDimension(int(c.PixelHeight), level)
		}
		if c.PixelDepth > 0 {
			lr.Depth = ktx.MipDimension(int(c.PixelDepth), level)
		}
		r.Levels = append(r.Levels, lr)
	}

	return r
}

func printReport(w io.Writer, r *inspectReport) error {
	var err error
	p := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	p("KTX Inspect: %s (%d bytes, wrap %s)\n", r.Path, r.FileSize, r.Wrap)
	p("  format:      %s\n", r.Format)
	p("  byte order:  %s\n", r.ByteOrder)
	p("  size:        %dx%dx%d\n", r.Header["pixelWidth"], r.Header["pixelHeight"], r.Header["pixelDepth"])
	p("  layers:      %d\n", r.Header["numberOfArrayElements"])
	p("  faces:       %d\n", r.Header["numberOfFaces"])
	p("  levels:      %d\n", r.Header["numberOfMipmapLevels"])
	p("  y-flipped:   %v\n", r.YFlipped)
	for _, kv := range r.KeyValues {
		p("  %s = %q\n", kv.Key, kv.Value)
	}
	for i, l := range r.Levels {
		p("  level %2d: %dx%d", i, l.Width, max(1, l.Height))
		if l.Depth > 0 {
			p("x%d", l.Depth)
		}
		p(", %d bytes per image\n", l.Bytes)
	}

	return err
}

func printReportJSON(w io.Writer, r *inspectReport) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
