package squeeze

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/woozymasta/ktx"
)

// Metadata describes img for mipmap chain validation.
func Metadata(img image.Image) ktx.ImageMetadata {
	b := img.Bounds()
	return ktx.ImageMetadata{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Channels: Channels(img),
	}
}

// Channels reports the number of color channels of img's color model:
// 1 for gray, 3 for YCbCr and 4 for everything else.
func Channels(img image.Image) int {
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		return 1
	case color.YCbCrModel:
		return 3
	default:
		return 4
	}
}

// FlipVertical returns an NRGBA copy of img with rows in reverse order.
// The result's bounds start at the origin.
func FlipVertical(img image.Image) *image.NRGBA {
	b := img.Bounds()
	src := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(src, image.Point{}, img, b, draw.Src, nil)

	out := image.NewNRGBA(src.Rect)
	rowLen := 4 * b.Dx()
	for y := 0; y < b.Dy(); y++ {
		from := src.Pix[y*src.Stride : y*src.Stride+rowLen]
		to := (b.Dy() - 1 - y) * out.Stride
		copy(out.Pix[to:to+rowLen], from)
	}

	return out
}
