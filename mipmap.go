package ktx

import (
	"fmt"
	"math/bits"
)

// ImageMetadata describes one source image of a mipmap chain.
type ImageMetadata struct {
	Width    int
	Height   int
	Channels int
}

// MipLevelCount returns the length of a full mipmap chain for the given
// dimensions: 1 + floor(log2(max(width, height, depth))).
func MipLevelCount(width, height, depth int) int {
	m := max(width, height, depth, 1)
	return bits.Len(uint(m))
}

// MipDimension calculates the dimension of a mipmap level.
func MipDimension(base, level int) int {
	if level >= bits.UintSize {
		return 1
	}
	result := base >> level
	if result < 1 {
		return 1
	}

	return result
}

// ValidateMipmapChain checks that levels form a legal mipmap chain starting
// at full resolution: every level halves the previous one (floor, minimum
// 1), the channel count never changes, and nothing follows a 1x1 level.
func ValidateMipmapChain(levels []ImageMetadata) error {
	if len(levels) == 0 {
		return ErrEmptyMipmaps
	}

	first := levels[0]
	if first.Width <= 0 || first.Height <= 0 {
		return &MipmapError{Level: 0, Err: ErrInconsistentMipmapChain, Reason: "invalid dimensions"}
	}
	if first.Channels < 1 || first.Channels > 4 {
		return &MipmapError{Level: 0, Err: ErrInconsistentMipmapChain, Reason: "invalid number of color channels"}
	}

	width, height := first.Width, first.Height
	for i := 1; i < len(levels); i++ {
		if width == 1 && height == 1 {
			return &MipmapError{Level: i, Err: ErrUnusedMipmap}
		}

		width = max(1, width/2)
		height = max(1, height/2)

		level := levels[i]
		if level.Width != width || level.Height != height {
			return &MipmapError{
				Level:  i,
				Err:    ErrInconsistentMipmapChain,
				Reason: fmt.Sprintf("invalid dimensions %dx%d (expected: %dx%d)", level.Width, level.Height, width, height),
			}
		}
		if level.Channels != first.Channels {
			return &MipmapError{
				Level:  i,
				Err:    ErrInconsistentMipmapChain,
				Reason: fmt.Sprintf("different number of color channels %d (expected: %d)", level.Channels, first.Channels),
			}
		}
	}

	return nil
}
