package ktx

import (
	"errors"
	"testing"
)

// chain builds metadata for a halving chain starting at w x h.
func chain(w, h, n, channels int) []ImageMetadata {
	out := make([]ImageMetadata, n)
	for i := range out {
		out[i] = ImageMetadata{Width: MipDimension(w, i), Height: MipDimension(h, i), Channels: channels}
	}
	return out
}

func TestValidateMipmapChain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wantErr error
		name    string
		levels  []ImageMetadata
		level   int
	}{
		{name: "full-16", levels: chain(16, 16, 5, 4)},
		{name: "odd-15x7", levels: chain(15, 7, 4, 3)},
		{name: "partial", levels: chain(64, 32, 3, 1)},
		{name: "single", levels: []ImageMetadata{{Width: 3, Height: 5, Channels: 2}}},
		{name: "empty", wantErr: ErrEmptyMipmaps},
		{
			name:    "odd-rounds-down",
			levels:  []ImageMetadata{{Width: 15, Height: 7, Channels: 4}, {Width: 8, Height: 4, Channels: 4}},
			wantErr: ErrInconsistentMipmapChain,
			level:   1,
		},
		{
			name:    "wrong-height",
			levels:  []ImageMetadata{{Width: 15, Height: 7, Channels: 4}, {Width: 7, Height: 4, Channels: 4}},
			wantErr: ErrInconsistentMipmapChain,
			level:   1,
		},
		{
			name:    "channels",
			levels:  append(chain(8, 8, 2, 4), ImageMetadata{Width: 2, Height: 2, Channels: 3}),
			wantErr: ErrInconsistentMipmapChain,
			level:   2,
		},
		{
			name:    "after-1x1",
			levels:  append(chain(4, 4, 3, 4), ImageMetadata{Width: 1, Height: 1, Channels: 4}),
			wantErr: ErrUnusedMipmap,
			level:   3,
		},
		{
			name:    "zero-base",
			levels:  []ImageMetadata{{Width: 0, Height: 4, Channels: 4}},
			wantErr: ErrInconsistentMipmapChain,
			level:   0,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateMipmapChain(tc.levels)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("ValidateMipmapChain: %v", err)
				}
				return
			}

			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			var me *MipmapError
			if errors.As(err, &me) && me.Level != tc.level {
				t.Fatalf("level = %d, want %d", me.Level, tc.level)
			}
		})
	}
}

func TestMipLevelCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		w, h, d int
		want    int
	}{
		{w: 1, h: 1, want: 1},
		{w: 16, h: 16, want: 5},
		{w: 15, h: 7, want: 4},
		{w: 16, h: 8, want: 5},
		{w: 4, h: 0, want: 3},
		{w: 2, h: 2, d: 64, want: 7},
		{w: 16384, h: 1, want: 15},
	}

	for _, tc := range tests {
		if got := MipLevelCount(tc.w, tc.h, tc.d); got != tc.want {
			t.Fatalf("MipLevelCount(%d, %d, %d) = %d, want %d", tc.w, tc.h, tc.d, got, tc.want)
		}
	}
}
