package ktx

import (
	"errors"
	"testing"
)

func TestFormatTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format CompressionFormat
		linear uint32
		srgb   uint32
		base   uint32
		blockX int
		blockY int
		bytes  int
	}{
		{name: "ASTC_4x4", format: FormatASTC4x4, linear: 0x93b0, srgb: 0x93d0, base: GLRGBA, blockX: 4, blockY: 4, bytes: 16},
		{name: "ASTC_6x5", format: FormatASTC6x5, linear: 0x93b3, srgb: 0x93d3, base: GLRGBA, blockX: 6, blockY: 5, bytes: 16},
		{name: "ASTC_12x12", format: FormatASTC12x12, linear: 0x93bd, srgb: 0x93dd, base: GLRGBA, blockX: 12, blockY: 12, bytes: 16},
		{name: "ETC_R8G8B8", format: FormatETC1RGB, linear: 0x8d64, srgb: 0x8d64, base: GLRGB, blockX: 4, blockY: 4, bytes: 8},
		{name: "ETC2_R8G8B8", format: FormatETC2RGB, linear: 0x9274, srgb: 0x9275, base: GLRGB, blockX: 4, blockY: 4, bytes: 8},
		{name: "ETC2_R8G8B8A8", format: FormatETC2RGBA, linear: 0x9278, srgb: 0x9279, base: GLRGBA, blockX: 4, blockY: 4, bytes: 16},
		{name: "BC1", format: FormatBC1, linear: 0x83f0, srgb: 0x8c4c, base: GLRGB, blockX: 4, blockY: 4, bytes: 8},
		{name: "BC1_ALPHA", format: FormatBC1Alpha, linear: 0x83f1, srgb: 0x8c4d, base: GLRGBA, blockX: 4, blockY: 4, bytes: 8},
		{name: "BC2", format: FormatBC2, linear: 0x83f2, srgb: 0x8c4e, base: GLRGBA, blockX: 4, blockY: 4, bytes: 16},
		{name: "BC3", format: FormatBC3, linear: 0x83f3, srgb: 0x8c4f, base: GLRGBA, blockX: 4, blockY: 4, bytes: 16},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := tc.format.String(); got != tc.name {
				t.Fatalf("String() = %q", got)
			}
			if got := tc.format.GLInternalFormat(false); got != tc.linear {
				t.Fatalf("linear = 0x%04x, want 0x%04x", got, tc.linear)
			}
			if got := tc.format.GLInternalFormat(true); got != tc.srgb {
				t.Fatalf("srgb = 0x%04x, want 0x%04x", got, tc.srgb)
			}
			if got := tc.format.GLBaseInternalFormat(); got != tc.base {
				t.Fatalf("base = 0x%04x, want 0x%04x", got, tc.base)
			}
			if x, y := tc.format.BlockSize(); x != tc.blockX || y != tc.blockY {
				t.Fatalf("BlockSize() = %dx%d", x, y)
			}
			if got := tc.format.BytesPerBlock(); got != tc.bytes {
				t.Fatalf("BytesPerBlock() = %d", got)
			}

			pf := tc.format.PixelFormat(false)
			if pf.Type != 0 || pf.TypeSize != 1 || pf.Format != 0 {
				t.Fatalf("PixelFormat() = %+v", pf)
			}
		})
	}
}

func TestFormatUnknown(t *testing.T) {
	t.Parallel()

	for _, f := range []CompressionFormat{FormatUnknown, formatCount, 200} {
		if f.Valid() {
			t.Fatalf("%d reported valid", f)
		}
		if f.GLInternalFormat(false) != 0 || f.GLBaseInternalFormat() != 0 {
			t.Fatalf("%d has enumerants", f)
		}
		if f.LevelSize(4, 4, 0) != -1 {
			t.Fatalf("%d has a level size", f)
		}
	}
	if n := len(Formats()); n != int(formatCount)-1 {
		t.Fatalf("Formats() returned %d formats", n)
	}
}

func TestFormatFromGLInternalFormat(t *testing.T) {
	t.Parallel()

	for _, f := range Formats() {
		for _, srgb := range []bool{false, true} {
			got, gotSRGB, ok := FormatFromGLInternalFormat(f.GLInternalFormat(srgb))
			if !ok || got != f {
				t.Fatalf("%s srgb=%v: got %s, %v", f, srgb, got, ok)
			}
			wantSRGB := srgb && f != FormatETC1RGB
			if gotSRGB != wantSRGB {
				t.Fatalf("%s srgb=%v: got srgb=%v", f, srgb, gotSRGB)
			}
		}
	}

	if _, _, ok := FormatFromGLInternalFormat(0x1234); ok {
		t.Fatalf("unexpected match for 0x1234")
	}
}

func TestParseCompressionFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wantErr error
		name    string
		want    CompressionFormat
		srgb    bool
	}{
		{name: "BC3", want: FormatBC3},
		{name: "bc1_alpha", want: FormatBC1Alpha},
		{name: "ASTC_6x6_SRGB", want: FormatASTC6x6, srgb: true},
		{name: "astc_10x8_srgb", want: FormatASTC10x8, srgb: true},
		{name: "ETC2_R8G8B8A8", want: FormatETC2RGBA},
		{name: "DXT5", wantErr: ErrInvalidFormat},
		{name: "", wantErr: ErrInvalidFormat},
	}

	for _, tc := range tests {
		got, srgb, err := ParseCompressionFormat(tc.name)
		if tc.wantErr != nil {
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("%q: expected error %v, got %v", tc.name, tc.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: %v", tc.name, err)
		}
		if got != tc.want || srgb != tc.srgb {
			t.Fatalf("%q: got %s srgb=%v", tc.name, got, srgb)
		}
	}
}

func TestLevelSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format CompressionFormat
		w, h   int
		d      int
		want   int
	}{
		{format: FormatBC1, w: 1, h: 1, want: 8},
		{format: FormatBC1, w: 5, h: 7, want: 32},
		{format: FormatBC3, w: 16, h: 8, want: 128},
		{format: FormatBC3, w: 16, h: 0, want: 64},
		{format: FormatASTC6x6, w: 18, h: 18, want: 144},
		{format: FormatASTC12x10, w: 13, h: 11, want: 64},
		{format: FormatETC2RGB, w: 8, h: 8, d: 2, want: 64},
	}

	for _, tc := range tests {
		if got := tc.format.LevelSize(tc.w, tc.h, tc.d); got != tc.want {
			t.Fatalf("%s %dx%dx%d: got %d, want %d", tc.format, tc.w, tc.h, tc.d, got, tc.want)
		}
	}
}
