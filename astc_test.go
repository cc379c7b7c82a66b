package ktx

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// astcFile builds an .astc header followed by payload bytes.
func astcFile(bx, by, bz byte, dx, dy, dz uint32, payload int) []byte {
	data := make([]byte, IntermediateHeaderSize+payload)
	binary.LittleEndian.PutUint32(data, IntermediateMagic)
	data[4], data[5], data[6] = bx, by, bz
	for i, d := range []uint32{dx, dy, dz} {
		off := 7 + 3*i
		data[off] = byte(d)
		data[off+1] = byte(d >> 8)
		data[off+2] = byte(d >> 16)
	}
	for i := IntermediateHeaderSize; i < len(data); i++ {
		data[i] = byte(i)
	}
	return data
}

func TestDecodeIntermediate(t *testing.T) {
	t.Parallel()

	data := astcFile(4, 4, 1, 18, 18, 1, 400)
	if got := data[:4]; got[0] != 0x13 || got[1] != 0xab || got[2] != 0xa1 || got[3] != 0x5c {
		t.Fatalf("magic bytes = % x", got)
	}

	a, err := DecodeIntermediate(data)
	if err != nil {
		t.Fatalf("DecodeIntermediate: %v", err)
	}
	if a.BlockX != 4 || a.BlockY != 4 || a.BlockZ != 1 {
		t.Fatalf("blocks = %dx%dx%d", a.BlockX, a.BlockY, a.BlockZ)
	}
	if a.DimX != 18 || a.DimY != 18 || a.DimZ != 1 {
		t.Fatalf("dims = %dx%dx%d", a.DimX, a.DimY, a.DimZ)
	}
	if len(a.Data) != 400 {
		t.Fatalf("payload = %d bytes, want 400", len(a.Data))
	}
	if a.Data[0] != data[IntermediateHeaderSize] {
		t.Fatalf("payload does not start after the header")
	}
}

func TestDecodeIntermediateBlockFootprint(t *testing.T) {
	t.Parallel()

	// 6x5 footprint on 13x11: 3 x 3 blocks; a zero z footprint counts as 1.
	a, err := DecodeIntermediate(astcFile(6, 5, 0, 13, 11, 1, 3*3*16+7))
	if err != nil {
		t.Fatalf("DecodeIntermediate: %v", err)
	}
	if a.BlockZ != 1 || len(a.Data) != 144 {
		t.Fatalf("blockZ=%d payload=%d", a.BlockZ, len(a.Data))
	}

	// 1 x 4 blocks; a wrong axis would give 1 x 1.
	a, err = DecodeIntermediate(astcFile(12, 4, 1, 12, 16, 1, 64))
	if err != nil {
		t.Fatalf("DecodeIntermediate: %v", err)
	}
	if len(a.Data) != 64 {
		t.Fatalf("payload = %d bytes, want 64", len(a.Data))
	}
}

func TestDecodeIntermediateErrors(t *testing.T) {
	t.Parallel()

	badMagic := astcFile(4, 4, 1, 4, 4, 1, 16)
	badMagic[0] = 0

	tests := []struct {
		wantErr error
		name    string
		data    []byte
	}{
		{name: "empty", data: nil, wantErr: ErrTruncatedRead},
		{name: "short-header", data: astcFile(4, 4, 1, 4, 4, 1, 0)[:15], wantErr: ErrTruncatedRead},
		{name: "short-payload", data: astcFile(4, 4, 1, 18, 18, 1, 399), wantErr: ErrTruncatedRead},
		{name: "bad-magic", data: badMagic, wantErr: ErrMalformedHeader},
		{name: "zero-dim", data: astcFile(4, 4, 1, 4, 0, 1, 16), wantErr: ErrMalformedHeader},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := DecodeIntermediate(tc.data); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestReadIntermediateFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tex.astc")
	if err := os.WriteFile(path, astcFile(8, 8, 1, 16, 16, 1, 64), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	a, err := ReadIntermediateFile(path)
	if err != nil {
		t.Fatalf("ReadIntermediateFile: %v", err)
	}
	if len(a.Data) != 64 {
		t.Fatalf("payload = %d bytes, want 64", len(a.Data))
	}

	if _, err := ReadIntermediateFile(filepath.Join(t.TempDir(), "missing.astc")); !errors.Is(err, ErrOpenFile) {
		t.Fatalf("expected ErrOpenFile, got %v", err)
	}
}
