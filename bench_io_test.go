package ktx

import (
	"path/filepath"
	"testing"
)

// benchChainPayloads builds a full BC3 chain for a square texture.
func benchChainPayloads(size int) [][]byte {
	n := MipLevelCount(size, size, 0)
	sizes := make([]int, n)
	for i := range sizes {
		d := MipDimension(size, i)
		sizes[i] = FormatBC3.LevelSize(d, d, 0)
	}
	return testLevels(sizes...)
}

// benchPayloadBytes computes total payload bytes for throughput reporting.
func benchPayloadBytes(payloads [][]byte) int64 {
	var total int64
	for _, p := range payloads {
		total += int64(len(p))
	}

	return total
}

func BenchmarkEncodeBC3(b *testing.B) {
	payloads := benchChainPayloads(1024)
	desc := Descriptor{Format: FormatBC3, Width: 1024, Height: 1024}

	b.ReportAllocs()
	b.SetBytes(benchPayloadBytes(payloads))
	b.ResetTimer()

	for b.Loop() {
		if _, _, err := Encode(desc, payloads); err != nil {
			b.Fatalf("encode: %v", err)
		}
	}
}

func BenchmarkDecodeBC3(b *testing.B) {
	payloads := benchChainPayloads(1024)
	_, buf, err := Encode(Descriptor{Format: FormatBC3, Width: 1024, Height: 1024}, payloads)
	if err != nil {
		b.Fatalf("prepare input: %v", err)
	}

	b.Run("ALL", func(b *testing.B) {
		b.ReportAllocs()
		b.SetBytes(int64(len(buf)))
		b.ResetTimer()

		for b.Loop() {
			if _, err := Decode(buf, nil); err != nil {
				b.Fatalf("decode: %v", err)
			}
		}
	})

	b.Run("TAIL", func(b *testing.B) {
		opts := &DecodeOptions{LevelStart: 4, SkipKeyValues: true}

		b.ReportAllocs()
		b.SetBytes(int64(len(buf)))
		b.ResetTimer()

		for b.Loop() {
			if _, err := Decode(buf, opts); err != nil {
				b.Fatalf("decode: %v", err)
			}
		}
	})
}

func BenchmarkWriteReadFile(b *testing.B) {
	payloads := benchChainPayloads(1024)
	_, buf, err := Encode(Descriptor{Format: FormatBC3, Width: 1024, Height: 1024}, payloads)
	if err != nil {
		b.Fatalf("prepare input: %v", err)
	}

	for _, w := range []Wrap{WrapNone, WrapLZ4, WrapZstd} {
		path := filepath.Join(b.TempDir(), "bench.ktx")

		b.Run(w.String(), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(buf)))
			b.ResetTimer()

			for b.Loop() {
				if err := WriteFile(path, buf, w); err != nil {
					b.Fatalf("write: %v", err)
				}
				if _, err := ReadFile(path, nil); err != nil {
					b.Fatalf("read: %v", err)
				}
			}
		})
	}
}
