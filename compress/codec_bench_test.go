package compress

import (
	"fmt"
	"testing"
)

func BenchmarkAllCodecs_Compress(b *testing.B) {
	sizes := []int{4096, 65536, 1048576}

	for codecName, codec := range getPackingCodecs() {
		b.Run(codecName, func(b *testing.B) {
			for _, size := range sizes {
				b.Run(fmt.Sprintf("%dKB", size/1024), func(b *testing.B) {
					data := gradient(size)

					b.ResetTimer()
					b.ReportAllocs()
					b.SetBytes(int64(len(data)))

					for b.Loop() {
						if _, err := codec.Compress(data); err != nil {
							b.Fatal(err)
						}
					}
				})
			}
		})
	}
}

func BenchmarkAllCodecs_Decompress(b *testing.B) {
	sizes := []int{4096, 65536, 1048576}

	for codecName, codec := range getPackingCodecs() {
		b.Run(codecName, func(b *testing.B) {
			for _, size := range sizes {
				b.Run(fmt.Sprintf("%dKB", size/1024), func(b *testing.B) {
					data := gradient(size)
					compressed, err := codec.Compress(data)
					if err != nil {
						b.Fatal(err)
					}

					b.ResetTimer()
					b.ReportAllocs()
					b.SetBytes(int64(len(data)))

					for b.Loop() {
						if _, err := codec.Decompress(compressed, size); err != nil {
							b.Fatal(err)
						}
					}
				})
			}
		})
	}
}
