package compressors

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// ZstdCompressor compresses with Zstandard.
type ZstdCompressor struct{}

func (z *ZstdCompressor) Compress(data []byte, level int) ([]byte, error) {
	if level <= 0 {
		level = z.DefaultLevel()
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func (z *ZstdCompressor) Extension() string { return ".zst" }
func (z *ZstdCompressor) DefaultLevel() int { return 3 }
