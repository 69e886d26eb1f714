// Package compressors provides pluggable compression for report payloads.
package compressors

import (
	"fmt"
	"strings"
)

// Compressor compresses a complete report payload in one shot.
type Compressor interface {
	// Compress compresses data at the given level; level <= 0 means the
	// compressor's default.
	Compress(data []byte, level int) ([]byte, error)

	// Extension returns the file extension including the dot, or "" for
	// the passthrough compressor.
	Extension() string

	DefaultLevel() int
}

// GetCompressor returns the compressor registered under the given name.
func GetCompressor(name string) (Compressor, error) {
	switch name {
	case "gzip":
		return &GzipCompressor{}, nil
	case "zstd":
		return &ZstdCompressor{}, nil
	case "none", "":
		return &NoneCompressor{}, nil
	default:
		return nil, fmt.Errorf("unknown compressor: %s", name)
	}
}

// ForPath picks a compressor from the output path's extension. Paths
// without a recognized compression extension get the passthrough.
func ForPath(path string) Compressor {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return &GzipCompressor{}
	case strings.HasSuffix(path, ".zst"):
		return &ZstdCompressor{}
	default:
		return &NoneCompressor{}
	}
}
