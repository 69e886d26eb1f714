package compressors

import (
	"bytes"
	"compress/gzip"
	"fmt"
)

// GzipCompressor compresses with gzip.
type GzipCompressor struct{}

func (g *GzipCompressor) Compress(data []byte, level int) ([]byte, error) {
	if level <= 0 {
		level = g.DefaultLevel()
	}
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to write gzip data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize gzip stream: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *GzipCompressor) Extension() string { return ".gz" }
func (g *GzipCompressor) DefaultLevel() int { return gzip.DefaultCompression }
