package compressors

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestGetCompressor(t *testing.T) {
	tests := []struct {
		name    string
		wantExt string
		wantErr bool
	}{
		{name: "gzip", wantExt: ".gz"},
		{name: "zstd", wantExt: ".zst"},
		{name: "none", wantExt: ""},
		{name: "", wantExt: ""},
		{name: "brotli", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := GetCompressor(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("GetCompressor(%q) failed: %v", tt.name, err)
			}
			if c.Extension() != tt.wantExt {
				t.Errorf("expected extension %q, got %q", tt.wantExt, c.Extension())
			}
		})
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path    string
		wantExt string
	}{
		{"report.json.gz", ".gz"},
		{"report.json.zst", ".zst"},
		{"report.json", ""},
		{"s3://bucket/reports/drift.txt.gz", ".gz"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := ForPath(tt.path).Extension(); got != tt.wantExt {
				t.Errorf("ForPath(%q) extension = %q, want %q", tt.path, got, tt.wantExt)
			}
		})
	}
}

func TestGzipRoundTrip(t *testing.T) {
	payload := []byte(`{"totalDifferences": 0}`)

	compressed, err := (&GzipCompressor{}).Compress(payload, 0)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}

	r, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		t.Fatalf("failed to open gzip stream: %v", err)
	}
	defer r.Close()
	decompressed, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read gzip stream: %v", err)
	}

	if !bytes.Equal(decompressed, payload) {
		t.Errorf("round trip mismatch: got %q, want %q", decompressed, payload)
	}
}

func TestZstdRoundTrip(t *testing.T) {
	payload := []byte(`{"totalDifferences": 3}`)

	compressed, err := (&ZstdCompressor{}).Compress(payload, 0)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		t.Fatalf("failed to create zstd decoder: %v", err)
	}
	defer dec.Close()
	decompressed, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		t.Fatalf("failed to decode zstd payload: %v", err)
	}

	if !bytes.Equal(decompressed, payload) {
		t.Errorf("round trip mismatch: got %q, want %q", decompressed, payload)
	}
}

func TestNonePassthrough(t *testing.T) {
	payload := []byte("unchanged")
	out, err := (&NoneCompressor{}).Compress(payload, 9)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Errorf("expected passthrough, got %q", out)
	}
}
