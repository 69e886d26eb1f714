package compressors

// NoneCompressor passes data through unchanged.
type NoneCompressor struct{}

func (n *NoneCompressor) Compress(data []byte, _ int) ([]byte, error) {
	return data, nil
}

func (n *NoneCompressor) Extension() string { return "" }
func (n *NoneCompressor) DefaultLevel() int { return 0 }
