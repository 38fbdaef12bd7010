package storage

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Source files and their conversions are mostly plain SQL text, which
// zstd shrinks well. Encoder and decoder are created once and shared;
// both are safe for concurrent use via EncodeAll/DecodeAll.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic(fmt.Sprintf("storage: failed to create zstd encoder: %v", err))
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic(fmt.Sprintf("storage: failed to create zstd decoder: %v", err))
	}
}

func compressText(text string) []byte {
	return zstdEncoder.EncodeAll([]byte(text), nil)
}

func decompressText(data []byte) (string, error) {
	out, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decompress payload: %w", err)
	}
	return string(out), nil
}
