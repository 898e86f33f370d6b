package sqlite

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Payload compression for the objects table. Catalog detail objects are
// large and repetitive JSON, so zstd typically shrinks them well.

// compressPayload compresses data with the given algorithm.
func compressPayload(data []byte, algorithm string, level int) ([]byte, error) {
	switch algorithm {
	case "gzip":
		if level < gzip.DefaultCompression || level > gzip.BestCompression {
			level = gzip.DefaultCompression
		}
		var buf bytes.Buffer
		w, err := gzip.NewWriterLevel(&buf, level)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			w.Close()
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	case "zstd":
		encoderLevel := zstd.SpeedDefault
		switch {
		case level <= 3:
			encoderLevel = zstd.SpeedFastest
		case level <= 7:
			encoderLevel = zstd.SpeedDefault
		case level <= 15:
			encoderLevel = zstd.SpeedBetterCompression
		default:
			encoderLevel = zstd.SpeedBestCompression
		}
		w, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(encoderLevel))
		if err != nil {
			return nil, err
		}
		out := w.EncodeAll(data, nil)
		w.Close()
		return out, nil

	case "none", "":
		return data, nil

	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", algorithm)
	}
}

// decompressPayload decompresses data with the given algorithm.
func decompressPayload(data []byte, algorithm string) ([]byte, error) {
	switch algorithm {
	case "gzip":
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)

	case "zstd":
		decoder, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer decoder.Close()
		return decoder.DecodeAll(data, nil)

	case "none", "":
		return data, nil

	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", algorithm)
	}
}
