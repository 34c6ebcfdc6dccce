package snapshot

import (
	"encoding/binary"
	"errors"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType defines the compression algorithm used for snapshot
// sections.
type CompressionType uint8

const (
	// CompressionNone stores sections uncompressed.
	CompressionNone CompressionType = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD uses ZSTD block compression (better ratio).
	CompressionZSTD CompressionType = 2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return "unknown"
	}
}

// ParseCompressionType parses "none", "lz4" or "zstd".
func ParseCompressionType(s string) (CompressionType, error) {
	switch s {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, errors.New("snapshot: unknown compression type " + s)
	}
}

// ZSTD encoder/decoder pools; the encoders are expensive to construct.
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Section format: [UncompressedSize uint32][CompressedSize uint32][Data].
// CompressedSize == 0 means the section is stored uncompressed.
const sectionHeaderSize = 8

// compressSection compresses a section, falling back to uncompressed
// storage when compression does not pay (ratio > 0.9).
func compressSection(data []byte, compression CompressionType) ([]byte, error) {
	var compressed []byte
	var err error

	switch compression {
	case CompressionLZ4:
		compressed, err = compressLZ4(data)
	case CompressionZSTD:
		compressed, err = compressZSTD(data)
	}
	if err != nil {
		return nil, err
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		result := make([]byte, sectionHeaderSize+len(data))
		binary.LittleEndian.PutUint32(result[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(result[4:], 0)
		copy(result[sectionHeaderSize:], data)
		return result, nil
	}

	result := make([]byte, sectionHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(result[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(result[4:], uint32(len(compressed)))
	copy(result[sectionHeaderSize:], compressed)
	return result, nil
}

// decompressSection reverses compressSection. It returns the decoded
// payload and the total number of bytes the section occupied in data.
func decompressSection(data []byte, compression CompressionType) ([]byte, int, error) {
	if len(data) < sectionHeaderSize {
		return nil, 0, errors.New("snapshot: section too small for header")
	}

	uncompressedSize := binary.LittleEndian.Uint32(data[0:])
	compressedSize := binary.LittleEndian.Uint32(data[4:])

	if compressedSize == 0 {
		end := sectionHeaderSize + int(uncompressedSize)
		if len(data) < end {
			return nil, 0, errors.New("snapshot: truncated section")
		}
		return data[sectionHeaderSize:end], end, nil
	}

	end := sectionHeaderSize + int(compressedSize)
	if len(data) < end {
		return nil, 0, errors.New("snapshot: truncated compressed section")
	}
	payload := data[sectionHeaderSize:end]
	result := make([]byte, uncompressedSize)

	switch compression {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(payload, result)
		if err != nil {
			return nil, 0, err
		}
		if uint32(n) != uncompressedSize {
			return nil, 0, errors.New("snapshot: decompressed size mismatch")
		}
		return result, end, nil

	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		decoded, err := dec.DecodeAll(payload, result[:0])
		if err != nil {
			return nil, 0, err
		}
		if uint32(len(decoded)) != uncompressedSize {
			return nil, 0, errors.New("snapshot: decompressed size mismatch")
		}
		return decoded, end, nil

	default:
		return nil, 0, errors.New("snapshot: compressed section with compression disabled")
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // incompressible
	}
	return compressed[:n], nil
}

func compressZSTD(data []byte) ([]byte, error) {
	enc := getZstdEncoder()
	defer zstdEncoderPool.Put(enc)

	return enc.EncodeAll(data, nil), nil
}
