package runtime

import (
	"path/filepath"
	"strings"

	"github.com/wippyai/snpe-runtime/errors"
)

// Format is the kind of model file.
type Format uint8

const (
	FormatDLC    Format = iota + 1 // SNPE deep learning container
	FormatBinary                   // serialized context binary
)

func (f Format) String() string {
	switch f {
	case FormatDLC:
		return "dlc"
	case FormatBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Compression is the outer encoding of a container file.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "none"
	}
}

// CompressionOf returns the compression implied by path's extension.
func CompressionOf(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst":
		return CompressionZstd
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// DetectFormat classifies a model file by extension, looking through a
// .zst or .lz4 suffix.
func DetectFormat(path string) (Format, error) {
	base := path
	if CompressionOf(base) != CompressionNone {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}

	switch strings.ToLower(filepath.Ext(base)) {
	case ".dlc":
		return FormatDLC, nil
	case ".bin":
		return FormatBinary, nil
	default:
		return 0, errors.New(errors.PhaseOpen, errors.KindUnsupported).
			Path(path).
			Detail("unsupported model format, want .dlc or .bin").
			Build()
	}
}
