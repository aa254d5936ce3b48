package runtime

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/wippyai/snpe-runtime/errors"
)

// DefaultMaxDecompressedSize is the largest container Load inflates unless
// WithMaxDecompressedSize says otherwise.
const DefaultMaxDecompressedSize int64 = 2 << 30

var errTooLarge = stderrors.New("decompressed size exceeds limit")

var zstdDecoderPool sync.Pool

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(uint64(DefaultMaxDecompressedSize)),
	)
}

func putZstdDecoder(dec *zstd.Decoder) {
	// Drop the reference to the input before pooling.
	if err := dec.Reset(nil); err != nil {
		dec.Close()
		return
	}
	zstdDecoderPool.Put(dec)
}

// Load opens a container file, decompressing it first when the name ends
// in .zst or .lz4. Uncompressed files go through Open.
func (r *Runtime) Load(path string) (*Container, error) {
	comp := CompressionOf(path)
	if comp == CompressionNone {
		return r.Open(path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.PhaseOpen, errors.KindReadFailure).
			Path(path).
			Cause(err).
			Detail("read compressed container").
			Build()
	}

	buf, err := decompress(comp, raw, r.maxDecompressed)
	if err != nil {
		return nil, errors.New(errors.PhaseOpen, errors.KindReadFailure).
			Path(path).
			Cause(err).
			Detail("decompress %s container", comp).
			Build()
	}

	return r.openBufferAt(path, buf)
}

// openBufferAt opens buf and attributes the container, and any error, to
// the file it was read from.
func (r *Runtime) openBufferAt(path string, buf []byte) (*Container, error) {
	c, err := r.OpenBuffer(buf)
	if err != nil {
		if e, ok := err.(*errors.Error); ok && e.Path == "" {
			e.Path = path
		}
		return nil, err
	}
	c.path = path
	return c, nil
}

func decompress(comp Compression, raw []byte, limit int64) ([]byte, error) {
	switch comp {
	case CompressionZstd:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		defer putZstdDecoder(dec)
		if err := dec.Reset(bytes.NewReader(raw)); err != nil {
			return nil, err
		}
		return readLimited(dec, limit)
	case CompressionLZ4:
		return readLimited(lz4.NewReader(bytes.NewReader(raw)), limit)
	default:
		return raw, nil
	}
}

// readLimited reads r to the end, failing once more than limit bytes come out.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(out)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", errTooLarge, limit)
	}
	return out, nil
}
