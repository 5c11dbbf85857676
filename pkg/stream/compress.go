package stream

import (
	"compress/bzip2"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"

	"github.com/matzehuels/pgpdump/pkg/algo"
)

// Decompressor opens a decompressing reader over the body of a compressed
// data packet. alg is the OpenPGP compression algorithm id.
type Decompressor func(alg int, r io.Reader) (io.ReadCloser, error)

// ErrUnsupportedCompression is returned by [Decompress] for unknown ids.
var ErrUnsupportedCompression = fmt.Errorf("stream: unsupported compression algorithm")

// Decompress is the default [Decompressor]. ZIP is raw deflate, ZLIB is
// deflate with the zlib framing, and BZip2 uses the standard library reader.
// Uncompressed content is passed through.
func Decompress(alg int, r io.Reader) (io.ReadCloser, error) {
	switch alg {
	case algo.CompressNone:
		return io.NopCloser(r), nil

	case algo.CompressZIP:
		return flate.NewReader(r), nil

	case algo.CompressZLIB:
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zlib: %w", err)
		}
		return zr, nil

	case algo.CompressBZip2:
		return io.NopCloser(bzip2.NewReader(r)), nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedCompression, alg)
	}
}
