package options

import (
	"compress/gzip"
	"compress/zlib"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/gravitational/trace"
	"github.com/pierrec/lz4/v4"
)

type CompressionType string

// CompressionNone is not the zero value, so a local Option can turn
// compression off again when merged over one that enables it.
const (
	CompressionNone    CompressionType = "none"
	CompressionGzip    CompressionType = "gzip"
	CompressionDeflate CompressionType = "deflate"
	CompressionBrotli  CompressionType = "br"
	CompressionSnappy  CompressionType = "snappy"
	CompressionLZ4     CompressionType = "lz4"
	CompressionCustom  CompressionType = "custom"
)

// ParseCompression converts a flag or environment value into a
// CompressionType. "none" and "" both disable compression.
func ParseCompression(s string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressionNone, nil
	case "gzip":
		return CompressionGzip, nil
	case "deflate", "zlib":
		return CompressionDeflate, nil
	case "br", "brotli":
		return CompressionBrotli, nil
	case "snappy":
		return CompressionSnappy, nil
	case "lz4":
		return CompressionLZ4, nil
	}
	return CompressionNone, trace.BadParameter("unsupported compression type %q", s)
}

// SetCompression configures the compression type used for output and
// POST bodies.
func (opt *Option) SetCompression(compressionType CompressionType) {
	opt.Compression = compressionType
}

// GetCompressor returns a writer that compresses into w using the
// configured compression type. Closing the returned writer flushes it but
// does not close w.
func (opt *Option) GetCompressor(w io.Writer) (io.WriteCloser, error) {
	switch opt.Compression {
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	case CompressionDeflate:
		return zlib.NewWriter(w), nil
	case CompressionBrotli:
		return brotli.NewWriter(w), nil
	case CompressionSnappy:
		return snappy.NewBufferedWriter(w), nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionCustom:
		if opt.CustomCompressor != nil {
			return opt.CustomCompressor(w)
		}
		return nil, trace.BadParameter("custom compressor function is not defined")
	default:
		return nil, trace.BadParameter("unsupported compression type: %q", opt.Compression)
	}
}

// Compressed reports whether output and POST bodies are compressed. An
// unset compression type counts as none.
func (opt *Option) Compressed() bool {
	return opt.Compression != CompressionNone && opt.Compression != ""
}

// ContentEncoding returns the Content-Encoding header value announcing the
// configured compression.
func (opt *Option) ContentEncoding() string {
	if opt.Compression != CompressionCustom {
		return string(opt.Compression)
	}
	if opt.CustomCompressionType != "" {
		return string(opt.CustomCompressionType)
	}
	return "application/octet-stream"
}
