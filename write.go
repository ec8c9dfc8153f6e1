package tourl

import (
	"io"

	"github.com/gravitational/trace"

	"github.com/caelisco/tourl/options"
	"github.com/caelisco/tourl/value"
)

// Write writes s to w. Plain output ends with a newline; compressed output
// is the compressed text alone.
func Write(w io.Writer, s value.String, opts ...*options.Option) error {
	opt := options.New(opts...)

	if !opt.Compressed() {
		_, err := io.WriteString(w, s.Val+"\n")
		return trace.Wrap(err)
	}

	compressor, err := opt.GetCompressor(w)
	if err != nil {
		return trace.Wrap(err)
	}
	if _, err := io.WriteString(compressor, s.Val); err != nil {
		compressor.Close()
		return trace.Wrap(err, "compressing output")
	}
	return trace.Wrap(compressor.Close(), "flushing compressed output")
}
