package options

import "bytes"

// WriteCloserBuffer is a bytes.Buffer that satisfies io.WriteCloser.
// Closing it is a no-op.
type WriteCloserBuffer struct {
	*bytes.Buffer
}

// NewWriteCloserBuffer returns an empty buffer.
func NewWriteCloserBuffer() *WriteCloserBuffer {
	return &WriteCloserBuffer{Buffer: &bytes.Buffer{}}
}

func (wcb *WriteCloserBuffer) Close() error {
	return nil
}

// IsEmpty reports whether nothing has been written to the buffer.
func (wcb *WriteCloserBuffer) IsEmpty() bool {
	return wcb == nil || wcb.Buffer == nil || wcb.Buffer.Len() == 0
}
