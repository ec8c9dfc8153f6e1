package options

import (
	"io"
	"sync"
	"sync/atomic"
)

// ProgressWriter wraps an io.WriteCloser and counts the bytes written
// through it, reporting each write to onProgress when set.
type ProgressWriter struct {
	writer     io.WriteCloser
	total      int64
	written    atomic.Int64
	onProgress func(written, total int64)
	mu         sync.Mutex
}

// NewProgressWriter wraps writer. total is the expected size, or -1 when
// unknown.
func NewProgressWriter(writer io.WriteCloser, total int64, onProgress func(written, total int64)) *ProgressWriter {
	return &ProgressWriter{
		writer:     writer,
		total:      total,
		onProgress: onProgress,
	}
}

func (pw *ProgressWriter) Write(p []byte) (int, error) {
	pw.mu.Lock()
	n, err := pw.writer.Write(p)
	pw.mu.Unlock()
	if n > 0 {
		newWritten := pw.written.Add(int64(n))
		if pw.onProgress != nil {
			pw.onProgress(newWritten, pw.total)
		}
	}
	return n, err
}

// Written returns the number of bytes written so far.
func (pw *ProgressWriter) Written() int64 {
	return pw.written.Load()
}

// Close closes the underlying writer.
func (pw *ProgressWriter) Close() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	return pw.writer.Close()
}
