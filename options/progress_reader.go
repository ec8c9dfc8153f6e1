package options

import (
	"io"
	"sync"
	"sync/atomic"
)

// ProgressReader wraps an io.Reader and reports how many bytes have been
// read through the onProgress callback.
type ProgressReader struct {
	reader     io.Reader
	total      int64
	read       atomic.Int64
	onProgress func(read, total int64)

	callbackMu sync.Mutex
}

// NewProgressReader wraps reader. total is the expected size, or -1 when
// unknown.
func NewProgressReader(reader io.Reader, total int64, onProgress func(read, total int64)) *ProgressReader {
	return &ProgressReader{
		reader:     reader,
		total:      total,
		onProgress: onProgress,
	}
}

func (pr *ProgressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		newRead := pr.read.Add(int64(n))
		if pr.onProgress != nil {
			pr.callbackMu.Lock()
			pr.onProgress(newRead, pr.total)
			pr.callbackMu.Unlock()
		}
	}
	return n, err
}

// GetProgress returns the number of bytes read so far.
func (pr *ProgressReader) GetProgress() int64 {
	return pr.read.Load()
}
