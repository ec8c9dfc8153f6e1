package progress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		done     int64
		total    int64
		speed    float64
		expected string
	}{
		{
			name:     "unknown total",
			done:     2048,
			total:    -1,
			speed:    512,
			expected: "Read 2.00 KB | Speed: 512.00 B/s",
		},
		{
			name:     "half way",
			done:     50,
			total:    100,
			speed:    0,
			expected: "[" + strings.Repeat("=", 20) + strings.Repeat(" ", 20) + "] 50.00% | Speed: 0.00 B/s",
		},
		{
			name:     "half way with eta",
			done:     50,
			total:    100,
			speed:    10,
			expected: "[" + strings.Repeat("=", 20) + strings.Repeat(" ", 20) + "] 50.00% | Speed: 10.00 B/s | ETA: 5s",
		},
		{
			name:     "complete",
			done:     100,
			total:    100,
			expected: "[" + strings.Repeat("=", 40) + "] 100.00% | Read 100 B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Render("Read", tt.done, tt.total, tt.speed))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.50 KB", FormatBytes(1536))
	assert.Equal(t, "3.00 MB", FormatBytes(3*1024*1024))
	assert.Equal(t, "2.00 GB", FormatBytes(2*1024*1024*1024))
}

func TestProgressFuncFinishesLine(t *testing.T) {
	var buf bytes.Buffer
	fn := createProgressFunc(&buf, "Sent", func() int { return 0 })

	fn(10, 100)
	fn(20, 100) // throttled
	fn(100, 100)

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "\r"))
	assert.True(t, strings.HasSuffix(out, "| Sent 100 B\n"))
}
