package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

const progressBarWidth = 40

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func getTerminalWidth(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 80 // Default fallback width
	}
	return width
}

// CreateProgressFunc returns a callback suitable for options.ProgressReader
// that redraws a single status line on f at most every 100ms. verb names
// the activity, e.g. "Read" or "Sent".
func CreateProgressFunc(f *os.File, verb string) func(int64, int64) {
	return createProgressFunc(f, verb, func() int { return getTerminalWidth(f) })
}

func createProgressFunc(w io.Writer, verb string, width func() int) func(int64, int64) {
	var lastUpdate time.Time
	var lastBytes int64

	return func(done, total int64) {
		now := time.Now()
		finished := total > 0 && done >= total
		if !finished && now.Sub(lastUpdate) < 100*time.Millisecond {
			return
		}

		var speed float64
		if elapsed := now.Sub(lastUpdate); !lastUpdate.IsZero() && elapsed > 0 {
			speed = float64(done-lastBytes) / elapsed.Seconds()
		}

		fmt.Fprint(w, "\r"+pad(Render(verb, done, total, speed), width()))
		if finished {
			fmt.Fprintln(w)
		}

		lastUpdate = now
		lastBytes = done
	}
}

// Render formats one progress line. total <= 0 means the size is unknown.
func Render(verb string, done, total int64, speed float64) string {
	if total <= 0 {
		return fmt.Sprintf("%s %s | Speed: %s", verb, FormatBytes(done), formatSpeed(speed))
	}

	percentage := float64(done) / float64(total) * 100
	if done >= total {
		percentage = 100
	}

	filled := int(float64(progressBarWidth) * (percentage / 100))
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", progressBarWidth-filled)

	if percentage >= 100 {
		return fmt.Sprintf("[%s] 100.00%% | %s %s", bar, verb, FormatBytes(total))
	}

	line := fmt.Sprintf("[%s] %.2f%% | Speed: %s", bar, percentage, formatSpeed(speed))
	if speed > 0 {
		eta := time.Duration(float64(total-done) / speed * float64(time.Second))
		line += " | ETA: " + formatETA(eta)
	}
	return line
}

// FormatBytes renders n with a binary unit suffix.
func FormatBytes(n int64) string {
	f := float64(n)
	switch {
	case f >= 1024*1024*1024:
		return fmt.Sprintf("%.2f GB", f/(1024*1024*1024))
	case f >= 1024*1024:
		return fmt.Sprintf("%.2f MB", f/(1024*1024))
	case f >= 1024:
		return fmt.Sprintf("%.2f KB", f/1024)
	}
	return fmt.Sprintf("%d B", n)
}

func formatSpeed(speed float64) string {
	switch {
	case speed >= 1024*1024*1024:
		return fmt.Sprintf("%.2f GB/s", speed/(1024*1024*1024))
	case speed >= 1024*1024:
		return fmt.Sprintf("%.2f MB/s", speed/(1024*1024))
	case speed >= 1024:
		return fmt.Sprintf("%.2f KB/s", speed/1024)
	}
	return fmt.Sprintf("%.2f B/s", speed)
}

func formatETA(eta time.Duration) string {
	switch {
	case eta >= time.Hour:
		return fmt.Sprintf("%.1fh", eta.Hours())
	case eta >= time.Minute:
		return fmt.Sprintf("%.1fm", eta.Minutes())
	}
	return fmt.Sprintf("%.0fs", eta.Seconds())
}

func pad(s string, width int) string {
	if n := width - len(s) - 1; n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
