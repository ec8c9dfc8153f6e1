package options

import (
	"io"
	"os"

	"github.com/gravitational/trace"
)

type OutputType string

const (
	WriteToBuffer OutputType = "buffer"
	WriteToFile   OutputType = "file"
	WriteToStdout OutputType = "stdout"
)

// Output contains configuration for where the encoded string is written
type Output struct {
	// Type indicates whether to write to buffer, file or stdout
	Type OutputType
	// FilePath is only used when Type is WriteToFile
	FilePath string
	// writer is the underlying io.WriteCloser, initialised based on Type
	writer io.WriteCloser
}

// InitialiseWriter opens the writer described by the Output configuration.
func (opt *Option) InitialiseWriter() (io.WriteCloser, error) {
	switch opt.Output.Type {
	case WriteToFile:
		if opt.Output.FilePath == "" {
			return nil, trace.BadParameter("file path must be specified when using WriteToFile")
		}
		file, err := os.Create(opt.Output.FilePath)
		if err != nil {
			return nil, trace.Wrap(err, "failed to create output file")
		}
		opt.Output.writer = file
	case WriteToBuffer:
		opt.Output.writer = NewWriteCloserBuffer()
	case WriteToStdout:
		opt.Output.writer = nopWriteCloser{os.Stdout}
	default:
		return nil, trace.BadParameter("invalid writer type: %q", opt.Output.Type)
	}
	return opt.Output.writer, nil
}

// GetWriter returns the writer opened by InitialiseWriter.
func (opt *Option) GetWriter() io.WriteCloser {
	return opt.Output.writer
}

// SetOutputPath selects the output from a command line path: "-" or ""
// is stdout, anything else is a file.
func (opt *Option) SetOutputPath(path string) {
	switch path {
	case "-", "":
		opt.Output = Output{Type: WriteToStdout}
	default:
		opt.SetFileOutput(path)
	}
}

// SetFileOutput writes the output to the file at filepath.
func (opt *Option) SetFileOutput(filepath string) {
	opt.Output = Output{
		Type:     WriteToFile,
		FilePath: filepath,
	}
}

// SetBufferOutput writes the output to an in-memory buffer.
func (opt *Option) SetBufferOutput() {
	opt.Output = Output{
		Type: WriteToBuffer,
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
