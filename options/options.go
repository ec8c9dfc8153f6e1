package options

import (
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gravitational/trace"
	"github.com/oklog/ulid/v2"
)

type UniqueIdentifierType string

const ua = "caelisco/tourl/v1.0.0"

// IdentifierNone is not the zero value, so an explicit "none" survives Merge.
const (
	IdentifierNone UniqueIdentifierType = "none"
	IdentifierUUID UniqueIdentifierType = "uuid"
	IdentifierULID UniqueIdentifierType = "ulid"
)

// Option configures a conversion run and, when the result is delivered over
// HTTP, the request that carries it. If no options are provided a default
// configuration is generated by New.
type Option struct {
	Verbose               bool                                      // Whether logging should be verbose or not
	Logger                *slog.Logger                              // Logging - default uses the slog TextHandler on stderr
	Header                http.Header                               // Headers to be included in delivery requests
	ProtocolScheme        string                                    // Scheme added to delivery URLs without one. It defaults to https
	Compression           CompressionType                           // Compression applied to written output and POST bodies
	CustomCompressionType CompressionType                           // Content-Encoding announced for CompressionCustom
	CustomCompressor      func(w io.Writer) (io.WriteCloser, error) // Function for custom compression
	UserAgent             string                                    // User Agent to send with delivery requests
	UniqueIdentifierType  UniqueIdentifierType                      // Identifier attached to each run and response
	Transport             *http.Transport                           // Transport used for delivery requests
	Output                Output                                    // Where the encoded string is written
	UploadBufferSize      *int                                      // Control the size of the buffer when uploading
	OnUploadProgress      func(bytesSent, totalBytes int64)         // To monitor progress when posting the result
	OnReadProgress        func(bytesRead, totalBytes int64)         // To monitor progress when reading input
}

// New creates a default Option. If an Option is provided it is merged into
// the defaults, with the provided values taking precedence.
func New(opts ...*Option) *Option {
	opt := &Option{
		Verbose:              false,
		Logger:               slog.New(slog.NewTextHandler(os.Stderr, nil)),
		Header:               http.Header{},
		Compression:          CompressionNone,
		UserAgent:            ua,
		UniqueIdentifierType: IdentifierULID,
		Transport:            defaultTransport(),
		Output: Output{
			Type: WriteToBuffer,
		},
	}

	if len(opts) > 0 && opts[0] != nil {
		opt.Merge(opts[0])
	}

	return opt
}

// LogVerbose logs msg at INFO level when verbose logging is enabled.
func (opt *Option) LogVerbose(msg string, args ...any) {
	if opt.Verbose && opt.Logger != nil {
		opt.Logger.Info(msg, args...)
	}
}

// EnableLogging turns on verbose logging.
func (opt *Option) EnableLogging() {
	opt.Verbose = true
}

// DisableLogging turns off verbose logging.
func (opt *Option) DisableLogging() {
	opt.Verbose = false
}

// UseTextLogger switches to a text logger on stderr and enables verbose logging.
func (opt *Option) UseTextLogger() {
	opt.Verbose = true
	opt.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// UseJsonLogger switches to a JSON logger on stderr and enables verbose logging.
func (opt *Option) UseJsonLogger() {
	opt.Verbose = true
	opt.Logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

// SetLogger installs a custom logger and enables verbose logging.
func (opt *Option) SetLogger(logger *slog.Logger) {
	opt.Verbose = true
	opt.Logger = logger
}

// AddHeader adds a header sent with delivery requests.
func (opt *Option) AddHeader(key string, value string) {
	if opt.Header == nil {
		opt.Header = http.Header{}
	}
	opt.Header.Add(key, value)
}

// SetProtocolScheme sets the scheme used for delivery URLs that lack one.
// "://" is appended when missing.
func (opt *Option) SetProtocolScheme(scheme string) {
	if !strings.HasSuffix(scheme, "://") {
		scheme += "://"
	}
	opt.ProtocolScheme = scheme
}

// SetUploadBufferSize sets the copy buffer used when posting. Non-positive
// sizes are ignored.
func (opt *Option) SetUploadBufferSize(size int) {
	if size > 0 {
		opt.UploadBufferSize = &size
	}
}

// GenerateIdentifier returns a UUID or ULID string, or "" when no
// identifier type is configured.
func (opt *Option) GenerateIdentifier() string {
	switch opt.UniqueIdentifierType {
	case IdentifierUUID:
		return uuid.New().String()
	case IdentifierULID:
		return ulid.Make().String()
	}
	return ""
}

// ParseIdentifier converts a flag or environment value into an identifier type.
func ParseIdentifier(s string) (UniqueIdentifierType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return IdentifierNone, nil
	case "uuid":
		return IdentifierUUID, nil
	case "ulid":
		return IdentifierULID, nil
	}
	return IdentifierNone, trace.BadParameter("unknown identifier type %q", s)
}

// Merge copies the settings of src into opt. Values set in src take
// precedence; zero values in src leave opt unchanged, except for Verbose
// which is always taken from src.
func (opt *Option) Merge(src *Option) {
	if opt.Header == nil {
		opt.Header = make(http.Header)
	}
	for key, values := range src.Header {
		opt.Header[key] = values
	}

	opt.Verbose = src.Verbose

	if src.Logger != nil {
		opt.Logger = src.Logger
	}

	if src.Transport != nil {
		opt.Transport = src.Transport
	}

	if src.Output.Type != "" {
		opt.Output = src.Output
	}

	if src.ProtocolScheme != "" {
		opt.ProtocolScheme = src.ProtocolScheme
	}

	if src.Compression != "" {
		opt.Compression = src.Compression
	}

	if src.CustomCompressionType != "" {
		opt.CustomCompressionType = src.CustomCompressionType
	}

	if src.CustomCompressor != nil {
		opt.CustomCompressor = src.CustomCompressor
	}

	if src.UserAgent != "" {
		opt.UserAgent = src.UserAgent
	}

	if src.UniqueIdentifierType != "" {
		opt.UniqueIdentifierType = src.UniqueIdentifierType
	}

	if src.UploadBufferSize != nil {
		opt.UploadBufferSize = src.UploadBufferSize
	}

	if src.OnUploadProgress != nil {
		opt.OnUploadProgress = src.OnUploadProgress
	}

	if src.OnReadProgress != nil {
		opt.OnReadProgress = src.OnReadProgress
	}
}

// defaultTransport returns a transport with conservative timeouts. A
// delivery is a single small request, so the pool is kept small.
func defaultTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   15 * time.Second,
			KeepAlive: 15 * time.Second,
		}).DialContext,
		MaxIdleConns:          4,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
}
