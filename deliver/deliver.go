// Package deliver sends an encoded query string to an HTTP endpoint, either
// appended to a GET URL or as an application/x-www-form-urlencoded POST body.
package deliver

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gravitational/trace"

	"github.com/caelisco/tourl/options"
	"github.com/caelisco/tourl/response"
)

const (
	ContentType    string = "Content-Type"
	FormURLEncoded string = "application/x-www-form-urlencoded"
)

// Get appends query to base and performs an HTTP GET against the result.
func Get(ctx context.Context, base string, query string, opts ...*options.Option) (response.Response, error) {
	opt := options.New(opts...)

	url, err := AppendQuery(base, query, opt.ProtocolScheme)
	if err != nil {
		return response.Response{}, trace.Wrap(err, "supplied url is not valid")
	}

	return doRequest(ctx, http.MethodGet, url, query, nil, opt)
}

// Post sends query as the form-encoded body of an HTTP POST to url. The
// body is compressed when the options ask for it.
func Post(ctx context.Context, url string, query string, opts ...*options.Option) (response.Response, error) {
	opt := options.New(opts...)

	url, err := normaliseURL(url, opt.ProtocolScheme)
	if err != nil {
		return response.Response{}, trace.Wrap(err, "supplied url is not valid")
	}

	return doRequest(ctx, http.MethodPost, url, query, strings.NewReader(query), opt)
}

// doRequest performs the request and buffers the response body.
func doRequest(ctx context.Context, method string, url string, query string, payload io.Reader, opt *options.Option) (response.Response, error) {
	st := time.Now()
	resp := response.New(url, method, query, opt)

	header := opt.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set("User-Agent", opt.UserAgent)

	var body io.Reader
	if payload != nil {
		header.Set(ContentType, FormURLEncoded)
		total := int64(len(query))

		if opt.OnUploadProgress != nil {
			payload = options.NewProgressReader(payload, total, opt.OnUploadProgress)
		}

		if opt.Compressed() {
			opt.LogVerbose("compressing body", "id", resp.UniqueIdentifier, "compression", opt.Compression)
			body = compressBody(payload, opt)
			header.Set("Content-Encoding", opt.ContentEncoding())
		} else {
			body = payload
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		resp.Error = err
		return resp, trace.Wrap(err)
	}
	req.Header = header
	if body != nil && !opt.Compressed() {
		req.ContentLength = int64(len(query))
	}

	client := &http.Client{
		Transport: opt.Transport,
		// Redirects would turn a POST into a GET and drop the body.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			opt.LogVerbose("not following redirect", "id", resp.UniqueIdentifier, "location", req.URL.String())
			return http.ErrUseLastResponse
		},
	}

	opt.LogVerbose("sending request", "id", resp.UniqueIdentifier, "url", url, "method", method)
	resp.RequestTime = time.Now().Unix()
	r, err := client.Do(req)
	if err != nil {
		resp.Error = err
		return resp, trace.Wrap(err)
	}
	defer r.Body.Close()
	resp.ResponseTime = time.Now().Unix()

	if _, err := io.Copy(&resp.Body, r.Body); err != nil {
		resp.Error = err
		return resp, trace.Wrap(err, "reading response body")
	}

	resp.PopulateResponse(r, st)
	opt.LogVerbose("response received",
		"id", resp.UniqueIdentifier,
		"status", resp.Status,
		"content-length", resp.ContentLength,
		"elapsed", resp.AccessTime)

	return resp, nil
}

// compressBody streams payload through the configured compressor. The
// size is unknown up front, so the request is sent chunked.
func compressBody(payload io.Reader, opt *options.Option) io.Reader {
	pr, pw := io.Pipe()

	go func() {
		compressor, err := opt.GetCompressor(pw)
		if err != nil {
			pw.CloseWithError(trace.Wrap(err))
			return
		}

		if opt.UploadBufferSize != nil {
			buf := make([]byte, *opt.UploadBufferSize)
			_, err = io.CopyBuffer(compressor, payload, buf)
		} else {
			_, err = io.Copy(compressor, payload)
		}
		if err != nil {
			compressor.Close()
			pw.CloseWithError(trace.Wrap(err, "compression error during copy"))
			return
		}

		if err := compressor.Close(); err != nil {
			pw.CloseWithError(trace.Wrap(err, "flushing compressor"))
			return
		}
		pw.Close()
	}()

	return pr
}
