package response

import (
	"net/http"
	"time"

	"github.com/caelisco/tourl/options"
)

// Response records the outcome of delivering an encoded query to a server
type Response struct {
	UniqueIdentifier string                    // Unique ID for the delivery, generated internally
	URL              string                    // URL the request was made to
	Method           string                    // HTTP method used (GET or POST)
	Query            string                    // Encoded query that was delivered
	CompressionType  options.CompressionType   // Compression applied to the request body
	RequestTime      int64                     // Timestamp of when the request was sent
	ResponseTime     int64                     // Timestamp of when the response arrived
	Status           string                    // HTTP status message (e.g., "200 OK")
	StatusCode       int                       // HTTP status code (e.g., 200, 404)
	Proto            string                    // Protocol used (e.g., HTTP/1.1)
	Header           http.Header               // Headers included in the response
	ContentLength    int64                     // Length of the response content
	AccessTime       time.Duration             // Time taken to complete the request
	Body             options.WriteCloserBuffer // The response body as a buffer
	Error            error                     // Any error encountered during the request
}

// New initializes a Response for a request about to be made.
func New(url string, method string, query string, opt *options.Option) Response {
	return Response{
		UniqueIdentifier: opt.GenerateIdentifier(),
		URL:              url,
		Method:           method,
		Query:            query,
		CompressionType:  opt.Compression,
		Body:             *options.NewWriteCloserBuffer(),
	}
}

// Bytes returns the response body as a byte slice
func (r *Response) Bytes() []byte {
	if r.Body.IsEmpty() {
		return nil
	}
	return r.Body.Bytes()
}

// String returns the response body as a string
func (r *Response) String() string {
	if r.Body.IsEmpty() {
		return ""
	}
	return r.Body.String()
}

// Len returns the length of the response body, or -1 when there is none.
func (r *Response) Len() int64 {
	if r.Body.IsEmpty() {
		return -1
	}
	return int64(r.Body.Len())
}

// PopulateResponse copies the status line and headers of resp.
func (r *Response) PopulateResponse(resp *http.Response, start time.Time) {
	r.Status = resp.Status
	r.StatusCode = resp.StatusCode
	r.Proto = resp.Proto
	r.Header = resp.Header
	r.ContentLength = resp.ContentLength
	r.AccessTime = time.Since(start)
}
