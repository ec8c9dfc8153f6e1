package tourl

import (
	"context"

	"github.com/caelisco/tourl/deliver"
	"github.com/caelisco/tourl/options"
	"github.com/caelisco/tourl/response"
	"github.com/caelisco/tourl/value"
)

// Client converts values and delivers the results. It keeps every
// delivery response until Clear is called.
type Client struct {
	global    *options.Option     // Options applied to every call.
	responses []response.Response // Store responses for reference.
}

// New returns a reusable Client.
// It is possible to include a global Option which will be used on all subsequent calls.
func New(opts ...*options.Option) *Client {
	return &Client{
		global: options.New(opts...),
	}
}

// GetGlobalOptions returns the global Option of the client.
func (c *Client) GetGlobalOptions() *options.Option {
	return c.global
}

// UpdateGlobalOptions replaces the global Option of the client.
func (c *Client) UpdateGlobalOptions(opt *options.Option) {
	c.global = options.New(opt)
}

// CloneGlobalOptions returns a copy of the global Option that can be
// changed without affecting the client.
func (c *Client) CloneGlobalOptions() *options.Option {
	opt := options.New(c.global)
	opt.Header = c.global.Header.Clone()
	return opt
}

// Clear clears any Responses that have already been made and kept.
func (c *Client) Clear() {
	c.responses = nil
}

// Responses returns the responses of every delivery made by this Client.
func (c *Client) Responses() []response.Response {
	return c.responses
}

// Encode converts v, a record or a list of records. The span of v is used
// as the call site in errors.
func (c *Client) Encode(v value.Value, opts ...*options.Option) (value.String, error) {
	return Encode(value.Iterate(v), pos(v), c.options(opts...))
}

// Get encodes v and appends the result to the query of base.
func (c *Client) Get(ctx context.Context, base string, v value.Value, opts ...*options.Option) (response.Response, error) {
	opt := c.options(opts...)
	s, err := Encode(value.Iterate(v), pos(v), opt)
	if err != nil {
		return response.Response{}, err
	}
	return c.keep(deliver.Get(ctx, base, s.Val, opt))
}

// Post encodes v and sends the result as a form body to url.
func (c *Client) Post(ctx context.Context, url string, v value.Value, opts ...*options.Option) (response.Response, error) {
	opt := c.options(opts...)
	s, err := Encode(value.Iterate(v), pos(v), opt)
	if err != nil {
		return response.Response{}, err
	}
	return c.keep(deliver.Post(ctx, url, s.Val, opt))
}

// options merges the local Option over a clone of the global one. Local
// settings take priority.
func (c *Client) options(opts ...*options.Option) *options.Option {
	opt := c.CloneGlobalOptions()
	if len(opts) > 0 && opts[0] != nil {
		opt.Merge(opts[0])
	}
	return opt
}

func pos(v value.Value) value.Span {
	if v == nil {
		return value.UnknownSpan()
	}
	return v.Pos()
}

func (c *Client) keep(resp response.Response, err error) (response.Response, error) {
	c.responses = append(c.responses, resp)
	return resp, err
}
