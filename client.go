package httptiny

import (
	"crypto/x509"
	"log/slog"

	"github.com/RsrchBoy/p5-http-tiny/conn"
	"github.com/RsrchBoy/p5-http-tiny/urlx"
	"github.com/RsrchBoy/p5-http-tiny/wire"
	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

// Client issues HTTP/1.1 requests. It opens a fresh connection per
// attempt and never pools. A Client carries no mutable per-request
// state, so it is safe for use from multiple goroutines.
type Client struct {
	opts Options

	proxy    *urlx.URL
	proxyErr error

	rootCAs *x509.CertPool
	caErr   error

	logger *slog.Logger
	clock  clock.Clock
}

// New creates a Client. logger may be nil for the default logger,
// clk may be nil for the wall clock. The proxy setting and the CA
// bundle are resolved once, here; failures in either surface as 599
// responses on the requests that would need them.
func New(logger *slog.Logger, clk clock.Clock, opts Options) *Client {
	opts.setDefault()

	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.New()
	}

	c := &Client{
		opts:   opts,
		logger: logger,
		clock:  clk,
	}

	rawProxy := opts.Proxy
	if rawProxy == "" && !opts.DisableProxy {
		rawProxy = proxyFromEnv()
	}
	if rawProxy != "" && !opts.DisableProxy {
		proxy, err := urlx.Parse(rawProxy)
		if err != nil {
			c.proxyErr = errors.Wrapf(err, "invalid proxy url %q", rawProxy)
		} else {
			c.proxy = &proxy
		}
	}

	if opts.VerifySSL && opts.CAFile != "" {
		pool, err := conn.LoadCABundle(opts.CAFile)
		if err != nil {
			c.caErr = err
		} else {
			c.rootCAs = pool
		}
	}

	return c
}

// RequestOptions are the per-call knobs of [Client.Request].
type RequestOptions struct {
	// Headers override client default headers of the same name.
	Headers *wire.Header

	Body Body

	// Trailers supplies trailer fields after a streamed body.
	Trailers TrailerFunc

	// DataSink receives 2xx body bytes incrementally. While it is
	// consuming a body, Content stays empty and MaxSize is not
	// enforced; non-2xx bodies are buffered as if no sink were set.
	DataSink DataSink
}

// Request performs one method/url exchange, following redirects. It
// never fails with an error: any transport or protocol failure is
// returned as a 599 pseudo-response whose content describes it.
func (c *Client) Request(method, rawURL string, opts *RequestOptions) *Response {
	if opts == nil {
		opts = &RequestOptions{}
	}

	res, err := c.do(method, rawURL, opts)
	if err != nil {
		c.logger.Debug("request failed",
			slog.String("method", method),
			slog.String("url", rawURL),
			slog.String("error", err.Error()),
		)
		return errorResponse(rawURL, err)
	}

	return res
}

// Get issues a GET request.
func (c *Client) Get(url string, opts *RequestOptions) *Response {
	return c.Request("GET", url, opts)
}

// Head issues a HEAD request.
func (c *Client) Head(url string, opts *RequestOptions) *Response {
	return c.Request("HEAD", url, opts)
}

// Post issues a POST request.
func (c *Client) Post(url string, opts *RequestOptions) *Response {
	return c.Request("POST", url, opts)
}

// Put issues a PUT request.
func (c *Client) Put(url string, opts *RequestOptions) *Response {
	return c.Request("PUT", url, opts)
}

// Delete issues a DELETE request.
func (c *Client) Delete(url string, opts *RequestOptions) *Response {
	return c.Request("DELETE", url, opts)
}
