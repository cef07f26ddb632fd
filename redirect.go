package httptiny

import (
	"log/slog"

	"github.com/RsrchBoy/p5-http-tiny/urlx"
	"github.com/pkg/errors"
)

// do drives one or more request/response cycles under a single
// deadline, applying the redirect policy between hops. Any failure on
// any hop aborts the whole chain.
func (c *Client) do(method, rawURL string, opts *RequestOptions) (*Response, error) {
	u, err := urlx.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	state := redirectState{
		url:      u,
		method:   method,
		body:     opts.Body,
		trailers: opts.Trailers,
	}

	deadline := c.clock.Now().Add(c.opts.Timeout)

	for {
		res, err := c.attempt(&state, opts, deadline)
		if err != nil {
			return nil, err
		}

		location, follow := c.nextLocation(res, &state)
		if !follow {
			return res, nil
		}

		next, err := urlx.Resolve(state.url, location)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving redirect location %q", location)
		}

		c.logger.Debug("following redirect",
			slog.Int("status", res.Status),
			slog.Int("hop", int(state.hops)+1),
			slog.String("location", next.String()),
		)

		if res.Status == 303 {
			// 303 demotes the next hop to a bodyless GET.
			state.method = "GET"
			state.body = NoBody()
			state.trailers = nil
		}

		state.url = next
		state.hops++
	}
}

// redirectState lives for the duration of one Request call.
type redirectState struct {
	hops     uint
	url      urlx.URL
	method   string
	body     Body
	trailers TrailerFunc
}

// nextLocation decides whether res is a followable redirect. Anything
// not followed terminates the chain with res as the final response,
// including 3xx statuses outside {301,302,303,307} and redirects
// without a Location header.
func (c *Client) nextLocation(res *Response, state *redirectState) (string, bool) {
	if c.opts.MaxRedirect < 0 || state.hops >= uint(c.opts.MaxRedirect) {
		return "", false
	}

	switch res.Status {
	case 301, 302, 307:
		// Only safe methods are re-sent automatically.
		if state.method != "GET" && state.method != "HEAD" {
			return "", false
		}
	case 303:
	default:
		return "", false
	}

	location, ok := res.Headers.Get("location")
	if !ok {
		return "", false
	}

	return location, true
}
