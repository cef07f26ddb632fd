package httptiny

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/RsrchBoy/p5-http-tiny/conn"
	"github.com/RsrchBoy/p5-http-tiny/wire"
	"github.com/RsrchBoy/p5-http-tiny/wire/chunked"
	"github.com/pkg/errors"
)

const readChunkSize = 32 * 1024

// readResponse parses the status line and headers, then streams the
// body into the caller's sink or the response buffer according to the
// negotiated framing.
func (c *Client) readResponse(cn *conn.Conn, state *redirectState, opts *RequestOptions) (*Response, error) {
	br := bufio.NewReader(cn)

	var stat wire.StatusLine
	for {
		line, err := wire.ReadLine(br)
		if err != nil {
			return nil, errors.Wrap(err, "reading status line")
		}

		stat, err = wire.ParseStatusLine(line)
		if err != nil {
			return nil, err
		}

		if stat.StatusCode < 200 {
			// Informational response. Discard it and its headers, the
			// real status line follows.
			if _, err := wire.ReadFieldBlock(br); err != nil {
				return nil, errors.Wrap(err, "discarding interim headers")
			}
			continue
		}

		break
	}

	fields, err := wire.ReadFieldBlock(br)
	if err != nil {
		return nil, errors.Wrap(err, "reading headers")
	}

	res := &Response{
		URL:      state.url.String(),
		Status:   stat.StatusCode,
		Reason:   stat.ReasonPhrase,
		Protocol: stat.Version.String(),
		Headers:  wire.HeaderFrom(fields),
	}

	if state.method == "HEAD" || res.Status == 204 || res.Status == 304 {
		// No body follows regardless of framing headers.
		return res, nil
	}

	// The sink only ever sees the payload the caller asked for.
	// Redirect and error bodies are buffered instead, with MaxSize
	// enforced as if no sink were set.
	sink := opts.DataSink
	if !res.Success() {
		sink = nil
	}

	body, closeDelimited, err := c.bodyReader(br, res, sink)
	if err != nil {
		return nil, err
	}

	if err := c.consumeBody(body, res, sink, closeDelimited); err != nil {
		return nil, err
	}

	return res, nil
}

// bodyReader selects the framing: chunked wins over Content-Length,
// and with neither the body runs until the connection closes (valid
// only because connections are never reused).
func (c *Client) bodyReader(br *bufio.Reader, res *Response, sink DataSink) (body io.Reader, closeDelimited bool, err error) {
	if isChunked(res.Headers) {
		onTrailer := func(fields []wire.Field) {
			for _, f := range fields {
				res.Headers.Add(f.Name, f.Value)
			}
		}
		return chunked.NewReader(br, onTrailer), false, nil
	}

	if raw, ok := res.Headers.Get("content-length"); ok {
		length, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, false, errors.Errorf("malformed content-length header: %q", raw)
		}

		if sink == nil && c.opts.MaxSize > 0 && length > uint64(c.opts.MaxSize) {
			return nil, false, errors.Wrapf(ErrMaxSizeExceeded,
				"declared content-length %d > %d", length, c.opts.MaxSize)
		}

		return &lengthReader{r: br, remain: length}, false, nil
	}

	return br, true, nil
}

func (c *Client) consumeBody(body io.Reader, res *Response, sink DataSink, closeDelimited bool) error {
	buf := make([]byte, readChunkSize)

	for {
		n, err := body.Read(buf)
		if n > 0 {
			if sink != nil {
				if serr := sink(res, buf[:n]); serr != nil {
					return errors.Wrap(serr, "data sink")
				}
			} else {
				if c.opts.MaxSize > 0 && uint(len(res.Content)+n) > c.opts.MaxSize {
					return errors.Wrapf(ErrMaxSizeExceeded, "of %d", c.opts.MaxSize)
				}
				res.Content = append(res.Content, buf[:n]...)
			}
		}

		if err == nil {
			continue
		}

		switch {
		case errors.Is(err, io.EOF):
			return nil
		case closeDelimited && conn.ConnReset(err):
			// A reset cannot be told apart from a well-formed close at
			// the wire level. Treat it as end of body.
			return nil
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.Wrapf(ErrTruncatedResponse, "%v", err)
		case conn.ConnReset(err):
			return errors.Wrapf(ErrTruncatedResponse, "peer reset: %v", err)
		default:
			return errors.Wrap(err, "reading response body")
		}
	}
}

// isChunked reports whether the final transfer coding is chunked.
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-6.1
func isChunked(h *wire.Header) bool {
	values, ok := h.Values("transfer-encoding")
	if !ok {
		return false
	}

	for _, v := range values {
		for _, coding := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(coding), "chunked") {
				return true
			}
		}
	}

	return false
}

// lengthReader reads exactly remain bytes, reporting a close before
// that as io.ErrUnexpectedEOF. Bytes beyond the declared length are
// never consumed from the connection.
type lengthReader struct {
	r      io.Reader
	remain uint64
}

func (l *lengthReader) Read(p []byte) (n int, err error) {
	if l.remain == 0 {
		return 0, io.EOF
	}
	if uint64(len(p)) > l.remain {
		p = p[:l.remain]
	}

	n, err = l.r.Read(p)
	l.remain -= uint64(n)

	if err != nil && errors.Is(err, io.EOF) && l.remain > 0 {
		err = io.ErrUnexpectedEOF
	}

	return n, err
}
