package httptiny

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/RsrchBoy/p5-http-tiny/conn"
	"github.com/RsrchBoy/p5-http-tiny/urlx"
	"github.com/RsrchBoy/p5-http-tiny/wire"
	"github.com/RsrchBoy/p5-http-tiny/wire/chunked"
	"github.com/pkg/errors"
)

// attempt performs one full connect/write/read cycle against the
// current hop. The connection is closed on every exit path.
func (c *Client) attempt(state *redirectState, opts *RequestOptions, deadline time.Time) (*Response, error) {
	u := state.url
	useTLS := u.Scheme == "https"

	if c.proxyErr != nil {
		return nil, c.proxyErr
	}

	peer := u.HostPort()
	target := u.RequestTarget()
	proxied := false

	if c.proxy != nil {
		if useTLS {
			return nil, ErrProxyHTTPSUnsupported
		}
		// Plain http goes through the proxy with an absolute-URI
		// target. No CONNECT tunnel is needed.
		peer = c.proxy.HostPort()
		target = u.String()
		proxied = true
	}

	var tlsCfg *conn.TLSConfig
	if useTLS {
		if c.caErr != nil {
			return nil, c.caErr
		}

		serverName := c.opts.SSLServerName
		if serverName == "" {
			serverName = u.Host
		}

		tlsCfg = &conn.TLSConfig{
			Verify:     c.opts.VerifySSL,
			RootCAs:    c.rootCAs,
			ServerName: serverName,
			MinVersion: c.opts.SSLMinVersion,
		}
	}

	c.logger.Debug("dialing",
		slog.String("peer", peer),
		slog.Bool("tls", useTLS),
		slog.Bool("proxied", proxied),
	)

	cn, err := conn.Dial(conn.DialConfig{
		HostPort:  peer,
		TLS:       tlsCfg,
		LocalAddr: c.opts.LocalAddr,
		Deadline:  deadline,
	})
	if err != nil {
		return nil, err
	}
	defer cn.Close()

	headers := c.buildHeaders(state, opts)

	if err := writeRequest(cn, target, state, headers); err != nil {
		return nil, err
	}

	return c.readResponse(cn, state, opts)
}

// buildHeaders merges defaults and per-call overrides once, then
// synthesizes the fields the protocol requires.
func (c *Client) buildHeaders(state *redirectState, opts *RequestOptions) *wire.Header {
	u := state.url

	h := c.opts.DefaultHeaders.Clone()
	h.Merge(opts.Headers)

	if !h.Has("host") {
		h.Set("host", hostHeader(u))
	}
	if !h.Has("user-agent") {
		h.Set("user-agent", c.opts.Agent)
	}
	if u.UserInfo != "" && !h.Has("authorization") {
		cred := base64.StdEncoding.EncodeToString([]byte(u.UserInfo))
		h.Set("authorization", "Basic "+cred)
	}

	// Connections are never reused.
	h.Set("connection", "close")

	switch state.body.kind {
	case bodyFixed:
		h.Set("content-length", strconv.Itoa(len(state.body.fixed)))
		h.Del("transfer-encoding")
	case bodyStreamed:
		// Length is unknown up front, so the body goes out chunked.
		h.Set("transfer-encoding", "chunked")
		h.Del("content-length")
	default:
		h.Del("content-length")
		h.Del("transfer-encoding")
	}

	return h
}

func hostHeader(u urlx.URL) string {
	if u.Port == urlx.DefaultPort(u.Scheme) {
		return u.Host
	}
	return u.HostPort()
}

// writeRequest serializes the request line and headers, then streams
// the body: fixed bytes directly, a producer through the chunked coder
// with each chunk flushed as produced.
func writeRequest(cn *conn.Conn, target string, state *redirectState, headers *wire.Header) error {
	bw := bufio.NewWriter(cn)

	line := bytes.NewBuffer(nil)
	line.WriteString(state.method)
	line.WriteByte(wire.SP)
	line.WriteString(target)
	line.WriteByte(wire.SP)
	line.Write(wire.Version{1, 1}.Text())

	if err := wire.WriteLine(bw, line.Bytes()); err != nil {
		return errors.Wrap(err, "writing request line")
	}

	for _, field := range headers.Fields() {
		if err := wire.WriteLine(bw, field.Text()); err != nil {
			return errors.Wrap(err, "writing header field")
		}
	}
	if err := wire.WriteLine(bw, nil); err != nil {
		return errors.Wrap(err, "writing header terminator")
	}

	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "flushing request head")
	}

	switch state.body.kind {
	case bodyFixed:
		if len(state.body.fixed) == 0 {
			return nil
		}
		if _, err := cn.Write(state.body.fixed); err != nil {
			return errors.Wrap(err, "writing request body")
		}

	case bodyStreamed:
		// Unbuffered on purpose: each produced chunk goes out as one
		// flushed frame.
		cw := chunked.NewWriter(cn, state.trailers)
		for {
			chunk, err := state.body.next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return errors.Wrap(err, "pulling request body chunk")
			}

			if _, err := cw.Write(chunk); err != nil {
				return errors.Wrap(err, "writing request body chunk")
			}
		}

		if err := cw.Close(); err != nil {
			return errors.Wrap(err, "terminating chunked request body")
		}
	}

	return nil
}
