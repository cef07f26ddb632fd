// Package conn owns one socket bound to a peer for the duration of a
// single request attempt. Connections are never reused.
package conn

import (
	"crypto/tls"
	"crypto/x509"
	"net"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

var (
	// ErrConnect covers DNS, bind and connect failures.
	ErrConnect = errors.New("connection failed")
	// ErrTLS covers handshake and certificate verification failures.
	ErrTLS = errors.New("tls failure")
	// ErrTimeout is reported when the request deadline expires.
	ErrTimeout = errors.New("request timed out")
	// ErrWrite is reported when sending request bytes fails.
	ErrWrite = errors.New("writing to socket failed")
)

// TLSConfig controls the handshake performed for https peers.
type TLSConfig struct {
	// Verify enables certificate chain validation and hostname checks.
	Verify bool
	// RootCAs is the CA bundle used when Verify is set. Nil falls back
	// to the system pool.
	RootCAs *x509.CertPool
	// ServerName is the identity checked against the certificate.
	ServerName string
	MinVersion uint16
}

// DialConfig describes one connection attempt. Deadline bounds the
// connect, the handshake and every read/write on the resulting Conn.
type DialConfig struct {
	HostPort  string
	TLS       *TLSConfig // nil means plain tcp
	LocalAddr string     // optional bind address, "ip" or "ip:port"
	Deadline  time.Time
}

// Conn is a plain or TLS-wrapped socket with EINTR-transparent reads
// and writes, all bounded by the deadline set at dial time.
type Conn struct {
	raw net.Conn

	// TLS reports whether the socket is TLS-wrapped.
	TLS bool
}

// Wrap adopts an established socket. Used by Dial and by tests.
func Wrap(raw net.Conn) *Conn { return &Conn{raw: raw} }

// Dial opens a stream to cfg.HostPort and, for https peers, performs
// the TLS handshake.
func Dial(cfg DialConfig) (*Conn, error) {
	dialer := net.Dialer{Deadline: cfg.Deadline}

	if cfg.LocalAddr != "" {
		local, err := resolveLocalAddr(cfg.LocalAddr)
		if err != nil {
			return nil, errors.Wrapf(ErrConnect, "resolving local address %q: %v", cfg.LocalAddr, err)
		}
		dialer.LocalAddr = local
	}

	raw, err := dialer.Dial("tcp", cfg.HostPort)
	if err != nil {
		if isTimeout(err) {
			return nil, errors.Wrapf(ErrTimeout, "connecting to %s: %v", cfg.HostPort, err)
		}
		return nil, errors.Wrapf(ErrConnect, "connecting to %s: %v", cfg.HostPort, err)
	}

	if err := raw.SetDeadline(cfg.Deadline); err != nil {
		raw.Close()
		return nil, errors.Wrapf(ErrConnect, "setting deadline: %v", err)
	}

	c := Wrap(raw)

	if cfg.TLS != nil {
		if err := c.upgradeTLS(cfg.TLS); err != nil {
			raw.Close()
			return nil, err
		}
	}

	return c, nil
}

func (c *Conn) upgradeTLS(cfg *TLSConfig) error {
	tlsConf := &tls.Config{
		ServerName:         cfg.ServerName,
		RootCAs:            cfg.RootCAs,
		InsecureSkipVerify: !cfg.Verify,
		MinVersion:         cfg.MinVersion,
	}

	tlsConn := tls.Client(c.raw, tlsConf)
	if err := tlsConn.Handshake(); err != nil {
		if isTimeout(err) {
			return errors.Wrapf(ErrTimeout, "tls handshake: %v", err)
		}
		return errors.Wrapf(ErrTLS, "handshake with %s: %v", cfg.ServerName, err)
	}

	c.raw = tlsConn
	c.TLS = true

	return nil
}

// Read retries interrupted system calls in place; the deadline set at
// dial time is not extended by retries.
func (c *Conn) Read(p []byte) (int, error) {
	for {
		n, err := c.raw.Read(p)
		if err != nil && interrupted(err) && n == 0 {
			continue
		}
		if err != nil && isTimeout(err) {
			return n, errors.Wrapf(ErrTimeout, "reading: %v", err)
		}
		return n, err
	}
}

// Write sends all of p, resuming after interrupted or partial writes.
func (c *Conn) Write(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := c.raw.Write(p[total:])
		total += n
		if err != nil {
			if interrupted(err) {
				continue
			}
			if isTimeout(err) {
				return total, errors.Wrapf(ErrTimeout, "writing: %v", err)
			}
			return total, errors.Wrapf(ErrWrite, "%v", err)
		}
	}
	return total, nil
}

func (c *Conn) Close() error { return c.raw.Close() }

func interrupted(err error) bool { return errors.Is(err, unix.EINTR) }

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

// ConnReset reports whether err is a peer reset. For close-delimited
// bodies a reset cannot be told apart from a well-formed close, so
// callers treat it as end of body.
func ConnReset(err error) bool {
	return errors.Is(err, unix.ECONNRESET) || errors.Is(err, unix.EPIPE)
}

// LoadCABundle reads a PEM CA bundle for certificate verification.
func LoadCABundle(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrTLS, "reading CA bundle: %v", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.Wrapf(ErrTLS, "no certificates found in %s", path)
	}

	return pool, nil
}

func resolveLocalAddr(addr string) (net.Addr, error) {
	if !strings.Contains(addr, ":") {
		addr += ":0"
	}
	return net.ResolveTCPAddr("tcp", addr)
}
