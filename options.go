package httptiny

import (
	"os"
	"time"

	"github.com/RsrchBoy/p5-http-tiny/wire"
)

// Version of the library, used in the default agent string.
const Version = "1.0.0"

const (
	defaultTimeout     = 60 * time.Second
	defaultMaxRedirect = 5
)

// Options configures a [Client]. The zero value is usable.
type Options struct {
	// Agent is the User-Agent header value unless overridden per call.
	Agent string

	// DefaultHeaders are sent on every request. Per-call headers with
	// the same (case-insensitive) name take precedence.
	DefaultHeaders *wire.Header

	// Proxy is a forward proxy URL for plain-http origins. Empty means
	// the http_proxy / HTTP_PROXY environment setting, resolved once
	// at construction. DisableProxy ignores both.
	Proxy        string
	DisableProxy bool

	// MaxRedirect bounds the number of followed hops. Zero means the
	// default of 5; a negative value disables following entirely.
	MaxRedirect int

	// MaxSize, when non-zero, aborts any response whose buffered body
	// would exceed it. Bodies handed to a DataSink are exempt; bodies
	// buffered despite a sink (redirect hops, non-2xx) are not.
	MaxSize uint

	// Timeout bounds one whole Request call, from first connect to
	// last body byte, across all redirect hops. Zero means 60s.
	Timeout time.Duration

	// VerifySSL enables certificate chain and hostname verification
	// for https peers. CAFile optionally names the PEM bundle to
	// verify against; empty falls back to the system pool.
	VerifySSL bool
	CAFile    string

	// SSLServerName overrides the identity checked against the server
	// certificate. Defaults to the request host.
	SSLServerName string
	// SSLMinVersion is a crypto/tls VersionTLSxx constant, zero for
	// the library default.
	SSLMinVersion uint16

	// LocalAddr optionally binds the local side of each connection,
	// "ip" or "ip:port".
	LocalAddr string
}

func (o *Options) setDefault() {
	if o.Agent == "" {
		o.Agent = "httptiny/" + Version
	}
	if o.DefaultHeaders == nil {
		o.DefaultHeaders = wire.NewHeader()
	}
	if o.MaxRedirect == 0 {
		o.MaxRedirect = defaultMaxRedirect
	}
	if o.Timeout == 0 {
		o.Timeout = defaultTimeout
	}
}

// proxyFromEnv reads the conventional environment setting, lowercase
// name first.
func proxyFromEnv() string {
	if v := os.Getenv("http_proxy"); v != "" {
		return v
	}
	return os.Getenv("HTTP_PROXY")
}
