package httptiny

import "github.com/pkg/errors"

var (
	// ErrProxyHTTPSUnsupported is reported when a forward proxy is
	// configured and the origin is https. Tunneling is not supported.
	ErrProxyHTTPSUnsupported = errors.New("proxying https requests is not supported")

	// ErrTruncatedResponse is reported when the peer closes before the
	// declared Content-Length is satisfied, or mid-chunk.
	ErrTruncatedResponse = errors.New("response truncated by peer")

	// ErrMaxSizeExceeded is reported when the buffered response body
	// would exceed the configured maximum size.
	ErrMaxSizeExceeded = errors.New("size of response body exceeds the maximum allowed")
)
