package httptiny

import "github.com/RsrchBoy/p5-http-tiny/wire"

// StatusInternalException is the pseudo-status used to report
// transport and protocol failures through the same Response shape as
// real server replies. No real server sends it.
const StatusInternalException = 599

const reasonInternalException = "Internal Exception"

// Response is the outcome of one request, including every redirect
// hop. It is built incrementally: a data sink sees it with status and
// headers populated before any body byte arrives.
type Response struct {
	// URL is the URL of the last hop actually requested, which
	// differs from the original URL when redirects were followed.
	URL string

	Status   int
	Reason   string
	Protocol string

	// Headers holds the response fields, lowercase names, repeated
	// values preserved in order. Trailer fields from a chunked body
	// are merged in once the body is fully read.
	Headers *wire.Header

	// Content is the accumulated body. It stays empty when a
	// DataSink consumed the body instead.
	Content []byte
}

// Success reports whether the status is in [200, 300).
func (r *Response) Success() bool {
	return r.Status >= 200 && r.Status < 300
}

func errorResponse(url string, err error) *Response {
	return &Response{
		URL:     url,
		Status:  StatusInternalException,
		Reason:  reasonInternalException,
		Headers: wire.NewHeader(),
		Content: []byte(err.Error()),
	}
}
