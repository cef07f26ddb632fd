package httptiny

import "github.com/RsrchBoy/p5-http-tiny/wire"

type bodyKind uint8

const (
	bodyEmpty bodyKind = iota
	bodyFixed
	bodyStreamed
)

// Body is the request payload: nothing, a fixed byte sequence, or a
// pull-based producer. The variant decides the framing on the wire:
// fixed bytes go out with Content-Length, a producer goes out chunked.
type Body struct {
	kind  bodyKind
	fixed []byte
	next  func() ([]byte, error)
}

// NoBody is a request without a payload.
func NoBody() Body { return Body{} }

// BodyBytes is a fixed payload sent with a computed Content-Length.
// An empty (non-nil) slice still sends "Content-Length: 0".
func BodyBytes(b []byte) Body { return Body{kind: bodyFixed, fixed: b} }

// BodyStream is a payload produced chunk by chunk. next returns io.EOF
// once exhausted; empty chunks are skipped, they do not end the body.
// The payload is sent with chunked transfer coding.
func BodyStream(next func() ([]byte, error)) Body {
	return Body{kind: bodyStreamed, next: next}
}

func (b Body) isEmpty() bool { return b.kind == bodyEmpty }

// TrailerFunc supplies trailer fields, invoked once after a streamed
// body is exhausted. Ignored unless the body goes out chunked.
type TrailerFunc func() []wire.Field

// DataSink receives the body bytes of a successful (2xx) response
// incrementally instead of letting them accumulate in
// [Response.Content]. Redirect hops and error responses never reach
// the sink; their bodies are buffered as usual, MaxSize included. The
// response passed in is partially populated: status and headers are
// final, Content is not. Returning an error aborts the request.
type DataSink func(res *Response, chunk []byte) error
