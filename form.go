package httptiny

import (
	"strings"

	"github.com/RsrchBoy/p5-http-tiny/urlx"
	"github.com/RsrchBoy/p5-http-tiny/wire"
)

// FormField is one key/value pair of a form payload. Order is
// preserved in the encoded output.
type FormField struct{ Key, Value string }

// WWWFormURLEncode serializes form fields as
// application/x-www-form-urlencoded, in the given order.
func WWWFormURLEncode(form []FormField) string {
	b := new(strings.Builder)
	for i, f := range form {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(urlx.FormEscape(f.Key))
		b.WriteByte('=')
		b.WriteString(urlx.FormEscape(f.Value))
	}
	return b.String()
}

// PostForm issues a POST with a www-form-urlencoded body built from
// form. Any caller-supplied content-type header is replaced.
func (c *Client) PostForm(url string, form []FormField, opts *RequestOptions) *Response {
	callOpts := RequestOptions{}
	if opts != nil {
		callOpts = *opts
	}

	headers := wire.NewHeader()
	if callOpts.Headers != nil {
		headers = callOpts.Headers.Clone()
	}
	headers.Set("content-type", "application/x-www-form-urlencoded")

	callOpts.Headers = headers
	callOpts.Body = BodyBytes([]byte(WWWFormURLEncode(form)))

	return c.Request("POST", url, &callOpts)
}
