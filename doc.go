// Package httptiny is a minimal HTTP/1.1 client: it opens one
// connection per request (directly, through a forward proxy, or over
// TLS), serializes the request, parses the response and follows
// redirects, under a single deadline and optional body size limit.
//
// Failures never surface as errors from [Client.Request]. Every
// transport or protocol failure is mapped into a synthetic response
// with status 599 and the failure description as its content.
//
// There are no persistent connections, no HTTP/2, no cookie jar and
// no request URL escaping: callers pass already-escaped URLs.
package httptiny
