package urlx

import "strings"

func hex(c byte) (h [2]byte) {
	const hexSet = "0123456789ABCDEF"
	h[0] = hexSet[c>>4]
	h[1] = hexSet[c&0xF]
	return
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-2.3
func isUnreserved(c byte) bool {
	if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
		return true
	}
	switch c {
	case '-', '.', '_', '~':
		return true
	}
	return false
}

// FormEscape percent-encodes everything outside the RFC 3986 unreserved
// set, as needed for application/x-www-form-urlencoded payloads.
// A space becomes "%20", not "+".
func FormEscape(s string) string {
	b := new(strings.Builder)
	b.Grow(len(s))

	for idx := 0; idx < len(s); idx++ {
		c := s[idx]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		h := hex(c)
		b.Write([]byte{'%', h[0], h[1]})
	}

	return b.String()
}
