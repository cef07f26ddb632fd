package urlx

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformedURL is returned for anything that is not an absolute
// http/https URL with a non-empty host.
var ErrMalformedURL = errors.New("malformed url")

// URL is the parsed form of an absolute http(s) URL.
// PathQuery is kept verbatim: no percent-encoding, normalization or IDN
// handling happens here. Callers must pass already-escaped URLs.
type URL struct {
	Scheme   string
	UserInfo string
	Host     string
	Port     uint16
	// Path plus optional "?query", exactly as given.
	PathQuery string
}

// DefaultPort returns the well-known port for scheme, 0 if unknown.
func DefaultPort(scheme string) uint16 {
	switch scheme {
	case "http":
		return 80
	case "https":
		return 443
	}
	return 0
}

// Parse parses an absolute http/https URL. A fragment, if present, is
// stripped. The path and query are not unescaped.
func Parse(rawURL string) (URL, error) {
	if containsCTL(rawURL) {
		return URL{}, errors.Wrap(ErrMalformedURL, "url contains CTL bytes")
	}

	scheme, rest, found := strings.Cut(rawURL, "://")
	if !found {
		return URL{}, errors.Wrap(ErrMalformedURL, "url is not absolute")
	}

	scheme = strings.ToLower(scheme)
	if scheme != "http" && scheme != "https" {
		return URL{}, errors.Wrapf(ErrMalformedURL, "unsupported scheme %q", scheme)
	}

	u := URL{Scheme: scheme, Port: DefaultPort(scheme)}

	authority := rest
	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		authority, u.PathQuery = rest[:i], rest[i:]
	}

	// Strip the fragment. The original target keeps everything before it.
	if i := strings.IndexByte(u.PathQuery, '#'); i >= 0 {
		u.PathQuery = u.PathQuery[:i]
	}

	if i := strings.LastIndexByte(authority, '@'); i >= 0 {
		u.UserInfo, authority = authority[:i], authority[i+1:]
	}

	host := authority
	if i := strings.LastIndexByte(authority, ':'); i >= 0 {
		rawPort := authority[i+1:]
		port, err := parsePort(rawPort)
		if err != nil {
			return URL{}, errors.Wrapf(ErrMalformedURL, "invalid port %q", rawPort)
		}
		host, u.Port = authority[:i], port
	}

	if host == "" {
		return URL{}, errors.Wrap(ErrMalformedURL, "host is empty")
	}
	u.Host = strings.ToLower(host)

	return u, nil
}

func parsePort(raw string) (uint16, error) {
	port, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return 0, err
	}
	return uint16(port), nil
}

// RequestTarget is the origin-form target used verbatim on the request line.
func (u URL) RequestTarget() string {
	if u.PathQuery == "" {
		return "/"
	}
	return u.PathQuery
}

// HostPort is the "host:port" form used for dialing.
func (u URL) HostPort() string {
	return u.Host + ":" + strconv.FormatUint(uint64(u.Port), 10)
}

// String reserializes the URL. The port is omitted when it is the default
// for the scheme. UserInfo is never reserialized.
func (u URL) String() string {
	b := new(strings.Builder)
	b.WriteString(u.Scheme)
	b.WriteString("://")
	b.WriteString(u.Host)
	if u.Port != DefaultPort(u.Scheme) {
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(uint64(u.Port), 10))
	}
	b.WriteString(u.PathQuery)
	return b.String()
}

func containsCTL(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b < ' ' || b == 0x7f {
			return true
		}
	}
	return false
}
