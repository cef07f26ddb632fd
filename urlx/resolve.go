package urlx

import (
	"strings"

	"github.com/pkg/errors"
)

// Resolve resolves ref (typically a Location header value) against base.
// It handles absolute URLs, scheme-relative references ("//host/p"),
// absolute paths ("/p") and relative paths ("p", "../p").
// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-5.2.2
func Resolve(base URL, ref string) (URL, error) {
	if ref == "" {
		return URL{}, errors.Wrap(ErrMalformedURL, "empty reference")
	}

	if strings.Contains(ref, "://") {
		return Parse(ref)
	}

	if strings.HasPrefix(ref, "//") {
		return Parse(base.Scheme + ":" + ref)
	}

	out := base
	out.UserInfo = ""

	path, query := splitPathQuery(ref)
	basePath, baseQuery := splitPathQuery(base.PathQuery)

	switch {
	case path == "":
		if query == "" {
			query = baseQuery
		}
		path = basePath
	case strings.HasPrefix(path, "/"):
	default:
		path = mergePath(basePath, path)
	}

	out.PathQuery = removeDotSegments(path) + query

	return out, nil
}

func splitPathQuery(pq string) (path, query string) {
	if i := strings.IndexByte(pq, '?'); i >= 0 {
		return pq[:i], pq[i:]
	}
	return pq, ""
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-5.2.3
func mergePath(basePath, refPath string) string {
	if basePath == "" {
		return "/" + refPath
	}
	if idx := strings.LastIndexByte(basePath, '/'); idx >= 0 {
		return basePath[:idx+1] + refPath
	}
	return refPath
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-5.2.4
func removeDotSegments(path string) string {
	out := make([]string, 0, 8)

	for len(path) > 0 {
		var found bool
		if path, found = strings.CutPrefix(path, "../"); found {
			continue
		}
		if path, found = strings.CutPrefix(path, "./"); found {
			continue
		}

		if path, found = strings.CutPrefix(path, "/./"); found {
			path = "/" + path
			continue
		} else if path == "/." {
			path = "/"
			continue
		}

		if path, found = strings.CutPrefix(path, "/../"); found {
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
			path = "/" + path
			continue
		} else if path == "/.." {
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
			path = "/"
			continue
		}

		if path == ".." || path == "." {
			break
		}

		idx := strings.IndexByte(path[1:], '/') + 1
		if idx == 0 {
			idx = len(path)
		}
		out = append(out, path[:idx])
		path = path[idx:]
	}

	return strings.Join(out, "")
}
