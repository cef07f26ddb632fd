package httptiny

import (
	"os"
	"path/filepath"

	"github.com/RsrchBoy/p5-http-tiny/wire"
	"github.com/pkg/errors"
)

// Mirror fetches url into path, using the file's modification time for
// an If-Modified-Since header so an unchanged resource costs only a
// 304. On success the body is streamed to a temporary file that
// replaces path, and a parseable Last-Modified response header becomes
// the file's new modification time. A 304 leaves the file untouched
// and means the mirror is already current.
//
// The returned error covers local filesystem problems only; protocol
// and transport failures surface as a 599 response, as with
// [Client.Request].
func (c *Client) Mirror(url, path string, opts *RequestOptions) (*Response, error) {
	callOpts := RequestOptions{}
	if opts != nil {
		callOpts = *opts
	}

	headers := wire.NewHeader()
	if callOpts.Headers != nil {
		headers = callOpts.Headers.Clone()
	}

	if info, err := os.Stat(path); err == nil && !headers.Has("if-modified-since") {
		headers.Set("if-modified-since", wire.FormatDate(info.ModTime()))
	}
	callOpts.Headers = headers

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return nil, errors.Wrap(err, "creating temporary file")
	}
	tmpName := tmp.Name()

	callOpts.DataSink = func(_ *Response, chunk []byte) error {
		_, werr := tmp.Write(chunk)
		return werr
	}

	res := c.Request("GET", url, &callOpts)

	if cerr := tmp.Close(); cerr != nil {
		os.Remove(tmpName)
		return res, errors.Wrap(cerr, "closing temporary file")
	}

	if !res.Success() {
		os.Remove(tmpName)
		return res, nil
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return res, errors.Wrap(err, "replacing mirror target")
	}

	if raw, ok := res.Headers.Get("last-modified"); ok {
		if mtime, err := wire.ParseDate(raw); err == nil {
			if err := os.Chtimes(path, mtime, mtime); err != nil {
				return res, errors.Wrap(err, "setting modification time")
			}
		}
	}

	return res, nil
}
