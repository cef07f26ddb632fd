package wire

import (
	"bytes"
	"strconv"

	"github.com/pkg/errors"
)

// [Major, Minor]
type Version [2]uint

// ParseVersion parses http version text (e.g. "HTTP/1.1") into [Version].
func ParseVersion(b []byte) (Version, error) {
	prefix := []byte("HTTP/")
	if !bytes.HasPrefix(b, prefix) {
		return Version{}, errors.Errorf("http version prefix not found: %s", b)
	}

	first, second, found := bytes.Cut(b[len(prefix):], []byte{'.'})
	if !found {
		return Version{}, errors.Errorf("dot seperator not found on version: %s", b)
	}

	major, err1 := strconv.ParseUint(string(first), 10, 64)
	minor, err2 := strconv.ParseUint(string(second), 10, 64)
	if err1 != nil || err2 != nil {
		return Version{}, errors.Errorf("http version is not convertable to int: %s", b)
	}

	return Version{uint(major), uint(minor)}, nil
}

func (ver Version) Text() []byte {
	buf := bytes.NewBuffer(nil)
	buf.WriteString("HTTP/")
	buf.WriteString(strconv.FormatUint(uint64(ver[0]), 10))
	buf.WriteByte('.')
	buf.WriteString(strconv.FormatUint(uint64(ver[1]), 10))
	return buf.Bytes()
}

func (ver Version) String() string { return string(ver.Text()) }

// StatusLine is the parsed first line of a response.
type StatusLine struct {
	Version      Version
	StatusCode   int
	ReasonPhrase string
}

var ErrMalformedStatusLine = errors.New("status line is malformed")

// ParseStatusLine parses "HTTP/<ver> SP <3-digit-status> SP <reason>".
// The reason phrase may be empty.
func ParseStatusLine(line []byte) (StatusLine, error) {
	parts := bytes.SplitN(line, []byte{SP}, 3)
	if len(parts) < 2 {
		return StatusLine{}, errors.Wrapf(ErrMalformedStatusLine, "%q", line)
	}

	ver, err := ParseVersion(parts[0])
	if err != nil {
		return StatusLine{}, errors.Wrapf(ErrMalformedStatusLine, "parsing version: %q", line)
	}

	codeRaw := string(parts[1])
	code, err := strconv.ParseUint(codeRaw, 10, 64)
	if err != nil || len(codeRaw) != 3 {
		return StatusLine{}, errors.Wrapf(ErrMalformedStatusLine, "status code is malformed: %q", codeRaw)
	}
	if code < 100 || code > 599 {
		return StatusLine{}, errors.Wrapf(ErrMalformedStatusLine, "status code out of range: %d", code)
	}

	// reason-phrase is optional.
	reason := ""
	if len(parts) == 3 {
		reason = string(parts[2])
	}

	return StatusLine{Version: ver, StatusCode: int(code), ReasonPhrase: reason}, nil
}
