// Package wire implements the textual HTTP/1.1 message syntax.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc9110
//
// - https://datatracker.ietf.org/doc/html/rfc9112
package wire

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const (
	CR   byte = '\r'
	LF   byte = '\n'
	SP   byte = ' '
	HTAB byte = '\t'
)

var (
	CRLF = []byte{CR, LF}
	OWS  = []byte{SP, HTAB}
)

func IsWhitespace(c byte) bool { return c == SP || c == HTAB }

// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.6.2-2
func IsValidToken(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') {
			continue
		}
		if '0' <= c && c <= '9' {
			continue
		}

		switch c {
		case '!', '#', '$', '%', '&', '\'', '*', '+',
			'-', '.', '^', '_', '`', '|', '~':
			continue
		}

		return false
	}

	return true
}

// Field is one header field line. Name is stored lowercase.
type Field struct{ Name, Value string }

var ErrMalformedFieldLine = errors.New("field line is malformed")

// ParseField parses a single "name: value" line. The name is lowercased,
// the value has optional whitespace trimmed.
func ParseField(fieldLine []byte) (Field, error) {
	name, value, found := bytes.Cut(fieldLine, []byte{':'})
	if !found {
		return Field{}, errors.Wrapf(ErrMalformedFieldLine, "colon seperator not found: %q", fieldLine)
	}

	// No whitespace is allowed between field name and colon.
	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-5.1-2
	for _, c := range OWS {
		if bytes.HasSuffix(name, []byte{c}) {
			return Field{}, errors.Wrap(ErrMalformedFieldLine, "field name has trailing whitespace")
		}
	}

	if !IsValidToken(string(name)) {
		return Field{}, errors.Wrapf(ErrMalformedFieldLine, "field name is not a token: %q", name)
	}

	value = bytes.TrimFunc(value, func(r rune) bool { return IsWhitespace(byte(r)) })

	return Field{
		Name:  strings.ToLower(string(name)),
		Value: string(value),
	}, nil
}

func (f Field) Text() []byte {
	buf := bytes.NewBuffer(nil)
	buf.WriteString(f.Name)
	buf.WriteString(": ")
	buf.WriteString(f.Value)
	return buf.Bytes()
}

// ReadLine reads one CRLF-terminated line, with the CRLF cut off.
// An EOF before the terminator is reported as io.ErrUnexpectedEOF.
func ReadLine(br *bufio.Reader) ([]byte, error) {
	line, err := br.ReadBytes(LF)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	line = line[:len(line)-1]
	if len(line) == 0 || line[len(line)-1] != CR {
		return nil, errors.New("missing CR before LF")
	}

	return line[:len(line)-1], nil
}

// ReadFieldBlock reads field lines until the empty line that ends the
// block. A line starting with whitespace is an obs-fold continuation of
// the previous field's value.
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-5.2
func ReadFieldBlock(br *bufio.Reader) ([]Field, error) {
	fields := make([]Field, 0)
	for {
		line, err := ReadLine(br)
		if err != nil {
			return nil, errors.Wrap(err, "reading field line")
		}

		if len(line) == 0 {
			// An empty line. No more fields.
			return fields, nil
		}

		if IsWhitespace(line[0]) {
			if len(fields) == 0 {
				return nil, errors.Wrap(ErrMalformedFieldLine, "continuation line before any field")
			}

			cont := bytes.TrimFunc(line, func(r rune) bool { return IsWhitespace(byte(r)) })
			last := &fields[len(fields)-1]
			last.Value += " " + string(cont)
			continue
		}

		field, err := ParseField(line)
		if err != nil {
			return nil, err
		}

		fields = append(fields, field)
	}
}

// WriteLine writes line followed by CRLF.
func WriteLine(w io.Writer, line []byte) error {
	if _, err := w.Write(line); err != nil {
		return errors.Wrap(err, "writing line")
	}
	if _, err := w.Write(CRLF); err != nil {
		return errors.Wrap(err, "writing line terminator")
	}
	return nil
}
