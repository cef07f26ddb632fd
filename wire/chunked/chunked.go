// Package chunked implements the chunked transfer coding.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-7.1
package chunked

import (
	"bufio"
	"bytes"
	"io"
	"strconv"

	"github.com/RsrchBoy/p5-http-tiny/wire"
	"github.com/pkg/errors"
)

var ErrMalformedChunk = errors.New("malformed chunk")

// Reader converts a chunked message body into a byte stream. Chunk
// extensions are ignored. Once the last chunk is reached, trailer
// fields are read and handed to onTrailer (if non-nil) before Read
// returns io.EOF. A connection close mid-chunk surfaces as
// io.ErrUnexpectedEOF.
type Reader struct {
	br        *bufio.Reader
	onTrailer func(fields []wire.Field)

	remain   uint64 // unread bytes of the current chunk
	inChunk  bool
	done     bool
	crlfDump [2]byte
}

var _ io.Reader = (*Reader)(nil)

func NewReader(br *bufio.Reader, onTrailer func(fields []wire.Field)) *Reader {
	return &Reader{br: br, onTrailer: onTrailer}
}

func (cr *Reader) Read(p []byte) (int, error) {
	if cr.done {
		return 0, io.EOF
	}

	if !cr.inChunk {
		size, err := cr.decodeChunkSize()
		if err != nil {
			return 0, err
		}

		if size == 0 {
			// Last chunk.
			if err := cr.decodeTrailers(); err != nil {
				return 0, errors.Wrap(err, "decoding trailers")
			}
			cr.done = true
			return 0, io.EOF
		}

		cr.remain = size
		cr.inChunk = true
	}

	if uint64(len(p)) > cr.remain {
		p = p[:cr.remain]
	}

	n, err := cr.br.Read(p)
	cr.remain -= uint64(n)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return n, errors.Wrap(err, "reading chunk data")
	}

	if cr.remain == 0 {
		if err := cr.readChunkDelimiter(); err != nil {
			return n, err
		}
		cr.inChunk = false
	}

	return n, nil
}

func (cr *Reader) decodeChunkSize() (uint64, error) {
	line, err := wire.ReadLine(cr.br)
	if err != nil {
		return 0, errors.Wrap(err, "reading chunk size line")
	}

	// Drop ";"-delimited chunk extensions.
	sizeRaw, _, _ := bytes.Cut(line, []byte{';'})
	sizeRaw = bytes.TrimFunc(sizeRaw, func(r rune) bool { return wire.IsWhitespace(byte(r)) })

	size, err := strconv.ParseUint(string(sizeRaw), 16, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedChunk, "chunk size is not hex: %q", sizeRaw)
	}

	return size, nil
}

func (cr *Reader) readChunkDelimiter() error {
	if _, err := io.ReadFull(cr.br, cr.crlfDump[:]); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return errors.Wrap(err, "reading chunk delimiter")
	}

	if !bytes.Equal(cr.crlfDump[:], wire.CRLF) {
		return errors.Wrap(ErrMalformedChunk, "CRLF delimiter not found after chunk data")
	}

	return nil
}

func (cr *Reader) decodeTrailers() error {
	fields, err := wire.ReadFieldBlock(cr.br)
	if err != nil {
		return err
	}

	if cr.onTrailer != nil && len(fields) > 0 {
		cr.onTrailer(fields)
	}

	return nil
}

// Writer frames a byte stream as chunked transfer coding. Zero-length
// writes are skipped since an empty chunk would terminate the stream.
// Close emits the last chunk, trailer fields from sendTrailers (if
// non-nil, invoked once) and the final empty line.
type Writer struct {
	w            io.Writer
	sendTrailers func() []wire.Field
}

var _ io.WriteCloser = (*Writer)(nil)

func NewWriter(w io.Writer, sendTrailers func() []wire.Field) *Writer {
	return &Writer{w: w, sendTrailers: sendTrailers}
}

func (cw *Writer) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		// An empty chunk means EOF. Skip it.
		return 0, nil
	}

	size := strconv.FormatUint(uint64(len(p)), 16)
	if err := wire.WriteLine(cw.w, []byte(size)); err != nil {
		return 0, errors.Wrap(err, "writing chunk size")
	}

	if err := wire.WriteLine(cw.w, p); err != nil {
		return 0, errors.Wrap(err, "writing chunk data")
	}

	return len(p), nil
}

func (cw *Writer) Close() error {
	if err := wire.WriteLine(cw.w, []byte{'0'}); err != nil {
		return errors.Wrap(err, "writing last chunk")
	}

	if cw.sendTrailers != nil {
		for _, field := range cw.sendTrailers() {
			if err := wire.WriteLine(cw.w, field.Text()); err != nil {
				return errors.Wrap(err, "writing trailer")
			}
		}
	}

	if err := wire.WriteLine(cw.w, nil); err != nil {
		return errors.Wrap(err, "writing last trailer line")
	}

	return nil
}
