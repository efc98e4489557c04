// Copyright © 2024-2026 Uri Neri
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package seqio

import (
	"bytes"
	"io"
)

// Format of a sequence stream, decided by the first non-whitespace byte.
type Format int

const (
	FormatUnknown Format = iota
	FormatFasta
	FormatFastq
)

func (f Format) String() string {
	switch f {
	case FormatFasta:
		return "FASTA"
	case FormatFastq:
		return "FASTQ"
	}
	return "unknown"
}

// Marker returns the record marker byte of the format.
func (f Format) Marker() byte {
	if f == FormatFastq {
		return _markFastq
	}
	return _markFasta
}

const (
	_markFasta = '>'
	_markFastq = '@'
	_markPlus  = '+'
)

var _markNewline = []byte{'\n'}

// DetectFormat decides the stream format from the first non-whitespace
// byte: '>' for FASTA, '@' for FASTQ. Anything else, including an empty
// stream, is FormatUnknown (zero records, not an error).
func DetectFormat(data []byte) Format {
	for _, c := range data {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case _markFasta:
			return FormatFasta
		case _markFastq:
			return FormatFastq
		default:
			return FormatUnknown
		}
	}
	return FormatUnknown
}

// Record is a single FASTA or FASTQ record.
// ID is the token right after the record marker up to the first
// whitespace; the rest of the header line is kept in Desc but is not
// part of the record's identity. Qual is nil for FASTA and always the
// same length as Seq for FASTQ.
//
// All fields are sub-slices of (or derived from) the parser's input
// buffer and must be treated as read-only.
type Record struct {
	ID     []byte
	Desc   []byte
	Seq    []byte
	Qual   []byte
	Format Format
}

// Output re-serializes the record in its origin format.
// lineWidth > 0 wraps FASTA sequence lines; FASTQ is always four lines.
func (r *Record) Output(w io.Writer, lineWidth int) error {
	var buf bytes.Buffer
	buf.Grow(len(r.ID) + len(r.Desc) + 2*len(r.Seq) + len(r.Qual) + 8)

	if r.Format == FormatFastq {
		buf.WriteByte(_markFastq)
	} else {
		buf.WriteByte(_markFasta)
	}
	buf.Write(r.ID)
	if len(r.Desc) > 0 {
		buf.WriteByte(' ')
		buf.Write(r.Desc)
	}
	buf.WriteByte('\n')

	if r.Format == FormatFastq {
		buf.Write(r.Seq)
		buf.WriteByte('\n')
		buf.WriteByte(_markPlus)
		buf.WriteByte('\n')
		buf.Write(r.Qual)
		buf.WriteByte('\n')
	} else {
		seq, _ := wrapByteSlice(r.Seq, lineWidth, nil)
		buf.Write(seq)
		buf.WriteByte('\n')
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// wrapByteSlice inserts newlines every width bytes. width < 1 leaves s
// untouched. A reusable buffer may be passed in to avoid allocation.
func wrapByteSlice(s []byte, width int, buffer *bytes.Buffer) ([]byte, *bytes.Buffer) {
	if width < 1 {
		return s, buffer
	}
	l := len(s)
	if l == 0 {
		return s, buffer
	}

	var lines int
	if l%width == 0 {
		lines = l/width - 1
	} else {
		lines = int(l / width)
	}

	if buffer == nil {
		buffer = bytes.NewBuffer(make([]byte, 0, l+lines))
	} else {
		buffer.Reset()
	}

	var start, end int
	for i := 0; i <= lines; i++ {
		start = i * width
		end = (i + 1) * width
		if end > l {
			end = l
		}

		buffer.Write(s[start:end])
		if i < lines {
			buffer.Write(_markNewline)
		}
	}
	return buffer.Bytes(), buffer
}
