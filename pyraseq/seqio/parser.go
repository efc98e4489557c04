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
	"fmt"
	"io"
)

// Parser converts a byte range into a lazy, forward-only sequence of
// records. It may start at any record-aligned offset and never looks
// back before it; a consumed parser cannot be rewound, create a fresh
// one to re-scan.
type Parser struct {
	data   []byte
	pos    int
	end    int
	format Format
	index  int // records returned so far, used in error reports
}

// NewParser returns a parser over data[offset:end]. offset must be
// record-aligned (the first byte of a record marker) or point at
// leading whitespace before one.
func NewParser(data []byte, offset, end int, format Format) *Parser {
	if end > len(data) {
		end = len(data)
	}
	if offset < 0 {
		offset = 0
	}
	return &Parser{data: data, pos: offset, end: end, format: format}
}

// NewStreamParser returns a parser over the whole stream, detecting the
// format from its first non-whitespace byte.
func NewStreamParser(data []byte) *Parser {
	return NewParser(data, 0, len(data), DetectFormat(data))
}

// Format reports the format the parser was created with.
func (p *Parser) Format() Format { return p.format }

// Next returns the next record, or io.EOF after the last one.
// Structural problems surface as *MalformedRecordError.
func (p *Parser) Next() (*Record, error) {
	p.skipBlankLines()
	if p.pos >= p.end {
		return nil, io.EOF
	}
	if p.format == FormatUnknown {
		return nil, io.EOF
	}

	if p.format == FormatFastq {
		return p.nextFastq()
	}
	return p.nextFasta()
}

func (p *Parser) nextFasta() (*Record, error) {
	line, ok := p.readLine()
	if !ok || len(line) == 0 || line[0] != _markFasta {
		return nil, p.malformed("expected '>' at record start")
	}

	record := &Record{Format: FormatFasta}
	record.ID, record.Desc = splitHeader(line[1:])

	// sequence lines until the next marker at column zero
	var first []byte
	var buf []byte
	for p.pos < p.end && p.data[p.pos] != _markFasta {
		line, _ = p.readLine()
		if len(line) == 0 {
			continue
		}
		if first == nil {
			first = line
			continue
		}
		if buf == nil {
			buf = make([]byte, 0, len(first)+len(line))
			buf = append(buf, first...)
		}
		buf = append(buf, line...)
	}
	if buf != nil {
		record.Seq = buf
	} else {
		record.Seq = first
	}

	p.index++
	return record, nil
}

func (p *Parser) nextFastq() (*Record, error) {
	header, ok := p.readLine()
	if !ok || len(header) == 0 || header[0] != _markFastq {
		return nil, p.malformed("expected '@' at record start")
	}

	record := &Record{Format: FormatFastq}
	record.ID, record.Desc = splitHeader(header[1:])

	var plus []byte
	if record.Seq, ok = p.readLine(); !ok {
		return nil, p.malformed("truncated record: missing sequence line")
	}
	if plus, ok = p.readLine(); !ok {
		return nil, p.malformed("truncated record: missing '+' line")
	}
	if len(plus) == 0 || plus[0] != _markPlus {
		return nil, p.malformed("missing '+' line")
	}
	if record.Qual, ok = p.readLine(); !ok {
		return nil, p.malformed("truncated record: missing quality line")
	}
	if len(record.Qual) != len(record.Seq) {
		return nil, p.malformed(
			fmt.Sprintf("sequence and quality lengths differ: %d != %d",
				len(record.Seq), len(record.Qual)))
	}

	p.index++
	return record, nil
}

// readLine returns the next line without its trailing newline (CRLF
// tolerated) and advances the parser. ok is false at end of range.
func (p *Parser) readLine() ([]byte, bool) {
	if p.pos >= p.end {
		return nil, false
	}
	var line []byte
	if i := bytes.IndexByte(p.data[p.pos:p.end], '\n'); i >= 0 {
		line = p.data[p.pos : p.pos+i]
		p.pos += i + 1
	} else {
		line = p.data[p.pos:p.end]
		p.pos = p.end
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line, true
}

func (p *Parser) skipBlankLines() {
	for p.pos < p.end {
		c := p.data[p.pos]
		if c != '\n' && c != '\r' && c != ' ' && c != '\t' {
			return
		}
		p.pos++
	}
}

func (p *Parser) malformed(reason string) error {
	return &MalformedRecordError{Index: p.index, Reason: reason}
}

// splitHeader cuts a header line (marker already stripped) into the
// identifier token and the discarded description.
func splitHeader(line []byte) (id, desc []byte) {
	for i, c := range line {
		if c == ' ' || c == '\t' {
			return line[:i], bytes.TrimLeft(line[i+1:], " \t")
		}
	}
	return line, nil
}
