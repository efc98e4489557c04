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
	"fmt"

	"github.com/pkg/errors"
)

// ErrInputNotFound occurs when the input file does not exist.
var ErrInputNotFound = errors.New("input file not found")

// DecompressionError occurs when the magic bytes announce a compressed
// stream but decoding fails (truncated data, bad checksum).
type DecompressionError struct {
	Compression Compression
	Err         error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("decompressing %s stream: %s", e.Compression, e.Err)
}

func (e *DecompressionError) Unwrap() error { return e.Err }

// MalformedRecordError reports a structurally invalid record.
// Index is the record's sequential position (0-based) counted from the
// parser's starting offset; callers parsing a sub-range of the stream
// are expected to rebase it before reporting.
type MalformedRecordError struct {
	Index  int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record #%d: %s", e.Index, e.Reason)
}
