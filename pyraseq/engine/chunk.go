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

package engine

import (
	"bytes"

	"github.com/UriNeri/pyraseq/pyraseq/seqio"
)

// DefaultMinChunkSize is the stream size below which partitioning is
// not worth the realignment scans and a single chunk is used.
const DefaultMinChunkSize = 1 << 20

// Chunk is a record-aligned byte range of the decompressed stream.
// Start is the first byte of a record marker (or 0), End is the start
// of the next chunk's first record or the stream length. No record
// spans two chunks.
type Chunk struct {
	Index int
	Start int
	End   int
}

// PartitionChunks cuts data into up to n record-aligned chunks of
// roughly equal size. Each naive cut point is advanced to the next
// line beginning with the record marker at column zero; for FASTQ a
// '@' line only counts as a header when the line two below begins
// with '+', so quality lines starting with '@' never become
// boundaries. minSize <= 0 uses DefaultMinChunkSize.
func PartitionChunks(data []byte, n int, format seqio.Format, minSize int) []Chunk {
	if minSize <= 0 {
		minSize = DefaultMinChunkSize
	}
	if n < 2 || len(data) < minSize {
		return []Chunk{{Index: 0, Start: 0, End: len(data)}}
	}

	target := len(data) / n
	if target < 1 {
		target = 1
	}

	starts := make([]int, 1, n)
	for i := 1; i < n; i++ {
		cut := nextRecordStart(data, i*target, format)
		if cut <= starts[len(starts)-1] || cut >= len(data) {
			continue
		}
		starts = append(starts, cut)
	}

	chunks := make([]Chunk, len(starts))
	for i, start := range starts {
		end := len(data)
		if i < len(starts)-1 {
			end = starts[i+1]
		}
		chunks[i] = Chunk{Index: i, Start: start, End: end}
	}
	return chunks
}

// nextRecordStart scans forward from pos to the first byte of the next
// record header line.
func nextRecordStart(data []byte, pos int, format seqio.Format) int {
	marker := format.Marker()

	// pos may sit in the middle of a line; candidates are always the
	// byte right after a newline.
	if pos > len(data) {
		return len(data)
	}
	i := pos
	if i > 0 {
		j := bytes.IndexByte(data[i-1:], '\n')
		if j < 0 {
			return len(data)
		}
		i += j // data[i] is now the first byte of a line
	}

	for i < len(data) {
		if data[i] == marker &&
			(format != seqio.FormatFastq || isFastqHeaderLine(data, i)) {
			return i
		}
		j := bytes.IndexByte(data[i:], '\n')
		if j < 0 {
			break
		}
		i += j + 1
	}
	return len(data)
}

// isFastqHeaderLine reports whether the line starting at pos is a
// record header rather than a quality line that happens to begin with
// '@'. A header has a '+' line two lines below; a leading-'@' quality
// line is followed by the next header and then a sequence line, which
// never starts with '+'. Near the end of the stream, when the '+'
// line cannot be found, the line is treated as not a header so the
// boundary falls back to the stream end.
func isFastqHeaderLine(data []byte, pos int) bool {
	i := bytes.IndexByte(data[pos:], '\n')
	if i < 0 {
		return false
	}
	seqStart := pos + i + 1
	i = bytes.IndexByte(data[seqStart:], '\n')
	if i < 0 {
		return false
	}
	plusStart := seqStart + i + 1
	return plusStart < len(data) && data[plusStart] == '+'
}
