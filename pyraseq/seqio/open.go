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
	"os"

	"github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

// Compression is the encoding of an input stream, detected from its
// content, never from the file name.
type Compression int

const (
	CompressionPlain Compression = iota
	CompressionGzip
	CompressionBGZF // blocked gzip (BAM/bgzip style), a valid multi-member gzip stream
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionBGZF:
		return "bgzf"
	}
	return "plain"
}

// ReadFile reads a whole file and returns the decompressed bytes along
// with the detected encoding. Downstream code only ever sees raw bytes.
func ReadFile(path string) ([]byte, Compression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, CompressionPlain, errors.Wrap(ErrInputNotFound, path)
		}
		return nil, CompressionPlain, err
	}
	return Decode(data)
}

// Decode sniffs the compression of data and returns the decompressed
// bytes. Unrecognized content passes through unchanged.
func Decode(data []byte) ([]byte, Compression, error) {
	compression := sniffCompression(data)
	if compression == CompressionPlain {
		return data, compression, nil
	}

	// pgzip handles multi-member streams, which covers both plain gzip
	// and the concatenated blocks of BGZF.
	r, err := pgzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, compression, &DecompressionError{Compression: compression, Err: err}
	}
	defer r.Close()

	decoded, err := io.ReadAll(r)
	if err != nil {
		return nil, compression, &DecompressionError{Compression: compression, Err: err}
	}
	return decoded, compression, nil
}

// sniffCompression inspects gzip magic bytes, and the BC extra subfield
// which marks a BGZF block.
func sniffCompression(data []byte) Compression {
	if len(data) < 2 || data[0] != 0x1f || data[1] != 0x8b {
		return CompressionPlain
	}

	// FLG.FEXTRA set: walk the extra subfields looking for SI1='B', SI2='C'.
	if len(data) >= 12 && data[3]&0x04 != 0 {
		xlen := int(data[10]) | int(data[11])<<8
		extra := data[12:]
		if xlen <= len(extra) {
			extra = extra[:xlen]
			for len(extra) >= 4 {
				slen := int(extra[2]) | int(extra[3])<<8
				if extra[0] == 'B' && extra[1] == 'C' && slen == 2 {
					return CompressionBGZF
				}
				if len(extra) < 4+slen {
					break
				}
				extra = extra[4+slen:]
			}
		}
	}

	return CompressionGzip
}
