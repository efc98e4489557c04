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
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/pgzip"
)

var testContent = []byte(">seq1\nACGTACGTACGT\n>seq2\nTTTTTTTTTTTT\n")

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := pgzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// bgzfBytes builds a gzip member carrying the BGZF "BC" extra subfield,
// the signature sniffed by the decompression layer.
func bgzfBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	w.Extra = []byte{'B', 'C', 2, 0, 0xff, 0xff}
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDecodePlain(t *testing.T) {
	decoded, compression, err := Decode(testContent)
	if err != nil {
		t.Fatal(err)
	}
	if compression != CompressionPlain {
		t.Errorf("compression = %s, want plain", compression)
	}
	if !bytes.Equal(decoded, testContent) {
		t.Errorf("plain content changed")
	}
}

func TestDecodeGzip(t *testing.T) {
	decoded, compression, err := Decode(gzipBytes(t, testContent))
	if err != nil {
		t.Fatal(err)
	}
	if compression != CompressionGzip {
		t.Errorf("compression = %s, want gzip", compression)
	}
	if !bytes.Equal(decoded, testContent) {
		t.Errorf("gzip round trip changed content")
	}
}

func TestDecodeBGZF(t *testing.T) {
	decoded, compression, err := Decode(bgzfBytes(t, testContent))
	if err != nil {
		t.Fatal(err)
	}
	if compression != CompressionBGZF {
		t.Errorf("compression = %s, want bgzf", compression)
	}
	if !bytes.Equal(decoded, testContent) {
		t.Errorf("bgzf round trip changed content")
	}
}

func TestDecodeIgnoresFileName(t *testing.T) {
	// content sniffing only: a plain file with a .gz-ish payload prefix
	// must not be decompressed, and compressed data in an extensionless
	// file must be.
	path := filepath.Join(t.TempDir(), "data.gz")
	if err := os.WriteFile(path, testContent, 0644); err != nil {
		t.Fatal(err)
	}
	decoded, compression, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if compression != CompressionPlain || !bytes.Equal(decoded, testContent) {
		t.Errorf("plain content in .gz file mis-detected as %s", compression)
	}
}

func TestReadFileNotFound(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "missing.fasta"))
	if !errors.Is(err, ErrInputNotFound) {
		t.Errorf("error = %v, want ErrInputNotFound", err)
	}
}

func TestDecodeTruncatedGzip(t *testing.T) {
	compressed := gzipBytes(t, testContent)
	_, _, err := Decode(compressed[:len(compressed)-6])

	var derr *DecompressionError
	if !errors.As(err, &derr) {
		t.Fatalf("error = %v, want *DecompressionError", err)
	}
	if derr.Compression != CompressionGzip {
		t.Errorf("error compression = %s, want gzip", derr.Compression)
	}
}

func TestDecodeCorruptGzip(t *testing.T) {
	compressed := gzipBytes(t, testContent)
	compressed[len(compressed)-1] ^= 0xff // break the size/checksum trailer

	_, _, err := Decode(compressed)
	var derr *DecompressionError
	if !errors.As(err, &derr) {
		t.Fatalf("error = %v, want *DecompressionError", err)
	}
}

func TestReadFileGzip(t *testing.T) {
	path := writeTempFile(t, gzipBytes(t, testContent))
	decoded, compression, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if compression != CompressionGzip || !bytes.Equal(decoded, testContent) {
		t.Errorf("ReadFile gzip: compression %s, equal %v", compression, bytes.Equal(decoded, testContent))
	}
}
