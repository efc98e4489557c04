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
	"testing"
)

func parseAll(t *testing.T, data []byte) []*Record {
	t.Helper()
	parser := NewStreamParser(data)
	var records []*Record
	for {
		record, err := parser.Next()
		if err == io.EOF {
			return records
		}
		if err != nil {
			t.Fatalf("unexpected parse error: %s", err)
		}
		records = append(records, record)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		data   string
		format Format
	}{
		{">seq1\nACGT\n", FormatFasta},
		{"@read1\nACGT\n+\nIIII\n", FormatFastq},
		{"\n\n  >seq1\nACGT\n", FormatFasta},
		{"", FormatUnknown},
		{"\n\n", FormatUnknown},
		{"ACGT\n", FormatUnknown},
	}
	for _, test := range tests {
		if f := DetectFormat([]byte(test.data)); f != test.format {
			t.Errorf("DetectFormat(%q) = %s, want %s", test.data, f, test.format)
		}
	}
}

func TestParseFasta(t *testing.T) {
	data := []byte(">seq1 some description\nACGTAC\nGTACGT\n>seq2\nAAAA\n\n>seq3\nCCCC")
	records := parseAll(t, data)

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	r := records[0]
	if string(r.ID) != "seq1" {
		t.Errorf("ID = %q, want seq1", r.ID)
	}
	if string(r.Desc) != "some description" {
		t.Errorf("Desc = %q, want %q", r.Desc, "some description")
	}
	if string(r.Seq) != "ACGTACGTACGT" {
		t.Errorf("Seq = %q: wrapped lines not concatenated", r.Seq)
	}
	if r.Qual != nil {
		t.Errorf("FASTA record should have no quality")
	}
	if r.Format != FormatFasta {
		t.Errorf("Format = %s, want FASTA", r.Format)
	}

	if string(records[1].Seq) != "AAAA" || string(records[2].Seq) != "CCCC" {
		t.Errorf("unexpected sequences: %q, %q", records[1].Seq, records[2].Seq)
	}
}

func TestParseFastaCRLF(t *testing.T) {
	data := []byte(">seq1 desc\r\nACGT\r\nACGT\r\n>seq2\r\nTTTT\r\n")
	records := parseAll(t, data)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if string(records[0].Seq) != "ACGTACGT" {
		t.Errorf("Seq = %q, want ACGTACGT", records[0].Seq)
	}
	if string(records[0].Desc) != "desc" {
		t.Errorf("Desc = %q, want desc", records[0].Desc)
	}
}

func TestParseFastq(t *testing.T) {
	data := []byte("@read1 lane=2\nACGTACGT\n+ignored stuff\nIIIIIIII\n@read2\nAAAA\n+\n!!!!\n")
	records := parseAll(t, data)

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	r := records[0]
	if string(r.ID) != "read1" || string(r.Desc) != "lane=2" {
		t.Errorf("header parsed as ID=%q Desc=%q", r.ID, r.Desc)
	}
	if string(r.Seq) != "ACGTACGT" || string(r.Qual) != "IIIIIIII" {
		t.Errorf("Seq/Qual = %q/%q", r.Seq, r.Qual)
	}
	if r.Format != FormatFastq {
		t.Errorf("Format = %s, want FASTQ", r.Format)
	}
}

func TestParseFastqMalformed(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		index int
	}{
		{"quality length mismatch", "@read1\nACGT\n+\nIIII\n@read2\nACGT\n+\nIII\n", 1},
		{"missing plus line", "@read1\nACGT\nIIII\nACGT\n", 0},
		{"truncated final record", "@read1\nACGT\n+\nIIII\n@read2\nACGT\n+\n", 1},
	}

	for _, test := range tests {
		parser := NewStreamParser([]byte(test.data))
		var err error
		for err == nil {
			_, err = parser.Next()
		}
		if err == io.EOF {
			t.Errorf("%s: parser did not fail", test.name)
			continue
		}
		merr, ok := err.(*MalformedRecordError)
		if !ok {
			t.Errorf("%s: error %T, want *MalformedRecordError", test.name, err)
			continue
		}
		if merr.Index != test.index {
			t.Errorf("%s: error index %d, want %d", test.name, merr.Index, test.index)
		}
	}
}

func TestParseEmptyAndUnknown(t *testing.T) {
	for _, data := range []string{"", "\n\n", "no markers here\n"} {
		if records := parseAll(t, []byte(data)); len(records) != 0 {
			t.Errorf("parse(%q) = %d records, want 0", data, len(records))
		}
	}
}

func TestParserRestartAtOffset(t *testing.T) {
	data := []byte(">seq1\nACGT\n>seq2\nTTTT\n>seq3\nGGGG\n")
	offset := bytes.Index(data, []byte(">seq2"))

	parser := NewParser(data, offset, len(data), FormatFasta)
	var ids []string
	for {
		record, err := parser.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, string(record.ID))
	}
	if len(ids) != 2 || ids[0] != "seq2" || ids[1] != "seq3" {
		t.Errorf("restart at offset %d yielded %v, want [seq2 seq3]", offset, ids)
	}
}

func TestParserBoundedRange(t *testing.T) {
	data := []byte(">seq1\nACGT\n>seq2\nTTTT\n>seq3\nGGGG\n")
	end := bytes.Index(data, []byte(">seq3"))

	parser := NewParser(data, 0, end, FormatFasta)
	var n int
	for {
		_, err := parser.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		n++
	}
	if n != 2 {
		t.Errorf("bounded parser read %d records, want 2", n)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		">seq1 desc here\nACGTACGTACGTACGTACGT\n>seq2\nTTTT\n>seq3\nC\n",
		"@read1 pair=1\nACGTACGT\n+\nIIIIIIII\n@read2\nAA\n+\n!!\n",
	}
	widths := []int{0, 5, 60}

	for _, input := range inputs {
		original := parseAll(t, []byte(input))
		for _, width := range widths {
			var buf bytes.Buffer
			for _, record := range original {
				if err := record.Output(&buf, width); err != nil {
					t.Fatal(err)
				}
			}
			reparsed := parseAll(t, buf.Bytes())
			if len(reparsed) != len(original) {
				t.Fatalf("width %d: round trip returned %d records, want %d",
					width, len(reparsed), len(original))
			}
			for i := range original {
				a, b := original[i], reparsed[i]
				if !bytes.Equal(a.ID, b.ID) || !bytes.Equal(a.Desc, b.Desc) ||
					!bytes.Equal(a.Seq, b.Seq) || !bytes.Equal(a.Qual, b.Qual) ||
					a.Format != b.Format {
					t.Errorf("width %d: record %d changed in round trip: %+v != %+v",
						width, i, a, b)
				}
			}
		}
	}
}

func TestWrapByteSlice(t *testing.T) {
	s := []byte("ACGTACGTAC")
	wrapped, _ := wrapByteSlice(s, 4, nil)
	if string(wrapped) != "ACGT\nACGT\nAC" {
		t.Errorf("wrapped = %q", wrapped)
	}

	wrapped, _ = wrapByteSlice(s, 0, nil)
	if string(wrapped) != string(s) {
		t.Errorf("width 0 should not wrap, got %q", wrapped)
	}

	wrapped, _ = wrapByteSlice(s, 10, nil)
	if string(wrapped) != string(s) {
		t.Errorf("width == len should not wrap, got %q", wrapped)
	}
}
