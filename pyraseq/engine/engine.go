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

// Package engine runs the fork-join parsing phase: the decompressed
// stream is cut into record-aligned chunks, every worker parses its
// chunks with its own parser, and results are merged strictly in chunk
// order, so output and counts are identical for any thread count.
package engine

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/UriNeri/pyraseq/pyraseq/idset"
	"github.com/UriNeri/pyraseq/pyraseq/seqio"
)

// ErrInvalidThreadCount occurs when Options.Threads < 1. Callers must
// resolve a default (e.g. runtime.NumCPU()) before entering the engine.
var ErrInvalidThreadCount = errors.New("invalid thread count")

// OutputWriteError wraps a failure while writing matched records.
type OutputWriteError struct {
	Err error
}

func (e *OutputWriteError) Error() string { return fmt.Sprintf("writing output: %s", e.Err) }
func (e *OutputWriteError) Unwrap() error { return e.Err }

// Options control a single engine invocation.
type Options struct {
	// Threads is the worker count; must be >= 1.
	Threads int

	// Invert keeps records NOT matching the identifier set (Filter only).
	Invert bool

	// LineWidth wraps FASTA sequence lines on output; 0 writes one line.
	LineWidth int

	// CollectLengths records every sequence length in Summary.Lengths,
	// in input order (Count only).
	CollectLengths bool

	// MinChunkSize below which the stream is processed as one chunk.
	// 0 means DefaultMinChunkSize.
	MinChunkSize int

	// OnChunkDone, if set, is invoked once after each chunk is fully
	// parsed. It is called from worker goroutines and must be safe for
	// concurrent use.
	OnChunkDone func()
}

func (opt *Options) check() error {
	if opt.Threads < 1 {
		return errors.Wrapf(ErrInvalidThreadCount, "%d", opt.Threads)
	}
	return nil
}

// Summary reports what one invocation processed. Counters are summed
// over chunks; the reduction is commutative, so totals do not depend
// on worker scheduling.
type Summary struct {
	Records uint64 // records processed
	Written uint64 // records written (Filter) or matched
	Bases   uint64 // bases processed

	Lengths []float64 // per-record sequence lengths, only with CollectLengths
}

// workerResult is one chunk's output, owned by a single worker until
// the join barrier.
type workerResult struct {
	records  []*seqio.Record
	nRecords uint64
	nBases   uint64
	lengths  []float64
	err      error
}

// Filter writes the records whose identifier membership in ids differs
// from opt.Invert, preserving input order, and returns the totals.
//
// On error nothing is returned; bytes already flushed to out may
// remain on disk and must not be treated as usable output.
func Filter(data []byte, out io.Writer, ids *idset.Set, opt *Options) (*Summary, error) {
	if err := opt.check(); err != nil {
		return nil, err
	}

	format := seqio.DetectFormat(data)
	if format == seqio.FormatUnknown {
		return &Summary{}, nil
	}

	invert := opt.Invert
	results, err := processChunks(data, format, opt,
		func(res *workerResult, record *seqio.Record) {
			res.nRecords++
			res.nBases += uint64(len(record.Seq))
			if ids.Contains(record.ID) != invert {
				res.records = append(res.records, record)
			}
		})
	if err != nil {
		return nil, err
	}

	// single writer, ascending chunk index, in-chunk order preserved
	summary := &Summary{}
	for _, res := range results {
		summary.Records += res.nRecords
		summary.Bases += res.nBases
		for _, record := range res.records {
			if err = record.Output(out, opt.LineWidth); err != nil {
				return nil, &OutputWriteError{Err: err}
			}
			summary.Written++
		}
	}
	return summary, nil
}

// Count tallies records and bases without retaining any record.
func Count(data []byte, opt *Options) (*Summary, error) {
	if err := opt.check(); err != nil {
		return nil, err
	}

	format := seqio.DetectFormat(data)
	if format == seqio.FormatUnknown {
		return &Summary{}, nil
	}

	collect := opt.CollectLengths
	results, err := processChunks(data, format, opt,
		func(res *workerResult, record *seqio.Record) {
			res.nRecords++
			res.nBases += uint64(len(record.Seq))
			if collect {
				res.lengths = append(res.lengths, float64(len(record.Seq)))
			}
		})
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	for _, res := range results {
		summary.Records += res.nRecords
		summary.Bases += res.nBases
		if collect {
			summary.Lengths = append(summary.Lengths, res.lengths...)
		}
	}
	return summary, nil
}

// Parse reads all records sequentially, for inspection and round-trip
// use. No parallelism, no filtering.
func Parse(data []byte) ([]*seqio.Record, error) {
	parser := seqio.NewStreamParser(data)
	records := make([]*seqio.Record, 0, 1024)
	for {
		record, err := parser.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

// processChunks is the fork-join phase. Chunks are consumed from a
// FIFO queue in index order by min(threads, chunks) workers; each
// worker owns its parser and result buffer. The first failure stops
// workers from taking new chunks (in-flight chunks finish), and after
// the join the error of the lowest failing chunk index is returned,
// with the record index rebased to the whole stream.
func processChunks(data []byte, format seqio.Format, opt *Options,
	visit func(*workerResult, *seqio.Record)) ([]*workerResult, error) {

	chunks := PartitionChunks(data, opt.Threads, format, opt.MinChunkSize)

	jobs := make(chan Chunk, len(chunks))
	for _, chunk := range chunks {
		jobs <- chunk
	}
	close(jobs)

	nWorkers := opt.Threads
	if len(chunks) < nWorkers {
		nWorkers = len(chunks)
	}

	results := make([]*workerResult, len(chunks))
	var failed atomic.Bool
	var wg sync.WaitGroup
	for i := 0; i < nWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chunk := range jobs {
				if failed.Load() {
					continue
				}
				res := &workerResult{}
				results[chunk.Index] = res

				parser := seqio.NewParser(data, chunk.Start, chunk.End, format)
				for {
					record, err := parser.Next()
					if err == io.EOF {
						break
					}
					if err != nil {
						res.err = err
						failed.Store(true)
						break
					}
					visit(res, record)
				}
				if res.err == nil && opt.OnChunkDone != nil {
					opt.OnChunkDone()
				}
			}
		}()
	}
	wg.Wait()

	if !failed.Load() {
		return results, nil
	}

	// Chunks are dequeued in index order, so every chunk before the
	// lowest failing one was fully processed; their record counts give
	// the failing record's position within the whole stream.
	var recordsBefore uint64
	for _, res := range results {
		if res == nil { // skipped after the failure flag was set
			break
		}
		if res.err != nil {
			if merr, ok := res.err.(*seqio.MalformedRecordError); ok {
				return nil, &seqio.MalformedRecordError{
					Index:  int(recordsBefore) + merr.Index,
					Reason: merr.Reason,
				}
			}
			return nil, res.err
		}
		recordsBefore += res.nRecords
	}
	// unreachable unless the flag was raised without an error recorded
	return nil, errors.New("parallel phase failed")
}
