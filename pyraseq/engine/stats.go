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
	"github.com/twotwotwo/sorts/sortutil"
	"gonum.org/v1/gonum/stat"
)

// LengthStats summarizes sequence lengths collected by Count with
// Options.CollectLengths.
type LengthStats struct {
	Min   uint64
	Max   uint64
	Mean  float64
	Stdev float64
	N50   uint64
}

// SummarizeLengths computes length statistics. lengths is sorted in
// place (parallel sort, see sorts.MaxProcs).
func SummarizeLengths(lengths []float64) LengthStats {
	if len(lengths) == 0 {
		return LengthStats{}
	}

	var stats LengthStats
	stats.Mean = stat.Mean(lengths, nil)
	if len(lengths) > 1 {
		stats.Stdev = stat.StdDev(lengths, nil)
	}

	sortutil.Float64s(lengths)
	stats.Min = uint64(lengths[0])
	stats.Max = uint64(lengths[len(lengths)-1])

	var total float64
	for _, l := range lengths {
		total += l
	}
	half := total / 2
	var cum float64
	for i := len(lengths) - 1; i >= 0; i-- {
		cum += lengths[i]
		if cum >= half {
			stats.N50 = uint64(lengths[i])
			break
		}
	}
	return stats
}
