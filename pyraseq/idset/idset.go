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

// Package idset provides an immutable set of sequence identifiers.
//
// The set is hashed with wyhash so membership tests accept the raw
// []byte identifier from the parser without allocating a string.
// It is built once before the parallel phase and never mutated after,
// which makes it safe to share across workers with no synchronization.
package idset

import (
	"strings"

	"github.com/zeebo/wyhash"
)

const hashSeed = 0x9E3779B97F4A7C15

// Set is an immutable collection of exact-match identifiers.
// Matching is case-sensitive with no normalization beyond the
// whitespace trimming done at construction.
type Set struct {
	buckets map[uint64][]string
	n       int
}

// New builds a set from lines: each line is trimmed, blank lines and
// duplicates are ignored.
func New(lines []string) *Set {
	s := &Set{buckets: make(map[uint64][]string, len(lines))}
	for _, line := range lines {
		id := strings.TrimSpace(line)
		if id == "" {
			continue
		}
		h := wyhash.HashString(id, hashSeed)
		bucket := s.buckets[h]
		var dup bool
		for _, known := range bucket {
			if known == id {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		s.buckets[h] = append(bucket, id)
		s.n++
	}
	return s
}

// Contains reports whether id is in the set. id is not retained.
func (s *Set) Contains(id []byte) bool {
	for _, known := range s.buckets[wyhash.Hash(id, hashSeed)] {
		if known == string(id) { // comparison only, no allocation
			return true
		}
	}
	return false
}

// ContainsString is Contains for callers that already hold a string.
func (s *Set) ContainsString(id string) bool {
	for _, known := range s.buckets[wyhash.HashString(id, hashSeed)] {
		if known == id {
			return true
		}
	}
	return false
}

// Len returns the number of identifiers in the set.
func (s *Set) Len() int { return s.n }
