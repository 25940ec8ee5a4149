// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package series implements columns: named, logically typed, chunked
// sequences of Arrow arrays.
package series

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/cmdlineluser/polars"
	"github.com/cmdlineluser/polars/internal/debug"
)

// SortOrder records what is known about the order of a column's values.
type SortOrder int8

const (
	SortedUnknown SortOrder = iota
	SortedAscending
	SortedDescending
)

func (s SortOrder) String() string {
	switch s {
	case SortedAscending:
		return "ascending"
	case SortedDescending:
		return "descending"
	}
	return "unknown"
}

// Series is a column. Its chunks hold values of the physical Arrow type of
// its logical DataType.
//
// A Series is immutable apart from its name and sortedness flag, and is
// reference counted like arrow.Chunked. Clones share the chunks, which are
// themselves immutable reference counted Arrow arrays.
type Series struct {
	refCount atomic.Int64

	name   string
	dtype  polars.DataType
	chunks []arrow.Array
	length int
	nulls  int
	sorted SortOrder
}

// New returns a Series over chunks after checking that each chunk has the
// Arrow type polars.ArrowType(dtype). The chunks are retained.
func New(name string, dtype polars.DataType, chunks []arrow.Array) (*Series, error) {
	want := polars.ArrowType(dtype)
	for i, c := range chunks {
		if !arrow.TypeEqual(c.DataType(), want) {
			return nil, fmt.Errorf("%w: chunk %d of %q has arrow type %s, %s is stored as %s",
				polars.ErrSchemaMismatch, i, name, c.DataType(), dtype, want)
		}
	}
	return NewUnchecked(name, dtype, chunks), nil
}

// NewUnchecked is like New without the chunk type check. The caller
// guarantees the chunks match dtype.
func NewUnchecked(name string, dtype polars.DataType, chunks []arrow.Array) *Series {
	s := &Series{name: name, dtype: dtype}
	s.refCount.Add(1)

	if len(chunks) == 0 {
		s.chunks = []arrow.Array{array.MakeArrayOfNull(memory.DefaultAllocator, polars.ArrowType(dtype), 0)}
		return s
	}

	s.chunks = make([]arrow.Array, len(chunks))
	for i, c := range chunks {
		debug.Assertf(arrow.TypeEqual(c.DataType(), polars.ArrowType(dtype)),
			"series: chunk %d type %s does not store %s", i, c.DataType(), dtype)
		c.Retain()
		s.chunks[i] = c
		s.length += c.Len()
		s.nulls += c.NullN()
	}
	return s
}

// Retain increases the reference count by 1.
// Retain may be called simultaneously from multiple goroutines.
func (s *Series) Retain() {
	s.refCount.Add(1)
}

// Release decreases the reference count by 1.
// When the reference count goes to zero, the chunks are released.
// Release may be called simultaneously from multiple goroutines.
func (s *Series) Release() {
	debug.Assert(s.refCount.Load() > 0, "too many releases")

	if s.refCount.Add(-1) == 0 {
		for _, c := range s.chunks {
			c.Release()
		}
		s.chunks = nil
	}
}

func (s *Series) Name() string              { return s.name }
func (s *Series) DataType() polars.DataType { return s.dtype }
func (s *Series) Len() int                  { return s.length }
func (s *Series) NullN() int                { return s.nulls }
func (s *Series) NumChunks() int            { return len(s.chunks) }
func (s *Series) Chunk(i int) arrow.Array   { return s.chunks[i] }
func (s *Series) Sorted() SortOrder         { return s.sorted }

// Chunks returns the chunks of the series. The slice must not be modified
// and the arrays are owned by the series.
func (s *Series) Chunks() []arrow.Array { return s.chunks }

// SetSorted records the order of the values. It is metadata only; the
// caller is responsible for its correctness.
func (s *Series) SetSorted(order SortOrder) { s.sorted = order }

// Rename sets the name of the series.
func (s *Series) Rename(name string) { s.name = name }

// Clone returns a new series sharing the chunks of s, with the same name,
// type and sortedness flag.
func (s *Series) Clone() *Series {
	out := NewUnchecked(s.name, s.dtype, s.chunks)
	out.sorted = s.sorted
	return out
}

// WithDataType returns a series sharing the chunks of s tagged with dtype.
// dtype must have the same physical type as the chunks.
func (s *Series) WithDataType(dtype polars.DataType) *Series {
	return NewUnchecked(s.name, dtype, s.chunks)
}

// ArrowChunked returns the chunks as an arrow.Chunked, which must be
// released.
func (s *Series) ArrowChunked() *arrow.Chunked {
	return arrow.NewChunked(polars.ArrowType(s.dtype), s.chunks)
}

// Equal reports whether both series have the same logical type and
// values. Names, chunk boundaries and sortedness are ignored.
func Equal(left, right *Series) bool {
	if !polars.TypeEqual(left.dtype, right.dtype) || left.length != right.length {
		return false
	}
	l, r := left.ArrowChunked(), right.ArrowChunked()
	defer l.Release()
	defer r.Release()
	return array.ChunkedEqual(l, r)
}

func (s *Series) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s [", s.name, s.dtype)
	for i, c := range s.chunks {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(c.String())
	}
	b.WriteString("]")
	return b.String()
}
