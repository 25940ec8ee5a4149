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

package series

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/bitutil"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/xerrors"

	"github.com/cmdlineluser/polars"
	"github.com/cmdlineluser/polars/internal/arrutil"
)

// FullNull returns a single chunk series of length nulls of type dtype.
func FullNull(mem memory.Allocator, name string, length int, dtype polars.DataType) *Series {
	arr := array.MakeArrayOfNull(mem, polars.ArrowType(dtype), length)
	defer arr.Release()
	return NewUnchecked(name, dtype, []arrow.Array{arr})
}

// FromArrow builds a series from Arrow arrays carrying logical types, such
// as date32, timestamp or decimal128. The logical type is derived from the
// first chunk and every chunk is relabelled to its physical storage.
func FromArrow(name string, chunks ...arrow.Array) (*Series, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: series %q: no chunks to derive a type from",
			polars.ErrInvalidOperation, name)
	}

	dtype, err := polars.FromArrowType(chunks[0].DataType())
	if err != nil {
		return nil, err
	}

	physical := polars.ArrowType(dtype)
	relabelled := make([]arrow.Array, len(chunks))
	defer func() {
		for _, c := range relabelled {
			if c != nil {
				c.Release()
			}
		}
	}()
	for i, c := range chunks {
		if !arrow.TypeEqual(c.DataType(), chunks[0].DataType()) {
			return nil, fmt.Errorf("%w: chunk %d of %q has type %s, expected %s",
				polars.ErrSchemaMismatch, i, name, c.DataType(), chunks[0].DataType())
		}
		relabelled[i] = arrutil.Relabel(c, physical)
	}
	return NewUnchecked(name, dtype, relabelled), nil
}

// FromJSON builds a single chunk series of type dtype from a JSON array in
// the notation of array.FromJSON for the logical Arrow type of dtype, so
// dates and timestamps may be given as strings.
func FromJSON(mem memory.Allocator, name string, dtype polars.DataType, data string) (*Series, error) {
	arr, _, err := array.FromJSON(mem, polars.LogicalArrowType(dtype), strings.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer arr.Release()

	physical := arrutil.Relabel(arr, polars.ArrowType(dtype))
	defer physical.Release()
	return NewUnchecked(name, dtype, []arrow.Array{physical}), nil
}

// NewStruct assembles a struct series from its field columns. Every field
// must have length rows. validity is the struct level bitmap starting at
// bit zero, or nil when no row is null; it is retained, not taken over.
func NewStruct(mem memory.Allocator, name string, length int, fields []*Series, validity *memory.Buffer) (*Series, error) {
	polarsFields := make([]polars.Field, len(fields))
	children := make([]arrow.ArrayData, len(fields))
	defer func() {
		for _, c := range children {
			if c != nil {
				c.Release()
			}
		}
	}()

	for i, f := range fields {
		if f.Len() != length {
			return nil, fmt.Errorf("%w: struct field %q has length %d, expected %d",
				polars.ErrSchemaMismatch, f.Name(), f.Len(), length)
		}
		polarsFields[i] = polars.NewField(f.Name(), f.DataType())

		single, err := f.Rechunk(mem)
		if err != nil {
			return nil, err
		}
		children[i] = single.Chunk(0).Data()
		children[i].Retain()
		single.Release()
	}

	dtype := polars.StructOf(polarsFields...)
	nulls := 0
	if validity != nil {
		nulls = length - bitutil.CountSetBits(validity.Bytes(), 0, length)
	}
	data := array.NewData(polars.ArrowType(dtype), length, []*memory.Buffer{validity}, children, nulls, 0)
	defer data.Release()
	arr := array.MakeFromData(data)
	defer arr.Release()
	return NewUnchecked(name, dtype, []arrow.Array{arr}), nil
}

// Rechunk returns the series as a single chunk. A series that already has
// one chunk is cloned.
func (s *Series) Rechunk(mem memory.Allocator) (*Series, error) {
	if len(s.chunks) == 1 {
		return s.Clone(), nil
	}

	arr, err := array.Concatenate(s.chunks, mem)
	if err != nil {
		return nil, xerrors.Errorf("series: could not rechunk %q: %w", s.name, err)
	}
	defer arr.Release()

	out := NewUnchecked(s.name, s.dtype, []arrow.Array{arr})
	out.sorted = s.sorted
	return out, nil
}

// LogicalChunks returns the chunks relabelled to the logical Arrow type of
// the series, for instance timestamp[ms, tz=UTC] rather than int64. Each
// returned array must be released.
func (s *Series) LogicalChunks() []arrow.Array {
	dt := polars.LogicalArrowType(s.dtype)
	out := make([]arrow.Array, len(s.chunks))
	for i, c := range s.chunks {
		out[i] = arrutil.Relabel(c, dt)
	}
	return out
}

// StructFields returns one series per field of a struct series. The field
// series share storage with s. Struct level nulls are not pushed into the
// fields. Every returned series must be released.
func (s *Series) StructFields() ([]*Series, error) {
	st, ok := s.dtype.(*polars.StructType)
	if !ok {
		return nil, fmt.Errorf("%w: series %q of type %s is not a struct",
			polars.ErrInvalidOperation, s.name, s.dtype)
	}

	out := make([]*Series, len(st.Fields))
	for i, f := range st.Fields {
		chunks := make([]arrow.Array, len(s.chunks))
		for j, c := range s.chunks {
			chunks[j] = c.(*array.Struct).Field(i)
		}
		out[i] = NewUnchecked(f.Name, f.Type, chunks)
	}
	return out, nil
}
