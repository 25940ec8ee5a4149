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

package compute

import (
	"context"
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-kit/log/level"

	"github.com/cmdlineluser/polars"
	"github.com/cmdlineluser/polars/categories"
	"github.com/cmdlineluser/polars/internal/arrutil"
	"github.com/cmdlineluser/polars/series"
)

// castDictionary handles Categorical and Enum sources. Other dictionaries
// and strings are reached by decoding; integer targets cast the codes.
func castDictionary(ctx context.Context, s *series.Series, to polars.DataType, opts CastOptions) (*series.Series, error) {
	from := s.DataType().(*polars.DictionaryType)

	switch {
	case to.ID() == polars.STRUCT:
		return castToSingleFieldStruct(ctx, s, to.(*polars.StructType), opts)
	case polars.IsInteger(to.ID()):
		codes := s.WithDataType(from.CodeType())
		defer codes.Release()
		return castNumeric(ctx, codes, to, opts)
	}

	strs, err := decodeStrings(ctx, s)
	if err != nil {
		return nil, err
	}
	if to.ID() == polars.STRING {
		return strs, nil
	}
	defer strs.Release()

	level.Debug(GetExecConfig(ctx).Logger).Log("msg", "casting dictionary through strings", "column", s.Name(), "from", from, "to", to)
	return Cast(ctx, strs, to, opts)
}

// encodeStrings dictionary codes a string column. Open mappings grow to
// hold new values; values missing from a frozen mapping become null,
// which fails a Strict cast.
func encodeStrings(ctx context.Context, s *series.Series, to *polars.DictionaryType, opts CastOptions) (*series.Series, error) {
	mem := GetAllocator(ctx)
	m := to.Categories
	codeType := polars.ArrowType(to.CodeType())

	chunks := make([]arrow.Array, 0, s.NumChunks())
	defer func() { releaseChunks(chunks) }()

	for _, c := range s.Chunks() {
		strs := c.(*array.String)
		bldr := array.NewBuilder(mem, codeType)
		bldr.Reserve(strs.Len())

		for i := 0; i < strs.Len(); i++ {
			if strs.IsNull(i) {
				bldr.AppendNull()
				continue
			}
			code, err := encodeValue(m, strs.Value(i))
			switch {
			case err == nil:
				appendCode(bldr, code)
			case errors.Is(err, errUnmapped):
				bldr.AppendNull()
			default:
				bldr.Release()
				return nil, err
			}
		}

		out := bldr.NewArray()
		bldr.Release()
		chunks = append(chunks, out)

		if m.Frozen() && opts.IsStrict() && out.NullN() != c.NullN() {
			return nil, strictCastError(c, out)
		}
	}
	return series.NewUnchecked(s.Name(), to, chunks), nil
}

var errUnmapped = fmt.Errorf("%w: value not in categories", polars.ErrCompute)

func encodeValue(m *categories.Mapping, v string) (uint32, error) {
	if m.Frozen() {
		code, ok := m.Code(v)
		if !ok {
			return 0, errUnmapped
		}
		return code, nil
	}
	return m.GetOrInsert(v)
}

func appendCode(b array.Builder, code uint32) {
	switch b := b.(type) {
	case *array.Uint8Builder:
		b.Append(uint8(code))
	case *array.Uint16Builder:
		b.Append(uint16(code))
	case *array.Uint32Builder:
		b.Append(code)
	}
}

// codeReader returns an accessor for the codes of a chunk of unsigned
// integers, indexed relative to the chunk offset.
func codeReader(data arrow.ArrayData) func(i int) uint32 {
	switch data.DataType().ID() {
	case arrow.UINT8:
		v := arrutil.Values[uint8](data)
		return func(i int) uint32 { return uint32(v[i]) }
	case arrow.UINT16:
		v := arrutil.Values[uint16](data)
		return func(i int) uint32 { return uint32(v[i]) }
	default:
		v := arrutil.Values[uint32](data)
		return func(i int) uint32 { return v[i] }
	}
}

// decodeStrings maps the codes of a dictionary column back to strings.
func decodeStrings(ctx context.Context, s *series.Series) (*series.Series, error) {
	mem := GetAllocator(ctx)
	m := s.DataType().(*polars.DictionaryType).Categories

	chunks := make([]arrow.Array, s.NumChunks())
	defer releaseChunks(chunks)
	for j, c := range s.Chunks() {
		code := codeReader(c.Data())
		bldr := array.NewStringBuilder(mem)
		bldr.Reserve(c.Len())
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				bldr.AppendNull()
				continue
			}
			if v, ok := m.Value(code(i)); ok {
				bldr.Append(v)
			} else {
				bldr.AppendNull()
			}
		}
		chunks[j] = bldr.NewArray()
		bldr.Release()
	}
	return series.NewUnchecked(s.Name(), polars.String, chunks), nil
}

// reinterpretCodes tags a column of codes with a dictionary type. When
// validate is set, codes outside the mapping become null, which fails a
// Strict cast.
func reinterpretCodes(ctx context.Context, codes *series.Series, to *polars.DictionaryType, opts CastOptions, validate bool) (*series.Series, error) {
	if !validate {
		return codes.WithDataType(to), nil
	}

	mem := GetAllocator(ctx)
	chunks := make([]arrow.Array, codes.NumChunks())
	defer releaseChunks(chunks)
	for i, c := range codes.Chunks() {
		masked := maskUnmapped(mem, c, to.Categories)
		chunks[i] = masked
		if opts.IsStrict() && masked.NullN() != c.NullN() {
			return nil, strictCastError(c, masked)
		}
	}
	return series.NewUnchecked(codes.Name(), to, chunks), nil
}

// maskUnmapped nulls codes that are not in m. Chunks without such codes
// are returned as they are.
func maskUnmapped(mem memory.Allocator, c arrow.Array, m *categories.Mapping) arrow.Array {
	code := codeReader(c.Data())
	unmapped := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsValid(i) && !m.Contains(code(i)) {
			unmapped++
		}
	}
	if unmapped == 0 {
		c.Retain()
		return c
	}

	bldr := array.NewBuilder(mem, c.DataType())
	defer bldr.Release()
	bldr.Reserve(c.Len())
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) || !m.Contains(code(i)) {
			bldr.AppendNull()
			continue
		}
		appendCode(bldr, code(i))
	}
	return bldr.NewArray()
}
