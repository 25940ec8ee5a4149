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
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/bitutil"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-kit/log/level"

	"github.com/cmdlineluser/polars"
	"github.com/cmdlineluser/polars/internal/arrutil"
	"github.com/cmdlineluser/polars/internal/debug"
	"github.com/cmdlineluser/polars/series"
)

// innerCast casts the flattened child values of a nested column.
type innerCast func(ctx context.Context, s *series.Series, to polars.DataType) (*series.Series, error)

func checkedInner(opts CastOptions) innerCast {
	return func(ctx context.Context, s *series.Series, to polars.DataType) (*series.Series, error) {
		return Cast(ctx, s, to, opts)
	}
}

func uncheckedInner(ctx context.Context, s *series.Series, to polars.DataType) (*series.Series, error) {
	return CastUnchecked(ctx, s, to)
}

// dictionaryInnerAllowed reports whether values of type inner may be
// dictionary coded as part of a nested cast.
func dictionaryInnerAllowed(inner polars.DataType) bool {
	switch inner.ID() {
	case polars.STRING, polars.NULL, polars.CATEGORICAL, polars.ENUM:
		return true
	}
	return false
}

func castList(ctx context.Context, s *series.Series, to polars.DataType, opts CastOptions) (*series.Series, error) {
	inner := s.DataType().(*polars.ListType).Elem

	switch to := to.(type) {
	case *polars.StructType:
		return castToSingleFieldStruct(ctx, s, to, opts)
	case *polars.ListType:
		if polars.TypeEqual(inner, to.Elem) {
			return normalizeList(ctx, s)
		}
		if polars.IsDictionary(to.Elem.ID()) && !dictionaryInnerAllowed(inner) {
			return nil, fmt.Errorf("%w: cannot cast List inner type: '%s' to Categorical",
				polars.ErrInvalidOperation, inner)
		}
		return castListInner(ctx, s, to, checkedInner(opts))
	case *polars.ArrayType:
		if polars.IsDictionary(to.Elem.ID()) {
			return nil, fmt.Errorf("%w: array of categorical is not yet supported", polars.ErrInvalidOperation)
		}
		// only columns without any list values fit a fixed width
		if s.NullN() == s.Len() {
			return castNull(ctx, s, to)
		}
		return nil, fmt.Errorf("%w: cannot cast List type (inner: '%s', to: '%s')",
			polars.ErrInvalidOperation, inner, to)
	}

	if to.ID() == polars.BINARY && inner.ID() == polars.UINT8 {
		return castImplInner(ctx, s, to, opts)
	}
	return nil, fmt.Errorf("%w: cannot cast List type (inner: '%s', to: '%s')",
		polars.ErrInvalidOperation, inner, to)
}

func castArray(ctx context.Context, s *series.Series, to polars.DataType, opts CastOptions) (*series.Series, error) {
	from := s.DataType().(*polars.ArrayType)

	switch to := to.(type) {
	case *polars.StructType:
		return castToSingleFieldStruct(ctx, s, to, opts)
	case *polars.ArrayType:
		if to.Width != from.Width {
			return nil, fmt.Errorf("%w: cannot cast Array to a different width", polars.ErrInvalidOperation)
		}
		if polars.TypeEqual(from.Elem, to.Elem) {
			return normalizeArray(ctx, s)
		}
		if polars.IsDictionary(to.Elem.ID()) && !dictionaryInnerAllowed(from.Elem) {
			return nil, fmt.Errorf("%w: cannot cast Array inner type: '%s' to dtype: %s",
				polars.ErrInvalidOperation, from.Elem, to.Elem)
		}
		return castArrayInner(ctx, s, to, checkedInner(opts))
	case *polars.ListType:
		list, err := arrayToList(ctx, s)
		if err != nil {
			return nil, err
		}
		defer list.Release()
		return castList(ctx, list, to, opts)
	}
	return nil, fmt.Errorf("%w: cannot cast Array type (inner: '%s', to: '%s')",
		polars.ErrInvalidOperation, from.Elem, to)
}

// rechunk normalizes a nested column to one chunk before its values are
// flattened.
func rechunk(ctx context.Context, s *series.Series) (*series.Series, error) {
	if s.NumChunks() > 1 {
		level.Debug(GetExecConfig(ctx).Logger).Log("msg", "rechunking nested column", "column", s.Name(), "chunks", s.NumChunks())
	}
	return s.Rechunk(GetAllocator(ctx))
}

// normalizeList returns s as a single list chunk whose offsets start at
// zero and whose null entries are empty.
func normalizeList(ctx context.Context, s *series.Series) (*series.Series, error) {
	single, err := rechunk(ctx, s)
	if err != nil {
		return nil, err
	}
	defer single.Release()

	list := single.Chunk(0).(*array.List)
	if listIsNormalized(list) {
		single.Retain()
		return single, nil
	}

	mem := GetAllocator(ctx)
	offsets, child, err := compactList(mem, list)
	if err != nil {
		return nil, err
	}
	defer offsets.Release()
	defer child.Release()

	validity := arrutil.ValidityBitmap(mem, list.Data())
	if validity != nil {
		defer validity.Release()
	}
	data := array.NewData(list.DataType(), list.Len(), []*memory.Buffer{validity, offsets},
		[]arrow.ArrayData{child.Data()}, list.NullN(), 0)
	defer data.Release()
	arr := array.MakeFromData(data)
	defer arr.Release()

	out := series.NewUnchecked(s.Name(), s.DataType(), []arrow.Array{arr})
	out.SetSorted(s.Sorted())
	return out, nil
}

func listIsNormalized(list *array.List) bool {
	if list.Len() == 0 {
		return true
	}
	if list.Data().Offset() != 0 {
		return false
	}
	if start, _ := list.ValueOffsets(0); start != 0 {
		return false
	}
	for i := 0; i < list.Len(); i++ {
		if start, end := list.ValueOffsets(i); list.IsNull(i) && end != start {
			return false
		}
	}
	return true
}

// compactList rebuilds the offsets of list from zero and gathers the child
// values of its valid entries, dropping values under null entries.
func compactList(mem memory.Allocator, list *array.List) (*memory.Buffer, arrow.Array, error) {
	values := list.ListValues()

	buf := memory.NewResizableBuffer(mem)
	buf.Resize((list.Len() + 1) * arrow.Int32SizeBytes)
	offsets := arrutil.CastFromBytesTo[int32](buf.Bytes())

	var runs []arrow.Array
	runStart, runEnd := int64(-1), int64(-1)
	flush := func() {
		if runStart >= 0 && runEnd > runStart {
			runs = append(runs, array.NewSlice(values, runStart, runEnd))
		}
		runStart, runEnd = -1, -1
	}

	var pos int32
	for i := 0; i < list.Len(); i++ {
		offsets[i] = pos
		if list.IsNull(i) {
			continue
		}
		start, end := list.ValueOffsets(i)
		if start != runEnd {
			flush()
			runStart = start
		}
		runEnd = end
		pos += int32(end - start)
	}
	offsets[list.Len()] = pos
	flush()
	debug.Assertf(offsets[0] == 0, "list offsets start at %d", offsets[0])

	var child arrow.Array
	switch len(runs) {
	case 0:
		child = array.NewSlice(values, 0, 0)
	case 1:
		child = runs[0]
		child.Retain()
	default:
		var err error
		child, err = array.Concatenate(runs, mem)
		if err != nil {
			buf.Release()
			releaseChunks(runs)
			return nil, nil, err
		}
	}
	releaseChunks(runs)
	return buf, child, nil
}

// castListInner casts the child values of a normalized list column and
// rebuilds the list around them. The inner type of the result is the type
// the child cast produced.
func castListInner(ctx context.Context, s *series.Series, to *polars.ListType, inner innerCast) (*series.Series, error) {
	normalized, err := normalizeList(ctx, s)
	if err != nil {
		return nil, err
	}
	defer normalized.Release()

	list := normalized.Chunk(0).(*array.List)
	var end int64
	if list.Len() > 0 {
		_, end = list.ValueOffsets(list.Len() - 1)
	}
	flat := array.NewSlice(list.ListValues(), 0, end)
	defer flat.Release()
	values := series.NewUnchecked("", s.DataType().(*polars.ListType).Elem, []arrow.Array{flat})
	defer values.Release()

	child, err := castValues(ctx, values, to.Elem, inner)
	if err != nil {
		return nil, err
	}
	defer child.Release()
	debug.Assert(child.Len() == int(end), "inner cast changed the number of list values")

	realized := polars.ListOf(child.DataType())
	buffers := list.Data().Buffers()
	data := array.NewData(polars.ArrowType(realized), list.Len(), buffers,
		[]arrow.ArrayData{child.Chunk(0).Data()}, list.NullN(), list.Data().Offset())
	defer data.Release()
	arr := array.MakeFromData(data)
	defer arr.Release()

	return series.NewUnchecked(s.Name(), realized, []arrow.Array{arr}), nil
}

// castValues casts flattened child values and returns them as one chunk.
func castValues(ctx context.Context, values *series.Series, to polars.DataType, inner innerCast) (*series.Series, error) {
	out, err := inner(ctx, values, to)
	if err != nil {
		return nil, err
	}
	if out.NumChunks() == 1 {
		return out, nil
	}
	defer out.Release()
	return out.Rechunk(GetAllocator(ctx))
}

// normalizeArray returns s as a single fixed size list chunk without an
// offset whose null entries have null child values.
func normalizeArray(ctx context.Context, s *series.Series) (*series.Series, error) {
	single, err := rechunk(ctx, s)
	if err != nil {
		return nil, err
	}
	defer single.Release()

	mem := GetAllocator(ctx)
	fsl := single.Chunk(0).(*array.FixedSizeList)
	width := int(fsl.DataType().(*arrow.FixedSizeListType).Len())
	if fsl.Data().Offset() == 0 && fsl.NullN() == 0 {
		single.Retain()
		return single, nil
	}

	child := propagateNulls(mem, fsl, width)
	defer child.Release()

	validity := arrutil.ValidityBitmap(mem, fsl.Data())
	if validity != nil {
		defer validity.Release()
	}
	data := array.NewData(fsl.DataType(), fsl.Len(), []*memory.Buffer{validity},
		[]arrow.ArrayData{child}, fsl.NullN(), 0)
	defer data.Release()
	arr := array.MakeFromData(data)
	defer arr.Release()

	out := series.NewUnchecked(s.Name(), s.DataType(), []arrow.Array{arr})
	out.SetSorted(s.Sorted())
	return out, nil
}

// propagateNulls returns the child values of fsl that belong to its
// entries, with the values of null entries marked null.
func propagateNulls(mem memory.Allocator, fsl *array.FixedSizeList, width int) arrow.ArrayData {
	parent := fsl.Data()
	childData := array.NewSliceData(fsl.ListValues().Data(),
		int64(parent.Offset()*width), int64((parent.Offset()+fsl.Len())*width))
	defer childData.Release()

	if fsl.NullN() == 0 || childData.DataType().ID() == arrow.NULL {
		childData.Retain()
		return childData
	}

	// the bitmap is addressed like the child buffers, from bit zero
	off, n := childData.Offset(), childData.Len()
	bitmap := memory.NewResizableBuffer(mem)
	defer bitmap.Release()
	bitmap.Resize(int(bitutil.BytesForBits(int64(off + n))))
	memory.Set(bitmap.Bytes(), 0)

	nulls := 0
	for j := 0; j < n; j++ {
		if fsl.IsValid(j/width) && arrutil.IsValid(childData, j) {
			bitutil.SetBit(bitmap.Bytes(), off+j)
		} else {
			nulls++
		}
	}

	buffers := append([]*memory.Buffer{bitmap}, childData.Buffers()[1:]...)
	return array.NewData(childData.DataType(), n, buffers, childData.Children(), nulls, off)
}

// castArrayInner casts the child values of a normalized fixed size list
// column and rebuilds it.
func castArrayInner(ctx context.Context, s *series.Series, to *polars.ArrayType, inner innerCast) (*series.Series, error) {
	normalized, err := normalizeArray(ctx, s)
	if err != nil {
		return nil, err
	}
	defer normalized.Release()

	fsl := normalized.Chunk(0).(*array.FixedSizeList)
	childData := array.NewSliceData(fsl.ListValues().Data(), 0, int64(fsl.Len()*to.Width))
	defer childData.Release()
	childArr := array.MakeFromData(childData)
	defer childArr.Release()

	values := series.NewUnchecked("", s.DataType().(*polars.ArrayType).Elem, []arrow.Array{childArr})
	defer values.Release()

	child, err := castValues(ctx, values, to.Elem, inner)
	if err != nil {
		return nil, err
	}
	defer child.Release()

	realized := polars.ArrayOf(child.DataType(), to.Width)
	data := array.NewData(polars.ArrowType(realized), fsl.Len(), fsl.Data().Buffers(),
		[]arrow.ArrayData{child.Chunk(0).Data()}, fsl.NullN(), 0)
	defer data.Release()
	arr := array.MakeFromData(data)
	defer arr.Release()

	return series.NewUnchecked(s.Name(), realized, []arrow.Array{arr}), nil
}

// arrayToList turns a fixed size list column into a list column with the
// same inner type.
func arrayToList(ctx context.Context, s *series.Series) (*series.Series, error) {
	normalized, err := normalizeArray(ctx, s)
	if err != nil {
		return nil, err
	}
	defer normalized.Release()

	mem := GetAllocator(ctx)
	fsl := normalized.Chunk(0).(*array.FixedSizeList)
	width := int32(fsl.DataType().(*arrow.FixedSizeListType).Len())

	offsets := memory.NewResizableBuffer(mem)
	defer offsets.Release()
	offsets.Resize((fsl.Len() + 1) * arrow.Int32SizeBytes)
	offs := arrutil.CastFromBytesTo[int32](offsets.Bytes())
	for i := range offs {
		offs[i] = int32(i) * width
	}

	dtype := polars.ListOf(s.DataType().(*polars.ArrayType).Elem)
	data := array.NewData(polars.ArrowType(dtype), fsl.Len(),
		[]*memory.Buffer{fsl.Data().Buffers()[0], offsets},
		[]arrow.ArrayData{fsl.ListValues().Data()}, fsl.NullN(), 0)
	defer data.Release()
	arr := array.MakeFromData(data)
	defer arr.Release()

	return series.NewUnchecked(s.Name(), dtype, []arrow.Array{arr}), nil
}
