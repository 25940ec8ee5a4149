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

package kernels

import (
	"strconv"
	"unicode/utf8"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/exp/constraints"

	"github.com/cmdlineluser/polars/internal/arrutil"
)

func parseNumbers(mem memory.Allocator, data arrow.ArrayData, to arrow.DataType) (arrow.Array, error) {
	strs := array.NewStringData(data)
	defer strs.Release()

	switch to.ID() {
	case arrow.INT8:
		return parseIntegers[int8](mem, strs, to), nil
	case arrow.INT16:
		return parseIntegers[int16](mem, strs, to), nil
	case arrow.INT32:
		return parseIntegers[int32](mem, strs, to), nil
	case arrow.INT64:
		return parseIntegers[int64](mem, strs, to), nil
	case arrow.UINT8:
		return parseIntegers[uint8](mem, strs, to), nil
	case arrow.UINT16:
		return parseIntegers[uint16](mem, strs, to), nil
	case arrow.UINT32:
		return parseIntegers[uint32](mem, strs, to), nil
	case arrow.UINT64:
		return parseIntegers[uint64](mem, strs, to), nil
	case arrow.FLOAT32:
		return parseFloats[float32](mem, strs, to), nil
	case arrow.FLOAT64:
		return parseFloats[float64](mem, strs, to), nil
	}
	return nil, unsupported(data.DataType(), to)
}

func parseIntegers[O constraints.Integer](mem memory.Allocator, strs *array.String, to arrow.DataType) arrow.Array {
	bits := int(8 * SizeOf[O]())
	if MinOf[O]() < 0 {
		return mapValues(mem, strs.Data(), to, func(i int) (O, bool) {
			v, err := strconv.ParseInt(strs.Value(i), 10, bits)
			return O(v), err == nil
		})
	}
	return mapValues(mem, strs.Data(), to, func(i int) (O, bool) {
		v, err := strconv.ParseUint(strs.Value(i), 10, bits)
		return O(v), err == nil
	})
}

func parseFloats[O constraints.Float](mem memory.Allocator, strs *array.String, to arrow.DataType) arrow.Array {
	bits := 8 * sizeOf[O]()
	return mapValues(mem, strs.Data(), to, func(i int) (O, bool) {
		v, err := strconv.ParseFloat(strs.Value(i), bits)
		return O(v), err == nil
	})
}

func parseBools(mem memory.Allocator, data arrow.ArrayData) arrow.Array {
	strs := array.NewStringData(data)
	defer strs.Release()
	return mapBools(mem, data, func(i int) (bool, bool) {
		v, err := strconv.ParseBool(strs.Value(i))
		return v, err == nil
	})
}

// validateUTF8 relabels binary data as strings, nulling values that are
// not valid UTF-8. The offsets and values buffers are shared.
func validateUTF8(mem memory.Allocator, data arrow.ArrayData) arrow.Array {
	if data.Len() == 0 {
		return array.MakeArrayOfNull(mem, arrow.BinaryTypes.String, 0)
	}

	bins := array.NewBinaryData(data)
	defer bins.Release()

	mask := newNullMask(mem, data)
	for i := 0; i < bins.Len(); i++ {
		if arrutil.IsValid(data, i) && !utf8.Valid(bins.Value(i)) {
			mask.setNull(i)
		}
	}
	validity, nulls := mask.finish()

	n, off := data.Len(), data.Offset()
	buffers := data.Buffers()
	offsets := memory.SliceBuffer(buffers[1], off*arrow.Int32SizeBytes, (n+1)*arrow.Int32SizeBytes)
	values := buffers[2]
	if values != nil {
		values.Retain()
	}
	return makeArray(arrow.BinaryTypes.String, n, nulls, validity, offsets, values)
}

func listOfBytesToBinary(mem memory.Allocator, list *array.List) arrow.Array {
	bytes := list.ListValues().(*array.Uint8).Uint8Values()

	bldr := array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)
	defer bldr.Release()
	bldr.Reserve(list.Len())
	for i := 0; i < list.Len(); i++ {
		if list.IsNull(i) {
			bldr.AppendNull()
			continue
		}
		start, end := list.ValueOffsets(i)
		bldr.Append(bytes[start:end])
	}
	return bldr.NewArray()
}

// formatNumbers renders numbers in decimal. Floats use the shortest
// representation that parses back to the same value.
func formatNumbers(mem memory.Allocator, data arrow.ArrayData) (arrow.Array, error) {
	switch data.DataType().ID() {
	case arrow.INT8:
		return formatSigned[int8](mem, data), nil
	case arrow.INT16:
		return formatSigned[int16](mem, data), nil
	case arrow.INT32:
		return formatSigned[int32](mem, data), nil
	case arrow.INT64:
		return formatSigned[int64](mem, data), nil
	case arrow.UINT8:
		return formatUnsigned[uint8](mem, data), nil
	case arrow.UINT16:
		return formatUnsigned[uint16](mem, data), nil
	case arrow.UINT32:
		return formatUnsigned[uint32](mem, data), nil
	case arrow.UINT64:
		return formatUnsigned[uint64](mem, data), nil
	case arrow.FLOAT32:
		return formatFloats[float32](mem, data, 32), nil
	case arrow.FLOAT64:
		return formatFloats[float64](mem, data, 64), nil
	}
	return nil, unsupported(data.DataType(), arrow.BinaryTypes.String)
}

func formatSigned[I constraints.Signed](mem memory.Allocator, data arrow.ArrayData) arrow.Array {
	in := arrutil.Values[I](data)
	return mapStrings(mem, data, func(i int) (string, bool) {
		return strconv.FormatInt(int64(in[i]), 10), true
	})
}

func formatUnsigned[I constraints.Unsigned](mem memory.Allocator, data arrow.ArrayData) arrow.Array {
	in := arrutil.Values[I](data)
	return mapStrings(mem, data, func(i int) (string, bool) {
		return strconv.FormatUint(uint64(in[i]), 10), true
	})
}

func formatFloats[I constraints.Float](mem memory.Allocator, data arrow.ArrayData, bits int) arrow.Array {
	in := arrutil.Values[I](data)
	return mapStrings(mem, data, func(i int) (string, bool) {
		return strconv.FormatFloat(float64(in[i]), 'g', -1, bits), true
	})
}
