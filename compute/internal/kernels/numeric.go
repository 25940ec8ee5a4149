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
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/exp/constraints"

	"github.com/cmdlineluser/polars/internal/arrutil"
)

func castNumeric(mem memory.Allocator, data arrow.ArrayData, to arrow.DataType, wrapped bool) (arrow.Array, error) {
	switch data.DataType().ID() {
	case arrow.INT8:
		return castNumericFrom[int8](mem, data, to, wrapped)
	case arrow.INT16:
		return castNumericFrom[int16](mem, data, to, wrapped)
	case arrow.INT32:
		return castNumericFrom[int32](mem, data, to, wrapped)
	case arrow.INT64:
		return castNumericFrom[int64](mem, data, to, wrapped)
	case arrow.UINT8:
		return castNumericFrom[uint8](mem, data, to, wrapped)
	case arrow.UINT16:
		return castNumericFrom[uint16](mem, data, to, wrapped)
	case arrow.UINT32:
		return castNumericFrom[uint32](mem, data, to, wrapped)
	case arrow.UINT64:
		return castNumericFrom[uint64](mem, data, to, wrapped)
	case arrow.FLOAT32:
		return castNumericFrom[float32](mem, data, to, wrapped)
	case arrow.FLOAT64:
		return castNumericFrom[float64](mem, data, to, wrapped)
	}
	return nil, unsupported(data.DataType(), to)
}

func castNumericFrom[I numeric](mem memory.Allocator, data arrow.ArrayData, to arrow.DataType, wrapped bool) (arrow.Array, error) {
	switch to.ID() {
	case arrow.INT8:
		return castToInteger[I, int8](mem, data, to, wrapped), nil
	case arrow.INT16:
		return castToInteger[I, int16](mem, data, to, wrapped), nil
	case arrow.INT32:
		return castToInteger[I, int32](mem, data, to, wrapped), nil
	case arrow.INT64:
		return castToInteger[I, int64](mem, data, to, wrapped), nil
	case arrow.UINT8:
		return castToInteger[I, uint8](mem, data, to, wrapped), nil
	case arrow.UINT16:
		return castToInteger[I, uint16](mem, data, to, wrapped), nil
	case arrow.UINT32:
		return castToInteger[I, uint32](mem, data, to, wrapped), nil
	case arrow.UINT64:
		return castToInteger[I, uint64](mem, data, to, wrapped), nil
	case arrow.FLOAT32:
		return castToFloating[I, float32](mem, data, to), nil
	case arrow.FLOAT64:
		return castToFloating[I, float64](mem, data, to), nil
	}
	return nil, unsupported(data.DataType(), to)
}

func castToFloating[I numeric, O constraints.Float](mem memory.Allocator, data arrow.ArrayData, to arrow.DataType) arrow.Array {
	in := arrutil.Values[I](data)
	return mapValues(mem, data, to, func(i int) (O, bool) {
		return O(in[i]), true
	})
}

func castToInteger[I numeric, O constraints.Integer](mem memory.Allocator, data arrow.ArrayData, to arrow.DataType, wrapped bool) arrow.Array {
	in := arrutil.Values[I](data)
	var conv func(I) (O, bool)
	switch {
	case isFloat[I]():
		conv = floatToInteger[I, O](wrapped)
	case wrapped:
		conv = func(v I) (O, bool) { return O(v), true }
	default:
		conv = integerToInteger[I, O]
	}
	return mapValues(mem, data, to, func(i int) (O, bool) {
		return conv(in[i])
	})
}

// integerToInteger converts v when it is representable in O.
func integerToInteger[I numeric, O constraints.Integer](v I) (O, bool) {
	out := O(v)
	if I(out) != v || (v < 0) != (out < 0) {
		return 0, false
	}
	return out, true
}

// floatToInteger truncates towards zero. Out of range and NaN values are
// nulled, or saturated (NaN becoming zero) when wrapping.
func floatToInteger[I numeric, O constraints.Integer](wrapped bool) func(I) (O, bool) {
	lower := float64(MinOf[O]())
	// exclusive; exact for every integer width since it is a power of two
	upper := float64(MaxOf[O]()) + 1

	if wrapped {
		return func(v I) (O, bool) {
			f := float64(v)
			switch {
			case math.IsNaN(f):
				return 0, true
			case f <= lower:
				return MinOf[O](), true
			case f >= upper:
				return MaxOf[O](), true
			}
			return O(f), true
		}
	}

	return func(v I) (O, bool) {
		f := math.Trunc(float64(v))
		if !(f >= lower && f < upper) {
			return 0, false
		}
		return O(f), true
	}
}
