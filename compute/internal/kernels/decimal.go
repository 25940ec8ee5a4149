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
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/exp/constraints"

	"github.com/cmdlineluser/polars/internal/arrutil"
)

func castDecimal(mem memory.Allocator, data arrow.ArrayData, to arrow.DataType, opts CastOptions) (arrow.Array, error) {
	if from, ok := data.DataType().(*arrow.Decimal128Type); ok {
		return castFromDecimal(mem, data, from, to, opts.Wrapped)
	}

	dec := to.(*arrow.Decimal128Type)
	switch data.DataType().ID() {
	case arrow.INT8:
		return integersToDecimal[int8](mem, data, dec), nil
	case arrow.INT16:
		return integersToDecimal[int16](mem, data, dec), nil
	case arrow.INT32:
		return integersToDecimal[int32](mem, data, dec), nil
	case arrow.INT64:
		return integersToDecimal[int64](mem, data, dec), nil
	case arrow.UINT8:
		return integersToDecimal[uint8](mem, data, dec), nil
	case arrow.UINT16:
		return integersToDecimal[uint16](mem, data, dec), nil
	case arrow.UINT32:
		return integersToDecimal[uint32](mem, data, dec), nil
	case arrow.UINT64:
		return integersToDecimal[uint64](mem, data, dec), nil
	case arrow.FLOAT32:
		return floatsToDecimal[float32](mem, data, dec), nil
	case arrow.FLOAT64:
		return floatsToDecimal[float64](mem, data, dec), nil
	case arrow.BOOL:
		bools := array.NewBooleanData(data)
		defer bools.Release()
		return mapValues(mem, data, dec, func(i int) (decimal128.Num, bool) {
			var n decimal128.Num
			if bools.Value(i) {
				n = decimal128.FromU64(1)
			}
			return rescaleDecimal(n, 0, dec)
		}), nil
	case arrow.STRING:
		strs := array.NewStringData(data)
		defer strs.Release()
		return mapValues(mem, data, dec, func(i int) (decimal128.Num, bool) {
			n, err := decimal128.FromString(strs.Value(i), dec.Precision, dec.Scale)
			return n, err == nil
		}), nil
	}
	return nil, unsupported(data.DataType(), to)
}

// rescaleDecimal moves n from scale to the scale of to, truncating digits
// when the scale shrinks, and reports whether the result fits the target
// precision.
func rescaleDecimal(n decimal128.Num, scale int32, to *arrow.Decimal128Type) (decimal128.Num, bool) {
	switch d := to.Scale - scale; {
	case d > 0:
		if to.Precision <= d {
			return n, n.Sign() == 0
		}
		if !n.FitsInPrecision(to.Precision - d) {
			return n, false
		}
		n = n.IncreaseScaleBy(d)
	case d < 0:
		n = n.ReduceScaleBy(-d, false)
	}
	return n, n.FitsInPrecision(to.Precision)
}

func integersToDecimal[I constraints.Integer](mem memory.Allocator, data arrow.ArrayData, to *arrow.Decimal128Type) arrow.Array {
	in := arrutil.Values[I](data)
	signed := MinOf[I]() < 0
	return mapValues(mem, data, to, func(i int) (decimal128.Num, bool) {
		if signed {
			return rescaleDecimal(decimal128.FromI64(int64(in[i])), 0, to)
		}
		return rescaleDecimal(decimal128.FromU64(uint64(in[i])), 0, to)
	})
}

func floatsToDecimal[I constraints.Float](mem memory.Allocator, data arrow.ArrayData, to *arrow.Decimal128Type) arrow.Array {
	in := arrutil.Values[I](data)
	return mapValues(mem, data, to, func(i int) (decimal128.Num, bool) {
		n, err := decimal128.FromFloat64(float64(in[i]), to.Precision, to.Scale)
		return n, err == nil
	})
}

func castFromDecimal(mem memory.Allocator, data arrow.ArrayData, from *arrow.Decimal128Type, to arrow.DataType, wrapped bool) (arrow.Array, error) {
	decs := array.NewDecimal128Data(data)
	defer decs.Release()

	switch to := to.(type) {
	case *arrow.Decimal128Type:
		return mapValues(mem, data, to, func(i int) (decimal128.Num, bool) {
			return rescaleDecimal(decs.Value(i), from.Scale, to)
		}), nil
	case *arrow.Float32Type:
		return mapValues(mem, data, to, func(i int) (float32, bool) {
			return decs.Value(i).ToFloat32(from.Scale), true
		}), nil
	case *arrow.Float64Type:
		return mapValues(mem, data, to, func(i int) (float64, bool) {
			return decs.Value(i).ToFloat64(from.Scale), true
		}), nil
	case *arrow.StringType:
		return mapStrings(mem, data, func(i int) (string, bool) {
			return decs.Value(i).ToString(from.Scale), true
		}), nil
	case *arrow.BooleanType:
		return mapBools(mem, data, func(i int) (bool, bool) {
			return decs.Value(i).Sign() != 0, true
		}), nil
	}

	switch to.ID() {
	case arrow.INT8:
		return decimalToInteger[int8](mem, decs, from.Scale, to, wrapped), nil
	case arrow.INT16:
		return decimalToInteger[int16](mem, decs, from.Scale, to, wrapped), nil
	case arrow.INT32:
		return decimalToInteger[int32](mem, decs, from.Scale, to, wrapped), nil
	case arrow.INT64:
		return decimalToInteger[int64](mem, decs, from.Scale, to, wrapped), nil
	case arrow.UINT8:
		return decimalToInteger[uint8](mem, decs, from.Scale, to, wrapped), nil
	case arrow.UINT16:
		return decimalToInteger[uint16](mem, decs, from.Scale, to, wrapped), nil
	case arrow.UINT32:
		return decimalToInteger[uint32](mem, decs, from.Scale, to, wrapped), nil
	case arrow.UINT64:
		return decimalToInteger[uint64](mem, decs, from.Scale, to, wrapped), nil
	}
	return nil, unsupported(from, to)
}

// decimalToInteger truncates the fractional digits. Values outside the
// range of O are nulled, or keep their low bits when wrapping.
func decimalToInteger[O constraints.Integer](mem memory.Allocator, decs *array.Decimal128, scale int32, to arrow.DataType, wrapped bool) arrow.Array {
	return mapValues(mem, decs.Data(), to, func(i int) (O, bool) {
		v := decs.Value(i)
		if scale > 0 {
			v = v.ReduceScaleBy(scale, false)
		}
		hi, lo := v.HighBits(), v.LowBits()
		switch {
		case wrapped:
			return O(lo), true
		case MinOf[O]() < 0:
			// representable as int64 when hi only sign extends lo
			if hi != int64(lo)>>63 {
				return 0, false
			}
			return integerToInteger[int64, O](int64(lo))
		case hi != 0:
			return 0, false
		}
		return integerToInteger[uint64, O](lo)
	})
}
