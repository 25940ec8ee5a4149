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
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/cmdlineluser/polars/internal/arrutil"
)

// numbersToBools maps zero to false and everything else, NaN included, to
// true.
func numbersToBools(mem memory.Allocator, data arrow.ArrayData) (arrow.Array, error) {
	switch data.DataType().ID() {
	case arrow.INT8:
		return nonZero[int8](mem, data), nil
	case arrow.INT16:
		return nonZero[int16](mem, data), nil
	case arrow.INT32:
		return nonZero[int32](mem, data), nil
	case arrow.INT64:
		return nonZero[int64](mem, data), nil
	case arrow.UINT8:
		return nonZero[uint8](mem, data), nil
	case arrow.UINT16:
		return nonZero[uint16](mem, data), nil
	case arrow.UINT32:
		return nonZero[uint32](mem, data), nil
	case arrow.UINT64:
		return nonZero[uint64](mem, data), nil
	case arrow.FLOAT32:
		return nonZero[float32](mem, data), nil
	case arrow.FLOAT64:
		return nonZero[float64](mem, data), nil
	}
	return nil, unsupported(data.DataType(), arrow.FixedWidthTypes.Boolean)
}

func nonZero[I numeric](mem memory.Allocator, data arrow.ArrayData) arrow.Array {
	in := arrutil.Values[I](data)
	return mapBools(mem, data, func(i int) (bool, bool) {
		return in[i] != 0, true
	})
}

func boolsToNumbers(mem memory.Allocator, data arrow.ArrayData, to arrow.DataType) (arrow.Array, error) {
	bools := array.NewBooleanData(data)
	defer bools.Release()

	switch to.ID() {
	case arrow.INT8:
		return boolsTo[int8](mem, bools, to), nil
	case arrow.INT16:
		return boolsTo[int16](mem, bools, to), nil
	case arrow.INT32:
		return boolsTo[int32](mem, bools, to), nil
	case arrow.INT64:
		return boolsTo[int64](mem, bools, to), nil
	case arrow.UINT8:
		return boolsTo[uint8](mem, bools, to), nil
	case arrow.UINT16:
		return boolsTo[uint16](mem, bools, to), nil
	case arrow.UINT32:
		return boolsTo[uint32](mem, bools, to), nil
	case arrow.UINT64:
		return boolsTo[uint64](mem, bools, to), nil
	case arrow.FLOAT32:
		return boolsTo[float32](mem, bools, to), nil
	case arrow.FLOAT64:
		return boolsTo[float64](mem, bools, to), nil
	}
	return nil, unsupported(data.DataType(), to)
}

func boolsTo[O numeric](mem memory.Allocator, bools *array.Boolean, to arrow.DataType) arrow.Array {
	return mapValues(mem, bools.Data(), to, func(i int) (O, bool) {
		if bools.Value(i) {
			return 1, true
		}
		return 0, true
	})
}

func formatBools(mem memory.Allocator, data arrow.ArrayData) arrow.Array {
	bools := array.NewBooleanData(data)
	defer bools.Release()
	return mapStrings(mem, data, func(i int) (string, bool) {
		if bools.Value(i) {
			return "true", true
		}
		return "false", true
	})
}
