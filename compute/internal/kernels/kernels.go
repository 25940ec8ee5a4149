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

// Package kernels implements the physical cast kernel used by the compute
// package. It converts one Arrow array into another Arrow type and never
// fails because of individual values: values that cannot be represented
// in the target type become null, unless wrapping is requested.
package kernels

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/compute"

	"github.com/cmdlineluser/polars"
	"github.com/cmdlineluser/polars/internal/arrutil"
	"github.com/cmdlineluser/polars/internal/debug"
)

// CastOptions controls value level behaviour of the kernel.
type CastOptions struct {
	// Wrapped makes integer overflow wrap around modulo the target width
	// and float to integer conversions saturate, instead of producing
	// nulls.
	Wrapped bool
	// Partial is reserved for partially successful nested casts and is
	// currently always false.
	Partial bool
}

// Cast converts arr to the Arrow type to. The allocator is taken from ctx
// as with Arrow's compute functions. The returned array must be released.
//
// Temporal and decimal parameters are read from the Arrow types, so
// callers pass date32, timestamp, duration, time64 and decimal128 arrays
// and targets when those parameters matter.
func Cast(ctx context.Context, arr arrow.Array, to arrow.DataType, opts CastOptions) (arrow.Array, error) {
	from := arr.DataType()
	if arrow.TypeEqual(from, to) {
		arr.Retain()
		return arr, nil
	}

	mem := compute.GetAllocator(ctx)
	data := arr.Data()
	debug.Log(func() string { return fmt.Sprintf("cast kernel %s -> %s (%d values)", from, to, arr.Len()) })

	switch {
	case from.ID() == arrow.NULL || to.ID() == arrow.NULL:
		return array.MakeArrayOfNull(mem, to, arr.Len()), nil
	case isTemporal(from) || isTemporal(to):
		return castTemporal(ctx, arr, to, opts)
	case isDecimal(from) || isDecimal(to):
		return castDecimal(mem, data, to, opts)
	}

	switch to.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
		arrow.FLOAT32, arrow.FLOAT64:
		switch {
		case isNumber(from):
			return castNumeric(mem, data, to, opts.Wrapped)
		case from.ID() == arrow.STRING:
			return parseNumbers(mem, data, to)
		case from.ID() == arrow.BOOL:
			return boolsToNumbers(mem, data, to)
		}
	case arrow.BOOL:
		switch {
		case isNumber(from):
			return numbersToBools(mem, data)
		case from.ID() == arrow.STRING:
			return parseBools(mem, data), nil
		}
	case arrow.STRING:
		switch {
		case isNumber(from):
			return formatNumbers(mem, data)
		case from.ID() == arrow.BOOL:
			return formatBools(mem, data), nil
		case from.ID() == arrow.BINARY:
			return validateUTF8(mem, data), nil
		}
	case arrow.BINARY:
		switch from.ID() {
		case arrow.STRING:
			return arrutil.Relabel(arr, to), nil
		case arrow.LIST:
			if from.(*arrow.ListType).Elem().ID() == arrow.UINT8 {
				return listOfBytesToBinary(mem, arr.(*array.List)), nil
			}
		}
	case arrow.LIST, arrow.FIXED_SIZE_LIST, arrow.STRUCT:
		return castNested(ctx, arr, to, opts)
	}
	return nil, unsupported(from, to)
}

func unsupported(from, to arrow.DataType) error {
	return fmt.Errorf("%w: cannot cast %s to %s", polars.ErrInvalidOperation, from, to)
}

func isNumber(dt arrow.DataType) bool {
	return arrow.IsInteger(dt.ID()) || arrow.IsFloating(dt.ID())
}

func isDecimal(dt arrow.DataType) bool { return dt.ID() == arrow.DECIMAL128 }

func isTemporal(dt arrow.DataType) bool {
	switch dt.ID() {
	case arrow.DATE32, arrow.TIMESTAMP, arrow.DURATION, arrow.TIME64:
		return true
	}
	return false
}
