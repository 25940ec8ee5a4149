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
	"context"
	"time"

	"github.com/JohnCGriffin/overflow"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/compute"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/cmdlineluser/polars/internal/arrutil"
)

const (
	dateLayout          = "2006-01-02"
	datetimeLayout      = "2006-01-02 15:04:05.999999999"
	datetimeZonedLayout = "2006-01-02 15:04:05.999999999Z07:00"
	nanosPerDay         = int64(24 * time.Hour)
)

// physicalOf returns the integer type temporal values are stored as.
func physicalOf(dt arrow.DataType) arrow.DataType {
	if dt.ID() == arrow.DATE32 {
		return arrow.PrimitiveTypes.Int32
	}
	return arrow.PrimitiveTypes.Int64
}

func castTemporal(ctx context.Context, arr arrow.Array, to arrow.DataType, opts CastOptions) (arrow.Array, error) {
	from := arr.DataType()
	mem := compute.GetAllocator(ctx)

	switch {
	case from.ID() == arrow.STRING && isTemporal(to):
		return parseTemporal(mem, arr.Data(), to)
	case isTemporal(from) && to.ID() == arrow.STRING:
		return formatTemporal(mem, arr.Data())
	case isTemporal(from) && isTemporal(to):
		return convertTemporal(mem, arr.Data(), to, opts.Wrapped)
	case isTemporal(from):
		// temporal to number or decimal goes through the stored integers
		physical := arrutil.Relabel(arr, physicalOf(from))
		defer physical.Release()
		return Cast(ctx, physical, to, opts)
	case isNumber(from) || isDecimal(from) || from.ID() == arrow.BOOL:
		physical, err := Cast(ctx, arr, physicalOf(to), opts)
		if err != nil {
			return nil, err
		}
		defer physical.Release()
		return arrutil.Relabel(physical, to), nil
	}
	return nil, unsupported(from, to)
}

func nanosPer(unit arrow.TimeUnit) int64 { return int64(unit.Multiplier()) }

// convertUnit rescales v between time units. Going to a coarser unit
// rounds towards negative infinity when floor is set and towards zero
// otherwise. Going to a finer unit fails on overflow unless wrapped.
func convertUnit(v int64, from, to arrow.TimeUnit, floor, wrapped bool) (int64, bool) {
	f, t := nanosPer(from), nanosPer(to)
	switch {
	case f == t:
		return v, true
	case f > t:
		if wrapped {
			return v * (f / t), true
		}
		return overflow.Mul64(v, f/t)
	}
	if floor {
		return floorDiv(v, t/f), true
	}
	return v / (t / f), true
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func convertTemporal(mem memory.Allocator, data arrow.ArrayData, to arrow.DataType, wrapped bool) (arrow.Array, error) {
	from := data.DataType()
	switch from := from.(type) {
	case *arrow.Date32Type:
		if to, ok := to.(*arrow.TimestampType); ok {
			in := arrutil.Values[int32](data)
			perDay := nanosPerDay / nanosPer(to.Unit)
			return mapValues(mem, data, to, func(i int) (int64, bool) {
				if wrapped {
					return int64(in[i]) * perDay, true
				}
				return overflow.Mul64(int64(in[i]), perDay)
			}), nil
		}
	case *arrow.TimestampType:
		in := arrutil.Values[int64](data)
		switch to := to.(type) {
		case *arrow.TimestampType:
			return mapValues(mem, data, to, func(i int) (int64, bool) {
				return convertUnit(in[i], from.Unit, to.Unit, true, wrapped)
			}), nil
		case *arrow.Date32Type:
			loc, err := from.GetZone()
			if err != nil {
				return nil, err
			}
			return mapValues(mem, data, to, func(i int) (arrow.Date32, bool) {
				y, m, d := arrow.Timestamp(in[i]).ToTime(from.Unit).In(loc).Date()
				return arrow.Date32FromTime(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)), true
			}), nil
		case *arrow.Time64Type:
			loc, err := from.GetZone()
			if err != nil {
				return nil, err
			}
			return mapValues(mem, data, to, func(i int) (int64, bool) {
				t := arrow.Timestamp(in[i]).ToTime(from.Unit).In(loc)
				h, m, s := t.Clock()
				tod := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
					time.Duration(s)*time.Second + time.Duration(t.Nanosecond())
				return convertUnit(int64(tod), arrow.Nanosecond, to.Unit, true, wrapped)
			}), nil
		}
	case *arrow.DurationType:
		if to, ok := to.(*arrow.DurationType); ok {
			in := arrutil.Values[int64](data)
			return mapValues(mem, data, to, func(i int) (int64, bool) {
				return convertUnit(in[i], from.Unit, to.Unit, false, wrapped)
			}), nil
		}
	case *arrow.Time64Type:
		if to, ok := to.(*arrow.Time64Type); ok {
			in := arrutil.Values[int64](data)
			return mapValues(mem, data, to, func(i int) (int64, bool) {
				return convertUnit(in[i], from.Unit, to.Unit, true, wrapped)
			}), nil
		}
	}
	return nil, unsupported(from, to)
}

// parseTemporal parses ISO 8601 style strings. Unparseable values are
// nulled.
func parseTemporal(mem memory.Allocator, data arrow.ArrayData, to arrow.DataType) (arrow.Array, error) {
	strs := array.NewStringData(data)
	defer strs.Release()

	switch to := to.(type) {
	case *arrow.Date32Type:
		return mapValues(mem, data, to, func(i int) (arrow.Date32, bool) {
			t, err := time.Parse(dateLayout, strs.Value(i))
			return arrow.Date32FromTime(t), err == nil
		}), nil
	case *arrow.TimestampType:
		return mapValues(mem, data, to, func(i int) (arrow.Timestamp, bool) {
			ts, err := arrow.TimestampFromString(strs.Value(i), to.Unit)
			return ts, err == nil
		}), nil
	case *arrow.Time64Type:
		return mapValues(mem, data, to, func(i int) (arrow.Time64, bool) {
			t, err := arrow.Time64FromString(strs.Value(i), to.Unit)
			return t, err == nil
		}), nil
	case *arrow.DurationType:
		return mapValues(mem, data, to, func(i int) (int64, bool) {
			d, err := time.ParseDuration(strs.Value(i))
			if err != nil {
				return 0, false
			}
			return convertUnit(int64(d), arrow.Nanosecond, to.Unit, false, false)
		}), nil
	}
	return nil, unsupported(data.DataType(), to)
}

func formatTemporal(mem memory.Allocator, data arrow.ArrayData) (arrow.Array, error) {
	switch from := data.DataType().(type) {
	case *arrow.Date32Type:
		in := arrutil.Values[int32](data)
		return mapStrings(mem, data, func(i int) (string, bool) {
			return arrow.Date32(in[i]).FormattedString(), true
		}), nil
	case *arrow.TimestampType:
		loc, err := from.GetZone()
		if err != nil {
			return nil, err
		}
		layout := datetimeLayout
		if from.TimeZone != "" {
			layout = datetimeZonedLayout
		}
		in := arrutil.Values[int64](data)
		return mapStrings(mem, data, func(i int) (string, bool) {
			return arrow.Timestamp(in[i]).ToTime(from.Unit).In(loc).Format(layout), true
		}), nil
	case *arrow.DurationType:
		in := arrutil.Values[int64](data)
		return mapStrings(mem, data, func(i int) (string, bool) {
			ns, ok := convertUnit(in[i], from.Unit, arrow.Nanosecond, false, false)
			return time.Duration(ns).String(), ok
		}), nil
	case *arrow.Time64Type:
		in := arrutil.Values[int64](data)
		return mapStrings(mem, data, func(i int) (string, bool) {
			return arrow.Time64(in[i]).FormattedString(from.Unit), true
		}), nil
	}
	return nil, unsupported(data.DataType(), arrow.BinaryTypes.String)
}
