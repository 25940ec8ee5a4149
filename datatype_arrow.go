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

package polars

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// FromArrowType returns the logical type for Arrow data of type dt.
// Logical Arrow types (Date32, Timestamp, Duration, Time64, Decimal128)
// map onto the matching wrapper; decimal128 with precision 38 and scale 0
// is read as a DECIMAL, not INT128.
func FromArrowType(dt arrow.DataType) (DataType, error) {
	switch dt.ID() {
	case arrow.NULL:
		return Null, nil
	case arrow.BOOL:
		return Boolean, nil
	case arrow.INT8:
		return Int8, nil
	case arrow.INT16:
		return Int16, nil
	case arrow.INT32:
		return Int32, nil
	case arrow.INT64:
		return Int64, nil
	case arrow.UINT8:
		return Uint8, nil
	case arrow.UINT16:
		return Uint16, nil
	case arrow.UINT32:
		return Uint32, nil
	case arrow.UINT64:
		return Uint64, nil
	case arrow.FLOAT32:
		return Float32, nil
	case arrow.FLOAT64:
		return Float64, nil
	case arrow.STRING:
		return String, nil
	case arrow.BINARY:
		return Binary, nil
	case arrow.DATE32:
		return Date, nil
	case arrow.TIMESTAMP:
		ts := dt.(*arrow.TimestampType)
		return Datetime(ts.Unit, ts.TimeZone), nil
	case arrow.DURATION:
		return Duration(dt.(*arrow.DurationType).Unit), nil
	case arrow.TIME64:
		if dt.(*arrow.Time64Type).Unit == arrow.Nanosecond {
			return Time, nil
		}
	case arrow.DECIMAL128:
		dec := dt.(*arrow.Decimal128Type)
		return Decimal(dec.Precision, dec.Scale), nil
	case arrow.LIST:
		elem, err := FromArrowType(dt.(*arrow.ListType).Elem())
		if err != nil {
			return nil, err
		}
		return ListOf(elem), nil
	case arrow.FIXED_SIZE_LIST:
		fsl := dt.(*arrow.FixedSizeListType)
		elem, err := FromArrowType(fsl.Elem())
		if err != nil {
			return nil, err
		}
		return ArrayOf(elem, int(fsl.Len())), nil
	case arrow.STRUCT:
		st := dt.(*arrow.StructType)
		fields := make([]Field, st.NumFields())
		for i, f := range st.Fields() {
			ft, err := FromArrowType(f.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = Field{Name: f.Name, Type: ft}
		}
		return StructOf(fields...), nil
	}
	return nil, fmt.Errorf("%w: no logical type for arrow type %s", ErrInvalidOperation, dt)
}
