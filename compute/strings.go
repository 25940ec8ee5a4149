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

	"github.com/cmdlineluser/polars"
	"github.com/cmdlineluser/polars/series"
)

// decimalInferenceLength is the number of values inspected to infer the
// scale of a string to decimal cast without parameters.
const decimalInferenceLength = 100

func castString(ctx context.Context, s *series.Series, to polars.DataType, opts CastOptions) (*series.Series, error) {
	switch to := to.(type) {
	case *polars.DictionaryType:
		return encodeStrings(ctx, s, to, opts)
	case *polars.StructType:
		return castToSingleFieldStruct(ctx, s, to, opts)
	case *polars.DecimalType:
		switch {
		case !to.HasPrecision() && !to.HasScale():
			to = polars.Decimal(polars.MaxDecimalPrecision, inferDecimalScale(s, decimalInferenceLength))
		case !to.HasPrecision():
			return nil, fmt.Errorf("%w: %s from strings needs a precision when the scale is given", polars.ErrInvalidDecimalSpec, to)
		case !to.HasScale():
			return nil, fmt.Errorf("%w: %s from strings needs a scale when the precision is given", polars.ErrInvalidDecimalSpec, to)
		}
		return castImplInner(ctx, s, to, opts)
	}
	return castImplInner(ctx, s, to, opts)
}

// inferDecimalScale returns the largest number of fractional digits among
// the first limit non null values of a string column.
func inferDecimalScale(s *series.Series, limit int) int32 {
	var scale int32
	seen := 0
	for _, c := range s.Chunks() {
		strs := c.(*array.String)
		for i := 0; i < strs.Len() && seen < limit; i++ {
			if strs.IsNull(i) {
				continue
			}
			seen++
			if digits := fractionalDigits(strs.Value(i)); digits > scale {
				scale = digits
			}
		}
	}
	if scale > polars.MaxDecimalPrecision {
		scale = polars.MaxDecimalPrecision
	}
	return scale
}

func fractionalDigits(v string) int32 {
	var n int32
	dot := false
	for i := 0; i < len(v); i++ {
		switch c := v[i]; {
		case c == '.':
			dot = true
		case dot && c >= '0' && c <= '9':
			n++
		case dot:
			return n
		}
	}
	return n
}

func castBinary(ctx context.Context, s *series.Series, to polars.DataType, opts CastOptions) (*series.Series, error) {
	if st, ok := to.(*polars.StructType); ok {
		return castToSingleFieldStruct(ctx, s, st, opts)
	}
	return castImplInner(ctx, s, to, opts)
}

// binaryToStringUnchecked views binary chunks as strings without
// validating UTF-8. The caller guarantees the bytes are valid.
func binaryToStringUnchecked(s *series.Series) *series.Series {
	chunks := relabelChunks(s.Chunks(), arrow.BinaryTypes.String)
	defer releaseChunks(chunks)
	out := series.NewUnchecked(s.Name(), polars.String, chunks)
	out.SetSorted(s.Sorted())
	return out
}
