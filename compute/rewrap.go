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

	"github.com/cmdlineluser/polars"
	"github.com/cmdlineluser/polars/series"
)

// castImplInner casts s through the chunk caster and tags the result with
// the logical type. Decimal targets are cast straight to 128 bit storage
// at the requested scale; Datetime targets have their timezone validated
// first.
func castImplInner(ctx context.Context, s *series.Series, to polars.DataType, opts CastOptions) (*series.Series, error) {
	to, err := realize(ctx, to)
	if err != nil {
		return nil, err
	}

	src := s.LogicalChunks()
	defer releaseChunks(src)

	chunks, err := castChunks(ctx, src, kernelTarget(s.DataType(), to), opts)
	if err != nil {
		return nil, err
	}
	defer releaseChunks(chunks)

	physical := relabelChunks(chunks, polars.ArrowType(to))
	defer releaseChunks(physical)
	return series.NewUnchecked(s.Name(), to, physical), nil
}

// realize fills in defaults of partially specified targets and validates
// their parameters.
func realize(ctx context.Context, to polars.DataType) (polars.DataType, error) {
	switch dt := to.(type) {
	case *polars.DecimalType:
		p, s := dt.PrecisionOr(polars.MaxDecimalPrecision), dt.ScaleOr(0)
		if p < 1 || p > polars.MaxDecimalPrecision || s < 0 || s > p {
			return nil, fmt.Errorf("%w: decimal(%d, %d) is out of range", polars.ErrInvalidDecimalSpec, p, s)
		}
		return polars.Decimal(p, s), nil
	case *polars.DatetimeType:
		if dt.TimeZone != "" {
			if err := GetExecConfig(ctx).Timezones.Validate(dt.TimeZone); err != nil {
				return nil, err
			}
		}
	}
	return to, nil
}

// kernelTarget picks the Arrow type handed to the kernel. Logical types
// are only used where the kernel needs their parameters: decimal scales,
// and time units or formats for temporal to temporal conversions and
// parsing. Everything else is cast to the physical type.
func kernelTarget(from, to polars.DataType) arrow.DataType {
	switch {
	case to.ID() == polars.DECIMAL:
		return polars.LogicalArrowType(to)
	case polars.IsTemporal(to.ID()) && (polars.IsTemporal(from.ID()) || from.ID() == polars.STRING):
		return polars.LogicalArrowType(to)
	}
	return polars.ArrowType(to)
}
