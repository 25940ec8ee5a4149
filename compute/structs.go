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

	"github.com/cmdlineluser/polars"
	"github.com/cmdlineluser/polars/internal/arrutil"
	"github.com/cmdlineluser/polars/series"
)

// castToSingleFieldStruct wraps a non struct column into a struct with
// exactly one field.
func castToSingleFieldStruct(ctx context.Context, s *series.Series, to *polars.StructType, opts CastOptions) (*series.Series, error) {
	if len(to.Fields) != 1 {
		return nil, fmt.Errorf("%w: must specify one field in the struct, got %s",
			polars.ErrInvalidOperation, to)
	}
	return CastToStructPadded(ctx, s, to.Fields, opts)
}

// CastToStructPadded casts s into the first of fields and fills every
// other field with nulls. The result is a struct column named like s with
// no null rows.
func CastToStructPadded(ctx context.Context, s *series.Series, fields []polars.Field, opts CastOptions) (*series.Series, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: cannot cast %q to a struct without fields",
			polars.ErrInvalidOperation, s.Name())
	}

	first, err := Cast(ctx, s, fields[0].Type, opts)
	if err != nil {
		return nil, err
	}
	first.Rename(fields[0].Name)

	mem := GetAllocator(ctx)
	columns := make([]*series.Series, len(fields))
	columns[0] = first
	for i, f := range fields[1:] {
		columns[i+1] = series.FullNull(mem, f.Name, s.Len(), f.Type)
	}
	defer releaseSeries(columns)

	return series.NewStruct(mem, s.Name(), s.Len(), columns, nil)
}

// castStruct casts the fields of a struct column positionally into the
// fields of to, renaming them. Extra target fields are padded with nulls.
func castStruct(ctx context.Context, s *series.Series, to polars.DataType, opts CastOptions, unchecked bool) (*series.Series, error) {
	target, ok := to.(*polars.StructType)
	if !ok {
		return nil, fmt.Errorf("%w: cannot cast struct %q to %s", polars.ErrInvalidOperation, s.Name(), to)
	}
	from := s.DataType().(*polars.StructType)
	if len(target.Fields) < len(from.Fields) {
		return nil, fmt.Errorf("%w: cannot cast struct with %d fields to %s",
			polars.ErrInvalidOperation, len(from.Fields), to)
	}

	mem := GetAllocator(ctx)
	single, err := s.Rechunk(mem)
	if err != nil {
		return nil, err
	}
	defer single.Release()

	fields, err := single.StructFields()
	if err != nil {
		return nil, err
	}
	defer releaseSeries(fields)

	columns := make([]*series.Series, len(target.Fields))
	defer releaseSeries(columns)
	for i, f := range target.Fields {
		if i >= len(fields) {
			columns[i] = series.FullNull(mem, f.Name, s.Len(), f.Type)
			continue
		}
		if unchecked {
			columns[i], err = CastUnchecked(ctx, fields[i], f.Type)
		} else {
			columns[i], err = Cast(ctx, fields[i], f.Type, opts)
		}
		if err != nil {
			return nil, err
		}
		columns[i].Rename(f.Name)
	}

	validity := arrutil.ValidityBitmap(mem, single.Chunk(0).Data())
	if validity != nil {
		defer validity.Release()
	}
	return series.NewStruct(mem, s.Name(), s.Len(), columns, validity)
}

func releaseSeries(columns []*series.Series) {
	for _, c := range columns {
		if c != nil {
			c.Release()
		}
	}
}
