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
	"github.com/cmdlineluser/polars/series"
)

// Cast converts s to the logical type to. Values that do not fit the
// target are handled according to opts: under Strict the cast fails with
// polars.ErrStrictCast if any value would become null, otherwise such
// values are null (or wrapped, for Overflowing integer casts).
//
// Casting to the type s already has returns a column sharing the chunks
// of s, including its sort order. The input is never modified and must
// still be released by the caller.
func Cast(ctx context.Context, s *series.Series, to polars.DataType, opts CastOptions) (*series.Series, error) {
	if polars.TypeEqual(s.DataType(), to) {
		return s.Clone(), nil
	}

	switch id := s.DataType().ID(); {
	case id == polars.NULL:
		return castNull(ctx, s, to)
	case id == polars.BOOL:
		return castBoolean(ctx, s, to, opts)
	case polars.IsNumeric(id) || id == polars.INT128:
		return castNumeric(ctx, s, to, opts)
	case id == polars.STRING:
		return castString(ctx, s, to, opts)
	case id == polars.BINARY:
		return castBinary(ctx, s, to, opts)
	case polars.IsTemporal(id) || id == polars.DECIMAL:
		return castLogical(ctx, s, to, opts)
	case polars.IsDictionary(id):
		return castDictionary(ctx, s, to, opts)
	case id == polars.LIST:
		return castList(ctx, s, to, opts)
	case id == polars.ARRAY:
		return castArray(ctx, s, to, opts)
	case id == polars.STRUCT:
		return castStruct(ctx, s, to, opts, false)
	}
	return nil, fmt.Errorf("%w: cannot cast %s to %s", polars.ErrInvalidOperation, s.DataType(), to)
}

// CastUnchecked converts s to the type to without validating the result.
// Integer overflow wraps, binary data is relabelled as strings without a
// UTF-8 check and integer codes are tagged with a dictionary type without
// looking them up. The caller is responsible for the result being valid.
func CastUnchecked(ctx context.Context, s *series.Series, to polars.DataType) (*series.Series, error) {
	if polars.TypeEqual(s.DataType(), to) {
		return s.Clone(), nil
	}

	from := s.DataType()
	switch {
	case polars.IsNumeric(from.ID()) && polars.IsDictionary(to.ID()):
		dict := to.(*polars.DictionaryType)
		if !polars.TypeEqual(from, dict.CodeType()) {
			return nil, fmt.Errorf("%w: cannot cast numeric types to 'Categorical'", polars.ErrCompute)
		}
		return reinterpretCodes(ctx, s, dict, Overflowing, false)
	case from.ID() == polars.BINARY && to.ID() == polars.STRING:
		return binaryToStringUnchecked(s), nil
	case from.ID() == polars.LIST && to.ID() == polars.LIST:
		to := to.(*polars.ListType)
		if polars.TypeEqual(from.(*polars.ListType).Elem, to.Elem) {
			return normalizeList(ctx, s)
		}
		return castListInner(ctx, s, to, uncheckedInner)
	case from.ID() == polars.ARRAY && to.ID() == polars.ARRAY:
		to := to.(*polars.ArrayType)
		if from.(*polars.ArrayType).Width != to.Width {
			return nil, fmt.Errorf("%w: cannot cast Array to a different width", polars.ErrInvalidOperation)
		}
		return castArrayInner(ctx, s, to, uncheckedInner)
	case from.ID() == polars.STRUCT:
		return castStruct(ctx, s, to, Overflowing, true)
	}
	return Cast(ctx, s, to, Overflowing)
}

// CanCast reports whether a column of type from can be cast to type to
// at all. It only looks at the types: a legal cast may still fail under
// Strict because of the values involved.
func CanCast(from, to polars.DataType) bool {
	if polars.TypeEqual(from, to) || from.ID() == polars.NULL {
		return true
	}

	switch to := to.(type) {
	case *polars.StructType:
		if from, ok := from.(*polars.StructType); ok {
			if len(to.Fields) < len(from.Fields) {
				return false
			}
			for i, f := range from.Fields {
				if !CanCast(f.Type, to.Fields[i].Type) {
					return false
				}
			}
			return true
		}
		return len(to.Fields) == 1 && CanCast(from, to.Fields[0].Type)
	case *polars.DictionaryType:
		switch id := from.ID(); {
		case id == polars.STRING, polars.IsDictionary(id), polars.IsNumeric(id):
			return true
		}
		return false
	}

	switch from := from.(type) {
	case *polars.StructType:
		return false
	case *polars.DictionaryType:
		if to.ID() == polars.STRING || polars.IsInteger(to.ID()) {
			return true
		}
		return CanCast(polars.String, to)
	case *polars.ListType:
		switch to := to.(type) {
		case *polars.ListType:
			return canCastInner(from.Elem, to.Elem)
		case *polars.ArrayType:
			// only all-null columns, which the type does not tell
			return false
		}
		return to.ID() == polars.BINARY && from.Elem.ID() == polars.UINT8
	case *polars.ArrayType:
		switch to := to.(type) {
		case *polars.ArrayType:
			return from.Width == to.Width && canCastInner(from.Elem, to.Elem)
		case *polars.ListType:
			return canCastInner(from.Elem, to.Elem)
		}
		return false
	}

	fromID, toID := from.ID(), to.ID()
	if polars.IsNested(toID) {
		return false
	}

	switch {
	case fromID == polars.STRING:
		return true
	case fromID == polars.BINARY:
		return toID == polars.STRING
	case fromID == polars.BOOL:
		return toID != polars.BINARY
	case polars.IsNumeric(fromID) || fromID == polars.INT128 || fromID == polars.DECIMAL:
		return toID != polars.BINARY
	case polars.IsTemporal(fromID):
		if !polars.IsTemporal(toID) {
			return toID != polars.BINARY
		}
		return canCastTemporal(fromID, toID)
	}
	return false
}

func canCastInner(from, to polars.DataType) bool {
	if polars.IsDictionary(to.ID()) && !dictionaryInnerAllowed(from) {
		return false
	}
	return CanCast(from, to)
}

func canCastTemporal(from, to polars.Type) bool {
	switch from {
	case polars.DATE:
		return to == polars.DATETIME
	case polars.DATETIME:
		return to == polars.DATE || to == polars.DATETIME || to == polars.TIME
	case polars.DURATION:
		return to == polars.DURATION
	case polars.TIME:
		return to == polars.TIME
	}
	return false
}
