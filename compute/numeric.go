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

	"github.com/cmdlineluser/polars"
	"github.com/cmdlineluser/polars/series"
)

// castNumeric handles integer, float and Int128 sources.
func castNumeric(ctx context.Context, s *series.Series, to polars.DataType, opts CastOptions) (*series.Series, error) {
	switch to := to.(type) {
	case *polars.DictionaryType:
		// codes are cast to the code width and checked against the mapping
		codes, err := Cast(ctx, s, to.CodeType(), opts)
		if err != nil {
			return nil, err
		}
		defer codes.Release()
		return reinterpretCodes(ctx, codes, to, opts, true)
	case *polars.StructType:
		return castToSingleFieldStruct(ctx, s, to, opts)
	}

	out, err := castImplInner(ctx, s, to, opts)
	if err != nil {
		return nil, err
	}
	propagateSorted(s, out, opts)
	return out, nil
}
