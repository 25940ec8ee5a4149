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

func castBoolean(ctx context.Context, s *series.Series, to polars.DataType, opts CastOptions) (*series.Series, error) {
	switch to.ID() {
	case polars.STRUCT:
		return castToSingleFieldStruct(ctx, s, to.(*polars.StructType), opts)
	case polars.CATEGORICAL, polars.ENUM:
		return nil, fmt.Errorf("%w: cannot cast Boolean to Categorical", polars.ErrInvalidOperation)
	}
	return castImplInner(ctx, s, to, opts)
}
