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
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/cmdlineluser/polars"
	"github.com/cmdlineluser/polars/series"
)

// propagateSorted carries the sortedness flag of src over to out when the
// cast cannot have reordered values: integer casts that stay signed or
// go from unsigned to unsigned without introducing nulls, and casts that
// only relabel the physical type. Otherwise the order becomes unknown.
// Overflowing integer casts keep the flag only when no value can wrap.
func propagateSorted(src, out *series.Series, opts CastOptions) {
	from, to := src.DataType(), out.DataType()

	integers := polars.IsInteger(from.ID()) && polars.IsInteger(to.ID())
	allowed := polars.IsSignedInteger(to.ID()) ||
		(polars.IsUnsignedInteger(from.ID()) && polars.IsUnsignedInteger(to.ID()))

	if opts == Overflowing && integers && !representable(from, to) {
		allowed = false
	}

	if (integers && allowed && out.NullN() == src.NullN()) ||
		polars.TypeEqual(polars.PhysicalType(from), polars.PhysicalType(to)) {
		out.SetSorted(src.Sorted())
		return
	}
	out.SetSorted(series.SortedUnknown)
}

// representable reports whether every value of the integer type from
// fits in the integer type to.
func representable(from, to polars.DataType) bool {
	fw := polars.ArrowType(from).(arrow.FixedWidthDataType).BitWidth()
	tw := polars.ArrowType(to).(arrow.FixedWidthDataType).BitWidth()
	if polars.IsSignedInteger(from.ID()) == polars.IsSignedInteger(to.ID()) {
		return tw >= fw
	}
	return polars.IsSignedInteger(to.ID()) && tw > fw
}
