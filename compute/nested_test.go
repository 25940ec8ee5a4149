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

package compute_test

import (
	"bytes"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/cmdlineluser/polars"
	"github.com/cmdlineluser/polars/categories"
	"github.com/cmdlineluser/polars/compute"
	"github.com/cmdlineluser/polars/series"
)

func (c *CastSuite) arrowFromJSON(dt arrow.DataType, data string) arrow.Array {
	arr, _, err := array.FromJSON(c.mem, dt, strings.NewReader(data))
	c.Require().NoError(err)
	return arr
}

func (c *CastSuite) TestListInner() {
	c.checkCast(polars.ListOf(polars.Int64), polars.ListOf(polars.Float64),
		`[[1, 2, null, 4]]`, `[[1, 2, null, 4]]`)
	c.checkCast(polars.ListOf(polars.Int64), polars.ListOf(polars.Int32),
		`[[1, 2], null, [], [3]]`, `[[1, 2], null, [], [3]]`)
	c.checkCast(polars.ListOf(polars.ListOf(polars.Int32)), polars.ListOf(polars.ListOf(polars.String)),
		`[[[1], [2, 3]], null]`, `[[["1"], ["2", "3"]], null]`)

	c.checkFails(polars.ListOf(polars.Int64), polars.ListOf(polars.Uint8), `[[300]]`,
		compute.Strict, polars.ErrStrictCast)
	c.checkCastOpts(polars.ListOf(polars.Int64), polars.ListOf(polars.Uint8),
		`[[300, 1]]`, `[[null, 1]]`, compute.NonStrict)
}

func (c *CastSuite) TestListNormalization() {
	full := c.arrowFromJSON(arrow.ListOf(arrow.PrimitiveTypes.Int64), `[[9], [1, 2], null, [3]]`)
	defer full.Release()
	sliced := array.NewSlice(full, 1, 4)
	defer sliced.Release()

	in, err := series.New("a", polars.ListOf(polars.Int64), []arrow.Array{sliced})
	c.Require().NoError(err)
	defer in.Release()

	c.checkCastSeries(in, polars.ListOf(polars.Int16), `[[1, 2], null, [3]]`, compute.Strict)

	// the value under the first entry must not reach the inner cast
	big := c.arrowFromJSON(arrow.ListOf(arrow.PrimitiveTypes.Int64), `[[1000], [1], [2]]`)
	defer big.Release()
	tail := array.NewSlice(big, 1, 3)
	defer tail.Release()
	small, err := series.New("a", polars.ListOf(polars.Int64), []arrow.Array{tail})
	c.Require().NoError(err)
	defer small.Release()

	c.checkCastSeries(small, polars.ListOf(polars.Int8), `[[1], [2]]`, compute.Strict)
}

func (c *CastSuite) TestListRechunks() {
	first := c.arrowFromJSON(arrow.ListOf(arrow.PrimitiveTypes.Int32), `[[1], null]`)
	defer first.Release()
	second := c.arrowFromJSON(arrow.ListOf(arrow.PrimitiveTypes.Int32), `[[2, 3]]`)
	defer second.Release()

	in, err := series.New("a", polars.ListOf(polars.Int32), []arrow.Array{first, second})
	c.Require().NoError(err)
	defer in.Release()

	var buf bytes.Buffer
	logger := level.NewFilter(log.NewLogfmtLogger(&buf), level.AllowDebug())
	ctx := compute.SetExecConfig(c.ctx, compute.ExecConfig{Logger: logger})

	out, err := compute.Cast(ctx, in, polars.ListOf(polars.Float64), compute.Strict)
	c.Require().NoError(err)
	defer out.Release()

	exp := c.fromJSON(polars.ListOf(polars.Float64), `[[1], null, [2, 3]]`)
	defer exp.Release()
	c.Equal(1, out.NumChunks())
	c.Truef(series.Equal(exp, out), "got %s", out)
	c.Contains(buf.String(), "rechunking nested column")
}

func (c *CastSuite) TestListDictionaryInner() {
	m := categories.NewMapping()

	c.checkFails(polars.ListOf(polars.Boolean), polars.ListOf(polars.Categorical(m)), `[[true]]`,
		compute.Strict, polars.ErrInvalidOperation)
	c.checkFails(polars.ArrayOf(polars.Int32, 1), polars.ArrayOf(polars.Categorical(m), 1), `[[1]]`,
		compute.Strict, polars.ErrInvalidOperation)

	in := c.fromJSON(polars.ListOf(polars.String), `[["a"], ["b", "a"], null]`)
	defer in.Release()

	coded, err := compute.Cast(c.ctx, in, polars.ListOf(polars.Categorical(m)), compute.Strict)
	c.Require().NoError(err)
	defer coded.Release()
	c.Equal(2, m.Len())
	c.True(polars.TypeEqual(polars.ListOf(polars.Categorical(m)), coded.DataType()))

	back, err := compute.Cast(c.ctx, coded, polars.ListOf(polars.String), compute.Strict)
	c.Require().NoError(err)
	defer back.Release()
	c.True(series.Equal(in, back))
}

func (c *CastSuite) TestListToBinary() {
	c.checkCast(polars.ListOf(polars.Uint8), polars.Binary, `[[104, 105], null]`, `["aGk=", null]`)
	c.checkFails(polars.ListOf(polars.Int8), polars.Binary, `[[1]]`, compute.Strict, polars.ErrInvalidOperation)
	c.checkFails(polars.ListOf(polars.Int8), polars.Int8, `[[1]]`, compute.Strict, polars.ErrInvalidOperation)
}

func (c *CastSuite) TestListToArray() {
	c.checkCast(polars.ListOf(polars.Int32), polars.ArrayOf(polars.Int32, 2), `[null, null]`, `[null, null]`)
	c.checkCast(polars.ListOf(polars.Int32), polars.ArrayOf(polars.Int64, 3), `[]`, `[]`)
	c.checkFails(polars.ListOf(polars.Int32), polars.ArrayOf(polars.Int32, 2), `[[1, 2]]`,
		compute.Strict, polars.ErrInvalidOperation)
}

func (c *CastSuite) TestArray() {
	c.checkCast(polars.ArrayOf(polars.Int32, 2), polars.ArrayOf(polars.Int64, 2),
		`[[1, 2], [3, 4]]`, `[[1, 2], [3, 4]]`)
	c.checkCast(polars.ArrayOf(polars.Int32, 2), polars.ArrayOf(polars.Float64, 2),
		`[[1, 2], null, [5, null]]`, `[[1, 2], null, [5, null]]`)
	c.checkFails(polars.ArrayOf(polars.Int32, 2), polars.ArrayOf(polars.Int64, 3), `[[1, 2]]`,
		compute.Strict, polars.ErrInvalidOperation)
	c.checkFails(polars.ArrayOf(polars.Int32, 1), polars.ArrayOf(polars.Uint8, 1), `[[-1]]`,
		compute.Strict, polars.ErrStrictCast)

	c.checkCast(polars.ArrayOf(polars.Int32, 2), polars.ListOf(polars.Int64),
		`[[1, 2], null, [3, 4]]`, `[[1, 2], null, [3, 4]]`)
	c.checkCast(polars.ArrayOf(polars.Int32, 2), polars.ListOf(polars.Int32),
		`[[1, 2], [3, 4]]`, `[[1, 2], [3, 4]]`)
}

func (c *CastSuite) TestArrayNormalization() {
	full := c.arrowFromJSON(arrow.FixedSizeListOf(2, arrow.PrimitiveTypes.Int32), `[[0, 0], [1, 2], [3, 4]]`)
	defer full.Release()
	sliced := array.NewSlice(full, 1, 3)
	defer sliced.Release()

	in, err := series.New("a", polars.ArrayOf(polars.Int32, 2), []arrow.Array{sliced})
	c.Require().NoError(err)
	defer in.Release()

	c.checkCastSeries(in, polars.ArrayOf(polars.Int16, 2), `[[1, 2], [3, 4]]`, compute.Strict)
	c.checkCastSeries(in, polars.ListOf(polars.Int16), `[[1, 2], [3, 4]]`, compute.Strict)

	same, err := compute.Cast(c.ctx, in, polars.ArrayOf(polars.Int32, 2), compute.Strict)
	c.Require().NoError(err)
	defer same.Release()
	c.Same(in.Chunk(0), same.Chunk(0))
}

func (c *CastSuite) TestNestedStructTarget() {
	in := c.fromJSON(polars.ListOf(polars.Int32), `[[1], null]`)
	defer in.Release()

	to := polars.StructOf(polars.NewField("l", polars.ListOf(polars.Int64)))
	out, err := compute.Cast(c.ctx, in, to, compute.Strict)
	c.Require().NoError(err)
	defer out.Release()
	c.True(polars.TypeEqual(to, out.DataType()))
	c.Equal(2, out.Len())
}
