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
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/cmdlineluser/polars"
	"github.com/cmdlineluser/polars/categories"
	"github.com/cmdlineluser/polars/compute"
	"github.com/cmdlineluser/polars/series"
)

type CastSuite struct {
	suite.Suite

	mem *memory.CheckedAllocator
	ctx context.Context
}

func (c *CastSuite) SetupTest() {
	c.mem = memory.NewCheckedAllocator(memory.DefaultAllocator)
	c.ctx = compute.WithAllocator(context.Background(), c.mem)
}

func (c *CastSuite) TearDownTest() {
	c.mem.AssertSize(c.T(), 0)
}

func (c *CastSuite) fromJSON(dt polars.DataType, data string) *series.Series {
	s, err := series.FromJSON(c.mem, "a", dt, data)
	c.Require().NoError(err)
	return s
}

func (c *CastSuite) checkCastOpts(from, to polars.DataType, inJSON, outJSON string, opts compute.CastOptions) {
	in := c.fromJSON(from, inJSON)
	defer in.Release()
	c.checkCastSeries(in, to, outJSON, opts)
}

func (c *CastSuite) checkCast(from, to polars.DataType, inJSON, outJSON string) {
	c.checkCastOpts(from, to, inJSON, outJSON, compute.Strict)
}

func (c *CastSuite) checkCastSeries(in *series.Series, to polars.DataType, outJSON string, opts compute.CastOptions) {
	exp := c.fromJSON(to, outJSON)
	defer exp.Release()

	out, err := compute.Cast(c.ctx, in, to, opts)
	c.Require().NoError(err)
	defer out.Release()

	c.Equal(in.Name(), out.Name())
	c.Equal(in.Len(), out.Len())
	c.Truef(series.Equal(exp, out), "expected: %s\ngot: %s", exp, out)
}

func (c *CastSuite) checkFails(from, to polars.DataType, inJSON string, opts compute.CastOptions, target error) {
	in := c.fromJSON(from, inJSON)
	defer in.Release()

	out, err := compute.Cast(c.ctx, in, to, opts)
	c.ErrorIs(err, target)
	c.Nil(out)
}

func (c *CastSuite) TestIdentity() {
	in := c.fromJSON(polars.Int32, `[1, 2, null]`)
	defer in.Release()
	in.SetSorted(series.SortedAscending)

	out, err := compute.Cast(c.ctx, in, polars.Int32, compute.Strict)
	c.Require().NoError(err)
	defer out.Release()

	c.Same(in.Chunk(0), out.Chunk(0))
	c.Equal(series.SortedAscending, out.Sorted())
}

func (c *CastSuite) TestOverflowPolicies() {
	c.checkFails(polars.Int32, polars.Uint8, `[300, 1, null]`, compute.Strict, polars.ErrStrictCast)
	c.checkCastOpts(polars.Int32, polars.Uint8, `[300, 1, null]`, `[null, 1, null]`, compute.NonStrict)
	c.checkCastOpts(polars.Int32, polars.Uint8, `[300, 1, null]`, `[44, 1, null]`, compute.Overflowing)

	c.checkCast(polars.Int8, polars.Int64, `[-128, 0, 127]`, `[-128, 0, 127]`)
	c.checkCast(polars.Float64, polars.Int32, `[1.5, -2.5, null]`, `[1, -2, null]`)
	c.checkCastOpts(polars.Float64, polars.Int8, `[1000.0, 3.0]`, `[127, 3]`, compute.Overflowing)
	c.checkCast(polars.Uint16, polars.Float32, `[1, 65535]`, `[1, 65535]`)

	in := c.fromJSON(polars.Int64, `[-1, 7]`)
	defer in.Release()
	_, err := compute.Cast(c.ctx, in, polars.Uint32, compute.Strict)
	c.ErrorIs(err, polars.ErrCompute)
	c.Contains(err.Error(), "-1")
}

func (c *CastSuite) TestStrictFailureAcrossChunks() {
	mem := c.mem
	first, _, err := array.FromJSON(mem, arrow.PrimitiveTypes.Int32, bytes.NewReader([]byte(`[1, 2]`)))
	c.Require().NoError(err)
	defer first.Release()
	second, _, err := array.FromJSON(mem, arrow.PrimitiveTypes.Int32, bytes.NewReader([]byte(`[3, 1000]`)))
	c.Require().NoError(err)
	defer second.Release()

	in, err := series.New("a", polars.Int32, []arrow.Array{first, second})
	c.Require().NoError(err)
	defer in.Release()

	ctx := compute.SetExecConfig(c.ctx, compute.ExecConfig{Parallelism: 1})
	_, err = compute.Cast(ctx, in, polars.Int8, compute.Strict)
	c.ErrorIs(err, polars.ErrStrictCast)

	out, err := compute.Cast(ctx, in, polars.Int8, compute.NonStrict)
	c.Require().NoError(err)
	defer out.Release()
	c.Equal(2, out.NumChunks())
	c.Equal(2, out.Chunk(0).Len())
	c.Equal(1, out.NullN())
}

func (c *CastSuite) TestSortedness() {
	in := c.fromJSON(polars.Int32, `[1, 2, 3]`)
	defer in.Release()
	in.SetSorted(series.SortedAscending)

	tests := []struct {
		to       polars.DataType
		opts     compute.CastOptions
		expected series.SortOrder
	}{
		{polars.Int64, compute.Strict, series.SortedAscending},
		{polars.Int8, compute.Strict, series.SortedAscending},
		{polars.Float32, compute.Strict, series.SortedUnknown},
		{polars.Uint32, compute.Strict, series.SortedUnknown},
		{polars.String, compute.Strict, series.SortedUnknown},
		{polars.Date, compute.Strict, series.SortedAscending},
	}
	for _, tt := range tests {
		out, err := compute.Cast(c.ctx, in, tt.to, tt.opts)
		c.Require().NoError(err)
		c.Equal(tt.expected, out.Sorted(), tt.to.String())
		out.Release()
	}

	unsigned := c.fromJSON(polars.Uint8, `[1, 2, 200]`)
	defer unsigned.Release()
	unsigned.SetSorted(series.SortedAscending)

	out, err := compute.Cast(c.ctx, unsigned, polars.Uint16, compute.Strict)
	c.Require().NoError(err)
	c.Equal(series.SortedAscending, out.Sorted())
	out.Release()

	// 200 does not fit, the new null may break the order
	out, err = compute.Cast(c.ctx, unsigned, polars.Int8, compute.NonStrict)
	c.Require().NoError(err)
	c.Equal(series.SortedUnknown, out.Sorted())
	out.Release()

	wide := c.fromJSON(polars.Int64, `[1, 200, 300]`)
	defer wide.Release()
	wide.SetSorted(series.SortedAscending)

	// wraps to [1, -56, 44]
	out, err = compute.Cast(c.ctx, wide, polars.Int8, compute.Overflowing)
	c.Require().NoError(err)
	c.Equal(series.SortedUnknown, out.Sorted())
	out.Release()

	out, err = compute.Cast(c.ctx, in, polars.Int64, compute.Overflowing)
	c.Require().NoError(err)
	c.Equal(series.SortedAscending, out.Sorted())
	out.Release()

	out, err = compute.Cast(c.ctx, unsigned, polars.Int8, compute.Overflowing)
	c.Require().NoError(err)
	c.Equal(series.SortedUnknown, out.Sorted())
	out.Release()

	out, err = compute.Cast(c.ctx, unsigned, polars.Int16, compute.Overflowing)
	c.Require().NoError(err)
	c.Equal(series.SortedAscending, out.Sorted())
	out.Release()
}

func (c *CastSuite) TestStructTargets() {
	in := c.fromJSON(polars.Int32, `[1, 2]`)
	defer in.Release()

	out, err := compute.Cast(c.ctx, in, polars.StructOf(polars.NewField("x", polars.Int64)), compute.Strict)
	c.Require().NoError(err)
	defer out.Release()
	c.Equal("struct<x: int64>", out.DataType().String())
	c.Equal("a", out.Name())

	_, err = compute.Cast(c.ctx, in, polars.StructOf(
		polars.NewField("x", polars.Int64), polars.NewField("y", polars.String)), compute.Strict)
	c.ErrorIs(err, polars.ErrInvalidOperation)

	padded, err := compute.CastToStructPadded(c.ctx, in, []polars.Field{
		polars.NewField("x", polars.Int64), polars.NewField("y", polars.String),
	}, compute.Strict)
	c.Require().NoError(err)
	defer padded.Release()
	c.Equal(0, padded.NullN())

	fields, err := padded.StructFields()
	c.Require().NoError(err)
	defer func() {
		for _, f := range fields {
			f.Release()
		}
	}()
	c.Require().Len(fields, 2)

	expX := c.fromJSON(polars.Int64, `[1, 2]`)
	defer expX.Release()
	c.True(series.Equal(expX, fields[0]))
	c.Equal("y", fields[1].Name())
	c.Equal(2, fields[1].NullN())
	c.True(polars.TypeEqual(polars.String, fields[1].DataType()))

	_, err = compute.CastToStructPadded(c.ctx, in, nil, compute.Strict)
	c.ErrorIs(err, polars.ErrInvalidOperation)
}

func (c *CastSuite) TestStructSource() {
	from := polars.StructOf(polars.NewField("a", polars.Int32), polars.NewField("b", polars.String))
	in := c.fromJSON(from, `[{"a": 1, "b": "x"}, null, {"a": 300, "b": null}]`)
	defer in.Release()

	to := polars.StructOf(
		polars.NewField("p", polars.Int64),
		polars.NewField("q", polars.String),
		polars.NewField("r", polars.Boolean))
	out, err := compute.Cast(c.ctx, in, to, compute.Strict)
	c.Require().NoError(err)
	defer out.Release()

	c.True(polars.TypeEqual(to, out.DataType()), out.DataType().String())
	c.Equal(1, out.NullN())
	st := out.Chunk(0).(*array.Struct)
	c.Equal(int64(300), st.Field(0).(*array.Int64).Value(2))
	c.Equal(3, st.Field(2).NullN())

	_, err = compute.Cast(c.ctx, in, polars.StructOf(polars.NewField("p", polars.Int64)), compute.Strict)
	c.ErrorIs(err, polars.ErrInvalidOperation)
	_, err = compute.Cast(c.ctx, in, polars.Int32, compute.Strict)
	c.ErrorIs(err, polars.ErrInvalidOperation)

	c.checkFails(from, polars.StructOf(polars.NewField("p", polars.Int8), polars.NewField("q", polars.String)),
		`[{"a": 300, "b": "x"}]`, compute.Strict, polars.ErrStrictCast)
}

func (c *CastSuite) TestNullSource() {
	in := c.fromJSON(polars.Null, `[null, null, null]`)
	defer in.Release()

	for _, to := range []polars.DataType{
		polars.Int32, polars.String, polars.Datetime(arrow.Millisecond, "UTC"),
		polars.ListOf(polars.Float64), polars.ArrayOf(polars.Int8, 2),
		polars.StructOf(polars.NewField("x", polars.Boolean)),
	} {
		out, err := compute.Cast(c.ctx, in, to, compute.Strict)
		c.Require().NoError(err, to.String())
		c.True(polars.TypeEqual(to, out.DataType()))
		c.Equal(3, out.Len())
		c.Equal(3, out.NullN())
		out.Release()
	}

	dec, err := compute.Cast(c.ctx, in, polars.Decimal(polars.Unspecified, 4), compute.Strict)
	c.Require().NoError(err)
	defer dec.Release()
	c.Equal("decimal(38, 4)", dec.DataType().String())
}

func (c *CastSuite) TestStringToNumbers() {
	c.checkCast(polars.String, polars.Int16, `["12", "-3", null]`, `[12, -3, null]`)
	c.checkCastOpts(polars.String, polars.Int16, `["12", "x", "99999"]`, `[12, null, null]`, compute.NonStrict)
	c.checkFails(polars.String, polars.Int16, `["12", "x"]`, compute.Strict, polars.ErrStrictCast)
	c.checkCast(polars.String, polars.Float64, `["1.5", "-2"]`, `[1.5, -2]`)
	c.checkCast(polars.String, polars.Boolean, `["true", "false", null]`, `[true, false, null]`)
	c.checkCast(polars.Int32, polars.String, `[1, null, -7]`, `["1", null, "-7"]`)
	c.checkCast(polars.Boolean, polars.Int8, `[true, false]`, `[1, 0]`)
	c.checkCast(polars.Int64, polars.Boolean, `[0, 5, null]`, `[false, true, null]`)
}

func (c *CastSuite) TestBinary() {
	// "hi", "\xff"
	in := c.fromJSON(polars.Binary, `["aGk=", "/w==", null]`)
	defer in.Release()

	c.checkCastSeries(in, polars.String, `["hi", null, null]`, compute.NonStrict)

	_, err := compute.Cast(c.ctx, in, polars.String, compute.Strict)
	c.ErrorIs(err, polars.ErrStrictCast)

	unchecked, err := compute.CastUnchecked(c.ctx, in, polars.String)
	c.Require().NoError(err)
	defer unchecked.Release()
	c.Equal(1, unchecked.NullN())
	c.Same(in.Chunk(0).Data().Buffers()[2], unchecked.Chunk(0).Data().Buffers()[2])

	c.checkCast(polars.String, polars.Binary, `["hi", null]`, `["aGk=", null]`)
}

func (c *CastSuite) TestDecimal() {
	c.checkCast(polars.Int32, polars.Decimal(10, 2), `[1, -2, null]`, `["1.00", "-2.00", null]`)
	c.checkCastOpts(polars.Int32, polars.Decimal(3, 2), `[1, 10]`, `["1.00", null]`, compute.NonStrict)
	c.checkCast(polars.Decimal(10, 2), polars.Decimal(12, 4), `["1.25", null]`, `["1.2500", null]`)
	c.checkCast(polars.Decimal(10, 2), polars.Float64, `["1.25", "-0.50"]`, `[1.25, -0.5]`)
	c.checkCast(polars.Decimal(10, 2), polars.Int32, `["1.99", "-3.00"]`, `[1, -3]`)
	c.checkCast(polars.Decimal(10, 2), polars.String, `["1.25"]`, `["1.25"]`)

	in := c.fromJSON(polars.String, `["1.5", "2.25", null, "-3"]`)
	defer in.Release()

	out, err := compute.Cast(c.ctx, in, polars.Decimal(polars.Unspecified, polars.Unspecified), compute.Strict)
	c.Require().NoError(err)
	defer out.Release()
	exp := c.fromJSON(polars.Decimal(38, 2), `["1.50", "2.25", null, "-3.00"]`)
	defer exp.Release()
	c.Truef(series.Equal(exp, out), "got %s", out)

	_, err = compute.Cast(c.ctx, in, polars.Decimal(10, polars.Unspecified), compute.Strict)
	c.ErrorIs(err, polars.ErrInvalidDecimalSpec)
	c.ErrorContains(err, "decimal(10, ?)")
	c.ErrorContains(err, "needs a scale")
	_, err = compute.Cast(c.ctx, in, polars.Decimal(polars.Unspecified, 2), compute.Strict)
	c.ErrorIs(err, polars.ErrInvalidDecimalSpec)
	c.ErrorContains(err, "needs a precision")

	ints := c.fromJSON(polars.Int32, `[1]`)
	defer ints.Release()
	_, err = compute.Cast(c.ctx, ints, polars.Decimal(50, 2), compute.Strict)
	c.ErrorIs(err, polars.ErrInvalidDecimalSpec)

	unspecified, err := compute.Cast(c.ctx, ints, polars.Decimal(polars.Unspecified, polars.Unspecified), compute.Strict)
	c.Require().NoError(err)
	defer unspecified.Release()
	c.Equal("decimal(38, 0)", unspecified.DataType().String())
}

func (c *CastSuite) TestTemporal() {
	ms := polars.Datetime(arrow.Millisecond, "")
	c.checkCast(polars.Date, ms, `[18629, null]`, `[1609545600000, null]`)
	c.checkCast(ms, polars.Date, `[1609545600000, 1609545599999]`, `[18629, 18628]`)
	c.checkCast(ms, polars.Datetime(arrow.Microsecond, ""), `[1, -1]`, `[1000, -1000]`)
	c.checkCast(polars.Datetime(arrow.Microsecond, ""), ms, `[1999, -1]`, `[1, -1]`)
	c.checkCast(polars.Duration(arrow.Second), polars.Duration(arrow.Millisecond), `[2]`, `[2000]`)
	c.checkCast(ms, polars.Time, `[1609545601000]`, `[1000000000]`)
	c.checkCast(ms, polars.Int64, `[5, null]`, `[5, null]`)
	c.checkCast(polars.Int64, ms, `[5, null]`, `[5, null]`)
	c.checkCastOpts(polars.String, polars.Date, `["2021-01-02", "nope", null]`, `[18629, null, null]`, compute.NonStrict)
	c.checkCast(ms, polars.String, `[1609545600000]`, `["2021-01-02 00:00:00"]`)

	c.checkFails(polars.Datetime(arrow.Second, ""), polars.Datetime(arrow.Nanosecond, ""),
		`[9223372036854]`, compute.Strict, polars.ErrStrictCast)
	c.checkFails(polars.Date, polars.Categorical(nil), `[1]`, compute.Strict, polars.ErrInvalidOperation)
}

func (c *CastSuite) TestTimezones() {
	in := c.fromJSON(polars.Int64, `[0]`)
	defer in.Release()

	_, err := compute.Cast(c.ctx, in, polars.Datetime(arrow.Millisecond, "Not/AZone"), compute.Strict)
	c.ErrorIs(err, polars.ErrInvalidTimezone)
	c.ErrorIs(err, polars.ErrCompute)

	out, err := compute.Cast(c.ctx, in, polars.Datetime(arrow.Millisecond, "Europe/Amsterdam"), compute.Strict)
	c.Require().NoError(err)
	out.Release()

	// a configured validator replaces the database
	ctx := compute.SetExecConfig(c.ctx, compute.ExecConfig{
		Timezones: timezoneFunc(func(string) error { return polars.ErrInvalidTimezone }),
	})
	_, err = compute.Cast(ctx, in, polars.Datetime(arrow.Millisecond, "UTC"), compute.Strict)
	c.ErrorIs(err, polars.ErrInvalidTimezone)
}

type timezoneFunc func(string) error

func (f timezoneFunc) Validate(tz string) error { return f(tz) }

func (c *CastSuite) TestEnum() {
	enum, err := polars.Enum("a", "b")
	c.Require().NoError(err)

	c.checkFails(polars.String, enum, `["a", "c", null]`, compute.Strict, polars.ErrStrictCast)

	in := c.fromJSON(polars.String, `["a", "c", null, "b"]`)
	defer in.Release()
	out, err := compute.Cast(c.ctx, in, enum, compute.NonStrict)
	c.Require().NoError(err)
	defer out.Release()
	c.Equal(2, out.NullN())
	c.Equal(arrow.UINT8, out.Chunk(0).DataType().ID())

	back, err := compute.Cast(c.ctx, out, polars.String, compute.Strict)
	c.Require().NoError(err)
	defer back.Release()
	exp := c.fromJSON(polars.String, `["a", null, null, "b"]`)
	defer exp.Release()
	c.True(series.Equal(exp, back))

	codes, err := compute.Cast(c.ctx, out, polars.Int32, compute.Strict)
	c.Require().NoError(err)
	defer codes.Release()
	expCodes := c.fromJSON(polars.Int32, `[0, null, null, 1]`)
	defer expCodes.Release()
	c.True(series.Equal(expCodes, codes))

	// integer codes are checked against the categories
	c.checkFails(polars.Uint8, enum, `[0, 5]`, compute.Strict, polars.ErrStrictCast)

	ints := c.fromJSON(polars.Int64, `[1, 5, null]`)
	defer ints.Release()
	masked, err := compute.Cast(c.ctx, ints, enum, compute.NonStrict)
	c.Require().NoError(err)
	defer masked.Release()
	c.Equal(2, masked.NullN())
	c.Equal(uint8(1), masked.Chunk(0).(*array.Uint8).Value(0))
}

func (c *CastSuite) TestCategorical() {
	m := categories.NewMapping()
	cat := polars.Categorical(m)

	in := c.fromJSON(polars.String, `["x", "y", null, "x"]`)
	defer in.Release()

	out, err := compute.Cast(c.ctx, in, cat, compute.Strict)
	c.Require().NoError(err)
	defer out.Release()
	c.Equal(2, m.Len())
	c.Equal(1, out.NullN())

	back, err := compute.Cast(c.ctx, out, polars.String, compute.Strict)
	c.Require().NoError(err)
	defer back.Release()
	c.True(series.Equal(in, back))

	enum, err := polars.Enum("y")
	c.Require().NoError(err)
	_, err = compute.Cast(c.ctx, out, enum, compute.Strict)
	c.ErrorIs(err, polars.ErrStrictCast)

	reencoded, err := compute.Cast(c.ctx, out, enum, compute.NonStrict)
	c.Require().NoError(err)
	defer reencoded.Release()
	c.Equal(3, reencoded.NullN())

	c.checkFails(polars.Boolean, cat, `[true]`, compute.Strict, polars.ErrInvalidOperation)
}

func (c *CastSuite) TestCastUnchecked() {
	in := c.fromJSON(polars.Int32, `[300, 1, null]`)
	defer in.Release()

	out, err := compute.CastUnchecked(c.ctx, in, polars.Uint8)
	c.Require().NoError(err)
	defer out.Release()
	exp := c.fromJSON(polars.Uint8, `[44, 1, null]`)
	defer exp.Release()
	c.True(series.Equal(exp, out))

	m := categories.NewMapping()
	_, err = compute.CastUnchecked(c.ctx, in, polars.Categorical(m))
	c.ErrorIs(err, polars.ErrCompute)

	codes := c.fromJSON(polars.Uint32, `[0, 7]`)
	defer codes.Release()
	tagged, err := compute.CastUnchecked(c.ctx, codes, polars.Categorical(m))
	c.Require().NoError(err)
	defer tagged.Release()
	c.Equal(0, tagged.NullN())
	c.Same(codes.Chunk(0), tagged.Chunk(0))

	lists := c.fromJSON(polars.ListOf(polars.Int32), `[[300, 2], null]`)
	defer lists.Release()
	wrapped, err := compute.CastUnchecked(c.ctx, lists, polars.ListOf(polars.Uint8))
	c.Require().NoError(err)
	defer wrapped.Release()
	expLists := c.fromJSON(polars.ListOf(polars.Uint8), `[[44, 2], null]`)
	defer expLists.Release()
	c.Truef(series.Equal(expLists, wrapped), "got %s", wrapped)
}

func (c *CastSuite) TestStructPaddingLaw() {
	in := c.fromJSON(polars.Int32, `[1, null, 3]`)
	defer in.Release()

	out, err := compute.CastToStructPadded(c.ctx, in, []polars.Field{
		polars.NewField("f1", polars.Float64),
		polars.NewField("f2", polars.String),
		polars.NewField("f3", polars.Date),
	}, compute.Strict)
	c.Require().NoError(err)
	defer out.Release()

	fields, err := out.StructFields()
	c.Require().NoError(err)
	defer func() {
		for _, f := range fields {
			f.Release()
		}
	}()

	exp := c.fromJSON(polars.Float64, `[1, null, 3]`)
	defer exp.Release()
	c.True(series.Equal(exp, fields[0]))
	for _, f := range fields[1:] {
		c.Equal(3, f.Len())
		c.Equal(3, f.NullN())
	}
}

func (c *CastSuite) TestArrayWidthLaw() {
	for _, opts := range []compute.CastOptions{compute.Strict, compute.NonStrict, compute.Overflowing} {
		c.checkFails(polars.ArrayOf(polars.Int32, 3), polars.ArrayOf(polars.Float64, 4),
			`[[1, 2, 3]]`, opts, polars.ErrInvalidOperation)
	}
}

func (c *CastSuite) TestUnseenCategoryLaw() {
	enum, err := polars.Enum("a", "b")
	c.Require().NoError(err)

	c.checkFails(polars.String, enum, `["a", "b", "zz"]`, compute.Strict, polars.ErrStrictCast)

	in := c.fromJSON(polars.String, `["a", "b", "zz"]`)
	defer in.Release()
	out, err := compute.Cast(c.ctx, in, enum, compute.NonStrict)
	c.Require().NoError(err)
	defer out.Release()

	back, err := compute.Cast(c.ctx, out, polars.String, compute.Strict)
	c.Require().NoError(err)
	defer back.Release()
	exp := c.fromJSON(polars.String, `["a", "b", null]`)
	defer exp.Release()
	c.True(series.Equal(exp, back))
}

func TestCasts(t *testing.T) {
	suite.Run(t, new(CastSuite))
}

func TestCanCast(t *testing.T) {
	enum, err := polars.Enum("a")
	if err != nil {
		t.Fatal(err)
	}
	ms := polars.Datetime(arrow.Millisecond, "")

	tests := []struct {
		from, to polars.DataType
		expected bool
	}{
		{polars.Int32, polars.Int32, true},
		{polars.Null, polars.ListOf(polars.Int8), true},
		{polars.Int32, polars.Float64, true},
		{polars.Int32, polars.Binary, false},
		{polars.String, polars.Binary, true},
		{polars.Binary, polars.String, true},
		{polars.Binary, polars.Int32, false},
		{polars.Boolean, enum, false},
		{polars.String, enum, true},
		{polars.Uint8, enum, true},
		{polars.Date, enum, false},
		{enum, polars.String, true},
		{enum, polars.Int64, true},
		{enum, polars.Date, true},
		{polars.Date, ms, true},
		{ms, polars.Time, true},
		{polars.Date, polars.Time, false},
		{ms, polars.Duration(arrow.Millisecond), false},
		{polars.Int64, polars.ListOf(polars.Int64), false},
		{polars.ListOf(polars.Int32), polars.ListOf(polars.String), true},
		{polars.ListOf(polars.Boolean), polars.ListOf(polars.Categorical(nil)), false},
		{polars.ListOf(polars.String), polars.ListOf(polars.Categorical(nil)), true},
		{polars.ListOf(polars.Uint8), polars.Binary, true},
		{polars.ListOf(polars.Int8), polars.Binary, false},
		{polars.ListOf(polars.Int8), polars.ArrayOf(polars.Int8, 2), false},
		{polars.ArrayOf(polars.Int8, 2), polars.ArrayOf(polars.Int64, 2), true},
		{polars.ArrayOf(polars.Int8, 2), polars.ArrayOf(polars.Int8, 3), false},
		{polars.ArrayOf(polars.Int8, 2), polars.ListOf(polars.Float32), true},
		{polars.Int8, polars.StructOf(polars.NewField("a", polars.String)), true},
		{polars.Int8, polars.StructOf(polars.NewField("a", polars.String), polars.NewField("b", polars.String)), false},
		{polars.StructOf(polars.NewField("a", polars.Int8)), polars.StructOf(polars.NewField("b", polars.Int16), polars.NewField("c", polars.Int16)), true},
		{polars.StructOf(polars.NewField("a", polars.Int8), polars.NewField("b", polars.Int8)), polars.StructOf(polars.NewField("c", polars.Int16)), false},
		{polars.StructOf(polars.NewField("a", polars.Int8)), polars.Int8, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, compute.CanCast(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestCastLogsFallback(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	var buf bytes.Buffer
	logger := level.NewFilter(log.NewLogfmtLogger(&buf), level.AllowDebug())
	ctx := compute.SetExecConfig(compute.WithAllocator(context.Background(), mem),
		compute.ExecConfig{Logger: logger})

	enum, err := polars.Enum("1", "2")
	if err != nil {
		t.Fatal(err)
	}
	in, err := series.FromJSON(mem, "a", polars.String, `["2", "1"]`)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Release()

	coded, err := compute.Cast(ctx, in, enum, compute.Strict)
	if err != nil {
		t.Fatal(err)
	}
	defer coded.Release()

	out, err := compute.Cast(ctx, coded, polars.Float64, compute.Strict)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Release()

	exp, err := series.FromJSON(mem, "a", polars.Float64, `[2, 1]`)
	if err != nil {
		t.Fatal(err)
	}
	defer exp.Release()
	assert.True(t, series.Equal(exp, out))
	assert.Contains(t, buf.String(), "level=debug")
	assert.Contains(t, buf.String(), "casting dictionary through strings")
}
