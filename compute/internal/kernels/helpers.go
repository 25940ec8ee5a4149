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

package kernels

import (
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/bitutil"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/exp/constraints"

	"github.com/cmdlineluser/polars/internal/arrutil"
)

type numeric interface {
	constraints.Integer | constraints.Float
}

// SizeOf determines the size in number of bytes for an integer
// based on the generic value in a way that the compiler should
// be able to easily evaluate and create as a constant.
func SizeOf[T constraints.Integer]() uint {
	x := uint16(1 << 8)
	y := uint32(2 << 16)
	z := uint64(4 << 32)
	return 1 + uint(T(x))>>8 + uint(T(y))>>16 + uint(T(z))>>32
}

// MinOf returns the minimum value for a given type since there is not
// currently a generic way to do this with Go generics yet.
func MinOf[T constraints.Integer]() T {
	if ones := ^T(0); ones < 0 {
		return ones << (8*SizeOf[T]() - 1)
	}
	return 0
}

// MaxOf determines the max value for a given type since there is not
// currently a generic way to do this for Go generics yet as all of the
// math.Max/Min values are constants.
func MaxOf[T constraints.Integer]() T {
	ones := ^T(0)
	if ones < 0 {
		return ones ^ (ones << (8*SizeOf[T]() - 1))
	}
	return ones
}

// isFloat reports whether T is a floating point type.
func isFloat[T numeric]() bool {
	x := T(1)
	x /= 2
	return x != 0
}

// nullMask tracks the validity of a kernel output that starts out as the
// validity of its input. The bitmap is only materialized once a value is
// nulled.
type nullMask struct {
	mem   memory.Allocator
	data  arrow.ArrayData
	buf   *memory.Buffer
	nulls int
}

func newNullMask(mem memory.Allocator, data arrow.ArrayData) *nullMask {
	return &nullMask{mem: mem, data: data, nulls: data.NullN()}
}

func (m *nullMask) setNull(i int) {
	if m.buf == nil {
		m.buf = arrutil.ValidityBitmap(m.mem, m.data)
		if m.buf == nil {
			m.buf = memory.NewResizableBuffer(m.mem)
			m.buf.Resize(int(bitutil.BytesForBits(int64(m.data.Len()))))
			memory.Set(m.buf.Bytes(), 0xFF)
		}
	}
	if bitutil.BitIsSet(m.buf.Bytes(), i) {
		bitutil.ClearBit(m.buf.Bytes(), i)
		m.nulls++
	}
}

// finish returns the output validity, rebased to offset zero, and the
// output null count. The caller owns the buffer.
func (m *nullMask) finish() (*memory.Buffer, int) {
	if m.buf == nil {
		m.buf = arrutil.ValidityBitmap(m.mem, m.data)
	}
	buf := m.buf
	m.buf = nil
	return buf, m.nulls
}

func sizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// makeArray assembles a flat array from freshly allocated buffers and
// releases the caller's references to them.
func makeArray(dt arrow.DataType, length, nulls int, buffers ...*memory.Buffer) arrow.Array {
	data := array.NewData(dt, length, buffers, nil, nulls, 0)
	defer data.Release()
	for _, b := range buffers {
		if b != nil {
			b.Release()
		}
	}
	return array.MakeFromData(data)
}

// mapValues builds a fixed width array of type to by calling fn for every
// valid slot of data. fn returns false to null the slot.
func mapValues[O any](mem memory.Allocator, data arrow.ArrayData, to arrow.DataType, fn func(i int) (O, bool)) arrow.Array {
	n := data.Len()
	values := memory.NewResizableBuffer(mem)
	values.Resize(n * sizeOf[O]())
	out := arrutil.CastFromBytesTo[O](values.Bytes())

	mask := newNullMask(mem, data)
	for i := range out {
		if !arrutil.IsValid(data, i) {
			continue
		}
		v, ok := fn(i)
		if !ok {
			mask.setNull(i)
			continue
		}
		out[i] = v
	}
	validity, nulls := mask.finish()
	return makeArray(to, n, nulls, validity, values)
}

// mapBools is mapValues for boolean output.
func mapBools(mem memory.Allocator, data arrow.ArrayData, fn func(i int) (bool, bool)) arrow.Array {
	n := data.Len()
	values := memory.NewResizableBuffer(mem)
	values.Resize(int(bitutil.BytesForBits(int64(n))))
	memory.Set(values.Bytes(), 0)

	mask := newNullMask(mem, data)
	for i := 0; i < n; i++ {
		if !arrutil.IsValid(data, i) {
			continue
		}
		v, ok := fn(i)
		if !ok {
			mask.setNull(i)
			continue
		}
		bitutil.SetBitTo(values.Bytes(), i, v)
	}
	validity, nulls := mask.finish()
	return makeArray(arrow.FixedWidthTypes.Boolean, n, nulls, validity, values)
}

// mapStrings builds a string array by calling fn for every valid slot of
// data. fn returns false to null the slot.
func mapStrings(mem memory.Allocator, data arrow.ArrayData, fn func(i int) (string, bool)) arrow.Array {
	bldr := array.NewStringBuilder(mem)
	defer bldr.Release()
	bldr.Reserve(data.Len())
	for i := 0; i < data.Len(); i++ {
		if !arrutil.IsValid(data, i) {
			bldr.AppendNull()
			continue
		}
		if v, ok := fn(i); ok {
			bldr.Append(v)
		} else {
			bldr.AppendNull()
		}
	}
	return bldr.NewArray()
}
