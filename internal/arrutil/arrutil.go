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

// Package arrutil holds low level helpers for working with Arrow array
// data shared by the series and compute packages.
package arrutil

import (
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/bitutil"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// FixedWidth is the set of Go types backing fixed width Arrow values.
type FixedWidth interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// CastFromBytesTo reinterprets b as a slice of T.
//
// NOTE: len(b) must be a multiple of T's size.
func CastFromBytesTo[T any](b []byte) []T {
	if len(b) == 0 {
		return nil
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), cap(b)/size)[:len(b)/size]
}

// Values returns the values of a fixed width array as a slice of T,
// adjusted for the array offset.
func Values[T FixedWidth](data arrow.ArrayData) []T {
	buf := data.Buffers()[1]
	if buf == nil || buf.Len() == 0 {
		return nil
	}
	vals := CastFromBytesTo[T](buf.Bytes())
	return vals[data.Offset() : data.Offset()+data.Len()]
}

// Relabel returns arr viewed as type dt without copying. The caller must
// make sure both types share a physical layout. Nested children are
// relabelled to the child types of dt.
func Relabel(arr arrow.Array, dt arrow.DataType) arrow.Array {
	if arrow.TypeEqual(arr.DataType(), dt) {
		arr.Retain()
		return arr
	}
	data := RelabelData(arr.Data(), dt)
	defer data.Release()
	return array.MakeFromData(data)
}

// RelabelData is Relabel for array data. The result must be released.
func RelabelData(data arrow.ArrayData, dt arrow.DataType) arrow.ArrayData {
	children := data.Children()
	relabelled := make([]arrow.ArrayData, len(children))
	for i, child := range children {
		relabelled[i] = RelabelData(child, childType(dt, i, child.DataType()))
	}
	out := array.NewData(dt, data.Len(), data.Buffers(), relabelled, data.NullN(), data.Offset())
	for _, c := range relabelled {
		c.Release()
	}
	return out
}

func childType(dt arrow.DataType, i int, def arrow.DataType) arrow.DataType {
	switch dt := dt.(type) {
	case *arrow.ListType:
		return dt.Elem()
	case *arrow.FixedSizeListType:
		return dt.Elem()
	case *arrow.StructType:
		return dt.Field(i).Type
	}
	return def
}

// ValidityBitmap returns a copy of the validity of data starting at bit
// zero, or nil when data has no nulls.
func ValidityBitmap(mem memory.Allocator, data arrow.ArrayData) *memory.Buffer {
	if data.NullN() == 0 {
		return nil
	}
	buf := memory.NewResizableBuffer(mem)
	buf.Resize(int(bitutil.BytesForBits(int64(data.Len()))))
	if src := data.Buffers()[0]; src != nil {
		bitutil.CopyBitmap(src.Bytes(), data.Offset(), data.Len(), buf.Bytes(), 0)
	} else {
		// all null arrays such as arrow.Null have no bitmap
		memory.Set(buf.Bytes(), 0)
	}
	return buf
}

// IsValid reports whether slot i (relative to the array offset) of data
// holds a value.
func IsValid(data arrow.ArrayData, i int) bool {
	if data.NullN() == 0 {
		return true
	}
	if data.DataType().ID() == arrow.NULL {
		return false
	}
	bitmap := data.Buffers()[0]
	return bitmap == nil || bitutil.BitIsSet(bitmap.Bytes(), data.Offset()+i)
}
