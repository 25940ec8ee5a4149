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
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/compute"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/cmdlineluser/polars/internal/arrutil"
)

// castNested casts the children of list, fixed size list and struct
// arrays, keeping the parent validity and offsets.
func castNested(ctx context.Context, arr arrow.Array, to arrow.DataType, opts CastOptions) (arrow.Array, error) {
	data := arr.Data()

	switch to := to.(type) {
	case *arrow.ListType:
		switch arr := arr.(type) {
		case *array.List:
			return castChildren(ctx, data, to, data.Buffers(), []arrow.DataType{to.Elem()}, opts)
		case *array.FixedSizeList:
			offsets := fixedSizeOffsets(compute.GetAllocator(ctx), data.Offset()+data.Len(), arr.DataType().(*arrow.FixedSizeListType).Len())
			defer offsets.Release()
			return castChildren(ctx, data, to, []*memory.Buffer{data.Buffers()[0], offsets}, []arrow.DataType{to.Elem()}, opts)
		}
	case *arrow.FixedSizeListType:
		if from, ok := arr.DataType().(*arrow.FixedSizeListType); ok && from.Len() == to.Len() {
			return castChildren(ctx, data, to, data.Buffers(), []arrow.DataType{to.Elem()}, opts)
		}
		if arr.Len() == arr.NullN() {
			return array.MakeArrayOfNull(compute.GetAllocator(ctx), to, arr.Len()), nil
		}
	case *arrow.StructType:
		if arr.DataType().ID() == arrow.STRUCT && len(data.Children()) == to.NumFields() {
			types := make([]arrow.DataType, to.NumFields())
			for i, f := range to.Fields() {
				types[i] = f.Type
			}
			return castChildren(ctx, data, to, data.Buffers(), types, opts)
		}
	}
	return nil, unsupported(arr.DataType(), to)
}

func castChildren(ctx context.Context, data arrow.ArrayData, to arrow.DataType, buffers []*memory.Buffer, types []arrow.DataType, opts CastOptions) (arrow.Array, error) {
	children := make([]arrow.ArrayData, 0, len(types))
	defer func() {
		for _, c := range children {
			c.Release()
		}
	}()

	for i, child := range data.Children() {
		in := array.MakeFromData(child)
		out, err := Cast(ctx, in, types[i], opts)
		in.Release()
		if err != nil {
			return nil, err
		}
		children = append(children, out.Data())
		out.Data().Retain()
		out.Release()
	}

	out := array.NewData(to, data.Len(), buffers, children, data.NullN(), data.Offset())
	defer out.Release()
	return array.MakeFromData(out), nil
}

// fixedSizeOffsets returns list offsets for n entries of width elements.
func fixedSizeOffsets(mem memory.Allocator, n int, width int32) *memory.Buffer {
	buf := memory.NewResizableBuffer(mem)
	buf.Resize((n + 1) * arrow.Int32SizeBytes)
	offsets := arrutil.CastFromBytesTo[int32](buf.Bytes())
	for i := range offsets {
		offsets[i] = int32(i) * width
	}
	return buf
}
