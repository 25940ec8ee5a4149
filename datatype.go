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

package polars

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// Type identifies a logical data type. The set is closed.
type Type int

const (
	// NULL has no storage; every value is null.
	NULL Type = iota
	// BOOL is a bit packed boolean.
	BOOL
	INT8
	INT16
	INT32
	INT64
	UINT8
	UINT16
	UINT32
	UINT64
	// INT128 is a signed 128-bit integer, stored as an Arrow decimal128
	// with scale zero.
	INT128
	FLOAT32
	FLOAT64
	// STRING is UTF-8 encoded variable length data.
	STRING
	// BINARY is variable length bytes with no encoding guarantee.
	BINARY
	// DATE is int32 days since the UNIX epoch.
	DATE
	// DATETIME is int64 time units since the UNIX epoch, optionally
	// carrying a timezone.
	DATETIME
	// DURATION is an int64 count of time units.
	DURATION
	// TIME is int64 nanoseconds since midnight.
	TIME
	// DECIMAL is a fixed point number stored as INT128.
	DECIMAL
	// CATEGORICAL is dictionary coded string data over an open mapping.
	CATEGORICAL
	// ENUM is dictionary coded string data over a frozen mapping.
	ENUM
	// LIST is a variable length list of some logical type.
	LIST
	// ARRAY is a fixed width list of some logical type.
	ARRAY
	// STRUCT is an ordered set of named fields.
	STRUCT
)

var typeNames = [...]string{
	NULL:        "NULL",
	BOOL:        "BOOL",
	INT8:        "INT8",
	INT16:       "INT16",
	INT32:       "INT32",
	INT64:       "INT64",
	UINT8:       "UINT8",
	UINT16:      "UINT16",
	UINT32:      "UINT32",
	UINT64:      "UINT64",
	INT128:      "INT128",
	FLOAT32:     "FLOAT32",
	FLOAT64:     "FLOAT64",
	STRING:      "STRING",
	BINARY:      "BINARY",
	DATE:        "DATE",
	DATETIME:    "DATETIME",
	DURATION:    "DURATION",
	TIME:        "TIME",
	DECIMAL:     "DECIMAL",
	CATEGORICAL: "CATEGORICAL",
	ENUM:        "ENUM",
	LIST:        "LIST",
	ARRAY:       "ARRAY",
	STRUCT:      "STRUCT",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "UNKNOWN"
	}
	return typeNames[t]
}

// DataType is the interface implemented by every logical type.
//
// The unexported method seals the interface: switching on ID is
// guaranteed to see every implementation.
type DataType interface {
	ID() Type
	// Name is the short name of the type without parameters.
	Name() string
	// String returns the parseable textual form, see ParseDataType.
	String() string

	logical()
}

type primitiveType struct {
	id   Type
	name string
}

func (t *primitiveType) ID() Type       { return t.id }
func (t *primitiveType) Name() string   { return t.name }
func (t *primitiveType) String() string { return t.name }
func (*primitiveType) logical()         {}

// NullType is the type of columns that only contain nulls.
type NullType struct{}

func (*NullType) ID() Type       { return NULL }
func (*NullType) Name() string   { return "null" }
func (*NullType) String() string { return "null" }
func (*NullType) logical()       {}

var (
	Null DataType = &NullType{}

	Boolean DataType = &primitiveType{BOOL, "bool"}
	Int8    DataType = &primitiveType{INT8, "int8"}
	Int16   DataType = &primitiveType{INT16, "int16"}
	Int32   DataType = &primitiveType{INT32, "int32"}
	Int64   DataType = &primitiveType{INT64, "int64"}
	Uint8   DataType = &primitiveType{UINT8, "uint8"}
	Uint16  DataType = &primitiveType{UINT16, "uint16"}
	Uint32  DataType = &primitiveType{UINT32, "uint32"}
	Uint64  DataType = &primitiveType{UINT64, "uint64"}
	Int128  DataType = &primitiveType{INT128, "int128"}
	Float32 DataType = &primitiveType{FLOAT32, "float32"}
	Float64 DataType = &primitiveType{FLOAT64, "float64"}
	String  DataType = &primitiveType{STRING, "str"}
	Binary  DataType = &primitiveType{BINARY, "binary"}
)

// int128Storage is the Arrow type holding INT128 and DECIMAL values.
var int128Storage = &arrow.Decimal128Type{Precision: MaxDecimalPrecision, Scale: 0}

func IsSignedInteger(t Type) bool {
	switch t {
	case INT8, INT16, INT32, INT64, INT128:
		return true
	}
	return false
}

func IsUnsignedInteger(t Type) bool {
	switch t {
	case UINT8, UINT16, UINT32, UINT64:
		return true
	}
	return false
}

// IsInteger reports whether t is a signed or unsigned integer type.
func IsInteger(t Type) bool { return IsSignedInteger(t) || IsUnsignedInteger(t) }

func IsFloat(t Type) bool { return t == FLOAT32 || t == FLOAT64 }

// IsNumeric reports whether t is an integer or floating point type.
func IsNumeric(t Type) bool { return IsInteger(t) || IsFloat(t) }

// IsTemporal reports whether t is one of the time related types.
func IsTemporal(t Type) bool {
	switch t {
	case DATE, DATETIME, DURATION, TIME:
		return true
	}
	return false
}

// IsDictionary reports whether t is dictionary coded.
func IsDictionary(t Type) bool { return t == CATEGORICAL || t == ENUM }

// IsNested reports whether t contains other types.
func IsNested(t Type) bool {
	switch t {
	case LIST, ARRAY, STRUCT:
		return true
	}
	return false
}

// IsPrimitive reports whether t is its own physical type.
func IsPrimitive(t Type) bool {
	switch t {
	case NULL, BOOL, STRING, BINARY:
		return true
	}
	return IsNumeric(t)
}

// PhysicalType returns the type whose values have the same memory layout
// as dt. Primitive types are their own physical type, logical wrappers map
// onto integers and nested types map their children recursively.
func PhysicalType(dt DataType) DataType {
	switch dt.ID() {
	case DATE:
		return Int32
	case DATETIME, DURATION, TIME:
		return Int64
	case DECIMAL:
		return Int128
	case CATEGORICAL, ENUM:
		return dt.(*DictionaryType).CodeType()
	case LIST:
		return ListOf(PhysicalType(dt.(*ListType).Elem))
	case ARRAY:
		at := dt.(*ArrayType)
		return ArrayOf(PhysicalType(at.Elem), at.Width)
	case STRUCT:
		st := dt.(*StructType)
		fields := make([]Field, len(st.Fields))
		for i, f := range st.Fields {
			fields[i] = Field{Name: f.Name, Type: PhysicalType(f.Type)}
		}
		return StructOf(fields...)
	default:
		return dt
	}
}

// ArrowType returns the Arrow type of the chunks of a column of type dt.
// Chunks always hold physical values, so ArrowType(dt) equals
// ArrowType(PhysicalType(dt)).
func ArrowType(dt DataType) arrow.DataType {
	switch dt.ID() {
	case NULL:
		return arrow.Null
	case BOOL:
		return arrow.FixedWidthTypes.Boolean
	case INT8:
		return arrow.PrimitiveTypes.Int8
	case INT16:
		return arrow.PrimitiveTypes.Int16
	case INT32, DATE:
		return arrow.PrimitiveTypes.Int32
	case INT64, DATETIME, DURATION, TIME:
		return arrow.PrimitiveTypes.Int64
	case UINT8:
		return arrow.PrimitiveTypes.Uint8
	case UINT16:
		return arrow.PrimitiveTypes.Uint16
	case UINT32:
		return arrow.PrimitiveTypes.Uint32
	case UINT64:
		return arrow.PrimitiveTypes.Uint64
	case INT128, DECIMAL:
		return int128Storage
	case FLOAT32:
		return arrow.PrimitiveTypes.Float32
	case FLOAT64:
		return arrow.PrimitiveTypes.Float64
	case STRING:
		return arrow.BinaryTypes.String
	case BINARY:
		return arrow.BinaryTypes.Binary
	case CATEGORICAL, ENUM:
		return ArrowType(dt.(*DictionaryType).CodeType())
	case LIST:
		return arrow.ListOf(ArrowType(dt.(*ListType).Elem))
	case ARRAY:
		at := dt.(*ArrayType)
		return arrow.FixedSizeListOf(int32(at.Width), ArrowType(at.Elem))
	case STRUCT:
		st := dt.(*StructType)
		fields := make([]arrow.Field, len(st.Fields))
		for i, f := range st.Fields {
			fields[i] = arrow.Field{Name: f.Name, Type: ArrowType(f.Type), Nullable: true}
		}
		return arrow.StructOf(fields...)
	}
	panic("polars: unknown type " + dt.ID().String())
}

// LogicalArrowType returns the Arrow type which carries the logical
// parameters of dt: Date32, Timestamp, Duration, Time64 and Decimal128,
// recursing into nested types. A physical chunk can be relabelled to this
// type without copying. For every other type it is the same as ArrowType.
func LogicalArrowType(dt DataType) arrow.DataType {
	switch dt := dt.(type) {
	case *ListType:
		return arrow.ListOf(LogicalArrowType(dt.Elem))
	case *ArrayType:
		return arrow.FixedSizeListOf(int32(dt.Width), LogicalArrowType(dt.Elem))
	case *StructType:
		fields := make([]arrow.Field, len(dt.Fields))
		for i, f := range dt.Fields {
			fields[i] = arrow.Field{Name: f.Name, Type: LogicalArrowType(f.Type), Nullable: true}
		}
		return arrow.StructOf(fields...)
	case *DateType:
		return arrow.FixedWidthTypes.Date32
	case *DatetimeType:
		return &arrow.TimestampType{Unit: dt.Unit, TimeZone: dt.TimeZone}
	case *DurationType:
		return &arrow.DurationType{Unit: dt.Unit}
	case *TimeType:
		return arrow.FixedWidthTypes.Time64ns
	case *DecimalType:
		return &arrow.Decimal128Type{Precision: dt.PrecisionOr(MaxDecimalPrecision), Scale: dt.ScaleOr(0)}
	}
	return ArrowType(dt)
}

// TypeEqual reports whether left and right are the same logical type.
// Dictionary types are equal when they share a mapping.
func TypeEqual(left, right DataType) bool {
	switch {
	case left == nil || right == nil:
		return left == nil && right == nil
	case left.ID() != right.ID():
		return false
	}

	switch l := left.(type) {
	case *DatetimeType:
		r := right.(*DatetimeType)
		return l.Unit == r.Unit && l.TimeZone == r.TimeZone
	case *DurationType:
		return l.Unit == right.(*DurationType).Unit
	case *DecimalType:
		r := right.(*DecimalType)
		return l.Precision == r.Precision && l.Scale == r.Scale
	case *DictionaryType:
		return l.Categories.ID() == right.(*DictionaryType).Categories.ID()
	case *ListType:
		return TypeEqual(l.Elem, right.(*ListType).Elem)
	case *ArrayType:
		r := right.(*ArrayType)
		return l.Width == r.Width && TypeEqual(l.Elem, r.Elem)
	case *StructType:
		r := right.(*StructType)
		if len(l.Fields) != len(r.Fields) {
			return false
		}
		for i := range l.Fields {
			if l.Fields[i].Name != r.Fields[i].Name || !TypeEqual(l.Fields[i].Type, r.Fields[i].Type) {
				return false
			}
		}
		return true
	}
	return true
}
