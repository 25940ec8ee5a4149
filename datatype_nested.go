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
	"strconv"
	"strings"
	"unicode"
)

// ListType is a variable length list of Elem values.
type ListType struct {
	Elem DataType
}

// ListOf returns the type of lists of elem.
func ListOf(elem DataType) *ListType { return &ListType{Elem: elem} }

func (*ListType) ID() Type         { return LIST }
func (*ListType) Name() string     { return "list" }
func (t *ListType) String() string { return "list<" + t.Elem.String() + ">" }
func (*ListType) logical()         {}

// ArrayType is a list of exactly Width Elem values.
type ArrayType struct {
	Elem  DataType
	Width int
}

// ArrayOf returns the type of fixed width lists of elem.
func ArrayOf(elem DataType, width int) *ArrayType {
	return &ArrayType{Elem: elem, Width: width}
}

func (*ArrayType) ID() Type     { return ARRAY }
func (*ArrayType) Name() string { return "array" }
func (*ArrayType) logical()     {}

func (t *ArrayType) String() string {
	return "array<" + t.Elem.String() + ", " + strconv.Itoa(t.Width) + ">"
}

// Field is a named logical type, used to describe struct members.
type Field struct {
	Name string
	Type DataType
}

func NewField(name string, dt DataType) Field { return Field{Name: name, Type: dt} }

func (f Field) String() string { return fieldName(f.Name) + ": " + f.Type.String() }

// fieldName quotes names that would not parse back as identifiers.
func fieldName(name string) string {
	if name == "" {
		return `""`
	}
	for _, r := range name {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return strconv.Quote(name)
		}
	}
	return name
}

// StructType is an ordered set of named fields.
type StructType struct {
	Fields []Field
}

// StructOf returns a struct type with the given fields. The fields slice
// is copied.
func StructOf(fields ...Field) *StructType {
	fs := make([]Field, len(fields))
	copy(fs, fields)
	return &StructType{Fields: fs}
}

func (*StructType) ID() Type     { return STRUCT }
func (*StructType) Name() string { return "struct" }
func (*StructType) logical()     {}

func (t *StructType) String() string {
	var b strings.Builder
	b.WriteString("struct<")
	for i, f := range t.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.String())
	}
	b.WriteString(">")
	return b.String()
}

// FieldIndex returns the position of the field called name, or -1.
func (t *StructType) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}
