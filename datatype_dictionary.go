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

	"github.com/cmdlineluser/polars/categories"
)

// DictionaryType is the dictionary coded string family. Values are stored
// as unsigned codes into Categories. The family has two members told apart
// by the capability of the mapping: an open mapping makes the type
// CATEGORICAL, a frozen one makes it ENUM.
type DictionaryType struct {
	Categories *categories.Mapping
}

// Categorical returns a CATEGORICAL type over m, or over the global
// mapping when m is nil.
func Categorical(m *categories.Mapping) *DictionaryType {
	if m == nil {
		m = categories.Global()
	}
	return &DictionaryType{Categories: m}
}

// Enum returns an ENUM type over a new frozen mapping of values.
func Enum(values ...string) (*DictionaryType, error) {
	m, err := categories.NewFrozenMapping(values)
	if err != nil {
		return nil, err
	}
	return &DictionaryType{Categories: m}, nil
}

func (t *DictionaryType) ID() Type {
	if t.Categories.Frozen() {
		return ENUM
	}
	return CATEGORICAL
}

func (t *DictionaryType) Name() string {
	if t.Categories.Frozen() {
		return "enum"
	}
	return "cat"
}

func (*DictionaryType) logical() {}

func (t *DictionaryType) String() string {
	if !t.Categories.Frozen() {
		return "cat"
	}
	values := t.Categories.Values()
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return "enum[" + strings.Join(quoted, ", ") + "]"
}

// CodeType is the unsigned integer type of the codes.
func (t *DictionaryType) CodeType() DataType {
	switch t.Categories.CodeWidth() {
	case 1:
		return Uint8
	case 2:
		return Uint16
	default:
		return Uint32
	}
}
