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
	"github.com/goccy/go-json"
)

// MarshalDataType encodes dt as a JSON string holding its textual form.
func MarshalDataType(dt DataType) ([]byte, error) {
	return json.Marshal(dt.String())
}

// UnmarshalDataType decodes a JSON string written by MarshalDataType.
func UnmarshalDataType(data []byte) (DataType, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return ParseDataType(s)
}

type fieldJSON struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(fieldJSON{Name: f.Name, Type: f.Type.String()})
}

func (f *Field) UnmarshalJSON(data []byte) error {
	var raw fieldJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	dt, err := ParseDataType(raw.Type)
	if err != nil {
		return err
	}
	f.Name, f.Type = raw.Name, dt
	return nil
}

// FieldsFromJSON decodes a JSON array of {"name", "type"} objects, the
// form used to describe struct cast targets in configuration.
func FieldsFromJSON(data []byte) ([]Field, error) {
	var fields []Field
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
