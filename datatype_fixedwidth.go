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
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// DateType is a calendar date stored as int32 days since the UNIX epoch.
type DateType struct{}

func (*DateType) ID() Type       { return DATE }
func (*DateType) Name() string   { return "date" }
func (*DateType) String() string { return "date" }
func (*DateType) logical()       {}

// TimeType is a time of day stored as int64 nanoseconds since midnight.
type TimeType struct{}

func (*TimeType) ID() Type       { return TIME }
func (*TimeType) Name() string   { return "time" }
func (*TimeType) String() string { return "time" }
func (*TimeType) logical()       {}

var (
	Date DataType = &DateType{}
	Time DataType = &TimeType{}
)

// DatetimeType is an instant stored as int64 units since the UNIX epoch.
// An empty TimeZone means the values are naive wall clock times.
type DatetimeType struct {
	Unit     arrow.TimeUnit
	TimeZone string
}

// Datetime returns a DatetimeType with the given unit and zone.
func Datetime(unit arrow.TimeUnit, tz string) *DatetimeType {
	return &DatetimeType{Unit: unit, TimeZone: tz}
}

func (*DatetimeType) ID() Type     { return DATETIME }
func (*DatetimeType) Name() string { return "datetime" }
func (*DatetimeType) logical()     {}

func (t *DatetimeType) String() string {
	if t.TimeZone == "" {
		return "datetime[" + t.Unit.String() + "]"
	}
	return "datetime[" + t.Unit.String() + ", " + t.TimeZone + "]"
}

// DurationType is an elapsed time stored as an int64 count of Unit.
type DurationType struct {
	Unit arrow.TimeUnit
}

// Duration returns a DurationType with the given unit.
func Duration(unit arrow.TimeUnit) *DurationType { return &DurationType{Unit: unit} }

func (*DurationType) ID() Type         { return DURATION }
func (*DurationType) Name() string     { return "duration" }
func (t *DurationType) String() string { return "duration[" + t.Unit.String() + "]" }
func (*DurationType) logical()         {}

const (
	// MaxDecimalPrecision is the number of decimal digits an INT128 holds.
	MaxDecimalPrecision int32 = 38
	// Unspecified marks a decimal precision or scale which was not given.
	Unspecified int32 = -1
)

// DecimalType is a fixed point number with Precision significant digits of
// which Scale are after the decimal point. The stored INT128 value v
// represents v / 10^Scale.
//
// A target type may leave either parameter Unspecified; columns always
// carry fully specified decimal types.
type DecimalType struct {
	Precision int32
	Scale     int32
}

// Decimal returns a DecimalType, use Unspecified for unknown parameters.
func Decimal(precision, scale int32) *DecimalType {
	return &DecimalType{Precision: precision, Scale: scale}
}

func (*DecimalType) ID() Type     { return DECIMAL }
func (*DecimalType) Name() string { return "decimal" }
func (*DecimalType) logical()     {}

func (t *DecimalType) HasPrecision() bool { return t.Precision != Unspecified }
func (t *DecimalType) HasScale() bool     { return t.Scale != Unspecified }

// PrecisionOr returns the precision or def if it is unspecified.
func (t *DecimalType) PrecisionOr(def int32) int32 {
	if t.HasPrecision() {
		return t.Precision
	}
	return def
}

// ScaleOr returns the scale or def if it is unspecified.
func (t *DecimalType) ScaleOr(def int32) int32 {
	if t.HasScale() {
		return t.Scale
	}
	return def
}

func (t *DecimalType) String() string {
	if !t.HasPrecision() && !t.HasScale() {
		return "decimal"
	}
	param := func(v int32) string {
		if v == Unspecified {
			return "?"
		}
		return fmt.Sprint(v)
	}
	return "decimal(" + param(t.Precision) + ", " + param(t.Scale) + ")"
}
