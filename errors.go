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
	"errors"
	"fmt"
)

var (
	// ErrCompute is the base error for failures while computing a result.
	ErrCompute = errors.New("compute error")
	// ErrInvalidOperation is returned for conversions that are structurally
	// impossible regardless of the values involved.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrSchemaMismatch is returned when array data does not match the
	// declared logical type.
	ErrSchemaMismatch = errors.New("schema mismatch")

	ErrStrictCast         = fmt.Errorf("%w: strict cast failed", ErrCompute)
	ErrInvalidTimezone    = fmt.Errorf("%w: unable to parse time zone", ErrCompute)
	ErrInvalidDecimalSpec = fmt.Errorf("%w: expected 'precision' or 'scale' when casting to Decimal", ErrCompute)
)
