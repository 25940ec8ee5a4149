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

package compute

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/cmdlineluser/polars"
	"github.com/cmdlineluser/polars/compute/internal/kernels"
)

// CastOptions selects how values that do not fit the target type are
// handled.
type CastOptions int8

const (
	// Strict fails the cast when any value becomes null that was not
	// null before.
	Strict CastOptions = iota
	// NonStrict turns values that overflow or fail to parse into nulls.
	NonStrict
	// Overflowing wraps integers around instead of producing nulls.
	Overflowing
)

func (o CastOptions) IsStrict() bool { return o == Strict }

// KernelOptions maps the policy to the flags of the physical kernel.
// Casts are never partial.
func (o CastOptions) KernelOptions() kernels.CastOptions {
	return kernels.CastOptions{Wrapped: o == Overflowing, Partial: false}
}

func (o CastOptions) String() string {
	switch o {
	case Strict:
		return "strict"
	case NonStrict:
		return "non-strict"
	case Overflowing:
		return "overflowing"
	}
	return fmt.Sprintf("CastOptions(%d)", int8(o))
}

// ParseCastOptions parses the names returned by CastOptions.String. Case
// and the separator between "non" and "strict" are not significant.
func ParseCastOptions(s string) (CastOptions, error) {
	switch strings.ToLower(s) {
	case "strict":
		return Strict, nil
	case "non-strict", "non_strict", "nonstrict":
		return NonStrict, nil
	case "overflowing":
		return Overflowing, nil
	}
	return Strict, fmt.Errorf("%w: unknown cast options %q", polars.ErrInvalidOperation, s)
}

func (o CastOptions) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *CastOptions) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseCastOptions(s)
	if err != nil {
		return err
	}
	*o = v
	return nil
}
