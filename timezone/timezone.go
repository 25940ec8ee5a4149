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

// Package timezone validates the timezone identifiers attached to
// Datetime columns.
package timezone

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/apache/arrow-go/v18/arrow"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cmdlineluser/polars"
)

// Validator checks that a timezone identifier is usable.
type Validator interface {
	Validate(tz string) error
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(tz string) error

func (f ValidatorFunc) Validate(tz string) error { return f(tz) }

const defaultCacheSize = 256

// Database validates identifiers against the IANA database available to
// the process and fixed offsets such as "+02:00", the forms accepted by
// Arrow timestamp types. Loaded locations are cached.
type Database struct {
	cache *lru.Cache[string, *time.Location]
}

// NewDatabase returns a Database caching up to size locations.
func NewDatabase(size int) *Database {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, *time.Location](size)
	if err != nil {
		// only returned for non-positive sizes
		panic(err)
	}
	return &Database{cache: cache}
}

// Default is the Validator used when none is configured.
var Default = NewDatabase(defaultCacheSize)

// Validate returns an error wrapping polars.ErrInvalidTimezone when tz is
// not a known zone.
func (d *Database) Validate(tz string) error {
	_, err := d.Location(tz)
	return err
}

// Location resolves tz to a *time.Location.
func (d *Database) Location(tz string) (*time.Location, error) {
	if loc, ok := d.cache.Get(tz); ok {
		return loc, nil
	}
	if tz == "" {
		return nil, fmt.Errorf("%w: empty identifier", polars.ErrInvalidTimezone)
	}

	loc, err := (&arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: tz}).GetZone()
	if err != nil || loc == nil {
		return nil, fmt.Errorf("%w: '%s'", polars.ErrInvalidTimezone, tz)
	}
	d.cache.Add(tz, loc)
	return loc, nil
}
