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

// Package categories implements the string dictionaries backing
// Categorical and Enum columns.
//
// A Mapping assigns small unsigned integer codes to strings. Open mappings
// grow as new strings are encoded; frozen mappings are created from a fixed
// list of categories and never change, so encoding a string they do not
// contain fails. Mappings are safe for concurrent use.
package categories

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
)

var (
	ErrFrozen            = errors.New("categories: mapping is frozen")
	ErrDuplicateCategory = errors.New("categories: duplicate category")
	ErrTooManyCategories = errors.New("categories: code space exhausted")
)

// Mapping is a bidirectional dictionary between strings and codes.
type Mapping struct {
	id     uuid.UUID
	frozen bool
	width  int

	mu     sync.RWMutex
	values []string
	// memo maps the xxh3 hash of a category onto every code with that hash.
	memo map[uint64][]uint32
}

// NewMapping returns an empty open mapping with 32-bit codes.
func NewMapping() *Mapping {
	return &Mapping{
		id:    uuid.New(),
		width: 4,
		memo:  make(map[uint64][]uint32),
	}
}

// NewFrozenMapping returns a closed mapping over values. Codes are assigned
// in order and the code width is the smallest of 1, 2 or 4 bytes able to
// address every category.
func NewFrozenMapping(values []string) (*Mapping, error) {
	m := &Mapping{
		id:     uuid.New(),
		frozen: true,
		width:  widthFor(len(values)),
		values: make([]string, 0, len(values)),
		memo:   make(map[uint64][]uint32, len(values)),
	}
	for _, v := range values {
		if _, ok := m.lookup(v); ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCategory, v)
		}
		m.insert(v)
	}
	return m, nil
}

func widthFor(n int) int {
	switch {
	case n <= math.MaxUint8+1:
		return 1
	case n <= math.MaxUint16+1:
		return 2
	default:
		return 4
	}
}

var (
	global     *Mapping
	globalOnce sync.Once
)

// Global returns the process wide open mapping used by Categorical types
// that were not given one explicitly.
func Global() *Mapping {
	globalOnce.Do(func() { global = NewMapping() })
	return global
}

// ID uniquely identifies the mapping. Two Categorical types are equal
// only if they share a mapping.
func (m *Mapping) ID() uuid.UUID { return m.id }

// Frozen reports whether the mapping is closed to new categories.
func (m *Mapping) Frozen() bool { return m.frozen }

// CodeWidth is the size in bytes of the unsigned integer codes.
func (m *Mapping) CodeWidth() int { return m.width }

// Len returns the number of categories.
func (m *Mapping) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// Values returns a copy of the categories in code order.
func (m *Mapping) Values() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.values))
	copy(out, m.values)
	return out
}

// Code returns the code assigned to s.
func (m *Mapping) Code(s string) (uint32, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookup(s)
}

// Value returns the category with the given code.
func (m *Mapping) Value(code uint32) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if int64(code) >= int64(len(m.values)) {
		return "", false
	}
	return m.values[code], true
}

// Contains reports whether code addresses a category.
func (m *Mapping) Contains(code uint32) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(code) < int64(len(m.values))
}

// GetOrInsert returns the code of s, assigning a new one if s has not been
// seen before. Frozen mappings only look s up and return ErrFrozen if it
// is missing.
func (m *Mapping) GetOrInsert(s string) (uint32, error) {
	if code, ok := m.Code(s); ok {
		return code, nil
	}
	if m.frozen {
		return 0, fmt.Errorf("%w: %q is not a category", ErrFrozen, s)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// another writer may have inserted s between the locks
	if code, ok := m.lookup(s); ok {
		return code, nil
	}
	if uint64(len(m.values)) >= math.MaxUint32 {
		return 0, ErrTooManyCategories
	}
	return m.insert(s), nil
}

func (m *Mapping) lookup(s string) (uint32, bool) {
	for _, code := range m.memo[xxh3.HashString(s)] {
		if m.values[code] == s {
			return code, true
		}
	}
	return 0, false
}

func (m *Mapping) insert(s string) uint32 {
	code := uint32(len(m.values))
	m.values = append(m.values, s)
	h := xxh3.HashString(s)
	m.memo[h] = append(m.memo[h], code)
	return code
}

func (m *Mapping) String() string {
	if m.frozen {
		return fmt.Sprintf("frozen_categories(%d)", m.Len())
	}
	return fmt.Sprintf("categories(%d)", m.Len())
}
