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
	"context"
	"runtime"

	arrowcompute "github.com/apache/arrow-go/v18/arrow/compute"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-kit/log"

	"github.com/cmdlineluser/polars/timezone"
)

// ExecConfig carries the execution settings of a cast through a context.
type ExecConfig struct {
	// Parallelism bounds the number of chunks cast at once.
	Parallelism int
	// Logger receives debug events such as rechunking of nested columns.
	Logger log.Logger
	// Timezones validates the timezone of Datetime targets.
	Timezones timezone.Validator
}

type ctxExecKey struct{}

var defaultExecConfig = ExecConfig{
	Parallelism: runtime.GOMAXPROCS(0),
	Logger:      log.NewNopLogger(),
	Timezones:   timezone.Default,
}

// DefaultExecConfig returns the configuration used when a context carries
// none.
func DefaultExecConfig() ExecConfig { return defaultExecConfig }

func SetExecConfig(ctx context.Context, cfg ExecConfig) context.Context {
	return context.WithValue(ctx, ctxExecKey{}, cfg)
}

// GetExecConfig returns the configuration stored in ctx. Unset fields
// take their default values.
func GetExecConfig(ctx context.Context) ExecConfig {
	cfg, ok := ctx.Value(ctxExecKey{}).(ExecConfig)
	if !ok {
		return defaultExecConfig
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = defaultExecConfig.Parallelism
	}
	if cfg.Logger == nil {
		cfg.Logger = defaultExecConfig.Logger
	}
	if cfg.Timezones == nil {
		cfg.Timezones = defaultExecConfig.Timezones
	}
	return cfg
}

// WithAllocator returns a context whose casts allocate from mem.
func WithAllocator(ctx context.Context, mem memory.Allocator) context.Context {
	return arrowcompute.WithAllocator(ctx, mem)
}

// GetAllocator returns the allocator of ctx, or memory.DefaultAllocator.
func GetAllocator(ctx context.Context) memory.Allocator {
	return arrowcompute.GetAllocator(ctx)
}
