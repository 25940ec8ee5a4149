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
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"

	"github.com/cmdlineluser/polars"
	"github.com/cmdlineluser/polars/compute/internal/kernels"
	"github.com/cmdlineluser/polars/internal/arrutil"
)

// maxReportedFailures bounds the values quoted in strict cast errors.
const maxReportedFailures = 10

// castChunks runs the kernel over every chunk. The output has one chunk
// per input chunk with the same length. Under Strict a chunk that gains
// nulls fails the whole call. Nothing is returned on failure.
func castChunks(ctx context.Context, chunks []arrow.Array, to arrow.DataType, opts CastOptions) ([]arrow.Array, error) {
	cfg := GetExecConfig(ctx)
	out := make([]arrow.Array, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallelism)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := kernels.Cast(gctx, chunk, to, opts.KernelOptions())
			if err != nil {
				return err
			}
			out[i] = res
			if opts.IsStrict() && res.NullN() != chunk.NullN() {
				return strictCastError(chunk, res)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		releaseChunks(out)
		level.Debug(cfg.Logger).Log("msg", "chunk cast failed", "to", to, "policy", opts, "err", err)
		return nil, err
	}
	return out, nil
}

// strictCastError reports the values of in that are null in out.
func strictCastError(in, out arrow.Array) error {
	var failed []string
	for i := 0; i < in.Len() && len(failed) < maxReportedFailures; i++ {
		if in.IsValid(i) && out.IsNull(i) {
			failed = append(failed, in.ValueStr(i))
		}
	}
	return fmt.Errorf("%w: conversion from %s to %s failed for %d value(s) [%s]",
		polars.ErrStrictCast, in.DataType(), out.DataType(),
		out.NullN()-in.NullN(), strings.Join(failed, ", "))
}

func releaseChunks(chunks []arrow.Array) {
	for _, c := range chunks {
		if c != nil {
			c.Release()
		}
	}
}

// relabelChunks views chunks as type dt. The result must be released.
func relabelChunks(chunks []arrow.Array, dt arrow.DataType) []arrow.Array {
	out := make([]arrow.Array, len(chunks))
	for i, c := range chunks {
		out[i] = arrutil.Relabel(c, dt)
	}
	return out
}
