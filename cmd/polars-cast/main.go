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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/docopt/docopt-go"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/goccy/go-json"

	"github.com/cmdlineluser/polars"
	"github.com/cmdlineluser/polars/compute"
	"github.com/cmdlineluser/polars/series"
)

const usage = `Column Cast Tool.

Reads a JSON array of values of the --from type from <file> or stdin and
prints them cast to the --to type. Categorical and enum values are given
as strings.

Usage:
  polars-cast -h | --help
  polars-cast --from=TYPE --to=TYPE [--policy=POLICY] [--unchecked] [--check]
              [--debug] [--parallelism=N] [<file>]
Options:
  -h --help           Show this screen.
  --from=TYPE         Type of the input values, such as "list<int32>".
  --to=TYPE           Type to cast the values to.
  --policy=POLICY     One of strict, non-strict or overflowing [default: strict].
  --unchecked         Cast without validating the result.
  --check             Only report whether the cast is possible.
  --debug             Log debug events to stderr.
  --parallelism=N     Number of chunks cast at once, 0 for one per CPU [default: 0].`

type config struct {
	From        string
	To          string
	Policy      string
	Unchecked   bool
	Check       bool
	Debug       bool
	Parallelism string
	File        string
}

func parseArgs(opts docopt.Opts) config {
	var cfg config
	cfg.From, _ = opts.String("--from")
	cfg.To, _ = opts.String("--to")
	cfg.Policy, _ = opts.String("--policy")
	cfg.Unchecked, _ = opts.Bool("--unchecked")
	cfg.Check, _ = opts.Bool("--check")
	cfg.Debug, _ = opts.Bool("--debug")
	cfg.Parallelism, _ = opts.String("--parallelism")
	cfg.File, _ = opts.String("<file>")
	return cfg
}

func main() {
	opts, _ := docopt.ParseDoc(usage)
	cfg := parseArgs(opts)

	in := io.Reader(os.Stdin)
	if cfg.File != "" {
		f, err := os.Open(cfg.File)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error opening input: ", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	if err := run(context.Background(), cfg, in, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// result is the JSON document written for a cast.
type result struct {
	From     string          `json:"from"`
	To       string          `json:"to"`
	Policy   string          `json:"policy"`
	CanCast  bool            `json:"can_cast"`
	Nulls    int             `json:"nulls,omitempty"`
	Values   json.RawMessage `json:"values,omitempty"`
	DataType string          `json:"dtype,omitempty"`
}

func run(ctx context.Context, cfg config, in io.Reader, out, errOut io.Writer) error {
	from, err := polars.ParseDataType(cfg.From)
	if err != nil {
		return err
	}
	to, err := polars.ParseDataType(cfg.To)
	if err != nil {
		return err
	}
	policy, err := compute.ParseCastOptions(cfg.Policy)
	if err != nil {
		return err
	}
	parallelism, err := strconv.Atoi(cfg.Parallelism)
	if err != nil {
		return fmt.Errorf("--parallelism needs to be an integer: %w", err)
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(errOut))
	if cfg.Debug {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowInfo())
	}
	ctx = compute.SetExecConfig(ctx, compute.ExecConfig{Parallelism: parallelism, Logger: logger})

	res := result{From: from.String(), To: to.String(), Policy: policy.String(), CanCast: compute.CanCast(from, to)}
	enc := json.NewEncoder(out)
	if cfg.Check {
		return enc.Encode(res)
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	mem := memory.DefaultAllocator
	src, err := readSeries(ctx, mem, from, string(data))
	if err != nil {
		return err
	}
	defer src.Release()

	var cast *series.Series
	if cfg.Unchecked {
		cast, err = compute.CastUnchecked(ctx, src, to)
	} else {
		cast, err = compute.Cast(ctx, src, to, policy)
	}
	if err != nil {
		return err
	}
	defer cast.Release()
	level.Debug(logger).Log("msg", "cast done", "rows", cast.Len(), "chunks", cast.NumChunks())

	values, err := writeValues(ctx, mem, cast)
	if err != nil {
		return err
	}
	res.Values, res.Nulls, res.DataType = values, cast.NullN(), cast.DataType().String()
	return enc.Encode(res)
}

// readSeries parses the input values. Dictionary coded columns are read
// as strings and encoded.
func readSeries(ctx context.Context, mem memory.Allocator, dt polars.DataType, data string) (*series.Series, error) {
	if !polars.IsDictionary(dt.ID()) {
		return series.FromJSON(mem, "values", dt, data)
	}
	strs, err := series.FromJSON(mem, "values", polars.String, data)
	if err != nil {
		return nil, err
	}
	defer strs.Release()
	return compute.Cast(ctx, strs, dt, compute.Strict)
}

// writeValues renders a column as a JSON array in its logical Arrow form.
func writeValues(ctx context.Context, mem memory.Allocator, s *series.Series) (json.RawMessage, error) {
	if polars.IsDictionary(s.DataType().ID()) {
		strs, err := compute.Cast(ctx, s, polars.String, compute.Strict)
		if err != nil {
			return nil, err
		}
		defer strs.Release()
		s = strs
	}

	single, err := s.Rechunk(mem)
	if err != nil {
		return nil, err
	}
	defer single.Release()

	chunks := single.LogicalChunks()
	defer func() {
		for _, c := range chunks {
			c.Release()
		}
	}()
	return json.Marshal(chunks[0])
}
