// Copyright 2025 go-bitonic Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bms

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/exp/constraints"

	"github.com/ajroetker/go-bitonic/internal/logutil"
)

// Engine plans and runs sorts with a fixed configuration. An Engine keeps
// no reference to a sequence after a call returns and may be shared by
// goroutines sorting distinct sequences.
type Engine struct {
	cfg     Config
	exec    Executor
	logger  *zap.Logger
	metrics *Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithExecutor sets the group scheduler. The default is Sequential.
func WithExecutor(exec Executor) Option {
	return func(e *Engine) { e.exec = exec }
}

// WithLogger sets the logger. The default is the global logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics enables metric collection.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates an engine. Unset config fields are filled with
// defaults before validation.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	cfg.Fill()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:  cfg,
		exec: Sequential{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logutil.GetGlobalLogger()
	}
	if e.exec == nil {
		e.exec = Sequential{}
	}
	return e, nil
}

// Config returns the filled configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Plan computes the plan for n elements using the configured capacity.
func (e *Engine) Plan(n int) (*Plan, error) {
	var (
		p   *Plan
		err error
	)
	if e.cfg.Flat {
		p, err = NewFlatPlan(n, e.cfg.GroupCapacity)
	} else {
		p, err = NewPlan(n, e.cfg.GroupCapacity)
	}
	if err != nil {
		return nil, err
	}
	e.logger.Debug("planned sort",
		zap.Int("n", p.N),
		zap.Int("lanes", p.Lanes),
		zap.Int("groups", p.Groups),
		zap.Int("stages", len(p.Stages)),
		zap.Int("global-stages", p.GlobalStages()),
		zap.Bool("flat", p.Flat))
	return p, nil
}

// Run applies every stage of plan to seq, in order. ctx is checked between
// stages only: a cancelled run leaves seq permuted but not necessarily
// sorted.
func (e *Engine) Run(ctx context.Context, seq Sequence, plan *Plan) error {
	if seq.Len() != plan.N {
		return errors.Wrapf(ErrLengthMismatch, "plan covers %d elements, sequence has %d", plan.N, seq.Len())
	}
	if err := validateSequence(seq); err != nil {
		return err
	}

	var trace PairFunc
	if e.cfg.TracePairs {
		trace = e.tracePair
	}

	for i, st := range plan.Stages {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "aborted before stage %d of %d", i, len(plan.Stages))
		}
		swaps, err := runStage(e.exec, seq, st, trace)
		if err != nil {
			return err
		}
		e.metrics.observeStage(st, swaps)
		e.logger.Debug("stage done",
			zap.Int("index", i),
			zap.Stringer("stage", st),
			zap.Int("swaps", swaps))
	}
	e.metrics.observeSort()
	return nil
}

func (e *Engine) tracePair(a, b int, swapped bool) {
	e.logger.Debug("compare-exchange", zap.Int("a", a), zap.Int("b", b), zap.Bool("swapped", swapped))
}

// Sort sorts seq of any length. Lengths that are not a power of two are
// padded with virtual maximal keys; see Pad.
func (e *Engine) Sort(ctx context.Context, seq Sequence) error {
	n := seq.Len()
	if n < 2 {
		return nil
	}
	m := ceilPow2(n)
	plan, err := e.Plan(m)
	if err != nil {
		return err
	}
	return e.Run(ctx, Pad(seq, m), plan)
}

// SortKeys sorts keys in place on the calling goroutine, using groups of at
// most groupCapacity lanes. groupCapacity must be at least 1; unlike Config
// it has no default.
func SortKeys[K constraints.Ordered](keys []K, groupCapacity int) error {
	if groupCapacity < 1 {
		return errors.Wrapf(ErrInvalidCapacity, "capacity=%d", groupCapacity)
	}
	e, err := NewEngine(Config{GroupCapacity: groupCapacity})
	if err != nil {
		return err
	}
	return e.Sort(context.Background(), Keys[K](keys))
}
