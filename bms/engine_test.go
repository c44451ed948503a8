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
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bms.toml")
	content := `
group-capacity = 32
flat = true
trace-pairs = true

[log]
level = "debug"
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.GroupCapacity)
	assert.True(t, cfg.Flat)
	assert.True(t, cfg.TracePairs)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfigDefaultsAndErrors(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.toml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	cfg, err := LoadConfig(empty)
	require.NoError(t, err)
	assert.Equal(t, DefaultGroupCapacity(), cfg.GroupCapacity)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("group-capacity = -3\n"), 0o644))
	_, err = LoadConfig(bad)
	require.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
}

func TestEngineSort(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	for _, flat := range []bool{false, true} {
		eng, err := NewEngine(Config{GroupCapacity: 8, Flat: flat})
		require.NoError(t, err)

		keys := shuffled(200, rng)
		require.NoError(t, eng.Sort(context.Background(), Keys[uint32](keys)))
		require.True(t, IsSorted(Keys[uint32](keys)))
	}
}

func TestEngineSortTinyInputs(t *testing.T) {
	eng, err := NewEngine(Config{GroupCapacity: 4})
	require.NoError(t, err)
	require.NoError(t, eng.Sort(context.Background(), Keys[int](nil)))
	one := Keys[int]{7}
	require.NoError(t, eng.Sort(context.Background(), one))
	assert.Equal(t, Keys[int]{7}, one)
}

func TestEngineRunRejectsForeignPlan(t *testing.T) {
	eng, err := NewEngine(Config{GroupCapacity: 4})
	require.NoError(t, err)
	p, err := eng.Plan(16)
	require.NoError(t, err)
	err = eng.Run(context.Background(), Keys[int](make([]int, 32)), p)
	require.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestEngineSortRejectsShortPayload(t *testing.T) {
	eng, err := NewEngine(Config{GroupCapacity: 4})
	require.NoError(t, err)
	keys := []uint32{5, 3, 7, 1, 6}
	err = eng.Sort(context.Background(), Pairs[uint32, int]{Keys: keys, Payload: make([]int, 2)})
	require.True(t, errors.Is(err, ErrLengthMismatch))
	assert.Equal(t, []uint32{5, 3, 7, 1, 6}, keys)
}

func TestEngineAbortBetweenStages(t *testing.T) {
	eng, err := NewEngine(Config{GroupCapacity: 2})
	require.NoError(t, err)
	p, err := eng.Plan(32)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	keys := Keys[uint32](shuffled(32, rand.New(rand.NewSource(7))))
	before := append(Keys[uint32](nil), keys...)
	err = eng.Run(ctx, keys, p)
	require.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, before, keys)
}

func TestEngineMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	eng, err := NewEngine(Config{GroupCapacity: 4}, WithMetrics(m))
	require.NoError(t, err)

	keys := Keys[uint32]{5, 3, 7, 1, 6, 0, 2, 4, 13, 11, 15, 9, 14, 8, 10, 12}
	require.NoError(t, eng.Sort(context.Background(), keys))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.sorts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stages.WithLabelValues("local-bms")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stages.WithLabelValues("big-flip")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.stages.WithLabelValues("local-disperse")))
	assert.Positive(t, testutil.ToFloat64(m.swaps))

	// Sorting again swaps nothing.
	swapsBefore := testutil.ToFloat64(m.swaps)
	require.NoError(t, eng.Sort(context.Background(), keys))
	assert.Equal(t, swapsBefore, testutil.ToFloat64(m.swaps))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sorts))
}

func TestEngineTracePairs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	eng, err := NewEngine(Config{GroupCapacity: 2, TracePairs: true}, WithLogger(zap.New(core)))
	require.NoError(t, err)

	keys := Keys[int]{3, 2, 1, 0}
	require.NoError(t, eng.Sort(context.Background(), keys))

	p, err := eng.Plan(4)
	require.NoError(t, err)
	// Two lanes per layer.
	assert.Equal(t, 2*p.Steps(), logs.FilterMessage("compare-exchange").Len())
	assert.Equal(t, len(p.Stages), logs.FilterMessage("stage done").Len())
	assert.Equal(t, 2, logs.FilterMessage("planned sort").Len())
}

func TestEngineInvalidConfig(t *testing.T) {
	_, err := NewEngine(Config{GroupCapacity: -1})
	require.True(t, errors.Is(err, ErrInvalidConfig))

	eng, err := NewEngine(Config{}, WithExecutor(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultGroupCapacity(), eng.Config().GroupCapacity)
}
