// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ecodeclub/tably/internal/ratelimit/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCmdable 只实现Governor用到的命令, 其余继承自嵌入接口(调用即panic)
type fakeCmdable struct {
	redis.Cmdable
	counters map[string]int64
	blocks   map[string]time.Duration
	err      error
}

func newFakeCmdable() *fakeCmdable {
	return &fakeCmdable{
		counters: make(map[string]int64),
		blocks:   make(map[string]time.Duration),
	}
}

func (f *fakeCmdable) PTTL(_ context.Context, key string) *redis.DurationCmd {
	if f.err != nil {
		return redis.NewDurationResult(0, f.err)
	}
	ttl, ok := f.blocks[key]
	if !ok {
		return redis.NewDurationResult(-2, nil)
	}
	return redis.NewDurationResult(ttl, nil)
}

func (f *fakeCmdable) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.counters[key]++
	return redis.NewIntResult(f.counters[key], nil)
}

func (f *fakeCmdable) PExpire(_ context.Context, _ string, _ time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(true, f.err)
}

func (f *fakeCmdable) Set(_ context.Context, key string, _ any, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.blocks[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestGovernor_Admit(t *testing.T) {
	t.Parallel()

	policy := domain.Policy{Max: 5, Window: time.Minute}

	t.Run("窗口内第6次请求被拒绝", func(t *testing.T) {
		t.Parallel()
		cmd := newFakeCmdable()
		g := NewGovernor(cmd, policy)
		for i := 0; i < 5; i++ {
			d, err := g.Admit(context.Background(), "uid:1", "order:submit")
			require.NoError(t, err)
			assert.True(t, d.Allowed)
			assert.Equal(t, int64(4-i), d.Remaining)
		}
		d, err := g.Admit(context.Background(), "uid:1", "order:submit")
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, policy.Window, d.RetryAfter)
	})

	t.Run("封禁期间持续拒绝且带RetryAfter", func(t *testing.T) {
		t.Parallel()
		cmd := newFakeCmdable()
		g := NewGovernor(cmd, policy)
		for i := 0; i < 6; i++ {
			_, err := g.Admit(context.Background(), "uid:2", "order:submit")
			require.NoError(t, err)
		}
		d, err := g.Admit(context.Background(), "uid:2", "order:submit")
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.True(t, d.RetryAfter > 0)
	})

	t.Run("窗口结束后重新放行", func(t *testing.T) {
		t.Parallel()
		cmd := newFakeCmdable()
		g := NewGovernor(cmd, policy)
		for i := 0; i < 6; i++ {
			_, err := g.Admit(context.Background(), "uid:3", "order:submit")
			require.NoError(t, err)
		}
		// 模拟窗口和封禁双双过期
		cmd.counters = make(map[string]int64)
		cmd.blocks = make(map[string]time.Duration)
		d, err := g.Admit(context.Background(), "uid:3", "order:submit")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	})

	t.Run("匿名请求落入同一个桶", func(t *testing.T) {
		t.Parallel()
		cmd := newFakeCmdable()
		g := NewGovernor(cmd, policy)
		_, err := g.Admit(context.Background(), "", "order:submit")
		require.NoError(t, err)
		_, err = g.Admit(context.Background(), "", "order:submit")
		require.NoError(t, err)
		var total int64
		for key, cnt := range cmd.counters {
			assert.True(t, strings.Contains(key, "anonymous"))
			total += cnt
		}
		assert.Equal(t, int64(2), total)
	})

	t.Run("存储故障放行", func(t *testing.T) {
		t.Parallel()
		cmd := newFakeCmdable()
		cmd.err = errors.New("connection refused")
		g := NewGovernor(cmd, policy)
		d, err := g.Admit(context.Background(), "uid:4", "order:submit")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	})
}
