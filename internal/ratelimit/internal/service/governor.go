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
	"fmt"
	"time"

	"github.com/ecodeclub/tably/internal/ratelimit/internal/domain"
	"github.com/gotomicro/ego/core/elog"
	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=./governor.go -package=ratelimitmocks -destination=../../mocks/governor.mock.go -typed Governor
type Governor interface {
	// Admit 对(identity, endpoint)做固定窗口准入判定。
	// identity为空时落入匿名桶, 这是有意的弱保证。
	// 存储故障时放行(fail-open), 只记录诊断日志。
	Admit(ctx context.Context, identity, endpoint string) (domain.Decision, error)
}

const anonymousIdentity = "anonymous"

func NewGovernor(cmd redis.Cmdable, policy domain.Policy) Governor {
	return &governor{
		cmd:    cmd,
		policy: policy,
		logger: elog.DefaultLogger.With(elog.FieldComponent("ratelimit")),
	}
}

type governor struct {
	cmd    redis.Cmdable
	policy domain.Policy
	logger *elog.Component
}

func (g *governor) Admit(ctx context.Context, identity, endpoint string) (domain.Decision, error) {
	if identity == "" {
		identity = anonymousIdentity
	}

	// 已被封禁则直接拒绝, 剩余封禁时长即RetryAfter
	blockKey := g.blockKey(identity, endpoint)
	ttl, err := g.cmd.PTTL(ctx, blockKey).Result()
	if err != nil {
		return g.failOpen(identity, endpoint, err)
	}
	if ttl > 0 {
		return domain.Decision{Allowed: false, RetryAfter: ttl}, nil
	}

	now := time.Now()
	windowStart := now.Truncate(g.policy.Window)
	countKey := g.countKey(identity, endpoint, windowStart)

	count, err := g.cmd.Incr(ctx, countKey).Result()
	if err != nil {
		return g.failOpen(identity, endpoint, err)
	}
	if count == 1 {
		// 计数器随窗口结束过期, 失败不影响判定
		if er := g.cmd.PExpire(ctx, countKey, g.policy.Window).Err(); er != nil {
			g.logger.Warn("设置限流计数器过期时间失败",
				elog.FieldErr(er),
				elog.String("identity", identity),
				elog.String("endpoint", endpoint),
			)
		}
	}

	if count > g.policy.Max {
		// 超限即封禁到 now + window
		if er := g.cmd.Set(ctx, blockKey, now.UnixMilli(), g.policy.Window).Err(); er != nil {
			g.logger.Warn("写入限流封禁记录失败",
				elog.FieldErr(er),
				elog.String("identity", identity),
				elog.String("endpoint", endpoint),
			)
		}
		return domain.Decision{Allowed: false, RetryAfter: g.policy.Window}, nil
	}

	return domain.Decision{Allowed: true, Remaining: g.policy.Max - count}, nil
}

func (g *governor) failOpen(identity, endpoint string, err error) (domain.Decision, error) {
	g.logger.Warn("限流存储故障, 放行请求",
		elog.FieldErr(err),
		elog.String("identity", identity),
		elog.String("endpoint", endpoint),
	)
	return domain.Decision{Allowed: true, Remaining: g.policy.Max}, nil
}

func (g *governor) countKey(identity, endpoint string, windowStart time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", endpoint, identity, windowStart.UnixMilli())
}

func (g *governor) blockKey(identity, endpoint string) string {
	return fmt.Sprintf("ratelimit:block:%s:%s", endpoint, identity)
}
