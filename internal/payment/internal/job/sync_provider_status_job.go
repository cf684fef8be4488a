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

package job

import (
	"context"
	"fmt"
	"time"

	"github.com/ecodeclub/tably/internal/payment/internal/service"
	"github.com/gotomicro/ego/core/elog"
	"github.com/gotomicro/ego/task/ecron"
)

var _ ecron.NamedJob = (*SyncProviderStatusJob)(nil)

// SyncProviderStatusJob 对长时间没有结论的支付主动去渠道对账
type SyncProviderStatusJob struct {
	svc     service.Service
	minutes int64
	limit   int
	l       *elog.Component
}

func NewSyncProviderStatusJob(svc service.Service, minutes int64, limit int) *SyncProviderStatusJob {
	return &SyncProviderStatusJob{
		svc:     svc,
		minutes: minutes,
		limit:   limit,
		l:       elog.DefaultLogger,
	}
}

func (s *SyncProviderStatusJob) Name() string {
	return "sync_provider_status_job"
}

func (s *SyncProviderStatusJob) Run(ctx context.Context) error {
	ctime := time.Now().Add(time.Duration(-s.minutes) * time.Minute).UnixMilli()
	for {
		pmts, total, err := s.svc.FindTimeoutPayments(ctx, 0, s.limit, ctime)
		if err != nil {
			return fmt.Errorf("获取超时支付记录失败: %w", err)
		}
		for _, pmt := range pmts {
			if pmt.ProviderReference == "" {
				// 渠道侧还没有创建成功，没法对账，等订单侧超时取消
				continue
			}
			err = s.svc.SyncProviderStatus(ctx, pmt)
			if err != nil {
				s.l.Error("同步渠道支付状态失败",
					elog.FieldErr(err),
					elog.String("payment_sn", pmt.SN),
					elog.String("order_sn", pmt.OrderSN),
				)
			}
		}
		if len(pmts) < s.limit {
			return nil
		}
		if int64(s.limit) >= total {
			return nil
		}
	}
}
