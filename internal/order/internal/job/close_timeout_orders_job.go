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
	"time"

	"github.com/ecodeclub/tably/internal/order/internal/service"
	"github.com/gotomicro/ego/core/elog"
	"github.com/gotomicro/ego/task/ecron"
)

var _ ecron.NamedJob = (*CloseTimeoutOrdersJob)(nil)

// CloseTimeoutOrdersJob 长时间停在pending的订单兜底取消
// 正常路径由支付重试耗尽触发，这里处理支付记录都没建出来的情况
type CloseTimeoutOrdersJob struct {
	svc     service.Service
	minutes int64
	limit   int
	l       *elog.Component
}

func NewCloseTimeoutOrdersJob(svc service.Service, minutes int64, limit int) *CloseTimeoutOrdersJob {
	return &CloseTimeoutOrdersJob{
		svc:     svc,
		minutes: minutes,
		limit:   limit,
		l:       elog.DefaultLogger,
	}
}

func (c *CloseTimeoutOrdersJob) Name() string {
	return "close_timeout_orders_job"
}

func (c *CloseTimeoutOrdersJob) Run(ctx context.Context) error {
	ctime := time.Now().Add(time.Duration(-c.minutes) * time.Minute).UnixMilli()
	for {
		total, err := c.svc.CancelTimeoutOrders(ctx, 0, c.limit, ctime)
		if err != nil {
			return err
		}
		if total <= int64(c.limit) {
			return nil
		}
	}
}
