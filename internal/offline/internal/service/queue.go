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
	"encoding/json"
	"errors"
	"time"

	"github.com/ecodeclub/ekit/retry"
	"github.com/ecodeclub/tably/internal/offline/internal/domain"
	"github.com/ecodeclub/tably/internal/offline/internal/repository"
	"github.com/ecodeclub/tably/internal/order"
	"github.com/google/uuid"
	"github.com/gotomicro/ego/core/elog"
)

// Submitter 把暂存记录真正提交出去，order.Service天然满足
type Submitter interface {
	Submit(ctx context.Context, sub order.Submission) (order.OrderConfirmation, error)
}

type Queue interface {
	// Enqueue 先落地再尝试网络，返回生成的幂等键
	Enqueue(ctx context.Context, sub order.Submission) (string, error)
	// Flush 按创建顺序重放待同步记录
	// 为了保住设备内的提交顺序，碰到暂时性错误就停下来等下一轮
	Flush(ctx context.Context) error
	Start(ctx context.Context)
	ListAbandoned(ctx context.Context, offset, limit int) ([]domain.Record, error)
}

type queue struct {
	repo      repository.SubmissionRecordRepository
	submitter Submitter
	// maxAge 滞留超过这个时长就放弃，转到abandoned等用户处理
	maxAge          time.Duration
	flushInterval   time.Duration
	batchSize       int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxRetries      int32
	logger          *elog.Component
}

const (
	defaultMinRetryInterval = time.Second
	defaultMaxRetryInterval = time.Minute
	defaultMaxRetryTimes    = 10
)

func NewQueue(repo repository.SubmissionRecordRepository,
	submitter Submitter,
	maxAge time.Duration,
	flushInterval time.Duration,
	batchSize int) (Queue, error) {
	// 提前校验参数，循环里重建策略就不用再处理错误了
	_, err := retry.NewExponentialBackoffRetryStrategy(defaultMinRetryInterval, defaultMaxRetryInterval, defaultMaxRetryTimes)
	if err != nil {
		return nil, err
	}
	return &queue{
		repo:            repo,
		submitter:       submitter,
		maxAge:          maxAge,
		flushInterval:   flushInterval,
		batchSize:       batchSize,
		initialInterval: defaultMinRetryInterval,
		maxInterval:     defaultMaxRetryInterval,
		maxRetries:      defaultMaxRetryTimes,
		logger:          elog.DefaultLogger,
	}, nil
}

func (q *queue) Enqueue(ctx context.Context, sub order.Submission) (string, error) {
	sub.ClientSubmissionID = uuid.New().String()
	payload, err := json.Marshal(sub)
	if err != nil {
		return "", err
	}
	_, err = q.repo.Save(ctx, domain.Record{
		ClientSubmissionID: sub.ClientSubmissionID,
		Payload:            payload,
		State:              domain.RecordStatePending,
	})
	if err != nil {
		return "", err
	}
	return sub.ClientSubmissionID, nil
}

func (q *queue) Flush(ctx context.Context) error {
	records, err := q.repo.FindPending(ctx, q.batchSize)
	if err != nil {
		return err
	}
	now := time.Now().UnixMilli()
	for _, record := range records {
		if now-record.Ctime > q.maxAge.Milliseconds() {
			q.logger.Warn("离线订单滞留超时，放弃重放",
				elog.String("clientSubmissionID", record.ClientSubmissionID),
				elog.Int64("attempts", record.Attempts))
			if err := q.repo.MarkAbandoned(ctx, record.ID); err != nil {
				return err
			}
			continue
		}
		if err := q.flushOne(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (q *queue) flushOne(ctx context.Context, record domain.Record) error {
	var sub order.Submission
	if err := json.Unmarshal(record.Payload, &sub); err != nil {
		// 本地数据损坏，重试不会好
		q.logger.Error("离线订单数据损坏",
			elog.String("clientSubmissionID", record.ClientSubmissionID),
			elog.FieldErr(err))
		return q.repo.MarkAbandoned(ctx, record.ID)
	}
	_, err := q.submitter.Submit(ctx, sub)
	if err == nil {
		// 服务端确认，包括幂等重复的情况
		return q.repo.MarkSynced(ctx, record.ID)
	}
	var verr *order.ValidationError
	if errors.As(err, &verr) {
		// 商品失效这种错误重放多少次都一样
		q.logger.Warn("离线订单校验失败，放弃重放",
			elog.String("clientSubmissionID", record.ClientSubmissionID),
			elog.FieldErr(err))
		return q.repo.MarkAbandoned(ctx, record.ID)
	}
	if aerr := q.repo.RecordAttempt(ctx, record.ID); aerr != nil {
		q.logger.Error("记录重放次数失败", elog.FieldErr(aerr))
	}
	return err
}

// Start 单goroutine定时重放，失败时按指数退避拉长间隔
func (q *queue) Start(ctx context.Context) {
	go func() {
		strategy, _ := retry.NewExponentialBackoffRetryStrategy(q.initialInterval, q.maxInterval, q.maxRetries)
		for {
			interval := q.flushInterval
			if err := q.Flush(ctx); err != nil {
				q.logger.Error("重放离线订单失败", elog.FieldErr(err))
				next, ok := strategy.Next()
				if !ok {
					strategy, _ = retry.NewExponentialBackoffRetryStrategy(q.initialInterval, q.maxInterval, q.maxRetries)
					next, _ = strategy.Next()
				}
				interval = next
			} else {
				strategy, _ = retry.NewExponentialBackoffRetryStrategy(q.initialInterval, q.maxInterval, q.maxRetries)
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(interval):
			}
		}
	}()
}

func (q *queue) ListAbandoned(ctx context.Context, offset, limit int) ([]domain.Record, error) {
	return q.repo.FindAbandoned(ctx, offset, limit)
}
