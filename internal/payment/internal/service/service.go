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

	"github.com/ecodeclub/tably/internal/payment/internal/domain"
	"github.com/ecodeclub/tably/internal/payment/internal/event"
	"github.com/ecodeclub/tably/internal/payment/internal/repository"
	"github.com/ecodeclub/tably/internal/payment/internal/service/provider"
	"github.com/ecodeclub/tably/internal/pkg/sequencenumber"
	"github.com/gotomicro/ego/core/elog"
)

//go:generate mockgen -source=./service.go -package=paymentmocks -destination=../../mocks/payment.mock.go -typed Service
type Service interface {
	// CreatePayment 幂等，同一订单重复创建返回已有支付
	CreatePayment(ctx context.Context, pmt domain.Payment) (domain.Payment, error)
	FindPaymentByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error)
	// HandleProviderEvent 处理渠道回调，providerStatus 必须落在渠道词表内
	HandleProviderEvent(ctx context.Context, reference string, providerStatus string) error
	// SyncProviderStatus 主动对账，定时任务调用
	SyncProviderStatus(ctx context.Context, pmt domain.Payment) error
	FindTimeoutPayments(ctx context.Context, offset int, limit int, ctime int64) ([]domain.Payment, int64, error)
}

func NewService(repo repository.PaymentRepository,
	clients map[domain.ChannelType]provider.Client,
	producer event.PaymentEventProducer,
	snGenerator *sequencenumber.Generator,
	maxRetries int32,
	initialDeadline time.Duration,
) Service {
	return &service{
		repo:            repo,
		clients:         clients,
		producer:        producer,
		snGenerator:     snGenerator,
		maxRetries:      maxRetries,
		initialDeadline: initialDeadline,
		l:               elog.DefaultLogger,
	}
}

type service struct {
	repo        repository.PaymentRepository
	clients     map[domain.ChannelType]provider.Client
	producer    event.PaymentEventProducer
	snGenerator *sequencenumber.Generator
	// maxRetries 支付失败的重试上限，用完之后通知订单侧自动取消
	maxRetries      int32
	initialDeadline time.Duration
	l               *elog.Component
}

func (s *service) CreatePayment(ctx context.Context, pmt domain.Payment) (domain.Payment, error) {
	client, err := s.client(pmt.Channel)
	if err != nil {
		return domain.Payment{}, err
	}
	sn, err := s.snGenerator.Generate(pmt.PayerID)
	if err != nil {
		return domain.Payment{}, err
	}
	pmt.SN = sn
	pmt.Status = domain.PaymentStatusPending
	pmt.Deadline = time.Now().Add(s.initialDeadline).UnixMilli()

	pmt, err = s.repo.FindOrCreate(ctx, pmt)
	if err != nil {
		return domain.Payment{}, err
	}
	// 重复提交会拿到已有记录，已经在渠道侧创建过就不再创建
	if pmt.Status.IsTerminal() || pmt.ProviderReference != "" {
		return pmt, nil
	}

	intent, err := client.CreateIntent(ctx, pmt)
	if err != nil {
		return domain.Payment{}, err
	}
	err = s.repo.UpdateProviderReference(ctx, pmt.ID, intent.Reference)
	if err != nil {
		return domain.Payment{}, err
	}
	pmt.ProviderReference = intent.Reference
	pmt.CodeURL = intent.CodeURL
	return pmt, nil
}

func (s *service) FindPaymentByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error) {
	return s.repo.FindByOrderSN(ctx, orderSN)
}

func (s *service) HandleProviderEvent(ctx context.Context, reference string, providerStatus string) error {
	pmt, err := s.repo.FindByProviderReference(ctx, reference)
	if err != nil {
		return fmt.Errorf("查找支付记录失败: reference=%s, %w", reference, err)
	}
	client, err := s.client(pmt.Channel)
	if err != nil {
		return err
	}
	status, err := client.MapStatus(providerStatus)
	if err != nil {
		return err
	}
	return s.applyStatus(ctx, pmt, status)
}

func (s *service) SyncProviderStatus(ctx context.Context, pmt domain.Payment) error {
	client, err := s.client(pmt.Channel)
	if err != nil {
		return err
	}
	status, err := client.QueryStatus(ctx, pmt.ProviderReference)
	if err != nil {
		return err
	}
	// 超过支付截止时间还没有结果的，按失败处理
	if status == domain.PaymentStatusPending && time.Now().UnixMilli() > pmt.Deadline {
		status = domain.PaymentStatusFailed
	}
	return s.applyStatus(ctx, pmt, status)
}

func (s *service) FindTimeoutPayments(ctx context.Context, offset int, limit int, ctime int64) ([]domain.Payment, int64, error) {
	return s.repo.FindTimeoutPayments(ctx, offset, limit, ctime)
}

func (s *service) applyStatus(ctx context.Context, pmt domain.Payment, status domain.PaymentStatus) error {
	if pmt.Status.IsTerminal() && status != domain.PaymentStatusRefunded {
		s.l.Warn("忽略终态之后的渠道通知",
			elog.String("payment_sn", pmt.SN),
			elog.Any("current", pmt.Status),
			elog.Any("incoming", status),
		)
		return nil
	}
	switch status {
	case domain.PaymentStatusPending:
		// 渠道还没有结论，等回调或者下一轮对账
		return nil
	case domain.PaymentStatusPaid:
		err := s.repo.UpdateStatus(ctx, pmt.ID, status, time.Now().UnixMilli())
		if err != nil {
			return err
		}
		return s.produce(ctx, pmt, status, false)
	case domain.PaymentStatusRefunded:
		err := s.repo.UpdateStatus(ctx, pmt.ID, status, 0)
		if err != nil {
			return err
		}
		return s.produce(ctx, pmt, status, false)
	case domain.PaymentStatusFailed:
		retries, err := s.repo.IncrRetryCount(ctx, pmt.ID)
		if err != nil {
			return err
		}
		err = s.repo.UpdateStatus(ctx, pmt.ID, status, 0)
		if err != nil {
			return err
		}
		return s.produce(ctx, pmt, status, retries >= s.maxRetries)
	default:
		return fmt.Errorf("非法的支付状态: %d", status.ToUint8())
	}
}

func (s *service) produce(ctx context.Context, pmt domain.Payment, status domain.PaymentStatus, exhausted bool) error {
	evt := event.PaymentEvent{
		OrderSN:   pmt.OrderSN,
		PayerID:   pmt.PayerID,
		Status:    status.ToUint8(),
		Exhausted: exhausted,
	}
	err := s.producer.Produce(ctx, evt)
	if err != nil {
		// 返回错误让渠道重试通知
		return fmt.Errorf("发送支付事件失败: %w, event=%#v", err, evt)
	}
	return nil
}

func (s *service) client(channel domain.ChannelType) (provider.Client, error) {
	client, ok := s.clients[channel]
	if !ok {
		return nil, fmt.Errorf("未知的支付渠道: %d", channel.ToUint8())
	}
	return client, nil
}
