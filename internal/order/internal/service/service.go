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
	"fmt"
	"strconv"
	"time"

	"github.com/ecodeclub/tably/internal/cart"
	"github.com/ecodeclub/tably/internal/order/internal/domain"
	"github.com/ecodeclub/tably/internal/order/internal/event"
	"github.com/ecodeclub/tably/internal/order/internal/repository"
	"github.com/ecodeclub/tably/internal/order/internal/repository/dao"
	"github.com/ecodeclub/tably/internal/payment"
	"github.com/ecodeclub/tably/internal/pkg/sequencenumber"
	"github.com/ecodeclub/tably/internal/ratelimit"
	"github.com/gotomicro/ego/core/elog"
)

var (
	ErrInvalidTransition = errors.New("非法的状态流转")
	ErrStatusConflict    = dao.ErrStatusConflict
	ErrOrderNotFound     = dao.ErrOrderNotFound
	// ErrSubmissionFailed 服务端重试一次之后仍然失败
	ErrSubmissionFailed = errors.New("提交失败")
)

const submitEndpoint = "order_submit"

//go:generate mockgen -source=./service.go -package=ordermocks -destination=../../mocks/order.mock.go -typed Service
type Service interface {
	// Submit 提交订单，按ClientSubmissionID幂等
	// 部分商品被拒绝时以剩余行下单，明细放在确认单的RejectedLines里
	// 返回*domain.RateLimitedError、*domain.ValidationError或包装了ErrSubmissionFailed的错误
	Submit(ctx context.Context, sub domain.Submission) (domain.OrderConfirmation, error)
	// Advance 店员推进订单状态，CAS失败返回ErrStatusConflict
	Advance(ctx context.Context, orderSN string, to domain.OrderStatus, actor string) error
	// Cancel 只允许从非终态且未到ready的状态取消
	Cancel(ctx context.Context, orderSN string, actor string) error
	FindBySNAndPayer(ctx context.Context, orderSN string, payerID int64) (domain.Order, error)
	FindBySN(ctx context.Context, orderSN string) (domain.Order, error)
	ListByPayer(ctx context.Context, payerID int64, offset, limit int) ([]domain.Order, error)
	FindStatusEvents(ctx context.Context, orderID int64) ([]domain.StatusEvent, error)
	// HandlePaymentResult 支付事件消费入口
	HandlePaymentResult(ctx context.Context, evt event.PaymentEvent) error
	CancelTimeoutOrders(ctx context.Context, offset, limit int, ctime int64) (int64, error)
}

func NewService(repo repository.OrderRepository,
	governor ratelimit.Governor,
	validator *CatalogValidator,
	paymentSvc payment.Service,
	cartSvc cart.Service,
	producer event.OrderStatusEventProducer,
	snGenerator *sequencenumber.Generator,
	submitTimeout time.Duration,
	estimatedReadyIn time.Duration,
) Service {
	return &service{
		repo:             repo,
		governor:         governor,
		validator:        validator,
		paymentSvc:       paymentSvc,
		cartSvc:          cartSvc,
		producer:         producer,
		snGenerator:      snGenerator,
		submitTimeout:    submitTimeout,
		estimatedReadyIn: estimatedReadyIn,
		l:                elog.DefaultLogger.With(elog.FieldComponent("order.service")),
	}
}

type service struct {
	repo        repository.OrderRepository
	governor    ratelimit.Governor
	validator   *CatalogValidator
	paymentSvc  payment.Service
	cartSvc     cart.Service
	producer    event.OrderStatusEventProducer
	snGenerator *sequencenumber.Generator
	// submitTimeout 整个提交链路的上限，超过直接返回失败而不是挂着
	submitTimeout    time.Duration
	estimatedReadyIn time.Duration
	l                *elog.Component
}

func (s *service) Submit(ctx context.Context, sub domain.Submission) (domain.OrderConfirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.submitTimeout)
	defer cancel()

	decision, err := s.governor.Admit(ctx, strconv.FormatInt(sub.PayerID, 10), submitEndpoint)
	if err != nil {
		return domain.OrderConfirmation{}, err
	}
	if !decision.Allowed {
		return domain.OrderConfirmation{}, &domain.RateLimitedError{RetryAfter: decision.RetryAfter}
	}

	res, err := s.validator.Validate(ctx, sub.VenueID, sub.Lines)
	if err != nil {
		return domain.OrderConfirmation{}, err
	}
	if len(res.Rejections) > 0 {
		// 逐行拒绝，剩余行照常下单
		s.l.Warn("部分商品被拒绝, 以剩余商品下单",
			elog.String("client_submission_id", sub.ClientSubmissionID),
			elog.Any("rejections", res.Rejections))
	}

	confirmation, err := s.submitOnce(ctx, sub, res)
	if err != nil {
		// 临时性故障重试一次，幂等键保证不会产生重复订单
		s.l.Warn("提交订单失败, 重试一次", elog.FieldErr(err),
			elog.String("client_submission_id", sub.ClientSubmissionID))
		confirmation, err = s.submitOnce(ctx, sub, res)
	}
	if err != nil {
		return domain.OrderConfirmation{}, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	// 下单成功后清掉会话购物车，失败不影响订单
	if er := s.cartSvc.Clear(ctx, sub.PayerID); er != nil {
		s.l.Warn("清空购物车失败", elog.FieldErr(er),
			elog.Int64("payer_id", sub.PayerID))
	}
	confirmation.RejectedLines = res.Rejections
	return confirmation, nil
}

func (s *service) submitOnce(ctx context.Context, sub domain.Submission,
	res ValidationResult) (domain.OrderConfirmation, error) {
	sn, err := s.snGenerator.Generate(sub.PayerID)
	if err != nil {
		return domain.OrderConfirmation{}, err
	}
	order, created, err := s.repo.CreateOrder(ctx, domain.Order{
		SN:                 sn,
		ClientSubmissionID: sub.ClientSubmissionID,
		PayerID:            sub.PayerID,
		VenueID:            sub.VenueID,
		ContactPhone:       sub.ContactPhone,
		Lines:              res.Lines,
		TotalAmount:        res.TotalAmount,
		Currency:           res.Currency,
		Status:             domain.OrderStatusPending,
		PaymentStatus:      domain.PaymentStatusPending,
		EstimatedReadyAt:   time.Now().Add(s.estimatedReadyIn).UnixMilli(),
	})
	if err != nil {
		return domain.OrderConfirmation{}, err
	}
	if created {
		s.publish(ctx, order, domain.StatusEvent{
			OrderID:    order.ID,
			FromStatus: domain.OrderStatusNone,
			ToStatus:   order.Status,
			Actor:      "system",
			Ctime:      order.Ctime,
		})
	}
	// 重复提交时CreatePayment也幂等，拿回同一条支付记录
	pmt, err := s.paymentSvc.CreatePayment(ctx, payment.Payment{
		OrderID:     order.ID,
		OrderSN:     order.SN,
		PayerID:     order.PayerID,
		Channel:     payment.ChannelType(sub.Channel),
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
	})
	if err != nil {
		return domain.OrderConfirmation{}, err
	}
	return domain.OrderConfirmation{
		OrderID:          order.ID,
		OrderSN:          order.SN,
		Status:           order.Status,
		PaymentStatus:    order.PaymentStatus,
		TotalAmount:      order.TotalAmount,
		Currency:         order.Currency,
		EstimatedReadyAt: order.EstimatedReadyAt,
		PaymentSN:        pmt.SN,
		CodeURL:          pmt.CodeURL,
	}, nil
}

func (s *service) Advance(ctx context.Context, orderSN string, to domain.OrderStatus, actor string) error {
	order, err := s.repo.FindBySN(ctx, orderSN)
	if err != nil {
		return err
	}
	if !order.Status.CanTransition(to) {
		return fmt.Errorf("%w: %d -> %d", ErrInvalidTransition, order.Status, to)
	}
	err = s.repo.TransitionStatus(ctx, order.ID, order.Status, to, actor)
	if err != nil {
		return err
	}
	s.publish(ctx, order, domain.StatusEvent{
		OrderID:    order.ID,
		FromStatus: order.Status,
		ToStatus:   to,
		Actor:      actor,
		Ctime:      time.Now().UnixMilli(),
	})
	return nil
}

func (s *service) Cancel(ctx context.Context, orderSN string, actor string) error {
	order, err := s.repo.FindBySN(ctx, orderSN)
	if err != nil {
		return err
	}
	if !order.Status.CanTransition(domain.OrderStatusCancelled) {
		return fmt.Errorf("%w: %d -> %d", ErrInvalidTransition, order.Status, domain.OrderStatusCancelled)
	}
	err = s.repo.TransitionStatus(ctx, order.ID, order.Status, domain.OrderStatusCancelled, actor)
	if err != nil {
		return err
	}
	if order.PaymentStatus == domain.PaymentStatusPaid {
		// 退款本身交给外部处理，这里只标记
		if er := s.repo.MarkRefundNeeded(ctx, order.ID); er != nil {
			s.l.Error("标记待退款失败", elog.FieldErr(er), elog.String("order_sn", orderSN))
		}
	}
	s.publish(ctx, order, domain.StatusEvent{
		OrderID:    order.ID,
		FromStatus: order.Status,
		ToStatus:   domain.OrderStatusCancelled,
		Actor:      actor,
		Ctime:      time.Now().UnixMilli(),
	})
	return nil
}

func (s *service) FindBySNAndPayer(ctx context.Context, orderSN string, payerID int64) (domain.Order, error) {
	return s.repo.FindBySNAndPayer(ctx, orderSN, payerID)
}

func (s *service) FindBySN(ctx context.Context, orderSN string) (domain.Order, error) {
	return s.repo.FindBySN(ctx, orderSN)
}

func (s *service) ListByPayer(ctx context.Context, payerID int64, offset, limit int) ([]domain.Order, error) {
	return s.repo.ListByPayer(ctx, payerID, offset, limit)
}

func (s *service) FindStatusEvents(ctx context.Context, orderID int64) ([]domain.StatusEvent, error) {
	return s.repo.FindStatusEvents(ctx, orderID)
}

func (s *service) HandlePaymentResult(ctx context.Context, evt event.PaymentEvent) error {
	order, events, err := s.repo.ApplyPaymentResult(ctx, evt.OrderSN,
		domain.PaymentStatus(evt.Status), evt.Exhausted)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		// 订单状态没变，只有支付状态变了，也要推给订阅方
		s.publish(ctx, order, domain.StatusEvent{
			OrderID:    order.ID,
			FromStatus: order.Status,
			ToStatus:   order.Status,
			Actor:      "payment",
			Ctime:      time.Now().UnixMilli(),
		})
		return nil
	}
	for _, e := range events {
		s.publish(ctx, order, e)
	}
	return nil
}

func (s *service) CancelTimeoutOrders(ctx context.Context, offset, limit int, ctime int64) (int64, error) {
	orders, total, err := s.repo.FindTimeoutOrders(ctx, offset, limit, ctime)
	if err != nil {
		return 0, err
	}
	for _, order := range orders {
		err = s.Cancel(ctx, order.SN, "system")
		if err != nil {
			s.l.Error("取消超时订单失败", elog.FieldErr(err), elog.String("order_sn", order.SN))
		}
	}
	return total, nil
}

// publish 事务提交之后再发，发送失败只记日志
// 订阅方漏掉的事件靠Snapshot补齐
func (s *service) publish(ctx context.Context, order domain.Order, evt domain.StatusEvent) {
	err := s.producer.Produce(ctx, event.OrderStatusEvent{
		OrderSN:       order.SN,
		FromStatus:    evt.FromStatus.ToUint8(),
		ToStatus:      evt.ToStatus.ToUint8(),
		PaymentStatus: order.PaymentStatus.ToUint8(),
		Actor:         evt.Actor,
		Timestamp:     evt.Ctime,
	})
	if err != nil {
		s.l.Error("发送订单状态事件失败",
			elog.FieldErr(err),
			elog.String("order_sn", order.SN),
		)
	}
}
