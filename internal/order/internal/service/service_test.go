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
	"testing"
	"time"

	"github.com/ecodeclub/tably/internal/cart"
	"github.com/ecodeclub/tably/internal/catalog"
	"github.com/ecodeclub/tably/internal/order/internal/domain"
	"github.com/ecodeclub/tably/internal/order/internal/event"
	"github.com/ecodeclub/tably/internal/payment"
	"github.com/ecodeclub/tably/internal/pkg/sequencenumber"
	"github.com/ecodeclub/tably/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderRepository struct {
	nextID int64
	orders map[int64]domain.Order
	events []domain.StatusEvent
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{orders: make(map[int64]domain.Order)}
}

func (f *fakeOrderRepository) CreateOrder(_ context.Context, order domain.Order) (domain.Order, bool, error) {
	for _, o := range f.orders {
		if o.ClientSubmissionID == order.ClientSubmissionID {
			return o, false, nil
		}
	}
	f.nextID++
	order.ID = f.nextID
	order.Ctime = time.Now().UnixMilli()
	f.orders[order.ID] = order
	f.events = append(f.events, domain.StatusEvent{
		OrderID:    order.ID,
		FromStatus: domain.OrderStatusNone,
		ToStatus:   order.Status,
		Actor:      "system",
		Ctime:      order.Ctime,
	})
	return order, true, nil
}

func (f *fakeOrderRepository) FindBySN(_ context.Context, sn string) (domain.Order, error) {
	for _, o := range f.orders {
		if o.SN == sn {
			return o, nil
		}
	}
	return domain.Order{}, ErrOrderNotFound
}

func (f *fakeOrderRepository) FindBySNAndPayer(_ context.Context, sn string, payerID int64) (domain.Order, error) {
	for _, o := range f.orders {
		if o.SN == sn && o.PayerID == payerID {
			return o, nil
		}
	}
	return domain.Order{}, ErrOrderNotFound
}

func (f *fakeOrderRepository) ListByPayer(_ context.Context, payerID int64, offset, limit int) ([]domain.Order, error) {
	var res []domain.Order
	for _, o := range f.orders {
		if o.PayerID == payerID {
			res = append(res, o)
		}
	}
	return res, nil
}

func (f *fakeOrderRepository) FindStatusEvents(_ context.Context, orderID int64) ([]domain.StatusEvent, error) {
	var res []domain.StatusEvent
	for _, e := range f.events {
		if e.OrderID == orderID {
			res = append(res, e)
		}
	}
	return res, nil
}

func (f *fakeOrderRepository) TransitionStatus(_ context.Context, orderID int64, from, to domain.OrderStatus, actor string) error {
	o := f.orders[orderID]
	if o.Status != from {
		return ErrStatusConflict
	}
	o.Status = to
	f.orders[orderID] = o
	f.events = append(f.events, domain.StatusEvent{
		OrderID:    orderID,
		FromStatus: from,
		ToStatus:   to,
		Actor:      actor,
		Ctime:      time.Now().UnixMilli(),
	})
	return nil
}

func (f *fakeOrderRepository) MarkRefundNeeded(_ context.Context, orderID int64) error {
	o := f.orders[orderID]
	o.RefundNeeded = true
	f.orders[orderID] = o
	return nil
}

func (f *fakeOrderRepository) ApplyPaymentResult(_ context.Context, orderSN string, paymentStatus domain.PaymentStatus, exhausted bool) (domain.Order, []domain.StatusEvent, error) {
	var target domain.Order
	found := false
	for _, o := range f.orders {
		if o.SN == orderSN {
			target = o
			found = true
		}
	}
	if !found {
		return domain.Order{}, nil, ErrOrderNotFound
	}
	now := time.Now().UnixMilli()
	var events []domain.StatusEvent
	target.PaymentStatus = paymentStatus
	paid := paymentStatus == domain.PaymentStatusPaid
	switch {
	case paid && target.Status == domain.OrderStatusPending:
		events = append(events, domain.StatusEvent{
			OrderID: target.ID, FromStatus: target.Status,
			ToStatus: domain.OrderStatusConfirmed, Actor: "payment", Ctime: now,
		})
		target.Status = domain.OrderStatusConfirmed
	case paid && target.Status == domain.OrderStatusCancelled:
		target.RefundNeeded = true
	case exhausted && !target.Status.IsTerminal() && target.Status != domain.OrderStatusReady:
		events = append(events, domain.StatusEvent{
			OrderID: target.ID, FromStatus: target.Status,
			ToStatus: domain.OrderStatusCancelled, Actor: "payment", Ctime: now,
		})
		target.Status = domain.OrderStatusCancelled
	}
	f.orders[target.ID] = target
	f.events = append(f.events, events...)
	return target, events, nil
}

func (f *fakeOrderRepository) FindTimeoutOrders(_ context.Context, offset, limit int, ctime int64) ([]domain.Order, int64, error) {
	var res []domain.Order
	for _, o := range f.orders {
		if o.Status == domain.OrderStatusPending && o.Ctime < ctime {
			res = append(res, o)
		}
	}
	return res, int64(len(res)), nil
}

type fakeGovernor struct {
	decision ratelimit.Decision
}

func (f *fakeGovernor) Admit(_ context.Context, _, _ string) (ratelimit.Decision, error) {
	return f.decision, nil
}

type fakeCatalogService struct {
	catalog.Service
	items map[int64]catalog.Item
}

func (f *fakeCatalogService) FindByIDs(_ context.Context, venueID int64, ids []int64) ([]catalog.Item, error) {
	res := make([]catalog.Item, 0, len(ids))
	for _, id := range ids {
		item, ok := f.items[id]
		if ok && item.VenueID == venueID {
			res = append(res, item)
		}
	}
	return res, nil
}

type fakePaymentService struct {
	payment.Service
	nextID   int64
	payments map[int64]payment.Payment
	// failures CreatePayment先失败几次
	failures int
	calls    int
}

func (f *fakePaymentService) CreatePayment(_ context.Context, pmt payment.Payment) (payment.Payment, error) {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return payment.Payment{}, errors.New("支付渠道不可用")
	}
	if existing, ok := f.payments[pmt.OrderID]; ok {
		return existing, nil
	}
	f.nextID++
	pmt.ID = f.nextID
	pmt.SN = "payment-sn"
	pmt.Status = payment.PaymentStatusPending
	f.payments[pmt.OrderID] = pmt
	return pmt, nil
}

type fakeCartService struct {
	cart.Service
	cleared []int64
}

func (f *fakeCartService) Clear(_ context.Context, sessionID int64) error {
	f.cleared = append(f.cleared, sessionID)
	return nil
}

type fakeProducer struct {
	events []event.OrderStatusEvent
}

func (f *fakeProducer) Produce(_ context.Context, evt event.OrderStatusEvent) error {
	f.events = append(f.events, evt)
	return nil
}

type testFixture struct {
	svc        Service
	repo       *fakeOrderRepository
	governor   *fakeGovernor
	paymentSvc *fakePaymentService
	cartSvc    *fakeCartService
	producer   *fakeProducer
}

func newTestFixture() *testFixture {
	repo := newFakeOrderRepository()
	governor := &fakeGovernor{decision: ratelimit.Decision{Allowed: true}}
	paymentSvc := &fakePaymentService{payments: make(map[int64]payment.Payment)}
	cartSvc := &fakeCartService{}
	producer := &fakeProducer{}
	catalogSvc := &fakeCatalogService{
		items: map[int64]catalog.Item{
			1: {ID: 1, SN: "item-1", VenueID: 100, Name: "espresso", Price: 300, Currency: "EUR", Available: true},
			2: {ID: 2, SN: "item-2", VenueID: 100, Name: "tiramisu", Price: 450, Currency: "EUR", Available: false},
		},
	}
	svc := NewService(repo, governor, NewCatalogValidator(catalogSvc), paymentSvc, cartSvc,
		producer, sequencenumber.NewGenerator(), 10*time.Second, 15*time.Minute)
	return &testFixture{svc: svc, repo: repo, governor: governor,
		paymentSvc: paymentSvc, cartSvc: cartSvc, producer: producer}
}

func newSubmission(clientSubmissionID string) domain.Submission {
	return domain.Submission{
		ClientSubmissionID: clientSubmissionID,
		PayerID:            7,
		VenueID:            100,
		Channel:            1,
		Lines: []domain.SubmissionLine{
			{ItemID: 1, Quantity: 2},
		},
	}
}

func TestService_Submit(t *testing.T) {
	t.Parallel()
	f := newTestFixture()

	confirmation, err := f.svc.Submit(context.Background(), newSubmission("x1"))
	require.NoError(t, err)
	// 总金额以目录为准：2 x 300
	assert.Equal(t, int64(600), confirmation.TotalAmount)
	assert.Equal(t, "EUR", confirmation.Currency)
	assert.Equal(t, domain.OrderStatusPending, confirmation.Status)
	assert.Equal(t, domain.PaymentStatusPending, confirmation.PaymentStatus)
	assert.NotZero(t, confirmation.EstimatedReadyAt)
	assert.Equal(t, "payment-sn", confirmation.PaymentSN)

	// 首条状态流水已经推送
	require.Len(t, f.producer.events, 1)
	assert.Equal(t, domain.OrderStatusPending.ToUint8(), f.producer.events[0].ToStatus)
	// 下单成功后购物车被清空
	assert.Equal(t, []int64{7}, f.cartSvc.cleared)
}

func TestService_Submit_PartialRejection(t *testing.T) {
	t.Parallel()
	f := newTestFixture()

	// 2杯espresso可售，tiramisu已下架：逐行拒绝，剩余行照常下单
	sub := newSubmission("x1")
	sub.Lines = []domain.SubmissionLine{
		{ItemID: 1, Quantity: 2},
		{ItemID: 2, Quantity: 1},
	}
	confirmation, err := f.svc.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, int64(600), confirmation.TotalAmount)
	require.Len(t, confirmation.RejectedLines, 1)
	assert.Equal(t, int64(2), confirmation.RejectedLines[0].ItemID)

	order, err := f.svc.FindBySN(context.Background(), confirmation.OrderSN)
	require.NoError(t, err)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, int64(1), order.Lines[0].ItemID)
}

func TestService_Submit_Idempotent(t *testing.T) {
	t.Parallel()
	f := newTestFixture()

	first, err := f.svc.Submit(context.Background(), newSubmission("x1"))
	require.NoError(t, err)

	// 离线队列重放同一个幂等键，拿回同一个订单
	second, err := f.svc.Submit(context.Background(), newSubmission("x1"))
	require.NoError(t, err)
	assert.Equal(t, first.OrderSN, second.OrderSN)
	assert.Len(t, f.repo.orders, 1)
	assert.Len(t, f.paymentSvc.payments, 1)
	// 第一条流水只推送一次
	assert.Len(t, f.producer.events, 1)
}

func TestService_Submit_RateLimited(t *testing.T) {
	t.Parallel()
	f := newTestFixture()
	f.governor.decision = ratelimit.Decision{Allowed: false, RetryAfter: time.Minute}

	_, err := f.svc.Submit(context.Background(), newSubmission("x1"))
	var rateLimited *domain.RateLimitedError
	require.ErrorAs(t, err, &rateLimited)
	assert.Equal(t, time.Minute, rateLimited.RetryAfter)
	assert.Empty(t, f.repo.orders)
}

func TestService_Submit_ValidationFailed(t *testing.T) {
	t.Parallel()
	f := newTestFixture()

	sub := newSubmission("x1")
	sub.Lines = []domain.SubmissionLine{
		{ItemID: 2, Quantity: 1},
		{ItemID: 99, Quantity: 1},
	}
	_, err := f.svc.Submit(context.Background(), sub)
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	// 所有行都被拒绝才整单失败，逐行明细给客户端修正购物车
	assert.Len(t, validation.Rejections, 2)
	assert.Empty(t, f.repo.orders)
	assert.Empty(t, f.cartSvc.cleared)
}

func TestService_Submit_RetriesOnceThenFails(t *testing.T) {
	t.Parallel()
	f := newTestFixture()
	f.paymentSvc.failures = 2

	_, err := f.svc.Submit(context.Background(), newSubmission("x1"))
	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.Equal(t, 2, f.paymentSvc.calls)

	// 客户端重试，幂等键找回已有订单并补建支付
	confirmation, err := f.svc.Submit(context.Background(), newSubmission("x1"))
	require.NoError(t, err)
	assert.Len(t, f.repo.orders, 1)
	assert.Equal(t, "payment-sn", confirmation.PaymentSN)
}

func TestService_HandlePaymentResult(t *testing.T) {
	t.Parallel()

	t.Run("支付成功把pending推到confirmed", func(t *testing.T) {
		t.Parallel()
		f := newTestFixture()
		confirmation, err := f.svc.Submit(context.Background(), newSubmission("x1"))
		require.NoError(t, err)

		err = f.svc.HandlePaymentResult(context.Background(), event.PaymentEvent{
			OrderSN: confirmation.OrderSN,
			PayerID: 7,
			Status:  domain.PaymentStatusPaid.ToUint8(),
		})
		require.NoError(t, err)
		order, err := f.svc.FindBySN(context.Background(), confirmation.OrderSN)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
		assert.Equal(t, domain.PaymentStatusPaid, order.PaymentStatus)
	})

	t.Run("已取消订单收到支付成功只标记待退款", func(t *testing.T) {
		t.Parallel()
		f := newTestFixture()
		confirmation, err := f.svc.Submit(context.Background(), newSubmission("x1"))
		require.NoError(t, err)
		require.NoError(t, f.svc.Cancel(context.Background(), confirmation.OrderSN, "guest"))

		err = f.svc.HandlePaymentResult(context.Background(), event.PaymentEvent{
			OrderSN: confirmation.OrderSN,
			Status:  domain.PaymentStatusPaid.ToUint8(),
		})
		require.NoError(t, err)
		order, err := f.svc.FindBySN(context.Background(), confirmation.OrderSN)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, order.Status)
		assert.True(t, order.RefundNeeded)
	})

	t.Run("支付重试耗尽自动取消", func(t *testing.T) {
		t.Parallel()
		f := newTestFixture()
		confirmation, err := f.svc.Submit(context.Background(), newSubmission("x1"))
		require.NoError(t, err)

		err = f.svc.HandlePaymentResult(context.Background(), event.PaymentEvent{
			OrderSN:   confirmation.OrderSN,
			Status:    domain.PaymentStatusFailed.ToUint8(),
			Exhausted: true,
		})
		require.NoError(t, err)
		order, err := f.svc.FindBySN(context.Background(), confirmation.OrderSN)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, order.Status)
	})
}

func TestService_Advance(t *testing.T) {
	t.Parallel()
	f := newTestFixture()
	confirmation, err := f.svc.Submit(context.Background(), newSubmission("x1"))
	require.NoError(t, err)
	sn := confirmation.OrderSN

	require.NoError(t, f.svc.HandlePaymentResult(context.Background(), event.PaymentEvent{
		OrderSN: sn,
		Status:  domain.PaymentStatusPaid.ToUint8(),
	}))
	require.NoError(t, f.svc.Advance(context.Background(), sn, domain.OrderStatusPreparing, "staff"))

	// 必须经过ready才能完成
	err = f.svc.Advance(context.Background(), sn, domain.OrderStatusCompleted, "staff")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, f.svc.Advance(context.Background(), sn, domain.OrderStatusReady, "staff"))
	require.NoError(t, f.svc.Advance(context.Background(), sn, domain.OrderStatusCompleted, "staff"))

	// 状态流水是状态图的一条合法路径
	order, err := f.svc.FindBySN(context.Background(), sn)
	require.NoError(t, err)
	events, err := f.svc.FindStatusEvents(context.Background(), order.ID)
	require.NoError(t, err)
	prev := domain.OrderStatusNone
	for _, e := range events {
		assert.Equal(t, prev, e.FromStatus)
		prev = e.ToStatus
	}
	assert.Equal(t, domain.OrderStatusCompleted, prev)
}

func TestService_Cancel(t *testing.T) {
	t.Parallel()
	f := newTestFixture()
	confirmation, err := f.svc.Submit(context.Background(), newSubmission("x1"))
	require.NoError(t, err)
	sn := confirmation.OrderSN

	require.NoError(t, f.svc.HandlePaymentResult(context.Background(), event.PaymentEvent{
		OrderSN: sn,
		Status:  domain.PaymentStatusPaid.ToUint8(),
	}))
	// 已支付订单取消后标记待退款
	require.NoError(t, f.svc.Cancel(context.Background(), sn, "guest"))
	order, err := f.svc.FindBySN(context.Background(), sn)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, order.Status)
	assert.True(t, order.RefundNeeded)

	// 终态之后不能再取消
	err = f.svc.Cancel(context.Background(), sn, "guest")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
