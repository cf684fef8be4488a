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

//go:build e2e

package integration

import (
	"context"
	"testing"

	"github.com/ecodeclub/tably/internal/order/internal/domain"
	"github.com/ecodeclub/tably/internal/order/internal/repository/dao"
	testioc "github.com/ecodeclub/tably/internal/test/ioc"
	"github.com/ego-component/egorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestOrderDAO(t *testing.T) {
	suite.Run(t, new(OrderDAOTestSuite))
}

type OrderDAOTestSuite struct {
	suite.Suite
	db  *egorm.Component
	dao dao.OrderDAO
}

func (s *OrderDAOTestSuite) SetupSuite() {
	s.db = testioc.InitDB()
	require.NoError(s.T(), dao.InitTables(s.db))
	s.dao = dao.NewOrderGORMDAO(s.db)
}

func (s *OrderDAOTestSuite) TearDownTest() {
	err := s.db.Exec("TRUNCATE TABLE `orders`").Error
	require.NoError(s.T(), err)
	err = s.db.Exec("TRUNCATE TABLE `order_lines`").Error
	require.NoError(s.T(), err)
	err = s.db.Exec("TRUNCATE TABLE `status_events`").Error
	require.NoError(s.T(), err)
}

func (s *OrderDAOTestSuite) newOrder(sn, clientSubmissionID string) (dao.Order, []dao.OrderLine) {
	o := dao.Order{
		SN:                 sn,
		ClientSubmissionId: clientSubmissionID,
		PayerId:            7,
		VenueId:            100,
		TotalAmount:        600,
		Currency:           "EUR",
		Status:             domain.OrderStatusPending.ToUint8(),
		PaymentStatus:      domain.PaymentStatusPending.ToUint8(),
	}
	lines := []dao.OrderLine{
		{ItemId: 1, ItemSn: "item-sn-1", Name: "espresso", UnitPrice: 300, Quantity: 2},
	}
	return o, lines
}

func (s *OrderDAOTestSuite) TestCreateOrder_Idempotent() {
	t := s.T()
	ctx := context.Background()

	o, lines := s.newOrder("order-sn-1", "client-sub-1")
	created, isNew, err := s.dao.CreateOrder(ctx, o, lines)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.NotZero(t, created.Id)

	// 同一幂等键重放，返回已有订单，不新建
	o2, lines2 := s.newOrder("order-sn-2", "client-sub-1")
	replayed, isNew, err := s.dao.CreateOrder(ctx, o2, lines2)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, created.Id, replayed.Id)
	assert.Equal(t, "order-sn-1", replayed.SN)

	var count int64
	require.NoError(t, s.db.Model(&dao.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// 首条状态流水from=0
	events, err := s.dao.FindStatusEvents(ctx, created.Id)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.OrderStatusNone.ToUint8(), events[0].FromStatus)
	assert.Equal(t, domain.OrderStatusPending.ToUint8(), events[0].ToStatus)
}

func (s *OrderDAOTestSuite) TestTransitionStatus_CAS() {
	t := s.T()
	ctx := context.Background()

	o, lines := s.newOrder("order-sn-3", "client-sub-3")
	created, _, err := s.dao.CreateOrder(ctx, o, lines)
	require.NoError(t, err)

	err = s.dao.TransitionStatus(ctx, created.Id,
		domain.OrderStatusPending.ToUint8(), domain.OrderStatusConfirmed.ToUint8(), "staff")
	require.NoError(t, err)

	// from已经过期，CAS失败且不产生新流水
	err = s.dao.TransitionStatus(ctx, created.Id,
		domain.OrderStatusPending.ToUint8(), domain.OrderStatusCancelled.ToUint8(), "guest")
	assert.ErrorIs(t, err, dao.ErrStatusConflict)

	found, _, err := s.dao.FindBySN(ctx, "order-sn-3")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed.ToUint8(), found.Status)

	events, err := s.dao.FindStatusEvents(ctx, created.Id)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func (s *OrderDAOTestSuite) TestApplyPaymentResult_PaidConfirmsPendingOrder() {
	t := s.T()
	ctx := context.Background()

	o, lines := s.newOrder("order-sn-4", "client-sub-4")
	created, _, err := s.dao.CreateOrder(ctx, o, lines)
	require.NoError(t, err)

	updated, events, err := s.dao.ApplyPaymentResult(ctx, "order-sn-4",
		domain.PaymentStatusPaid.ToUint8(), false)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed.ToUint8(), updated.Status)
	assert.Equal(t, domain.PaymentStatusPaid.ToUint8(), updated.PaymentStatus)
	require.Len(t, events, 1)
	assert.Equal(t, "payment", events[0].Actor)

	stored, err := s.dao.FindStatusEvents(ctx, created.Id)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func (s *OrderDAOTestSuite) TestApplyPaymentResult_PaidAfterCancelMarksRefund() {
	t := s.T()
	ctx := context.Background()

	o, lines := s.newOrder("order-sn-5", "client-sub-5")
	created, _, err := s.dao.CreateOrder(ctx, o, lines)
	require.NoError(t, err)
	err = s.dao.TransitionStatus(ctx, created.Id,
		domain.OrderStatusPending.ToUint8(), domain.OrderStatusCancelled.ToUint8(), "guest")
	require.NoError(t, err)

	// 取消之后才到的支付成功通知，状态不回退，只标记退款
	updated, events, err := s.dao.ApplyPaymentResult(ctx, "order-sn-5",
		domain.PaymentStatusPaid.ToUint8(), false)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled.ToUint8(), updated.Status)
	assert.True(t, updated.RefundNeeded)
	assert.Empty(t, events)
}

func (s *OrderDAOTestSuite) TestApplyPaymentResult_ExhaustedCancels() {
	t := s.T()
	ctx := context.Background()

	o, lines := s.newOrder("order-sn-6", "client-sub-6")
	_, _, err := s.dao.CreateOrder(ctx, o, lines)
	require.NoError(t, err)

	// 支付重试用尽，pending订单自动取消
	updated, events, err := s.dao.ApplyPaymentResult(ctx, "order-sn-6",
		domain.PaymentStatusFailed.ToUint8(), true)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled.ToUint8(), updated.Status)
	require.Len(t, events, 1)
	assert.Equal(t, domain.OrderStatusCancelled.ToUint8(), events[0].ToStatus)
}

func (s *OrderDAOTestSuite) TestApplyPaymentResult_OrderNotFound() {
	t := s.T()
	_, _, err := s.dao.ApplyPaymentResult(context.Background(), "no-such-sn",
		domain.PaymentStatusPaid.ToUint8(), false)
	assert.ErrorIs(t, err, dao.ErrOrderNotFound)
}
