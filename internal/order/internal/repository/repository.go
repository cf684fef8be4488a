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

package repository

import (
	"context"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/tably/internal/order/internal/domain"
	"github.com/ecodeclub/tably/internal/order/internal/repository/dao"
)

type OrderRepository interface {
	// CreateOrder 按ClientSubmissionID幂等，bool表示是否新建
	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, bool, error)
	FindBySN(ctx context.Context, sn string) (domain.Order, error)
	FindBySNAndPayer(ctx context.Context, sn string, payerID int64) (domain.Order, error)
	ListByPayer(ctx context.Context, payerID int64, offset, limit int) ([]domain.Order, error)
	FindStatusEvents(ctx context.Context, orderID int64) ([]domain.StatusEvent, error)
	TransitionStatus(ctx context.Context, orderID int64, from, to domain.OrderStatus, actor string) error
	MarkRefundNeeded(ctx context.Context, orderID int64) error
	ApplyPaymentResult(ctx context.Context, orderSN string, paymentStatus domain.PaymentStatus, exhausted bool) (domain.Order, []domain.StatusEvent, error)
	FindTimeoutOrders(ctx context.Context, offset, limit int, ctime int64) ([]domain.Order, int64, error)
}

type orderRepository struct {
	dao dao.OrderDAO
}

func NewOrderRepository(d dao.OrderDAO) OrderRepository {
	return &orderRepository{dao: d}
}

func (o *orderRepository) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, bool, error) {
	entity, lines := o.toEntity(order)
	created, isNew, err := o.dao.CreateOrder(ctx, entity, lines)
	if err != nil {
		return domain.Order{}, false, err
	}
	res := o.toDomain(created)
	if isNew {
		res.Lines = order.Lines
	}
	return res, isNew, nil
}

func (o *orderRepository) FindBySN(ctx context.Context, sn string) (domain.Order, error) {
	order, lines, err := o.dao.FindBySN(ctx, sn)
	if err != nil {
		return domain.Order{}, err
	}
	res := o.toDomain(order)
	res.Lines = o.toDomainLines(lines)
	return res, nil
}

func (o *orderRepository) FindBySNAndPayer(ctx context.Context, sn string, payerID int64) (domain.Order, error) {
	order, lines, err := o.dao.FindBySNAndPayer(ctx, sn, payerID)
	if err != nil {
		return domain.Order{}, err
	}
	res := o.toDomain(order)
	res.Lines = o.toDomainLines(lines)
	return res, nil
}

func (o *orderRepository) ListByPayer(ctx context.Context, payerID int64, offset, limit int) ([]domain.Order, error) {
	orders, err := o.dao.ListByPayer(ctx, payerID, offset, limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(orders, func(idx int, src dao.Order) domain.Order {
		return o.toDomain(src)
	}), nil
}

func (o *orderRepository) FindStatusEvents(ctx context.Context, orderID int64) ([]domain.StatusEvent, error) {
	events, err := o.dao.FindStatusEvents(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return slice.Map(events, func(idx int, src dao.StatusEvent) domain.StatusEvent {
		return o.toDomainEvent(src)
	}), nil
}

func (o *orderRepository) TransitionStatus(ctx context.Context, orderID int64, from, to domain.OrderStatus, actor string) error {
	return o.dao.TransitionStatus(ctx, orderID, from.ToUint8(), to.ToUint8(), actor)
}

func (o *orderRepository) MarkRefundNeeded(ctx context.Context, orderID int64) error {
	return o.dao.MarkRefundNeeded(ctx, orderID)
}

func (o *orderRepository) ApplyPaymentResult(ctx context.Context, orderSN string, paymentStatus domain.PaymentStatus, exhausted bool) (domain.Order, []domain.StatusEvent, error) {
	order, events, err := o.dao.ApplyPaymentResult(ctx, orderSN, paymentStatus.ToUint8(), exhausted)
	if err != nil {
		return domain.Order{}, nil, err
	}
	return o.toDomain(order), slice.Map(events, func(idx int, src dao.StatusEvent) domain.StatusEvent {
		return o.toDomainEvent(src)
	}), nil
}

func (o *orderRepository) FindTimeoutOrders(ctx context.Context, offset, limit int, ctime int64) ([]domain.Order, int64, error) {
	orders, total, err := o.dao.FindTimeoutOrders(ctx, offset, limit, ctime)
	if err != nil {
		return nil, 0, err
	}
	return slice.Map(orders, func(idx int, src dao.Order) domain.Order {
		return o.toDomain(src)
	}), total, nil
}

func (o *orderRepository) toEntity(order domain.Order) (dao.Order, []dao.OrderLine) {
	entity := dao.Order{
		Id:                 order.ID,
		SN:                 order.SN,
		ClientSubmissionId: order.ClientSubmissionID,
		PayerId:            order.PayerID,
		VenueId:            order.VenueID,
		ContactPhone:       order.ContactPhone,
		TotalAmount:        order.TotalAmount,
		Currency:           order.Currency,
		Status:             order.Status.ToUint8(),
		PaymentStatus:      order.PaymentStatus.ToUint8(),
		RefundNeeded:       order.RefundNeeded,
		EstimatedReadyAt:   order.EstimatedReadyAt,
	}
	lines := slice.Map(order.Lines, func(idx int, src domain.OrderLine) dao.OrderLine {
		return dao.OrderLine{
			ItemId:    src.ItemID,
			ItemSn:    src.ItemSN,
			Name:      src.Name,
			UnitPrice: src.UnitPrice,
			Quantity:  src.Quantity,
		}
	})
	return entity, lines
}

func (o *orderRepository) toDomain(order dao.Order) domain.Order {
	return domain.Order{
		ID:                 order.Id,
		SN:                 order.SN,
		ClientSubmissionID: order.ClientSubmissionId,
		PayerID:            order.PayerId,
		VenueID:            order.VenueId,
		ContactPhone:       order.ContactPhone,
		TotalAmount:        order.TotalAmount,
		Currency:           order.Currency,
		Status:             domain.OrderStatus(order.Status),
		PaymentStatus:      domain.PaymentStatus(order.PaymentStatus),
		RefundNeeded:       order.RefundNeeded,
		EstimatedReadyAt:   order.EstimatedReadyAt,
		Ctime:              order.Ctime,
		Utime:              order.Utime,
	}
}

func (o *orderRepository) toDomainLines(lines []dao.OrderLine) []domain.OrderLine {
	return slice.Map(lines, func(idx int, src dao.OrderLine) domain.OrderLine {
		return domain.OrderLine{
			ItemID:    src.ItemId,
			ItemSN:    src.ItemSn,
			Name:      src.Name,
			UnitPrice: src.UnitPrice,
			Quantity:  src.Quantity,
		}
	})
}

func (o *orderRepository) toDomainEvent(evt dao.StatusEvent) domain.StatusEvent {
	return domain.StatusEvent{
		ID:         evt.Id,
		OrderID:    evt.OrderId,
		FromStatus: domain.OrderStatus(evt.FromStatus),
		ToStatus:   domain.OrderStatus(evt.ToStatus),
		Actor:      evt.Actor,
		Ctime:      evt.Ctime,
	}
}
