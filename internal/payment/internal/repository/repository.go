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
	"database/sql"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/tably/internal/payment/internal/domain"
	"github.com/ecodeclub/tably/internal/payment/internal/repository/dao"
)

type PaymentRepository interface {
	FindOrCreate(ctx context.Context, pmt domain.Payment) (domain.Payment, error)
	FindByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error)
	FindByProviderReference(ctx context.Context, reference string) (domain.Payment, error)
	UpdateProviderReference(ctx context.Context, pmtID int64, reference string) error
	UpdateStatus(ctx context.Context, pmtID int64, status domain.PaymentStatus, paidAt int64) error
	IncrRetryCount(ctx context.Context, pmtID int64) (int32, error)
	FindTimeoutPayments(ctx context.Context, offset int, limit int, ctime int64) ([]domain.Payment, int64, error)
}

type paymentRepository struct {
	dao dao.PaymentDAO
}

func NewPaymentRepository(d dao.PaymentDAO) PaymentRepository {
	return &paymentRepository{dao: d}
}

func (p *paymentRepository) FindOrCreate(ctx context.Context, pmt domain.Payment) (domain.Payment, error) {
	created, err := p.dao.FindOrCreate(ctx, p.toEntity(pmt))
	if err != nil {
		return domain.Payment{}, err
	}
	return p.toDomain(created), nil
}

func (p *paymentRepository) FindByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error) {
	pmt, err := p.dao.FindByOrderSN(ctx, orderSN)
	if err != nil {
		return domain.Payment{}, err
	}
	return p.toDomain(pmt), nil
}

func (p *paymentRepository) FindByProviderReference(ctx context.Context, reference string) (domain.Payment, error) {
	pmt, err := p.dao.FindByProviderReference(ctx, reference)
	if err != nil {
		return domain.Payment{}, err
	}
	return p.toDomain(pmt), nil
}

func (p *paymentRepository) UpdateProviderReference(ctx context.Context, pmtID int64, reference string) error {
	return p.dao.UpdateProviderReference(ctx, pmtID, reference)
}

func (p *paymentRepository) UpdateStatus(ctx context.Context, pmtID int64, status domain.PaymentStatus, paidAt int64) error {
	return p.dao.UpdateStatus(ctx, pmtID, status.ToUint8(), paidAt)
}

func (p *paymentRepository) IncrRetryCount(ctx context.Context, pmtID int64) (int32, error) {
	return p.dao.IncrRetryCount(ctx, pmtID)
}

func (p *paymentRepository) FindTimeoutPayments(ctx context.Context, offset int, limit int, ctime int64) ([]domain.Payment, int64, error) {
	pmts, total, err := p.dao.FindTimeoutPayments(ctx, offset, limit, ctime)
	if err != nil {
		return nil, 0, err
	}
	return slice.Map(pmts, func(idx int, src dao.Payment) domain.Payment {
		return p.toDomain(src)
	}), total, nil
}

func (p *paymentRepository) toEntity(pmt domain.Payment) dao.Payment {
	return dao.Payment{
		Id:                pmt.ID,
		SN:                pmt.SN,
		PayerId:           pmt.PayerID,
		OrderId:           pmt.OrderID,
		OrderSn:           pmt.OrderSN,
		Channel:           pmt.Channel.ToUint8(),
		ProviderReference: sql.NullString{String: pmt.ProviderReference, Valid: pmt.ProviderReference != ""},
		TotalAmount:       pmt.TotalAmount,
		Currency:          pmt.Currency,
		PaidAt:            pmt.PaidAt,
		Status:            pmt.Status.ToUint8(),
		RetryCount:        pmt.RetryCount,
		Deadline:          pmt.Deadline,
	}
}

func (p *paymentRepository) toDomain(pmt dao.Payment) domain.Payment {
	return domain.Payment{
		ID:                pmt.Id,
		SN:                pmt.SN,
		PayerID:           pmt.PayerId,
		OrderID:           pmt.OrderId,
		OrderSN:           pmt.OrderSn,
		Channel:           domain.ChannelType(pmt.Channel),
		ProviderReference: pmt.ProviderReference.String,
		TotalAmount:       pmt.TotalAmount,
		Currency:          pmt.Currency,
		PaidAt:            pmt.PaidAt,
		Status:            domain.PaymentStatus(pmt.Status),
		RetryCount:        pmt.RetryCount,
		Deadline:          pmt.Deadline,
		Ctime:             pmt.Ctime,
		Utime:             pmt.Utime,
	}
}
