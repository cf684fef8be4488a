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

package dao

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ecodeclub/tably/internal/payment/internal/domain"
	"gorm.io/gorm"
)

type PaymentDAO interface {
	// FindOrCreate 一个订单至多一条支付记录，重复创建返回已有记录
	FindOrCreate(ctx context.Context, pmt Payment) (Payment, error)
	FindByOrderSN(ctx context.Context, orderSN string) (Payment, error)
	FindByProviderReference(ctx context.Context, reference string) (Payment, error)
	UpdateProviderReference(ctx context.Context, pmtID int64, reference string) error
	UpdateStatus(ctx context.Context, pmtID int64, status uint8, paidAt int64) error
	// IncrRetryCount 返回自增之后的重试次数
	IncrRetryCount(ctx context.Context, pmtID int64) (int32, error)
	FindTimeoutPayments(ctx context.Context, offset int, limit int, ctime int64) ([]Payment, int64, error)
}

type PaymentGORMDAO struct {
	db *gorm.DB
}

func NewPaymentGORMDAO(db *gorm.DB) PaymentDAO {
	return &PaymentGORMDAO{db: db}
}

func (g *PaymentGORMDAO) FindOrCreate(ctx context.Context, pmt Payment) (Payment, error) {
	now := time.Now().UnixMilli()
	pmt.Ctime, pmt.Utime = now, now
	err := g.db.WithContext(ctx).
		FirstOrCreate(&pmt, "order_id = ? AND order_sn = ?", pmt.OrderId, pmt.OrderSn).Error
	if err != nil {
		return Payment{}, fmt.Errorf("创建支付记录失败: %w", err)
	}
	return pmt, nil
}

func (g *PaymentGORMDAO) FindByOrderSN(ctx context.Context, orderSN string) (Payment, error) {
	var res Payment
	err := g.db.WithContext(ctx).Where("order_sn = ?", orderSN).First(&res).Error
	return res, err
}

func (g *PaymentGORMDAO) FindByProviderReference(ctx context.Context, reference string) (Payment, error) {
	var res Payment
	err := g.db.WithContext(ctx).Where("provider_reference = ?", reference).First(&res).Error
	return res, err
}

func (g *PaymentGORMDAO) UpdateProviderReference(ctx context.Context, pmtID int64, reference string) error {
	return g.db.WithContext(ctx).Model(&Payment{}).
		Where("id = ?", pmtID).
		Updates(map[string]any{
			"provider_reference": sql.NullString{String: reference, Valid: reference != ""},
			"utime":              time.Now().UnixMilli(),
		}).Error
}

func (g *PaymentGORMDAO) UpdateStatus(ctx context.Context, pmtID int64, status uint8, paidAt int64) error {
	fields := map[string]any{
		"status": status,
		"utime":  time.Now().UnixMilli(),
	}
	if paidAt > 0 {
		fields["paid_at"] = paidAt
	}
	return g.db.WithContext(ctx).Model(&Payment{}).
		Where("id = ?", pmtID).
		Updates(fields).Error
}

func (g *PaymentGORMDAO) IncrRetryCount(ctx context.Context, pmtID int64) (int32, error) {
	var res Payment
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&Payment{}).
			Where("id = ?", pmtID).
			Updates(map[string]any{
				"retry_count": gorm.Expr("retry_count + 1"),
				"utime":       time.Now().UnixMilli(),
			}).Error
		if err != nil {
			return err
		}
		return tx.Where("id = ?", pmtID).First(&res).Error
	})
	return res.RetryCount, err
}

func (g *PaymentGORMDAO) FindTimeoutPayments(ctx context.Context, offset int, limit int, ctime int64) ([]Payment, int64, error) {
	statuses := []uint8{
		domain.PaymentStatusPending.ToUint8(),
		domain.PaymentStatusFailed.ToUint8(),
	}
	var (
		res   []Payment
		total int64
	)
	err := g.db.WithContext(ctx).Model(&Payment{}).
		Where("status IN ? AND ctime < ?", statuses, ctime).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	err = g.db.WithContext(ctx).
		Where("status IN ? AND ctime < ?", statuses, ctime).
		Offset(offset).Limit(limit).Order("id asc").Find(&res).Error
	return res, total, err
}

type Payment struct {
	Id                int64          `gorm:"primaryKey;autoIncrement;comment:支付自增ID"`
	SN                string         `gorm:"type:varchar(255);not null;uniqueIndex:uniq_payment_sn;comment:支付序列号"`
	PayerId           int64          `gorm:"index:idx_payer_id;comment:支付者ID"`
	OrderId           int64          `gorm:"not null;uniqueIndex:uniq_order_id;comment:订单自增ID,一个订单至多一条支付记录"`
	OrderSn           string         `gorm:"type:varchar(255);not null;uniqueIndex:uniq_order_sn;comment:订单序列号"`
	Channel           uint8          `gorm:"type:tinyint unsigned;not null;comment:支付渠道 1=银行卡 2=钱包"`
	ProviderReference sql.NullString `gorm:"type:varchar(255);uniqueIndex:uniq_provider_reference;comment:渠道引用号"`
	TotalAmount       int64          `gorm:"not null;comment:支付总金额,单位为分"`
	Currency          string         `gorm:"type:varchar(16);not null;comment:币种,ISO 4217"`
	PaidAt            int64          `gorm:"comment:支付时间"`
	Status            uint8          `gorm:"type:tinyint unsigned;not null;default:1;comment:支付状态 1=待支付 2=已支付 3=已失败 4=已退款"`
	RetryCount        int32          `gorm:"not null;default:0;comment:失败重试次数"`
	Deadline          int64          `gorm:"not null;comment:支付截止时间"`
	Ctime             int64
	Utime             int64
}
