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
	"errors"
	"fmt"
	"time"

	"github.com/ecodeclub/tably/internal/order/internal/domain"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrStatusConflict CAS更新时状态已经被并发修改
	ErrStatusConflict = errors.New("订单状态已变化")
	ErrOrderNotFound  = errors.New("订单不存在")
)

const uniqueIndexErrNo uint16 = 1062

type OrderDAO interface {
	// CreateOrder 按client_submission_id幂等，重复创建返回已有订单
	// 返回值第二个bool表示是否新建
	CreateOrder(ctx context.Context, o Order, lines []OrderLine) (Order, bool, error)
	FindBySN(ctx context.Context, sn string) (Order, []OrderLine, error)
	FindBySNAndPayer(ctx context.Context, sn string, payerID int64) (Order, []OrderLine, error)
	ListByPayer(ctx context.Context, payerID int64, offset, limit int) ([]Order, error)
	FindStatusEvents(ctx context.Context, orderID int64) ([]StatusEvent, error)
	// TransitionStatus 对status做CAS，流水和状态写在同一个事务里
	TransitionStatus(ctx context.Context, orderID int64, from, to uint8, actor string) error
	MarkRefundNeeded(ctx context.Context, orderID int64) error
	// ApplyPaymentResult 把支付结果落到订单上，返回本次产生的状态流水
	ApplyPaymentResult(ctx context.Context, orderSN string, paymentStatus uint8, exhausted bool) (Order, []StatusEvent, error)
	FindTimeoutOrders(ctx context.Context, offset, limit int, ctime int64) ([]Order, int64, error)
}

type OrderGORMDAO struct {
	db *gorm.DB
}

func NewOrderGORMDAO(db *gorm.DB) OrderDAO {
	return &OrderGORMDAO{db: db}
}

func (g *OrderGORMDAO) CreateOrder(ctx context.Context, o Order, lines []OrderLine) (Order, bool, error) {
	now := time.Now().UnixMilli()
	o.Ctime, o.Utime = now, now
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&o).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderId = o.Id
			lines[i].Ctime, lines[i].Utime = now, now
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
		// 首条状态流水
		return tx.Create(&StatusEvent{
			OrderId:    o.Id,
			FromStatus: domain.OrderStatusNone.ToUint8(),
			ToStatus:   o.Status,
			Actor:      "system",
			Ctime:      now,
		}).Error
	})
	if err == nil {
		return o, true, nil
	}
	if !isUniqueIndexError(err) {
		return Order{}, false, fmt.Errorf("创建订单失败: %w", err)
	}
	// 幂等键撞上已有订单，离线队列重放或者重复提交
	var existing Order
	findErr := g.db.WithContext(ctx).
		Where("client_submission_id = ?", o.ClientSubmissionId).First(&existing).Error
	if findErr != nil {
		return Order{}, false, fmt.Errorf("查找已有订单失败: %w", findErr)
	}
	return existing, false, nil
}

func (g *OrderGORMDAO) FindBySN(ctx context.Context, sn string) (Order, []OrderLine, error) {
	var o Order
	err := g.db.WithContext(ctx).Where("sn = ?", sn).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Order{}, nil, ErrOrderNotFound
	}
	if err != nil {
		return Order{}, nil, err
	}
	lines, err := g.findLines(ctx, o.Id)
	return o, lines, err
}

func (g *OrderGORMDAO) FindBySNAndPayer(ctx context.Context, sn string, payerID int64) (Order, []OrderLine, error) {
	var o Order
	err := g.db.WithContext(ctx).Where("sn = ? AND payer_id = ?", sn, payerID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Order{}, nil, ErrOrderNotFound
	}
	if err != nil {
		return Order{}, nil, err
	}
	lines, err := g.findLines(ctx, o.Id)
	return o, lines, err
}

func (g *OrderGORMDAO) findLines(ctx context.Context, orderID int64) ([]OrderLine, error) {
	var lines []OrderLine
	err := g.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id asc").Find(&lines).Error
	return lines, err
}

func (g *OrderGORMDAO) ListByPayer(ctx context.Context, payerID int64, offset, limit int) ([]Order, error) {
	var res []Order
	err := g.db.WithContext(ctx).Where("payer_id = ?", payerID).
		Order("id desc").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (g *OrderGORMDAO) FindStatusEvents(ctx context.Context, orderID int64) ([]StatusEvent, error) {
	var res []StatusEvent
	err := g.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id asc").Find(&res).Error
	return res, err
}

func (g *OrderGORMDAO) TransitionStatus(ctx context.Context, orderID int64, from, to uint8, actor string) error {
	now := time.Now().UnixMilli()
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Order{}).
			Where("id = ? AND status = ?", orderID, from).
			Updates(map[string]any{
				"status": to,
				"utime":  now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: order_id=%d, from=%d, to=%d", ErrStatusConflict, orderID, from, to)
		}
		return tx.Create(&StatusEvent{
			OrderId:    orderID,
			FromStatus: from,
			ToStatus:   to,
			Actor:      actor,
			Ctime:      now,
		}).Error
	})
}

func (g *OrderGORMDAO) MarkRefundNeeded(ctx context.Context, orderID int64) error {
	return g.db.WithContext(ctx).Model(&Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"refund_needed": true,
			"utime":         time.Now().UnixMilli(),
		}).Error
}

func (g *OrderGORMDAO) ApplyPaymentResult(ctx context.Context, orderSN string, paymentStatus uint8, exhausted bool) (Order, []StatusEvent, error) {
	var (
		o      Order
		events []StatusEvent
	)
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 加锁防止webhook和人工操作并发改同一行
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("sn = ?", orderSN).First(&o).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		now := time.Now().UnixMilli()
		fields := map[string]any{
			"payment_status": paymentStatus,
			"utime":          now,
		}
		paid := paymentStatus == domain.PaymentStatusPaid.ToUint8()
		status := domain.OrderStatus(o.Status)
		switch {
		case paid && status == domain.OrderStatusPending:
			// 两个状态机唯一的耦合点：支付成功把pending推到confirmed
			fields["status"] = domain.OrderStatusConfirmed.ToUint8()
			events = append(events, StatusEvent{
				OrderId:    o.Id,
				FromStatus: o.Status,
				ToStatus:   domain.OrderStatusConfirmed.ToUint8(),
				Actor:      "payment",
				Ctime:      now,
			})
		case paid && status == domain.OrderStatusCancelled:
			// 已取消的订单收到支付成功，不回退状态，标记待退款
			fields["refund_needed"] = true
		case exhausted && !status.IsTerminal() && status != domain.OrderStatusReady:
			// 支付重试次数用完，自动取消
			fields["status"] = domain.OrderStatusCancelled.ToUint8()
			events = append(events, StatusEvent{
				OrderId:    o.Id,
				FromStatus: o.Status,
				ToStatus:   domain.OrderStatusCancelled.ToUint8(),
				Actor:      "payment",
				Ctime:      now,
			})
		}
		if err = tx.Model(&Order{}).Where("id = ?", o.Id).Updates(fields).Error; err != nil {
			return err
		}
		for i := range events {
			if err = tx.Create(&events[i]).Error; err != nil {
				return err
			}
		}
		// 返回更新后的快照
		o.PaymentStatus = paymentStatus
		if v, ok := fields["status"]; ok {
			o.Status = v.(uint8)
		}
		if _, ok := fields["refund_needed"]; ok {
			o.RefundNeeded = true
		}
		o.Utime = now
		return nil
	})
	if err != nil {
		return Order{}, nil, err
	}
	return o, events, nil
}

func (g *OrderGORMDAO) FindTimeoutOrders(ctx context.Context, offset, limit int, ctime int64) ([]Order, int64, error) {
	var (
		res   []Order
		total int64
	)
	err := g.db.WithContext(ctx).Model(&Order{}).
		Where("status = ? AND ctime < ?", domain.OrderStatusPending.ToUint8(), ctime).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	err = g.db.WithContext(ctx).
		Where("status = ? AND ctime < ?", domain.OrderStatusPending.ToUint8(), ctime).
		Order("id asc").Offset(offset).Limit(limit).Find(&res).Error
	return res, total, err
}

func isUniqueIndexError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == uniqueIndexErrNo
}

type Order struct {
	Id                 int64  `gorm:"primaryKey;autoIncrement;comment:订单自增ID"`
	SN                 string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_order_sn;comment:订单序列号"`
	ClientSubmissionId string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_client_submission_id;comment:客户端幂等键"`
	PayerId            int64  `gorm:"not null;index:idx_payer_id;comment:下单者ID"`
	VenueId            int64  `gorm:"not null;index:idx_venue_id;comment:门店ID"`
	ContactPhone       string `gorm:"type:varchar(32);not null;default:'';comment:取餐通知手机号"`
	TotalAmount        int64  `gorm:"not null;comment:订单总金额,单位为分,以目录快照计算"`
	Currency           string `gorm:"type:varchar(16);not null;comment:币种,ISO 4217"`
	Status             uint8  `gorm:"type:tinyint unsigned;not null;default:1;comment:订单状态 1=待确认 2=已确认 3=制作中 4=待取餐 5=已完成 6=已取消"`
	PaymentStatus      uint8  `gorm:"type:tinyint unsigned;not null;default:1;comment:支付状态 1=待支付 2=已支付 3=已失败 4=已退款"`
	RefundNeeded       bool   `gorm:"not null;default:false;comment:已支付订单被取消后标记待退款"`
	EstimatedReadyAt   int64  `gorm:"comment:预计取餐时间"`
	Ctime              int64
	Utime              int64
}

type OrderLine struct {
	Id        int64  `gorm:"primaryKey;autoIncrement;comment:订单项自增ID"`
	OrderId   int64  `gorm:"not null;index:idx_order_id;comment:订单自增ID"`
	ItemId    int64  `gorm:"not null;comment:商品ID"`
	ItemSn    string `gorm:"type:varchar(255);not null;comment:商品序列号"`
	Name      string `gorm:"type:varchar(255);not null;comment:商品名称快照"`
	UnitPrice int64  `gorm:"not null;comment:下单时的单价快照,单位为分"`
	Quantity  int64  `gorm:"not null;comment:数量"`
	Ctime     int64
	Utime     int64
}

// StatusEvent 只追加，没有更新路径
type StatusEvent struct {
	Id         int64  `gorm:"primaryKey;autoIncrement;comment:流水自增ID"`
	OrderId    int64  `gorm:"not null;index:idx_order_id;comment:订单自增ID"`
	FromStatus uint8  `gorm:"type:tinyint unsigned;not null;comment:流转前状态,0表示初始创建"`
	ToStatus   uint8  `gorm:"type:tinyint unsigned;not null;comment:流转后状态"`
	Actor      string `gorm:"type:varchar(64);not null;comment:操作方 system/payment/staff/guest"`
	Ctime      int64
}
