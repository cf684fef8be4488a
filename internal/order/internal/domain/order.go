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

package domain

type OrderStatus uint8

const (
	// OrderStatusNone 只出现在首条状态流水的from里
	OrderStatusNone OrderStatus = iota
	OrderStatusPending
	OrderStatusConfirmed
	OrderStatusPreparing
	OrderStatusReady
	OrderStatusCompleted
	OrderStatusCancelled
)

func (s OrderStatus) ToUint8() uint8 {
	return uint8(s)
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// transitions 订单状态图
// preparing不能直接到completed，必须经过ready
// ready之后不允许取消
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusCompleted},
}

func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

type PaymentStatus uint8

const (
	PaymentStatusPending PaymentStatus = iota + 1
	PaymentStatusPaid
	PaymentStatusFailed
	PaymentStatusRefunded
)

func (s PaymentStatus) ToUint8() uint8 {
	return uint8(s)
}

type Order struct {
	ID int64
	SN string
	// ClientSubmissionID 客户端生成的幂等键，离线队列重放靠它去重
	ClientSubmissionID string
	PayerID            int64
	VenueID            int64
	// ContactPhone 取餐通知发到这个号码，可以为空
	ContactPhone string
	// Lines 提交时的目录快照，之后目录改价不影响已有订单
	Lines         []OrderLine
	TotalAmount   int64
	Currency      string
	Status        OrderStatus
	PaymentStatus PaymentStatus
	// RefundNeeded 已支付的订单被取消之后置位，退款由外部处理
	RefundNeeded     bool
	EstimatedReadyAt int64
	Ctime            int64
	Utime            int64
}

type OrderLine struct {
	ItemID    int64
	ItemSN    string
	Name      string
	UnitPrice int64
	Quantity  int64
}

// StatusEvent 状态流水，只追加不修改
type StatusEvent struct {
	ID         int64
	OrderID    int64
	FromStatus OrderStatus
	ToStatus   OrderStatus
	Actor      string
	Ctime      int64
}

type Submission struct {
	ClientSubmissionID string
	PayerID            int64
	VenueID            int64
	ContactPhone       string
	// Channel 支付渠道，1=银行卡 2=钱包
	Channel uint8
	Lines   []SubmissionLine
}

type SubmissionLine struct {
	ItemID   int64
	Quantity int64
	// ClaimedUnitPrice 客户端看到的单价，只用来发现价格漂移，金额一律以目录为准
	ClaimedUnitPrice int64
}

type OrderConfirmation struct {
	OrderID       int64
	OrderSN       string
	Status        OrderStatus
	PaymentStatus PaymentStatus
	TotalAmount   int64
	Currency      string
	// EstimatedReadyAt 固定偏移量估出来的取餐时间，不考虑后厨负载
	EstimatedReadyAt int64
	PaymentSN        string
	// CodeURL 钱包渠道的扫码链接
	CodeURL string
	// RejectedLines 被逐行拒绝的商品，订单只含剩余行
	RejectedLines []LineRejection
}
