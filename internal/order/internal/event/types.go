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

package event

const (
	OrderStatusEventName = "order_status_events"
	PaymentEventName     = "payment_events"
)

// OrderStatusEvent 每次状态或支付状态变化后发出，实时推送和通知都消费它
// 事务提交之后才发送，保证单个订单内按提交顺序可见
type OrderStatusEvent struct {
	OrderSN       string
	FromStatus    uint8
	ToStatus      uint8
	PaymentStatus uint8
	Actor         string
	Timestamp     int64
}

// PaymentEvent 支付模块发出的支付结果
type PaymentEvent struct {
	OrderSN   string
	PayerID   int64
	Status    uint8
	Exhausted bool
}
