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

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ecodeclub/mq-api"
	"github.com/ecodeclub/tably/internal/notification/internal/service"
	"github.com/gotomicro/ego/core/elog"
)

const OrderStatusEventName = "order_status_events"

// OrderStatusEvent 订单模块发出的状态变化
type OrderStatusEvent struct {
	OrderSN       string
	FromStatus    uint8
	ToStatus      uint8
	PaymentStatus uint8
	Actor         string
	Timestamp     int64
}

// OrderStatusEventConsumer 状态变化触发通知
type OrderStatusEventConsumer struct {
	notifier service.Notifier
	consumer mq.Consumer
	l        *elog.Component
}

func NewOrderStatusEventConsumer(notifier service.Notifier, q mq.MQ) (*OrderStatusEventConsumer, error) {
	groupID := "notification"
	consumer, err := q.Consumer(OrderStatusEventName, groupID)
	if err != nil {
		return nil, err
	}
	return &OrderStatusEventConsumer{
		notifier: notifier,
		consumer: consumer,
		l:        elog.DefaultLogger.With(elog.FieldComponent("notification.consumer")),
	}, nil
}

func (c *OrderStatusEventConsumer) Start(ctx context.Context) {
	go func() {
		for {
			err := c.Consume(ctx)
			if err != nil {
				c.l.Error("消费订单状态事件失败", elog.FieldErr(err))
			}
		}
	}()
}

func (c *OrderStatusEventConsumer) Consume(ctx context.Context) error {
	msg, err := c.consumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("获取消息失败: %w", err)
	}
	var evt OrderStatusEvent
	err = json.Unmarshal(msg.Value, &evt)
	if err != nil {
		return fmt.Errorf("解析消息失败: %w", err)
	}
	// 通知尽力而为，失败只记日志不重试
	err = c.notifier.OnStatusChange(ctx, evt.OrderSN, evt.ToStatus)
	if err != nil {
		c.l.Error("发送订单状态通知失败",
			elog.String("orderSN", evt.OrderSN),
			elog.FieldErr(err))
	}
	return nil
}
