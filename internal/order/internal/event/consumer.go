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
	"github.com/gotomicro/ego/core/elog"
)

// PaymentResultHandler 订单侧对支付结果的处理入口
type PaymentResultHandler interface {
	HandlePaymentResult(ctx context.Context, evt PaymentEvent) error
}

// PaymentEventConsumer 消费支付结果，驱动订单侧的状态耦合
type PaymentEventConsumer struct {
	handler  PaymentResultHandler
	consumer mq.Consumer
	l        *elog.Component
}

func NewPaymentEventConsumer(handler PaymentResultHandler, q mq.MQ) (*PaymentEventConsumer, error) {
	groupID := "order"
	consumer, err := q.Consumer(PaymentEventName, groupID)
	if err != nil {
		return nil, err
	}
	return &PaymentEventConsumer{
		handler:  handler,
		consumer: consumer,
		l:        elog.DefaultLogger,
	}, nil
}

func (c *PaymentEventConsumer) Start(ctx context.Context) {
	go func() {
		for {
			err := c.Consume(ctx)
			if err != nil {
				c.l.Error("消费支付事件失败", elog.FieldErr(err))
			}
		}
	}()
}

func (c *PaymentEventConsumer) Consume(ctx context.Context) error {
	msg, err := c.consumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("获取消息失败: %w", err)
	}
	var evt PaymentEvent
	err = json.Unmarshal(msg.Value, &evt)
	if err != nil {
		return fmt.Errorf("解析消息失败: %w", err)
	}
	return c.handler.HandlePaymentResult(ctx, evt)
}
