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
	"strconv"

	"github.com/ecodeclub/tably/internal/order"
	"github.com/ecodeclub/tably/internal/sms/client"
	"github.com/gotomicro/ego/core/elog"
)

// OrderFinder 只需要按SN查订单，order.Service天然满足
type OrderFinder interface {
	FindBySN(ctx context.Context, orderSN string) (order.Order, error)
}

type Notifier interface {
	// OnStatusChange 给下单人发短信，尽力而为，失败不影响订单流转
	OnStatusChange(ctx context.Context, orderSN string, toStatus uint8) error
}

type Config struct {
	SignName string `yaml:"signName"`
	// Templates 按状态名配置模板ID，没配的状态不通知
	Templates map[string]string `yaml:"templates"`
}

type smsNotifier struct {
	orderFinder OrderFinder
	client      client.Client
	cfg         Config
	logger      *elog.Component
}

func NewSMSNotifier(orderFinder OrderFinder, c client.Client, cfg Config) Notifier {
	return &smsNotifier{
		orderFinder: orderFinder,
		client:      c,
		cfg:         cfg,
		logger:      elog.DefaultLogger.With(elog.FieldComponent("notification.sms")),
	}
}

func (s *smsNotifier) OnStatusChange(ctx context.Context, orderSN string, toStatus uint8) error {
	templateID, ok := s.cfg.Templates[statusKey(order.OrderStatus(toStatus))]
	if !ok {
		return nil
	}
	o, err := s.orderFinder.FindBySN(ctx, orderSN)
	if err != nil {
		return err
	}
	if o.ContactPhone == "" {
		return nil
	}
	_, err = s.client.Send(client.SendReq{
		PhoneNumbers: []string{o.ContactPhone},
		SignName:     s.cfg.SignName,
		TemplateID:   templateID,
		TemplateParam: map[string]string{
			"sn":     o.SN,
			"status": strconv.Itoa(int(toStatus)),
		},
	})
	if err != nil {
		s.logger.Error("发送订单状态短信失败",
			elog.String("orderSN", orderSN),
			elog.FieldErr(err))
		return err
	}
	return nil
}

func statusKey(status order.OrderStatus) string {
	switch status {
	case order.OrderStatusReady:
		return "ready"
	case order.OrderStatusCompleted:
		return "completed"
	case order.OrderStatusCancelled:
		return "cancelled"
	default:
		return ""
	}
}
