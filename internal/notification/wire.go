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

//go:build wireinject

package notification

import (
	"github.com/ecodeclub/mq-api"
	"github.com/ecodeclub/tably/internal/notification/internal/event"
	"github.com/ecodeclub/tably/internal/notification/internal/service"
	"github.com/ecodeclub/tably/internal/order"
	"github.com/ecodeclub/tably/internal/sms/client"
	"github.com/google/wire"
	"github.com/gotomicro/ego/core/econf"
)

func InitModule(q mq.MQ, orderModule *order.Module) (*Module, error) {
	wire.Build(
		wire.Struct(new(Module), "*"),
		initNotifier,
		initConsumer,
	)
	return new(Module), nil
}

func initNotifier(orderModule *order.Module) service.Notifier {
	var cfg service.Config
	err := econf.UnmarshalKey("sms.notification", &cfg)
	if err != nil {
		panic(err)
	}
	return service.NewSMSNotifier(orderModule.Svc, initClient(), cfg)
}

func initClient() client.Client {
	type aliyunConfig struct {
		AccessKeyID     string `yaml:"accessKeyID"`
		AccessKeySecret string `yaml:"accessKeySecret"`
	}
	type tencentConfig struct {
		RegionID  string `yaml:"regionID"`
		SecretID  string `yaml:"secretID"`
		SecretKey string `yaml:"secretKey"`
		AppID     string `yaml:"appID"`
	}
	type smsConfig struct {
		Provider string        `yaml:"provider"`
		Aliyun   aliyunConfig  `yaml:"aliyun"`
		Tencent  tencentConfig `yaml:"tencent"`
	}
	var cfg smsConfig
	err := econf.UnmarshalKey("sms", &cfg)
	if err != nil {
		panic(err)
	}
	switch cfg.Provider {
	case "aliyun":
		c, err := client.NewAliyunSMS(cfg.Aliyun.AccessKeyID, cfg.Aliyun.AccessKeySecret)
		if err != nil {
			panic(err)
		}
		return c
	case "tencent":
		c, err := client.NewTencentCloudSMS(cfg.Tencent.RegionID, cfg.Tencent.SecretID, cfg.Tencent.SecretKey, cfg.Tencent.AppID)
		if err != nil {
			panic(err)
		}
		return c
	default:
		// 没配云厂商就打到控制台，开发环境用
		return client.NewConsoleClient()
	}
}

func initConsumer(notifier service.Notifier, q mq.MQ) *event.OrderStatusEventConsumer {
	consumer, err := event.NewOrderStatusEventConsumer(notifier, q)
	if err != nil {
		panic(err)
	}
	return consumer
}
