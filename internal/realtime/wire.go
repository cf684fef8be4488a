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

package realtime

import (
	"github.com/ecodeclub/mq-api"
	"github.com/ecodeclub/tably/internal/order"
	"github.com/ecodeclub/tably/internal/realtime/internal/event"
	"github.com/ecodeclub/tably/internal/realtime/internal/service"
	"github.com/ecodeclub/tably/internal/realtime/internal/web"
	"github.com/google/wire"
)

func InitModule(q mq.MQ, orderModule *order.Module) (*Module, error) {
	wire.Build(
		wire.Struct(new(Module), "*"),
		wire.FieldsOf(new(*order.Module), "Svc"),
		service.NewBroadcaster,
		web.NewHandler,
		initConsumer,
	)
	return new(Module), nil
}

func initConsumer(broadcaster *service.Broadcaster, q mq.MQ) *event.OrderStatusEventConsumer {
	consumer, err := event.NewOrderStatusEventConsumer(broadcaster, q)
	if err != nil {
		panic(err)
	}
	return consumer
}
