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

package order

import (
	"sync"
	"time"

	"github.com/ecodeclub/mq-api"
	"github.com/ecodeclub/tably/internal/cart"
	"github.com/ecodeclub/tably/internal/catalog"
	"github.com/ecodeclub/tably/internal/order/internal/event"
	"github.com/ecodeclub/tably/internal/order/internal/job"
	"github.com/ecodeclub/tably/internal/order/internal/repository"
	"github.com/ecodeclub/tably/internal/order/internal/repository/dao"
	"github.com/ecodeclub/tably/internal/order/internal/service"
	"github.com/ecodeclub/tably/internal/order/internal/web"
	"github.com/ecodeclub/tably/internal/payment"
	"github.com/ecodeclub/tably/internal/pkg/sequencenumber"
	"github.com/ecodeclub/tably/internal/ratelimit"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
)

func InitModule(db *egorm.Component, q mq.MQ,
	governor ratelimit.Governor,
	catalogModule *catalog.Module,
	paymentModule *payment.Module,
	cartModule *cart.Module) (*Module, error) {
	wire.Build(
		wire.Struct(new(Module), "*"),
		wire.FieldsOf(new(*catalog.Module), "Svc"),
		initDAO,
		repository.NewOrderRepository,
		service.NewCatalogValidator,
		initService,
		web.NewHandler,
		web.NewAdminHandler,
		initConsumer,
		initCloseJob,
	)
	return new(Module), nil
}

func initDAO(db *egorm.Component) dao.OrderDAO {
	InitTablesOnce(db)
	return dao.NewOrderGORMDAO(db)
}

var once = &sync.Once{}

func InitTablesOnce(db *egorm.Component) {
	once.Do(func() {
		err := dao.InitTables(db)
		if err != nil {
			panic(err)
		}
	})
}

func initService(repo repository.OrderRepository,
	governor ratelimit.Governor,
	validator *service.CatalogValidator,
	paymentModule *payment.Module,
	cartModule *cart.Module,
	q mq.MQ) Service {
	producer, err := event.NewOrderStatusEventProducer(q)
	if err != nil {
		panic(err)
	}
	return service.NewService(repo,
		governor,
		validator,
		paymentModule.Svc,
		cartModule.Svc,
		producer,
		sequencenumber.NewGenerator(),
		10*time.Second,
		15*time.Minute)
}

func initConsumer(svc Service, q mq.MQ) *event.PaymentEventConsumer {
	consumer, err := event.NewPaymentEventConsumer(svc, q)
	if err != nil {
		panic(err)
	}
	return consumer
}

func initCloseJob(svc Service) *job.CloseTimeoutOrdersJob {
	return job.NewCloseTimeoutOrdersJob(svc, 60, 100)
}
