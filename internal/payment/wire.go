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

package payment

import (
	"sync"
	"time"

	"github.com/ecodeclub/mq-api"
	"github.com/ecodeclub/tably/internal/payment/internal/event"
	"github.com/ecodeclub/tably/internal/payment/internal/job"
	"github.com/ecodeclub/tably/internal/payment/internal/repository"
	"github.com/ecodeclub/tably/internal/payment/internal/repository/dao"
	"github.com/ecodeclub/tably/internal/payment/internal/service"
	"github.com/ecodeclub/tably/internal/payment/internal/web"
	"github.com/ecodeclub/tably/internal/payment/ioc"
	"github.com/ecodeclub/tably/internal/pkg/sequencenumber"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
)

func InitModule(db *egorm.Component, q mq.MQ) (*Module, error) {
	wire.Build(
		wire.Struct(new(Module), "*"),
		initDAO,
		repository.NewPaymentRepository,
		initService,
		initHandler,
		ioc.InitWalletNotifyHandler,
		web.NewWalletHandler,
		initSyncJob,
	)
	return new(Module), nil
}

func initDAO(db *egorm.Component) dao.PaymentDAO {
	InitTablesOnce(db)
	return dao.NewPaymentGORMDAO(db)
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

func initService(repo repository.PaymentRepository, q mq.MQ) service.Service {
	producer, err := event.NewPaymentEventProducer(q)
	if err != nil {
		panic(err)
	}
	return service.NewService(repo,
		ioc.InitProviderClients(),
		producer,
		sequencenumber.NewGenerator(),
		3,
		30*time.Minute)
}

func initHandler(svc service.Service) *web.Handler {
	// webhook校验用的共享密钥和出站调用是同一个
	return web.NewHandler(svc, ioc.InitCardConfig().APIKey)
}

func initSyncJob(svc service.Service) *job.SyncProviderStatusJob {
	return job.NewSyncProviderStatusJob(svc, 30, 100)
}
