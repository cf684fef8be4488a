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

package offline

import (
	"sync"
	"time"

	"github.com/ecodeclub/tably/internal/offline/internal/repository"
	"github.com/ecodeclub/tably/internal/offline/internal/repository/dao"
	"github.com/ecodeclub/tably/internal/offline/internal/service"
	"github.com/ecodeclub/tably/internal/order"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
)

func InitModule(db *egorm.Component, orderModule *order.Module) (*Module, error) {
	wire.Build(
		wire.Struct(new(Module), "*"),
		initDAO,
		repository.NewSubmissionRecordRepository,
		initQueue,
	)
	return new(Module), nil
}

var daoOnce = sync.Once{}

func initDAO(db *egorm.Component) dao.SubmissionRecordDAO {
	daoOnce.Do(func() {
		err := dao.InitTables(db)
		if err != nil {
			panic(err)
		}
	})
	return dao.NewSubmissionRecordGORMDAO(db)
}

func initQueue(repo repository.SubmissionRecordRepository, orderModule *order.Module) service.Queue {
	const (
		maxAge        = 24 * time.Hour
		flushInterval = 30 * time.Second
		batchSize     = 100
	)
	q, err := service.NewQueue(repo, orderModule.Svc, maxAge, flushInterval, batchSize)
	if err != nil {
		panic(err)
	}
	return q
}
