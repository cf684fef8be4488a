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

package cart

import (
	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/tably/internal/cart/internal/repository/cache"
	"github.com/ecodeclub/tably/internal/cart/internal/service"
	"github.com/ecodeclub/tably/internal/cart/internal/web"
	"github.com/ecodeclub/tably/internal/catalog"
	"github.com/google/wire"
)

func InitModule(ec ecache.Cache, catalogModule *catalog.Module) (*Module, error) {
	wire.Build(
		wire.Struct(new(Module), "*"),
		wire.FieldsOf(new(*catalog.Module), "Svc"),
		cache.NewCartECache,
		service.NewService,
		web.NewHandler,
	)
	return new(Module), nil
}
