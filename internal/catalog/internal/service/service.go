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

	"github.com/ecodeclub/tably/internal/catalog/internal/domain"
	"github.com/ecodeclub/tably/internal/catalog/internal/repository"
)

//go:generate mockgen -source=./service.go -package=catalogmocks -destination=../../mocks/catalog.mock.go -typed Service
type Service interface {
	// FindByIDs 返回指定门店下存在的商品, 未知的ID直接缺失于结果集
	FindByIDs(ctx context.Context, venueID int64, ids []int64) ([]domain.Item, error)
	FindItemBySN(ctx context.Context, sn string) (domain.Item, error)
	ListItems(ctx context.Context, venueID int64, offset, limit int) ([]domain.Item, error)
	SaveItem(ctx context.Context, item domain.Item) (int64, error)
	UpdateAvailability(ctx context.Context, id int64, available bool) error
}

func NewService(repo repository.ItemRepository) Service {
	return &service{repo: repo}
}

type service struct {
	repo repository.ItemRepository
}

func (s *service) FindByIDs(ctx context.Context, venueID int64, ids []int64) ([]domain.Item, error) {
	return s.repo.FindByIDs(ctx, venueID, ids)
}

func (s *service) FindItemBySN(ctx context.Context, sn string) (domain.Item, error) {
	return s.repo.FindBySN(ctx, sn)
}

func (s *service) ListItems(ctx context.Context, venueID int64, offset, limit int) ([]domain.Item, error) {
	return s.repo.ListByVenueID(ctx, venueID, offset, limit)
}

func (s *service) SaveItem(ctx context.Context, item domain.Item) (int64, error) {
	return s.repo.Save(ctx, item)
}

func (s *service) UpdateAvailability(ctx context.Context, id int64, available bool) error {
	return s.repo.UpdateAvailability(ctx, id, available)
}
