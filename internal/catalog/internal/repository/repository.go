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

package repository

import (
	"context"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/tably/internal/catalog/internal/domain"
	"github.com/ecodeclub/tably/internal/catalog/internal/repository/dao"
)

type ItemRepository interface {
	Save(ctx context.Context, item domain.Item) (int64, error)
	FindBySN(ctx context.Context, sn string) (domain.Item, error)
	FindByIDs(ctx context.Context, venueID int64, ids []int64) ([]domain.Item, error)
	ListByVenueID(ctx context.Context, venueID int64, offset, limit int) ([]domain.Item, error)
	UpdateAvailability(ctx context.Context, id int64, available bool) error
}

func NewItemRepository(d dao.ItemDAO) ItemRepository {
	return &itemRepository{d: d}
}

type itemRepository struct {
	d dao.ItemDAO
}

func (r *itemRepository) Save(ctx context.Context, item domain.Item) (int64, error) {
	return r.d.Save(ctx, r.toEntity(item))
}

func (r *itemRepository) FindBySN(ctx context.Context, sn string) (domain.Item, error) {
	item, err := r.d.FindBySN(ctx, sn)
	if err != nil {
		return domain.Item{}, err
	}
	return r.toDomain(item), nil
}

func (r *itemRepository) FindByIDs(ctx context.Context, venueID int64, ids []int64) ([]domain.Item, error) {
	items, err := r.d.FindByIDs(ctx, venueID, ids)
	if err != nil {
		return nil, err
	}
	return slice.Map(items, func(idx int, src dao.Item) domain.Item {
		return r.toDomain(src)
	}), nil
}

func (r *itemRepository) ListByVenueID(ctx context.Context, venueID int64, offset, limit int) ([]domain.Item, error) {
	items, err := r.d.ListByVenueID(ctx, venueID, offset, limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(items, func(idx int, src dao.Item) domain.Item {
		return r.toDomain(src)
	}), nil
}

func (r *itemRepository) UpdateAvailability(ctx context.Context, id int64, available bool) error {
	return r.d.UpdateAvailability(ctx, id, available)
}

func (r *itemRepository) toEntity(item domain.Item) dao.Item {
	return dao.Item{
		Id:          item.ID,
		SN:          item.SN,
		VenueId:     item.VenueID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Currency:    item.Currency,
		Available:   item.Available,
	}
}

func (r *itemRepository) toDomain(item dao.Item) domain.Item {
	return domain.Item{
		ID:          item.Id,
		SN:          item.SN,
		VenueID:     item.VenueId,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Currency:    item.Currency,
		Available:   item.Available,
		Ctime:       item.Ctime,
		Utime:       item.Utime,
	}
}
