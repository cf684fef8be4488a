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
	"errors"
	"fmt"

	"github.com/ecodeclub/tably/internal/cart/internal/domain"
	"github.com/ecodeclub/tably/internal/cart/internal/repository/cache"
	"github.com/ecodeclub/tably/internal/catalog"
)

var (
	ErrVenueMismatch   = errors.New("购物车内商品必须属于同一门店")
	ErrItemUnavailable = errors.New("商品不可售")
	ErrLineNotFound    = errors.New("购物车内没有该商品")
)

//go:generate mockgen -source=./service.go -package=cartmocks -destination=../../mocks/cart.mock.go -typed Service
type Service interface {
	AddItem(ctx context.Context, sessionID, venueID, itemID, quantity int64) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, itemID, quantity int64) (domain.Cart, error)
	RemoveItem(ctx context.Context, sessionID, itemID int64) (domain.Cart, error)
	Get(ctx context.Context, sessionID int64) (domain.Cart, error)
	Clear(ctx context.Context, sessionID int64) error
}

func NewService(catalogSvc catalog.Service, c cache.CartCache) Service {
	return &service{catalogSvc: catalogSvc, cache: c}
}

type service struct {
	catalogSvc catalog.Service
	cache      cache.CartCache
}

func (s *service) AddItem(ctx context.Context, sessionID, venueID, itemID, quantity int64) (domain.Cart, error) {
	if quantity < 1 {
		return domain.Cart{}, fmt.Errorf("商品数量非法: %d", quantity)
	}
	cart, err := s.cache.Get(ctx, sessionID)
	if err != nil && !errors.Is(err, cache.ErrCartNotFound) {
		return domain.Cart{}, err
	}
	if errors.Is(err, cache.ErrCartNotFound) {
		cart = domain.Cart{SessionID: sessionID, VenueID: venueID}
	}
	if cart.VenueID != venueID {
		return domain.Cart{}, fmt.Errorf("%w: 已有门店%d, 新增门店%d", ErrVenueMismatch, cart.VenueID, venueID)
	}

	items, err := s.catalogSvc.FindByIDs(ctx, venueID, []int64{itemID})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("查询商品失败: %w", err)
	}
	if len(items) == 0 {
		return domain.Cart{}, fmt.Errorf("商品不存在: %d", itemID)
	}
	item := items[0]
	if !item.Available {
		return domain.Cart{}, fmt.Errorf("%w: %s", ErrItemUnavailable, item.Name)
	}

	found := false
	for i := range cart.Lines {
		if cart.Lines[i].ItemID == itemID {
			cart.Lines[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		cart.Lines = append(cart.Lines, domain.CartLine{
			ItemID:    item.ID,
			ItemSN:    item.SN,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  quantity,
		})
	}
	return cart, s.cache.Set(ctx, cart)
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID, itemID, quantity int64) (domain.Cart, error) {
	if quantity < 1 {
		return s.RemoveItem(ctx, sessionID, itemID)
	}
	cart, err := s.cache.Get(ctx, sessionID)
	if err != nil {
		return domain.Cart{}, err
	}
	for i := range cart.Lines {
		if cart.Lines[i].ItemID == itemID {
			cart.Lines[i].Quantity = quantity
			return cart, s.cache.Set(ctx, cart)
		}
	}
	return domain.Cart{}, fmt.Errorf("%w: %d", ErrLineNotFound, itemID)
}

func (s *service) RemoveItem(ctx context.Context, sessionID, itemID int64) (domain.Cart, error) {
	cart, err := s.cache.Get(ctx, sessionID)
	if err != nil {
		return domain.Cart{}, err
	}
	lines := make([]domain.CartLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		if l.ItemID != itemID {
			lines = append(lines, l)
		}
	}
	cart.Lines = lines
	if cart.IsEmpty() {
		return cart, s.cache.Del(ctx, sessionID)
	}
	return cart, s.cache.Set(ctx, cart)
}

func (s *service) Get(ctx context.Context, sessionID int64) (domain.Cart, error) {
	cart, err := s.cache.Get(ctx, sessionID)
	if errors.Is(err, cache.ErrCartNotFound) {
		return domain.Cart{SessionID: sessionID}, nil
	}
	return cart, err
}

func (s *service) Clear(ctx context.Context, sessionID int64) error {
	return s.cache.Del(ctx, sessionID)
}
