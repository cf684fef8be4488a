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
	"testing"

	"github.com/ecodeclub/tably/internal/cart/internal/domain"
	"github.com/ecodeclub/tably/internal/cart/internal/repository/cache"
	"github.com/ecodeclub/tably/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalogService struct {
	catalog.Service
	items map[int64]catalog.Item
}

func (f *fakeCatalogService) FindByIDs(_ context.Context, venueID int64, ids []int64) ([]catalog.Item, error) {
	res := make([]catalog.Item, 0, len(ids))
	for _, id := range ids {
		item, ok := f.items[id]
		if ok && item.VenueID == venueID {
			res = append(res, item)
		}
	}
	return res, nil
}

type memoryCartCache struct {
	carts map[int64]domain.Cart
}

func newMemoryCartCache() *memoryCartCache {
	return &memoryCartCache{carts: make(map[int64]domain.Cart)}
}

func (m *memoryCartCache) Set(_ context.Context, cart domain.Cart) error {
	m.carts[cart.SessionID] = cart
	return nil
}

func (m *memoryCartCache) Get(_ context.Context, sessionID int64) (domain.Cart, error) {
	cart, ok := m.carts[sessionID]
	if !ok {
		return domain.Cart{}, cache.ErrCartNotFound
	}
	return cart, nil
}

func (m *memoryCartCache) Del(_ context.Context, sessionID int64) error {
	delete(m.carts, sessionID)
	return nil
}

func newTestService() Service {
	catalogSvc := &fakeCatalogService{
		items: map[int64]catalog.Item{
			1: {ID: 1, SN: "item-1", VenueID: 100, Name: "espresso", Price: 300, Currency: "EUR", Available: true},
			2: {ID: 2, SN: "item-2", VenueID: 100, Name: "croissant", Price: 250, Currency: "EUR", Available: true},
			3: {ID: 3, SN: "item-3", VenueID: 100, Name: "tiramisu", Price: 450, Currency: "EUR", Available: false},
			4: {ID: 4, SN: "item-4", VenueID: 200, Name: "negroni", Price: 900, Currency: "EUR", Available: true},
		},
	}
	return NewService(catalogSvc, newMemoryCartCache())
}

func TestService_AddItem(t *testing.T) {
	t.Parallel()
	svc := newTestService()

	cart, err := svc.AddItem(context.Background(), 7, 100, 1, 2)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int64(300), cart.Lines[0].UnitPrice)
	assert.Equal(t, int64(2), cart.Lines[0].Quantity)

	// 相同商品合并数量
	cart, err = svc.AddItem(context.Background(), 7, 100, 1, 1)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int64(3), cart.Lines[0].Quantity)

	// 不可售商品被拒绝
	_, err = svc.AddItem(context.Background(), 7, 100, 3, 1)
	assert.ErrorIs(t, err, ErrItemUnavailable)

	// 跨门店加购被拒绝
	_, err = svc.AddItem(context.Background(), 7, 200, 4, 1)
	assert.ErrorIs(t, err, ErrVenueMismatch)
}

func TestService_UpdateAndRemove(t *testing.T) {
	t.Parallel()
	svc := newTestService()

	_, err := svc.AddItem(context.Background(), 8, 100, 1, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), 8, 100, 2, 1)
	require.NoError(t, err)

	cart, err := svc.UpdateQuantity(context.Background(), 8, 1, 5)
	require.NoError(t, err)
	for _, l := range cart.Lines {
		if l.ItemID == 1 {
			assert.Equal(t, int64(5), l.Quantity)
		}
	}

	_, err = svc.UpdateQuantity(context.Background(), 8, 99, 2)
	assert.ErrorIs(t, err, ErrLineNotFound)

	cart, err = svc.RemoveItem(context.Background(), 8, 1)
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 1)

	// 移除最后一个商品后购物车被删除
	cart, err = svc.RemoveItem(context.Background(), 8, 2)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	got, err := svc.Get(context.Background(), 8)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestService_Clear(t *testing.T) {
	t.Parallel()
	svc := newTestService()
	_, err := svc.AddItem(context.Background(), 9, 100, 1, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(context.Background(), 9))
	cart, err := svc.Get(context.Background(), 9)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}
