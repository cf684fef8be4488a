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

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/tably/internal/cart/internal/domain"
	"github.com/pkg/errors"
)

var ErrCartNotFound = errors.New("购物车不存在")

const expiration = 24 * time.Hour

type CartCache interface {
	Set(ctx context.Context, cart domain.Cart) error
	Get(ctx context.Context, sessionID int64) (domain.Cart, error)
	Del(ctx context.Context, sessionID int64) error
}

type CartECache struct {
	ec ecache.Cache
}

func NewCartECache(ec ecache.Cache) CartCache {
	return &CartECache{
		ec: &ecache.NamespaceCache{
			Namespace: "cart:",
			C:         ec,
		},
	}
}

func (c *CartECache) Set(ctx context.Context, cart domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return errors.Wrap(err, "序列化购物车失败")
	}
	return c.ec.Set(ctx, c.key(cart.SessionID), string(data), expiration)
}

func (c *CartECache) Get(ctx context.Context, sessionID int64) (domain.Cart, error) {
	val := c.ec.Get(ctx, c.key(sessionID))
	if val.KeyNotFound() {
		return domain.Cart{}, ErrCartNotFound
	}
	if val.Err != nil {
		return domain.Cart{}, errors.Wrap(val.Err, "查询购物车缓存出错")
	}
	var cart domain.Cart
	err := json.Unmarshal([]byte(val.Val.(string)), &cart)
	if err != nil {
		return domain.Cart{}, errors.Wrap(err, "反序列化购物车失败")
	}
	return cart, nil
}

func (c *CartECache) Del(ctx context.Context, sessionID int64) error {
	_, err := c.ec.Delete(ctx, c.key(sessionID))
	return err
}

func (c *CartECache) key(sessionID int64) string {
	return fmt.Sprintf("%d", sessionID)
}
