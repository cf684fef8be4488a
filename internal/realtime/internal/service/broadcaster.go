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
	"sync"

	"github.com/ecodeclub/tably/internal/realtime/internal/domain"
	"github.com/gotomicro/ego/core/elog"
)

const defaultBufferSize = 16

// Subscription 单个连接对单个订单的订阅
type Subscription struct {
	id      int64
	orderSN string
	ch      chan domain.StatusUpdate
}

// Events 通道被关闭表示订阅方落后太多被断开，需要重新拉快照再订阅
func (s *Subscription) Events() <-chan domain.StatusUpdate {
	return s.ch
}

// Broadcaster 按订单号做扇出
// 发布永远不阻塞：缓冲满的订阅直接断开，由客户端走快照恢复
type Broadcaster struct {
	mu     sync.Mutex
	nextID int64
	subs   map[string]map[int64]*Subscription
	buffer int
	l      *elog.Component
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs:   make(map[string]map[int64]*Subscription),
		buffer: defaultBufferSize,
		l:      elog.DefaultLogger.With(elog.FieldComponent("realtime.broadcaster")),
	}
}

func (b *Broadcaster) Subscribe(orderSN string) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	sub := &Subscription{
		id:      b.nextID,
		orderSN: orderSN,
		ch:      make(chan domain.StatusUpdate, b.buffer),
	}
	if b.subs[orderSN] == nil {
		b.subs[orderSN] = make(map[int64]*Subscription)
	}
	b.subs[orderSN][sub.id] = sub
	return sub
}

func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.remove(sub)
}

func (b *Broadcaster) Publish(evt domain.StatusUpdate) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs[evt.OrderSN] {
		select {
		case sub.ch <- evt:
		default:
			// 跟不上的订阅方断开，不能拖慢发布
			b.l.Warn("订阅方缓冲已满, 断开",
				elog.String("order_sn", evt.OrderSN),
				elog.Int64("subscription_id", sub.id),
			)
			b.remove(sub)
		}
	}
}

// remove 调用方必须持有b.mu
func (b *Broadcaster) remove(sub *Subscription) {
	subs, ok := b.subs[sub.orderSN]
	if !ok {
		return
	}
	if _, ok = subs[sub.id]; !ok {
		return
	}
	delete(subs, sub.id)
	if len(subs) == 0 {
		delete(b.subs, sub.orderSN)
	}
	close(sub.ch)
}
