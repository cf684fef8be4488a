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
	"testing"

	"github.com/ecodeclub/tably/internal/realtime/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_FanOut(t *testing.T) {
	t.Parallel()
	b := NewBroadcaster()
	sub1 := b.Subscribe("order-1")
	sub2 := b.Subscribe("order-1")
	other := b.Subscribe("order-2")

	evt := domain.StatusUpdate{OrderSN: "order-1", ToStatus: 2}
	b.Publish(evt)

	assert.Equal(t, evt, <-sub1.Events())
	assert.Equal(t, evt, <-sub2.Events())
	// 不同订单的订阅互不影响
	select {
	case <-other.Events():
		t.Fatal("不应该收到其他订单的事件")
	default:
	}
}

func TestBroadcaster_SlowSubscriberDisconnected(t *testing.T) {
	t.Parallel()
	b := NewBroadcaster()
	slow := b.Subscribe("order-1")
	fast := b.Subscribe("order-1")

	// 塞满缓冲再多发一条，慢订阅方被断开，发布不阻塞
	// 快订阅方边发边收，始终不积压
	for i := 0; i < defaultBufferSize+1; i++ {
		b.Publish(domain.StatusUpdate{OrderSN: "order-1", Timestamp: int64(i)})
		evt := <-fast.Events()
		assert.Equal(t, int64(i), evt.Timestamp)
	}

	received := 0
	for range slow.Events() {
		received++
	}
	// 通道被关闭，只收到缓冲里的那部分
	assert.Equal(t, defaultBufferSize, received)

	// 快订阅方不受影响，继续收新事件
	b.Publish(domain.StatusUpdate{OrderSN: "order-1", Timestamp: 100})
	evt := <-fast.Events()
	assert.Equal(t, int64(100), evt.Timestamp)
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	t.Parallel()
	b := NewBroadcaster()
	sub := b.Subscribe("order-1")
	b.Unsubscribe(sub)
	// 重复退订不会panic
	b.Unsubscribe(sub)

	_, ok := <-sub.Events()
	require.False(t, ok)

	// 没有订阅方时发布是空操作
	b.Publish(domain.StatusUpdate{OrderSN: "order-1"})
}
