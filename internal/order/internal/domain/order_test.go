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

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransition(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{name: "待确认到已确认", from: OrderStatusPending, to: OrderStatusConfirmed, want: true},
		{name: "已确认到制作中", from: OrderStatusConfirmed, to: OrderStatusPreparing, want: true},
		{name: "制作中到待取餐", from: OrderStatusPreparing, to: OrderStatusReady, want: true},
		{name: "待取餐到已完成", from: OrderStatusReady, to: OrderStatusCompleted, want: true},
		{name: "待确认可以取消", from: OrderStatusPending, to: OrderStatusCancelled, want: true},
		{name: "已确认可以取消", from: OrderStatusConfirmed, to: OrderStatusCancelled, want: true},
		{name: "制作中可以取消", from: OrderStatusPreparing, to: OrderStatusCancelled, want: true},
		// 必须经过ready才能完成
		{name: "制作中不能直接完成", from: OrderStatusPreparing, to: OrderStatusCompleted, want: false},
		{name: "待取餐不能取消", from: OrderStatusReady, to: OrderStatusCancelled, want: false},
		{name: "不能跳过已确认", from: OrderStatusPending, to: OrderStatusPreparing, want: false},
		{name: "不能回退", from: OrderStatusConfirmed, to: OrderStatusPending, want: false},
		{name: "已完成是终态", from: OrderStatusCompleted, to: OrderStatusCancelled, want: false},
		{name: "已取消是终态", from: OrderStatusCancelled, to: OrderStatusConfirmed, want: false},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.CanTransition(tc.to))
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	t.Parallel()
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusReady.IsTerminal())
}
