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

	"github.com/ecodeclub/tably/internal/order"
	"github.com/ecodeclub/tably/internal/sms/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderFinder struct {
	orders map[string]order.Order
}

func (f *fakeOrderFinder) FindBySN(_ context.Context, orderSN string) (order.Order, error) {
	return f.orders[orderSN], nil
}

type fakeClient struct {
	reqs []client.SendReq
}

func (f *fakeClient) Send(req client.SendReq) (client.SendResp, error) {
	f.reqs = append(f.reqs, req)
	return client.SendResp{RequestID: "req-1"}, nil
}

func newTestNotifier(finder *fakeOrderFinder, c *fakeClient) Notifier {
	return NewSMSNotifier(finder, c, Config{
		SignName: "Tably",
		Templates: map[string]string{
			"ready":     "SMS_READY",
			"cancelled": "SMS_CANCELLED",
		},
	})
}

func TestNotifier_ReadySendsSMS(t *testing.T) {
	t.Parallel()
	finder := &fakeOrderFinder{orders: map[string]order.Order{
		"order-1": {SN: "order-1", ContactPhone: "13812345678"},
	}}
	c := &fakeClient{}
	n := newTestNotifier(finder, c)

	err := n.OnStatusChange(context.Background(), "order-1", order.OrderStatusReady.ToUint8())
	require.NoError(t, err)
	require.Len(t, c.reqs, 1)
	assert.Equal(t, []string{"13812345678"}, c.reqs[0].PhoneNumbers)
	assert.Equal(t, "SMS_READY", c.reqs[0].TemplateID)
	assert.Equal(t, "order-1", c.reqs[0].TemplateParam["sn"])
}

func TestNotifier_UnconfiguredStatusIgnored(t *testing.T) {
	t.Parallel()
	finder := &fakeOrderFinder{orders: map[string]order.Order{
		"order-1": {SN: "order-1", ContactPhone: "13812345678"},
	}}
	c := &fakeClient{}
	n := newTestNotifier(finder, c)

	// confirmed没配模板，completed配置里也没有
	err := n.OnStatusChange(context.Background(), "order-1", order.OrderStatusConfirmed.ToUint8())
	require.NoError(t, err)
	err = n.OnStatusChange(context.Background(), "order-1", order.OrderStatusCompleted.ToUint8())
	require.NoError(t, err)
	assert.Empty(t, c.reqs)
}

func TestNotifier_NoPhoneNoSMS(t *testing.T) {
	t.Parallel()
	finder := &fakeOrderFinder{orders: map[string]order.Order{
		"order-1": {SN: "order-1"},
	}}
	c := &fakeClient{}
	n := newTestNotifier(finder, c)

	err := n.OnStatusChange(context.Background(), "order-1", order.OrderStatusCancelled.ToUint8())
	require.NoError(t, err)
	assert.Empty(t, c.reqs)
}
