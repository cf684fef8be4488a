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

package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/ecodeclub/tably/internal/payment/internal/domain"
	"github.com/ecodeclub/tably/internal/payment/internal/service/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wechatpay-apiv3/wechatpay-go/core"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/native"
)

type fakeNativeAPIService struct {
	prepayReq  native.PrepayRequest
	tradeState string
}

func (f *fakeNativeAPIService) Prepay(_ context.Context, req native.PrepayRequest) (*native.PrepayResponse, *core.APIResult, error) {
	f.prepayReq = req
	return &native.PrepayResponse{CodeUrl: core.String("weixin://wxpay/bizpayurl?pr=test")}, nil, nil
}

func (f *fakeNativeAPIService) QueryOrderByOutTradeNo(_ context.Context, req native.QueryOrderByOutTradeNoRequest) (*payments.Transaction, *core.APIResult, error) {
	return &payments.Transaction{
		OutTradeNo: req.OutTradeNo,
		TradeState: core.String(f.tradeState),
	}, nil, nil
}

func TestClient_CreateIntent(t *testing.T) {
	t.Parallel()
	svc := &fakeNativeAPIService{}
	client := NewClient(svc, "app-id", "mch-id", "https://example.com/payment/wallet/callback")

	intent, err := client.CreateIntent(context.Background(), domain.Payment{
		SN:          "payment-sn-1",
		OrderSN:     "order-sn-1",
		TotalAmount: 1200,
		Currency:    "CNY",
		Deadline:    time.Now().Add(30 * time.Minute).UnixMilli(),
	})
	require.NoError(t, err)
	// 商户单号用支付 SN，后续按它对账
	assert.Equal(t, "payment-sn-1", intent.Reference)
	assert.Equal(t, "weixin://wxpay/bizpayurl?pr=test", intent.CodeURL)
	assert.Equal(t, "payment-sn-1", *svc.prepayReq.OutTradeNo)
	assert.Equal(t, int64(1200), *svc.prepayReq.Amount.Total)
}

func TestClient_QueryStatus(t *testing.T) {
	t.Parallel()
	svc := &fakeNativeAPIService{tradeState: "SUCCESS"}
	client := NewClient(svc, "app-id", "mch-id", "https://example.com/payment/wallet/callback")

	status, err := client.QueryStatus(context.Background(), "payment-sn-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, status)
}

func TestClient_MapStatus(t *testing.T) {
	t.Parallel()
	client := NewClient(&fakeNativeAPIService{}, "app-id", "mch-id", "https://example.com/payment/wallet/callback")

	testCases := []struct {
		tradeState string
		want       domain.PaymentStatus
	}{
		{tradeState: "SUCCESS", want: domain.PaymentStatusPaid},
		{tradeState: "PAYERROR", want: domain.PaymentStatusFailed},
		{tradeState: "CLOSED", want: domain.PaymentStatusFailed},
		{tradeState: "REVOKED", want: domain.PaymentStatusFailed},
		{tradeState: "NOTPAY", want: domain.PaymentStatusPending},
		{tradeState: "USERPAYING", want: domain.PaymentStatusPending},
		{tradeState: "REFUND", want: domain.PaymentStatusRefunded},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.tradeState, func(t *testing.T) {
			status, err := client.MapStatus(tc.tradeState)
			require.NoError(t, err)
			assert.Equal(t, tc.want, status)
		})
	}

	_, err := client.MapStatus("UNKNOWN_STATE")
	assert.ErrorIs(t, err, provider.ErrUnknownProviderStatus)
}
