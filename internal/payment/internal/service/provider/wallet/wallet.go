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
	"fmt"
	"time"

	"github.com/ecodeclub/tably/internal/payment/internal/domain"
	"github.com/ecodeclub/tably/internal/payment/internal/service/provider"
	"github.com/gotomicro/ego/core/elog"
	"github.com/wechatpay-apiv3/wechatpay-go/core"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/native"
)

//go:generate mockgen -source=./wallet.go -package=walletmocks -destination=./mocks/wallet.mock.go -typed NativeAPIService
type NativeAPIService interface {
	Prepay(ctx context.Context, req native.PrepayRequest) (resp *native.PrepayResponse, result *core.APIResult, err error)
	QueryOrderByOutTradeNo(ctx context.Context, req native.QueryOrderByOutTradeNoRequest) (resp *payments.Transaction, result *core.APIResult, err error)
}

var _ provider.Client = (*Client)(nil)

// Client 钱包渠道，微信 native 扫码支付
// 商户单号用支付 SN，渠道按 OutTradeNo 对账
type Client struct {
	svc NativeAPIService
	l   *elog.Component

	appID     string
	mchID     string
	notifyURL string
	// 微信 native 的交易状态词表
	// SUCCESS：支付成功
	// REFUND：转入退款
	// NOTPAY：未支付
	// CLOSED：已关闭
	// REVOKED：已撤销（付款码支付）
	// USERPAYING：用户支付中（付款码支付）
	// PAYERROR：支付失败(其他原因，如银行返回失败)
	tradeStateToPaymentStatus map[string]domain.PaymentStatus
}

func NewClient(svc NativeAPIService, appid, mchid, notifyURL string) *Client {
	return &Client{
		svc:       svc,
		l:         elog.DefaultLogger,
		appID:     appid,
		mchID:     mchid,
		notifyURL: notifyURL,
		tradeStateToPaymentStatus: map[string]domain.PaymentStatus{
			"SUCCESS":    domain.PaymentStatusPaid,
			"PAYERROR":   domain.PaymentStatusFailed,
			"CLOSED":     domain.PaymentStatusFailed,
			"REVOKED":    domain.PaymentStatusFailed,
			"NOTPAY":     domain.PaymentStatusPending,
			"USERPAYING": domain.PaymentStatusPending,
			"REFUND":     domain.PaymentStatusRefunded,
		},
	}
}

func (c *Client) CreateIntent(ctx context.Context, pmt domain.Payment) (provider.Intent, error) {
	resp, _, err := c.svc.Prepay(ctx,
		native.PrepayRequest{
			Appid:       core.String(c.appID),
			Mchid:       core.String(c.mchID),
			Description: core.String(fmt.Sprintf("订单 %s", pmt.OrderSN)),
			OutTradeNo:  core.String(pmt.SN),
			TimeExpire:  core.Time(time.UnixMilli(pmt.Deadline)),
			NotifyUrl:   core.String(c.notifyURL),
			Amount: &native.Amount{
				Currency: core.String(pmt.Currency),
				Total:    core.Int64(pmt.TotalAmount),
			},
		},
	)
	if err != nil {
		return provider.Intent{}, fmt.Errorf("钱包渠道预支付失败: %w", err)
	}
	return provider.Intent{Reference: pmt.SN, CodeURL: *resp.CodeUrl}, nil
}

func (c *Client) QueryStatus(ctx context.Context, reference string) (domain.PaymentStatus, error) {
	txn, _, err := c.svc.QueryOrderByOutTradeNo(ctx, native.QueryOrderByOutTradeNoRequest{
		OutTradeNo: core.String(reference),
		Mchid:      core.String(c.mchID),
	})
	if err != nil {
		return 0, err
	}
	return c.MapStatus(*txn.TradeState)
}

func (c *Client) MapStatus(providerStatus string) (domain.PaymentStatus, error) {
	status, ok := c.tradeStateToPaymentStatus[providerStatus]
	if !ok {
		return 0, fmt.Errorf("%w: %s", provider.ErrUnknownProviderStatus, providerStatus)
	}
	return status, nil
}
