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

package card

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ecodeclub/tably/internal/payment/internal/domain"
	"github.com/ecodeclub/tably/internal/payment/internal/service/provider"
	"github.com/gotomicro/ego/core/elog"
)

var _ provider.Client = (*Client)(nil)

// Client 银行卡渠道，走 HTTP JSON API
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	l       *elog.Component
	// 渠道侧的状态词表
	// succeeded：支付成功
	// processing：处理中
	// requires_payment_method：支付方式被拒，需要重试
	// canceled：已取消
	// refunded：已退款
	statusToPaymentStatus map[string]domain.PaymentStatus
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
		l:       elog.DefaultLogger,
		statusToPaymentStatus: map[string]domain.PaymentStatus{
			"succeeded":               domain.PaymentStatusPaid,
			"processing":              domain.PaymentStatusPending,
			"requires_payment_method": domain.PaymentStatusFailed,
			"canceled":                domain.PaymentStatusFailed,
			"refunded":                domain.PaymentStatusRefunded,
		},
	}
}

type createIntentRequest struct {
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
}

type intentResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (c *Client) CreateIntent(ctx context.Context, pmt domain.Payment) (provider.Intent, error) {
	body, err := json.Marshal(createIntentRequest{
		Amount:    pmt.TotalAmount,
		Currency:  pmt.Currency,
		Reference: pmt.SN,
	})
	if err != nil {
		return provider.Intent{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/intents", bytes.NewReader(body))
	if err != nil {
		return provider.Intent{}, err
	}
	resp, err := c.do(req)
	if err != nil {
		return provider.Intent{}, fmt.Errorf("创建卡渠道支付失败: %w", err)
	}
	return provider.Intent{Reference: resp.ID}, nil
}

func (c *Client) QueryStatus(ctx context.Context, reference string) (domain.PaymentStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/intents/"+reference, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.do(req)
	if err != nil {
		return 0, fmt.Errorf("查询卡渠道支付状态失败: %w", err)
	}
	return c.MapStatus(resp.Status)
}

func (c *Client) MapStatus(providerStatus string) (domain.PaymentStatus, error) {
	status, ok := c.statusToPaymentStatus[providerStatus]
	if !ok {
		return 0, fmt.Errorf("%w: %s", provider.ErrUnknownProviderStatus, providerStatus)
	}
	return status, nil
}

func (c *Client) do(req *http.Request) (intentResponse, error) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpResp, err := c.client.Do(req)
	if err != nil {
		return intentResponse{}, err
	}
	defer func() { _ = httpResp.Body.Close() }()
	if httpResp.StatusCode != http.StatusOK {
		return intentResponse{}, fmt.Errorf("渠道返回异常状态码 %d", httpResp.StatusCode)
	}
	var resp intentResponse
	err = json.NewDecoder(httpResp.Body).Decode(&resp)
	return resp, err
}
