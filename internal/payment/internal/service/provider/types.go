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

package provider

import (
	"context"
	"errors"

	"github.com/ecodeclub/tably/internal/payment/internal/domain"
)

// ErrUnknownProviderStatus 渠道状态不在固定词表内
// 调用方应该拒绝整个通知，而不是猜测语义
var ErrUnknownProviderStatus = errors.New("未知的渠道支付状态")

// Client 屏蔽不同支付渠道的差异
//
//go:generate mockgen -source=./types.go -package=providermocks -destination=./mocks/provider.mock.go -typed Client
type Client interface {
	// CreateIntent 在渠道侧创建支付，返回渠道引用号
	CreateIntent(ctx context.Context, pmt domain.Payment) (Intent, error)
	// QueryStatus 主动对账，按渠道引用号查询当前状态
	QueryStatus(ctx context.Context, reference string) (domain.PaymentStatus, error)
	// MapStatus 把渠道的状态词表翻译成统一的支付状态
	MapStatus(providerStatus string) (domain.PaymentStatus, error)
}

type Intent struct {
	Reference string
	// CodeURL 扫码支付链接，只有钱包渠道会返回
	CodeURL string
}
