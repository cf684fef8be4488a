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

package payment

import (
	"github.com/ecodeclub/tably/internal/payment/internal/domain"
	"github.com/ecodeclub/tably/internal/payment/internal/event"
	"github.com/ecodeclub/tably/internal/payment/internal/job"
	"github.com/ecodeclub/tably/internal/payment/internal/service"
	"github.com/ecodeclub/tably/internal/payment/internal/web"
)

type (
	Payment       = domain.Payment
	ChannelType   = domain.ChannelType
	PaymentStatus = domain.PaymentStatus
	Service       = service.Service
	PaymentEvent  = event.PaymentEvent
	Handler       = web.Handler
	WalletHandler = web.WalletHandler

	SyncProviderStatusJob = job.SyncProviderStatusJob
)

const (
	ChannelTypeCard   = domain.ChannelTypeCard
	ChannelTypeWallet = domain.ChannelTypeWallet

	PaymentStatusPending  = domain.PaymentStatusPending
	PaymentStatusPaid     = domain.PaymentStatusPaid
	PaymentStatusFailed   = domain.PaymentStatusFailed
	PaymentStatusRefunded = domain.PaymentStatusRefunded

	PaymentEventName = event.PaymentEventName
)

type Module struct {
	Svc       Service
	Hdl       *Handler
	WalletHdl *WalletHandler
	SyncJob   *job.SyncProviderStatusJob
}
