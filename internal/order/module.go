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

package order

import (
	"github.com/ecodeclub/tably/internal/order/internal/domain"
	"github.com/ecodeclub/tably/internal/order/internal/event"
	"github.com/ecodeclub/tably/internal/order/internal/job"
	"github.com/ecodeclub/tably/internal/order/internal/service"
	"github.com/ecodeclub/tably/internal/order/internal/web"
)

type (
	Order             = domain.Order
	ValidationError   = domain.ValidationError
	RateLimitedError  = domain.RateLimitedError
	LineRejection     = domain.LineRejection
	OrderLine         = domain.OrderLine
	OrderStatus       = domain.OrderStatus
	PaymentStatus     = domain.PaymentStatus
	StatusEvent       = domain.StatusEvent
	Submission        = domain.Submission
	SubmissionLine    = domain.SubmissionLine
	OrderConfirmation = domain.OrderConfirmation
	Service           = service.Service
	Handler           = web.Handler
	AdminHandler      = web.AdminHandler
	OrderStatusEvent  = event.OrderStatusEvent

	CloseTimeoutOrdersJob = job.CloseTimeoutOrdersJob
	PaymentEventConsumer  = event.PaymentEventConsumer
)

const (
	OrderStatusPending   = domain.OrderStatusPending
	OrderStatusConfirmed = domain.OrderStatusConfirmed
	OrderStatusPreparing = domain.OrderStatusPreparing
	OrderStatusReady     = domain.OrderStatusReady
	OrderStatusCompleted = domain.OrderStatusCompleted
	OrderStatusCancelled = domain.OrderStatusCancelled

	OrderStatusEventName = event.OrderStatusEventName
)

var (
	ErrOrderNotFound     = service.ErrOrderNotFound
	ErrInvalidTransition = service.ErrInvalidTransition
	ErrStatusConflict    = service.ErrStatusConflict
)

type Module struct {
	Svc      Service
	Hdl      *Handler
	AdminHdl *AdminHandler
	CloseJob *job.CloseTimeoutOrdersJob
	// Consumer 消费payment_events
	Consumer *event.PaymentEventConsumer
}
