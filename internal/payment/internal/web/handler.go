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

package web

import (
	"errors"
	"fmt"

	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/tably/internal/payment/internal/service"
	"github.com/ecodeclub/tably/internal/payment/internal/service/provider"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
)

var _ ginx.Handler = (*Handler)(nil)

// Handler 卡渠道的 webhook 入口
type Handler struct {
	svc service.Service
	// webhookKey 和渠道约定的共享密钥，通知方带在Authorization头里
	webhookKey string
	l          *elog.Component
}

func NewHandler(svc service.Service, webhookKey string) *Handler {
	return &Handler{svc: svc, webhookKey: webhookKey, l: elog.DefaultLogger}
}

func (h *Handler) PrivateRoutes(_ *gin.Engine) {}

func (h *Handler) PublicRoutes(server *gin.Engine) {
	server.POST("/payment-events", ginx.B[ProviderEventReq](h.HandleProviderEvent))
}

func (h *Handler) HandleProviderEvent(ctx *ginx.Context, req ProviderEventReq) (ginx.Result, error) {
	// 公网入口，密钥对不上直接拒绝，谁都能发的通知不能用来改支付状态
	if ctx.GetHeader("Authorization") != "Bearer "+h.webhookKey {
		return ginx.Result{}, fmt.Errorf("%w: 渠道通知鉴权失败", ginx.ErrUnauthorized)
	}
	err := h.svc.HandleProviderEvent(ctx.Request.Context(), req.Reference, req.Status)
	if errors.Is(err, provider.ErrUnknownProviderStatus) {
		// 词表之外的状态拒绝整个通知
		return invalidProviderEventResult, err
	}
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Msg: "OK"}, nil
}
