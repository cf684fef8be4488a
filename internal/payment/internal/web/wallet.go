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
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/tably/internal/payment/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
	"github.com/wechatpay-apiv3/wechatpay-go/core/notify"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments"
)

var _ ginx.Handler = (*WalletHandler)(nil)

// WalletHandler 钱包渠道的签名回调入口
type WalletHandler struct {
	handler *notify.Handler
	svc     service.Service
	l       *elog.Component
}

func NewWalletHandler(handler *notify.Handler, svc service.Service) *WalletHandler {
	return &WalletHandler{
		handler: handler,
		svc:     svc,
		l:       elog.DefaultLogger,
	}
}

func (h *WalletHandler) PrivateRoutes(_ *gin.Engine) {}

func (h *WalletHandler) PublicRoutes(server *gin.Engine) {
	server.Any("/payment/wallet/callback", ginx.W(h.HandleWalletCallback))
}

func (h *WalletHandler) HandleWalletCallback(ctx *ginx.Context) (ginx.Result, error) {
	transaction := &payments.Transaction{}
	_, err := h.handler.ParseNotifyRequest(ctx, ctx.Request, transaction)
	if err != nil {
		return ginx.Result{}, err
	}
	err = h.svc.HandleProviderEvent(ctx.Request.Context(), *transaction.OutTradeNo, *transaction.TradeState)
	return ginx.Result{}, err
}
