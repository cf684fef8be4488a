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
	"github.com/ecodeclub/tably/internal/order/internal/domain"
	"github.com/ecodeclub/tably/internal/order/internal/service"
	"github.com/gin-gonic/gin"
)

var _ ginx.Handler = (*AdminHandler)(nil)

// AdminHandler 店员侧的订单操作
type AdminHandler struct {
	svc service.Service
}

func NewAdminHandler(svc service.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/order")
	g.POST("/advance", ginx.B[AdvanceOrderReq](h.Advance))
	g.POST("/cancel", ginx.B[OrderSNReq](h.Cancel))
	g.POST("/detail", ginx.B[OrderSNReq](h.Detail))
}

func (h *AdminHandler) PublicRoutes(_ *gin.Engine) {}

func (h *AdminHandler) Advance(ctx *ginx.Context, req AdvanceOrderReq) (ginx.Result, error) {
	err := h.svc.Advance(ctx.Request.Context(), req.SN, domain.OrderStatus(req.Status), "staff")
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		return orderNotFoundResult, err
	case errors.Is(err, service.ErrInvalidTransition):
		return invalidTransitionResult, err
	case errors.Is(err, service.ErrStatusConflict):
		// 并发修改，调用方刷新后重试
		return statusConflictResult, err
	case err != nil:
		return systemErrorResult, fmt.Errorf("推进订单状态失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *AdminHandler) Cancel(ctx *ginx.Context, req OrderSNReq) (ginx.Result, error) {
	err := h.svc.Cancel(ctx.Request.Context(), req.SN, "staff")
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		return orderNotFoundResult, err
	case errors.Is(err, service.ErrInvalidTransition):
		return invalidTransitionResult, err
	case errors.Is(err, service.ErrStatusConflict):
		return statusConflictResult, err
	case err != nil:
		return systemErrorResult, fmt.Errorf("取消订单失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *AdminHandler) Detail(ctx *ginx.Context, req OrderSNReq) (ginx.Result, error) {
	order, err := h.svc.FindBySN(ctx.Request.Context(), req.SN)
	if errors.Is(err, service.ErrOrderNotFound) {
		return orderNotFoundResult, err
	}
	if err != nil {
		return systemErrorResult, fmt.Errorf("查询订单失败: %w", err)
	}
	return ginx.Result{Data: OrderDetailResp{Order: toOrderVO(order)}}, nil
}
