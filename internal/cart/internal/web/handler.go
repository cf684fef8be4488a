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

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/tably/internal/cart/internal/domain"
	"github.com/ecodeclub/tably/internal/cart/internal/service"
	"github.com/gin-gonic/gin"
)

var _ ginx.Handler = &Handler{}

type Handler struct {
	svc service.Service
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/cart")
	g.POST("/add", ginx.BS[AddItemReq](h.AddItem))
	g.POST("/update", ginx.BS[UpdateQuantityReq](h.UpdateQuantity))
	g.POST("/remove", ginx.BS[RemoveItemReq](h.RemoveItem))
	g.POST("/detail", ginx.S(h.Detail))
	g.POST("/reset", ginx.S(h.Reset))
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

func (h *Handler) AddItem(ctx *ginx.Context, req AddItemReq, sess session.Session) (ginx.Result, error) {
	cart, err := h.svc.AddItem(ctx.Request.Context(), sess.Claims().Uid, req.VenueID, req.ItemID, req.Quantity)
	switch {
	case errors.Is(err, service.ErrVenueMismatch):
		return venueMismatchResult, err
	case errors.Is(err, service.ErrItemUnavailable):
		return itemUnavailableResult, err
	case err != nil:
		return systemErrorResult, fmt.Errorf("加购失败: %w", err)
	}
	return ginx.Result{Data: CartResp{Cart: toCartVO(cart)}}, nil
}

func (h *Handler) UpdateQuantity(ctx *ginx.Context, req UpdateQuantityReq, sess session.Session) (ginx.Result, error) {
	cart, err := h.svc.UpdateQuantity(ctx.Request.Context(), sess.Claims().Uid, req.ItemID, req.Quantity)
	if err != nil {
		return systemErrorResult, fmt.Errorf("更新购物车失败: %w", err)
	}
	return ginx.Result{Data: CartResp{Cart: toCartVO(cart)}}, nil
}

func (h *Handler) RemoveItem(ctx *ginx.Context, req RemoveItemReq, sess session.Session) (ginx.Result, error) {
	cart, err := h.svc.RemoveItem(ctx.Request.Context(), sess.Claims().Uid, req.ItemID)
	if err != nil {
		return systemErrorResult, fmt.Errorf("移除商品失败: %w", err)
	}
	return ginx.Result{Data: CartResp{Cart: toCartVO(cart)}}, nil
}

func (h *Handler) Detail(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	cart, err := h.svc.Get(ctx.Request.Context(), sess.Claims().Uid)
	if err != nil {
		return systemErrorResult, fmt.Errorf("查询购物车失败: %w", err)
	}
	return ginx.Result{Data: CartResp{Cart: toCartVO(cart)}}, nil
}

func (h *Handler) Reset(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	err := h.svc.Clear(ctx.Request.Context(), sess.Claims().Uid)
	if err != nil {
		return systemErrorResult, fmt.Errorf("清空购物车失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func toCartVO(cart domain.Cart) Cart {
	var total int64
	for _, l := range cart.Lines {
		total += l.UnitPrice * l.Quantity
	}
	return Cart{
		VenueID: cart.VenueID,
		Lines: slice.Map(cart.Lines, func(idx int, src domain.CartLine) CartLine {
			return CartLine{
				ItemID:    src.ItemID,
				ItemSN:    src.ItemSN,
				Name:      src.Name,
				UnitPrice: src.UnitPrice,
				Quantity:  src.Quantity,
			}
		}),
		TotalAmount: total,
	}
}
