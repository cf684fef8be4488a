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
	"fmt"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/tably/internal/catalog/internal/domain"
	"github.com/ecodeclub/tably/internal/catalog/internal/service"
	"github.com/gin-gonic/gin"
)

// AdminHandler 门店侧维护菜单价格和可售状态
type AdminHandler struct {
	svc service.Service
}

func NewAdminHandler(svc service.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/catalog")
	g.POST("/item/save", ginx.B[SaveItemReq](h.SaveItem))
	g.POST("/item/list", ginx.B[ListItemsReq](h.ListItems))
	g.POST("/item/detail", ginx.B[ItemDetailReq](h.ItemDetail))
	g.POST("/item/available", ginx.B[UpdateAvailabilityReq](h.UpdateAvailability))
}

func (h *AdminHandler) PublicRoutes(_ *gin.Engine) {}

func (h *AdminHandler) SaveItem(ctx *ginx.Context, req SaveItemReq) (ginx.Result, error) {
	id, err := h.svc.SaveItem(ctx.Request.Context(), domain.Item{
		ID:          req.Item.ID,
		SN:          req.Item.SN,
		VenueID:     req.Item.VenueID,
		Name:        req.Item.Name,
		Description: req.Item.Description,
		Price:       req.Item.Price,
		Currency:    req.Item.Currency,
		Available:   req.Item.Available,
	})
	if err != nil {
		return systemErrorResult, fmt.Errorf("保存商品失败: %w", err)
	}
	return ginx.Result{
		Data: SaveItemResp{ID: id},
	}, nil
}

func (h *AdminHandler) ListItems(ctx *ginx.Context, req ListItemsReq) (ginx.Result, error) {
	items, err := h.svc.ListItems(ctx.Request.Context(), req.VenueID, req.Offset, req.Limit)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: ListItemsResp{
			Items: slice.Map(items, func(idx int, src domain.Item) Item {
				return toItemVO(src)
			}),
		},
	}, nil
}

func (h *AdminHandler) ItemDetail(ctx *ginx.Context, req ItemDetailReq) (ginx.Result, error) {
	item, err := h.svc.FindItemBySN(ctx.Request.Context(), req.SN)
	if err != nil {
		return systemErrorResult, fmt.Errorf("商品未找到: %w", err)
	}
	return ginx.Result{
		Data: ItemDetailResp{Item: toItemVO(item)},
	}, nil
}

func (h *AdminHandler) UpdateAvailability(ctx *ginx.Context, req UpdateAvailabilityReq) (ginx.Result, error) {
	err := h.svc.UpdateAvailability(ctx.Request.Context(), req.ID, req.Available)
	if err != nil {
		return systemErrorResult, fmt.Errorf("更新商品可售状态失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func toItemVO(item domain.Item) Item {
	return Item{
		ID:          item.ID,
		SN:          item.SN,
		VenueID:     item.VenueID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Currency:    item.Currency,
		Available:   item.Available,
	}
}
