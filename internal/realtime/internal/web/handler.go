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
	"encoding/json"
	"errors"
	"io"

	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/tably/internal/order"
	"github.com/ecodeclub/tably/internal/realtime/internal/domain"
	"github.com/ecodeclub/tably/internal/realtime/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
)

var _ ginx.Handler = (*Handler)(nil)

// Handler 订单状态的SSE订阅入口
// 快照走订单模块的detail接口，这里只负责增量流
type Handler struct {
	broadcaster *service.Broadcaster
	orderSvc    order.Service
	logger      *elog.Component
}

func NewHandler(broadcaster *service.Broadcaster, orderSvc order.Service) *Handler {
	return &Handler{
		broadcaster: broadcaster,
		orderSvc:    orderSvc,
		logger:      elog.DefaultLogger,
	}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	server.POST("/order/stream", ginx.BS[StreamRequest](h.Stream))
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

func (h *Handler) Stream(ctx *ginx.Context, req StreamRequest, sess session.Session) (ginx.Result, error) {
	ch := ctx.EventStreamResp()
	// 只能订阅自己的订单
	_, err := h.orderSvc.FindBySNAndPayer(ctx.Request.Context(), req.SN, sess.Claims().Uid)
	if errors.Is(err, order.ErrOrderNotFound) {
		ch <- h.buildMsg(ErrEvt, StatusUpdate{})
		return orderNotFoundResult, ginx.ErrNoResponse
	}
	if err != nil {
		ch <- h.buildMsg(ErrEvt, StatusUpdate{})
		return systemErrorResult, ginx.ErrNoResponse
	}

	sub := h.broadcaster.Subscribe(req.SN)
	defer h.broadcaster.Unsubscribe(sub)

	ctx.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Request.Context().Done():
			return false
		case evt, ok := <-sub.Events():
			if !ok {
				// 落后太多被广播器断开，客户端重新拉快照
				_, _ = w.Write(h.buildMsg(ResyncEvt, StatusUpdate{}))
				return false
			}
			_, _ = w.Write(h.buildMsg(UpdateEvt, toStatusUpdateVO(evt)))
			if order.OrderStatus(evt.ToStatus).IsTerminal() {
				return false
			}
			return true
		}
	})
	return ginx.Result{}, ginx.ErrNoResponse
}

func (h *Handler) buildMsg(typ string, update StatusUpdate) []byte {
	val, err := json.Marshal(Event{Type: typ, Data: update})
	if err != nil {
		h.logger.Error("序列化推送事件失败", elog.FieldErr(err))
	}
	val = append(val, '\n')
	return val
}

func toStatusUpdateVO(evt domain.StatusUpdate) StatusUpdate {
	return StatusUpdate{
		OrderSN:       evt.OrderSN,
		FromStatus:    evt.FromStatus,
		ToStatus:      evt.ToStatus,
		PaymentStatus: evt.PaymentStatus,
		Actor:         evt.Actor,
		Timestamp:     evt.Timestamp,
	}
}
