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
	"strconv"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/tably/internal/order/internal/domain"
	"github.com/ecodeclub/tably/internal/order/internal/errs"
	"github.com/ecodeclub/tably/internal/order/internal/service"
	"github.com/gin-gonic/gin"
)

var _ ginx.Handler = (*Handler)(nil)

type Handler struct {
	svc service.Service
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/order")
	g.POST("/submit", ginx.BS[SubmitOrderReq](h.Submit))
	g.POST("/detail", ginx.BS[OrderSNReq](h.Detail))
	g.POST("/list", ginx.BS[ListOrdersReq](h.List))
	g.POST("/cancel", ginx.BS[OrderSNReq](h.Cancel))
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

func (h *Handler) Submit(ctx *ginx.Context, req SubmitOrderReq, sess session.Session) (ginx.Result, error) {
	uid := sess.Claims().Uid
	confirmation, err := h.svc.Submit(ctx.Request.Context(), domain.Submission{
		ClientSubmissionID: req.ClientSubmissionID,
		PayerID:            uid,
		VenueID:            req.VenueID,
		ContactPhone:       req.ContactPhone,
		Channel:            req.Channel,
		Lines: slice.Map(req.Lines, func(idx int, src SubmitOrderLine) domain.SubmissionLine {
			return domain.SubmissionLine{
				ItemID:           src.ItemID,
				Quantity:         src.Quantity,
				ClaimedUnitPrice: src.ClaimedUnitPrice,
			}
		}),
	})

	var rateLimited *domain.RateLimitedError
	if errors.As(err, &rateLimited) {
		ctx.Header("Retry-After", strconv.Itoa(int(rateLimited.RetryAfter.Seconds())))
		return rateLimitedResult, err
	}
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return ginx.Result{
			Code: errs.ValidationFailed.Code,
			Msg:  errs.ValidationFailed.Msg,
			Data: slice.Map(validation.Rejections, func(idx int, src domain.LineRejection) LineRejectionVO {
				return LineRejectionVO{ItemID: src.ItemID, Reason: src.Reason}
			}),
		}, err
	}
	if errors.Is(err, service.ErrSubmissionFailed) {
		return submissionFailedResult, err
	}
	if err != nil {
		return systemErrorResult, fmt.Errorf("提交订单失败: %w", err)
	}
	return ginx.Result{Data: SubmitOrderResp{
		OrderSN:          confirmation.OrderSN,
		Status:           confirmation.Status.ToUint8(),
		PaymentStatus:    confirmation.PaymentStatus.ToUint8(),
		TotalAmount:      confirmation.TotalAmount,
		Currency:         confirmation.Currency,
		EstimatedReadyAt: confirmation.EstimatedReadyAt,
		PaymentSN:        confirmation.PaymentSN,
		CodeURL:          confirmation.CodeURL,
		RejectedLines: slice.Map(confirmation.RejectedLines, func(idx int, src domain.LineRejection) LineRejectionVO {
			return LineRejectionVO{ItemID: src.ItemID, Reason: src.Reason}
		}),
	}}, nil
}

func (h *Handler) Detail(ctx *ginx.Context, req OrderSNReq, sess session.Session) (ginx.Result, error) {
	order, err := h.svc.FindBySNAndPayer(ctx.Request.Context(), req.SN, sess.Claims().Uid)
	if errors.Is(err, service.ErrOrderNotFound) {
		return orderNotFoundResult, err
	}
	if err != nil {
		return systemErrorResult, fmt.Errorf("查询订单失败: %w", err)
	}
	return ginx.Result{Data: OrderDetailResp{Order: toOrderVO(order)}}, nil
}

func (h *Handler) List(ctx *ginx.Context, req ListOrdersReq, sess session.Session) (ginx.Result, error) {
	orders, err := h.svc.ListByPayer(ctx.Request.Context(), sess.Claims().Uid, req.Offset, req.Limit)
	if err != nil {
		return systemErrorResult, fmt.Errorf("查询订单列表失败: %w", err)
	}
	return ginx.Result{Data: ListOrdersResp{
		Orders: slice.Map(orders, func(idx int, src domain.Order) Order {
			return toOrderVO(src)
		}),
	}}, nil
}

func (h *Handler) Cancel(ctx *ginx.Context, req OrderSNReq, sess session.Session) (ginx.Result, error) {
	// 先确认订单属于当前用户
	_, err := h.svc.FindBySNAndPayer(ctx.Request.Context(), req.SN, sess.Claims().Uid)
	if errors.Is(err, service.ErrOrderNotFound) {
		return orderNotFoundResult, err
	}
	if err != nil {
		return systemErrorResult, fmt.Errorf("查询订单失败: %w", err)
	}
	err = h.svc.Cancel(ctx.Request.Context(), req.SN, "guest")
	switch {
	case errors.Is(err, service.ErrInvalidTransition):
		return invalidTransitionResult, err
	case errors.Is(err, service.ErrStatusConflict):
		return statusConflictResult, err
	case err != nil:
		return systemErrorResult, fmt.Errorf("取消订单失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func toOrderVO(order domain.Order) Order {
	return Order{
		SN:               order.SN,
		VenueID:          order.VenueID,
		TotalAmount:      order.TotalAmount,
		Currency:         order.Currency,
		Status:           order.Status.ToUint8(),
		PaymentStatus:    order.PaymentStatus.ToUint8(),
		RefundNeeded:     order.RefundNeeded,
		EstimatedReadyAt: order.EstimatedReadyAt,
		Ctime:            order.Ctime,
		Lines: slice.Map(order.Lines, func(idx int, src domain.OrderLine) OrderLine {
			return OrderLine{
				ItemID:    src.ItemID,
				ItemSN:    src.ItemSN,
				Name:      src.Name,
				UnitPrice: src.UnitPrice,
				Quantity:  src.Quantity,
			}
		}),
	}
}
