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

package service

import (
	"context"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/tably/internal/catalog"
	"github.com/ecodeclub/tably/internal/order/internal/domain"
	"github.com/gotomicro/ego/core/elog"
)

// CatalogValidator 用目录现价校验提交的每一行
// 金额一律以目录为准，客户端报价只用来发现价格漂移
type CatalogValidator struct {
	catalogSvc catalog.Service
	l          *elog.Component
}

func NewCatalogValidator(catalogSvc catalog.Service) *CatalogValidator {
	return &CatalogValidator{
		catalogSvc: catalogSvc,
		l:          elog.DefaultLogger.With(elog.FieldComponent("order.validator")),
	}
}

// ValidationResult 校验结果
// 被拒绝的行放在Rejections里，剩余行照常下单
type ValidationResult struct {
	Lines       []domain.OrderLine
	TotalAmount int64
	Currency    string
	Rejections  []domain.LineRejection
}

// Validate 逐行拒绝，不整单失败
// 只有所有行都被拒绝时才返回*domain.ValidationError，带上逐行原因
func (v *CatalogValidator) Validate(ctx context.Context, venueID int64, lines []domain.SubmissionLine) (ValidationResult, error) {
	if len(lines) == 0 {
		return ValidationResult{}, &domain.ValidationError{
			Rejections: []domain.LineRejection{{Reason: "订单不能为空"}},
		}
	}
	ids := slice.Map(lines, func(idx int, src domain.SubmissionLine) int64 {
		return src.ItemID
	})
	items, err := v.catalogSvc.FindByIDs(ctx, venueID, ids)
	if err != nil {
		return ValidationResult{}, err
	}
	itemMap := make(map[int64]catalog.Item, len(items))
	for _, item := range items {
		itemMap[item.ID] = item
	}

	var (
		rejections []domain.LineRejection
		orderLines = make([]domain.OrderLine, 0, len(lines))
		total      int64
		currency   string
	)
	for _, line := range lines {
		if line.Quantity <= 0 {
			rejections = append(rejections, domain.LineRejection{
				ItemID: line.ItemID,
				Reason: "数量必须大于0",
			})
			continue
		}
		item, ok := itemMap[line.ItemID]
		if !ok {
			rejections = append(rejections, domain.LineRejection{
				ItemID: line.ItemID,
				Reason: "商品不存在或不属于该门店",
			})
			continue
		}
		if !item.Available {
			rejections = append(rejections, domain.LineRejection{
				ItemID: line.ItemID,
				Reason: "商品已下架",
			})
			continue
		}
		if line.ClaimedUnitPrice != 0 && line.ClaimedUnitPrice != item.Price {
			// 客户端缓存的价格过期了，按目录现价下单
			v.l.Warn("客户端报价与目录不一致",
				elog.Int64("item_id", item.ID),
				elog.Int64("claimed", line.ClaimedUnitPrice),
				elog.Int64("current", item.Price),
			)
		}
		orderLines = append(orderLines, domain.OrderLine{
			ItemID:    item.ID,
			ItemSN:    item.SN,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  line.Quantity,
		})
		total += item.Price * line.Quantity
		currency = item.Currency
	}
	if len(orderLines) == 0 {
		// 没有任何行能下单才算整单失败
		return ValidationResult{}, &domain.ValidationError{Rejections: rejections}
	}
	return ValidationResult{
		Lines:       orderLines,
		TotalAmount: total,
		Currency:    currency,
		Rejections:  rejections,
	}, nil
}
