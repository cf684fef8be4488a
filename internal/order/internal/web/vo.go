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

type SubmitOrderReq struct {
	// ClientSubmissionID 客户端生成的幂等键
	ClientSubmissionID string `json:"clientSubmissionId"`
	VenueID            int64  `json:"venueId"`
	// ContactPhone 取餐通知手机号，可以不填
	ContactPhone string `json:"contactPhone"`
	// Channel 支付渠道 1=银行卡 2=钱包
	Channel uint8             `json:"channel"`
	Lines   []SubmitOrderLine `json:"lines"`
}

type SubmitOrderLine struct {
	ItemID           int64 `json:"itemId"`
	Quantity         int64 `json:"quantity"`
	ClaimedUnitPrice int64 `json:"claimedUnitPrice"`
}

type SubmitOrderResp struct {
	OrderSN          string `json:"orderSn"`
	Status           uint8  `json:"status"`
	PaymentStatus    uint8  `json:"paymentStatus"`
	TotalAmount      int64  `json:"totalAmount"`
	Currency         string `json:"currency"`
	EstimatedReadyAt int64  `json:"estimatedReadyAt"`
	PaymentSN        string `json:"paymentSn"`
	CodeURL          string `json:"codeUrl,omitempty"`
	// RejectedLines 被逐行拒绝的商品，订单只含剩余行
	RejectedLines []LineRejectionVO `json:"rejectedLines,omitempty"`
}

type LineRejectionVO struct {
	ItemID int64  `json:"itemId"`
	Reason string `json:"reason"`
}

type OrderSNReq struct {
	SN string `json:"sn"`
}

type ListOrdersReq struct {
	Offset int `json:"offset,omitempty"`
	Limit  int `json:"limit,omitempty"`
}

type ListOrdersResp struct {
	Orders []Order `json:"orders"`
}

type OrderDetailResp struct {
	Order Order `json:"order"`
}

type Order struct {
	SN               string      `json:"sn"`
	VenueID          int64       `json:"venueId"`
	Lines            []OrderLine `json:"lines,omitempty"`
	TotalAmount      int64       `json:"totalAmount"`
	Currency         string      `json:"currency"`
	Status           uint8       `json:"status"`
	PaymentStatus    uint8       `json:"paymentStatus"`
	RefundNeeded     bool        `json:"refundNeeded"`
	EstimatedReadyAt int64       `json:"estimatedReadyAt"`
	Ctime            int64       `json:"ctime"`
}

type OrderLine struct {
	ItemID    int64  `json:"itemId"`
	ItemSN    string `json:"itemSn"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int64  `json:"quantity"`
}

type AdvanceOrderReq struct {
	SN string `json:"sn"`
	// Status 目标状态
	Status uint8 `json:"status"`
}
