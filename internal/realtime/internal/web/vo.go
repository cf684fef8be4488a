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

const (
	// UpdateEvt 一次状态变化
	UpdateEvt = "update"
	// ResyncEvt 订阅方需要重新拉快照
	ResyncEvt = "resync"
	ErrEvt    = "error"
)

type StreamRequest struct {
	SN string `json:"sn"`
}

type Event struct {
	Type string       `json:"type"`
	Data StatusUpdate `json:"data"`
}

type StatusUpdate struct {
	OrderSN       string `json:"orderSn"`
	FromStatus    uint8  `json:"fromStatus"`
	ToStatus      uint8  `json:"toStatus"`
	PaymentStatus uint8  `json:"paymentStatus"`
	Actor         string `json:"actor"`
	Timestamp     int64  `json:"timestamp"`
}
