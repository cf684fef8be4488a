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

package domain

// StatusUpdate 推送给订阅方的一次状态变化
// 至少送达一次，断线重连的客户端先拉快照再续流
type StatusUpdate struct {
	OrderSN       string
	FromStatus    uint8
	ToStatus      uint8
	PaymentStatus uint8
	Actor         string
	Timestamp     int64
}
