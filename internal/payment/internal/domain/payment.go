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

type ChannelType uint8

const (
	ChannelTypeCard ChannelType = iota + 1
	ChannelTypeWallet
)

func (c ChannelType) ToUint8() uint8 {
	return uint8(c)
}

type PaymentStatus uint8

const (
	PaymentStatusPending PaymentStatus = iota + 1
	PaymentStatusPaid
	PaymentStatusFailed
	PaymentStatusRefunded
)

func (s PaymentStatus) ToUint8() uint8 {
	return uint8(s)
}

// IsTerminal 已支付/已退款之后状态不再回退
// 支付失败还允许重试，所以不算终态
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusPaid || s == PaymentStatusRefunded
}

type Payment struct {
	ID      int64
	SN      string
	OrderID int64
	OrderSN string
	PayerID int64
	Channel ChannelType
	// ProviderReference 支付渠道侧的引用号
	// 卡渠道是 intent ID，钱包渠道是商户单号
	ProviderReference string
	// CodeURL 钱包渠道的扫码链接，不落库
	CodeURL     string
	TotalAmount int64
	Currency    string
	Status      PaymentStatus
	RetryCount  int32
	PaidAt      int64
	Deadline    int64
	Ctime       int64
	Utime       int64
}
