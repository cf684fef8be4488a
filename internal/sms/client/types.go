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

package client

import (
	"errors"
)

const (
	OK = "Ok"
)

var (
	ErrSendFailed       = errors.New("发送短信失败")
	ErrInvalidParameter = errors.New("参数无效")
)

// Client 短信客户端接口 (抽象)
//
//go:generate mockgen -source=./types.go -destination=./mocks/sms.mock.go -package=smsmocks -typed Client
type Client interface {
	// Send 发送短信
	Send(req SendReq) (SendResp, error)
}

// SendReq 发送短信请求参数
type SendReq struct {
	PhoneNumbers  []string          // 手机号码, 阿里云、腾讯云共用
	SignName      string            // 签名名称, 阿里云、腾讯云共用
	TemplateID    string            // 模板 ID, 阿里云、腾讯云共用
	TemplateParam map[string]string // 模板参数, 阿里云、腾讯云共用, key-value 形式
}

// SendResp 发送短信响应参数
type SendResp struct {
	RequestID    string                    // 请求 ID,      阿里云、腾讯云共用
	PhoneNumbers map[string]SendRespStatus // 去掉+86后的手机号
}

type SendRespStatus struct {
	Code    string
	Message string
}
