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

// ProviderEventReq 卡渠道的异步通知
type ProviderEventReq struct {
	// Reference 渠道引用号，创建支付时渠道返回的 intent ID
	Reference string `json:"reference"`
	// Status 渠道状态词表内的状态
	Status string `json:"status"`
}
