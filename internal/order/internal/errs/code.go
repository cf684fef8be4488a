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

package errs

var (
	SystemError       = ErrorCode{Code: 511001, Msg: "系统错误"}
	ValidationFailed  = ErrorCode{Code: 511002, Msg: "订单校验失败"}
	RateLimited       = ErrorCode{Code: 511003, Msg: "提交过于频繁"}
	InvalidTransition = ErrorCode{Code: 511004, Msg: "非法的状态流转"}
	StatusConflict    = ErrorCode{Code: 511005, Msg: "订单状态已变化, 请刷新后重试"}
	SubmissionFailed  = ErrorCode{Code: 511006, Msg: "提交失败, 请稍后重试"}
	OrderNotFound     = ErrorCode{Code: 511007, Msg: "订单不存在"}
)

type ErrorCode struct {
	Code int
	Msg  string
}
