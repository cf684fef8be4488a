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

import (
	"fmt"
	"time"
)

// RateLimitedError 限流拒绝，RetryAfter告诉客户端多久之后再试
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("提交过于频繁, %s后重试", e.RetryAfter)
}

type LineRejection struct {
	ItemID int64
	Reason string
}

// ValidationError 整单失败时的逐行明细，客户端据此修正购物车
// 只有提交为空或所有行都被拒绝时才出现，部分拒绝走OrderConfirmation.RejectedLines
type ValidationError struct {
	Rejections []LineRejection
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("订单校验失败, %d个商品被拒绝", len(e.Rejections))
}
