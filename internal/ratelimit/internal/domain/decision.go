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

import "time"

// Decision 单次准入判定的结果
type Decision struct {
	Allowed   bool
	Remaining int64
	// RetryAfter 仅在Allowed为false时有意义
	RetryAfter time.Duration
}

// Policy 固定窗口限流策略, 针对(identity, endpoint)
type Policy struct {
	Max    int64
	Window time.Duration
}
