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

// Cart 归属于单个会话, 显式传递, 不允许进程级单例
type Cart struct {
	SessionID int64
	VenueID   int64
	Lines     []CartLine
}

// CartLine 加购时刻的价格快照, 提交时以目录价为准重新校验
type CartLine struct {
	ItemID   int64
	ItemSN   string
	Name     string
	// UnitPrice 单位为分
	UnitPrice int64
	Quantity  int64
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
