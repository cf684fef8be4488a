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

type RecordState uint8

const (
	RecordStateUnknown RecordState = iota
	// RecordStatePending 还没同步到服务端
	RecordStatePending
	// RecordStateSynced 服务端已确认，幂等重复也算确认
	RecordStateSynced
	// RecordStateAbandoned 超过最大滞留时间，放弃重试，等用户处理
	RecordStateAbandoned
)

func (s RecordState) ToUint8() uint8 {
	return uint8(s)
}

// Record 离线暂存的下单请求
type Record struct {
	ID int64
	// ClientSubmissionID 入队时生成，幂等重放的依据
	ClientSubmissionID string
	// Payload 序列化后的下单请求
	Payload       []byte
	State         RecordState
	Attempts      int64
	LastAttemptAt int64
	Ctime         int64
	Utime         int64
}
