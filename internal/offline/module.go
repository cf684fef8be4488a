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

package offline

import (
	"github.com/ecodeclub/tably/internal/offline/internal/domain"
	"github.com/ecodeclub/tably/internal/offline/internal/service"
)

type (
	Record      = domain.Record
	RecordState = domain.RecordState
	Queue       = service.Queue
	Submitter   = service.Submitter
)

const (
	RecordStatePending   = domain.RecordStatePending
	RecordStateSynced    = domain.RecordStateSynced
	RecordStateAbandoned = domain.RecordStateAbandoned
)

type Module struct {
	Svc Queue
}
