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

package ratelimit

import (
	"github.com/ecodeclub/tably/internal/ratelimit/internal/domain"
	"github.com/ecodeclub/tably/internal/ratelimit/internal/service"
	"github.com/redis/go-redis/v9"
)

type (
	Decision = domain.Decision
	Policy   = domain.Policy
	Governor = service.Governor
)

func NewGovernor(cmd redis.Cmdable, policy Policy) Governor {
	return service.NewGovernor(cmd, policy)
}
