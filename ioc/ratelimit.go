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

package ioc

import (
	"time"

	"github.com/ecodeclub/tably/internal/ratelimit"
	"github.com/gotomicro/ego/core/econf"
	"github.com/redis/go-redis/v9"
)

func InitGovernor(cmd redis.Cmdable) ratelimit.Governor {
	type Config struct {
		Max    int64         `yaml:"max"`
		Window time.Duration `yaml:"window"`
	}
	var cfg Config
	err := econf.UnmarshalKey("ratelimit.submit", &cfg)
	if err != nil {
		panic(err)
	}
	return ratelimit.NewGovernor(cmd, ratelimit.Policy{
		Max:    cfg.Max,
		Window: cfg.Window,
	})
}
