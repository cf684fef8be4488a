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

package sequencenumber

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Generate截断到32位
const expectedSNLength = 32

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()
	sng := NewGeneratorWith(
		func(_ time.Time) int64 { return 1234554320123 },
		func() string { return "nUfojcH2M5j2j3Tk5A1mf2" })

	testCases := []struct {
		name string
		id   int64
		// lastFour ID后四位，不足四位补零
		lastFour string
	}{
		{
			name:     "最小ID",
			id:       1,
			lastFour: "0001",
		},
		{
			name:     "后四位非零",
			id:       123456789,
			lastFour: "6789",
		},
		{
			name:     "四位上限",
			id:       9999,
			lastFour: "9999",
		},
		{
			name:     "后四位全零",
			id:       123450000,
			lastFour: "0000",
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			sn, err := sng.Generate(tc.id)

			require.NoError(t, err)
			assert.Len(t, sn, expectedSNLength)
			// 时间戳打头，后面跟ID后四位
			assert.True(t, strings.HasPrefix(sn, "1234554320123"+tc.lastFour))
		})
	}
}

func TestGenerator_GenerateWithRealClock(t *testing.T) {
	t.Parallel()
	sn, err := NewGenerator().Generate(123456789)
	require.NoError(t, err)
	assert.Len(t, sn, expectedSNLength)
	assert.Contains(t, sn, "6789")
}
