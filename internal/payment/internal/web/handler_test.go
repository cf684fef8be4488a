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

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ecodeclub/tably/internal/payment/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventService struct {
	service.Service
	references []string
	statuses   []string
}

func (f *fakeEventService) HandleProviderEvent(_ context.Context, reference string, providerStatus string) error {
	f.references = append(f.references, reference)
	f.statuses = append(f.statuses, providerStatus)
	return nil
}

func newEventRequest(t *testing.T, authorization string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "/payment-events",
		bytes.NewBufferString(`{"reference": "pi_123", "status": "succeeded"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return req
}

func TestHandler_HandleProviderEvent_Authorized(t *testing.T) {
	t.Parallel()
	svc := &fakeEventService{}
	server := gin.New()
	NewHandler(svc, "test-key").PublicRoutes(server)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, newEventRequest(t, "Bearer test-key"))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []string{"pi_123"}, svc.references)
	assert.Equal(t, []string{"succeeded"}, svc.statuses)
}

func TestHandler_HandleProviderEvent_Unauthorized(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name          string
		authorization string
	}{
		{
			name: "缺少Authorization头",
		},
		{
			name:          "密钥不匹配",
			authorization: "Bearer wrong-key",
		},
		{
			name:          "裸密钥没有Bearer前缀",
			authorization: "test-key",
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := &fakeEventService{}
			server := gin.New()
			NewHandler(svc, "test-key").PublicRoutes(server)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, newEventRequest(t, tc.authorization))

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			// 鉴权失败不能触碰支付状态
			assert.Empty(t, svc.references)
		})
	}
}
