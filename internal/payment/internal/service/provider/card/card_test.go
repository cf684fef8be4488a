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

package card

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ecodeclub/tably/internal/payment/internal/domain"
	"github.com/ecodeclub/tably/internal/payment/internal/service/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateIntent(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/intents", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var req createIntentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(850), req.Amount)
		assert.Equal(t, "EUR", req.Currency)
		_ = json.NewEncoder(w).Encode(intentResponse{ID: "pi_123", Status: "processing"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	intent, err := client.CreateIntent(context.Background(), domain.Payment{
		SN:          "payment-sn-1",
		TotalAmount: 850,
		Currency:    "EUR",
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.Reference)
}

func TestClient_QueryStatus(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/intents/pi_123", r.URL.Path)
		_ = json.NewEncoder(w).Encode(intentResponse{ID: "pi_123", Status: "succeeded"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	status, err := client.QueryStatus(context.Background(), "pi_123")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, status)
}

func TestClient_MapStatus(t *testing.T) {
	t.Parallel()
	client := NewClient("http://localhost", "test-key")

	testCases := []struct {
		providerStatus string
		want           domain.PaymentStatus
	}{
		{providerStatus: "succeeded", want: domain.PaymentStatusPaid},
		{providerStatus: "processing", want: domain.PaymentStatusPending},
		{providerStatus: "requires_payment_method", want: domain.PaymentStatusFailed},
		{providerStatus: "canceled", want: domain.PaymentStatusFailed},
		{providerStatus: "refunded", want: domain.PaymentStatusRefunded},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.providerStatus, func(t *testing.T) {
			status, err := client.MapStatus(tc.providerStatus)
			require.NoError(t, err)
			assert.Equal(t, tc.want, status)
		})
	}

	// 词表之外的状态被拒绝
	_, err := client.MapStatus("mystery_state")
	assert.ErrorIs(t, err, provider.ErrUnknownProviderStatus)
}
