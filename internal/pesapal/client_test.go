package pesapal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGatewayStub(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", "test-secret"), srv
}

func TestAuthenticate(t *testing.T) {
	t.Run("Successful token exchange", func(t *testing.T) {
		client, _ := newGatewayStub(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/Auth/RequestToken", r.URL.Path)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "test-key", body["consumer_key"])
			assert.Equal(t, "test-secret", body["consumer_secret"])

			json.NewEncoder(w).Encode(map[string]string{"token": "jwt-token-abc"})
		})

		token, err := client.Authenticate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "jwt-token-abc", token)
	})

	t.Run("Non-2xx response", func(t *testing.T) {
		client, _ := newGatewayStub(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := client.Authenticate(context.Background())
		assert.ErrorIs(t, err, ErrAuth)
	})

	t.Run("Empty token in response", func(t *testing.T) {
		client, _ := newGatewayStub(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"token": ""})
		})

		_, err := client.Authenticate(context.Background())
		assert.ErrorIs(t, err, ErrAuth)
	})

	t.Run("Unreachable gateway", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", "k", "s")

		_, err := client.Authenticate(context.Background())
		assert.ErrorIs(t, err, ErrAuth)
	})
}

func TestGetTransactionStatus(t *testing.T) {
	t.Run("Completed transaction", func(t *testing.T) {
		client, _ := newGatewayStub(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/Auth/RequestToken" {
				json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
				return
			}

			require.Equal(t, "/Transactions/GetTransactionStatus", r.URL.Path)
			assert.Equal(t, "TX-100", r.URL.Query().Get("orderTrackingId"))
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

			json.NewEncoder(w).Encode(map[string]interface{}{
				"payment_status_description": "COMPLETED",
				"status_code":                1,
				"amount":                     50.0,
				"currency":                   "UGX",
			})
		})

		status, err := client.GetTransactionStatus(context.Background(), "TX-100")
		require.NoError(t, err)
		assert.True(t, status.Confirmed())
		assert.Equal(t, "UGX", status.Currency)
	})

	t.Run("Auth failure propagates as ErrAuth", func(t *testing.T) {
		client, _ := newGatewayStub(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.GetTransactionStatus(context.Background(), "TX-100")
		assert.ErrorIs(t, err, ErrAuth)
	})

	t.Run("Status endpoint failure is ErrGateway", func(t *testing.T) {
		client, _ := newGatewayStub(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/Auth/RequestToken" {
				json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
				return
			}
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.GetTransactionStatus(context.Background(), "TX-100")
		assert.ErrorIs(t, err, ErrGateway)
	})
}

func TestTransactionStatusConfirmed(t *testing.T) {
	tests := []struct {
		name      string
		status    TransactionStatus
		confirmed bool
	}{
		{"Description COMPLETED", TransactionStatus{PaymentStatusDescription: "COMPLETED"}, true},
		{"Status code 1", TransactionStatus{StatusCode: 1}, true},
		{"Both signals", TransactionStatus{PaymentStatusDescription: "COMPLETED", StatusCode: 1}, true},
		{"Pending", TransactionStatus{PaymentStatusDescription: "PENDING", StatusCode: 0}, false},
		{"Failed", TransactionStatus{PaymentStatusDescription: "FAILED", StatusCode: 2}, false},
		{"Empty", TransactionStatus{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.confirmed, tt.status.Confirmed())
		})
	}
}

func TestSubmitOrder(t *testing.T) {
	t.Run("Successful submission", func(t *testing.T) {
		client, _ := newGatewayStub(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/Auth/RequestToken" {
				json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
				return
			}

			require.Equal(t, "/Transactions/SubmitOrderRequest", r.URL.Path)

			var order OrderRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&order))
			assert.Equal(t, "UGX", order.Currency)

			json.NewEncoder(w).Encode(OrderResponse{
				OrderTrackingID: "TX-200",
				RedirectURL:     "https://pay.example.com/TX-200",
			})
		})

		resp, err := client.SubmitOrder(context.Background(), &OrderRequest{
			ID:          "JOBPOP-1-1700000000",
			Currency:    "UGX",
			Amount:      "50.00",
			Description: "Monthly Plan",
		})
		require.NoError(t, err)
		assert.Equal(t, "TX-200", resp.OrderTrackingID)
		assert.NotEmpty(t, resp.RedirectURL)
	})

	t.Run("Missing tracking id", func(t *testing.T) {
		client, _ := newGatewayStub(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/Auth/RequestToken" {
				json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
				return
			}
			json.NewEncoder(w).Encode(OrderResponse{})
		})

		_, err := client.SubmitOrder(context.Background(), &OrderRequest{})
		assert.ErrorIs(t, err, ErrGateway)
	})
}

func TestRegisterIPN(t *testing.T) {
	client, _ := newGatewayStub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/Auth/RequestToken" {
			json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
			return
		}

		require.Equal(t, "/URLSetup/RegisterIPNURL", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "POST", body["ipn_notification_type"])

		json.NewEncoder(w).Encode(IPNRegistration{
			URL:   body["url"],
			IPNID: "ipn-001",
		})
	})

	reg, err := client.RegisterIPN(context.Background(), "https://api.jobpop.app/api/subscription/ipn")
	require.NoError(t, err)
	assert.Equal(t, "ipn-001", reg.IPNID)
}
