package payment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"qwiik/pkg/payment"

	"github.com/stretchr/testify/assert"
)

func sessionRequest() payment.SessionRequest {
	return payment.SessionRequest{
		LineItems: []payment.LineItem{
			{Name: "Mouse", UnitAmount: 1999, Quantity: 2},
		},
		SuccessURL: "http://localhost:8080/payment/success",
		CancelURL:  "http://localhost:8080/checkout/cancel",
		Metadata:   map[string]string{"order_id": "order-1"},
	}
}

func TestClient_CreateSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer test_key", r.Header.Get("Authorization"))

		var req payment.SessionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.LineItems, 1)
		assert.Equal(t, int64(1999), req.LineItems[0].UnitAmount)

		json.NewEncoder(w).Encode(map[string]string{
			"sessionId": "ps_123",
			"url":       "https://gateway.example.com/pay/ps_123",
		})
	}))
	defer server.Close()

	client := payment.NewClient(payment.Config{BaseURL: server.URL, APIKey: "test_key"})

	session, err := client.CreateSession(context.Background(), sessionRequest())
	assert.NoError(t, err)
	assert.Equal(t, "ps_123", session.SessionID)
	assert.Equal(t, "https://gateway.example.com/pay/ps_123", session.URL)
}

func TestClient_CreateSession_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid line items"})
	}))
	defer server.Close()

	client := payment.NewClient(payment.Config{BaseURL: server.URL, APIKey: "test_key"})

	_, err := client.CreateSession(context.Background(), sessionRequest())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid line items")
}

func TestClient_CreateSession_IncompleteResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Missing url; the session must not be trusted
		json.NewEncoder(w).Encode(map[string]string{"sessionId": "ps_123"})
	}))
	defer server.Close()

	client := payment.NewClient(payment.Config{BaseURL: server.URL, APIKey: "test_key"})

	_, err := client.CreateSession(context.Background(), sessionRequest())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete session")
}

func TestClient_CreateSession_RejectsInvalidRequest(t *testing.T) {
	client := payment.NewClient(payment.Config{BaseURL: "http://localhost:0", APIKey: "test_key"})

	// No line items
	req := sessionRequest()
	req.LineItems = nil
	_, err := client.CreateSession(context.Background(), req)
	assert.Error(t, err)

	// Missing redirect URLs
	req = sessionRequest()
	req.SuccessURL = ""
	_, err = client.CreateSession(context.Background(), req)
	assert.Error(t, err)
}
