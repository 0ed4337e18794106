package httpexec

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connectgate/internal/connector"
	"connectgate/internal/domain"
)

func TestExchange_JSONSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"pay_123", "status":"Authorized"}`))
	}))
	defer srv.Close()

	exec := NewExecutor()
	raw, err := exec.Exchange(context.Background(), "checkout", domain.FlowAuthorize, Outbound{
		Method: http.MethodPost,
		URL:    srv.URL,
		Body:   connector.JSONBody{Value: map[string]string{"amount": "1000"}},
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, raw.Class)
	assert.Contains(t, string(raw.Body), "pay_123")
}

func TestExchange_ServerErrorClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream down"}`))
	}))
	defer srv.Close()

	exec := NewExecutor()
	raw, err := exec.Exchange(context.Background(), "checkout", domain.FlowAuthorize, Outbound{
		Method: http.MethodPost,
		URL:    srv.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeServerError, raw.Class)
}

func TestExchange_XMLResponseFlattened(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`<txn><ssl_result>0</ssl_result><ssl_txn_id>TXN1</ssl_txn_id></txn>`))
	}))
	defer srv.Close()

	exec := NewExecutor()
	raw, err := exec.Exchange(context.Background(), "elavon", domain.FlowAuthorize, Outbound{
		Method: http.MethodPost,
		URL:    srv.URL,
		Body:   connector.FormURLEncodedBody{Fields: map[string]string{"xmldata": "<txn/>"}},
	})
	require.NoError(t, err)
	assert.Contains(t, string(raw.Body), "TXN1")
	assert.Contains(t, string(raw.Body), "ssl_result")
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, Classify(200))
	assert.Equal(t, OutcomeClientError, Classify(404))
	assert.Equal(t, OutcomeServerError, Classify(502))
}
