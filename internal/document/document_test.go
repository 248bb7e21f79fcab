package document_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-fieldtime/internal/document"
)

func TestHTTPClient_Generate(t *testing.T) {
	var got map[string]string
	status := http.StatusAccepted
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/invoices", r.URL.Path)
		assert.Equal(t, "inv-1", r.Header.Get("Idempotency-Key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(status)
	}))
	defer srv.Close()

	c := document.NewHTTPClient(srv.URL+"/v1/", srv.Client())
	require.NoError(t, c.Generate(context.Background(), "co-1", "inv-1"))
	assert.Equal(t, map[string]string{"company_id": "co-1", "invoice_id": "inv-1"}, got)

	status = http.StatusConflict
	assert.NoError(t, c.Generate(context.Background(), "co-1", "inv-1"))

	status = http.StatusBadGateway
	assert.Error(t, c.Generate(context.Background(), "co-1", "inv-1"))
}

func TestNoop(t *testing.T) {
	assert.NoError(t, document.NewNoop(zap.NewNop()).Generate(context.Background(), "co", "inv"))
}
