// Package document calls the external invoice document service. The service
// is opaque: it is handed a finalized invoice id and renders on its own.
package document

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultTimeout = 10 * time.Second

//go:generate mockgen -destination=mock/document_mock.go -package=mock . Client
type Client interface {
	Generate(ctx context.Context, companyID, invoiceID string) error
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient posts {company_id, invoice_id} to <baseURL>/invoices.
func NewHTTPClient(baseURL string, client *http.Client) Client {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &httpClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (c *httpClient) Generate(ctx context.Context, companyID, invoiceID string) error {
	body, err := json.Marshal(map[string]string{
		"company_id": companyID,
		"invoice_id": invoiceID,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/invoices", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", invoiceID)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("document service: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode == http.StatusConflict {
		// already generated for this invoice
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("document service: unexpected status %d", resp.StatusCode)
	}
	return nil
}

type noopClient struct {
	logger *zap.Logger
}

// NewNoop logs instead of calling out; used when no service URL is set.
func NewNoop(logger *zap.Logger) Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &noopClient{logger: logger.Named("document.noop")}
}

func (c *noopClient) Generate(_ context.Context, companyID, invoiceID string) error {
	c.logger.Info("document generation skipped",
		zap.String("company_id", companyID),
		zap.String("invoice_id", invoiceID),
	)
	return nil
}
