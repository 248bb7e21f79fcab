package offlinequeue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go-fieldtime/internal/middleware"
	"go-fieldtime/internal/shared/apperror"
	"go-fieldtime/internal/timeentry"
)

const DefaultHTTPTimeout = 15 * time.Second

// HTTPTransport posts items to the clock endpoints with the item's client
// event id as the Idempotency-Key.
type HTTPTransport struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPTransport(baseURL, token string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
	}
}

type envelope struct {
	Ok    bool                    `json:"ok"`
	Data  timeentry.ClockResponse `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (t *HTTPTransport) Send(ctx context.Context, it *Item, p Payload) (Receipt, error) {
	path, body, err := t.request(it, p)
	if err != nil {
		return Receipt{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return Receipt{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.IdempotencyHeader, it.ClientEventID)
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return Receipt{}, apperror.Wrap(err, apperror.CodeUnavailable, "clock endpoint unreachable", http.StatusServiceUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Receipt{}, apperror.Wrap(err, apperror.CodeUnavailable, "read clock response", http.StatusServiceUnavailable)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if decodeErr != nil || env.Data.Entry.ID == "" {
			return Receipt{}, apperror.New(apperror.CodeUnavailable, "malformed clock response", http.StatusServiceUnavailable)
		}
		return Receipt{EntryID: env.Data.Entry.ID, Replayed: env.Data.Replayed}, nil
	}
	return Receipt{}, classify(resp.StatusCode, env, decodeErr)
}

func (t *HTTPTransport) request(it *Item, p Payload) (string, []byte, error) {
	var loc *timeentry.LocationFix
	if p.Latitude != nil && p.Longitude != nil {
		loc = &timeentry.LocationFix{Latitude: *p.Latitude, Longitude: *p.Longitude}
		if p.Accuracy != nil {
			loc.Accuracy = *p.Accuracy
		}
	}

	switch it.Kind {
	case KindClockIn:
		body, err := json.Marshal(timeentry.ClockInRequest{
			CompanyID:  it.CompanyID,
			JobID:      p.JobID,
			Location:   loc,
			OccurredAt: p.OccurredAt,
		})
		return "/time-entries/clock-in", body, err
	case KindClockOut:
		body, err := json.Marshal(timeentry.ClockOutRequest{
			CompanyID:      it.CompanyID,
			EntryID:        p.EntryID,
			ClockInEventID: p.ClockInEventID,
			Location:       loc,
			OccurredAt:     p.OccurredAt,
		})
		return "/time-entries/clock-out", body, err
	}
	return "", nil, fmt.Errorf("%w: %q", ErrInvalidKind, it.Kind)
}

// classify turns a non-2xx answer into an AppError. Throttling, a concurrent
// duplicate still in progress and proxy failures without an envelope are
// reported as UNAVAILABLE so the syncer retries them.
func classify(status int, env envelope, decodeErr error) error {
	if decodeErr == nil && env.Error != nil && env.Error.Code != "" {
		switch env.Error.Code {
		case "PROCESSING", "RATE_LIMITED":
			return apperror.New(apperror.CodeUnavailable, env.Error.Message, http.StatusServiceUnavailable)
		}
		return apperror.New(env.Error.Code, env.Error.Message, status)
	}
	if status == http.StatusTooManyRequests || status >= 500 {
		return apperror.New(apperror.CodeUnavailable, http.StatusText(status), http.StatusServiceUnavailable)
	}
	return apperror.New(apperror.CodeInternalError, "unexpected clock response: "+http.StatusText(status), status)
}
