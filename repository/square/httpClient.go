package squarerepo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"campuscloset/util/httpx"
)

const (
	ProductionURL = "https://connect.squareup.com"
	SandboxURL    = "https://connect.squareupsandbox.com"

	apiVersion = "2025-03-19"

	// Square rejects payment notes longer than this many characters.
	MaxNoteLen = 500
)

type httpRepo struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

// BaseURL maps the configured environment name to the Square API host.
func BaseURL(environment string) string {
	if environment == "production" {
		return ProductionURL
	}
	return SandboxURL
}

func NewHTTP(baseURL, accessToken string) Repo {
	return &httpRepo{baseURL: baseURL, accessToken: accessToken, client: httpx.Client()}
}

type squareError struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
}

func (r *httpRepo) CreatePayment(ctx context.Context, req CreatePaymentReq) (*Payment, error) {
	body := map[string]any{
		"source_id":       req.SourceID,
		"idempotency_key": req.IdempotencyKey,
		"amount_money": map[string]any{
			"amount":   req.AmountCents,
			"currency": req.Currency,
		},
		"note":         truncate(req.Note, MaxNoteLen),
		"reference_id": req.ReferenceID,
	}
	if req.BuyerEmail != "" {
		body["buyer_email_address"] = req.BuyerEmail
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v2/payments", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+r.accessToken)
	httpReq.Header.Set("Square-Version", apiVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	var out struct {
		Payment *struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"payment"`
		Errors []squareError `json:"errors"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		if resp.StatusCode >= 300 {
			return nil, &httpx.StatusError{Service: "square", Status: resp.StatusCode, Body: string(raw)}
		}
		return nil, fmt.Errorf("square: decode payment: %w", err)
	}

	if resp.StatusCode >= 300 {
		if len(out.Errors) > 0 && resp.StatusCode < 500 {
			e := out.Errors[0]
			return nil, &DeclinedError{Status: resp.StatusCode, Code: e.Code, Detail: e.Detail}
		}
		return nil, &httpx.StatusError{Service: "square", Status: resp.StatusCode, Body: string(raw)}
	}
	if out.Payment == nil || out.Payment.ID == "" {
		return nil, errors.New("square: empty payment id")
	}
	switch out.Payment.Status {
	case "COMPLETED", "APPROVED":
	default:
		return nil, &DeclinedError{Status: resp.StatusCode, Code: out.Payment.Status, Detail: "payment not completed"}
	}
	return &Payment{ID: out.Payment.ID, Status: out.Payment.Status}, nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
