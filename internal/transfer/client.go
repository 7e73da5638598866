// Package transfer wraps the external payout transfer service. The engine
// only ever creates transfers and polls their status; bank plumbing lives on
// the provider side.
package transfer

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"shelfspace-backend/internal/logger"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

type CreateRequest struct {
	IdempotencyKey string  `json:"idempotency_key"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	RecipientName  string  `json:"recipient_name"`
	RecipientIBAN  string  `json:"recipient_iban"`
	Description    string  `json:"description"`
}

type Transfer struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
}

type Client interface {
	CreateTransfer(ctx context.Context, req CreateRequest) (*Transfer, error)
	GetTransfer(ctx context.Context, id string) (*Transfer, error)
}

type restClient struct {
	http *resty.Client
}

func NewClient(baseURL, apiKey string) Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")
	return &restClient{http: http}
}

func (c *restClient) CreateTransfer(ctx context.Context, req CreateRequest) (*Transfer, error) {
	logger.ExternalServiceCall("transfer", "CreateTransfer", "idempotency_key", req.IdempotencyKey)

	var out Transfer
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", req.IdempotencyKey).
		SetBody(req).
		SetResult(&out).
		Post("/v1/transfers")
	logger.ExternalServiceResult("transfer", "CreateTransfer", err)
	if err != nil {
		return nil, fmt.Errorf("transfer service unreachable: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("transfer create failed: %s", resp.Status())
	}
	if out.ID == "" {
		return nil, fmt.Errorf("transfer service returned empty transfer id")
	}
	return &out, nil
}

func (c *restClient) GetTransfer(ctx context.Context, id string) (*Transfer, error) {
	var out Transfer
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v1/transfers/" + id)
	if err != nil {
		return nil, fmt.Errorf("transfer service unreachable: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("transfer lookup failed: %s", resp.Status())
	}
	return &out, nil
}
