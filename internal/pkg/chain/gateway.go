// Package chain talks to the contract gateway fronting the TalkToEarn
// contract. The engine only sees opaque receipts; any chain (or a mock
// gateway) can sit behind this client.
package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gojek/heimdall/v7/httpclient"

	"talktoearn/internal/models"
)

type Gateway struct {
	client  *httpclient.Client
	baseURL string
}

func NewGateway(baseURL string, timeout time.Duration) *Gateway {
	return &Gateway{
		client: httpclient.NewClient(
			httpclient.WithHTTPTimeout(timeout),
			httpclient.WithRetryCount(1),
		),
		baseURL: baseURL,
	}
}

type lockStakeRequest struct {
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	DurationUnits int64   `json:"duration_units"`
	RewardAmount  float64 `json:"reward_amount"`
}

type confirmAcceptanceRequest struct {
	BountyRef string `json:"bounty_ref"`
}

func (gateway *Gateway) LockStake(ctx context.Context, category, description string, durationUnits int64, rewardAmount float64) (*models.TransactionReceipt, error) {
	return gateway.post(ctx, "/contract/lock-stake", lockStakeRequest{
		Category:      category,
		Description:   description,
		DurationUnits: durationUnits,
		RewardAmount:  rewardAmount,
	})
}

func (gateway *Gateway) ConfirmAcceptance(ctx context.Context, bountyRef string) (*models.TransactionReceipt, error) {
	return gateway.post(ctx, "/contract/confirm-acceptance", confirmAcceptanceRequest{BountyRef: bountyRef})
}

func (gateway *Gateway) post(ctx context.Context, path string, payload any) (*models.TransactionReceipt, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gateway.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := gateway.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("contract gateway %s: status %d", path, resp.StatusCode)
	}

	var receipt models.TransactionReceipt
	if err := json.Unmarshal(raw, &receipt); err != nil {
		return nil, err
	}
	receipt.Raw = raw
	return &receipt, nil
}
