package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"wkmetrics/internal/server/config"
	"wkmetrics/internal/types"

	"go.uber.org/zap"
)

// EdgeClient reads and writes the dashboard document through the
// configured HTTP function endpoint
type EdgeClient struct {
	endpoint string
	token    string
	client   *http.Client
	logger   *zap.Logger
}

// edgeRequest is the function endpoint request envelope
type edgeRequest struct {
	Action string               `json:"action"`
	Key    string               `json:"key"`
	Data   *types.DashboardData `json:"data,omitempty"`
}

// edgeResponse is the function endpoint response envelope
type edgeResponse struct {
	Data  *types.DashboardData `json:"data"`
	Error string               `json:"error,omitempty"`
}

// NewEdgeClient creates a function endpoint client
func NewEdgeClient(cfg *config.DashboardConfig, logger *zap.Logger) *EdgeClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &EdgeClient{
		endpoint: cfg.FunctionEndpoint,
		token:    cfg.FunctionToken,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		logger: logger,
	}
}

// Load implements repository.DashboardRepository
func (c *EdgeClient) Load(ctx context.Context, key string) (*types.DashboardData, error) {
	resp, err := c.call(ctx, edgeRequest{Action: "get", Key: key})
	if err != nil {
		return nil, err
	}

	if resp.Data == nil {
		return nil, sql.ErrNoRows
	}

	return resp.Data, nil
}

// Store implements repository.DashboardRepository
func (c *EdgeClient) Store(ctx context.Context, key string, data *types.DashboardData) error {
	_, err := c.call(ctx, edgeRequest{Action: "upsert", Key: key, Data: data})
	return err
}

// call posts one request envelope to the function endpoint
func (c *EdgeClient) call(ctx context.Context, reqBody edgeRequest) (*edgeResponse, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal function request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create function request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("function call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read function response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("function returned status %d", resp.StatusCode)
	}

	var parsed edgeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode function response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("function error: %s", parsed.Error)
	}

	return &parsed, nil
}
