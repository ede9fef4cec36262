package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cdc-ai/personaproxy/internal/config"
	"github.com/cdc-ai/personaproxy/internal/domain"
)

// ChatService relays chat requests to the inference server
type ChatService struct {
	cfg    config.InferenceConfig
	client *http.Client
}

// NewChatService creates a new chat service
func NewChatService(cfg config.InferenceConfig) *ChatService {
	return &ChatService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Chat forwards body unmodified and returns the upstream status and JSON body
func (s *ChatService) Chat(ctx context.Context, body domain.ChatPayload) (*domain.ChatResult, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: request body is not JSON", domain.ErrUpstream)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: inference request: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read inference response: %v", domain.ErrUpstream, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: inference returned non-JSON body (status %d)", domain.ErrUpstream, resp.StatusCode)
	}

	return &domain.ChatResult{StatusCode: resp.StatusCode, Body: data}, nil
}
