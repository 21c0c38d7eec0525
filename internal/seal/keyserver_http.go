// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CurePocket Authors

package seal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/curepocket/pocketsync/internal/config"
	"github.com/curepocket/pocketsync/models"
)

type httpKeyServer struct {
	id     string
	client *resty.Client
}

type storeShareRequest struct {
	PolicyID string `json:"policy_id"`
	Ref      string `json:"ref"`
	Index    byte   `json:"index"`
	Share    []byte `json:"share"`
}

type fetchShareRequest struct {
	PolicyID    string             `json:"policy_id"`
	Ref         string             `json:"ref"`
	Certificate models.Certificate `json:"certificate"`
	Proof       []byte             `json:"proof"`
}

type fetchShareResponse struct {
	Index byte   `json:"index"`
	Share []byte `json:"share"`
}

// NewHTTPKeyServerClient constructs a [KeyServerClient] over the key server's
// HTTP surface. The normalized base URL doubles as the server id recorded in
// ciphertext share references.
func NewHTTPKeyServerClient(baseURL string, timeout time.Duration) (KeyServerClient, error) {
	normalized, err := normalizeServerURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid key server address: %w", err)
	}

	client := resty.New().
		SetBaseURL(normalized).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(config.DefaultRetryWait).
		SetRetryMaxWaitTime(config.DefaultRetryMaxWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &httpKeyServer{id: normalized, client: client}, nil
}

// NewHTTPKeyServerClients builds one client per configured key server URL.
func NewHTTPKeyServerClients(cfg config.Seal, timeout time.Duration) ([]KeyServerClient, error) {
	clients := make([]KeyServerClient, 0, len(cfg.KeyServerURLs))
	for _, raw := range cfg.KeyServerURLs {
		c, err := NewHTTPKeyServerClient(raw, timeout)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, nil
}

func normalizeServerURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// ID implements [KeyServerClient].
func (s *httpKeyServer) ID() string { return s.id }

// StoreShare implements [KeyServerClient].
func (s *httpKeyServer) StoreShare(ctx context.Context, policyID, ref string, index byte, share []byte) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(storeShareRequest{PolicyID: policyID, Ref: ref, Index: index, Share: share}).
		Post("/v1/shares")
	if err != nil {
		return fmt.Errorf("store share request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("key server returned %d", resp.StatusCode())
	}
	return nil
}

// FetchShare implements [KeyServerClient]. A 401/403 means the server
// rejected the capability or the access proof.
func (s *httpKeyServer) FetchShare(ctx context.Context, policyID, ref string, cert models.Certificate, proof []byte) (byte, []byte, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(fetchShareRequest{PolicyID: policyID, Ref: ref, Certificate: cert, Proof: proof}).
		Post("/v1/shares/fetch")
	if err != nil {
		return 0, nil, fmt.Errorf("fetch share request: %w", err)
	}
	switch {
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return 0, nil, fmt.Errorf("%w: key server rejected capability or proof", ErrDecryptionFailure)
	case resp.IsError():
		return 0, nil, fmt.Errorf("key server returned %d", resp.StatusCode())
	}

	var out fetchShareResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return 0, nil, fmt.Errorf("decode share response: %w", err)
	}
	return out.Index, out.Share, nil
}
