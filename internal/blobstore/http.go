// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CurePocket Authors

package blobstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/curepocket/pocketsync/internal/config"
	"github.com/curepocket/pocketsync/internal/logger"
	"github.com/curepocket/pocketsync/models"
)

type httpBlobStore struct {
	publisher  *resty.Client
	aggregator *resty.Client
	epochs     int

	logger *logger.Logger
}

// putResponse is the publisher's reply to a successful upload.
type putResponse struct {
	BlobID models.BlobID `json:"blob_id"`
}

// NewHTTPBlobStore constructs the HTTP implementation of [BlobStore] from the
// blob store configuration. Both endpoints get a bounded request timeout and
// exponential-backoff retries (3 attempts) against transient transport errors
// and 5xx responses; 4xx responses are never retried.
//
// Returns an error if either endpoint URL is empty or cannot be parsed.
func NewHTTPBlobStore(cfg config.Store, log *logger.Logger) (BlobStore, error) {
	publisherURL, err := normalizeBaseURL(cfg.PublisherURL)
	if err != nil {
		return nil, fmt.Errorf("invalid publisher address: %w", err)
	}
	aggregatorURL, err := normalizeBaseURL(cfg.AggregatorURL)
	if err != nil {
		return nil, fmt.Errorf("invalid aggregator address: %w", err)
	}

	return &httpBlobStore{
		publisher:  newStoreClient(publisherURL, cfg),
		aggregator: newStoreClient(aggregatorURL, cfg),
		epochs:     cfg.StorageEpochs,
		logger:     log,
	}, nil
}

func newStoreClient(baseURL string, cfg config.Store) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout).
		SetRetryCount(2).
		SetRetryWaitTime(config.DefaultRetryWait).
		SetRetryMaxWaitTime(config.DefaultRetryMaxWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
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

// Put implements [BlobStore]. It uploads data to the publisher and checks the
// returned address against the locally computed one, so a misbehaving
// publisher cannot hand back an address pointing at foreign content.
func (s *httpBlobStore) Put(ctx context.Context, data []byte) (models.BlobID, error) {
	resp, err := s.publisher.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetQueryParam("epochs", strconv.Itoa(s.epochs)).
		SetBody(data).
		Put("/v1/blobs")
	if err != nil {
		return "", fmt.Errorf("%w: put request: %w", ErrStoreUnavailable, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: publisher returned %d", ErrStoreUnavailable, resp.StatusCode())
	}

	var out putResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("decode publisher response: %w", err)
	}

	want := ComputeID(data)
	if out.BlobID != want {
		return "", fmt.Errorf("%w: publisher returned %q, computed %q", ErrIntegrityMismatch, out.BlobID, want)
	}

	s.logger.Debug().Str("blob_id", string(out.BlobID)).Int("size", len(data)).Msg("blob uploaded")
	return out.BlobID, nil
}

// Get implements [BlobStore]. Downloaded bytes are verified against id before
// they are returned.
func (s *httpBlobStore) Get(ctx context.Context, id models.BlobID) ([]byte, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty blob id", ErrBlobNotFound)
	}

	resp, err := s.aggregator.R().
		SetContext(ctx).
		Get("/v1/blobs/" + url.PathEscape(string(id)))
	if err != nil {
		return nil, fmt.Errorf("%w: get request: %w", ErrStoreUnavailable, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, id)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: aggregator returned %d", ErrStoreUnavailable, resp.StatusCode())
	}

	data := resp.Body()
	if ComputeID(data) != id {
		return nil, fmt.Errorf("%w: %s", ErrIntegrityMismatch, id)
	}

	return data, nil
}
