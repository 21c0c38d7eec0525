// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CurePocket Authors

// Package blobstore provides the client for the decentralized
// content-addressed blob store.
//
// Writes go through a publisher endpoint that performs the signed
// register/upload/certify round trip on the caller's behalf; reads go through
// an anonymous aggregator endpoint. Content addresses are derived from blob
// bytes, so a fetched blob can always be verified against its address.
package blobstore

import (
	"context"

	"github.com/curepocket/pocketsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/blob_store_mock.go -package=mock

// BlobStore defines content-addressed access to the decentralized storage
// network. Blobs are immutable: Put of identical bytes yields the identical
// address, and an address can never be repointed.
type BlobStore interface {
	// Put uploads data through the publisher and returns its content
	// address. The publisher's register/upload/certify round trip happens
	// server-side; a non-2xx publisher response is surfaced as an error.
	Put(ctx context.Context, data []byte) (models.BlobID, error)

	// Get downloads the blob at id through the aggregator and verifies the
	// received bytes against the address. Returns [ErrBlobNotFound] if the
	// store cannot resolve id, or [ErrIntegrityMismatch] if the bytes do
	// not hash to id.
	Get(ctx context.Context, id models.BlobID) ([]byte, error)
}
