// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CurePocket Authors

// Package service implements the sync orchestrator: the write path that
// partitions, encrypts, and uploads record sets as blob chains, and the read
// path that resolves, decrypts, and merges them back. The orchestrator never
// signs or submits ledger transactions; it returns the pointer update the
// embedding application must commit.
package service

import (
	"context"

	"github.com/curepocket/pocketsync/internal/ledger"
	"github.com/curepocket/pocketsync/models"
)

// SyncService is the public surface of the sync orchestrator.
type SyncService interface {
	// WriteDataType serialises, encrypts, and uploads records as the new
	// blob chain for (recordHolderID, dataType), then returns the Entry
	// pointer the caller must commit on-chain. Records replace the prior
	// chain wholesale; callers wanting add semantics read first and pass
	// the merged set. No partial chain is ever observable: the metadata
	// blob uploads only after every data blob succeeded.
	WriteDataType(ctx context.Context, recordHolderID string, dataType models.DataType, records []models.Record) (*models.EntryUpdate, error)

	// ReadDataType resolves the current blob chain for
	// (recordHolderID, dataType), decrypts it, and returns the merged
	// records in chain order. A holder who never wrote the data type
	// yields (nil, nil). An unreadable data blob is skipped with a log
	// entry; an unreadable metadata blob fails the whole read.
	ReadDataType(ctx context.Context, recordHolderID string, dataType models.DataType, opts ...ReadOption) ([]models.Record, error)
}

// CapabilityProvider supplies the live decryption capability for a policy
// namespace. Satisfied by [capability.Manager].
type CapabilityProvider interface {
	Ensure(ctx context.Context, namespace string) (*models.Capability, error)
}

// ReadOption adjusts a single ReadDataType call.
type ReadOption func(*readOptions)

type readOptions struct {
	consent *ledger.ConsentGrant
}

// WithConsent reads on behalf of a delegated consent holder: the verified
// grant is packed into every access proof of the call, letting the decryption
// network check the delegation instead of direct ownership.
func WithConsent(grant *ledger.ConsentGrant) ReadOption {
	return func(o *readOptions) { o.consent = grant }
}
