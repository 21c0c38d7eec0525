// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CurePocket Authors

// Package ledger holds the thin adapters between the sync core and the
// on-chain world: the wallet signing capability, the dynamic-field reads
// backing the metadata/entry registry, and the access-policy proof builder.
//
// The core never depends on a ledger SDK directly. Whatever ledger client the
// embedding application uses is injected behind [WalletSigner] and
// [DynamicFieldReader]; everything in this package stays testable with
// in-memory fakes.
package ledger

import (
	"context"

	"github.com/curepocket/pocketsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/ledger_mock.go -package=mock

// WalletSigner is the opaque wallet capability. Signing a personal message
// may suspend indefinitely while the user decides; implementations must honor
// ctx cancellation.
type WalletSigner interface {
	// Address returns the connected wallet address, or an empty string if
	// no wallet is connected.
	Address() string

	// SignPersonalMessage asks the wallet to sign message and returns the
	// signature. Returns an error if the user rejects or the wallet fails.
	SignPersonalMessage(ctx context.Context, message []byte) ([]byte, error)
}

// DynamicFieldReader reads one dynamic field of an on-chain object. A nil
// result with nil error means the field does not exist.
type DynamicFieldReader interface {
	ReadDynamicField(ctx context.Context, parentID, fieldName string) ([]byte, error)
}

// EntryRegistry resolves the on-chain Entry pointer for a
// (recordHolder, DataType) pair. Read-only: pointer commits are wallet-signed
// transactions driven by the embedding application, never by this library.
type EntryRegistry interface {
	// GetEntry returns the current Entry, or (nil, nil) when the holder has
	// never written this data type.
	GetEntry(ctx context.Context, recordHolderID string, dataType models.DataType) (*models.Entry, error)
}
