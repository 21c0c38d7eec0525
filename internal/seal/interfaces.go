// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CurePocket Authors

// Package seal wraps the threshold encryption network behind a small
// encrypt/decrypt gateway.
//
// Plaintext is sealed under a policy identifier with an envelope scheme: a
// random data-encryption key (DEK) encrypts the payload with AES-256-GCM, and
// the DEK is split t-of-n with Shamir secret sharing across the configured
// key servers. Decryption presents a certified capability plus an
// access-policy proof to the key servers; each server verifies eligibility
// before releasing its share. The cryptographic policy enforcement itself is
// the key servers' concern, not this package's.
package seal

import (
	"context"

	"github.com/curepocket/pocketsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/seal_mock.go -package=mock

// Gateway is the encryption gateway consumed by the sync orchestrator.
type Gateway interface {
	// Encrypt seals plaintext under policyID. threshold is the minimum
	// number of key-server shares required to decrypt; it must be at least
	// 2 and at most the number of configured key servers. The returned
	// ciphertext object is self-describing and safe to store publicly.
	Encrypt(ctx context.Context, plaintext []byte, policyID string, threshold int) (*Ciphertext, error)

	// Decrypt recovers the plaintext of ct. capability must be valid at
	// call time and proof must be the access-policy proof bytes for ct's
	// policy id; both are forwarded to the key servers, which verify them
	// before releasing shares. Returns [ErrDecryptionFailure] if fewer than
	// threshold shares can be recovered or the envelope fails to open.
	Decrypt(ctx context.Context, ct *Ciphertext, capability *models.Capability, proof []byte) ([]byte, error)
}

// KeyServerClient is the transport to one key server of the threshold
// network.
type KeyServerClient interface {
	// ID identifies the server inside ciphertext share references.
	ID() string

	// StoreShare registers one DEK share under (policyID, ref) during
	// encryption.
	StoreShare(ctx context.Context, policyID, ref string, index byte, share []byte) error

	// FetchShare retrieves the share stored under (policyID, ref). The
	// certificate and proof let the server verify the requester's
	// eligibility; a refusal is an error.
	FetchShare(ctx context.Context, policyID, ref string, cert models.Certificate, proof []byte) (index byte, share []byte, err error)
}
