// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CurePocket Authors

package seal

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/corvus-ch/shamir"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/curepocket/pocketsync/internal/logger"
	"github.com/curepocket/pocketsync/models"
)

// sealGateway is the private implementation of [Gateway].
type sealGateway struct {
	servers  []KeyServerClient
	serverBy map[string]KeyServerClient

	logger *logger.Logger
	now    func() time.Time
}

// NewGateway constructs a [Gateway] over the given key servers. At least two
// servers are required: Shamir sharing needs a threshold of 2 or more, and a
// single server would hold the whole DEK.
func NewGateway(servers []KeyServerClient, log *logger.Logger) (Gateway, error) {
	if len(servers) < 2 {
		return nil, fmt.Errorf("seal gateway needs at least 2 key servers, got %d", len(servers))
	}

	byID := make(map[string]KeyServerClient, len(servers))
	for _, s := range servers {
		if _, dup := byID[s.ID()]; dup {
			return nil, fmt.Errorf("duplicate key server id %q", s.ID())
		}
		byID[s.ID()] = s
	}

	return &sealGateway{
		servers:  servers,
		serverBy: byID,
		logger:   log,
		now:      time.Now,
	}, nil
}

// Encrypt implements [Gateway].
func (g *sealGateway) Encrypt(ctx context.Context, plaintext []byte, policyID string, threshold int) (*Ciphertext, error) {
	if policyID == "" {
		return nil, fmt.Errorf("encrypt: empty policy id")
	}
	if threshold < 2 || threshold > len(g.servers) {
		return nil, fmt.Errorf("encrypt: threshold %d out of range [2, %d]", threshold, len(g.servers))
	}

	// 1. Generate a fresh DEK and seal the payload: blob = nonce || ciphertext.
	dek := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, dek); err != nil {
		return nil, fmt.Errorf("generate dek: %w", err)
	}

	block, err := aes.NewCipher(dek)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	blob := append(nonce, gcm.Seal(nil, nonce, plaintext, nil)...)

	// 2. Split the DEK t-of-n and hand one share to each key server.
	shares, err := shamir.Split(dek, len(g.servers), threshold)
	if err != nil {
		return nil, fmt.Errorf("split dek: %w", err)
	}

	indexes := make([]byte, 0, len(shares))
	for idx := range shares {
		indexes = append(indexes, idx)
	}
	sort.Slice(indexes, func(i, j int) bool { return indexes[i] < indexes[j] })

	refs := make([]ShareRef, len(indexes))
	grp, grpCtx := errgroup.WithContext(ctx)
	for i, idx := range indexes {
		server := g.servers[i]
		ref := uuid.NewString()
		refs[i] = ShareRef{ServerID: server.ID(), Ref: ref, Index: idx}

		share := shares[idx]
		grp.Go(func() error {
			if err := server.StoreShare(grpCtx, policyID, ref, idx, share); err != nil {
				return fmt.Errorf("%w: server %s: %w", ErrShareDistribution, server.ID(), err)
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	return &Ciphertext{
		Version:   CiphertextVersion,
		PolicyID:  policyID,
		Threshold: threshold,
		Shares:    refs,
		Blob:      blob,
	}, nil
}

// Decrypt implements [Gateway]. Share fetches tolerate individual server
// failures as long as threshold shares are recovered.
func (g *sealGateway) Decrypt(ctx context.Context, ct *Ciphertext, capability *models.Capability, proof []byte) ([]byte, error) {
	if !capability.Valid(g.now()) {
		return nil, ErrCapabilityInvalid
	}
	if len(proof) == 0 {
		return nil, fmt.Errorf("%w: missing access proof", ErrDecryptionFailure)
	}

	cert := capability.Certificate()
	collected := make(map[byte][]byte, ct.Threshold)
	var lastErr error

	for _, ref := range ct.Shares {
		if len(collected) == ct.Threshold {
			break
		}

		server, ok := g.serverBy[ref.ServerID]
		if !ok {
			lastErr = fmt.Errorf("unknown key server %q", ref.ServerID)
			continue
		}

		idx, share, err := server.FetchShare(ctx, ct.PolicyID, ref.Ref, cert, proof)
		if err != nil {
			g.logger.Warn().Err(err).Str("server", ref.ServerID).Msg("key server share fetch failed")
			lastErr = err
			continue
		}
		collected[idx] = share
	}

	if len(collected) < ct.Threshold {
		return nil, fmt.Errorf("%w: recovered %d of %d shares: %w", ErrDecryptionFailure, len(collected), ct.Threshold, lastErr)
	}

	dek, err := shamir.Combine(collected)
	if err != nil {
		return nil, fmt.Errorf("%w: combine shares: %w", ErrDecryptionFailure, err)
	}

	block, err := aes.NewCipher(dek)
	if err != nil {
		return nil, fmt.Errorf("%w: create cipher: %w", ErrDecryptionFailure, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: create gcm: %w", ErrDecryptionFailure, err)
	}

	nonceSize := gcm.NonceSize()
	if len(ct.Blob) < nonceSize {
		return nil, fmt.Errorf("%w: blob too short", ErrDecryptionFailure)
	}
	nonce, sealed := ct.Blob[:nonceSize], ct.Blob[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		// Tag mismatch: tampered blob or wrong share set.
		return nil, fmt.Errorf("%w: open envelope: %w", ErrDecryptionFailure, err)
	}

	return plaintext, nil
}
