// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CurePocket Authors

// Package capability owns the decryption session-key lifecycle: creation via
// a wallet signature, single-flight sharing between concurrent callers,
// proactive renewal shortly before expiry, and immediate invalidation on
// expiry.
//
// Exactly one live capability exists per (wallet, namespace) pair within a
// Manager. Concurrent decrypt paths needing a capability await the same
// in-flight wallet prompt instead of racing to create duplicates.
package capability

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/curepocket/pocketsync/internal/config"
	"github.com/curepocket/pocketsync/internal/ledger"
	"github.com/curepocket/pocketsync/internal/logger"
	"github.com/curepocket/pocketsync/models"
)

// sessionMagic versions the byte message presented to the wallet for
// signature. The decryption network rebuilds the same bytes to verify the
// signature, so the layout is part of the protocol.
const sessionMagic = "curepocket-session/1"

// Manager implements the capability lifecycle. The zero value is not usable;
// construct via NewManager.
type Manager struct {
	signer           ledger.WalletSigner
	ttl              time.Duration
	renewalThreshold time.Duration

	logger *logger.Logger
	now    func() time.Time

	group singleflight.Group

	mu     sync.RWMutex
	caps   map[string]*models.Capability
	timers map[string]*time.Timer
	closed bool
}

// NewManager constructs a capability manager over the given wallet signer and
// session settings.
func NewManager(signer ledger.WalletSigner, cfg config.Session, log *logger.Logger) *Manager {
	return &Manager{
		signer:           signer,
		ttl:              cfg.TTL,
		renewalThreshold: cfg.RenewalThreshold,
		logger:           log,
		now:              time.Now,
		caps:             make(map[string]*models.Capability),
		timers:           make(map[string]*time.Timer),
	}
}

// SigningMessage builds the exact byte message the wallet signs for cap.
// Deterministic: magic, namespace, wallet, session public key, creation
// timestamp (unix ms), and TTL in minutes, each length-prefixed.
func SigningMessage(cap *models.Capability) []byte {
	buf := make([]byte, 0, 128)
	buf = packBytes(buf, []byte(sessionMagic))
	buf = packBytes(buf, []byte(cap.Namespace))
	buf = packBytes(buf, []byte(cap.Wallet))
	buf = packBytes(buf, cap.PublicKey())
	buf = binary.AppendUvarint(buf, uint64(cap.CreatedAt.UnixMilli()))
	buf = binary.AppendUvarint(buf, uint64(cap.TTL/time.Minute))
	return buf
}

func packBytes(buf, b []byte) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(b)))
	return append(buf, b...)
}

// Ensure returns a currently-valid capability for (wallet, namespace),
// creating one if none exists or the held one has expired. Creation may
// suspend indefinitely while the wallet prompts the user; concurrent callers
// share a single in-flight creation per (wallet, namespace).
func (m *Manager) Ensure(ctx context.Context, namespace string) (*models.Capability, error) {
	wallet, err := m.walletAddress()
	if err != nil {
		return nil, err
	}
	if namespace == "" {
		return nil, ErrNamespaceNotConfigured
	}

	key := wallet + "|" + namespace
	if cap := m.liveCapability(key); cap != nil {
		return cap, nil
	}

	v, err, _ := m.group.Do(key, func() (any, error) {
		// Another caller may have finished creation while we queued.
		if cap := m.liveCapability(key); cap != nil {
			return cap, nil
		}
		return m.create(ctx, wallet, namespace, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Capability), nil
}

// IsValid reports whether a live capability is currently held for the
// connected wallet and namespace. Intended for UI polling; protocol
// operations recheck validity lazily via Ensure.
func (m *Manager) IsValid(namespace string) bool {
	wallet, err := m.walletAddress()
	if err != nil {
		return false
	}
	return m.liveCapability(wallet+"|"+namespace) != nil
}

// Invalidate drops the capability held for namespace, forcing the next
// Ensure to request a fresh wallet signature.
func (m *Manager) Invalidate(namespace string) {
	wallet, err := m.walletAddress()
	if err != nil {
		return
	}
	key := wallet + "|" + namespace

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.caps, key)
	if t := m.timers[key]; t != nil {
		t.Stop()
		delete(m.timers, key)
	}
}

// Close stops all renewal timers. Held capabilities stay usable until their
// natural expiry but are no longer renewed.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	for key, t := range m.timers {
		t.Stop()
		delete(m.timers, key)
	}
}

func (m *Manager) walletAddress() (string, error) {
	if m.signer == nil {
		return "", ErrWalletNotConnected
	}
	wallet := m.signer.Address()
	if wallet == "" {
		return "", ErrWalletNotConnected
	}
	return wallet, nil
}

func (m *Manager) liveCapability(key string) *models.Capability {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if cap := m.caps[key]; cap.Valid(m.now()) {
		return cap
	}
	return nil
}

// create generates fresh session material, obtains the wallet signature, and
// stores the bound capability. A signing failure leaves any previously held
// capability untouched: still-valid material stays usable until true expiry.
func (m *Manager) create(ctx context.Context, wallet, namespace, key string) (*models.Capability, error) {
	cap, err := models.NewCapability(wallet, namespace, m.ttl, m.now())
	if err != nil {
		return nil, fmt.Errorf("create capability: %w", err)
	}

	sig, err := m.signer.SignPersonalMessage(ctx, SigningMessage(cap))
	if err != nil {
		m.dropIfExpired(key)
		return nil, fmt.Errorf("%w: %w", ErrSignatureRejected, err)
	}
	cap.BindSignature(sig)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.caps[key] = cap
	m.scheduleRenewalLocked(key, namespace, cap)

	m.logger.Debug().
		Str("namespace", namespace).
		Time("expires_at", cap.ExpiresAt()).
		Msg("capability created")
	return cap, nil
}

// dropIfExpired removes the stored capability for key only when it is no
// longer valid, so a failed renewal cannot kill still-good material.
func (m *Manager) dropIfExpired(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cap := m.caps[key]; cap != nil && !cap.Valid(m.now()) {
		delete(m.caps, key)
	}
}

// scheduleRenewalLocked arms the proactive renewal timer for cap. Must be
// called with m.mu held.
func (m *Manager) scheduleRenewalLocked(key, namespace string, cap *models.Capability) {
	if m.closed || m.renewalThreshold <= 0 {
		return
	}
	if t := m.timers[key]; t != nil {
		t.Stop()
	}

	fireIn := cap.ExpiresAt().Add(-m.renewalThreshold).Sub(m.now())
	if fireIn < 0 {
		fireIn = 0
	}

	m.timers[key] = time.AfterFunc(fireIn, func() {
		if err := m.renew(namespace, key); err != nil {
			// The old capability, if still valid, remains usable; the
			// next Ensure after expiry retries the wallet prompt.
			m.logger.Warn().Err(err).Str("namespace", namespace).Msg("capability renewal failed")
		}
	})
}

// renew forces creation of a replacement capability even while the current
// one is still valid. Used only by the renewal timer.
func (m *Manager) renew(namespace, key string) error {
	wallet, err := m.walletAddress()
	if err != nil {
		return err
	}

	_, err, _ = m.group.Do(key, func() (any, error) {
		return m.create(context.Background(), wallet, namespace, key)
	})
	return err
}
