// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CurePocket Authors

package models

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Capability is a short-lived, wallet-signed decryption credential ("session
// key"). It lives only in process memory and is never persisted. A capability
// is bound to one wallet identity and one policy namespace; the wallet
// signature over the session material is what the decryption network verifies
// before releasing key shares.
type Capability struct {
	// SessionID uniquely identifies this capability instance.
	SessionID string

	// Wallet is the address of the wallet that signed the session material.
	Wallet string

	// Namespace is the policy package the capability is valid for.
	Namespace string

	CreatedAt time.Time
	TTL       time.Duration

	// Signature is the wallet's signature over the session message bytes.
	// Empty until bound via BindSignature.
	Signature []byte

	// sessionKey is the ephemeral private half of the session key pair.
	// Kept unexported so it cannot leak through serialisation.
	sessionKey ed25519.PrivateKey
}

// NewCapability generates fresh session material for (wallet, namespace):
// a random session id and an ephemeral ed25519 key pair. The capability is
// not usable for decryption until a wallet signature has been bound.
func NewCapability(wallet, namespace string, ttl time.Duration, now time.Time) (*Capability, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate session key: %w", err)
	}

	return &Capability{
		SessionID:  uuid.NewString(),
		Wallet:     wallet,
		Namespace:  namespace,
		CreatedAt:  now,
		TTL:        ttl,
		sessionKey: priv,
	}, nil
}

// Valid reports whether the capability is still usable at the given instant:
// it must carry a wallet signature and now must precede CreatedAt+TTL.
func (c *Capability) Valid(now time.Time) bool {
	if c == nil || len(c.Signature) == 0 {
		return false
	}
	return now.Before(c.ExpiresAt())
}

// ExpiresAt returns the instant at which the capability stops being valid.
func (c *Capability) ExpiresAt() time.Time {
	return c.CreatedAt.Add(c.TTL)
}

// PublicKey returns the public half of the ephemeral session key pair. These
// are the bytes the wallet signature commits to.
func (c *Capability) PublicKey() ed25519.PublicKey {
	return c.sessionKey.Public().(ed25519.PublicKey)
}

// BindSignature attaches the wallet's signature over the session message,
// completing capability creation.
func (c *Capability) BindSignature(sig []byte) {
	c.Signature = append([]byte(nil), sig...)
}

// SignRequest signs msg with the ephemeral session key. Key servers use this
// to tie individual share requests to the certified session.
func (c *Capability) SignRequest(msg []byte) []byte {
	return ed25519.Sign(c.sessionKey, msg)
}

// Certificate is the wire form of a capability presented to key servers.
// It carries only public material: the session public key, the identifying
// fields, and the wallet signature. The private session key never leaves the
// client.
type Certificate struct {
	SessionID  string `json:"session_id"`
	Wallet     string `json:"wallet"`
	Namespace  string `json:"namespace"`
	SessionKey []byte `json:"session_key"`
	CreatedAt  int64  `json:"created_at"`
	TTLMinutes int    `json:"ttl_min"`
	Signature  []byte `json:"signature"`
}

// Certificate returns the presentable wire form of the capability.
func (c *Capability) Certificate() Certificate {
	return Certificate{
		SessionID:  c.SessionID,
		Wallet:     c.Wallet,
		Namespace:  c.Namespace,
		SessionKey: append([]byte(nil), c.PublicKey()...),
		CreatedAt:  c.CreatedAt.UnixMilli(),
		TTLMinutes: int(c.TTL / time.Minute),
		Signature:  append([]byte(nil), c.Signature...),
	}
}
