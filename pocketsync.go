// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CurePocket Authors

// Package pocketsync is the embeddable sync core of the CurePocket patient
// record client. It moves encrypted medical record sets between the device
// and the decentralized blob store: writes partition, encrypt, and upload
// record sets as content-addressed blob chains; reads resolve, decrypt, and
// merge them back.
//
// The library never holds wallet keys and never submits ledger transactions.
// The embedding application provides the wallet signing capability and the
// ledger read access behind [WalletSigner] and [DynamicFieldReader], and
// commits the [models.EntryUpdate] a successful write returns.
package pocketsync

import (
	"context"
	"crypto/ed25519"
	"time"

	"github.com/curepocket/pocketsync/internal/blobstore"
	"github.com/curepocket/pocketsync/internal/capability"
	"github.com/curepocket/pocketsync/internal/config"
	"github.com/curepocket/pocketsync/internal/ledger"
	"github.com/curepocket/pocketsync/internal/logger"
	"github.com/curepocket/pocketsync/internal/seal"
	"github.com/curepocket/pocketsync/internal/service"
	"github.com/curepocket/pocketsync/internal/workers"
	"github.com/curepocket/pocketsync/models"
)

// Aliases exposing the collaborator and option types an embedding application
// needs to name. The implementations stay internal.
type (
	// Config is the layered client configuration; obtain one via
	// [LoadConfig] or construct it directly.
	Config = config.ClientConfig

	// WalletSigner is the opaque wallet capability the application provides.
	WalletSigner = ledger.WalletSigner

	// DynamicFieldReader is the read-only ledger access the application
	// provides.
	DynamicFieldReader = ledger.DynamicFieldReader

	// ConsentGrant is a verified, time-boxed delegation allowing a
	// non-owner to decrypt a record holder's data.
	ConsentGrant = ledger.ConsentGrant

	// ReadOption adjusts a single read call.
	ReadOption = service.ReadOption

	// SyncError is the structured failure type returned by sync
	// operations.
	SyncError = service.Error
)

// Failure kind sentinels for errors.Is matching against [SyncError] values.
var (
	ErrConfiguration       = service.ErrConfiguration
	ErrValidation          = service.ErrValidation
	ErrRegistryUnavailable = service.ErrRegistryUnavailable
	ErrCapability          = service.ErrCapability
	ErrProofConstruction   = service.ErrProofConstruction
	ErrBlobNotFound        = service.ErrBlobNotFound
	ErrDecryption          = service.ErrDecryption
	ErrPartialUpload       = service.ErrPartialUpload
)

// LoadConfig assembles the client configuration from environment variables,
// command-line flags, and an optional JSON file, then validates it.
func LoadConfig() (*Config, error) {
	return config.GetClientConfig()
}

// WithConsent reads on behalf of a delegated consent holder. The grant is
// packed into every access proof of the call.
func WithConsent(grant *ConsentGrant) ReadOption {
	return service.WithConsent(grant)
}

// NewConsentToken issues a consent token delegating decryption under policyID
// to grantee until expiresAt, signed with the granter wallet's key.
func NewConsentToken(granterKey ed25519.PrivateKey, granter, grantee, policyID string, expiresAt time.Time) (string, error) {
	return ledger.NewConsentToken(granterKey, granter, grantee, policyID, expiresAt)
}

// ParseConsentGrant verifies token against the granter's public key and
// returns the grant it encodes.
func ParseConsentGrant(token string, granterKey ed25519.PublicKey) (*ConsentGrant, error) {
	return ledger.ParseConsentGrant(token, granterKey)
}

// Option adjusts client construction.
type Option func(*clientOptions)

type clientOptions struct {
	log              *logger.Logger
	onValidityChange func(valid bool)
}

// WithValidityNotify arms a background watcher that calls fn once with the
// current session state and again on every change. Intended for UI "session
// active" indicators; protocol operations recheck validity on their own.
func WithValidityNotify(fn func(valid bool)) Option {
	return func(o *clientOptions) { o.onValidityChange = fn }
}

// WithQuietLogging discards all library log output.
func WithQuietLogging() Option {
	return func(o *clientOptions) { o.log = logger.Nop() }
}

// Client is the assembled sync core bound to one wallet and one
// configuration.
type Client struct {
	cfg        *Config
	svc        service.SyncService
	caps       *capability.Manager
	background *workers.Workers
	watcher    *workers.ValidityWatcher
}

// New wires the sync core: blob store client, threshold-encryption gateway
// over the configured key servers, capability manager over signer, and the
// entry registry over reader. A nil cfg loads [LoadConfig].
func New(signer WalletSigner, reader DynamicFieldReader, cfg *Config, opts ...Option) (*Client, error) {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.NewLogger("pocketsync")
	}

	if cfg == nil {
		loaded, err := config.GetClientConfig()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	store, err := blobstore.NewHTTPBlobStore(cfg.Store, o.log)
	if err != nil {
		return nil, err
	}

	keyServers, err := seal.NewHTTPKeyServerClients(cfg.Seal, cfg.Store.RequestTimeout)
	if err != nil {
		return nil, err
	}
	gateway, err := seal.NewGateway(keyServers, o.log)
	if err != nil {
		return nil, err
	}

	registry, err := ledger.NewEntryRegistry(reader, cfg.Ledger.RegistryID)
	if err != nil {
		return nil, err
	}

	caps := capability.NewManager(signer, cfg.Session, o.log)

	svc, err := service.NewSyncService(registry, store, gateway, caps, cfg, o.log)
	if err != nil {
		caps.Close()
		return nil, err
	}

	c := &Client{cfg: cfg, svc: svc, caps: caps}
	if o.onValidityChange != nil {
		c.watcher = workers.NewValidityWatcher(caps, cfg.Ledger.PolicyPackageID, 0, o.onValidityChange)
		c.background = workers.NewWorkers(c.watcher)
		c.background.Run()
	}
	return c, nil
}

// WriteDataType serialises, encrypts, and uploads records as the new blob
// chain for (recordHolderID, dataType) and returns the Entry pointer to
// commit on-chain. Records replace the prior chain wholesale; callers wanting
// add semantics read first and pass the merged set. The metadata blob uploads
// only after every data blob succeeded, so no partial chain is ever
// observable.
func (c *Client) WriteDataType(ctx context.Context, recordHolderID string, dataType models.DataType, records []models.Record) (*models.EntryUpdate, error) {
	return c.svc.WriteDataType(ctx, recordHolderID, dataType, records)
}

// ReadDataType resolves, decrypts, and merges the current blob chain for
// (recordHolderID, dataType). A holder who never wrote the data type yields
// (nil, nil).
func (c *Client) ReadDataType(ctx context.Context, recordHolderID string, dataType models.DataType, opts ...ReadOption) ([]models.Record, error) {
	return c.svc.ReadDataType(ctx, recordHolderID, dataType, opts...)
}

// SessionValid reports whether a live decryption capability is currently
// held. Reads create one on demand, so false only means the next read will
// prompt the wallet.
func (c *Client) SessionValid() bool {
	return c.caps.IsValid(c.cfg.Ledger.PolicyPackageID)
}

// InvalidateSession drops the held capability, forcing the next read to
// request a fresh wallet signature.
func (c *Client) InvalidateSession() {
	c.caps.Invalidate(c.cfg.Ledger.PolicyPackageID)
}

// Close stops background workers and capability renewal. In-flight
// operations are not interrupted.
func (c *Client) Close() {
	if c.watcher != nil {
		c.watcher.Stop()
	}
	c.caps.Close()
}
