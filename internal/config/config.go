// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CurePocket Authors

package config

import (
	"time"
)

// ClientConfig is the top-level configuration container for the pocketsync
// client library. It aggregates all sub-configurations and is populated by
// merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type ClientConfig struct {
	// Ledger holds the on-chain identifiers the sync core needs: the entry
	// registry object and the seal policy package namespace.
	Ledger Ledger `envPrefix:"LEDGER_"`

	// Seal holds the threshold-encryption network settings.
	Seal Seal `envPrefix:"SEAL_"`

	// Store holds the decentralized blob store endpoints and tuning.
	Store Store `envPrefix:"STORE_"`

	// Session holds the decryption capability (session key) lifecycle
	// settings.
	Session Session `envPrefix:"SESSION_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Ledger identifies the on-chain collaborators of the sync core. Both values
// are object identifiers on the ledger; the library never interprets them
// beyond passing them to the registry reader and the proof builder.
type Ledger struct {
	// RegistryID is the object id of the metadata/entry registry whose
	// dynamic fields map (recordHolder, dataType) to entries.
	// Env: LEDGER_REGISTRY_ID
	RegistryID string `env:"REGISTRY_ID"`

	// PolicyPackageID is the seal policy package namespace capabilities are
	// scoped to and fresh policy ids are minted under.
	// Env: LEDGER_POLICY_PACKAGE_ID
	PolicyPackageID string `env:"POLICY_PACKAGE_ID"`
}

// Seal configures the threshold-encryption key-server set.
type Seal struct {
	// KeyServerURLs lists the base URLs of the key servers holding DEK
	// shares, comma-separated in the environment.
	// Env: SEAL_KEY_SERVERS
	KeyServerURLs []string `env:"KEY_SERVERS" envSeparator:","`

	// Threshold is the minimum number of key-server shares required to
	// decrypt. Zero means a strict majority of the configured servers.
	// Env: SEAL_THRESHOLD
	Threshold int `env:"THRESHOLD"`
}

// Store configures the content-addressed blob store endpoints.
type Store struct {
	// AggregatorURL is the read endpoint (anonymous get-by-address).
	// Env: STORE_AGGREGATOR_URL
	AggregatorURL string `env:"AGGREGATOR_URL"`

	// PublisherURL is the write endpoint; the publisher performs the signed
	// register/upload/certify round trip on the caller's behalf.
	// Env: STORE_PUBLISHER_URL
	PublisherURL string `env:"PUBLISHER_URL"`

	// StorageEpochs is the number of storage epochs each uploaded blob is
	// paid for.
	// Env: STORE_EPOCHS
	StorageEpochs int `env:"EPOCHS"`

	// RequestTimeout bounds a single blob store request (e.g. "30s").
	// Env: STORE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Session configures the capability lifecycle.
type Session struct {
	// TTL is how long a freshly signed capability remains valid.
	// Env: SESSION_TTL
	TTL time.Duration `env:"TTL"`

	// RenewalThreshold is how long before expiry the background renewal
	// fires.
	// Env: SESSION_RENEWAL_THRESHOLD
	RenewalThreshold time.Duration `env:"RENEWAL_THRESHOLD"`
}

// Defaults applied by normalize when the merged configuration leaves a field
// unset.
const (
	DefaultSessionTTL       = 10 * time.Minute
	DefaultRenewalThreshold = 2 * time.Minute
	DefaultStorageEpochs    = 1
	DefaultRequestTimeout   = 15 * time.Second
)

// Retry pacing shared by the blob store and key server HTTP clients. The
// reference protocol leaves backoff unspecified; these values bound a request
// to three attempts with exponential spacing.
const (
	DefaultRetryWait    = 250 * time.Millisecond
	DefaultRetryMaxWait = 2 * time.Second
)

// normalize fills unset optional fields with their documented defaults.
// The seal threshold defaults to a strict majority of the configured key
// servers.
func (cfg *ClientConfig) normalize() {
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = DefaultSessionTTL
	}
	if cfg.Session.RenewalThreshold <= 0 {
		cfg.Session.RenewalThreshold = DefaultRenewalThreshold
	}
	if cfg.Store.StorageEpochs <= 0 {
		cfg.Store.StorageEpochs = DefaultStorageEpochs
	}
	if cfg.Store.RequestTimeout <= 0 {
		cfg.Store.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Seal.Threshold <= 0 && len(cfg.Seal.KeyServerURLs) > 0 {
		cfg.Seal.Threshold = len(cfg.Seal.KeyServerURLs)/2 + 1
	}
}

// GetClientConfig assembles the pocketsync configuration from environment
// variables, command-line flags, and an optional JSON file (in that merge
// order), applies defaults, and validates the result.
func GetClientConfig() (*ClientConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
