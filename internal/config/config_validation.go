// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CurePocket Authors

package config

// validate checks that the merged and normalized [ClientConfig] satisfies
// the invariants the sync core depends on. Missing ledger identifiers or an
// unsatisfiable seal threshold must fail here, before any network call is
// attempted.
//
// Returns nil if the configuration is valid, or one of the sentinel errors
// from errors.go otherwise.
func (cfg *ClientConfig) validate() error {
	if cfg.Ledger.RegistryID == "" || cfg.Ledger.PolicyPackageID == "" {
		return ErrInvalidLedgerConfigs
	}

	if len(cfg.Seal.KeyServerURLs) == 0 || cfg.Seal.Threshold > len(cfg.Seal.KeyServerURLs) {
		return ErrInvalidSealConfigs
	}

	if cfg.Store.AggregatorURL == "" || cfg.Store.PublisherURL == "" {
		return ErrInvalidStoreConfigs
	}

	if cfg.Session.RenewalThreshold >= cfg.Session.TTL {
		return ErrInvalidSessionConfigs
	}

	return nil
}
