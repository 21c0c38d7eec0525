package config

import "errors"

// Validation errors returned by [ClientConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidLedgerConfigs indicates missing on-chain identifiers
	// (registry object id or policy package id).
	ErrInvalidLedgerConfigs = errors.New("invalid ledger configuration")
	// ErrInvalidSealConfigs indicates an empty key-server list or a
	// threshold larger than the number of configured servers.
	ErrInvalidSealConfigs = errors.New("invalid seal configuration")
	// ErrInvalidStoreConfigs indicates a missing aggregator or publisher
	// endpoint.
	ErrInvalidStoreConfigs = errors.New("invalid blob store configuration")
	// ErrInvalidSessionConfigs indicates a capability renewal threshold that
	// is not shorter than the capability TTL.
	ErrInvalidSessionConfigs = errors.New("invalid session configuration")
)
