package capability

import "errors"

var (
	// ErrWalletNotConnected indicates no wallet is available to sign the
	// session material. No partial capability is created.
	ErrWalletNotConnected = errors.New("wallet not connected")

	// ErrNamespaceNotConfigured indicates an empty policy namespace was
	// requested.
	ErrNamespaceNotConfigured = errors.New("policy namespace not configured")

	// ErrSignatureRejected indicates the wallet refused or failed to sign
	// the session message. The capability state for the namespace reverts
	// to whatever was previously held.
	ErrSignatureRejected = errors.New("wallet signature rejected")
)
