package seal

import "errors"

var (
	// ErrCapabilityInvalid indicates the presented capability is missing,
	// unsigned, or expired at call time.
	ErrCapabilityInvalid = errors.New("capability invalid or expired")

	// ErrDecryptionFailure indicates fewer than threshold shares could be
	// recovered, or the envelope failed to open (wrong key material or
	// tampered ciphertext).
	ErrDecryptionFailure = errors.New("decryption failure")

	// ErrShareDistribution indicates a key server refused or failed to
	// store its DEK share during encryption.
	ErrShareDistribution = errors.New("share distribution failed")
)
