package ledger

import "errors"

var (
	// ErrProofInput indicates a missing or malformed identifier prevented
	// building an access proof. Raised before any packing happens.
	ErrProofInput = errors.New("invalid access proof input")

	// ErrConsentInvalid indicates a delegated-consent token failed
	// verification (wrong signer, wrong audience, or expired).
	ErrConsentInvalid = errors.New("invalid consent grant")

	// ErrRegistryUnavailable indicates the dynamic-field read against the
	// registry failed.
	ErrRegistryUnavailable = errors.New("entry registry unavailable")
)
