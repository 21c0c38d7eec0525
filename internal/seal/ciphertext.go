package seal

import (
	"encoding/json"
	"fmt"
)

// CiphertextVersion is the envelope format version written by Encrypt.
const CiphertextVersion = "1"

// ShareRef points at one DEK share held by a key server.
type ShareRef struct {
	ServerID string `json:"server_id"`
	Ref      string `json:"ref"`
	Index    byte   `json:"index"`
}

// Ciphertext is the self-describing sealed envelope produced by
// [Gateway.Encrypt]. It carries no secret material: Blob is the AES-GCM
// sealed payload (nonce || ciphertext) and Shares only references DEK shares
// guarded by the key servers.
type Ciphertext struct {
	Version   string     `json:"version"`
	PolicyID  string     `json:"policy_id"`
	Threshold int        `json:"threshold"`
	Shares    []ShareRef `json:"shares"`
	Blob      []byte     `json:"blob"`
}

// Marshal serialises the envelope for storage.
func (c *Ciphertext) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

// ParseCiphertext deserialises an envelope previously produced by Marshal.
// Structurally invalid envelopes are rejected here so Decrypt can assume a
// well-formed input.
func ParseCiphertext(raw []byte) (*Ciphertext, error) {
	var ct Ciphertext
	if err := json.Unmarshal(raw, &ct); err != nil {
		return nil, fmt.Errorf("%w: parse envelope: %w", ErrDecryptionFailure, err)
	}
	if ct.PolicyID == "" || ct.Threshold < 1 || len(ct.Shares) < ct.Threshold || len(ct.Blob) == 0 {
		return nil, fmt.Errorf("%w: malformed envelope", ErrDecryptionFailure)
	}
	return &ct, nil
}
