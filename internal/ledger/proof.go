// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CurePocket Authors

package ledger

import (
	"encoding/binary"
	"fmt"

	"github.com/curepocket/pocketsync/models"
)

// proofMagic versions the proof byte layout. The decryption network evaluates
// these bytes as an unsigned read-only transaction; they are never submitted
// to the ledger and carry no gas.
const proofMagic = "curepocket-access/1"

// ProofRequest names the inputs of one access proof.
type ProofRequest struct {
	RecordHolderID string
	RegistryID     string
	PolicyID       string

	// DataType optionally narrows the proof to one data type. Empty means
	// the proof covers any entry of the holder under PolicyID.
	DataType models.DataType

	// Consent, when non-nil, extends the proof to a delegated consent
	// holder: the packed grant lets the decryption network verify a
	// time-boxed delegation instead of direct ownership.
	Consent *ConsentGrant
}

// BuildAccessProof produces the serialized transaction bytes proving
// eligibility to decrypt data under req.PolicyID for req.RecordHolderID.
// Proofs are deterministic for equal input, cheap to rebuild, and must be
// rebuilt per decrypt call; nothing is cached.
//
// Fails with [ErrProofInput] before any packing if a required identifier is
// missing, and with [ErrConsentInvalid] if a consent grant does not match the
// requested policy.
func BuildAccessProof(req ProofRequest) ([]byte, error) {
	if req.RegistryID == "" {
		return nil, fmt.Errorf("%w: empty registry id", ErrProofInput)
	}
	if req.PolicyID == "" {
		return nil, fmt.Errorf("%w: empty policy id", ErrProofInput)
	}
	if req.RecordHolderID == "" {
		return nil, fmt.Errorf("%w: empty record holder id", ErrProofInput)
	}
	if req.DataType != "" && !req.DataType.Known() {
		return nil, fmt.Errorf("%w: unknown data type %q", ErrProofInput, req.DataType)
	}
	if req.Consent != nil && req.Consent.PolicyID != req.PolicyID {
		return nil, fmt.Errorf("%w: grant covers policy %q, proof requested for %q", ErrConsentInvalid, req.Consent.PolicyID, req.PolicyID)
	}

	buf := make([]byte, 0, 256)
	buf = packString(buf, proofMagic)
	buf = packString(buf, req.RegistryID)
	buf = packString(buf, req.PolicyID)
	buf = packString(buf, req.RecordHolderID)
	buf = packString(buf, string(req.DataType))
	if req.Consent != nil {
		buf = packString(buf, req.Consent.Token)
	} else {
		buf = packString(buf, "")
	}

	return buf, nil
}

// packString appends a uvarint length prefix followed by the raw bytes of s.
func packString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}
