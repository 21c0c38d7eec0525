// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CurePocket Authors

package models

// BlobID is the content address of a blob in the decentralized store.
// Addresses are opaque to this package; the blob store client derives them
// from blob content, so equal content yields equal addresses.
type BlobID string

// Entry is the on-chain pointer for one (recordHolder, DataType) pair. It
// records the encryption policy all blobs of the entry are sealed under and
// the content address of the current metadata blob.
type Entry struct {
	// SealPolicyID is the policy identifier every blob reachable from this
	// entry is encrypted under. One capability scoped to this policy can
	// therefore decrypt the whole chain.
	SealPolicyID string `json:"seal_policy_id"`

	// MetadataBlobID is the content address of the current MetadataBlob.
	MetadataBlobID BlobID `json:"metadata_blob_id"`
}

// WriteMode describes how a completed write relates to prior on-chain state.
type WriteMode string

const (
	// WriteModeAdd marks the first write of a DataType for a holder: no
	// Entry existed, so the caller must create one.
	WriteModeAdd WriteMode = "add"

	// WriteModeReplace marks a write over an existing Entry: the caller
	// must repoint the Entry at the new metadata blob, orphaning the old
	// blob chain.
	WriteModeReplace WriteMode = "replace"
)

// EntryUpdate is the result of a successful write. The caller commits the
// embedded Entry to the ledger (a wallet-signed transaction outside this
// library); Mode tells it whether to create or repoint.
type EntryUpdate struct {
	Entry
	Mode WriteMode `json:"mode"`
}
