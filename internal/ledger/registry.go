// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CurePocket Authors

package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/curepocket/pocketsync/models"
)

type entryRegistry struct {
	reader     DynamicFieldReader
	registryID string
}

// NewEntryRegistry constructs the [EntryRegistry] adapter over an injected
// dynamic-field reader. registryID is the on-chain object whose dynamic
// fields hold the entries.
func NewEntryRegistry(reader DynamicFieldReader, registryID string) (EntryRegistry, error) {
	if reader == nil {
		return nil, fmt.Errorf("nil dynamic field reader")
	}
	if registryID == "" {
		return nil, fmt.Errorf("empty registry id")
	}
	return &entryRegistry{reader: reader, registryID: registryID}, nil
}

// entryFieldName is the dynamic-field key of one (recordHolder, dataType)
// pair. The format is fixed by the on-chain registry contract.
func entryFieldName(recordHolderID string, dataType models.DataType) string {
	return recordHolderID + "::" + string(dataType)
}

// GetEntry implements [EntryRegistry].
func (r *entryRegistry) GetEntry(ctx context.Context, recordHolderID string, dataType models.DataType) (*models.Entry, error) {
	if recordHolderID == "" || !dataType.Known() {
		return nil, fmt.Errorf("get entry: invalid lookup (%q, %q)", recordHolderID, dataType)
	}

	raw, err := r.reader.ReadDynamicField(ctx, r.registryID, entryFieldName(recordHolderID, dataType))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegistryUnavailable, err)
	}
	if raw == nil {
		// No data yet: a valid terminal state, not an error.
		return nil, nil
	}

	var entry models.Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("decode entry field: %w", err)
	}
	if entry.SealPolicyID == "" || entry.MetadataBlobID == "" {
		return nil, fmt.Errorf("decode entry field: incomplete entry")
	}

	return &entry, nil
}
