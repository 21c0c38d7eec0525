// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CurePocket Authors

package service

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/curepocket/pocketsync/internal/blobstore"
	"github.com/curepocket/pocketsync/internal/capability"
	"github.com/curepocket/pocketsync/internal/config"
	"github.com/curepocket/pocketsync/internal/ledger"
	"github.com/curepocket/pocketsync/internal/logger"
	"github.com/curepocket/pocketsync/internal/seal"
	"github.com/curepocket/pocketsync/internal/validators"
	"github.com/curepocket/pocketsync/models"
)

// generator identifies this client library in the meta header of every
// DataBlob it writes.
const generator = "pocketsync"

type syncService struct {
	registry ledger.EntryRegistry
	store    blobstore.BlobStore
	gateway  seal.Gateway
	caps     CapabilityProvider

	registryID      string
	policyPackageID string
	threshold       int

	logger *logger.Logger
	now    func() time.Time
}

// NewSyncService wires the sync orchestrator over its collaborators.
// Capability creation stays behind caps; pass the [capability.Manager] of the
// connected wallet.
func NewSyncService(
	registry ledger.EntryRegistry,
	store blobstore.BlobStore,
	gateway seal.Gateway,
	caps *capability.Manager,
	cfg *config.ClientConfig,
	log *logger.Logger,
) (SyncService, error) {
	if registry == nil || store == nil || gateway == nil || caps == nil {
		return nil, errf(KindConfiguration, "", "nil collaborator")
	}
	if cfg == nil || cfg.Ledger.RegistryID == "" || cfg.Ledger.PolicyPackageID == "" {
		return nil, errf(KindConfiguration, "", "ledger registry and policy package ids are required")
	}
	if cfg.Seal.Threshold < 2 {
		return nil, errf(KindConfiguration, "", "seal threshold %d below minimum 2", cfg.Seal.Threshold)
	}

	return &syncService{
		registry:        registry,
		store:           store,
		gateway:         gateway,
		caps:            caps,
		registryID:      cfg.Ledger.RegistryID,
		policyPackageID: cfg.Ledger.PolicyPackageID,
		threshold:       cfg.Seal.Threshold,
		logger:          log,
		now:             time.Now,
	}, nil
}

// WriteDataType implements [SyncService].
func (s *syncService) WriteDataType(ctx context.Context, recordHolderID string, dataType models.DataType, records []models.Record) (*models.EntryUpdate, error) {
	if recordHolderID == "" {
		return nil, errf(KindValidation, dataType, "empty record holder id")
	}
	if err := validators.ValidateRecords(dataType, records); err != nil {
		return nil, syncErr(KindValidation, dataType, "", err)
	}

	prior, err := s.registry.GetEntry(ctx, recordHolderID, dataType)
	if err != nil {
		return nil, syncErr(KindRegistryUnavailable, dataType, s.registryID, err)
	}

	// One policy id per chain: the first write mints it, every rewrite of
	// the entry reuses it so existing capabilities keep working.
	policyID := s.mintPolicyID()
	mode := models.WriteModeAdd
	if prior != nil {
		policyID = prior.SealPolicyID
		mode = models.WriteModeReplace
	}

	updatedAt := s.now().UnixMilli()
	parts := partitionRecords(dataType, records)

	g, gctx := errgroup.WithContext(ctx)
	blobIDs := make([]models.BlobID, len(parts))
	for i, part := range parts {
		g.Go(func() error {
			plaintext, err := models.EncodeDataBlob(dataType, models.DataBlobMeta{
				SchemaVersion: models.DataBlobSchemaVersion,
				UpdatedAt:     updatedAt,
				Generator:     generator,
			}, part.records)
			if err != nil {
				return err
			}

			id, err := s.sealAndPut(gctx, plaintext, policyID)
			if err != nil {
				return err
			}
			blobIDs[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// The metadata blob was never uploaded: the prior chain is still
		// the consistent state, anything uploaded here is unreferenced.
		return nil, syncErr(KindPartialUpload, dataType, policyID, err)
	}

	entries := make([]models.MetadataEntry, len(parts))
	for i, part := range parts {
		entries[i] = part.entry
		entries[i].BlobID = blobIDs[i]
	}

	metaPlain, err := json.Marshal(models.NewMetadataBlob(dataType, updatedAt, entries))
	if err != nil {
		return nil, errf(KindPartialUpload, dataType, "encode metadata blob: %w", err)
	}
	metadataBlobID, err := s.sealAndPut(ctx, metaPlain, policyID)
	if err != nil {
		return nil, syncErr(KindPartialUpload, dataType, policyID, err)
	}

	s.logger.Info().
		Str("data_type", string(dataType)).
		Str("mode", string(mode)).
		Int("data_blobs", len(parts)).
		Str("metadata_blob_id", string(metadataBlobID)).
		Msg("blob chain written")

	return &models.EntryUpdate{
		Entry: models.Entry{
			SealPolicyID:   policyID,
			MetadataBlobID: metadataBlobID,
		},
		Mode: mode,
	}, nil
}

// ReadDataType implements [SyncService].
func (s *syncService) ReadDataType(ctx context.Context, recordHolderID string, dataType models.DataType, opts ...ReadOption) ([]models.Record, error) {
	if recordHolderID == "" {
		return nil, errf(KindValidation, dataType, "empty record holder id")
	}
	if !dataType.Known() {
		return nil, errf(KindValidation, dataType, "unknown data type %q", dataType)
	}

	var options readOptions
	for _, opt := range opts {
		opt(&options)
	}

	entry, err := s.registry.GetEntry(ctx, recordHolderID, dataType)
	if err != nil {
		return nil, syncErr(KindRegistryUnavailable, dataType, s.registryID, err)
	}
	if entry == nil {
		// Never written: an empty result, not an error.
		return nil, nil
	}

	cap, err := s.caps.Ensure(ctx, s.policyPackageID)
	if err != nil {
		return nil, syncErr(KindCapability, dataType, "", err)
	}

	meta, err := s.fetchMetadataBlob(ctx, recordHolderID, dataType, entry, cap, options.consent)
	if err != nil {
		return nil, err
	}

	// Data blobs resolve in parallel; a failed blob is logged and skipped
	// so one lost blob cannot take the whole read down.
	slots := make([][]models.Record, len(meta.Entries))
	g, gctx := errgroup.WithContext(ctx)
	for i, me := range meta.Entries {
		g.Go(func() error {
			records, err := s.fetchDataBlob(gctx, recordHolderID, dataType, entry, me.BlobID, cap, options.consent)
			if err != nil {
				if gctx.Err() != nil {
					// A dead context, not a lost blob: the read must
					// fail rather than pass off a truncated chain as
					// an empty result.
					return gctx.Err()
				}
				s.logger.Warn().Err(err).
					Str("data_type", string(dataType)).
					Str("blob_id", string(me.BlobID)).
					Msg("data blob skipped")
				return nil
			}
			slots[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []models.Record
	for _, records := range slots {
		merged = append(merged, records...)
	}
	return merged, nil
}

// fetchMetadataBlob resolves and decrypts the entry's metadata blob. Any
// failure here is fatal for the read.
func (s *syncService) fetchMetadataBlob(ctx context.Context, recordHolderID string, dataType models.DataType, entry *models.Entry, cap *models.Capability, consent *ledger.ConsentGrant) (*models.MetadataBlob, error) {
	plaintext, err := s.getAndOpen(ctx, recordHolderID, dataType, entry, entry.MetadataBlobID, cap, consent)
	if err != nil {
		return nil, err
	}

	var meta models.MetadataBlob
	if err := json.Unmarshal(plaintext, &meta); err != nil {
		return nil, syncErr(KindDecryption, dataType, string(entry.MetadataBlobID), fmt.Errorf("decode metadata blob: %w", err))
	}
	return &meta, nil
}

// fetchDataBlob resolves and decrypts one data blob and decodes its records.
func (s *syncService) fetchDataBlob(ctx context.Context, recordHolderID string, dataType models.DataType, entry *models.Entry, id models.BlobID, cap *models.Capability, consent *ledger.ConsentGrant) ([]models.Record, error) {
	plaintext, err := s.getAndOpen(ctx, recordHolderID, dataType, entry, id, cap, consent)
	if err != nil {
		return nil, err
	}

	_, records, err := models.DecodeDataBlob(dataType, plaintext)
	if err != nil {
		return nil, syncErr(KindDecryption, dataType, string(id), err)
	}
	return records, nil
}

// getAndOpen fetches one blob and decrypts its envelope. The access proof is
// rebuilt per blob: proofs are cheap, deterministic, and never cached.
func (s *syncService) getAndOpen(ctx context.Context, recordHolderID string, dataType models.DataType, entry *models.Entry, id models.BlobID, cap *models.Capability, consent *ledger.ConsentGrant) ([]byte, error) {
	proof, err := ledger.BuildAccessProof(ledger.ProofRequest{
		RecordHolderID: recordHolderID,
		RegistryID:     s.registryID,
		PolicyID:       entry.SealPolicyID,
		DataType:       dataType,
		Consent:        consent,
	})
	if err != nil {
		return nil, syncErr(KindProofConstruction, dataType, entry.SealPolicyID, err)
	}

	raw, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, blobstore.ErrBlobNotFound) {
			return nil, syncErr(KindBlobNotFound, dataType, string(id), err)
		}
		return nil, syncErr(KindBlobNotFound, dataType, string(id), fmt.Errorf("fetch blob: %w", err))
	}

	ct, err := seal.ParseCiphertext(raw)
	if err != nil {
		return nil, syncErr(KindDecryption, dataType, string(id), err)
	}
	plaintext, err := s.gateway.Decrypt(ctx, ct, cap, proof)
	if err != nil {
		return nil, syncErr(KindDecryption, dataType, string(id), err)
	}
	return plaintext, nil
}

// sealAndPut encrypts plaintext under policyID and uploads the envelope.
func (s *syncService) sealAndPut(ctx context.Context, plaintext []byte, policyID string) (models.BlobID, error) {
	ct, err := s.gateway.Encrypt(ctx, plaintext, policyID, s.threshold)
	if err != nil {
		return "", fmt.Errorf("seal blob: %w", err)
	}
	raw, err := ct.Marshal()
	if err != nil {
		return "", fmt.Errorf("marshal envelope: %w", err)
	}
	id, err := s.store.Put(ctx, raw)
	if err != nil {
		return "", fmt.Errorf("upload blob: %w", err)
	}
	return id, nil
}

// mintPolicyID derives a fresh seal policy id under the configured policy
// package namespace.
func (s *syncService) mintPolicyID() string {
	id := uuid.New()
	return s.policyPackageID + "::" + hex.EncodeToString(id[:])
}
