package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/curepocket/pocketsync/internal/blobstore"
	"github.com/curepocket/pocketsync/internal/capability"
	"github.com/curepocket/pocketsync/internal/config"
	"github.com/curepocket/pocketsync/internal/ledger"
	"github.com/curepocket/pocketsync/internal/logger"
	"github.com/curepocket/pocketsync/internal/mock"
	"github.com/curepocket/pocketsync/internal/seal"
	"github.com/curepocket/pocketsync/models"
)

// memKeyServer is an in-memory key server releasing shares only to callers
// presenting a signed certificate and a non-empty proof.
type memKeyServer struct {
	id string

	mu     sync.Mutex
	shares map[string]heldShare
}

type heldShare struct {
	index byte
	share []byte
}

func newMemKeyServer(id string) *memKeyServer {
	return &memKeyServer{id: id, shares: make(map[string]heldShare)}
}

func (s *memKeyServer) ID() string { return s.id }

func (s *memKeyServer) StoreShare(_ context.Context, policyID, ref string, index byte, share []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shares[policyID+"|"+ref] = heldShare{index: index, share: share}
	return nil
}

func (s *memKeyServer) FetchShare(_ context.Context, policyID, ref string, cert models.Certificate, proof []byte) (byte, []byte, error) {
	if len(cert.Signature) == 0 || len(proof) == 0 {
		return 0, nil, errors.New("eligibility check failed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	held, ok := s.shares[policyID+"|"+ref]
	if !ok {
		return 0, nil, errors.New("unknown share")
	}
	return held.index, held.share, nil
}

// memBlobStore is an in-memory content-addressed store with put-failure
// injection.
type memBlobStore struct {
	mu       sync.Mutex
	blobs    map[models.BlobID][]byte
	failPuts int
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: make(map[models.BlobID][]byte)}
}

func (s *memBlobStore) Put(_ context.Context, data []byte) (models.BlobID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPuts > 0 {
		s.failPuts--
		return "", errors.New("publisher unavailable")
	}
	id := blobstore.ComputeID(data)
	s.blobs[id] = append([]byte(nil), data...)
	return id, nil
}

func (s *memBlobStore) Get(_ context.Context, id models.BlobID) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[id]
	if !ok {
		return nil, blobstore.ErrBlobNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *memBlobStore) delete(id models.BlobID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, id)
}

func (s *memBlobStore) ids() []models.BlobID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]models.BlobID, 0, len(s.blobs))
	for id := range s.blobs {
		ids = append(ids, id)
	}
	return ids
}

// memRegistry holds entry pointers the way the on-chain registry would after
// the embedding application committed each EntryUpdate.
type memRegistry struct {
	mu      sync.Mutex
	entries map[string]*models.Entry
	failErr error
}

func newMemRegistry() *memRegistry {
	return &memRegistry{entries: make(map[string]*models.Entry)}
}

func (r *memRegistry) GetEntry(_ context.Context, recordHolderID string, dataType models.DataType) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	entry, ok := r.entries[recordHolderID+"::"+string(dataType)]
	if !ok {
		return nil, nil
	}
	cp := *entry
	return &cp, nil
}

func (r *memRegistry) commit(recordHolderID string, dataType models.DataType, update *models.EntryUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry := update.Entry
	r.entries[recordHolderID+"::"+string(dataType)] = &entry
}

type fakeSigner struct {
	mu      sync.Mutex
	addr    string
	failErr error
	calls   int
}

func (f *fakeSigner) Address() string { return f.addr }

func (f *fakeSigner) SignPersonalMessage(context.Context, []byte) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failErr != nil {
		return nil, f.failErr
	}
	return []byte("wallet-signature"), nil
}

func (f *fakeSigner) signCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type syncFixture struct {
	svc      SyncService
	registry *memRegistry
	store    *memBlobStore
	signer   *fakeSigner
	gateway  seal.Gateway
	caps     *capability.Manager
	cfg      *config.ClientConfig
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()

	gateway, err := seal.NewGateway([]seal.KeyServerClient{
		newMemKeyServer("ks-1"), newMemKeyServer("ks-2"), newMemKeyServer("ks-3"),
	}, logger.Nop())
	require.NoError(t, err)

	cfg := &config.ClientConfig{
		Ledger:  config.Ledger{RegistryID: "0xreg", PolicyPackageID: "0xpkg"},
		Seal:    config.Seal{Threshold: 2},
		Session: config.Session{TTL: time.Minute},
	}

	f := &syncFixture{
		registry: newMemRegistry(),
		store:    newMemBlobStore(),
		signer:   &fakeSigner{addr: "0xwallet"},
		gateway:  gateway,
		cfg:      cfg,
	}
	f.caps = capability.NewManager(f.signer, cfg.Session, logger.Nop())
	t.Cleanup(f.caps.Close)

	f.svc, err = NewSyncService(f.registry, f.store, f.gateway, f.caps, f.cfg, logger.Nop())
	require.NoError(t, err)
	return f
}

func medicationSet() []models.Record {
	return []models.Record{
		models.Medication{PrescriptionID: "rx-1", PrescriptionDate: "2026-01-10", Clinic: "City Clinic", Name: "Metformin"},
		models.Medication{PrescriptionID: "rx-1", PrescriptionDate: "2026-01-10", Clinic: "City Clinic", Name: "Atorvastatin"},
		models.Medication{PrescriptionID: "rx-2", PrescriptionDate: "2026-02-01", Clinic: "North Clinic", Name: "Lisinopril"},
		models.Medication{PrescriptionID: "rx-2", PrescriptionDate: "2026-02-01", Clinic: "North Clinic", Name: "Amlodipine"},
		models.Medication{PrescriptionID: "rx-2", PrescriptionDate: "2026-02-01", Clinic: "North Clinic", Name: "Aspirin"},
	}
}

func TestSyncService_WriteReadRoundTrip(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	update, err := f.svc.WriteDataType(ctx, "patientA", models.Medications, medicationSet())
	require.NoError(t, err)
	assert.Equal(t, models.WriteModeAdd, update.Mode)
	assert.True(t, strings.HasPrefix(update.SealPolicyID, "0xpkg::"))
	assert.NotEmpty(t, update.MetadataBlobID)
	f.registry.commit("patientA", models.Medications, update)

	// Metadata blob plus one data blob per prescription.
	assert.Len(t, f.store.ids(), 3)

	got, err := f.svc.ReadDataType(ctx, "patientA", models.Medications)
	require.NoError(t, err)
	require.Len(t, got, 5)

	names := make([]string, len(got))
	for i, r := range got {
		names[i] = r.(models.Medication).Name
	}
	assert.Equal(t, []string{"Metformin", "Atorvastatin", "Lisinopril", "Amlodipine", "Aspirin"}, names)

	// Reading again without an intervening write yields the same result.
	again, err := f.svc.ReadDataType(ctx, "patientA", models.Medications)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestSyncService_ReadDataType_NeverWritten(t *testing.T) {
	f := newSyncFixture(t)

	got, err := f.svc.ReadDataType(context.Background(), "patientA", models.Profile)
	require.NoError(t, err)
	assert.Nil(t, got)

	// No chain to decrypt, so no wallet prompt happened.
	assert.Zero(t, f.signer.signCalls())
}

func TestSyncService_WriteDataType_SamePolicyForWholeChain(t *testing.T) {
	f := newSyncFixture(t)

	update, err := f.svc.WriteDataType(context.Background(), "patientA", models.Medications, medicationSet())
	require.NoError(t, err)

	for _, id := range f.store.ids() {
		raw, getErr := f.store.Get(context.Background(), id)
		require.NoError(t, getErr)
		ct, parseErr := seal.ParseCiphertext(raw)
		require.NoError(t, parseErr)
		assert.Equal(t, update.SealPolicyID, ct.PolicyID)
	}
}

func TestSyncService_WriteDataType_ReplaceReusesPolicyID(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	first, err := f.svc.WriteDataType(ctx, "patientA", models.Conditions, []models.Record{
		models.Condition{Name: "Hypertension", Status: "active"},
	})
	require.NoError(t, err)
	f.registry.commit("patientA", models.Conditions, first)

	second, err := f.svc.WriteDataType(ctx, "patientA", models.Conditions, []models.Record{
		models.Condition{Name: "Hypertension", Status: "resolved"},
		models.Condition{Name: "Type 2 diabetes", Status: "active"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.WriteModeReplace, second.Mode)
	assert.Equal(t, first.SealPolicyID, second.SealPolicyID)
	assert.NotEqual(t, first.MetadataBlobID, second.MetadataBlobID)
	f.registry.commit("patientA", models.Conditions, second)

	got, err := f.svc.ReadDataType(ctx, "patientA", models.Conditions)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "resolved", got[0].(models.Condition).Status)
}

func TestSyncService_WriteDataType_PartialUploadAborts(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	first, err := f.svc.WriteDataType(ctx, "patientA", models.Medications, medicationSet())
	require.NoError(t, err)
	f.registry.commit("patientA", models.Medications, first)

	f.store.failPuts = 10
	_, err = f.svc.WriteDataType(ctx, "patientA", models.Medications, []models.Record{
		models.Medication{PrescriptionID: "rx-9", PrescriptionDate: "2026-03-01", Name: "Ibuprofen"},
	})
	require.ErrorIs(t, err, ErrPartialUpload)

	// The failed write never touched the pointer: the previous chain still
	// reads back whole.
	got, err := f.svc.ReadDataType(ctx, "patientA", models.Medications)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestSyncService_ReadDataType_SkipsUnreadableDataBlob(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	update, err := f.svc.WriteDataType(ctx, "patientA", models.Medications, medicationSet())
	require.NoError(t, err)
	f.registry.commit("patientA", models.Medications, update)

	// Drop one data blob; prescription groups hold 2 and 3 medications, so
	// whichever disappears the other group must survive intact.
	for _, id := range f.store.ids() {
		if id != update.MetadataBlobID {
			f.store.delete(id)
			break
		}
	}

	got, err := f.svc.ReadDataType(ctx, "patientA", models.Medications)
	require.NoError(t, err)
	assert.Contains(t, []int{2, 3}, len(got))
}

// cancelAfterGets serves a fixed number of reads from the wrapped store and
// then cancels the read's context, failing every later fetch.
type cancelAfterGets struct {
	inner  *memBlobStore
	cancel context.CancelFunc
	allow  int

	mu   sync.Mutex
	gets int
}

func (s *cancelAfterGets) Put(ctx context.Context, data []byte) (models.BlobID, error) {
	return s.inner.Put(ctx, data)
}

func (s *cancelAfterGets) Get(ctx context.Context, id models.BlobID) ([]byte, error) {
	s.mu.Lock()
	served := s.gets
	s.gets++
	s.mu.Unlock()

	if served >= s.allow {
		s.cancel()
		return nil, ctx.Err()
	}
	return s.inner.Get(ctx, id)
}

func TestSyncService_ReadDataType_CancelledMidRead(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	update, err := f.svc.WriteDataType(ctx, "patientA", models.Medications, medicationSet())
	require.NoError(t, err)
	f.registry.commit("patientA", models.Medications, update)

	// The metadata blob resolves, then the context dies before the data
	// blobs do. The read must surface the cancellation, not return an
	// empty record set that looks like a holder with no data.
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	store := &cancelAfterGets{inner: f.store, cancel: cancel, allow: 1}
	svc, err := NewSyncService(f.registry, store, f.gateway, f.caps, f.cfg, logger.Nop())
	require.NoError(t, err)

	records, err := svc.ReadDataType(readCtx, "patientA", models.Medications)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, records)
}

func TestSyncService_RegistryUnavailable(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()
	f.registry.failErr = errors.New("rpc timeout")

	_, err := f.svc.ReadDataType(ctx, "patientA", models.Medications)
	require.ErrorIs(t, err, ErrRegistryUnavailable)
	assert.NotErrorIs(t, err, ErrConfiguration)

	_, err = f.svc.WriteDataType(ctx, "patientA", models.Medications, medicationSet())
	require.ErrorIs(t, err, ErrRegistryUnavailable)
}

func TestSyncService_WriteDataType_EncryptFailureNeverUploads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := mock.NewMockGateway(ctrl)
	// The store mock carries no expectations: any Put while sealing is
	// failing fails the test.
	store := mock.NewMockBlobStore(ctrl)
	gateway.EXPECT().
		Encrypt(gomock.Any(), gomock.Any(), gomock.Any(), 2).
		Return(nil, errors.New("key servers unreachable")).
		AnyTimes()

	caps := capability.NewManager(&fakeSigner{addr: "0xwallet"}, config.Session{TTL: time.Minute}, logger.Nop())
	t.Cleanup(caps.Close)
	cfg := &config.ClientConfig{
		Ledger: config.Ledger{RegistryID: "0xreg", PolicyPackageID: "0xpkg"},
		Seal:   config.Seal{Threshold: 2},
	}
	svc, err := NewSyncService(newMemRegistry(), store, gateway, caps, cfg, logger.Nop())
	require.NoError(t, err)

	_, err = svc.WriteDataType(context.Background(), "patientA", models.Medications, medicationSet())
	require.ErrorIs(t, err, ErrPartialUpload)
}

func TestSyncService_ReadDataType_MetadataBlobFatal(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	update, err := f.svc.WriteDataType(ctx, "patientA", models.LabResults, []models.Record{
		models.LabResult{TestName: "HbA1c", Value: "5.6", Unit: "%"},
	})
	require.NoError(t, err)
	f.registry.commit("patientA", models.LabResults, update)
	f.store.delete(update.MetadataBlobID)

	_, err = f.svc.ReadDataType(ctx, "patientA", models.LabResults)
	require.ErrorIs(t, err, ErrBlobNotFound)
}

func TestSyncService_WriteDataType_Validation(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	_, err := f.svc.WriteDataType(ctx, "patientA", models.Medications, nil)
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.WriteDataType(ctx, "", models.Medications, medicationSet())
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.WriteDataType(ctx, "patientA", models.Medications, []models.Record{
		models.Medication{Name: "Metformin"},
	})
	require.ErrorIs(t, err, ErrValidation)

	// Nothing reached the store.
	assert.Empty(t, f.store.ids())
}

func TestSyncService_ReadDataType_CapabilityFailure(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	update, err := f.svc.WriteDataType(ctx, "patientA", models.Allergies, []models.Record{
		models.Allergy{Substance: "penicillin", Severity: "severe"},
	})
	require.NoError(t, err)
	f.registry.commit("patientA", models.Allergies, update)

	f.signer.failErr = errors.New("user rejected the prompt")
	_, err = f.svc.ReadDataType(ctx, "patientA", models.Allergies)
	require.ErrorIs(t, err, ErrCapability)
}

func TestSyncService_ReadDataType_WithConsent(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	update, err := f.svc.WriteDataType(ctx, "patientA", models.SelfMetrics, []models.Record{
		models.SelfMetric{Kind: "glucose", Value: 5.4, Unit: "mmol/L"},
	})
	require.NoError(t, err)
	f.registry.commit("patientA", models.SelfMetrics, update)

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	token, err := ledger.NewConsentToken(priv, "patientA", "0xcaregiver", update.SealPolicyID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	grant, err := ledger.ParseConsentGrant(token, pub)
	require.NoError(t, err)

	got, err := f.svc.ReadDataType(ctx, "patientA", models.SelfMetrics, WithConsent(grant))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "glucose", got[0].(models.SelfMetric).Kind)

	// A grant for a different policy cannot produce a proof.
	otherToken, err := ledger.NewConsentToken(priv, "patientA", "0xcaregiver", "0xpkg::other", time.Now().Add(time.Hour))
	require.NoError(t, err)
	otherGrant, err := ledger.ParseConsentGrant(otherToken, pub)
	require.NoError(t, err)

	_, err = f.svc.ReadDataType(ctx, "patientA", models.SelfMetrics, WithConsent(otherGrant))
	require.ErrorIs(t, err, ErrProofConstruction)
}

func TestSyncService_ReadDataType_ImagingChain(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	binUpdate, err := f.svc.WriteDataType(ctx, "patientA", models.ImagingBinary, []models.Record{
		models.ImagingBinaryRecord{StudyID: "st-1", ContentType: "application/dicom", Content: []byte{0xd1, 0xc0}},
	})
	require.NoError(t, err)
	f.registry.commit("patientA", models.ImagingBinary, binUpdate)

	metaUpdate, err := f.svc.WriteDataType(ctx, "patientA", models.ImagingMeta, []models.Record{
		models.ImagingStudy{StudyID: "st-1", Modality: "MRI", BodyPart: "knee", BinaryBlobID: "bin-chain"},
	})
	require.NoError(t, err)
	f.registry.commit("patientA", models.ImagingMeta, metaUpdate)

	studies, err := f.svc.ReadDataType(ctx, "patientA", models.ImagingMeta)
	require.NoError(t, err)
	require.Len(t, studies, 1)
	assert.Equal(t, "MRI", studies[0].(models.ImagingStudy).Modality)

	binaries, err := f.svc.ReadDataType(ctx, "patientA", models.ImagingBinary)
	require.NoError(t, err)
	require.Len(t, binaries, 1)
	assert.Equal(t, []byte{0xd1, 0xc0}, binaries[0].(models.ImagingBinaryRecord).Content)
}

func TestNewSyncService_Validation(t *testing.T) {
	gateway, err := seal.NewGateway([]seal.KeyServerClient{newMemKeyServer("a"), newMemKeyServer("b")}, logger.Nop())
	require.NoError(t, err)
	caps := capability.NewManager(&fakeSigner{addr: "0xwallet"}, config.Session{TTL: time.Minute}, logger.Nop())
	t.Cleanup(caps.Close)

	cases := []struct {
		name string
		cfg  *config.ClientConfig
	}{
		{name: "missing registry id", cfg: &config.ClientConfig{
			Ledger: config.Ledger{PolicyPackageID: "0xpkg"}, Seal: config.Seal{Threshold: 2},
		}},
		{name: "missing policy package id", cfg: &config.ClientConfig{
			Ledger: config.Ledger{RegistryID: "0xreg"}, Seal: config.Seal{Threshold: 2},
		}},
		{name: "threshold too low", cfg: &config.ClientConfig{
			Ledger: config.Ledger{RegistryID: "0xreg", PolicyPackageID: "0xpkg"}, Seal: config.Seal{Threshold: 1},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSyncService(newMemRegistry(), newMemBlobStore(), gateway, caps, tc.cfg, logger.Nop())
			require.ErrorIs(t, err, ErrConfiguration)
		})
	}

	_, err = NewSyncService(nil, newMemBlobStore(), gateway, caps, &config.ClientConfig{}, logger.Nop())
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestSyncError_Format(t *testing.T) {
	err := syncErr(KindDecryption, models.Medications, "addr-1", fmt.Errorf("tag mismatch"))
	assert.Equal(t, "decryption (medications) addr-1: tag mismatch", err.Error())
	assert.ErrorIs(t, err, ErrDecryption)
	assert.NotErrorIs(t, err, ErrCapability)
}
