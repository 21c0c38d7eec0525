package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/curepocket/pocketsync/internal/mock"
	"github.com/curepocket/pocketsync/models"
)

func TestEntryRegistry_GetEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := mock.NewMockDynamicFieldReader(ctrl)
	registry, err := NewEntryRegistry(reader, "0xreg")
	require.NoError(t, err)

	ctx := context.Background()
	reader.EXPECT().
		ReadDynamicField(ctx, "0xreg", "patientA::medications").
		Return([]byte(`{"seal_policy_id":"0xpolicy","metadata_blob_id":"addr-meta"}`), nil)

	entry, err := registry.GetEntry(ctx, "patientA", models.Medications)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "0xpolicy", entry.SealPolicyID)
	assert.Equal(t, models.BlobID("addr-meta"), entry.MetadataBlobID)
}

func TestEntryRegistry_GetEntry_Absent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := mock.NewMockDynamicFieldReader(ctrl)
	registry, err := NewEntryRegistry(reader, "0xreg")
	require.NoError(t, err)

	ctx := context.Background()
	reader.EXPECT().
		ReadDynamicField(ctx, "0xreg", "patientA::profile").
		Return(nil, nil)

	entry, err := registry.GetEntry(ctx, "patientA", models.Profile)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestEntryRegistry_GetEntry_ReaderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := mock.NewMockDynamicFieldReader(ctrl)
	registry, err := NewEntryRegistry(reader, "0xreg")
	require.NoError(t, err)

	ctx := context.Background()
	reader.EXPECT().
		ReadDynamicField(ctx, "0xreg", gomock.Any()).
		Return(nil, errors.New("rpc timeout"))

	_, err = registry.GetEntry(ctx, "patientA", models.LabResults)
	require.ErrorIs(t, err, ErrRegistryUnavailable)
}

func TestEntryRegistry_GetEntry_InvalidLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry, err := NewEntryRegistry(mock.NewMockDynamicFieldReader(ctrl), "0xreg")
	require.NoError(t, err)

	_, err = registry.GetEntry(context.Background(), "", models.Medications)
	require.Error(t, err)

	_, err = registry.GetEntry(context.Background(), "patientA", "x-rays")
	require.Error(t, err)
}

func TestNewEntryRegistry_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := NewEntryRegistry(nil, "0xreg")
	require.Error(t, err)

	_, err = NewEntryRegistry(mock.NewMockDynamicFieldReader(ctrl), "")
	require.Error(t, err)
}
