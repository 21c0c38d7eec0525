package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curepocket/pocketsync/models"
)

func TestPartitionRecords_MedicationsByPrescription(t *testing.T) {
	records := []models.Record{
		models.Medication{PrescriptionID: "rx-2", PrescriptionDate: "2026-02-01", Clinic: "North Clinic", Name: "Lisinopril"},
		models.Medication{PrescriptionID: "rx-1", PrescriptionDate: "2026-01-10", Clinic: "City Clinic", Name: "Metformin"},
		models.Medication{PrescriptionID: "rx-2", PrescriptionDate: "2026-02-01", Clinic: "North Clinic", Name: "Amlodipine"},
		models.Medication{PrescriptionID: "rx-1", PrescriptionDate: "2026-01-10", Clinic: "City Clinic", Name: "Atorvastatin"},
		models.Medication{PrescriptionID: "rx-1", PrescriptionDate: "2026-01-10", Clinic: "City Clinic", Name: "Aspirin"},
	}

	parts := partitionRecords(models.Medications, records)
	require.Len(t, parts, 2)

	// Groups appear in first-appearance order of their prescription.
	assert.Equal(t, "rx-2", parts[0].entry.PrescriptionID)
	assert.Equal(t, "2026-02-01", parts[0].entry.PrescriptionDate)
	assert.Equal(t, "North Clinic", parts[0].entry.Clinic)
	assert.Equal(t, 2, parts[0].entry.MedicationCount)
	require.Len(t, parts[0].records, 2)
	assert.Equal(t, "Lisinopril", parts[0].records[0].(models.Medication).Name)
	assert.Equal(t, "Amlodipine", parts[0].records[1].(models.Medication).Name)

	assert.Equal(t, "rx-1", parts[1].entry.PrescriptionID)
	assert.Equal(t, 3, parts[1].entry.MedicationCount)
	require.Len(t, parts[1].records, 3)
	assert.Equal(t, "Metformin", parts[1].records[0].(models.Medication).Name)
}

func TestPartitionRecords_ImagingOneStudyPerBlob(t *testing.T) {
	records := []models.Record{
		models.ImagingStudy{StudyID: "st-1", StudyDate: "2025-11-03", Modality: "MRI", BodyPart: "knee", BinaryBlobID: "addr-bin-1"},
		models.ImagingStudy{StudyID: "st-2", Modality: "CT"},
	}

	parts := partitionRecords(models.ImagingMeta, records)
	require.Len(t, parts, 2)

	assert.Equal(t, "st-1", parts[0].entry.StudyID)
	assert.Equal(t, "MRI", parts[0].entry.Modality)
	assert.Equal(t, "knee", parts[0].entry.BodyPart)
	assert.Equal(t, models.BlobID("addr-bin-1"), parts[0].entry.BinaryBlobID)
	assert.Len(t, parts[0].records, 1)

	assert.Equal(t, "st-2", parts[1].entry.StudyID)
	assert.Empty(t, parts[1].entry.BinaryBlobID)
}

func TestPartitionRecords_ImagingBinaryOneRecordPerBlob(t *testing.T) {
	records := []models.Record{
		models.ImagingBinaryRecord{StudyID: "st-1", Content: []byte{0x01}},
		models.ImagingBinaryRecord{StudyID: "st-2", Content: []byte{0x02}},
	}

	parts := partitionRecords(models.ImagingBinary, records)
	require.Len(t, parts, 2)
	assert.Equal(t, "st-1", parts[0].entry.StudyID)
	assert.Equal(t, "st-2", parts[1].entry.StudyID)
}

func TestPartitionRecords_UnpartitionedTypes(t *testing.T) {
	for _, dataType := range []models.DataType{
		models.Profile, models.Allergies, models.Conditions, models.LabResults, models.SelfMetrics,
	} {
		t.Run(string(dataType), func(t *testing.T) {
			records := []models.Record{
				models.SelfMetric{Kind: "weight", Value: 71},
				models.SelfMetric{Kind: "glucose", Value: 5.4},
			}

			parts := partitionRecords(dataType, records)
			require.Len(t, parts, 1)
			assert.Equal(t, models.MetadataEntry{}, parts[0].entry)
			assert.Len(t, parts[0].records, 2)
		})
	}
}
