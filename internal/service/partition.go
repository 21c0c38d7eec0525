// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CurePocket Authors

package service

import (
	"github.com/curepocket/pocketsync/models"
)

// partition is one DataBlob-to-be: the records it will contain plus the
// metadata entry describing it. The entry's BlobID is filled in after upload.
type partition struct {
	entry   models.MetadataEntry
	records []models.Record
}

// partitionRecords splits records into DataBlob partitions following the
// rules of dataType. Partition order is deterministic: groups appear in the
// order their first record appears in the input, and records keep their input
// order within a group.
func partitionRecords(dataType models.DataType, records []models.Record) []partition {
	switch dataType {
	case models.Medications:
		return partitionMedications(records)
	case models.ImagingMeta:
		return partitionImagingStudies(records)
	case models.ImagingBinary:
		return partitionImagingBinaries(records)
	default:
		// Profile, allergies, conditions, lab results, and self metrics
		// travel as a single blob.
		return []partition{{records: records}}
	}
}

// partitionMedications groups medications by prescription identity: all
// records sharing a PrescriptionID form one blob. The group's partition-key
// fields come from its first record.
func partitionMedications(records []models.Record) []partition {
	index := make(map[string]int, len(records))
	parts := make([]partition, 0, len(records))

	for _, r := range records {
		med := r.(models.Medication)
		i, ok := index[med.PrescriptionID]
		if !ok {
			i = len(parts)
			index[med.PrescriptionID] = i
			parts = append(parts, partition{
				entry: models.MetadataEntry{
					PrescriptionID:   med.PrescriptionID,
					PrescriptionDate: med.PrescriptionDate,
					Clinic:           med.Clinic,
				},
			})
		}
		parts[i].records = append(parts[i].records, r)
	}

	for i := range parts {
		parts[i].entry.MedicationCount = len(parts[i].records)
	}
	return parts
}

// partitionImagingStudies gives every study its own blob so a reader can pull
// one study without decrypting the rest. The entry carries the descriptor
// fields plus the reference to the separately stored binary blob, if any.
func partitionImagingStudies(records []models.Record) []partition {
	parts := make([]partition, 0, len(records))
	for _, r := range records {
		study := r.(models.ImagingStudy)
		parts = append(parts, partition{
			entry: models.MetadataEntry{
				StudyID:      study.StudyID,
				StudyDate:    study.StudyDate,
				Modality:     study.Modality,
				BodyPart:     study.BodyPart,
				BinaryBlobID: study.BinaryBlobID,
			},
			records: []models.Record{r},
		})
	}
	return parts
}

// partitionImagingBinaries isolates each raw payload in its own blob.
func partitionImagingBinaries(records []models.Record) []partition {
	parts := make([]partition, 0, len(records))
	for _, r := range records {
		bin := r.(models.ImagingBinaryRecord)
		parts = append(parts, partition{
			entry:   models.MetadataEntry{StudyID: bin.StudyID},
			records: []models.Record{r},
		})
	}
	return parts
}
