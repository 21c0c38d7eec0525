// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CurePocket Authors

package models

// MetadataSchemaVersion is the wire schema version written into every new
// MetadataBlob.
const MetadataSchemaVersion = "3.0.0"

// MetadataBlob is the encrypted index document of one Entry. It lists every
// DataBlob belonging to the entry, one MetadataEntry per blob. The blob is
// always encrypted under the same seal policy as the DataBlobs it references.
type MetadataBlob struct {
	SchemaVersion string          `json:"schema_version"`
	DataType      DataType        `json:"data_type"`
	UpdatedAt     int64           `json:"updated_at"`
	Entries       []MetadataEntry `json:"entries"`
}

// MetadataEntry references one DataBlob from a MetadataBlob and carries the
// DataType-specific partition-key fields a writer needs to decide whether a
// record belongs to an existing blob or requires a new one. Fields that do
// not apply to the entry's DataType stay empty and are omitted on the wire.
type MetadataEntry struct {
	BlobID BlobID `json:"blob_id"`

	// Medication partition keys.
	PrescriptionID   string `json:"prescription_id,omitempty"`
	PrescriptionDate string `json:"prescription_date,omitempty"`
	Clinic           string `json:"clinic,omitempty"`
	MedicationCount  int    `json:"medication_count,omitempty"`

	// Imaging partition keys.
	StudyID      string `json:"study_id,omitempty"`
	StudyDate    string `json:"study_date,omitempty"`
	Modality     string `json:"modality,omitempty"`
	BodyPart     string `json:"body_part,omitempty"`
	BinaryBlobID BlobID `json:"binary_blob_id,omitempty"`
}

// NewMetadataBlob constructs a MetadataBlob for dataType with the current
// schema version, the given logical write timestamp (unix milliseconds), and
// the given entries in order.
func NewMetadataBlob(dataType DataType, updatedAt int64, entries []MetadataEntry) MetadataBlob {
	return MetadataBlob{
		SchemaVersion: MetadataSchemaVersion,
		DataType:      dataType,
		UpdatedAt:     updatedAt,
		Entries:       entries,
	}
}
