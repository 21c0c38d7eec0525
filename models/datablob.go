// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CurePocket Authors

package models

import (
	"encoding/json"
	"fmt"
)

// DataBlobSchemaVersion is the wire schema version written into the meta
// header of every new DataBlob.
const DataBlobSchemaVersion = "1.0.0"

// DataBlobMeta is the small header embedded in every DataBlob document.
type DataBlobMeta struct {
	SchemaVersion string `json:"schema_version"`
	UpdatedAt     int64  `json:"updated_at"`
	Generator     string `json:"generator"`
}

// EncodeDataBlob serialises a DataBlob document for dataType: the meta header
// under "meta" plus the record array under the DataType's record key.
// Every record must belong to dataType. The result is the pre-encryption
// plaintext handed to the encryption gateway.
func EncodeDataBlob(dataType DataType, meta DataBlobMeta, records []Record) ([]byte, error) {
	key := dataType.RecordKey()
	if key == "" {
		return nil, fmt.Errorf("encode data blob: unknown data type %q", dataType)
	}
	for _, r := range records {
		if r.DataType() != dataType {
			return nil, fmt.Errorf("encode data blob: record of type %q in %q blob", r.DataType(), dataType)
		}
	}

	metaRaw, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encode data blob meta: %w", err)
	}
	recordsRaw, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode data blob records: %w", err)
	}

	doc := map[string]json.RawMessage{
		"meta": metaRaw,
		key:    recordsRaw,
	}
	return json.Marshal(doc)
}

// DecodeDataBlob parses a DataBlob document previously produced by
// EncodeDataBlob (possibly by an older client writing the same schema).
// Records are decoded into the concrete shape of dataType; a document whose
// record key is absent decodes to an empty record slice.
func DecodeDataBlob(dataType DataType, raw []byte) (DataBlobMeta, []Record, error) {
	key := dataType.RecordKey()
	if key == "" {
		return DataBlobMeta{}, nil, fmt.Errorf("decode data blob: unknown data type %q", dataType)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return DataBlobMeta{}, nil, fmt.Errorf("decode data blob document: %w", err)
	}

	var meta DataBlobMeta
	if metaRaw, ok := doc["meta"]; ok {
		if err := json.Unmarshal(metaRaw, &meta); err != nil {
			return DataBlobMeta{}, nil, fmt.Errorf("decode data blob meta: %w", err)
		}
	}

	recordsRaw, ok := doc[key]
	if !ok {
		return meta, nil, nil
	}

	records, err := decodeRecords(dataType, recordsRaw)
	if err != nil {
		return DataBlobMeta{}, nil, err
	}
	return meta, records, nil
}

// decodeRecords is the single dispatch point turning a raw record array into
// the concrete record shape of dataType.
func decodeRecords(dataType DataType, raw json.RawMessage) ([]Record, error) {
	switch dataType {
	case Profile:
		return decodeTyped[ProfileRecord](dataType, raw)
	case Medications:
		return decodeTyped[Medication](dataType, raw)
	case Allergies:
		return decodeTyped[Allergy](dataType, raw)
	case Conditions:
		return decodeTyped[Condition](dataType, raw)
	case LabResults:
		return decodeTyped[LabResult](dataType, raw)
	case ImagingMeta:
		return decodeTyped[ImagingStudy](dataType, raw)
	case ImagingBinary:
		return decodeTyped[ImagingBinaryRecord](dataType, raw)
	case SelfMetrics:
		return decodeTyped[SelfMetric](dataType, raw)
	default:
		return nil, fmt.Errorf("decode records: unknown data type %q", dataType)
	}
}

func decodeTyped[T Record](dataType DataType, raw json.RawMessage) ([]Record, error) {
	var typed []T
	if err := json.Unmarshal(raw, &typed); err != nil {
		return nil, fmt.Errorf("decode %q records: %w", dataType, err)
	}
	records := make([]Record, 0, len(typed))
	for _, r := range typed {
		records = append(records, r)
	}
	return records, nil
}
