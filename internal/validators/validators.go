// Package validators checks record payloads against their schema before the
// sync layer encrypts and uploads them. A failed check surfaces as a
// [ValidationError] naming the offending field; nothing is uploaded.
package validators

import (
	"github.com/curepocket/pocketsync/models"
)

// ValidateRecords checks that every record belongs to dataType and carries the
// fields its schema requires. The first violation found is returned.
func ValidateRecords(dataType models.DataType, records []models.Record) error {
	if !dataType.Known() {
		return invalid(dataType, "dataType", "is not a supported data type")
	}
	if len(records) == 0 {
		return invalid(dataType, "records", "must contain at least one record")
	}
	if dataType == models.Profile && len(records) > 1 {
		return invalid(dataType, "records", "must contain exactly one profile record")
	}

	for _, record := range records {
		if record == nil {
			return invalid(dataType, "records", "must not contain nil records")
		}
		if record.DataType() != dataType {
			return invalid(dataType, "records", "must all belong to the written data type")
		}
		if err := validateRecord(record); err != nil {
			return err
		}
	}

	return nil
}

func validateRecord(record models.Record) error {
	switch r := record.(type) {
	case models.ProfileRecord:
		return validateProfile(r)
	case models.Medication:
		return validateMedication(r)
	case models.Allergy:
		return validateAllergy(r)
	case models.Condition:
		return validateCondition(r)
	case models.LabResult:
		return validateLabResult(r)
	case models.ImagingStudy:
		return validateImagingStudy(r)
	case models.ImagingBinaryRecord:
		return validateImagingBinary(r)
	case models.SelfMetric:
		return validateSelfMetric(r)
	default:
		return invalid(record.DataType(), "records", "has an unrecognized record shape")
	}
}

func validateProfile(r models.ProfileRecord) error {
	if r.FullName == "" {
		return invalid(models.Profile, "fullName", "must not be empty")
	}
	if r.BirthDate == "" {
		return invalid(models.Profile, "birthDate", "must not be empty")
	}
	return nil
}

func validateMedication(r models.Medication) error {
	if r.PrescriptionID == "" {
		return invalid(models.Medications, "prescriptionId", "must not be empty")
	}
	if r.PrescriptionDate == "" {
		return invalid(models.Medications, "prescriptionDate", "must not be empty")
	}
	if r.Name == "" {
		return invalid(models.Medications, "name", "must not be empty")
	}
	return nil
}

func validateAllergy(r models.Allergy) error {
	if r.Substance == "" {
		return invalid(models.Allergies, "substance", "must not be empty")
	}
	return nil
}

func validateCondition(r models.Condition) error {
	if r.Name == "" {
		return invalid(models.Conditions, "name", "must not be empty")
	}
	return nil
}

func validateLabResult(r models.LabResult) error {
	if r.TestName == "" {
		return invalid(models.LabResults, "testName", "must not be empty")
	}
	if r.Value == "" {
		return invalid(models.LabResults, "value", "must not be empty")
	}
	return nil
}

func validateImagingStudy(r models.ImagingStudy) error {
	if r.StudyID == "" {
		return invalid(models.ImagingMeta, "studyId", "must not be empty")
	}
	return nil
}

func validateImagingBinary(r models.ImagingBinaryRecord) error {
	if r.StudyID == "" {
		return invalid(models.ImagingBinary, "studyId", "must not be empty")
	}
	if len(r.Content) == 0 {
		return invalid(models.ImagingBinary, "content", "must not be empty")
	}
	return nil
}

func validateSelfMetric(r models.SelfMetric) error {
	if r.Kind == "" {
		return invalid(models.SelfMetrics, "kind", "must not be empty")
	}
	return nil
}
