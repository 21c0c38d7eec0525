package models

// DataType identifies a logical category of medical records.
// Every Entry, MetadataBlob, and DataBlob belongs to exactly one DataType;
// the reader must know which DataType it is resolving, since the type
// governs both the DataBlob record key and the partitioning rules.
type DataType string

const (
	// Profile represents the record holder's demographic profile
	// (name, birth date, blood type, body measurements).
	Profile DataType = "profile"

	// Medications represents prescribed medications. Records are
	// partitioned into DataBlobs by prescription identity.
	Medications DataType = "medications"

	// Allergies represents known allergies and adverse reactions.
	Allergies DataType = "allergies"

	// Conditions represents diagnosed conditions and medical history.
	Conditions DataType = "conditions"

	// LabResults represents laboratory test results.
	LabResults DataType = "lab-results"

	// ImagingMeta represents imaging study descriptors (modality, body
	// part, study date). Each study occupies its own DataBlob and may
	// reference a separately stored ImagingBinary blob.
	ImagingMeta DataType = "imaging-meta"

	// ImagingBinary represents the raw imaging payload (e.g. a DICOM
	// series archive) referenced from an ImagingMeta record.
	ImagingBinary DataType = "imaging-binary"

	// SelfMetrics represents patient-recorded vitals and measurements
	// (blood pressure, glucose, weight, etc.).
	SelfMetrics DataType = "self-metrics"
)

// knownDataTypes maps every valid DataType to the JSON key under which its
// records appear inside a DataBlob document.
var knownDataTypes = map[DataType]string{
	Profile:       "profile",
	Medications:   "medications",
	Allergies:     "allergies",
	Conditions:    "conditions",
	LabResults:    "labResults",
	ImagingMeta:   "imagingStudies",
	ImagingBinary: "imagingBinaries",
	SelfMetrics:   "selfMetrics",
}

// Known reports whether dt is one of the supported data types.
func (dt DataType) Known() bool {
	_, ok := knownDataTypes[dt]
	return ok
}

// RecordKey returns the JSON key under which records of this DataType are
// stored inside a DataBlob document, or an empty string for an unknown type.
func (dt DataType) RecordKey() string {
	return knownDataTypes[dt]
}

// Record is the closed union of domain record shapes. Every concrete record
// type reports the DataType it belongs to; the sync layer uses this to select
// partitioning and codec behaviour through a single dispatch point.
type Record interface {
	DataType() DataType
}

// ProfileRecord holds the record holder's demographic profile.
// A holder has at most one profile record.
type ProfileRecord struct {
	FullName  string  `json:"fullName"`
	BirthDate string  `json:"birthDate"`
	Sex       string  `json:"sex,omitempty"`
	BloodType string  `json:"bloodType,omitempty"`
	HeightCm  float64 `json:"heightCm,omitempty"`
	WeightKg  float64 `json:"weightKg,omitempty"`
}

func (ProfileRecord) DataType() DataType { return Profile }

// Medication is a single prescribed medication. Medications sharing a
// PrescriptionID travel together in one DataBlob.
type Medication struct {
	// PrescriptionID groups medications issued under one prescription.
	PrescriptionID string `json:"prescriptionId"`

	// PrescriptionDate is the issue date of the prescription (ISO 8601 date).
	PrescriptionDate string `json:"prescriptionDate"`

	// Clinic is the issuing clinic or practitioner.
	Clinic string `json:"clinic,omitempty"`

	Name      string `json:"name"`
	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	Route     string `json:"route,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

func (Medication) DataType() DataType { return Medications }

// Allergy describes a known allergy or adverse reaction.
type Allergy struct {
	Substance string `json:"substance"`
	Reaction  string `json:"reaction,omitempty"`
	Severity  string `json:"severity,omitempty"`
	OnsetDate string `json:"onsetDate,omitempty"`
}

func (Allergy) DataType() DataType { return Allergies }

// Condition describes a diagnosed condition.
type Condition struct {
	Code        string `json:"code,omitempty"`
	Name        string `json:"name"`
	DiagnosedAt string `json:"diagnosedAt,omitempty"`
	Status      string `json:"status,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

func (Condition) DataType() DataType { return Conditions }

// LabResult is a single laboratory measurement.
type LabResult struct {
	TestCode       string `json:"testCode,omitempty"`
	TestName       string `json:"testName"`
	Value          string `json:"value"`
	Unit           string `json:"unit,omitempty"`
	ReferenceRange string `json:"referenceRange,omitempty"`
	CollectedAt    string `json:"collectedAt,omitempty"`
	Lab            string `json:"lab,omitempty"`
}

func (LabResult) DataType() DataType { return LabResults }

// ImagingStudy is the descriptor of one imaging study. The raw image data is
// stored separately as an ImagingBinaryRecord whose blob is referenced by
// BinaryBlobID.
type ImagingStudy struct {
	StudyID     string `json:"studyId"`
	StudyDate   string `json:"studyDate,omitempty"`
	Modality    string `json:"modality,omitempty"`
	BodyPart    string `json:"bodyPart,omitempty"`
	Description string `json:"description,omitempty"`

	// BinaryBlobID is the content address of the encrypted binary blob
	// holding the study's image data, if one was uploaded.
	BinaryBlobID BlobID `json:"binaryBlobId,omitempty"`
}

func (ImagingStudy) DataType() DataType { return ImagingMeta }

// ImagingBinaryRecord carries the raw image payload of one study.
type ImagingBinaryRecord struct {
	StudyID     string `json:"studyId"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size,omitempty"`

	// Content is the raw binary payload, base64-encoded on the wire.
	Content []byte `json:"content"`
}

func (ImagingBinaryRecord) DataType() DataType { return ImagingBinary }

// SelfMetric is a single patient-recorded measurement.
type SelfMetric struct {
	Kind       string  `json:"kind"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit,omitempty"`
	RecordedAt string  `json:"recordedAt,omitempty"`
}

func (SelfMetric) DataType() DataType { return SelfMetrics }
