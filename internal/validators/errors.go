package validators

import (
	"fmt"

	"github.com/curepocket/pocketsync/models"
)

// ValidationError identifies the field that failed schema validation and the
// data type it belongs to. Raised before any encryption or upload attempt.
type ValidationError struct {
	DataType models.DataType
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s record: field %q %s", e.DataType, e.Field, e.Reason)
}

func invalid(dataType models.DataType, field, reason string) error {
	return &ValidationError{DataType: dataType, Field: field, Reason: reason}
}
