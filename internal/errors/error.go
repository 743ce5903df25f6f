// Package errors provides custom error types for catalog operations.
package errors

import (
	"errors"
	"fmt"
)

// ErrProductNotFound is returned when a requested product does not exist.
var ErrProductNotFound = errors.New("product not found")

// DataValidationError reports input data that failed structural or type
// validation during deserialization, or an invalid-state operation such as
// updating a product that was never persisted.
type DataValidationError struct {
	Message string
}

func (e *DataValidationError) Error() string {
	return e.Message
}

// NewDataValidation builds a DataValidationError with a formatted message.
func NewDataValidation(format string, args ...any) *DataValidationError {
	return &DataValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsDataValidation reports whether err is (or wraps) a DataValidationError.
func IsDataValidation(err error) bool {
	var dve *DataValidationError
	return errors.As(err, &dve)
}
