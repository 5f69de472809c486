package validation

import (
	"errors"
	"fmt"
)

// Check identifies which quality gate produced a result or error.
type Check string

const (
	RowCountCheck        Check = "row-count"
	RequiredColumnsCheck Check = "required-columns"
	NumericRangesCheck   Check = "numeric-ranges"
)

// ValidationError is returned when a quality gate fails under its configured
// strictness. Details holds the result of the failing check.
type ValidationError struct {
	Check   Check
	Message string
	Details any
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "validation <nil>"
	}
	return fmt.Sprintf("[%s] %s", e.Check, e.Message)
}

// AsValidationError extracts a ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) && ve != nil {
		return ve, true
	}
	return nil, false
}
