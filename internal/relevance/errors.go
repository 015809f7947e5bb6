package relevance

import (
	"errors"
	"fmt"
)

// ErrThresholdRange is returned when a threshold lies outside [0,100].
var ErrThresholdRange = errors.New("threshold must be between 0 and 100")

// SchemaError reports a required column that is absent after header
// normalisation. Its message is shown to the operator verbatim.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("File must contain a '%s' column.", e.Column)
}

// IsSchemaError reports whether err is or wraps a *SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}
