// errors/schema_errors.go
package errors

import "errors"

var (
	ErrSchemaNotFound   = errors.New("schema not found")
	ErrInvalidSchema    = errors.New("invalid schema definition")
	ErrSchemaLoadFailed = errors.New("failed to load schema")
)
