package schema

import "errors"

// Error types for the schema package.
var (
	// ErrParse is returned when the document is not valid JSON.
	ErrParse = errors.New("invalid JSON document")

	// ErrSchemaVersion is returned when the document's schema_version
	// does not match SupportedVersion.
	ErrSchemaVersion = errors.New("schema version mismatch")

	// ErrMissingField is returned when a required field is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidFieldType is returned when a field has the wrong JSON
	// shape.
	ErrInvalidFieldType = errors.New("invalid field type")

	// ErrUnknownNodeType is returned for an unrecognized content
	// nodetype.
	ErrUnknownNodeType = errors.New("unknown content node type")
)
