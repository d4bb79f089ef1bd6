package codegen

import "errors"

var (
	// ErrConfiguration is returned before generation starts, e.g. for an anonymous operation.
	ErrConfiguration = errors.New("configuration error")
	// ErrSchemaLookup means a selected field has no counterpart in the schema.
	ErrSchemaLookup = errors.New("schema lookup error")
	// ErrUnsupportedConstruct means the operation uses something the generator cannot flatten or type.
	ErrUnsupportedConstruct = errors.New("unsupported construct")
)
