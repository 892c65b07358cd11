package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity or source does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown loader or splitter type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrSourceParse indicates a source exists but cannot be parsed
	// into documents (invalid CSV, malformed JSON, unreadable file).
	ErrSourceParse = errors.New("source parse failed")

	// ErrConfiguration indicates invalid splitter or loader parameters.
	// Detected eagerly at construction time, never during processing.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrStoreUnavailable indicates the chunk store is not configured.
	// Persistence features are disabled without it.
	ErrStoreUnavailable = errors.New("chunk store unavailable")

	// ErrLoaderClosed indicates the loader has been closed.
	ErrLoaderClosed = errors.New("loader closed")
)
