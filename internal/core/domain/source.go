package domain

import "time"

// Source represents a configured document source.
// Each source produces documents via a loader of the given type.
type Source struct {
	// ID is the unique identifier for the source.
	ID string

	// Type identifies the loader type (e.g., "csv", "directory").
	Type string

	// Name is the human-readable name for this source.
	Name string

	// Path is the file or directory the loader reads from.
	Path string

	// Config contains loader-specific configuration.
	Config map[string]any

	// CreatedAt is when the source was created.
	CreatedAt time.Time

	// UpdatedAt is when the source was last updated.
	UpdatedAt time.Time
}

// ChangeType represents the type of document change.
type ChangeType int

const (
	// ChangeCreated indicates a new document.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified document.
	ChangeUpdated

	// ChangeDeleted indicates a removed document.
	ChangeDeleted
)

// DocumentChange represents a change event from a watching loader.
// Used by watch operations on sources that support them.
type DocumentChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Document is the affected document.
	Document Document
}
