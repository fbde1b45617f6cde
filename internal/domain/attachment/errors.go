package attachment

import "errors"

var (
	// ErrValidation marks a create request with missing or malformed fields.
	ErrValidation = errors.New("invalid attachment request")

	// ErrNotFound is returned when no store exists for a patient and group.
	ErrNotFound = errors.New("attachment store not found")

	// ErrRecordNotFound is returned when a record id resolves to nothing.
	ErrRecordNotFound = errors.New("attachment record not found")

	// ErrDuplicateID is reported by repositories when an append lost the
	// conditional insert for its candidate identifier.
	ErrDuplicateID = errors.New("record id already taken")

	// ErrConflict is returned when identifier allocation still collides
	// after the bounded number of retries.
	ErrConflict = errors.New("record id conflict not resolved")

	// ErrStorageUnavailable wraps connectivity failures of the persistence
	// layer. It is never folded into "no record found".
	ErrStorageUnavailable = errors.New("attachment storage unavailable")
)
