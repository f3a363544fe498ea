package types

import "errors"

var (
	ErrIndicatorNotFound    = errors.New("indicator not found")
	ErrValueNotFound        = errors.New("indicator value not found")
	ErrSquadNotFound        = errors.New("squad not found")
	ErrProfessionalNotFound = errors.New("professional not found")
	ErrJobRoleNotFound      = errors.New("job role not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrBatchNotFound        = errors.New("import batch not found")

	// ErrValidation marks a missing or malformed required field;
	// surfaced to the caller, never retried.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidPeriodFormat marks a bad month token, rejected before
	// any query is issued.
	ErrInvalidPeriodFormat = errors.New("invalid period format")

	// ErrPersistence marks a store write that failed after every
	// fallback strategy was exhausted.
	ErrPersistence = errors.New("persistence failed")

	// ErrNothingToImport marks a bulk import whose payload produced no
	// valid records; distinct from a successful empty import.
	ErrNothingToImport = errors.New("nothing to import")

	ErrInvalidDriver = errors.New("invalid database driver")
)
