package domain

import "errors"

// Error taxonomy for commands and sweeps. Callers use errors.Is to map these
// onto transport-level responses.
var (
	// ErrNotFound: the referenced rental, clearance or payment does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized: the caller is not the profile (or role) the command
	// requires. Raised before any state is read or written.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPrecondition: the workflow is not in the stage the command requires.
	// The command is rejected whole; nothing is partially applied.
	ErrPrecondition = errors.New("precondition not met")

	// ErrDataIntegrity: a record references data that should exist but does
	// not (missing product, unresolvable commission rate). Fatal for that
	// record only; sweeps skip it and continue.
	ErrDataIntegrity = errors.New("data integrity violation")

	// ErrConflict: an optimistic stage/status check failed because the record
	// moved concurrently.
	ErrConflict = errors.New("conflicting concurrent update")
)
