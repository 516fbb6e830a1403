package service

import "errors"

// Error taxonomy shared by every service. Mutations surface these verbatim;
// list queries never fail on missing related records (orphans are skipped).
var (
	// ErrNotFound: a referenced entity is absent.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthorized: the caller lacks ownership or role for a mutation.
	// List queries never return this; out-of-scope listings yield empty
	// results instead.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrAlreadyExists: duplicate email on registration, duplicate active
	// assignment for the same trainee and template.
	ErrAlreadyExists = errors.New("already exists")
	// ErrAlreadyEnrolled: an active enrollment for the (trainee, class)
	// pair already exists.
	ErrAlreadyEnrolled = errors.New("already enrolled")
	// ErrCapacityExceeded: the class has no free spots.
	ErrCapacityExceeded = errors.New("class is full")
	// ErrNotEnrolled: attendance or drop preconditions require an active
	// enrollment the trainee does not hold.
	ErrNotEnrolled = errors.New("not enrolled")
	// ErrValidation: malformed input, e.g. non-positive capacity.
	ErrValidation = errors.New("validation failed")
)
