package domain

import "errors"

// Sentinel errors classifying the failure modes shared across packages.
// Sites wrap them with fmt.Errorf("...: %w", ...) and callers match with
// errors.Is.
var (
	// ErrConfigMissing reports required configuration that is absent or
	// malformed: env keys, credentials, expected rule-table columns.
	ErrConfigMissing = errors.New("configuration missing")

	// ErrNormalization reports a raw provider record that could not be
	// normalized. The caller drops or flags the record; the batch continues.
	ErrNormalization = errors.New("normalization failed")

	// ErrInvalidArgument reports a caller-supplied value outside the
	// accepted domain, such as a user number below 1.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUserNotFound reports a user number with no settings row.
	ErrUserNotFound = errors.New("user not found")

	// ErrLookupUnresolved reports a name that matched no candidate during
	// id resolution.
	ErrLookupUnresolved = errors.New("lookup unresolved")

	// ErrRemoteCall reports a failed call to an external service.
	ErrRemoteCall = errors.New("remote call failed")
)
