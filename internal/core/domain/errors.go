package domain

import "errors"

// Failure taxonomy shared by the sync engine and its adapters. Remote
// adapters map transport-level failures onto these so callers can branch
// with errors.Is without knowing about HTTP.
var (
	// ErrRemoteUnavailable covers network failures and 5xx responses.
	// Cached state is kept as-is when a refresh fails with it.
	ErrRemoteUnavailable = errors.New("remote service unavailable")

	// ErrNotAuthenticated is returned when an operation needs a resolvable
	// user id and neither the caller nor the session provides one, or when
	// the remote rejects the credentials.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrValidationRejected is returned when the remote refuses a mutation
	// payload. Local caches are left untouched.
	ErrValidationRejected = errors.New("mutation rejected by remote")
)
