package interview

import "errors"

var (
	// ErrProfileMissing is returned when a session is started without a candidate profile.
	ErrProfileMissing = errors.New("interview: candidate profile is required")
	// ErrInvalidProfile is returned when the profile fails validation.
	ErrInvalidProfile = errors.New("interview: invalid candidate profile")
	// ErrSessionTerminated is returned when a turn is submitted to a completed session.
	ErrSessionTerminated = errors.New("interview: session already completed")
	// ErrSessionNotFound is returned by stores and the manager for unknown session ids.
	ErrSessionNotFound = errors.New("interview: session not found")
)
