package util

import "errors"

var (
	// ErrInvalidArgument marks missing or malformed required input. It is
	// surfaced before any external fetch; no partial work is performed.
	ErrInvalidArgument = errors.New("invalid argument")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPersonaNotFound    = errors.New("persona not found")
	ErrBookNotFound       = errors.New("book not found")
	ErrNoChapters         = errors.New("no chapters found for book")
	ErrPlanNotFound       = errors.New("plan not found")
	ErrExamConfigNotFound = errors.New("exam config not found")
)
