package services

import "errors"

var (
	ErrSessionNotFound = errors.New("tournament session not found")

	// ErrPersistenceFailure wraps every storage error surfaced by the services.
	ErrPersistenceFailure = errors.New("failed to persist tournament data")

	// ErrSubmissionInProgress rejects edits and repeat submits while a session is being recorded.
	ErrSubmissionInProgress = errors.New("tournament session is already being submitted")

	ErrSequenceResetRefused = errors.New("tournament id sequence can only be reset while no results are stored")
)
