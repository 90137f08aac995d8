package domain

import "errors"

var (
	// ErrEmptyPool is returned when a session is started with no questions available.
	ErrEmptyPool = errors.New("question pool is empty")
	// ErrClueAlreadyRevealed is returned when the clue for the current question was already shown.
	ErrClueAlreadyRevealed = errors.New("clue already revealed for this question")
	// ErrSessionEnded is returned for any mutation attempted after the pool was exhausted.
	ErrSessionEnded = errors.New("quiz session has ended")
	// ErrSessionNotFound is returned when a session ID is unknown or already finished.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrInvalidArgument marks caller input that can never succeed (bad limit, bad name).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDuplicateClue is returned when a question reuses an existing clue image.
	ErrDuplicateClue = errors.New("clue image already used by another question")
	// ErrPersistence wraps failures of the underlying store.
	ErrPersistence = errors.New("persistence failure")
	// ErrClueNotFound indicates a clue reference that cannot be resolved to an image.
	ErrClueNotFound = errors.New("clue image not found")
)
