package domain

import "errors"

var (
	// ErrInsufficientFunds is returned when a pack costs more than the user holds.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrNotFound covers unknown ids and selling a sticker that is not a duplicate.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when registering an email that already exists.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrAuthFailure is returned for unknown emails and wrong passwords alike.
	ErrAuthFailure = errors.New("invalid credentials")
	// ErrEmptyCatalog is returned when drawing from a catalog with no stickers.
	ErrEmptyCatalog = errors.New("sticker catalog is empty")
	// ErrGenerationFailure marks a content generator error. It is absorbed by the fallback generator.
	ErrGenerationFailure = errors.New("content generation failed")

	// ErrSessionNotFound is returned for unknown or expired session tokens.
	ErrSessionNotFound = errors.New("session not found")
	// ErrForbidden is returned when a non-admin calls an admin operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput wraps validation failures.
	ErrInvalidInput = errors.New("invalid input")
	// ErrTopicExhausted signals that no question is available for the topic at the user's level.
	ErrTopicExhausted = errors.New("topic exhausted for current level")
	// ErrEndlessLocked is returned when endless mode is requested before every topic is completed.
	ErrEndlessLocked = errors.New("endless mode locked")
	// ErrQuestionNotFound indicates an answer for a question that was never issued.
	ErrQuestionNotFound = errors.New("question not found")
)
