package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors carry no infrastructure dependency.

var (
	// Engine validation errors
	ErrInvalidAmount = errors.New("savings amount must be positive")
	ErrInvalidGoal   = errors.New("goal needs a name and a positive target")
	ErrUnknownGoal   = errors.New("goal not found")

	// Account store errors
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidUsername    = errors.New("username and password must not be empty")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired session token")

	// Quiz errors
	ErrInvalidQuestion     = errors.New("invalid quiz question")
	ErrAlreadyAnswered     = errors.New("question already answered")
	ErrQuestionNotAnswered = errors.New("answer the current question first")
	ErrQuizFinished        = errors.New("all quiz questions completed")
)
