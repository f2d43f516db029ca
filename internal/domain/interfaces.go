package domain

import "context"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// ProfileStore persists user profiles, one record per username.
type ProfileStore interface {
	// CreateProfile stores a new profile. Returns ErrDuplicateUsername if taken.
	CreateProfile(ctx context.Context, p *UserProfile) error

	// LoadProfile returns the stored profile. Returns ErrUserNotFound if missing.
	LoadProfile(ctx context.Context, username string) (*UserProfile, error)

	// SaveProfile replaces the stored profile with p.
	SaveProfile(ctx context.Context, p *UserProfile) error

	// ListUsernames returns every stored username in sorted order.
	ListUsernames(ctx context.Context) ([]string, error)

	Close() error
}

// QuizSource is an ordered, finite, restartable sequence of questions.
type QuizSource interface {
	Len() int
	Question(i int) (Question, bool)
}
