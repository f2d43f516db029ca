// Package domain contains pure business types with no infrastructure imports.
// The reward rules live in app/rewards; this package only describes the shapes
// those rules operate on.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── User Profile ───────────────────────────────────────────────────────────

// UserProfile is the per-user game state. The account store owns it; the
// reward engine receives a pointer and mutates it in place.
type UserProfile struct {
	Username           string         `json:"username"`
	Credential         string         `json:"-"` // opaque to the engine
	Points             int64          `json:"points"`
	Badges             []BadgeID      `json:"badges"` // insertion order kept for display
	Goals              []Goal         `json:"goals"`
	SavingsHistory     []SavingsEntry `json:"savings_history"`
	CorrectQuizAnswers int            `json:"correct_quiz_answers"`
	CreatedAt          time.Time      `json:"created_at"`
}

// NewUserProfile returns an empty profile with zero points and no badges.
func NewUserProfile(username, credential string, now time.Time) *UserProfile {
	return &UserProfile{
		Username:   username,
		Credential: credential,
		Badges:     []BadgeID{},
		Goals:      []Goal{},
		CreatedAt:  now,
	}
}

// HasBadge reports whether the user already holds the badge.
func (u *UserProfile) HasBadge(id BadgeID) bool {
	for _, b := range u.Badges {
		if b == id {
			return true
		}
	}
	return false
}

// GoalIndex returns the position of the goal with the given ID, or -1.
func (u *UserProfile) GoalIndex(id string) int {
	for i := range u.Goals {
		if u.Goals[i].ID == id {
			return i
		}
	}
	return -1
}

// TotalSaved sums every savings entry.
func (u *UserProfile) TotalSaved() decimal.Decimal {
	total := decimal.Zero
	for _, s := range u.SavingsHistory {
		total = total.Add(s.Amount)
	}
	return total
}

// RecentSavings returns up to limit entries, newest first.
// A limit <= 0 returns the whole history.
func (u *UserProfile) RecentSavings(limit int) []SavingsEntry {
	n := len(u.SavingsHistory)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]SavingsEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, u.SavingsHistory[i])
	}
	return out
}

// Clone returns a deep copy so snapshots handed to readers cannot alias
// the stored record.
func (u *UserProfile) Clone() *UserProfile {
	c := *u
	c.Badges = append([]BadgeID{}, u.Badges...)
	c.Goals = append([]Goal{}, u.Goals...)
	c.SavingsHistory = append([]SavingsEntry{}, u.SavingsHistory...)
	return &c
}

// ─── Goals ──────────────────────────────────────────────────────────────────

// Goal is a savings target. Completed flips to true once and never back.
type Goal struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Target    decimal.Decimal `json:"target"`
	Saved     decimal.Decimal `json:"saved"`
	Completed bool            `json:"completed"`
	CreatedAt time.Time       `json:"created_at"`
}

// Progress returns saved/target. It can exceed 1 when contributions overshoot.
func (g Goal) Progress() float64 {
	if !g.Target.IsPositive() {
		return 0
	}
	f, _ := g.Saved.Div(g.Target).Float64()
	return f
}

// ProgressPct returns progress as a percentage clamped to [0, 100].
func (g Goal) ProgressPct() float64 {
	p := g.Progress() * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// Reached reports whether the saved amount has met the target.
func (g Goal) Reached() bool {
	return g.Saved.GreaterThanOrEqual(g.Target)
}

// Remaining returns how much is still missing, never negative.
func (g Goal) Remaining() decimal.Decimal {
	r := g.Target.Sub(g.Saved)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// ─── Savings ────────────────────────────────────────────────────────────────

// SavingsEntry is one logged deposit. Entries are append-only.
type SavingsEntry struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	GoalID string          `json:"goal_id,omitempty"` // set only when the amount went to a goal
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
