// Package rewards implements the point, badge and goal rules.
//
// The engine is pure: it mutates the UserProfile it is handed and reports what
// changed through domain.Outcome. It performs no I/O and holds no per-user
// state, so callers must serialize mutations of a single profile (the account
// store does this with a per-user lock).
//
// Rules:
//   - Register:          +100 points, Newbie
//   - AddGoal:           +20 points, GoalSetter on the first goal
//   - RecordSavings:     +50 points, FirstSaver on the first entry
//   - goal completion:   +200 points, GoalAchiever (once per goal)
//   - correct quiz:      +30 points, QuizWhiz at 3 correct answers
//   - BudgetBoss:        at 500 points, checked after every award
package rewards

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finquest-app/finquest/internal/domain"
)

// Config holds the point value of every rewarded action.
type Config struct {
	RegisterPoints      int64 `toml:"register_points" env:"REGISTER_POINTS"`
	GoalPoints          int64 `toml:"goal_points" env:"GOAL_POINTS"`
	SavingsPoints       int64 `toml:"savings_points" env:"SAVINGS_POINTS"`
	QuizPoints          int64 `toml:"quiz_points" env:"QUIZ_POINTS"`
	GoalCompletedPoints int64 `toml:"goal_completed_points" env:"GOAL_COMPLETED_POINTS"`
}

// Validate rejects negative point values.
func (c Config) Validate() error {
	for name, v := range map[string]int64{
		"register_points":       c.RegisterPoints,
		"goal_points":           c.GoalPoints,
		"savings_points":        c.SavingsPoints,
		"quiz_points":           c.QuizPoints,
		"goal_completed_points": c.GoalCompletedPoints,
	} {
		if v < 0 {
			return fmt.Errorf("rewards.%s must not be negative, got %d", name, v)
		}
	}
	return nil
}

// DefaultConfig returns the standard point values.
func DefaultConfig() Config {
	return Config{
		RegisterPoints:      100,
		GoalPoints:          20,
		SavingsPoints:       50,
		QuizPoints:          30,
		GoalCompletedPoints: 200,
	}
}

// Engine applies reward rules to user profiles.
type Engine struct {
	config Config
	badges []domain.Badge
	now    func() time.Time // injectable clock for testing
	newID  func() string
}

// New creates an engine over the default badge catalog.
func New(cfg Config) *Engine {
	return &Engine{
		config: cfg,
		badges: domain.DefaultBadges(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Config returns the engine's point values.
func (e *Engine) Config() Config { return e.config }

// Badges returns the badge catalog the engine evaluates.
func (e *Engine) Badges() []domain.Badge {
	out := make([]domain.Badge, len(e.badges))
	copy(out, e.badges)
	return out
}

// ─── Points & Badges ────────────────────────────────────────────────────────

// AwardPoints adds amount points and re-evaluates threshold badges.
// Non-positive amounts are ignored so points never decrease.
func (e *Engine) AwardPoints(u *domain.UserProfile, reason domain.AwardReason, amount int64) domain.Outcome {
	var out domain.Outcome
	if amount <= 0 {
		return out
	}
	u.Points += amount
	out.PointsAwarded = amount
	out.Awards = []domain.PointAward{{Reason: reason, Amount: amount}}
	out.BadgesAwarded = e.EvaluateBadges(u)
	return out
}

// AwardBadge grants the badge if the user does not hold it yet.
// Returns true only when the badge is new.
func (e *Engine) AwardBadge(u *domain.UserProfile, badge domain.BadgeID) bool {
	if u.HasBadge(badge) {
		return false
	}
	u.Badges = append(u.Badges, badge)
	return true
}

// EvaluateBadges awards every threshold badge the user now qualifies for and
// returns the ones awarded by this call. Action badges are never awarded here;
// the operation performing the action grants them directly.
func (e *Engine) EvaluateBadges(u *domain.UserProfile) []domain.BadgeID {
	var awarded []domain.BadgeID
	for _, b := range e.badges {
		if u.HasBadge(b.ID) || !e.satisfied(u, b.Criterion) {
			continue
		}
		if e.AwardBadge(u, b.ID) {
			awarded = append(awarded, b.ID)
		}
	}
	return awarded
}

func (e *Engine) satisfied(u *domain.UserProfile, c domain.BadgeCriterion) bool {
	switch c.Kind {
	case domain.CriterionTotalPoints:
		return u.Points >= c.Threshold
	case domain.CriterionQuizCorrectCount:
		return int64(u.CorrectQuizAnswers) >= c.Threshold
	default:
		return false
	}
}

// grant awards an action badge and records it on out.
func (e *Engine) grant(u *domain.UserProfile, badge domain.BadgeID, out *domain.Outcome) {
	if e.AwardBadge(u, badge) {
		out.BadgesAwarded = append(out.BadgesAwarded, badge)
	}
}

// ─── Actions ────────────────────────────────────────────────────────────────

// Register applies the sign-up reward to a fresh profile.
func (e *Engine) Register(u *domain.UserProfile) domain.Outcome {
	out := e.AwardPoints(u, domain.ReasonRegister, e.config.RegisterPoints)
	e.grant(u, domain.BadgeNewbie, &out)
	return out
}

// RecordSavings appends a savings entry and applies its rewards. When goalRef
// names an open goal the amount is also credited to it and completion is
// checked. A completed goal keeps its state; the entry is still logged.
func (e *Engine) RecordSavings(u *domain.UserProfile, amount decimal.Decimal, date time.Time, goalRef string) (domain.SavingsEntry, domain.Outcome, error) {
	var out domain.Outcome
	if !amount.IsPositive() {
		return domain.SavingsEntry{}, out, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, amount)
	}

	idx := -1
	if goalRef != "" {
		if idx = u.GoalIndex(goalRef); idx < 0 {
			return domain.SavingsEntry{}, out, fmt.Errorf("%w: %s", domain.ErrUnknownGoal, goalRef)
		}
	}
	if date.IsZero() {
		date = e.now()
	}

	entry := domain.SavingsEntry{
		ID:     e.newID(),
		Amount: amount,
		Date:   domain.DateOf(date),
	}
	if idx >= 0 && !u.Goals[idx].Completed {
		entry.GoalID = u.Goals[idx].ID
	}
	u.SavingsHistory = append(u.SavingsHistory, entry)

	out.Merge(e.AwardPoints(u, domain.ReasonSavingsLogged, e.config.SavingsPoints))
	e.grant(u, domain.BadgeFirstSaver, &out)

	if entry.GoalID != "" {
		g := &u.Goals[idx]
		g.Saved = g.Saved.Add(amount)
		completion, _ := e.CheckGoalCompletion(u, g)
		out.Merge(completion)
	}
	return entry, out, nil
}

// AddGoal creates an open goal. Every goal earns points; GoalSetter is granted
// on the first one, decided by badge absence rather than by counting goals.
func (e *Engine) AddGoal(u *domain.UserProfile, name string, target decimal.Decimal) (domain.Goal, domain.Outcome, error) {
	var out domain.Outcome
	name = strings.TrimSpace(name)
	if name == "" || !target.IsPositive() {
		return domain.Goal{}, out, fmt.Errorf("%w: name=%q target=%s", domain.ErrInvalidGoal, name, target)
	}

	g := domain.Goal{
		ID:        e.newID(),
		Name:      name,
		Target:    target,
		Saved:     decimal.Zero,
		CreatedAt: e.now(),
	}
	u.Goals = append(u.Goals, g)

	out.Merge(e.AwardPoints(u, domain.ReasonGoalSet, e.config.GoalPoints))
	e.grant(u, domain.BadgeGoalSetter, &out)
	return g, out, nil
}

// RemoveGoal deletes a goal. Points and badges it earned stay.
func (e *Engine) RemoveGoal(u *domain.UserProfile, goalRef string) error {
	idx := u.GoalIndex(goalRef)
	if idx < 0 {
		return fmt.Errorf("%w: %s", domain.ErrUnknownGoal, goalRef)
	}
	u.Goals = append(u.Goals[:idx], u.Goals[idx+1:]...)
	return nil
}

// CheckGoalCompletion moves an open goal whose saved amount reached its target
// to completed and pays the completion reward. It returns true only on that
// transition; repeated calls on a completed goal do nothing.
func (e *Engine) CheckGoalCompletion(u *domain.UserProfile, g *domain.Goal) (domain.Outcome, bool) {
	var out domain.Outcome
	if g.Completed || !g.Reached() {
		return out, false
	}
	g.Completed = true
	out.GoalsCompleted = []string{g.ID}
	out.Merge(e.AwardPoints(u, domain.ReasonGoalCompleted, e.config.GoalCompletedPoints))
	e.grant(u, domain.BadgeGoalAchiever, &out)
	return out, true
}

// RecordQuizAnswer scores one answer. A correct answer earns points and
// counts towards QuizWhiz.
func (e *Engine) RecordQuizAnswer(u *domain.UserProfile, chosen string, q domain.Question) (bool, domain.Outcome) {
	var out domain.Outcome
	if !q.IsCorrect(chosen) {
		return false, out
	}
	u.CorrectQuizAnswers++
	out.Merge(e.AwardPoints(u, domain.ReasonQuizCorrect, e.config.QuizPoints))
	// QuizPoints may be zero, in which case AwardPoints skipped evaluation.
	out.BadgesAwarded = append(out.BadgesAwarded, e.EvaluateBadges(u)...)
	return true, out
}

// TotalSaved returns the exact sum of the user's savings history.
func (e *Engine) TotalSaved(u *domain.UserProfile) decimal.Decimal {
	return u.TotalSaved()
}
