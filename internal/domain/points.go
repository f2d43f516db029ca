package domain

// ─── Point Awards ───────────────────────────────────────────────────────────
// Points only ever go up. Every award carries the business reason so the
// presentation layer and metrics can tell them apart.

// AwardReason is the business reason for a point award.
type AwardReason string

const (
	ReasonRegister      AwardReason = "REGISTER"
	ReasonGoalSet       AwardReason = "GOAL_SET"
	ReasonSavingsLogged AwardReason = "SAVINGS_LOGGED"
	ReasonQuizCorrect   AwardReason = "QUIZ_CORRECT"
	ReasonGoalCompleted AwardReason = "GOAL_COMPLETED"
)

// PointAward is a single point grant.
type PointAward struct {
	Reason AwardReason `json:"reason"`
	Amount int64       `json:"amount"`
}

// Outcome is what a state-changing engine call did to the profile.
// Callers decide how to surface it; the engine never renders anything.
type Outcome struct {
	PointsAwarded  int64        `json:"points_awarded"`
	Awards         []PointAward `json:"awards,omitempty"`
	BadgesAwarded  []BadgeID    `json:"badges_awarded,omitempty"`
	GoalsCompleted []string     `json:"goals_completed,omitempty"`
}

// Merge folds other into o.
func (o *Outcome) Merge(other Outcome) {
	o.PointsAwarded += other.PointsAwarded
	o.Awards = append(o.Awards, other.Awards...)
	o.BadgesAwarded = append(o.BadgesAwarded, other.BadgesAwarded...)
	o.GoalsCompleted = append(o.GoalsCompleted, other.GoalsCompleted...)
}

// Empty reports whether nothing was awarded.
func (o Outcome) Empty() bool {
	return o.PointsAwarded == 0 && len(o.BadgesAwarded) == 0 && len(o.GoalsCompleted) == 0
}

// HasBadge reports whether the badge was awarded by this outcome.
func (o Outcome) HasBadge(id BadgeID) bool {
	for _, b := range o.BadgesAwarded {
		if b == id {
			return true
		}
	}
	return false
}
