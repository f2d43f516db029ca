package domain

// ─── Badges ─────────────────────────────────────────────────────────────────
// Badges come from a closed set. Each has exactly one unlock criterion.

// BadgeID names a badge.
type BadgeID string

const (
	BadgeNewbie       BadgeID = "Newbie"
	BadgeFirstSaver   BadgeID = "FirstSaver"
	BadgeGoalSetter   BadgeID = "GoalSetter"
	BadgeQuizWhiz     BadgeID = "QuizWhiz"
	BadgeBudgetBoss   BadgeID = "BudgetBoss"
	BadgeGoalAchiever BadgeID = "GoalAchiever"
)

// Action identifies a user action that unlocks a badge directly.
type Action string

const (
	ActionRegister     Action = "register"
	ActionFirstSave    Action = "first_save"
	ActionFirstGoal    Action = "first_goal"
	ActionCompleteGoal Action = "complete_goal"
)

// CriterionKind tags the BadgeCriterion variant.
type CriterionKind string

const (
	CriterionOnAction         CriterionKind = "on_action"
	CriterionQuizCorrectCount CriterionKind = "quiz_correct_count"
	CriterionTotalPoints      CriterionKind = "total_points"
)

// BadgeCriterion is the static rule that unlocks a badge.
// Action is set for CriterionOnAction, Threshold for the other two kinds.
type BadgeCriterion struct {
	Kind      CriterionKind `json:"kind" toml:"kind"`
	Action    Action        `json:"action,omitempty" toml:"action"`
	Threshold int64         `json:"threshold,omitempty" toml:"threshold"`
}

// OnAction builds an action-triggered criterion.
func OnAction(a Action) BadgeCriterion {
	return BadgeCriterion{Kind: CriterionOnAction, Action: a}
}

// QuizCorrectCount builds a criterion satisfied after n correct answers.
func QuizCorrectCount(n int64) BadgeCriterion {
	return BadgeCriterion{Kind: CriterionQuizCorrectCount, Threshold: n}
}

// TotalPoints builds a criterion satisfied at t points.
func TotalPoints(t int64) BadgeCriterion {
	return BadgeCriterion{Kind: CriterionTotalPoints, Threshold: t}
}

// Badge describes a badge for display alongside its criterion.
type Badge struct {
	ID          BadgeID        `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Criterion   BadgeCriterion `json:"criterion"`
}

// DefaultBadges returns the badge catalog in display order.
func DefaultBadges() []Badge {
	return []Badge{
		{BadgeNewbie, "Newbie", "Awarded for joining FinQuest", OnAction(ActionRegister)},
		{BadgeFirstSaver, "First Saver", "Awarded for logging your first savings", OnAction(ActionFirstSave)},
		{BadgeGoalSetter, "Goal Setter", "Awarded for setting your first financial goal", OnAction(ActionFirstGoal)},
		{BadgeQuizWhiz, "Quiz Whiz", "Awarded for mastering financial quizzes", QuizCorrectCount(3)},
		{BadgeBudgetBoss, "Budget Boss", "Awarded for accumulating significant points", TotalPoints(500)},
		{BadgeGoalAchiever, "Goal Achiever", "Awarded for successfully completing a financial goal", OnAction(ActionCompleteGoal)},
	}
}

// LookupBadge finds a badge in the given catalog.
func LookupBadge(catalog []Badge, id BadgeID) (Badge, bool) {
	for _, b := range catalog {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
