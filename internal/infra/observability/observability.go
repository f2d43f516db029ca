// Package observability exposes Prometheus metrics for the reward economy.
//
// Every state-changing request reports its domain.Outcome here, so the
// counters track points, badges and goal completions as the engine grants them.
package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/finquest-app/finquest/internal/domain"
)

// ─── Reward Metrics ─────────────────────────────────────────────────────────

// PointsAwarded tracks points granted by reason.
var PointsAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "finquest",
	Subsystem: "rewards",
	Name:      "points_awarded_total",
	Help:      "Total points granted, by award reason.",
}, []string{"reason"})

// BadgesAwarded tracks badge unlocks by badge.
var BadgesAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "finquest",
	Subsystem: "rewards",
	Name:      "badges_awarded_total",
	Help:      "Total badges unlocked, by badge.",
}, []string{"badge"})

// GoalsCompleted tracks goals that crossed their target.
var GoalsCompleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "finquest",
	Subsystem: "goals",
	Name:      "completed_total",
	Help:      "Total goals completed.",
})

// ─── Activity Metrics ───────────────────────────────────────────────────────

// SavingsRecorded tracks logged savings entries.
var SavingsRecorded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "finquest",
	Subsystem: "savings",
	Name:      "entries_total",
	Help:      "Total savings entries logged.",
})

// SavingsAmount tracks the summed amount of logged savings.
var SavingsAmount = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "finquest",
	Subsystem: "savings",
	Name:      "amount_total",
	Help:      "Sum of all logged savings amounts.",
})

// QuizAnswers tracks quiz answers by correctness.
var QuizAnswers = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "finquest",
	Subsystem: "quiz",
	Name:      "answers_total",
	Help:      "Total quiz answers, by correctness.",
}, []string{"correct"})

// RegisteredUsers tracks successful registrations.
var RegisteredUsers = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "finquest",
	Subsystem: "accounts",
	Name:      "registered_total",
	Help:      "Total users registered.",
})

// ─── Recorders ──────────────────────────────────────────────────────────────

// RecordOutcome adds an engine outcome to the reward counters.
func RecordOutcome(o domain.Outcome) {
	for _, a := range o.Awards {
		PointsAwarded.WithLabelValues(string(a.Reason)).Add(float64(a.Amount))
	}
	for _, b := range o.BadgesAwarded {
		BadgesAwarded.WithLabelValues(string(b)).Inc()
	}
	GoalsCompleted.Add(float64(len(o.GoalsCompleted)))
}

// RecordSavings counts one savings entry.
func RecordSavings(amount decimal.Decimal) {
	SavingsRecorded.Inc()
	f, _ := amount.Float64()
	SavingsAmount.Add(f)
}

// RecordQuizAnswer counts one quiz answer.
func RecordQuizAnswer(correct bool) {
	QuizAnswers.WithLabelValues(strconv.FormatBool(correct)).Inc()
}
